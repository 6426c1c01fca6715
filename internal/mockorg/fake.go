package mockorg

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
)

// Fake is an in-memory stand-in for the organizations client. It
// implements both OrganizationsAPI (so Builder can create a tree
// against it) and the read side that internal/org.Loader needs, so a
// single Fake instance can drive an end-to-end scenario test: build a
// tree with mockorg.Builder, then load it through org.Loader, then
// exercise the query surface and crawler against the result.
type Fake struct {
	mu sync.Mutex

	orgID  string
	rootID string
	seq    int

	ous        map[string]ouRecord
	accounts   map[string]accountRecord
	policies   map[string]policyRecord
	targets    map[string][]orgtypes.PolicyTargetSummary
	attachedTo map[string][]orgtypes.PolicySummary
}

type ouRecord struct {
	id, name, parentID string
}

type accountRecord struct {
	id, name, email, parentID string
}

type policyRecord struct {
	id, name string
}

// NewFake builds an empty Fake, ready for CreateOrganization.
func NewFake() *Fake {
	return &Fake{
		ous:        make(map[string]ouRecord),
		accounts:   make(map[string]accountRecord),
		policies:   make(map[string]policyRecord),
		targets:    make(map[string][]orgtypes.PolicyTargetSummary),
		attachedTo: make(map[string][]orgtypes.PolicySummary),
	}
}

func (f *Fake) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%06d", prefix, f.seq)
}

func (f *Fake) CreateOrganization(ctx context.Context, params *organizations.CreateOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.CreateOrganizationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orgID = "o-" + f.nextID("mock")
	f.rootID = "r-" + f.nextID("root")
	return &organizations.CreateOrganizationOutput{
		Organization: &orgtypes.Organization{Id: aws.String(f.orgID)},
	}, nil
}

func (f *Fake) DescribeOrganization(ctx context.Context, params *organizations.DescribeOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &organizations.DescribeOrganizationOutput{
		Organization: &orgtypes.Organization{Id: aws.String(f.orgID)},
	}, nil
}

func (f *Fake) ListRoots(ctx context.Context, params *organizations.ListRootsInput, optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &organizations.ListRootsOutput{
		Roots: []orgtypes.Root{{Id: aws.String(f.rootID)}},
	}, nil
}

func (f *Fake) CreateOrganizationalUnit(ctx context.Context, params *organizations.CreateOrganizationalUnitInput, optFns ...func(*organizations.Options)) (*organizations.CreateOrganizationalUnitOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("ou")
	rec := ouRecord{id: id, name: aws.ToString(params.Name), parentID: aws.ToString(params.ParentId)}
	f.ous[id] = rec
	return &organizations.CreateOrganizationalUnitOutput{
		OrganizationalUnit: &orgtypes.OrganizationalUnit{Id: aws.String(id), Name: aws.String(rec.name)},
	}, nil
}

func (f *Fake) CreatePolicy(ctx context.Context, params *organizations.CreatePolicyInput, optFns ...func(*organizations.Options)) (*organizations.CreatePolicyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("p")
	name := aws.ToString(params.Name)
	f.policies[id] = policyRecord{id: id, name: name}
	return &organizations.CreatePolicyOutput{
		Policy: &orgtypes.Policy{
			PolicySummary: &orgtypes.PolicySummary{Id: aws.String(id), Name: aws.String(name)},
			Content:       params.Content,
		},
	}, nil
}

func (f *Fake) AttachPolicy(ctx context.Context, params *organizations.AttachPolicyInput, optFns ...func(*organizations.Options)) (*organizations.AttachPolicyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	policyID := aws.ToString(params.PolicyId)
	targetID := aws.ToString(params.TargetId)
	policy := f.policies[policyID]

	targetType, targetName := f.describeTarget(targetID)

	f.targets[policyID] = append(f.targets[policyID], orgtypes.PolicyTargetSummary{
		TargetId: aws.String(targetID),
		Type:     targetType,
		Name:     aws.String(targetName),
	})
	f.attachedTo[targetID] = append(f.attachedTo[targetID], orgtypes.PolicySummary{
		Id:   aws.String(policyID),
		Name: aws.String(policy.name),
	})
	return &organizations.AttachPolicyOutput{}, nil
}

// describeTarget must be called with f.mu held.
func (f *Fake) describeTarget(targetID string) (orgtypes.TargetType, string) {
	if targetID == f.rootID {
		return orgtypes.TargetTypeRoot, "root"
	}
	if ou, ok := f.ous[targetID]; ok {
		return orgtypes.TargetTypeOrganizationalUnit, ou.name
	}
	if a, ok := f.accounts[targetID]; ok {
		return orgtypes.TargetTypeAccount, a.name
	}
	return orgtypes.TargetTypeAccount, ""
}

func (f *Fake) CreateAccount(ctx context.Context, params *organizations.CreateAccountInput, optFns ...func(*organizations.Options)) (*organizations.CreateAccountOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("%012d", 100000000000+f.seq)
	rec := accountRecord{
		id:       id,
		name:     aws.ToString(params.AccountName),
		email:    aws.ToString(params.Email),
		parentID: f.rootID,
	}
	f.accounts[id] = rec
	return &organizations.CreateAccountOutput{
		CreateAccountStatus: &orgtypes.CreateAccountStatus{
			AccountId: aws.String(id),
			State:     orgtypes.CreateAccountStateSucceeded,
		},
	}, nil
}

func (f *Fake) MoveAccount(ctx context.Context, params *organizations.MoveAccountInput, optFns ...func(*organizations.Options)) (*organizations.MoveAccountOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.ToString(params.AccountId)
	rec := f.accounts[id]
	rec.parentID = aws.ToString(params.DestinationParentId)
	f.accounts[id] = rec
	return &organizations.MoveAccountOutput{}, nil
}

func (f *Fake) ListAccounts(ctx context.Context, params *organizations.ListAccountsInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	accounts := make([]orgtypes.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		accounts = append(accounts, orgtypes.Account{
			Id:    aws.String(a.id),
			Name:  aws.String(a.name),
			Email: aws.String(a.email),
		})
	}
	return &organizations.ListAccountsOutput{Accounts: accounts}, nil
}

func (f *Fake) ListOrganizationalUnitsForParent(ctx context.Context, params *organizations.ListOrganizationalUnitsForParentInput, optFns ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parent := aws.ToString(params.ParentId)
	var units []orgtypes.OrganizationalUnit
	for _, ou := range f.ous {
		if ou.parentID == parent {
			units = append(units, orgtypes.OrganizationalUnit{Id: aws.String(ou.id), Name: aws.String(ou.name)})
		}
	}
	return &organizations.ListOrganizationalUnitsForParentOutput{OrganizationalUnits: units}, nil
}

func (f *Fake) ListParents(ctx context.Context, params *organizations.ListParentsInput, optFns ...func(*organizations.Options)) (*organizations.ListParentsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	child := aws.ToString(params.ChildId)
	var parentID string
	if a, ok := f.accounts[child]; ok {
		parentID = a.parentID
	} else if ou, ok := f.ous[child]; ok {
		parentID = ou.parentID
	}
	return &organizations.ListParentsOutput{Parents: []orgtypes.Parent{{Id: aws.String(parentID)}}}, nil
}

func (f *Fake) ListPolicies(ctx context.Context, params *organizations.ListPoliciesInput, optFns ...func(*organizations.Options)) (*organizations.ListPoliciesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	policies := make([]orgtypes.PolicySummary, 0, len(f.policies))
	for _, p := range f.policies {
		policies = append(policies, orgtypes.PolicySummary{Id: aws.String(p.id), Name: aws.String(p.name)})
	}
	return &organizations.ListPoliciesOutput{Policies: policies}, nil
}

func (f *Fake) ListTargetsForPolicy(ctx context.Context, params *organizations.ListTargetsForPolicyInput, optFns ...func(*organizations.Options)) (*organizations.ListTargetsForPolicyOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.ToString(params.PolicyId)
	return &organizations.ListTargetsForPolicyOutput{Targets: f.targets[id]}, nil
}

func (f *Fake) ListPoliciesForTarget(ctx context.Context, params *organizations.ListPoliciesForTargetInput, optFns ...func(*organizations.Options)) (*organizations.ListPoliciesForTargetOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.ToString(params.TargetId)
	return &organizations.ListPoliciesForTargetOutput{Policies: f.attachedTo[id]}, nil
}
