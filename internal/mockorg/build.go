package mockorg

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/pfrederiksen/orgcrawler/internal/scpdoc"
)

// OrganizationsAPI is the subset of the organizations client Build
// needs to fabricate an org tree. A real client satisfies it directly;
// tests use Fake.
type OrganizationsAPI interface {
	CreateOrganization(ctx context.Context, params *organizations.CreateOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.CreateOrganizationOutput, error)
	DescribeOrganization(ctx context.Context, params *organizations.DescribeOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error)
	ListRoots(ctx context.Context, params *organizations.ListRootsInput, optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error)
	CreateOrganizationalUnit(ctx context.Context, params *organizations.CreateOrganizationalUnitInput, optFns ...func(*organizations.Options)) (*organizations.CreateOrganizationalUnitOutput, error)
	CreatePolicy(ctx context.Context, params *organizations.CreatePolicyInput, optFns ...func(*organizations.Options)) (*organizations.CreatePolicyOutput, error)
	AttachPolicy(ctx context.Context, params *organizations.AttachPolicyInput, optFns ...func(*organizations.Options)) (*organizations.AttachPolicyOutput, error)
	CreateAccount(ctx context.Context, params *organizations.CreateAccountInput, optFns ...func(*organizations.Options)) (*organizations.CreateAccountOutput, error)
	MoveAccount(ctx context.Context, params *organizations.MoveAccountInput, optFns ...func(*organizations.Options)) (*organizations.MoveAccountOutput, error)
}

// Builder fabricates an org tree against an OrganizationsAPI,
// deduplicating policies by name the way _policy_gen does (a policy
// named "policy01" attached to three different targets is created
// once and attached three times).
type Builder struct {
	client   OrganizationsAPI
	policies map[string]string // name -> id
}

// NewBuilder wraps client for use by Build.
func NewBuilder(client OrganizationsAPI) *Builder {
	return &Builder{client: client, policies: make(map[string]string)}
}

// Build creates the organization described by spec and returns the
// resulting org id and root id. Grounded on
// MockOrganization.build/_load_org/_mock_org_gen.
func (b *Builder) Build(ctx context.Context, spec Spec) (orgID, rootID string, err error) {
	if _, err := b.client.CreateOrganization(ctx, &organizations.CreateOrganizationInput{
		FeatureSet: orgtypes.OrganizationFeatureSetAll,
	}); err != nil {
		return "", "", fmt.Errorf("create organization: %w", err)
	}

	descOut, err := b.client.DescribeOrganization(ctx, &organizations.DescribeOrganizationInput{})
	if err != nil {
		return "", "", fmt.Errorf("describe organization: %w", err)
	}
	orgID = aws.ToString(descOut.Organization.Id)

	rootsOut, err := b.client.ListRoots(ctx, &organizations.ListRootsInput{})
	if err != nil {
		return "", "", fmt.Errorf("list roots: %w", err)
	}
	rootID = aws.ToString(rootsOut.Roots[0].Id)

	if err := b.generate(ctx, rootID, rootID, spec); err != nil {
		return "", "", err
	}
	return orgID, rootID, nil
}

// generate recreates _mock_org_gen: the top-level spec node maps onto
// the pre-existing root (ouID == rootID), every nested Spec gets a
// freshly created OU.
func (b *Builder) generate(ctx context.Context, rootID, ouID string, spec Spec) error {
	for _, name := range spec.Policies {
		if err := b.attachPolicy(ctx, name, ouID); err != nil {
			return err
		}
	}
	for _, account := range spec.Accounts {
		if err := b.createAccount(ctx, rootID, ouID, account); err != nil {
			return err
		}
	}
	for _, child := range spec.Children {
		childID, err := b.createOU(ctx, ouID, child.Name)
		if err != nil {
			return err
		}
		if err := b.generate(ctx, rootID, childID, child); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) createOU(ctx context.Context, parentID, name string) (string, error) {
	out, err := b.client.CreateOrganizationalUnit(ctx, &organizations.CreateOrganizationalUnitInput{
		ParentId: aws.String(parentID),
		Name:     aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("create organizational unit %q: %w", name, err)
	}
	return aws.ToString(out.OrganizationalUnit.Id), nil
}

func (b *Builder) attachPolicy(ctx context.Context, name, targetID string) error {
	id, ok := b.policies[name]
	if !ok {
		out, err := b.client.CreatePolicy(ctx, &organizations.CreatePolicyInput{
			Name:        aws.String(name),
			Type:        orgtypes.PolicyTypeServiceControlPolicy,
			Content:     aws.String(scpdoc.JSON()),
			Description: aws.String("Mock service control policy"),
		})
		if err != nil {
			return fmt.Errorf("create policy %q: %w", name, err)
		}
		id = aws.ToString(out.Policy.PolicySummary.Id)
		b.policies[name] = id
	}
	if _, err := b.client.AttachPolicy(ctx, &organizations.AttachPolicyInput{
		PolicyId: aws.String(id),
		TargetId: aws.String(targetID),
	}); err != nil {
		return fmt.Errorf("attach policy %q to %q: %w", name, targetID, err)
	}
	return nil
}

func (b *Builder) createAccount(ctx context.Context, rootID, ouID string, account AccountSpec) error {
	out, err := b.client.CreateAccount(ctx, &organizations.CreateAccountInput{
		AccountName: aws.String(account.Name),
		Email:       aws.String(account.Name + "@example.com"),
	})
	if err != nil {
		return fmt.Errorf("create account %q: %w", account.Name, err)
	}
	accountID := aws.ToString(out.CreateAccountStatus.AccountId)

	if _, err := b.client.MoveAccount(ctx, &organizations.MoveAccountInput{
		AccountId:           aws.String(accountID),
		SourceParentId:      aws.String(rootID),
		DestinationParentId: aws.String(ouID),
	}); err != nil {
		return fmt.Errorf("move account %q: %w", account.Name, err)
	}

	for _, name := range account.Policies {
		if err := b.attachPolicy(ctx, name, accountID); err != nil {
			return err
		}
	}
	return nil
}
