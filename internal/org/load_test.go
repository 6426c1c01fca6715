package org

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/smithy-go"
)

// fakeOrgClient is a minimal in-memory stand-in for the organizations
// client, built directly against the flat account/OU/policy lists the
// loader assembles, rather than pulling in internal/mockorg (which
// builds the same shape from a declarative Spec for the CLI-facing
// scenario tests).
type fakeOrgClient struct {
	orgID  string
	rootID string

	accounts []orgtypes.Account
	// parentOf maps account or OU id to its parent id.
	parentOf map[string]string
	// childUnits maps OU id (or rootID) to its direct child OUs.
	childUnits map[string][]orgtypes.OrganizationalUnit
	policies   []orgtypes.PolicySummary
	// targetsOf maps policy id to its targets.
	targetsOf map[string][]orgtypes.PolicyTargetSummary
	// attachedTo maps account/OU id to the policy ids attached to it.
	attachedTo map[string][]orgtypes.PolicySummary

	throttleFirstNCalls int
	calls               int
}

func (f *fakeOrgClient) maybeThrottle() error {
	f.calls++
	if f.calls <= f.throttleFirstNCalls {
		return &smithy.GenericAPIError{Code: "TooManyRequestsException", Message: "slow down"}
	}
	return nil
}

func (f *fakeOrgClient) DescribeOrganization(ctx context.Context, params *organizations.DescribeOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error) {
	return &organizations.DescribeOrganizationOutput{
		Organization: &orgtypes.Organization{Id: aws.String(f.orgID)},
	}, nil
}

func (f *fakeOrgClient) ListRoots(ctx context.Context, params *organizations.ListRootsInput, optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error) {
	return &organizations.ListRootsOutput{
		Roots: []orgtypes.Root{{Id: aws.String(f.rootID)}},
	}, nil
}

func (f *fakeOrgClient) ListAccounts(ctx context.Context, params *organizations.ListAccountsInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error) {
	if err := f.maybeThrottle(); err != nil {
		return nil, err
	}
	return &organizations.ListAccountsOutput{Accounts: f.accounts}, nil
}

func (f *fakeOrgClient) ListOrganizationalUnitsForParent(ctx context.Context, params *organizations.ListOrganizationalUnitsForParentInput, optFns ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error) {
	parent := aws.ToString(params.ParentId)
	return &organizations.ListOrganizationalUnitsForParentOutput{
		OrganizationalUnits: f.childUnits[parent],
	}, nil
}

func (f *fakeOrgClient) ListParents(ctx context.Context, params *organizations.ListParentsInput, optFns ...func(*organizations.Options)) (*organizations.ListParentsOutput, error) {
	child := aws.ToString(params.ChildId)
	parent := f.parentOf[child]
	return &organizations.ListParentsOutput{
		Parents: []orgtypes.Parent{{Id: aws.String(parent)}},
	}, nil
}

func (f *fakeOrgClient) ListPolicies(ctx context.Context, params *organizations.ListPoliciesInput, optFns ...func(*organizations.Options)) (*organizations.ListPoliciesOutput, error) {
	return &organizations.ListPoliciesOutput{Policies: f.policies}, nil
}

func (f *fakeOrgClient) ListTargetsForPolicy(ctx context.Context, params *organizations.ListTargetsForPolicyInput, optFns ...func(*organizations.Options)) (*organizations.ListTargetsForPolicyOutput, error) {
	id := aws.ToString(params.PolicyId)
	return &organizations.ListTargetsForPolicyOutput{Targets: f.targetsOf[id]}, nil
}

func (f *fakeOrgClient) ListPoliciesForTarget(ctx context.Context, params *organizations.ListPoliciesForTargetInput, optFns ...func(*organizations.Options)) (*organizations.ListPoliciesForTargetOutput, error) {
	id := aws.ToString(params.TargetId)
	return &organizations.ListPoliciesForTargetOutput{Policies: f.attachedTo[id]}, nil
}

// simpleOrgFixture builds a minimal org (smaller than the S1 scenario
// in internal/mockorg): the root with two accounts, no child OUs, no
// policies.
func simpleOrgFixture() *fakeOrgClient {
	return &fakeOrgClient{
		orgID:  "o-simple",
		rootID: "r-root",
		accounts: []orgtypes.Account{
			{Id: aws.String("111111111111"), Name: aws.String("account-one"), Email: aws.String("one@example.com")},
			{Id: aws.String("222222222222"), Name: aws.String("account-two"), Email: aws.String("two@example.com")},
		},
		parentOf: map[string]string{
			"111111111111": "r-root",
			"222222222222": "r-root",
		},
		childUnits: map[string][]orgtypes.OrganizationalUnit{},
		attachedTo: map[string][]orgtypes.PolicySummary{},
	}
}

func TestLoadLiveSimpleOrg(t *testing.T) {
	client := simpleOrgFixture()
	loader := NewLoader(client, 4)
	o := New("000000000000", "OrganizationAccountAccessRole", testCacheConfigNoDisk())

	if err := loader.loadLive(context.Background(), o); err != nil {
		t.Fatalf("loadLive: %v", err)
	}

	if o.ID != "o-simple" || o.RootID != "r-root" {
		t.Errorf("org identity = %+v", o)
	}
	if len(o.Accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(o.Accounts))
	}
	if len(o.OrgUnits) != 0 {
		t.Errorf("got %d org units, want 0", len(o.OrgUnits))
	}
	if a := o.GetAccount("account-one"); a == nil || a.ParentID != "r-root" {
		t.Errorf("account-one = %+v", a)
	}
}

func TestLoadLiveSkipsAccountsWithoutName(t *testing.T) {
	client := simpleOrgFixture()
	client.accounts = append(client.accounts, orgtypes.Account{Id: aws.String("333333333333")})

	loader := NewLoader(client, 4)
	o := New("000000000000", "role", testCacheConfigNoDisk())
	if err := loader.loadLive(context.Background(), o); err != nil {
		t.Fatalf("loadLive: %v", err)
	}
	if len(o.Accounts) != 2 {
		t.Errorf("got %d accounts, want 2 (pending account should be skipped)", len(o.Accounts))
	}
}

func TestLoadLiveNestedOUsAndPolicies(t *testing.T) {
	client := &fakeOrgClient{
		orgID:  "o-complex",
		rootID: "r-root",
		accounts: []orgtypes.Account{
			{Id: aws.String("111111111111"), Name: aws.String("web"), Email: aws.String("web@example.com")},
			{Id: aws.String("222222222222"), Name: aws.String("db"), Email: aws.String("db@example.com")},
		},
		parentOf: map[string]string{
			"111111111111": "ou-prod",
			"222222222222": "ou-prod",
			"ou-prod":      "r-root",
		},
		childUnits: map[string][]orgtypes.OrganizationalUnit{
			"r-root": {{Id: aws.String("ou-prod"), Name: aws.String("prod")}},
		},
		policies: []orgtypes.PolicySummary{
			{Id: aws.String("p-deny"), Name: aws.String("deny-s3")},
		},
		targetsOf: map[string][]orgtypes.PolicyTargetSummary{
			"p-deny": {{TargetId: aws.String("ou-prod"), Type: orgtypes.TargetTypeOrganizationalUnit, Name: aws.String("prod")}},
		},
		attachedTo: map[string][]orgtypes.PolicySummary{
			"ou-prod": {{Id: aws.String("p-deny"), Name: aws.String("deny-s3")}},
		},
	}

	loader := NewLoader(client, 4)
	o := New("000000000000", "role", testCacheConfigNoDisk())
	if err := loader.loadLive(context.Background(), o); err != nil {
		t.Fatalf("loadLive: %v", err)
	}

	if len(o.OrgUnits) != 1 || o.OrgUnits[0].Name != "prod" {
		t.Fatalf("org units = %+v", o.OrgUnits)
	}
	if len(o.OrgUnits[0].AttachedPolicyIDs) != 1 || o.OrgUnits[0].AttachedPolicyIDs[0] != "p-deny" {
		t.Errorf("prod OU attached policies = %v", o.OrgUnits[0].AttachedPolicyIDs)
	}
	if o.OrgUnits[0].OrganizationID != "o-complex" || o.OrgUnits[0].MasterAccountID != "000000000000" {
		t.Errorf("prod OU org/master ids = %q/%q, want o-complex/000000000000", o.OrgUnits[0].OrganizationID, o.OrgUnits[0].MasterAccountID)
	}
	if len(o.Policies) != 1 || len(o.Policies[0].Targets) != 1 {
		t.Fatalf("policies = %+v", o.Policies)
	}
	if o.Policies[0].OrganizationID != "o-complex" || o.Policies[0].MasterAccountID != "000000000000" {
		t.Errorf("deny-s3 policy org/master ids = %q/%q, want o-complex/000000000000", o.Policies[0].OrganizationID, o.Policies[0].MasterAccountID)
	}

	accounts := o.AccountsInOURecursive("root")
	if len(accounts) != 2 {
		t.Errorf("AccountsInOURecursive(root) = %v, want 2 accounts", accounts)
	}
}

func TestPaginateRetriesThrottledCallsWithinBudget(t *testing.T) {
	client := simpleOrgFixture()
	client.throttleFirstNCalls = 2

	loader := NewLoader(client, 4)
	loader.RetryBudget = 4
	o := New("000000000000", "role", testCacheConfigNoDisk())

	if err := loader.loadLive(context.Background(), o); err != nil {
		t.Fatalf("loadLive should have retried through transient throttling: %v", err)
	}
}

func TestPaginateGivesUpAfterRetryBudget(t *testing.T) {
	client := simpleOrgFixture()
	client.throttleFirstNCalls = 999

	loader := NewLoader(client, 4)
	loader.RetryBudget = 1
	o := New("000000000000", "role", testCacheConfigNoDisk())

	if err := loader.loadLive(context.Background(), o); err == nil {
		t.Fatal("expected error once retry budget is exhausted")
	}
}

func testCacheConfigNoDisk() CacheConfig {
	return CacheConfig{Dir: "", File: "", MaxAgeMin: 60, RetryBudget: 4}
}
