package mockorg

import (
	"context"
	"sort"
	"testing"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

func loadFake(t *testing.T, spec Spec) (*Fake, *org.Organization) {
	t.Helper()
	fake := NewFake()
	builder := NewBuilder(fake)

	ctx := context.Background()
	if _, _, err := builder.Build(ctx, spec); err != nil {
		t.Fatalf("Build: %v", err)
	}

	cacheCfg := org.CacheConfig{Dir: t.TempDir(), File: "cache_file-123456789012", MaxAgeMin: 60}
	o := org.New("123456789012", "myrole", cacheCfg)
	loader := org.NewLoader(fake, 4)
	if err := loader.Load(ctx, o); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return fake, o
}

func TestSimpleScenarioS1(t *testing.T) {
	_, o := loadFake(t, Simple())

	names := o.AccountNames(nil)
	sort.Strings(names)
	want := []string{"account01", "account02", "account03"}
	if len(names) != len(want) {
		t.Fatalf("account names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if len(o.OrgUnits) != 6 {
		t.Errorf("|org_units| = %d, want 6", len(o.OrgUnits))
	}
	if len(o.Policies) != 3 {
		t.Errorf("|policies| = %d, want 3", len(o.Policies))
	}

	policies := o.PoliciesForTarget("account01")
	if len(policies) != 1 || policies[0].Name != "policy02" {
		t.Errorf("PoliciesForTarget(account01) = %v, want [policy02]", policyNames(policies))
	}
}

func TestComplexScenarioS2(t *testing.T) {
	_, o := loadFake(t, Complex())

	if len(o.Accounts) != 13 {
		t.Fatalf("|accounts| = %d, want 13", len(o.Accounts))
	}
	if len(o.Policies) != 6 {
		t.Errorf("|policies| = %d, want 6", len(o.Policies))
	}

	ou02Accounts := o.AccountsInOURecursive("ou02")
	if len(ou02Accounts) != 5 {
		t.Errorf("AccountsInOURecursive(ou02) = %d accounts, want 5", len(ou02Accounts))
	}

	ou02_1Accounts := o.AccountsInOURecursive("ou02-1")
	if len(ou02_1Accounts) != 1 {
		t.Errorf("AccountsInOURecursive(ou02-1) = %d accounts, want 1", len(ou02_1Accounts))
	}
}

func TestComplexScenarioS3PolicyRecursive(t *testing.T) {
	_, o := loadFake(t, Complex())

	accounts := o.AccountsForPolicyRecursive("policy05")
	names := map[string]bool{}
	for _, a := range accounts {
		names[a.Name] = true
	}
	want := []string{"account07", "account09", "account10"}
	if len(names) != len(want) {
		t.Fatalf("AccountsForPolicyRecursive(policy05) = %v, want %v", names, want)
	}
	for _, n := range want {
		if !names[n] {
			t.Errorf("AccountsForPolicyRecursive(policy05) missing %q", n)
		}
	}
}

func policyNames(policies []*org.Policy) []string {
	out := make([]string, len(policies))
	for i, p := range policies {
		out[i] = p.Name
	}
	return out
}
