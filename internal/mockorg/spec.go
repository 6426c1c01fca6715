// Package mockorg builds a fabricated AWS Organization tree from a
// declarative Spec, the same way
// original_source/orgcrawler/mock/org.py::MockOrganization does for the
// Python test suite. It is driven entirely through the OrganizationsAPI
// interface, so production code wires a real organizations.Client and
// tests wire the in-memory Fake in this package.
package mockorg

// AccountSpec describes one account to create under an OU.
type AccountSpec struct {
	Name     string
	Policies []string
}

// Spec describes one organizational unit (or the root, when used as
// the top-level node) and everything nested under it.
type Spec struct {
	Name     string
	Policies []string
	Accounts []AccountSpec
	Children []Spec
}

// Simple reproduces SIMPLE_ORG_SPEC from the original: one root OU
// carrying policy01, three direct accounts (account01 also carrying
// policy02), and three child OUs (ou01/ou02/ou03, ou01 carrying
// policy03), each with one further nested sub-OU.
func Simple() Spec {
	return Spec{
		Name:     "root",
		Policies: []string{"policy01"},
		Accounts: []AccountSpec{
			{Name: "account01", Policies: []string{"policy02"}},
			{Name: "account02"},
			{Name: "account03"},
		},
		Children: []Spec{
			{Name: "ou01", Policies: []string{"policy03"}, Children: []Spec{{Name: "ou01-sub0"}}},
			{Name: "ou02", Children: []Spec{{Name: "ou02-sub0"}}},
			{Name: "ou03", Children: []Spec{{Name: "ou03-sub0"}}},
		},
	}
}

// Complex reproduces COMPLEX_ORG_SPEC from the original: a root with
// three accounts and two policies, and two child OUs (ou01, ou02) each
// with two accounts and a further two sub-OUs apiece. ou01 and ou02
// carry no policies themselves; the remaining policies attach to some of
// their accounts and to ou01-2.
func Complex() Spec {
	return Spec{
		Name:     "root",
		Policies: []string{"policy01", "policy02"},
		Accounts: []AccountSpec{
			{Name: "account01"},
			{Name: "account02"},
			{Name: "account03"},
		},
		Children: []Spec{
			{
				Name: "ou01",
				Accounts: []AccountSpec{
					{Name: "account04", Policies: []string{"policy01", "policy03", "policy04"}},
					{Name: "account05"},
				},
				Children: []Spec{
					{
						Name: "ou01-1",
						Accounts: []AccountSpec{
							{Name: "account08"},
						},
					},
					{
						Name:     "ou01-2",
						Policies: []string{"policy01", "policy05", "policy06"},
						Accounts: []AccountSpec{
							{Name: "account09"},
							{Name: "account10"},
						},
					},
				},
			},
			{
				Name: "ou02",
				Accounts: []AccountSpec{
					{Name: "account06"},
					{Name: "account07", Policies: []string{"policy01", "policy05", "policy06"}},
				},
				Children: []Spec{
					{
						Name: "ou02-1",
						Accounts: []AccountSpec{
							{Name: "account11"},
						},
					},
					{
						Name: "ou02-2",
						Accounts: []AccountSpec{
							{Name: "account12"},
							{Name: "account13", Policies: []string{"policy03", "policy04"}},
						},
					},
				},
			},
		},
	}
}
