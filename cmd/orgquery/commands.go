package main

import "github.com/spf13/cobra"

// zeroArgFunc produces the value one of the zero-argument query
// commands renders.
type zeroArgFunc func() any

func zeroArgCommand(use, short string, fn zeroArgFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(fn())
		},
	}
}

func zeroArgCommands() []*cobra.Command {
	return []*cobra.Command{
		zeroArgCommand("dump", "Dump the full organization", func() any {
			return organization.Dump()
		}),
		zeroArgCommand("dump-accounts", "Dump every account", func() any {
			return organization.DumpAccounts(nil)
		}),
		zeroArgCommand("dump-org-units", "Dump every organizational unit", func() any {
			return organization.OrgUnits
		}),
		zeroArgCommand("dump-policies", "Dump every policy", func() any {
			return organization.Policies
		}),
		zeroArgCommand("list-accounts-by-name", "List every account name", func() any {
			return organization.AccountNames(nil)
		}),
		zeroArgCommand("list-accounts-by-id", "List every account id", func() any {
			return organization.AccountIDs(nil)
		}),
		zeroArgCommand("list-org-units-by-name", "List every organizational unit name", func() any {
			return organization.OrgUnitNames(nil)
		}),
		zeroArgCommand("list-org-units-by-id", "List every organizational unit id", func() any {
			return organization.OrgUnitIDs(nil)
		}),
		zeroArgCommand("list-policies-by-name", "List every policy name", func() any {
			return organization.PolicyNames(nil)
		}),
		zeroArgCommand("list-policies-by-id", "List every policy id", func() any {
			return organization.PolicyIDs(nil)
		}),
	}
}

// oneArgFunc produces the value one of the one-argument query commands
// renders, given its positional identifier.
type oneArgFunc func(identifier string) any

func oneArgCommand(use, short string, fn oneArgFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(fn(args[0]))
		},
	}
}

func oneArgCommands() []*cobra.Command {
	return []*cobra.Command{
		oneArgCommand("get-account <identifier>", "Get an account by id, name, or alias", func(id string) any {
			return organization.GetAccount(id)
		}),
		oneArgCommand("get-account-id-by-name <name>", "Get an account's id by its name", func(name string) any {
			return organization.AccountIDByName(name)
		}),
		oneArgCommand("get-account-name-by-id <id>", "Get an account's name by its id", func(id string) any {
			return organization.AccountNameByID(id)
		}),
		oneArgCommand("get-org-unit <identifier>", "Get an organizational unit by id or name", func(id string) any {
			return organization.GetOrgUnit(id)
		}),
		oneArgCommand("get-org-unit-id <identifier>", "Get an organizational unit's id, or root's", func(id string) any {
			return organization.GetOrgUnitID(id)
		}),
		oneArgCommand("list-accounts-in-ou <ou>", "List accounts directly under an OU", func(id string) any {
			return organization.AccountsInOU(id)
		}),
		oneArgCommand("list-accounts-in-ou-recursive <ou>", "List every account under an OU", func(id string) any {
			return organization.AccountsInOURecursive(id)
		}),
		oneArgCommand("list-org-units-in-ou <ou>", "List organizational units directly under an OU", func(id string) any {
			return organization.OrgUnitsInOU(id)
		}),
		oneArgCommand("list-org-units-in-ou-recursive <ou>", "List every organizational unit under an OU", func(id string) any {
			return organization.OrgUnitsInOURecursive(id)
		}),
		oneArgCommand("get-policy <identifier>", "Get a policy by id or name", func(id string) any {
			return organization.GetPolicy(id)
		}),
		oneArgCommand("get-policy-id-by-name <name>", "Get a policy's id by its name", func(name string) any {
			return organization.PolicyIDByName(name)
		}),
		oneArgCommand("get-policy-name-by-id <id>", "Get a policy's name by its id", func(id string) any {
			return organization.PolicyNameByID(id)
		}),
		oneArgCommand("get-targets-for-policy <identifier>", "List a policy's attachment targets", func(id string) any {
			return organization.TargetsForPolicy(id)
		}),
		oneArgCommand("get-policies-for-target <identifier>", "List policies attached to an account or OU", func(id string) any {
			return organization.PoliciesForTarget(id)
		}),
		oneArgCommand("get-accounts-for-policy-recursive <identifier>", "List every account subject to a policy", func(id string) any {
			return organization.AccountsForPolicyRecursive(id)
		}),
	}
}
