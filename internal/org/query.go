package org

// Query methods on Organization. Grounded on
// original_source/orgcrawler/orgs.py's query surface (get_account,
// get_org_unit, list_accounts_in_ou(_recursive),
// get_policies_for_target, get_accounts_for_policy_recursive, etc).
// PoliciesForTarget and AccountsForPolicyRecursive resolve the
// original's "None or empty" branches to nil for "not found" and an
// empty (never nil) slice for "found but no members" — see the decision
// recorded for spec.md's get_policies_for_target question in the design
// ledger. The OU listing queries return nil whenever nothing matches.

// AccountNames returns the names of accountList, or of every account
// in the organization when accountList is nil.
func (o *Organization) AccountNames(accountList []*Account) []string {
	if accountList == nil {
		accountList = o.Accounts
	}
	names := make([]string, len(accountList))
	for i, a := range accountList {
		names[i] = a.Name
	}
	return names
}

// AccountIDs returns the ids of accountList, or of every account in
// the organization when accountList is nil.
func (o *Organization) AccountIDs(accountList []*Account) []string {
	if accountList == nil {
		accountList = o.Accounts
	}
	ids := make([]string, len(accountList))
	for i, a := range accountList {
		ids[i] = a.ID
	}
	return ids
}

// AccountIDByName returns the id of the account named name, or "" if
// none matches.
func (o *Organization) AccountIDByName(name string) string {
	for _, a := range o.Accounts {
		if a.Name == name {
			return a.ID
		}
	}
	return ""
}

// AccountNameByID returns the name of the account with the given id,
// or "" if none matches.
func (o *Organization) AccountNameByID(id string) string {
	for _, a := range o.Accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return ""
}

// GetAccount resolves identifier to its Account, or nil if none
// matches. identifier may be an *Account already (returned as-is,
// mirroring orgs.py's isinstance(identifier, OrgAccount) shortcut), or
// a string name, id, or alias.
func (o *Organization) GetAccount(identifier any) *Account {
	if a, ok := identifier.(*Account); ok {
		return a
	}
	s, ok := identifier.(string)
	if !ok {
		return nil
	}
	for _, a := range o.Accounts {
		if s == a.Name || s == a.ID {
			return a
		}
		for _, alias := range a.Aliases {
			if s == alias {
				return a
			}
		}
	}
	return nil
}

// OrgUnitNames returns the names of ouList, or of every OU in the
// organization when ouList is nil.
func (o *Organization) OrgUnitNames(ouList []*OrganizationalUnit) []string {
	if ouList == nil {
		ouList = o.OrgUnits
	}
	names := make([]string, len(ouList))
	for i, u := range ouList {
		names[i] = u.Name
	}
	return names
}

// OrgUnitIDs returns the ids of ouList, or of every OU in the
// organization when ouList is nil.
func (o *Organization) OrgUnitIDs(ouList []*OrganizationalUnit) []string {
	if ouList == nil {
		ouList = o.OrgUnits
	}
	ids := make([]string, len(ouList))
	for i, u := range ouList {
		ids[i] = u.ID
	}
	return ids
}

// GetOrgUnit resolves identifier (a name or id) to its
// OrganizationalUnit, or nil if no OU matches. It does not match the
// root itself; use GetOrgUnitID for that case. identifier may already
// be an *OrganizationalUnit, returned as-is.
func (o *Organization) GetOrgUnit(identifier any) *OrganizationalUnit {
	if u, ok := identifier.(*OrganizationalUnit); ok {
		return u
	}
	s, ok := identifier.(string)
	if !ok {
		return nil
	}
	for _, u := range o.OrgUnits {
		if s == u.Name || s == u.ID {
			return u
		}
	}
	return nil
}

// GetOrgUnitID resolves identifier to an OU id, special-casing "root"
// and the root id itself the way get_org_unit_id does, since the root
// is never itself an entry in OrgUnits.
func (o *Organization) GetOrgUnitID(identifier any) string {
	if s, ok := identifier.(string); ok && (s == "root" || s == o.RootID) {
		return o.RootID
	}
	if u := o.GetOrgUnit(identifier); u != nil {
		return u.ID
	}
	return ""
}

// OrgUnitsInOU returns the OUs for which ou is the direct parent.
func (o *Organization) OrgUnitsInOU(ou any) []*OrganizationalUnit {
	ouID := o.GetOrgUnitID(ou)
	var result []*OrganizationalUnit
	for _, u := range o.OrgUnits {
		if u.ParentID == ouID {
			result = append(result, u)
		}
	}
	return result
}

// AccountsInOU returns the accounts for which ou is the direct parent.
func (o *Organization) AccountsInOU(ou any) []*Account {
	ouID := o.GetOrgUnitID(ou)
	var result []*Account
	for _, a := range o.Accounts {
		if a.ParentID == ouID {
			result = append(result, a)
		}
	}
	return result
}

// OrgUnitsInOURecursive returns every OU for which ou is an ancestor,
// at any depth.
func (o *Organization) OrgUnitsInOURecursive(ou any) []*OrganizationalUnit {
	children := o.OrgUnitsInOU(ou)
	result := append([]*OrganizationalUnit{}, children...)
	for _, child := range children {
		result = append(result, o.OrgUnitsInOURecursive(child.ID)...)
	}
	return result
}

// AccountsInOURecursive returns every account under ou, at any depth.
func (o *Organization) AccountsInOURecursive(ou any) []*Account {
	result := o.AccountsInOU(ou)
	for _, child := range o.OrgUnitsInOURecursive(ou) {
		result = append(result, o.AccountsInOU(child.ID)...)
	}
	return result
}

// PolicyNames returns the names of policyList, or of every policy in
// the organization when policyList is nil.
func (o *Organization) PolicyNames(policyList []*Policy) []string {
	if policyList == nil {
		policyList = o.Policies
	}
	names := make([]string, len(policyList))
	for i, p := range policyList {
		names[i] = p.Name
	}
	return names
}

// PolicyIDs returns the ids of policyList, or of every policy in the
// organization when policyList is nil.
func (o *Organization) PolicyIDs(policyList []*Policy) []string {
	if policyList == nil {
		policyList = o.Policies
	}
	ids := make([]string, len(policyList))
	for i, p := range policyList {
		ids[i] = p.ID
	}
	return ids
}

// GetPolicy resolves identifier to its Policy, or nil. identifier may
// already be a *Policy, returned as-is, or a string name or id.
func (o *Organization) GetPolicy(identifier any) *Policy {
	if p, ok := identifier.(*Policy); ok {
		return p
	}
	s, ok := identifier.(string)
	if !ok {
		return nil
	}
	for _, p := range o.Policies {
		if s == p.Name || s == p.ID {
			return p
		}
	}
	return nil
}

// GetPolicyID resolves identifier to a policy id, or "" if not found.
func (o *Organization) GetPolicyID(identifier any) string {
	if p := o.GetPolicy(identifier); p != nil {
		return p.ID
	}
	return ""
}

// PolicyIDByName returns the id of the policy named name, or "".
func (o *Organization) PolicyIDByName(name string) string {
	for _, p := range o.Policies {
		if p.Name == name {
			return p.ID
		}
	}
	return ""
}

// PolicyNameByID returns the name of the policy with the given id, or "".
func (o *Organization) PolicyNameByID(id string) string {
	for _, p := range o.Policies {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

// TargetsForPolicy returns the targets of the policy identified by
// identifier, or nil if no such policy exists.
func (o *Organization) TargetsForPolicy(identifier any) []PolicyTarget {
	p := o.GetPolicy(identifier)
	if p == nil {
		return nil
	}
	return p.Targets
}

// PoliciesForTarget returns the policies attached to the account or OU
// identified by identifier. Unlike the Python original (which returns
// None for "not found" and also None when the target exists but has no
// attached policies), this always returns an empty, non-nil slice when
// the target exists, and nil only when identifier resolves to neither
// an account nor an OU. See the design ledger for this resolution.
func (o *Organization) PoliciesForTarget(identifier any) []*Policy {
	var attachedIDs []string
	switch {
	case o.GetAccount(identifier) != nil:
		attachedIDs = o.GetAccount(identifier).AttachedPolicyIDs
	case o.GetOrgUnit(identifier) != nil:
		attachedIDs = o.GetOrgUnit(identifier).AttachedPolicyIDs
	default:
		return nil
	}

	idSet := make(map[string]bool, len(attachedIDs))
	for _, id := range attachedIDs {
		idSet[id] = true
	}

	result := []*Policy{}
	for _, p := range o.Policies {
		if idSet[p.ID] {
			result = append(result, p)
		}
	}
	return result
}

// AccountsForPolicyRecursive returns every account subject to the
// policy identified by identifier, resolving ROOT/OU targets down to
// their member accounts and deduplicating by account id. Returns nil
// if no such policy exists.
func (o *Organization) AccountsForPolicyRecursive(identifier any) []*Account {
	p := o.GetPolicy(identifier)
	if p == nil {
		return nil
	}

	seen := make(map[string]bool)
	var result []*Account
	add := func(a *Account) {
		if a != nil && !seen[a.ID] {
			seen[a.ID] = true
			result = append(result, a)
		}
	}

	for _, target := range p.Targets {
		switch target.TargetType {
		case TargetAccount:
			add(o.GetAccount(target.TargetID))
		case TargetRoot, TargetOrganizationalUnit:
			for _, a := range o.AccountsInOURecursive(target.TargetID) {
				add(a)
			}
		}
	}
	if result == nil {
		result = []*Account{}
	}
	return result
}
