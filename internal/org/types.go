// Package org implements the Organization data model, the cached
// loader, and the in-memory query surface described in the design
// (components B and C). It is grounded on
// original_source/orgcrawler/orgs.py, reworked from classical
// inheritance into a set of concrete structs sharing a Base field
// instead of a dispatch hierarchy.
package org

// Base holds the attributes shared by every node in the organization
// tree (accounts, organizational units, policies). It deliberately is
// not an interface: Account, OrganizationalUnit, and Policy all embed
// it, and queries operate on the concrete slice types directly rather
// than through a dispatched OrgObject interface.
type Base struct {
	OrganizationID    string   `json:"organization_id"`
	MasterAccountID   string   `json:"master_account_id"`
	Name              string   `json:"name"`
	ID                string   `json:"id"`
	ParentID          string   `json:"parent_id"`
	AttachedPolicyIDs []string `json:"attached_policy_ids"`
}

// Credentials is the opaque bundle minted by the credential broker.
// Fields are exported so payloads can build an AWS config from them,
// but the JSON tag keeps it out of any cache dump.
type Credentials struct {
	AccessKeyID     string `json:"-"`
	SecretAccessKey string `json:"-"`
	SessionToken    string `json:"-"`
}

// Empty reports whether no credentials have been loaded yet.
func (c Credentials) Empty() bool {
	return c.AccessKeyID == ""
}

// Account is a member account of the organization.
type Account struct {
	Base
	Email       string      `json:"email"`
	Aliases     []string    `json:"aliases,omitempty"`
	Credentials Credentials `json:"-"`
}

// OrganizationalUnit groups accounts (and other OUs) under the root.
type OrganizationalUnit struct {
	Base
}

// PolicyTargetType is the kind of node a policy can be attached to.
type PolicyTargetType string

const (
	TargetRoot                 PolicyTargetType = "ROOT"
	TargetOrganizationalUnit   PolicyTargetType = "ORGANIZATIONAL_UNIT"
	TargetAccount              PolicyTargetType = "ACCOUNT"
)

// PolicyTarget is one attachment point of a policy.
type PolicyTarget struct {
	TargetID   string           `json:"target_id"`
	TargetType PolicyTargetType `json:"target_type"`
	Name       string           `json:"name"`
	ARN        string           `json:"arn"`
}

// Policy is a service-control policy and the targets it is attached to.
type Policy struct {
	Base
	Targets []PolicyTarget `json:"targets"`
}

// CacheConfig controls where and for how long the loader's local cache
// is trusted. The zero value is not usable; use DefaultCacheConfig.
type CacheConfig struct {
	Dir          string
	File         string
	MaxAgeMin    int
	RetryBudget  int
}

// DefaultCacheConfig returns the spec's documented defaults:
// ~/.orgcrawler-cache/cache_file-<masterAccountID>, a 60 minute
// freshness window, and a 4-attempt pagination retry budget.
func DefaultCacheConfig(masterAccountID string, homeDir string) CacheConfig {
	return CacheConfig{
		Dir:         homeDir + "/.orgcrawler-cache",
		File:        "cache_file-" + masterAccountID,
		MaxAgeMin:   60,
		RetryBudget: 4,
	}
}

// Organization is the root aggregate: a master account, the access role
// used to discover it, and the accounts/OUs/policies discovered (or
// restored from cache) beneath it.
type Organization struct {
	MasterAccountID string
	AccessRole      string
	ID              string
	RootID          string

	Accounts []*Account
	OrgUnits []*OrganizationalUnit
	Policies []*Policy

	Cache CacheConfig
}

// New creates an unloaded Organization. Call a Loader's Load to
// populate it.
func New(masterAccountID, accessRole string, cache CacheConfig) *Organization {
	return &Organization{
		MasterAccountID: masterAccountID,
		AccessRole:      accessRole,
		Cache:           cache,
	}
}

// dump is the plain-data, JSON-serializable shape of an Organization
// emitted by the `dump` query command; it has the same fields and JSON
// tags as the cache file's snapshot type.
// Credentials are never part of it: Account.Credentials carries json:"-"
// tags, so even a naive reuse of Account here could not leak them.
type dump struct {
	ID       string                `json:"id"`
	RootID   string                `json:"root_id"`
	Accounts []*Account            `json:"accounts"`
	OrgUnits []*OrganizationalUnit `json:"org_units"`
	Policies []*Policy             `json:"policies"`
}

// Dump returns the plain-data representation of the organization, the
// shape persisted to cache and emitted by `orgquery dump`.
func (o *Organization) Dump() any {
	return dump{
		ID:       o.ID,
		RootID:   o.RootID,
		Accounts: o.Accounts,
		OrgUnits: o.OrgUnits,
		Policies: o.Policies,
	}
}

// DumpAccounts returns the plain-data representation of the given
// accounts, or all accounts in the organization when accountList is nil.
func (o *Organization) DumpAccounts(accountList []*Account) []*Account {
	if accountList == nil {
		return o.Accounts
	}
	return accountList
}
