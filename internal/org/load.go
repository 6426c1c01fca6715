package org

import (
	"context"
	"fmt"
	"sync"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/pfrederiksen/orgcrawler/internal/orgerr"
	"github.com/pfrederiksen/orgcrawler/internal/workerpool"
)

// OrganizationsClient is the subset of the organizations client the
// loader calls, so tests can substitute an in-memory fake (see
// internal/mockorg).
type OrganizationsClient interface {
	DescribeOrganization(ctx context.Context, params *organizations.DescribeOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error)
	ListRoots(ctx context.Context, params *organizations.ListRootsInput, optFns ...func(*organizations.Options)) (*organizations.ListRootsOutput, error)
	ListAccounts(ctx context.Context, params *organizations.ListAccountsInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error)
	ListOrganizationalUnitsForParent(ctx context.Context, params *organizations.ListOrganizationalUnitsForParentInput, optFns ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error)
	ListParents(ctx context.Context, params *organizations.ListParentsInput, optFns ...func(*organizations.Options)) (*organizations.ListParentsOutput, error)
	ListPolicies(ctx context.Context, params *organizations.ListPoliciesInput, optFns ...func(*organizations.Options)) (*organizations.ListPoliciesOutput, error)
	ListTargetsForPolicy(ctx context.Context, params *organizations.ListTargetsForPolicyInput, optFns ...func(*organizations.Options)) (*organizations.ListTargetsForPolicyOutput, error)
	ListPoliciesForTarget(ctx context.Context, params *organizations.ListPoliciesForTargetInput, optFns ...func(*organizations.Options)) (*organizations.ListPoliciesForTargetOutput, error)
}

// Loader populates an Organization from the live Organizations API,
// or from cache when one is fresh enough. Grounded on
// original_source/orgcrawler/orgs.py:Org.load and its private
// _load_org/_load_accounts/_load_org_units/_load_policies helpers.
type Loader struct {
	Client      OrganizationsClient
	ThreadCount int
	RetryBudget int
}

// NewLoader builds a Loader. threadCount <= 0 means one worker per item
// in each fan-out batch; the pagination retry budget mirrors
// utils.py:handle_nexttoken_and_retries's max_retry=4 default.
func NewLoader(client OrganizationsClient, threadCount int) *Loader {
	return &Loader{Client: client, ThreadCount: threadCount, RetryBudget: 4}
}

// Load populates org from cache if a fresh one exists, otherwise from
// the live API, saving a fresh cache afterward. It mirrors
// Org.load()'s cache-then-fallback-to-live structure exactly.
func (l *Loader) Load(ctx context.Context, org *Organization) error {
	cached, err := LoadCache(org.Cache)
	if err == nil {
		org.ID = cached.ID
		org.RootID = cached.RootID
		org.Accounts = cached.Accounts
		org.OrgUnits = cached.OrgUnits
		org.Policies = cached.Policies
		return nil
	}

	if err := l.loadLive(ctx, org); err != nil {
		return err
	}
	return SaveCache(org)
}

// loadLive performs the four live-discovery passes against the
// Organizations API: describe the org and root, list accounts, walk
// the OU tree, and load policies with their targets.
func (l *Loader) loadLive(ctx context.Context, org *Organization) error {
	descOut, err := l.Client.DescribeOrganization(ctx, &organizations.DescribeOrganizationInput{})
	if err != nil {
		return orgerr.Wrap("", err)
	}
	org.ID = awssdk.ToString(descOut.Organization.Id)

	rootsOut, err := l.Client.ListRoots(ctx, &organizations.ListRootsInput{})
	if err != nil {
		return orgerr.Wrap("", err)
	}
	if len(rootsOut.Roots) == 0 {
		return orgerr.New(orgerr.Transport, "", fmt.Errorf("organization has no root"))
	}
	org.RootID = awssdk.ToString(rootsOut.Roots[0].Id)

	accounts, err := l.loadAccounts(ctx, org)
	if err != nil {
		return err
	}
	org.Accounts = accounts

	units, err := l.loadOrgUnits(ctx, org, org.RootID)
	if err != nil {
		return err
	}
	org.OrgUnits = units

	policies, err := l.loadPolicies(ctx, org)
	if err != nil {
		return err
	}
	org.Policies = policies

	return nil
}

// loadAccounts lists every account in the organization, skips any not
// yet fully created (no Name), then fans out over the bounded worker
// pool to resolve each account's parent OU and attached policy ids.
// Mirrors _load_accounts's queue_threads fan-out.
func (l *Loader) loadAccounts(ctx context.Context, org *Organization) ([]*Account, error) {
	var rawAccounts []orgtypes.Account
	err := paginate(ctx, l.RetryBudget, func(token *string) (*string, error) {
		out, err := l.Client.ListAccounts(ctx, &organizations.ListAccountsInput{NextToken: token})
		if err != nil {
			return nil, err
		}
		rawAccounts = append(rawAccounts, out.Accounts...)
		return out.NextToken, nil
	})
	if err != nil {
		return nil, orgerr.Wrap("", err)
	}

	live := make([]orgtypes.Account, 0, len(rawAccounts))
	for _, a := range rawAccounts {
		if a.Name != nil {
			live = append(live, a)
		}
	}

	accounts := make([]*Account, len(live))
	var mu sync.Mutex
	var firstErr error
	workerpool.Run(indices(len(live)), l.threadCount(len(live)), func(i int) {
		a := live[i]
		id := awssdk.ToString(a.Id)

		parentID, perr := l.parentID(ctx, id)
		if perr != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = perr
			}
			mu.Unlock()
			return
		}

		policyIDs, perr := l.attachedPolicyIDs(ctx, id)
		if perr != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = perr
			}
			mu.Unlock()
			return
		}

		accounts[i] = &Account{
			Base: Base{
				OrganizationID:    org.ID,
				MasterAccountID:   org.MasterAccountID,
				Name:              awssdk.ToString(a.Name),
				ID:                id,
				ParentID:          parentID,
				AttachedPolicyIDs: policyIDs,
			},
			Email: awssdk.ToString(a.Email),
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return accounts, nil
}

// loadOrgUnits walks the OU tree depth-first starting at parentID,
// mirroring _recurse_organization's recursive ListOrganizationalUnitsForParent
// traversal.
func (l *Loader) loadOrgUnits(ctx context.Context, org *Organization, parentID string) ([]*OrganizationalUnit, error) {
	var units []orgtypes.OrganizationalUnit
	err := paginate(ctx, l.RetryBudget, func(token *string) (*string, error) {
		out, err := l.Client.ListOrganizationalUnitsForParent(ctx, &organizations.ListOrganizationalUnitsForParentInput{
			ParentId:  awssdk.String(parentID),
			NextToken: token,
		})
		if err != nil {
			return nil, err
		}
		units = append(units, out.OrganizationalUnits...)
		return out.NextToken, nil
	})
	if err != nil {
		return nil, orgerr.Wrap("", err)
	}

	var result []*OrganizationalUnit
	for _, u := range units {
		id := awssdk.ToString(u.Id)
		policyIDs, err := l.attachedPolicyIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, &OrganizationalUnit{
			Base: Base{
				OrganizationID:    org.ID,
				MasterAccountID:   org.MasterAccountID,
				Name:              awssdk.ToString(u.Name),
				ID:                id,
				ParentID:          parentID,
				AttachedPolicyIDs: policyIDs,
			},
		})

		children, err := l.loadOrgUnits(ctx, org, id)
		if err != nil {
			return nil, err
		}
		result = append(result, children...)
	}
	return result, nil
}

// loadPolicies lists every service control policy and fans out across
// the worker pool to load each one's targets, mirroring _load_policies.
func (l *Loader) loadPolicies(ctx context.Context, org *Organization) ([]*Policy, error) {
	var rawPolicies []orgtypes.PolicySummary
	err := paginate(ctx, l.RetryBudget, func(token *string) (*string, error) {
		out, err := l.Client.ListPolicies(ctx, &organizations.ListPoliciesInput{
			Filter:    orgtypes.PolicyTypeServiceControlPolicy,
			NextToken: token,
		})
		if err != nil {
			return nil, err
		}
		rawPolicies = append(rawPolicies, out.Policies...)
		return out.NextToken, nil
	})
	if err != nil {
		return nil, orgerr.Wrap("", err)
	}

	policies := make([]*Policy, len(rawPolicies))
	var mu sync.Mutex
	var firstErr error
	workerpool.Run(indices(len(rawPolicies)), l.threadCount(len(rawPolicies)), func(i int) {
		p := rawPolicies[i]
		id := awssdk.ToString(p.Id)

		targets, perr := l.policyTargets(ctx, id)
		if perr != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = perr
			}
			mu.Unlock()
			return
		}

		policies[i] = &Policy{
			Base: Base{
				OrganizationID:  org.ID,
				MasterAccountID: org.MasterAccountID,
				Name:            awssdk.ToString(p.Name),
				ID:              id,
			},
			Targets: targets,
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return policies, nil
}

func (l *Loader) parentID(ctx context.Context, accountID string) (string, error) {
	out, err := l.Client.ListParents(ctx, &organizations.ListParentsInput{ChildId: awssdk.String(accountID)})
	if err != nil {
		return "", orgerr.Wrap(accountID, err)
	}
	if len(out.Parents) == 0 {
		return "", nil
	}
	return awssdk.ToString(out.Parents[0].Id), nil
}

func (l *Loader) attachedPolicyIDs(ctx context.Context, targetID string) ([]string, error) {
	var ids []string
	err := paginate(ctx, l.RetryBudget, func(token *string) (*string, error) {
		out, err := l.Client.ListPoliciesForTarget(ctx, &organizations.ListPoliciesForTargetInput{
			TargetId:  awssdk.String(targetID),
			Filter:    orgtypes.PolicyTypeServiceControlPolicy,
			NextToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, p := range out.Policies {
			ids = append(ids, awssdk.ToString(p.Id))
		}
		return out.NextToken, nil
	})
	if err != nil {
		return nil, orgerr.Wrap(targetID, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (l *Loader) policyTargets(ctx context.Context, policyID string) ([]PolicyTarget, error) {
	var targets []PolicyTarget
	err := paginate(ctx, l.RetryBudget, func(token *string) (*string, error) {
		out, err := l.Client.ListTargetsForPolicy(ctx, &organizations.ListTargetsForPolicyInput{
			PolicyId:  awssdk.String(policyID),
			NextToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, t := range out.Targets {
			targets = append(targets, PolicyTarget{
				TargetID:   awssdk.ToString(t.TargetId),
				TargetType: PolicyTargetType(t.Type),
				Name:       awssdk.ToString(t.Name),
				ARN:        awssdk.ToString(t.Arn),
			})
		}
		return out.NextToken, nil
	})
	if err != nil {
		return nil, orgerr.Wrap(policyID, err)
	}
	if targets == nil {
		targets = []PolicyTarget{}
	}
	return targets, nil
}

// threadCount picks a worker count proportional to the batch, honoring
// an explicit override, same as the Python original spawning
// thread_count=len(accounts) threads per batch.
func (l *Loader) threadCount(batchSize int) int {
	if l.ThreadCount > 0 {
		return l.ThreadCount
	}
	return batchSize
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// paginate drives a NextToken-based list call to completion, retrying
// throttled calls up to retryBudget times with a one second backoff.
// Grounded on utils.py:handle_nexttoken_and_retries.
func paginate(ctx context.Context, retryBudget int, call func(token *string) (*string, error)) error {
	var token *string
	attempts := 0
	for {
		next, err := call(token)
		if err != nil {
			if orgerr.IsRetryable(err) && attempts < retryBudget {
				attempts++
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Second):
				}
				continue
			}
			return err
		}
		attempts = 0
		if next == nil || awssdk.ToString(next) == "" {
			return nil
		}
		token = next
	}
}
