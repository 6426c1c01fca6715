package crawler

import (
	"context"
	"fmt"
	"sync"

	"github.com/pfrederiksen/orgcrawler/internal/org"
	"github.com/pfrederiksen/orgcrawler/internal/orgerr"
	"github.com/pfrederiksen/orgcrawler/internal/regions"
	"github.com/pfrederiksen/orgcrawler/internal/sts"
	"github.com/pfrederiksen/orgcrawler/internal/workerpool"
)

// Payload is the unit of work a Crawler runs once per account per
// region. account is passed by value, not by pointer: a payload cannot
// mutate the organization or leak changes back to the caller, which is
// what spec.md calls payload isolation enforced structurally rather
// than by convention.
type Payload func(ctx context.Context, region string, account org.Account, args ...any) (any, error)

// Option configures a Crawler at construction time.
type Option func(*options)

type options struct {
	accessRole  string
	accounts    any
	regions     any
	threadCount int
}

// WithAccessRole overrides the role assumed in each account; defaults
// to the organization's own access role.
func WithAccessRole(role string) Option {
	return func(o *options) { o.accessRole = role }
}

// WithAccounts restricts the crawl to specific accounts. accepts a
// single identifier, a slice of identifiers, or *org.Account values;
// nil means every account in the organization.
func WithAccounts(accounts any) Option {
	return func(o *options) { o.accounts = accounts }
}

// WithRegions restricts the crawl to specific regions. Accepts a
// single region string, "GLOBAL", a slice of region strings, or nil
// for every enabled region.
func WithRegions(r any) Option {
	return func(o *options) { o.regions = r }
}

// WithThreadCount overrides the crawler's default worker count
// (len(accounts) per account-credential load, len(accounts) per
// execute task batch).
func WithThreadCount(n int) Option {
	return func(o *options) { o.threadCount = n }
}

// Crawler fans a Payload out across a fixed set of accounts and
// regions. Grounded on original_source/orgcrawler/crawlers.py:Crawler.
type Crawler struct {
	Org        *org.Organization
	AccessRole string
	Accounts   []*org.Account
	Regions    []string
	Executions []*Execution

	broker      *sts.Broker
	lister      regions.Lister
	threadCount int
}

// New builds a Crawler. Account and region selections are resolved and
// validated eagerly so a bad --accounts/--regions flag fails before any
// AWS call is made, not partway through a crawl.
func New(ctx context.Context, organization *org.Organization, broker *sts.Broker, lister regions.Lister, opts ...Option) (*Crawler, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Crawler{
		Org:         organization,
		broker:      broker,
		lister:      lister,
		threadCount: cfg.threadCount,
	}

	c.AccessRole = cfg.accessRole
	if c.AccessRole == "" {
		c.AccessRole = organization.AccessRole
	}

	accounts := cfg.accounts
	if accounts == nil {
		accounts = "ALL"
	}
	if err := c.UpdateAccounts(accounts); err != nil {
		return nil, err
	}
	if err := c.UpdateRegions(ctx, cfg.regions); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateAccounts resets the crawler's account selection. nil empties
// the selection; the literal "ALL" selects every account in the
// organization; otherwise accounts is a single identifier or a slice of
// identifiers (name, id, alias, or *org.Account), each resolved and
// validated against the organization. Grounded on
// crawlers.py:update_accounts/validate_accounts.
func (c *Crawler) UpdateAccounts(accounts any) error {
	if accounts == nil {
		c.Accounts = nil
		return nil
	}
	if accounts == "ALL" {
		c.Accounts = c.Org.Accounts
		return nil
	}

	var identifiers []any
	if list, ok := accounts.([]any); ok {
		identifiers = list
	} else {
		identifiers = []any{accounts}
	}

	resolved := make([]*org.Account, 0, len(identifiers))
	for _, id := range identifiers {
		a := c.Org.GetAccount(id)
		if a == nil {
			return orgerr.New(orgerr.InvalidAccount, fmt.Sprintf("%v", id), fmt.Errorf("%q is not a valid organization account", id))
		}
		resolved = append(resolved, a)
	}
	c.Accounts = resolved
	return nil
}

// UpdateRegions resets the crawler's region selection. nil selects
// every enabled region; "GLOBAL" selects the single us-east-1
// pseudo-region; otherwise regions is a single region string or a
// slice of region strings, validated against the live region catalog.
// Grounded on crawlers.py:update_regions/validate_regions.
func (c *Crawler) UpdateRegions(ctx context.Context, selection any) error {
	if selection == nil {
		all, err := c.lister.AllRegions(ctx)
		if err != nil {
			return err
		}
		c.Regions = all
		return nil
	}
	if s, ok := selection.(string); ok && s == "GLOBAL" {
		c.Regions = []string{"us-east-1"}
		return nil
	}

	var candidates []string
	switch v := selection.(type) {
	case string:
		candidates = []string{v}
	case []string:
		candidates = v
	default:
		return orgerr.New(orgerr.InvalidRegion, "", fmt.Errorf("regions must be a string or []string, got %T", selection))
	}

	all, err := c.lister.AllRegions(ctx)
	if err != nil {
		return err
	}
	valid := make(map[string]bool, len(all))
	for _, r := range all {
		valid[r] = true
	}
	var invalid []string
	for _, r := range candidates {
		if !valid[r] {
			invalid = append(invalid, r)
		}
	}
	if len(invalid) > 0 {
		return orgerr.New(orgerr.InvalidRegion, "", fmt.Errorf("invalid regions: %v", invalid))
	}
	c.Regions = candidates
	return nil
}

// LoadAccountCredentials assumes AccessRole in every selected account,
// storing the resulting credentials on each *org.Account. Fans out
// across the worker pool with one worker per account, mirroring
// crawlers.py:load_account_credentials. The first failure encountered
// is returned after every account has been attempted; peers are never
// aborted early.
func (c *Crawler) LoadAccountCredentials(ctx context.Context) error {
	var mu sync.Mutex
	var firstErr error

	workerpool.Run(c.Accounts, c.batchThreadCount(len(c.Accounts)), func(a *org.Account) {
		creds, err := c.broker.Assume(ctx, a.ID, c.AccessRole)
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			return
		}
		a.Credentials = org.Credentials{
			AccessKeyID:     creds.AccessKeyID,
			SecretAccessKey: creds.SecretAccessKey,
			SessionToken:    creds.SessionToken,
		}
	})
	return firstErr
}

// task is one (account, region) unit of work.
type task struct {
	account *org.Account
	region  string
}

// Execute runs payload once for every (account, region) pair in the
// crawler's current selection, collecting an Execution record.
// Grounded on crawlers.py:Crawler.execute.
func (c *Crawler) Execute(ctx context.Context, name string, payload Payload, args ...any) (*Execution, error) {
	tasks := make([]task, 0, len(c.Accounts)*len(c.Regions))
	for _, region := range c.Regions {
		for _, account := range c.Accounts {
			tasks = append(tasks, task{account: account, region: region})
		}
	}

	execution := &Execution{Name: name}
	execution.Timer.Start()

	var mu sync.Mutex
	workerpool.Run(tasks, c.batchThreadCount(len(c.Accounts)), func(tk task) {
		response := &Response{Region: tk.region, Account: *tk.account}
		response.Timer.Start()

		output, err := payload(ctx, tk.region, *tk.account, args...)
		response.PayloadOutput = output
		response.Err = err

		response.Timer.Stop()

		mu.Lock()
		if err != nil {
			execution.HasErrors = true
		}
		execution.Responses = append(execution.Responses, response)
		mu.Unlock()
	})

	execution.Timer.Stop()
	c.Executions = append(c.Executions, execution)

	if execution.HasErrors {
		reportExecutionErrors(execution)
	}
	return execution, nil
}

// GetExecution returns the most recent Execution run under name, or
// nil if none matches.
func (c *Crawler) GetExecution(name string) *Execution {
	for i := len(c.Executions) - 1; i >= 0; i-- {
		if c.Executions[i].Name == name {
			return c.Executions[i]
		}
	}
	return nil
}

// batchThreadCount defaults to one worker per account, same as
// crawlers.py's thread_count=len(self.accounts), unless the caller
// overrode it with WithThreadCount.
func (c *Crawler) batchThreadCount(fallback int) int {
	if c.threadCount > 0 {
		return c.threadCount
	}
	return fallback
}
