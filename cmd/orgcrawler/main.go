// Command orgcrawler runs a payload function against every account and
// region of an AWS Organization (or a selected subset), printing the
// collected responses as JSON. Grounded on
// original_source/orgcrawler/cli/orgcrawler.py and the teacher's
// cobra-based cmd/aws-access-map/main.go.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"plugin"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/orgcrawler/internal/crawler"
	"github.com/pfrederiksen/orgcrawler/internal/logging"
	"github.com/pfrederiksen/orgcrawler/internal/org"
	"github.com/pfrederiksen/orgcrawler/internal/payloads"
	"github.com/pfrederiksen/orgcrawler/internal/regions"
	orgsts "github.com/pfrederiksen/orgcrawler/internal/sts"
	"github.com/pfrederiksen/orgcrawler/pkg/report"
)

const version = "0.1.0"

var (
	masterRole  string
	accountRole string
	accountsArg string
	regionsArg  string
	serviceArg  string
	payloadFile string
	debugCount  int
	versionFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orgcrawler PAYLOAD [PAYLOAD_ARG...]",
		Short: "Run a payload function against every account/region in an organization",
		Args: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: runCrawl,
	}
	rootCmd.SetContext(context.Background())

	rootCmd.Flags().StringVarP(&masterRole, "master-role", "r", "", "role to assume for organization access")
	rootCmd.Flags().StringVarP(&accountRole, "account-role", "a", "", "role to assume in member accounts (defaults to --master-role)")
	rootCmd.Flags().StringVar(&accountsArg, "accounts", "", "comma-separated account names/ids, or ALL (default)")
	rootCmd.Flags().StringVar(&regionsArg, "regions", "", "comma-separated regions, ALL, or GLOBAL")
	rootCmd.Flags().StringVar(&serviceArg, "service", "", "restrict regions to where this AWS service operates")
	rootCmd.Flags().StringVarP(&payloadFile, "payload-file", "f", "", "Go plugin (.so) file to load the payload from")
	rootCmd.Flags().CountVarP(&debugCount, "debug", "d", "increase logging verbosity (-d, -dd)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "print version and exit")
	_ = rootCmd.MarkFlagRequired("master-role")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "orgcrawler: %v\n", err)
		os.Exit(1)
	}
}

func runCrawl(cmd *cobra.Command, args []string) error {
	if versionFlag {
		fmt.Println(version)
		return nil
	}
	if regionsArg != "" && serviceArg != "" {
		return fmt.Errorf("--regions and --service are mutually exclusive")
	}

	ctx := cmd.Context()
	log := logging.New(debugCount)

	payloadName := args[0]
	payload, err := resolvePayload(payloadName)
	if err != nil {
		return err
	}
	payloadArgs := parsePayloadArgs(args[1:])

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	broker := orgsts.New(sts.NewFromConfig(cfg))
	masterAccountID, err := broker.DiscoverMasterAccountID(ctx, masterRole, orgsts.OrganizationsClientFactoryFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("discover master account id: %w", err)
	}
	log.WithField("master_account_id", masterAccountID).Info("resolved master account")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	myOrg := org.New(masterAccountID, masterRole, org.DefaultCacheConfig(masterAccountID, homeDir))
	loader := org.NewLoader(organizations.NewFromConfig(cfg), 0)
	if err := loader.Load(ctx, myOrg); err != nil {
		return fmt.Errorf("load organization: %w", err)
	}

	role := accountRole
	if role == "" {
		role = masterRole
	}

	catalog := regions.NewCatalog(ec2.NewFromConfig(cfg))
	opts := []crawler.Option{crawler.WithAccessRole(role)}
	if accountsArg != "" && accountsArg != "ALL" {
		opts = append(opts, crawler.WithAccounts(toAnySlice(splitCSV(accountsArg))))
	}
	if regionSelection, err := regionOption(ctx, catalog); err != nil {
		return err
	} else if regionSelection != nil {
		opts = append(opts, regionSelection)
	}

	c, err := crawler.New(ctx, myOrg, orgsts.New(sts.NewFromConfig(cfg)), catalog, opts...)
	if err != nil {
		return fmt.Errorf("build crawler: %w", err)
	}

	if err := c.LoadAccountCredentials(ctx); err != nil {
		return fmt.Errorf("load account credentials: %w", err)
	}

	execution, err := c.Execute(ctx, payloadName, payload, payloadArgs...)
	if err != nil {
		return fmt.Errorf("execute %s: %w", payloadName, err)
	}

	data, err := json.MarshalIndent(report.FormatResponses(execution), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	fmt.Println(string(data))

	if execution.HasErrors {
		os.Exit(1)
	}
	return nil
}

// resolvePayload looks payloadName up in the compiled-in registry, or
// loads it from --payload-file if given.
func resolvePayload(payloadName string) (crawler.Payload, error) {
	if payloadFile != "" {
		return loadPayloadFromFile(payloadFile, payloadName)
	}
	p, ok := payloads.Lookup(payloadName)
	if !ok {
		return nil, fmt.Errorf("unknown payload %q (known payloads: %v)", payloadName, payloads.Names())
	}
	return p, nil
}

// loadPayloadFromFile opens a Go plugin built with `go build
// -buildmode=plugin` and resolves an exported symbol of the payload
// name matching crawler.Payload's signature. This is a best-effort,
// POSIX-only escape hatch: the compiled-in registry is the supported
// path.
func loadPayloadFromFile(file, symbolName string) (crawler.Payload, error) {
	p, err := plugin.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open payload plugin %q: %w", file, err)
	}
	sym, err := p.Lookup(symbolName)
	if err != nil {
		return nil, fmt.Errorf("lookup symbol %q in %q: %w", symbolName, file, err)
	}
	fn, ok := sym.(func(context.Context, string, org.Account, ...any) (any, error))
	if !ok {
		return nil, fmt.Errorf("symbol %q in %q has the wrong signature for a payload", symbolName, file)
	}
	return fn, nil
}

// parsePayloadArgs splits positional payload arguments into bare
// strings (passed through individually) and key=value pairs (bundled
// into one trailing map[string]string), matching the payload functions'
// firstString(args)-style positional access.
func parsePayloadArgs(raw []string) []any {
	var bundled []any
	kv := map[string]string{}
	for _, a := range raw {
		if key, value, ok := strings.Cut(a, "="); ok {
			kv[key] = value
			continue
		}
		bundled = append(bundled, a)
	}
	if len(kv) > 0 {
		bundled = append(bundled, kv)
	}
	return bundled
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// regionOption translates --regions/--service into a crawler.Option, or
// nil when neither was given (crawler defaults to every enabled region).
func regionOption(ctx context.Context, catalog *regions.Catalog) (crawler.Option, error) {
	if serviceArg != "" {
		rs, err := catalog.RegionsForService(ctx, serviceArg)
		if err != nil {
			return nil, err
		}
		return crawler.WithRegions(rs), nil
	}
	if regionsArg != "" {
		rs, err := regions.NormalizeRegionArg(ctx, catalog, regionsArg)
		if err != nil {
			return nil, err
		}
		return crawler.WithRegions(rs), nil
	}
	return nil, nil
}
