// Command orgquery answers read-only questions about a cached or
// freshly-loaded AWS Organization: dump its contents, list accounts,
// organizational units, and policies, and resolve relationships between
// them. Grounded on original_source/orgcrawler/cli/orgquery.py and the
// teacher's cobra-based cmd/aws-access-map/main.go.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/orgcrawler/internal/logging"
	"github.com/pfrederiksen/orgcrawler/internal/org"
	orgsts "github.com/pfrederiksen/orgcrawler/internal/sts"
)

var (
	role       string
	format     string
	debugCount int

	organization *org.Organization
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orgquery",
		Short: "Query a cached or freshly-loaded AWS Organization",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOrganization(cmd.Context())
			if err != nil {
				return err
			}
			organization = o
			return nil
		},
	}
	rootCmd.SetContext(context.Background())

	rootCmd.PersistentFlags().StringVarP(&role, "role", "r", "", "organization access role to assume")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	rootCmd.PersistentFlags().CountVarP(&debugCount, "debug", "d", "increase logging verbosity (-d, -dd)")
	_ = rootCmd.MarkPersistentFlagRequired("role")

	for _, cmd := range zeroArgCommands() {
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range oneArgCommands() {
		rootCmd.AddCommand(cmd)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "orgquery: %v\n", err)
		os.Exit(1)
	}
}

// loadOrganization assumes role in the caller's own account, discovers
// the master account id, and loads the organization (from cache if
// fresh, live otherwise).
func loadOrganization(ctx context.Context) (*org.Organization, error) {
	log := logging.New(debugCount)

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	broker := orgsts.New(sts.NewFromConfig(cfg))
	masterAccountID, err := broker.DiscoverMasterAccountID(ctx, role, orgsts.OrganizationsClientFactoryFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("discover master account id: %w", err)
	}
	log.WithField("master_account_id", masterAccountID).Info("resolved master account")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	o := org.New(masterAccountID, role, org.DefaultCacheConfig(masterAccountID, homeDir))
	client := organizations.NewFromConfig(cfg)
	loader := org.NewLoader(client, 0)
	if err := loader.Load(ctx, o); err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	return o, nil
}

// render writes v to stdout in the configured format.
func render(v any) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = os.Stdout.Write(data)
		return err
	}
}
