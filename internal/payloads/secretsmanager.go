package payloads

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

// ListSecrets lists the names of every secret in the account/region.
func ListSecrets(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := secretsmanager.NewFromConfig(awsConfig(region, account))
	var names []string
	paginator := secretsmanager.NewListSecretsPaginator(client, &secretsmanager.ListSecretsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list secrets: %w", err)
		}
		for _, s := range page.SecretList {
			names = append(names, aws.ToString(s.Name))
		}
	}
	return map[string]any{"Secrets": names}, nil
}
