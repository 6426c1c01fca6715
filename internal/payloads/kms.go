package payloads

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

// ListKeys lists the id of every KMS key visible in the account/region.
// Key policies are not fetched or inspected.
func ListKeys(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := kms.NewFromConfig(awsConfig(region, account))
	var keyIDs []string
	paginator := kms.NewListKeysPaginator(client, &kms.ListKeysInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list keys: %w", err)
		}
		for _, k := range page.Keys {
			keyIDs = append(keyIDs, aws.ToString(k.KeyId))
		}
	}
	return map[string]any{"Keys": keyIDs}, nil
}
