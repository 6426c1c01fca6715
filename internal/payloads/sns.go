package payloads

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

// ListTopics lists every SNS topic ARN in the account/region.
func ListTopics(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := sns.NewFromConfig(awsConfig(region, account))
	var arns []string
	paginator := sns.NewListTopicsPaginator(client, &sns.ListTopicsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list topics: %w", err)
		}
		for _, t := range page.Topics {
			arns = append(arns, aws.ToString(t.TopicArn))
		}
	}
	return map[string]any{"Topics": arns}, nil
}
