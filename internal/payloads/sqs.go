package payloads

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

// ListQueues lists every SQS queue URL in the account/region.
func ListQueues(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := sqs.NewFromConfig(awsConfig(region, account))
	var urls []string
	var nextToken *string
	for {
		out, err := client.ListQueues(ctx, &sqs.ListQueuesInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("list queues: %w", err)
		}
		urls = append(urls, out.QueueUrls...)
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return map[string]any{"QueueUrls": urls}, nil
}
