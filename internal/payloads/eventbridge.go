package payloads

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

type eventBus struct {
	Name   string `json:"name"`
	ARN    string `json:"arn"`
	Policy string `json:"policy,omitempty"`
}

// ListEventBuses lists every EventBridge event bus in the
// account/region along with its resource policy, if it has one.
func ListEventBuses(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := eventbridge.NewFromConfig(awsConfig(region, account))
	out, err := client.ListEventBuses(ctx, &eventbridge.ListEventBusesInput{})
	if err != nil {
		return nil, fmt.Errorf("list event buses: %w", err)
	}

	buses := make([]eventBus, 0, len(out.EventBuses))
	for _, bus := range out.EventBuses {
		entry := eventBus{Name: aws.ToString(bus.Name), ARN: aws.ToString(bus.Arn)}
		desc, err := client.DescribeEventBus(ctx, &eventbridge.DescribeEventBusInput{Name: bus.Name})
		if err == nil {
			entry.Policy = aws.ToString(desc.Policy)
		}
		buses = append(buses, entry)
	}
	return map[string]any{"EventBuses": buses}, nil
}
