package payloads

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

type functionPolicy struct {
	Name   string `json:"name"`
	Policy string `json:"policy,omitempty"`
}

// ListFunctionPolicies lists every Lambda function and its resource
// policy, tolerating functions that have none. Grounded on the
// collector's paginated ListFunctions + GetPolicy pattern.
func ListFunctionPolicies(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := lambda.NewFromConfig(awsConfig(region, account))
	var functions []functionPolicy
	paginator := lambda.NewListFunctionsPaginator(client, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list functions: %w", err)
		}
		for _, fn := range page.Functions {
			name := aws.ToString(fn.FunctionName)
			entry := functionPolicy{Name: name}
			out, err := client.GetPolicy(ctx, &lambda.GetPolicyInput{FunctionName: fn.FunctionName})
			var notFound *lambdatypes.ResourceNotFoundException
			if err != nil && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("get policy %q: %w", name, err)
			}
			if out != nil {
				entry.Policy = aws.ToString(out.Policy)
			}
			functions = append(functions, entry)
		}
	}
	return map[string]any{"Functions": functions}, nil
}
