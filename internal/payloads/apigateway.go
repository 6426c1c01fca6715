package payloads

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

// ListRestAPIs lists the name and id of every REST API in the
// account/region.
func ListRestAPIs(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := apigateway.NewFromConfig(awsConfig(region, account))
	var apis []map[string]string
	paginator := apigateway.NewGetRestApisPaginator(client, &apigateway.GetRestApisInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("get rest apis: %w", err)
		}
		for _, api := range page.Items {
			apis = append(apis, map[string]string{
				"Id":   aws.ToString(api.Id),
				"Name": aws.ToString(api.Name),
			})
		}
	}
	return map[string]any{"RestApis": apis}, nil
}
