package payloads

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

// repoPolicy is one ECR repository and its resource policy, if it has
// one attached.
type repoPolicy struct {
	Name       string `json:"name"`
	PolicyText string `json:"policy_text,omitempty"`
}

// ListRepositoryPolicies lists every ECR repository and its attached
// resource policy, tolerating repositories with no policy. Grounded on
// the way the ECR collector fetches GetRepositoryPolicy per repository.
func ListRepositoryPolicies(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := ecr.NewFromConfig(awsConfig(region, account))
	var repos []repoPolicy
	paginator := ecr.NewDescribeRepositoriesPaginator(client, &ecr.DescribeRepositoriesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe repositories: %w", err)
		}
		for _, repo := range page.Repositories {
			name := aws.ToString(repo.RepositoryName)
			entry := repoPolicy{Name: name}
			out, err := client.GetRepositoryPolicy(ctx, &ecr.GetRepositoryPolicyInput{
				RepositoryName: repo.RepositoryName,
			})
			var notFound *ecrtypes.RepositoryPolicyNotFoundException
			if err != nil && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("get repository policy %q: %w", name, err)
			}
			if out != nil {
				entry.PolicyText = aws.ToString(out.PolicyText)
			}
			repos = append(repos, entry)
		}
	}
	return map[string]any{"Repositories": repos}, nil
}
