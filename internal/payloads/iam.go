package payloads

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

// SetAccountAlias sets the account alias to args[0], or the account's
// own name when no alias is given. Grounded on
// original_source/orgcrawler/payloads.py::set_account_alias.
func SetAccountAlias(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	alias := account.Name
	if len(args) > 0 {
		if s, ok := args[0].(string); ok && s != "" {
			alias = s
		}
	}
	client := iam.NewFromConfig(awsConfig(region, account))
	if _, err := client.CreateAccountAlias(ctx, &iam.CreateAccountAliasInput{
		AccountAlias: aws.String(alias),
	}); err != nil {
		return nil, fmt.Errorf("create account alias %q: %w", alias, err)
	}
	return map[string]any{"AccountAlias": alias}, nil
}

// GetAccountAliases lists the aliases set on the account.
func GetAccountAliases(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := iam.NewFromConfig(awsConfig(region, account))
	out, err := client.ListAccountAliases(ctx, &iam.ListAccountAliasesInput{})
	if err != nil {
		return nil, fmt.Errorf("list account aliases: %w", err)
	}
	return map[string]any{"Aliases": out.AccountAliases}, nil
}

// ListUsers lists every IAM user in the account, paginating until
// exhausted.
func ListUsers(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := iam.NewFromConfig(awsConfig(region, account))
	var users []string
	paginator := iam.NewListUsersPaginator(client, &iam.ListUsersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		for _, u := range page.Users {
			users = append(users, aws.ToString(u.UserName))
		}
	}
	return map[string]any{"Users": users}, nil
}
