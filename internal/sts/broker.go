// Package sts brokers temporary credentials for member accounts of an
// organization. Grounded on
// _examples/vonbellout-aws-access-map/internal/collector/collector.go's
// use of stscreds.NewAssumeRoleProvider, and on
// original_source/orgcrawler/utils.py:assume_role_in_account and
// get_master_account_id for the role-ARN and session-name conventions.
package sts

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/pfrederiksen/orgcrawler/internal/orgerr"
)

// STSClient is the subset of the sts client the broker calls, so tests
// can substitute a fake.
type STSClient interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// OrganizationsClient is the subset of the organizations client
// DiscoverMasterAccountID needs once it holds assumed-role credentials:
// just enough to ask the service about itself.
type OrganizationsClient interface {
	DescribeOrganization(ctx context.Context, params *organizations.DescribeOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error)
}

// OrganizationsClientFactory builds an OrganizationsClient authenticated
// as creds, so DiscoverMasterAccountID can ask the organizations service
// about itself using the role it just assumed rather than whatever
// credentials the process started with.
type OrganizationsClientFactory func(creds aws.Credentials) OrganizationsClient

// Broker mints role credentials for accounts in the organization.
type Broker struct {
	client STSClient
}

// New builds a Broker around client.
func New(client STSClient) *Broker {
	return &Broker{client: client}
}

// roleARN builds arn:aws:iam::<accountID>:role/<roleName>, the same
// convention utils.py:assume_role_in_account uses.
func roleARN(accountID, roleName string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, roleName)
}

// sessionName mirrors utils.py: "<account_id>-<basename(role_name)>".
// Role names may themselves be paths (e.g. "path/to/RoleName"); only
// the last segment is used.
func sessionName(accountID, roleName string) string {
	base := path.Base(roleName)
	return fmt.Sprintf("%s-%s", accountID, base)
}

// Assume returns temporary credentials for roleName in accountID.
func (b *Broker) Assume(ctx context.Context, accountID, roleName string) (aws.Credentials, error) {
	out, err := b.client.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN(accountID, roleName)),
		RoleSessionName: aws.String(sessionName(accountID, roleName)),
	})
	if err != nil {
		return aws.Credentials{}, orgerr.New(orgerr.ClassifyAWSError(err), accountID, err)
	}
	creds := out.Credentials
	return aws.Credentials{
		AccessKeyID:     aws.ToString(creds.AccessKeyId),
		SecretAccessKey: aws.ToString(creds.SecretAccessKey),
		SessionToken:    aws.ToString(creds.SessionToken),
		Expires:         aws.ToTime(creds.Expiration),
		CanExpire:       true,
	}, nil
}

// Provider returns an aws.CredentialsProvider wrapping Assume, cached
// the way the teacher wraps stscreds.NewAssumeRoleProvider in
// aws.NewCredentialsCache.
func (b *Broker) Provider(accountID, roleName string) aws.CredentialsProvider {
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		return b.Assume(ctx, accountID, roleName)
	}))
}

// AssumeRoleProvider builds an stscreds-style provider directly from an
// sts.Client, matching the teacher's exact idiom for callers that want
// the concrete stscreds type rather than the Broker abstraction.
func AssumeRoleProvider(client *sts.Client, accountID, roleName string) aws.CredentialsProvider {
	arn := roleARN(accountID, roleName)
	name := sessionName(accountID, roleName)
	provider := stscreds.NewAssumeRoleProvider(client, arn, func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = name
	})
	return aws.NewCredentialsCache(provider)
}

// OrganizationsClientFactoryFromConfig builds an OrganizationsClientFactory
// that constructs a real organizations.Client for the given assumed-role
// credentials against cfg's region and HTTP settings, the same
// aws.Config-reuse idiom the teacher uses when building per-account
// clients from a shared base config.
func OrganizationsClientFactoryFromConfig(cfg aws.Config) OrganizationsClientFactory {
	return func(creds aws.Credentials) OrganizationsClient {
		return organizations.NewFromConfig(cfg, func(o *organizations.Options) {
			o.Credentials = aws.NewCredentialsCache(staticCredentials{creds})
		})
	}
}

// staticCredentials adapts an already-resolved aws.Credentials value to
// the aws.CredentialsProvider interface the SDK's client options expect.
type staticCredentials struct {
	creds aws.Credentials
}

func (s staticCredentials) Retrieve(context.Context) (aws.Credentials, error) {
	return s.creds, nil
}

// DiscoverMasterAccountID implements
// utils.py:get_master_account_id's three-step technique: learn the
// caller's own account via GetCallerIdentity, assume role in that same
// account, then ask the organizations service — using the credentials
// just assumed, not the process's ambient ones — for its
// MasterAccountId.
func (b *Broker) DiscoverMasterAccountID(ctx context.Context, role string, orgClientFor OrganizationsClientFactory) (string, error) {
	callerOut, err := b.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", orgerr.New(orgerr.ClassifyAWSError(err), "", err)
	}
	callerAccountID := aws.ToString(callerOut.Account)

	creds, err := b.Assume(ctx, callerAccountID, role)
	if err != nil {
		return "", err
	}

	orgClient := orgClientFor(creds)
	descOut, err := orgClient.DescribeOrganization(ctx, &organizations.DescribeOrganizationInput{})
	if err != nil {
		return "", orgerr.New(orgerr.ClassifyAWSError(err), callerAccountID, err)
	}
	return aws.ToString(descOut.Organization.MasterAccountId), nil
}

// IsRoleARN reports whether s already looks like a full role ARN
// rather than a bare role name. Assume and DiscoverMasterAccountID do
// not call it: they always treat their role argument as a bare name.
func IsRoleARN(s string) bool {
	return strings.HasPrefix(s, "arn:aws:iam::")
}
