// Package payloads holds the crawler.Payload functions the CLI can run
// against every account/region pair, plus a Registry looking them up by
// name. Grounded on original_source/orgcrawler/payloads.py, reworked
// from boto3's **account.credentials kwarg-splat into an explicit
// aws.Config built from the credentials the crawler already assumed.
package payloads

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/smithy-go"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

// awsConfig builds the per-call aws.Config a payload needs: the
// region it was dispatched to, and the static credentials the crawler
// assumed for the account before running the payload.
func awsConfig(region string, account org.Account) aws.Config {
	return aws.Config{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			account.Credentials.AccessKeyID,
			account.Credentials.SecretAccessKey,
			account.Credentials.SessionToken,
		),
	}
}

// asAPIError unwraps err looking for a smithy API error, the way every
// payload that reports a failure code instead of propagating the error
// needs to.
func asAPIError(err error, target *smithy.APIError) bool {
	return errors.As(err, target)
}
