package payloads

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

func bucketName(prefix string, account org.Account, region string) string {
	return strings.Join([]string{prefix, account.ID, region}, "-")
}

// CreateBucket creates a uniquely-named bucket for the account/region
// pair, reporting success or the AWS error code rather than failing the
// whole execution (mirroring payloads.py::create_bucket's try/except).
func CreateBucket(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	prefix, ok := firstString(args)
	if !ok {
		return nil, fmt.Errorf("create bucket: missing bucket_prefix argument")
	}
	name := bucketName(prefix, account, region)
	client := s3.NewFromConfig(awsConfig(region, account))

	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	if region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := client.CreateBucket(ctx, input); err != nil {
		return map[string]any{
			"BucketName": name,
			"Succeeded":  false,
			"ErrorCode":  apiErrorCode(err),
		}, nil
	}
	return map[string]any{"BucketName": name, "Succeeded": true}, nil
}

// DeleteBucket deletes the bucket CreateBucket would have created for
// this account/region/prefix.
func DeleteBucket(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	prefix, ok := firstString(args)
	if !ok {
		return nil, fmt.Errorf("delete bucket: missing bucket_prefix argument")
	}
	name := bucketName(prefix, account, region)
	client := s3.NewFromConfig(awsConfig(region, account))

	if _, err := client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(name)}); err != nil {
		return map[string]any{
			"BucketName": name,
			"Succeeded":  false,
			"ErrorCode":  apiErrorCode(err),
		}, nil
	}
	return map[string]any{"BucketName": name, "Succeeded": true}, nil
}

// ListBuckets returns the names of every bucket visible to the account.
func ListBuckets(ctx context.Context, region string, account org.Account, args ...any) (any, error) {
	client := s3.NewFromConfig(awsConfig(region, account))
	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return map[string]any{"Buckets": names}, nil
}

func firstString(args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if ok := asAPIError(err, &apiErr); ok {
		return apiErr.ErrorCode()
	}
	return err.Error()
}
