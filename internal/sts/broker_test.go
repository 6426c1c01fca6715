package sts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/aws/smithy-go"

	"github.com/pfrederiksen/orgcrawler/internal/orgerr"
)

type fakeOrganizationsClient struct {
	out *organizations.DescribeOrganizationOutput
	err error
}

func (f *fakeOrganizationsClient) DescribeOrganization(ctx context.Context, params *organizations.DescribeOrganizationInput, optFns ...func(*organizations.Options)) (*organizations.DescribeOrganizationOutput, error) {
	return f.out, f.err
}

type fakeSTSClient struct {
	assumeOut  *sts.AssumeRoleOutput
	assumeErr  error
	callerOut  *sts.GetCallerIdentityOutput
	callerErr  error
	lastInput  *sts.AssumeRoleInput
}

func (f *fakeSTSClient) AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	f.lastInput = params
	return f.assumeOut, f.assumeErr
}

func (f *fakeSTSClient) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return f.callerOut, f.callerErr
}

func TestAssumeBuildsRoleARNAndSessionName(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	fake := &fakeSTSClient{
		assumeOut: &sts.AssumeRoleOutput{
			Credentials: &ststypes.Credentials{
				AccessKeyId:     aws.String("AKIAFAKE"),
				SecretAccessKey: aws.String("secret"),
				SessionToken:    aws.String("token"),
				Expiration:      aws.Time(exp),
			},
		},
	}

	b := New(fake)
	creds, err := b.Assume(context.Background(), "222233334444", "OrganizationAccountAccessRole")
	if err != nil {
		t.Fatalf("Assume returned error: %v", err)
	}
	if creds.AccessKeyID != "AKIAFAKE" {
		t.Errorf("AccessKeyID = %q, want AKIAFAKE", creds.AccessKeyID)
	}

	wantARN := "arn:aws:iam::222233334444:role/OrganizationAccountAccessRole"
	if aws.ToString(fake.lastInput.RoleArn) != wantARN {
		t.Errorf("RoleArn = %q, want %q", aws.ToString(fake.lastInput.RoleArn), wantARN)
	}
	wantSession := "222233334444-OrganizationAccountAccessRole"
	if aws.ToString(fake.lastInput.RoleSessionName) != wantSession {
		t.Errorf("RoleSessionName = %q, want %q", aws.ToString(fake.lastInput.RoleSessionName), wantSession)
	}
}

func TestSessionNameUsesRoleBasename(t *testing.T) {
	got := sessionName("111122223333", "path/to/CustomRole")
	want := "111122223333-CustomRole"
	if got != want {
		t.Errorf("sessionName = %q, want %q", got, want)
	}
}

func TestAssumeClassifiesAccessDenied(t *testing.T) {
	fake := &fakeSTSClient{
		assumeErr: &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"},
	}
	b := New(fake)
	_, err := b.Assume(context.Background(), "999988887777", "SomeRole")
	if err == nil {
		t.Fatal("expected error")
	}
	var target interface{ Unwrap() error }
	if !errors.As(err, &target) {
		t.Fatalf("error does not unwrap: %v", err)
	}
	var oe *orgerr.Error
	if !errors.As(err, &oe) {
		t.Fatalf("error is not an orgerr.Error: %v", err)
	}
	if oe.Kind != orgerr.AccessDenied {
		t.Errorf("Kind = %v, want AccessDenied", oe.Kind)
	}
}

func TestDiscoverMasterAccountID(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	fake := &fakeSTSClient{
		callerOut: &sts.GetCallerIdentityOutput{Account: aws.String("123456789012")},
		assumeOut: &sts.AssumeRoleOutput{
			Credentials: &ststypes.Credentials{
				AccessKeyId:     aws.String("AKIAFAKE"),
				SecretAccessKey: aws.String("secret"),
				SessionToken:    aws.String("token"),
				Expiration:      aws.Time(exp),
			},
		},
	}
	fakeOrgs := &fakeOrganizationsClient{
		out: &organizations.DescribeOrganizationOutput{
			Organization: &orgtypes.Organization{MasterAccountId: aws.String("999900001111")},
		},
	}

	b := New(fake)
	id, err := b.DiscoverMasterAccountID(context.Background(), "OrganizationAccountAccessRole", func(aws.Credentials) OrganizationsClient {
		return fakeOrgs
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "999900001111" {
		t.Errorf("id = %q, want 999900001111", id)
	}

	wantARN := "arn:aws:iam::123456789012:role/OrganizationAccountAccessRole"
	if aws.ToString(fake.lastInput.RoleArn) != wantARN {
		t.Errorf("assumed role in caller's own account, RoleArn = %q, want %q", aws.ToString(fake.lastInput.RoleArn), wantARN)
	}
}

func TestIsRoleARN(t *testing.T) {
	if !IsRoleARN("arn:aws:iam::123456789012:role/Foo") {
		t.Error("expected ARN to be recognized")
	}
	if IsRoleARN("OrganizationAccountAccessRole") {
		t.Error("bare role name should not be recognized as an ARN")
	}
}
