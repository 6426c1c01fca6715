package regions

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type fakeEC2Client struct {
	out      *ec2.DescribeRegionsOutput
	err      error
	calls    int
}

func (f *fakeEC2Client) DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	f.calls++
	return f.out, f.err
}

func TestAllRegionsSortedAndCached(t *testing.T) {
	fake := &fakeEC2Client{
		out: &ec2.DescribeRegionsOutput{
			Regions: []ec2types.Region{
				{RegionName: aws.String("us-west-2")},
				{RegionName: aws.String("eu-west-1")},
				{RegionName: aws.String("us-east-1")},
			},
		},
	}
	c := NewCatalog(fake)

	got, err := c.AllRegions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"eu-west-1", "us-east-1", "us-west-2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := c.AllRegions(context.Background()); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("DescribeRegions called %d times, want 1 (result should be cached)", fake.calls)
	}
}

func TestRegionsForServiceGlobalShortCircuits(t *testing.T) {
	fake := &fakeEC2Client{}
	c := NewCatalog(fake)

	got, err := c.RegionsForService(context.Background(), "IAM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "us-east-1" {
		t.Errorf("got %v, want [us-east-1]", got)
	}
	if fake.calls != 0 {
		t.Errorf("global service lookup should not call DescribeRegions, called %d times", fake.calls)
	}
}

func TestRegionsForServiceEmptyIsInvalid(t *testing.T) {
	c := NewCatalog(&fakeEC2Client{})
	if _, err := c.RegionsForService(context.Background(), "  "); err == nil {
		t.Error("expected error for empty service name")
	}
}

func TestRegionsForServiceUnknownIsInvalid(t *testing.T) {
	fake := &fakeEC2Client{}
	c := NewCatalog(fake)
	if _, err := c.RegionsForService(context.Background(), "not-a-real-service"); err == nil {
		t.Error("expected error for unrecognized service name")
	}
	if fake.calls != 0 {
		t.Errorf("unrecognized service should not call DescribeRegions, called %d times", fake.calls)
	}
}

func TestRegionsForServiceRegionalResolvesAgainstAllRegions(t *testing.T) {
	fake := &fakeEC2Client{
		out: &ec2.DescribeRegionsOutput{
			Regions: []ec2types.Region{{RegionName: aws.String("us-east-1")}},
		},
	}
	c := NewCatalog(fake)
	got, err := c.RegionsForService(context.Background(), "ec2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "us-east-1" {
		t.Errorf("got %v, want [us-east-1]", got)
	}
}

func TestIsGlobalService(t *testing.T) {
	if !IsGlobalService("s3") {
		t.Error("s3 should be global")
	}
	if IsGlobalService("lambda") {
		t.Error("lambda should not be global")
	}
}

type fakeLister struct {
	all []string
}

func (f fakeLister) AllRegions(ctx context.Context) ([]string, error) { return f.all, nil }
func (f fakeLister) RegionsForService(ctx context.Context, service string) ([]string, error) {
	return f.all, nil
}

func TestNormalizeRegionArg(t *testing.T) {
	lister := fakeLister{all: []string{"us-east-1", "us-west-2"}}

	cases := []struct {
		arg  string
		want []string
	}{
		{"ALL", []string{"us-east-1", "us-west-2"}},
		{"", []string{"us-east-1", "us-west-2"}},
		{"GLOBAL", []string{"us-east-1"}},
		{"us-west-2,eu-west-1", []string{"us-west-2", "eu-west-1"}},
	}
	for _, tc := range cases {
		got, err := NormalizeRegionArg(context.Background(), lister, tc.arg)
		if err != nil {
			t.Fatalf("arg %q: unexpected error: %v", tc.arg, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("arg %q: got %v, want %v", tc.arg, got, tc.want)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("arg %q: got[%d] = %q, want %q", tc.arg, i, got[i], tc.want[i])
			}
		}
	}
}
