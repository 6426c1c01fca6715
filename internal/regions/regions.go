// Package regions is the region catalog used to expand a crawler's
// --regions/--service flags into a concrete list of AWS region names.
//
// The Python original leaned on boto3's offline
// get_available_regions/get_available_services session metadata;
// aws-sdk-go-v2 ships no equivalent offline partition table, so this
// package calls ec2:DescribeRegions for the live, opt-in region set and
// keeps a small static table for the handful of global services (no
// regional presence at all), which resolve without calling ec2. When
// DescribeRegions fails, the error is returned; there is no offline
// fallback for regional services. This live-API dependency is recorded
// as a deliberate corner in the design ledger.
package regions

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/pfrederiksen/orgcrawler/internal/orgerr"
)

// EC2Client is the subset of the ec2 client this package calls.
type EC2Client interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// globalServices have no regional presence; a request for their
// regions always resolves to the single region they are addressed
// through.
var globalServices = map[string]string{
	"iam":           "us-east-1",
	"organizations": "us-east-1",
	"route53":       "us-east-1",
	"cloudfront":    "us-east-1",
	"s3":            "us-east-1",
}

// regionalServices are the services known to have a genuine per-region
// presence, mirroring the subset of boto3's service catalog this module
// actually crawls. RegionsForService validates against globalServices
// plus this set, the same "is this a real AWS service name" check
// regions_for_service does against boto3's get_available_services.
var regionalServices = map[string]struct{}{
	"ec2":            {},
	"sts":            {},
	"kms":            {},
	"sqs":            {},
	"sns":            {},
	"secretsmanager": {},
	"lambda":         {},
	"apigateway":     {},
	"ecr":            {},
	"eventbridge":    {},
}

// Lister resolves the region list for a service, and the full list of
// regions in the partition.
type Lister interface {
	AllRegions(ctx context.Context) ([]string, error)
	RegionsForService(ctx context.Context, service string) ([]string, error)
}

// Catalog is the live ec2-backed Lister, with results cached for the
// process lifetime since the region set never changes within a single
// crawl.
type Catalog struct {
	client EC2Client

	mu      sync.Mutex
	regions []string
}

// NewCatalog builds a Catalog around an ec2 client.
func NewCatalog(client EC2Client) *Catalog {
	return &Catalog{client: client}
}

// AllRegions returns every enabled region in the partition, sorted.
func (c *Catalog) AllRegions(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.regions != nil {
		return c.regions, nil
	}

	out, err := c.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, orgerr.New(orgerr.ClassifyAWSError(err), "", err)
	}

	names := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		names = append(names, aws.ToString(r.RegionName))
	}
	sort.Strings(names)
	c.regions = names
	return names, nil
}

// RegionsForService returns the regions a service operates in. Global
// services short-circuit to their fixed home region without touching
// ec2. Regional services resolve against AllRegions.
func (c *Catalog) RegionsForService(ctx context.Context, service string) ([]string, error) {
	service = strings.ToLower(strings.TrimSpace(service))
	if service == "" {
		return nil, orgerr.New(orgerr.InvalidService, "", errEmptyService{})
	}
	if home, ok := globalServices[service]; ok {
		return []string{home}, nil
	}
	if _, ok := regionalServices[service]; ok {
		return c.AllRegions(ctx)
	}
	return nil, orgerr.New(orgerr.InvalidService, "", errUnknownService{service})
}

type errEmptyService struct{}

func (errEmptyService) Error() string { return "service name must not be empty" }

type errUnknownService struct{ name string }

func (e errUnknownService) Error() string { return "'" + e.name + "' is not a valid AWS service" }

// IsGlobalService reports whether service is known to have no regional
// presence, the same GLOBAL-service special case
// crawlers.py:validate_regions applies ("GLOBAL" -> ["us-east-1"]).
func IsGlobalService(service string) bool {
	_, ok := globalServices[strings.ToLower(service)]
	return ok
}

// NormalizeRegionArg expands the crawler's --regions convention: "ALL"
// (or an empty value) means every region in the partition; "GLOBAL"
// means the single us-east-1 pseudo-region; anything else is taken as
// a literal comma-separated region list.
func NormalizeRegionArg(ctx context.Context, lister Lister, arg string) ([]string, error) {
	switch strings.ToUpper(strings.TrimSpace(arg)) {
	case "", "ALL":
		return lister.AllRegions(ctx)
	case "GLOBAL":
		return []string{"us-east-1"}, nil
	}
	parts := strings.Split(arg, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
