package payloads

import "github.com/pfrederiksen/orgcrawler/internal/crawler"

// Registry maps a payload name, as given on the orgcrawler command
// line, to the function that runs it. Grounded on
// original_source/orgcrawler/cli/orgcrawler.py resolving
// "module.function"-style payload arguments to a callable.
var Registry = map[string]crawler.Payload{
	"iam.set_account_alias":         SetAccountAlias,
	"iam.get_account_aliases":       GetAccountAliases,
	"iam.list_users":                ListUsers,
	"s3.create_bucket":              CreateBucket,
	"s3.delete_bucket":               DeleteBucket,
	"s3.list_buckets":                ListBuckets,
	"kms.list_keys":                  ListKeys,
	"sqs.list_queues":                ListQueues,
	"sns.list_topics":                ListTopics,
	"secretsmanager.list_secrets":    ListSecrets,
	"lambda.list_function_policies":  ListFunctionPolicies,
	"apigateway.list_rest_apis":      ListRestAPIs,
	"ecr.list_repository_policies":   ListRepositoryPolicies,
	"eventbridge.list_event_buses":   ListEventBuses,
}

// Lookup returns the registered payload function for name, and whether
// it was found.
func Lookup(name string) (crawler.Payload, bool) {
	p, ok := Registry[name]
	return p, ok
}

// Names returns every registered payload name, in no particular order;
// orgcrawler lists them when a payload name is not found.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	return names
}
