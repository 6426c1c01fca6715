package report

import (
	"testing"

	"github.com/pfrederiksen/orgcrawler/internal/crawler"
	"github.com/pfrederiksen/orgcrawler/internal/org"
)

func response(accountName, region string, output any) *crawler.Response {
	return &crawler.Response{
		Region:        region,
		Account:       org.Account{Base: org.Base{Name: accountName}},
		PayloadOutput: output,
	}
}

func TestPurgeEmptyResponsesDropsSingleEmptyListPayloads(t *testing.T) {
	responses := []*crawler.Response{
		response("account01", "us-east-1", map[string]any{"Buckets": []string{}}),
		response("account01", "us-west-2", map[string]any{"Buckets": []string{"my-bucket"}}),
		response("account02", "us-east-1", map[string]any{"Functions": []any{}, "extra": "field"}),
	}

	kept := PurgeEmptyResponses(responses)

	if len(kept) != 2 {
		t.Fatalf("PurgeEmptyResponses kept %d responses, want 2", len(kept))
	}
	if kept[0].Region != "us-west-2" {
		t.Errorf("kept[0].Region = %q, want us-west-2", kept[0].Region)
	}
}

func TestFormatResponsesGroupsByAccountSorted(t *testing.T) {
	e := &crawler.Execution{
		Name: "s3.list_buckets",
		Responses: []*crawler.Response{
			response("zebra-account", "us-east-1", map[string]any{"Buckets": []string{"b1"}}),
			response("alpha-account", "us-east-1", map[string]any{"Buckets": []string{"b2"}}),
			response("alpha-account", "us-west-2", map[string]any{"Buckets": []string{"b3"}}),
			response("empty-account", "us-east-1", map[string]any{"Buckets": []string{}}),
		},
	}

	reports := FormatResponses(e)

	if len(reports) != 2 {
		t.Fatalf("FormatResponses returned %d account reports, want 2", len(reports))
	}
	if reports[0].Account != "alpha-account" || reports[1].Account != "zebra-account" {
		t.Errorf("reports = [%q, %q], want [alpha-account, zebra-account]", reports[0].Account, reports[1].Account)
	}
	if len(reports[0].Regions) != 2 {
		t.Errorf("alpha-account has %d regions, want 2", len(reports[0].Regions))
	}
}
