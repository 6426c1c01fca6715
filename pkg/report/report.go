// Package report formats and filters crawler payload executions for
// display, grounded on
// original_source/orgcrawler/cli/utils.py::purge_empty_responses and
// format_responses.
package report

import (
	"reflect"
	"sort"

	"github.com/pfrederiksen/orgcrawler/internal/crawler"
)

// AccountReport is one account's output across every region the
// execution visited.
type AccountReport struct {
	Account string         `json:"account" yaml:"account"`
	Regions []RegionOutput `json:"regions" yaml:"regions"`
}

// RegionOutput is a single region's payload output within an account.
type RegionOutput struct {
	Region string `json:"region" yaml:"region"`
	Output any    `json:"output" yaml:"output"`
}

// PurgeEmptyResponses drops every response whose payload output is the
// single-key-with-an-empty-list shape a payload returns when it found
// nothing worth reporting (e.g. {"Buckets": []}).
func PurgeEmptyResponses(responses []*crawler.Response) []*crawler.Response {
	kept := make([]*crawler.Response, 0, len(responses))
	for _, r := range responses {
		if !isEmptyPayload(r.PayloadOutput) {
			kept = append(kept, r)
		}
	}
	return kept
}

func isEmptyPayload(output any) bool {
	m, ok := output.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	for _, v := range m {
		if isEmptySlice(v) {
			return true
		}
	}
	return false
}

func isEmptySlice(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice && rv.Len() == 0
}

// FormatResponses groups an execution's non-empty responses by account
// name, each with its per-region outputs, sorted by account name.
func FormatResponses(e *crawler.Execution) []AccountReport {
	responses := PurgeEmptyResponses(e.Responses)

	byAccount := make(map[string][]RegionOutput)
	for _, r := range responses {
		byAccount[r.Account.Name] = append(byAccount[r.Account.Name], RegionOutput{
			Region: r.Region,
			Output: r.PayloadOutput,
		})
	}

	names := make([]string, 0, len(byAccount))
	for name := range byAccount {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]AccountReport, 0, len(names))
	for _, name := range names {
		out = append(out, AccountReport{Account: name, Regions: byAccount[name]})
	}
	return out
}
