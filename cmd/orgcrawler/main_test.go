package main

import (
	"reflect"
	"testing"
)

func TestParsePayloadArgsBareOnly(t *testing.T) {
	got := parsePayloadArgs([]string{"orgcrawler-testbucket"})
	want := []any{"orgcrawler-testbucket"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parsePayloadArgs = %#v, want %#v", got, want)
	}
}

func TestParsePayloadArgsKeyValueBundledLast(t *testing.T) {
	got := parsePayloadArgs([]string{"alpha", "region=us-east-1", "beta"})
	want := []any{"alpha", "beta", map[string]string{"region": "us-east-1"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parsePayloadArgs = %#v, want %#v", got, want)
	}
}

func TestParsePayloadArgsEmpty(t *testing.T) {
	if got := parsePayloadArgs(nil); got != nil {
		t.Fatalf("parsePayloadArgs(nil) = %#v, want nil", got)
	}
}

func TestSplitCSVTrimsAndDropsEmpty(t *testing.T) {
	got := splitCSV(" account01 ,account02,, account03")
	want := []string{"account01", "account02", "account03"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV = %#v, want %#v", got, want)
	}
}

func TestToAnySlice(t *testing.T) {
	got := toAnySlice([]string{"a", "b"})
	want := []any{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("toAnySlice = %#v, want %#v", got, want)
	}
}
