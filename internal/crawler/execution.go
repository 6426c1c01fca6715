// Package crawler fans a payload function out across an organization's
// accounts and regions and collects a timed execution record.
// Grounded on original_source/orgcrawler/crawlers.py.
package crawler

import (
	"time"

	"github.com/pfrederiksen/orgcrawler/internal/org"
)

// Timer measures wall-clock elapsed time for one run. It uses
// time.Now and Time.Sub, not epoch arithmetic, so the measurement stays
// correct under clock adjustments, matching crawlers.py's use of
// time.perf_counter over time.time.
type Timer struct {
	StartTime time.Time
	EndTime   time.Time
	Elapsed   time.Duration
}

// Start records the current time as the timer's start.
func (t *Timer) Start() {
	t.StartTime = time.Now()
}

// Stop records the current time as the timer's end and computes Elapsed.
// It is a no-op if Start was never called.
func (t *Timer) Stop() {
	if t.StartTime.IsZero() {
		return
	}
	t.EndTime = time.Now()
	t.Elapsed = t.EndTime.Sub(t.StartTime)
}

// Response is the outcome of running a payload once against a single
// account in a single region.
type Response struct {
	Region        string
	Account       org.Account
	PayloadOutput any
	Timer         Timer
	Err           error
}

// Execution is the full record of one Crawler.Execute call: every
// per-account-region Response, plus whether any of them errored.
type Execution struct {
	Name      string
	Responses []*Response
	HasErrors bool
	Timer     Timer
}

// GetResponse returns the first response for the given account id and
// region, or nil if none matches.
func (e *Execution) GetResponse(accountID, region string) *Response {
	for _, r := range e.Responses {
		if r.Account.ID == accountID && r.Region == region {
			return r
		}
	}
	return nil
}

// Errors returns every response that recorded an error.
func (e *Execution) Errors() []*Response {
	var out []*Response
	for _, r := range e.Responses {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
