package crawler

import (
	"fmt"
	"os"
)

// reportExecutionErrors prints a one-line summary of how many
// responses failed plus the first failure, to stderr. Grounded on
// crawlers.py:CrawlerExecution.handle_errors, which prints a count and
// re-raises the first exception; the Go equivalent prints the summary
// and leaves the error itself recorded on the individual Response for
// the caller to inspect or surface as it sees fit.
func reportExecutionErrors(e *Execution) {
	failed := e.Errors()
	if len(failed) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "orgcrawler: execution %q: %d of %d responses failed, first error: %v\n",
		e.Name, len(failed), len(e.Responses), failed[0].Err)
}
