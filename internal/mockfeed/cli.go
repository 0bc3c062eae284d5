package mockfeed

import (
	"os"
)

// ShowHelp prints usage information for the mock feed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Feedback Mock Feed
==================

Generates synthetic survey responses and serves them as a JSON array at
/responses, the shape the dashboard ingests. Some fields are deliberately
absent, some ids use the legacy _id key and some dates are epoch
milliseconds.

Usage:
  go run ./cmd/mock-feed [options]

Options:
  -addr string
        Listen address; empty writes -output and exits (default ":9090")
  -count int
        Number of responses to generate (default 200)
  -months int
        Spread creation dates over this many past months (default 18)
  -seed uint
        Random seed; 0 picks one from the clock
  -latency duration
        Artificial delay before each feed response
  -fail-every int
        Answer every Nth request with 503 (default 0, never)
  -output string
        Output file when -addr is empty (default: responses_TIMESTAMP.json)
  -log-format string
        Log output format, text or json (default "text")
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  # Serve 200 responses on :9090
  go run ./cmd/mock-feed

  # Exercise the dashboard's failure path
  go run ./cmd/mock-feed -fail-every 3 -latency 500ms

  # Write a reproducible fixture
  go run ./cmd/mock-feed -addr "" -seed 42 -count 50 -output testdata/responses.json
`)
}
