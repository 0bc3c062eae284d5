// Package mockfeed generates and serves a synthetic survey response feed for
// local development of the dashboard.
package mockfeed

import "time"

// Config holds configuration for the mock feed.
type Config struct {
	Addr       string        // Listen address; empty writes OutputFile and exits
	Count      int           // Number of responses to generate
	Months     int           // Spread creation dates across this many past months
	Seed       uint64        // Random seed; zero picks one from the clock
	Latency    time.Duration // Artificial delay before each feed response
	FailEvery  int           // Answer every Nth request with 503; zero never fails
	OutputFile string        // Output file for generated responses
	Now        time.Time     // Reference time for creation dates; zero means time.Now
}

// Stats holds feed statistics.
type Stats struct {
	Generated int
	Served    int
	Failed    int
	StartTime time.Time
}
