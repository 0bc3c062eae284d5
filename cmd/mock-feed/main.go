package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/feedback/internal/mockfeed"
	"github.com/okian/feedback/pkg/logger"
)

func main() {
	var (
		addr      = flag.String("addr", mockfeed.DefaultAddr, "Listen address; empty writes -output and exits")
		count     = flag.Int("count", mockfeed.DefaultCount, "Number of responses to generate")
		months    = flag.Int("months", mockfeed.DefaultMonths, "Spread creation dates over this many past months")
		seed      = flag.Uint64("seed", 0, "Random seed; 0 picks one from the clock")
		latency   = flag.Duration("latency", 0, "Artificial delay before each feed response")
		failEvery = flag.Int("fail-every", 0, "Answer every Nth request with 503")
		output    = flag.String("output", "", "Output file when -addr is empty (default: responses_TIMESTAMP.json)")
		logFormat = flag.String("log-format", logger.FormatText, "Log output format: text or json")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		mockfeed.ShowHelp()
		return
	}

	if err := logger.InitWithOptions(logger.WithFormat(*logFormat)); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &mockfeed.Config{
		Addr:       *addr,
		Count:      *count,
		Months:     *months,
		Seed:       *seed,
		Latency:    *latency,
		FailEvery:  *failEvery,
		OutputFile: *output,
	}

	if err := mockfeed.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("Mock feed failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
