package mockfeed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/feedback/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Run generates the responses and then either writes them to
// cfg.OutputFile (when cfg.Addr is empty) or serves them until ctx is done.
func Run(ctx context.Context, cfg *Config) error {
	records, err := Generate(ctx, cfg)
	if err != nil {
		return fmt.Errorf("response generation failed: %w", err)
	}

	if cfg.Addr == "" {
		if _, err := WriteFile(ctx, cfg.OutputFile, records); err != nil {
			return fmt.Errorf("saving responses failed: %w", err)
		}
		return nil
	}

	feed := NewServer(records, cfg)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           feed.Handler(),
		ReadHeaderTimeout: shutdownTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Get().Info(ctx, "serving mock feed",
			logger.String("addr", cfg.Addr),
			logger.String("path", FeedPath),
			logger.Int("responses", len(records)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mock feed server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mock feed shutdown failed: %w", err)
	}

	stats := feed.Stats()
	logger.Get().Info(context.Background(), "mock feed stopped",
		logger.Int("served", stats.Served),
		logger.Int("failed", stats.Failed),
		logger.Duration("uptime", time.Since(stats.StartTime)),
	)
	return nil
}
