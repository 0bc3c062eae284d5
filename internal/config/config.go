// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers a YAML file and FEEDBACK_* environment variables on top.
// - External errors must be wrapped via this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/okian/feedback/internal/adapters/spreadsheet"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SourceURL is the response feed endpoint returning a JSON array.
	SourceURL string `koanf:"source_url"`

	// SourceTimeoutMS bounds a single feed request.
	SourceTimeoutMS int `koanf:"source_timeout_ms"`

	// RefreshIntervalS enables periodic re-ingestion when positive.
	RefreshIntervalS int `koanf:"refresh_interval_s"`

	// RefreshMinIntervalMS throttles POST /refresh.
	RefreshMinIntervalMS int `koanf:"refresh_min_interval_ms"`

	// Timezone is the IANA location used for month and date labels.
	Timezone string `koanf:"timezone"`

	// ExportFilename and ExportSheet name the downloaded workbook and its sheet.
	ExportFilename string `koanf:"export_filename"`
	ExportSheet    string `koanf:"export_sheet"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		SourceURL:            "http://localhost:9090/responses",
		SourceTimeoutMS:      10_000,
		RefreshIntervalS:     0,
		RefreshMinIntervalMS: 5_000,
		Timezone:             "UTC",
		ExportFilename:       "feedback.xlsx",
		ExportSheet:          "Feedback",
	}
}

// SourceTimeout returns the feed request timeout.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutMS) * time.Millisecond
}

// RefreshInterval returns the periodic refresh period; zero disables it.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalS) * time.Second
}

// RefreshMinInterval returns the minimum spacing between manual refreshes.
func (c *Config) RefreshMinInterval() time.Duration {
	return time.Duration(c.RefreshMinIntervalMS) * time.Millisecond
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks field constraints. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.SourceURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: source_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.SourceURL)
	}
	if c.SourceTimeoutMS < 0 {
		return fmt.Errorf("%w: source_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if c.RefreshIntervalS < 0 {
		return fmt.Errorf("%w: refresh_interval_s must not be negative", ErrInvalidConfig)
	}
	if c.RefreshMinIntervalMS < 0 {
		return fmt.Errorf("%w: refresh_min_interval_ms must not be negative", ErrInvalidConfig)
	}
	if err := spreadsheet.CheckSheetName(c.ExportSheet); err != nil {
		return fmt.Errorf("%w: export_sheet: %w", ErrInvalidConfig, err)
	}
	if strings.ContainsAny(c.ExportFilename, `/\"`) {
		return fmt.Errorf("%w: export_filename must be a bare file name, got %q", ErrInvalidConfig, c.ExportFilename)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
