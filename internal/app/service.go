// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	repository "github.com/okian/feedback/internal/adapters/repository"
	"github.com/okian/feedback/internal/adapters/source"
	"github.com/okian/feedback/internal/adapters/spreadsheet"
	"github.com/okian/feedback/internal/domain/export"
	"github.com/okian/feedback/internal/domain/facets"
	"github.com/okian/feedback/internal/domain/filter"
	"github.com/okian/feedback/internal/domain/model"
	"github.com/okian/feedback/pkg/logger"
	"github.com/okian/feedback/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultRefreshMinInterval = 5 * time.Second
	componentIngestion        = "ingestion"
	componentExport           = "export"
)

// ErrNoSource is returned by Refresh when no source was configured.
var ErrNoSource = errors.New("no response source configured")

// Result is the outcome of applying filter criteria to the current snapshot.
type Result = filter.Result

// Export is a ready-to-download workbook.
type Export = export.Workbook

// Service holds the current response snapshot and answers queries against it.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	source  source.Source
	limiter *rate.Limiter

	// Configuration
	loc             *time.Location
	refreshInterval time.Duration
	exportSheet     string
	exportFilename  string

	// State
	started     bool
	stopCh      chan struct{}
	wg          sync.WaitGroup
	lastAttempt time.Time
	lastErr     error

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSource sets the response feed.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithStore replaces the default in-memory snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLocation sets the location used for month and date labels.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithRefreshInterval enables periodic re-ingestion. Zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithRefreshLimit sets the minimum spacing between manual refreshes.
// Zero removes the limit.
func WithRefreshLimit(minInterval time.Duration) Option {
	return func(s *Service) {
		switch {
		case minInterval == 0:
			s.limiter = rate.NewLimiter(rate.Inf, 1)
		case minInterval > 0:
			s.limiter = rate.NewLimiter(rate.Every(minInterval), 1)
		}
	}
}

// WithExportSheet sets the worksheet name of exported workbooks.
func WithExportSheet(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.exportSheet = name
		}
	}
}

// WithExportFilename sets the suggested download name of exported workbooks.
func WithExportFilename(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.exportFilename = name
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:          repository.NewSnapshotStore(),
		limiter:        rate.NewLimiter(rate.Every(defaultRefreshMinInterval), 1),
		loc:            time.UTC,
		exportSheet:    spreadsheet.DefaultSheet,
		exportFilename: spreadsheet.DefaultFilename,
		stopCh:         make(chan struct{}),
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start performs the initial ingestion and, when configured, launches the
// periodic refresh loop. An initial ingestion failure is logged and leaves
// the snapshot empty; it does not fail Start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info(ctx, "starting feedback service...")

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial ingestion failed; serving empty snapshot", logger.Error(err))
	}

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(ctx, s.stopCh)
	}

	s.logger.Info(ctx, "feedback service started",
		logger.Int("records", s.store.Count()),
		logger.Duration("refreshInterval", s.refreshInterval),
		logger.String("timezone", s.loc.String()),
	)
	return nil
}

// Stop halts the refresh loop and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info(context.Background(), "feedback service stopped")
}

func (s *Service) refreshLoop(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn(ctx, "periodic ingestion failed", logger.Error(err))
			}
		}
	}
}

// Refresh runs one ingestion and replaces the snapshot with its result. A
// failed load installs an empty set and returns the error, unless ctx
// itself was cancelled, in which case the snapshot is left untouched. If a
// later ingestion has already committed, this one's result is discarded.
func (s *Service) Refresh(ctx context.Context) error {
	if s.source == nil {
		return ErrNoSource
	}
	log := s.log()

	ticket := s.store.Begin()
	start := time.Now()
	records, err := s.source.Load(ctx)
	latencyMs := float64(time.Since(start).Nanoseconds()) / 1e6

	if err != nil {
		kind := failureKind(err)
		metrics.RecordIngestion(metrics.OutcomeFailure, latencyMs)
		metrics.RecordIngestionFailure(kind)
		metrics.RecordErrorByComponent(componentIngestion, kind)
		metrics.RecordErrorLatency(componentIngestion, kind, latencyMs)

		if ctx.Err() != nil {
			s.setLastResult(start, err)
			log.Warn(ctx, "ingestion abandoned, keeping current snapshot",
				logger.Error(err),
			)
			return err
		}

		s.store.Commit(ticket, nil)
		s.setLastResult(start, err)
		log.Error(ctx, "ingestion failed",
			logger.String("kind", kind),
			logger.Error(err),
		)
		return err
	}

	metrics.RecordIngestion(metrics.OutcomeSuccess, latencyMs)
	metrics.UpdateIngestedRecords(len(records))

	if !s.store.Commit(ticket, records) {
		log.Debug(ctx, "discarding stale ingestion result",
			logger.Any("ticket", uint64(ticket)),
		)
	}
	s.setLastResult(start, nil)
	log.Debug(ctx, "ingestion complete",
		logger.Int("records", len(records)),
		logger.Float64("latencyMs", latencyMs),
	)
	return nil
}

// TryRefresh is Refresh behind the manual refresh throttle. It reports false
// without contacting the source when called too soon after the last one.
// The load ignores cancellation of ctx; the source's own timeout bounds it.
func (s *Service) TryRefresh(ctx context.Context) (bool, error) {
	if !s.limiter.Allow() {
		metrics.RecordRefreshThrottled()
		return false, nil
	}
	return true, s.Refresh(context.WithoutCancel(ctx))
}

// Facets returns the department and month choices of the current snapshot.
func (s *Service) Facets(_ context.Context) facets.Facets {
	return facets.Derive(s.store.Snapshot().Records, s.loc)
}

// Filter applies c to the current snapshot.
func (s *Service) Filter(_ context.Context, c filter.Criteria) Result {
	start := time.Now()
	snap := s.store.Snapshot()
	matched := filter.Apply(snap.Records, c.Normalize(), s.loc)
	metrics.RecordFilter(float64(time.Since(start).Nanoseconds())/1e6, len(matched))
	return Result{Total: len(snap.Records), Responses: matched}
}

// Get returns a single response by id.
// Returns repository.ErrNotFound if the current snapshot has no such id.
func (s *Service) Get(_ context.Context, id string) (model.Response, error) {
	return s.store.Get(id)
}

// Export builds a workbook with one row per response matching c.
func (s *Service) Export(ctx context.Context, c filter.Criteria) (Export, error) {
	result := s.Filter(ctx, c)
	rows := export.ToRows(result.Responses, s.loc)

	data, err := spreadsheet.Encode(rows, s.exportSheet)
	if err != nil {
		metrics.RecordExportError()
		metrics.RecordErrorByComponent(componentExport, "encode")
		s.log().Error(ctx, "export failed", logger.Error(err))
		return Export{}, err
	}

	metrics.RecordExport(len(rows))
	return Export{
		Filename:    s.exportFilename,
		ContentType: spreadsheet.ContentType,
		Data:        data,
		Rows:        len(rows),
	}, nil
}

// Location returns the location used for labels.
func (s *Service) Location() *time.Location {
	return s.loc
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.store.Snapshot()
	stats := map[string]interface{}{
		"started":         s.started,
		"records":         len(snap.Records),
		"generation":      uint64(snap.Generation),
		"refreshInterval": s.refreshInterval.String(),
		"timezone":        s.loc.String(),
	}
	if !snap.LoadedAt.IsZero() {
		stats["loadedAt"] = snap.LoadedAt.UTC().Format(time.RFC3339)
	}
	if !s.lastAttempt.IsZero() {
		stats["lastRefreshAt"] = s.lastAttempt.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastRefreshError"] = s.lastErr.Error()
	}
	if u, ok := s.source.(interface{ URL() string }); ok {
		stats["sourceURL"] = u.URL()
	}

	metrics.UpdateRecordsTotal(len(snap.Records))
	return stats
}

func (s *Service) setLastResult(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAttempt = at
	s.lastErr = err
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

func failureKind(err error) string {
	var fe *source.FetchError
	if errors.As(err, &fe) {
		return string(fe.Kind)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return string(source.KindTransport)
	}
	return "unknown"
}
