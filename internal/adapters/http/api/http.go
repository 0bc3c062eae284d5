// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	repository "github.com/okian/feedback/internal/adapters/repository"
	"github.com/okian/feedback/internal/domain/export"
	"github.com/okian/feedback/internal/domain/facets"
	"github.com/okian/feedback/internal/domain/filter"
	"github.com/okian/feedback/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations over the current snapshot.
	Filter(ctx context.Context, c filter.Criteria) filter.Result
	Get(ctx context.Context, id string) (model.Response, error)
	Facets(ctx context.Context) facets.Facets
	Export(ctx context.Context, c filter.Criteria) (export.Workbook, error)

	// TryRefresh re-ingests the feed. Returns false when throttled.
	TryRefresh(ctx context.Context) (bool, error)

	// Location is used to render month and date labels.
	Location() *time.Location
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	responsesHandler *ResponsesHandler
	facetsHandler    *FacetsHandler
	exportHandler    *ExportHandler
	refreshHandler   *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		responsesHandler: NewResponsesHandler(deps),
		facetsHandler:    NewFacetsHandler(deps),
		exportHandler:    NewExportHandler(deps),
		refreshHandler:   NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/responses", MetricsMiddleware(s.responsesHandler.HandleList, "responses"))
	mux.HandleFunc("/responses/", MetricsMiddleware(s.responsesHandler.HandleGet, "response"))
	mux.HandleFunc("/facets", MetricsMiddleware(s.facetsHandler.HandleFacets, "facets"))
	mux.HandleFunc("/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
}

// criteriaFromQuery reads q, department and month. Missing or blank
// department and month select everything.
func criteriaFromQuery(r *http.Request) filter.Criteria {
	q := r.URL.Query()
	return filter.Criteria{
		SearchText: q.Get("q"),
		Department: q.Get("department"),
		Month:      q.Get("month"),
	}.Normalize()
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrNotFound)
}
