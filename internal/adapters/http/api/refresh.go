package api

import (
	"context"
	"net/http"
)

// RefreshDependencies defines the interface for manual re-ingestion.
type RefreshDependencies interface {
	TryRefresh(ctx context.Context) (bool, error)
}

// RefreshHandler handles refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status string `json:"status"`
}

// HandleRefresh handles POST /refresh requests.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	ran, err := h.deps.TryRefresh(r.Context())
	switch {
	case !ran:
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "throttled", NewKind(op, ErrThrottled, "try again later"))
	case err != nil:
		writeError(w, http.StatusBadGateway, "ingestion_failed", WrapKind(op, ErrIngestion, err))
	default:
		writeJSON(w, http.StatusOK, refreshResponse{Status: "refreshed"})
	}
}
