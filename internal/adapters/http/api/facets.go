package api

import (
	"context"
	"net/http"

	"github.com/okian/feedback/internal/domain/facets"
)

// FacetsDependencies defines the interface for facet derivation.
type FacetsDependencies interface {
	Facets(ctx context.Context) facets.Facets
}

// FacetsHandler handles facet requests.
type FacetsHandler struct {
	deps FacetsDependencies
}

// NewFacetsHandler creates a new facets handler.
func NewFacetsHandler(deps FacetsDependencies) *FacetsHandler {
	return &FacetsHandler{deps: deps}
}

// HandleFacets handles GET /facets requests. The blank department is left
// out since selecting it would mean "all".
func (h *FacetsHandler) HandleFacets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	f := h.deps.Facets(r.Context()).Selectable()
	if f.Months == nil {
		f.Months = []string{}
	}
	writeJSON(w, http.StatusOK, f)
}
