package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/feedback/internal/domain/export"
	"github.com/okian/feedback/internal/domain/filter"
	"github.com/okian/feedback/internal/domain/model"
)

// ResponsesDependencies defines the reads behind /responses.
type ResponsesDependencies interface {
	Filter(ctx context.Context, c filter.Criteria) filter.Result
	Get(ctx context.Context, id string) (model.Response, error)
	Location() *time.Location
}

// ResponsesHandler serves the filtered list and single-record detail.
type ResponsesHandler struct {
	deps ResponsesDependencies
}

// NewResponsesHandler creates a new responses handler.
func NewResponsesHandler(deps ResponsesDependencies) *ResponsesHandler {
	return &ResponsesHandler{deps: deps}
}

// responseView is the wire shape of one record. Absent free text is "" and
// absent ratings carry the placeholder.
type responseView struct {
	ID         string            `json:"id"`
	FullName   string            `json:"fullName"`
	Department string            `json:"department"`
	CreatedAt  model.Timestamp   `json:"createdAt"`
	Date       string            `json:"date"`
	Month      string            `json:"month"`
	FreeText   map[string]string `json:"freeText"`
	Ratings    map[string]string `json:"ratings"`
	Fields     []export.Cell     `json:"fields,omitempty"`
}

type listResponse struct {
	Total     int            `json:"total"`
	Count     int            `json:"count"`
	Responses []responseView `json:"responses"`
}

func newResponseView(r *model.Response, loc *time.Location) responseView {
	v := responseView{
		ID:         r.ID,
		FullName:   r.FullName,
		Department: r.Department,
		CreatedAt:  r.CreatedAt,
		Date:       r.DateLabel(loc),
		Month:      r.MonthLabel(loc),
		FreeText:   make(map[string]string, len(model.FreeTextFields)),
		Ratings:    make(map[string]string, len(model.RatingFields)),
	}
	for _, key := range model.FreeTextFields {
		v.FreeText[key] = r.Text(key)
	}
	for _, key := range model.RatingFields {
		v.Ratings[key] = r.Rating(key)
	}
	return v
}

// HandleList handles GET /responses?q=&department=&month= requests.
func (h *ResponsesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	loc := h.deps.Location()
	result := h.deps.Filter(r.Context(), criteriaFromQuery(r))

	views := make([]responseView, len(result.Responses))
	for i := range result.Responses {
		views[i] = newResponseView(&result.Responses[i], loc)
	}
	writeJSON(w, http.StatusOK, listResponse{
		Total:     result.Total,
		Count:     len(views),
		Responses: views,
	})
}

// HandleGet handles GET /responses/{id} requests.
func (h *ResponsesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.responses.get"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.EscapedPath(), "/responses/")
	id, err := url.PathUnescape(raw)
	if raw == "" || strings.Contains(raw, "/") || err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest, "missing or malformed id"))
		return
	}
	rec, err := h.deps.Get(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	loc := h.deps.Location()
	view := newResponseView(&rec, loc)
	view.Fields = export.ToRow(&rec, loc)
	writeJSON(w, http.StatusOK, view)
}
