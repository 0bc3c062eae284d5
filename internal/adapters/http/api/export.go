package api

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/okian/feedback/internal/domain/export"
	"github.com/okian/feedback/internal/domain/filter"
)

// ExportDependencies defines the interface for workbook export.
type ExportDependencies interface {
	Export(ctx context.Context, c filter.Criteria) (export.Workbook, error)
}

// ExportHandler handles export requests.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExport handles GET /export?q=&department=&month= requests and
// returns the filtered records as an XLSX attachment.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	wb, err := h.deps.Export(r.Context(), criteriaFromQuery(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export_failed", WrapKind(op, ErrExport, err))
		return
	}
	w.Header().Set("Content-Type", wb.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": wb.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(wb.Data)))
	w.Header().Set("X-Export-Rows", strconv.Itoa(wb.Rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wb.Data)
}
