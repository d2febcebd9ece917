package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

// ExportHandlers serve the filtered records as file downloads. They accept
// the same filter parameters as /api/records.
type ExportHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewExportHandlers(dashboard *services.Dashboard, logger *slog.Logger) *ExportHandlers {
	return &ExportHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *ExportHandlers) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", export.ContentTypeXLSX, export.WriteXLSX)
}

func (h *ExportHandlers) HandleCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", export.ContentTypeCSV, export.WriteCSV)
}

func (h *ExportHandlers) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, []models.Record) error) {
	filters, err := parseFilters(r.URL.Query(), h.dashboard.DefaultFilters())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	records, err := h.dashboard.FilteredRecords(filters)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, records); err != nil {
		writeError(w, r, h.logger, errors.InternalWrap(err, "Failed to build export"))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(filters, ext)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write export", "format", ext, "error", err)
	}

	h.logger.Info("records exported", "format", ext, "records", len(records))
}
