package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

// cacheMaxAge applies to responses that depend only on the query, never on
// the clock.
const cacheMaxAge = "public, max-age=300"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

type recordsResponse struct {
	Count   int `json:"count"`
	Records any `json:"records"`
}

func (h *APIHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, services.PageAnalytics)
	if !ok {
		return
	}

	records, err := h.dashboard.FilteredRecords(*req.Filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, recordsResponse{Count: len(records), Records: records}, map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

// HandleKPIs computes the KPI snapshot of the selected regions and
// categories as of the as_of parameter. An empty selection is reported as
// EMPTY_INPUT.
func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, services.PageKPIs)
	if !ok {
		return
	}

	records, err := h.dashboard.FilteredRecords(*req.Filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = h.dashboard.Now()
	}

	kpis, err := services.ComputeKPIs(records, asOf)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccess(w, kpis)
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	vm, ok := h.render(w, r, services.PageOverview)
	if !ok {
		return
	}
	errors.WriteSuccess(w, vm)
}

func (h *APIHandlers) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	vm, ok := h.render(w, r, services.PageAnalytics)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, vm, map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandlePeriods(w http.ResponseWriter, r *http.Request) {
	vm, ok := h.render(w, r, services.PageKPIs)
	if !ok {
		return
	}
	errors.WriteSuccess(w, vm.KPIs)
}

func (h *APIHandlers) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parse(w, r, services.PageAnalytics)
	if !ok {
		return
	}

	records, err := h.dashboard.FilteredRecords(*req.Filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	errors.WriteSuccessWithHeaders(w, services.Correlation(records), map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}

func (h *APIHandlers) parse(w http.ResponseWriter, r *http.Request, page services.Page) (services.RenderRequest, bool) {
	req, err := parseView(r.URL.Query(), page, h.dashboard.DefaultFilters())
	if err != nil {
		h.fail(w, r, err)
		return req, false
	}
	return req, true
}

func (h *APIHandlers) render(w http.ResponseWriter, r *http.Request, page services.Page) (*services.ViewModel, bool) {
	req, ok := h.parse(w, r, page)
	if !ok {
		return nil, false
	}
	vm, err := h.dashboard.Render(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return vm, true
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, h.logger, err)
}

// writeError maps core sentinels onto the error envelope.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *errors.AppError
	switch {
	case stderrors.As(err, &appErr):
	case stderrors.Is(err, services.ErrEmptyInput):
		err = errors.EmptyInputWrap(err, "No records match the selection")
	case stderrors.Is(err, services.ErrUnknownPage), stderrors.Is(err, services.ErrUnknownPeriod):
		err = errors.ValidationWrap(err, "Invalid request")
	}
	errors.WriteError(w, logger, err, observability.GetRequestID(r.Context()))
}
