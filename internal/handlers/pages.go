package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

// PageHandlers serve the full HTML pages. Every page load runs one render
// cycle over a freshly generated dataset.
type PageHandlers struct {
	dashboard *services.Dashboard
	settings  config.DashboardSettings
	logger    *slog.Logger
}

func NewPageHandlers(dashboard *services.Dashboard, settings config.DashboardSettings, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		dashboard: dashboard,
		settings:  settings,
		logger:    logger,
	}
}

func (h *PageHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, services.PageOverview, func(ctx context.Context, vm *services.ViewModel) (templ.Component, error) {
		cs, err := charts.OverviewCharts(ctx, vm.Overview)
		if err != nil {
			return nil, err
		}
		return templates.OverviewPage(vm.Overview, cs, h.settings), nil
	})
}

func (h *PageHandlers) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, services.PageAnalytics, func(ctx context.Context, vm *services.ViewModel) (templ.Component, error) {
		cs, err := charts.AnalyticsCharts(ctx, vm.Analytics)
		if err != nil {
			return nil, err
		}
		start, end := h.dashboard.Range()
		return templates.AnalyticsPage(vm, cs, start, end, h.settings), nil
	})
}

func (h *PageHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, services.PageKPIs, func(ctx context.Context, vm *services.ViewModel) (templ.Component, error) {
		cs, err := charts.KPICharts(ctx, vm.KPIs)
		if err != nil {
			return nil, err
		}
		return templates.KPIPage(vm.KPIs, cs, h.settings), nil
	})
}

func (h *PageHandlers) HandleSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	h.write(ctx, w, r, templates.SettingsPage(h.settings))
}

func (h *PageHandlers) page(w http.ResponseWriter, r *http.Request, page services.Page, build func(context.Context, *services.ViewModel) (templ.Component, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	req, err := parseView(r.URL.Query(), page, h.dashboard.DefaultFilters())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	vm, err := h.dashboard.Render(ctx, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	c, err := build(ctx, vm)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.write(ctx, w, r, c)
}

// write renders c into a buffer first so a failed render still produces a
// proper error response.
func (h *PageHandlers) write(ctx context.Context, w http.ResponseWriter, r *http.Request, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write page", "path", r.URL.Path, "error", err)
	}
}
