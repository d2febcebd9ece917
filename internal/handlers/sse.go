package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	dashboard *services.Dashboard
	settings  config.DashboardSettings
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, settings config.DashboardSettings, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		settings:  settings,
		logger:    logger,
	}
}

type kpiSignals struct {
	Period string `json:"period"`
}

type refreshSignals struct {
	Page   string `json:"page"`
	Period string `json:"period"`
	templates.AnalyticsSignals
}

// HandleAnalytics re-renders the Analytics content for the filter signals.
func (h *SSEHandlers) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	var signals templates.AnalyticsSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		writeError(w, r, h.logger, errors.ValidationWrap(err, "Invalid signals"))
		return
	}

	filters, err := filtersFromSignals(signals, h.dashboard.DefaultFilters())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	html, err := h.pageContent(r.Context(), services.RenderRequest{Page: services.PageAnalytics, Filters: &filters})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElements(html)
}

// HandleKPIs re-renders the KPI content for the "period" signal.
func (h *SSEHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	var signals kpiSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		writeError(w, r, h.logger, errors.ValidationWrap(err, "Invalid signals"))
		return
	}

	period, err := parsePeriod(signals.Period)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	html, err := h.pageContent(r.Context(), services.RenderRequest{Page: services.PageKPIs, Period: period})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElements(html)
}

// HandleRefreshAll regenerates the dataset and re-renders the content of the
// page named by the "page" signal, then stamps the refresh time.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	var signals refreshSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		writeError(w, r, h.logger, errors.ValidationWrap(err, "Invalid signals"))
		return
	}

	page := services.PageOverview
	if signals.Page != "" {
		var err error
		if page, err = services.ParsePage(signals.Page); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	req := services.RenderRequest{Page: page}
	switch page {
	case services.PageAnalytics:
		filters, err := filtersFromSignals(signals.AnalyticsSignals, h.dashboard.DefaultFilters())
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		req.Filters = &filters
	case services.PageKPIs:
		period, err := parsePeriod(signals.Period)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		req.Period = period
	case services.PageSettings:
		writeError(w, r, h.logger, errors.Validation("The settings page has no data to refresh"))
		return
	}

	html, err := h.pageContent(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	refreshed, err := json.Marshal(map[string]any{
		"refreshedAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElements(html)
	sse.PatchSignals(refreshed)
}

var settingsMessages = map[string]struct {
	kind string
	text string
}{
	"save":   {"success", "Settings saved successfully!"},
	"reset":  {"info", "Settings restored to default values"},
	"export": {"warning", "Settings export is not available: settings are read from the environment at startup"},
}

// HandleSettingsAction answers the Settings page buttons. Settings are fixed
// at startup, so every action only reports a status message; reset also
// puts the form back to the defaults.
func (h *SSEHandlers) HandleSettingsAction(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")
	msg, ok := settingsMessages[action]
	if !ok {
		writeError(w, r, h.logger, errors.NotFound("Unknown settings action"))
		return
	}

	html, err := templates.RenderString(r.Context(), templates.SettingsMessage(msg.kind, msg.text))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var defaults []byte
	if action == "reset" {
		if defaults, err = json.Marshal(templates.SettingsSignals(config.Defaults())); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	h.logger.Info("settings action", "action", action, "user", h.settings.UserName)

	sse := datastar.NewSSE(w, r)
	sse.PatchElements(html)
	if defaults != nil {
		sse.PatchSignals(defaults)
	}
}

// pageContent renders the replaceable content block of a page together with
// its charts.
func (h *SSEHandlers) pageContent(ctx context.Context, req services.RenderRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	vm, err := h.dashboard.Render(ctx, req)
	if err != nil {
		return "", err
	}

	switch vm.Page {
	case services.PageOverview:
		cs, err := charts.OverviewCharts(ctx, vm.Overview)
		if err != nil {
			return "", err
		}
		return templates.RenderString(ctx, templates.OverviewContent(vm.Overview, cs))
	case services.PageAnalytics:
		cs, err := charts.AnalyticsCharts(ctx, vm.Analytics)
		if err != nil {
			return "", err
		}
		return templates.RenderString(ctx, templates.AnalyticsContent(vm, cs))
	case services.PageKPIs:
		cs, err := charts.KPICharts(ctx, vm.KPIs)
		if err != nil {
			return "", err
		}
		return templates.RenderString(ctx, templates.KPIContent(vm.KPIs, cs))
	}
	return "", errors.Validation("Page has no content block")
}
