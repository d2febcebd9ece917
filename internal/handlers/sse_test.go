package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/ui/templates"
)

func newTestSSEHandlers() *SSEHandlers {
	return NewSSEHandlers(newTestDashboard(), config.Defaults(), testLogger())
}

func assertEventStream(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("cache-control = %q, want 'no-cache'", cc)
	}
	return w.Body.String()
}

func assertBody(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, s := range want {
		if !strings.Contains(body, s) {
			t.Errorf("response should contain %q", s)
		}
	}
}

func TestNewSSEHandlers(t *testing.T) {
	dashboard := newTestDashboard()
	logger := testLogger()
	settings := config.Defaults()

	handlers := NewSSEHandlers(dashboard, settings, logger)

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.dashboard != dashboard {
		t.Error("NewSSEHandlers() should set dashboard field")
	}
	if handlers.settings != settings {
		t.Error("NewSSEHandlers() should set settings field")
	}
	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestSSEHandlers_HandleAnalytics(t *testing.T) {
	handlers := newTestSSEHandlers()

	query := signalsQuery(t, templates.AnalyticsSignals{
		Regions:    []string{"North"},
		Categories: []string{"Books", "Home"},
		From:       "2024-02-01",
		To:         "2024-04-30",
	})
	w := httptest.NewRecorder()
	handlers.HandleAnalytics(w, httptest.NewRequest(http.MethodGet, "/sse/analytics"+query, nil))

	body := assertEventStream(t, w)
	assertBody(t, body,
		"datastar-patch-elements",
		`id="analytics-content"`,
		"records selected",
		"from=2024-02-01",
		"region=North",
	)
}

func TestSSEHandlers_HandleAnalytics_NoSignals(t *testing.T) {
	handlers := newTestSSEHandlers()

	w := httptest.NewRecorder()
	handlers.HandleAnalytics(w, httptest.NewRequest(http.MethodGet, "/sse/analytics", nil))

	body := assertEventStream(t, w)
	assertBody(t, body, "167 records selected", "Descriptive Statistics")
}

func TestSSEHandlers_HandleAnalytics_EmptySelection(t *testing.T) {
	handlers := newTestSSEHandlers()

	query := signalsQuery(t, templates.AnalyticsSignals{Regions: []string{}})
	w := httptest.NewRecorder()
	handlers.HandleAnalytics(w, httptest.NewRequest(http.MethodGet, "/sse/analytics"+query, nil))

	body := assertEventStream(t, w)
	assertBody(t, body, "0 records selected", "No records match the current filters.")
}

func TestSSEHandlers_HandleAnalytics_InvalidSignals(t *testing.T) {
	handlers := newTestSSEHandlers()

	query := signalsQuery(t, templates.AnalyticsSignals{Regions: []string{"Atlantis"}})
	w := httptest.NewRecorder()
	handlers.HandleAnalytics(w, httptest.NewRequest(http.MethodGet, "/sse/analytics"+query, nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, errors should be reported before the stream opens", ct)
	}
}

func TestSSEHandlers_HandleKPIs(t *testing.T) {
	handlers := newTestSSEHandlers()

	tests := []struct {
		period string
		want   string
	}{
		{"month", "Sales (Last Month)"},
		{"quarter", "Sales (Last Quarter)"},
		{"year", "Sales (Last Year)"},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			query := signalsQuery(t, map[string]string{"period": tt.period})
			w := httptest.NewRecorder()
			handlers.HandleKPIs(w, httptest.NewRequest(http.MethodGet, "/sse/kpis"+query, nil))

			body := assertEventStream(t, w)
			assertBody(t, body, `id="kpi-content"`, "Real-time KPIs", tt.want)
		})
	}
}

func TestSSEHandlers_HandleKPIs_UnknownPeriod(t *testing.T) {
	handlers := newTestSSEHandlers()

	query := signalsQuery(t, map[string]string{"period": "decade"})
	w := httptest.NewRecorder()
	handlers.HandleKPIs(w, httptest.NewRequest(http.MethodGet, "/sse/kpis"+query, nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSSEHandlers_HandleRefreshAll(t *testing.T) {
	handlers := newTestSSEHandlers()

	tests := []struct {
		name    string
		signals map[string]any
		want    string
	}{
		{"default page", nil, `id="overview-content"`},
		{"overview", map[string]any{"page": "overview"}, `id="overview-content"`},
		{"analytics", map[string]any{"page": "analytics", "regions": []string{"South"}}, `id="analytics-content"`},
		{"kpis", map[string]any{"page": "kpis", "period": "quarter"}, "Sales (Last Quarter)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/sse/refresh-all"
			if tt.signals != nil {
				path += signalsQuery(t, tt.signals)
			}
			w := httptest.NewRecorder()
			handlers.HandleRefreshAll(w, httptest.NewRequest(http.MethodGet, path, nil))

			body := assertEventStream(t, w)
			assertBody(t, body, tt.want, "datastar-patch-signals", "refreshedAt")
		})
	}
}

func TestSSEHandlers_HandleRefreshAll_Invalid(t *testing.T) {
	handlers := newTestSSEHandlers()

	for _, page := range []string{"settings", "reports"} {
		t.Run(page, func(t *testing.T) {
			query := signalsQuery(t, map[string]string{"page": page})
			w := httptest.NewRecorder()
			handlers.HandleRefreshAll(w, httptest.NewRequest(http.MethodGet, "/sse/refresh-all"+query, nil))

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestSSEHandlers_HandleSettingsAction(t *testing.T) {
	handlers := newTestSSEHandlers()

	tests := []struct {
		action      string
		wantMessage string
		wantClass   string
		wantSignals bool
	}{
		{"save", "Settings saved successfully!", "alert-success", false},
		{"reset", "Settings restored to default values", "alert-info", true},
		{"export", "Settings export is not available", "alert-warning", false},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/sse/settings/"+tt.action, strings.NewReader("{}"))
			r.SetPathValue("action", tt.action)
			w := httptest.NewRecorder()

			handlers.HandleSettingsAction(w, r)

			body := assertEventStream(t, w)
			assertBody(t, body, `id="settings-message"`, tt.wantMessage, tt.wantClass)

			hasSignals := strings.Contains(body, "datastar-patch-signals")
			if hasSignals != tt.wantSignals {
				t.Errorf("patch-signals present = %v, want %v", hasSignals, tt.wantSignals)
			}
			if tt.wantSignals {
				assertBody(t, body, `"theme":"Light"`, `"userName":"Data Analyst"`)
			}
		})
	}
}

func TestSSEHandlers_HandleSettingsAction_Unknown(t *testing.T) {
	handlers := newTestSSEHandlers()

	r := httptest.NewRequest(http.MethodPost, "/sse/settings/delete", nil)
	r.SetPathValue("action", "delete")
	w := httptest.NewRecorder()

	handlers.HandleSettingsAction(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSSEHandlers_SettingsAreNotMutated(t *testing.T) {
	settings := config.Defaults()
	settings.Theme = "Dark"
	handlers := NewSSEHandlers(newTestDashboard(), settings, testLogger())

	r := httptest.NewRequest(http.MethodPost, "/sse/settings/reset", nil)
	r.SetPathValue("action", "reset")
	handlers.HandleSettingsAction(httptest.NewRecorder(), r)

	if handlers.settings.Theme != "Dark" {
		t.Errorf("Theme = %q, reset should only affect the client form", handlers.settings.Theme)
	}
}
