package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sales-dashboard/internal/config"
)

func TestPageHandlers(t *testing.T) {
	settings := config.Defaults()
	settings.Company = "Acme & Co"
	handlers := NewPageHandlers(newTestDashboard(), settings, testLogger())

	tests := []struct {
		name    string
		path    string
		handler http.HandlerFunc
		want    []string
	}{
		{
			name:    "overview",
			path:    "/",
			handler: handlers.HandleOverview,
			want:    []string{"<title>Overview | Sales Analytics Dashboard</title>", `id="overview-content"`, "Sales and Revenue Trends", `id="chart-daily-sales"`},
		},
		{
			name:    "analytics",
			path:    "/analytics?region=East&from=2024-03-01",
			handler: handlers.HandleAnalytics,
			want:    []string{`id="analytics-filters"`, `id="analytics-content"`, `value="2024-03-01"`, "Correlation Analysis"},
		},
		{
			name:    "kpis",
			path:    "/kpis?period=year",
			handler: handlers.HandleKPIs,
			want:    []string{`id="kpi-content"`, "Sales (Last Year)", `id="chart-weekly-profit"`},
		},
		{
			name:    "settings",
			path:    "/settings",
			handler: handlers.HandleSettings,
			want:    []string{"@post('/sse/settings/save')", `id="settings-message"`, "Acme &amp; Co"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("content-type = %q, want text/html", ct)
			}

			body := w.Body.String()
			if !strings.HasPrefix(body, "<!doctype html>") {
				t.Error("page should start with a doctype")
			}
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("page should contain %q", s)
				}
			}
		})
	}
}

func TestPageHandlers_InvalidQuery(t *testing.T) {
	handlers := NewPageHandlers(newTestDashboard(), config.Defaults(), testLogger())

	tests := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/analytics?category=Toys", handlers.HandleAnalytics},
		{"/kpis?period=fortnight", handlers.HandleKPIs},
		{"/?as_of=soon", handlers.HandleOverview},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestPageHandlers_OverviewAsOf(t *testing.T) {
	handlers := NewPageHandlers(newTestDashboard(), config.Defaults(), testLogger())

	// Before the dataset starts nothing is counted yet.
	w := httptest.NewRecorder()
	handlers.HandleOverview(w, httptest.NewRequest(http.MethodGet, "/?as_of=2023-06-01", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "n/a") {
		t.Error("average margin should be shown as n/a when no record is counted")
	}
}

func BenchmarkPageHandlers_HandleOverview(b *testing.B) {
	handlers := NewPageHandlers(newTestDashboard(), config.Defaults(), testLogger())
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	for b.Loop() {
		handlers.HandleOverview(httptest.NewRecorder(), req)
	}
}
