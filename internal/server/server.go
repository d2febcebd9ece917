package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	dashboard      *services.Dashboard
	mux            *http.ServeMux
	logger         *slog.Logger
	apiHandlers    *handlers.APIHandlers
	sseHandlers    *handlers.SSEHandlers
	exportHandlers *handlers.ExportHandlers
}

// TemplateHandlers render the full HTML pages.
type TemplateHandlers struct {
	Overview  http.HandlerFunc
	Analytics http.HandlerFunc
	KPIs      http.HandlerFunc
	Settings  http.HandlerFunc
}

func NewServer(dashboard *services.Dashboard, settings config.DashboardSettings, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		dashboard:      dashboard,
		mux:            http.NewServeMux(),
		logger:         logger,
		apiHandlers:    handlers.NewAPIHandlers(dashboard, logger),
		sseHandlers:    handlers.NewSSEHandlers(dashboard, settings, logger),
		exportHandlers: handlers.NewExportHandlers(dashboard, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Pages
	s.mux.HandleFunc("GET /{$}", templateHandlers.Overview)
	s.mux.HandleFunc("GET /analytics", templateHandlers.Analytics)
	s.mux.HandleFunc("GET /kpis", templateHandlers.KPIs)
	s.mux.HandleFunc("GET /settings", templateHandlers.Settings)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/records", s.apiHandlers.HandleRecords)
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/overview", s.apiHandlers.HandleOverview)
	s.mux.HandleFunc("GET /api/analytics", s.apiHandlers.HandleAnalytics)
	s.mux.HandleFunc("GET /api/periods", s.apiHandlers.HandlePeriods)
	s.mux.HandleFunc("GET /api/correlation", s.apiHandlers.HandleCorrelation)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/analytics", s.sseHandlers.HandleAnalytics)
	s.mux.HandleFunc("GET /sse/kpis", s.sseHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
	s.mux.HandleFunc("POST /sse/settings/{action}", s.sseHandlers.HandleSettingsAction)

	// Downloads
	s.mux.HandleFunc("GET /export/records.xlsx", s.exportHandlers.HandleXLSX)
	s.mux.HandleFunc("GET /export/records.csv", s.exportHandlers.HandleCSV)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
