package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

type Page string

const (
	PageOverview  Page = "overview"
	PageAnalytics Page = "analytics"
	PageKPIs      Page = "kpis"
	PageSettings  Page = "settings"
)

var ErrUnknownPage = errors.New("unknown page")

func ParsePage(s string) (Page, error) {
	switch p := Page(s); p {
	case PageOverview, PageAnalytics, PageKPIs, PageSettings:
		return p, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownPage, s)
}

// RenderRequest selects what a single render cycle computes. A nil Filters
// selects every record of the dataset; a zero AsOf means the dashboard clock.
type RenderRequest struct {
	Page    Page
	Filters *models.Filters
	AsOf    time.Time
	Period  Period
}

type ViewModel struct {
	Page      Page           `json:"page"`
	AsOf      time.Time      `json:"as_of"`
	Filters   models.Filters `json:"filters"`
	Overview  *OverviewView  `json:"overview,omitempty"`
	Analytics *AnalyticsView `json:"analytics,omitempty"`
	KPIs      *KPIView       `json:"kpis,omitempty"`
}

type OverviewView struct {
	KPIs    models.KPISnapshot   `json:"kpis"`
	Daily   []models.DailyTotal  `json:"daily"`
	Regions []models.RegionTotal `json:"regions"`
}

type AnalyticsView struct {
	RecordCount int                      `json:"record_count"`
	Summaries   []models.Summary         `json:"summaries"`
	Monthly     []models.MonthTotal      `json:"monthly"`
	Seasonality []models.MonthMean       `json:"seasonality"`
	Quarters    []models.QuarterTotal    `json:"quarters"`
	Correlation models.CorrelationMatrix `json:"correlation"`
	Categories  []models.CategoryTotal   `json:"categories"`
}

type KPIView struct {
	KPIs            models.KPISnapshot     `json:"kpis"`
	CustomersPerDay float64                `json:"customers_per_day"`
	Period          Period                 `json:"period"`
	Current         models.PeriodSummary   `json:"current"`
	Periods         []models.PeriodSummary `json:"periods"`
	Weekly          []models.WeekTotal     `json:"weekly"`
}

// Dashboard regenerates the synthetic dataset on every call and derives the
// views of a page from it. It keeps no data between calls.
type Dashboard struct {
	seed    int64
	start   time.Time
	end     time.Time
	now     func() time.Time
	logger  *slog.Logger
	renders atomic.Int64
	started time.Time
}

func NewDashboard(seed int64, start, end time.Time, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		seed:    seed,
		start:   models.Day(start),
		end:     models.Day(end),
		now:     time.Now,
		logger:  logger,
		started: time.Now(),
	}
}

// SetClock replaces the source of "now" used when a request has no AsOf.
func (d *Dashboard) SetClock(now func() time.Time) {
	d.now = now
}

func (d *Dashboard) Now() time.Time {
	return d.now()
}

func (d *Dashboard) Range() (time.Time, time.Time) {
	return d.start, d.end
}

// DefaultFilters selects every region and category over the dataset range.
func (d *Dashboard) DefaultFilters() models.Filters {
	return models.AllFilters(d.start, d.end)
}

func (d *Dashboard) Records() ([]models.Record, error) {
	return dataset.Generate(d.seed, d.start, d.end)
}

// FilteredRecords regenerates the dataset and narrows it with f.
func (d *Dashboard) FilteredRecords(f models.Filters) ([]models.Record, error) {
	records, err := d.Records()
	if err != nil {
		return nil, err
	}
	return ApplyFilters(records, f), nil
}

// Render runs one render cycle for req.
func (d *Dashboard) Render(ctx context.Context, req RenderRequest) (*ViewModel, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.render")
	defer span.Finish()
	span.SetTag("page", string(req.Page))

	start := time.Now()
	d.renders.Add(1)

	vm := &ViewModel{
		Page:    req.Page,
		AsOf:    req.AsOf,
		Filters: d.DefaultFilters(),
	}
	if vm.AsOf.IsZero() {
		vm.AsOf = d.now()
	}
	if req.Filters != nil {
		vm.Filters = *req.Filters
	}

	if req.Page == PageSettings {
		return vm, nil
	}

	records, err := d.Records()
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("generate dataset: %w", err)
	}

	switch req.Page {
	case PageOverview:
		vm.Overview, err = d.overview(records, vm.AsOf)
	case PageAnalytics:
		vm.Analytics, err = d.analytics(ApplyFilters(records, vm.Filters))
	case PageKPIs:
		period := req.Period
		if period == "" {
			period = PeriodMonth
		}
		vm.KPIs, err = d.kpis(records, vm.AsOf, period)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownPage, req.Page)
	}
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	d.logger.DebugContext(ctx, "render complete",
		"page", req.Page,
		"records", len(records),
		"duration", time.Since(start),
		"request_id", observability.GetRequestID(ctx),
	)
	return vm, nil
}

func (d *Dashboard) overview(records []models.Record, asOf time.Time) (*OverviewView, error) {
	kpis, err := ComputeKPIs(records, asOf)
	if err != nil && !errors.Is(err, ErrEmptyInput) {
		return nil, err
	}
	return &OverviewView{
		KPIs:    kpis,
		Daily:   DailyTotals(records),
		Regions: RegionTotals(records),
	}, nil
}

func (d *Dashboard) analytics(filtered []models.Record) (*AnalyticsView, error) {
	summaries, err := Describe(filtered)
	if err != nil && !errors.Is(err, ErrEmptyInput) {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.Summary{}
	}
	return &AnalyticsView{
		RecordCount: len(filtered),
		Summaries:   summaries,
		Monthly:     MonthlyTotals(filtered),
		Seasonality: MonthlySeasonality(filtered),
		Quarters:    QuarterTotals(filtered),
		Correlation: Correlation(filtered),
		Categories:  CategoryTotals(filtered),
	}, nil
}

func (d *Dashboard) kpis(records []models.Record, asOf time.Time, period Period) (*KPIView, error) {
	kpis, err := ComputeKPIs(records, asOf)
	if err != nil && !errors.Is(err, ErrEmptyInput) {
		return nil, err
	}
	current, window, err := ComparePeriod(records, asOf, period)
	if err != nil {
		return nil, err
	}
	return &KPIView{
		KPIs:            kpis,
		CustomersPerDay: CustomersPerDay(kpis, records),
		Period:          period,
		Current:         current,
		Periods:         CompareAll(records, asOf),
		Weekly:          WeeklyTotals(window),
	}, nil
}

// Stats reports dashboard counters for monitoring.
func (d *Dashboard) Stats() map[string]any {
	return map[string]any{
		"seed":       d.seed,
		"start":      d.start.Format(models.DateLayout),
		"end":        d.end.Format(models.DateLayout),
		"days":       dataset.Days(d.start, d.end),
		"renders":    d.renders.Load(),
		"uptime":     time.Since(d.started).String(),
		"regions":    len(models.Regions),
		"categories": len(models.Categories),
	}
}
