package charts

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func generatedRecords(t testing.TB) []models.Record {
	t.Helper()
	records, err := dataset.Generate(dataset.DefaultSeed, dataset.DefaultStart, dataset.DefaultEnd)
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestOverviewCharts(t *testing.T) {
	records := generatedRecords(t)
	view := &services.OverviewView{
		Daily:   services.DailyTotals(records),
		Regions: services.RegionTotals(records),
	}

	charts, err := OverviewCharts(context.Background(), view)
	if err != nil {
		t.Fatalf("OverviewCharts() error = %v", err)
	}
	want := []string{"daily-sales", "daily-revenue", "region-sales", "region-revenue"}
	if len(charts) != len(want) {
		t.Fatalf("expected %d charts, got %d", len(want), len(charts))
	}
	for i, id := range want {
		if charts[i].ID != id {
			t.Errorf("chart %d = %s, want %s", i, charts[i].ID, id)
		}
	}
	for _, c := range charts {
		if !strings.Contains(c.SVG, "<svg") {
			t.Errorf("%s: expected SVG output", c.ID)
		}
		if strings.Contains(c.SVG, "chart-empty") {
			t.Errorf("%s: full dataset should not render a placeholder", c.ID)
		}
	}
}

func TestAnalyticsCharts(t *testing.T) {
	filtered := services.ApplyFilters(generatedRecords(t), models.AllFilters(dataset.DefaultStart, dataset.DefaultEnd))
	view := &services.AnalyticsView{
		Monthly:     services.MonthlyTotals(filtered),
		Seasonality: services.MonthlySeasonality(filtered),
		Quarters:    services.QuarterTotals(filtered),
		Categories:  services.CategoryTotals(filtered),
	}

	charts, err := AnalyticsCharts(context.Background(), view)
	if err != nil {
		t.Fatalf("AnalyticsCharts() error = %v", err)
	}
	want := []string{"monthly-sales", "seasonality", "quarters", "category-sales", "category-margin"}
	if len(charts) != len(want) {
		t.Fatalf("expected %d charts, got %d", len(want), len(charts))
	}
	for i, id := range want {
		if charts[i].ID != id {
			t.Errorf("chart %d = %s, want %s", i, charts[i].ID, id)
		}
		if charts[i].Title == "" {
			t.Errorf("%s: missing title", id)
		}
	}
}

func TestAnalyticsCharts_EmptySelection(t *testing.T) {
	charts, err := AnalyticsCharts(context.Background(), &services.AnalyticsView{})
	if err != nil {
		t.Fatalf("empty view should render placeholders, got %v", err)
	}
	for _, c := range charts {
		if !strings.Contains(c.SVG, "chart-empty") {
			t.Errorf("%s: expected placeholder", c.ID)
		}
	}
}

func TestKPICharts(t *testing.T) {
	records := generatedRecords(t)
	view := &services.KPIView{Weekly: services.WeeklyTotals(records)}

	charts, err := KPICharts(context.Background(), view)
	if err != nil {
		t.Fatalf("KPICharts() error = %v", err)
	}
	if len(charts) != 3 {
		t.Fatalf("expected 3 charts, got %d", len(charts))
	}
	for _, c := range charts {
		if strings.Contains(c.SVG, "chart-empty") {
			t.Errorf("%s: two years of weeks should render a chart", c.ID)
		}
	}
}

func TestRenderAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := KPICharts(ctx, &services.KPIView{})
	if err == nil {
		t.Error("cancelled context should abort rendering")
	}
}

func TestTimeChart_SinglePoint(t *testing.T) {
	var buf bytes.Buffer
	daily := []models.DailyTotal{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Sales: 10}}
	if err := dailySales(&buf, daily); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "chart-empty") {
		t.Error("a single point should render the placeholder")
	}
}

func TestTimeChart_FlatSeries(t *testing.T) {
	var buf bytes.Buffer
	daily := []models.DailyTotal{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Sales: 10},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Sales: 10},
	}
	if err := dailySales(&buf, daily); err != nil {
		t.Fatalf("flat series should still render: %v", err)
	}
	if strings.Contains(buf.String(), "chart-empty") {
		t.Error("flat series should render a chart, not the placeholder")
	}
}

func TestBarChart_AllZero(t *testing.T) {
	var buf bytes.Buffer
	if err := quarters(&buf, []models.QuarterTotal{{Quarter: 1}, {Quarter: 2}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "chart-empty") {
		t.Error("zero-height bars should render the placeholder")
	}
}

func TestFormatThousands(t *testing.T) {
	if got := formatThousands(1234567.8); got != "1,234,567" {
		t.Errorf("formatThousands() = %q", got)
	}
	if got := formatThousands("x"); got != "" {
		t.Errorf("non-float should format empty, got %q", got)
	}
}

func BenchmarkAnalyticsCharts(b *testing.B) {
	records := generatedRecords(b)
	view := &services.AnalyticsView{
		Monthly:     services.MonthlyTotals(records),
		Seasonality: services.MonthlySeasonality(records),
		Quarters:    services.QuarterTotals(records),
		Categories:  services.CategoryTotals(records),
	}
	for b.Loop() {
		_, _ = AnalyticsCharts(context.Background(), view)
	}
}
