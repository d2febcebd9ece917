package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
)

func newTestDashboard() *Dashboard {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	d := NewDashboard(dataset.DefaultSeed, dataset.DefaultStart, dataset.DefaultEnd, logger)
	d.SetClock(func() time.Time { return day(2024, 6, 15).Add(9 * time.Hour) })
	return d
}

func TestNewDashboard(t *testing.T) {
	d := NewDashboard(1, dataset.DefaultStart, dataset.DefaultEnd, nil)
	if d == nil {
		t.Fatal("NewDashboard() returned nil")
	}
	if d.logger == nil {
		t.Error("logger should be initialized")
	}
	start, end := d.Range()
	if !start.Equal(dataset.DefaultStart) || !end.Equal(dataset.DefaultEnd) {
		t.Errorf("Range() = %s..%s", start, end)
	}
}

func TestParsePage(t *testing.T) {
	for _, p := range []Page{PageOverview, PageAnalytics, PageKPIs, PageSettings} {
		if got, err := ParsePage(string(p)); err != nil || got != p {
			t.Errorf("ParsePage(%q) = %q, %v", p, got, err)
		}
	}
	if _, err := ParsePage("reports"); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("expected ErrUnknownPage, got %v", err)
	}
}

func TestDashboard_RenderOverview(t *testing.T) {
	d := newTestDashboard()
	vm, err := d.Render(context.Background(), RenderRequest{Page: PageOverview})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if vm.Overview == nil {
		t.Fatal("overview view should be set")
	}
	if vm.Analytics != nil || vm.KPIs != nil {
		t.Error("only the requested page should be computed")
	}
	if len(vm.Overview.Daily) != 731 {
		t.Errorf("expected 731 daily rows, got %d", len(vm.Overview.Daily))
	}
	if len(vm.Overview.Regions) != 5 {
		t.Errorf("expected 5 regions, got %d", len(vm.Overview.Regions))
	}
	if !vm.Overview.KPIs.MarginDefined || vm.Overview.KPIs.SalesToday == 0 {
		t.Errorf("expected KPIs as of the clock date, got %+v", vm.Overview.KPIs)
	}
	if !vm.AsOf.Equal(d.Now()) {
		t.Errorf("AsOf = %s, want clock time", vm.AsOf)
	}
}

func TestDashboard_RenderAnalytics(t *testing.T) {
	d := newTestDashboard()
	f := d.DefaultFilters()
	f.Regions = []string{"North"}

	vm, err := d.Render(context.Background(), RenderRequest{Page: PageAnalytics, Filters: &f})
	if err != nil {
		t.Fatal(err)
	}
	a := vm.Analytics
	if a == nil {
		t.Fatal("analytics view should be set")
	}
	if a.RecordCount == 0 || a.RecordCount >= 731 {
		t.Errorf("RecordCount = %d, want a North subset", a.RecordCount)
	}
	if len(a.Summaries) != 3 {
		t.Errorf("expected 3 summaries, got %d", len(a.Summaries))
	}
	if len(a.Correlation.Values) != 5 {
		t.Errorf("expected 5x5 correlation matrix")
	}
}

func TestDashboard_RenderAnalyticsEmpty(t *testing.T) {
	d := newTestDashboard()
	f := d.DefaultFilters()
	f.Regions = nil

	vm, err := d.Render(context.Background(), RenderRequest{Page: PageAnalytics, Filters: &f})
	if err != nil {
		t.Fatalf("empty selections should not fail, got %v", err)
	}
	if vm.Analytics.RecordCount != 0 || vm.Analytics.Summaries == nil || len(vm.Analytics.Summaries) != 0 {
		t.Errorf("expected an empty analytics view, got %+v", vm.Analytics)
	}
	if len(vm.Analytics.Categories) != 0 {
		t.Error("expected no category rows")
	}
}

func TestDashboard_RenderKPIs(t *testing.T) {
	d := newTestDashboard()
	vm, err := d.Render(context.Background(), RenderRequest{Page: PageKPIs, Period: PeriodQuarter})
	if err != nil {
		t.Fatal(err)
	}
	k := vm.KPIs
	if k == nil {
		t.Fatal("kpi view should be set")
	}
	if k.Period != PeriodQuarter || k.Current.Period != string(PeriodQuarter) {
		t.Errorf("period = %q / %q, want quarter", k.Period, k.Current.Period)
	}
	if len(k.Periods) != 3 {
		t.Errorf("expected 3 period summaries, got %d", len(k.Periods))
	}
	if len(k.Weekly) < 13 || len(k.Weekly) > 15 {
		t.Errorf("expected about 14 weeks in a quarter, got %d", len(k.Weekly))
	}
	// Customers are counted up to the clock but spread over all 731 days.
	if want := float64(k.KPIs.TotalCustomers) / 731; !approxEqual(k.CustomersPerDay, want) {
		t.Errorf("CustomersPerDay = %f, want %f", k.CustomersPerDay, want)
	}
	if k.CustomersPerDay > 40 {
		t.Errorf("CustomersPerDay = %f, customers after the clock should not count", k.CustomersPerDay)
	}
}

func TestDashboard_RenderKPIsDefaultPeriod(t *testing.T) {
	d := newTestDashboard()
	vm, err := d.Render(context.Background(), RenderRequest{Page: PageKPIs})
	if err != nil {
		t.Fatal(err)
	}
	if vm.KPIs.Period != PeriodMonth {
		t.Errorf("default period = %q, want month", vm.KPIs.Period)
	}
}

func TestDashboard_RenderBeforeDataset(t *testing.T) {
	d := newTestDashboard()
	vm, err := d.Render(context.Background(), RenderRequest{Page: PageKPIs, AsOf: day(2020, 1, 1)})
	if err != nil {
		t.Fatalf("an as-of date before the dataset should not fail, got %v", err)
	}
	if vm.KPIs.KPIs.MarginDefined {
		t.Error("margin should be undefined without records")
	}
	if vm.KPIs.Current.Days != 0 {
		t.Errorf("expected an empty window, got %d days", vm.KPIs.Current.Days)
	}
}

func TestDashboard_RenderSettings(t *testing.T) {
	d := newTestDashboard()
	vm, err := d.Render(context.Background(), RenderRequest{Page: PageSettings})
	if err != nil {
		t.Fatal(err)
	}
	if vm.Overview != nil || vm.Analytics != nil || vm.KPIs != nil {
		t.Error("settings page should not compute any view")
	}
}

func TestDashboard_RenderUnknownPage(t *testing.T) {
	d := newTestDashboard()
	if _, err := d.Render(context.Background(), RenderRequest{Page: "reports"}); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("expected ErrUnknownPage, got %v", err)
	}
}

func TestDashboard_FilteredRecords(t *testing.T) {
	d := newTestDashboard()
	f := models.AllFilters(day(2024, 1, 1), day(2024, 1, 31))
	records, err := d.FilteredRecords(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 31 {
		t.Errorf("expected 31 January records, got %d", len(records))
	}
}

func TestDashboard_ConcurrentRender(t *testing.T) {
	d := newTestDashboard()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range []Page{PageOverview, PageAnalytics, PageKPIs} {
				if _, err := d.Render(context.Background(), RenderRequest{Page: p}); err != nil {
					t.Errorf("Render(%s) error = %v", p, err)
				}
			}
		}()
	}
	wg.Wait()

	if got := d.Stats()["renders"].(int64); got != 30 {
		t.Errorf("renders = %d, want 30", got)
	}
}

func BenchmarkDashboard_RenderAnalytics(b *testing.B) {
	d := newTestDashboard()
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		_, _ = d.Render(ctx, RenderRequest{Page: PageAnalytics})
	}
}
