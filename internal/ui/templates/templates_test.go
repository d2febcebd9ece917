package templates

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

var (
	testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
)

func mustRender(t *testing.T, html string, err error) string {
	t.Helper()
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	return html
}

func assertContains(t *testing.T, html string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(html, w) {
			t.Errorf("output should contain %q", w)
		}
	}
}

func TestLayout_NavigationAndSettings(t *testing.T) {
	settings := config.Defaults()
	settings.Theme = "Dark"
	settings.SidebarState = "Collapsed"

	html := mustRender(t, RenderString(context.Background(), OverviewPage(&services.OverviewView{}, nil, settings)))

	assertContains(t, html,
		"<!doctype html>",
		"<title>Overview | Sales Analytics Dashboard</title>",
		`class="theme-dark layout-wide sidebar-collapsed"`,
		`<a href="/" class="active" aria-current="page">Overview</a>`,
		`<a href="/analytics">Analytics</a>`,
		"datastar",
		"@get('/sse/refresh-all')",
		`data-text="$refreshedAt"`,
		"Data Science Corp</footer>",
	)
}

func TestOverviewContent(t *testing.T) {
	v := &services.OverviewView{
		KPIs: models.KPISnapshot{TotalRevenue: 1234567.4, TotalProfit: -2500, TotalCustomers: 36512, AvgMargin: 40.04, MarginDefined: true},
	}
	cs := []charts.Chart{{ID: "daily-sales", Title: "Daily Sales", SVG: "<svg>sales</svg>"}}

	html := mustRender(t, RenderString(context.Background(), OverviewContent(v, cs)))

	assertContains(t, html,
		`<div id="overview-content">`,
		"$1,234,567",
		"-$2,500",
		"36,512",
		"40.0%",
		`<figure class="chart" id="chart-daily-sales"><figcaption>Daily Sales</figcaption><svg>sales</svg></figure>`,
	)
}

func TestOverviewContent_UndefinedMargin(t *testing.T) {
	html := mustRender(t, RenderString(context.Background(), OverviewContent(&services.OverviewView{}, nil)))
	assertContains(t, html, "n/a")
}

func TestAnalyticsFilters(t *testing.T) {
	f := models.Filters{Regions: []string{"North"}, Categories: models.Categories, From: testStart, To: testEnd}

	html := mustRender(t, RenderString(context.Background(), AnalyticsFilters(f, testStart, testEnd)))

	assertContains(t, html,
		`data-on:change="@get('/sse/analytics')"`,
		`data-bind:regions value="North" checked`,
		`data-bind:regions value="South">`,
		`data-bind:from min="2024-01-01" max="2024-01-31" value="2024-01-01"`,
		"&#34;regions&#34;:[&#34;North&#34;]",
	)
}

func TestAnalyticsContent(t *testing.T) {
	records := []models.Record{
		models.NewRecord(testStart, 1000, 50, 5000, 3000, "North", "Books"),
		models.NewRecord(testStart.AddDate(0, 0, 1), 1200, 40, 6000, 3500, "North", "Home"),
		models.NewRecord(testStart.AddDate(0, 0, 2), 800, 45, 4000, 3900, "North", "Home"),
	}
	summaries, _ := services.Describe(records)
	vm := &services.ViewModel{
		Page:    services.PageAnalytics,
		Filters: models.Filters{Regions: []string{"North"}, Categories: models.Categories, From: testStart, To: testEnd},
		Analytics: &services.AnalyticsView{
			RecordCount: len(records),
			Summaries:   summaries,
			Correlation: services.Correlation(records),
		},
	}

	html := mustRender(t, RenderString(context.Background(), AnalyticsContent(vm, nil)))

	assertContains(t, html,
		`<div id="analytics-content">`,
		"3 records selected",
		`/export/records.xlsx?category=Electronics&amp;category=Apparel`,
		"<td>Sales</td><td>1,000</td><td>1,000</td>",
		`<table class="heatmap">`,
		"Descriptive Statistics",
		"Correlation Analysis",
	)
	if strings.Contains(html, "n/a") {
		t.Error("three varying records should have a fully defined matrix")
	}
}

func TestAnalyticsContent_Empty(t *testing.T) {
	vm := &services.ViewModel{
		Filters:   models.Filters{From: testStart, To: testEnd},
		Analytics: &services.AnalyticsView{Correlation: services.Correlation(nil)},
	}

	html := mustRender(t, RenderString(context.Background(), AnalyticsContent(vm, nil)))

	assertContains(t, html, "0 records selected", "No records match the current filters.", "region=&amp;")
	if strings.Contains(html, "heatmap") {
		t.Error("empty selection should not render the correlation table")
	}
}

func TestCorrelationTable_Undefined(t *testing.T) {
	m := models.CorrelationMatrix{
		Columns: []string{"sales", "margin"},
		Values:  [][]float64{{1, math.NaN()}, {math.NaN(), -0.5}},
	}

	html := mustRender(t, RenderString(context.Background(), correlationTable(m)))

	assertContains(t, html,
		`<th>Sales</th><th>Margin</th>`,
		`<td class="undefined">n/a</td>`,
		`<td style="background:rgba(79,70,229,1.00);">1.00</td>`,
		`<td style="background:rgba(220,38,38,0.50);">-0.50</td>`,
	)
}

func TestKPIPage(t *testing.T) {
	v := &services.KPIView{
		KPIs:            models.KPISnapshot{TotalRevenue: 10000, SalesToday: 950, AvgMargin: 30, MarginDefined: true, TotalCustomers: 500},
		CustomersPerDay: 49.6,
		Period:          services.PeriodQuarter,
		Current:         models.PeriodSummary{Period: "quarter", Label: "Last Quarter", Sales: 90000, Revenue: 450000, Profit: 180000, Margin: 40, Days: 91},
		Periods: []models.PeriodSummary{
			{Period: "month", Label: "Last Month", Days: 31},
			{Period: "quarter", Label: "Last Quarter", Days: 91},
		},
	}

	html := mustRender(t, RenderString(context.Background(), KPIPage(v, nil, config.Defaults())))

	assertContains(t, html,
		`<option value="quarter" selected>Last Quarter</option>`,
		`@get('/sse/kpis')`,
		"$950 (today)",
		"30.0% (margin)",
		"50 (avg/day)",
		"Sales (Last Quarter)",
		"91 days",
		`<tr class="current"><td>Last Quarter</td>`,
	)
}

func TestSettingsPage(t *testing.T) {
	s := config.Defaults()
	s.UserName = `<script>alert(1)</script>`

	html := mustRender(t, RenderString(context.Background(), SettingsPage(s)))

	assertContains(t, html,
		`<option value="Light" selected>Light</option>`,
		`data-bind:sidebar-state`,
		`data-bind:cache-minutes min="1" max="1440" value="60"`,
		`@post('/sse/settings/save')`,
		`@post('/sse/settings/reset')`,
		`@post('/sse/settings/export')`,
		`<div id="settings-message"></div>`,
	)
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("user values must be escaped")
	}
	if strings.Contains(html, "/sse/refresh-all") {
		t.Error("settings page has nothing to refresh")
	}
}

func TestSettingsSignals(t *testing.T) {
	got := SettingsSignals(config.Defaults())
	if len(got) != 18 {
		t.Errorf("expected 18 signals, got %d", len(got))
	}
	if got["sidebarState"] != "Expanded" || got["cacheMinutes"] != 60 {
		t.Errorf("signals = %v", got)
	}
}

func TestLayout_EscapesUserValues(t *testing.T) {
	settings := config.Defaults()
	settings.UserName = `"><script>alert(1)</script>`
	settings.Company = "Acme & Co"
	settings.Theme = `dark" onload="x`

	html := mustRender(t, RenderString(context.Background(), KPIPage(&services.KPIView{Period: services.PeriodMonth}, nil, settings)))

	assertContains(t, html,
		`<div class="brand-sub">&#34;&gt;&lt;script&gt;alert(1)&lt;/script&gt;</div>`,
		"Acme &amp; Co</footer>",
		`class="theme-dark&#34; onload=&#34;x layout-wide sidebar-expanded"`,
	)
	if strings.Contains(html, "<script>alert(1)") {
		t.Error("user name must be escaped")
	}
}

func TestTextField_EscapesValue(t *testing.T) {
	html := mustRender(t, RenderString(context.Background(), textField("Name", "user-name", "text", `a" autofocus onfocus="x`)))
	want := `<label>Name <input type="text" data-bind:user-name value="a&#34; autofocus onfocus=&#34;x"></label>`
	if html != want {
		t.Errorf("got %s, want %s", html, want)
	}
}

func TestChartGrid_Order(t *testing.T) {
	cs := []charts.Chart{
		{ID: "b", Title: "B", SVG: "<svg>b</svg>"},
		{ID: "a", Title: "A", SVG: "<svg>a</svg>"},
	}

	html := mustRender(t, RenderString(context.Background(), chartGrid(pick(cs, "a", "missing", "b"))))

	want := `<div class="chart-grid">` +
		`<figure class="chart" id="chart-a"><figcaption>A</figcaption><svg>a</svg></figure>` +
		`<figure class="chart" id="chart-b"><figcaption>B</figcaption><svg>b</svg></figure>` +
		`</div>`
	if html != want {
		t.Errorf("got %s, want %s", html, want)
	}
}

func TestSettingsMessage(t *testing.T) {
	html := mustRender(t, RenderString(context.Background(), SettingsMessage("success", "Settings saved successfully!")))
	want := `<div id="settings-message" class="alert alert-success" role="status">Settings saved successfully!</div>`
	if html != want {
		t.Errorf("got %s, want %s", html, want)
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{money(1234.5), "$1,235"},
		{money(-0.4), "$0"},
		{number(999.4), "999"},
		{count(1000000), "1,000,000"},
		{percent(12.345), "12.3%"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
