// Package charts renders dashboard views as inline SVG charts.
package charts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	width  = 720
	height = 320
)

var (
	colorSales   = drawing.ColorFromHex("4f46e5")
	colorRevenue = drawing.ColorFromHex("0ea5e9")
	colorProfit  = drawing.ColorFromHex("16a34a")
)

type Chart struct {
	ID    string
	Title string
	SVG   string
}

type job struct {
	id     string
	title  string
	render func(w io.Writer) error
}

func OverviewCharts(ctx context.Context, v *services.OverviewView) ([]Chart, error) {
	return renderAll(ctx, []job{
		{"daily-sales", "Daily Sales", func(w io.Writer) error { return dailySales(w, v.Daily) }},
		{"daily-revenue", "Daily Revenue", func(w io.Writer) error { return dailyRevenue(w, v.Daily) }},
		{"region-sales", "Sales by Region", func(w io.Writer) error { return regionSales(w, v.Regions) }},
		{"region-revenue", "Revenue by Region", func(w io.Writer) error { return regionRevenue(w, v.Regions) }},
	})
}

func AnalyticsCharts(ctx context.Context, v *services.AnalyticsView) ([]Chart, error) {
	return renderAll(ctx, []job{
		{"monthly-sales", "Monthly Sales", func(w io.Writer) error { return monthlySales(w, v.Monthly) }},
		{"seasonality", "Average Sales by Month", func(w io.Writer) error { return seasonality(w, v.Seasonality) }},
		{"quarters", "Sales by Quarter", func(w io.Writer) error { return quarters(w, v.Quarters) }},
		{"category-sales", "Sales by Category", func(w io.Writer) error { return categorySales(w, v.Categories) }},
		{"category-margin", "Average Margin by Category", func(w io.Writer) error { return categoryMargin(w, v.Categories) }},
	})
}

func KPICharts(ctx context.Context, v *services.KPIView) ([]Chart, error) {
	return renderAll(ctx, []job{
		{"weekly-sales", "Weekly Sales", func(w io.Writer) error { return weekly(w, v.Weekly, "Sales", colorSales) }},
		{"weekly-revenue", "Weekly Revenue", func(w io.Writer) error { return weekly(w, v.Weekly, "Revenue", colorRevenue) }},
		{"weekly-profit", "Weekly Profit", func(w io.Writer) error { return weekly(w, v.Weekly, "Profit", colorProfit) }},
	})
}

// renderAll draws every job concurrently and returns the charts in job order.
func renderAll(ctx context.Context, jobs []job) ([]Chart, error) {
	out := make([]Chart, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := j.render(&buf); err != nil {
				return fmt.Errorf("render %s chart: %w", j.id, err)
			}
			out[i] = Chart{ID: j.id, Title: j.title, SVG: buf.String()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func dailySales(w io.Writer, daily []models.DailyTotal) error {
	xs, ys := dailyColumn(daily, func(d models.DailyTotal) float64 { return d.Sales })
	return timeChart(w, "2006-01-02", chart.TimeSeries{Name: "Sales", XValues: xs, YValues: ys, Style: lineStyle(colorSales)})
}

func dailyRevenue(w io.Writer, daily []models.DailyTotal) error {
	xs, ys := dailyColumn(daily, func(d models.DailyTotal) float64 { return d.Revenue })
	return timeChart(w, "2006-01-02", chart.TimeSeries{Name: "Revenue", XValues: xs, YValues: ys, Style: lineStyle(colorRevenue)})
}

func dailyColumn(daily []models.DailyTotal, value func(models.DailyTotal) float64) ([]time.Time, []float64) {
	xs := make([]time.Time, len(daily))
	ys := make([]float64, len(daily))
	for i, d := range daily {
		xs[i] = d.Date
		ys[i] = value(d)
	}
	return xs, ys
}

func monthlySales(w io.Writer, monthly []models.MonthTotal) error {
	xs := make([]time.Time, len(monthly))
	ys := make([]float64, len(monthly))
	for i, m := range monthly {
		xs[i] = m.Start
		ys[i] = m.Sales
	}
	return timeChart(w, "2006-01", chart.TimeSeries{Name: "Sales", XValues: xs, YValues: ys, Style: lineStyle(colorSales)})
}

// weekly draws one column of the weekly totals: Sales, Revenue or Profit.
func weekly(w io.Writer, weeks []models.WeekTotal, column string, color drawing.Color) error {
	xs := make([]time.Time, len(weeks))
	ys := make([]float64, len(weeks))
	for i, wk := range weeks {
		xs[i] = wk.WeekEnding
		switch column {
		case "Sales":
			ys[i] = wk.Sales
		case "Revenue":
			ys[i] = wk.Revenue
		case "Profit":
			ys[i] = wk.Profit
		}
	}
	return timeChart(w, "01-02", chart.TimeSeries{Name: column, XValues: xs, YValues: ys, Style: lineStyle(color)})
}

func regionSales(w io.Writer, regions []models.RegionTotal) error {
	values := make([]chart.Value, len(regions))
	for i, r := range regions {
		values[i] = chart.Value{Label: r.Region, Value: r.Sales}
	}
	return pieChart(w, values)
}

func regionRevenue(w io.Writer, regions []models.RegionTotal) error {
	bars := make([]chart.Value, len(regions))
	for i, r := range regions {
		bars[i] = chart.Value{Label: r.Region, Value: r.Revenue}
	}
	return barChart(w, bars)
}

func seasonality(w io.Writer, months []models.MonthMean) error {
	bars := make([]chart.Value, len(months))
	for i, m := range months {
		bars[i] = chart.Value{Label: time.Month(m.Month).String()[:3], Value: m.MeanSales}
	}
	return barChart(w, bars)
}

func quarters(w io.Writer, qs []models.QuarterTotal) error {
	bars := make([]chart.Value, len(qs))
	for i, q := range qs {
		bars[i] = chart.Value{Label: fmt.Sprintf("Q%d", q.Quarter), Value: q.Sales}
	}
	return barChart(w, bars)
}

func categorySales(w io.Writer, cats []models.CategoryTotal) error {
	values := make([]chart.Value, len(cats))
	for i, c := range cats {
		values[i] = chart.Value{Label: c.Category, Value: c.Sales}
	}
	return pieChart(w, values)
}

func categoryMargin(w io.Writer, cats []models.CategoryTotal) error {
	bars := make([]chart.Value, len(cats))
	for i, c := range cats {
		bars[i] = chart.Value{Label: c.Category, Value: c.MeanMargin}
	}
	return barChart(w, bars)
}

// timeChart draws a single time series. Fewer than two points cannot form an
// axis range, so a placeholder is drawn instead.
func timeChart(w io.Writer, layout string, series chart.TimeSeries) error {
	if len(series.XValues) < 2 {
		return placeholder(w)
	}

	lo, hi := bounds(series.YValues)
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	c := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 10}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat(layout)},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: lo, Max: hi}, ValueFormatter: formatThousands},
		Series:     []chart.Series{series},
	}
	return c.Render(chart.SVG, w)
}

// barChart always includes zero in the value axis.
func barChart(w io.Writer, bars []chart.Value) error {
	if len(bars) == 0 {
		return placeholder(w)
	}

	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo, hi = min(lo, b.Value), max(hi, b.Value)
	}
	if lo == hi {
		return placeholder(w)
	}

	c := chart.BarChart{
		Width:      width,
		Height:     height,
		BarWidth:   40,
		BarSpacing: 16,
		Background: chart.Style{Padding: chart.Box{Top: 30}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: lo, Max: hi * 1.1}, ValueFormatter: formatThousands},
		Bars:       bars,
	}
	return c.Render(chart.SVG, w)
}

func pieChart(w io.Writer, values []chart.Value) error {
	total := 0.0
	for _, v := range values {
		if v.Value < 0 {
			return placeholder(w)
		}
		total += v.Value
	}
	if total == 0 {
		return placeholder(w)
	}

	c := chart.PieChart{
		Width:  height,
		Height: height,
		Values: values,
	}
	return c.Render(chart.SVG, w)
}

func placeholder(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" class="chart-empty"><text x="50%%" y="50%%" text-anchor="middle">No data for the current selection</text></svg>`,
		width, height/2)
	return err
}

func bounds(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	return lo, hi
}

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 2}
}

func formatThousands(v any) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return ""
}
