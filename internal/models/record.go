package models

import (
	"encoding/json"
	"math"
	"net/url"
	"slices"
	"time"
)

const DateLayout = "2006-01-02"

var (
	Regions    = []string{"North", "South", "East", "West", "Central"}
	Categories = []string{"Electronics", "Apparel", "Home", "Sports", "Books"}
)

type Record struct {
	Date      time.Time `json:"date"`
	Sales     float64   `json:"sales"`
	Customers int       `json:"customers"`
	Revenue   float64   `json:"revenue"`
	Cost      float64   `json:"cost"`
	Region    string    `json:"region"`
	Category  string    `json:"category"`
	Profit    float64   `json:"profit"`
	Margin    float64   `json:"margin"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Quarter   int       `json:"quarter"`
}

// NewRecord builds a record from its sampled fields and fills in the derived
// columns. Margin is 0 when revenue is 0.
func NewRecord(date time.Time, sales float64, customers int, revenue, cost float64, region, category string) Record {
	date = Day(date)
	profit := revenue - cost
	return Record{
		Date:      date,
		Sales:     sales,
		Customers: customers,
		Revenue:   revenue,
		Cost:      cost,
		Region:    region,
		Category:  category,
		Profit:    profit,
		Margin:    Margin(profit, revenue),
		Month:     int(date.Month()),
		Year:      date.Year(),
		Quarter:   (int(date.Month())-1)/3 + 1,
	}
}

// Margin returns profit as a percentage of revenue, or 0 for zero revenue.
func Margin(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return profit / revenue * 100
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WallClock reads t's date and time of day in its own zone as a UTC instant,
// so that it compares with record dates by calendar day.
func WallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

func IsRegion(s string) bool {
	return slices.Contains(Regions, s)
}

func IsCategory(s string) bool {
	return slices.Contains(Categories, s)
}

type Filters struct {
	Regions    []string  `json:"regions"`
	Categories []string  `json:"categories"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
}

// AllFilters selects every region and category over [from, to].
func AllFilters(from, to time.Time) Filters {
	return Filters{
		Regions:    slices.Clone(Regions),
		Categories: slices.Clone(Categories),
		From:       Day(from),
		To:         Day(to),
	}
}

// Values encodes f as query parameters. An empty region or category set is
// written as a single empty value so that it survives the round trip.
func (f Filters) Values() url.Values {
	v := url.Values{}
	for _, pair := range []struct {
		key    string
		values []string
	}{{"region", f.Regions}, {"category", f.Categories}} {
		if len(pair.values) == 0 {
			v.Set(pair.key, "")
			continue
		}
		for _, value := range pair.values {
			v.Add(pair.key, value)
		}
	}
	v.Set("from", f.From.Format(DateLayout))
	v.Set("to", f.To.Format(DateLayout))
	return v
}

type KPISnapshot struct {
	TotalSales     float64 `json:"total_sales"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalProfit    float64 `json:"total_profit"`
	AvgMargin      float64 `json:"avg_margin"`
	MarginDefined  bool    `json:"margin_defined"`
	TotalCustomers int     `json:"total_customers"`
	SalesToday     float64 `json:"sales_today"`
}

type DailyTotal struct {
	Date    time.Time `json:"date"`
	Sales   float64   `json:"sales"`
	Revenue float64   `json:"revenue"`
}

type RegionTotal struct {
	Region  string  `json:"region"`
	Sales   float64 `json:"sales"`
	Revenue float64 `json:"revenue"`
}

type CategoryTotal struct {
	Category   string  `json:"category"`
	Sales      float64 `json:"sales"`
	MeanMargin float64 `json:"mean_margin"`
}

type MonthMean struct {
	Month     int     `json:"month"`
	MeanSales float64 `json:"mean_sales"`
}

type MonthTotal struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Start time.Time `json:"start"`
	Sales float64   `json:"sales"`
}

type QuarterTotal struct {
	Quarter int     `json:"quarter"`
	Sales   float64 `json:"sales"`
}

// WeekTotal covers the Monday-to-Sunday week ending on WeekEnding.
type WeekTotal struct {
	WeekEnding time.Time `json:"week_ending"`
	Sales      float64   `json:"sales"`
	Revenue    float64   `json:"revenue"`
	Profit     float64   `json:"profit"`
}

type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// MarshalJSON writes undefined coefficients as null.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				values[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, values})
}

type Summary struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

type PeriodSummary struct {
	Period  string    `json:"period"`
	Label   string    `json:"label"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Sales   float64   `json:"sales"`
	Revenue float64   `json:"revenue"`
	Profit  float64   `json:"profit"`
	Margin  float64   `json:"margin"`
	Days    int       `json:"days"`
}
