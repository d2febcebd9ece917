package services

import (
	"cmp"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"sales-dashboard/internal/models"
)

// CorrelationColumns are the numeric record fields compared by Correlation.
var CorrelationColumns = []string{"sales", "revenue", "cost", "profit", "margin"}

func DailyTotals(records []models.Record) []models.DailyTotal {
	groups := make(map[time.Time]*models.DailyTotal)
	for _, r := range records {
		g, ok := groups[r.Date]
		if !ok {
			g = &models.DailyTotal{Date: r.Date}
			groups[r.Date] = g
		}
		g.Sales += r.Sales
		g.Revenue += r.Revenue
	}

	result := make([]models.DailyTotal, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.DailyTotal) int {
		return a.Date.Compare(b.Date)
	})
	return result
}

// RegionTotals sums sales and revenue per region present in records, ordered
// by region name.
func RegionTotals(records []models.Record) []models.RegionTotal {
	groups := make(map[string]*models.RegionTotal)
	for _, r := range records {
		g, ok := groups[r.Region]
		if !ok {
			g = &models.RegionTotal{Region: r.Region}
			groups[r.Region] = g
		}
		g.Sales += r.Sales
		g.Revenue += r.Revenue
	}

	result := make([]models.RegionTotal, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.RegionTotal) int {
		return cmp.Compare(a.Region, b.Region)
	})
	return result
}

// CategoryTotals sums sales and averages margin per category present in
// records, ordered by category name.
func CategoryTotals(records []models.Record) []models.CategoryTotal {
	type acc struct {
		sales  float64
		margin float64
		n      int
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		g, ok := groups[r.Category]
		if !ok {
			g = &acc{}
			groups[r.Category] = g
		}
		g.sales += r.Sales
		g.margin += r.Margin
		g.n++
	}

	result := make([]models.CategoryTotal, 0, len(groups))
	for category, g := range groups {
		result = append(result, models.CategoryTotal{
			Category:   category,
			Sales:      g.sales,
			MeanMargin: g.margin / float64(g.n),
		})
	}
	slices.SortFunc(result, func(a, b models.CategoryTotal) int {
		return cmp.Compare(a.Category, b.Category)
	})
	return result
}

// MonthlySeasonality averages sales per calendar month across years. Months
// without records are omitted.
func MonthlySeasonality(records []models.Record) []models.MonthMean {
	var sums [13]float64
	var counts [13]int
	for _, r := range records {
		sums[r.Month] += r.Sales
		counts[r.Month]++
	}

	result := make([]models.MonthMean, 0, 12)
	for m := 1; m <= 12; m++ {
		if counts[m] == 0 {
			continue
		}
		result = append(result, models.MonthMean{Month: m, MeanSales: sums[m] / float64(counts[m])})
	}
	return result
}

// MonthlyTotals sums sales per (year, month).
func MonthlyTotals(records []models.Record) []models.MonthTotal {
	groups := make(map[time.Time]float64)
	for _, r := range records {
		start := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
		groups[start] += r.Sales
	}

	result := make([]models.MonthTotal, 0, len(groups))
	for start, sales := range groups {
		result = append(result, models.MonthTotal{
			Year:  start.Year(),
			Month: int(start.Month()),
			Start: start,
			Sales: sales,
		})
	}
	slices.SortFunc(result, func(a, b models.MonthTotal) int {
		return a.Start.Compare(b.Start)
	})
	return result
}

// QuarterTotals sums sales per quarter number across years.
func QuarterTotals(records []models.Record) []models.QuarterTotal {
	var sums [5]float64
	var seen [5]bool
	for _, r := range records {
		sums[r.Quarter] += r.Sales
		seen[r.Quarter] = true
	}

	result := make([]models.QuarterTotal, 0, 4)
	for q := 1; q <= 4; q++ {
		if seen[q] {
			result = append(result, models.QuarterTotal{Quarter: q, Sales: sums[q]})
		}
	}
	return result
}

// WeeklyTotals buckets records into Monday-to-Sunday weeks, each labelled by
// its Sunday. Weeks without records are omitted.
func WeeklyTotals(records []models.Record) []models.WeekTotal {
	groups := make(map[time.Time]*models.WeekTotal)
	for _, r := range records {
		end := WeekEnding(r.Date)
		g, ok := groups[end]
		if !ok {
			g = &models.WeekTotal{WeekEnding: end}
			groups[end] = g
		}
		g.Sales += r.Sales
		g.Revenue += r.Revenue
		g.Profit += r.Profit
	}

	result := make([]models.WeekTotal, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	slices.SortFunc(result, func(a, b models.WeekTotal) int {
		return a.WeekEnding.Compare(b.WeekEnding)
	})
	return result
}

// WeekEnding returns the Sunday closing the week that contains t.
func WeekEnding(t time.Time) time.Time {
	day := models.Day(t)
	return day.AddDate(0, 0, (7-int(day.Weekday()))%7)
}

// Correlation computes the Pearson correlation matrix over
// CorrelationColumns. Every coefficient is NaN when there are fewer than two
// records; rows and columns of a zero-variance field are NaN.
func Correlation(records []models.Record) models.CorrelationMatrix {
	columns := columnsOf(records)
	k := len(CorrelationColumns)

	values := make([][]float64, k)
	for i := range values {
		values[i] = make([]float64, k)
		for j := range values[i] {
			values[i][j] = math.NaN()
		}
	}

	matrix := models.CorrelationMatrix{Columns: slices.Clone(CorrelationColumns), Values: values}
	if len(records) < 2 {
		return matrix
	}

	defined := make([]bool, k)
	for i, col := range columns {
		defined[i] = stat.Variance(col, nil) > 0
	}

	for i := 0; i < k; i++ {
		if !defined[i] {
			continue
		}
		values[i][i] = 1
		for j := i + 1; j < k; j++ {
			if !defined[j] {
				continue
			}
			c := stat.Correlation(columns[i], columns[j], nil)
			values[i][j] = c
			values[j][i] = c
		}
	}
	return matrix
}

// Describe returns mean, median and sample standard deviation of sales,
// revenue and margin.
func Describe(records []models.Record) ([]models.Summary, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	columns := columnsOf(records)
	named := []struct {
		name   string
		values []float64
	}{
		{"sales", columns[0]},
		{"revenue", columns[1]},
		{"margin", columns[4]},
	}

	result := make([]models.Summary, 0, len(named))
	for _, c := range named {
		s := models.Summary{
			Column: c.name,
			Mean:   stat.Mean(c.values, nil),
			Median: median(c.values),
		}
		if len(c.values) > 1 {
			s.StdDev = stat.StdDev(c.values, nil)
		}
		result = append(result, s)
	}
	return result, nil
}

func columnsOf(records []models.Record) [][]float64 {
	columns := make([][]float64, len(CorrelationColumns))
	for i := range columns {
		columns[i] = make([]float64, len(records))
	}
	for i, r := range records {
		columns[0][i] = r.Sales
		columns[1][i] = r.Revenue
		columns[2][i] = r.Cost
		columns[3][i] = r.Profit
		columns[4][i] = r.Margin
	}
	return columns
}

func median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
