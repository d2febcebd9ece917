package services

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/stat"

	"sales-dashboard/internal/models"
)

// ErrEmptyInput is returned when a scalar is requested over zero records and
// has no meaningful value, such as a mean.
var ErrEmptyInput = errors.New("no records to aggregate")

// ComputeKPIs summarises the records dated on or before asOf. asOf is taken
// as a wall clock in its own zone: "today" is its calendar date.
//
// When no record qualifies, the snapshot is returned with zero totals and
// MarginDefined unset, together with ErrEmptyInput. SalesToday is 0 whenever
// no record falls on asOf's calendar date.
func ComputeKPIs(records []models.Record, asOf time.Time) (models.KPISnapshot, error) {
	asOf = models.WallClock(asOf)
	today := models.Day(asOf)

	var kpis models.KPISnapshot
	margins := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Date.After(asOf) {
			continue
		}
		kpis.TotalSales += r.Sales
		kpis.TotalRevenue += r.Revenue
		kpis.TotalProfit += r.Profit
		kpis.TotalCustomers += r.Customers
		margins = append(margins, r.Margin)
		if r.Date.Equal(today) {
			kpis.SalesToday += r.Sales
		}
	}

	if len(margins) == 0 {
		return kpis, ErrEmptyInput
	}
	kpis.AvgMargin = stat.Mean(margins, nil)
	kpis.MarginDefined = true
	return kpis, nil
}

// CustomersPerDay spreads the customers counted up to the snapshot over
// every record of the dataset, including records after its as-of date.
func CustomersPerDay(kpis models.KPISnapshot, records []models.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	return float64(kpis.TotalCustomers) / float64(len(records))
}
