package services

import (
	"errors"
	"fmt"
	"time"

	"sales-dashboard/internal/models"
)

type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

var ErrUnknownPeriod = errors.New("unknown period")

// Periods lists the look-back windows in display order.
var Periods = []Period{PeriodMonth, PeriodQuarter, PeriodYear}

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownPeriod, s)
}

func (p Period) Days() int {
	switch p {
	case PeriodMonth:
		return 30
	case PeriodQuarter:
		return 90
	case PeriodYear:
		return 365
	}
	return 0
}

func (p Period) Label() string {
	switch p {
	case PeriodMonth:
		return "Last Month"
	case PeriodQuarter:
		return "Last Quarter"
	case PeriodYear:
		return "Last Year"
	}
	return string(p)
}

// Window returns the bounds [now - N days, now] of the period, with now read
// as a wall clock in its own zone.
func (p Period) Window(now time.Time) (time.Time, time.Time) {
	now = models.WallClock(now)
	return now.Add(-time.Duration(p.Days()) * 24 * time.Hour), now
}

// ComparePeriod totals the records inside the period's window ending at now.
// Margin is profit over revenue as a percentage, 0 when revenue sums to 0.
func ComparePeriod(records []models.Record, now time.Time, p Period) (models.PeriodSummary, []models.Record, error) {
	if p.Days() == 0 {
		return models.PeriodSummary{}, nil, fmt.Errorf("%w %q", ErrUnknownPeriod, p)
	}

	from, to := p.Window(now)
	window := Between(records, from, to)

	summary := models.PeriodSummary{
		Period: string(p),
		Label:  p.Label(),
		From:   from,
		To:     to,
		Days:   len(window),
	}
	for _, r := range window {
		summary.Sales += r.Sales
		summary.Revenue += r.Revenue
		summary.Profit += r.Profit
	}
	summary.Margin = models.Margin(summary.Profit, summary.Revenue)
	return summary, window, nil
}

// CompareAll summarises every fixed look-back window.
func CompareAll(records []models.Record, now time.Time) []models.PeriodSummary {
	result := make([]models.PeriodSummary, 0, len(Periods))
	for _, p := range Periods {
		s, _, _ := ComparePeriod(records, now, p)
		result = append(result, s)
	}
	return result
}
