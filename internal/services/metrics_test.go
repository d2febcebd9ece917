package services

import (
	"errors"
	"testing"
	"time"

	"sales-dashboard/internal/models"
)

func TestComputeKPIs_Scenario(t *testing.T) {
	records := scenarioRecords()

	wantProfit := []float64{50, 150, -50}
	wantMargin := []float64{50, 75, 0}
	for i, r := range records {
		if r.Profit != wantProfit[i] {
			t.Errorf("record %d profit = %f, want %f", i, r.Profit, wantProfit[i])
		}
		if r.Margin != wantMargin[i] {
			t.Errorf("record %d margin = %f, want %f", i, r.Margin, wantMargin[i])
		}
	}

	kpis, err := ComputeKPIs(records, day(2024, 1, 3))
	if err != nil {
		t.Fatalf("ComputeKPIs() error = %v", err)
	}
	if kpis.TotalRevenue != 300 {
		t.Errorf("TotalRevenue = %f, want 300", kpis.TotalRevenue)
	}
	if kpis.TotalProfit != 150 {
		t.Errorf("TotalProfit = %f, want 150", kpis.TotalProfit)
	}
	if !approxEqual(kpis.AvgMargin, 125.0/3) {
		t.Errorf("AvgMargin = %f, want %f", kpis.AvgMargin, 125.0/3)
	}
	if !kpis.MarginDefined {
		t.Error("MarginDefined should be true")
	}
	if kpis.TotalSales != 60 {
		t.Errorf("TotalSales = %f, want 60", kpis.TotalSales)
	}
	if kpis.TotalCustomers != 6 {
		t.Errorf("TotalCustomers = %d, want 6", kpis.TotalCustomers)
	}
	if kpis.SalesToday != 30 {
		t.Errorf("SalesToday = %f, want 30", kpis.SalesToday)
	}
}

func TestComputeKPIs_ExcludesFuture(t *testing.T) {
	asOf := day(2024, 1, 2).Add(10 * time.Hour)
	kpis, err := ComputeKPIs(scenarioRecords(), asOf)
	if err != nil {
		t.Fatal(err)
	}
	if kpis.TotalRevenue != 300 || kpis.TotalSales != 30 {
		t.Errorf("expected only the first two days, got revenue %f sales %f", kpis.TotalRevenue, kpis.TotalSales)
	}
	if kpis.SalesToday != 20 {
		t.Errorf("SalesToday = %f, want 20", kpis.SalesToday)
	}
}

func TestComputeKPIs_NoRecordToday(t *testing.T) {
	kpis, err := ComputeKPIs(scenarioRecords(), day(2024, 6, 1))
	if err != nil {
		t.Fatal(err)
	}
	if kpis.SalesToday != 0 {
		t.Errorf("SalesToday = %f, want 0", kpis.SalesToday)
	}
}

func TestComputeKPIs_Empty(t *testing.T) {
	tests := []struct {
		name    string
		records []models.Record
		asOf    time.Time
	}{
		{"no records", nil, day(2024, 1, 1)},
		{"all in the future", scenarioRecords(), day(2023, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kpis, err := ComputeKPIs(tt.records, tt.asOf)
			if !errors.Is(err, ErrEmptyInput) {
				t.Fatalf("expected ErrEmptyInput, got %v", err)
			}
			if kpis.MarginDefined {
				t.Error("MarginDefined should be false")
			}
			if kpis.SalesToday != 0 || kpis.TotalSales != 0 {
				t.Errorf("expected zero totals, got %+v", kpis)
			}
		})
	}
}

func TestComputeKPIs_AsOfZone(t *testing.T) {
	records := []models.Record{
		models.NewRecord(day(2024, 1, 2), 10, 1, 100, 50, "North", "Books"),
		models.NewRecord(day(2024, 1, 3), 20, 2, 200, 50, "South", "Home"),
		models.NewRecord(day(2024, 1, 4), 40, 4, 400, 50, "East", "Sports"),
	}
	plus5 := time.FixedZone("UTC+5", 5*60*60)
	minus8 := time.FixedZone("UTC-8", -8*60*60)

	tests := []struct {
		name      string
		asOf      time.Time
		wantToday float64
		wantSales float64
	}{
		{"utc", time.Date(2024, 1, 3, 1, 0, 0, 0, time.UTC), 20, 30},
		{"east of utc early in the day", time.Date(2024, 1, 3, 1, 0, 0, 0, plus5), 20, 30},
		{"west of utc late in the day", time.Date(2024, 1, 3, 23, 0, 0, 0, minus8), 20, 30},
		{"east of utc at midnight", time.Date(2024, 1, 4, 0, 0, 0, 0, plus5), 40, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kpis, err := ComputeKPIs(records, tt.asOf)
			if err != nil {
				t.Fatal(err)
			}
			if kpis.SalesToday != tt.wantToday {
				t.Errorf("SalesToday = %f, want %f", kpis.SalesToday, tt.wantToday)
			}
			if kpis.TotalSales != tt.wantSales {
				t.Errorf("TotalSales = %f, want %f", kpis.TotalSales, tt.wantSales)
			}
		})
	}
}

func TestCustomersPerDay(t *testing.T) {
	records := scenarioRecords()

	// Two of three days have happened: 3 customers over 3 records.
	kpis, err := ComputeKPIs(records, day(2024, 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if got := CustomersPerDay(kpis, records); got != 1 {
		t.Errorf("CustomersPerDay() = %f, want 1", got)
	}

	kpis, err = ComputeKPIs(records, day(2024, 1, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got := CustomersPerDay(kpis, records); got != 2 {
		t.Errorf("CustomersPerDay() = %f, want 2", got)
	}
	if got := CustomersPerDay(models.KPISnapshot{}, nil); got != 0 {
		t.Errorf("CustomersPerDay(nil) = %f, want 0", got)
	}
}

func BenchmarkComputeKPIs(b *testing.B) {
	records := generated(b)
	asOf := day(2024, 6, 30)

	b.ResetTimer()
	for b.Loop() {
		_, _ = ComputeKPIs(records, asOf)
	}
}
