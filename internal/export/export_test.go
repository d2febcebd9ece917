package export

import (
	"bytes"
	"encoding/csv"
	"slices"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testRecords() []models.Record {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	return []models.Record{
		models.NewRecord(d(1), 1000, 50, 5000, 3000, "North", "Books"),
		models.NewRecord(d(2), 1100, 48, 5200, 3100, "South", "Home"),
		models.NewRecord(d(8), 900, 52, 4800, 2900, "North", "Books"),
		models.NewRecord(d(9), 1200, 55, 0, 100, "East", "Sports"),
	}
}

func TestWriteXLSX(t *testing.T) {
	records := testRecords()

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, records); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("workbook should reopen: %v", err)
	}
	defer f.Close()

	want := []string{SheetRecords, SheetRegions, SheetCategories, SheetWeekly}
	if got := f.GetSheetList(); !slices.Equal(got, want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}

	tests := []struct {
		sheet string
		rows  int
	}{
		{SheetRecords, len(records) + 1},
		{SheetRegions, len(services.RegionTotals(records)) + 1},
		{SheetCategories, len(services.CategoryTotals(records)) + 1},
		{SheetWeekly, len(services.WeeklyTotals(records)) + 1},
	}
	for _, tt := range tests {
		rows, err := f.GetRows(tt.sheet)
		if err != nil {
			t.Fatalf("GetRows(%s) error = %v", tt.sheet, err)
		}
		if len(rows) != tt.rows {
			t.Errorf("%s rows = %d, want %d", tt.sheet, len(rows), tt.rows)
		}
	}

	rows, _ := f.GetRows(SheetRecords)
	if !slices.Equal(rows[0], recordHeader) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2024-01-01" || rows[1][5] != "North" {
		t.Errorf("first record row = %v", rows[1])
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil); err != nil {
		t.Fatalf("empty selection should still produce a workbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetRecords)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}

func TestWriteCSV(t *testing.T) {
	records := testRecords()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output should be valid CSV: %v", err)
	}
	if len(rows) != len(records)+1 {
		t.Fatalf("rows = %d, want %d", len(rows), len(records)+1)
	}
	if !slices.Equal(rows[0], recordHeader) {
		t.Errorf("header = %v", rows[0])
	}

	first := rows[1]
	if first[0] != "2024-01-01" || first[3] != "5000.00" || first[7] != "2000.00" || first[8] != "40.00" {
		t.Errorf("first row = %v", first)
	}
	// Zero revenue keeps the guarded margin.
	if rows[4][8] != "0.00" {
		t.Errorf("zero revenue margin = %q, want 0.00", rows[4][8])
	}
}

func TestFilename(t *testing.T) {
	f := models.AllFilters(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	if got := Filename(f, "xlsx"); got != "sales_2023-01-01_2024-12-31.xlsx" {
		t.Errorf("Filename() = %q", got)
	}
}
