// Package export writes filtered records as spreadsheet downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	SheetRecords    = "Records"
	SheetRegions    = "By Region"
	SheetCategories = "By Category"
	SheetWeekly     = "Weekly"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

var recordHeader = []string{
	"Date", "Sales", "Customers", "Revenue", "Cost", "Region", "Category",
	"Profit", "Margin", "Month", "Year", "Quarter",
}

// Filename names a download after the date range it covers.
func Filename(f models.Filters, ext string) string {
	return fmt.Sprintf("sales_%s_%s.%s", f.From.Format(models.DateLayout), f.To.Format(models.DateLayout), ext)
}

// WriteXLSX writes a workbook with the records and their region, category and
// weekly aggregates, one sheet each.
func WriteXLSX(w io.Writer, records []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRecords); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetRegions, SheetCategories, SheetWeekly} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{SheetRecords, recordHeader, recordRows(records)},
		{SheetRegions, []string{"Region", "Sales", "Revenue"}, regionRows(services.RegionTotals(records))},
		{SheetCategories, []string{"Category", "Sales", "Mean Margin"}, categoryRows(services.CategoryTotals(records))},
		{SheetWeekly, []string{"Week Ending", "Sales", "Revenue", "Profit"}, weeklyRows(services.WeeklyTotals(records))},
	}

	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.header, s.rows, bold); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 14); err != nil {
		return fmt.Errorf("size %s columns: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func recordRows(records []models.Record) [][]any {
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{
			r.Date.Format(models.DateLayout), r.Sales, r.Customers, r.Revenue, r.Cost, r.Region, r.Category,
			r.Profit, r.Margin, r.Month, r.Year, r.Quarter,
		}
	}
	return rows
}

func regionRows(totals []models.RegionTotal) [][]any {
	rows := make([][]any, len(totals))
	for i, t := range totals {
		rows[i] = []any{t.Region, t.Sales, t.Revenue}
	}
	return rows
}

func categoryRows(totals []models.CategoryTotal) [][]any {
	rows := make([][]any, len(totals))
	for i, t := range totals {
		rows[i] = []any{t.Category, t.Sales, t.MeanMargin}
	}
	return rows
}

func weeklyRows(totals []models.WeekTotal) [][]any {
	rows := make([][]any, len(totals))
	for i, t := range totals {
		rows[i] = []any{t.WeekEnding.Format(models.DateLayout), t.Sales, t.Revenue, t.Profit}
	}
	return rows
}

// WriteCSV writes the records with a header row. Amounts keep two decimals.
func WriteCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(models.DateLayout),
			money(r.Sales),
			strconv.Itoa(r.Customers),
			money(r.Revenue),
			money(r.Cost),
			r.Region,
			r.Category,
			money(r.Profit),
			money(r.Margin),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Quarter),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
