package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/export"
)

func TestExportHandlers_HandleCSV(t *testing.T) {
	handlers := NewExportHandlers(newTestDashboard(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleCSV(w, httptest.NewRequest(http.MethodGet, "/export/records.csv?from=2024-02-01&to=2024-02-10", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != export.ContentTypeCSV {
		t.Errorf("content-type = %q", ct)
	}
	want := `attachment; filename="sales_2024-02-01_2024-02-10.csv"`
	if cd := w.Header().Get("Content-Disposition"); cd != want {
		t.Errorf("content-disposition = %q, want %q", cd, want)
	}

	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 11 {
		t.Fatalf("expected header and 10 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][0] != "2024-02-01" || rows[10][0] != "2024-02-10" {
		t.Errorf("unexpected dates: %v .. %v", rows[1], rows[10])
	}
}

func TestExportHandlers_HandleXLSX(t *testing.T) {
	handlers := NewExportHandlers(newTestDashboard(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleXLSX(w, httptest.NewRequest(http.MethodGet, "/export/records.xlsx?category=Books", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != export.ContentTypeXLSX {
		t.Errorf("content-type = %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(export.SheetRecords)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range rows[1:] {
		if row[6] != "Books" {
			t.Errorf("row %v is outside the Books category", row)
		}
	}
}

func TestExportHandlers_InvalidFilter(t *testing.T) {
	handlers := NewExportHandlers(newTestDashboard(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleCSV(w, httptest.NewRequest(http.MethodGet, "/export/records.csv?region=Atlantis", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("failed export should not be an attachment, got %q", cd)
	}
}
