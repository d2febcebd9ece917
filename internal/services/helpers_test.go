package services

import (
	"math"
	"testing"
	"time"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
)

const tolerance = 1e-9

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// scenarioRecords builds three days with revenue 100, 200 and 0 against a
// cost of 50 each.
func scenarioRecords() []models.Record {
	return []models.Record{
		models.NewRecord(day(2024, 1, 1), 10, 1, 100, 50, "North", "Books"),
		models.NewRecord(day(2024, 1, 2), 20, 2, 200, 50, "South", "Home"),
		models.NewRecord(day(2024, 1, 3), 30, 3, 0, 50, "North", "Books"),
	}
}

// fiveRecords has two North records among five.
func fiveRecords() []models.Record {
	return []models.Record{
		models.NewRecord(day(2024, 3, 1), 100, 10, 1000, 400, "North", "Electronics"),
		models.NewRecord(day(2024, 3, 2), 200, 20, 2000, 900, "South", "Apparel"),
		models.NewRecord(day(2024, 3, 3), 300, 30, 3000, 1000, "East", "Home"),
		models.NewRecord(day(2024, 3, 4), 400, 40, 4000, 2500, "North", "Sports"),
		models.NewRecord(day(2024, 3, 5), 500, 50, 5000, 4500, "West", "Books"),
	}
}

func generated(t testing.TB) []models.Record {
	t.Helper()
	records, err := dataset.Generate(dataset.DefaultSeed, dataset.DefaultStart, dataset.DefaultEnd)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return records
}
