package services

import (
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

// ApplyFilters keeps the records whose region and category are selected and
// whose date lies in [f.From, f.To]. An empty region or category selection
// matches nothing. Input order is preserved.
func ApplyFilters(records []models.Record, f models.Filters) []models.Record {
	result := make([]models.Record, 0)
	if len(f.Regions) == 0 || len(f.Categories) == 0 || f.From.After(f.To) {
		return result
	}

	for _, r := range records {
		if r.Date.Before(f.From) || r.Date.After(f.To) {
			continue
		}
		if !slices.Contains(f.Regions, r.Region) || !slices.Contains(f.Categories, r.Category) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// Between returns the records dated in [from, to].
func Between(records []models.Record, from, to time.Time) []models.Record {
	result := make([]models.Record, 0)
	for _, r := range records {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		result = append(result, r)
	}
	return result
}
