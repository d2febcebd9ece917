package templates

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"sales-dashboard/internal/models"
)

// AnalyticsSignals are the filter values the Analytics page sends back on
// every change.
type AnalyticsSignals struct {
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
	From       string   `json:"from"`
	To         string   `json:"to"`
}

func NewAnalyticsSignals(f models.Filters) AnalyticsSignals {
	return AnalyticsSignals{
		Regions:    slices.Clone(f.Regions),
		Categories: slices.Clone(f.Categories),
		From:       date(f.From),
		To:         date(f.To),
	}
}

type dateField struct {
	label  string
	signal string
	value  time.Time
}

func dateFields(f models.Filters) []dateField {
	return []dateField{
		{"From", "from", f.From},
		{"To", "to", f.To},
	}
}

func exportURL(format string, f models.Filters) templ.SafeURL {
	return templ.SafeURL("/export/records." + format + "?" + f.Values().Encode())
}

func heatStyle(v float64) templ.SafeCSS {
	color := "79,70,229"
	if v < 0 {
		color = "220,38,38"
	}
	return templ.SafeCSS(fmt.Sprintf("background:rgba(%s,%.2f);", color, math.Abs(v)))
}

func coefficient(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
