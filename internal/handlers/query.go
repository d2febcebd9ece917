package handlers

import (
	"fmt"
	"net/url"
	"slices"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

// parseFilters reads region, category, from and to from q on top of def. An
// absent region or category parameter keeps the default selection; a
// present but empty one selects nothing.
func parseFilters(q url.Values, def models.Filters) (models.Filters, error) {
	f := models.Filters{
		Regions:    slices.Clone(def.Regions),
		Categories: slices.Clone(def.Categories),
		From:       def.From,
		To:         def.To,
	}

	var err error
	if values, ok := q["region"]; ok {
		if f.Regions, err = selection(values, models.IsRegion, "region"); err != nil {
			return f, err
		}
	}
	if values, ok := q["category"]; ok {
		if f.Categories, err = selection(values, models.IsCategory, "category"); err != nil {
			return f, err
		}
	}
	if f.From, err = parseDate(q.Get("from"), "from", f.From); err != nil {
		return f, err
	}
	if f.To, err = parseDate(q.Get("to"), "to", f.To); err != nil {
		return f, err
	}
	return f, nil
}

// filtersFromSignals applies the Analytics page signals on top of def with
// the same rules as parseFilters: a nil list keeps the default.
func filtersFromSignals(s templates.AnalyticsSignals, def models.Filters) (models.Filters, error) {
	q := url.Values{}
	if s.Regions != nil {
		q["region"] = s.Regions
	}
	if s.Categories != nil {
		q["category"] = s.Categories
	}
	q.Set("from", s.From)
	q.Set("to", s.To)
	return parseFilters(q, def)
}

func selection(values []string, valid func(string) bool, name string) ([]string, error) {
	out := []string{}
	for _, v := range values {
		if v == "" {
			continue
		}
		if !valid(v) {
			return nil, errors.Validation(fmt.Sprintf("unknown %s %q", name, v))
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func parseDate(s, name string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.ValidationWrap(err, fmt.Sprintf("invalid %s date, expected YYYY-MM-DD", name))
	}
	return t, nil
}

// parseAsOf accepts RFC 3339 or a plain date. An empty value returns the zero
// time, which the dashboard replaces with its clock.
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.ValidationWrap(err, "invalid as_of, expected RFC 3339 or YYYY-MM-DD")
	}
	return t, nil
}

func parsePeriod(s string) (services.Period, error) {
	if s == "" {
		return services.PeriodMonth, nil
	}
	p, err := services.ParsePeriod(s)
	if err != nil {
		return "", errors.ValidationWrap(err, "period must be one of: month, quarter, year")
	}
	return p, nil
}

// parseView reads the filter, as_of and period parameters shared by the JSON
// and page endpoints.
func parseView(q url.Values, page services.Page, def models.Filters) (services.RenderRequest, error) {
	filters, err := parseFilters(q, def)
	if err != nil {
		return services.RenderRequest{}, err
	}
	asOf, err := parseAsOf(q.Get("as_of"))
	if err != nil {
		return services.RenderRequest{}, err
	}
	period, err := parsePeriod(q.Get("period"))
	if err != nil {
		return services.RenderRequest{}, err
	}
	return services.RenderRequest{Page: page, Filters: &filters, AsOf: asOf, Period: period}, nil
}
