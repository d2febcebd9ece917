package templates

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"sales-dashboard/internal/models"
)

func money(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

func number(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func decimal(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func avgMargin(k models.KPISnapshot) string {
	if !k.MarginDefined {
		return "n/a"
	}
	return percent(k.AvgMargin)
}

func date(t time.Time) string {
	return t.Format(models.DateLayout)
}
