package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"sales-dashboard/internal/models"
)

const (
	DefaultSeed = 42

	salesMean      = 1000
	salesStdDev    = 200
	seasonalAmp    = 200
	seasonalPeriod = 365
	customersMean  = 50
	revenueMean    = 5000
	revenueStdDev  = 1000
	costMean       = 3000
	costStdDev     = 800
)

var ErrInvalidRange = errors.New("start date is after end date")

var (
	DefaultStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	DefaultEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Generate returns one synthetic record per calendar day in [start, end].
//
// Draws come from a single PCG stream seeded with seed and are taken column by
// column: every sales value first, then customers, revenue, cost, region and
// category. The same seed and bounds always produce the same records.
func Generate(seed int64, start, end time.Time) ([]models.Record, error) {
	start, end = models.Day(start), models.Day(end)
	if start.After(end) {
		return nil, fmt.Errorf("generate %s..%s: %w", start.Format(models.DateLayout), end.Format(models.DateLayout), ErrInvalidRange)
	}

	n := Days(start, end)
	src := rand.NewPCG(uint64(seed), uint64(seed))
	rng := rand.New(src)

	sales := make([]float64, n)
	salesDist := distuv.Normal{Mu: salesMean, Sigma: salesStdDev, Src: src}
	for i := range sales {
		sales[i] = salesDist.Rand() + math.Sin(float64(i)*2*math.Pi/seasonalPeriod)*seasonalAmp
	}

	customers := make([]int, n)
	customersDist := distuv.Poisson{Lambda: customersMean, Src: src}
	for i := range customers {
		customers[i] = int(customersDist.Rand())
	}

	revenue := draw(n, distuv.Normal{Mu: revenueMean, Sigma: revenueStdDev, Src: src})
	cost := draw(n, distuv.Normal{Mu: costMean, Sigma: costStdDev, Src: src})
	regions := choose(n, rng, models.Regions)
	categories := choose(n, rng, models.Categories)

	records := make([]models.Record, n)
	for i := range records {
		records[i] = models.NewRecord(start.AddDate(0, 0, i), sales[i], customers[i], revenue[i], cost[i], regions[i], categories[i])
	}
	return records, nil
}

// Days counts the calendar days in [start, end], or 0 when start is after end.
func Days(start, end time.Time) int {
	start, end = models.Day(start), models.Day(end)
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func draw(n int, dist distuv.Normal) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

func choose(n int, rng *rand.Rand, options []string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = options[rng.IntN(len(options))]
	}
	return out
}
