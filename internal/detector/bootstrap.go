package detector

import (
	"math"
	"math/rand"
	"sort"

	"github.com/RohanChat/live-lines-finder/internal/curve"
	"github.com/RohanChat/live-lines-finder/internal/models"
)

// bootstrapBands estimates a percentile confidence band on the fair
// probability of every quote by resampling the group's quotes with
// replacement and refitting the curve each time. A resample that collapses
// to a single distinct strike degrades to the flat empirical fallback, the
// same way the primary fit does.
func bootstrapBands(quotes []models.Quote, opts Options) (lower, upper []float64) {
	n := len(quotes)
	iterations := opts.BootstrapIterations
	if iterations <= 0 {
		iterations = 100
	}
	confidence := opts.BootstrapConfidence
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	mat := make([][]float64, iterations)
	resample := make([]models.Quote, n)
	for b := 0; b < iterations; b++ {
		for i := range resample {
			resample[i] = quotes[rng.Intn(n)]
		}
		c := curve.Fit(curve.BuildPoints(resample))

		row := make([]float64, n)
		for i := range quotes {
			row[i] = c.FairProbability(quotes[i].LineValue(), quotes[i].Side)
		}
		mat[b] = row
	}

	alpha := 1 - confidence
	lower = make([]float64, n)
	upper = make([]float64, n)
	column := make([]float64, iterations)
	for i := 0; i < n; i++ {
		for b := 0; b < iterations; b++ {
			column[b] = mat[b][i]
		}
		lower[i] = percentile(column, alpha/2)
		upper[i] = percentile(column, 1-alpha/2)
	}
	return lower, upper
}

// percentile returns the p-quantile of values using the nearest-rank
// convention on a sorted copy.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
