package curve

import (
	"sort"

	"github.com/RohanChat/live-lines-finder/internal/models"
)

// Point is one collapsed observation on the cumulative-probability scale:
// the group's mean no-vig under-probability at one signed strike.
type Point struct {
	Strike float64
	CDF    float64
	Weight float64
}

// FittedCurve is the monotone map from strike to cumulative ("under")
// probability for one market-line group. Groups with fewer than two
// distinct strikes degrade to a flat empirical probability.
type FittedCurve struct {
	flat      bool
	flatValue float64
	interp    *PCHIP
}

// EffectiveSide maps a quote's side onto the over/under axis of the CDF.
// Sides that are already over or under pass through. Anything else (spread
// outcomes named by team, for instance) falls back to the sign of the
// strike: negative lines behave like "over" (favorite must clear the
// number), non-negative like "under". The sign rule is a heuristic carried
// from production, not a guarantee; it misreads markets whose
// favorite/underdog convention is inverted.
func EffectiveSide(side models.Side, strike float64) models.Side {
	c := side.Canonical()
	if c == models.SideOver || c == models.SideUnder {
		return c
	}
	if strike < 0 {
		return models.SideOver
	}
	return models.SideUnder
}

// BuildPoints collapses de-vigged quotes onto the CDF scale: y is the
// no-vig probability for under-side quotes and its complement for
// over-side quotes, so both sides live on one monotone curve. Duplicate
// strikes (several bookmakers at the same number) are averaged. Quotes
// without an attached NoVig are skipped. Points come back sorted by
// strike.
func BuildPoints(quotes []models.Quote) []Point {
	sums := make(map[float64]float64)
	counts := make(map[float64]float64)
	for i := range quotes {
		q := quotes[i]
		if q.NoVig == nil {
			continue
		}
		x := q.LineValue()
		y := q.NoVig.NoVig
		if EffectiveSide(q.Side, x) == models.SideOver {
			y = 1 - y
		}
		sums[x] += y
		counts[x]++
	}

	points := make([]Point, 0, len(sums))
	for x, sum := range sums {
		points = append(points, Point{Strike: x, CDF: sum / counts[x], Weight: counts[x]})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Strike < points[j].Strike })
	return points
}

// Fit fits the monotone fair-value curve over the collapsed points:
// isotonic regression against strike, then PCHIP smoothing. With fewer
// than two distinct strikes there is nothing to fit and the single
// empirical probability becomes a constant fair value.
func Fit(points []Point) *FittedCurve {
	if len(points) == 0 {
		return &FittedCurve{flat: true, flatValue: 0.5}
	}
	if len(points) < 2 {
		return &FittedCurve{flat: true, flatValue: clip01(points[0].CDF)}
	}

	x := make([]float64, len(points))
	y := make([]float64, len(points))
	w := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.Strike
		y[i] = p.CDF
		w[i] = p.Weight
		if w[i] <= 0 {
			w[i] = 1
		}
	}

	yIso := Isotonic(y, w)
	interp, err := NewPCHIP(x, yIso)
	if err != nil {
		// Points were deduplicated and sorted upstream, so this only
		// triggers on degenerate input. Degrade the same way as a single
		// strike.
		return &FittedCurve{flat: true, flatValue: clip01(yIso[0])}
	}
	return &FittedCurve{interp: interp}
}

// FitGroup is the group-level convenience: collapse, then fit. The fit is
// pure, so bootstrap resampling and multi-group parallelism can call it
// freely.
func FitGroup(group models.MarketLineGroup) *FittedCurve {
	return Fit(BuildPoints(group.Quotes))
}

// Flat reports whether the curve degraded to the single-strike fallback.
func (c *FittedCurve) Flat() bool {
	return c.flat
}

// CDF evaluates the fitted cumulative probability at a strike, clipped
// to [0, 1].
func (c *FittedCurve) CDF(strike float64) float64 {
	if c.flat {
		return c.flatValue
	}
	return clip01(c.interp.Eval(strike))
}

// FairProbability returns the fair probability of the quoted side at the
// given strike: the CDF value for under, its complement for over.
func (c *FittedCurve) FairProbability(strike float64, side models.Side) float64 {
	p := c.CDF(strike)
	if EffectiveSide(side, strike) == models.SideOver {
		return 1 - p
	}
	return p
}

// MoneylineFair computes the fair probability per side for a no-strike
// group: the arithmetic mean of each side's no-vig probabilities across
// bookmakers. No curve is fitted.
func MoneylineFair(quotes []models.Quote) map[models.Side]float64 {
	sums := make(map[models.Side]float64)
	counts := make(map[models.Side]float64)
	for i := range quotes {
		q := quotes[i]
		if q.NoVig == nil {
			continue
		}
		s := q.Side.Canonical()
		sums[s] += q.NoVig.NoVig
		counts[s]++
	}
	fair := make(map[models.Side]float64, len(sums))
	for s, sum := range sums {
		fair[s] = sum / counts[s]
	}
	return fair
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
