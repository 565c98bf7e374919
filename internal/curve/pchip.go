package curve

import (
	"fmt"
	"sort"
)

// PCHIP is a piecewise cubic Hermite interpolant with Fritsch-Carlson
// tangents. When the knot values are monotone the interpolant is monotone
// everywhere, which removes the stair-step artifact of raw isotonic output
// without breaking the ordering axiom. Outside the knot range it
// extrapolates linearly with the endpoint tangent.
type PCHIP struct {
	x []float64
	y []float64
	d []float64
}

// NewPCHIP builds the interpolant from strictly increasing x and their y
// values. At least two knots are required.
func NewPCHIP(x, y []float64) (*PCHIP, error) {
	n := len(x)
	if n != len(y) {
		return nil, fmt.Errorf("pchip: x and y lengths differ (%d vs %d)", n, len(y))
	}
	if n < 2 {
		return nil, fmt.Errorf("pchip: need at least 2 knots, got %d", n)
	}
	for i := 1; i < n; i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf("pchip: x must be strictly increasing")
		}
	}

	h := make([]float64, n-1)
	delta := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = x[i+1] - x[i]
		delta[i] = (y[i+1] - y[i]) / h[i]
	}

	d := make([]float64, n)
	d[0] = delta[0]
	d[n-1] = delta[n-2]
	for i := 1; i < n-1; i++ {
		if delta[i-1]*delta[i] <= 0 {
			d[i] = 0
			continue
		}
		// Weighted harmonic mean of adjacent secants (Fritsch-Carlson).
		w1 := 2*h[i] + h[i-1]
		w2 := h[i] + 2*h[i-1]
		d[i] = (w1 + w2) / (w1/delta[i-1] + w2/delta[i])
	}

	return &PCHIP{
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
		d: d,
	}, nil
}

// Eval evaluates the interpolant at v, extrapolating beyond the knot range
// with the endpoint tangent.
func (p *PCHIP) Eval(v float64) float64 {
	n := len(p.x)
	if v <= p.x[0] {
		return p.y[0] + p.d[0]*(v-p.x[0])
	}
	if v >= p.x[n-1] {
		return p.y[n-1] + p.d[n-1]*(v-p.x[n-1])
	}

	// Rightmost knot at or below v.
	i := sort.SearchFloat64s(p.x, v) - 1
	if p.x[i+1] == v {
		return p.y[i+1]
	}

	// A pooled-flat segment has both tangents at 0, but summing the Hermite
	// basis terms can drift by one ulp above the shared value. Return the
	// exact value so monotonicity holds by construction, not within epsilon.
	if p.y[i] == p.y[i+1] {
		return p.y[i]
	}

	h := p.x[i+1] - p.x[i]
	t := (v - p.x[i]) / h

	// Cubic Hermite basis.
	h00 := (1 + 2*t) * (1 - t) * (1 - t)
	h10 := t * (1 - t) * (1 - t)
	h01 := t * t * (3 - 2*t)
	h11 := t * t * (t - 1)

	return h00*p.y[i] + h10*h*p.d[i] + h01*p.y[i+1] + h11*h*p.d[i+1]
}
