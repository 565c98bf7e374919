// Package curve fits the fair-value probability curve for a market-line
// group: a weighted isotonic regression pinned to the axiom that cumulative
// probability is non-decreasing in strike, smoothed with a shape-preserving
// monotone interpolant so the curve is defined continuously over and beyond
// the observed strikes.
package curve

// Isotonic computes a weighted least-squares isotonic (non-decreasing)
// regression of y using the pool-adjacent-violators algorithm. x values
// are assumed already sorted ascending; w entries must be positive. A nil
// w means unit weights. The returned slice is parallel to y.
func Isotonic(y, w []float64) []float64 {
	n := len(y)
	if n == 0 {
		return nil
	}
	if w == nil {
		w = make([]float64, n)
		for i := range w {
			w[i] = 1
		}
	}

	// Each block holds the pooled mean of a run of points.
	means := make([]float64, 0, n)
	weights := make([]float64, 0, n)
	sizes := make([]int, 0, n)

	for i := 0; i < n; i++ {
		means = append(means, y[i])
		weights = append(weights, w[i])
		sizes = append(sizes, 1)

		for len(means) > 1 && means[len(means)-2] > means[len(means)-1] {
			last := len(means) - 1
			pooledW := weights[last-1] + weights[last]
			means[last-1] = (means[last-1]*weights[last-1] + means[last]*weights[last]) / pooledW
			weights[last-1] = pooledW
			sizes[last-1] += sizes[last]
			means = means[:last]
			weights = weights[:last]
			sizes = sizes[:last]
		}
	}

	out := make([]float64, 0, n)
	for b := range means {
		for k := 0; k < sizes[b]; k++ {
			out = append(out, means[b])
		}
	}
	return out
}
