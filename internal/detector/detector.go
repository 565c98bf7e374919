// Package detector flags quotes whose market-implied probability diverges
// from the fitted fair probability, optionally backed by a bootstrap
// confidence band on the fit.
package detector

import (
	"math"
	"math/rand"

	"github.com/RohanChat/live-lines-finder/internal/curve"
	"github.com/RohanChat/live-lines-finder/internal/models"
)

// Options carries the caller-supplied detection thresholds.
type Options struct {
	// PGap is the absolute probability-gap threshold: the market must
	// underprice the quoted side by more than this to flag.
	PGap float64
	// EVThreshold is the relative edge threshold on |fair/market - 1|.
	EVThreshold float64
	// Bootstrap enables the confidence-interval check. It refits the curve
	// once per resample, so it is O(iterations x group size) per group;
	// only enable it for small groups.
	Bootstrap           bool
	BootstrapIterations int
	BootstrapConfidence float64
	// Rand drives bootstrap resampling. Supplying a seeded source makes
	// the band reproducible; nil falls back to an unseeded source.
	Rand *rand.Rand
}

// DefaultOptions returns the production thresholds.
func DefaultOptions() Options {
	return Options{
		PGap:                0.075,
		EVThreshold:         0.10,
		Bootstrap:           false,
		BootstrapIterations: 100,
		BootstrapConfidence: 0.95,
	}
}

// Detect computes edge metrics and the mispriced verdict for every
// de-vigged quote in the group. Quotes are judged against the group's
// fitted curve, or against the per-side mean fair probability for
// moneyline groups. The returned flags are parallel to the group's
// de-vigged quotes.
//
// A group that yields no de-vigged quotes means an upstream invariant was
// broken, and Detect fails with a DetectorInputError rather than returning
// an empty result.
func Detect(group models.MarketLineGroup, opts Options) ([]models.MispricingFlag, error) {
	quotes := devigged(group.Quotes)
	if len(quotes) == 0 {
		return nil, &models.DetectorInputError{Subject: group.Subject, MarketKey: group.MarketKey}
	}

	fairFor := fairFunc(group, quotes)

	flags := make([]models.MispricingFlag, len(quotes))
	for i := range quotes {
		q := quotes[i]
		pMkt := q.NoVig.NoVig
		pFit := fairFor(q)

		edge := pMkt - pFit
		edgeRatio := pFit/pMkt - 1

		flags[i] = models.MispricingFlag{
			Subject:           group.Subject,
			MarketKey:         group.MarketKey,
			Line:              q.Line,
			Side:              q.Side,
			Bookmaker:         q.Bookmaker,
			AmericanPrice:     q.AmericanPrice,
			MarketProbability: pMkt,
			FairProbability:   pFit,
			Edge:              edge,
			EdgeRatio:         edgeRatio,
			Vig:               q.NoVig.Vig,
			Provenance:        q.Provenance,
			Deeplink:          q.Deeplink,
		}
	}

	ciBreach := make([]bool, len(quotes))
	if opts.Bootstrap && group.HasLine {
		lower, upper := bootstrapBands(quotes, opts)
		for i := range flags {
			flags[i].ConfidenceLower = &lower[i]
			flags[i].ConfidenceUpper = &upper[i]
			ciBreach[i] = flags[i].MarketProbability < lower[i] || flags[i].MarketProbability > upper[i]
		}
	}

	for i := range flags {
		thresholdHit := flags[i].Edge < -opts.PGap && math.Abs(flags[i].EdgeRatio) >= opts.EVThreshold
		flags[i].Mispriced = ciBreach[i] || thresholdHit
	}
	return flags, nil
}

// fairFunc resolves the fair-probability lookup for the group: the fitted
// curve for lined markets, the per-side no-vig mean for moneylines.
func fairFunc(group models.MarketLineGroup, quotes []models.Quote) func(models.Quote) float64 {
	if !group.HasLine {
		fair := curve.MoneylineFair(quotes)
		return func(q models.Quote) float64 {
			return fair[q.Side.Canonical()]
		}
	}
	c := curve.Fit(curve.BuildPoints(quotes))
	return func(q models.Quote) float64 {
		return c.FairProbability(q.LineValue(), q.Side)
	}
}

func devigged(quotes []models.Quote) []models.Quote {
	out := make([]models.Quote, 0, len(quotes))
	for i := range quotes {
		if quotes[i].NoVig != nil {
			out = append(out, quotes[i])
		}
	}
	return out
}
