// Package arbitrage enumerates cross-bookmaker quote combinations that
// guarantee profit regardless of outcome. Probabilities here are each
// book's own vig-inclusive implied probabilities: the bettor transacts at
// the quoted price, so no margin is removed.
package arbitrage

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/RohanChat/live-lines-finder/internal/models"
	"github.com/RohanChat/live-lines-finder/internal/odds"
)

// DefaultThreshold is the minimum guaranteed margin worth surfacing.
const DefaultThreshold = 0.01

// ScanGroup runs the full pairwise enumeration over one market-line group:
// every (over, under) combination across strikes, or every opposing pair
// for spreads and two-way moneylines, from different bookmakers. A group
// with zero quotes on one side yields an empty result.
func ScanGroup(group models.MarketLineGroup, threshold float64) []models.ArbitrageOpportunity {
	if group.ThreeWay() {
		return ScanThreeWay(group, threshold)
	}
	if isSpread(group.MarketKey) || !group.HasLine {
		return scanOpposing(group, threshold)
	}
	return scanOverUnder(group, threshold)
}

// scanOverUnder pairs every over quote with every under quote whose strike
// covers it: the under line must sit at or above the over line, so both
// legs win the middle.
func scanOverUnder(group models.MarketLineGroup, threshold float64) []models.ArbitrageOpportunity {
	var overs, unders []models.Quote
	for i := range group.Quotes {
		switch group.Quotes[i].Side.Canonical() {
		case models.SideOver:
			overs = append(overs, group.Quotes[i])
		case models.SideUnder:
			unders = append(unders, group.Quotes[i])
		}
	}
	if len(overs) == 0 || len(unders) == 0 {
		return nil
	}

	var out []models.ArbitrageOpportunity
	for _, over := range overs {
		for _, under := range unders {
			if over.Bookmaker == under.Bookmaker {
				continue
			}
			if under.LineValue() < over.LineValue() {
				continue
			}
			if opp, ok := combine(group, threshold, over, under); ok {
				out = append(out, opp)
			}
		}
	}
	return sortOpportunities(out)
}

// scanOpposing pairs quotes on different sides of a spread or two-way
// moneyline. Spread legs must bet the worse side of each number: the
// positive line at least as large in magnitude as the negative one.
func scanOpposing(group models.MarketLineGroup, threshold float64) []models.ArbitrageOpportunity {
	spread := isSpread(group.MarketKey)

	var out []models.ArbitrageOpportunity
	for i := range group.Quotes {
		for j := range group.Quotes {
			a, b := group.Quotes[i], group.Quotes[j]
			if a.Side.Canonical() == b.Side.Canonical() {
				continue
			}
			if a.Bookmaker == b.Bookmaker {
				continue
			}
			if spread {
				if !(a.LineValue() > 0 && b.LineValue() < 0 &&
					math.Abs(a.LineValue()) >= math.Abs(b.LineValue())) {
					continue
				}
			} else if i >= j {
				// Moneyline pairs are unordered; emit each once.
				continue
			}
			if opp, ok := combine(group, threshold, a, b); ok {
				out = append(out, opp)
			}
		}
	}
	return sortOpportunities(out)
}

// ScanThreeWay covers a three-sided moneyline with one leg per outcome,
// each possibly at a different book.
func ScanThreeWay(group models.MarketLineGroup, threshold float64) []models.ArbitrageOpportunity {
	var homes, draws, aways []models.Quote
	for i := range group.Quotes {
		switch group.Quotes[i].Side.Canonical() {
		case models.SideHome:
			homes = append(homes, group.Quotes[i])
		case models.SideDraw:
			draws = append(draws, group.Quotes[i])
		case models.SideAway:
			aways = append(aways, group.Quotes[i])
		}
	}
	if len(homes) == 0 || len(draws) == 0 || len(aways) == 0 {
		return nil
	}

	var out []models.ArbitrageOpportunity
	for _, h := range homes {
		for _, d := range draws {
			for _, a := range aways {
				if h.Bookmaker == d.Bookmaker && d.Bookmaker == a.Bookmaker {
					continue
				}
				if opp, ok := combine(group, threshold, h, d, a); ok {
					out = append(out, opp)
				}
			}
		}
	}
	return sortOpportunities(out)
}

// BestPrice is the single-strike variant: among all over quotes and all
// under quotes at one strike, take the maximum-decimal quote per side and
// test just that combination. It produces at most one candidate, unlike
// the pairwise enumeration used for multi-strike ladders.
func BestPrice(group models.MarketLineGroup, threshold float64) (models.ArbitrageOpportunity, bool) {
	var bestOver, bestUnder *models.Quote
	var bestOverDec, bestUnderDec float64
	for i := range group.Quotes {
		q := &group.Quotes[i]
		dec, err := odds.DecimalFromAmerican(q.AmericanPrice)
		if err != nil {
			continue
		}
		dec = odds.RoundDecimal(dec)
		switch q.Side.Canonical() {
		case models.SideOver:
			if bestOver == nil || dec > bestOverDec {
				bestOver, bestOverDec = q, dec
			}
		case models.SideUnder:
			if bestUnder == nil || dec > bestUnderDec {
				bestUnder, bestUnderDec = q, dec
			}
		}
	}
	if bestOver == nil || bestUnder == nil || bestOver.Bookmaker == bestUnder.Bookmaker {
		return models.ArbitrageOpportunity{}, false
	}
	opp, ok := combine(group, threshold, *bestOver, *bestUnder)
	return opp, ok
}

// combine sums the legs' true probabilities and builds the opportunity
// when the sum clears the threshold.
func combine(group models.MarketLineGroup, threshold float64, quotes ...models.Quote) (models.ArbitrageOpportunity, bool) {
	legs := make([]models.ArbLeg, 0, len(quotes))
	sum := 0.0
	for _, q := range quotes {
		dec, err := odds.DecimalFromAmerican(q.AmericanPrice)
		if err != nil {
			return models.ArbitrageOpportunity{}, false
		}
		p := odds.ImpliedFromDecimal(dec)
		sum += p
		legs = append(legs, models.ArbLeg{
			Side:            q.Side,
			Line:            q.Line,
			AmericanPrice:   q.AmericanPrice,
			DecimalOdds:     odds.RoundDecimal(dec),
			TrueProbability: p,
			Bookmaker:       q.Bookmaker,
			Provenance:      q.Provenance,
			Deeplink:        q.Deeplink,
		})
	}

	if sum >= 1-threshold {
		return models.ArbitrageOpportunity{}, false
	}
	return models.ArbitrageOpportunity{
		ID:             uuid.New(),
		Subject:        group.Subject,
		MarketKey:      group.MarketKey,
		Legs:           legs,
		SumProbability: sum,
		ProfitMargin:   1/sum - 1,
	}, true
}

func isSpread(marketKey string) bool {
	return strings.HasPrefix(marketKey, "spread")
}

// sortOpportunities orders by descending profit margin, breaking ties by
// leg bookmakers, so scans over identical snapshots line up exactly.
func sortOpportunities(opps []models.ArbitrageOpportunity) []models.ArbitrageOpportunity {
	sort.SliceStable(opps, func(i, j int) bool {
		if opps[i].ProfitMargin != opps[j].ProfitMargin {
			return opps[i].ProfitMargin > opps[j].ProfitMargin
		}
		return legKey(opps[i]) < legKey(opps[j])
	})
	return opps
}

func legKey(o models.ArbitrageOpportunity) string {
	parts := make([]string, 0, len(o.Legs))
	for _, l := range o.Legs {
		parts = append(parts, l.Bookmaker+"/"+string(l.Side))
	}
	return strings.Join(parts, "|")
}
