package models

import (
	"math"
	"sort"
)

// MarketLineGroup is the set of all quotes for one subject and market
// across bookmakers, strikes, and regular/alternate sourcing. It is the
// unit of curve fitting and arbitrage scanning: the quotes form the full
// strike ladder, and within any one strike the quoted outcomes are
// mutually exclusive and collectively two- or three-sided.
type MarketLineGroup struct {
	Subject   string  `json:"subject"`
	MarketKey string  `json:"market_key"`
	HasLine   bool    `json:"has_line"`
	Quotes    []Quote `json:"quotes"`
}

// DistinctStrikes returns the sorted distinct signed strikes present in
// the group. Moneyline groups return nil.
func (g *MarketLineGroup) DistinctStrikes() []float64 {
	if !g.HasLine {
		return nil
	}
	seen := make(map[float64]bool, len(g.Quotes))
	var strikes []float64
	for i := range g.Quotes {
		v := g.Quotes[i].LineValue()
		if !seen[v] {
			seen[v] = true
			strikes = append(strikes, v)
		}
	}
	sort.Float64s(strikes)
	return strikes
}

// DistinctAbsStrikes returns the sorted distinct absolute strikes. Spread
// markets quote the two sides at opposite-signed lines, so this is the
// ladder of comparable levels rather than of signed points.
func (g *MarketLineGroup) DistinctAbsStrikes() []float64 {
	if !g.HasLine {
		return nil
	}
	seen := make(map[float64]bool, len(g.Quotes))
	var strikes []float64
	for i := range g.Quotes {
		v := math.Abs(g.Quotes[i].LineValue())
		if !seen[v] {
			seen[v] = true
			strikes = append(strikes, v)
		}
	}
	sort.Float64s(strikes)
	return strikes
}

// SidesPresent returns the canonical sides quoted in the group.
func (g *MarketLineGroup) SidesPresent() []Side {
	seen := make(map[Side]bool, 3)
	var sides []Side
	for i := range g.Quotes {
		s := g.Quotes[i].Side.Canonical()
		if !seen[s] {
			seen[s] = true
			sides = append(sides, s)
		}
	}
	return sides
}

// ThreeWay reports whether the group is a three-sided market (moneyline
// with a draw outcome).
func (g *MarketLineGroup) ThreeWay() bool {
	for i := range g.Quotes {
		if g.Quotes[i].Side.Canonical() == SideDraw {
			return true
		}
	}
	return false
}
