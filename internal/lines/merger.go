// Package lines combines standard and alternate quote tables for the same
// subject and market into MarketLineGroups. The resulting groups carry
// every bookmaker's quotes at every strike of the ladder, which is the
// shape curve fitting and arbitrage scanning consume.
package lines

import (
	"math"
	"sort"
	"strings"

	"github.com/RohanChat/live-lines-finder/internal/models"
)

// CanonicalMarketKey strips the alternate-table decoration from a market
// key so standard and alternate quotes for the same market land in the
// same group ("player_points_alternate" and "alternate_spreads" both
// reduce to their base market).
func CanonicalMarketKey(key string) string {
	key = strings.TrimSuffix(key, "_alternate")
	key = strings.TrimPrefix(key, "alternate_")
	return key
}

// Merge groups quotes by (subject, canonical market key), unioning
// bookmaker/price/side/link tuples across provenances into one full
// strike ladder per group. Moneyline quotes (no line) form sideless
// ladders of their own. Groups, and the quotes within them, come back in
// a deterministic order regardless of input order.
//
// The source kept one wide row per absolute strike with parallel list
// columns; representing the group as an explicit quote sequence removes
// the length-mismatch failure class outright, and SplitByAbsLine recovers
// the per-strike view where a consumer wants it.
func Merge(quotes []models.Quote) []models.MarketLineGroup {
	type groupKey struct {
		subject   string
		marketKey string
		hasLine   bool
	}

	buckets := make(map[groupKey][]models.Quote)
	for i := range quotes {
		q := quotes[i]
		q.MarketKey = CanonicalMarketKey(q.MarketKey)
		k := groupKey{
			subject:   q.Subject,
			marketKey: q.MarketKey,
			hasLine:   q.HasLine(),
		}
		buckets[k] = append(buckets[k], q)
	}

	groups := make([]models.MarketLineGroup, 0, len(buckets))
	for k, qs := range buckets {
		sortQuotes(qs)
		groups = append(groups, models.MarketLineGroup{
			Subject:   k.subject,
			MarketKey: k.marketKey,
			HasLine:   k.hasLine,
			Quotes:    qs,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.MarketKey != b.MarketKey {
			return a.MarketKey < b.MarketKey
		}
		return !a.HasLine && b.HasLine
	})
	return groups
}

// SplitByAbsLine breaks a ladder group into one group per absolute
// strike, the unit the best-price arbitrage variant works on. Spread
// quotes at +4.5 and -4.5 stay together.
func SplitByAbsLine(group models.MarketLineGroup) []models.MarketLineGroup {
	if !group.HasLine {
		return []models.MarketLineGroup{group}
	}

	byAbs := make(map[float64][]models.Quote)
	for i := range group.Quotes {
		abs := math.Abs(group.Quotes[i].LineValue())
		byAbs[abs] = append(byAbs[abs], group.Quotes[i])
	}

	strikes := make([]float64, 0, len(byAbs))
	for abs := range byAbs {
		strikes = append(strikes, abs)
	}
	sort.Float64s(strikes)

	out := make([]models.MarketLineGroup, 0, len(strikes))
	for _, abs := range strikes {
		out = append(out, models.MarketLineGroup{
			Subject:   group.Subject,
			MarketKey: group.MarketKey,
			HasLine:   true,
			Quotes:    byAbs[abs],
		})
	}
	return out
}

// sortQuotes orders quotes within a group by signed line, side, bookmaker,
// then provenance, so repeated runs over the same snapshot produce
// identical groups.
func sortQuotes(qs []models.Quote) {
	sort.SliceStable(qs, func(i, j int) bool {
		a, b := qs[i], qs[j]
		if a.LineValue() != b.LineValue() {
			return a.LineValue() < b.LineValue()
		}
		if a.Side.Canonical() != b.Side.Canonical() {
			return a.Side.Canonical() < b.Side.Canonical()
		}
		if a.Bookmaker != b.Bookmaker {
			return a.Bookmaker < b.Bookmaker
		}
		return a.Provenance < b.Provenance
	})
}
