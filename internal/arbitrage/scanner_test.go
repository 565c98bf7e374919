package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohanChat/live-lines-finder/internal/models"
)

func totalQuote(side models.Side, line float64, price int, book string) models.Quote {
	l := line
	return models.Quote{
		MarketKey:     "totals",
		Subject:       "LAL @ BOS",
		Side:          side,
		Line:          &l,
		AmericanPrice: price,
		Bookmaker:     book,
	}
}

func totalsGroup(quotes ...models.Quote) models.MarketLineGroup {
	return models.MarketLineGroup{
		Subject:   "LAL @ BOS",
		MarketKey: "totals",
		HasLine:   true,
		Quotes:    quotes,
	}
}

func TestScanGroupThresholdBoundary(t *testing.T) {
	// +100/+100 sums to exactly 1.0: not an arb at any threshold.
	group := totalsGroup(
		totalQuote(models.SideOver, 220.5, 100, "book_a"),
		totalQuote(models.SideUnder, 220.5, 100, "book_b"),
	)
	assert.Empty(t, ScanGroup(group, DefaultThreshold))

	// Lowering the under price to +150 gives 0.5 + 0.4 = 0.9.
	group = totalsGroup(
		totalQuote(models.SideOver, 220.5, 100, "book_a"),
		totalQuote(models.SideUnder, 220.5, 150, "book_b"),
	)
	opps := ScanGroup(group, DefaultThreshold)
	require.Len(t, opps, 1)
	assert.InDelta(t, 0.9, opps[0].SumProbability, 1e-9)
	assert.InDelta(t, 0.1111111, opps[0].ProfitMargin, 1e-6)
	require.Len(t, opps[0].Legs, 2)
}

func TestScanGroupRequiresDifferentBookmakers(t *testing.T) {
	group := totalsGroup(
		totalQuote(models.SideOver, 220.5, 150, "book_a"),
		totalQuote(models.SideUnder, 220.5, 150, "book_a"),
	)
	assert.Empty(t, ScanGroup(group, DefaultThreshold),
		"both legs at one book is not an arbitrage position")
}

func TestScanGroupLineCompatibility(t *testing.T) {
	// Under at a higher strike than the over covers the middle: valid.
	group := totalsGroup(
		totalQuote(models.SideOver, 220.5, 120, "book_a"),
		totalQuote(models.SideUnder, 222.5, 120, "book_b"),
	)
	opps := ScanGroup(group, DefaultThreshold)
	require.Len(t, opps, 1)

	// Under below the over leaves the middle uncovered: never an arb.
	group = totalsGroup(
		totalQuote(models.SideOver, 222.5, 150, "book_a"),
		totalQuote(models.SideUnder, 220.5, 150, "book_b"),
	)
	assert.Empty(t, ScanGroup(group, DefaultThreshold))
}

func TestScanGroupEmptySide(t *testing.T) {
	group := totalsGroup(
		totalQuote(models.SideOver, 220.5, 150, "book_a"),
		totalQuote(models.SideOver, 222.5, 180, "book_b"),
	)
	assert.Empty(t, ScanGroup(group, DefaultThreshold), "zero quotes on one side yields empty, not an error")
}

func TestScanGroupSpreadCompatibility(t *testing.T) {
	spread := func(side models.Side, line float64, price int, book string) models.Quote {
		l := line
		return models.Quote{
			MarketKey: "spreads", Subject: "LAL @ BOS", Side: side,
			Line: &l, AmericanPrice: price, Bookmaker: book,
		}
	}
	group := models.MarketLineGroup{
		Subject: "LAL @ BOS", MarketKey: "spreads", HasLine: true,
		Quotes: []models.Quote{
			spread("BOS", 6.5, 110, "book_a"),  // +6.5 at +110
			spread("LAL", -4.5, 120, "book_b"), // -4.5 at +120
		},
	}

	// +6.5 / -4.5: |over| >= |under|, middle covered. 0.476 + 0.455 < 0.99.
	opps := ScanGroup(group, DefaultThreshold)
	require.Len(t, opps, 1)
	assert.Greater(t, opps[0].ProfitMargin, 0.0)

	// Flip the magnitudes: +4.5 / -6.5 leaves the middle open.
	group.Quotes = []models.Quote{
		spread("BOS", 4.5, 110, "book_a"),
		spread("LAL", -6.5, 120, "book_b"),
	}
	assert.Empty(t, ScanGroup(group, DefaultThreshold))
}

func TestScanThreeWay(t *testing.T) {
	ml := func(side models.Side, price int, book string) models.Quote {
		return models.Quote{
			MarketKey: "h2h_3_way", Subject: "ARS vs CHE", Side: side,
			AmericanPrice: price, Bookmaker: book,
		}
	}
	group := models.MarketLineGroup{
		Subject: "ARS vs CHE", MarketKey: "h2h_3_way", HasLine: false,
		Quotes: []models.Quote{
			ml(models.SideHome, 250, "book_a"), // 0.2857
			ml(models.SideDraw, 275, "book_b"), // 0.2667
			ml(models.SideAway, 250, "book_c"), // 0.2857
		},
	}

	opps := ScanGroup(group, DefaultThreshold)
	require.Len(t, opps, 1)
	require.Len(t, opps[0].Legs, 3)
	assert.InDelta(t, 0.8381, opps[0].SumProbability, 1e-3)

	// Missing draw leg: empty result.
	group.Quotes = group.Quotes[:2]
	group.Quotes = append(group.Quotes, ml(models.SideHome, 300, "book_c"))
	assert.Empty(t, ScanGroup(group, DefaultThreshold))
}

func TestBestPriceSingleCandidate(t *testing.T) {
	group := totalsGroup(
		totalQuote(models.SideOver, 220.5, 100, "book_a"),
		totalQuote(models.SideOver, 220.5, 130, "book_b"), // best over
		totalQuote(models.SideUnder, 220.5, 110, "book_c"),
		totalQuote(models.SideUnder, 220.5, 140, "book_d"), // best under
	)

	opp, ok := BestPrice(group, DefaultThreshold)
	require.True(t, ok)
	require.Len(t, opp.Legs, 2)
	assert.Equal(t, "book_b", opp.Legs[0].Bookmaker)
	assert.Equal(t, "book_d", opp.Legs[1].Bookmaker)

	// The pairwise scan over the same group finds several combinations;
	// best-price surfaces exactly one.
	assert.Greater(t, len(ScanGroup(group, DefaultThreshold)), 1)
}

func TestBestPriceNoCandidate(t *testing.T) {
	group := totalsGroup(
		totalQuote(models.SideOver, 220.5, -110, "book_a"),
		totalQuote(models.SideUnder, 220.5, -110, "book_b"),
	)
	_, ok := BestPrice(group, DefaultThreshold)
	assert.False(t, ok, "-110/-110 sums above 1")

	group = totalsGroup(totalQuote(models.SideOver, 220.5, 150, "book_a"))
	_, ok = BestPrice(group, DefaultThreshold)
	assert.False(t, ok, "one-sided group has no candidate")
}

func TestScanDeterministicOrder(t *testing.T) {
	group := totalsGroup(
		totalQuote(models.SideOver, 220.5, 120, "book_a"),
		totalQuote(models.SideOver, 220.5, 125, "book_b"),
		totalQuote(models.SideUnder, 222.5, 120, "book_c"),
		totalQuote(models.SideUnder, 222.5, 130, "book_d"),
	)

	first := ScanGroup(group, DefaultThreshold)
	second := ScanGroup(group, DefaultThreshold)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Legs, second[i].Legs)
		assert.Equal(t, first[i].ProfitMargin, second[i].ProfitMargin)
	}
	if len(first) > 1 {
		assert.GreaterOrEqual(t, first[0].ProfitMargin, first[1].ProfitMargin)
	}
}
