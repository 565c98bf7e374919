package models

import (
	"strings"
	"time"
)

// Side identifies one outcome of a market. Canonical values are listed
// below, but provider feeds may carry free-form outcome names (player
// names, "Yes"/"No", ...), so Side is an open string type.
type Side string

// Canonical sides
const (
	SideOver  Side = "over"
	SideUnder Side = "under"
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideDraw  Side = "draw"
)

// Canonical returns the lower-cased, trimmed form used for all side
// comparisons in the pipeline.
func (s Side) Canonical() Side {
	return Side(strings.ToLower(strings.TrimSpace(string(s))))
}

// IsOverUnder reports whether the side is a canonical over/under outcome.
func (s Side) IsOverUnder() bool {
	c := s.Canonical()
	return c == SideOver || c == SideUnder
}

// Scope separates player-prop markets from game-level markets. The engine
// produces independent result collections per scope.
type Scope string

const (
	ScopePlayer Scope = "player"
	ScopeGame   Scope = "game"
)

// Provenance records which source table a quote came from. Alternate
// tables carry the wide strike ladder and are often single-sided.
type Provenance string

const (
	ProvenanceRegular   Provenance = "regular"
	ProvenanceAlternate Provenance = "alternate"
	ProvenancePeriod    Provenance = "period"
)

// Quote is one bookmaker's price for one outcome at one point in time.
type Quote struct {
	MarketKey     string     `json:"market_key" validate:"required"`
	Subject       string     `json:"subject" validate:"required"`
	Side          Side       `json:"side" validate:"required"`
	Line          *float64   `json:"line,omitempty"`
	AmericanPrice int        `json:"american_price" validate:"required"`
	Bookmaker     string     `json:"bookmaker" validate:"required"`
	Deeplink      string     `json:"deeplink,omitempty"`
	Scope         Scope      `json:"scope"`
	Provenance    Provenance `json:"provenance"`
	ObservedAt    time.Time  `json:"observed_at"`

	// NoVig is attached by the de-vig pass; nil until then.
	NoVig *NoVig `json:"no_vig,omitempty"`
}

// HasLine reports whether the quote carries a strike (moneyline quotes do not).
func (q *Quote) HasLine() bool {
	return q.Line != nil
}

// LineValue returns the signed strike, or 0 for moneyline quotes.
func (q *Quote) LineValue() float64 {
	if q.Line == nil {
		return 0
	}
	return *q.Line
}

// NoVig holds the margin-adjusted probabilities derived for one quote.
// Implied and Vig are computed jointly across all sides quoted by the same
// bookmaker at the same signed strike, never across bookmakers.
type NoVig struct {
	Implied     float64 `json:"implied_probability"`
	NoVig       float64 `json:"no_vig_probability"`
	Vig         float64 `json:"vig"`
	SingleSided bool    `json:"single_sided"`
}
