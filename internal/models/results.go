package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisResults is the full output of one engine pass over an event
// snapshot, split by market scope.
type AnalysisResults struct {
	RunID          uuid.UUID              `json:"run_id"`
	EventID        string                 `json:"event_id"`
	GeneratedAt    time.Time              `json:"generated_at"`
	PlayerArbs     []ArbitrageOpportunity `json:"player_arbitrage"`
	GameArbs       []ArbitrageOpportunity `json:"game_arbitrage"`
	PlayerFlags    []MispricingFlag       `json:"player_mispriced"`
	GameFlags      []MispricingFlag       `json:"game_mispriced"`
	GroupsAnalyzed int                    `json:"groups_analyzed"`
	QuotesDropped  int                    `json:"quotes_dropped"`
}

// ArbLeg is one side of an arbitrage combination.
type ArbLeg struct {
	Side            Side       `json:"side"`
	Line            *float64   `json:"line,omitempty"`
	AmericanPrice   int        `json:"american_price"`
	DecimalOdds     float64    `json:"decimal_odds"`
	TrueProbability float64    `json:"true_probability"`
	Bookmaker       string     `json:"bookmaker"`
	Provenance      Provenance `json:"provenance"`
	Deeplink        string     `json:"deeplink,omitempty"`
}

// ArbitrageOpportunity is a pair or triple of quotes from different
// bookmakers whose vig-inclusive probabilities sum below 1 minus the
// configured threshold. TrueProbability on each leg is the book's own
// priced probability, not a de-vigged value.
type ArbitrageOpportunity struct {
	ID             uuid.UUID `json:"id"`
	Subject        string    `json:"subject"`
	MarketKey      string    `json:"market_key"`
	Legs           []ArbLeg  `json:"legs"`
	SumProbability float64   `json:"sum_probability"`
	ProfitMargin   float64   `json:"profit_margin"`
}

// MispricingFlag is the per-quote verdict against the fitted fair curve.
// Edge = market probability - fair probability; EdgeRatio =
// fair/market - 1. Confidence bounds are only present when the bootstrap
// check was enabled.
type MispricingFlag struct {
	Subject           string     `json:"subject"`
	MarketKey         string     `json:"market_key"`
	Line              *float64   `json:"line,omitempty"`
	Side              Side       `json:"side"`
	Bookmaker         string     `json:"bookmaker"`
	AmericanPrice     int        `json:"american_price"`
	MarketProbability float64    `json:"market_probability"`
	FairProbability   float64    `json:"fair_probability"`
	Edge              float64    `json:"edge"`
	EdgeRatio         float64    `json:"edge_ratio"`
	Vig               float64    `json:"vig"`
	Mispriced         bool       `json:"mispriced"`
	ConfidenceLower   *float64   `json:"confidence_lower,omitempty"`
	ConfidenceUpper   *float64   `json:"confidence_upper,omitempty"`
	Provenance        Provenance `json:"provenance"`
	Deeplink          string     `json:"deeplink,omitempty"`
}
