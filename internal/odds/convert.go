// Package odds provides pure numeric conversions between American odds,
// decimal odds, and implied probability, plus bookmaker margin removal.
package odds

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/RohanChat/live-lines-finder/internal/models"
)

// DecimalFromAmerican converts American odds to decimal odds. American
// odds of 0, or inside the open (-100, 100) band, are not convertible.
func DecimalFromAmerican(american int) (float64, error) {
	if american == 0 || (american > -100 && american < 100) {
		return 0, models.NewInvalidOddsError(american)
	}
	if american > 0 {
		return 1 + float64(american)/100, nil
	}
	return 1 + 100/math.Abs(float64(american)), nil
}

// ImpliedFromDecimal converts decimal odds to implied probability.
func ImpliedFromDecimal(decimalOdds float64) float64 {
	return 1 / decimalOdds
}

// ImpliedFromAmerican converts American odds straight to implied
// probability.
func ImpliedFromAmerican(american int) (float64, error) {
	d, err := DecimalFromAmerican(american)
	if err != nil {
		return 0, err
	}
	return ImpliedFromDecimal(d), nil
}

// AmericanFromDecimal converts decimal odds back to American odds,
// branching at decimal 2.0, rounded to the nearest integer.
func AmericanFromDecimal(decimalOdds float64) int {
	if decimalOdds >= 2 {
		return int(math.Round((decimalOdds - 1) * 100))
	}
	return int(math.Round(-100 / (decimalOdds - 1)))
}

// RoundDecimal rounds decimal odds to exactly two decimal places. Float
// arithmetic on American prices leaves artifacts (+220 must print as 3.20,
// not 3.1999...), so the rounding goes through shopspring/decimal.
func RoundDecimal(decimalOdds float64) float64 {
	return decimal.NewFromFloat(decimalOdds).Round(2).InexactFloat64()
}
