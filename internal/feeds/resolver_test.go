package feeds

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohanChat/live-lines-finder/internal/models"
)

func validRecord() RawRecord {
	line := 27.5
	link := "https://book.example/bet/123"
	return RawRecord{
		MarketKey:          "player_points",
		OutcomeDescription: "LeBron James",
		OutcomeName:        "Over",
		OutcomePrice:       -115,
		OutcomePoint:       &line,
		BookmakerKey:       "draftkings",
		Link:               &link,
		Scope:              "player",
		Provenance:         "regular",
		ObservedAt:         time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC),
	}
}

func TestResolve(t *testing.T) {
	q, err := Resolve(validRecord())
	require.NoError(t, err)

	assert.Equal(t, "player_points", q.MarketKey)
	assert.Equal(t, "LeBron James", q.Subject)
	assert.Equal(t, models.SideOver, q.Side)
	require.True(t, q.HasLine())
	assert.Equal(t, 27.5, q.LineValue())
	assert.Equal(t, -115, q.AmericanPrice)
	assert.Equal(t, "draftkings", q.Bookmaker)
	assert.Equal(t, "https://book.example/bet/123", q.Deeplink)
	assert.Equal(t, models.ScopePlayer, q.Scope)
	assert.Equal(t, models.ProvenanceRegular, q.Provenance)
}

func TestResolveTolerantFields(t *testing.T) {
	rec := validRecord()
	rec.OutcomePoint = nil
	rec.Link = nil
	rec.OutcomeName = "  UNDER "
	rec.Scope = ""
	rec.Provenance = "alternate"

	q, err := Resolve(rec)
	require.NoError(t, err)
	assert.False(t, q.HasLine())
	assert.Empty(t, q.Deeplink)
	assert.Equal(t, models.SideUnder, q.Side)
	assert.Equal(t, models.ScopeGame, q.Scope, "unknown scope defaults to game")
	assert.Equal(t, models.ProvenanceAlternate, q.Provenance)
}

func TestResolveMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawRecord)
		field  string
	}{
		{"market", func(r *RawRecord) { r.MarketKey = "" }, "market_key"},
		{"subject", func(r *RawRecord) { r.OutcomeDescription = "  " }, "outcome_description"},
		{"side", func(r *RawRecord) { r.OutcomeName = "" }, "outcome_name"},
		{"bookmaker", func(r *RawRecord) { r.BookmakerKey = "" }, "bookmaker_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			_, err := Resolve(rec)
			var shapeErr *models.InputShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, tt.field, shapeErr.Field)
		})
	}
}

func TestResolveInvalidPrice(t *testing.T) {
	for _, price := range []int{0, 50, -99, 99} {
		rec := validRecord()
		rec.OutcomePrice = price
		_, err := Resolve(rec)
		var oddsErr *models.InvalidOddsError
		require.ErrorAs(t, err, &oddsErr, "price %d", price)
		assert.Equal(t, price, oddsErr.American)
	}
}

func TestResolveAllDropsInvalid(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	bad := validRecord()
	bad.OutcomePrice = 0

	quotes, errs := ResolveAll([]RawRecord{validRecord(), bad, validRecord()}, logger)
	assert.Len(t, quotes, 2)
	require.Len(t, errs, 1)

	var oddsErr *models.InvalidOddsError
	assert.True(t, errors.As(errs[0], &oddsErr))
}

func TestParseSnapshot(t *testing.T) {
	data := []byte(`[
		{
			"market_key": "totals",
			"outcome_description": "LAL @ BOS",
			"outcome_name": "Over",
			"outcome_price": -110,
			"outcome_point": 220.5,
			"bookmaker_key": "fanduel",
			"link": null,
			"scope": "game",
			"provenance": "regular",
			"observed_at": "2026-03-01T19:30:00Z"
		}
	]`)

	records, err := ParseSnapshot(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "totals", records[0].MarketKey)
	require.NotNil(t, records[0].OutcomePoint)
	assert.Equal(t, 220.5, *records[0].OutcomePoint)
	assert.Nil(t, records[0].Link)

	_, err = ParseSnapshot([]byte(`{"not": "an array"}`))
	var shapeErr *models.InputShapeError
	require.ErrorAs(t, err, &shapeErr)
}
