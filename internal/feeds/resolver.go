// Package feeds resolves provider-agnostic raw odds records into the
// quote shape the analysis pipeline consumes. It is the only place that
// knows the wire field names; everything downstream works on models.Quote.
package feeds

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RohanChat/live-lines-finder/internal/models"
)

// RawRecord is one odds observation as delivered by a provider feed.
// outcome_point and link are nullable; everything else is required.
type RawRecord struct {
	MarketKey          string    `json:"market_key"`
	OutcomeDescription string    `json:"outcome_description"`
	OutcomeName        string    `json:"outcome_name"`
	OutcomePrice       int       `json:"outcome_price"`
	OutcomePoint       *float64  `json:"outcome_point"`
	BookmakerKey       string    `json:"bookmaker_key"`
	Link               *string   `json:"link"`
	Scope              string    `json:"scope"`
	Provenance         string    `json:"provenance"`
	ObservedAt         time.Time `json:"observed_at"`
}

// Resolve converts a raw record into a Quote. It returns an
// InputShapeError when a required field is missing and an
// InvalidOddsError when the price cannot be a valid American quote.
// A missing point (moneyline) and a missing link are fine.
func Resolve(rec RawRecord) (models.Quote, error) {
	if strings.TrimSpace(rec.MarketKey) == "" {
		return models.Quote{}, models.NewInputShapeError("market_key", "missing market key")
	}
	if strings.TrimSpace(rec.OutcomeDescription) == "" {
		return models.Quote{}, models.NewInputShapeError("outcome_description", "missing subject")
	}
	if strings.TrimSpace(rec.OutcomeName) == "" {
		return models.Quote{}, models.NewInputShapeError("outcome_name", "missing outcome side")
	}
	if strings.TrimSpace(rec.BookmakerKey) == "" {
		return models.Quote{}, models.NewInputShapeError("bookmaker_key", "missing bookmaker")
	}
	if rec.OutcomePrice == 0 || (rec.OutcomePrice > -100 && rec.OutcomePrice < 100) {
		return models.Quote{}, models.NewInvalidOddsError(rec.OutcomePrice)
	}

	q := models.Quote{
		MarketKey:     strings.TrimSpace(rec.MarketKey),
		Subject:       strings.TrimSpace(rec.OutcomeDescription),
		Side:          models.Side(rec.OutcomeName).Canonical(),
		Line:          rec.OutcomePoint,
		AmericanPrice: rec.OutcomePrice,
		Bookmaker:     strings.TrimSpace(rec.BookmakerKey),
		Scope:         resolveScope(rec.Scope),
		Provenance:    resolveProvenance(rec.Provenance),
		ObservedAt:    rec.ObservedAt,
	}
	if rec.Link != nil {
		q.Deeplink = *rec.Link
	}
	return q, nil
}

// ResolveAll resolves a batch, dropping invalid records with a warning and
// returning the valid remainder together with the per-record errors.
func ResolveAll(records []RawRecord, logger *logrus.Logger) ([]models.Quote, []error) {
	quotes := make([]models.Quote, 0, len(records))
	var errs []error
	for i, rec := range records {
		q, err := Resolve(rec)
		if err != nil {
			errs = append(errs, err)
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"index":     i,
					"market":    rec.MarketKey,
					"bookmaker": rec.BookmakerKey,
					"error":     err.Error(),
				}).Warn("Dropping unresolvable odds record")
			}
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, errs
}

// ParseSnapshot decodes a JSON array of raw records.
func ParseSnapshot(data []byte) ([]RawRecord, error) {
	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, models.NewInputShapeError("snapshot", err.Error())
	}
	return records, nil
}

func resolveScope(s string) models.Scope {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player":
		return models.ScopePlayer
	default:
		return models.ScopeGame
	}
}

func resolveProvenance(s string) models.Provenance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alternate":
		return models.ProvenanceAlternate
	case "period":
		return models.ProvenancePeriod
	default:
		return models.ProvenanceRegular
	}
}
