package odds

import (
	"fmt"
	"sort"

	"github.com/RohanChat/live-lines-finder/internal/models"
)

// DefaultAssumedVig is the margin assumed for single-sided quotes, where
// there is no opposing quote to normalize against. This is a market
// convention carried over from production behavior, not a derived value;
// keep it configurable.
const DefaultAssumedVig = 0.05

// RemoveVig computes the shared vig and each outcome's no-vig probability
// for the quotes one bookmaker posts at one signed strike. Two- and
// three-sided sets are normalized against their implied-probability sum;
// a single-sided quote gets assumedVig/2 subtracted from its implied
// probability by convention.
//
// Duplicate sides from the same book at the same strike keep the
// first-seen quote; later duplicates are dropped rather than
// double-counted.
func RemoveVig(quotes []models.Quote, assumedVig float64) ([]models.NoVig, error) {
	if len(quotes) == 0 {
		return nil, nil
	}
	deduped := dedupeSides(quotes)
	if len(deduped) > 3 {
		return nil, models.NewInputShapeError("quotes",
			fmt.Sprintf("expected at most 3 sides for one book at one strike, got %d", len(deduped)))
	}

	implied := make([]float64, len(deduped))
	total := 0.0
	for i := range deduped {
		p, err := ImpliedFromAmerican(deduped[i].AmericanPrice)
		if err != nil {
			return nil, err
		}
		implied[i] = p
		total += p
	}

	out := make([]models.NoVig, 0, len(quotes))
	if len(deduped) == 1 {
		out = append(out, models.NoVig{
			Implied:     implied[0],
			NoVig:       implied[0] - assumedVig/2,
			Vig:         assumedVig,
			SingleSided: true,
		})
	} else {
		vig := total - 1
		for i := range deduped {
			out = append(out, models.NoVig{
				Implied: implied[i],
				NoVig:   implied[i] / total,
				Vig:     vig,
			})
		}
	}

	// Re-attach dropped duplicates to the surviving entry for their side so
	// the output stays parallel to the input.
	if len(deduped) != len(quotes) {
		out = expandDuplicates(quotes, deduped, out)
	}
	return out, nil
}

// DevigSnapshot runs RemoveVig over a raw quote table, pairing sides per
// (subject, market, bookmaker, signed strike) and attaching the derived
// NoVig to each quote. Quotes with invalid prices are returned separately
// so the caller can drop them with a warning.
func DevigSnapshot(quotes []models.Quote, assumedVig float64) ([]models.Quote, []error) {
	type bucketKey struct {
		subject   string
		marketKey string
		bookmaker string
		line      float64
		hasLine   bool
	}

	order := make([]bucketKey, 0)
	buckets := make(map[bucketKey][]models.Quote)
	for i := range quotes {
		q := quotes[i]
		k := bucketKey{
			subject:   q.Subject,
			marketKey: q.MarketKey,
			bookmaker: q.Bookmaker,
			line:      q.LineValue(),
			hasLine:   q.HasLine(),
		}
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], q)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.subject != b.subject {
			return a.subject < b.subject
		}
		if a.marketKey != b.marketKey {
			return a.marketKey < b.marketKey
		}
		if a.bookmaker != b.bookmaker {
			return a.bookmaker < b.bookmaker
		}
		return a.line < b.line
	})

	var out []models.Quote
	var errs []error
	for _, k := range order {
		bucket := buckets[k]
		novigs, err := RemoveVig(bucket, assumedVig)
		if err != nil {
			errs = append(errs, fmt.Errorf("devig %s/%s @%v (%s): %w",
				k.subject, k.marketKey, k.line, k.bookmaker, err))
			continue
		}
		for i := range bucket {
			q := bucket[i]
			nv := novigs[i]
			q.NoVig = &nv
			out = append(out, q)
		}
	}
	return out, errs
}

func dedupeSides(quotes []models.Quote) []models.Quote {
	seen := make(map[models.Side]bool, len(quotes))
	deduped := make([]models.Quote, 0, len(quotes))
	for i := range quotes {
		s := quotes[i].Side.Canonical()
		if seen[s] {
			continue
		}
		seen[s] = true
		deduped = append(deduped, quotes[i])
	}
	return deduped
}

func expandDuplicates(quotes, deduped []models.Quote, novigs []models.NoVig) []models.NoVig {
	bySide := make(map[models.Side]models.NoVig, len(deduped))
	for i := range deduped {
		bySide[deduped[i].Side.Canonical()] = novigs[i]
	}
	out := make([]models.NoVig, len(quotes))
	for i := range quotes {
		out[i] = bySide[quotes[i].Side.Canonical()]
	}
	return out
}
