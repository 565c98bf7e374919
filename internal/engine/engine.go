// Package engine orchestrates one full analysis pass over an event
// snapshot: vig removal, line-group merging, fair curve detection, and
// arbitrage scanning. The engine consumes materialized quotes only and
// performs no I/O.
package engine

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RohanChat/live-lines-finder/internal/arbitrage"
	"github.com/RohanChat/live-lines-finder/internal/detector"
	"github.com/RohanChat/live-lines-finder/internal/lines"
	"github.com/RohanChat/live-lines-finder/internal/logger"
	"github.com/RohanChat/live-lines-finder/internal/metrics"
	"github.com/RohanChat/live-lines-finder/internal/models"
	"github.com/RohanChat/live-lines-finder/internal/odds"
)

// Options carries every tunable of the analysis pass.
type Options struct {
	PGap                  float64
	EVThreshold           float64
	ArbThreshold          float64
	Bootstrap             bool
	BootstrapIterations   int
	BootstrapConfidence   float64
	AssumedSingleSidedVig float64
	// Seed drives bootstrap resampling. The same seed over the same
	// snapshot reproduces the confidence bands exactly.
	Seed    int64
	Workers int
}

// DefaultOptions returns the production thresholds.
func DefaultOptions() Options {
	return Options{
		PGap:                  0.075,
		EVThreshold:           0.10,
		ArbThreshold:          arbitrage.DefaultThreshold,
		Bootstrap:             false,
		BootstrapIterations:   100,
		BootstrapConfidence:   0.95,
		AssumedSingleSidedVig: odds.DefaultAssumedVig,
		Workers:               runtime.NumCPU(),
	}
}

// Validate checks every threshold range before any per-group work runs.
func (o Options) Validate() error {
	if o.PGap <= 0 || o.PGap >= 1 {
		return models.NewConfigurationError("PGap", "must be in (0, 1)")
	}
	if o.EVThreshold <= 0 || o.EVThreshold >= 1 {
		return models.NewConfigurationError("EVThreshold", "must be in (0, 1)")
	}
	if o.ArbThreshold < 0 || o.ArbThreshold >= 1 {
		return models.NewConfigurationError("ArbThreshold", "must be in [0, 1)")
	}
	if o.AssumedSingleSidedVig < 0 || o.AssumedSingleSidedVig >= 1 {
		return models.NewConfigurationError("AssumedSingleSidedVig", "must be in [0, 1)")
	}
	if o.Bootstrap {
		if o.BootstrapIterations <= 0 {
			return models.NewConfigurationError("BootstrapIterations", "must be positive")
		}
		if o.BootstrapConfidence <= 0 || o.BootstrapConfidence >= 1 {
			return models.NewConfigurationError("BootstrapConfidence", "must be in (0, 1)")
		}
	}
	if o.Workers <= 0 {
		return models.NewConfigurationError("Workers", "must be positive")
	}
	return nil
}

// Snapshot is one event's worth of resolved quotes.
type Snapshot struct {
	EventID string
	Quotes  []models.Quote
}

// Engine runs analysis passes with a fixed set of options.
type Engine struct {
	opts   Options
	logger *logrus.Logger
}

// New validates the options and builds an engine.
func New(opts Options, log *logrus.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &Engine{opts: opts, logger: log}, nil
}

// groupResult is the output of one group's worth of work.
type groupResult struct {
	arbs    []models.ArbitrageOpportunity
	flags   []models.MispricingFlag
	skipped bool
}

// ProcessEvent analyzes a snapshot and returns the four output
// collections. The same snapshot and options always produce the same
// results, byte for byte.
func (e *Engine) ProcessEvent(ctx context.Context, snap Snapshot) (*models.AnalysisResults, error) {
	start := time.Now()
	runID := uuid.New()
	log := logger.WithRun(e.logger, runID.String()).WithFields(logrus.Fields{
		"event_id": snap.EventID,
		"quotes":   len(snap.Quotes),
	})
	log.Info("Starting analysis run")
	metrics.RecordQuotesProcessed(len(snap.Quotes))

	results := &models.AnalysisResults{
		RunID:       runID,
		EventID:     snap.EventID,
		GeneratedAt: start.UTC(),
	}

	byScope := map[models.Scope][]models.Quote{}
	for _, q := range snap.Quotes {
		scope := q.Scope
		if scope != models.ScopePlayer {
			scope = models.ScopeGame
		}
		byScope[scope] = append(byScope[scope], q)
	}

	for _, scope := range []models.Scope{models.ScopePlayer, models.ScopeGame} {
		quotes := byScope[scope]
		if len(quotes) == 0 {
			continue
		}

		devigged, errs := odds.DevigSnapshot(quotes, e.opts.AssumedSingleSidedVig)
		for _, err := range errs {
			metrics.RecordDevigError()
			log.WithFields(logrus.Fields{
				"scope": scope,
				"error": err.Error(),
			}).Warn("Dropped quotes during vig removal")
		}
		results.QuotesDropped += len(errs)

		groups := lines.Merge(devigged)
		metrics.RecordGroupsMerged(len(groups))
		results.GroupsAnalyzed += len(groups)

		arbs, flags, skipped, err := e.analyzeGroups(ctx, groups)
		if err != nil {
			return nil, err
		}
		if skipped > 0 {
			log.WithFields(logrus.Fields{
				"scope":   scope,
				"skipped": skipped,
			}).Warn("Skipped structurally invalid groups")
		}

		metrics.RecordArbitrageFound(string(scope), len(arbs))
		metrics.RecordMispricedFlagged(string(scope), len(flags))
		if scope == models.ScopePlayer {
			results.PlayerArbs, results.PlayerFlags = arbs, flags
		} else {
			results.GameArbs, results.GameFlags = arbs, flags
		}
	}

	elapsed := time.Since(start)
	metrics.RecordRunDuration(elapsed.Seconds())
	log.WithFields(logrus.Fields{
		"duration":         elapsed.String(),
		"player_arbs":      len(results.PlayerArbs),
		"game_arbs":        len(results.GameArbs),
		"player_mispriced": len(results.PlayerFlags),
		"game_mispriced":   len(results.GameFlags),
	}).Info("Analysis run complete")

	return results, nil
}

// analyzeGroups fans the groups out over a bounded worker pool. Per-group
// work is pure, so results land in a preallocated slice with no shared
// state, then get flattened in group order.
func (e *Engine) analyzeGroups(ctx context.Context, groups []models.MarketLineGroup) ([]models.ArbitrageOpportunity, []models.MispricingFlag, int, error) {
	out := make([]groupResult, len(groups))
	jobs := make(chan int)

	workers := e.opts.Workers
	if workers > len(groups) {
		workers = len(groups)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out[idx] = e.analyzeGroup(groups[idx], int64(idx))
			}
		}()
	}

dispatch:
	for idx := range groups {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}

	var arbs []models.ArbitrageOpportunity
	var flags []models.MispricingFlag
	skipped := 0
	for _, r := range out {
		if r.skipped {
			skipped++
			continue
		}
		arbs = append(arbs, r.arbs...)
		flags = append(flags, r.flags...)
	}
	sortArbs(arbs)
	sortFlags(flags)
	return arbs, flags, skipped, nil
}

// analyzeGroup runs detection and the arbitrage scan for one group. The
// bootstrap source is seeded per group so worker scheduling cannot change
// the bands.
func (e *Engine) analyzeGroup(group models.MarketLineGroup, groupIdx int64) groupResult {
	start := time.Now()
	defer func() {
		metrics.RecordGroupFitDuration(time.Since(start).Seconds())
	}()

	detOpts := detector.Options{
		PGap:                e.opts.PGap,
		EVThreshold:         e.opts.EVThreshold,
		Bootstrap:           e.opts.Bootstrap,
		BootstrapIterations: e.opts.BootstrapIterations,
		BootstrapConfidence: e.opts.BootstrapConfidence,
	}
	if e.opts.Bootstrap {
		detOpts.Rand = rand.New(rand.NewSource(e.opts.Seed + groupIdx))
		metrics.RecordBootstrapRefits(e.opts.BootstrapIterations)
	}

	allFlags, err := detector.Detect(group, detOpts)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"subject": group.Subject,
			"market":  group.MarketKey,
			"error":   err.Error(),
		}).Warn("Skipping group")
		return groupResult{skipped: true}
	}
	metrics.RecordCurveFitted(len(group.DistinctStrikes()) < 2)

	var flagged []models.MispricingFlag
	for _, f := range allFlags {
		if f.Mispriced {
			flagged = append(flagged, f)
		}
	}

	return groupResult{
		arbs:  arbitrage.ScanGroup(group, e.opts.ArbThreshold),
		flags: flagged,
	}
}

func sortArbs(arbs []models.ArbitrageOpportunity) {
	sort.SliceStable(arbs, func(i, j int) bool {
		if arbs[i].Subject != arbs[j].Subject {
			return arbs[i].Subject < arbs[j].Subject
		}
		if arbs[i].MarketKey != arbs[j].MarketKey {
			return arbs[i].MarketKey < arbs[j].MarketKey
		}
		return arbs[i].ProfitMargin > arbs[j].ProfitMargin
	})
}

func sortFlags(flags []models.MispricingFlag) {
	sort.SliceStable(flags, func(i, j int) bool {
		a, b := flags[i], flags[j]
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.MarketKey != b.MarketKey {
			return a.MarketKey < b.MarketKey
		}
		al, bl := 0.0, 0.0
		if a.Line != nil {
			al = *a.Line
		}
		if b.Line != nil {
			bl = *b.Line
		}
		if al != bl {
			return al < bl
		}
		if a.Side != b.Side {
			return a.Side < b.Side
		}
		return a.Bookmaker < b.Bookmaker
	})
}
