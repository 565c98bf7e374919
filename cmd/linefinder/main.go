// Package main provides the line finder command line interface.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/RohanChat/live-lines-finder/internal/cache"
	"github.com/RohanChat/live-lines-finder/internal/config"
	"github.com/RohanChat/live-lines-finder/internal/engine"
	"github.com/RohanChat/live-lines-finder/internal/feeds"
	"github.com/RohanChat/live-lines-finder/internal/health"
	"github.com/RohanChat/live-lines-finder/internal/logger"
	"github.com/RohanChat/live-lines-finder/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	snapshotFile string
	outputFile   string
	eventID      string

	cfg    *config.Config
	appLog *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")

	analyzeCmd.Flags().StringVarP(&snapshotFile, "snapshot", "s", "", "Path to a JSON snapshot of raw odds records")
	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write results to this file instead of stdout")
	analyzeCmd.Flags().StringVarP(&eventID, "event", "e", "", "Event identifier for caching and logging")
	analyzeCmd.MarkFlagRequired("snapshot")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "linefinder",
	Short: "Find arbitrage and mispriced lines in sportsbook odds",
	Long: `linefinder analyzes a snapshot of sportsbook quotes: it removes
bookmaker vig, merges regular and alternate lines into full strike
ladders, fits a monotone fair value curve per market, and reports
arbitrage opportunities and mispriced quotes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one snapshot of raw odds records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("linefinder %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runAnalyze(ctx context.Context) error {
	metrics.InitRegistry()

	if cfg.Metrics.Enabled {
		srv := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			Logger:      appLog,
		})
		serverCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := srv.Start(serverCtx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		srv.SetReady(true)
	}

	data, err := os.ReadFile(snapshotFile)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	records, err := feeds.ParseSnapshot(data)
	if err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	quotes, resolveErrs := feeds.ResolveAll(records, appLog)
	appLog.WithFields(logrus.Fields{
		"records":  len(records),
		"resolved": len(quotes),
		"dropped":  len(resolveErrs),
	}).Info("Snapshot resolved")

	if eventID == "" {
		eventID = snapshotFile
	}

	resultCache := cache.NewResultCache(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		cfg.Cache.MaxEvents,
	)

	results := resultCache.Get(ctx, eventID)
	if results == nil {
		opts := engine.Options{
			PGap:                  cfg.Analysis.PGap,
			EVThreshold:           cfg.Analysis.EVThreshold,
			ArbThreshold:          cfg.Analysis.ArbThreshold,
			Bootstrap:             cfg.Analysis.Bootstrap,
			BootstrapIterations:   cfg.Analysis.BootstrapIterations,
			BootstrapConfidence:   cfg.Analysis.BootstrapConfidence,
			AssumedSingleSidedVig: cfg.Analysis.AssumedSingleSidedVig,
			Seed:                  cfg.Analysis.Seed,
			Workers:               cfg.Analysis.Workers,
		}

		eng, err := engine.New(opts, appLog)
		if err != nil {
			return fmt.Errorf("failed to build engine: %w", err)
		}

		results, err = eng.ProcessEvent(ctx, engine.Snapshot{EventID: eventID, Quotes: quotes})
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		resultCache.Set(ctx, eventID, results)
	} else {
		appLog.WithField("event_id", eventID).Info("Serving cached results")
	}

	encoded, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	encoded = append(encoded, '\n')

	if outputFile == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	if err := os.WriteFile(outputFile, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	appLog.WithField("output", outputFile).Info("Results written")
	return nil
}
