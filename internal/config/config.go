// Package config provides configuration management for the line finder.
package config

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// AnalysisConfig holds the detection thresholds and curve-fitting knobs.
type AnalysisConfig struct {
	PGap                  float64 `mapstructure:"p_gap" validate:"required,gt=0,lt=1"`
	EVThreshold           float64 `mapstructure:"ev_threshold" validate:"required,gt=0,lt=1"`
	ArbThreshold          float64 `mapstructure:"arb_threshold" validate:"gte=0,lt=1"`
	AssumedSingleSidedVig float64 `mapstructure:"assumed_single_sided_vig" validate:"gte=0,lt=1"`
	Bootstrap             bool    `mapstructure:"bootstrap"`
	BootstrapIterations   int     `mapstructure:"bootstrap_iterations" validate:"required,gt=0"`
	BootstrapConfidence   float64 `mapstructure:"bootstrap_confidence" validate:"required,gt=0,lt=1"`
	Seed                  int64   `mapstructure:"seed"`
	Workers               int     `mapstructure:"workers" validate:"required,gt=0"`
}

// CacheConfig controls the per-event result cache.
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxEvents  int `mapstructure:"max_events" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
