package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Precision   Precision         `json:"precision" yaml:"precision"`
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	Concurrency ConcurrencyConfig `json:"concurrency" yaml:"concurrency"`
	Output      OutputConfig      `json:"output" yaml:"output"`
}

// Precision holds the numeric tuning knobs for the closure computation.
// Every tolerance the solver and extractor use lives here rather than in
// package constants, so callers can tighten or loosen precision per run.
type Precision struct {
	ConvergenceTolerance float64 `json:"convergence_tolerance" yaml:"convergence_tolerance"` // Element-wise closeness that stops iteration
	FilterEpsilon        float64 `json:"filter_epsilon" yaml:"filter_epsilon"`               // Combined ratios at or below this are dropped from output
	RoundDigits          int     `json:"round_digits" yaml:"round_digits"`                   // Decimal places for output ratios, rounded half-up
	MaxIterations        int     `json:"max_iterations" yaml:"max_iterations"`               // Hard cap guaranteeing termination on cyclic graphs
}

// CacheConfig controls report caching
type CacheConfig struct {
	Enabled bool          `json:"enabled" yaml:"enabled"`
	Dir     string        `json:"dir" yaml:"dir"`         // Disk cache directory
	TTL     time.Duration `json:"ttl" yaml:"ttl"`         // How long cached reports stay valid
	Layered bool          `json:"layered" yaml:"layered"` // Memory in front of disk
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers         int           `json:"workers" yaml:"workers"`
	JobsPerSecond   float64       `json:"jobs_per_second" yaml:"jobs_per_second"` // 0 means unthrottled
	SubmissionBurst int           `json:"submission_burst" yaml:"submission_burst"`
	MaxEntities     int           `json:"max_entities" yaml:"max_entities"` // Upper bound on graph size, 0 means unlimited
	ComputeTimeout  time.Duration `json:"compute_timeout" yaml:"compute_timeout"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer"`
	OrgChart      bool `json:"org_chart" yaml:"org_chart"` // Include the org chart layout in reports
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		Precision: DefaultPrecision(),
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // Resolved to ~/.holdgraph/cache at startup
			TTL:     24 * time.Hour,
			Layered: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers:         4,
			JobsPerSecond:   0,
			SubmissionBurst: 1,
			MaxEntities:     10_000,
			ComputeTimeout:  2 * time.Minute,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
			OrgChart:      true,
		},
	}
}

// DefaultPrecision returns the standard numeric tuning
func DefaultPrecision() Precision {
	return Precision{
		ConvergenceTolerance: 1e-7,
		FilterEpsilon:        1e-6,
		RoundDigits:          6,
		MaxIterations:        1000,
	}
}
