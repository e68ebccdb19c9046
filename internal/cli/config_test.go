package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("HOLDGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setConfigDefaults()
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)

	cfg := loadConfig()

	if cfg.Precision.ConvergenceTolerance != 1e-7 {
		t.Errorf("tolerance: expected 1e-7, got %g", cfg.Precision.ConvergenceTolerance)
	}
	if cfg.Precision.MaxIterations != 1000 {
		t.Errorf("max iterations: expected 1000, got %d", cfg.Precision.MaxIterations)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("cache TTL: expected 24h, got %v", cfg.Cache.TTL)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	resetViper(t)

	file := `precision:
  convergence_tolerance: 1e-9
  max_iterations: 200
cache:
  enabled: false
concurrency:
  workers: 8
`
	if err := viper.ReadConfig(strings.NewReader(file)); err != nil {
		t.Fatalf("read config: %v", err)
	}

	cfg := loadConfig()

	if cfg.Precision.ConvergenceTolerance != 1e-9 {
		t.Errorf("tolerance: expected 1e-9, got %g", cfg.Precision.ConvergenceTolerance)
	}
	if cfg.Precision.MaxIterations != 200 {
		t.Errorf("max iterations: expected 200, got %d", cfg.Precision.MaxIterations)
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled by the config file")
	}
	if cfg.Concurrency.Workers != 8 {
		t.Errorf("workers: expected 8, got %d", cfg.Concurrency.Workers)
	}
	// Keys the file does not mention keep their defaults
	if cfg.Precision.FilterEpsilon != 1e-6 {
		t.Errorf("filter epsilon: expected default 1e-6, got %g", cfg.Precision.FilterEpsilon)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	resetViper(t)

	file := `precision:
  max_iterations: 200
`
	if err := viper.ReadConfig(strings.NewReader(file)); err != nil {
		t.Fatalf("read config: %v", err)
	}
	t.Setenv("HOLDGRAPH_PRECISION_MAX_ITERATIONS", "50")

	cfg := loadConfig()

	if cfg.Precision.MaxIterations != 50 {
		t.Errorf("max iterations: expected env value 50, got %d", cfg.Precision.MaxIterations)
	}
}

func TestComputeConfig_FlagOverridesFile(t *testing.T) {
	resetViper(t)

	file := `precision:
  convergence_tolerance: 1e-9
  filter_epsilon: 1e-4
`
	if err := viper.ReadConfig(strings.NewReader(file)); err != nil {
		t.Fatalf("read config: %v", err)
	}

	// Simulate --tolerance on the command line
	if err := computeCmd.Flags().Set("tolerance", "0.001"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg := computeConfig(computeCmd)

	if cfg.Precision.ConvergenceTolerance != 0.001 {
		t.Errorf("tolerance: expected flag value 0.001, got %g", cfg.Precision.ConvergenceTolerance)
	}
	// Flags the user did not set leave the file value in place
	if cfg.Precision.FilterEpsilon != 1e-4 {
		t.Errorf("filter epsilon: expected file value 1e-4, got %g", cfg.Precision.FilterEpsilon)
	}
}
