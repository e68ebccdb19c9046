package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/holdgraph/holdgraph/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "holdgraph",
	Short: "Holdgraph - direct and indirect ownership resolution for corporate groups",
	Long: `Holdgraph resolves direct and indirect ownership ratios across a
corporate group structure.

Given a set of entities and weighted ownership edges, it computes the
combined ownership each entity holds in every other entity across all
ownership paths, including chains, diamonds, and cross-holdings, and
reports whether the computation converged exactly or was capped.

Input is a YAML group file; output is a JSON report with an optional
Markdown rendering.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Holdgraph.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("holdgraph v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.holdgraph/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.holdgraph")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match HOLDGRAPH_*
	viper.SetEnvPrefix("HOLDGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setConfigDefaults()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setConfigDefaults registers every configuration key with viper. Registered
// keys are what make config-file values and HOLDGRAPH_* environment
// variables visible to loadConfig.
func setConfigDefaults() {
	def := model.DefaultConfig()

	viper.SetDefault("precision.convergence_tolerance", def.Precision.ConvergenceTolerance)
	viper.SetDefault("precision.filter_epsilon", def.Precision.FilterEpsilon)
	viper.SetDefault("precision.round_digits", def.Precision.RoundDigits)
	viper.SetDefault("precision.max_iterations", def.Precision.MaxIterations)

	viper.SetDefault("cache.enabled", def.Cache.Enabled)
	viper.SetDefault("cache.dir", def.Cache.Dir)
	viper.SetDefault("cache.ttl", def.Cache.TTL)
	viper.SetDefault("cache.layered", def.Cache.Layered)

	viper.SetDefault("concurrency.workers", def.Concurrency.Workers)
	viper.SetDefault("concurrency.jobs_per_second", def.Concurrency.JobsPerSecond)
	viper.SetDefault("concurrency.submission_burst", def.Concurrency.SubmissionBurst)
	viper.SetDefault("concurrency.max_entities", def.Concurrency.MaxEntities)
	viper.SetDefault("concurrency.compute_timeout", def.Concurrency.ComputeTimeout)

	viper.SetDefault("output.include_footer", def.Output.IncludeFooter)
	viper.SetDefault("output.org_chart", def.Output.OrgChart)
}

// loadConfig builds the effective configuration from defaults, the config
// file, and HOLDGRAPH_* environment variables, in ascending priority.
// Explicitly set flags are layered on top by the commands.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	cfg.Precision.ConvergenceTolerance = viper.GetFloat64("precision.convergence_tolerance")
	cfg.Precision.FilterEpsilon = viper.GetFloat64("precision.filter_epsilon")
	cfg.Precision.RoundDigits = viper.GetInt("precision.round_digits")
	cfg.Precision.MaxIterations = viper.GetInt("precision.max_iterations")

	cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	cfg.Cache.Dir = viper.GetString("cache.dir")
	cfg.Cache.TTL = viper.GetDuration("cache.ttl")
	cfg.Cache.Layered = viper.GetBool("cache.layered")

	cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	cfg.Concurrency.JobsPerSecond = viper.GetFloat64("concurrency.jobs_per_second")
	cfg.Concurrency.SubmissionBurst = viper.GetInt("concurrency.submission_burst")
	cfg.Concurrency.MaxEntities = viper.GetInt("concurrency.max_entities")
	cfg.Concurrency.ComputeTimeout = viper.GetDuration("concurrency.compute_timeout")

	cfg.Output.IncludeFooter = viper.GetBool("output.include_footer")
	cfg.Output.OrgChart = viper.GetBool("output.org_chart")

	return cfg
}

// defaultCacheDir resolves the on-disk cache location
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.holdgraph/cache"
}
