package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/holdgraph/holdgraph/internal/matrix"
	"github.com/holdgraph/holdgraph/internal/model"
	"github.com/holdgraph/holdgraph/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	timeout       time.Duration
	noCache       bool
	noFooter      bool
	noOrgChart    bool
	tolerance     float64
	filterEps     float64
	roundDigits   int
	maxIterations int
	maxEntities   int
)

// computeCmd represents the compute command
var computeCmd = &cobra.Command{
	Use:   "compute <group-file>",
	Short: "Resolve ownership ratios for a single group file",
	Long: `Compute resolves direct and indirect ownership for one group
structure:
- Assign each entity a deterministic index by priority class
- Build the dense direct ownership matrix from the weighted edges
- Iterate the closure until convergence or the iteration cap
- Emit filtered, rounded ownership ratio records

Example:
  holdgraph compute group.yaml
  holdgraph compute group.yaml --json report.json --md report.md
  holdgraph compute group.yaml --tolerance 1e-9 --max-iterations 5000`,
	Args: cobra.ExactArgs(1),
	RunE: runCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)

	// Output flags
	computeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	computeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	computeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	computeCmd.Flags().BoolVar(&noOrgChart, "no-org-chart", false, "omit the group chart layout from the report")

	// Computation flags
	computeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall computation timeout (slow-converging cycles hit this before the cap)")
	computeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh computation)")
	computeCmd.Flags().IntVar(&maxEntities, "max-entities", 10_000, "refuse groups larger than this (0 = unlimited)")

	// Precision flags
	computeCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-7, "element-wise convergence tolerance")
	computeCmd.Flags().Float64Var(&filterEps, "filter-epsilon", 1e-6, "drop combined ratios at or below this")
	computeCmd.Flags().IntVar(&roundDigits, "round-digits", 6, "decimal places for output ratios")
	computeCmd.Flags().IntVar(&maxIterations, "max-iterations", 1000, "hard iteration cap")
}

func runCompute(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := computeConfig(cmd)
	if cmd.Flags().Changed("timeout") {
		cfg.Concurrency.ComputeTimeout = timeout
	}

	ctx := context.Background()
	cancel := context.CancelFunc(func() {})
	if t := cfg.Concurrency.ComputeTimeout; t > 0 {
		ctx, cancel = context.WithTimeout(ctx, t)
	}
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Computing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", cfg.Concurrency.ComputeTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	// Duplicate (owner, owned) pairs silently lose all but their last
	// percentage; surface that before computing.
	if verbose {
		warnOverwrites(path)
	}

	p := pipeline.NewPipeline(cfg)

	report, err := p.ComputeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("compute failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Indexed %d entities\n", report.EntityCount)
		fmt.Fprintf(os.Stderr, "✓ Resolved %d ownership relations in %d iterations\n", len(report.Records), report.IterationsUsed)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// computeConfig layers the effective configuration: defaults, then the
// config file and HOLDGRAPH_* environment (via viper), then any shared
// flags the user set explicitly. Command-specific flags like timeouts are
// applied by the commands themselves.
func computeConfig(cmd *cobra.Command) *model.Config {
	cfg := loadConfig()

	flags := cmd.Flags()
	if flags.Changed("tolerance") {
		cfg.Precision.ConvergenceTolerance = tolerance
	}
	if flags.Changed("filter-epsilon") {
		cfg.Precision.FilterEpsilon = filterEps
	}
	if flags.Changed("round-digits") {
		cfg.Precision.RoundDigits = roundDigits
	}
	if flags.Changed("max-iterations") {
		cfg.Precision.MaxIterations = maxIterations
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("max-entities") {
		cfg.Concurrency.MaxEntities = maxEntities
	}
	if flags.Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if flags.Changed("no-org-chart") {
		cfg.Output.OrgChart = !noOrgChart
	}

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = defaultCacheDir()
	}
	cfg.Output.Verbose = verbose
	return cfg
}

// warnOverwrites reports duplicate edge pairs in the group file
func warnOverwrites(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	input, err := pipeline.ParseGroup(data)
	if err != nil {
		return
	}
	for _, dup := range matrix.Overwrites(input.Edges) {
		fmt.Fprintf(os.Stderr, "⚠ Duplicate edge %s -> %s: only the last percentage in the file is used\n", dup.Owner, dup.Owned)
	}
}
