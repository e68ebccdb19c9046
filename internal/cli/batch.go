package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/holdgraph/holdgraph/internal/pipeline"
	"github.com/holdgraph/holdgraph/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	jobRate      float64
	// noCache and the precision flags are defined in compute.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir-or-list-file>",
	Short: "Resolve multiple group files in parallel",
	Long: `Batch processes multiple group files concurrently:
- Accept a directory of .yaml group files, or a list file with one path per line
- Compute groups in parallel with configurable worker count
- Optionally throttle how fast CPU-heavy solves are started
- Generate individual JSON and Markdown reports for each group

Example:
  holdgraph batch ./groups
  holdgraph batch groups.txt --concurrency 8 --output-dir ./reports
  holdgraph batch ./groups --rate 2 --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./holdgraph-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&jobRate, "rate", 0, "max computations started per second (0 = unthrottled)")

	// Inherit flags from compute command
	batchCmd.Flags().DurationVar(&timeout, "compute-timeout", 2*time.Minute, "timeout for individual computations")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh computation)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().BoolVar(&noOrgChart, "no-org-chart", false, "omit the group chart layout from the reports")
	batchCmd.Flags().IntVar(&maxEntities, "max-entities", 10_000, "refuse groups larger than this (0 = unlimited)")

	// Precision flags
	batchCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-7, "element-wise convergence tolerance")
	batchCmd.Flags().Float64Var(&filterEps, "filter-epsilon", 1e-6, "drop combined ratios at or below this")
	batchCmd.Flags().IntVar(&roundDigits, "round-digits", 6, "decimal places for output ratios")
	batchCmd.Flags().IntVar(&maxIterations, "max-iterations", 1000, "hard iteration cap")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	// Build configuration: config file and environment first, explicitly
	// set flags on top.
	cfg := computeConfig(cmd)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if cmd.Flags().Changed("rate") {
		cfg.Concurrency.JobsPerSecond = jobRate
	}
	if cmd.Flags().Changed("compute-timeout") {
		cfg.Concurrency.ComputeTimeout = timeout
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Holdgraph Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.Concurrency.JobsPerSecond > 0 {
		fmt.Fprintf(os.Stderr, "  Rate:         %.1f jobs/s\n", cfg.Concurrency.JobsPerSecond)
	}
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create pipeline and batch processor
	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.Concurrency.JobsPerSecond, cfg.Concurrency.SubmissionBurst)

	fmt.Fprintf(os.Stderr, "⚙️  Collecting group files...\n")
	results, err := processor.ProcessInput(ctx, input)
	if err != nil {
		return fmt.Errorf("process input: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d group files with %d workers\n", len(results), cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	// Render results
	successCount := 0
	failureCount := 0
	uncapped := 0

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		successCount++
		if !result.Report.Converged {
			uncapped++
		}

		slug := sanitizeFilename(result.Report.Group)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		marker := "✓"
		note := ""
		if !result.Report.Converged {
			marker = "⚠"
			note = " (did not converge)"
		}
		fmt.Fprintf(os.Stderr, "%s %s: %d relations in %d iterations%s\n",
			marker, result.Report.Group, len(result.Report.Records), result.Report.IterationsUsed, note)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:       %d groups\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:     %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:    %d\n", failureCount)
	if uncapped > 0 {
		fmt.Fprintf(os.Stderr, "  Unconverged: %d\n", uncapped)
	}
	fmt.Fprintf(os.Stderr, "  Output:      %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename sanitizes a group name for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "group"
	}
	return s
}
