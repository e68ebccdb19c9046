package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/holdgraph/holdgraph/internal/model"
)

// Computer defines the interface for computing one group file
type Computer interface {
	ComputeFile(ctx context.Context, path string) (*model.Report, error)
}

// ComputeJob represents one group-file computation
type ComputeJob struct {
	Path     string
	Computer Computer
}

// Execute executes the compute job
func (j *ComputeJob) Execute(ctx context.Context) Result {
	report, err := j.Computer.ComputeFile(ctx, j.Path)
	return &ComputeResult{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// ComputeResult represents the result of a compute job
type ComputeResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the compute result
func (r *ComputeResult) GetError() error {
	return r.Error
}

// BatchProcessor computes multiple group files concurrently
type BatchProcessor struct {
	computer    Computer
	concurrency int
	throttle    *Throttle
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(computer Computer, concurrency int, jobsPerSecond float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		computer:    computer,
		concurrency: concurrency,
		throttle:    NewThrottle(jobsPerSecond, burst),
	}
}

// ProcessPaths computes multiple group files concurrently. Submission passes
// through the throttle so operators can bound how fast CPU-heavy solves
// start.
//
// Jobs are submitted from a separate goroutine while results are drained
// here, so batches larger than the pool's bounded queues cannot wedge
// submission. Canceling the context stops both sides.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*ComputeResult {
	if len(paths) == 0 {
		return []*ComputeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for _, path := range paths {
			if err := b.throttle.Wait(ctx); err != nil {
				return
			}
			if !pool.Submit(&ComputeJob{
				Path:     path,
				Computer: b.computer,
			}) {
				return
			}
		}
	}()

	results := pool.Wait()

	computeResults := make([]*ComputeResult, len(results))
	for i, result := range results {
		computeResults[i] = result.(*ComputeResult)
	}

	return computeResults
}

// ProcessInput resolves the batch argument and processes the group files it
// names. A directory argument means every .yaml/.yml file in it; anything
// else is read as a list file with one path per line.
func (b *BatchProcessor) ProcessInput(ctx context.Context, input string) ([]*ComputeResult, error) {
	paths, err := CollectPaths(input)
	if err != nil {
		return nil, fmt.Errorf("collect group files: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// CollectPaths expands a batch argument into group-file paths
func CollectPaths(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if info.IsDir() {
		return collectDir(input)
	}
	return readListFile(input)
}

// collectDir returns every YAML file in a directory, sorted
func collectDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// readListFile reads group-file paths from a file (one per line)
func readListFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
