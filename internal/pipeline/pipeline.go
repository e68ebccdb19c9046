package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/holdgraph/holdgraph/internal/cache"
	"github.com/holdgraph/holdgraph/internal/extract"
	"github.com/holdgraph/holdgraph/internal/index"
	"github.com/holdgraph/holdgraph/internal/matrix"
	"github.com/holdgraph/holdgraph/internal/model"
	"github.com/holdgraph/holdgraph/internal/orgchart"
	"github.com/holdgraph/holdgraph/internal/solver"
)

// Pipeline orchestrates one ownership resolution: index entities, build the
// direct matrix, solve the closure, extract records. Each invocation
// allocates its own mapping and matrices, so a single Pipeline is safe to
// share across concurrent computations.
type Pipeline struct {
	solver    *solver.Solver
	extractor *extract.Extractor
	renderer  *Renderer
	reports   cache.Cache // nil when caching is disabled
	config    *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var reports cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		if cfg.Cache.Layered {
			reports = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			reports = cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL)
		}
	}

	return &Pipeline{
		solver:    solver.NewSolver(cfg.Precision),
		extractor: extract.NewExtractor(cfg.Precision),
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		reports:   reports,
		config:    cfg,
	}
}

// ComputeFile reads a group file, computes its report, and serves identical
// inputs from the cache when one is configured.
func (p *Pipeline) ComputeFile(ctx context.Context, path string) (*model.Report, error) {
	if t := p.config.Concurrency.ComputeTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read group file: %w", err)
	}

	key := p.cacheKey(data)
	if p.reports != nil {
		if cached, found := p.reports.Get(key); found {
			var report model.Report
			if err := json.Unmarshal(cached, &report); err == nil {
				report.FromCache = true
				return &report, nil
			}
			// A corrupt entry is treated as a miss.
			_ = p.reports.Delete(key)
		}
	}

	input, err := ParseGroup(data)
	if err != nil {
		return nil, err
	}

	report, err := p.Compute(ctx, input)
	if err != nil {
		return nil, err
	}
	report.SourcePath = path
	if report.Group == "" {
		report.Group = GroupName(input, path)
	}

	if p.reports != nil {
		if encoded, err := json.Marshal(report); err == nil {
			_ = p.reports.Set(key, encoded, 0)
		}
	}
	return report, nil
}

// cacheKey digests the group file together with every setting that changes
// the report, so reruns with a different tolerance, filter, rounding, cap,
// or org-chart toggle never serve a stale cached result.
func (p *Pipeline) cacheKey(data []byte) string {
	prec := p.config.Precision
	settings := fmt.Sprintf("\ntolerance=%g filter=%g digits=%d cap=%d orgchart=%t",
		prec.ConvergenceTolerance, prec.FilterEpsilon, prec.RoundDigits, prec.MaxIterations,
		p.config.Output.OrgChart)

	buf := make([]byte, 0, len(data)+len(settings))
	buf = append(buf, data...)
	buf = append(buf, settings...)
	return cache.Key(buf)
}

// Compute runs the full resolution over parsed input. Validation failures
// (duplicate names, unknown references, out-of-range percentages) abort with
// no partial result; hitting the iteration cap does not fail, it is reported
// through Converged on the returned report.
func (p *Pipeline) Compute(ctx context.Context, input *model.GroupInput) (*model.Report, error) {
	// 1. Assign indices
	var mapping *index.Mapping
	if len(input.Entities) > 0 {
		m, err := index.FromEntities(input.Entities)
		if err != nil {
			return nil, fmt.Errorf("index entities: %w", err)
		}
		mapping = m
	} else {
		mapping = index.FromEdges(input.Edges)
	}

	if limit := p.config.Concurrency.MaxEntities; limit > 0 && mapping.Len() > limit {
		return nil, fmt.Errorf("group has %d entities, limit is %d", mapping.Len(), limit)
	}

	// 2. Build the direct ownership matrix
	direct, err := matrix.NewBuilder(mapping).Build(input.Edges)
	if err != nil {
		return nil, fmt.Errorf("build matrix: %w", err)
	}

	// 3. Solve the closure
	result, err := p.solver.Solve(ctx, direct)
	if err != nil {
		return nil, fmt.Errorf("solve closure: %w", err)
	}

	// 4. Extract records
	records := p.extractor.Records(result.Closure, direct, mapping, input.Edges)

	report := &model.Report{
		Group:          input.Group,
		ComputedAt:     time.Now().UTC(),
		EntityCount:    mapping.Len(),
		EdgeCount:      len(input.Edges),
		Records:        records,
		IterationsUsed: result.Iterations,
		Converged:      result.Converged,
		Precision:      p.config.Precision,
	}

	if p.config.Output.OrgChart {
		report.OrgChart = orgchart.Build(mapping, input.Entities, input.Edges)
	}
	return report, nil
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}
