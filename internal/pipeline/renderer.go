package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/holdgraph/holdgraph/internal/model"
)

// Renderer writes reports as JSON and Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Ownership Report: %s\n\n", report.Group)
	fmt.Fprintf(&b, "- Computed: %s\n", report.ComputedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Entities: %d\n", report.EntityCount)
	fmt.Fprintf(&b, "- Edges: %d\n", report.EdgeCount)
	fmt.Fprintf(&b, "- Iterations: %d\n", report.IterationsUsed)
	if report.Converged {
		fmt.Fprintf(&b, "- Converged: yes\n")
	} else {
		fmt.Fprintf(&b, "- Converged: **no** (iteration cap reached; ratios are approximate)\n")
	}
	b.WriteString("\n")

	b.WriteString("## Ownership Ratios\n\n")
	if len(report.Records) == 0 {
		b.WriteString("No ownership relations above the filter threshold.\n\n")
	} else {
		b.WriteString("| Owner | Owned | Direct | Combined |\n")
		b.WriteString("|-------|-------|--------|----------|\n")
		for _, rec := range report.Records {
			direct := "—"
			if rec.DirectRatio != nil {
				direct = formatRatio(*rec.DirectRatio)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				rec.OwnerName, rec.OwnedName, direct, formatRatio(rec.CombinedRatio))
		}
		b.WriteString("\n")
	}

	if len(report.OrgChart) > 0 {
		b.WriteString("## Group Chart\n\n")
		for _, node := range report.OrgChart {
			indent := strings.Repeat("  ", node.Level)
			if node.ParentName != "" && node.EdgePercentage != nil {
				fmt.Fprintf(&b, "%s- %s (%s via %s)\n",
					indent, node.EntityName, formatRatio(*node.EdgePercentage), node.ParentName)
			} else {
				fmt.Fprintf(&b, "%s- %s\n", indent, node.EntityName)
			}
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n")
		fmt.Fprintf(&b, "Generated by holdgraph (tolerance %g, filter %g, %d decimals)\n",
			report.Precision.ConvergenceTolerance, report.Precision.FilterEpsilon, report.Precision.RoundDigits)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a one-screen summary to stderr
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Group:       %s\n", report.Group)
	fmt.Fprintf(os.Stderr, "  Entities:    %d\n", report.EntityCount)
	fmt.Fprintf(os.Stderr, "  Edges:       %d\n", report.EdgeCount)
	fmt.Fprintf(os.Stderr, "  Relations:   %d\n", len(report.Records))
	fmt.Fprintf(os.Stderr, "  Iterations:  %d\n", report.IterationsUsed)
	if !report.Converged {
		fmt.Fprintf(os.Stderr, "  ⚠ Did not converge within the iteration cap; ratios are approximate\n")
	}
	if report.FromCache {
		fmt.Fprintf(os.Stderr, "  (served from cache)\n")
	}
	fmt.Fprintf(os.Stderr, "\n")
}

// formatRatio renders a ratio as a percentage with trailing zeros trimmed
func formatRatio(v float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.4f", v*100), "0")
	s = strings.TrimRight(s, ".")
	if s == "" {
		s = "0"
	}
	return s + "%"
}
