package model

import "time"

// Report represents the complete ownership resolution result for one group
type Report struct {
	Group      string    `json:"group"`       // Group name from the input file (or derived from the filename)
	SourcePath string    `json:"source_path"` // Path of the group file that was computed
	ComputedAt time.Time `json:"computed_at"` // When the computation ran

	EntityCount int `json:"entity_count"` // Number of indexed entities
	EdgeCount   int `json:"edge_count"`   // Number of ownership edges in the input

	Records []OwnershipRatioRecord `json:"ownership_ratio_records"` // Filtered, rounded ownership ratios

	IterationsUsed int  `json:"iterations_used"` // Closure iterations performed
	Converged      bool `json:"converged"`       // False when the iteration cap was hit first

	OrgChart []OrgChartNode `json:"org_chart,omitempty"` // Level/order layout of the group chart

	Precision Precision `json:"precision"` // Tolerances and rounding applied to this result

	FromCache bool `json:"-"` // Set when the report was served from cache, never serialized
}

// OwnershipRatioRecord is one owner/owned pair with its resolved ratios.
// DirectRatio is nil when no direct edge exists between the pair; a combined
// ratio below the filter epsilon means the pair is omitted entirely.
type OwnershipRatioRecord struct {
	OwnerName     string   `json:"owner_name"`
	OwnedName     string   `json:"owned_name"`
	DirectRatio   *float64 `json:"direct_ratio,omitempty"`
	CombinedRatio float64  `json:"combined_ratio"`
}

// OrgChartNode places one entity in the group chart. Level 0 holds the
// ultimate parents; Order is the stable position within the level.
type OrgChartNode struct {
	EntityName     string   `json:"entity_name"`
	Level          int      `json:"level"`
	Order          int      `json:"order"`
	ParentName     string   `json:"parent_name,omitempty"`     // Highest-percentage direct owner, empty for roots
	EdgePercentage *float64 `json:"edge_percentage,omitempty"` // Percentage on the edge from ParentName, nil for roots
	OwnerNames     []string `json:"owner_names,omitempty"`     // All direct owners
	OwnedNames     []string `json:"owned_names,omitempty"`     // All directly owned entities
}
