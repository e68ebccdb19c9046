package model

// Entity represents a single corporate entity in the group structure
type Entity struct {
	Name          string        `json:"name" yaml:"name"`                     // Unique entity name, primary key
	PriorityClass PriorityClass `json:"priority_class" yaml:"priority_class"` // Accounting classification used for index ordering
}

// PriorityClass categorizes how an entity enters the consolidated group
type PriorityClass string

const (
	ClassUltimateParent PriorityClass = "ultimate_parent" // Ultimate parent entity, indexed first
	ClassConsolidated   PriorityClass = "consolidated"    // Fully consolidated subsidiary
	ClassEquityMethod   PriorityClass = "equity_method"   // Accounted for under the equity method
	ClassOther          PriorityClass = "other"           // Everything else, indexed last
)

// Rank returns the ordering rank of the priority class. Lower ranks are
// assigned lower indices. Unknown classes sort with ClassOther.
func (c PriorityClass) Rank() int {
	switch c {
	case ClassUltimateParent:
		return 0
	case ClassConsolidated:
		return 1
	case ClassEquityMethod:
		return 2
	default:
		return 3
	}
}

// Valid reports whether the class is one of the known values.
func (c PriorityClass) Valid() bool {
	switch c {
	case ClassUltimateParent, ClassConsolidated, ClassEquityMethod, ClassOther:
		return true
	}
	return false
}

// OwnershipEdge represents a direct ownership relation between two entities
type OwnershipEdge struct {
	Owner      string  `json:"owner" yaml:"owner"`           // Name of the owning entity
	Owned      string  `json:"owned" yaml:"owned"`           // Name of the owned entity
	Percentage float64 `json:"percentage" yaml:"percentage"` // Ownership percentage in [0, 1]
}

// GroupInput is the parsed group-structure file: the entity list is optional,
// edges are required. When no entities are given, indices are assigned
// lexicographically over the names referenced by the edges.
type GroupInput struct {
	Group    string          `json:"group,omitempty" yaml:"group,omitempty"`
	Entities []Entity        `json:"entities,omitempty" yaml:"entities,omitempty"`
	Edges    []OwnershipEdge `json:"edges" yaml:"edges"`
}
