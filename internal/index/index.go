// Package index assigns dense integer indices to entities. Indices are an
// internal addressing scheme for the ownership matrix; callers only ever see
// entity names.
package index

import (
	"sort"

	"github.com/holdgraph/holdgraph/internal/model"
)

// Mapping is a bijection between entity names and dense indices in [0, n).
type Mapping struct {
	nameToIndex map[string]int
	indexToName []string
}

// FromEntities builds a mapping from an explicit entity list. All ultimate
// parents are indexed first, then consolidated entities, then equity-method
// entities, then everything else; within a class, input order is preserved.
// Duplicate names fail with a DuplicateEntityError.
func FromEntities(entities []model.Entity) (*Mapping, error) {
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		if seen[e.Name] {
			return nil, &model.DuplicateEntityError{Name: e.Name}
		}
		seen[e.Name] = true
	}

	// Stable sort by class rank keeps insertion order within each class.
	ordered := make([]model.Entity, len(entities))
	copy(ordered, entities)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PriorityClass.Rank() < ordered[j].PriorityClass.Rank()
	})

	m := &Mapping{
		nameToIndex: make(map[string]int, len(ordered)),
		indexToName: make([]string, len(ordered)),
	}
	for i, e := range ordered {
		m.nameToIndex[e.Name] = i
		m.indexToName[i] = e.Name
	}
	return m, nil
}

// FromEdges builds a mapping for callers that supply only ownership edges.
// Indices are assigned lexicographically over the union of all names the
// edges reference. This variant has no priority semantics.
func FromEdges(edges []model.OwnershipEdge) *Mapping {
	seen := make(map[string]bool, len(edges)*2)
	var names []string
	for _, e := range edges {
		if !seen[e.Owner] {
			seen[e.Owner] = true
			names = append(names, e.Owner)
		}
		if !seen[e.Owned] {
			seen[e.Owned] = true
			names = append(names, e.Owned)
		}
	}
	sort.Strings(names)

	m := &Mapping{
		nameToIndex: make(map[string]int, len(names)),
		indexToName: names,
	}
	for i, name := range names {
		m.nameToIndex[name] = i
	}
	return m
}

// Len returns the number of indexed entities.
func (m *Mapping) Len() int {
	return len(m.indexToName)
}

// Index returns the index for a name.
func (m *Mapping) Index(name string) (int, bool) {
	i, ok := m.nameToIndex[name]
	return i, ok
}

// Name returns the name at an index.
func (m *Mapping) Name(i int) (string, bool) {
	if i < 0 || i >= len(m.indexToName) {
		return "", false
	}
	return m.indexToName[i], true
}

// Names returns all names in index order. The returned slice is shared;
// callers must not modify it.
func (m *Mapping) Names() []string {
	return m.indexToName
}
