package index

import (
	"errors"
	"testing"

	"github.com/holdgraph/holdgraph/internal/model"
)

func TestFromEntities_PriorityOrdering(t *testing.T) {
	entities := []model.Entity{
		{Name: "SubCo", PriorityClass: model.ClassConsolidated},
		{Name: "MiscCo", PriorityClass: model.ClassOther},
		{Name: "TopCo", PriorityClass: model.ClassUltimateParent},
		{Name: "AssocCo", PriorityClass: model.ClassEquityMethod},
	}

	m, err := FromEntities(entities)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"TopCo", "SubCo", "AssocCo", "MiscCo"}
	for i, name := range want {
		got, ok := m.Name(i)
		if !ok || got != name {
			t.Errorf("index %d: expected %q, got %q", i, name, got)
		}
	}
}

func TestFromEntities_InsertionOrderWithinClass(t *testing.T) {
	entities := []model.Entity{
		{Name: "Zeta", PriorityClass: model.ClassConsolidated},
		{Name: "Alpha", PriorityClass: model.ClassConsolidated},
		{Name: "Mid", PriorityClass: model.ClassConsolidated},
	}

	m, err := FromEntities(entities)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same class: input order wins, not lexicographic order
	want := []string{"Zeta", "Alpha", "Mid"}
	for i, name := range want {
		if got, _ := m.Name(i); got != name {
			t.Errorf("index %d: expected %q, got %q", i, name, got)
		}
	}
}

func TestFromEntities_DenseBijection(t *testing.T) {
	entities := []model.Entity{
		{Name: "A", PriorityClass: model.ClassUltimateParent},
		{Name: "B", PriorityClass: model.ClassOther},
		{Name: "C", PriorityClass: model.ClassConsolidated},
	}

	m, err := FromEntities(entities)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Len() != 3 {
		t.Fatalf("expected 3 entities, got %d", m.Len())
	}

	seen := make(map[int]bool)
	for _, e := range entities {
		i, ok := m.Index(e.Name)
		if !ok {
			t.Fatalf("entity %q has no index", e.Name)
		}
		if i < 0 || i >= m.Len() {
			t.Errorf("entity %q: index %d outside [0, %d)", e.Name, i, m.Len())
		}
		if seen[i] {
			t.Errorf("index %d assigned twice", i)
		}
		seen[i] = true

		name, ok := m.Name(i)
		if !ok || name != e.Name {
			t.Errorf("round trip for %q failed: got %q", e.Name, name)
		}
	}
}

func TestFromEntities_DuplicateName(t *testing.T) {
	entities := []model.Entity{
		{Name: "TopCo", PriorityClass: model.ClassUltimateParent},
		{Name: "TopCo", PriorityClass: model.ClassConsolidated},
	}

	_, err := FromEntities(entities)
	if err == nil {
		t.Fatal("expected error for duplicate entity name")
	}

	var dupErr *model.DuplicateEntityError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateEntityError, got %T", err)
	}
	if dupErr.Name != "TopCo" {
		t.Errorf("expected duplicate name TopCo, got %q", dupErr.Name)
	}
}

func TestFromEdges_Lexicographic(t *testing.T) {
	edges := []model.OwnershipEdge{
		{Owner: "Delta", Owned: "Bravo", Percentage: 0.5},
		{Owner: "Alpha", Owned: "Delta", Percentage: 1.0},
		{Owner: "Alpha", Owned: "Charlie", Percentage: 0.25},
	}

	m := FromEdges(edges)

	want := []string{"Alpha", "Bravo", "Charlie", "Delta"}
	if m.Len() != len(want) {
		t.Fatalf("expected %d entities, got %d", len(want), m.Len())
	}
	for i, name := range want {
		if got, _ := m.Name(i); got != name {
			t.Errorf("index %d: expected %q, got %q", i, name, got)
		}
	}
}

func TestFromEdges_Empty(t *testing.T) {
	m := FromEdges(nil)
	if m.Len() != 0 {
		t.Errorf("expected empty mapping, got %d entries", m.Len())
	}
}

func TestMapping_NameOutOfRange(t *testing.T) {
	m := FromEdges([]model.OwnershipEdge{{Owner: "A", Owned: "B", Percentage: 1}})

	if _, ok := m.Name(-1); ok {
		t.Error("expected no name at index -1")
	}
	if _, ok := m.Name(2); ok {
		t.Error("expected no name at index 2")
	}
}
