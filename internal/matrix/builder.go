// Package matrix materializes the direct ownership matrix from weighted
// edges. Entry [i][j] is the direct ownership percentage of entity i in
// entity j; the diagonal stays zero because an entity does not directly own
// itself.
package matrix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/holdgraph/holdgraph/internal/index"
	"github.com/holdgraph/holdgraph/internal/model"
)

// Builder turns validated edges into a dense square matrix
type Builder struct {
	mapping *index.Mapping
}

// NewBuilder creates a builder over the given index mapping
func NewBuilder(mapping *index.Mapping) *Builder {
	return &Builder{mapping: mapping}
}

// Build produces the direct ownership matrix. The dimension covers every
// index in the mapping, so entities referenced by no edge still get a zero
// row and column.
//
// Duplicate (owner, owned) pairs follow last-write-wins: the later edge in
// input order overwrites the earlier value, with no summation. Callers that
// care about silent overwrites can detect them with Overwrites beforehand.
func (b *Builder) Build(edges []model.OwnershipEdge) (*mat.Dense, error) {
	// Validate everything before touching the matrix: a failed edge list
	// yields no partial result.
	for _, e := range edges {
		if e.Percentage < 0 || e.Percentage > 1 {
			return nil, &model.OutOfRangeRatioError{Owner: e.Owner, Owned: e.Owned, Percentage: e.Percentage}
		}
		if _, ok := b.mapping.Index(e.Owner); !ok {
			return nil, &model.UnknownEntityError{Name: e.Owner}
		}
		if _, ok := b.mapping.Index(e.Owned); !ok {
			return nil, &model.UnknownEntityError{Name: e.Owned}
		}
	}

	n := b.mapping.Len()
	if n == 0 {
		return nil, nil
	}
	d := mat.NewDense(n, n, nil)

	for _, e := range edges {
		owner, _ := b.mapping.Index(e.Owner)
		owned, _ := b.mapping.Index(e.Owned)
		d.Set(owner, owned, e.Percentage)
	}
	return d, nil
}

// Overwrites returns the (owner, owned) pairs that appear more than once in
// the edge list, in first-occurrence order. Each such pair loses all but its
// last percentage during Build.
func Overwrites(edges []model.OwnershipEdge) []model.OwnershipEdge {
	type pair struct{ owner, owned string }
	counts := make(map[pair]int, len(edges))
	for _, e := range edges {
		counts[pair{e.Owner, e.Owned}]++
	}

	var dups []model.OwnershipEdge
	seen := make(map[pair]bool)
	for _, e := range edges {
		p := pair{e.Owner, e.Owned}
		if counts[p] > 1 && !seen[p] {
			seen[p] = true
			dups = append(dups, e)
		}
	}
	return dups
}
