// Package extract turns the closure matrix into the ownership ratio records
// callers consume. It filters negligible entries, rounds values, and keys
// everything by entity name; matrix indices never leave this package.
package extract

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/holdgraph/holdgraph/internal/index"
	"github.com/holdgraph/holdgraph/internal/model"
)

// Extractor filters and rounds closure entries into ratio records
type Extractor struct {
	precision model.Precision
}

// NewExtractor creates an extractor with the given precision settings
func NewExtractor(precision model.Precision) *Extractor {
	return &Extractor{precision: precision}
}

// Records produces one record per ordered (owner, owned) pair whose combined
// ratio exceeds the filter epsilon. Only indices referenced by at least one
// edge are considered, so entities that own nothing and are owned by nothing
// never appear in the output. Records come out in stable
// (owner_index, owned_index) order.
//
// DirectRatio is set only when a direct edge exists between the pair;
// absence means "no direct edge", which is distinct from a combined ratio of
// zero (such pairs are omitted entirely).
func (e *Extractor) Records(closure, direct *mat.Dense, mapping *index.Mapping, edges []model.OwnershipEdge) []model.OwnershipRatioRecord {
	if closure == nil {
		return nil
	}

	referenced := referencedIndices(mapping, edges)

	var records []model.OwnershipRatioRecord
	for _, i := range referenced {
		ownerName, _ := mapping.Name(i)
		for _, j := range referenced {
			combined := closure.At(i, j)
			if combined <= e.precision.FilterEpsilon {
				continue
			}
			ownedName, _ := mapping.Name(j)

			rec := model.OwnershipRatioRecord{
				OwnerName:     ownerName,
				OwnedName:     ownedName,
				CombinedRatio: roundHalfUp(combined, e.precision.RoundDigits),
			}
			if direct != nil {
				if d := direct.At(i, j); d != 0 {
					rounded := roundHalfUp(d, e.precision.RoundDigits)
					rec.DirectRatio = &rounded
				}
			}
			records = append(records, rec)
		}
	}
	return records
}

// referencedIndices returns the sorted indices that appear in at least one
// edge. Edge names absent from the mapping are skipped; the builder has
// already rejected them by the time extraction runs.
func referencedIndices(mapping *index.Mapping, edges []model.OwnershipEdge) []int {
	seen := make(map[int]bool, len(edges)*2)
	for _, e := range edges {
		if i, ok := mapping.Index(e.Owner); ok {
			seen[i] = true
		}
		if j, ok := mapping.Index(e.Owned); ok {
			seen[j] = true
		}
	}

	indices := make([]int, 0, len(seen))
	for i := 0; i < mapping.Len(); i++ {
		if seen[i] {
			indices = append(indices, i)
		}
	}
	return indices
}

// roundHalfUp rounds v to the given number of decimal places with half-up
// semantics. Ratios are non-negative, so rounding half away from zero is
// the same thing.
func roundHalfUp(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}
