// Package solver expands a direct ownership matrix into the combined
// direct+indirect closure: the entrywise sum D + D^2 + D^3 + ... over every
// ownership path of length >= 1.
package solver

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/holdgraph/holdgraph/internal/model"
)

// Result is the outcome of a closure computation. Converged is false when
// the iteration cap was reached before the tolerance check passed, in which
// case Closure is a best-effort approximation rather than the exact fixed
// point.
type Result struct {
	Closure    *mat.Dense
	Iterations int
	Converged  bool
}

// Solver iterates the closure expansion until convergence or the cap
type Solver struct {
	precision model.Precision
}

// NewSolver creates a solver with the given precision settings
func NewSolver(precision model.Precision) *Solver {
	return &Solver{precision: precision}
}

// Solve computes the ownership closure of the direct matrix. Each iteration
// accumulates one more hop: with the identity overlaid on the accumulator,
// (I + R) * D equals R + D^(k+1), one further term of the series.
//
// Acyclic graphs converge exactly within n iterations for n entities.
// Ownership cycles converge as a geometric series while cycle-weight
// products stay below 1; the cap guarantees termination on near-unit-weight
// cycles. The context is checked every iteration so callers can impose a
// deadline on pathological inputs.
//
// The direct matrix is not modified.
func (s *Solver) Solve(ctx context.Context, direct *mat.Dense) (*Result, error) {
	if direct == nil {
		return &Result{Closure: nil, Iterations: 0, Converged: true}, nil
	}

	n, _ := direct.Dims()
	closure := mat.DenseCopyOf(direct)
	previous := mat.NewDense(n, n, nil)
	product := mat.NewDense(n, n, nil)

	for iter := 1; iter <= s.precision.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("closure iteration %d: %w", iter, ctx.Err())
		default:
		}

		previous.Copy(closure)

		// Not self-ownership: the diagonal 1s make the multiply below
		// preserve everything accumulated so far while adding one hop.
		overlayIdentity(closure)

		product.Mul(closure, direct)
		closure.Copy(product)

		if mat.EqualApprox(closure, previous, s.precision.ConvergenceTolerance) {
			return &Result{Closure: closure, Iterations: iter, Converged: true}, nil
		}
	}

	return &Result{Closure: closure, Iterations: s.precision.MaxIterations, Converged: false}, nil
}

// overlayIdentity sets the diagonal of m to 1 in place
func overlayIdentity(m *mat.Dense) {
	n, _ := m.Dims()
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
}
