package solver

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/holdgraph/holdgraph/internal/model"
)

func newSolver() *Solver {
	return NewSolver(model.DefaultPrecision())
}

func TestSolver_Solve_SingleEdge(t *testing.T) {
	// A owns 100% of B, nothing else
	d := mat.NewDense(2, 2, nil)
	d.Set(0, 1, 1.0)

	result, err := newSolver().Solve(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Converged {
		t.Error("expected convergence")
	}
	if result.Iterations < 1 || result.Iterations > 2 {
		t.Errorf("expected 1-2 iterations, got %d", result.Iterations)
	}
	if got := result.Closure.At(0, 1); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected combined ratio 1.0, got %v", got)
	}
}

func TestSolver_Solve_Chain(t *testing.T) {
	// A -> B 50%, B -> C 50%
	d := mat.NewDense(3, 3, nil)
	d.Set(0, 1, 0.5)
	d.Set(1, 2, 0.5)

	result, err := newSolver().Solve(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Converged {
		t.Error("expected convergence")
	}

	checks := []struct {
		i, j int
		want float64
	}{
		{0, 1, 0.5},
		{1, 2, 0.5},
		{0, 2, 0.25}, // one indirect hop: 0.5 * 0.5
	}
	for _, c := range checks {
		if got := result.Closure.At(c.i, c.j); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("closure[%d][%d]: expected %v, got %v", c.i, c.j, c.want, got)
		}
	}
}

func TestSolver_Solve_Diamond(t *testing.T) {
	// A -> B 50%, A -> C 50%, B -> D 100%, C -> D 100%
	d := mat.NewDense(4, 4, nil)
	d.Set(0, 1, 0.5)
	d.Set(0, 2, 0.5)
	d.Set(1, 3, 1.0)
	d.Set(2, 3, 1.0)

	result, err := newSolver().Solve(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Converged {
		t.Error("expected convergence")
	}

	// Both paths sum: 0.5*1.0 + 0.5*1.0
	if got := result.Closure.At(0, 3); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected combined ratio 1.0 through both paths, got %v", got)
	}
}

func TestSolver_Solve_Cycle(t *testing.T) {
	// A -> B 10%, B -> A 10%: geometric series with cycle product 0.01
	d := mat.NewDense(2, 2, nil)
	d.Set(0, 1, 0.1)
	d.Set(1, 0, 0.1)

	result, err := newSolver().Solve(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Converged {
		t.Error("expected convergence well before the cap")
	}
	if result.Iterations >= 100 {
		t.Errorf("expected fast convergence, took %d iterations", result.Iterations)
	}

	// 0.1 / (1 - 0.01)
	wantAB := 0.1 / 0.99
	if got := result.Closure.At(0, 1); math.Abs(got-wantAB) > 1e-6 {
		t.Errorf("expected A->B %v, got %v", wantAB, got)
	}
	// The cycle also accrues indirect self-ownership: 0.01 / (1 - 0.01)
	wantAA := 0.01 / 0.99
	if got := result.Closure.At(0, 0); math.Abs(got-wantAA) > 1e-6 {
		t.Errorf("expected A->A %v, got %v", wantAA, got)
	}
}

func TestSolver_Solve_UnitCycleHitsCap(t *testing.T) {
	// A -> B 100%, B -> A 100%: cycle product 1, the series never converges
	d := mat.NewDense(2, 2, nil)
	d.Set(0, 1, 1.0)
	d.Set(1, 0, 1.0)

	precision := model.DefaultPrecision()
	precision.MaxIterations = 50
	result, err := NewSolver(precision).Solve(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Converged {
		t.Error("expected non-convergence on a unit-weight cycle")
	}
	if result.Iterations != 50 {
		t.Errorf("expected the cap to be reported, got %d iterations", result.Iterations)
	}
	if result.Closure == nil {
		t.Error("expected a best-effort closure even without convergence")
	}
}

func TestSolver_Solve_StableAtConvergence(t *testing.T) {
	d := mat.NewDense(3, 3, nil)
	d.Set(0, 1, 0.5)
	d.Set(1, 2, 0.5)

	precision := model.DefaultPrecision()
	result, err := NewSolver(precision).Solve(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Converged {
		t.Fatal("expected convergence")
	}

	// One more expansion step must stay within the convergence tolerance
	n, _ := d.Dims()
	next := mat.NewDense(n, n, nil)
	overlaid := mat.DenseCopyOf(result.Closure)
	overlayIdentity(overlaid)
	next.Mul(overlaid, d)

	if !mat.EqualApprox(next, result.Closure, precision.ConvergenceTolerance) {
		t.Error("expected a converged closure to be stable under one more hop")
	}
}

func TestSolver_Solve_NilMatrix(t *testing.T) {
	result, err := newSolver().Solve(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Converged || result.Iterations != 0 {
		t.Errorf("expected trivial convergence, got %+v", result)
	}
}

func TestSolver_Solve_CanceledContext(t *testing.T) {
	d := mat.NewDense(2, 2, nil)
	d.Set(0, 1, 0.5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSolver().Solve(ctx, d)
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestSolver_Solve_DirectMatrixUntouched(t *testing.T) {
	d := mat.NewDense(2, 2, nil)
	d.Set(0, 1, 0.5)
	original := mat.DenseCopyOf(d)

	if _, err := newSolver().Solve(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !mat.Equal(d, original) {
		t.Error("solver modified the direct matrix")
	}
}
