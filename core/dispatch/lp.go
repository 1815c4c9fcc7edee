package dispatch

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	lpTol      = 1e-7
	intTol     = 1e-6
	improveTol = 1e-9
)

// solveBounded solves min cᵀx subject to Gx <= h, x >= 0 by adding one slack
// variable per row and running gonum's simplex on the standard form. The
// returned solution is restricted to the original variables.
func solveBounded(c []float64, g *mat.Dense, h []float64) ([]float64, float64, error) {
	m, n := g.Dims()
	a := mat.NewDense(m, n+m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, g.At(i, j))
		}
		a.Set(i, n+i, 1)
	}
	cFull := make([]float64, n+m)
	copy(cFull, c)

	opt, sol, err := lp.Simplex(cFull, a, h, lpTol, nil)
	if err != nil {
		return nil, 0, err
	}
	return sol[:n], opt, nil
}

// solveEquality solves min cᵀx subject to Ax = b, x >= 0.
func solveEquality(c []float64, a *mat.Dense, b []float64) ([]float64, float64, error) {
	opt, sol, err := lp.Simplex(c, a, b, lpTol, nil)
	if err != nil {
		return nil, 0, err
	}
	return sol, opt, nil
}

// The solver entry points are package variables so tests can simulate solver
// failures.
var (
	boundedSolve  = solveBounded
	equalitySolve = solveEquality
)
