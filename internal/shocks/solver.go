package shocks

import (
	"errors"
	"math"

	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"gonum.org/v1/gonum/mat"
)

// #region solve
// Solve returns the shock magnitudes for horizons 0..len(path)-1 such that
// target follows path exactly when the shocks are propagated from a zero state.
func Solve(m *statespace.Model, path []float64, target, prefix string) ([]float64, error) {
	sys, err := BuildSystem(m, path, target, prefix)
	if err != nil {
		return nil, err
	}
	return SolveSystem(sys)
}

// SolveSystem solves an assembled system and keeps only the shock block.
func SolveSystem(sys *System) ([]float64, error) {
	var x []float64
	var err error
	if sys.Triangular() {
		x, err = solveUpper(sys)
	} else {
		x, err = solveDense(sys)
	}
	if err != nil {
		return nil, err
	}
	shocks := x[:sys.Horizon]
	for _, v := range shocks {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &statespace.SingularSystemError{Size: len(x), Condition: math.Inf(1)}
		}
	}
	return append([]float64(nil), shocks...), nil
}

// #endregion solve

// #region triangular
// solveUpper back-substitutes the top-left block. Its diagonal is the
// target's response to the horizon-0 shock state in every row.
func solveUpper(sys *System) ([]float64, error) {
	n := sys.Horizon
	tri := mat.NewTriDense(n, mat.Upper, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			tri.SetTri(i, j, sys.A.At(i, j))
		}
	}
	if tri.At(0, 0) == 0 {
		return nil, &statespace.SingularSystemError{Size: n, Condition: math.Inf(1)}
	}
	if cond := mat.Cond(tri, 1); cond > mat.ConditionTolerance {
		return nil, &statespace.SingularSystemError{Size: n, Condition: cond}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := sys.B.AtVec(i)
		for j := i + 1; j < n; j++ {
			s -= tri.At(i, j) * x[j]
		}
		x[i] = s / tri.At(i, i)
	}
	return x, nil
}

// #endregion triangular

// #region dense
func solveDense(sys *System) ([]float64, error) {
	size, _ := sys.A.Dims()
	var inv mat.Dense
	if err := inv.Inverse(sys.A); err != nil {
		cond := math.Inf(1)
		var c mat.Condition
		if errors.As(err, &c) {
			cond = float64(c)
		}
		return nil, &statespace.SingularSystemError{Size: size, Condition: cond}
	}
	var x mat.VecDense
	x.MulVec(&inv, sys.B)
	return x.RawVector().Data, nil
}

// #endregion dense

// #region embed
// Embed places shocks on the shock-state horizons of a zero state vector.
func Embed(m *statespace.Model, shocks []float64, prefix string) (*mat.VecDense, error) {
	if len(shocks) == 0 {
		return nil, &statespace.DimensionMismatchError{What: "shock sequence length", Want: ">= 1", Got: "0"}
	}
	idx, err := m.ShockStates(prefix, len(shocks))
	if err != nil {
		return nil, err
	}
	x0 := mat.NewVecDense(m.StateDim(), nil)
	for k, i := range idx {
		x0.SetVec(i, shocks[k])
	}
	return x0, nil
}

// #endregion embed
