package shocks

import (
	"errors"
	"fmt"
	"math"

	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidPath indicates a non-finite value in the target path.
var ErrInvalidPath = errors.New("shocks: target path value is not finite")

// #region system
// System is the assembled linear system A x = B.
type System struct {
	A       *mat.Dense
	B       *mat.VecDense
	Horizon int      // N, number of shock unknowns
	Others  []string // other states, in block order
}

// Triangular reports whether the system reduces to the top-left block.
func (s *System) Triangular() bool {
	return len(s.Others) == 0 || s.Horizon == 1
}

// #endregion system

// #region build
// layout resolves every index the assembly needs before touching a matrix.
type layout struct {
	n         int
	targetRow int
	shockIdx  []int
	others    []string
	otherIdx  []int
}

func resolve(m *statespace.Model, path []float64, target, prefix string) (layout, error) {
	if len(path) == 0 {
		return layout{}, &statespace.DimensionMismatchError{What: "target path length", Want: ">= 1", Got: "0"}
	}
	for i, v := range path {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return layout{}, fmt.Errorf("%w: period %d", ErrInvalidPath, i)
		}
	}
	row, err := m.ControlIndex(target)
	if err != nil {
		return layout{}, err
	}
	shockIdx, err := m.ShockStates(prefix, len(path))
	if err != nil {
		return layout{}, err
	}
	others := m.OtherStates(prefix)
	otherIdx := make([]int, len(others))
	for k, name := range others {
		if otherIdx[k], err = m.StateIndex(name); err != nil {
			return layout{}, err
		}
	}
	return layout{n: len(path), targetRow: row, shockIdx: shockIdx, others: others, otherIdx: otherIdx}, nil
}

// BuildSystem assembles the coefficient matrix and constant vector for path.
func BuildSystem(m *statespace.Model, path []float64, target, prefix string) (*System, error) {
	l, err := resolve(m, path, target, prefix)
	if err != nil {
		return nil, err
	}
	gx, hx := m.Gx(), m.Hx()
	n := l.n
	lag := n - 1
	size := n + len(l.others)*lag

	a := mat.NewDense(size, size, nil)
	b := mat.NewVecDense(size, nil)
	for i, v := range path {
		b.SetVec(i, v)
	}

	// top-left: shock anticipated j periods ahead appears at horizon j-i in period i
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a.Set(i, j, gx.At(l.targetRow, l.shockIdx[j-i]))
		}
	}

	col := func(state, i int) int { return n + state*lag + i }

	for si, sIdx := range l.otherIdx {
		// top-right: other state's value at i+1 enters the target at i+1
		coef := gx.At(l.targetRow, sIdx)
		for i := 0; i < lag; i++ {
			a.Set(i+1, col(si, i), coef)
		}

		for i := 0; i < lag; i++ {
			row := col(si, i)
			// bottom-left: shock states driving the other state
			for j := i; j < n; j++ {
				a.Set(row, j, hx.At(sIdx, l.shockIdx[j-i]))
			}
			// bottom-right diagonal: minus the value being defined
			a.Set(row, col(si, i), -1)
		}

		// bottom-right sub-diagonal: other states' previous values
		for sj, tIdx := range l.otherIdx {
			coef := hx.At(sIdx, tIdx)
			for i := 0; i+1 < lag; i++ {
				a.Set(col(si, i+1), col(sj, i), coef)
			}
		}
	}

	return &System{A: a, B: b, Horizon: n, Others: l.others}, nil
}

// #endregion build
