// Package impulse propagates a solved state-space model forward from an
// initial condition and records every state and control per period.
package impulse

import (
	"fmt"

	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"gonum.org/v1/gonum/mat"
)

// #region simulator
// Simulator produces the impulse response of (gx, hx) from x0 over periods rows.
type Simulator interface {
	Simulate(gx, hx mat.Matrix, x0 mat.Vector, periods int) (*Trajectory, error)
}

// Impulse is the default Simulator.
type Impulse struct{}

// Simulate iterates x_{t+1} = hx x_t and y_t = gx x_t for t in [0, periods).
func (Impulse) Simulate(gx, hx mat.Matrix, x0 mat.Vector, periods int) (*Trajectory, error) {
	if periods < 1 {
		return nil, &statespace.DimensionMismatchError{What: "periods", Want: ">= 1", Got: fmt.Sprint(periods)}
	}
	nx := x0.Len()
	if r, c := hx.Dims(); r != nx || c != nx {
		return nil, &statespace.DimensionMismatchError{
			What: "hx", Want: fmt.Sprintf("%dx%d", nx, nx), Got: fmt.Sprintf("%dx%d", r, c),
		}
	}
	ny, c := gx.Dims()
	if c != nx {
		return nil, &statespace.DimensionMismatchError{
			What: "gx columns", Want: fmt.Sprint(nx), Got: fmt.Sprint(c),
		}
	}

	out := mat.NewDense(periods, nx+ny, nil)
	x := mat.VecDenseCopyOf(x0)
	y := mat.NewVecDense(ny, nil)
	next := mat.NewVecDense(nx, nil)
	for t := 0; t < periods; t++ {
		y.MulVec(gx, x)
		for i := 0; i < nx; i++ {
			out.Set(t, i, x.AtVec(i))
		}
		for j := 0; j < ny; j++ {
			out.Set(t, nx+j, y.AtVec(j))
		}
		next.MulVec(hx, x)
		x, next = next, x
	}
	return &Trajectory{data: out, stateDim: nx}, nil
}

// #endregion simulator

// #region trajectory
// Trajectory is a periods x (#states+#shocks+#controls) table; row t is [x_t, y_t].
type Trajectory struct {
	data     *mat.Dense
	stateDim int
}

// Periods is the number of simulated rows.
func (tr *Trajectory) Periods() int {
	r, _ := tr.data.Dims()
	return r
}

// Width is the number of columns.
func (tr *Trajectory) Width() int {
	_, c := tr.data.Dims()
	return c
}

// StateDim is the number of leading state+shock columns.
func (tr *Trajectory) StateDim() int {
	return tr.stateDim
}

// At returns the value of column col in period t.
func (tr *Trajectory) At(t, col int) float64 {
	return tr.data.At(t, col)
}

// Matrix exposes the table read-only.
func (tr *Trajectory) Matrix() mat.Matrix {
	return tr.data
}

// Series copies one column over every period.
func (tr *Trajectory) Series(col int) []float64 {
	return mat.Col(nil, col, tr.data)
}

// Columns returns the selected columns, in order, as a new periods x len(cols) matrix.
func (tr *Trajectory) Columns(cols []int) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, &statespace.DimensionMismatchError{What: "column selection", Want: ">= 1", Got: "0"}
	}
	w := tr.Width()
	out := mat.NewDense(tr.Periods(), len(cols), nil)
	for j, c := range cols {
		if c < 0 || c >= w {
			return nil, &statespace.DimensionMismatchError{
				What: "column index", Want: fmt.Sprintf("[0, %d)", w), Got: fmt.Sprint(c),
			}
		}
		out.SetCol(j, tr.Series(c))
	}
	return out, nil
}

// NamedSeries resolves names through the model's combined index.
func (tr *Trajectory) NamedSeries(m *statespace.Model, names []string) (map[string][]float64, error) {
	out := make(map[string][]float64, len(names))
	for _, n := range names {
		col, err := m.CombinedIndex(n)
		if err != nil {
			return nil, err
		}
		if col >= tr.Width() {
			return nil, &statespace.DimensionMismatchError{
				What: "trajectory width", Want: fmt.Sprintf("> %d", col), Got: fmt.Sprint(tr.Width()),
			}
		}
		out[n] = tr.Series(col)
	}
	return out, nil
}

// #endregion trajectory

// #region model-helper
// SimulateModel runs sim against m's matrices.
func SimulateModel(sim Simulator, m *statespace.Model, x0 mat.Vector, periods int) (*Trajectory, error) {
	if x0.Len() != m.StateDim() {
		return nil, &statespace.DimensionMismatchError{
			What: "initial state", Want: fmt.Sprint(m.StateDim()), Got: fmt.Sprint(x0.Len()),
		}
	}
	return sim.Simulate(m.Gx(), m.Hx(), x0, periods)
}

// #endregion model-helper
