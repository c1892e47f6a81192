package impulse

import (
	"testing"

	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// #region helpers
func ar1Model(t *testing.T) *statespace.Model {
	t.Helper()
	// x' = 0.5 x ; y = 2 x ; c = -x
	gx := mat.NewDense(2, 1, []float64{2, -1})
	hx := mat.NewDense(1, 1, []float64{0.5})
	m, err := statespace.NewModel([]string{"y", "c"}, []string{"x"}, nil, gx, hx)
	require.NoError(t, err)
	return m
}

// #endregion helpers

// #region simulate-tests
func TestSimulate_AR1(t *testing.T) {
	m := ar1Model(t)
	x0 := mat.NewVecDense(1, []float64{1})

	tr, err := SimulateModel(Impulse{}, m, x0, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, tr.Periods())
	assert.Equal(t, 3, tr.Width())
	assert.Equal(t, 1, tr.StateDim())
	assert.Equal(t, []float64{1, 0.5, 0.25, 0.125}, tr.Series(0))
	assert.Equal(t, []float64{2, 1, 0.5, 0.25}, tr.Series(1))
	assert.Equal(t, []float64{-1, -0.5, -0.25, -0.125}, tr.Series(2))
}

func TestSimulate_InitialStateUntouched(t *testing.T) {
	m := ar1Model(t)
	x0 := mat.NewVecDense(1, []float64{3})

	_, err := SimulateModel(Impulse{}, m, x0, 5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, x0.AtVec(0))
}

func TestSimulate_ShiftRegister(t *testing.T) {
	// u0' = u1, u1' = 0: a shock anticipated one period ahead arrives in period 1
	hx := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	gx := mat.NewDense(1, 2, []float64{1, 0})
	tr, err := Impulse{}.Simulate(gx, hx, mat.NewVecDense(2, []float64{0, 7}), 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 7, 0}, tr.Series(2))
}

func TestSimulate_DimensionErrors(t *testing.T) {
	gx := mat.NewDense(1, 2, nil)
	hx := mat.NewDense(2, 2, nil)

	_, err := Impulse{}.Simulate(gx, hx, mat.NewVecDense(2, nil), 0)
	assert.ErrorIs(t, err, statespace.ErrDimensionMismatch)

	_, err = Impulse{}.Simulate(gx, hx, mat.NewVecDense(3, nil), 2)
	assert.ErrorIs(t, err, statespace.ErrDimensionMismatch)

	_, err = Impulse{}.Simulate(mat.NewDense(1, 3, nil), hx, mat.NewVecDense(2, nil), 2)
	assert.ErrorIs(t, err, statespace.ErrDimensionMismatch)
}

func TestSimulateModel_WrongInitialLength(t *testing.T) {
	_, err := SimulateModel(Impulse{}, ar1Model(t), mat.NewVecDense(2, nil), 3)
	assert.ErrorIs(t, err, statespace.ErrDimensionMismatch)
}

// #endregion simulate-tests

// #region trajectory-tests
func TestTrajectory_Columns(t *testing.T) {
	m := ar1Model(t)
	tr, err := SimulateModel(Impulse{}, m, mat.NewVecDense(1, []float64{1}), 2)
	require.NoError(t, err)

	sel, err := tr.Columns([]int{2, 0})
	require.NoError(t, err)
	r, c := sel.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, -1.0, sel.At(0, 0))
	assert.Equal(t, 0.5, sel.At(1, 1))

	_, err = tr.Columns([]int{3})
	assert.ErrorIs(t, err, statespace.ErrDimensionMismatch)
	_, err = tr.Columns(nil)
	assert.ErrorIs(t, err, statespace.ErrDimensionMismatch)
}

func TestTrajectory_NamedSeries(t *testing.T) {
	m := ar1Model(t)
	tr, err := SimulateModel(Impulse{}, m, mat.NewVecDense(1, []float64{1}), 2)
	require.NoError(t, err)

	series, err := tr.NamedSeries(m, []string{"y", "x"})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1}, series["y"])
	assert.Equal(t, []float64{1, 0.5}, series["x"])

	_, err = tr.NamedSeries(m, []string{"missing"})
	assert.ErrorIs(t, err, statespace.ErrUnknownVariable)
}

// #endregion trajectory-tests
