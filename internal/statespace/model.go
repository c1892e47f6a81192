package statespace

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// #region model
// Model is a solved linear rational-expectations model:
//
//	y_t     = Gx x_t
//	x_{t+1} = Hx x_t
//
// where x stacks the state variables followed by the exogenous shocks and y
// holds the controls. A Model is read-only once built.
type Model struct {
	Name         string
	MainVars     []string
	MainVarNames []string
	SaveFolder   string

	gx *mat.Dense
	hx *mat.Dense

	controls IndexMap
	states   IndexMap // states, then exogenous shocks
	combined IndexMap // states, exogenous shocks, controls
	nstates  int
}

// NewModel copies gx and hx and validates every shape against the name lists.
func NewModel(controls, states, shocks []string, gx, hx mat.Matrix) (*Model, error) {
	if gx == nil || hx == nil {
		return nil, &DimensionMismatchError{What: "model matrices", Want: "gx and hx", Got: "nil"}
	}
	stateShock := make([]string, 0, len(states)+len(shocks))
	stateShock = append(stateShock, states...)
	stateShock = append(stateShock, shocks...)
	all := make([]string, 0, len(stateShock)+len(controls))
	all = append(all, stateShock...)
	all = append(all, controls...)

	m := &Model{
		gx:       mat.DenseCopyOf(gx),
		hx:       mat.DenseCopyOf(hx),
		controls: NewIndexMap(controls),
		states:   NewIndexMap(stateShock),
		combined: NewIndexMap(all),
		nstates:  len(states),
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) validate() error {
	if m.combined.Len() != len(m.combined.pos) {
		seen := make(map[string]bool, m.combined.Len())
		for _, n := range m.combined.names {
			if seen[n] {
				return fmt.Errorf("%w: duplicate variable name %q", ErrDimensionMismatch, n)
			}
			seen[n] = true
		}
	}
	for _, n := range m.combined.names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%w: empty variable name", ErrUnknownVariable)
		}
	}

	nx := m.states.Len()
	ny := m.controls.Len()
	if nx == 0 {
		return mismatch("state count", 1, 0)
	}
	if r, c := m.hx.Dims(); r != nx || c != nx {
		return shapeMismatch("hx", nx, nx, r, c)
	}
	if r, c := m.gx.Dims(); r != ny || c != nx {
		return shapeMismatch("gx", ny, nx, r, c)
	}
	if err := finite("gx", m.gx); err != nil {
		return err
	}
	return finite("hx", m.hx)
}

// finite rejects NaN and Inf entries.
func finite(what string, a *mat.Dense) error {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := a.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return &DimensionMismatchError{
					What: fmt.Sprintf("%s[%d][%d]", what, i, j), Want: "finite value", Got: fmt.Sprint(v),
				}
			}
		}
	}
	return nil
}

// #endregion model

// #region main-vars
// WithPresentation sets the variables to chart, their display labels and the
// output folder. Empty mainVars selects every control; empty labels reuse the names.
func (m *Model) WithPresentation(mainVars, mainVarNames []string, saveFolder string) error {
	if len(mainVars) == 0 {
		mainVars = m.controls.Names()
	}
	for _, v := range mainVars {
		if _, ok := m.combined.Index(v); !ok {
			return &UnknownVariableError{Category: "variable", Name: v}
		}
	}
	if len(mainVarNames) == 0 {
		mainVarNames = mainVars
	}
	if len(mainVarNames) != len(mainVars) {
		return mismatch("main_var_names", len(mainVars), len(mainVarNames))
	}
	m.MainVars = append([]string(nil), mainVars...)
	m.MainVarNames = append([]string(nil), mainVarNames...)
	m.SaveFolder = saveFolder
	return nil
}

// #endregion main-vars

// #region accessors
// Gx is the control-response matrix (#controls x #states+#shocks).
func (m *Model) Gx() mat.Matrix { return m.gx }

// Hx is the state-transition matrix (#states+#shocks square).
func (m *Model) Hx() mat.Matrix { return m.hx }

// Controls returns the control names in Gx row order.
func (m *Model) Controls() []string { return m.controls.Names() }

// States returns the endogenous state names, shock states included.
func (m *Model) States() []string { return m.states.Names()[:m.nstates] }

// Shocks returns the exogenous shock names.
func (m *Model) Shocks() []string { return m.states.Names()[m.nstates:] }

// StateDim is the length of the state+shock vector.
func (m *Model) StateDim() int { return m.states.Len() }

// CombinedNames lists the state+shock+control index space in trajectory column order.
func (m *Model) CombinedNames() []string { return m.combined.Names() }

// ControlIndex returns the Gx row of a control.
func (m *Model) ControlIndex(name string) (int, error) {
	i, ok := m.controls.Index(name)
	if !ok {
		return 0, &UnknownVariableError{Category: "control", Name: name}
	}
	return i, nil
}

// StateIndex returns the position of a state or exogenous shock in the state vector.
func (m *Model) StateIndex(name string) (int, error) {
	i, ok := m.states.Index(name)
	if !ok {
		return 0, &UnknownVariableError{Category: "state", Name: name}
	}
	return i, nil
}

// CombinedIndex returns the trajectory column of any variable.
func (m *Model) CombinedIndex(name string) (int, error) {
	i, ok := m.combined.Index(name)
	if !ok {
		return 0, &UnknownVariableError{Category: "variable", Name: name}
	}
	return i, nil
}

// #endregion accessors

// #region shock-states
// ShockStateName is the state anticipated k periods ahead, e.g. "ui_" + 3 = "ui_3".
func ShockStateName(prefix string, k int) string {
	return prefix + strconv.Itoa(k)
}

// ShockStates resolves the state-vector indices of horizons 0..n-1.
// It fails on the first missing horizon.
func (m *Model) ShockStates(prefix string, n int) ([]int, error) {
	idx := make([]int, n)
	for k := 0; k < n; k++ {
		i, err := m.StateIndex(ShockStateName(prefix, k))
		if err != nil {
			return nil, err
		}
		if i >= m.nstates {
			// an exogenous shock cannot stand in for a shock state
			return nil, &UnknownVariableError{Category: "state", Name: ShockStateName(prefix, k)}
		}
		idx[k] = i
	}
	return idx, nil
}

// MaxHorizon is the longest path the prefix's shock states can pin: the
// count of consecutive horizons prefix0, prefix1, ... present as states.
func (m *Model) MaxHorizon(prefix string) int {
	n := 0
	for {
		i, ok := m.states.Index(ShockStateName(prefix, n))
		if !ok || i >= m.nstates {
			return n
		}
		n++
	}
}

// OtherStates lists the endogenous states outside the shock-state family.
func (m *Model) OtherStates(prefix string) []string {
	var out []string
	for _, s := range m.States() {
		if !strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	return out
}

// #endregion shock-states
