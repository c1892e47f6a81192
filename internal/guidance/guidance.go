// Package guidance runs the fix-variable pipeline: solve the anticipated
// shocks for a target path, simulate their impulse response, check that the
// response reproduces the path and chart the model's main variables.
package guidance

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/danielpatrickdp/fgshocks/internal/chart"
	"github.com/danielpatrickdp/fgshocks/internal/eval"
	"github.com/danielpatrickdp/fgshocks/internal/impulse"
	"github.com/danielpatrickdp/fgshocks/internal/shocks"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// #region runner
// Runner holds the collaborators of one pipeline. A Runner is safe for
// concurrent use when its Renderer is.
type Runner struct {
	Simulator impulse.Simulator
	Renderer  chart.Renderer
	Harness   *eval.EvalHarness
	Logger    *zap.Logger
}

// NewRunner wires the default simulator and PNG renderer.
func NewRunner(logger *zap.Logger, cfg eval.EvalConfig) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Simulator: impulse.Impulse{},
		Renderer:  chart.NewPNG(),
		Harness:   eval.NewEvalHarness(cfg),
		Logger:    logger,
	}
}

// #endregion runner

// #region run
// Run solves req against m. A result whose round trip misses the path is
// returned with Verification.Passed false and a nil error.
func (r *Runner) Run(ctx context.Context, m *statespace.Model, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.ShockPrefix == "" {
		req.ShockPrefix = DefaultShockPrefix
	}
	if req.Chart == "" {
		req.Chart = ChartAuto
	}
	if req.IRFPeriods < 0 || req.PostShockPeriods < 0 {
		return nil, &statespace.DimensionMismatchError{
			What: "irf periods", Want: ">= 0",
			Got: fmt.Sprintf("irf=%d post=%d", req.IRFPeriods, req.PostShockPeriods),
		}
	}
	if req.IRFPeriods > 0 && req.IRFPeriods < len(req.TargetPath) {
		return nil, &statespace.DimensionMismatchError{
			What: "irf periods", Want: fmt.Sprintf(">= %d", len(req.TargetPath)), Got: fmt.Sprint(req.IRFPeriods),
		}
	}
	log := r.logger().With(
		zap.String("model", m.Name),
		zap.String("target", req.TargetVariable),
		zap.String("prefix", req.ShockPrefix),
		zap.Int("horizon", len(req.TargetPath)),
	)

	u, err := shocks.Solve(m, req.TargetPath, req.TargetVariable, req.ShockPrefix)
	if err != nil {
		log.Debug("solve failed", zap.Error(err))
		return nil, err
	}
	x0, err := shocks.Embed(m, u, req.ShockPrefix)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tr, err := impulse.SimulateModel(r.simulator(), m, x0, req.Periods())
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	col, err := m.CombinedIndex(req.TargetVariable)
	if err != nil {
		return nil, err
	}
	verification, err := r.harness().Run(tr, col, req.TargetPath)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	main, err := MainSeries(m, tr)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:        uuid.New().String(),
		Request:      req,
		Shocks:       u,
		Initial:      x0,
		Trajectory:   tr,
		MainSeries:   main,
		Verification: verification,
	}

	if path := chartPath(m, req); path != "" && r.Renderer != nil {
		if err := r.Renderer.Render(path, main); err != nil {
			return nil, fmt.Errorf("chart: %w", err)
		}
		res.ChartPath = path
	}

	fields := []zap.Field{
		zap.String("run_id", res.RunID),
		zap.Float64s("shocks", u),
		zap.Bool("passed", verification.Passed),
	}
	if res.ChartPath != "" {
		fields = append(fields, zap.String("chart", res.ChartPath))
	}
	if verification.Passed {
		log.Info("path fixed", fields...)
	} else {
		log.Warn("round trip missed target path", append(fields, zap.String("reason", verification.Reason))...)
	}
	return res, nil
}

// #endregion run

// #region simulate
// Simulate propagates an initial state given by name. Unnamed states start at zero.
func (r *Runner) Simulate(ctx context.Context, m *statespace.Model, initial map[string]float64, periods int) (*impulse.Trajectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x0 := mat.NewVecDense(m.StateDim(), nil)
	for name, v := range initial {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: initial value of %s is %v", shocks.ErrInvalidPath, name, v)
		}
		i, err := m.StateIndex(name)
		if err != nil {
			return nil, err
		}
		x0.SetVec(i, v)
	}
	return impulse.SimulateModel(r.simulator(), m, x0, periods)
}

// #endregion simulate

// #region presentation
// MainSeries extracts the model's main variables, labelled with their display
// names. Without main variables every control is returned.
func MainSeries(m *statespace.Model, tr *impulse.Trajectory) ([]chart.Series, error) {
	vars, names := m.MainVars, m.MainVarNames
	if len(vars) == 0 {
		vars = m.Controls()
		names = vars
	}
	out := make([]chart.Series, len(vars))
	for i, v := range vars {
		col, err := m.CombinedIndex(v)
		if err != nil {
			return nil, err
		}
		label := v
		if i < len(names) {
			label = names[i]
		}
		out[i] = chart.Series{Label: label, Values: tr.Series(col)}
	}
	return out, nil
}

func chartPath(m *statespace.Model, req Request) string {
	switch req.Chart {
	case ChartOff:
		return ""
	case ChartPath:
		return req.ChartPath
	default:
		if m.SaveFolder == "" {
			return ""
		}
		return filepath.Join(m.SaveFolder, chart.DefaultFilename)
	}
}

// #endregion presentation

// #region helpers
func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) simulator() impulse.Simulator {
	if r.Simulator == nil {
		return impulse.Impulse{}
	}
	return r.Simulator
}

func (r *Runner) harness() *eval.EvalHarness {
	if r.Harness == nil {
		return eval.NewEvalHarness(eval.DefaultEvalConfig())
	}
	return r.Harness
}

// #endregion helpers
