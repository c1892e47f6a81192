package guidance

import (
	"github.com/danielpatrickdp/fgshocks/internal/chart"
	"github.com/danielpatrickdp/fgshocks/internal/eval"
	"github.com/danielpatrickdp/fgshocks/internal/impulse"
	"github.com/danielpatrickdp/fgshocks/internal/logging"
	"github.com/danielpatrickdp/fgshocks/internal/runstore"
	"gonum.org/v1/gonum/mat"
)

// #region defaults
const (
	DefaultShockPrefix      = "ui_"
	DefaultPostShockPeriods = 10
)

// #endregion defaults

// #region chart-mode
// ChartMode selects where, if anywhere, the main-variable chart is written.
type ChartMode string

const (
	ChartAuto ChartMode = "auto" // <save folder>/fixvarirf.png when the model has a save folder
	ChartOff  ChartMode = "off"
	ChartPath ChartMode = "path" // Request.ChartPath
)

// #endregion chart-mode

// #region request
// Request asks for the anticipated shocks that pin TargetVariable to TargetPath.
type Request struct {
	TargetPath       []float64
	TargetVariable   string
	ShockPrefix      string
	IRFPeriods       int // 0 means len(TargetPath) + PostShockPeriods
	PostShockPeriods int
	Chart            ChartMode
	ChartPath        string
}

// NewRequest returns a request with the default prefix, post-shock horizon and chart mode.
func NewRequest(target string, path []float64) Request {
	return Request{
		TargetPath:       path,
		TargetVariable:   target,
		ShockPrefix:      DefaultShockPrefix,
		PostShockPeriods: DefaultPostShockPeriods,
		Chart:            ChartAuto,
	}
}

// Periods is the number of simulated rows.
func (r Request) Periods() int {
	if r.IRFPeriods > 0 {
		return r.IRFPeriods
	}
	return len(r.TargetPath) + r.PostShockPeriods
}

// Record is the provenance form of the request.
func (r Request) Record(modelPath, scenario string) logging.RequestRecord {
	return logging.RequestRecord{
		ModelPath:      modelPath,
		TargetVariable: r.TargetVariable,
		ShockPrefix:    r.ShockPrefix,
		TargetPath:     r.TargetPath,
		IRFPeriods:     r.Periods(),
		Scenario:       scenario,
	}
}

// #endregion request

// #region result
// Result is a solved and verified request.
type Result struct {
	RunID        string
	Request      Request
	Shocks       []float64
	Initial      *mat.VecDense
	Trajectory   *impulse.Trajectory
	MainSeries   []chart.Series
	Verification eval.EvalResult
	ChartPath    string // empty when no chart was written
}

// Record converts the result into a run-store row.
func (r *Result) Record(modelName, modelPath string) runstore.RunRecord {
	rec := runstore.RunRecord{
		RunID:          r.RunID,
		ModelName:      modelName,
		ModelPath:      modelPath,
		TargetVariable: r.Request.TargetVariable,
		ShockPrefix:    r.Request.ShockPrefix,
		IRFPeriods:     r.Request.Periods(),
		TargetPath:     r.Request.TargetPath,
		Shocks:         r.Shocks,
		Passed:         r.Verification.Passed,
		ChartPath:      r.ChartPath,
	}
	if m, ok := r.Verification.Metric("max_abs_residual"); ok {
		rec.MaxResidual = m.Value
	}
	return rec
}

// #endregion result
