package eval

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/fgshocks/internal/impulse"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
)

// #region eval-harness
// EvalHarness checks that a simulated trajectory reproduces the requested path.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run compares column targetCol of tr against path over len(path) periods.
func (h *EvalHarness) Run(tr *impulse.Trajectory, targetCol int, path []float64) (EvalResult, error) {
	if tr.Periods() < len(path) {
		return EvalResult{}, &statespace.DimensionMismatchError{
			What: "trajectory periods", Want: fmt.Sprintf(">= %d", len(path)), Got: fmt.Sprint(tr.Periods()),
		}
	}
	if targetCol < 0 || targetCol >= tr.Width() {
		return EvalResult{}, &statespace.DimensionMismatchError{
			What: "target column", Want: fmt.Sprintf("[0, %d)", tr.Width()), Got: fmt.Sprint(targetCol),
		}
	}

	var metrics []EvalMetric
	passed := true
	var failReasons []string

	// 1. Residuals over the fitted horizon
	residuals := make([]float64, len(path))
	var maxAbs, sumSq float64
	for t, want := range path {
		r := tr.At(t, targetCol) - want
		residuals[t] = r
		sumSq += r * r
		if a := math.Abs(r); a > maxAbs || math.IsNaN(a) {
			maxAbs = a
		}
	}
	rms := 0.0
	if len(path) > 0 {
		rms = math.Sqrt(sumSq / float64(len(path)))
	}

	metrics = append(metrics,
		gated("max_abs_residual", maxAbs, h.config.MaxResidual),
		gated("rms_residual", rms, h.config.MaxResidual),
	)
	for _, m := range metrics {
		if !*m.Pass {
			passed = false
			failReasons = append(failReasons, fmt.Sprintf("%s %.3g exceeds %.3g", m.Name, m.Value, h.config.MaxResidual))
		}
	}

	// 2. Largest value anywhere in the trajectory: informational only
	var peak float64
	for t := 0; t < tr.Periods(); t++ {
		for c := 0; c < tr.Width(); c++ {
			if a := math.Abs(tr.At(t, c)); a > peak {
				peak = a
			}
		}
	}
	info := EvalMetric{Name: "max_abs_value", Value: peak}
	if peak > h.config.MaxStateValue {
		info.Warning = fmt.Sprintf("trajectory reaches %.3g, above %.3g", peak, h.config.MaxStateValue)
	}
	metrics = append(metrics, info)

	reason := "round trip reproduces target path"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
	}

	return EvalResult{
		Passed:    passed,
		Metrics:   metrics,
		Residuals: residuals,
		Reason:    reason,
	}, nil
}

// gated builds a metric that fails when value exceeds limit. NaN fails.
func gated(name string, value, limit float64) EvalMetric {
	pass := value <= limit
	return EvalMetric{Name: name, Value: value, Pass: &pass}
}

// #endregion eval-harness
