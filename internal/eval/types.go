package eval

// #region eval-config
// EvalConfig holds tolerances for the round-trip check of a solved path.
type EvalConfig struct {
	MaxResidual   float64 // fail if any |simulated - target| exceeds this
	MaxStateValue float64 // informational: flag trajectories that wander past this
}

// DefaultEvalConfig returns the tolerances used by the CLI.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MaxResidual:   1e-8,
		MaxStateValue: 1e6,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result. Pass is nil for
// informational metrics, which never affect EvalResult.Passed; those carry a
// Warning instead when they look suspicious.
type EvalMetric struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Pass    *bool   `json:"pass,omitempty"`
	Warning string  `json:"warning,omitempty"`
}

// Gated reports whether the metric takes part in the pass/fail decision.
func (m EvalMetric) Gated() bool { return m.Pass != nil }

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of the round-trip validation.
type EvalResult struct {
	Passed    bool         `json:"passed"`
	Metrics   []EvalMetric `json:"metrics"`
	Residuals []float64    `json:"residuals"`
	Reason    string       `json:"reason"`
}

// Metric returns the named metric.
func (r EvalResult) Metric(name string) (EvalMetric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return EvalMetric{}, false
}

// #endregion eval-result
