// Package scenario runs batches of fix-variable requests against one model
// and checks them against recorded expectations.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/danielpatrickdp/fgshocks/internal/chart"
	"github.com/danielpatrickdp/fgshocks/internal/guidance"
	"github.com/danielpatrickdp/fgshocks/internal/logging"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"golang.org/x/sync/errgroup"
)

// #region types
// Scenario is one named request with optional expectations.
type Scenario struct {
	Name             string
	Request          guidance.Request
	ExpectedShocks   []float64
	ExpectedDecision string // empty means logging.DecisionSolved
}

// Outcome is the result of running one scenario. Err holds the solve error,
// if any; Result is nil whenever Err is set.
type Outcome struct {
	Scenario Scenario
	Decision string
	Result   *guidance.Result
	Err      error
}

// Summary provides aggregate stats from a batch run.
type Summary struct {
	Total      int
	Solved     int
	Rejected   int
	Failed     int
	Mismatches int
}

// #endregion types

// #region run-all
// RunAll solves every scenario with at most limit running at once. Solve
// failures are recorded per outcome; only cancellation aborts the batch.
// Scenarios charting into the model's save folder get a per-scenario file
// name so concurrent runs never share an output.
func RunAll(ctx context.Context, runner *guidance.Runner, m *statespace.Model, scenarios []Scenario, limit int) ([]Outcome, error) {
	if limit < 1 {
		limit = 1
	}
	outcomes := make([]Outcome, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			req := sc.Request
			if req.Chart == guidance.ChartAuto && m.SaveFolder != "" {
				req.Chart = guidance.ChartPath
				req.ChartPath = filepath.Join(m.SaveFolder, sc.Name+"_"+chart.DefaultFilename)
			}
			res, err := runner.Run(gctx, m, req)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			outcomes[i] = Outcome{Scenario: sc, Decision: decision(res, err), Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func decision(res *guidance.Result, err error) string {
	if err == nil && !res.Verification.Passed {
		return logging.DecisionRejected
	}
	return logging.DecisionFor(err)
}

// #endregion run-all

// #region check
// Check compares an outcome with its scenario's expectations.
func Check(o Outcome, tolerance float64) error {
	want := o.Scenario.ExpectedDecision
	if want == "" {
		want = logging.DecisionSolved
	}
	if o.Decision != want {
		reason := ""
		if o.Err != nil {
			reason = ": " + o.Err.Error()
		}
		return fmt.Errorf("%s: decision %s, want %s%s", o.Scenario.Name, o.Decision, want, reason)
	}
	exp := o.Scenario.ExpectedShocks
	if len(exp) == 0 || o.Result == nil {
		return nil
	}
	got := o.Result.Shocks
	if len(got) != len(exp) {
		return fmt.Errorf("%s: %d shocks, want %d", o.Scenario.Name, len(got), len(exp))
	}
	var bad []string
	for k := range exp {
		if d := math.Abs(got[k] - exp[k]); d > tolerance || math.IsNaN(d) {
			bad = append(bad, fmt.Sprintf("%s%d=%g (want %g)", o.Request().ShockPrefix, k, got[k], exp[k]))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%s: shocks outside tolerance %g: %s", o.Scenario.Name, tolerance, strings.Join(bad, ", "))
	}
	return nil
}

// Request is the request actually run, charting defaults included.
func (o Outcome) Request() guidance.Request {
	if o.Result != nil {
		return o.Result.Request
	}
	return o.Scenario.Request
}

// Summarize computes aggregate stats from a batch.
func Summarize(outcomes []Outcome, tolerance float64) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Decision {
		case logging.DecisionSolved:
			s.Solved++
		case logging.DecisionRejected:
			s.Rejected++
		default:
			s.Failed++
		}
		if Check(o, tolerance) != nil {
			s.Mismatches++
		}
	}
	return s
}

// #endregion check
