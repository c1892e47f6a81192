package main

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/fgshocks/internal/export"
	"github.com/danielpatrickdp/fgshocks/internal/guidance"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"github.com/spf13/cobra"
)

// #region solve-cmd
type solveOptions struct {
	model      string
	target     string
	prefix     string
	path       []float64
	hold       float64
	periods    int
	irfPeriods int
	postShock  int
	noChart    bool
	chart      string
	xlsx       string
	jsonOut    bool
	parent     string
}

func (a *app) solveCmd() *cobra.Command {
	var o solveOptions
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the shocks that pin --target to a path",
		Example: `  fgshocks solve --model nk.yaml --target Rp --path -0.01,-0.01,-0.01
  fgshocks solve --model nk.yaml --target Ihat --hold -0.0202 --periods 10 --xlsx ishock.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSolve(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.model, "model", "", "model file (.yaml, .toml or .json)")
	f.StringVar(&o.target, "target", "", "control to fix")
	f.StringVar(&o.prefix, "prefix", "", "shock-state prefix (default $FGSHOCKS_SHOCK_PREFIX)")
	f.Float64SliceVar(&o.path, "path", nil, "comma-separated target path")
	f.Float64Var(&o.hold, "hold", 0, "hold the target at this value for --periods periods")
	f.IntVar(&o.periods, "periods", 0, "length of a --hold path")
	f.IntVar(&o.irfPeriods, "irf-periods", 0, "simulated periods (default path length + post-shock periods)")
	f.IntVar(&o.postShock, "post-shock-periods", -1, "periods simulated after the path (default $FGSHOCKS_POST_SHOCK_PERIODS)")
	f.BoolVar(&o.noChart, "no-chart", false, "do not write a chart")
	f.StringVar(&o.chart, "chart", "", "chart file (default <save folder>/fixvarirf.png)")
	f.StringVar(&o.xlsx, "xlsx", "", "write shocks and trajectory to this workbook")
	f.BoolVar(&o.jsonOut, "json", false, "print the run as JSON")
	f.StringVar(&o.parent, "parent", "", "run ID this run re-solves")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("target")
	cmd.MarkFlagsMutuallyExclusive("path", "hold")
	cmd.MarkFlagsMutuallyExclusive("no-chart", "chart")
	return cmd
}

func (o solveOptions) targetPath() ([]float64, error) {
	if o.periods > 0 {
		if len(o.path) > 0 {
			return nil, fmt.Errorf("--periods only applies to --hold")
		}
		p := make([]float64, o.periods)
		for i := range p {
			p[i] = o.hold
		}
		return p, nil
	}
	if len(o.path) == 0 {
		return nil, fmt.Errorf("one of --path or --hold with --periods is required")
	}
	return o.path, nil
}

// #endregion solve-cmd

// #region solve-run
func (a *app) runSolve(ctx context.Context, o solveOptions) error {
	path, err := o.targetPath()
	if err != nil {
		return err
	}
	m, err := a.loadModel(o.model)
	if err != nil {
		return err
	}
	req := a.request(o.target, path, o.prefix, o.irfPeriods, o.postShock)
	switch {
	case o.noChart:
		req.Chart = guidance.ChartOff
	case o.chart != "":
		req.Chart = guidance.ChartPath
		req.ChartPath = o.chart
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	res, runErr := a.runner().Run(ctx, m, req)
	if err := a.record(store, attempt{
		model: m, modelPath: o.model, parentID: o.parent, req: req, res: res, err: runErr,
	}); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	report := export.Report{
		RunID:          res.RunID,
		Model:          m.Name,
		TargetVariable: req.TargetVariable,
		ShockPrefix:    req.ShockPrefix,
		TargetPath:     req.TargetPath,
		Shocks:         res.Shocks,
	}.WithTrajectory(m, res.Trajectory)

	if o.xlsx != "" {
		if err := export.WriteXLSX(o.xlsx, report); err != nil {
			return err
		}
	}
	if o.jsonOut {
		if err := export.WriteJSON(a.out, report); err != nil {
			return err
		}
	} else {
		a.printResult(m, res, o.xlsx)
	}

	if !res.Verification.Passed {
		return fmt.Errorf("run %s: %s", res.RunID, res.Verification.Reason)
	}
	return nil
}

func (a *app) request(target string, path []float64, prefix string, irf, post int) guidance.Request {
	req := guidance.NewRequest(target, path)
	req.ShockPrefix = a.cfg.ShockPrefix
	if prefix != "" {
		req.ShockPrefix = prefix
	}
	req.IRFPeriods = irf
	req.PostShockPeriods = a.cfg.PostShockPeriods
	if post >= 0 {
		req.PostShockPeriods = post
	}
	return req
}

func (a *app) printResult(m *statespace.Model, res *guidance.Result, xlsx string) {
	req := res.Request
	fmt.Fprintf(a.out, "Run:     %s\n", res.RunID)
	fmt.Fprintf(a.out, "Model:   %s\n", m.Name)
	fmt.Fprintf(a.out, "Target:  %s over %d periods (%d simulated)\n\n",
		req.TargetVariable, len(req.TargetPath), res.Trajectory.Periods())

	fmt.Fprintf(a.out, "%-10s  %16s  %12s\n", "Shock", "Value", "Target")
	fmt.Fprintf(a.out, "%-10s+-%16s+-%12s\n", "----------", "----------------", "------------")
	for k, u := range res.Shocks {
		fmt.Fprintf(a.out, "%-10s  %16.8g  %12.6g\n", statespace.ShockStateName(req.ShockPrefix, k), u, req.TargetPath[k])
	}

	status := "pass"
	if !res.Verification.Passed {
		status = "FAIL"
	}
	fmt.Fprintln(a.out)
	for _, mt := range res.Verification.Metrics {
		note := ""
		switch {
		case mt.Gated() && !*mt.Pass:
			note = "  fail"
		case mt.Warning != "":
			note = "  warning: " + mt.Warning
		}
		fmt.Fprintf(a.out, "  %-18s %.3g%s\n", mt.Name, mt.Value, note)
	}
	fmt.Fprintf(a.out, "Round trip: %s\n", status)
	if res.ChartPath != "" {
		fmt.Fprintf(a.out, "Chart:      %s\n", res.ChartPath)
	}
	if xlsx != "" {
		fmt.Fprintf(a.out, "Workbook:   %s\n", xlsx)
	}
}

// #endregion solve-run
