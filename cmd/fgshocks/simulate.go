package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/fgshocks/internal/chart"
	"github.com/danielpatrickdp/fgshocks/internal/export"
	"github.com/danielpatrickdp/fgshocks/internal/guidance"
	"github.com/danielpatrickdp/fgshocks/internal/impulse"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"github.com/spf13/cobra"
)

// #region simulate-cmd
type simulateOptions struct {
	model   string
	shocks  []string
	periods int
	vars    []string
	chart   string
	xlsx    string
	jsonOut bool
}

func (a *app) simulateCmd() *cobra.Command {
	var o simulateOptions
	cmd := &cobra.Command{
		Use:     "simulate",
		Short:   "Print the impulse response to a given initial state",
		Example: `  fgshocks simulate --model nk.yaml --shock ui_3=0.01 --periods 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSimulate(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.model, "model", "", "model file")
	f.StringArrayVar(&o.shocks, "shock", nil, "initial state as name=value (repeatable)")
	f.IntVar(&o.periods, "periods", 20, "simulated periods")
	f.StringSliceVar(&o.vars, "vars", nil, "variables to print (default the model's main variables)")
	f.StringVar(&o.chart, "chart", "", "write a chart of the printed variables")
	f.StringVar(&o.xlsx, "xlsx", "", "write the full trajectory to this workbook")
	f.BoolVar(&o.jsonOut, "json", false, "print the full trajectory as JSON")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("shock")
	return cmd
}

func parseAssignments(items []string) (map[string]float64, error) {
	out := make(map[string]float64, len(items))
	for _, it := range items {
		name, val, ok := strings.Cut(it, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --shock %q: want name=value", it)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --shock %q: %w", it, err)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("--shock %s given twice", name)
		}
		out[name] = v
	}
	return out, nil
}

// #endregion simulate-cmd

// #region simulate-run
func (a *app) runSimulate(ctx context.Context, o simulateOptions) error {
	initial, err := parseAssignments(o.shocks)
	if err != nil {
		return err
	}
	m, err := a.loadModel(o.model)
	if err != nil {
		return err
	}
	tr, err := a.runner().Simulate(ctx, m, initial, o.periods)
	if err != nil {
		return err
	}

	series, err := selectSeries(m, tr, o.vars)
	if err != nil {
		return err
	}
	if o.chart != "" {
		if err := chart.NewPNG().Render(o.chart, series); err != nil {
			return err
		}
	}

	report := export.Report{Model: m.Name}.WithTrajectory(m, tr)
	if o.xlsx != "" {
		if err := export.WriteXLSX(o.xlsx, report); err != nil {
			return err
		}
	}
	if o.jsonOut {
		return export.WriteJSON(a.out, report)
	}

	fmt.Fprintf(a.out, "%6s", "t")
	for _, s := range series {
		fmt.Fprintf(a.out, "  %14s", s.Label)
	}
	fmt.Fprintln(a.out)
	for t := 0; t < tr.Periods(); t++ {
		fmt.Fprintf(a.out, "%6d", t)
		for _, s := range series {
			fmt.Fprintf(a.out, "  %14.6g", s.Values[t])
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func selectSeries(m *statespace.Model, tr *impulse.Trajectory, vars []string) ([]chart.Series, error) {
	if len(vars) == 0 {
		return guidance.MainSeries(m, tr)
	}
	out := make([]chart.Series, len(vars))
	for i, v := range vars {
		col, err := m.CombinedIndex(v)
		if err != nil {
			return nil, err
		}
		out[i] = chart.Series{Label: v, Values: tr.Series(col)}
	}
	return out, nil
}

// #endregion simulate-run
