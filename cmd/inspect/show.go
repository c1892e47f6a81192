package main

import (
	"fmt"

	"github.com/danielpatrickdp/fgshocks/internal/export"
	"github.com/danielpatrickdp/fgshocks/internal/impulse"
	"github.com/danielpatrickdp/fgshocks/internal/runstore"
	"github.com/danielpatrickdp/fgshocks/internal/shocks"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"github.com/spf13/cobra"
)

// #region detail-mode

type detailOutput struct {
	RunID       string    `json:"run_id"`
	ParentID    string    `json:"parent_id,omitempty"`
	Model       string    `json:"model"`
	ModelPath   string    `json:"model_path,omitempty"`
	Target      string    `json:"target_variable"`
	ShockPrefix string    `json:"shock_prefix"`
	IRFPeriods  int       `json:"irf_periods"`
	TargetPath  []float64 `json:"target_path"`
	Shocks      []float64 `json:"shocks"`
	MaxResidual float64   `json:"max_residual"`
	Passed      bool      `json:"passed"`
	ChartPath   string    `json:"chart_path,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

func (in *inspector) showCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return in.runShow(args[0], jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func (in *inspector) runShow(runID string, jsonOut bool) error {
	rec, err := in.store.Get(runID)
	if err != nil {
		return err
	}
	out := detailOutput{
		RunID:       rec.RunID,
		ParentID:    rec.ParentID,
		Model:       rec.ModelName,
		ModelPath:   rec.ModelPath,
		Target:      rec.TargetVariable,
		ShockPrefix: rec.ShockPrefix,
		IRFPeriods:  rec.IRFPeriods,
		TargetPath:  rec.TargetPath,
		Shocks:      rec.Shocks,
		MaxResidual: rec.MaxResidual,
		Passed:      rec.Passed,
		ChartPath:   rec.ChartPath,
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if jsonOut {
		return printJSON(in.out, out)
	}

	fmt.Fprintf(in.out, "Run:          %s\n", out.RunID)
	if out.ParentID != "" {
		fmt.Fprintf(in.out, "Parent:       %s\n", out.ParentID)
	}
	fmt.Fprintf(in.out, "Created:      %s\n", out.CreatedAt)
	fmt.Fprintf(in.out, "Model:        %s %s\n", out.Model, out.ModelPath)
	fmt.Fprintf(in.out, "Target:       %s\n", out.Target)
	fmt.Fprintf(in.out, "IRF periods:  %d\n", out.IRFPeriods)
	fmt.Fprintf(in.out, "Max residual: %.3g (passed=%v)\n", out.MaxResidual, out.Passed)
	if out.ChartPath != "" {
		fmt.Fprintf(in.out, "Chart:        %s\n", out.ChartPath)
	}

	fmt.Fprintf(in.out, "\n  %-10s %16s %12s\n", "Shock", "Value", "Target")
	for k, u := range out.Shocks {
		fmt.Fprintf(in.out, "  %-10s %16.8g %12.6g\n",
			statespace.ShockStateName(out.ShockPrefix, k), u, out.TargetPath[k])
	}
	return nil
}

// #endregion detail-mode

// #region export-mode

func (in *inspector) exportCmd() *cobra.Command {
	var xlsx string
	var jsonOut, trajectory bool
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Write a stored run to a workbook or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := in.store.Get(args[0])
			if err != nil {
				return err
			}
			report, err := reportFor(rec, trajectory)
			if err != nil {
				return err
			}
			if xlsx != "" {
				if err := export.WriteXLSX(xlsx, report); err != nil {
					return err
				}
			}
			if jsonOut {
				return export.WriteJSON(in.out, report)
			}
			if xlsx == "" {
				return fmt.Errorf("nothing to do: pass --xlsx or --json")
			}
			fmt.Fprintf(in.out, "wrote %s\n", xlsx)
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "workbook path")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the run as JSON")
	cmd.Flags().BoolVar(&trajectory, "trajectory", false, "re-simulate the stored shocks through the run's model file")
	return cmd
}

// reportFor builds the export view of rec, re-simulating from the model file when asked.
func reportFor(rec runstore.RunRecord, trajectory bool) (export.Report, error) {
	report := export.Report{
		RunID:          rec.RunID,
		Model:          rec.ModelName,
		TargetVariable: rec.TargetVariable,
		ShockPrefix:    rec.ShockPrefix,
		TargetPath:     rec.TargetPath,
		Shocks:         rec.Shocks,
	}
	if !trajectory {
		return report, nil
	}
	if rec.ModelPath == "" {
		return export.Report{}, fmt.Errorf("run %s has no model path", rec.RunID)
	}
	m, err := statespace.Load(rec.ModelPath)
	if err != nil {
		return export.Report{}, err
	}
	x0, err := shocks.Embed(m, rec.Shocks, rec.ShockPrefix)
	if err != nil {
		return export.Report{}, err
	}
	tr, err := impulse.SimulateModel(impulse.Impulse{}, m, x0, rec.IRFPeriods)
	if err != nil {
		return export.Report{}, err
	}
	return report.WithTrajectory(m, tr), nil
}

// #endregion export-mode
