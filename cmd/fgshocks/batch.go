package main

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/fgshocks/internal/scenario"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// #region batch-cmd
type batchOptions struct {
	scenarios string
	model     string
	workers   int
	jsonOut   bool
}

func (a *app) batchCmd() *cobra.Command {
	var o batchOptions
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run every scenario in a scenario file and check expectations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.scenarios, "scenarios", "", "scenario file (.yaml, .toml or .json)")
	f.StringVar(&o.model, "model", "", "model file (overrides the scenario file's model)")
	f.IntVar(&o.workers, "workers", 0, "concurrent scenarios (default $FGSHOCKS_WORKERS)")
	f.BoolVar(&o.jsonOut, "json", false, "print outcomes as JSON")
	_ = cmd.MarkFlagRequired("scenarios")
	return cmd
}

// #endregion batch-cmd

// #region batch-run
type batchRow struct {
	Name     string    `json:"name"`
	RunID    string    `json:"run_id,omitempty"`
	Decision string    `json:"decision"`
	Shocks   []float64 `json:"shocks,omitempty"`
	Error    string    `json:"error,omitempty"`
	Check    string    `json:"check"`
}

func (a *app) runBatch(ctx context.Context, o batchOptions) error {
	file, err := scenario.LoadFile(o.scenarios)
	if err != nil {
		return err
	}
	modelPath := file.Model
	if o.model != "" {
		modelPath = o.model
	}
	if modelPath == "" {
		return fmt.Errorf("%s names no model; pass --model", o.scenarios)
	}
	m, err := a.loadModel(modelPath)
	if err != nil {
		return err
	}
	scs, err := file.ToScenarios()
	if err != nil {
		return err
	}
	workers := a.cfg.Workers
	if o.workers > 0 {
		workers = o.workers
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	outcomes, err := scenario.RunAll(ctx, a.runner(), m, scs, workers)
	if err != nil {
		return err
	}

	rows := make([]batchRow, len(outcomes))
	for i, oc := range outcomes {
		if err := a.record(store, attempt{
			model: m, modelPath: modelPath, scenario: oc.Scenario.Name,
			req: oc.Request(), res: oc.Result, err: oc.Err,
		}); err != nil {
			a.logger.Error("record scenario", zap.String("scenario", oc.Scenario.Name), zap.Error(err))
		}
		row := batchRow{Name: oc.Scenario.Name, Decision: oc.Decision, Check: "ok"}
		if oc.Result != nil {
			row.RunID = oc.Result.RunID
			row.Shocks = oc.Result.Shocks
		}
		if oc.Err != nil {
			row.Error = oc.Err.Error()
		}
		if err := scenario.Check(oc, file.Tolerance); err != nil {
			row.Check = err.Error()
		}
		rows[i] = row
	}

	summary := scenario.Summarize(outcomes, file.Tolerance)
	if o.jsonOut {
		if err := printJSON(a.out, rows); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(a.out, "%-20s  %-18s  %6s  %s\n", "Scenario", "Decision", "Shocks", "Check")
		fmt.Fprintf(a.out, "%-20s+-%-18s+-%6s+-%s\n", "--------------------", "------------------", "------", "-----")
		for _, r := range rows {
			fmt.Fprintf(a.out, "%-20s  %-18s  %6d  %s\n", r.Name, r.Decision, len(r.Shocks), r.Check)
		}
		fmt.Fprintf(a.out, "\n%d scenarios: %d solved, %d rejected, %d failed, %d not as expected\n",
			summary.Total, summary.Solved, summary.Rejected, summary.Failed, summary.Mismatches)
	}

	if summary.Mismatches > 0 {
		return fmt.Errorf("%d of %d scenarios did not match expectations", summary.Mismatches, summary.Total)
	}
	return nil
}

// #endregion batch-run
