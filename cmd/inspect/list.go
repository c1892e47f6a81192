package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// #region list-mode

type listRow struct {
	RunID       string  `json:"run_id"`
	Model       string  `json:"model"`
	Target      string  `json:"target_variable"`
	Horizon     int     `json:"horizon"`
	MaxResidual float64 `json:"max_residual"`
	Decision    string  `json:"decision"`
	CreatedAt   string  `json:"created_at"`
}

func (in *inspector) listCmd() *cobra.Command {
	var last int
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return in.runList(last, jsonOut)
		},
	}
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent runs")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

func (in *inspector) runList(last int, jsonOut bool) error {
	runs, err := in.store.ListWithProvenance(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	// store returns newest first; print chronologically
	rows := make([]listRow, len(runs))
	for i, r := range runs {
		rows[len(runs)-1-i] = listRow{
			RunID:       r.RunID,
			Model:       r.ModelName,
			Target:      r.TargetVariable,
			Horizon:     r.Horizon(),
			MaxResidual: r.MaxResidual,
			Decision:    r.Decision,
			CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	if jsonOut {
		return printJSON(in.out, rows)
	}

	fmt.Fprintf(in.out, "%-8s  %-12s  %-10s  %7s  %10s  %-10s  %s\n",
		"Run", "Model", "Target", "Horizon", "Residual", "Decision", "Time")
	fmt.Fprintf(in.out, "%-8s+-%-12s+-%-10s+-%7s+-%10s+-%-10s+-%s\n",
		"--------", "------------", "----------", "-------", "----------", "----------", "--------------------")
	for _, r := range rows {
		fmt.Fprintf(in.out, "%-8s  %-12s  %-10s  %7d  %10.2e  %-10s  %s\n",
			shortID(r.RunID), r.Model, r.Target, r.Horizon, r.MaxResidual, r.Decision, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region attempts-mode

type attemptRow struct {
	RunID     string `json:"run_id"`
	Model     string `json:"model"`
	Target    string `json:"target_variable"`
	Decision  string `json:"decision"`
	Reason    string `json:"reason,omitempty"`
	Request   string `json:"request,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (in *inspector) attemptsCmd() *cobra.Command {
	var last int
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "Show recent solve attempts, failures included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return in.runAttempts(last, jsonOut)
		},
	}
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent attempts")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

func (in *inspector) runAttempts(last int, jsonOut bool) error {
	attempts, err := in.store.ListAttempts(last)
	if err != nil {
		return err
	}
	rows := make([]attemptRow, len(attempts))
	for i, a := range attempts {
		rows[len(attempts)-1-i] = attemptRow{
			RunID:     a.RunID,
			Model:     a.ModelName,
			Target:    a.TargetVariable,
			Decision:  a.Decision,
			Reason:    a.Reason,
			Request:   a.RequestJSON,
			CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	if jsonOut {
		return printJSON(in.out, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no attempts found")
		return nil
	}
	fmt.Fprintf(in.out, "%-8s  %-12s  %-10s  %-18s  %s\n", "Run", "Model", "Target", "Decision", "Reason")
	for _, r := range rows {
		fmt.Fprintf(in.out, "%-8s  %-12s  %-10s  %-18s  %s\n",
			shortID(r.RunID), r.Model, r.Target, r.Decision, r.Reason)
	}
	return nil
}

// #endregion attempts-mode
