package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// #region validate-cmd
type validateOptions struct {
	model   string
	prefix  string
	jsonOut bool
}

type modelSummary struct {
	Name        string   `json:"name"`
	Controls    []string `json:"controls"`
	States      []string `json:"states"`
	Shocks      []string `json:"shocks"`
	ShockPrefix string   `json:"shock_prefix"`
	MaxHorizon  int      `json:"max_horizon"`
	OtherStates []string `json:"other_states"`
	MainVars    []string `json:"main_vars"`
	SaveFolder  string   `json:"save_folder,omitempty"`
}

func (a *app) validateCmd() *cobra.Command {
	var o validateOptions
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a model file, check its shapes and report its shock horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.model, "model", "", "model file")
	f.StringVar(&o.prefix, "prefix", "", "shock-state prefix (default $FGSHOCKS_SHOCK_PREFIX)")
	f.BoolVar(&o.jsonOut, "json", false, "print the summary as JSON")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func (a *app) runValidate(o validateOptions) error {
	m, err := a.loadModel(o.model)
	if err != nil {
		return err
	}
	prefix := a.cfg.ShockPrefix
	if o.prefix != "" {
		prefix = o.prefix
	}
	s := modelSummary{
		Name:        m.Name,
		Controls:    m.Controls(),
		States:      m.States(),
		Shocks:      m.Shocks(),
		ShockPrefix: prefix,
		MaxHorizon:  m.MaxHorizon(prefix),
		OtherStates: m.OtherStates(prefix),
		MainVars:    m.MainVars,
		SaveFolder:  m.SaveFolder,
	}
	if o.jsonOut {
		return printJSON(a.out, s)
	}

	fmt.Fprintf(a.out, "Model:        %s\n", s.Name)
	fmt.Fprintf(a.out, "Controls:     %d (%s)\n", len(s.Controls), strings.Join(s.Controls, ", "))
	fmt.Fprintf(a.out, "States:       %d\n", len(s.States))
	fmt.Fprintf(a.out, "Shocks:       %d (%s)\n", len(s.Shocks), strings.Join(s.Shocks, ", "))
	fmt.Fprintf(a.out, "Max horizon:  %d (%s0..)\n", s.MaxHorizon, prefix)
	fmt.Fprintf(a.out, "Other states: %s\n", orNone(s.OtherStates))
	fmt.Fprintf(a.out, "Main vars:    %s\n", orNone(s.MainVars))
	if s.MaxHorizon == 0 {
		return fmt.Errorf("model has no %s0 shock state", prefix)
	}
	return nil
}

func orNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// #endregion validate-cmd
