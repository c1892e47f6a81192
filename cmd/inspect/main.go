// Command inspect reads the fgshocks run ledger.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/danielpatrickdp/fgshocks/internal/config"
	"github.com/danielpatrickdp/fgshocks/internal/runstore"
	"github.com/spf13/cobra"
)

// #region main

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// #endregion main

// #region root

type inspector struct {
	out    io.Writer
	dbPath string
	store  *runstore.Store
}

func newRootCmd(out io.Writer) *cobra.Command {
	in := &inspector{out: out}
	root := &cobra.Command{
		Use:          "inspect",
		Short:        "List, show and export runs recorded by fgshocks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				in.dbPath = cfg.DBPath
			}
			if _, err := os.Stat(in.dbPath); err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			s, err := runstore.NewStore(in.dbPath)
			if err != nil {
				return err
			}
			in.store = s
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if in.store != nil {
				return in.store.Close()
			}
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&in.dbPath, "db", "", "run ledger path (default $FGSHOCKS_DB)")
	root.AddCommand(in.listCmd(), in.attemptsCmd(), in.showCmd(), in.exportCmd())
	return root
}

// #endregion root

// #region output

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
