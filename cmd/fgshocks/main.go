// Command fgshocks solves for the anticipated shocks that make one variable
// of a linear state-space model follow a given path.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/danielpatrickdp/fgshocks/internal/config"
	"github.com/danielpatrickdp/fgshocks/internal/eval"
	"github.com/danielpatrickdp/fgshocks/internal/guidance"
	"github.com/danielpatrickdp/fgshocks/internal/logging"
	"github.com/danielpatrickdp/fgshocks/internal/runstore"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// #region main
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// #endregion main

// #region app
// noStore disables the run ledger when passed as --db.
const noStore = "none"

type app struct {
	out    io.Writer
	cfg    config.Config
	logger *zap.Logger

	dbPath  string
	verbose bool
	logJSON bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:   "fgshocks",
		Short: "Fit anticipated shocks so a model variable follows a target path",
		Long: `fgshocks reads a solved linear model (y = gx x, x' = hx x) and finds the
news-shock sequence prefix0..prefixN-1 that makes one control hit a target
path over N periods. The resulting impulse response is verified, optionally
charted and exported, and every attempt is recorded in the run ledger.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.dbPath, "db", "", `run ledger path (default $FGSHOCKS_DB; "none" disables)`)
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(a.solveCmd(), a.batchCmd(), a.simulateCmd(), a.validateCmd())
	return root
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = a.dbPath
	}
	cfg.Verbose = cfg.Verbose || a.verbose
	cfg.LogJSON = cfg.LogJSON || a.logJSON
	a.cfg = cfg

	a.logger, err = logging.NewLogger(cfg.Verbose, cfg.LogJSON)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// #endregion app

// #region helpers
func (a *app) runner() *guidance.Runner {
	ec := eval.DefaultEvalConfig()
	ec.MaxResidual = a.cfg.MaxResidual
	return guidance.NewRunner(a.logger, ec)
}

// loadModel reads a model file; FGSHOCKS_OUTPUT_DIR replaces its save folder.
func (a *app) loadModel(path string) (*statespace.Model, error) {
	m, err := statespace.Load(path)
	if err != nil {
		return nil, err
	}
	if a.cfg.OutputDir != "" {
		if err := m.WithPresentation(m.MainVars, m.MainVarNames, a.cfg.OutputDir); err != nil {
			return nil, err
		}
	}
	a.logger.Debug("model loaded",
		zap.String("path", path),
		zap.String("name", m.Name),
		zap.Int("controls", len(m.Controls())),
		zap.Int("states", len(m.States())),
		zap.Int("shocks", len(m.Shocks())),
	)
	return m, nil
}

// openStore returns nil when the ledger is disabled.
func (a *app) openStore() (*runstore.Store, error) {
	if a.cfg.DBPath == "" || a.cfg.DBPath == noStore {
		return nil, nil
	}
	return runstore.NewStore(a.cfg.DBPath)
}

// attempt is one solve to be written to the ledger.
type attempt struct {
	model     *statespace.Model
	modelPath string
	scenario  string
	parentID  string
	req       guidance.Request
	res       *guidance.Result
	err       error
}

// record saves a solved run and logs provenance for every attempt. Provenance
// failures are logged, not returned.
func (a *app) record(store *runstore.Store, at attempt) error {
	if store == nil {
		return nil
	}
	// absolute so inspect export can reload the model from any directory
	if abs, err := filepath.Abs(at.modelPath); err == nil {
		at.modelPath = abs
	}
	runID := uuid.New().String()
	decision := logging.DecisionFor(at.err)
	reason := ""
	if at.err != nil {
		reason = at.err.Error()
	}
	if at.res != nil {
		rec := at.res.Record(at.model.Name, at.modelPath)
		rec.ParentID = at.parentID
		if _, err := store.Save(rec); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		runID = rec.RunID
		reason = at.res.Verification.Reason
		if !at.res.Verification.Passed {
			decision = logging.DecisionRejected
		}
	}

	reqJSON, _ := json.Marshal(at.req.Record(at.modelPath, at.scenario))
	err := logging.LogOutcome(store.DB(), logging.ProvenanceEntry{
		RunID:          runID,
		ModelName:      at.model.Name,
		TargetVariable: at.req.TargetVariable,
		RequestJSON:    string(reqJSON),
		Decision:       decision,
		Reason:         reason,
	})
	if err != nil {
		a.logger.Warn("provenance not recorded", zap.String("run_id", runID), zap.Error(err))
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// #endregion helpers
