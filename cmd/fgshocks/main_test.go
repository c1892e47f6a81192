package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/fgshocks/internal/export"
	"github.com/danielpatrickdp/fgshocks/internal/logging"
	"github.com/danielpatrickdp/fgshocks/internal/runstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// #region helpers

// execute runs the root command against a fresh ledger and returns stdout.
func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FGSHOCKS_DB", dbPath)
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func openLedger(t *testing.T, dbPath string) *runstore.Store {
	t.Helper()
	s, err := runstore.NewStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var modelPath = filepath.Join("testdata", "nk4.yaml")

// #endregion helpers

// #region solve-tests

func TestSolve_RecordsRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, db, "solve", "--model", modelPath, "--target", "Rp",
		"--path", "-0.01,-0.01,-0.01,-0.01", "--no-chart")
	require.NoError(t, err)
	assert.Contains(t, out, "ui_3")
	assert.Contains(t, out, "Round trip: pass")

	s := openLedger(t, db)
	runs, err := s.ListWithProvenance(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "nk4", runs[0].ModelName)
	assert.Equal(t, 4, runs[0].Horizon())
	assert.Equal(t, 14, runs[0].IRFPeriods)
	assert.Equal(t, logging.DecisionSolved, runs[0].Decision)
	assert.InDelta(t, -0.025, runs[0].Shocks[3], 1e-12)

	want, err := filepath.Abs(modelPath)
	require.NoError(t, err)
	assert.Equal(t, want, runs[0].ModelPath)
}

func TestSolve_HoldJSONAndWorkbook(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "rshock.xlsx")

	out, err := execute(t, "none", "solve", "--model", modelPath, "--target", "Rp",
		"--hold", "-0.01", "--periods", "2", "--irf-periods", "6", "--no-chart",
		"--xlsx", xlsx, "--json")
	require.NoError(t, err)

	var r export.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, []float64{-0.01, -0.01}, r.TargetPath)
	assert.Len(t, r.Shocks, 2)
	assert.Len(t, r.Rows, 6)
	assert.Equal(t, "ui_0", r.Columns[0])

	_, err = os.Stat(xlsx)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "runs.db"))
	assert.True(t, os.IsNotExist(err), "ledger disabled")
}

func TestSolve_ChartFile(t *testing.T) {
	png := filepath.Join(t.TempDir(), "irf.png")

	_, err := execute(t, "none", "solve", "--model", modelPath, "--target", "Ihat",
		"--path", "0.01", "--chart", png)
	require.NoError(t, err)

	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestSolve_FailureIsLogged(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, db, "solve", "--model", modelPath, "--target", "Rp",
		"--path", "-0.01,-0.01,-0.01,-0.01,-0.01", "--no-chart")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui_4")

	s := openLedger(t, db)
	runs, err := s.List(10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	attempts, err := s.ListAttempts(10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, logging.DecisionUnknownVariable, attempts[0].Decision)
	assert.Contains(t, attempts[0].RequestJSON, `"target_variable":"Rp"`)
}

func TestSolve_FlagErrors(t *testing.T) {
	cases := map[string][]string{
		"no path":        {"solve", "--model", modelPath, "--target", "Rp"},
		"path and hold":  {"solve", "--model", modelPath, "--target", "Rp", "--path", "1", "--hold", "1"},
		"periods alone":  {"solve", "--model", modelPath, "--target", "Rp", "--path", "1", "--periods", "2"},
		"missing target": {"solve", "--model", modelPath, "--path", "1"},
		"missing model":  {"solve", "--model", "testdata/absent.yaml", "--target", "Rp", "--path", "1"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, "none", args...)
			assert.Error(t, err)
		})
	}
}

// #endregion solve-tests

// #region batch-tests

func TestBatch_Scenarios(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, db, "batch", "--scenarios", filepath.Join("testdata", "scenarios.yaml"), "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "4 scenarios: 2 solved, 0 rejected, 2 failed, 0 not as expected")

	s := openLedger(t, db)
	runs, err := s.List(10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	for _, r := range runs {
		assert.True(t, filepath.IsAbs(r.ModelPath), "model path %q", r.ModelPath)
	}
	attempts, err := s.ListAttempts(10)
	require.NoError(t, err)
	assert.Len(t, attempts, 4)
}

func TestBatch_JSON(t *testing.T) {
	out, err := execute(t, "none", "batch", "--scenarios", filepath.Join("testdata", "scenarios.yaml"), "--json")
	require.NoError(t, err)

	var rows []batchRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, "rshock", rows[0].Name)
	assert.Equal(t, "ok", rows[0].Check)
	assert.Equal(t, logging.DecisionUnknownVariable, rows[3].Decision)
	assert.NotEmpty(t, rows[3].Error)
}

// #endregion batch-tests

// #region simulate-validate-tests

func TestSimulate_Table(t *testing.T) {
	out, err := execute(t, "none", "simulate", "--model", modelPath,
		"--shock", "ui_1=1", "--periods", "3", "--vars", "ui_0,Ihat")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"t", "ui_0", "Ihat"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "1", "0.4"}, strings.Fields(lines[2]))
}

func TestSimulate_BadAssignment(t *testing.T) {
	for _, bad := range []string{"ui_1", "=1", "ui_1=x"} {
		_, err := parseAssignments([]string{bad})
		assert.Error(t, err, bad)
	}
	_, err := parseAssignments([]string{"ui_1=1", "ui_1=2"})
	assert.Error(t, err)

	got, err := parseAssignments([]string{" ui_2 = -0.5 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"ui_2": -0.5}, got)
}

func TestValidate_JSON(t *testing.T) {
	out, err := execute(t, "none", "validate", "--model", modelPath, "--json")
	require.NoError(t, err)

	var s modelSummary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "nk4", s.Name)
	assert.Equal(t, 4, s.MaxHorizon)
	assert.Empty(t, s.OtherStates)
	assert.Equal(t, []string{"Rnhat"}, s.Shocks)
}

func TestValidate_NoShockStates(t *testing.T) {
	_, err := execute(t, "none", "validate", "--model", modelPath, "--prefix", "news_")
	assert.ErrorContains(t, err, "news_0")
}

// #endregion simulate-validate-tests
