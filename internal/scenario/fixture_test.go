package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/fgshocks/internal/guidance"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// #region fixture-tests

func TestLoadFile_YAML(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "scenarios.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "nk4.yaml"), f.Model)
	assert.Equal(t, 1e-9, f.Tolerance)
	require.Len(t, f.Scenarios, 4)

	scs, err := f.ToScenarios()
	require.NoError(t, err)

	r := scs[0]
	assert.Equal(t, "rshock", r.Name)
	assert.Equal(t, []float64{-0.01, -0.01, -0.01, -0.01}, r.Request.TargetPath)
	assert.Equal(t, "Rp", r.Request.TargetVariable)
	assert.Equal(t, guidance.DefaultShockPrefix, r.Request.ShockPrefix)
	assert.Equal(t, guidance.DefaultPostShockPeriods, r.Request.PostShockPeriods)
	assert.Equal(t, guidance.ChartOff, r.Request.Chart)
	assert.Len(t, r.ExpectedShocks, 4)

	assert.Equal(t, "unknown_variable", scs[3].ExpectedDecision)
}

func TestLoadFile_JSONDefaults(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "scenarios.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTolerance, f.Tolerance)

	scs, err := f.ToScenarios()
	require.NoError(t, err)
	require.Len(t, scs, 1)

	want := guidance.Request{
		TargetPath:     []float64{-0.01},
		TargetVariable: "Rp",
		ShockPrefix:    "ui_",
		Chart:          guidance.ChartOff,
	}
	if diff := cmp.Diff(want, scs[0].Request); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.toml")
	doc := `model = "/models/nk.yaml"

[[scenarios]]
name = "peg"
target_variable = "Rp"
target_path = [0.01, 0.02]
chart = "path"
chart_path = "peg.png"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/models/nk.yaml", f.Model)

	scs, err := f.ToScenarios()
	require.NoError(t, err)
	assert.Equal(t, guidance.ChartPath, scs[0].Request.Chart)
	assert.Equal(t, "peg.png", scs[0].Request.ChartPath)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "batch.txt"))
	assert.Error(t, err, "unsupported extension")

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"scenarios": [{"name": "x", "bogus": 1}]}`), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err, "unknown JSON field")
}

func TestToScenario_Validation(t *testing.T) {
	cases := map[string]FixtureScenario{
		"missing name":      {TargetVariable: "Rp", TargetPath: []float64{1}},
		"path and hold":     {Name: "a", TargetPath: []float64{1}, Hold: &Hold{Value: 1, Periods: 2}},
		"empty hold":        {Name: "a", Hold: &Hold{Value: 1}},
		"unknown chart":     {Name: "a", TargetPath: []float64{1}, Chart: "svg"},
		"path without file": {Name: "a", TargetPath: []float64{1}, Chart: "path"},
	}
	for name, fs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fs.ToScenario()
			assert.Error(t, err)
		})
	}
}

func TestToScenarios_DuplicateName(t *testing.T) {
	f := &File{Scenarios: []FixtureScenario{
		{Name: "a", TargetPath: []float64{1}},
		{Name: "a", TargetPath: []float64{2}},
	}}
	_, err := f.ToScenarios()
	assert.ErrorContains(t, err, "duplicate")
}

// #endregion fixture-tests
