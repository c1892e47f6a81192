package statespace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLoad_AllFormatsAgree(t *testing.T) {
	var models []*Model
	for _, name := range []string{"small.yaml", "small.toml", "small.json"} {
		m, err := Load(filepath.Join("testdata", name))
		require.NoError(t, err, name)
		models = append(models, m)
	}

	ref := models[0]
	assert.Equal(t, "small", ref.Name)
	assert.Equal(t, []string{"r", "y"}, ref.Controls())
	assert.Equal(t, []string{"eps"}, ref.Shocks())
	assert.Equal(t, []string{"Real rate", "Output", "Capital"}, ref.MainVarNames)
	assert.Equal(t, filepath.Join("testdata", "out"), ref.SaveFolder)

	for _, m := range models[1:] {
		assert.True(t, mat.Equal(ref.Gx(), m.Gx()))
		assert.True(t, mat.Equal(ref.Hx(), m.Hx()))
		if diff := cmp.Diff(ref.CombinedNames(), m.CombinedNames()); diff != "" {
			t.Errorf("combined names differ (-yaml +other):\n%s", diff)
		}
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("model.xml")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_DefaultsNameToFileStem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nk.yaml")
	doc := "controls: [y]\nstates: [x]\ngx: [[1.0]]\nhx: [[0.5]]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nk", m.Name)
	assert.Equal(t, []string{"y"}, m.MainVars)
}

func TestDefinitionBuild_RaggedRows(t *testing.T) {
	def := Definition{
		Controls: []string{"y"},
		States:   []string{"a", "b"},
		Gx:       [][]float64{{1, 2}},
		Hx:       [][]float64{{1, 0}, {0}},
	}
	_, err := def.Build()
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDefinitionBuild_NoControls(t *testing.T) {
	_, err := Definition{States: []string{"a"}}.Build()
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDecode_JSONRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"controls":["y"],"bogus":1}`), FormatJSON)
	assert.Error(t, err)
}
