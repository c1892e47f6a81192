package statespace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// #region definition
// Definition is the on-disk form of a Model as produced by an external solver.
// Gx and Hx are row-major.
type Definition struct {
	Name         string      `yaml:"name" toml:"name" json:"name"`
	Controls     []string    `yaml:"controls" toml:"controls" json:"controls"`
	States       []string    `yaml:"states" toml:"states" json:"states"`
	Shocks       []string    `yaml:"shocks" toml:"shocks" json:"shocks"`
	Gx           [][]float64 `yaml:"gx" toml:"gx" json:"gx"`
	Hx           [][]float64 `yaml:"hx" toml:"hx" json:"hx"`
	MainVars     []string    `yaml:"main_vars" toml:"main_vars" json:"main_vars"`
	MainVarNames []string    `yaml:"main_var_names" toml:"main_var_names" json:"main_var_names"`
	SaveFolder   string      `yaml:"save_folder" toml:"save_folder" json:"save_folder"`
}

// Build validates the definition and returns the Model.
func (d Definition) Build() (*Model, error) {
	if len(d.Controls) == 0 {
		return nil, mismatch("control count", 1, 0)
	}
	nx := len(d.States) + len(d.Shocks)
	if nx == 0 {
		return nil, mismatch("state count", 1, 0)
	}
	gx, err := denseFromRows("gx", d.Gx, len(d.Controls), nx)
	if err != nil {
		return nil, err
	}
	hx, err := denseFromRows("hx", d.Hx, nx, nx)
	if err != nil {
		return nil, err
	}
	m, err := NewModel(d.Controls, d.States, d.Shocks, gx, hx)
	if err != nil {
		return nil, err
	}
	m.Name = d.Name
	if err := m.WithPresentation(d.MainVars, d.MainVarNames, d.SaveFolder); err != nil {
		return nil, err
	}
	return m, nil
}

func denseFromRows(what string, rows [][]float64, r, c int) (*mat.Dense, error) {
	if len(rows) != r {
		return nil, mismatch(what+" rows", r, len(rows))
	}
	data := make([]float64, 0, r*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, mismatch(fmt.Sprintf("%s row %d columns", what, i), c, len(row))
		}
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data), nil
}

// #endregion definition

// #region load
// Format selects a model file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported model file extension %q", filepath.Ext(path))
	}
}

// Load reads and builds a model file. A relative save_folder is resolved
// against the model file's directory.
func Load(path string) (*Model, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	def, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if def.SaveFolder != "" && !filepath.IsAbs(def.SaveFolder) {
		def.SaveFolder = filepath.Join(filepath.Dir(path), def.SaveFolder)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def.Build()
}

// Decode parses a Definition without building it.
func Decode(data []byte, format Format) (Definition, error) {
	var def Definition
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &def)
	case FormatTOML:
		err = toml.Unmarshal(data, &def)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&def)
	default:
		return def, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return def, err
	}
	return def, nil
}

// #endregion load
