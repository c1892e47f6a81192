package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielpatrickdp/fgshocks/internal/guidance"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultTolerance bounds |solved - expected| per shock when a file sets none.
const DefaultTolerance = 1e-9

// #region fixture-types

// File is the on-disk form of a batch of scenarios against one model.
type File struct {
	Description string            `json:"description" yaml:"description" toml:"description"`
	Model       string            `json:"model" yaml:"model" toml:"model"` // relative to the scenario file
	Tolerance   float64           `json:"tolerance" yaml:"tolerance" toml:"tolerance"`
	Scenarios   []FixtureScenario `json:"scenarios" yaml:"scenarios" toml:"scenarios"`
}

// FixtureScenario mirrors Scenario with serialization tags.
type FixtureScenario struct {
	Name             string    `json:"name" yaml:"name" toml:"name"`
	TargetVariable   string    `json:"target_variable" yaml:"target_variable" toml:"target_variable"`
	ShockPrefix      string    `json:"shock_prefix" yaml:"shock_prefix" toml:"shock_prefix"`
	TargetPath       []float64 `json:"target_path" yaml:"target_path" toml:"target_path"`
	Hold             *Hold     `json:"hold" yaml:"hold" toml:"hold"`
	IRFPeriods       int       `json:"irf_periods" yaml:"irf_periods" toml:"irf_periods"`
	PostShockPeriods *int      `json:"post_shock_periods" yaml:"post_shock_periods" toml:"post_shock_periods"`
	Chart            string    `json:"chart" yaml:"chart" toml:"chart"`
	ChartPath        string    `json:"chart_path" yaml:"chart_path" toml:"chart_path"`
	ExpectedShocks   []float64 `json:"expected_shocks" yaml:"expected_shocks" toml:"expected_shocks"`
	ExpectedDecision string    `json:"expected_decision" yaml:"expected_decision" toml:"expected_decision"`
}

// Hold is a constant target path: Value for Periods periods.
type Hold struct {
	Value   float64 `json:"value" yaml:"value" toml:"value"`
	Periods int     `json:"periods" yaml:"periods" toml:"periods"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFile reads a JSON, YAML or TOML scenario file. A relative model path is
// resolved against the file's directory.
func LoadFile(path string) (*File, error) {
	format, err := statespace.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios %s: %w", path, err)
	}
	var f File
	switch format {
	case statespace.FormatYAML:
		err = yaml.Unmarshal(data, &f)
	case statespace.FormatTOML:
		err = toml.Unmarshal(data, &f)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse scenarios %s: %w", path, err)
	}
	if f.Model != "" && !filepath.IsAbs(f.Model) {
		f.Model = filepath.Join(filepath.Dir(path), f.Model)
	}
	if f.Tolerance <= 0 {
		f.Tolerance = DefaultTolerance
	}
	return &f, nil
}

// ToScenarios converts every fixture to a domain Scenario.
func (f *File) ToScenarios() ([]Scenario, error) {
	out := make([]Scenario, 0, len(f.Scenarios))
	seen := make(map[string]bool, len(f.Scenarios))
	for i := range f.Scenarios {
		sc, err := f.Scenarios[i].ToScenario()
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
		if seen[sc.Name] {
			return nil, fmt.Errorf("scenario %d: duplicate name %q", i, sc.Name)
		}
		seen[sc.Name] = true
		out = append(out, sc)
	}
	return out, nil
}

// ToScenario converts a fixture to a domain Scenario, filling request defaults.
func (fs *FixtureScenario) ToScenario() (Scenario, error) {
	if fs.Name == "" {
		return Scenario{}, fmt.Errorf("missing name")
	}
	path := fs.TargetPath
	if fs.Hold != nil {
		if len(path) > 0 {
			return Scenario{}, fmt.Errorf("%s: target_path and hold are exclusive", fs.Name)
		}
		if fs.Hold.Periods < 1 {
			return Scenario{}, fmt.Errorf("%s: hold periods must be >= 1, got %d", fs.Name, fs.Hold.Periods)
		}
		path = make([]float64, fs.Hold.Periods)
		for i := range path {
			path[i] = fs.Hold.Value
		}
	}

	req := guidance.NewRequest(fs.TargetVariable, path)
	if fs.ShockPrefix != "" {
		req.ShockPrefix = fs.ShockPrefix
	}
	req.IRFPeriods = fs.IRFPeriods
	if fs.PostShockPeriods != nil {
		req.PostShockPeriods = *fs.PostShockPeriods
	}
	switch guidance.ChartMode(fs.Chart) {
	case "", guidance.ChartAuto:
	case guidance.ChartOff:
		req.Chart = guidance.ChartOff
	case guidance.ChartPath:
		if fs.ChartPath == "" {
			return Scenario{}, fmt.Errorf("%s: chart mode %q needs chart_path", fs.Name, fs.Chart)
		}
		req.Chart = guidance.ChartPath
		req.ChartPath = fs.ChartPath
	default:
		return Scenario{}, fmt.Errorf("%s: unknown chart mode %q", fs.Name, fs.Chart)
	}

	return Scenario{
		Name:             fs.Name,
		Request:          req,
		ExpectedShocks:   fs.ExpectedShocks,
		ExpectedDecision: fs.ExpectedDecision,
	}, nil
}

// #endregion fixture-loader
