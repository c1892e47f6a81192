// Package chart renders trajectories as stacked line panels.
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultFilename is the chart written into a model's save folder.
const DefaultFilename = "fixvarirf.png"

// #region types
// Series is one labelled panel.
type Series struct {
	Label  string
	Values []float64
}

// Renderer persists a set of series to path.
type Renderer interface {
	Render(path string, series []Series) error
}

// PNG draws one panel per series, stacked vertically.
type PNG struct {
	Width       vg.Length
	PanelHeight vg.Length
}

// NewPNG returns a PNG renderer with the default panel geometry.
func NewPNG() PNG {
	return PNG{Width: 6 * vg.Inch, PanelHeight: 2 * vg.Inch}
}

// #endregion types

// #region render
// Render writes a PNG to path, creating parent directories.
func (r PNG) Render(path string, series []Series) error {
	if len(series) == 0 {
		return fmt.Errorf("render %s: no series", path)
	}
	plots := make([][]*plot.Plot, len(series))
	for i, s := range series {
		p, err := panel(s)
		if err != nil {
			return fmt.Errorf("panel %q: %w", s.Label, err)
		}
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(r.Width, r.PanelHeight*vg.Length(len(series)))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(series),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      2 * vg.Millimeter,
		PadTop:    vg.Millimeter,
		PadBottom: vg.Millimeter,
		PadLeft:   vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	return f.Close()
}

func panel(s Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Label
	p.X.Label.Text = "period"

	pts := make(plotter.XYs, len(s.Values))
	for t, v := range s.Values {
		pts[t].X = float64(t)
		pts[t].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}

	p.Add(plotter.NewGrid(), zero, line)
	return p, nil
}

// #endregion render
