// Package export writes solved runs to spreadsheet and JSON files.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danielpatrickdp/fgshocks/internal/impulse"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"github.com/xuri/excelize/v2"
)

const (
	trajectorySheet = "trajectory"
	shocksSheet     = "shocks"
)

// #region report
// Report is the exportable view of one run.
type Report struct {
	RunID          string      `json:"run_id,omitempty"`
	Model          string      `json:"model"`
	TargetVariable string      `json:"target_variable"`
	ShockPrefix    string      `json:"shock_prefix"`
	TargetPath     []float64   `json:"target_path"`
	Shocks         []float64   `json:"shocks"`
	Columns        []string    `json:"columns,omitempty"`
	Rows           [][]float64 `json:"rows,omitempty"`
}

// WithTrajectory copies every trajectory row under the model's combined names.
func (r Report) WithTrajectory(m *statespace.Model, tr *impulse.Trajectory) Report {
	r.Columns = m.CombinedNames()
	r.Rows = make([][]float64, tr.Periods())
	for t := range r.Rows {
		row := make([]float64, tr.Width())
		for c := range row {
			row[c] = tr.At(t, c)
		}
		r.Rows[t] = row
	}
	return r
}

// #endregion report

// #region xlsx
// WriteXLSX saves the report as a workbook with a trajectory sheet (when rows
// are present) and a shocks sheet.
func WriteXLSX(path string, r Report) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Workbook builds the in-memory workbook.
func Workbook(r Report) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", shocksSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	headers := []any{"horizon", "shock_state", "shock", "target_" + r.TargetVariable}
	if err := f.SetSheetRow(shocksSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("shocks header: %w", err)
	}
	for k, v := range r.Shocks {
		row := []any{k, statespace.ShockStateName(r.ShockPrefix, k), v}
		if k < len(r.TargetPath) {
			row = append(row, r.TargetPath[k])
		}
		cell, _ := excelize.CoordinatesToCellName(1, k+2)
		if err := f.SetSheetRow(shocksSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("shocks row %d: %w", k, err)
		}
	}
	f.SetRowStyle(shocksSheet, 1, 1, headerStyle)

	if len(r.Rows) > 0 {
		if _, err := f.NewSheet(trajectorySheet); err != nil {
			return nil, fmt.Errorf("trajectory sheet: %w", err)
		}
		header := make([]any, 0, len(r.Columns)+1)
		header = append(header, "period")
		for _, c := range r.Columns {
			header = append(header, c)
		}
		if err := f.SetSheetRow(trajectorySheet, "A1", &header); err != nil {
			return nil, fmt.Errorf("trajectory header: %w", err)
		}
		for t, vals := range r.Rows {
			row := make([]any, 0, len(vals)+1)
			row = append(row, t)
			for _, v := range vals {
				row = append(row, v)
			}
			cell, _ := excelize.CoordinatesToCellName(1, t+2)
			if err := f.SetSheetRow(trajectorySheet, cell, &row); err != nil {
				return nil, fmt.Errorf("trajectory row %d: %w", t, err)
			}
		}
		f.SetRowStyle(trajectorySheet, 1, 1, headerStyle)
	}

	f.SetColWidth(shocksSheet, "B", "B", 16)
	return f, nil
}

// #endregion xlsx

// #region json
// WriteJSON encodes the report with two-space indentation.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// #endregion json
