package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/fgshocks/internal/impulse"
	"github.com/danielpatrickdp/fgshocks/internal/statespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"
)

func sampleReport(t *testing.T) Report {
	t.Helper()
	gx := mat.NewDense(1, 2, []float64{1, 0.5})
	hx := mat.NewDense(2, 2, []float64{0, 1, 0, 0})
	m, err := statespace.NewModel([]string{"Rp"}, []string{"ui_0", "ui_1"}, nil, gx, hx)
	require.NoError(t, err)
	tr, err := impulse.Impulse{}.Simulate(m.Gx(), m.Hx(), mat.NewVecDense(2, []float64{-0.005, -0.01}), 3)
	require.NoError(t, err)

	r := Report{
		RunID:          "run-1",
		Model:          "demo",
		TargetVariable: "Rp",
		ShockPrefix:    "ui_",
		TargetPath:     []float64{-0.01, -0.01},
		Shocks:         []float64{-0.005, -0.01},
	}
	return r.WithTrajectory(m, tr)
}

func TestReport_WithTrajectory(t *testing.T) {
	r := sampleReport(t)
	assert.Equal(t, []string{"ui_0", "ui_1", "Rp"}, r.Columns)
	require.Len(t, r.Rows, 3)
	assert.Equal(t, []float64{-0.005, -0.01, -0.01}, r.Rows[0])
	assert.Equal(t, []float64{-0.01, 0, -0.01}, r.Rows[1])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xlsx")
	require.NoError(t, WriteXLSX(path, sampleReport(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{shocksSheet, trajectorySheet}, f.GetSheetList())

	v, err := f.GetCellValue(shocksSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "ui_1", v)

	v, err = f.GetCellValue(trajectorySheet, "D1")
	require.NoError(t, err)
	assert.Equal(t, "Rp", v)

	rows, err := f.GetRows(trajectorySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestWriteXLSX_ShocksOnly(t *testing.T) {
	r := sampleReport(t)
	r.Rows, r.Columns = nil, nil
	path := filepath.Join(t.TempDir(), "shocks.xlsx")
	require.NoError(t, WriteXLSX(path, r))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{shocksSheet}, f.GetSheetList())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport(t)))

	var back Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "run-1", back.RunID)
	assert.Equal(t, []float64{-0.005, -0.01}, back.Shocks)
}
