package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNG_Render(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFilename)
	series := []Series{
		{Label: "Real rate", Values: []float64{-0.01, -0.01, -0.01, 0, 0}},
		{Label: "Output", Values: []float64{0.2, 0.15, 0.1, 0.05, 0}},
	}

	require.NoError(t, NewPNG().Render(path, series))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")), "not a PNG file")
}

func TestPNG_RenderEmpty(t *testing.T) {
	err := NewPNG().Render(filepath.Join(t.TempDir(), "x.png"), nil)
	assert.Error(t, err)
}
