package timeseries_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/timeseries"
)

func TestRecordingColumns(t *testing.T) {
	rec := timeseries.NewRecording([]string{"tank.m", "tank.h"})
	rec.Append(0.0, []float64{1.0, 3.0e5})
	rec.Append(0.1, []float64{0.9, 3.1e5})
	rec.Append(0.2, []float64{0.8, 3.2e5})

	require.Equal(t, 3, rec.Len())
	assert.Equal(t, []float64{0.0, 0.1, 0.2}, rec.Times())

	mass, err := rec.Column(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 0.9, 0.8}, mass)

	h, err := rec.ColumnByLabel("tank.h")
	require.NoError(t, err)
	assert.Equal(t, 3.2e5, h[2])

	_, err = rec.Column(7)
	assert.True(t, errors.Is(err, core.ErrInvalidArg))
	_, err = rec.ColumnByLabel("missing")
	assert.True(t, errors.Is(err, core.ErrInvalidArg))
}

func TestRecordingAppendCopiesRow(t *testing.T) {
	rec := timeseries.NewRecording(nil)
	row := []float64{1.0}
	rec.Append(0.0, row)
	row[0] = 99.0

	assert.Equal(t, 1.0, rec.Row(0)[0])
}

func TestPlotPNG(t *testing.T) {
	rec := timeseries.NewRecording([]string{"tank.m"})
	for i := 0; i < 20; i++ {
		rec.Append(float64(i)*0.01, []float64{1.0 - 0.01*float64(i)})
	}

	path := filepath.Join(t.TempDir(), "mass.png")
	require.NoError(t, rec.PlotPNG(path, "tank blowdown", "mass [kg]", 0))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	err = rec.PlotPNG(filepath.Join(t.TempDir(), "x.png"), "t", "y")
	assert.True(t, errors.Is(err, core.ErrInvalidArg))
}
