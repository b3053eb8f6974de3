package timeseries

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/kyleas/thermoflow-sub000/core"
)

// PlotPNG renders the given columns against time into a PNG file.
// Column labels become the legend; unnamed columns are numbered.
func (r *Recording) PlotPNG(path, title, yLabel string, cols ...int) error {
	if r.Len() == 0 {
		return fmt.Errorf("timeseries: nothing recorded: %w", core.ErrInvalidState)
	}
	if len(cols) == 0 {
		return fmt.Errorf("timeseries: no columns selected: %w", core.ErrInvalidArg)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time [s]"
	p.Y.Label.Text = yLabel

	var series []interface{}
	for _, col := range cols {
		values, err := r.Column(col)
		if err != nil {
			return err
		}
		pts := make(plotter.XYs, len(values))
		for i, v := range values {
			pts[i].X = r.times[i]
			pts[i].Y = v
		}
		name := fmt.Sprintf("state[%d]", col)
		if col < len(r.labels) && r.labels[col] != "" {
			name = r.labels[col]
		}
		series = append(series, name, pts)
	}
	if err := plotutil.AddLinePoints(p, series...); err != nil {
		return fmt.Errorf("timeseries: building plot: %w", err)
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("timeseries: saving %s: %w", path, err)
	}

	return nil
}
