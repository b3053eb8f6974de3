package timeseries

import (
	"fmt"

	"github.com/kyleas/thermoflow-sub000/core"
)

// Recording is a decimated state history: one time axis and one row of
// values per recorded instant.
type Recording struct {
	times  []float64
	rows   [][]float64
	labels []string
}

// NewRecording starts an empty recording. labels may be nil; when given
// they name the state columns for plotting and lookup.
func NewRecording(labels []string) *Recording {
	return &Recording{labels: append([]string(nil), labels...)}
}

// Append records one snapshot. The row is copied.
func (r *Recording) Append(t float64, row []float64) {
	r.times = append(r.times, t)
	r.rows = append(r.rows, append([]float64(nil), row...))
}

// Len returns the number of recorded instants.
func (r *Recording) Len() int { return len(r.times) }

// Times returns the time axis. The slice is shared; do not mutate.
func (r *Recording) Times() []float64 { return r.times }

// Labels returns the column labels, nil when unnamed.
func (r *Recording) Labels() []string { return r.labels }

// Row returns the recorded state at index i.
func (r *Recording) Row(i int) []float64 { return r.rows[i] }

// Column extracts one state column over time.
func (r *Recording) Column(col int) ([]float64, error) {
	if len(r.rows) == 0 || col < 0 || col >= len(r.rows[0]) {
		return nil, fmt.Errorf("timeseries: column %d out of range: %w", col, core.ErrInvalidArg)
	}
	out := make([]float64, len(r.rows))
	for i, row := range r.rows {
		out[i] = row[col]
	}

	return out, nil
}

// ColumnByLabel extracts the column with the given label.
func (r *Recording) ColumnByLabel(label string) ([]float64, error) {
	for i, l := range r.labels {
		if l == label {
			return r.Column(i)
		}
	}

	return nil, fmt.Errorf("timeseries: no column labelled %q: %w", label, core.ErrInvalidArg)
}
