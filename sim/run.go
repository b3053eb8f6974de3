package sim

import (
	"fmt"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/timeseries"
)

// RunOptions configures a fixed-step transient run.
type RunOptions struct {
	// Dt is the fixed step in seconds.
	Dt float64

	// TEnd is the final time in seconds.
	TEnd float64

	// MaxSteps is a safety bound on the number of steps.
	MaxSteps int

	// RecordEvery decimates recording to every N-th step. The initial
	// and final states are always recorded.
	RecordEvery int

	// Integrator selects the stepper; nil means RK4.
	Integrator Integrator
}

// DefaultRunOptions returns 1 ms steps to 1 s, RK4, recording every
// tenth step.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Dt:          1e-3,
		TEnd:        1.0,
		MaxSteps:    100_000,
		RecordEvery: 10,
		Integrator:  RK4{},
	}
}

// StateLabeler lets a model name its state columns for recording.
type StateLabeler interface {
	StateLabels() []string
}

// Run integrates the model from t=0 with fixed steps and returns the
// decimated state history. Errors from a step propagate unchanged; the
// caller owns any cutback or retry policy.
func Run(m TransientModel, opts RunOptions) (*timeseries.Recording, error) {
	if opts.Dt <= 0 {
		return nil, fmt.Errorf("sim: dt=%g s must be positive: %w", opts.Dt, core.ErrInvalidArg)
	}
	if opts.TEnd < 0 {
		return nil, fmt.Errorf("sim: t_end=%g s must be non-negative: %w", opts.TEnd, core.ErrInvalidArg)
	}
	if opts.MaxSteps <= 0 {
		return nil, fmt.Errorf("sim: max_steps=%d must be positive: %w", opts.MaxSteps, core.ErrInvalidArg)
	}
	if opts.RecordEvery <= 0 {
		return nil, fmt.Errorf("sim: record_every=%d must be positive: %w", opts.RecordEvery, core.ErrInvalidArg)
	}
	integ := opts.Integrator
	if integ == nil {
		integ = RK4{}
	}

	var labels []string
	if l, ok := m.(StateLabeler); ok {
		labels = l.StateLabels()
	}

	t := 0.0
	x := m.InitialState()
	rec := timeseries.NewRecording(labels)
	rec.Append(t, x)

	step := 0
	for t < opts.TEnd && step < opts.MaxSteps {
		next, err := integ.Step(m, t, x, opts.Dt)
		if err != nil {
			return nil, fmt.Errorf("sim: step %d at t=%g s: %w", step, t, err)
		}
		x = next
		t += opts.Dt
		step++

		if step%opts.RecordEvery == 0 {
			rec.Append(t, x)
		}
	}
	if step%opts.RecordEvery != 0 {
		rec.Append(t, x)
	}

	return rec, nil
}
