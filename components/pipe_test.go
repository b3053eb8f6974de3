package components_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

func buildPipe(t *testing.T) *components.Pipe {
	t.Helper()
	p, err := components.NewPipe("pipe", 2.0, 0.02, 1.5e-5, 0.0, 1.8e-5)
	require.NoError(t, err)

	return p
}

// TestPipeZeroDrop: equal port states produce zero flow.
func TestPipeZeroDrop(t *testing.T) {
	m := fluid.NewPerfectGas()
	st := n2State(t, m, 101325.0, 300.0)

	mdot, err := buildPipe(t).Mdot(m, st, st)
	require.NoError(t, err)
	assert.Zero(t, mdot)
}

// TestPipeRoundTrip: invert Δp→mdot, then mdot→Δp; the drop is recovered
// within the bisection tolerance (<100 Pa for a ~50 kPa drop).
func TestPipeRoundTrip(t *testing.T) {
	m := fluid.NewPerfectGas()
	in := n2State(t, m, 150_000.0, 300.0)
	out := n2State(t, m, 100_000.0, 300.0)
	p := buildPipe(t)

	mdot, err := p.Mdot(m, in, out)
	require.NoError(t, err)
	require.Greater(t, mdot, 0.0)

	dp, err := p.DeltaP(m, in, out, mdot)
	require.NoError(t, err)
	assert.InDelta(t, 50_000.0, dp, 100.0)
}

// TestPipeReverseFlowSign: swapping the gradient flips the flow sign.
func TestPipeReverseFlowSign(t *testing.T) {
	m := fluid.NewPerfectGas()
	hi := n2State(t, m, 150_000.0, 300.0)
	lo := n2State(t, m, 100_000.0, 300.0)
	p := buildPipe(t)

	fwd, err := p.Mdot(m, hi, lo)
	require.NoError(t, err)
	rev, err := p.Mdot(m, lo, hi)
	require.NoError(t, err)
	assert.Greater(t, fwd, 0.0)
	assert.Less(t, rev, 0.0)
	assert.InDelta(t, fwd, math.Abs(rev), 1e-9)
}

// TestPipeMonotoneInDrop: a larger drop drives a larger flow.
func TestPipeMonotoneInDrop(t *testing.T) {
	m := fluid.NewPerfectGas()
	out := n2State(t, m, 100_000.0, 300.0)
	p := buildPipe(t)

	prev := 0.0
	for _, pin := range []float64{105_000.0, 120_000.0, 150_000.0, 200_000.0} {
		mdot, err := p.Mdot(m, n2State(t, m, pin, 300.0), out)
		require.NoError(t, err)
		assert.Greater(t, mdot, prev, "p_in=%g", pin)
		prev = mdot
	}
}

func TestPipeInvalidArgs(t *testing.T) {
	for _, tc := range []struct {
		name                                  string
		length, diameter, roughness, k, visco float64
	}{
		{"zero length", 0, 0.02, 0, 0, 1.8e-5},
		{"zero diameter", 1, 0, 0, 0, 1.8e-5},
		{"negative roughness", 1, 0.02, -1e-6, 0, 1.8e-5},
		{"negative k_minor", 1, 0.02, 0, -0.5, 1.8e-5},
		{"zero viscosity", 1, 0.02, 0, 0, 0},
	} {
		_, err := components.NewPipe(tc.name, tc.length, tc.diameter, tc.roughness, tc.k, tc.visco)
		assert.True(t, errors.Is(err, core.ErrInvalidArg), tc.name)
	}
}
