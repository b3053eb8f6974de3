package components_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

// n2State builds a nitrogen state at (p, t) with the perfect-gas backend.
func n2State(t *testing.T, m fluid.Model, p, temp float64) fluid.ThermoState {
	t.Helper()
	st, err := m.StateFromPT(fluid.Pure("N2"), p, temp)
	require.NoError(t, err)

	return st
}

// TestOrificeZeroDrop: equal port states produce zero flow.
func TestOrificeZeroDrop(t *testing.T) {
	m := fluid.NewPerfectGas()
	st := n2State(t, m, 101325.0, 300.0)

	o, err := components.NewOrifice("orf", 0.7, 1e-3)
	require.NoError(t, err)

	mdot, err := o.Mdot(m, st, st)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, mdot, 1e-9)
}

// TestOrificeN2Blowdown: cd=0.7, area=1e-4 m², N2 at 500 kPa/300 K upstream
// against 100 kPa/300 K gives a positive, finite flow below 10 kg/s.
func TestOrificeN2Blowdown(t *testing.T) {
	m := fluid.NewPerfectGas()
	in := n2State(t, m, 500_000.0, 300.0)
	out := n2State(t, m, 100_000.0, 300.0)

	o, err := components.NewOrifice("orf", 0.7, 1e-4)
	require.NoError(t, err)

	mdot, err := o.Mdot(m, in, out)
	require.NoError(t, err)
	assert.Greater(t, mdot, 0.0)
	assert.Less(t, mdot, 10.0)
}

// TestOrificeReverseFlow: a higher outlet pressure produces negative flow
// of the same magnitude as the mirrored configuration.
func TestOrificeReverseFlow(t *testing.T) {
	m := fluid.NewPerfectGas()
	hi := n2State(t, m, 400_000.0, 300.0)
	lo := n2State(t, m, 150_000.0, 300.0)

	o, err := components.NewOrifice("orf", 0.7, 1e-4)
	require.NoError(t, err)

	fwd, err := o.Mdot(m, hi, lo)
	require.NoError(t, err)
	rev, err := o.Mdot(m, lo, hi)
	require.NoError(t, err)
	assert.InDelta(t, fwd, -rev, 1e-12)
	assert.Greater(t, fwd, 0.0)
}

// TestOrificeChokingPlateau: once the pressure ratio is below critical,
// lowering the back pressure further does not change the flow.
func TestOrificeChokingPlateau(t *testing.T) {
	m := fluid.NewPerfectGas()
	in := n2State(t, m, 1_000_000.0, 300.0)

	o, err := components.NewCompressibleOrifice("orf", 0.7, 1e-4)
	require.NoError(t, err)

	// For γ≈1.4 the critical ratio is ≈0.528: both back pressures are choked.
	mdotA, err := o.Mdot(m, in, n2State(t, m, 400_000.0, 300.0))
	require.NoError(t, err)
	mdotB, err := o.Mdot(m, in, n2State(t, m, 100_000.0, 300.0))
	require.NoError(t, err)
	assert.InEpsilon(t, mdotA, mdotB, 1e-9)
}

// TestOrificeIsenthalpic: outlet enthalpy equals inlet enthalpy.
func TestOrificeIsenthalpic(t *testing.T) {
	m := fluid.NewPerfectGas()
	in := n2State(t, m, 500_000.0, 350.0)
	out := n2State(t, m, 100_000.0, 300.0)

	o, err := components.NewOrifice("orf", 0.7, 1e-4)
	require.NoError(t, err)

	h, err := o.OutletEnthalpy(m, in, out, 0.1)
	require.NoError(t, err)
	assert.Equal(t, in.Enthalpy(), h)
}

func TestOrificeInvalidArgs(t *testing.T) {
	_, err := components.NewOrifice("bad", 0.0, 1e-4)
	assert.True(t, errors.Is(err, core.ErrInvalidArg))

	_, err = components.NewOrifice("bad", 0.7, -1e-4)
	assert.True(t, errors.Is(err, core.ErrInvalidArg))
}
