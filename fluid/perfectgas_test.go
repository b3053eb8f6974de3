package fluid_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

// TestPerfectGasN2Density checks ρ = p·M/(Ru·T) for nitrogen at 101325 Pa / 300 K.
func TestPerfectGasN2Density(t *testing.T) {
	m := fluid.NewPerfectGas()
	comp := fluid.Pure("N2")

	st, err := m.StateFromPT(comp, 101325.0, 300.0)
	require.NoError(t, err)

	rho, err := m.Rho(st)
	require.NoError(t, err)
	// 101325 * 28.0134 / (8314.462618 * 300) ≈ 1.1382 kg/m³
	assert.InDelta(t, 1.1382, rho, 1e-3)
}

// TestPerfectGasPHRoundTrip verifies StateFromPT → StateFromPH consistency.
func TestPerfectGasPHRoundTrip(t *testing.T) {
	m := fluid.NewPerfectGas()
	comp := fluid.Pure("N2")

	st, err := m.StateFromPT(comp, 500_000.0, 350.0)
	require.NoError(t, err)

	back, err := m.StateFromPH(comp, st.Pressure(), st.Enthalpy())
	require.NoError(t, err)
	assert.InDelta(t, 350.0, back.Temperature(), 1e-9)
}

// TestPerfectGasDirectInversion: derive (ρ,h) from a (P,T) state and invert.
func TestPerfectGasDirectInversion(t *testing.T) {
	m := fluid.NewPerfectGas()
	comp := fluid.Pure("N2")

	st, err := m.StateFromPT(comp, 2e6, 280.0)
	require.NoError(t, err)
	rho, err := m.Rho(st)
	require.NoError(t, err)

	p, ok, err := m.PressureFromRhoH(comp, rho, st.Enthalpy(), 280.0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InEpsilon(t, 2e6, p, 1e-9)
}

func TestPerfectGasGammaAndSoundSpeed(t *testing.T) {
	m := fluid.NewPerfectGas()
	st, err := m.StateFromPT(fluid.Pure("N2"), 101325.0, 300.0)
	require.NoError(t, err)

	gamma, err := m.Gamma(st)
	require.NoError(t, err)
	assert.InDelta(t, 1.40, gamma, 0.01)

	a, err := m.SpeedOfSound(st)
	require.NoError(t, err)
	assert.InDelta(t, 353.0, a, 3.0)
}

func TestPerfectGasInvalidInputs(t *testing.T) {
	m := fluid.NewPerfectGas()
	comp := fluid.Pure("N2")

	_, err := m.StateFromPT(comp, -1.0, 300.0)
	assert.True(t, errors.Is(err, core.ErrInvalidState))

	_, err = m.StateFromPT(comp, 101325.0, 0.0)
	assert.True(t, errors.Is(err, core.ErrInvalidState))

	// Enthalpy below the datum implies a negative temperature.
	_, err = m.StateFromPH(comp, 101325.0, -1e6)
	assert.True(t, errors.Is(err, core.ErrInvalidState))

	_, err = m.StateFromPT(fluid.Pure("Xe"), 101325.0, 300.0)
	assert.True(t, errors.Is(err, fluid.ErrUnknownSpecies))
}

// TestMixtureNormalization: fractions are normalized and mixture cp is mass-weighted.
func TestMixtureNormalization(t *testing.T) {
	m := fluid.NewPerfectGas()
	comp := fluid.NewComposition(map[string]float64{"N2": 3.0, "O2": 1.0})

	assert.InDelta(t, 0.75, comp.Fraction("N2"), 1e-12)
	assert.InDelta(t, 0.25, comp.Fraction("O2"), 1e-12)

	st, err := m.StateFromPT(comp, 101325.0, 300.0)
	require.NoError(t, err)
	cp, err := m.Cp(st)
	require.NoError(t, err)
	assert.InDelta(t, 0.75*1040.0+0.25*918.0, cp, 1e-9)
}

// TestFrozenSurrogateTracksReference: near the reference state the surrogate
// reproduces the full backend; the direct inversion stays within 1%.
func TestFrozenSurrogateTracksReference(t *testing.T) {
	m := fluid.NewPerfectGas()
	comp := fluid.Pure("N2")
	ref, err := m.StateFromPT(comp, 500_000.0, 300.0)
	require.NoError(t, err)

	sur, err := fluid.NewFrozenSurrogate(m, ref)
	require.NoError(t, err)

	st, err := sur.StateFromPT(comp, 450_000.0, 310.0)
	require.NoError(t, err)
	full, err := m.StateFromPT(comp, 450_000.0, 310.0)
	require.NoError(t, err)
	assert.InEpsilon(t, full.Enthalpy(), st.Enthalpy(), 1e-6)

	rho, err := sur.Rho(st)
	require.NoError(t, err)
	p, ok, err := sur.PressureFromRhoH(comp, rho, st.Enthalpy(), 310.0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InEpsilon(t, 450_000.0, p, 0.01)
}
