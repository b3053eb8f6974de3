package fluid

import (
	"fmt"
	"math"

	"github.com/kyleas/thermoflow-sub000/core"
)

// Species holds the calorically perfect gas data for one species:
// molar mass in kg/kmol, cp in J/(kg·K), and the enthalpy datum
// h(TRef) = HRef so that h(T) = HRef + Cp·(T − TRef).
type Species struct {
	MolarMass float64
	Cp        float64
	TRef      float64
	HRef      float64
}

// PerfectGas is a calorically perfect ideal-gas property backend.
// It is exact for its own equation of state, cheap, and implements
// DirectInverter, which makes it the reference backend for tests.
type PerfectGas struct {
	species map[string]Species
}

// NewPerfectGas returns a backend preloaded with common gases:
// N2, O2, He, H2, CH4 and Air.
func NewPerfectGas() *PerfectGas {
	return &PerfectGas{species: map[string]Species{
		"N2":  {MolarMass: 28.0134, Cp: 1040.0},
		"O2":  {MolarMass: 31.9988, Cp: 918.0},
		"He":  {MolarMass: 4.0026, Cp: 5193.0},
		"H2":  {MolarMass: 2.0159, Cp: 14300.0},
		"CH4": {MolarMass: 16.043, Cp: 2220.0},
		"Air": {MolarMass: 28.9647, Cp: 1005.0},
	}}
}

// Register adds or replaces a species entry.
func (m *PerfectGas) Register(name string, sp Species) {
	m.species[name] = sp
}

// mix collapses a composition to mixture coefficients: cp, the affine
// enthalpy offset a (so h(T) = a + cp·T), and the specific gas constant.
func (m *PerfectGas) mix(comp Composition) (cp, a, rSpec float64, err error) {
	if comp.Empty() {
		return 0, 0, 0, fmt.Errorf("empty composition: %w", ErrUnknownSpecies)
	}
	invM := 0.0
	for _, name := range comp.Species() {
		sp, ok := m.species[name]
		if !ok {
			return 0, 0, 0, fmt.Errorf("species %q: %w", name, ErrUnknownSpecies)
		}
		y := comp.Fraction(name)
		cp += y * sp.Cp
		a += y * (sp.HRef - sp.Cp*sp.TRef)
		invM += y / sp.MolarMass
	}
	rSpec = RUniversal * invM

	return cp, a, rSpec, nil
}

// StateFromPT builds a state from pressure and temperature.
// Non-positive inputs wrap core.ErrInvalidState.
func (m *PerfectGas) StateFromPT(comp Composition, p, t float64) (ThermoState, error) {
	if p <= 0 || t <= 0 {
		return ThermoState{}, fmt.Errorf("perfect gas: state(p=%g Pa, t=%g K): %w", p, t, core.ErrInvalidState)
	}
	cp, a, _, err := m.mix(comp)
	if err != nil {
		return ThermoState{}, err
	}

	return NewState(p, t, a+cp*t, comp), nil
}

// StateFromPH builds a state from pressure and specific enthalpy.
// An enthalpy implying a non-positive temperature wraps core.ErrInvalidState.
func (m *PerfectGas) StateFromPH(comp Composition, p, h float64) (ThermoState, error) {
	if p <= 0 {
		return ThermoState{}, fmt.Errorf("perfect gas: state(p=%g Pa): %w", p, core.ErrInvalidState)
	}
	cp, a, _, err := m.mix(comp)
	if err != nil {
		return ThermoState{}, err
	}
	t := (h - a) / cp
	if t <= 0 {
		return ThermoState{}, fmt.Errorf("perfect gas: state(p=%g Pa, h=%g J/kg) implies t=%g K: %w", p, h, t, core.ErrInvalidState)
	}

	return NewState(p, t, h, comp), nil
}

// Rho returns p/(R·T) for the state's mixture gas constant.
func (m *PerfectGas) Rho(s ThermoState) (float64, error) {
	_, _, rSpec, err := m.mix(s.Composition())
	if err != nil {
		return 0, err
	}

	return s.Pressure() / (rSpec * s.Temperature()), nil
}

// Cp returns the mixture specific heat at constant pressure.
func (m *PerfectGas) Cp(s ThermoState) (float64, error) {
	cp, _, _, err := m.mix(s.Composition())
	if err != nil {
		return 0, err
	}

	return cp, nil
}

// Gamma returns cp/(cp−R) for the mixture.
func (m *PerfectGas) Gamma(s ThermoState) (float64, error) {
	cp, _, rSpec, err := m.mix(s.Composition())
	if err != nil {
		return 0, err
	}

	return cp / (cp - rSpec), nil
}

// SpeedOfSound returns sqrt(γ·R·T) for the mixture.
func (m *PerfectGas) SpeedOfSound(s ThermoState) (float64, error) {
	cp, _, rSpec, err := m.mix(s.Composition())
	if err != nil {
		return 0, err
	}
	gamma := cp / (cp - rSpec)

	return math.Sqrt(gamma * rSpec * s.Temperature()), nil
}

// PressureFromRhoH inverts (rho, h) → p in closed form: T = (h−a)/cp,
// p = rho·R·T. The temperature hint is unused; the inversion is exact.
func (m *PerfectGas) PressureFromRhoH(comp Composition, rho, h, _ float64) (float64, bool, error) {
	cp, a, rSpec, err := m.mix(comp)
	if err != nil {
		return 0, false, err
	}
	if rho <= 0 {
		return 0, true, fmt.Errorf("perfect gas: invert(rho=%g kg/m³): %w", rho, core.ErrInvalidState)
	}
	t := (h - a) / cp
	if t <= 0 {
		return 0, true, fmt.Errorf("perfect gas: invert(h=%g J/kg) implies t=%g K: %w", h, t, core.ErrInvalidState)
	}

	return rho * rSpec * t, true, nil
}
