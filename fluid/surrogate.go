package fluid

import (
	"fmt"
	"math"

	"github.com/kyleas/thermoflow-sub000/core"
)

// FrozenSurrogate answers property queries by ideal-gas extrapolation
// around a single reference state sampled from a full backend. Composition
// is frozen at the reference; cp and gamma are held constant.
//
// Intended for hot transient loops where the full backend dominates the
// step cost and the state stays close to the reference. Accuracy degrades
// with distance from the reference state.
type FrozenSurrogate struct {
	comp  Composition
	pRef  float64
	tRef  float64
	hRef  float64
	cp    float64
	gamma float64
	rSpec float64
}

// NewFrozenSurrogate samples cp and gamma from model at ref and returns a
// surrogate frozen at that state. The effective specific gas constant is
// recovered from cp·(γ−1)/γ.
func NewFrozenSurrogate(model Model, ref ThermoState) (*FrozenSurrogate, error) {
	cp, err := model.Cp(ref)
	if err != nil {
		return nil, fmt.Errorf("surrogate: sampling cp: %w", err)
	}
	gamma, err := model.Gamma(ref)
	if err != nil {
		return nil, fmt.Errorf("surrogate: sampling gamma: %w", err)
	}
	if cp <= 0 || gamma <= 1 {
		return nil, fmt.Errorf("surrogate: cp=%g, gamma=%g at reference: %w", cp, gamma, core.ErrInvalidState)
	}

	return &FrozenSurrogate{
		comp:  ref.Composition(),
		pRef:  ref.Pressure(),
		tRef:  ref.Temperature(),
		hRef:  ref.Enthalpy(),
		cp:    cp,
		gamma: gamma,
		rSpec: cp * (gamma - 1) / gamma,
	}, nil
}

func (s *FrozenSurrogate) temperature(h float64) float64 {
	return s.tRef + (h-s.hRef)/s.cp
}

// StateFromPT extrapolates enthalpy linearly from the reference.
func (s *FrozenSurrogate) StateFromPT(_ Composition, p, t float64) (ThermoState, error) {
	if p <= 0 || t <= 0 {
		return ThermoState{}, fmt.Errorf("surrogate: state(p=%g Pa, t=%g K): %w", p, t, core.ErrInvalidState)
	}

	return NewState(p, t, s.hRef+s.cp*(t-s.tRef), s.comp), nil
}

// StateFromPH recovers temperature from the frozen cp.
func (s *FrozenSurrogate) StateFromPH(_ Composition, p, h float64) (ThermoState, error) {
	if p <= 0 {
		return ThermoState{}, fmt.Errorf("surrogate: state(p=%g Pa): %w", p, core.ErrInvalidState)
	}
	t := s.temperature(h)
	if t <= 0 {
		return ThermoState{}, fmt.Errorf("surrogate: state(p=%g Pa, h=%g J/kg) implies t=%g K: %w", p, h, t, core.ErrInvalidState)
	}

	return NewState(p, t, h, s.comp), nil
}

// Rho returns p/(R·T) with the frozen gas constant.
func (s *FrozenSurrogate) Rho(st ThermoState) (float64, error) {
	return st.Pressure() / (s.rSpec * st.Temperature()), nil
}

// Cp returns the frozen specific heat.
func (s *FrozenSurrogate) Cp(ThermoState) (float64, error) { return s.cp, nil }

// Gamma returns the frozen heat-capacity ratio.
func (s *FrozenSurrogate) Gamma(ThermoState) (float64, error) { return s.gamma, nil }

// SpeedOfSound returns sqrt(γ·R·T) with frozen coefficients.
func (s *FrozenSurrogate) SpeedOfSound(st ThermoState) (float64, error) {
	return math.Sqrt(s.gamma * s.rSpec * st.Temperature()), nil
}

// PressureFromRhoH inverts in closed form with frozen coefficients.
func (s *FrozenSurrogate) PressureFromRhoH(_ Composition, rho, h, _ float64) (float64, bool, error) {
	if rho <= 0 {
		return 0, true, fmt.Errorf("surrogate: invert(rho=%g kg/m³): %w", rho, core.ErrInvalidState)
	}
	t := s.temperature(h)
	if t <= 0 {
		return 0, true, fmt.Errorf("surrogate: invert(h=%g J/kg) implies t=%g K: %w", h, t, core.ErrInvalidState)
	}

	return rho * s.rSpec * t, true, nil
}
