package components

import (
	"fmt"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

// Law is a valve opening characteristic.
type Law int

const (
	// Linear: effective area = areaMax · position.
	Linear Law = iota
	// Quadratic: effective area = areaMax · position².
	Quadratic
)

// String returns the law name.
func (l Law) String() string {
	switch l {
	case Linear:
		return "linear"
	case Quadratic:
		return "quadratic"
	default:
		return fmt.Sprintf("Law(%d)", int(l))
	}
}

// Valve is a variable-area restriction: an orifice whose effective area
// follows the opening law of its position in [0,1]. A fully closed valve
// passes no flow and drops out of the active-component set.
type Valve struct {
	name         string
	cd           float64
	areaMax      float64
	position     float64
	law          Law
	compressible bool
}

// NewValve returns a linear-law valve at the given position.
// Cd and areaMax must be positive; position is clamped to [0,1].
func NewValve(name string, cd, areaMax, position float64) (*Valve, error) {
	if cd <= 0 {
		return nil, fmt.Errorf("valve %q: cd=%g must be positive: %w", name, cd, core.ErrInvalidArg)
	}
	if areaMax <= 0 {
		return nil, fmt.Errorf("valve %q: area=%g m² must be positive: %w", name, areaMax, core.ErrInvalidArg)
	}

	return &Valve{
		name:     name,
		cd:       cd,
		areaMax:  areaMax,
		position: core.Clamp(position, 0, 1),
		law:      Linear,
	}, nil
}

// WithLaw returns a copy of the valve using the given opening law.
func (v *Valve) WithLaw(law Law) *Valve {
	c := *v
	c.law = law

	return &c
}

// WithCompressible returns a copy treating flow as compressible.
func (v *Valve) WithCompressible() *Valve {
	c := *v
	c.compressible = true

	return &c
}

// WithPosition returns a copy at the new position (clamped to [0,1]).
// Satisfies Throttleable; schedules use this to override positions per
// step without mutating the shared network definition.
func (v *Valve) WithPosition(pos float64) TwoPort {
	c := *v
	c.position = core.Clamp(pos, 0, 1)

	return &c
}

// Name returns the component identifier.
func (v *Valve) Name() string { return v.name }

// Position returns the current valve position in [0,1].
func (v *Valve) Position() float64 { return v.position }

// Opening returns the law-applied opening fraction in [0,1].
func (v *Valve) Opening() float64 {
	switch v.law {
	case Quadratic:
		return v.position * v.position
	default:
		return v.position
	}
}

// EffectiveArea returns the flow area after applying the opening law.
func (v *Valve) EffectiveArea() float64 {
	return v.areaMax * v.Opening()
}

// Mdot delegates to the orifice relation with the effective area.
// A closed valve (zero effective area) passes no flow.
func (v *Valve) Mdot(fl fluid.Model, in, out fluid.ThermoState) (float64, error) {
	area := v.EffectiveArea()
	if area < 1e-300 {
		return 0, nil
	}
	if v.compressible {
		return compressibleMdot(fl, in, out, v.cd, area)
	}

	return bernoulliMdot(fl, in, out, v.cd, area)
}

// OutletEnthalpy is the inlet enthalpy: throttling is isenthalpic.
func (v *Valve) OutletEnthalpy(_ fluid.Model, in, _ fluid.ThermoState, _ float64) (float64, error) {
	return in.Enthalpy(), nil
}
