// Package components: the two-port capability contract and shared constants.
package components

import (
	"github.com/kyleas/thermoflow-sub000/fluid"
)

const (
	// EpsilonPressure is the dead band (Pa) below which a pressure
	// differential is treated as zero flow.
	EpsilonPressure = 1e-3

	// EpsilonMdot is the mass-flow magnitude (kg/s) below which a flow
	// is treated as zero.
	EpsilonMdot = 1e-9
)

// TwoPort is the capability contract shared by every component model.
// Sign convention: positive mass flow runs inlet → outlet.
type TwoPort interface {
	// Name returns the component's identifier for diagnostics.
	Name() string

	// Mdot computes the signed mass flow (kg/s) from the inlet and
	// outlet states. Must be continuous in the driving pressure
	// difference and zero within EpsilonPressure of zero differential.
	Mdot(fl fluid.Model, in, out fluid.ThermoState) (float64, error)

	// OutletEnthalpy computes the specific enthalpy (J/kg) carried out
	// of the component for the given mass flow.
	OutletEnthalpy(fl fluid.Model, in, out fluid.ThermoState, mdot float64) (float64, error)
}

// DeltaPer is implemented by friction-type components that can compute
// the pressure drop (Pa, signed along the flow) for a given mass flow.
type DeltaPer interface {
	DeltaP(fl fluid.Model, in, out fluid.ThermoState, mdot float64) (float64, error)
}

// ShaftPowerer is implemented by work-exchanging components.
// Positive power is consumed from the shaft (Pump); negative power is
// extracted to the shaft (Turbine).
type ShaftPowerer interface {
	ShaftPower(fl fluid.Model, in, out fluid.ThermoState, mdot float64) (float64, error)
}

// HeatRater is implemented by components exchanging heat with their
// surroundings. Positive heat flows into the fluid.
type HeatRater interface {
	HeatRate(fl fluid.Model, in, out fluid.ThermoState, mdot float64) (float64, error)
}

// Throttleable is implemented by position-controlled components (Valve).
// WithPosition returns a copy at the new position so that shared network
// definitions stay immutable while schedules override positions per step.
type Throttleable interface {
	TwoPort
	Position() float64
	WithPosition(pos float64) TwoPort
}
