package components

import (
	"fmt"
	"math"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

// Turbine extracts work from a pressurized gas stream.
//
// Flow follows an orifice-like restriction on the pressure drop. Work
// extraction uses an isentropic-efficiency model: the ideal enthalpy drop
// comes from the isentropic temperature ratio (p_out/p_in)^((γ−1)/γ), and
// the actual drop is η times that. ShaftPower is negative (power
// extracted from the fluid).
type Turbine struct {
	name string
	cd   float64
	area float64
	eta  float64
}

// NewTurbine returns a turbine. Efficiency must lie in (0,1]; cd and
// area must be positive.
func NewTurbine(name string, cd, area, eta float64) (*Turbine, error) {
	switch {
	case eta <= 0 || eta > 1:
		return nil, fmt.Errorf("turbine %q: efficiency=%g must be in (0,1]: %w", name, eta, core.ErrInvalidArg)
	case cd <= 0:
		return nil, fmt.Errorf("turbine %q: cd=%g must be positive: %w", name, cd, core.ErrInvalidArg)
	case area <= 0:
		return nil, fmt.Errorf("turbine %q: area=%g m² must be positive: %w", name, area, core.ErrInvalidArg)
	}

	return &Turbine{name: name, cd: cd, area: area, eta: eta}, nil
}

// Name returns the component identifier.
func (t *Turbine) Name() string { return t.name }

// isentropicDrop returns the ideal (positive) enthalpy drop across the
// expansion, zero when there is no expansion.
func (t *Turbine) isentropicDrop(fl fluid.Model, in, out fluid.ThermoState) (float64, error) {
	pIn, pOut := in.Pressure(), out.Pressure()
	if pOut >= pIn {
		return 0, nil
	}

	gamma, err := fl.Gamma(in)
	if err != nil {
		return 0, fmt.Errorf("inlet gamma: %w", err)
	}
	cp, err := fl.Cp(in)
	if err != nil {
		return 0, fmt.Errorf("inlet cp: %w", err)
	}

	tRatio := math.Pow(pOut/pIn, (gamma-1)/gamma)
	dhS := cp * in.Temperature() * (1 - tRatio)

	return math.Max(dhS, 0), nil
}

// Mdot computes orifice-like flow from the pressure drop, handling the
// unusual reverse case.
func (t *Turbine) Mdot(fl fluid.Model, in, out fluid.ThermoState) (float64, error) {
	rho, err := fl.Rho(in)
	if err != nil {
		return 0, fmt.Errorf("inlet density: %w", err)
	}
	if err = core.EnsureFinite(rho, "inlet density"); err != nil {
		return 0, err
	}
	if rho <= 0 {
		return 0, fmt.Errorf("turbine %q: density=%g kg/m³ must be positive: %w", t.name, rho, core.ErrNonPhysical)
	}

	dp := in.Pressure() - out.Pressure()
	var mdot float64
	switch {
	case dp > EpsilonPressure:
		mdot = t.cd * t.area * math.Sqrt(2*rho*dp)
	case dp < -EpsilonPressure:
		mdot = -t.cd * t.area * math.Sqrt(2*rho*(-dp))
	default:
		mdot = 0
	}

	return core.Clamp(mdot, -1e6, 1e6), nil
}

// OutletEnthalpy subtracts the actual enthalpy drop η·Δh_s.
func (t *Turbine) OutletEnthalpy(fl fluid.Model, in, out fluid.ThermoState, _ float64) (float64, error) {
	dhS, err := t.isentropicDrop(fl, in, out)
	if err != nil {
		return 0, err
	}

	return in.Enthalpy() - t.eta*dhS, nil
}

// ShaftPower returns the negative power extracted, −mdot·η·Δh_s.
func (t *Turbine) ShaftPower(fl fluid.Model, in, out fluid.ThermoState, mdot float64) (float64, error) {
	if math.Abs(mdot) < EpsilonMdot {
		return 0, nil
	}
	dhS, err := t.isentropicDrop(fl, in, out)
	if err != nil {
		return 0, err
	}

	return -mdot * t.eta * dhS, nil
}
