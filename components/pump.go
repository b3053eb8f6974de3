package components

import (
	"fmt"
	"math"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

// Pump raises pressure by a commanded delta using shaft power.
//
// Mass flow follows a modified orifice equation with the commanded rise
// folded into the driving differential:
//
//	Δp_eff = (p_in + deltaP) − p_out
//	mdot   = sign(Δp_eff) · cd · A · sqrt(2·ρ_in·|Δp_eff|)
//
// The fluid enthalpy rises by deltaP/ρ (ideal hydraulic work); the shaft
// supplies mdot·Δh/η, so ShaftPower is positive (power consumed).
type Pump struct {
	name   string
	deltaP float64
	eta    float64
	cd     float64
	area   float64
}

// NewPump returns a pump. Efficiency must lie in (0,1], cd and area must
// be positive, and the commanded rise must be non-negative.
func NewPump(name string, deltaP, eta, cd, area float64) (*Pump, error) {
	switch {
	case eta <= 0 || eta > 1:
		return nil, fmt.Errorf("pump %q: efficiency=%g must be in (0,1]: %w", name, eta, core.ErrInvalidArg)
	case cd <= 0:
		return nil, fmt.Errorf("pump %q: cd=%g must be positive: %w", name, cd, core.ErrInvalidArg)
	case area <= 0:
		return nil, fmt.Errorf("pump %q: area=%g m² must be positive: %w", name, area, core.ErrInvalidArg)
	case deltaP < 0:
		return nil, fmt.Errorf("pump %q: delta_p=%g Pa must be non-negative: %w", name, deltaP, core.ErrInvalidArg)
	}

	return &Pump{name: name, deltaP: deltaP, eta: eta, cd: cd, area: area}, nil
}

// WithDeltaP returns a copy with a new commanded pressure rise, floored
// at zero. Control callers update pumps each step through this.
func (p *Pump) WithDeltaP(deltaP float64) *Pump {
	c := *p
	c.deltaP = math.Max(deltaP, 0)

	return &c
}

// Name returns the component identifier.
func (p *Pump) Name() string { return p.name }

// DeltaPCommanded returns the commanded pressure rise in Pa.
func (p *Pump) DeltaPCommanded() float64 { return p.deltaP }

// Mdot computes flow from the effective differential including the
// commanded rise.
func (p *Pump) Mdot(fl fluid.Model, in, out fluid.ThermoState) (float64, error) {
	rho, err := fl.Rho(in)
	if err != nil {
		return 0, fmt.Errorf("inlet density: %w", err)
	}
	if err = core.EnsureFinite(rho, "inlet density"); err != nil {
		return 0, err
	}
	if rho <= 0 {
		return 0, fmt.Errorf("pump %q: density=%g kg/m³ must be positive: %w", p.name, rho, core.ErrNonPhysical)
	}

	dpEff := in.Pressure() + p.deltaP - out.Pressure()
	if math.Abs(dpEff) < 1e-6 {
		return 0, nil
	}
	mdot := math.Copysign(p.cd*p.area*math.Sqrt(2*rho*math.Abs(dpEff)), dpEff)

	return core.Clamp(mdot, -1e6, 1e6), nil
}

// OutletEnthalpy adds the ideal hydraulic work deltaP/ρ to the inlet
// enthalpy.
func (p *Pump) OutletEnthalpy(fl fluid.Model, in, _ fluid.ThermoState, _ float64) (float64, error) {
	rho, err := fl.Rho(in)
	if err != nil {
		return 0, fmt.Errorf("inlet density: %w", err)
	}
	if rho <= 1e-6 {
		return 0, fmt.Errorf("pump %q: density=%g kg/m³ too low for enthalpy rise: %w", p.name, rho, core.ErrNonPhysical)
	}

	return in.Enthalpy() + p.deltaP/rho, nil
}

// ShaftPower returns the positive power drawn from the shaft,
// mdot·Δh/η. Negligible flow draws no power.
func (p *Pump) ShaftPower(fl fluid.Model, in, _ fluid.ThermoState, mdot float64) (float64, error) {
	if math.Abs(mdot) < EpsilonMdot {
		return 0, nil
	}
	rho, err := fl.Rho(in)
	if err != nil {
		return 0, fmt.Errorf("inlet density: %w", err)
	}
	if rho <= 1e-6 {
		return 0, nil
	}

	return mdot * (p.deltaP / rho) / p.eta, nil
}
