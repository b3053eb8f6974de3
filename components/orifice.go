package components

import (
	"fmt"
	"math"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

// Orifice is a fixed-area flow restriction.
//
// With compressible treatment enabled it applies the standard orifice
// equation with choking at the critical pressure ratio; otherwise it uses
// the incompressible Bernoulli relation. Flow is isenthalpic.
type Orifice struct {
	name         string
	cd           float64
	area         float64
	compressible bool
}

// NewOrifice returns an incompressible orifice.
// Cd and area must be positive.
func NewOrifice(name string, cd, area float64) (*Orifice, error) {
	if cd <= 0 {
		return nil, fmt.Errorf("orifice %q: cd=%g must be positive: %w", name, cd, core.ErrInvalidArg)
	}
	if area <= 0 {
		return nil, fmt.Errorf("orifice %q: area=%g m² must be positive: %w", name, area, core.ErrInvalidArg)
	}

	return &Orifice{name: name, cd: cd, area: area}, nil
}

// NewCompressibleOrifice returns an orifice with compressible (choking)
// treatment.
func NewCompressibleOrifice(name string, cd, area float64) (*Orifice, error) {
	o, err := NewOrifice(name, cd, area)
	if err != nil {
		return nil, err
	}
	o.compressible = true

	return o, nil
}

// Name returns the component identifier.
func (o *Orifice) Name() string { return o.name }

// Cd returns the discharge coefficient.
func (o *Orifice) Cd() float64 { return o.cd }

// Area returns the throat area in m².
func (o *Orifice) Area() float64 { return o.area }

// Mdot computes the signed mass flow through the orifice.
func (o *Orifice) Mdot(fl fluid.Model, in, out fluid.ThermoState) (float64, error) {
	if o.compressible {
		return compressibleMdot(fl, in, out, o.cd, o.area)
	}

	return bernoulliMdot(fl, in, out, o.cd, o.area)
}

// OutletEnthalpy is the inlet enthalpy: throttling is isenthalpic.
func (o *Orifice) OutletEnthalpy(_ fluid.Model, in, _ fluid.ThermoState, _ float64) (float64, error) {
	return in.Enthalpy(), nil
}

// bernoulliMdot is the incompressible orifice relation
// mdot = sign(Δp)·cd·A·sqrt(2·ρ_up·|Δp|), zero inside the epsilon band.
func bernoulliMdot(fl fluid.Model, in, out fluid.ThermoState, cd, area float64) (float64, error) {
	dp := in.Pressure() - out.Pressure()
	if math.Abs(dp) < EpsilonPressure {
		return 0, nil
	}

	// Upstream density drives the flow.
	up := in
	if dp < 0 {
		up = out
	}
	rho, err := fl.Rho(up)
	if err != nil {
		return 0, fmt.Errorf("upstream density: %w", err)
	}
	if err = core.EnsureFinite(rho, "density"); err != nil {
		return 0, err
	}

	mdot := math.Copysign(cd*area*math.Sqrt(2*rho*math.Abs(dp)), dp)
	if err = core.EnsureFinite(mdot, "mass flow rate"); err != nil {
		return 0, err
	}

	return mdot, nil
}

// compressibleMdot applies the compressible orifice equation with choking.
//
// Steps:
//  1. Zero flow inside the epsilon band.
//  2. Pick the upstream side by pressure; the sign of the result follows.
//  3. Compare the pressure ratio against the critical ratio
//     (2/(γ+1))^(γ/(γ−1)).
//  4. Choked: mdot = cd·A·ρ_up·a_up·sqrt(γ)·(2/(γ+1))^((γ+1)/(2(γ−1))).
//  5. Subsonic: the Bernoulli form with upstream density.
func compressibleMdot(fl fluid.Model, in, out fluid.ThermoState, cd, area float64) (float64, error) {
	pIn, pOut := in.Pressure(), out.Pressure()
	if math.Abs(pIn-pOut) < EpsilonPressure {
		return 0, nil
	}

	up, pUp, pDown, sign := in, pIn, pOut, 1.0
	if pOut > pIn {
		up, pUp, pDown, sign = out, pOut, pIn, -1.0
	}

	rho, err := fl.Rho(up)
	if err != nil {
		return 0, fmt.Errorf("upstream density: %w", err)
	}
	gamma, err := fl.Gamma(up)
	if err != nil {
		return 0, fmt.Errorf("upstream gamma: %w", err)
	}
	a, err := fl.SpeedOfSound(up)
	if err != nil {
		return 0, fmt.Errorf("upstream speed of sound: %w", err)
	}
	for _, check := range []struct {
		v    float64
		what string
	}{{rho, "upstream density"}, {gamma, "gamma"}, {a, "speed of sound"}} {
		if err = core.EnsureFinite(check.v, check.what); err != nil {
			return 0, err
		}
	}

	pr := pDown / pUp
	prCrit := math.Pow(2/(gamma+1), gamma/(gamma-1))

	var mdotAbs float64
	if pr <= prCrit {
		chokeFactor := math.Sqrt(gamma) * math.Pow(2/(gamma+1), (gamma+1)/(2*(gamma-1)))
		mdotAbs = cd * area * rho * a * chokeFactor
	} else {
		mdotAbs = cd * area * math.Sqrt(2*rho*(pUp-pDown))
	}
	if err = core.EnsureFinite(mdotAbs, "mass flow rate"); err != nil {
		return 0, err
	}

	return sign * mdotAbs, nil
}
