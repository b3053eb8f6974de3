package components

import (
	"fmt"
	"math"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

const (
	pipeBisectMaxIter = 50
	pipeBisectTol     = 1.0 // Pa

	// reLaminarLimit is the Reynolds number below which the laminar
	// friction factor 64/Re applies.
	reLaminarLimit = 2300.0
)

// Pipe models a straight run with Darcy–Weisbach friction.
//
// DeltaP for a given flow is direct; Mdot for a given pressure drop
// inverts the friction relationship by bounded bisection, since the
// friction factor depends on the flow itself through the Reynolds number.
type Pipe struct {
	name      string
	length    float64
	diameter  float64
	roughness float64
	kMinor    float64
	mu        float64
}

// NewPipe returns a pipe. Length, diameter and viscosity must be
// positive; roughness and the minor-loss coefficient must be
// non-negative. Viscosity is a fixed parameter (Pa·s) because the
// property capability does not expose transport properties.
func NewPipe(name string, length, diameter, roughness, kMinor, mu float64) (*Pipe, error) {
	switch {
	case length <= 0:
		return nil, fmt.Errorf("pipe %q: length=%g m must be positive: %w", name, length, core.ErrInvalidArg)
	case diameter <= 0:
		return nil, fmt.Errorf("pipe %q: diameter=%g m must be positive: %w", name, diameter, core.ErrInvalidArg)
	case roughness < 0:
		return nil, fmt.Errorf("pipe %q: roughness=%g m must be non-negative: %w", name, roughness, core.ErrInvalidArg)
	case kMinor < 0:
		return nil, fmt.Errorf("pipe %q: k_minor=%g must be non-negative: %w", name, kMinor, core.ErrInvalidArg)
	case mu <= 0:
		return nil, fmt.Errorf("pipe %q: viscosity=%g Pa·s must be positive: %w", name, mu, core.ErrInvalidArg)
	}

	return &Pipe{name: name, length: length, diameter: diameter, roughness: roughness, kMinor: kMinor, mu: mu}, nil
}

// Name returns the component identifier.
func (p *Pipe) Name() string { return p.name }

// frictionFactor returns the Darcy friction factor: 64/Re laminar,
// Swamee–Jain in the turbulent regime.
func (p *Pipe) frictionFactor(re float64) float64 {
	if re < reLaminarLimit {
		return 64.0 / re
	}
	ed := p.roughness / p.diameter
	a := ed / 3.7
	b := 5.74 / math.Pow(re, 0.9)
	f := 0.25 / math.Pow(math.Log10(a+b), 2)

	return math.Max(f, 1e-4)
}

// dropForMdot computes the unsigned pressure drop for a flow magnitude.
func (p *Pipe) dropForMdot(rho, mdotAbs float64) (float64, error) {
	if mdotAbs < EpsilonMdot {
		return 0, nil
	}

	area := math.Pi * p.diameter * p.diameter / 4.0
	v := mdotAbs / (rho * area)
	re := rho * v * p.diameter / p.mu
	if err := core.EnsureFinite(re, "Reynolds number"); err != nil {
		return 0, err
	}

	f := p.frictionFactor(re)
	dp := (f*p.length/p.diameter + p.kMinor) * 0.5 * rho * v * v
	if err := core.EnsureFinite(dp, "pressure drop"); err != nil {
		return 0, err
	}

	return dp, nil
}

// solveMdot inverts dropForMdot by bisection on [0, 100·sqrt(Δp)].
// Drops below the 1 Pa tolerance map to zero flow.
func (p *Pipe) solveMdot(rho, dpTarget float64) (float64, error) {
	if math.Abs(dpTarget) < pipeBisectTol {
		return 0, nil
	}

	lo, hi := 0.0, 100.0*math.Sqrt(math.Abs(dpTarget))
	for i := 0; i < pipeBisectMaxIter; i++ {
		mid := 0.5 * (lo + hi)
		dpMid, err := p.dropForMdot(rho, mid)
		if err != nil {
			return 0, err
		}
		if math.Abs(dpMid-math.Abs(dpTarget)) < pipeBisectTol {
			return mid, nil
		}
		if dpMid < math.Abs(dpTarget) {
			lo = mid
		} else {
			hi = mid
		}
	}

	// Budget exhausted: the bracket midpoint is the best estimate.
	return 0.5 * (lo + hi), nil
}

// Mdot recovers the signed flow that reproduces the observed pressure
// drop between the ports.
func (p *Pipe) Mdot(fl fluid.Model, in, out fluid.ThermoState) (float64, error) {
	dp := in.Pressure() - out.Pressure()

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

	mdotAbs, err := p.solveMdot(rho, math.Abs(dp))
	if err != nil {
		return 0, err
	}
	if dp < 0 {
		return -mdotAbs, nil
	}

	return mdotAbs, nil
}

// DeltaP computes the signed pressure drop for a given flow.
func (p *Pipe) DeltaP(fl fluid.Model, in, out fluid.ThermoState, mdot float64) (float64, error) {
	up := in
	if mdot < 0 {
		up = out
	}
	rho, err := fl.Rho(up)
	if err != nil {
		return 0, fmt.Errorf("upstream density: %w", err)
	}
	if err = core.EnsureFinite(rho, "density"); err != nil {
		return 0, err
	}

	dpAbs, err := p.dropForMdot(rho, math.Abs(mdot))
	if err != nil {
		return 0, err
	}

	return math.Copysign(dpAbs, mdot), nil
}

// OutletEnthalpy is the inlet enthalpy: no work, adiabatic.
func (p *Pipe) OutletEnthalpy(_ fluid.Model, in, _ fluid.ThermoState, _ float64) (float64, error) {
	return in.Enthalpy(), nil
}
