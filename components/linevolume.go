package components

import (
	"fmt"
	"math"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

// lineVolumeLosslessArea is the equivalent flow area (m²) standing in for
// "no resistance" so the steady solver still sees a smooth conductance.
const lineVolumeLosslessArea = 1.0

// LineVolume is a short line or manifold whose fluid volume is not
// negligible. In steady state it acts as a connection with optional
// orifice-like resistance; in transients the sim package attaches a
// control volume to its internal storage so mass and energy accumulate.
type LineVolume struct {
	name   string
	volume float64
	cd     float64
	area   float64
}

// NewLineVolume returns a lossless line volume. Volume must be positive.
func NewLineVolume(name string, volume float64) (*LineVolume, error) {
	if volume <= 0 {
		return nil, fmt.Errorf("line volume %q: volume=%g m³ must be positive: %w", name, volume, core.ErrInvalidArg)
	}

	return &LineVolume{name: name, volume: volume}, nil
}

// NewLineVolumeWithResistance returns a line volume with an embedded
// orifice-like resistance (cd, area both positive).
func NewLineVolumeWithResistance(name string, volume, cd, area float64) (*LineVolume, error) {
	lv, err := NewLineVolume(name, volume)
	if err != nil {
		return nil, err
	}
	if cd <= 0 {
		return nil, fmt.Errorf("line volume %q: cd=%g must be positive: %w", name, cd, core.ErrInvalidArg)
	}
	if area <= 0 {
		return nil, fmt.Errorf("line volume %q: area=%g m² must be positive: %w", name, area, core.ErrInvalidArg)
	}
	lv.cd, lv.area = cd, area

	return lv, nil
}

// Name returns the component identifier.
func (l *LineVolume) Name() string { return l.name }

// Volume returns the internal fluid volume in m³.
func (l *LineVolume) Volume() float64 { return l.volume }

// Mdot computes orifice-like flow: with the configured resistance when
// present, otherwise with a large equivalent conductance so that the
// lossless line still presents a smooth, invertible flow relation to
// the solver.
func (l *LineVolume) Mdot(fl fluid.Model, in, out fluid.ThermoState) (float64, error) {
	dp := in.Pressure() - out.Pressure()
	if math.Abs(dp) < EpsilonPressure {
		return 0, nil
	}

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

	conductance := lineVolumeLosslessArea
	if l.cd > 0 && l.area > 0 {
		conductance = l.cd * l.area
	}
	mdot := math.Copysign(conductance*math.Sqrt(2*rho*math.Abs(dp)), dp)
	if err = core.EnsureFinite(mdot, "mass flow rate"); err != nil {
		return 0, err
	}

	return mdot, nil
}

// OutletEnthalpy is the inlet enthalpy: no heat transfer, no work.
func (l *LineVolume) OutletEnthalpy(_ fluid.Model, in, _ fluid.ThermoState, _ float64) (float64, error) {
	return in.Enthalpy(), nil
}
