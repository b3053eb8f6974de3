package sim

import (
	"fmt"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

// Pressure-search bounds for the bisection inversion.
const (
	cvPressureMin     = 1e2
	cvPressureMinSafe = 1e3
	cvPressureMax     = 1e8
	cvBisectMaxIter   = 100
	cvBisectTolRho    = 1e-2 // kg/m³
)

// ControlVolumeState is the integrated state of one store: total mass
// and mixed specific enthalpy.
type ControlVolumeState struct {
	Mass     float64 // kg
	Enthalpy float64 // J/kg
}

// ControlVolume is a fixed-volume lumped store of a single composition.
type ControlVolume struct {
	name   string
	volume float64
	comp   fluid.Composition
}

// NewControlVolume validates the geometry. Volume must be positive.
func NewControlVolume(name string, volume float64, comp fluid.Composition) (*ControlVolume, error) {
	if volume <= 0 {
		return nil, fmt.Errorf("sim: control volume %q: volume=%g m³ must be positive: %w",
			name, volume, core.ErrInvalidArg)
	}

	return &ControlVolume{name: name, volume: volume, comp: comp}, nil
}

func (cv *ControlVolume) Name() string { return cv.name }

// Volume returns the fixed geometric volume in m³.
func (cv *ControlVolume) Volume() float64 { return cv.volume }

// Composition returns the stored fluid composition.
func (cv *ControlVolume) Composition() fluid.Composition { return cv.comp }

// Density returns the bulk density of st, zero for an empty volume.
func (cv *ControlVolume) Density(st ControlVolumeState) float64 {
	if st.Mass <= 0 {
		return 0
	}

	return st.Mass / cv.volume
}

// Boundary converts the integrated state to the (pressure, enthalpy)
// boundary pair the steady solver needs. pHint, usually the previous
// step's result, narrows the search; pass 0 when unknown.
func (cv *ControlVolume) Boundary(fl fluid.Model, st ControlVolumeState, pHint float64) (p, h float64, err error) {
	if st.Mass <= 0 {
		return 0, 0, fmt.Errorf("sim: control volume %q: mass=%g kg must be positive: %w",
			cv.name, st.Mass, core.ErrNonPhysical)
	}

	rho := cv.Density(st)
	p, err = cv.pressureFromRhoH(fl, rho, st.Enthalpy, pHint)
	if err != nil {
		return 0, 0, fmt.Errorf("sim: control volume %q: %w", cv.name, err)
	}

	return p, st.Enthalpy, nil
}

// pressureFromRhoH finds p such that rho(p, h) matches rhoTarget.
//
// Steps:
//  1. Backends that can invert directly are asked first, seeded with a
//     temperature hint from the hint pressure.
//  2. Otherwise bisection over [1e2, 1e8] Pa, shrunk around pHint when
//     given. Invalid trial states move the offending bound inward; a
//     bracket that misses the target on both sides gets one expansion.
//  3. The found pressure must produce a state the backend accepts.
func (cv *ControlVolume) pressureFromRhoH(fl fluid.Model, rhoTarget, h, pHint float64) (float64, error) {
	if inv, ok := fl.(fluid.DirectInverter); ok {
		tHint := 300.0
		if pHint > 0 {
			if st, err := fl.StateFromPH(cv.comp, pHint, h); err == nil {
				tHint = st.Temperature()
			}
		}
		p, supported, err := inv.PressureFromRhoH(cv.comp, rhoTarget, h, tHint)
		if err == nil && supported {
			if _, err := fl.StateFromPH(cv.comp, p, h); err == nil {
				return p, nil
			}
		}
	}

	return cv.bisectPressure(fl, rhoTarget, h, pHint)
}

func (cv *ControlVolume) bisectPressure(fl fluid.Model, rhoTarget, h, pHint float64) (float64, error) {
	rhoAt := func(p float64) (float64, bool) {
		st, err := fl.StateFromPH(cv.comp, p, h)
		if err != nil {
			return 0, false
		}
		rho, err := fl.Rho(st)
		if err != nil {
			return 0, false
		}

		return rho, true
	}

	pLow, pHigh := cvPressureMin, cvPressureMax
	if pHint > 0 {
		pLow = max(0.5*pHint, cvPressureMin)
		pHigh = min(2.0*pHint, cvPressureMax)
	}

	rhoLow, ok := rhoAt(pLow)
	if !ok {
		pLow = cvPressureMinSafe
		if rhoLow, ok = rhoAt(pLow); !ok {
			return 0, fmt.Errorf("no valid state at minimum pressure for h=%g J/kg: %w", h, core.ErrBackend)
		}
	}

	var rhoHigh float64
	for i := 0; i < 10; i++ {
		if rhoHigh, ok = rhoAt(pHigh); ok {
			break
		}
		pHigh *= 0.5
	}
	if !ok {
		return 0, fmt.Errorf("no valid upper pressure bound for h=%g J/kg: %w", h, core.ErrBackend)
	}

	// One expansion when the target lies outside the bracket.
	if (rhoLow-rhoTarget)*(rhoHigh-rhoTarget) > 0 {
		switch {
		case rhoLow > rhoTarget:
			pLow = max(0.1*pLow, cvPressureMin)
		case rhoHigh < rhoTarget:
			pHigh = min(10.0*pHigh, cvPressureMax)
		}
	}

	for i := 0; i < cvBisectMaxIter; i++ {
		pMid := 0.5 * (pLow + pHigh)
		rhoMid, ok := rhoAt(pMid)
		if !ok {
			pHigh = pMid
			continue
		}
		if abs(rhoMid-rhoTarget) < cvBisectTolRho {
			return pMid, nil
		}
		rhoLow, ok = rhoAt(pLow)
		if !ok {
			return 0, fmt.Errorf("lower pressure bound became invalid during bisection: %w", core.ErrBackend)
		}
		if (rhoLow-rhoTarget)*(rhoMid-rhoTarget) < 0 {
			pHigh = pMid
		} else {
			pLow = pMid
		}
	}

	return 0, fmt.Errorf("pressure bisection did not converge for rho=%g kg/m³, h=%g J/kg: %w",
		rhoTarget, h, core.ErrConvergence)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
