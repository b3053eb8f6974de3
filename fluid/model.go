package fluid

// Model is the property-backend capability consumed by component models,
// the steady solver and the control-volume engine.
//
// All methods are pure: they must be safe to call concurrently from
// independent goroutines. Errors are recoverable; callers convert them to
// their own taxonomy (core.ErrInvalidState / core.ErrBackend) rather than
// treating them as faults.
type Model interface {
	// StateFromPT builds a state from pressure (Pa) and temperature (K).
	StateFromPT(comp Composition, p, t float64) (ThermoState, error)

	// StateFromPH builds a state from pressure (Pa) and specific
	// enthalpy (J/kg).
	StateFromPH(comp Composition, p, h float64) (ThermoState, error)

	// Rho returns the density of s in kg/m³.
	Rho(s ThermoState) (float64, error)

	// Cp returns the specific heat at constant pressure in J/(kg·K).
	Cp(s ThermoState) (float64, error)

	// Gamma returns the heat-capacity ratio cp/cv.
	Gamma(s ThermoState) (float64, error)

	// SpeedOfSound returns the sonic velocity of s in m/s.
	SpeedOfSound(s ThermoState) (float64, error)
}

// DirectInverter is an optional Model upgrade for backends that can solve
// (density, enthalpy) → pressure without bisection. tHint seeds the
// backend's internal temperature iteration.
//
// The boolean result reports support: (0, false, nil) means the backend
// cannot invert this composition and the caller should fall back to
// bisection. An error means the attempt itself failed; the caller also
// falls back.
type DirectInverter interface {
	PressureFromRhoH(comp Composition, rho, h, tHint float64) (float64, bool, error)
}
