// Package components implements the stateless two-port physical models
// that populate a fluid network: Orifice, Valve, Pipe, Pump, Turbine and
// LineVolume.
//
// What:
//
//   - TwoPort: the capability interface. Every model computes a signed
//     mass flow (positive inlet→outlet) and an outlet enthalpy from the
//     inlet/outlet thermodynamic states. Optional upgrades add DeltaP
//     (friction devices), ShaftPower (work-exchanging devices) and
//     Throttleable (position-controlled devices).
//   - Orifice: compressible flow with choking at the critical pressure
//     ratio, or incompressible Bernoulli flow.
//   - Valve: an orifice whose effective area follows a Linear or
//     Quadratic opening law of its position in [0,1].
//   - Pipe: Darcy–Weisbach friction, laminar 64/Re below Re 2300 and
//     the Swamee–Jain approximation in the turbulent regime; mass flow
//     for a given pressure drop is recovered by bounded bisection.
//   - Pump: raises pressure by a commanded delta, consuming shaft power
//     (positive sign).
//   - Turbine: orifice-like restriction extracting shaft power via an
//     isentropic-efficiency model (negative sign).
//   - LineVolume: a short line or manifold with finite storage volume,
//     lossless or with an embedded orifice-like resistance.
//
// Models hold no solver state: Mdot and OutletEnthalpy are pure functions
// of the port states and the model's own parameters, continuous in the
// driving pressure difference, and zero inside a small epsilon band
// around zero differential to avoid derivative singularities.
//
// Constructors validate their parameters and wrap core.ErrInvalidArg on
// non-physical input (efficiency outside (0,1], non-positive areas or
// lengths).
package components
