// Package fluid defines the property-backend capability consumed by the
// component models and the solver, plus two concrete backends.
//
// What:
//
//   - Composition: named species mass fractions (value type).
//   - ThermoState: an immutable (pressure, temperature, enthalpy,
//     composition) snapshot; only backends construct it.
//   - Model: the capability interface; build a state from (P,T) or (P,h)
//     and query density, heat capacity, gamma and speed of sound.
//   - DirectInverter: optional upgrade interface for backends that can
//     solve (rho, h) → pressure directly, used as the control-volume
//     engine's fast path.
//   - PerfectGas: calorically perfect ideal-gas backend with a small
//     built-in species table (N2, O2, He, H2, CH4, Air). Exact, fast,
//     and the reference backend for every test in the module.
//   - FrozenSurrogate: ideal-gas extrapolation around a sampled reference
//     state, for hot transient loops where full property evaluation is
//     too expensive.
//
// Backends must be safe for concurrent independent use: all methods are
// pure functions of their inputs.
//
// Errors: ErrUnknownSpecies for a composition naming an unregistered
// species; invalid inputs wrap core.ErrInvalidState with the offending
// numbers.
package fluid
