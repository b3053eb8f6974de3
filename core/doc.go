// Package core defines the shared vocabulary of the thermoflow module:
// node and component identifiers, the error taxonomy every other package
// wraps, and small numeric guards.
//
// What:
//
//   - NodeID / CompID: dense integer handles into a fluid network.
//   - Error taxonomy: six sentinel errors that classify every failure the
//     solver stack can produce. Callers match with errors.Is through any
//     number of fmt.Errorf("%w") wrapping layers.
//   - Numeric guards: EnsureFinite and Clamp, used by component models and
//     the solver to reject NaN/Inf before they poison an iteration.
//
// Error taxonomy:
//
//   - ErrInvalidArg:   bad construction parameters; never retried.
//   - ErrNonPhysical:  physically impossible intermediate state (negative
//     mass, density); fatal to the current step.
//   - ErrConvergence:  an iteration budget was exhausted; the caller may
//     retry with a smaller step or a different warm start.
//   - ErrProblemSetup: topology or reference inconsistency; a caller bug.
//   - ErrInvalidState: the property backend rejected a thermodynamic state.
//   - ErrBackend:      a property-backend or inner-solver failure surfaced
//     through an outer layer.
//
// All units are SI throughout the module: Pa, K, J/kg, kg/s, m², m³, W.
package core
