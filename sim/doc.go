// Package sim integrates fluid networks through time. Control volumes
// attached to network nodes carry (mass, specific enthalpy) states; at
// every right-hand-side evaluation the package converts those states to
// pressure/enthalpy boundaries, re-solves the steady network and
// accumulates the resulting mass and enthalpy fluxes.
//
// What:
//
//   - ControlVolume: a fixed-volume lumped store. Its boundary pressure
//     is recovered from (density, enthalpy), directly when the property
//     backend can invert, by bisection otherwise.
//   - Schedule: time-indexed step overrides for valve positions and
//     boundary pressures/temperatures. The value in effect at time t is
//     the last event at or before t.
//   - TransientModel: the capability integrators step. InitialState,
//     RHS and the state arithmetic Add/Scale.
//   - ForwardEuler, RK4: fixed-step explicit integrators.
//   - NetworkModel: a TransientModel over a network with bound control
//     volumes. Detects active-set transitions (a valve opening), widens
//     the Newton budget and re-seeds flows across them, and caches
//     steady solutions per quantized time point for recording.
//   - Run: the stepping loop with decimated recording into a
//     timeseries.Recording.
//
// Step-size control is the caller's: a failed step surfaces as an error
// from Run and the caller decides whether to retry with a smaller dt.
//
// Errors: a control volume drained to non-positive mass wraps
// core.ErrNonPhysical; an inner steady solve failure wraps
// core.ErrBackend together with the failing time.
package sim
