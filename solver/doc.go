// Package solver computes steady-state operating points of a fluid
// network: node pressures and enthalpies such that mass and energy
// balance at every unconstrained node.
//
// What:
//
//   - SteadyProblem: a Network plus boundary conditions, a property
//     backend and a working composition. Per-solve model overrides
//     (for example a valve at a scheduled position) replace entries in
//     the problem's model table without touching the shared network.
//   - Solve / SolveWithActive: the outer fixed-point loop. Each pass
//     runs a damped Newton iteration on the free pressure/enthalpy
//     unknowns, then recomputes component mass flows from the converged
//     states and repeats until the flow pattern stabilises.
//   - AnalyzeBlocked: the blocked-subgraph analyzer. Connected groups of
//     active components with fewer than two anchor nodes cannot sustain
//     a flow solution; the analyzer pins their free nodes to an anchor
//     (or ambient) state and marks the trapped components inactive.
//   - Solution: per-node pressures and enthalpies, per-component mass
//     flows, the final residual norm and the Newton iteration count.
//
// Why Newton with a backtracking line search: component flow laws are
// square-root-like in the pressure differential, so raw Newton steps
// overshoot near zero flow and can drive pressures negative. The line
// search halves the step until pressures stay above a floor, the trial
// states validate against the property backend and the residual norm
// decreases. A rank-revealing SVD fallback handles the singular
// Jacobians that arise when a subnetwork carries no flow.
//
// Complexity: each Newton iteration costs one residual evaluation per
// unknown for the finite-difference Jacobian plus an O(n³) dense solve.
// Networks here are small (tens of nodes), so assembly dominates.
//
// Errors: setup faults wrap core.ErrProblemSetup, non-convergence wraps
// core.ErrConvergence, and states the property backend rejects wrap
// core.ErrInvalidState. All errors match with errors.Is.
package solver
