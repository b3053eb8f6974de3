// Package thermoflow simulates compressible fluid networks, steady
// operating points and transient blowdowns alike, on top of an
// exchangeable thermodynamic property backend.
//
// 🚀 What is thermoflow?
//
//	A library for plumbing-level fluid systems that brings together:
//		• Component models: orifices, valves, pipes, pumps, turbines, line volumes
//		• Property backends: calorically perfect gas mixtures + frozen surrogates
//		• Network graphs: nodes, directed two-port components, boundary tables
//		• Steady solver: damped Newton with SVD fallback and flow fixed-point
//		• Blocked-subgraph analysis: isolated branches pinned, not diverging
//		• Transient engine: control volumes integrated by Euler or RK4
//		• Recording: decimated time series with PNG rendering
//
// ✨ Why choose thermoflow?
//
//   - Physical guarantees – flows vanish smoothly at zero differential,
//     choking plateaus, throttling stays isenthalpic
//   - Robust numerics – line-searched Newton steps keep pressures
//     positive and states inside the backend's validity range
//   - Errors you can branch on – one sentinel taxonomy, matched with
//     errors.Is through every layer
//
// Everything is organized under focused subpackages:
//
//	core/       — identifiers, the error taxonomy, numeric guards
//	fluid/      — property backends: perfect gas, frozen surrogate
//	components/ — two-port physical models
//	network/    — graph builder and boundary-condition tables
//	solver/     — steady-state Newton solver + blocked-subgraph analyzer
//	sim/        — control volumes, schedules, integrators, transient runs
//	metrics/    — solve and cache instrumentation (Prometheus)
//	timeseries/ — run recordings and plotting
//
// A reservoir venting through an orifice:
//
//	tank ──orifice──▶ vent
//
//	var b network.Builder
//	tank, vent := b.AddNode("tank"), b.AddNode("vent")
//	orf, _ := components.NewCompressibleOrifice("orf", 0.7, 1e-4)
//	b.AddComponent(tank, vent, orf)
//	net, _ := b.Build()
//
//	p := solver.NewProblem(net, fluid.NewPerfectGas(), fluid.Pure("N2"))
//	_ = p.BC.SetPressureBC(tank, 500_000)
//	_ = p.BC.SetTemperatureBC(tank, 300)
//	_ = p.BC.SetPressureBC(vent, 100_000)
//	_ = p.BC.SetTemperatureBC(vent, 300)
//	sol, _ := solver.Solve(p)
//
// See the package documentation of each subpackage for details and the
// example tests for runnable walk-throughs.
package thermoflow
