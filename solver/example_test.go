package solver_test

import (
	"fmt"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/fluid"
	"github.com/kyleas/thermoflow-sub000/network"
	"github.com/kyleas/thermoflow-sub000/solver"
)

// ExampleSolve discharges a nitrogen reservoir through a choked orifice.
// With pressure and temperature fixed on both sides nothing is left to
// iterate: the solver evaluates the flow directly.
func ExampleSolve() {
	var b network.Builder
	src := b.AddNode("reservoir")
	dst := b.AddNode("vent")
	orf, _ := components.NewCompressibleOrifice("vent_orifice", 0.7, 1e-4)
	b.AddComponent(src, dst, orf)
	net, _ := b.Build()

	p := solver.NewProblem(net, fluid.NewPerfectGas(), fluid.Pure("N2"))
	_ = p.BC.SetPressureBC(src, 500_000.0)
	_ = p.BC.SetTemperatureBC(src, 300.0)
	_ = p.BC.SetPressureBC(dst, 100_000.0)
	_ = p.BC.SetTemperatureBC(dst, 300.0)

	sol, err := solver.Solve(p)
	if err != nil {
		fmt.Println("solve failed:", err)
		return
	}
	fmt.Printf("iterations=%d residual=%.1f flow positive=%t\n",
		sol.Iterations, sol.ResidualNorm, sol.Mdots[0] > 0)
	// Output:
	// iterations=0 residual=0.0 flow positive=true
}
