package solver_test

import (
	"testing"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/fluid"
	"github.com/kyleas/thermoflow-sub000/network"
	"github.com/kyleas/thermoflow-sub000/solver"
)

// BenchmarkSolveSeries measures a full cold solve of a three-node series
// network with one free junction.
func BenchmarkSolveSeries(b *testing.B) {
	var nb network.Builder
	src := nb.AddNode("src")
	mid := nb.AddNode("mid")
	dst := nb.AddNode("dst")
	o1, _ := components.NewOrifice("o1", 0.7, 1e-4)
	o2, _ := components.NewOrifice("o2", 0.7, 1e-4)
	nb.AddComponent(src, mid, o1)
	nb.AddComponent(mid, dst, o2)
	net, _ := nb.Build()

	fl := fluid.NewPerfectGas()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := solver.NewProblem(net, fl, fluid.Pure("N2"))
		_ = p.BC.SetPressureBC(src, 500_000.0)
		_ = p.BC.SetTemperatureBC(src, 300.0)
		_ = p.BC.SetPressureBC(dst, 100_000.0)
		_ = p.BC.SetTemperatureBC(dst, 300.0)
		if _, err := solver.Solve(p); err != nil {
			b.Fatal(err)
		}
	}
}
