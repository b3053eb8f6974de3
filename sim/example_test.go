package sim_test

import (
	"fmt"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/fluid"
	"github.com/kyleas/thermoflow-sub000/network"
	"github.com/kyleas/thermoflow-sub000/sim"
)

// ExampleRun integrates a nitrogen tank venting through a small orifice
// to a fixed ambient.
func ExampleRun() {
	var b network.Builder
	tank := b.AddNode("tank")
	vent := b.AddNode("vent")
	orf, _ := components.NewOrifice("vent_orifice", 0.7, 1e-6)
	b.AddComponent(tank, vent, orf)
	net, _ := b.Build()

	fl := fluid.NewPerfectGas()
	comp := fluid.Pure("N2")
	bc := network.NewBCTable(net.NumNodes())
	_ = bc.SetPressureBC(vent, 100_000.0)
	_ = bc.SetTemperatureBC(vent, 300.0)

	m, _ := sim.NewNetworkModel(net, fl, comp, bc, nil)
	st, _ := fl.StateFromPT(comp, 500_000.0, 300.0)
	rho, _ := fl.Rho(st)
	cv, _ := sim.NewControlVolume("tank", 0.01, comp)
	_ = m.AddControlVolume(tank, cv, sim.ControlVolumeState{Mass: rho * 0.01, Enthalpy: st.Enthalpy()})

	opts := sim.DefaultRunOptions()
	opts.Dt = 1e-3
	opts.TEnd = 0.05
	opts.Integrator = sim.ForwardEuler{}

	rec, err := sim.Run(m, opts)
	if err != nil {
		fmt.Println("run failed:", err)
		return
	}
	mass, _ := rec.ColumnByLabel("tank.m")
	fmt.Printf("samples=%d tank drained=%t\n", rec.Len(), mass[len(mass)-1] < mass[0])
	// Output:
	// samples=6 tank drained=true
}
