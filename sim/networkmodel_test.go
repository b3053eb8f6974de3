package sim_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
	"github.com/kyleas/thermoflow-sub000/network"
	"github.com/kyleas/thermoflow-sub000/sim"
)

// blowdownModel builds tank --model--> vent, a control volume draining
// to a fixed ambient node, filled with N2 so that the tank starts near
// 500 kPa at 300 K.
func blowdownModel(t *testing.T, model components.TwoPort, sched *sim.Schedule) (*sim.NetworkModel, core.NodeID) {
	t.Helper()
	var b network.Builder
	tank := b.AddNode("tank")
	vent := b.AddNode("vent")
	b.AddComponent(tank, vent, model)
	net, err := b.Build()
	require.NoError(t, err)

	fl := fluid.NewPerfectGas()
	comp := fluid.Pure("N2")
	bc := network.NewBCTable(net.NumNodes())
	require.NoError(t, bc.SetPressureBC(vent, 100_000.0))
	require.NoError(t, bc.SetTemperatureBC(vent, 300.0))

	m, err := sim.NewNetworkModel(net, fl, comp, bc, sched)
	require.NoError(t, err)

	st, err := fl.StateFromPT(comp, 500_000.0, 300.0)
	require.NoError(t, err)
	rho, err := fl.Rho(st)
	require.NoError(t, err)

	cv, err := sim.NewControlVolume("tank", 0.01, comp)
	require.NoError(t, err)
	require.NoError(t, m.AddControlVolume(tank, cv,
		sim.ControlVolumeState{Mass: rho * 0.01, Enthalpy: st.Enthalpy()}))

	return m, tank
}

// TestBlowdownMassDecreases: an orifice vents the tank; mass decays
// monotonically and enthalpy stays put (outflow carries the tank's own
// enthalpy).
func TestBlowdownMassDecreases(t *testing.T) {
	orf, err := components.NewOrifice("vent_orifice", 0.7, 1e-6)
	require.NoError(t, err)
	m, _ := blowdownModel(t, orf, nil)

	opts := sim.DefaultRunOptions()
	opts.Dt = 1e-3
	opts.TEnd = 0.1
	opts.RecordEvery = 10
	opts.Integrator = sim.ForwardEuler{}

	rec, err := sim.Run(m, opts)
	require.NoError(t, err)
	require.Greater(t, rec.Len(), 2)

	mass, err := rec.ColumnByLabel("tank.m")
	require.NoError(t, err)
	for i := 1; i < len(mass); i++ {
		assert.Less(t, mass[i], mass[i-1], "mass must decay at sample %d", i)
	}

	h, err := rec.ColumnByLabel("tank.h")
	require.NoError(t, err)
	assert.InDelta(t, h[0], h[len(h)-1], 1.0)

	// The tank pressure in the last steady solve sits below the fill
	// pressure and above ambient.
	sol := m.LastSolution()
	require.NotNil(t, sol)
	assert.Less(t, sol.Pressures[0], 500_000.0)
	assert.Greater(t, sol.Pressures[0], 100_000.0)
}

// TestValveOpeningTransient: the tank holds behind a closed valve, then
// drains once the schedule opens it.
func TestValveOpeningTransient(t *testing.T) {
	v, err := components.NewValve("drain", 0.7, 1e-6, 0.0)
	require.NoError(t, err)

	sched := sim.NewSchedule()
	sched.SetValvePosition(0, 0.05, 1.0)

	m, _ := blowdownModel(t, v, sched)

	opts := sim.DefaultRunOptions()
	opts.Dt = 1e-3
	opts.TEnd = 0.1
	opts.RecordEvery = 10
	opts.Integrator = sim.ForwardEuler{}

	rec, err := sim.Run(m, opts)
	require.NoError(t, err)

	mass, err := rec.ColumnByLabel("tank.m")
	require.NoError(t, err)
	times := rec.Times()

	for i := range times {
		if times[i] <= 0.05 {
			assert.InDelta(t, mass[0], mass[i], 1e-12, "mass must hold while closed, t=%g", times[i])
		}
	}
	assert.Less(t, mass[len(mass)-1], mass[0], "mass must drop after the valve opens")
}

// countingCollector tallies metrics events.
type countingCollector struct {
	solves, hits, misses atomic.Int64
}

func (c *countingCollector) SolveStarted()                           { c.solves.Add(1) }
func (c *countingCollector) SolveFinished(int, time.Duration, error) {}
func (c *countingCollector) CacheHit()                               { c.hits.Add(1) }
func (c *countingCollector) CacheMiss()                              { c.misses.Add(1) }

// TestSnapshotCache: a snapshot at an integrated time point reuses the
// cached steady solution instead of re-solving.
func TestSnapshotCache(t *testing.T) {
	orf, err := components.NewOrifice("vent_orifice", 0.7, 1e-6)
	require.NoError(t, err)

	var b network.Builder
	tank := b.AddNode("tank")
	vent := b.AddNode("vent")
	b.AddComponent(tank, vent, orf)
	net, err := b.Build()
	require.NoError(t, err)

	fl := fluid.NewPerfectGas()
	comp := fluid.Pure("N2")
	bc := network.NewBCTable(net.NumNodes())
	require.NoError(t, bc.SetPressureBC(vent, 100_000.0))
	require.NoError(t, bc.SetTemperatureBC(vent, 300.0))

	coll := &countingCollector{}
	m, err := sim.NewNetworkModel(net, fl, comp, bc, nil, sim.WithMetrics(coll))
	require.NoError(t, err)

	st, err := fl.StateFromPT(comp, 500_000.0, 300.0)
	require.NoError(t, err)
	rho, err := fl.Rho(st)
	require.NoError(t, err)
	cv, err := sim.NewControlVolume("tank", 0.01, comp)
	require.NoError(t, err)
	require.NoError(t, m.AddControlVolume(tank, cv,
		sim.ControlVolumeState{Mass: rho * 0.01, Enthalpy: st.Enthalpy()}))

	x := m.InitialState()
	_, err = m.RHS(0.0, x)
	require.NoError(t, err)
	solvesAfterRHS := coll.solves.Load()

	_, err = m.Snapshot(0.0, x)
	require.NoError(t, err)
	assert.Equal(t, int64(1), coll.hits.Load())
	assert.Equal(t, solvesAfterRHS, coll.solves.Load(), "cache hit must not trigger a solve")

	_, err = m.Snapshot(0.123, x)
	require.NoError(t, err)
	assert.Equal(t, int64(1), coll.misses.Load())
	assert.Greater(t, coll.solves.Load(), solvesAfterRHS)
}

// TestNetworkModelValidation: binding errors surface with the taxonomy.
func TestNetworkModelValidation(t *testing.T) {
	orf, err := components.NewOrifice("orf", 0.7, 1e-6)
	require.NoError(t, err)

	var b network.Builder
	n0 := b.AddNode("a")
	n1 := b.AddNode("b")
	b.AddComponent(n0, n1, orf)
	net, err := b.Build()
	require.NoError(t, err)

	fl := fluid.NewPerfectGas()
	bc := network.NewBCTable(net.NumNodes())

	_, err = sim.NewNetworkModel(net, fl, fluid.Pure("N2"), network.NewBCTable(7), nil)
	assert.True(t, errors.Is(err, core.ErrProblemSetup))

	m, err := sim.NewNetworkModel(net, fl, fluid.Pure("N2"), bc, nil)
	require.NoError(t, err)

	cv, err := sim.NewControlVolume("tank", 0.01, fluid.Pure("N2"))
	require.NoError(t, err)

	err = m.AddControlVolume(core.NodeID(9), cv, sim.ControlVolumeState{Mass: 1, Enthalpy: 3e5})
	assert.True(t, errors.Is(err, core.ErrInvalidArg))

	err = m.AddControlVolume(n0, cv, sim.ControlVolumeState{Mass: 0, Enthalpy: 3e5})
	assert.True(t, errors.Is(err, core.ErrNonPhysical))

	require.NoError(t, m.AddControlVolume(n0, cv, sim.ControlVolumeState{Mass: 1, Enthalpy: 3e5}))
	err = m.AddControlVolume(n0, cv, sim.ControlVolumeState{Mass: 1, Enthalpy: 3e5})
	assert.True(t, errors.Is(err, core.ErrInvalidArg))
}
