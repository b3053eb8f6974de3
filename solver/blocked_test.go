package solver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
	"github.com/kyleas/thermoflow-sub000/network"
	"github.com/kyleas/thermoflow-sub000/solver"
)

const (
	ambientP = 101_325.0
	ambientH = 300.0 * 1005.0
)

// valveProblem builds src --valve--> dst with the valve at the given
// position and boundary conditions only on src.
func valveProblem(t *testing.T, pos float64) (*solver.SteadyProblem, core.CompID, core.NodeID, core.NodeID) {
	t.Helper()
	var b network.Builder
	src := b.AddNode("src")
	dst := b.AddNode("dst")
	v, err := components.NewValve("vlv", 0.7, 1e-4, pos)
	require.NoError(t, err)
	id := b.AddComponent(src, dst, v)
	net, err := b.Build()
	require.NoError(t, err)

	p := solver.NewProblem(net, fluid.NewPerfectGas(), fluid.Pure("N2"))
	require.NoError(t, p.BC.SetPressureBC(src, 500_000.0))
	require.NoError(t, p.BC.SetEnthalpyBC(src, 3.1e5))

	return p, id, src, dst
}

// TestAnalyzeBlockedClosedValve: with the valve closed there are no
// active edges, so both nodes form singleton groups. The anchored source
// keeps its values; the free sink is pinned to ambient.
func TestAnalyzeBlockedClosedValve(t *testing.T) {
	p, id, src, dst := valveProblem(t, 0.0)

	inactive := solver.AnalyzeBlocked(p, map[core.CompID]bool{}, nil, ambientP, ambientH)

	assert.Empty(t, inactive)
	assert.True(t, p.BC.Anchored(dst))
	pv, _ := p.BC.Pressure(dst)
	hv, _ := p.BC.Enthalpy(dst)
	assert.Equal(t, ambientP, pv)
	assert.Equal(t, ambientH, hv)

	// Source keeps its own boundary values.
	pv, _ = p.BC.Pressure(src)
	assert.Equal(t, 500_000.0, pv)

	// The pinned problem is fully constrained and solves directly.
	sol, err := solver.SolveWithActive(p, map[core.CompID]bool{})
	require.NoError(t, err)
	assert.Equal(t, 0, sol.Iterations)
	assert.Equal(t, 0.0, sol.ResidualNorm)
	assert.Equal(t, 0.0, sol.Mdots[id])
}

// TestAnalyzeBlockedSingleAnchorGroup: an open valve joins the free sink
// to the anchored source, but one anchor is not enough to determine a
// flow. The group collapses onto the anchor's values and the valve is
// reported inactive.
func TestAnalyzeBlockedSingleAnchorGroup(t *testing.T) {
	p, id, _, dst := valveProblem(t, 1.0)

	active := map[core.CompID]bool{id: true}
	inactive := solver.AnalyzeBlocked(p, active, nil, ambientP, ambientH)

	assert.True(t, inactive[id])
	assert.True(t, p.BC.Anchored(dst))
	pv, _ := p.BC.Pressure(dst)
	hv, _ := p.BC.Enthalpy(dst)
	assert.Equal(t, 500_000.0, pv)
	assert.Equal(t, 3.1e5, hv)
}

// TestAnalyzeBlockedNewlyActivated: a component that just switched on is
// exempt for one step, so its group stays free while flow establishes.
func TestAnalyzeBlockedNewlyActivated(t *testing.T) {
	p, id, _, dst := valveProblem(t, 1.0)

	active := map[core.CompID]bool{id: true}
	lastActive := map[core.CompID]bool{core.CompID(99): true}
	inactive := solver.AnalyzeBlocked(p, active, lastActive, ambientP, ambientH)

	assert.Empty(t, inactive)
	assert.False(t, p.BC.Anchored(dst))
}

// TestAnalyzeBlockedTwoAnchors: a group with two anchors is solvable and
// untouched.
func TestAnalyzeBlockedTwoAnchors(t *testing.T) {
	p, id, _, dst := valveProblem(t, 1.0)
	require.NoError(t, p.BC.SetPressureBC(dst, 100_000.0))
	require.NoError(t, p.BC.SetEnthalpyBC(dst, 3.1e5))

	active := map[core.CompID]bool{id: true}
	inactive := solver.AnalyzeBlocked(p, active, nil, ambientP, ambientH)

	assert.Empty(t, inactive)
	pv, _ := p.BC.Pressure(dst)
	assert.Equal(t, 100_000.0, pv)
}
