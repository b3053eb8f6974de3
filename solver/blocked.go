package solver

import (
	"github.com/kyleas/thermoflow-sub000/core"
)

// AnalyzeBlocked pins under-constrained subgraphs before a solve.
//
// Connectivity is taken over active components only. A connected group
// of nodes with fewer than two anchor nodes (pressure and thermal
// boundary both fixed) cannot sustain a flow solution: the analyzer
// writes the single anchor's values, or the supplied ambient pair, onto
// every unconstrained node in the group and reports the group's active
// components as inactive. The caller removes them from the active set
// passed to SolveWithActive.
//
// Groups containing a component newly activated since lastActive are
// left alone for one step, so an opening valve gets a chance to
// establish flow between anchors. An empty lastActive disables that
// exception (initial solve).
//
// AnalyzeBlocked mutates p.BC.
func AnalyzeBlocked(p *SteadyProblem, active, lastActive map[core.CompID]bool, ambientP, ambientH float64) map[core.CompID]bool {
	n := p.Net.NumNodes()
	adjacency := make([][]int, n)

	type edge struct {
		comp          core.CompID
		inlet, outlet int
	}
	var activeEdges []edge

	for i, c := range p.Net.Components() {
		id := core.CompID(i)
		if active != nil && !active[id] {
			continue
		}
		in, out := int(c.Inlet), int(c.Outlet)
		adjacency[in] = append(adjacency[in], out)
		adjacency[out] = append(adjacency[out], in)
		activeEdges = append(activeEdges, edge{comp: id, inlet: in, outlet: out})
	}

	inactive := make(map[core.CompID]bool)
	visited := make([]bool, n)
	var stack []int

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		// 1) Collect the connected group and its anchors.
		stack = append(stack[:0], start)
		visited[start] = true
		var group []int
		var anchors []int
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group = append(group, idx)
			if p.BC.Anchored(core.NodeID(idx)) {
				anchors = append(anchors, idx)
			}
			for _, nb := range adjacency[idx] {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		if len(anchors) >= 2 {
			continue
		}

		// 2) A freshly opened component may be about to connect this
		//    group to an anchor elsewhere; give it one step.
		inGroup := make(map[int]bool, len(group))
		for _, idx := range group {
			inGroup[idx] = true
		}
		if len(lastActive) > 0 {
			newly := false
			for _, e := range activeEdges {
				if inGroup[e.inlet] && inGroup[e.outlet] && !lastActive[e.comp] {
					newly = true
					break
				}
			}
			if newly {
				continue
			}
		}

		// 3) Pin the group to its anchor, or to ambient.
		anchorP, anchorH := ambientP, ambientH
		if len(anchors) == 1 {
			node := core.NodeID(anchors[0])
			if v, ok := p.BC.Pressure(node); ok {
				anchorP = v
			}
			if v, ok := p.BC.Enthalpy(node); ok {
				anchorH = v
			} else if tk, ok := p.BC.Temperature(node); ok {
				if st, err := p.Fluid.StateFromPT(p.Comp, anchorP, tk); err == nil {
					anchorH = st.Enthalpy()
				}
			}
		}
		for _, idx := range group {
			node := core.NodeID(idx)
			if p.BC.PressureFree(node) {
				_ = p.BC.SetPressureBC(node, anchorP)
			}
			if p.BC.EnthalpyFree(node) {
				_ = p.BC.SetEnthalpyBC(node, anchorH)
			}
		}
		for _, e := range activeEdges {
			if inGroup[e.inlet] && inGroup[e.outlet] {
				inactive[e.comp] = true
			}
		}
	}

	return inactive
}
