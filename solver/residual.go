package solver

import (
	"fmt"
	"math"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

// evaluator assembles residuals for one steady solve. It caches the
// problem, unknown layout, active set and the prior enthalpies used for
// weak-flow regularisation, so Newton and the Jacobian share one code
// path.
type evaluator struct {
	p        *SteadyProblem
	vars     []varKind
	inactive map[core.CompID]bool
	opts     *Options

	// priorEnthalpies regularise nodes with negligible throughflow
	// toward their last accepted values.
	priorEnthalpies []float64
}

// unpack merges the trial vector with the boundary table into full
// per-node pressure and enthalpy arrays.
func (e *evaluator) unpack(x []float64) (pressures, enthalpies []float64) {
	n := e.p.Net.NumNodes()
	pressures = make([]float64, n)
	enthalpies = make([]float64, n)
	for i := 0; i < n; i++ {
		node := core.NodeID(i)
		if v, ok := e.p.BC.Pressure(node); ok {
			pressures[i] = v
		}
		if v, ok := e.p.BC.Enthalpy(node); ok {
			enthalpies[i] = v
		}
	}
	for k, v := range e.vars {
		if v.pressure {
			pressures[v.node] = x[k]
		} else {
			enthalpies[v.node] = x[k]
		}
	}

	return pressures, enthalpies
}

// states builds a thermodynamic state per node. Backend rejection wraps
// core.ErrInvalidState with the offending node and values.
func (e *evaluator) states(pressures, enthalpies []float64) ([]fluid.ThermoState, error) {
	out := make([]fluid.ThermoState, len(pressures))
	for i := range pressures {
		st, err := e.p.Fluid.StateFromPH(e.p.Comp, pressures[i], enthalpies[i])
		if err != nil {
			return nil, fmt.Errorf("solver: node %d at p=%g Pa, h=%g J/kg: %w: %w",
				i, pressures[i], enthalpies[i], core.ErrInvalidState, err)
		}
		out[i] = st
	}

	return out, nil
}

// flows evaluates every component's mass flow from the node states.
// Inactive components are pinned to zero.
func (e *evaluator) flows(states []fluid.ThermoState) ([]float64, error) {
	comps := e.p.Net.Components()
	out := make([]float64, len(comps))
	for i, c := range comps {
		if e.inactive[core.CompID(i)] {
			continue
		}
		m := e.p.models[i]
		mdot, err := m.Mdot(e.p.Fluid, states[c.Inlet], states[c.Outlet])
		if err != nil {
			return nil, fmt.Errorf("solver: component %q: %w", m.Name(), err)
		}
		out[i] = mdot
	}

	return out, nil
}

// residual evaluates the mass and energy balance vector for the trial x.
//
// Steps:
//  1. Unpack x, build node states, evaluate component flows.
//  2. Accumulate per node: mass in, mass out and enthalpy-weighted
//     energy in. Reverse flow swaps the component's ports, so the
//     upstream side always supplies the transported enthalpy.
//  3. Free pressure unknowns contribute mass balance rows; free
//     enthalpy unknowns contribute energy balance rows. Nodes with
//     throughflow below WeakFlowMdot get an extra term pulling the
//     enthalpy toward its prior value, which keeps the energy rows
//     well-conditioned when a branch carries no flow.
func (e *evaluator) residual(x []float64) ([]float64, error) {
	pressures, enthalpies := e.unpack(x)
	states, err := e.states(pressures, enthalpies)
	if err != nil {
		return nil, err
	}
	flows, err := e.flows(states)
	if err != nil {
		return nil, err
	}

	n := e.p.Net.NumNodes()
	massIn := make([]float64, n)
	massOut := make([]float64, n)
	energyIn := make([]float64, n)

	for i, c := range e.p.Net.Components() {
		mdot := flows[i]
		if mdot == 0 {
			continue
		}

		from, to := c.Inlet, c.Outlet
		mag := mdot
		if mdot < 0 {
			from, to = to, from
			mag = -mdot
		}
		hOut, err := e.p.models[i].OutletEnthalpy(e.p.Fluid, states[from], states[to], mag)
		if err != nil {
			return nil, fmt.Errorf("solver: component %q outlet enthalpy: %w", e.p.models[i].Name(), err)
		}

		massOut[from] += mag
		massIn[to] += mag
		energyIn[to] += mag * hOut
	}

	r := make([]float64, len(e.vars))
	for k, v := range e.vars {
		i := int(v.node)
		if v.pressure {
			r[k] = massIn[i] - massOut[i]
			continue
		}
		mdotReg := math.Max(0, e.opts.WeakFlowMdot-massOut[i])
		r[k] = energyIn[i] - enthalpies[i]*massOut[i] - (enthalpies[i]-e.priorEnthalpies[i])*mdotReg
	}

	return r, nil
}

// validate reports whether the trial x maps to states the property
// backend accepts. The line search uses it to reject steps without
// surfacing an error.
func (e *evaluator) validate(x []float64) bool {
	pressures, enthalpies := e.unpack(x)
	_, err := e.states(pressures, enthalpies)

	return err == nil
}

func norm2(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}

	return math.Sqrt(s)
}
