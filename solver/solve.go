package solver

import (
	"fmt"
	"math"
	"time"

	"github.com/kyleas/thermoflow-sub000/core"
)

// Solve computes the steady operating point of p with every component
// active. See SolveWithActive.
func Solve(p *SteadyProblem, opts ...Option) (*Solution, error) {
	return SolveWithActive(p, nil, opts...)
}

// SolveWithActive computes the steady operating point of p considering
// only the components in active. A nil set means all components are
// active; inactive components carry zero flow and do not couple their
// ports.
//
// Steps:
//  1. Validate the problem and resolve temperature boundaries to
//     enthalpy via the property backend.
//  2. Fully constrained problems short-circuit: states come straight
//     from the boundary table and flows are evaluated once. The
//     solution reports zero iterations and zero residual.
//  3. Otherwise iterate: an inner damped Newton solve on the free
//     unknowns, then component flows recomputed at the converged
//     states. The loop ends when the flow pattern is stable between
//     passes, within MdotTolAbs + MdotTolRel·max(|old|,|new|) per
//     component.
func SolveWithActive(p *SteadyProblem, active map[core.CompID]bool, opts ...Option) (*Solution, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	o.Metrics.SolveStarted()
	start := time.Now()
	sol, err := solve(p, active, &o)
	iters := 0
	if sol != nil {
		iters = sol.Iterations
	}
	o.Metrics.SolveFinished(iters, time.Since(start), err)

	return sol, err
}

func solve(p *SteadyProblem, active map[core.CompID]bool, o *Options) (*Solution, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := p.BC.ConvertAllTemperatureBCs(p.Fluid, p.Comp); err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	inactive := inactiveSet(p, active)
	e := &evaluator{p: p, vars: p.layout(), inactive: inactive, opts: o}

	pGuess, hGuess := initialGuess(p)
	e.priorEnthalpies = append([]float64(nil), hGuess...)

	// 2) Direct path: nothing to solve for.
	if len(e.vars) == 0 {
		states, err := e.states(pGuess, hGuess)
		if err != nil {
			return nil, err
		}
		flows, err := e.flows(states)
		if err != nil {
			return nil, err
		}

		return &Solution{Pressures: pGuess, Enthalpies: hGuess, Mdots: flows}, nil
	}

	x := packGuess(e.vars, pGuess, hGuess, o.WarmStart)
	prevFlows := initialFlows(p, inactive, o.WarmStart)

	// 3) Flow fixed point around the inner Newton solve.
	totalIters := 0
	for outer := 0; outer < o.OuterMaxIter; outer++ {
		res, err := e.newton(x, o.NewtonMaxIter)
		if err != nil {
			return nil, err
		}
		totalIters += res.iterations
		x = res.x

		pressures, enthalpies := e.unpack(x)
		states, err := e.states(pressures, enthalpies)
		if err != nil {
			return nil, err
		}
		flows, err := e.flows(states)
		if err != nil {
			return nil, err
		}

		o.Logger.Debug("steady outer pass",
			"pass", outer,
			"newton_iterations", res.iterations,
			"residual_norm", res.residualNorm)

		if flowsStable(prevFlows, flows, o) {
			return &Solution{
				Pressures:    pressures,
				Enthalpies:   enthalpies,
				Mdots:        flows,
				ResidualNorm: res.residualNorm,
				Iterations:   totalIters,
			}, nil
		}
		prevFlows = flows
		e.priorEnthalpies = append(e.priorEnthalpies[:0], enthalpies...)
	}

	return nil, fmt.Errorf("solver: flow pattern did not stabilise in %d outer passes: %w",
		o.OuterMaxIter, core.ErrConvergence)
}

// inactiveSet inverts the caller's active set. nil means everything runs.
func inactiveSet(p *SteadyProblem, active map[core.CompID]bool) map[core.CompID]bool {
	if active == nil {
		return nil
	}
	inactive := make(map[core.CompID]bool)
	for i := 0; i < p.Net.NumComponents(); i++ {
		if !active[core.CompID(i)] {
			inactive[core.CompID(i)] = true
		}
	}

	return inactive
}

// initialGuess fills per-node pressure and enthalpy arrays from the
// boundary table and propagates boundary values along components into
// unconstrained neighbours, so isolated branches start near their
// feeding boundary instead of at the global default.
func initialGuess(p *SteadyProblem) (pressures, enthalpies []float64) {
	n := p.Net.NumNodes()
	pressures = make([]float64, n)
	enthalpies = make([]float64, n)
	pKnown := make([]bool, n)
	hKnown := make([]bool, n)

	for i := 0; i < n; i++ {
		pressures[i] = defaultPressureGuess
		enthalpies[i] = defaultEnthalpyGuess
		node := core.NodeID(i)
		if v, ok := p.BC.Pressure(node); ok {
			pressures[i] = v
			pKnown[i] = true
		}
		if v, ok := p.BC.Enthalpy(node); ok {
			enthalpies[i] = v
			hKnown[i] = true
		}
	}

	// Breadth-limited sweep: copy known values across components until
	// nothing changes.
	for pass := 0; pass < 10; pass++ {
		changed := false
		for _, c := range p.Net.Components() {
			a, b := int(c.Inlet), int(c.Outlet)
			if pKnown[a] && !pKnown[b] {
				pressures[b], pKnown[b] = pressures[a], true
				changed = true
			} else if pKnown[b] && !pKnown[a] {
				pressures[a], pKnown[a] = pressures[b], true
				changed = true
			}
			if hKnown[a] && !hKnown[b] {
				enthalpies[b], hKnown[b] = enthalpies[a], true
				changed = true
			} else if hKnown[b] && !hKnown[a] {
				enthalpies[a], hKnown[a] = enthalpies[b], true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return pressures, enthalpies
}

// packGuess builds the unknown vector from the guess arrays, or from a
// size-compatible warm start.
func packGuess(vars []varKind, pressures, enthalpies []float64, warm *Solution) []float64 {
	if warm != nil && len(warm.Pressures) == len(pressures) && len(warm.Enthalpies) == len(enthalpies) {
		pressures, enthalpies = warm.Pressures, warm.Enthalpies
	}
	x := make([]float64, len(vars))
	for k, v := range vars {
		if v.pressure {
			x[k] = pressures[v.node]
		} else {
			x[k] = enthalpies[v.node]
		}
	}

	return x
}

// initialFlows seeds the stability comparison: warm-start flows when
// available, otherwise a small nonzero flow on active components.
func initialFlows(p *SteadyProblem, inactive map[core.CompID]bool, warm *Solution) []float64 {
	n := p.Net.NumComponents()
	if warm != nil && len(warm.Mdots) == n {
		return append([]float64(nil), warm.Mdots...)
	}
	flows := make([]float64, n)
	for i := range flows {
		if !inactive[core.CompID(i)] {
			flows[i] = defaultWeakFlowMdot
		}
	}

	return flows
}

func flowsStable(old, new []float64, o *Options) bool {
	for i := range new {
		tol := o.MdotTolAbs + o.MdotTolRel*math.Max(math.Abs(old[i]), math.Abs(new[i]))
		if math.Abs(new[i]-old[i]) > tol {
			return false
		}
	}

	return true
}
