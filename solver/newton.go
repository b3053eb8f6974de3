package solver

import (
	"fmt"
	"math"

	"github.com/kyleas/thermoflow-sub000/core"
	"gonum.org/v1/gonum/mat"
)

// svdRankThreshold scales the largest singular value to decide the
// numerical rank of a singular Jacobian.
const svdRankThreshold = 1e-10

// lineSearchStagnation is the step fraction below which backtracking is
// declared stuck.
const lineSearchStagnation = 1e-12

// newtonResult carries the inner solve outcome back to the outer loop.
type newtonResult struct {
	x            []float64
	residualNorm float64
	iterations   int
}

// newton runs the damped Newton iteration from x0 until the residual
// norm satisfies the absolute or relative tolerance.
//
// Steps per iteration:
//  1. Evaluate the residual; test convergence.
//  2. Assemble the forward-difference Jacobian and solve J·dx = -r by
//     LU, falling back to a rank-revealing SVD pseudo-inverse when the
//     factorisation reports singularity.
//  3. Limit enthalpy components of dx to the trust region, tightened on
//     weak-flow nodes.
//  4. Backtrack: halve the step until pressures stay above the floor,
//     the trial states validate and the residual norm decreases.
func (e *evaluator) newton(x0 []float64, maxIter int) (newtonResult, error) {
	x := append([]float64(nil), x0...)
	hStart := append([]float64(nil), x...)

	var r0norm float64
	for it := 0; it < maxIter; it++ {
		r, err := e.residual(x)
		if err != nil {
			return newtonResult{}, err
		}
		rnorm := norm2(r)
		if it == 0 {
			r0norm = rnorm
		}
		if rnorm < e.opts.AbsTol || rnorm < e.opts.RelTol*r0norm {
			return newtonResult{x: x, residualNorm: rnorm, iterations: it}, nil
		}

		j, err := e.jacobian(x, r)
		if err != nil {
			return newtonResult{}, err
		}
		dx, err := solveLinear(j, r)
		if err != nil {
			return newtonResult{}, err
		}

		e.limitStep(x, hStart, dx)

		xNew, ok := e.lineSearch(x, dx, rnorm)
		if !ok {
			return newtonResult{}, fmt.Errorf(
				"solver: line search stalled at iteration %d, residual=%g: %w",
				it, rnorm, core.ErrConvergence)
		}
		x = xNew
	}

	r, err := e.residual(x)
	if err != nil {
		return newtonResult{}, err
	}

	return newtonResult{}, fmt.Errorf(
		"solver: no convergence in %d iterations, residual=%g: %w",
		maxIter, norm2(r), core.ErrConvergence)
}

// solveLinear solves J·dx = -r. LU first; a singular factorisation falls
// back to the minimum-norm least-squares solution via thin SVD, keeping
// singular values above svdRankThreshold of the largest.
func solveLinear(j *mat.Dense, r []float64) ([]float64, error) {
	n := len(r)
	b := mat.NewVecDense(n, nil)
	for i, v := range r {
		b.SetVec(i, -v)
	}

	var lu mat.LU
	lu.Factorize(j)
	dx := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(dx, false, b); err == nil {
		if vecFinite(dx) {
			return dx.RawVector().Data, nil
		}
	}

	var svd mat.SVD
	if !svd.Factorize(j, mat.SVDThin) {
		return nil, fmt.Errorf("solver: jacobian SVD failed to converge: %w", core.ErrConvergence)
	}
	values := svd.Values(nil)
	rank := 0
	for _, s := range values {
		if s > svdRankThreshold*values[0] {
			rank++
		}
	}
	if rank == 0 {
		return nil, fmt.Errorf("solver: jacobian is numerically zero: %w", core.ErrConvergence)
	}

	// Minimum-norm least-squares solution dx = V · Σ⁺ · Uᵀ · (-r),
	// truncated to the numerical rank.
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	w := make([]float64, rank)
	for i := 0; i < rank; i++ {
		var dot float64
		for k := 0; k < n; k++ {
			dot += u.At(k, i) * b.AtVec(k)
		}
		w[i] = dot / values[i]
	}
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < rank; i++ {
			sum += v.At(k, i) * w[i]
		}
		out[k] = sum
	}

	return out, nil
}

// limitStep clamps the enthalpy components of dx in place. Per-step and
// total excursions are bounded by Abs + Rel*EnthalpyRef; nodes whose
// throughflow at x is below WeakFlowMdot get the tighter weak-flow
// fraction of the per-step bound.
func (e *evaluator) limitStep(x, hStart, dx []float64) {
	deltaMax := e.opts.EnthalpyDeltaAbs + e.opts.EnthalpyDeltaRel*e.opts.EnthalpyRef
	totalMax := e.opts.EnthalpyTotalAbs + e.opts.EnthalpyTotalRel*e.opts.EnthalpyRef
	if math.IsInf(deltaMax, 1) && math.IsInf(totalMax, 1) {
		return
	}

	weak := e.weakFlowNodes(x)
	for k, v := range e.vars {
		if v.pressure {
			continue
		}
		limit := deltaMax
		if weak[v.node] {
			limit *= e.opts.WeakFlowEnthalpyScale
		}
		if !math.IsInf(limit, 1) {
			dx[k] = core.Clamp(dx[k], -limit, limit)
		}
		if !math.IsInf(totalMax, 1) {
			lo := hStart[k] - totalMax - x[k]
			hi := hStart[k] + totalMax - x[k]
			dx[k] = core.Clamp(dx[k], lo, hi)
		}
	}
}

// weakFlowNodes flags nodes whose outgoing mass flow at x is below the
// weak-flow threshold. Evaluation failures flag nothing; the line search
// rejects such points anyway.
func (e *evaluator) weakFlowNodes(x []float64) map[core.NodeID]bool {
	pressures, enthalpies := e.unpack(x)
	states, err := e.states(pressures, enthalpies)
	if err != nil {
		return nil
	}
	flows, err := e.flows(states)
	if err != nil {
		return nil
	}

	massOut := make([]float64, e.p.Net.NumNodes())
	for i, c := range e.p.Net.Components() {
		switch {
		case flows[i] > 0:
			massOut[c.Inlet] += flows[i]
		case flows[i] < 0:
			massOut[c.Outlet] -= flows[i]
		}
	}

	weak := make(map[core.NodeID]bool)
	for i, m := range massOut {
		if m < e.opts.WeakFlowMdot {
			weak[core.NodeID(i)] = true
		}
	}

	return weak
}

// lineSearch backtracks along dx from x until the trial point keeps all
// pressures above the floor, validates against the property backend and
// reduces the residual norm. Returns false when the step fraction
// underflows.
func (e *evaluator) lineSearch(x, dx []float64, rnorm float64) ([]float64, bool) {
	alpha := 1.0
	trial := make([]float64, len(x))

	for ls := 0; ls <= e.opts.MaxLineSearchIter; ls++ {
		if alpha < lineSearchStagnation {
			return nil, false
		}
		for k := range x {
			trial[k] = x[k] + alpha*dx[k]
		}

		if e.pressuresBelowFloor(trial) || !e.validate(trial) {
			alpha *= e.opts.LineSearchBeta
			continue
		}
		r, err := e.residual(trial)
		if err != nil || norm2(r) >= rnorm {
			alpha *= e.opts.LineSearchBeta
			continue
		}

		return append([]float64(nil), trial...), true
	}

	return nil, false
}

func (e *evaluator) pressuresBelowFloor(x []float64) bool {
	for k, v := range e.vars {
		if v.pressure && x[k] < e.opts.MinPressure {
			return true
		}
	}

	return false
}

func vecFinite(v *mat.VecDense) bool {
	for i := 0; i < v.Len(); i++ {
		if math.IsNaN(v.AtVec(i)) || math.IsInf(v.AtVec(i), 0) {
			return false
		}
	}

	return true
}
