package sim

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
	"github.com/kyleas/thermoflow-sub000/metrics"
	"github.com/kyleas/thermoflow-sub000/network"
	"github.com/kyleas/thermoflow-sub000/solver"
)

// Graph-connectivity activation threshold on a valve's law-applied
// opening. Distinct from the epsilon dead bands in component physics.
const hydraulicActiveFactor = 1e-3

// Ambient used to pin fully isolated subgraphs.
const (
	ambientPressure    = 101_325.0
	ambientTemperature = 300.0
	ambientCpFallback  = 1005.0
)

// Widened Newton settings for active-set growth transitions (a valve
// opening onto a quiescent branch).
const (
	transitionNewtonMaxIter    = 250
	transitionEnthalpyDeltaAbs = 3.0e5
	transitionEnthalpyDeltaRel = 0.5
	transitionEnthalpyTotalAbs = 8.0e5
	transitionEnthalpyTotalRel = 2.0
	transitionWeakFlowMdot     = 0.5
	transitionWeakFlowScale    = 0.25
)

const solutionCacheCap = 500

type cvBinding struct {
	node core.NodeID
	cv   *ControlVolume
	init ControlVolumeState
}

// NetworkModel is a TransientModel over a fluid network with control
// volumes bound to nodes. The state vector interleaves (mass, enthalpy)
// pairs in binding order.
type NetworkModel struct {
	net      *network.Network
	fl       fluid.Model
	comp     fluid.Composition
	baseBC   *network.BCTable
	schedule *Schedule

	cvs     []cvBinding
	cvIndex map[core.NodeID]int

	logger  *slog.Logger
	metrics metrics.Collector

	lastSolution   *solver.Solution
	lastActive     map[core.CompID]bool
	lastCVPressure []float64
	cache          map[int64]*solver.Solution
}

// ModelOption configures a NetworkModel.
type ModelOption func(*NetworkModel)

// WithLogger routes transient debug traces to l.
func WithLogger(l *slog.Logger) ModelOption {
	return func(m *NetworkModel) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics wires a metrics collector into the model's solves and
// cache lookups.
func WithMetrics(c metrics.Collector) ModelOption {
	return func(m *NetworkModel) {
		if c != nil {
			m.metrics = c
		}
	}
}

// NewNetworkModel binds a network, its static boundary conditions and a
// schedule into an integrable model. bc holds the external boundaries;
// control-volume nodes must be left unconstrained in it and are bound
// via AddControlVolume. A nil schedule means no overrides.
func NewNetworkModel(net *network.Network, fl fluid.Model, comp fluid.Composition,
	bc *network.BCTable, sched *Schedule, opts ...ModelOption) (*NetworkModel, error) {
	if net == nil || fl == nil || bc == nil {
		return nil, fmt.Errorf("sim: network, backend and boundary table are required: %w", core.ErrProblemSetup)
	}
	if bc.NumNodes() != net.NumNodes() {
		return nil, fmt.Errorf("sim: boundary table sized for %d nodes, network has %d: %w",
			bc.NumNodes(), net.NumNodes(), core.ErrProblemSetup)
	}
	if sched == nil {
		sched = NewSchedule()
	}

	m := &NetworkModel{
		net:      net,
		fl:       fl,
		comp:     comp,
		baseBC:   bc,
		schedule: sched,
		cvIndex:  make(map[core.NodeID]int),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:  metrics.Nop(),
		cache:    make(map[int64]*solver.Solution),
	}
	for _, fn := range opts {
		fn(m)
	}

	return m, nil
}

// AddControlVolume binds cv to a network node with its initial state.
func (m *NetworkModel) AddControlVolume(node core.NodeID, cv *ControlVolume, init ControlVolumeState) error {
	if int(node) < 0 || int(node) >= m.net.NumNodes() {
		return fmt.Errorf("sim: node %d out of range: %w", node, core.ErrInvalidArg)
	}
	if _, dup := m.cvIndex[node]; dup {
		return fmt.Errorf("sim: node %d already has a control volume: %w", node, core.ErrInvalidArg)
	}
	if cv == nil {
		return fmt.Errorf("sim: nil control volume for node %d: %w", node, core.ErrInvalidArg)
	}
	if init.Mass <= 0 {
		return fmt.Errorf("sim: control volume %q: initial mass=%g kg must be positive: %w",
			cv.Name(), init.Mass, core.ErrNonPhysical)
	}

	m.cvIndex[node] = len(m.cvs)
	m.cvs = append(m.cvs, cvBinding{node: node, cv: cv, init: init})
	m.lastCVPressure = append(m.lastCVPressure, 0)

	return nil
}

// StateLabels names the state columns "<cv>.m" and "<cv>.h".
func (m *NetworkModel) StateLabels() []string {
	labels := make([]string, 0, 2*len(m.cvs))
	for _, b := range m.cvs {
		labels = append(labels, b.cv.Name()+".m", b.cv.Name()+".h")
	}

	return labels
}

func (m *NetworkModel) InitialState() State {
	x := make(State, 0, 2*len(m.cvs))
	for _, b := range m.cvs {
		x = append(x, b.init.Mass, b.init.Enthalpy)
	}

	return x
}

func (m *NetworkModel) Add(a, b State) State {
	out := make(State, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}

	return out
}

func (m *NetworkModel) Scale(a State, k float64) State {
	out := make(State, len(a))
	for i := range a {
		out[i] = a[i] * k
	}

	return out
}

// RHS computes the state derivative at time t.
//
// Steps:
//  1. Solve the steady network with schedule overrides, control-volume
//     boundaries and the blocked-subgraph analysis applied.
//  2. Accumulate mass and enthalpy flux into each control volume from
//     every incident component flow. Outflow leaves at the volume's own
//     enthalpy; inflow arrives at the component's outlet enthalpy, with
//     ports swapped for reverse flow.
//  3. dm/dt is the net mass flux; dh/dt = (d(mh)/dt - h·dm/dt)/m.
func (m *NetworkModel) RHS(t float64, x State) (State, error) {
	sol, prob, err := m.solveAt(t, x)
	if err != nil {
		return nil, err
	}

	nodeStates := make([]fluid.ThermoState, m.net.NumNodes())
	for i := range nodeStates {
		st, err := m.fl.StateFromPH(m.comp, sol.Pressures[i], sol.Enthalpies[i])
		if err != nil {
			return nil, fmt.Errorf("sim: node %d at t=%g s: %w: %w", i, t, core.ErrInvalidState, err)
		}
		nodeStates[i] = st
	}

	n := len(m.cvs)
	dmIn := make([]float64, n)
	dmOut := make([]float64, n)
	dmhIn := make([]float64, n)
	dmhOut := make([]float64, n)

	for i, c := range m.net.Components() {
		mdot := sol.Mdots[i]
		if mdot == 0 {
			continue
		}
		from, to := c.Inlet, c.Outlet
		mag := mdot
		if mdot < 0 {
			from, to = to, from
			mag = -mdot
		}

		if idx, ok := m.cvIndex[from]; ok {
			dmOut[idx] += mag
			dmhOut[idx] += mag * x[2*idx+1]
		}
		if idx, ok := m.cvIndex[to]; ok {
			hOut, err := prob.Model(core.CompID(i)).OutletEnthalpy(m.fl, nodeStates[from], nodeStates[to], mag)
			if err != nil {
				return nil, fmt.Errorf("sim: component %q outlet enthalpy at t=%g s: %w",
					prob.Model(core.CompID(i)).Name(), t, err)
			}
			dmIn[idx] += mag
			dmhIn[idx] += mag * hOut
		}
	}

	deriv := make(State, len(x))
	for idx, b := range m.cvs {
		mass := x[2*idx]
		if mass <= 0 {
			return nil, fmt.Errorf("sim: control volume %q drained to %g kg at t=%g s: %w",
				b.cv.Name(), mass, t, core.ErrNonPhysical)
		}
		dm := dmIn[idx] - dmOut[idx]
		dmh := dmhIn[idx] - dmhOut[idx]
		deriv[2*idx] = dm
		deriv[2*idx+1] = (dmh - x[2*idx+1]*dm) / mass
	}

	return deriv, nil
}

// Snapshot returns the steady solution at (t, x), reusing the cached
// solve when the stepper already visited this time point.
func (m *NetworkModel) Snapshot(t float64, x State) (*solver.Solution, error) {
	if sol, ok := m.cache[timeKey(t)]; ok {
		m.metrics.CacheHit()
		return sol, nil
	}
	m.metrics.CacheMiss()
	sol, _, err := m.solveAt(t, x)

	return sol, err
}

// LastSolution returns the most recent steady solution, nil before the
// first solve.
func (m *NetworkModel) LastSolution() *solver.Solution { return m.lastSolution }

// solveAt assembles and solves the steady problem at time t for the
// integrated state x.
func (m *NetworkModel) solveAt(t float64, x State) (*solver.Solution, *solver.SteadyProblem, error) {
	if len(x) != 2*len(m.cvs) {
		return nil, nil, fmt.Errorf("sim: state length %d, want %d: %w", len(x), 2*len(m.cvs), core.ErrInvalidArg)
	}

	prob := solver.NewProblem(m.net, m.fl, m.comp)
	prob.BC = m.baseBC.Clone()

	// Schedule overrides on external boundaries.
	for node, events := range m.schedule.boundaryPressure {
		if v, ok := lastEventValue(events, t); ok {
			if err := prob.BC.SetPressureBC(node, v); err != nil {
				return nil, nil, fmt.Errorf("sim: pressure schedule at t=%g s: %w", t, err)
			}
		}
	}
	for node, events := range m.schedule.boundaryTemperature {
		if v, ok := lastEventValue(events, t); ok {
			if err := prob.BC.SetTemperatureBC(node, v); err != nil {
				return nil, nil, fmt.Errorf("sim: temperature schedule at t=%g s: %w", t, err)
			}
		}
	}

	// Valve positions and the active set.
	active := make(map[core.CompID]bool)
	for i := 0; i < m.net.NumComponents(); i++ {
		id := core.CompID(i)
		model := prob.Model(id)
		if th, ok := model.(components.Throttleable); ok {
			if pos, scheduled := m.schedule.ValvePosition(id, t); scheduled {
				model = th.WithPosition(pos)
				if err := prob.SetModel(id, model); err != nil {
					return nil, nil, err
				}
			}
		}
		if isHydraulicallyActive(model) {
			active[id] = true
		}
	}

	// Control-volume boundaries, warm-started from the previous step's
	// pressures.
	for idx, b := range m.cvs {
		st := ControlVolumeState{Mass: x[2*idx], Enthalpy: x[2*idx+1]}
		p, h, err := b.cv.Boundary(m.fl, st, m.lastCVPressure[idx])
		if err != nil {
			return nil, nil, fmt.Errorf("sim: at t=%g s: %w", t, err)
		}
		m.lastCVPressure[idx] = p
		if err := prob.BC.SetPressureBC(b.node, p); err != nil {
			return nil, nil, err
		}
		if err := prob.BC.SetEnthalpyBC(b.node, h); err != nil {
			return nil, nil, err
		}
	}

	for id := range solver.AnalyzeBlocked(prob, active, m.lastActive, ambientPressure, m.ambientEnthalpy()) {
		delete(active, id)
	}

	opts := []solver.Option{
		solver.WithLogger(m.logger),
		solver.WithMetrics(m.metrics),
	}

	warm := m.lastSolution
	changed := !activeSetsEqual(active, m.lastActive)
	if changed {
		// Re-seed flows across the topology change and drop stale
		// cached solutions.
		warm = m.projectFlows(prob, active)
		m.cache = make(map[int64]*solver.Solution)
		if len(active) > len(m.lastActive) {
			opts = append(opts,
				solver.WithNewtonMaxIter(transitionNewtonMaxIter),
				solver.WithEnthalpyTrustRegion(
					transitionEnthalpyDeltaAbs, transitionEnthalpyDeltaRel,
					transitionEnthalpyTotalAbs, transitionEnthalpyTotalRel),
				solver.WithWeakFlowRegularization(transitionWeakFlowMdot, transitionWeakFlowScale),
			)
			m.logger.Debug("active set grew", "t", t, "active", len(active), "was", len(m.lastActive))
		}
	}
	if warm != nil {
		opts = append(opts, solver.WithWarmStart(warm))
	}

	sol, err := solver.SolveWithActive(prob, active, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("sim: steady solve at t=%g s: %w: %w", t, core.ErrBackend, err)
	}

	m.lastSolution = sol
	m.lastActive = active
	m.storeCache(t, sol)

	return sol, prob, nil
}

// projectFlows maps the previous solution onto a changed active set:
// flows are re-evaluated from the previous node states, newly active
// components whose evaluation fails get a small positive seed. Returns
// nil when no previous solution exists or its states no longer validate.
func (m *NetworkModel) projectFlows(prob *solver.SteadyProblem, active map[core.CompID]bool) *solver.Solution {
	prev := m.lastSolution
	if prev == nil {
		return nil
	}
	states := make([]fluid.ThermoState, len(prev.Pressures))
	for i := range prev.Pressures {
		st, err := m.fl.StateFromPH(m.comp, prev.Pressures[i], prev.Enthalpies[i])
		if err != nil {
			return nil
		}
		states[i] = st
	}

	adjusted := &solver.Solution{
		Pressures:  append([]float64(nil), prev.Pressures...),
		Enthalpies: append([]float64(nil), prev.Enthalpies...),
		Mdots:      make([]float64, len(prev.Mdots)),
	}
	for i, c := range m.net.Components() {
		id := core.CompID(i)
		if !active[id] {
			continue
		}
		mdot, err := prob.Model(id).Mdot(m.fl, states[c.Inlet], states[c.Outlet])
		if err != nil {
			if !m.lastActive[id] {
				mdot = 1e-3
			} else {
				mdot = 0
			}
		}
		adjusted.Mdots[i] = mdot
	}

	return adjusted
}

func (m *NetworkModel) ambientEnthalpy() float64 {
	st, err := m.fl.StateFromPT(m.comp, ambientPressure, ambientTemperature)
	if err != nil {
		return ambientTemperature * ambientCpFallback
	}

	return st.Enthalpy()
}

func (m *NetworkModel) storeCache(t float64, sol *solver.Solution) {
	if len(m.cache) >= solutionCacheCap {
		m.cache = make(map[int64]*solver.Solution)
	}
	m.cache[timeKey(t)] = sol
}

// isHydraulicallyActive reports whether a component participates in
// graph connectivity. Throttled components below the activation
// threshold are treated as disconnecting edges.
func isHydraulicallyActive(model components.TwoPort) bool {
	if v, ok := model.(interface{ Opening() float64 }); ok {
		return v.Opening() > hydraulicActiveFactor
	}

	return true
}

func activeSetsEqual(a, b map[core.CompID]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}

	return true
}

func timeKey(t float64) int64 {
	return int64(math.Round(t * 1e9))
}
