package solver

import (
	"fmt"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
	"github.com/kyleas/thermoflow-sub000/network"
)

// SteadyProblem binds a network to boundary conditions, a property
// backend and a working composition.
//
// The model table starts as a copy of the network's component models;
// SetModel overrides single entries per problem (a valve at a scheduled
// position, a pump at a commanded rise) without mutating the shared
// network definition.
type SteadyProblem struct {
	Net   *network.Network
	BC    *network.BCTable
	Fluid fluid.Model
	Comp  fluid.Composition

	models []components.TwoPort
}

// NewProblem builds a problem over net with empty boundary conditions.
func NewProblem(net *network.Network, fl fluid.Model, comp fluid.Composition) *SteadyProblem {
	return &SteadyProblem{
		Net:    net,
		BC:     network.NewBCTable(net.NumNodes()),
		Fluid:  fl,
		Comp:   comp,
		models: net.Models(),
	}
}

// SetModel replaces the model used for component id in this problem.
func (p *SteadyProblem) SetModel(id core.CompID, m components.TwoPort) error {
	if int(id) < 0 || int(id) >= len(p.models) {
		return fmt.Errorf("solver: component %d out of range: %w", id, core.ErrInvalidArg)
	}
	if m == nil {
		return fmt.Errorf("solver: nil model for component %d: %w", id, core.ErrInvalidArg)
	}
	p.models[id] = m

	return nil
}

// Model returns the model in effect for component id.
func (p *SteadyProblem) Model(id core.CompID) components.TwoPort {
	return p.models[id]
}

// validate checks the problem is solvable before any numerics run.
func (p *SteadyProblem) validate() error {
	if p.Net == nil || p.BC == nil || p.Fluid == nil {
		return fmt.Errorf("solver: problem missing network, boundary table or backend: %w", core.ErrProblemSetup)
	}
	if p.BC.NumNodes() != p.Net.NumNodes() {
		return fmt.Errorf("solver: boundary table sized for %d nodes, network has %d: %w",
			p.BC.NumNodes(), p.Net.NumNodes(), core.ErrProblemSetup)
	}
	return nil
}

// varKind tags one entry of the unknown vector.
type varKind struct {
	node     core.NodeID
	pressure bool // false means enthalpy
}

// layout lists the unknowns in node order: pressure first, then enthalpy,
// each only when unconstrained. Pressure and enthalpy are counted
// independently.
func (p *SteadyProblem) layout() []varKind {
	var vars []varKind
	for i := 0; i < p.Net.NumNodes(); i++ {
		node := core.NodeID(i)
		if p.BC.PressureFree(node) {
			vars = append(vars, varKind{node: node, pressure: true})
		}
		if p.BC.EnthalpyFree(node) {
			vars = append(vars, varKind{node: node})
		}
	}

	return vars
}
