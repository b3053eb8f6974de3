package network

import (
	"fmt"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/core"
)

// Builder collects nodes and components and freezes them into a Network.
// The zero value is ready to use.
type Builder struct {
	nodeNames []string
	comps     []Component
}

// AddNode appends a node and returns its ID. The name is only used in
// diagnostics; empty names are replaced with a positional label.
func (b *Builder) AddNode(name string) core.NodeID {
	id := core.NodeID(len(b.nodeNames))
	if name == "" {
		name = fmt.Sprintf("node%d", id)
	}
	b.nodeNames = append(b.nodeNames, name)

	return id
}

// AddComponent appends a directed component from inlet to outlet and
// returns its ID. Validation happens at Build.
func (b *Builder) AddComponent(inlet, outlet core.NodeID, model components.TwoPort) core.CompID {
	id := core.CompID(len(b.comps))
	b.comps = append(b.comps, Component{Inlet: inlet, Outlet: outlet, Model: model})

	return id
}

// Build validates the collected definition and freezes it.
//
// Steps:
//  1. Require at least one node.
//  2. Every component must carry a model and reference existing nodes.
//  3. Precompute per-node incidence lists.
func (b *Builder) Build() (*Network, error) {
	if len(b.nodeNames) == 0 {
		return nil, fmt.Errorf("network has no nodes: %w", core.ErrProblemSetup)
	}

	n := len(b.nodeNames)
	incidence := make([][]Incidence, n)
	for i, c := range b.comps {
		if c.Model == nil {
			return nil, fmt.Errorf("component %d has no model: %w", i, core.ErrProblemSetup)
		}
		if int(c.Inlet) < 0 || int(c.Inlet) >= n {
			return nil, fmt.Errorf("component %q: inlet node %d out of range [0,%d): %w",
				c.Model.Name(), c.Inlet, n, core.ErrProblemSetup)
		}
		if int(c.Outlet) < 0 || int(c.Outlet) >= n {
			return nil, fmt.Errorf("component %q: outlet node %d out of range [0,%d): %w",
				c.Model.Name(), c.Outlet, n, core.ErrProblemSetup)
		}
		incidence[c.Inlet] = append(incidence[c.Inlet], Incidence{Comp: core.CompID(i), Outbound: true})
		incidence[c.Outlet] = append(incidence[c.Outlet], Incidence{Comp: core.CompID(i), Outbound: false})
	}

	comps := make([]Component, len(b.comps))
	copy(comps, b.comps)
	names := make([]string, n)
	copy(names, b.nodeNames)

	return &Network{nodeNames: names, comps: comps, incidence: incidence}, nil
}

// Network is a frozen fluid-network graph. Immutable after Build.
type Network struct {
	nodeNames []string
	comps     []Component
	incidence [][]Incidence
}

// NumNodes returns the node count.
func (n *Network) NumNodes() int { return len(n.nodeNames) }

// NumComponents returns the component count.
func (n *Network) NumComponents() int { return len(n.comps) }

// NodeName returns the diagnostic name of a node.
func (n *Network) NodeName(id core.NodeID) string {
	if int(id) < 0 || int(id) >= len(n.nodeNames) {
		return fmt.Sprintf("node%d?", id)
	}

	return n.nodeNames[id]
}

// Component returns the component record for id.
func (n *Network) Component(id core.CompID) (Component, error) {
	if int(id) < 0 || int(id) >= len(n.comps) {
		return Component{}, fmt.Errorf("component %d out of range [0,%d): %w", id, len(n.comps), core.ErrProblemSetup)
	}

	return n.comps[id], nil
}

// Components returns the frozen component slice. Callers must not modify it.
func (n *Network) Components() []Component { return n.comps }

// Incident returns the incidence list of a node. Callers must not modify it.
func (n *Network) Incident(id core.NodeID) []Incidence {
	if int(id) < 0 || int(id) >= len(n.incidence) {
		return nil
	}

	return n.incidence[id]
}

// Models returns a fresh slice of the component models, in component
// order. The steady problem uses this as its mutable per-solve model
// table, so schedule overrides never touch the frozen network.
func (n *Network) Models() []components.TwoPort {
	models := make([]components.TwoPort, len(n.comps))
	for i, c := range n.comps {
		models[i] = c.Model
	}

	return models
}
