package network

import (
	"fmt"

	"github.com/kyleas/thermoflow-sub000/core"
	"github.com/kyleas/thermoflow-sub000/fluid"
)

type bcEntry struct {
	set   bool
	value float64
}

// BCTable holds per-node boundary conditions: optional pressure (Pa),
// optional specific enthalpy (J/kg), optional temperature (K).
// Temperature and enthalpy are mutually exclusive per node; temperature
// entries must be resolved with ConvertAllTemperatureBCs before a solve.
type BCTable struct {
	pressure    []bcEntry
	enthalpy    []bcEntry
	temperature []bcEntry
}

// NewBCTable returns an empty table for n nodes.
func NewBCTable(n int) *BCTable {
	return &BCTable{
		pressure:    make([]bcEntry, n),
		enthalpy:    make([]bcEntry, n),
		temperature: make([]bcEntry, n),
	}
}

// Clone returns a deep copy. The blocked-subgraph analyzer anchors nodes
// on a copy so the caller's table survives the solve untouched.
func (b *BCTable) Clone() *BCTable {
	c := NewBCTable(len(b.pressure))
	copy(c.pressure, b.pressure)
	copy(c.enthalpy, b.enthalpy)
	copy(c.temperature, b.temperature)

	return c
}

// NumNodes returns the table size.
func (b *BCTable) NumNodes() int { return len(b.pressure) }

func (b *BCTable) check(node core.NodeID) error {
	if int(node) < 0 || int(node) >= len(b.pressure) {
		return fmt.Errorf("node %d of %d: %w", node, len(b.pressure), ErrNodeOutOfRange)
	}

	return nil
}

// SetPressureBC fixes the boundary pressure of a node.
func (b *BCTable) SetPressureBC(node core.NodeID, pa float64) error {
	if err := b.check(node); err != nil {
		return err
	}
	b.pressure[node] = bcEntry{set: true, value: pa}

	return nil
}

// SetEnthalpyBC fixes the boundary enthalpy of a node. Fails with
// ErrConflictingBC if the node already carries a temperature boundary.
func (b *BCTable) SetEnthalpyBC(node core.NodeID, h float64) error {
	if err := b.check(node); err != nil {
		return err
	}
	if b.temperature[node].set {
		return fmt.Errorf("node %d already has a temperature boundary: %w", node, ErrConflictingBC)
	}
	b.enthalpy[node] = bcEntry{set: true, value: h}

	return nil
}

// SetTemperatureBC fixes the boundary temperature of a node. Fails with
// ErrConflictingBC if the node already carries an enthalpy boundary.
func (b *BCTable) SetTemperatureBC(node core.NodeID, k float64) error {
	if err := b.check(node); err != nil {
		return err
	}
	if b.enthalpy[node].set {
		return fmt.Errorf("node %d already has an enthalpy boundary: %w", node, ErrConflictingBC)
	}
	b.temperature[node] = bcEntry{set: true, value: k}

	return nil
}

// ClearTemperatureBC removes a temperature boundary (no-op when absent),
// allowing schedules to replace a temperature entry with fresh values.
func (b *BCTable) ClearTemperatureBC(node core.NodeID) error {
	if err := b.check(node); err != nil {
		return err
	}
	b.temperature[node] = bcEntry{}

	return nil
}

// Pressure returns the boundary pressure of a node, if set.
func (b *BCTable) Pressure(node core.NodeID) (float64, bool) {
	if int(node) < 0 || int(node) >= len(b.pressure) {
		return 0, false
	}
	e := b.pressure[node]

	return e.value, e.set
}

// Enthalpy returns the boundary enthalpy of a node, if set.
func (b *BCTable) Enthalpy(node core.NodeID) (float64, bool) {
	if int(node) < 0 || int(node) >= len(b.enthalpy) {
		return 0, false
	}
	e := b.enthalpy[node]

	return e.value, e.set
}

// Temperature returns the boundary temperature of a node, if set.
func (b *BCTable) Temperature(node core.NodeID) (float64, bool) {
	if int(node) < 0 || int(node) >= len(b.temperature) {
		return 0, false
	}
	e := b.temperature[node]

	return e.value, e.set
}

// PressureFree reports whether a node's pressure is an unknown.
func (b *BCTable) PressureFree(node core.NodeID) bool {
	return !b.pressure[node].set
}

// EnthalpyFree reports whether a node's enthalpy is an unknown: neither
// an enthalpy nor a temperature boundary is present.
func (b *BCTable) EnthalpyFree(node core.NodeID) bool {
	return !b.enthalpy[node].set && !b.temperature[node].set
}

// Free reports whether a node contributes both unknowns to the solve: no
// pressure boundary and no thermal boundary.
func (b *BCTable) Free(node core.NodeID) bool {
	return b.PressureFree(node) && b.EnthalpyFree(node)
}

// Anchored reports whether a node has both pressure and a thermal
// boundary fixed. Anchor nodes pin under-constrained subgraphs.
func (b *BCTable) Anchored(node core.NodeID) bool {
	return !b.PressureFree(node) && !b.EnthalpyFree(node)
}

// FreeNodes lists the nodes contributing unknowns, in index order.
func (b *BCTable) FreeNodes() []core.NodeID {
	var free []core.NodeID
	for i := range b.pressure {
		if b.Free(core.NodeID(i)) {
			free = append(free, core.NodeID(i))
		}
	}

	return free
}

// NumFreeVars returns the solve-vector length. Pressure and enthalpy
// unknowns count independently: a node with only a pressure boundary
// still contributes one enthalpy unknown.
func (b *BCTable) NumFreeVars() int {
	n := 0
	for i := range b.pressure {
		if b.PressureFree(core.NodeID(i)) {
			n++
		}
		if b.EnthalpyFree(core.NodeID(i)) {
			n++
		}
	}

	return n
}

// ConvertAllTemperatureBCs resolves every temperature boundary to an
// enthalpy boundary via the property backend at the node's boundary
// pressure.
//
// Steps:
//  1. A temperature entry on a node without a pressure boundary is a
//     setup error.
//  2. Backend rejection of the (P,T) pair wraps core.ErrInvalidState.
//  3. On success the enthalpy entry replaces the temperature entry.
func (b *BCTable) ConvertAllTemperatureBCs(fl fluid.Model, comp fluid.Composition) error {
	for i := range b.temperature {
		if !b.temperature[i].set {
			continue
		}
		node := core.NodeID(i)
		p, ok := b.Pressure(node)
		if !ok {
			return fmt.Errorf("node %d: %w", node, ErrNoPressureForTemperature)
		}
		t := b.temperature[i].value
		st, err := fl.StateFromPT(comp, p, t)
		if err != nil {
			return fmt.Errorf("node %d at p=%g Pa, t=%g K: %w: %w", node, p, t, core.ErrInvalidState, err)
		}
		b.enthalpy[i] = bcEntry{set: true, value: st.Enthalpy()}
		b.temperature[i] = bcEntry{}
	}

	return nil
}
