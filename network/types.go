// Package network: graph types and sentinel errors.
package network

import (
	"errors"

	"github.com/kyleas/thermoflow-sub000/components"
	"github.com/kyleas/thermoflow-sub000/core"
)

var (
	// ErrNodeOutOfRange is returned when an operation names a node the
	// network does not contain.
	ErrNodeOutOfRange = errors.New("network: node out of range")

	// ErrConflictingBC is returned when a temperature boundary is set on
	// a node that already carries an enthalpy boundary, or vice versa.
	ErrConflictingBC = errors.New("network: conflicting boundary condition")

	// ErrNoPressureForTemperature is returned by
	// ConvertAllTemperatureBCs for a temperature boundary on a node
	// without a pressure boundary to evaluate at.
	ErrNoPressureForTemperature = errors.New("network: temperature boundary without pressure boundary")
)

// Component is a directed edge: a two-port model connecting an inlet
// node to an outlet node. Positive model flow runs inlet → outlet.
type Component struct {
	Inlet  core.NodeID
	Outlet core.NodeID
	Model  components.TwoPort
}

// Incidence records one component touching a node. Outbound is true when
// the node is the component's inlet (positive flow leaves the node).
type Incidence struct {
	Comp     core.CompID
	Outbound bool
}
