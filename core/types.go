// Package core: identifiers and the module-wide error taxonomy.
package core

import "errors"

// NodeID identifies a node (a point with a single pressure/enthalpy state)
// in a fluid network. IDs are dense, assigned in insertion order by the
// network builder.
type NodeID int

// CompID identifies a component (a directed two-port device) in a fluid
// network. IDs are dense, assigned in insertion order by the network builder.
type CompID int

var (
	// ErrInvalidArg is returned for bad construction parameters
	// (non-positive area, efficiency outside (0,1], ...). Never retried;
	// the caller must fix the configuration.
	ErrInvalidArg = errors.New("core: invalid argument")

	// ErrNonPhysical is returned when an intermediate state is physically
	// impossible, such as non-positive mass or density. Fatal to the
	// current step; never retried internally.
	ErrNonPhysical = errors.New("core: non-physical state")

	// ErrConvergence is returned when an iteration budget is exhausted
	// before the residual tolerance is met. The caller may retry with a
	// smaller time step or a different warm start.
	ErrConvergence = errors.New("core: convergence failed")

	// ErrProblemSetup is returned for topology or reference
	// inconsistencies, such as a component naming a missing node.
	// Always a caller bug.
	ErrProblemSetup = errors.New("core: problem setup")

	// ErrInvalidState is returned when the property backend rejects a
	// thermodynamic state pair, e.g. an impossible (P,T) or (P,h) input.
	ErrInvalidState = errors.New("core: invalid thermodynamic state")

	// ErrBackend wraps property-backend or inner-solver failures that an
	// outer layer surfaces to its caller.
	ErrBackend = errors.New("core: backend failure")
)
