// Package control implements the per-time-step controllers that drive
// network values during a time-series study.
//
// The run loop calls [Controller.TimeStep] once per simulation step before
// the solve, then alternates solves with [Controller.ControlStep] until every
// controller reports convergence. The two-phase protocol guarantees a step's
// values are applied at most once before the solve consumes them.
package control

import "github.com/jkisse/pandapower/internal/network"

// Controller is driven by the enclosing run loop. Implementations mutate the
// network passed to them and retain no ownership of it.
type Controller interface {
	// TimeStep prepares and writes the controller's values for step.
	TimeStep(net *network.Network, step int) error
	// IsConverged reports whether the controller needs further control
	// steps in the current time step.
	IsConverged(net *network.Network) bool
	// ControlStep runs after a solve has consumed the written values.
	ControlStep(net *network.Network)
}

// Ordered controllers are scheduled by ascending order value; controllers
// without an order run at order zero, keeping registration order among ties.
type Ordered interface {
	Order() int
}
