// Package runner drives a time-series study: once per step it lets every
// controller inject its values, then alternates solves and control steps
// until all controllers report convergence.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jkisse/pandapower/internal/control"
	"github.com/jkisse/pandapower/internal/network"
)

// Solver runs one power-flow (or equivalent) solve against the network. The
// actual solution algorithm is an external collaborator.
type Solver interface {
	Solve(net *network.Network) error
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(net *network.Network) error

func (f SolverFunc) Solve(net *network.Network) error { return f(net) }

// NopSolver accepts the network as-is. Useful for studies that only exercise
// value injection, and in tests.
func NopSolver() Solver {
	return SolverFunc(func(*network.Network) error { return nil })
}

var ErrNoConvergence = errors.New("runner: controllers did not converge")

const defaultMaxIters = 30

type Config struct {
	// Steps is the number of time steps to run.
	Steps int
	// MaxIters bounds the solve/control iterations within one step;
	// zero means a default of 30.
	MaxIters int
}

type Result struct {
	StepsRun int
	// Iterations holds the solve/control iteration count of each step.
	Iterations []int
	Metrics    map[string]float64
}

// Metric observes the network after each completed time step and reduces
// the measurements to one value per run.
type Metric interface {
	Name() string
	Observe(net *network.Network, step, iterations int)
	Value() float64
	Reset()
}

// Observer is notified after each completed time step.
type Observer interface {
	OnStep(net *network.Network, step, iterations int)
}

// Runner owns the network for the duration of a run.
type Runner struct {
	net         *network.Network
	solver      Solver
	controllers []control.Controller
	metrics     []Metric
	observers   []Observer
}

func New(net *network.Network, solver Solver) *Runner {
	return &Runner{net: net, solver: solver}
}

func (r *Runner) AddController(c control.Controller) { r.controllers = append(r.controllers, c) }
func (r *Runner) AddMetric(m Metric)                 { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)             { r.observers = append(r.observers, o) }

// Run executes the study. It stops early on context cancellation, a solver
// error, or a step whose controllers never converge.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("runner: steps must be positive, got %d", cfg.Steps)
	}
	maxIters := cfg.MaxIters
	if maxIters <= 0 {
		maxIters = defaultMaxIters
	}

	ordered := make([]control.Controller, len(r.controllers))
	copy(ordered, r.controllers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return controllerOrder(ordered[i]) < controllerOrder(ordered[j])
	})

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Iterations: make([]int, 0, cfg.Steps),
		Metrics:    make(map[string]float64),
	}

	for step := 0; step < cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, c := range ordered {
			if err := c.TimeStep(r.net, step); err != nil {
				return result, fmt.Errorf("runner: step %d: %w", step, err)
			}
		}

		iters, err := r.controlLoop(ordered, maxIters)
		if err != nil {
			return result, fmt.Errorf("runner: step %d: %w", step, err)
		}

		result.StepsRun++
		result.Iterations = append(result.Iterations, iters)
		for _, m := range r.metrics {
			m.Observe(r.net, step, iters)
		}
		for _, o := range r.observers {
			o.OnStep(r.net, step, iters)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// controlLoop alternates solves and control steps until every controller is
// converged, returning the number of solve iterations taken.
func (r *Runner) controlLoop(ordered []control.Controller, maxIters int) (int, error) {
	iters := 0
	for {
		converged := true
		for _, c := range ordered {
			if !c.IsConverged(r.net) {
				converged = false
				break
			}
		}
		if converged {
			return iters, nil
		}
		if iters >= maxIters {
			return iters, fmt.Errorf("%w after %d iterations", ErrNoConvergence, iters)
		}

		if err := r.solver.Solve(r.net); err != nil {
			return iters, err
		}
		iters++
		for _, c := range ordered {
			if !c.IsConverged(r.net) {
				c.ControlStep(r.net)
			}
		}
	}
}

func controllerOrder(c control.Controller) int {
	if o, ok := c.(control.Ordered); ok {
		return o.Order()
	}
	return 0
}
