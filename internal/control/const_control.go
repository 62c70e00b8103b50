package control

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jkisse/pandapower/internal/network"
	"github.com/jkisse/pandapower/internal/timeseries"
)

// WriteStrategy is the injector's write path, fixed at construction.
type WriteStrategy int

const (
	// WriteSingle writes one cell directly.
	WriteSingle WriteStrategy = iota
	// WriteBulk writes one value per tracked index.
	WriteBulk
	// WriteObject sets a named attribute on embedded objects.
	WriteObject
)

func (w WriteStrategy) String() string {
	switch w {
	case WriteSingle:
		return "single_index"
	case WriteBulk:
		return "bulk"
	case WriteObject:
		return "object"
	default:
		return fmt.Sprintf("WriteStrategy(%d)", int(w))
	}
}

const objectPrefix = "object."

var (
	ErrUnknownWriteStrategy = errors.New("control: unknown write strategy")
	ErrBadConfig            = errors.New("control: invalid controller configuration")
)

// ConstControlConfig configures a ConstControl. A zero Scale means 1.
type ConstControlConfig struct {
	ID       string
	Element  string
	Variable string
	Indices  []int
	Source   timeseries.DataSource // nil: reset-to-current semantics
	Profiles []string
	Scale    float64
	Order    int
}

// ConstControl injects exogenous profile values into the network at the
// start of each time step. Without a data source it re-reads the values
// already present, preserving the network state across steps.
type ConstControl struct {
	id       string
	element  string
	variable string
	indices  []int
	source   timeseries.DataSource
	profiles []string
	scale    float64
	order    int

	strategy   WriteStrategy
	objectAttr string

	values    []float64
	hasValues bool
	applied   bool
}

// NewConstControl validates cfg, picks the write strategy and registers the
// recycle hint with net. Structural configuration problems are fatal here,
// never deferred to the run loop.
func NewConstControl(net *network.Network, cfg ConstControlConfig) (*ConstControl, error) {
	if cfg.Element == "" || cfg.Variable == "" {
		return nil, fmt.Errorf("%w: element and variable are required", ErrBadConfig)
	}
	if len(cfg.Indices) == 0 {
		return nil, fmt.Errorf("%w: no element indices", ErrBadConfig)
	}
	if cfg.Source != nil && len(cfg.Profiles) == 0 {
		return nil, fmt.Errorf("%w: data source given but no profile names", ErrBadConfig)
	}
	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}
	id := cfg.ID
	if id == "" {
		id = fmt.Sprintf("const_%s_%s", cfg.Element, cfg.Variable)
	}

	c := &ConstControl{
		id:       id,
		element:  cfg.Element,
		variable: cfg.Variable,
		indices:  cfg.Indices,
		source:   cfg.Source,
		profiles: cfg.Profiles,
		scale:    scale,
		order:    cfg.Order,
	}

	switch {
	case strings.HasPrefix(cfg.Variable, objectPrefix):
		c.strategy = WriteObject
		c.objectAttr = strings.TrimPrefix(cfg.Variable, objectPrefix)
		if c.objectAttr == "" {
			return nil, fmt.Errorf("%w: empty object attribute in %q", ErrBadConfig, cfg.Variable)
		}
		if cfg.Source == nil {
			return nil, fmt.Errorf("%w: object writes need a data source, attributes cannot be re-read", ErrBadConfig)
		}
	case len(cfg.Indices) == 1:
		c.strategy = WriteSingle
	default:
		c.strategy = WriteBulk
	}

	net.RegisterRecycle(id, cfg.Element, cfg.Variable)
	return c, nil
}

func (c *ConstControl) ID() string              { return c.id }
func (c *ConstControl) Order() int              { return c.order }
func (c *ConstControl) Strategy() WriteStrategy { return c.strategy }

func (c *ConstControl) String() string {
	return fmt.Sprintf("ConstControl [%s.%s]", c.element, c.variable)
}

// TimeStep fetches the values for step and writes them into the network.
// An absent value leaves the network untouched for this step.
func (c *ConstControl) TimeStep(net *network.Network, step int) error {
	c.applied = false

	if c.source == nil {
		current, err := net.Values(c.element, c.variable, c.indices)
		if err != nil {
			return fmt.Errorf("control: %s reset read: %w", c.id, err)
		}
		c.values, c.hasValues = current, true
	} else {
		c.values, c.hasValues = c.source.TimeStepValue(step, c.profiles, c.scale)
	}

	if !c.hasValues {
		return nil
	}
	return c.writeToNet(net)
}

// IsConverged reports whether this step's values have been consumed by a
// solve; the run loop stops calling ControlStep once every controller
// converges.
func (c *ConstControl) IsConverged(net *network.Network) bool {
	return c.applied
}

// ControlStep marks the values written in TimeStep as included in the solve.
func (c *ConstControl) ControlStep(net *network.Network) {
	c.applied = true
}

func (c *ConstControl) writeToNet(net *network.Network) error {
	switch c.strategy {
	case WriteSingle:
		if len(c.values) != 1 {
			return fmt.Errorf("control: %s got %d values for a single cell", c.id, len(c.values))
		}
		return net.Set(c.element, c.variable, c.indices[0], c.values[0])
	case WriteBulk:
		return net.SetBulk(c.element, c.variable, c.indices, c.values)
	case WriteObject:
		if len(c.values) != len(c.indices) {
			return fmt.Errorf("control: %s got %d values for %d objects", c.id, len(c.values), len(c.indices))
		}
		for i, idx := range c.indices {
			if err := net.SetObjectAttr(c.element, idx, c.objectAttr, c.values[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownWriteStrategy, c.strategy)
	}
}
