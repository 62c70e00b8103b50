// Package study assembles a time-series study from a loaded config: the
// element tables, the value injectors, the default metrics and the run loop.
package study

import (
	"context"
	"fmt"
	"strings"

	"github.com/jkisse/pandapower/internal/config"
	"github.com/jkisse/pandapower/internal/control"
	"github.com/jkisse/pandapower/internal/metrics"
	"github.com/jkisse/pandapower/internal/network"
	"github.com/jkisse/pandapower/internal/runner"
	"github.com/jkisse/pandapower/internal/timeseries"
)

type Study struct {
	cfg    *config.Config
	net    *network.Network
	runner *runner.Runner
	source *timeseries.DFData
}

// New builds a study from cfg. The profile frame is loaded from
// cfg.Profiles when set; controllers without profile names run with
// reset-to-current semantics. A nil solver accepts every solve.
func New(cfg *config.Config, solver runner.Solver) (*Study, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if solver == nil {
		solver = runner.NopSolver()
	}

	var source *timeseries.DFData
	if cfg.Profiles != "" {
		df, err := timeseries.LoadCSV(cfg.Profiles)
		if err != nil {
			return nil, fmt.Errorf("study: load profiles: %w", err)
		}
		source = df
	}

	net := network.New()
	s := &Study{
		cfg:    cfg,
		net:    net,
		runner: runner.New(net, solver),
		source: source,
	}

	for i, cc := range cfg.Controllers {
		if err := s.ensureColumn(cc); err != nil {
			return nil, err
		}
		var src timeseries.DataSource
		if len(cc.Profiles) > 0 {
			if source == nil {
				return nil, fmt.Errorf("study: controller %d names profiles but no frame is configured", i)
			}
			src = source
		}
		ctrl, err := control.NewConstControl(net, control.ConstControlConfig{
			Element:  cc.Element,
			Variable: cc.Variable,
			Indices:  cc.Indices,
			Source:   src,
			Profiles: cc.Profiles,
			Scale:    cc.Scale,
			Order:    cc.Order,
		})
		if err != nil {
			return nil, err
		}
		s.runner.AddController(ctrl)
	}

	s.runner.AddMetric(metrics.NewIterations())
	for _, cc := range cfg.Controllers {
		if strings.HasPrefix(cc.Variable, "object.") {
			continue
		}
		s.runner.AddMetric(metrics.NewCellMean(cc.Element, cc.Variable, cc.Indices[0]))
	}

	return s, nil
}

// Network exposes the element tables, e.g. to seed initial values before a
// run or to inspect the final state after one.
func (s *Study) Network() *network.Network { return s.net }

// Runner exposes the run loop for attaching extra metrics and observers.
func (s *Study) Runner() *runner.Runner { return s.runner }

// Steps reports the number of time steps the study will run. With a profile
// frame the configured step count is clamped to the frame length.
func (s *Study) Steps() int {
	steps := s.cfg.Steps
	if s.source != nil && s.source.Steps() < steps {
		steps = s.source.Steps()
	}
	return steps
}

func (s *Study) Run(ctx context.Context) (*runner.Result, error) {
	return s.runner.Run(ctx, runner.Config{
		Steps:    s.Steps(),
		MaxIters: s.cfg.MaxIters,
	})
}

// ensureColumn makes sure the element table and column a controller writes
// to exist, sized to cover its highest index. Tables for the network's state
// normally come from the surrounding application; this covers studies that
// are driven entirely by profiles.
func (s *Study) ensureColumn(cc config.ControllerConfig) error {
	rows := 0
	for _, idx := range cc.Indices {
		if idx < 0 {
			return fmt.Errorf("study: negative element index %d for %s", idx, cc.Element)
		}
		if idx+1 > rows {
			rows = idx + 1
		}
	}

	tab, err := s.net.Table(cc.Element)
	if err != nil {
		tab = network.NewTable(rows)
		s.net.AddTable(cc.Element, tab)
	} else if tab.Rows() < rows {
		return fmt.Errorf("study: table %s has %d rows, controller needs %d", cc.Element, tab.Rows(), rows)
	}

	if strings.HasPrefix(cc.Variable, "object.") {
		return nil
	}
	if !tab.HasColumn(cc.Variable) {
		return tab.SetColumn(cc.Variable, nil)
	}
	return nil
}
