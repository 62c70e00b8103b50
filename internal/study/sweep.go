package study

import (
	"context"
	"fmt"
	"sync"

	"github.com/jkisse/pandapower/internal/config"
	"github.com/jkisse/pandapower/internal/runner"
)

// Sweep runs the same study config under several injection scale factors,
// one scenario per factor, concurrently. Each scenario gets its own network
// and controllers, so runs never share mutable state.
type Sweep struct {
	base   *config.Config
	scales []float64
}

func NewSweep(base *config.Config, scales []float64) *Sweep {
	return &Sweep{base: base, scales: scales}
}

// Run executes all scenarios and returns their results in scale order. The
// first scenario error aborts the sweep.
func (s *Sweep) Run(ctx context.Context) ([]*runner.Result, error) {
	if len(s.scales) == 0 {
		return nil, fmt.Errorf("study: sweep has no scale factors")
	}

	results := make([]*runner.Result, len(s.scales))
	errs := make([]error, len(s.scales))

	var wg sync.WaitGroup
	for i, scale := range s.scales {
		wg.Add(1)
		go func(idx int, factor float64) {
			defer wg.Done()

			st, err := New(scaledConfig(s.base, factor), nil)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = st.Run(ctx)
		}(i, scale)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("study: scenario %d (scale %v): %w", i, s.scales[i], err)
		}
	}
	return results, nil
}

// scaledConfig copies base with every controller's scale multiplied by
// factor.
func scaledConfig(base *config.Config, factor float64) *config.Config {
	cfg := *base
	cfg.Controllers = make([]config.ControllerConfig, len(base.Controllers))
	copy(cfg.Controllers, base.Controllers)
	for i := range cfg.Controllers {
		scale := cfg.Controllers[i].Scale
		if scale == 0 {
			scale = 1
		}
		cfg.Controllers[i].Scale = scale * factor
	}
	return &cfg
}
