package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jkisse/pandapower/internal/opf"
)

const (
	DefaultSteps      = 24
	DefaultMaxIters   = 30
	DefaultLossWeight = 1.0
	DefaultDataDir    = ".pandapower"
)

// Config describes one time-series OPF study: the prepared case, the profile
// frame, the injecting controllers and the objective settings.
type Config struct {
	Case       string  `yaml:"case"`
	Profiles   string  `yaml:"profiles"`
	DataDir    string  `yaml:"data_dir"`
	Mode       string  `yaml:"mode"`
	LossWeight float64 `yaml:"loss_weight"`
	Steps      int     `yaml:"steps"`
	MaxIters   int     `yaml:"max_iters"`

	Controllers []ControllerConfig `yaml:"controllers"`
}

// ControllerConfig describes one value injector.
type ControllerConfig struct {
	Element  string   `yaml:"element"`
	Variable string   `yaml:"variable"`
	Indices  []int    `yaml:"indices"`
	Profiles []string `yaml:"profiles"`
	Scale    float64  `yaml:"scale"`
	Order    int      `yaml:"order"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		Mode:       string(opf.ModeLinear),
		LossWeight: DefaultLossWeight,
		Steps:      DefaultSteps,
		MaxIters:   DefaultMaxIters,
	}
}

// Load reads a yaml config, applying defaults for absent fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects structurally invalid studies before any component is
// built from the config.
func (c *Config) Validate() error {
	switch opf.Mode(c.Mode) {
	case opf.ModeLinear, opf.ModeLinearMinLoss:
	default:
		return fmt.Errorf("config: unknown objective mode %q", c.Mode)
	}
	if c.LossWeight < 0 {
		return fmt.Errorf("config: loss weight must be non-negative, got %v", c.LossWeight)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Steps)
	}
	for i, ctrl := range c.Controllers {
		if ctrl.Element == "" || ctrl.Variable == "" {
			return fmt.Errorf("config: controller %d needs element and variable", i)
		}
		if len(ctrl.Indices) == 0 {
			return fmt.Errorf("config: controller %d has no element indices", i)
		}
	}
	return nil
}

// ObjectiveMode returns the validated objective mode.
func (c *Config) ObjectiveMode() opf.Mode { return opf.Mode(c.Mode) }
