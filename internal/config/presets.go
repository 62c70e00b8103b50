package config

import "sort"

// Presets are ready-made study configurations keyed by name. Case and
// profile paths still come from the user.
var Presets = map[string]*Config{
	"linear": {
		DataDir:    DefaultDataDir,
		Mode:       "linear",
		LossWeight: DefaultLossWeight,
		Steps:      DefaultSteps,
		MaxIters:   DefaultMaxIters,
	},
	"minloss": {
		DataDir:    DefaultDataDir,
		Mode:       "linear_minloss",
		LossWeight: 1.0,
		Steps:      DefaultSteps,
		MaxIters:   DefaultMaxIters,
	},
	"minloss_heavy": {
		DataDir:    DefaultDataDir,
		Mode:       "linear_minloss",
		LossWeight: 10.0,
		Steps:      DefaultSteps,
		MaxIters:   DefaultMaxIters,
	},
	"week": {
		DataDir:    DefaultDataDir,
		Mode:       "linear",
		LossWeight: DefaultLossWeight,
		Steps:      7 * 24,
		MaxIters:   DefaultMaxIters,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
