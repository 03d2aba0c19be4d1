package config

import "sort"

var Presets = map[string]func() *Config{
	// Constants of the reference waypoint-follower demo.
	"carla": DefaultConfig,
	"gentle": func() *Config {
		cfg := DefaultConfig()
		cfg.Controller.PID.Kp = 0.25
		cfg.Controller.PID.Ki = 0.02
		cfg.Controller.PID.Kd = 0.02
		cfg.Controller.Lateral.QScale = 0.05
		return cfg
	},
	"aggressive": func() *Config {
		cfg := DefaultConfig()
		cfg.Controller.PID.Kp = 0.9
		cfg.Controller.Lateral.QScale = 0.5
		cfg.Controller.Steering.MaxAngleDeg = 35.0
		cfg.Replay.Window = 10
		return cfg
	},
	"converged": func() *Config {
		cfg := DefaultConfig()
		cfg.Controller.DARE.MaxIterations = 2000
		cfg.Controller.DARE.Tolerance = 1e-6
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
