package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trackctl/internal/control"
)

const (
	DefaultSpeedGain   = 6.0
	DefaultDamping     = 300.0
	DefaultWheelbase   = 1.0
	DefaultQScale      = 0.1
	DefaultR           = 1.0
	DefaultMaxSteerDeg = 70.0
	DefaultWindow      = 20
	DefaultDataDir     = ".trackctl"
)

type Config struct {
	Controller ControllerConfig `yaml:"controller" json:"controller"`
	Replay     ReplayConfig     `yaml:"replay" json:"replay"`
}

type ControllerConfig struct {
	PID      PIDConfig      `yaml:"pid" json:"pid"`
	Lateral  LateralConfig  `yaml:"lateral" json:"lateral"`
	DARE     DAREConfig     `yaml:"dare" json:"dare"`
	Steering SteeringConfig `yaml:"steering" json:"steering"`
}

type PIDConfig struct {
	Kp             float64 `yaml:"kp" json:"kp"`
	Ki             float64 `yaml:"ki" json:"ki"`
	Kd             float64 `yaml:"kd" json:"kd"`
	FallbackDt     float64 `yaml:"fallback_dt" json:"fallback_dt"`
	TimeWindow     int     `yaml:"time_window" json:"time_window"`
	IntegralWindow int     `yaml:"integral_window" json:"integral_window"`
}

// LateralConfig parameterizes the linearized error model and its LQR weights.
type LateralConfig struct {
	SpeedGain float64 `yaml:"speed_gain" json:"speed_gain"`
	Damping   float64 `yaml:"damping" json:"damping"`
	Wheelbase float64 `yaml:"wheelbase" json:"wheelbase"`
	QScale    float64 `yaml:"q_scale" json:"q_scale"`
	R         float64 `yaml:"r" json:"r"`
}

type DAREConfig struct {
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance" json:"tolerance"`
}

type SteeringConfig struct {
	MaxAngleDeg float64 `yaml:"max_angle_deg" json:"max_angle_deg"`
}

type ReplayConfig struct {
	Window  int    `yaml:"window" json:"window"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: DefaultController(),
		Replay: ReplayConfig{
			Window:  DefaultWindow,
			DataDir: DefaultDataDir,
		},
	}
}

func DefaultController() ControllerConfig {
	return ControllerConfig{
		PID: PIDConfig{
			Kp:             control.DefaultKp,
			Ki:             control.DefaultKi,
			Kd:             control.DefaultKd,
			FallbackDt:     control.DefaultFallbackDt,
			TimeWindow:     control.DefaultTimeWindow,
			IntegralWindow: control.DefaultIntegralWindow,
		},
		Lateral: LateralConfig{
			SpeedGain: DefaultSpeedGain,
			Damping:   DefaultDamping,
			Wheelbase: DefaultWheelbase,
			QScale:    DefaultQScale,
			R:         DefaultR,
		},
		DARE: DAREConfig{
			MaxIterations: control.DefaultMaxIterations,
			Tolerance:     control.DefaultTolerance,
		},
		Steering: SteeringConfig{
			MaxAngleDeg: DefaultMaxSteerDeg,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver applies the file at path on top of base. Keys missing from the
// file keep their base values. base itself is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Controller.Validate(); err != nil {
		return err
	}
	if c.Replay.Window < 0 {
		return fmt.Errorf("replay window must be non-negative, got %d", c.Replay.Window)
	}
	return nil
}

func (c ControllerConfig) Validate() error {
	switch {
	case c.PID.FallbackDt <= 0:
		return fmt.Errorf("fallback dt must be positive, got %f", c.PID.FallbackDt)
	case c.PID.TimeWindow < 2:
		return fmt.Errorf("time window must hold at least 2 samples, got %d", c.PID.TimeWindow)
	case c.PID.IntegralWindow < 1:
		return fmt.Errorf("integral window must be positive, got %d", c.PID.IntegralWindow)
	case c.Lateral.Wheelbase <= 0:
		return fmt.Errorf("wheelbase must be positive, got %f", c.Lateral.Wheelbase)
	case c.Lateral.R <= 0:
		return fmt.Errorf("input weight r must be positive, got %f", c.Lateral.R)
	case c.Lateral.QScale < 0:
		return fmt.Errorf("state weight scale must be non-negative, got %f", c.Lateral.QScale)
	case c.DARE.MaxIterations <= 0:
		return fmt.Errorf("max iterations must be positive, got %d", c.DARE.MaxIterations)
	case c.DARE.Tolerance <= 0:
		return fmt.Errorf("tolerance must be positive, got %f", c.DARE.Tolerance)
	case c.Steering.MaxAngleDeg <= 0:
		return fmt.Errorf("max steering angle must be positive, got %f", c.Steering.MaxAngleDeg)
	}
	return nil
}

// GetControllerParams returns the tunable gains keyed as the CLI flags are.
func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"kp":        c.Controller.PID.Kp,
		"ki":        c.Controller.PID.Ki,
		"kd":        c.Controller.PID.Kd,
		"wheelbase": c.Controller.Lateral.Wheelbase,
		"q_scale":   c.Controller.Lateral.QScale,
		"r":         c.Controller.Lateral.R,
	}
}
