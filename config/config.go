// Package config holds the tunables of a character controller, loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	ErrDegenerateCapsule = errors.New("capsule height is lower than its diameter")
	ErrInvalidRadius     = errors.New("radius must be positive")
	ErrInvalidTimeStep   = errors.New("time step must be positive")
	ErrInvalidSlopeLimit = errors.New("slope limit must be within [0, 180] degrees")
	ErrInvalidSkinWidth  = errors.New("skin width must not be negative")
	ErrInvalidStepOffset = errors.New("step offset must be within [0, height - 2*radius]")
)

type Config struct {
	// SlopeLimit is the steepest walkable slope, in degrees
	SlopeLimit float64 `yaml:"slope_limit"`
	// StepOffset raises the bottom of the lateral sweep, letting the capsule mount ledges
	StepOffset float64 `yaml:"step_offset"`
	// SkinWidth is the clearance kept between the capsule and what it touches
	SkinWidth float64    `yaml:"skin_width"`
	Radius    float64    `yaml:"radius"`
	Height    float64    `yaml:"height"`
	Center    mgl64.Vec3 `yaml:"center"`

	// TimeStep is the fixed duration of one Move, in seconds
	TimeStep        float64 `yaml:"time_step"`
	MaxSweepSteps   int     `yaml:"max_sweep_steps"`
	MaxOverlaps     int     `yaml:"max_overlaps"`
	CeilingAngle    float64 `yaml:"ceiling_angle"`
	MinMoveDistance float64 `yaml:"min_move_distance"`

	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings of a standard humanoid capsule
func Default() Config {
	return Config{
		SlopeLimit:      45,
		StepOffset:      0.3,
		SkinWidth:       0.08,
		Radius:          0.5,
		Height:          2,
		TimeStep:        0.02,
		MaxSweepSteps:   5,
		MaxOverlaps:     5,
		CeilingAngle:    145,
		MinMoveDistance: 0,
		Logging:         LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults: missing keys keep their default value
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate reports the first setting a controller cannot work with.
// The controller itself never checks its configuration.
func (c *Config) Validate() error {
	switch {
	case c.Radius <= 0:
		return fmt.Errorf("%w: %v", ErrInvalidRadius, c.Radius)
	case c.Height < 2*c.Radius:
		return fmt.Errorf("%w: height %v, radius %v", ErrDegenerateCapsule, c.Height, c.Radius)
	case c.TimeStep <= 0:
		return fmt.Errorf("%w: %v", ErrInvalidTimeStep, c.TimeStep)
	case c.SlopeLimit < 0 || c.SlopeLimit > 180:
		return fmt.Errorf("%w: %v", ErrInvalidSlopeLimit, c.SlopeLimit)
	case c.SkinWidth < 0:
		return fmt.Errorf("%w: %v", ErrInvalidSkinWidth, c.SkinWidth)
	case c.StepOffset < 0 || c.StepOffset > c.Height-2*c.Radius:
		return fmt.Errorf("%w: %v", ErrInvalidStepOffset, c.StepOffset)
	}
	return nil
}

// SlogLevel maps the logging level name, unknown names fall back to info
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
