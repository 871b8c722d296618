// Package config provides configuration loading and access for the sandbox.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/vec"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all sandbox configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	World     WorldConfig     `yaml:"world"`
	Engine    EngineConfig    `yaml:"engine"`
	Body      BodyConfig      `yaml:"body"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Scene     SceneConfig     `yaml:"scene"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the fixed step used by the sandbox loop.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// WorldConfig holds world-level physics settings.
type WorldConfig struct {
	GravityX float64 `yaml:"gravity_x"`
	GravityY float64 `yaml:"gravity_y"` // negative is down
	GridSize float64 `yaml:"grid_size"`
}

// EngineConfig mirrors physics.EngineConfig.
type EngineConfig struct {
	Substeps             int     `yaml:"substeps"`
	VelocityIterations   int     `yaml:"velocity_iterations"`
	PositionIterations   int     `yaml:"position_iterations"`
	ConstraintIterations int     `yaml:"constraint_iterations"`
	ContactHertz         float64 `yaml:"contact_hertz"`
	ContactDampingRatio  float64 `yaml:"contact_damping_ratio"`
	MaxBiasVelocity      float64 `yaml:"max_bias_velocity"`
	RestitutionThreshold float64 `yaml:"restitution_threshold"`
	PositionSlop         float64 `yaml:"position_slop"`
	PositionCorrection   float64 `yaml:"position_correction"`
	MarginThreshold      float64 `yaml:"margin_threshold"`
}

// BodyConfig holds the default material for bodies spawned by scenes.
type BodyConfig struct {
	Mass            float64 `yaml:"mass"`
	Restitution     float64 `yaml:"restitution"`
	Friction        float64 `yaml:"friction"`
	FrictionAir     float64 `yaml:"friction_air"`
	FrictionAngular float64 `yaml:"friction_angular"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds of sim time per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks averaged by the perf collector
}

// SceneConfig selects the scene built at startup.
type SceneConfig struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"` // bodies for scenes that take a count
	Seed  int64  `yaml:"seed"`
	File  string `yaml:"file"` // YAML scene file; overrides Name when set
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// Validate checks that the physics sections map onto valid physics configs.
func (c *Config) Validate() error {
	if !(c.Physics.DT > 0) {
		return fmt.Errorf("physics.dt must be > 0, got %v", c.Physics.DT)
	}
	if err := c.WorldConfig().Validate(); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.BodyOptions().Validate(); err != nil {
		return fmt.Errorf("body: %w", err)
	}
	return nil
}

// WorldConfig converts the world section.
func (c *Config) WorldConfig() physics.WorldConfig {
	return physics.WorldConfig{
		Gravity:  vec.New(c.World.GravityX, c.World.GravityY),
		GridSize: c.World.GridSize,
	}
}

// EngineConfig converts the engine section.
func (c *Config) EngineConfig() physics.EngineConfig {
	e := c.Engine
	return physics.EngineConfig{
		Substeps:             e.Substeps,
		VelocityIterations:   e.VelocityIterations,
		PositionIterations:   e.PositionIterations,
		ConstraintIterations: e.ConstraintIterations,
		ContactHertz:         e.ContactHertz,
		ContactDampingRatio:  e.ContactDampingRatio,
		MaxBiasVelocity:      e.MaxBiasVelocity,
		RestitutionThreshold: e.RestitutionThreshold,
		PositionSlop:         e.PositionSlop,
		PositionCorrection:   e.PositionCorrection,
		MarginThreshold:      e.MarginThreshold,
	}
}

// SetEngineConfig copies a physics config back into the engine section.
// Used by the tuner when writing its best parameters.
func (c *Config) SetEngineConfig(e physics.EngineConfig) {
	c.Engine = EngineConfig{
		Substeps:             e.Substeps,
		VelocityIterations:   e.VelocityIterations,
		PositionIterations:   e.PositionIterations,
		ConstraintIterations: e.ConstraintIterations,
		ContactHertz:         e.ContactHertz,
		ContactDampingRatio:  e.ContactDampingRatio,
		MaxBiasVelocity:      e.MaxBiasVelocity,
		RestitutionThreshold: e.RestitutionThreshold,
		PositionSlop:         e.PositionSlop,
		PositionCorrection:   e.PositionCorrection,
		MarginThreshold:      e.MarginThreshold,
	}
}

// BodyOptions returns the default body options with the configured material.
func (c *Config) BodyOptions() physics.BodyOptions {
	opts := physics.DefaultBodyOptions()
	opts.Mass = c.Body.Mass
	opts.Restitution = c.Body.Restitution
	opts.Friction = c.Body.Friction
	opts.FrictionAir = c.Body.FrictionAir
	opts.FrictionAngular = c.Body.FrictionAngular
	return opts
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
