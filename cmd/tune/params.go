package main

import (
	"math"

	"github.com/pthm-cable/rigid/config"
	"github.com/pthm-cable/rigid/physics"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before use
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of solver parameters. Substeps
// stay at the base config value since they dominate cost.
func NewParamVector() *ParamVector {
	d := physics.DefaultEngineConfig()
	return &ParamVector{
		Specs: []ParamSpec{
			// Soft contact
			{Name: "contact_hertz", Path: "engine.contact_hertz", Min: 5, Max: 60, Default: d.ContactHertz},
			{Name: "contact_damping_ratio", Path: "engine.contact_damping_ratio", Min: 0, Max: 20, Default: d.ContactDampingRatio},
			{Name: "max_bias_velocity", Path: "engine.max_bias_velocity", Min: 50, Max: 800, Default: d.MaxBiasVelocity},
			// Position pass
			{Name: "position_slop", Path: "engine.position_slop", Min: 0.01, Max: 0.5, Default: d.PositionSlop},
			{Name: "position_correction", Path: "engine.position_correction", Min: 0.05, Max: 0.8, Default: d.PositionCorrection},
			// Iterations
			{Name: "velocity_iterations", Path: "engine.velocity_iterations", Min: 1, Max: 8, Default: float64(d.VelocityIterations), Integer: true},
			{Name: "position_iterations", Path: "engine.position_iterations", Min: 1, Max: 8, Default: float64(d.PositionIterations), Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and integer parameters are
// whole.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToEngine writes parameter values over base. Order must match Specs.
func (pv *ParamVector) ApplyToEngine(base physics.EngineConfig, values []float64) physics.EngineConfig {
	clamped := pv.Clamp(values)
	c := base
	c.ContactHertz = clamped[0]
	c.ContactDampingRatio = clamped[1]
	c.MaxBiasVelocity = clamped[2]
	c.PositionSlop = clamped[3]
	c.PositionCorrection = clamped[4]
	c.VelocityIterations = int(clamped[5])
	c.PositionIterations = int(clamped[6])
	return c
}

// ApplyToConfig applies parameter values to a Config's engine section.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	cfg.SetEngineConfig(pv.ApplyToEngine(cfg.EngineConfig(), values))
}

// ExtractFromConfig extracts current parameter values from a Config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	e := cfg.Engine
	return []float64{
		e.ContactHertz,
		e.ContactDampingRatio,
		e.MaxBiasVelocity,
		e.PositionSlop,
		e.PositionCorrection,
		float64(e.VelocityIterations),
		float64(e.PositionIterations),
	}
}
