package physics

import (
	"fmt"
	"math"

	"github.com/pthm-cable/rigid/geom"
	"github.com/pthm-cable/rigid/vec"
)

// WorldConfig configures a World.
type WorldConfig struct {
	Gravity  vec.Vector
	GridSize float64
}

// DefaultWorldConfig returns y-up gravity and a 64 unit grid.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:  vec.New(0, -500),
		GridSize: 64,
	}
}

// Validate checks the config.
func (c WorldConfig) Validate() error {
	if c.Gravity.IsNaN() || math.IsInf(c.Gravity.X, 0) || math.IsInf(c.Gravity.Y, 0) {
		return fmt.Errorf("%w: gravity must be finite, got %v", ErrInvalidConfig, c.Gravity)
	}
	if !(c.GridSize > 0) || math.IsInf(c.GridSize, 0) {
		return fmt.Errorf("%w: grid size must be > 0, got %v", ErrInvalidConfig, c.GridSize)
	}
	return nil
}

// EngineConfig configures the solver.
type EngineConfig struct {
	Substeps             int
	VelocityIterations   int
	PositionIterations   int
	ConstraintIterations int

	// ContactHertz is the target contact stiffness. It is capped at a
	// quarter of the substep rate and doubled against static bodies.
	ContactHertz float64
	// ContactDampingRatio is the soft contact zeta.
	ContactDampingRatio float64
	// MaxBiasVelocity caps the push-out speed of the soft bias.
	MaxBiasVelocity float64
	// RestitutionThreshold is the approach speed below which restitution
	// is ignored.
	RestitutionThreshold float64
	// PositionSlop is the penetration left uncorrected by the position pass.
	PositionSlop float64
	// PositionCorrection is the fraction of residual penetration removed
	// per position iteration.
	PositionCorrection float64
	// MarginThreshold is the SAT overlap below which an axis separates.
	MarginThreshold float64
}

// DefaultEngineConfig returns the stock solver settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Substeps:             4,
		VelocityIterations:   2,
		PositionIterations:   2,
		ConstraintIterations: 2,
		ContactHertz:         30,
		ContactDampingRatio:  10,
		MaxBiasVelocity:      400,
		RestitutionThreshold: 10,
		PositionSlop:         0.05,
		PositionCorrection:   0.2,
		MarginThreshold:      0,
	}
}

// Validate checks the config.
func (c EngineConfig) Validate() error {
	ints := []struct {
		name string
		v    int
	}{
		{"substeps", c.Substeps},
		{"velocity iterations", c.VelocityIterations},
		{"position iterations", c.PositionIterations},
		{"constraint iterations", c.ConstraintIterations},
	}
	for _, f := range ints {
		if f.v < 1 {
			return fmt.Errorf("%w: %s must be >= 1, got %d", ErrInvalidConfig, f.name, f.v)
		}
	}
	if !(c.ContactHertz > 0) || math.IsInf(c.ContactHertz, 0) {
		return fmt.Errorf("%w: contact hertz must be > 0, got %v", ErrInvalidConfig, c.ContactHertz)
	}
	if !(c.ContactDampingRatio >= 0) {
		return fmt.Errorf("%w: contact damping ratio must be >= 0, got %v", ErrInvalidConfig, c.ContactDampingRatio)
	}
	if !(c.MaxBiasVelocity > 0) {
		return fmt.Errorf("%w: max bias velocity must be > 0, got %v", ErrInvalidConfig, c.MaxBiasVelocity)
	}
	if !(c.RestitutionThreshold >= 0) {
		return fmt.Errorf("%w: restitution threshold must be >= 0, got %v", ErrInvalidConfig, c.RestitutionThreshold)
	}
	if !(c.PositionSlop >= 0) {
		return fmt.Errorf("%w: position slop must be >= 0, got %v", ErrInvalidConfig, c.PositionSlop)
	}
	if !(c.PositionCorrection >= 0 && c.PositionCorrection <= 1) {
		return fmt.Errorf("%w: position correction must be in [0,1], got %v", ErrInvalidConfig, c.PositionCorrection)
	}
	if math.IsNaN(c.MarginThreshold) || math.IsInf(c.MarginThreshold, 0) {
		return fmt.Errorf("%w: margin threshold must be finite", ErrInvalidConfig)
	}
	return nil
}

// Filter is a collision category bitmask pair. Two bodies may collide when
// either one's mask accepts the other's layer.
type Filter struct {
	Layer uint32
	Mask  uint32
}

// DefaultFilter collides with everything.
func DefaultFilter() Filter {
	return Filter{Layer: 1, Mask: math.MaxUint32}
}

// Accepts applies the layer/mask test.
func (f Filter) Accepts(o Filter) bool {
	return f.Mask&o.Layer != 0 || o.Mask&f.Layer != 0
}

// BodyOptions configures a RigidBody.
type BodyOptions struct {
	Mass            float64
	Restitution     float64
	Friction        float64
	FrictionAir     float64
	FrictionAngular float64
	Static          bool
	Sensor          bool
	Collisions      bool
	Filter          Filter

	// SortVertices orders input vertices by angle instead of only fixing
	// the winding.
	SortVertices bool
	// Decomposer splits concave input. Nil uses geom.Bayazit.
	Decomposer geom.Decomposer
}

// DefaultBodyOptions returns a unit-mass colliding dynamic body.
func DefaultBodyOptions() BodyOptions {
	return BodyOptions{
		Mass:            1,
		Restitution:     0,
		Friction:        0.1,
		FrictionAir:     0.01,
		FrictionAngular: 0.01,
		Collisions:      true,
		Filter:          DefaultFilter(),
	}
}

// Validate checks the options.
func (o BodyOptions) Validate() error {
	if !(o.Mass > 0) || math.IsInf(o.Mass, 0) {
		return fmt.Errorf("%w: mass must be > 0, got %v", ErrInvalidConfig, o.Mass)
	}
	unit := []struct {
		name string
		v    float64
	}{
		{"restitution", o.Restitution},
		{"friction air", o.FrictionAir},
		{"friction angular", o.FrictionAngular},
	}
	for _, f := range unit {
		if !(f.v >= 0 && f.v <= 1) {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidConfig, f.name, f.v)
		}
	}
	if !(o.Friction >= 0) || math.IsInf(o.Friction, 0) {
		return fmt.Errorf("%w: friction must be >= 0, got %v", ErrInvalidConfig, o.Friction)
	}
	return nil
}
