// Package physics is a 2D rigid-body simulator for convex polygon bodies:
// grid broadphase, SAT narrow phase, a soft-step sequential impulse contact
// solver, positional correction and distance constraints.
package physics

import (
	"math"

	"github.com/pthm-cable/rigid/grid"
	"github.com/pthm-cable/rigid/vec"
)

// Solver phases reported to a Profiler.
const (
	PhaseIntegrate   = "integrate"
	PhaseBroadphase  = "broadphase"
	PhaseNarrowphase = "narrowphase"
	PhasePrepare     = "prepare"
	PhaseVelocity    = "velocity"
	PhasePosition    = "position"
	PhaseConstraints = "constraints"
	PhaseCleanse     = "cleanse"
)

// Profiler receives phase boundaries. A phase ends when the next one starts
// or the caller closes the tick.
type Profiler interface {
	StartPhase(name string)
}

// Engine advances a World.
type Engine struct {
	Emitter

	world *World
	cfg   EngineConfig
	frame uint64

	separations map[uint64]vec.Vector
	seen        map[uint64]struct{}
	candidates  []candidate

	profiler Profiler
}

// NewEngine validates cfg and binds an engine to world.
func NewEngine(world *World, cfg EngineConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		world:       world,
		cfg:         cfg,
		separations: make(map[uint64]vec.Vector),
		seen:        make(map[uint64]struct{}),
	}
	world.onShapeRemoved(e.forgetShape)
	return e, nil
}

// World returns the simulated world.
func (e *Engine) World() *World { return e.world }

// Config returns the solver settings.
func (e *Engine) Config() EngineConfig { return e.cfg }

// SetConfig replaces the solver settings after validating them.
func (e *Engine) SetConfig(cfg EngineConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// Frame returns the number of substeps run so far.
func (e *Engine) Frame() uint64 { return e.frame }

// SetProfiler installs a phase profiler. Nil disables profiling.
func (e *Engine) SetProfiler(p Profiler) { e.profiler = p }

func (e *Engine) phase(name string) {
	if e.profiler != nil {
		e.profiler.StartPhase(name)
	}
}

// Update advances the simulation by dt split into substeps. A NaN or
// non-positive dt is ignored.
func (e *Engine) Update(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return nil
	}
	e.Trigger(Event{Kind: EventBeforeUpdate, Dt: dt, Frame: e.frame})
	sub := dt / float64(e.cfg.Substeps)
	for range e.cfg.Substeps {
		if err := e.step(sub); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) step(dt float64) error {
	w := e.world
	e.frame++
	e.Trigger(Event{Kind: EventDuringUpdate, Dt: dt, Frame: e.frame})

	e.phase(PhaseIntegrate)
	for _, b := range w.bodies {
		if b.static {
			continue
		}
		b.preUpdate(dt, w.Gravity)
		b.update(dt)
	}

	e.phase(PhaseBroadphase)
	candidates := e.broadphase()

	e.phase(PhaseNarrowphase)
	for _, c := range candidates {
		if !e.collides(c.a, c.b) {
			continue
		}
		if err := e.touch(c.a, c.b); err != nil {
			return err
		}
	}

	e.phase(PhasePrepare)
	e.prepareContacts(dt)

	e.phase(PhaseVelocity)
	for range e.cfg.VelocityIterations {
		e.solveVelocity(dt, true)
		e.solveVelocity(dt, false)
	}

	e.phase(PhasePosition)
	for range e.cfg.PositionIterations {
		e.solvePosition()
	}

	e.phase(PhaseConstraints)
	for range e.cfg.ConstraintIterations {
		for _, c := range w.constraints {
			c.solve()
		}
	}

	e.phase(PhaseCleanse)
	w.cleanse(e.frame)
	return nil
}

// touch creates or refreshes the pair for two overlapping shapes.
func (e *Engine) touch(a, b *CollisionShape) error {
	w := e.world
	id := grid.Symmetric(a.id, b.id)
	p := w.pairs.get(id)
	isNew := p == nil
	if isNew {
		p = &Pair{ID: id, ShapeA: a, ShapeB: b}
	}
	if err := fillManifold(p); err != nil {
		return err
	}
	mixMaterials(p)
	p.Frame = e.frame
	if isNew {
		w.startPair(p, e.frame)
	} else {
		w.refreshPair(p, e.frame)
	}
	return nil
}
