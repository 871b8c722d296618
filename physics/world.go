package physics

import (
	"log/slog"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rigid/grid"
	"github.com/pthm-cable/rigid/vec"
)

// handle is the registry component pointing an entity back at its body or
// shape.
type handle struct {
	body  *RigidBody
	shape *CollisionShape
}

// bodyContact counts live shape pairs between two bodies.
type bodyContact struct {
	count int
	frame uint64
}

// World owns bodies, the static and dynamic grids, the pair table and the
// distance constraints. Bodies and shapes are registered as entities so that
// their ids stay stable and compact.
type World struct {
	Emitter

	Gravity vec.Vector

	registry *ecs.World
	handles  *ecs.Map1[handle]

	bodies      []*RigidBody
	constraints []*DistanceConstraint

	dynamic *grid.Grid[*CollisionShape]
	static  *grid.Grid[*CollisionShape]

	pairs    pairTable
	contacts map[uint64]*bodyContact

	shapeRemoved []func(*CollisionShape)
}

// NewWorld creates an empty world.
func NewWorld(cfg WorldConfig) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	registry := ecs.NewWorld()
	return &World{
		Gravity:  cfg.Gravity,
		registry: registry,
		handles:  ecs.NewMap1[handle](registry),
		dynamic:  grid.New[*CollisionShape](cfg.GridSize),
		static:   grid.New[*CollisionShape](cfg.GridSize),
		pairs:    newPairTable(),
		contacts: make(map[uint64]*bodyContact),
	}, nil
}

// Bodies returns the bodies in insertion order. The slice is owned by the
// world.
func (w *World) Bodies() []*RigidBody { return w.bodies }

// Constraints returns the distance constraints.
func (w *World) Constraints() []*DistanceConstraint { return w.constraints }

// Pairs returns the live pairs in insertion order. The slice is owned by the
// world.
func (w *World) Pairs() []*Pair { return w.pairs.order }

// PairCount returns the number of live pairs.
func (w *World) PairCount() int { return w.pairs.len() }

// PairsOf returns the live pairs a shape participates in.
func (w *World) PairsOf(s *CollisionShape) []*Pair {
	var out []*Pair
	for _, p := range w.pairs.order {
		if p.ShapeA == s || p.ShapeB == s {
			out = append(out, p)
		}
	}
	return out
}

// DynamicGrid returns the grid holding dynamic shapes.
func (w *World) DynamicGrid() *grid.Grid[*CollisionShape] { return w.dynamic }

// StaticGrid returns the grid holding static shapes.
func (w *World) StaticGrid() *grid.Grid[*CollisionShape] { return w.static }

// Add registers a body and its shapes and puts the shapes into the grid
// matching the body's flags.
func (w *World) Add(b *RigidBody) error {
	if b.world == w {
		return ErrDuplicateBody
	}
	if b.world != nil {
		return ErrForeignBody
	}
	b.world = w
	b.entity = w.handles.NewEntity(&handle{body: b})
	b.id = b.entity.ID()
	for _, s := range b.shapes {
		s.entity = w.handles.NewEntity(&handle{shape: s})
		s.id = s.entity.ID()
	}
	w.bodies = append(w.bodies, b)
	w.registerShapes(b)

	slog.Debug("body added", "body", b.id, "shapes", len(b.shapes), "static", b.static)
	ev := Event{Kind: EventAdd, Body: b}
	b.Trigger(ev)
	w.Trigger(ev)
	return nil
}

// Remove deletes a body, its pairs (firing the end events), its constraints
// and its registry entries.
func (w *World) Remove(b *RigidBody) error {
	if b.world != w {
		return ErrForeignBody
	}
	w.pairs.sweep(func(p *Pair) bool {
		return p.ShapeA.body == b || p.ShapeB.body == b
	}, func(p *Pair) {
		w.endPair(p, p.Frame)
	})
	w.constraints = slices.DeleteFunc(w.constraints, func(c *DistanceConstraint) bool {
		return c.BodyA == b || c.BodyB == b
	})
	w.unregisterShapes(b)
	for _, s := range b.shapes {
		for _, fn := range w.shapeRemoved {
			fn(s)
		}
		w.registry.RemoveEntity(s.entity)
		s.id = 0
	}
	w.registry.RemoveEntity(b.entity)
	w.bodies = slices.DeleteFunc(w.bodies, func(o *RigidBody) bool { return o == b })

	slog.Debug("body removed", "body", b.id)
	ev := Event{Kind: EventDelete, Body: b}
	b.Trigger(ev)
	w.Trigger(ev)
	b.world = nil
	b.id = 0
	return nil
}

// Lookup resolves an entity back to its body or shape. Exactly one of the
// results is non-nil for a live entity.
func (w *World) Lookup(e ecs.Entity) (*RigidBody, *CollisionShape) {
	if e.IsZero() || !w.registry.Alive(e) {
		return nil, nil
	}
	h := w.handles.Get(e)
	if h == nil {
		return nil, nil
	}
	return h.body, h.shape
}

// AddConstraint appends a distance constraint.
func (w *World) AddConstraint(c *DistanceConstraint) error {
	if c.BodyA != nil && c.BodyA.world != w {
		return ErrForeignBody
	}
	if c.BodyB == nil || c.BodyB.world != w {
		return ErrForeignBody
	}
	if err := c.Validate(); err != nil {
		return err
	}
	w.constraints = append(w.constraints, c)
	slog.Debug("constraint added", "body", c.BodyB.id, "length", c.Length)
	return nil
}

// RemoveConstraint deletes a distance constraint.
func (w *World) RemoveConstraint(c *DistanceConstraint) {
	w.constraints = slices.DeleteFunc(w.constraints, func(o *DistanceConstraint) bool { return o == c })
}

// QueryAABB returns the bodies with a shape overlapping b, in the order
// their shapes were found.
func (w *World) QueryAABB(b vec.Bounds) []*RigidBody {
	var out []*RigidBody
	seen := make(map[*RigidBody]struct{})
	visit := func(s *CollisionShape) bool {
		if _, ok := seen[s.body]; !ok {
			seen[s.body] = struct{}{}
			out = append(out, s.body)
		}
		return true
	}
	w.dynamic.Query(b, visit)
	w.static.Query(b, visit)
	return out
}

// QueryPoint returns the bodies containing p.
func (w *World) QueryPoint(p vec.Vector) []*RigidBody {
	var out []*RigidBody
	for _, b := range w.QueryAABB(vec.Bounds{Min: p, Max: p}) {
		if b.ContainsPoint(p) {
			out = append(out, b)
		}
	}
	return out
}

func (w *World) gridFor(b *RigidBody) *grid.Grid[*CollisionShape] {
	switch {
	case !b.collisions:
		return nil
	case b.static:
		return w.static
	default:
		return w.dynamic
	}
}

func (w *World) registerShapes(b *RigidBody) {
	g := w.gridFor(b)
	if g == nil {
		return
	}
	for _, s := range b.shapes {
		g.Add(s)
	}
}

func (w *World) unregisterShapes(b *RigidBody) {
	for _, s := range b.shapes {
		w.dynamic.Remove(s)
		w.static.Remove(s)
	}
}

// updateShape pushes a moved shape into its grid if it is registered.
func (w *World) updateShape(s *CollisionShape) {
	if g := w.gridFor(s.body); g != nil && g.Has(s) {
		g.Update(s)
	}
}

func (w *World) onShapeRemoved(fn func(*CollisionShape)) {
	w.shapeRemoved = append(w.shapeRemoved, fn)
}

// startPair records a new pair and fires the start events.
func (w *World) startPair(p *Pair, frame uint64) {
	w.pairs.insert(p)
	w.firePair(EventCollisionStart, p, frame)

	key := bodyPairKey(p)
	bc := w.contacts[key]
	if bc == nil {
		bc = &bodyContact{}
		w.contacts[key] = bc
	}
	bc.count++
	if bc.count == 1 {
		bc.frame = frame
		w.fireBodies(EventBodyEnter, p, frame)
		return
	}
	w.bodyInside(bc, p, frame)
}

// refreshPair fires the continuing events for a pair seen again.
func (w *World) refreshPair(p *Pair, frame uint64) {
	w.firePair(EventCollisionActive, p, frame)
	if bc := w.contacts[bodyPairKey(p)]; bc != nil {
		w.bodyInside(bc, p, frame)
	}
}

func (w *World) bodyInside(bc *bodyContact, p *Pair, frame uint64) {
	if bc.frame == frame {
		return
	}
	bc.frame = frame
	w.fireBodies(EventBodyInside, p, frame)
}

// endPair fires the end events for a pair already dropped from the table.
func (w *World) endPair(p *Pair, frame uint64) {
	w.firePair(EventCollisionEnd, p, frame)
	key := bodyPairKey(p)
	bc := w.contacts[key]
	if bc == nil {
		return
	}
	bc.count--
	if bc.count <= 0 {
		delete(w.contacts, key)
		w.fireBodies(EventBodyExit, p, frame)
	}
}

// cleanse drops pairs that were not refreshed in frame.
func (w *World) cleanse(frame uint64) {
	w.pairs.sweep(func(p *Pair) bool {
		return p.Frame < frame
	}, func(p *Pair) {
		w.endPair(p, frame)
	})
}

func bodyPairKey(p *Pair) uint64 {
	return grid.Symmetric(p.ShapeA.body.id, p.ShapeB.body.id)
}

// firePair notifies both shapes, both bodies and the world.
func (w *World) firePair(kind EventKind, p *Pair, frame uint64) {
	a, b := p.ShapeA, p.ShapeB
	evA := Event{Kind: kind, Body: a.body, Other: b.body, Shape: a, OtherShape: b, Pair: p, Frame: frame}
	evB := Event{Kind: kind, Body: b.body, Other: a.body, Shape: b, OtherShape: a, Pair: p, Frame: frame}
	a.Trigger(evA)
	b.Trigger(evB)
	a.body.Trigger(evA)
	b.body.Trigger(evB)
	w.Trigger(evA)
}

// fireBodies notifies both bodies and the world of a body-level event.
func (w *World) fireBodies(kind EventKind, p *Pair, frame uint64) {
	a, b := p.ShapeA.body, p.ShapeB.body
	evA := Event{Kind: kind, Body: a, Other: b, Pair: p, Frame: frame}
	a.Trigger(evA)
	b.Trigger(Event{Kind: kind, Body: b, Other: a, Pair: p, Frame: frame})
	w.Trigger(evA)
}
