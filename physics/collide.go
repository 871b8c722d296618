package physics

import (
	"math"

	"github.com/pthm-cable/rigid/grid"
	"github.com/pthm-cable/rigid/vec"
)

type candidate struct {
	a, b *CollisionShape
}

// canCollide applies the owner, flag and filter tests.
func canCollide(a, b *CollisionShape) bool {
	ba, bb := a.body, b.body
	if ba == bb || !ba.collisions || !bb.collisions {
		return false
	}
	if ba.static && bb.static {
		return false
	}
	return ba.filter.Accepts(bb.filter)
}

// broadphase collects candidate pairs from the dynamic cells: every pair in
// a dynamic bucket and every dynamic shape against the static bucket of the
// same cell.
func (e *Engine) broadphase() []candidate {
	clear(e.seen)
	e.candidates = e.candidates[:0]
	dyn, st := e.world.dynamic, e.world.static
	for _, cell := range dyn.Cells() {
		bucket := dyn.Bucket(cell)
		for i, a := range bucket {
			for _, b := range bucket[i+1:] {
				e.consider(a, b)
			}
		}
		statics := st.Bucket(cell)
		if len(statics) == 0 {
			continue
		}
		for _, a := range bucket {
			for _, b := range statics {
				e.consider(a, b)
			}
		}
	}
	return e.candidates
}

func (e *Engine) consider(a, b *CollisionShape) {
	id := grid.Symmetric(a.id, b.id)
	if _, ok := e.seen[id]; ok {
		return
	}
	e.seen[id] = struct{}{}
	if !canCollide(a, b) {
		return
	}
	// A negative margin admits speculative pairs across a small gap.
	ab := a.bounds
	if m := e.cfg.MarginThreshold; m < 0 {
		ab = ab.Expand(-m)
	}
	if !ab.Overlaps(b.bounds) {
		return
	}
	e.candidates = append(e.candidates, candidate{a: a, b: b})
}

// collides runs SAT, trying the pair's last separating axis first. A found
// separating axis is cached for the next query.
func (e *Engine) collides(a, b *CollisionShape) bool {
	id := grid.Symmetric(a.id, b.id)
	margin := e.cfg.MarginThreshold
	if axis, ok := e.separations[id]; ok {
		if separatedOn(a, b, axis, margin) {
			return false
		}
	}
	for _, axis := range a.axes {
		if separatedOn(a, b, axis, margin) {
			e.separations[id] = axis
			return false
		}
	}
	for _, axis := range b.axes {
		if separatedOn(a, b, axis, margin) {
			e.separations[id] = axis
			return false
		}
	}
	delete(e.separations, id)
	return true
}

// separatedOn reports whether the projections of a and b onto axis overlap
// by less than margin.
func separatedOn(a, b *CollisionShape, axis vec.Vector, margin float64) bool {
	loA, hiA := a.project(axis)
	loB, hiB := b.project(axis)
	overlap := math.Min(hiA, hiB) - math.Max(loA, loB)
	return overlap < margin
}

// forgetShape drops cached axes that mention s.
func (e *Engine) forgetShape(s *CollisionShape) {
	for id := range e.separations {
		hi, lo := grid.UnpairSymmetric(id)
		if hi == s.id || lo == s.id {
			delete(e.separations, id)
		}
	}
}
