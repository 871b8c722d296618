package physics

import "github.com/pthm-cable/rigid/vec"

// Contact is one point of a contact manifold plus its solver state.
type Contact struct {
	Point vec.Vector
	// Depth is the penetration of this point along the pair normal.
	Depth float64

	NormalImpulse  float64
	TangentImpulse float64
	NormalMass     float64
	TangentMass    float64

	BiasCoefficient    float64
	MassCoefficient    float64
	ImpulseCoefficient float64

	// RelativeVelocity is the normal approach speed captured before the
	// velocity iterations. Negative means approaching.
	RelativeVelocity float64

	anchorA, anchorB vec.Vector
	// feature names the vertex that produced the point, stable across
	// frames while the pair lives.
	feature uint32
}

// Pair is the manifold for two overlapping shapes. Normal points from
// ShapeA towards ShapeB.
type Pair struct {
	ID     uint64
	ShapeA *CollisionShape
	ShapeB *CollisionShape

	Normal      vec.Vector
	Tangent     vec.Vector
	Depth       float64
	Contacts    []Contact
	Friction    float64
	Restitution float64
	Sensor      bool

	// Frame is the engine frame the pair was last refreshed in.
	Frame uint64

	corrected float64
	previous  []Contact
}

// BodyA returns the body owning ShapeA.
func (p *Pair) BodyA() *RigidBody { return p.ShapeA.body }

// BodyB returns the body owning ShapeB.
func (p *Pair) BodyB() *RigidBody { return p.ShapeB.body }

// pairTable is an insertion-ordered map of live pairs.
type pairTable struct {
	byID  map[uint64]*Pair
	order []*Pair
}

func newPairTable() pairTable {
	return pairTable{byID: make(map[uint64]*Pair)}
}

func (t *pairTable) get(id uint64) *Pair {
	return t.byID[id]
}

func (t *pairTable) insert(p *Pair) {
	t.byID[p.ID] = p
	t.order = append(t.order, p)
}

// sweep removes every pair for which drop returns true, keeping the order
// of the rest, and calls removed for each dropped pair in order.
func (t *pairTable) sweep(drop func(*Pair) bool, removed func(*Pair)) {
	kept := t.order[:0]
	var dropped []*Pair
	for _, p := range t.order {
		if drop(p) {
			delete(t.byID, p.ID)
			dropped = append(dropped, p)
			continue
		}
		kept = append(kept, p)
	}
	clear(t.order[len(kept):])
	t.order = kept
	for _, p := range dropped {
		removed(p)
	}
}

func (t *pairTable) len() int {
	return len(t.order)
}
