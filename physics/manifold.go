package physics

import (
	"math"

	"github.com/pthm-cable/rigid/vec"
)

// contactMergeDistance is the Manhattan distance below which two candidate
// contact points are merged.
const contactMergeDistance = 1e-3

// warmStartAlignment is the minimum dot product between last frame's normal
// and the new one for accumulated impulses to carry over.
const warmStartAlignment = 0.95

// Contact feature keys: vertex index of A, vertex index of B with
// featureShapeB set, or the centroid fallback.
const (
	featureShapeB   uint32 = 1 << 16
	featureFallback uint32 = 1 << 17
)

// fillManifold computes normal, depth and contact points for two shapes
// that SAT found overlapping. The reference normal is the face normal of
// least penetration over both shapes, oriented from A to B. Depths are
// signed: a negative depth is a speculative gap allowed by a negative
// margin. Contacts keep their impulses from the previous frame when the
// same vertex produces them again.
func fillManifold(p *Pair) error {
	a, b := p.ShapeA, p.ShapeB

	depth := math.Inf(1)
	var normal vec.Vector
	for i, axis := range a.axes {
		_, d := b.support(axis.Neg(), a.vertices[i])
		if d < depth {
			depth = d
			normal = axis
		}
	}
	for i, axis := range b.axes {
		_, d := a.support(axis.Neg(), b.vertices[i])
		if d < depth {
			depth = d
			normal = axis.Neg()
		}
	}
	if math.IsInf(depth, 0) || math.IsNaN(depth) || normal.IsNaN() || normal == vec.Zero {
		return &ContactError{BodyA: a.body.id, BodyB: b.body.id, Err: ErrNoContactNormal}
	}

	// Contact depths are measured between the deepest planes of each shape
	// along the normal.
	_, maxA := a.project(normal)
	minB, _ := b.project(normal)

	warm := p.Normal.Dot(normal) >= warmStartAlignment
	p.previous = append(p.previous[:0], p.Contacts...)

	p.Normal = normal
	p.Tangent = normal.Perp()
	p.Depth = depth
	p.Contacts = p.Contacts[:0]
	for i, v := range a.vertices {
		if b.ContainsPoint(v) {
			p.Contacts = appendContact(p.Contacts, v, normal.Dot(v)-minB, uint32(i))
		}
	}
	for i, v := range b.vertices {
		if a.ContainsPoint(v) {
			p.Contacts = appendContact(p.Contacts, v, maxA-normal.Dot(v), featureShapeB|uint32(i))
		}
	}
	if len(p.Contacts) == 0 {
		p.Contacts = append(p.Contacts, Contact{Point: a.position, Depth: depth, feature: featureFallback})
	}
	if warm {
		matchImpulses(p.Contacts, p.previous)
	}
	return nil
}

func appendContact(contacts []Contact, point vec.Vector, depth float64, feature uint32) []Contact {
	for _, c := range contacts {
		if c.Point.Manhattan(point) < contactMergeDistance {
			return contacts
		}
	}
	return append(contacts, Contact{Point: point, Depth: depth, feature: feature})
}

// matchImpulses copies accumulated impulses from old contacts to the new
// contacts with the same feature.
func matchImpulses(contacts, old []Contact) {
	for i := range contacts {
		c := &contacts[i]
		for _, o := range old {
			if o.feature == c.feature {
				c.NormalImpulse = o.NormalImpulse
				c.TangentImpulse = o.TangentImpulse
				break
			}
		}
	}
}

// mixMaterials sets the pair's friction and restitution from its bodies.
func mixMaterials(p *Pair) {
	ba, bb := p.ShapeA.body, p.ShapeB.body
	p.Friction = math.Min(ba.Friction, bb.Friction)
	p.Restitution = math.Max(ba.Restitution, bb.Restitution)
	p.Sensor = ba.sensor || bb.sensor
}
