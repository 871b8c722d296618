package physics

import (
	"fmt"
	"math"

	"github.com/pthm-cable/rigid/vec"
)

// DistanceConstraint keeps two anchor points at a fixed distance. A nil
// BodyA anchors PointA in world space; otherwise points are in body-local
// coordinates (unrotated frame, relative to the centre of mass).
type DistanceConstraint struct {
	BodyA, BodyB   *RigidBody
	PointA, PointB vec.Vector
	Length         float64
	// Stiffness in (0,1] is the fraction of the length error and of the
	// stretching velocity removed per iteration.
	Stiffness float64
	// Damping in [0,1] removes an extra fraction of the relative velocity
	// along the constraint.
	Damping float64
	// Slack lets the constraint go loose inside a deadband of
	// (1-Stiffness)*Length around the rest length, and never push when
	// compressed.
	Slack bool
}

// NewDistanceConstraint connects two world points, using their current
// separation as the rest length. A nil a pins anchorA to the world.
func NewDistanceConstraint(a *RigidBody, anchorA vec.Vector, b *RigidBody, anchorB vec.Vector) *DistanceConstraint {
	c := &DistanceConstraint{
		BodyA:     a,
		BodyB:     b,
		PointA:    anchorA,
		PointB:    b.toLocal(anchorB),
		Length:    anchorB.Sub(anchorA).Len(),
		Stiffness: 1,
	}
	if a != nil {
		c.PointA = a.toLocal(anchorA)
	}
	return c
}

// Validate checks the constraint fields.
func (c *DistanceConstraint) Validate() error {
	if !(c.Length >= 0) || math.IsInf(c.Length, 0) {
		return fmt.Errorf("%w: constraint length must be >= 0, got %v", ErrInvalidConfig, c.Length)
	}
	if !(c.Stiffness > 0 && c.Stiffness <= 1) {
		return fmt.Errorf("%w: constraint stiffness must be in (0,1], got %v", ErrInvalidConfig, c.Stiffness)
	}
	if !(c.Damping >= 0 && c.Damping <= 1) {
		return fmt.Errorf("%w: constraint damping must be in [0,1], got %v", ErrInvalidConfig, c.Damping)
	}
	return nil
}

func (b *RigidBody) toLocal(p vec.Vector) vec.Vector {
	return p.Sub(b.position).Rotate(-b.angle)
}

// WorldPoints returns the current anchor positions.
func (c *DistanceConstraint) WorldPoints() (vec.Vector, vec.Vector) {
	a := c.PointA
	var rA vec.Vector
	if c.BodyA != nil {
		rA = c.PointA.Rotate(c.BodyA.angle)
		a = c.BodyA.position.Add(rA)
	}
	rB := c.PointB.Rotate(c.BodyB.angle)
	return a, c.BodyB.position.Add(rB)
}

// CurrentLength returns the distance between the anchors.
func (c *DistanceConstraint) CurrentLength() float64 {
	a, b := c.WorldPoints()
	return b.Sub(a).Len()
}

// solve projects the anchors towards the rest length and removes the
// matching share of the relative velocity along the constraint.
func (c *DistanceConstraint) solve() {
	var mA, iA float64
	var rA vec.Vector
	pA := c.PointA
	if c.BodyA != nil {
		mA, iA = c.BodyA.invMass, c.BodyA.invInertia
		rA = c.PointA.Rotate(c.BodyA.angle)
		pA = c.BodyA.position.Add(rA)
	}
	bB := c.BodyB
	mB, iB := bB.invMass, bB.invInertia
	rB := c.PointB.Rotate(bB.angle)
	pB := bB.position.Add(rB)

	delta := pB.Sub(pA)
	current := delta.Len()
	if current < 1e-9 {
		return
	}
	n := delta.Scale(1 / current)
	errLen := current - c.Length
	if c.Slack {
		if errLen <= (1-c.Stiffness)*c.Length {
			return
		}
	}

	rnA := rA.Cross(n)
	rnB := rB.Cross(n)
	k := mA + mB + iA*rnA*rnA + iB*rnB*rnB
	if k == 0 {
		return
	}

	// Position projection.
	lambda := -errLen * c.Stiffness / k
	P := n.Scale(lambda)
	if c.BodyA != nil && mA > 0 {
		c.BodyA.move(P.Scale(-mA), -iA*rA.Cross(P))
	}
	if mB > 0 {
		bB.move(P.Scale(mB), iB*rB.Cross(P))
	}

	// Velocity along the constraint.
	var vA vec.Vector
	if c.BodyA != nil {
		vA = c.BodyA.velocity.Add(vec.CrossSV(c.BodyA.angularVelocity, rA))
	}
	vB := bB.velocity.Add(vec.CrossSV(bB.angularVelocity, rB))
	vn := vB.Sub(vA).Dot(n)
	if c.Slack && vn < 0 {
		return
	}
	factor := math.Min(1, c.Stiffness+c.Damping)
	lambda = -vn * factor / k
	P = n.Scale(lambda)
	if c.BodyA != nil && mA > 0 {
		c.BodyA.velocity = c.BodyA.velocity.Sub(P.Scale(mA))
		c.BodyA.angularVelocity -= iA * rA.Cross(P)
	}
	if mB > 0 {
		bB.velocity = bB.velocity.Add(P.Scale(mB))
		bB.angularVelocity += iB * rB.Cross(P)
	}
}
