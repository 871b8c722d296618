package physics

import (
	"math"

	"github.com/pthm-cable/rigid/vec"
)

// softness holds the soft constraint coefficients for a stiffness and
// damping ratio at a given step.
type softness struct {
	bias, mass, impulse float64
}

func makeSoft(hertz, zeta, dt float64) softness {
	if hertz == 0 {
		return softness{mass: 1}
	}
	omega := 2 * math.Pi * hertz
	a1 := 2*zeta + dt*omega
	c := dt * omega * a1
	impulse := 1 / (1 + c)
	return softness{
		bias:    omega / a1,
		mass:    c * impulse,
		impulse: impulse,
	}
}

// prepareContacts computes effective masses, soft coefficients and the
// approach velocity of every contact in the current frame, then applies the
// impulses carried over from the previous frame.
func (e *Engine) prepareContacts(dt float64) {
	hertz := math.Min(e.cfg.ContactHertz, 0.25/dt)
	zeta := e.cfg.ContactDampingRatio
	soft := makeSoft(hertz, zeta, dt)
	staticSoft := makeSoft(2*hertz, zeta, dt)

	for _, p := range e.world.pairs.order {
		if p.Frame != e.frame || p.Sensor {
			continue
		}
		ba, bb := p.ShapeA.body, p.ShapeB.body
		mA, iA := ba.invMass, ba.invInertia
		mB, iB := bb.invMass, bb.invInertia
		s := soft
		if ba.static || bb.static {
			s = staticSoft
		}
		n := float64(len(p.Contacts))
		p.corrected = 0

		for i := range p.Contacts {
			c := &p.Contacts[i]
			c.anchorA = c.Point.Sub(ba.position)
			c.anchorB = c.Point.Sub(bb.position)

			rnA := c.anchorA.Cross(p.Normal)
			rnB := c.anchorB.Cross(p.Normal)
			if k := mA + mB + iA*rnA*rnA + iB*rnB*rnB; k > 0 {
				c.NormalMass = 1 / k
			} else {
				c.NormalMass = 0
			}

			rtA := c.anchorA.Cross(p.Tangent)
			rtB := c.anchorB.Cross(p.Tangent)
			if k := mA + mB + iA*rtA*rtA + iB*rtB*rtB; k > 0 {
				c.TangentMass = 1 / k
			} else {
				c.TangentMass = 0
			}

			c.BiasCoefficient = s.bias
			c.MassCoefficient = s.mass / n
			c.ImpulseCoefficient = s.impulse

			dv := bb.VelocityAt(c.Point).Sub(ba.VelocityAt(c.Point))
			c.RelativeVelocity = dv.Dot(p.Normal)
		}
	}

	for _, p := range e.world.pairs.order {
		if p.Frame != e.frame || p.Sensor {
			continue
		}
		warmStart(p)
	}
}

// warmStart applies the accumulated impulses of p's contacts to its bodies.
func warmStart(p *Pair) {
	ba, bb := p.ShapeA.body, p.ShapeB.body
	vA, wA := ba.velocity, ba.angularVelocity
	vB, wB := bb.velocity, bb.angularVelocity
	for i := range p.Contacts {
		c := &p.Contacts[i]
		if c.NormalImpulse == 0 && c.TangentImpulse == 0 {
			continue
		}
		P := p.Normal.Scale(c.NormalImpulse).Add(p.Tangent.Scale(c.TangentImpulse))
		vA = vA.Sub(P.Scale(ba.invMass))
		wA -= ba.invInertia * c.anchorA.Cross(P)
		vB = vB.Add(P.Scale(bb.invMass))
		wB += bb.invInertia * c.anchorB.Cross(P)
	}
	if !ba.static {
		ba.velocity, ba.angularVelocity = vA, wA
	}
	if !bb.static {
		bb.velocity, bb.angularVelocity = vB, wB
	}
}

// solveVelocity runs one Gauss-Seidel pass over all contacts. The biased
// pass pushes penetrating contacts apart softly; the relax pass removes the
// bias velocity again.
func (e *Engine) solveVelocity(dt float64, useBias bool) {
	invDt := 1 / dt
	maxBias := e.cfg.MaxBiasVelocity
	threshold := e.cfg.RestitutionThreshold

	for _, p := range e.world.pairs.order {
		if p.Frame != e.frame || p.Sensor {
			continue
		}
		ba, bb := p.ShapeA.body, p.ShapeB.body
		mA, iA := ba.invMass, ba.invInertia
		mB, iB := bb.invMass, bb.invInertia
		vA, wA := ba.velocity, ba.angularVelocity
		vB, wB := bb.velocity, bb.angularVelocity
		normal, tangent := p.Normal, p.Tangent

		for i := range p.Contacts {
			c := &p.Contacts[i]
			// Separation is positive when the points are apart.
			s := -c.Depth

			bias, massScale, impulseScale := 0.0, 1.0, 0.0
			switch {
			case s > 0:
				bias = s * invDt
			case useBias:
				bias = math.Max(c.BiasCoefficient*s, -maxBias)
				massScale = c.MassCoefficient
				impulseScale = c.ImpulseCoefficient
			}

			target := 0.0
			if p.Restitution > 0 && c.RelativeVelocity < -threshold {
				target = -p.Restitution * c.RelativeVelocity
			}

			dv := vB.Add(vec.CrossSV(wB, c.anchorB)).Sub(vA.Add(vec.CrossSV(wA, c.anchorA)))
			vn := dv.Dot(normal)

			impulse := -c.NormalMass*massScale*(vn-target+bias) - impulseScale*c.NormalImpulse
			total := math.Max(c.NormalImpulse+impulse, 0)
			impulse = total - c.NormalImpulse
			c.NormalImpulse = total

			P := normal.Scale(impulse)
			vA = vA.Sub(P.Scale(mA))
			wA -= iA * c.anchorA.Cross(P)
			vB = vB.Add(P.Scale(mB))
			wB += iB * c.anchorB.Cross(P)
		}

		for i := range p.Contacts {
			c := &p.Contacts[i]
			dv := vB.Add(vec.CrossSV(wB, c.anchorB)).Sub(vA.Add(vec.CrossSV(wA, c.anchorA)))
			vt := dv.Dot(tangent)

			limit := p.Friction * c.NormalImpulse
			total := math.Max(-limit, math.Min(c.TangentImpulse-c.TangentMass*vt, limit))
			impulse := total - c.TangentImpulse
			c.TangentImpulse = total

			P := tangent.Scale(impulse)
			vA = vA.Sub(P.Scale(mA))
			wA -= iA * c.anchorA.Cross(P)
			vB = vB.Add(P.Scale(mB))
			wB += iB * c.anchorB.Cross(P)
		}

		if !ba.static {
			ba.velocity, ba.angularVelocity = vA, wA
		}
		if !bb.static {
			bb.velocity, bb.angularVelocity = vB, wB
		}
	}
}

// solvePosition translates penetrating bodies apart by a fraction of the
// residual depth beyond the slop, split by inverse mass.
func (e *Engine) solvePosition() {
	slop := e.cfg.PositionSlop
	factor := e.cfg.PositionCorrection
	for _, p := range e.world.pairs.order {
		if p.Frame != e.frame || p.Sensor {
			continue
		}
		ba, bb := p.ShapeA.body, p.ShapeB.body
		total := ba.invMass + bb.invMass
		if total == 0 {
			continue
		}
		residual := p.Depth - p.corrected
		corr := math.Max(residual-slop, 0) * factor
		if corr == 0 {
			continue
		}
		p.corrected += corr
		if ba.invMass > 0 {
			ba.Translate(p.Normal.Scale(-corr * ba.invMass / total))
		}
		if bb.invMass > 0 {
			bb.Translate(p.Normal.Scale(corr * bb.invMass / total))
		}
	}
}
