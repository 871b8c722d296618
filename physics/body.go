package physics

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rigid/geom"
	"github.com/pthm-cable/rigid/vec"
)

// RigidBody is a simulated polygon body made of one or more convex shapes.
// Position is the centre of mass.
type RigidBody struct {
	Emitter

	id     uint32
	entity ecs.Entity
	world  *World
	shapes []*CollisionShape

	position            vec.Vector
	angle               float64
	velocity            vec.Vector
	prevVelocity        vec.Vector
	angularVelocity     float64
	prevAngularVelocity float64
	force               vec.Vector
	torque              float64

	mass        float64
	invMass     float64
	inertia     float64
	invInertia  float64
	unitInertia float64 // inertia per unit mass
	area        float64

	Restitution     float64
	Friction        float64
	FrictionAir     float64
	FrictionAngular float64

	static     bool
	sensor     bool
	collisions bool
	filter     Filter
}

// NewBody builds a body whose centre of mass sits at position. Concave
// input is split by opts.Decomposer into convex shapes.
func NewBody(vertices []vec.Vector, position vec.Vector, opts BodyOptions) (*RigidBody, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if position.IsNaN() {
		return nil, ErrEmptyBody
	}
	verts := geom.Dedupe(vertices)
	if len(verts) < 3 {
		return nil, ErrEmptyBody
	}
	if opts.SortVertices {
		verts = geom.SortByAngle(verts)
	} else {
		verts = geom.EnsureCCW(verts)
	}
	if geom.Area(verts) < 1e-12 {
		return nil, ErrEmptyBody
	}

	verts = geom.RemoveCollinear(verts, collinearAngle)

	parts := [][]vec.Vector{verts}
	if !geom.IsConvex(verts) {
		d := opts.Decomposer
		if d == nil {
			d = geom.Bayazit{}
		}
		var err error
		if parts, err = convexParts(d, verts, maxResplits); err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			return nil, ErrEmptyBody
		}
	}

	// Area-weighted centre of all parts.
	var total float64
	var center vec.Vector
	for _, p := range parts {
		a := geom.Area(p)
		total += a
		center = center.Add(geom.Centroid(p).Scale(a))
	}
	center = center.Scale(1 / total)

	b := &RigidBody{
		position:        position,
		mass:            opts.Mass,
		area:            total,
		Restitution:     opts.Restitution,
		Friction:        opts.Friction,
		FrictionAir:     opts.FrictionAir,
		FrictionAngular: opts.FrictionAngular,
		static:          opts.Static,
		sensor:          opts.Sensor,
		collisions:      opts.Collisions,
		filter:          opts.Filter,
	}

	// Parallel axis sum over the parts, per unit mass.
	for _, p := range parts {
		a := geom.Area(p)
		c := geom.Centroid(p)
		share := a / total
		offset := c.Sub(center)
		b.unitInertia += geom.Inertia(p, share) + share*offset.LenSq()

		s, err := newShape(geom.Translate(p, center.Neg()), position.Add(offset), false)
		if err != nil {
			return nil, err
		}
		s.body = b
		b.shapes = append(b.shapes, s)
	}
	b.updateInertia()
	return b, nil
}

// ID returns the body's arena index. It is zero until the body is added to
// a World.
func (b *RigidBody) ID() uint32 { return b.id }

// Entity returns the body's entity in the world's registry.
func (b *RigidBody) Entity() ecs.Entity { return b.entity }

// World returns the world the body was added to, or nil.
func (b *RigidBody) World() *World { return b.world }

// Shapes returns the owned convex shapes.
func (b *RigidBody) Shapes() []*CollisionShape { return b.shapes }

func (b *RigidBody) Position() vec.Vector         { return b.position }
func (b *RigidBody) Angle() float64               { return b.angle }
func (b *RigidBody) Velocity() vec.Vector         { return b.velocity }
func (b *RigidBody) AngularVelocity() float64     { return b.angularVelocity }
func (b *RigidBody) Mass() float64                { return b.mass }
func (b *RigidBody) InverseMass() float64         { return b.invMass }
func (b *RigidBody) Inertia() float64             { return b.inertia }
func (b *RigidBody) InverseInertia() float64      { return b.invInertia }
func (b *RigidBody) Area() float64                { return b.area }
func (b *RigidBody) IsStatic() bool               { return b.static }
func (b *RigidBody) IsSensor() bool               { return b.sensor }
func (b *RigidBody) HasCollisions() bool          { return b.collisions }
func (b *RigidBody) Filter() Filter               { return b.filter }
func (b *RigidBody) SetSensor(sensor bool)        { b.sensor = sensor }
func (b *RigidBody) Force() (vec.Vector, float64) { return b.force, b.torque }

// Bounds returns the union of the shape bounds.
func (b *RigidBody) Bounds() vec.Bounds {
	bounds := b.shapes[0].bounds
	for _, s := range b.shapes[1:] {
		bounds = bounds.Union(s.bounds)
	}
	return bounds
}

// Vertices returns the vertices of the first shape. Use Shapes for
// decomposed bodies.
func (b *RigidBody) Vertices() []vec.Vector { return b.shapes[0].vertices }

// ContainsPoint reports whether any shape contains p.
func (b *RigidBody) ContainsPoint(p vec.Vector) bool {
	for _, s := range b.shapes {
		if s.bounds.Contains(p) && s.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// SetMass changes the mass, scaling inertia with it.
func (b *RigidBody) SetMass(mass float64) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return
	}
	b.mass = mass
	b.updateInertia()
}

// updateInertia keeps mass properties in sync with the static flag.
func (b *RigidBody) updateInertia() {
	b.inertia = b.unitInertia * b.mass
	if b.static {
		b.invMass = 0
		b.invInertia = 0
		return
	}
	b.invMass = 1 / b.mass
	b.invInertia = 0
	if b.inertia > 0 {
		b.invInertia = 1 / b.inertia
	}
}

// SetStatic switches between static and dynamic, moving the shapes between
// the world's grids. Geometry is untouched.
func (b *RigidBody) SetStatic(static bool) {
	if b.static == static {
		return
	}
	if b.world != nil {
		b.world.unregisterShapes(b)
	}
	b.static = static
	if static {
		b.velocity, b.prevVelocity = vec.Zero, vec.Zero
		b.angularVelocity, b.prevAngularVelocity = 0, 0
		b.force, b.torque = vec.Zero, 0
	}
	b.updateInertia()
	if b.world != nil {
		b.world.registerShapes(b)
		slog.Debug("body static toggled", "body", b.id, "static", static)
	}
}

// SetCollisions enables or disables collision detection, adding the shapes
// to or removing them from the grids.
func (b *RigidBody) SetCollisions(enabled bool) {
	if b.collisions == enabled {
		return
	}
	if b.world != nil {
		b.world.unregisterShapes(b)
	}
	b.collisions = enabled
	if b.world != nil {
		b.world.registerShapes(b)
	}
}

// SetVelocity sets the linear velocity. Ignored for static bodies.
func (b *RigidBody) SetVelocity(v vec.Vector) {
	if v.IsNaN() || b.static {
		return
	}
	b.velocity = v
}

// SetAngularVelocity sets the angular velocity. Ignored for static bodies.
func (b *RigidBody) SetAngularVelocity(w float64) {
	if math.IsNaN(w) || b.static {
		return
	}
	b.angularVelocity = w
}

// ApplyForce accumulates a force through the centre of mass.
func (b *RigidBody) ApplyForce(f vec.Vector) {
	if f.IsNaN() || b.static {
		return
	}
	b.force = b.force.Add(f)
}

// ApplyForceAt accumulates a force applied at a world point.
func (b *RigidBody) ApplyForceAt(f, point vec.Vector) {
	if f.IsNaN() || point.IsNaN() || b.static {
		return
	}
	b.force = b.force.Add(f)
	b.torque += point.Sub(b.position).Cross(f)
}

// ApplyTorque accumulates torque.
func (b *RigidBody) ApplyTorque(t float64) {
	if math.IsNaN(t) || b.static {
		return
	}
	b.torque += t
}

// ApplyImpulse changes velocity immediately by an impulse at a world point.
func (b *RigidBody) ApplyImpulse(impulse, point vec.Vector) {
	if impulse.IsNaN() || point.IsNaN() || b.static {
		return
	}
	b.velocity = b.velocity.Add(impulse.Scale(b.invMass))
	b.angularVelocity += b.invInertia * point.Sub(b.position).Cross(impulse)
}

// KineticEnergy returns the linear plus rotational kinetic energy.
func (b *RigidBody) KineticEnergy() float64 {
	if b.static {
		return 0
	}
	return 0.5*b.mass*b.velocity.LenSq() + 0.5*b.inertia*b.angularVelocity*b.angularVelocity
}

// VelocityAt returns the velocity of a world point attached to the body.
func (b *RigidBody) VelocityAt(point vec.Vector) vec.Vector {
	return b.velocity.Add(vec.CrossSV(b.angularVelocity, point.Sub(b.position)))
}

// SetPosition moves the body so its centre of mass is at p.
func (b *RigidBody) SetPosition(p vec.Vector) {
	if p.IsNaN() {
		return
	}
	b.move(p.Sub(b.position), 0)
}

// SetAngle rotates the body to an absolute angle.
func (b *RigidBody) SetAngle(angle float64) {
	if math.IsNaN(angle) {
		return
	}
	b.move(vec.Zero, angle-b.angle)
}

// Translate moves the body by d.
func (b *RigidBody) Translate(d vec.Vector) {
	if d.IsNaN() {
		return
	}
	b.move(d, 0)
}

// TranslateAngle rotates the body by delta about its centre of mass.
func (b *RigidBody) TranslateAngle(delta float64) {
	if math.IsNaN(delta) {
		return
	}
	b.move(vec.Zero, delta)
}

// move translates by d, then rotates by delta about the new position.
func (b *RigidBody) move(d vec.Vector, delta float64) {
	if d == vec.Zero && delta == 0 {
		return
	}
	b.position = b.position.Add(d)
	b.angle += delta
	for _, s := range b.shapes {
		s.transform(d, delta, b.position)
	}
}

// preUpdate folds accumulated force, torque and gravity into the
// velocities and clears the accumulators.
func (b *RigidBody) preUpdate(dt float64, gravity vec.Vector) {
	b.prevVelocity = b.velocity
	b.prevAngularVelocity = b.angularVelocity
	accel := b.force.Scale(b.invMass).Add(gravity)
	b.velocity = b.velocity.Add(accel.Scale(dt))
	b.angularVelocity += b.torque * b.invInertia * dt
	b.force = vec.Zero
	b.torque = 0
}

// update damps the velocities and advances the transform with the average
// of the previous and current velocity.
func (b *RigidBody) update(dt float64) {
	if b.FrictionAir > 0 {
		b.velocity = b.velocity.Scale(math.Pow(1-b.FrictionAir, dt))
	}
	if b.FrictionAngular > 0 {
		b.angularVelocity *= math.Pow(1-b.FrictionAngular, dt)
	}
	d := b.prevVelocity.Add(b.velocity).Scale(0.5 * dt)
	delta := (b.prevAngularVelocity + b.angularVelocity) * 0.5 * dt
	b.move(d, delta)
}

const (
	// collinearAngle is the edge turn in radians below which a vertex is
	// dropped.
	collinearAngle = 1e-6
	// maxResplits bounds how often a concave part is fed back to the
	// decomposer.
	maxResplits = 2
)

// convexParts decomposes verts, feeding any part that is still concave
// back to d. Degenerate parts are dropped.
func convexParts(d geom.Decomposer, verts []vec.Vector, resplits int) ([][]vec.Vector, error) {
	var parts [][]vec.Vector
	for _, p := range d.Decompose(verts) {
		p = geom.Dedupe(p)
		if len(p) < 3 || geom.Area(p) <= 1e-12 {
			continue
		}
		p = geom.RemoveCollinear(p, collinearAngle)
		if geom.IsConvex(p) {
			parts = append(parts, p)
			continue
		}
		if resplits == 0 {
			return nil, ErrConcavePart
		}
		sub, err := convexParts(d, p, resplits-1)
		if err != nil {
			return nil, err
		}
		parts = append(parts, sub...)
	}
	return parts, nil
}
