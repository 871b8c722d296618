package physics

import "github.com/pthm-cable/rigid/vec"

// Transformable is the shared transform capability of bodies and shapes.
type Transformable interface {
	Position() vec.Vector
	Angle() float64
	SetPosition(p vec.Vector)
	SetAngle(angle float64)
	Translate(d vec.Vector)
	TranslateAngle(delta float64)
}

// Drawable is the read-only view a renderer needs.
type Drawable interface {
	Position() vec.Vector
	Angle() float64
	Vertices() []vec.Vector
	Bounds() vec.Bounds
}

var (
	_ Transformable = (*RigidBody)(nil)
	_ Transformable = (*CollisionShape)(nil)
	_ Drawable      = (*CollisionShape)(nil)
)
