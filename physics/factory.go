package physics

import (
	"math"

	"github.com/pthm-cable/rigid/vec"
)

// Rectangle returns the vertices of a w×h rectangle centred on the origin.
func Rectangle(w, h float64) []vec.Vector {
	hw, hh := w/2, h/2
	return []vec.Vector{
		vec.New(-hw, -hh), vec.New(hw, -hh), vec.New(hw, hh), vec.New(-hw, hh),
	}
}

// RegularPolygon returns n vertices on a circle of the given radius.
func RegularPolygon(n int, radius float64) []vec.Vector {
	if n < 3 {
		n = 3
	}
	out := make([]vec.Vector, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = vec.New(radius*math.Cos(a), radius*math.Sin(a))
	}
	return out
}

// NewRectangle builds a rectangular body at position.
func NewRectangle(position vec.Vector, w, h float64, opts BodyOptions) (*RigidBody, error) {
	return NewBody(Rectangle(w, h), position, opts)
}
