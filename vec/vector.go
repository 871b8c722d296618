// Package vec provides the 2D vector and bounding box value types shared by
// the physics packages.
package vec

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector is a 2D vector. All operations return copies.
type Vector r2.Vec

// Zero is the zero vector.
var Zero = Vector{}

// New creates a vector.
func New(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) r2() r2.Vec { return r2.Vec(v) }

// Add returns v+w.
func (v Vector) Add(w Vector) Vector {
	return Vector(r2.Add(v.r2(), w.r2()))
}

// Sub returns v-w.
func (v Vector) Sub(w Vector) Vector {
	return Vector(r2.Sub(v.r2(), w.r2()))
}

// Scale returns v*f.
func (v Vector) Scale(f float64) Vector {
	return Vector(r2.Scale(f, v.r2()))
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product v·w.
func (v Vector) Dot(w Vector) float64 {
	return r2.Dot(v.r2(), w.r2())
}

// Cross returns the z component of the 3D cross product v×w.
func (v Vector) Cross(w Vector) float64 {
	return r2.Cross(v.r2(), w.r2())
}

// CrossSV returns s×v for a scalar (angular) s, i.e. (-s*v.Y, s*v.X).
func CrossSV(s float64, v Vector) Vector {
	return Vector{X: -s * v.Y, Y: s * v.X}
}

// Perp returns v rotated by +90 degrees.
func (v Vector) Perp() Vector {
	return Vector{X: -v.Y, Y: v.X}
}

// Len returns the Euclidean length of v.
func (v Vector) Len() float64 {
	return r2.Norm(v.r2())
}

// LenSq returns the squared length of v.
func (v Vector) LenSq() float64 {
	return r2.Norm2(v.r2())
}

// Normalize returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	if v.X == 0 && v.Y == 0 {
		return v
	}
	return Vector(r2.Unit(v.r2()))
}

// Rotate returns v rotated by angle radians about the origin.
func (v Vector) Rotate(angle float64) Vector {
	return Vector(r2.Rotate(v.r2(), angle, r2.Vec{}))
}

// RotateAbout returns v rotated by angle radians about center.
func (v Vector) RotateAbout(angle float64, center Vector) Vector {
	return Vector(r2.Rotate(v.r2(), angle, center.r2()))
}

// Manhattan returns |v.X-w.X| + |v.Y-w.Y|.
func (v Vector) Manhattan(w Vector) float64 {
	return math.Abs(v.X-w.X) + math.Abs(v.Y-w.Y)
}

// IsNaN reports whether either component is NaN.
func (v Vector) IsNaN() bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y)
}

// Min returns the component-wise minimum.
func Min(a, b Vector) Vector {
	return Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// Max returns the component-wise maximum.
func Max(a, b Vector) Vector {
	return Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}
