// Package geom holds polygon analytics (area, centroid, inertia, winding)
// and convex decomposition used when building rigid bodies.
package geom

import (
	"math"
	"slices"

	"github.com/pthm-cable/rigid/vec"
)

// DuplicateThreshold is the Manhattan distance below which two consecutive
// vertices are treated as the same point.
const DuplicateThreshold = 1e-3

// SignedArea returns the signed area of a polygon. Positive means
// counter-clockwise winding (y-up).
func SignedArea(vertices []vec.Vector) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range n {
		sum += vertices[i].Cross(vertices[(i+1)%n])
	}
	return sum / 2
}

// Area returns the unsigned polygon area.
func Area(vertices []vec.Vector) float64 {
	return math.Abs(SignedArea(vertices))
}

// Mean returns the average of the vertices.
func Mean(vertices []vec.Vector) vec.Vector {
	if len(vertices) == 0 {
		return vec.Zero
	}
	var c vec.Vector
	for _, v := range vertices {
		c = c.Add(v)
	}
	return c.Scale(1 / float64(len(vertices)))
}

// Centroid returns the area centroid of a simple polygon.
// Degenerate (zero-area) input falls back to the vertex mean.
func Centroid(vertices []vec.Vector) vec.Vector {
	n := len(vertices)
	area := SignedArea(vertices)
	if n < 3 || math.Abs(area) < 1e-12 {
		return Mean(vertices)
	}
	var cx, cy float64
	for i := range n {
		a := vertices[i]
		b := vertices[(i+1)%n]
		cross := a.Cross(b)
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}
	f := 1 / (6 * area)
	return vec.New(cx*f, cy*f)
}

// Inertia returns the moment of inertia of a uniform-density polygon of the
// given mass about its centroid.
func Inertia(vertices []vec.Vector, mass float64) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	c := Centroid(vertices)
	var num, den float64
	for i := range n {
		a := vertices[i].Sub(c)
		b := vertices[(i+1)%n].Sub(c)
		cross := math.Abs(a.Cross(b))
		num += cross * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		den += cross
	}
	if den == 0 {
		return 0
	}
	return mass / 6 * num / den
}

// IsConvex reports whether the polygon's consecutive edge cross products
// never change sign. Collinear edges are ignored.
func IsConvex(vertices []vec.Vector) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	sign := 0
	for i := range n {
		a := vertices[i]
		b := vertices[(i+1)%n]
		c := vertices[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		switch {
		case cross > 1e-12:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < -1e-12:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

// EnsureCCW returns the vertices in counter-clockwise order, reversing a
// copy when the signed area is negative.
func EnsureCCW(vertices []vec.Vector) []vec.Vector {
	out := slices.Clone(vertices)
	if SignedArea(out) < 0 {
		slices.Reverse(out)
	}
	return out
}

// SortByAngle orders the vertices counter-clockwise by their angle around
// the vertex mean. Only meaningful for star-shaped input.
func SortByAngle(vertices []vec.Vector) []vec.Vector {
	c := Mean(vertices)
	out := slices.Clone(vertices)
	slices.SortStableFunc(out, func(a, b vec.Vector) int {
		aa := math.Atan2(a.Y-c.Y, a.X-c.X)
		ab := math.Atan2(b.Y-c.Y, b.X-c.X)
		switch {
		case aa < ab:
			return -1
		case aa > ab:
			return 1
		}
		return 0
	})
	return out
}

// Dedupe drops vertices closer than DuplicateThreshold (Manhattan) to their
// predecessor, including the wrap-around from last to first.
func Dedupe(vertices []vec.Vector) []vec.Vector {
	out := make([]vec.Vector, 0, len(vertices))
	for _, v := range vertices {
		if len(out) > 0 && out[len(out)-1].Manhattan(v) < DuplicateThreshold {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[len(out)-1].Manhattan(out[0]) < DuplicateThreshold {
		out = out[:len(out)-1]
	}
	return out
}

// RemoveCollinear drops vertices whose neighbouring edges are parallel
// within the given angle (radians).
func RemoveCollinear(vertices []vec.Vector, threshold float64) []vec.Vector {
	out := slices.Clone(vertices)
	for i := len(out) - 1; i >= 0 && len(out) > 3; i-- {
		n := len(out)
		prev := out[(i-1+n)%n]
		next := out[(i+1)%n]
		if collinear(prev, out[i], next, threshold) {
			out = slices.Delete(out, i, i+1)
		}
	}
	return out
}

func collinear(a, b, c vec.Vector, threshold float64) bool {
	ab := b.Sub(a)
	bc := c.Sub(b)
	la, lb := ab.Len(), bc.Len()
	if la == 0 || lb == 0 {
		return true
	}
	return math.Abs(ab.Cross(bc))/(la*lb) <= math.Sin(threshold)
}

// Translate returns a copy of the vertices shifted by d.
func Translate(vertices []vec.Vector, d vec.Vector) []vec.Vector {
	out := make([]vec.Vector, len(vertices))
	for i, v := range vertices {
		out[i] = v.Add(d)
	}
	return out
}
