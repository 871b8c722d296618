package vec

import "math"

// Bounds is an axis-aligned bounding box. Min is component-wise <= Max.
type Bounds struct {
	Min, Max Vector
}

// BoundsOf computes the bounds of a vertex set.
// An empty set yields the zero Bounds.
func BoundsOf(vertices []Vector) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: Vector{X: math.Inf(1), Y: math.Inf(1)},
		Max: Vector{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, v := range vertices {
		b.Min = Min(b.Min, v)
		b.Max = Max(b.Max, v)
	}
	return b
}

// Overlaps reports whether b and o intersect. Touching edges count.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Contains reports whether p lies inside b (inclusive).
func (b Bounds) Contains(p Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{Min: Min(b.Min, o.Min), Max: Max(b.Max, o.Max)}
}

// Translate returns b shifted by d.
func (b Bounds) Translate(d Vector) Bounds {
	return Bounds{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Expand grows the box by d on every side.
func (b Bounds) Expand(d float64) Bounds {
	pad := Vector{X: d, Y: d}
	return Bounds{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// Size returns the width and height as a vector.
func (b Bounds) Size() Vector {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of b.
func (b Bounds) Center() Vector {
	return b.Min.Add(b.Max).Scale(0.5)
}
