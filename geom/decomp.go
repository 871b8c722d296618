package geom

import (
	"math"

	"github.com/pthm-cable/rigid/vec"
)

// Decomposer splits a simple polygon into convex parts covering the same
// area.
type Decomposer interface {
	Decompose(vertices []vec.Vector) [][]vec.Vector
}

// DecomposerFunc adapts a function to the Decomposer interface.
type DecomposerFunc func([]vec.Vector) [][]vec.Vector

// Decompose calls f.
func (f DecomposerFunc) Decompose(vertices []vec.Vector) [][]vec.Vector {
	return f(vertices)
}

// Bayazit is Mark Bayazit's quick convex decomposition. It cuts at reflex
// vertices, connecting to the closest visible vertex or inserting a Steiner
// point, and recurses on the smaller half first.
type Bayazit struct {
	// MaxLevel bounds recursion depth. Zero means 100.
	MaxLevel int
}

// Decompose returns convex parts of a simple polygon. Input of either
// winding is accepted; parts are counter-clockwise.
func (b Bayazit) Decompose(vertices []vec.Vector) [][]vec.Vector {
	maxLevel := b.MaxLevel
	if maxLevel <= 0 {
		maxLevel = 100
	}
	poly := EnsureCCW(vertices)
	if IsConvex(poly) {
		return [][]vec.Vector{poly}
	}
	var out [][]vec.Vector
	quickDecomp(poly, &out, 0, maxLevel)
	return out
}

func quickDecomp(poly []vec.Vector, out *[][]vec.Vector, level, maxLevel int) {
	n := len(poly)
	if n < 3 {
		return
	}
	level++
	if level > maxLevel {
		*out = append(*out, poly)
		return
	}
	at := func(i int) vec.Vector {
		return poly[((i%n)+n)%n]
	}

	for i := range n {
		if !isReflex(poly, i) {
			continue
		}

		var lowerInt, upperInt vec.Vector
		lowerDist, upperDist := math.MaxFloat64, math.MaxFloat64
		lowerIndex, upperIndex := 0, 0

		for j := range n {
			if left(at(i-1), at(i), at(j)) && rightOn(at(i-1), at(i), at(j-1)) {
				p := lineIntersection(at(i-1), at(i), at(j), at(j-1))
				if right(at(i+1), at(i), p) {
					if d := sqdist(poly[i], p); d < lowerDist {
						lowerDist = d
						lowerInt = p
						lowerIndex = j
					}
				}
			}
			if left(at(i+1), at(i), at(j+1)) && rightOn(at(i+1), at(i), at(j)) {
				p := lineIntersection(at(i+1), at(i), at(j), at(j+1))
				if left(at(i-1), at(i), p) {
					if d := sqdist(poly[i], p); d < upperDist {
						upperDist = d
						upperInt = p
						upperIndex = j
					}
				}
			}
		}

		var lowerPoly, upperPoly []vec.Vector
		if lowerIndex == (upperIndex+1)%n {
			// No vertex to connect to: cut through a Steiner point.
			p := lowerInt.Add(upperInt).Scale(0.5)
			if i < upperIndex {
				lowerPoly = append(lowerPoly, poly[i:upperIndex+1]...)
				lowerPoly = append(lowerPoly, p)
				upperPoly = append(upperPoly, p)
				if lowerIndex != 0 {
					upperPoly = append(upperPoly, poly[lowerIndex:]...)
				}
				upperPoly = append(upperPoly, poly[:i+1]...)
			} else {
				if i != 0 {
					lowerPoly = append(lowerPoly, poly[i:]...)
				}
				lowerPoly = append(lowerPoly, poly[:upperIndex+1]...)
				lowerPoly = append(lowerPoly, p)
				upperPoly = append(upperPoly, p)
				upperPoly = append(upperPoly, poly[lowerIndex:i+1]...)
			}
		} else {
			if lowerIndex > upperIndex {
				upperIndex += n
			}
			closestDist := math.MaxFloat64
			closestIndex := -1
			for j := lowerIndex; j <= upperIndex; j++ {
				if leftOn(at(i-1), at(i), at(j)) && rightOn(at(i+1), at(i), at(j)) {
					if d := sqdist(at(i), at(j)); d < closestDist && canSee(poly, i, j%n) {
						closestDist = d
						closestIndex = j % n
					}
				}
			}
			if closestIndex < 0 {
				*out = append(*out, poly)
				return
			}
			if i < closestIndex {
				lowerPoly = append(lowerPoly, poly[i:closestIndex+1]...)
				if closestIndex != 0 {
					upperPoly = append(upperPoly, poly[closestIndex:]...)
				}
				upperPoly = append(upperPoly, poly[:i+1]...)
			} else {
				if i != 0 {
					lowerPoly = append(lowerPoly, poly[i:]...)
				}
				lowerPoly = append(lowerPoly, poly[:closestIndex+1]...)
				upperPoly = append(upperPoly, poly[closestIndex:i+1]...)
			}
		}

		if len(lowerPoly) < len(upperPoly) {
			quickDecomp(lowerPoly, out, level, maxLevel)
			quickDecomp(upperPoly, out, level, maxLevel)
		} else {
			quickDecomp(upperPoly, out, level, maxLevel)
			quickDecomp(lowerPoly, out, level, maxLevel)
		}
		return
	}
	*out = append(*out, poly)
}

func triArea(a, b, c vec.Vector) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

func left(a, b, c vec.Vector) bool    { return triArea(a, b, c) > 0 }
func leftOn(a, b, c vec.Vector) bool  { return triArea(a, b, c) >= 0 }
func right(a, b, c vec.Vector) bool   { return triArea(a, b, c) < 0 }
func rightOn(a, b, c vec.Vector) bool { return triArea(a, b, c) <= 0 }

func sqdist(a, b vec.Vector) float64 { return b.Sub(a).LenSq() }

func isReflex(poly []vec.Vector, i int) bool {
	n := len(poly)
	return right(poly[(i-1+n)%n], poly[i], poly[(i+1)%n])
}

// lineIntersection intersects the infinite lines p1p2 and q1q2. Parallel
// lines yield the zero vector.
func lineIntersection(p1, p2, q1, q2 vec.Vector) vec.Vector {
	a1 := p2.Y - p1.Y
	b1 := p1.X - p2.X
	c1 := a1*p1.X + b1*p1.Y
	a2 := q2.Y - q1.Y
	b2 := q1.X - q2.X
	c2 := a2*q1.X + b2*q1.Y
	det := a1*b2 - a2*b1
	if math.Abs(det) < 1e-12 {
		return vec.Zero
	}
	return vec.New((b2*c1-b1*c2)/det, (a1*c2-a2*c1)/det)
}

// canSee reports whether the diagonal from a to b crosses no edge of the
// polygon other than the ones meeting at a or b.
func canSee(poly []vec.Vector, a, b int) bool {
	n := len(poly)
	for i := range n {
		j := (i + 1) % n
		if i == a || i == b || j == a || j == b {
			continue
		}
		if segmentsIntersect(poly[a], poly[b], poly[i], poly[j]) {
			return false
		}
	}
	return true
}

// segmentsIntersect reports whether segments p1p2 and q1q2 meet, endpoints
// included. Parallel segments never intersect.
func segmentsIntersect(p1, p2, q1, q2 vec.Vector) bool {
	d := p2.Sub(p1)
	e := q2.Sub(q1)
	den := e.X*d.Y - e.Y*d.X
	if den == 0 {
		return false
	}
	s := (d.X*(q1.Y-p1.Y) + d.Y*(p1.X-q1.X)) / den
	t := (e.X*(p1.Y-q1.Y) + e.Y*(q1.X-p1.X)) / -den
	return s >= 0 && s <= 1 && t >= 0 && t <= 1
}
