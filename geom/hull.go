package geom

import (
	"slices"

	"github.com/pthm-cable/rigid/vec"
)

// ConvexHull returns the convex hull of the points in counter-clockwise
// order using Andrew's monotone chain. Collinear points are dropped.
func ConvexHull(points []vec.Vector) []vec.Vector {
	if len(points) < 3 {
		return slices.Clone(points)
	}
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b vec.Vector) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})

	turn := func(o, a, b vec.Vector) float64 {
		return a.Sub(o).Cross(b.Sub(o))
	}

	hull := make([]vec.Vector, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}
