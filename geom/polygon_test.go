package geom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/rigid/vec"
)

func square(size float64) []vec.Vector {
	h := size / 2
	return []vec.Vector{vec.New(-h, -h), vec.New(h, -h), vec.New(h, h), vec.New(-h, h)}
}

func lShape() []vec.Vector {
	return []vec.Vector{
		vec.New(0, 0), vec.New(2, 0), vec.New(2, 1),
		vec.New(1, 1), vec.New(1, 2), vec.New(0, 2),
	}
}

func TestAreaAndWinding(t *testing.T) {
	tests := []struct {
		name   string
		verts  []vec.Vector
		signed float64
	}{
		{"ccw square", square(10), 100},
		{"cw square", reversed(square(10)), -100},
		{"l shape", lShape(), 3},
		{"degenerate", []vec.Vector{vec.New(0, 0), vec.New(1, 1)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignedArea(tt.verts); math.Abs(got-tt.signed) > 1e-9 {
				t.Errorf("SignedArea = %v, want %v", got, tt.signed)
			}
			if got := SignedArea(EnsureCCW(tt.verts)); got < 0 {
				t.Errorf("EnsureCCW left negative area %v", got)
			}
		})
	}
}

func reversed(v []vec.Vector) []vec.Vector {
	out := make([]vec.Vector, len(v))
	for i := range v {
		out[i] = v[len(v)-1-i]
	}
	return out
}

func TestCentroid(t *testing.T) {
	sq := Translate(square(4), vec.New(10, -3))
	c := Centroid(sq)
	if math.Abs(c.X-10) > 1e-9 || math.Abs(c.Y+3) > 1e-9 {
		t.Errorf("Centroid = %v, want (10,-3)", c)
	}

	// 2x1 bottom bar at (1,0.5) plus 1x1 block at (0.5,1.5).
	c = Centroid(lShape())
	wantX := (2*1 + 1*0.5) / 3
	wantY := (2*0.5 + 1*1.5) / 3
	if math.Abs(c.X-wantX) > 1e-9 || math.Abs(c.Y-wantY) > 1e-9 {
		t.Errorf("L centroid = %v, want (%v,%v)", c, wantX, wantY)
	}
}

func TestInertia(t *testing.T) {
	// Solid rectangle: m(w²+h²)/12.
	w, h, m := 4.0, 2.0, 3.0
	rect := []vec.Vector{vec.New(0, 0), vec.New(w, 0), vec.New(w, h), vec.New(0, h)}
	want := m * (w*w + h*h) / 12
	if got := Inertia(rect, m); math.Abs(got-want) > 1e-9 {
		t.Errorf("Inertia = %v, want %v", got, want)
	}
	// Winding must not matter.
	if got := Inertia(reversed(rect), m); math.Abs(got-want) > 1e-9 {
		t.Errorf("Inertia (cw) = %v, want %v", got, want)
	}
}

func TestIsConvex(t *testing.T) {
	tests := []struct {
		name  string
		verts []vec.Vector
		want  bool
	}{
		{"square", square(2), true},
		{"cw square", reversed(square(2)), true},
		{"l shape", lShape(), false},
		{"collinear point", []vec.Vector{vec.New(0, 0), vec.New(1, 0), vec.New(2, 0), vec.New(2, 2)}, true},
		{"line", []vec.Vector{vec.New(0, 0), vec.New(1, 0), vec.New(2, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConvex(tt.verts); got != tt.want {
				t.Errorf("IsConvex = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	in := []vec.Vector{
		vec.New(0, 0), vec.New(0.0001, 0), vec.New(1, 0),
		vec.New(1, 1), vec.New(0, 0.0002),
	}
	out := Dedupe(in)
	if len(out) != 3 {
		t.Fatalf("Dedupe len = %d, want 3: %v", len(out), out)
	}
}

func TestSortByAngle(t *testing.T) {
	scrambled := []vec.Vector{vec.New(1, 1), vec.New(-1, -1), vec.New(-1, 1), vec.New(1, -1)}
	out := SortByAngle(scrambled)
	if SignedArea(out) <= 0 {
		t.Errorf("SortByAngle produced non-CCW order %v", out)
	}
	if math.Abs(Area(out)-4) > 1e-9 {
		t.Errorf("area = %v, want 4", Area(out))
	}
}

func TestRemoveCollinear(t *testing.T) {
	in := []vec.Vector{vec.New(0, 0), vec.New(1, 0), vec.New(2, 0), vec.New(2, 2), vec.New(0, 2)}
	out := RemoveCollinear(in, 0.01)
	if len(out) != 4 {
		t.Errorf("RemoveCollinear len = %d, want 4: %v", len(out), out)
	}
}

func TestConvexHull(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := range 50 {
		pts := make([]vec.Vector, 12)
		for j := range pts {
			pts[j] = vec.New(rng.Float64()*100-50, rng.Float64()*100-50)
		}
		hull := ConvexHull(pts)
		if !IsConvex(hull) {
			t.Fatalf("case %d: hull not convex: %v", i, hull)
		}
		if SignedArea(hull) <= 0 {
			t.Fatalf("case %d: hull not CCW", i)
		}
		// Every input point lies on or inside every hull edge.
		for _, p := range pts {
			for k := range hull {
				a, b := hull[k], hull[(k+1)%len(hull)]
				if b.Sub(a).Cross(p.Sub(a)) < -1e-9 {
					t.Fatalf("case %d: point %v outside hull edge %v-%v", i, p, a, b)
				}
			}
		}
	}
}
