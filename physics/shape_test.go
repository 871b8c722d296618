package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/rigid/geom"
	"github.com/pthm-cable/rigid/vec"
)

func TestNewShapeNormalizes(t *testing.T) {
	// Clockwise input with a duplicate vertex.
	in := []vec.Vector{
		vec.New(0, 0), vec.New(0, 4), vec.New(0.0001, 4), vec.New(6, 4), vec.New(6, 0),
	}
	s, err := newShape(in, vec.New(10, 10), false)
	if err != nil {
		t.Fatalf("newShape: %v", err)
	}
	if len(s.Vertices()) != 4 {
		t.Fatalf("vertices = %d, want 4", len(s.Vertices()))
	}
	if geom.SignedArea(s.Vertices()) <= 0 {
		t.Error("vertices not counter-clockwise")
	}
	c := geom.Centroid(s.Vertices())
	if math.Abs(c.X-10) > 1e-9 || math.Abs(c.Y-10) > 1e-9 {
		t.Errorf("centroid = %v, want (10,10)", c)
	}
	for i, axis := range s.Axes() {
		if math.Abs(axis.Len()-1) > 1e-9 {
			t.Errorf("axis %d not unit: %v", i, axis)
		}
		// Outward: the centroid is behind every edge.
		if c.Sub(s.Vertices()[i]).Dot(axis) >= 0 {
			t.Errorf("axis %d points inward", i)
		}
	}
	if math.Abs(s.Area()-24) > 1e-9 {
		t.Errorf("area = %v, want 24", s.Area())
	}
}

func TestNewShapeRejectsDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		verts []vec.Vector
	}{
		{"two points", []vec.Vector{vec.New(0, 0), vec.New(1, 1)}},
		{"duplicates", []vec.Vector{vec.New(0, 0), vec.New(0, 0), vec.New(0.0001, 0)}},
		{"collinear", []vec.Vector{vec.New(0, 0), vec.New(1, 0), vec.New(2, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newShape(tt.verts, vec.Zero, false); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestContainsPointAndSupport(t *testing.T) {
	s, err := newShape(Rectangle(10, 10), vec.Zero, false)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		p    vec.Vector
		want bool
	}{
		{vec.New(0, 0), true},
		{vec.New(5, 5), true},
		{vec.New(5, 0), true},
		{vec.New(5.01, 0), false},
		{vec.New(0, -6), false},
	}
	for _, tt := range tests {
		if got := s.ContainsPoint(tt.p); got != tt.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	i, d := s.support(vec.New(1, 1).Normalize(), vec.Zero)
	if v := s.Vertices()[i]; v != vec.New(5, 5) {
		t.Errorf("support vertex = %v, want (5,5)", v)
	}
	if math.Abs(d-5*math.Sqrt2) > 1e-9 {
		t.Errorf("support distance = %v", d)
	}
}

func TestAABBConsistency(t *testing.T) {
	w, _ := newTestWorld(t, vec.Zero)
	rng := rand.New(rand.NewSource(11))
	b := addBox(t, w, vec.New(0, 0), 12, nil)
	tri, err := NewBody(RegularPolygon(5, 9), vec.New(30, 30), DefaultBodyOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Add(tri); err != nil {
		t.Fatal(err)
	}

	for i := range 200 {
		for _, body := range []*RigidBody{b, tri} {
			switch i % 3 {
			case 0:
				body.Translate(vec.New(rng.Float64()*40-20, rng.Float64()*40-20))
			case 1:
				body.TranslateAngle(rng.Float64()*2 - 1)
			default:
				body.SetAngle(rng.Float64() * 10)
			}
			for _, s := range body.Shapes() {
				want := vec.BoundsOf(s.Vertices())
				if s.Bounds() != want {
					t.Fatalf("step %d: bounds %+v, want %+v", i, s.Bounds(), want)
				}
				c := geom.Centroid(s.Vertices())
				if c.Sub(s.Position()).Len() > 1e-6 {
					t.Fatalf("step %d: centroid %v drifted from position %v", i, c, s.Position())
				}
				if !w.DynamicGrid().Has(s) {
					t.Fatalf("step %d: shape left the grid", i)
				}
			}
		}
	}
}

func TestShapeNaNIgnored(t *testing.T) {
	s, _ := newShape(Rectangle(2, 2), vec.Zero, false)
	before := append([]vec.Vector(nil), s.Vertices()...)
	s.Translate(vec.New(math.NaN(), 1))
	s.SetAngle(math.NaN())
	s.TranslateAngle(math.NaN())
	s.SetPosition(vec.New(0, math.NaN()))
	for i, v := range s.Vertices() {
		if v != before[i] {
			t.Fatalf("vertex %d changed: %v", i, v)
		}
	}
}
