package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/rigid/geom"
	"github.com/pthm-cable/rigid/vec"
)

func orient(a, b, c vec.Vector) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func segmentsCross(p1, p2, q1, q2 vec.Vector) bool {
	d1, d2 := orient(q1, q2, p1), orient(q1, q2, p2)
	d3, d4 := orient(p1, p2, q1), orient(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func insideConvex(poly []vec.Vector, p vec.Vector) bool {
	for i := range poly {
		if orient(poly[i], poly[(i+1)%len(poly)], p) < 0 {
			return false
		}
	}
	return true
}

// overlapReference decides overlap from edge crossings and containment.
func overlapReference(a, b []vec.Vector) bool {
	for i := range a {
		for j := range b {
			if segmentsCross(a[i], a[(i+1)%len(a)], b[j], b[(j+1)%len(b)]) {
				return true
			}
		}
	}
	return insideConvex(a, b[0]) || insideConvex(b, a[0])
}

func randomConvex(rng *rand.Rand, radius float64) []vec.Vector {
	for {
		pts := make([]vec.Vector, 3+rng.Intn(6))
		for i := range pts {
			pts[i] = vec.New(rng.Float64()*2*radius-radius, rng.Float64()*2*radius-radius)
		}
		hull := geom.ConvexHull(pts)
		if len(hull) >= 3 && geom.Area(hull) > 1 {
			return hull
		}
	}
}

func TestSATMatchesReference(t *testing.T) {
	w, e := newTestWorld(t, vec.Zero)
	rng := rand.New(rand.NewSource(2024))
	hits, misses := 0, 0

	for i := range 600 {
		a, err := NewBody(randomConvex(rng, 20), vec.New(0, 0), DefaultBodyOptions())
		if err != nil {
			t.Fatal(err)
		}
		b, err := NewBody(randomConvex(rng, 20), vec.New(rng.Float64()*60-30, rng.Float64()*60-30), DefaultBodyOptions())
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Add(a); err != nil {
			t.Fatal(err)
		}
		if err := w.Add(b); err != nil {
			t.Fatal(err)
		}
		sa, sb := a.Shapes()[0], b.Shapes()[0]

		want := overlapReference(sa.Vertices(), sb.Vertices())
		if got := e.collides(sa, sb); got != want {
			t.Fatalf("case %d: collides = %v, reference = %v\nA=%v\nB=%v", i, got, want, sa.Vertices(), sb.Vertices())
		}
		// The cached axis must give the same answer.
		if got := e.collides(sa, sb); got != want {
			t.Fatalf("case %d: cached collides = %v, reference = %v", i, got, want)
		}
		if want {
			hits++
		} else {
			misses++
		}
		w.Remove(a)
		w.Remove(b)
	}
	if hits < 50 || misses < 50 {
		t.Errorf("unbalanced sample: %d hits, %d misses", hits, misses)
	}
	if len(e.separations) != 0 {
		t.Errorf("separation cache kept %d entries after removal", len(e.separations))
	}
}

func TestManifoldBoxes(t *testing.T) {
	a, _ := newShape(Rectangle(10, 10), vec.New(0, 0), false)
	b, _ := newShape(Rectangle(10, 10), vec.New(8, 1), false)
	ba, _ := NewRectangle(vec.Zero, 1, 1, DefaultBodyOptions())
	bb, _ := NewRectangle(vec.Zero, 1, 1, DefaultBodyOptions())
	a.body, b.body = ba, bb

	p := &Pair{ShapeA: a, ShapeB: b}
	if err := fillManifold(p); err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.Normal.X-1) > 1e-9 || math.Abs(p.Normal.Y) > 1e-9 {
		t.Errorf("normal = %v, want (1,0)", p.Normal)
	}
	if math.Abs(p.Tangent.Dot(p.Normal)) > 1e-12 {
		t.Errorf("tangent %v not perpendicular", p.Tangent)
	}
	if math.Abs(p.Depth-2) > 1e-9 {
		t.Errorf("depth = %v, want 2", p.Depth)
	}
	if len(p.Contacts) != 2 {
		t.Fatalf("contacts = %d, want 2: %+v", len(p.Contacts), p.Contacts)
	}
	for _, c := range p.Contacts {
		if math.Abs(c.Depth-2) > 1e-9 {
			t.Errorf("contact depth = %v, want 2", c.Depth)
		}
	}

	// Swapping the shapes flips the normal.
	q := &Pair{ShapeA: b, ShapeB: a}
	if err := fillManifold(q); err != nil {
		t.Fatal(err)
	}
	if math.Abs(q.Normal.X+1) > 1e-9 {
		t.Errorf("swapped normal = %v, want (-1,0)", q.Normal)
	}
}

func TestManifoldFallbackContact(t *testing.T) {
	// A thin bar crossing a square: no vertex of either is inside the other.
	a, _ := newShape(Rectangle(40, 2), vec.Zero, false)
	b, _ := newShape(Rectangle(2, 40), vec.Zero, false)
	ba, _ := NewRectangle(vec.Zero, 1, 1, DefaultBodyOptions())
	bb, _ := NewRectangle(vec.Zero, 1, 1, DefaultBodyOptions())
	a.body, b.body = ba, bb

	p := &Pair{ShapeA: a, ShapeB: b}
	if err := fillManifold(p); err != nil {
		t.Fatal(err)
	}
	if len(p.Contacts) != 1 || p.Contacts[0].Point != a.Position() {
		t.Errorf("contacts = %+v, want single contact at A's centroid", p.Contacts)
	}
}

func TestCollisionFilter(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Filter
		pairs int
	}{
		{"default", DefaultFilter(), DefaultFilter(), 1},
		{"disjoint", Filter{Layer: 1, Mask: 1}, Filter{Layer: 2, Mask: 2}, 0},
		{"one way", Filter{Layer: 1, Mask: 1}, Filter{Layer: 2, Mask: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, e := newTestWorld(t, vec.Zero)
			addBox(t, w, vec.New(0, 0), 10, func(o *BodyOptions) { o.Filter = tt.a })
			addBox(t, w, vec.New(6, 0), 10, func(o *BodyOptions) { o.Filter = tt.b })
			if err := e.Update(1.0 / 60); err != nil {
				t.Fatal(err)
			}
			if got := w.PairCount(); got != tt.pairs {
				t.Errorf("pairs = %d, want %d", got, tt.pairs)
			}
		})
	}
}

func TestSameBodyShapesNeverPair(t *testing.T) {
	w, e := newTestWorld(t, vec.Zero)
	b, err := NewBody(lShape(10), vec.Zero, DefaultBodyOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Add(b); err != nil {
		t.Fatal(err)
	}
	step(t, e, 5)
	if w.PairCount() != 0 {
		t.Errorf("pairs = %d, want 0", w.PairCount())
	}
}
