package physics

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rigid/geom"
	"github.com/pthm-cable/rigid/vec"
)

// containsEpsilon makes ContainsPoint inclusive of points on an edge.
const containsEpsilon = 1e-9

// CollisionShape is one convex polygon owned by a body. Vertices are in world
// space, counter-clockwise, and centered on Position.
type CollisionShape struct {
	Emitter

	id     uint32
	entity ecs.Entity
	body   *RigidBody

	position vec.Vector
	angle    float64
	vertices []vec.Vector
	axes     []vec.Vector
	bounds   vec.Bounds
	area     float64
}

// newShape cleans up a convex vertex list and recenters it on position.
func newShape(vertices []vec.Vector, position vec.Vector, sortVertices bool) (*CollisionShape, error) {
	verts := geom.Dedupe(vertices)
	if len(verts) < 3 {
		return nil, ErrEmptyBody
	}
	if sortVertices {
		verts = geom.SortByAngle(verts)
	} else {
		verts = geom.EnsureCCW(verts)
	}
	area := geom.Area(verts)
	if area < 1e-12 {
		return nil, ErrEmptyBody
	}
	offset := position.Sub(geom.Centroid(verts))
	for i := range verts {
		verts[i] = verts[i].Add(offset)
	}
	s := &CollisionShape{
		position: position,
		vertices: verts,
		axes:     make([]vec.Vector, len(verts)),
		area:     area,
	}
	s.refresh()
	return s, nil
}

// ID returns the shape's arena index. It is zero until the owning body is
// added to a World.
func (s *CollisionShape) ID() uint32 { return s.id }

// Entity returns the shape's entity in the world's registry.
func (s *CollisionShape) Entity() ecs.Entity { return s.entity }

// Body returns the owning body.
func (s *CollisionShape) Body() *RigidBody { return s.body }

// Position returns the shape centroid.
func (s *CollisionShape) Position() vec.Vector { return s.position }

// Angle returns the accumulated rotation of the shape.
func (s *CollisionShape) Angle() float64 { return s.angle }

// Vertices returns the world-space vertices. The slice is owned by the shape.
func (s *CollisionShape) Vertices() []vec.Vector { return s.vertices }

// Axes returns the outward unit edge normals. Axis i belongs to the edge
// from vertex i to vertex i+1.
func (s *CollisionShape) Axes() []vec.Vector { return s.axes }

// Bounds returns the shape AABB.
func (s *CollisionShape) Bounds() vec.Bounds { return s.bounds }

// Area returns the polygon area.
func (s *CollisionShape) Area() float64 { return s.area }

// GridID implements grid.Item.
func (s *CollisionShape) GridID() uint32 { return s.id }

// AABB implements grid.Item.
func (s *CollisionShape) AABB() vec.Bounds { return s.bounds }

// ContainsPoint reports whether p lies inside or on the polygon.
func (s *CollisionShape) ContainsPoint(p vec.Vector) bool {
	for i, v := range s.vertices {
		if p.Sub(v).Dot(s.axes[i]) > containsEpsilon {
			return false
		}
	}
	return true
}

// support returns the vertex that maximises direction·(v-origin) and that
// distance.
func (s *CollisionShape) support(direction, origin vec.Vector) (int, float64) {
	best := -1
	dist := math.Inf(-1)
	for i, v := range s.vertices {
		if d := direction.Dot(v.Sub(origin)); d > dist {
			dist = d
			best = i
		}
	}
	return best, dist
}

// project returns the interval of the shape along axis.
func (s *CollisionShape) project(axis vec.Vector) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range s.vertices {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// Translate moves the shape by d.
func (s *CollisionShape) Translate(d vec.Vector) {
	if d.IsNaN() {
		return
	}
	s.transform(d, 0, vec.Zero)
}

// TranslateAngle rotates the shape about its own centroid.
func (s *CollisionShape) TranslateAngle(delta float64) {
	if math.IsNaN(delta) {
		return
	}
	s.transform(vec.Zero, delta, s.position)
}

// RotateAbout rotates the shape by delta about center.
func (s *CollisionShape) RotateAbout(delta float64, center vec.Vector) {
	if math.IsNaN(delta) || center.IsNaN() {
		return
	}
	s.transform(vec.Zero, delta, center)
}

// SetPosition moves the centroid to p.
func (s *CollisionShape) SetPosition(p vec.Vector) {
	if p.IsNaN() {
		return
	}
	s.Translate(p.Sub(s.position))
}

// SetAngle rotates the shape to an absolute angle.
func (s *CollisionShape) SetAngle(angle float64) {
	if math.IsNaN(angle) {
		return
	}
	s.TranslateAngle(angle - s.angle)
}

// transform translates by d, then rotates by delta about center (after the
// translation). The owning grid is updated once.
func (s *CollisionShape) transform(d vec.Vector, delta float64, center vec.Vector) {
	if d == vec.Zero && delta == 0 {
		return
	}
	if d != vec.Zero {
		s.position = s.position.Add(d)
		for i := range s.vertices {
			s.vertices[i] = s.vertices[i].Add(d)
		}
	}
	if delta != 0 {
		s.angle += delta
		s.position = s.position.RotateAbout(delta, center)
		for i := range s.vertices {
			s.vertices[i] = s.vertices[i].RotateAbout(delta, center)
		}
	}
	s.refresh()
	if s.body != nil && s.body.world != nil {
		s.body.world.updateShape(s)
	}
}

// refresh recomputes bounds and axes from the vertices.
func (s *CollisionShape) refresh() {
	s.bounds = vec.BoundsOf(s.vertices)
	n := len(s.vertices)
	for i := range n {
		e := s.vertices[(i+1)%n].Sub(s.vertices[i])
		s.axes[i] = vec.New(e.Y, -e.X).Normalize()
	}
}
