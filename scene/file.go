package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/vec"
)

// File is a scene described in YAML.
type File struct {
	Name        string           `yaml:"name"`
	Bodies      []BodySpec       `yaml:"bodies"`
	Constraints []ConstraintSpec `yaml:"constraints"`
}

// BodySpec describes one body. Shape is "box", "regular" or "polygon".
type BodySpec struct {
	Shape    string       `yaml:"shape"`
	Position [2]float64   `yaml:"position"`
	Size     [2]float64   `yaml:"size"`     // box
	Sides    int          `yaml:"sides"`    // regular
	Radius   float64      `yaml:"radius"`   // regular
	Vertices [][2]float64 `yaml:"vertices"` // polygon, may be concave
	Angle    float64      `yaml:"angle"`
	Velocity [2]float64   `yaml:"velocity"`
	Static   bool         `yaml:"static"`
	Sensor   bool         `yaml:"sensor"`

	// Material overrides; nil keeps the default.
	Mass        *float64 `yaml:"mass"`
	Restitution *float64 `yaml:"restitution"`
	Friction    *float64 `yaml:"friction"`
}

// ConstraintSpec connects two bodies by index into Bodies. BodyA of -1
// anchors AnchorA in world space. Anchors are world points at build time.
type ConstraintSpec struct {
	BodyA     int        `yaml:"body_a"`
	BodyB     int        `yaml:"body_b"`
	AnchorA   [2]float64 `yaml:"anchor_a"`
	AnchorB   [2]float64 `yaml:"anchor_b"`
	Stiffness float64    `yaml:"stiffness"` // zero keeps 1
	Damping   float64    `yaml:"damping"`
	Slack     bool       `yaml:"slack"`
}

// LoadFile reads a YAML scene.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile decodes a YAML scene.
func ParseFile(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}
	if f.Name == "" {
		f.Name = "file"
	}
	return f, nil
}

func toVec(p [2]float64) vec.Vector { return vec.New(p[0], p[1]) }

func (s BodySpec) vertices() ([]vec.Vector, error) {
	switch s.Shape {
	case "box", "":
		return physics.Rectangle(s.Size[0], s.Size[1]), nil
	case "regular":
		if s.Sides < 3 {
			return nil, fmt.Errorf("regular polygon needs at least 3 sides, got %d", s.Sides)
		}
		return physics.RegularPolygon(s.Sides, s.Radius), nil
	case "polygon":
		out := make([]vec.Vector, len(s.Vertices))
		for i, v := range s.Vertices {
			out[i] = toVec(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown shape %q", s.Shape)
	}
}

// Build adds the file's bodies and constraints to w. opts supplies the
// material for fields a body leaves unset.
func (f *File) Build(w *physics.World, opts physics.BodyOptions) error {
	bodies := make([]*physics.RigidBody, len(f.Bodies))
	for i, spec := range f.Bodies {
		verts, err := spec.vertices()
		if err != nil {
			return fmt.Errorf("scene %s: body %d: %w", f.Name, i, err)
		}
		o := opts
		o.Static = spec.Static
		o.Sensor = spec.Sensor
		if spec.Mass != nil {
			o.Mass = *spec.Mass
		}
		if spec.Restitution != nil {
			o.Restitution = *spec.Restitution
		}
		if spec.Friction != nil {
			o.Friction = *spec.Friction
		}
		b, err := add(w, verts, toVec(spec.Position), o)
		if err != nil {
			return fmt.Errorf("scene %s: body %d: %w", f.Name, i, err)
		}
		if spec.Angle != 0 {
			b.SetAngle(spec.Angle)
		}
		b.SetVelocity(toVec(spec.Velocity))
		bodies[i] = b
	}

	lookup := func(i int) (*physics.RigidBody, error) {
		if i < 0 || i >= len(bodies) {
			return nil, fmt.Errorf("body index %d out of range", i)
		}
		return bodies[i], nil
	}
	for i, spec := range f.Constraints {
		var a *physics.RigidBody
		if spec.BodyA != -1 {
			var err error
			if a, err = lookup(spec.BodyA); err != nil {
				return fmt.Errorf("scene %s: constraint %d: %w", f.Name, i, err)
			}
		}
		b, err := lookup(spec.BodyB)
		if err != nil {
			return fmt.Errorf("scene %s: constraint %d: %w", f.Name, i, err)
		}
		c := physics.NewDistanceConstraint(a, toVec(spec.AnchorA), b, toVec(spec.AnchorB))
		if spec.Stiffness != 0 {
			c.Stiffness = spec.Stiffness
		}
		c.Damping = spec.Damping
		c.Slack = spec.Slack
		if err := w.AddConstraint(c); err != nil {
			return fmt.Errorf("scene %s: constraint %d: %w", f.Name, i, err)
		}
	}
	return nil
}
