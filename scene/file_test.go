package scene

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/rigid/physics"
)

const bridgeYAML = `
name: bridge
bodies:
  - shape: box
    position: [0, -20]
    size: [600, 40]
    static: true
  - shape: regular
    position: [0, 100]
    sides: 6
    radius: 15
    velocity: [10, 0]
    mass: 2.5
  - shape: polygon
    position: [50, 200]
    vertices: [[0, 0], [30, 0], [30, 10], [10, 10], [10, 30], [0, 30]]
    friction: 0.8
constraints:
  - body_a: -1
    body_b: 1
    anchor_a: [0, 300]
    anchor_b: [0, 100]
    damping: 0.1
  - body_a: 1
    body_b: 2
    anchor_a: [0, 100]
    anchor_b: [50, 200]
    stiffness: 0.5
    slack: true
`

func TestParseAndBuildFile(t *testing.T) {
	f, err := ParseFile([]byte(bridgeYAML))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if f.Name != "bridge" {
		t.Errorf("name = %q, want bridge", f.Name)
	}

	w := newWorld(t)
	if err := f.Build(w, physics.DefaultBodyOptions()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	bodies := w.Bodies()
	if len(bodies) != 3 {
		t.Fatalf("bodies = %d, want 3", len(bodies))
	}
	if !bodies[0].IsStatic() {
		t.Error("floor should be static")
	}
	if math.Abs(bodies[1].Mass()-2.5) > 1e-9 {
		t.Errorf("mass = %v, want 2.5", bodies[1].Mass())
	}
	if v := bodies[1].Velocity(); math.Abs(v.X-10) > 1e-9 {
		t.Errorf("velocity = %v, want (10,0)", v)
	}
	if math.Abs(bodies[2].Friction-0.8) > 1e-9 {
		t.Errorf("friction = %v, want 0.8", bodies[2].Friction)
	}
	if len(bodies[2].Shapes()) < 2 {
		t.Errorf("concave polygon has %d shapes", len(bodies[2].Shapes()))
	}

	cs := w.Constraints()
	if len(cs) != 2 {
		t.Fatalf("constraints = %d, want 2", len(cs))
	}
	if cs[0].BodyA != nil {
		t.Error("body_a -1 should anchor to the world")
	}
	if math.Abs(cs[0].Length-200) > 1e-9 {
		t.Errorf("length = %v, want 200", cs[0].Length)
	}
	if cs[0].Stiffness != 1 || cs[0].Damping != 0.1 {
		t.Errorf("stiffness/damping = %v/%v", cs[0].Stiffness, cs[0].Damping)
	}
	if cs[1].Stiffness != 0.5 || !cs[1].Slack {
		t.Errorf("second constraint = %+v", cs[1])
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(bridgeYAML), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(f.Bodies) != 3 || len(f.Constraints) != 2 {
		t.Errorf("loaded %d bodies and %d constraints", len(f.Bodies), len(f.Constraints))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuildFileErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown shape",
			yaml: "bodies:\n  - shape: blob\n",
			want: "unknown shape",
		},
		{
			name: "too few sides",
			yaml: "bodies:\n  - shape: regular\n    sides: 2\n    radius: 5\n",
			want: "sides",
		},
		{
			name: "bad index",
			yaml: "bodies:\n  - size: [10, 10]\nconstraints:\n  - body_a: -1\n    body_b: 4\n",
			want: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFile([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseFile: %v", err)
			}
			err = f.Build(newWorld(t), physics.DefaultBodyOptions())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
