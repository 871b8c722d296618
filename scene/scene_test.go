package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/vec"
)

func newWorld(t *testing.T) *physics.World {
	t.Helper()
	w, err := physics.NewWorld(physics.DefaultWorldConfig())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func testParams(count int) Params {
	return Params{Count: count, Seed: 1, Body: physics.DefaultBodyOptions()}
}

func TestBuildScenes(t *testing.T) {
	tests := []struct {
		name        string
		bodies      int
		constraints int
	}{
		{"ground", 1, 0},
		{"stack", 4, 0},
		{"pyramid", 7, 0},
		{"rain", 6, 0},
		{"concave", 4, 0},
		{"pendulum", 4, 3},
		{"sensor", 5, 0},
	}
	if len(tests) != len(Names()) {
		t.Fatalf("registry has %d scenes, table has %d", len(Names()), len(tests))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			if err := Build(w, tt.name, testParams(3)); err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got := len(w.Bodies()); got != tt.bodies {
				t.Errorf("bodies = %d, want %d", got, tt.bodies)
			}
			if got := len(w.Constraints()); got != tt.constraints {
				t.Errorf("constraints = %d, want %d", got, tt.constraints)
			}
			if Describe(tt.name) == "" {
				t.Error("missing description")
			}
		})
	}
}

func TestBuildUnknown(t *testing.T) {
	err := Build(newWorld(t), "nope", testParams(1))
	if !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("err = %v, want ErrUnknownScene", err)
	}
}

func TestBuildClampsCount(t *testing.T) {
	w := newWorld(t)
	if err := Build(w, "stack", testParams(0)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := len(w.Bodies()); got != 2 {
		t.Errorf("bodies = %d, want floor plus one box", got)
	}
}

func TestNext(t *testing.T) {
	names := Names()
	for i, n := range names {
		want := names[(i+1)%len(names)]
		if got := Next(n); got != want {
			t.Errorf("Next(%q) = %q, want %q", n, got, want)
		}
	}
	if got := Next("unknown"); got != names[0] {
		t.Errorf("Next(unknown) = %q, want %q", got, names[0])
	}
}

func TestRainDeterministic(t *testing.T) {
	build := func() []vec.Vector {
		w := newWorld(t)
		if err := Build(w, "rain", testParams(10)); err != nil {
			t.Fatalf("Build: %v", err)
		}
		var out []vec.Vector
		for _, b := range w.Bodies() {
			out = append(out, b.Position())
		}
		return out
	}
	a, b := build(), build()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("body %d at %v then %v", i, a[i], b[i])
		}
	}
}

func TestConcaveScene(t *testing.T) {
	w := newWorld(t)
	if err := Build(w, "concave", testParams(3)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, b := range w.Bodies() {
		if b.IsStatic() {
			continue
		}
		if len(b.Shapes()) < 2 {
			t.Errorf("body %d has %d shapes, want a decomposition", b.ID(), len(b.Shapes()))
		}
	}
}

func TestPendulumAnchoredToWorld(t *testing.T) {
	w := newWorld(t)
	if err := Build(w, "pendulum", testParams(3)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	cs := w.Constraints()
	if cs[0].BodyA != nil {
		t.Error("first link should hang from a world anchor")
	}
	for i, c := range cs {
		if math.Abs(c.CurrentLength()-c.Length) > 1e-9 {
			t.Errorf("constraint %d starts stretched: %v vs %v", i, c.CurrentLength(), c.Length)
		}
		if i > 0 && c.BodyA != cs[i-1].BodyB {
			t.Errorf("constraint %d does not continue the chain", i)
		}
	}
}

func TestSensorScene(t *testing.T) {
	w := newWorld(t)
	if err := Build(w, "sensor", testParams(2)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	sensors := 0
	for _, b := range w.Bodies() {
		if b.IsSensor() {
			sensors++
		}
	}
	if sensors != 1 {
		t.Errorf("sensors = %d, want 1", sensors)
	}
}
