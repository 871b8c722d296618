package physics

import (
	"testing"

	"github.com/pthm-cable/rigid/vec"
)

func newTestWorld(t *testing.T, gravity vec.Vector) (*World, *Engine) {
	t.Helper()
	cfg := DefaultWorldConfig()
	cfg.Gravity = gravity
	w, err := NewWorld(cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	e, err := NewEngine(w, DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return w, e
}

func addBox(t *testing.T, w *World, pos vec.Vector, size float64, mutate func(*BodyOptions)) *RigidBody {
	t.Helper()
	opts := DefaultBodyOptions()
	if mutate != nil {
		mutate(&opts)
	}
	b, err := NewRectangle(pos, size, size, opts)
	if err != nil {
		t.Fatalf("NewRectangle: %v", err)
	}
	if err := w.Add(b); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return b
}

func step(t *testing.T, e *Engine, n int) {
	t.Helper()
	for range n {
		if err := e.Update(1.0 / 60); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
}
