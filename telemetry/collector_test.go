package telemetry

import (
	"testing"

	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/vec"
)

func TestCollectorWindowTicks(t *testing.T) {
	c := NewCollector(1.0, 1.0/60)
	if got := c.WindowDurationTicks(); got != 60 && got != 59 {
		t.Errorf("ticks per window = %d, want ~60", got)
	}
	if c.ShouldFlush(c.WindowDurationTicks() - 1) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(c.WindowDurationTicks()) {
		t.Error("should flush at the window end")
	}

	if got := NewCollector(0, 1.0/60).WindowDurationTicks(); got != 1 {
		t.Errorf("zero window = %d ticks, want 1", got)
	}
}

func TestCollectorCountsEvents(t *testing.T) {
	w := buildScene(t)
	engine, err := physics.NewEngine(w, physics.DefaultEngineConfig())
	if err != nil {
		t.Fatal(err)
	}

	c := NewCollector(1.0, 1.0/60)
	c.Attach(w)

	extra, err := physics.NewRectangle(vec.New(-100, 100), 10, 10, physics.DefaultBodyOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Add(extra); err != nil {
		t.Fatal(err)
	}

	for range 120 {
		if err := engine.Update(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Remove(extra); err != nil {
		t.Fatal(err)
	}

	stats := c.Flush(120)
	if stats.Added != 1 || stats.Removed != 1 {
		t.Errorf("added/removed = %d/%d, want 1/1", stats.Added, stats.Removed)
	}
	if stats.CollisionStarts == 0 {
		t.Error("falling boxes should start collisions")
	}
	if stats.Bodies != 3 || stats.Static != 1 || stats.Dynamic != 2 {
		t.Errorf("bodies/static/dynamic = %d/%d/%d, want 3/1/2", stats.Bodies, stats.Static, stats.Dynamic)
	}
	if stats.Pairs != w.PairCount() {
		t.Errorf("pairs = %d, want %d", stats.Pairs, w.PairCount())
	}
	if stats.Pairs > 0 && stats.Contacts == 0 {
		t.Error("touching pairs should report contacts")
	}
	if stats.SimTimeSec <= 1.99 || stats.SimTimeSec >= 2.01 {
		t.Errorf("sim time = %v, want 2", stats.SimTimeSec)
	}

	// Counters reset after a flush.
	next := c.Flush(121)
	if next.Added != 0 || next.CollisionStarts != 0 || next.WindowStartTick != 120 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestCollectorDetach(t *testing.T) {
	w := buildScene(t)
	c := NewCollector(1.0, 1.0/60)
	c.Attach(w)
	c.Detach()

	b, err := physics.NewRectangle(vec.New(300, 300), 10, 10, physics.DefaultBodyOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Add(b); err != nil {
		t.Fatal(err)
	}

	stats := c.Flush(1)
	if stats.Added != 0 {
		t.Errorf("detached collector counted %d adds", stats.Added)
	}
	if stats.Bodies != 0 {
		t.Errorf("detached collector sampled %d bodies", stats.Bodies)
	}
	if w.Listening(physics.EventAdd) {
		t.Error("world still has add handlers")
	}
}
