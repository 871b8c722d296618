package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/rigid/vec"
)

func TestNewEngineValidates(t *testing.T) {
	w, err := NewWorld(DefaultWorldConfig())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"zero substeps", func(c *EngineConfig) { c.Substeps = 0 }},
		{"zero velocity iterations", func(c *EngineConfig) { c.VelocityIterations = 0 }},
		{"zero position iterations", func(c *EngineConfig) { c.PositionIterations = 0 }},
		{"zero constraint iterations", func(c *EngineConfig) { c.ConstraintIterations = 0 }},
		{"zero hertz", func(c *EngineConfig) { c.ContactHertz = 0 }},
		{"nan zeta", func(c *EngineConfig) { c.ContactDampingRatio = math.NaN() }},
		{"correction above one", func(c *EngineConfig) { c.PositionCorrection = 1.5 }},
		{"negative slop", func(c *EngineConfig) { c.PositionSlop = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tt.mutate(&cfg)
			if _, err := NewEngine(w, cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestWorldConfigValidate(t *testing.T) {
	cfg := DefaultWorldConfig()
	cfg.GridSize = 0
	if _, err := NewWorld(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("grid size 0: err = %v", err)
	}
	cfg = DefaultWorldConfig()
	cfg.Gravity = vec.New(math.NaN(), 0)
	if _, err := NewWorld(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NaN gravity: err = %v", err)
	}
}

func TestUpdateIgnoresBadDt(t *testing.T) {
	w, e := newTestWorld(t, vec.New(0, -500))
	b := addBox(t, w, vec.Zero, 10, nil)
	for _, dt := range []float64{math.NaN(), 0, -1, math.Inf(1)} {
		if err := e.Update(dt); err != nil {
			t.Fatalf("Update(%v): %v", dt, err)
		}
	}
	if b.Position() != vec.Zero || e.Frame() != 0 {
		t.Errorf("bad dt advanced the simulation: %v frame %d", b.Position(), e.Frame())
	}
}

func TestHeadOnMomentumExchange(t *testing.T) {
	w, e := newTestWorld(t, vec.Zero)
	cfg := e.Config()
	cfg.VelocityIterations = 10
	if err := e.SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	elastic := func(o *BodyOptions) {
		o.Restitution = 1
		o.Friction = 0
		o.FrictionAir = 0
		o.FrictionAngular = 0
	}
	a := addBox(t, w, vec.New(-20, 0), 10, elastic)
	b := addBox(t, w, vec.New(20, 0), 10, elastic)
	const v = 50.0
	a.SetVelocity(vec.New(v, 0))
	b.SetVelocity(vec.New(-v, 0))

	momentum := func() vec.Vector {
		return a.Velocity().Scale(a.Mass()).Add(b.Velocity().Scale(b.Mass()))
	}
	p0 := momentum()

	collided := false
	w.On(EventCollisionStart, func(Event) { collided = true })
	for range 60 {
		step(t, e, 1)
		if d := momentum().Sub(p0).Len(); d > 1e-9 {
			t.Fatalf("momentum drifted by %v", d)
		}
	}
	if !collided {
		t.Fatal("bodies never collided")
	}
	if got := a.Velocity().X; math.Abs(got+v) > 0.05*v {
		t.Errorf("a velocity = %v, want %v", got, -v)
	}
	if got := b.Velocity().X; math.Abs(got-v) > 0.05*v {
		t.Errorf("b velocity = %v, want %v", got, v)
	}
	if math.Abs(a.Velocity().Y) > 0.05*v || math.Abs(b.Velocity().Y) > 0.05*v {
		t.Errorf("unexpected vertical velocity %v %v", a.Velocity(), b.Velocity())
	}
}

func TestPairLifecycleEvents(t *testing.T) {
	w, e := newTestWorld(t, vec.Zero)
	addBox(t, w, vec.Zero, 10, func(o *BodyOptions) {
		o.Static = true
		o.Sensor = true
	})
	mover := addBox(t, w, vec.New(-50, 0), 10, func(o *BodyOptions) { o.FrictionAir = 0 })
	mover.SetVelocity(vec.New(100, 0))

	var starts, ends, enters, exits []uint64
	var actives, insides []uint64
	w.On(EventCollisionStart, func(ev Event) { starts = append(starts, ev.Frame) })
	w.On(EventCollisionActive, func(ev Event) { actives = append(actives, ev.Frame) })
	w.On(EventCollisionEnd, func(ev Event) { ends = append(ends, ev.Frame) })
	w.On(EventBodyEnter, func(ev Event) { enters = append(enters, ev.Frame) })
	w.On(EventBodyInside, func(ev Event) { insides = append(insides, ev.Frame) })
	w.On(EventBodyExit, func(ev Event) { exits = append(exits, ev.Frame) })

	shapeStarts := 0
	mover.Shapes()[0].On(EventCollisionStart, func(ev Event) {
		if ev.Shape != mover.Shapes()[0] || ev.Body != mover {
			t.Errorf("shape event has wrong receiver side")
		}
		shapeStarts++
	})

	step(t, e, 60)

	if len(starts) != 1 || len(ends) != 1 {
		t.Fatalf("starts = %d, ends = %d, want 1 each", len(starts), len(ends))
	}
	if shapeStarts != 1 {
		t.Errorf("shape starts = %d, want 1", shapeStarts)
	}
	if len(actives) < 10 {
		t.Fatalf("actives = %d, want a long overlap", len(actives))
	}
	for i, f := range actives {
		if f != starts[0]+uint64(i)+1 {
			t.Fatalf("active %d fired in frame %d, want %d", i, f, starts[0]+uint64(i)+1)
		}
	}
	if last := actives[len(actives)-1]; ends[0] != last+1 {
		t.Errorf("end fired in frame %d, want %d", ends[0], last+1)
	}
	if len(enters) != 1 || len(exits) != 1 || len(insides) != len(actives) {
		t.Errorf("body events enter=%d inside=%d exit=%d, actives=%d", len(enters), len(insides), len(exits), len(actives))
	}
	if w.PairCount() != 0 {
		t.Errorf("pairs left = %d", w.PairCount())
	}
	// A sensor never pushes.
	if math.Abs(mover.Velocity().X-100) > 1e-9 {
		t.Errorf("sensor changed velocity to %v", mover.Velocity())
	}
}

func TestRestingContactSettles(t *testing.T) {
	w, e := newTestWorld(t, vec.New(0, -500))
	ground, err := NewRectangle(vec.New(0, -10), 400, 20, func() BodyOptions {
		o := DefaultBodyOptions()
		o.Static = true
		return o
	}())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Add(ground); err != nil {
		t.Fatal(err)
	}
	box := addBox(t, w, vec.New(0, 105), 10, func(o *BodyOptions) { o.Restitution = 0.2 })

	var peaks []float64
	landed := false
	prevY, prevVy := box.Position().Y, box.Velocity().Y
	for range 600 {
		step(t, e, 1)
		y, vy := box.Position().Y, box.Velocity().Y
		if !landed && w.PairCount() > 0 {
			landed = true
		}
		if landed && prevVy > 0 && vy <= 0 {
			peaks = append(peaks, prevY)
		}
		prevY, prevVy = y, vy
	}

	if !landed {
		t.Fatal("box never touched the ground")
	}
	for i := 1; i < len(peaks); i++ {
		if peaks[i] > peaks[i-1]+0.5 {
			t.Errorf("bounce %d peak %v above previous %v", i, peaks[i], peaks[i-1])
		}
	}
	if len(peaks) > 0 && peaks[0] > 20 {
		t.Errorf("first bounce reached %v, too high for restitution 0.2", peaks[0])
	}
	if vy := box.Velocity().Y; math.Abs(vy) > 5 {
		t.Errorf("final vertical velocity = %v", vy)
	}
	if y := box.Position().Y; math.Abs(y-5) > 1.5 {
		t.Errorf("resting height = %v, want about 5", y)
	}
	if a := box.Angle(); math.Abs(a) > 0.05 {
		t.Errorf("box tipped to angle %v", a)
	}
}

func TestBoxStackStaysUpright(t *testing.T) {
	w, e := newTestWorld(t, vec.New(0, -500))
	ground, err := NewRectangle(vec.New(0, -20), 1200, 40, func() BodyOptions {
		o := DefaultBodyOptions()
		o.Static = true
		return o
	}())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Add(ground); err != nil {
		t.Fatal(err)
	}
	const size = 30.0
	var boxes []*RigidBody
	for i := range 5 {
		boxes = append(boxes, addBox(t, w, vec.New(0, size/2+float64(i)*size), size, nil))
	}

	for tick := range 600 {
		step(t, e, 1)
		for i, b := range boxes {
			if a := math.Abs(b.Angle()); a > 0.2 {
				t.Fatalf("tick %d: box %d tipped to angle %v", tick, i, b.Angle())
			}
		}
	}
	for i, b := range boxes {
		want := size/2 + float64(i)*size
		if got := b.Position(); math.Abs(got.X) > 8 || math.Abs(got.Y-want) > 5 {
			t.Errorf("box %d at %v, want about (0, %v)", i, got, want)
		}
	}
}

func TestContactImpulsesCarryOver(t *testing.T) {
	w, e := newTestWorld(t, vec.New(0, -500))
	ground, err := NewRectangle(vec.New(0, -10), 400, 20, func() BodyOptions {
		o := DefaultBodyOptions()
		o.Static = true
		return o
	}())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Add(ground); err != nil {
		t.Fatal(err)
	}
	addBox(t, w, vec.New(0, 5), 10, nil)
	step(t, e, 60)

	pairs := w.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	p := pairs[0]
	if len(p.Contacts) != 2 {
		t.Fatalf("contacts = %d, want 2", len(p.Contacts))
	}
	before := []float64{p.Contacts[0].NormalImpulse, p.Contacts[1].NormalImpulse}
	if err := fillManifold(p); err != nil {
		t.Fatal(err)
	}
	for i, c := range p.Contacts {
		if c.NormalImpulse <= 0 {
			t.Errorf("contact %d impulse %v not carried over", i, c.NormalImpulse)
		}
		if math.Abs(c.NormalImpulse-before[i]) > 1e-12 {
			t.Errorf("contact %d impulse = %v, want %v", i, c.NormalImpulse, before[i])
		}
	}
	// Resting corners share the weight evenly.
	if d := math.Abs(before[0] - before[1]); d > 0.1*(before[0]+before[1]) {
		t.Errorf("uneven corner impulses %v", before)
	}
}

func TestSpeculativeContact(t *testing.T) {
	w, e := newTestWorld(t, vec.Zero)
	cfg := e.Config()
	cfg.Substeps = 1
	cfg.MarginThreshold = -2
	if err := e.SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	addBox(t, w, vec.Zero, 10, func(o *BodyOptions) { o.Static = true })
	mover := addBox(t, w, vec.New(11, 0), 10, func(o *BodyOptions) {
		o.FrictionAir = 0
		o.Restitution = 0
	})
	mover.SetVelocity(vec.New(-120, 0))

	// One 1/240 step closes half of the unit gap; the rest is speculative.
	if err := e.Update(1.0 / 240); err != nil {
		t.Fatal(err)
	}
	pairs := w.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want a speculative pair", len(pairs))
	}
	if d := pairs[0].Contacts[0].Depth; math.Abs(d+0.5) > 1e-6 {
		t.Errorf("contact depth = %v, want -0.5", d)
	}
	// The gap is exactly closed next step, so nothing pushes yet.
	if vx := mover.Velocity().X; math.Abs(vx+120) > 1e-6 {
		t.Errorf("velocity = %v, want -120 untouched across the gap", vx)
	}

	// Too fast for the gap: the approach is cut to what closes it in one
	// step. 13.5 - 480/240 leaves the face 1.5 from the wall.
	mover.SetPosition(vec.New(13.5, 0))
	mover.SetVelocity(vec.New(-480, 0))
	if err := e.Update(1.0 / 240); err != nil {
		t.Fatal(err)
	}
	if vx := mover.Velocity().X; math.Abs(vx+360) > 1e-6 {
		t.Errorf("velocity = %v, want -360", vx)
	}
}

type phaseRecorder struct {
	phases []string
}

func (r *phaseRecorder) StartPhase(name string) {
	r.phases = append(r.phases, name)
}

func TestProfilerPhases(t *testing.T) {
	w, e := newTestWorld(t, vec.Zero)
	cfg := e.Config()
	cfg.Substeps = 2
	if err := e.SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	addBox(t, w, vec.Zero, 10, nil)
	rec := &phaseRecorder{}
	e.SetProfiler(rec)
	step(t, e, 1)

	order := []string{
		PhaseIntegrate, PhaseBroadphase, PhaseNarrowphase, PhasePrepare,
		PhaseVelocity, PhasePosition, PhaseConstraints, PhaseCleanse,
	}
	if len(rec.phases) != 2*len(order) {
		t.Fatalf("phases = %v", rec.phases)
	}
	for i, name := range rec.phases {
		if name != order[i%len(order)] {
			t.Errorf("phase %d = %s, want %s", i, name, order[i%len(order)])
		}
	}
}

func TestEngineUpdateEvents(t *testing.T) {
	_, e := newTestWorld(t, vec.Zero)
	before, during := 0, 0
	e.On(EventBeforeUpdate, func(Event) { before++ })
	e.On(EventDuringUpdate, func(Event) { during++ })
	step(t, e, 3)
	if before != 3 || during != 3*e.Config().Substeps {
		t.Errorf("before=%d during=%d", before, during)
	}
}

func TestContactErrorWraps(t *testing.T) {
	var err error = &ContactError{BodyA: 3, BodyB: 9, Err: ErrNoContactNormal}
	if !errors.Is(err, ErrNoContactNormal) {
		t.Error("errors.Is failed")
	}
	var ce *ContactError
	if !errors.As(err, &ce) || ce.BodyA != 3 || ce.BodyB != 9 {
		t.Errorf("errors.As = %+v", ce)
	}
	if err.Error() != "contact between body 3 and body 9: no contact normal for overlapping shapes" {
		t.Errorf("message = %q", err.Error())
	}
}
