package telemetry

import (
	"math"

	"github.com/pthm-cable/rigid/physics"
)

// RestingSpeed is the speed below which a dynamic body counts as resting.
const RestingSpeed = 1.0

// Collector accumulates world events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	collisionStarts int
	collisionEnds   int
	bodyEnters      int
	bodyExits       int
	added           int
	removed         int

	world    *physics.World
	handlers []registration

	speeds []float64
}

type registration struct {
	kind physics.EventKind
	id   physics.HandlerID
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Attach subscribes the collector to a world's events, detaching from any
// previous world first.
func (c *Collector) Attach(w *physics.World) {
	c.Detach()
	c.world = w
	on := func(kind physics.EventKind, counter *int) {
		id := w.On(kind, func(physics.Event) { *counter++ })
		c.handlers = append(c.handlers, registration{kind, id})
	}
	on(physics.EventCollisionStart, &c.collisionStarts)
	on(physics.EventCollisionEnd, &c.collisionEnds)
	on(physics.EventBodyEnter, &c.bodyEnters)
	on(physics.EventBodyExit, &c.bodyExits)
	on(physics.EventAdd, &c.added)
	on(physics.EventDelete, &c.removed)
}

// Detach removes the collector's handlers.
func (c *Collector) Detach() {
	if c.world == nil {
		return
	}
	for _, r := range c.handlers {
		c.world.Off(r.kind, r.id)
	}
	c.handlers = c.handlers[:0]
	c.world = nil
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush samples the attached world, produces a WindowStats and resets the
// event counters for the next window.
func (c *Collector) Flush(currentTick int32) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		CollisionStarts: c.collisionStarts,
		CollisionEnds:   c.collisionEnds,
		BodyEnters:      c.bodyEnters,
		BodyExits:       c.bodyExits,
		Added:           c.added,
		Removed:         c.removed,
	}
	if c.world != nil {
		c.sample(&stats)
	}

	c.Reset(currentTick)
	return stats
}

// Reset discards the current window's counters and starts a new window at
// tick.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.collisionStarts = 0
	c.collisionEnds = 0
	c.bodyEnters = 0
	c.bodyExits = 0
	c.added = 0
	c.removed = 0
}

func (c *Collector) sample(s *WindowStats) {
	w := c.world
	c.speeds = c.speeds[:0]
	for _, b := range w.Bodies() {
		s.Bodies++
		if b.IsStatic() {
			s.Static++
			continue
		}
		s.Dynamic++
		s.KineticEnergy += b.KineticEnergy()
		speed := b.Velocity().Len()
		if speed < RestingSpeed {
			s.Resting++
		}
		c.speeds = append(c.speeds, speed)
	}
	s.SpeedMean, s.SpeedP50, s.SpeedP90, s.SpeedMax = ComputeSpeedStats(c.speeds)
	s.Constraints = len(w.Constraints())

	for _, p := range w.Pairs() {
		s.Pairs++
		if p.Sensor {
			s.SensorPairs++
			continue
		}
		s.Contacts += len(p.Contacts)
		s.MaxDepth = math.Max(s.MaxDepth, p.Depth)
	}
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
