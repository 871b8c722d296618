package game

import (
	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/renderer"
)

// hookWorld subscribes the impact markers to the current world's events,
// dropping subscriptions on any previous world.
func (g *Game) hookWorld() {
	w := g.sim.World()
	if g.hooked == w {
		return
	}
	g.unhookWorld()
	g.hooked = w

	on := func(kind physics.EventKind, fn physics.Handler) {
		g.handlers = append(g.handlers, hook{kind, w.On(kind, fn)})
	}
	on(physics.EventCollisionStart, g.onCollisionStart)
	on(physics.EventCollisionEnd, g.onCollisionEnd)
	on(physics.EventDelete, g.onDelete)
}

func (g *Game) unhookWorld() {
	if g.hooked == nil {
		return
	}
	for _, h := range g.handlers {
		g.hooked.Off(h.kind, h.id)
	}
	g.handlers = g.handlers[:0]
	g.hooked = nil
}

func (g *Game) onCollisionStart(ev physics.Event) {
	p := ev.Pair
	if p == nil {
		return
	}
	kind := renderer.ImpactContact
	if p.Sensor {
		kind = renderer.ImpactSensor
	}
	speed := 0.0
	for _, c := range p.Contacts {
		speed = max(speed, -c.RelativeVelocity)
	}
	for _, c := range p.Contacts {
		g.impactRenderer.Spawn(c.Point, kind, speed)
	}
}

func (g *Game) onCollisionEnd(ev physics.Event) {
	p := ev.Pair
	if p == nil || len(p.Contacts) == 0 {
		return
	}
	g.impactRenderer.Spawn(p.Contacts[0].Point, renderer.ImpactSeparate, 0)
}

// onDelete clears selection state pointing at a removed body.
func (g *Game) onDelete(ev physics.Event) {
	if ev.Body == nil {
		return
	}
	if g.selected == ev.Body {
		g.selected = nil
	}
	if g.drag != nil && g.drag.BodyB == ev.Body {
		g.drag = nil
	}
}
