package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/vec"
)

// Mouse spring settings.
const (
	dragStiffness = 0.2
	dragDamping   = 0.1
)

// handleMouse selects bodies on left click and drags dynamic ones with a
// temporary world-anchored distance constraint.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	point := g.camera.ScreenToVec(mouse.X, mouse.Y)
	w := g.sim.World()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if g.controls.Contains(int32(mouse.X), int32(mouse.Y), g.overlays) {
			return
		}
		g.selected = pick(w, point)
		if g.selected != nil && !g.selected.IsStatic() {
			g.startDrag(w, point)
		}
	}

	if g.drag == nil {
		return
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		g.drag.PointA = point
		return
	}
	w.RemoveConstraint(g.drag)
	g.drag = nil
}

func (g *Game) startDrag(w *physics.World, point vec.Vector) {
	c := physics.NewDistanceConstraint(nil, point, g.selected, point)
	c.Stiffness = dragStiffness
	c.Damping = dragDamping
	if err := w.AddConstraint(c); err != nil {
		return
	}
	g.drag = c
}

// pick returns the topmost body under point, preferring dynamic bodies.
func pick(w *physics.World, point vec.Vector) *physics.RigidBody {
	var static *physics.RigidBody
	hits := w.QueryPoint(point)
	for i := len(hits) - 1; i >= 0; i-- {
		b := hits[i]
		if !b.IsStatic() {
			return b
		}
		if static == nil {
			static = b
		}
	}
	return static
}
