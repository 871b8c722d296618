package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/camera"
	"github.com/pthm-cable/rigid/grid"
	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/vec"
)

var (
	colorContact    = rl.Color{R: 240, G: 80, B: 70, A: 255}
	colorSensorPair = rl.Color{R: 100, G: 210, B: 130, A: 255}
	colorNormal     = rl.Color{R: 250, G: 200, B: 80, A: 255}
	colorConstraint = rl.Color{R: 210, G: 210, B: 220, A: 255}
	colorSlack      = rl.Color{R: 130, G: 130, B: 140, A: 255}
)

// DrawPairs marks the contact points of every active pair, and optionally
// the pair normal scaled by depth.
func DrawPairs(w *physics.World, cam *camera.Camera, points, normals bool) {
	for _, p := range w.Pairs() {
		color := colorContact
		if p.Sensor {
			color = colorSensorPair
		}
		for _, c := range p.Contacts {
			if !cam.VisibleWorldBounds().Contains(c.Point) {
				continue
			}
			if points {
				sx, sy := cam.VecToScreen(c.Point)
				rl.DrawRectangle(int32(sx)-2, int32(sy)-2, 5, 5, color)
			}
			if normals {
				length := 10/float64(cam.Zoom) + p.Depth
				drawArrow(c.Point, p.Normal.Scale(length), cam, colorNormal)
			}
		}
	}
}

// DrawConstraints draws each distance constraint between its world anchors.
// Constraints at or under their slack length are drawn dimmer.
func DrawConstraints(w *physics.World, cam *camera.Camera) {
	for _, c := range w.Constraints() {
		a, b := c.WorldPoints()
		color := colorConstraint
		if c.Slack && c.CurrentLength() <= c.Length {
			color = colorSlack
		}
		ax, ay := cam.VecToScreen(a)
		bx, by := cam.VecToScreen(b)
		rl.DrawLineV(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, color)
		rl.DrawCircle(int32(ax), int32(ay), 2, color)
		rl.DrawCircle(int32(bx), int32(by), 2, color)
	}
}

// DrawGridCells shades the occupied cells of a broadphase grid. Busier cells
// are drawn more opaque.
func DrawGridCells(g *grid.Grid[*physics.CollisionShape], cam *camera.Camera, color rl.Color) {
	view := cam.VisibleWorldBounds()
	for _, cell := range g.Cells() {
		cb := g.CellBounds(cell)
		if !cb.Overlaps(view) {
			continue
		}
		n := len(g.Bucket(cell))
		fill := color
		fill.A = uint8(min(30*n, 150))
		x0, y0 := cam.VecToScreen(vec.New(cb.Min.X, cb.Max.Y))
		x1, y1 := cam.VecToScreen(vec.New(cb.Max.X, cb.Min.Y))
		rl.DrawRectangle(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), fill)
		drawBounds(cb, cam, color)
	}
}
