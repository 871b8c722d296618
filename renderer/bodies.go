package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/camera"
	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/vec"
)

// BodyStyle selects the optional body decorations.
type BodyStyle struct {
	Wireframe  bool // outlines only
	Parts      bool // color each convex part
	Centroids  bool // centre of mass and heading
	Bounds     bool // shape bounding boxes
	Velocities bool // linear velocity vectors
}

var (
	colorStatic   = rl.Color{R: 90, G: 95, B: 105, A: 255}
	colorDynamic  = rl.Color{R: 80, G: 140, B: 210, A: 255}
	colorSensor   = rl.Color{R: 100, G: 210, B: 130, A: 70}
	colorSelected = rl.Yellow
	colorBounds   = rl.Color{R: 200, G: 120, B: 60, A: 160}
)

var partPalette = []rl.Color{
	{R: 120, G: 180, B: 240, A: 255},
	{R: 240, G: 160, B: 90, A: 255},
	{R: 130, G: 220, B: 130, A: 255},
	{R: 220, G: 120, B: 200, A: 255},
	{R: 230, G: 220, B: 110, A: 255},
	{R: 110, G: 220, B: 220, A: 255},
}

// PartColor returns a distinct color for the i-th convex part.
func PartColor(i int) rl.Color {
	return partPalette[i%len(partPalette)]
}

// BodyRenderer draws rigid bodies.
type BodyRenderer struct {
	points []rl.Vector2
}

// NewBodyRenderer creates a new body renderer.
func NewBodyRenderer() *BodyRenderer {
	return &BodyRenderer{}
}

// Draw renders every body of w that is on screen.
func (r *BodyRenderer) Draw(w *physics.World, cam *camera.Camera, style BodyStyle, selected *physics.RigidBody) {
	for _, b := range w.Bodies() {
		if !cam.IsVisible(b.Bounds()) {
			continue
		}
		r.drawBody(b, cam, style, b == selected)
	}
}

func (r *BodyRenderer) drawBody(b *physics.RigidBody, cam *camera.Camera, style BodyStyle, selected bool) {
	base := colorDynamic
	switch {
	case b.IsSensor():
		base = colorSensor
	case b.IsStatic():
		base = colorStatic
	}

	for i, s := range b.Shapes() {
		fill := base
		if style.Parts && len(b.Shapes()) > 1 {
			fill = PartColor(i)
		}
		r.project(s.Vertices(), cam)

		if !style.Wireframe {
			fill.A = min(fill.A, 200)
			rl.DrawTriangleFan(r.points, fill)
		}
		outline := rl.ColorBrightness(fill, 0.3)
		if selected {
			outline = colorSelected
		}
		r.outline(outline)

		if style.Bounds {
			drawBounds(s.Bounds(), cam, colorBounds)
		}
	}

	if style.Centroids {
		cx, cy := cam.VecToScreen(b.Position())
		rl.DrawCircle(int32(cx), int32(cy), 2.5, rl.White)
		heading := b.Position().Add(vec.New(1, 0).Rotate(b.Angle()).Scale(12 / float64(cam.Zoom)))
		hx, hy := cam.VecToScreen(heading)
		rl.DrawLine(int32(cx), int32(cy), int32(hx), int32(hy), rl.White)
	}

	if style.Velocities && !b.IsStatic() {
		drawArrow(b.Position(), b.Velocity().Scale(0.1), cam, rl.Color{R: 120, G: 230, B: 120, A: 255})
	}
}

// project converts world vertices into the reusable screen buffer. The
// winding stays counter-clockwise on screen since the camera flips y.
func (r *BodyRenderer) project(vertices []vec.Vector, cam *camera.Camera) {
	r.points = r.points[:0]
	for _, v := range vertices {
		sx, sy := cam.VecToScreen(v)
		r.points = append(r.points, rl.Vector2{X: sx, Y: sy})
	}
}

func (r *BodyRenderer) outline(color rl.Color) {
	n := len(r.points)
	for i := range r.points {
		rl.DrawLineV(r.points[i], r.points[(i+1)%n], color)
	}
}

func drawBounds(b vec.Bounds, cam *camera.Camera, color rl.Color) {
	x0, y0 := cam.VecToScreen(vec.New(b.Min.X, b.Max.Y))
	x1, y1 := cam.VecToScreen(vec.New(b.Max.X, b.Min.Y))
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), color)
}

func drawArrow(from, d vec.Vector, cam *camera.Camera, color rl.Color) {
	if d.LenSq() == 0 {
		return
	}
	to := from.Add(d)
	ax, ay := cam.VecToScreen(from)
	bx, by := cam.VecToScreen(to)
	rl.DrawLineV(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, color)

	head := d.Normalize().Scale(6 / float64(cam.Zoom))
	for _, side := range []float64{2.6, -2.6} {
		tip := to.Add(head.Rotate(side))
		tx, ty := cam.VecToScreen(tip)
		rl.DrawLineV(rl.Vector2{X: bx, Y: by}, rl.Vector2{X: tx, Y: ty}, color)
	}
}
