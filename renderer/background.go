// Package renderer draws the physics world through the camera with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/camera"
)

// BackgroundRenderer clears the screen and draws a world-space reference
// grid with the axes highlighted.
type BackgroundRenderer struct {
	Base    rl.Color
	Line    rl.Color
	Axis    rl.Color
	Spacing float64
}

// NewBackgroundRenderer creates a background with lines every spacing world
// units.
func NewBackgroundRenderer(spacing float64, baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		Base:    rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		Line:    rl.Color{R: baseR + 12, G: baseG + 12, B: baseB + 14, A: 255},
		Axis:    rl.Color{R: 70, G: 80, B: 95, A: 255},
		Spacing: spacing,
	}
}

// Draw renders the background.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(b.Base)
	if b.Spacing <= 0 {
		return
	}

	// Coarsen the grid until lines are at least 8px apart.
	spacing := b.Spacing
	for spacing*float64(cam.Zoom) < 8 {
		spacing *= 2
	}

	view := cam.VisibleWorldBounds()
	w, h := int32(cam.ViewportW), int32(cam.ViewportH)

	for x := math.Floor(view.Min.X/spacing) * spacing; x <= view.Max.X; x += spacing {
		sx, _ := cam.WorldToScreen(float32(x), 0)
		rl.DrawLine(int32(sx), 0, int32(sx), h, b.Line)
	}
	for y := math.Floor(view.Min.Y/spacing) * spacing; y <= view.Max.Y; y += spacing {
		_, sy := cam.WorldToScreen(0, float32(y))
		rl.DrawLine(0, int32(sy), w, int32(sy), b.Line)
	}

	ox, oy := cam.WorldToScreen(0, 0)
	rl.DrawLine(int32(ox), 0, int32(ox), h, b.Axis)
	rl.DrawLine(0, int32(oy), w, int32(oy), b.Axis)
}
