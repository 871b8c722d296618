// Package camera provides a 2D camera for viewing a y-up physics world on a
// y-down screen.
package camera

import (
	"github.com/pthm-cable/rigid/vec"
)

// Camera controls the viewport into the simulation world.
// Supports pan and zoom; world y grows upward, screen y grows downward.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1 pixel per world unit)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Home position restored by Reset
	HomeX, HomeY, HomeZoom float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera looking at (x, y) with the given zoom.
func New(viewportW, viewportH, x, y, zoom float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		HomeX:     x,
		HomeY:     y,
		HomeZoom:  zoom,
		MinZoom:   0.05,
		MaxZoom:   8.0,
	}
	c.Reset()
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 - (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y - (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// ScreenToVec is ScreenToWorld returning a physics vector.
func (c *Camera) ScreenToVec(sx, sy float32) vec.Vector {
	wx, wy := c.ScreenToWorld(sx, sy)
	return vec.New(float64(wx), float64(wy))
}

// VecToScreen is WorldToScreen for a physics vector.
func (c *Camera) VecToScreen(v vec.Vector) (sx, sy float32) {
	return c.WorldToScreen(float32(v.X), float32(v.Y))
}

// IsVisible reports whether world bounds b overlap the visible area.
func (c *Camera) IsVisible(b vec.Bounds) bool {
	return c.VisibleWorldBounds().Overlaps(b)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the view by a screen-space drag of (dx, dy) pixels. The world
// follows the cursor.
func (c *Camera) Pan(dx, dy float32) {
	c.X -= dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the world point under (sx, sy) fixed.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
}

// Reset returns the camera to its home position and zoom.
func (c *Camera) Reset() {
	c.X = c.HomeX
	c.Y = c.HomeY
	c.SetZoom(c.HomeZoom)
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() vec.Bounds {
	halfW := float64(c.ViewportW / (2 * c.Zoom))
	halfH := float64(c.ViewportH / (2 * c.Zoom))
	x, y := float64(c.X), float64(c.Y)
	return vec.Bounds{
		Min: vec.New(x-halfW, y-halfH),
		Max: vec.New(x+halfW, y+halfH),
	}
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
