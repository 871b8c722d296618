package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/physics"
)

// ControlAction is a button press reported by the controls panel.
type ControlAction int

const (
	ActionNone ControlAction = iota
	ActionPause
	ActionStep
	ActionReset
	ActionNextScene
)

// ControlsState is the live state the panel edits.
type ControlsState struct {
	Paused bool
	Scene  string
	Engine physics.EngineConfig
}

// slider binds a raygui slider to one solver parameter.
type slider struct {
	label    string
	min, max float32
	integer  bool
	get      func(*physics.EngineConfig) float32
	set      func(*physics.EngineConfig, float32)
}

var solverSliders = []slider{
	{"Substeps", 1, 16, true,
		func(c *physics.EngineConfig) float32 { return float32(c.Substeps) },
		func(c *physics.EngineConfig, v float32) { c.Substeps = int(v) }},
	{"Velocity iters", 1, 16, true,
		func(c *physics.EngineConfig) float32 { return float32(c.VelocityIterations) },
		func(c *physics.EngineConfig, v float32) { c.VelocityIterations = int(v) }},
	{"Position iters", 1, 16, true,
		func(c *physics.EngineConfig) float32 { return float32(c.PositionIterations) },
		func(c *physics.EngineConfig, v float32) { c.PositionIterations = int(v) }},
	{"Constraint iters", 1, 16, true,
		func(c *physics.EngineConfig) float32 { return float32(c.ConstraintIterations) },
		func(c *physics.EngineConfig, v float32) { c.ConstraintIterations = int(v) }},
	{"Contact hertz", 1, 120, false,
		func(c *physics.EngineConfig) float32 { return float32(c.ContactHertz) },
		func(c *physics.EngineConfig, v float32) { c.ContactHertz = float64(v) }},
	{"Damping ratio", 0, 20, false,
		func(c *physics.EngineConfig) float32 { return float32(c.ContactDampingRatio) },
		func(c *physics.EngineConfig, v float32) { c.ContactDampingRatio = float64(v) }},
	{"Correction", 0, 1, false,
		func(c *physics.EngineConfig) float32 { return float32(c.PositionCorrection) },
		func(c *physics.EngineConfig, v float32) { c.PositionCorrection = float64(v) }},
}

// ControlsPanel renders the left-side panel with overlay toggles, solver
// sliders and simulation buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
	styled   bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies over the visible panel.
func (c *ControlsPanel) Contains(x, y int32, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	return x >= c.x && x < c.x+c.width && y >= c.y && y < c.y+c.height(overlays)
}

// applyStyle matches raygui's colors to the panel theme.
func (c *ControlsPanel) applyStyle() {
	t := c.renderer.Theme
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(t.PanelBg))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(t.BarBg))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(t.BarFill))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(t.PanelBorder))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(t.LabelColor))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 12)
	c.styled = true
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	items := int32(0)
	for _, cat := range overlays.Categories() {
		items += int32(len(overlays.ByCategory(cat))) + 1
	}
	overlayH := items*t.LineHeight + int32(len(overlays.Categories()))*4
	sliderH := int32(len(solverSliders)) * 34
	return t.Padding*3 + 2*(t.LineHeight+4) + overlayH + sliderH + 2*30 + t.LineHeight
}

// Draw renders the panel, writing slider changes into state. It returns the
// button pressed this frame and whether the solver config changed.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, state *ControlsState) (ControlAction, bool) {
	if !c.visible {
		return ActionNone, false
	}
	if !c.styled {
		c.applyStyle()
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := c.width - padding*2

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := c.x + padding
	y := c.y + padding

	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(x, y, desc, overlays.IsEnabled(desc.ID), inner)
			y += lineHeight
		}
		y += 4
	}

	y += padding
	rl.DrawText("Solver", x, y, 16, rl.White)
	y += lineHeight + 4

	changed := false
	for _, s := range solverSliders {
		cur := s.get(&state.Engine)
		text := fmt.Sprintf("%s: %.2f", s.label, cur)
		if s.integer {
			text = fmt.Sprintf("%s: %d", s.label, int(cur))
		}
		rl.DrawText(text, x, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += 14

		v := gui.SliderBar(
			rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: 14},
			"", "",
			cur, s.min, s.max,
		)
		if s.integer {
			v = float32(math.Round(float64(v)))
		}
		if v != cur {
			s.set(&state.Engine, v)
			changed = true
		}
		y += 20
	}

	action := ActionNone
	half := float32(inner-6) / 2
	pause := "Pause"
	if state.Paused {
		pause = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 24}, pause) {
		action = ActionPause
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 6, Y: float32(y), Width: half, Height: 24}, "Step") {
		action = ActionStep
	}
	y += 30
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 24}, "Reset") {
		action = ActionReset
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 6, Y: float32(y), Width: half, Height: 24}, "Next Scene") {
		action = ActionNextScene
	}
	y += 30
	rl.DrawText("Scene: "+state.Scene, x, y, r.Theme.FontSize, r.Theme.ValueColor)

	return action, changed
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "shapes":
		return "Shapes"
	case "contacts":
		return "Contacts"
	case "broadphase":
		return "Broadphase"
	default:
		return cat
	}
}
