package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/renderer"
	"github.com/pthm-cable/rigid/vec"
)

func body(data any) *physics.RigidBody { return data.(*physics.RigidBody) }

func dynamicOnly(data any) bool { return !body(data).IsStatic() }

// bodySections describes the inspector readouts for a *physics.RigidBody.
var bodySections = []SectionDescriptor{
	{
		ID:    "motion",
		Title: "Motion",
		Fields: []FieldDescriptor{
			{ID: "position", Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
				p := body(d).Position()
				return fmt.Sprintf("%.1f, %.1f", p.X, p.Y)
			}},
			{ID: "angle", Label: "Angle", Widget: WidgetText, Format: "%.3f rad", Getter: func(d any) float32 {
				return float32(body(d).Angle())
			}},
			{ID: "velocity", Label: "Velocity", Widget: WidgetText, Visible: dynamicOnly, TextGetter: func(d any) string {
				v := body(d).Velocity()
				return fmt.Sprintf("%.1f, %.1f", v.X, v.Y)
			}},
			{ID: "speed", Label: "Speed", Widget: WidgetBar, Range: FieldRange{Min: 0, Max: 500}, Visible: dynamicOnly, Getter: func(d any) float32 {
				return float32(body(d).Velocity().Len())
			}},
			{ID: "spin", Label: "Spin", Widget: WidgetCenteredBar, Range: FieldRange{Min: -10, Max: 10}, Visible: dynamicOnly, Getter: func(d any) float32 {
				return float32(body(d).AngularVelocity())
			}},
			{ID: "energy", Label: "Energy", Widget: WidgetText, Format: "%.0f", Visible: dynamicOnly, Getter: func(d any) float32 {
				return float32(body(d).KineticEnergy())
			}},
		},
	},
	{
		ID:    "mass",
		Title: "Mass",
		Fields: []FieldDescriptor{
			{ID: "mass", Label: "Mass", Widget: WidgetText, TextGetter: func(d any) string {
				if body(d).IsStatic() {
					return "static"
				}
				return fmt.Sprintf("%.3f", body(d).Mass())
			}},
			{ID: "inertia", Label: "Inertia", Widget: WidgetText, Format: "%.1f", Visible: dynamicOnly, Getter: func(d any) float32 {
				return float32(body(d).Inertia())
			}},
			{ID: "area", Label: "Area", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 {
				return float32(body(d).Area())
			}},
			{ID: "parts", Label: "Parts", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%d convex", len(body(d).Shapes()))
			}},
		},
	},
	{
		ID:    "material",
		Title: "Material",
		Fields: []FieldDescriptor{
			{ID: "friction", Label: "Friction", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
				return float32(body(d).Friction)
			}},
			{ID: "restitution", Label: "Bounce", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
				return float32(body(d).Restitution)
			}},
			{ID: "air", Label: "Air", Widget: WidgetBar, Range: FieldRange{Min: 0, Max: 0.1}, Getter: func(d any) float32 {
				return float32(body(d).FrictionAir)
			}},
		},
	},
	{
		ID:    "collision",
		Title: "Collision",
		Fields: []FieldDescriptor{
			{ID: "flags", Label: "Flags", Widget: WidgetText, TextGetter: func(d any) string {
				b := body(d)
				switch {
				case !b.HasCollisions():
					return "disabled"
				case b.IsSensor():
					return "sensor"
				default:
					return "solid"
				}
			}},
			{ID: "filter", Label: "Layer/Mask", Widget: WidgetText, TextGetter: func(d any) string {
				f := body(d).Filter()
				return fmt.Sprintf("%#x / %#x", f.Layer, f.Mask)
			}},
			{ID: "pairs", Label: "Pairs", Widget: WidgetText, TextGetter: func(d any) string {
				b := body(d)
				if b.World() == nil {
					return "-"
				}
				n := 0
				for _, s := range b.Shapes() {
					n += len(b.World().PairsOf(s))
				}
				return fmt.Sprintf("%d", n)
			}},
		},
	},
}

// Inspector renders the selected body panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for b and returns the bottom edge.
func (ins *Inspector) Draw(b *physics.RigidBody) int32 {
	if b == nil {
		return ins.y
	}

	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2
	previewHeight := int32(100)

	height := padding*2 + previewHeight + 8 + r.Theme.LineHeight + 6 + r.Theme.SectionsHeight(bodySections, b)
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	y = ins.drawPreview(ins.x+padding, y, contentWidth, previewHeight, b)
	y += 8

	title := fmt.Sprintf("Body #%d", b.ID())
	if b.IsStatic() {
		title += " (static)"
	}
	rl.DrawText(title, ins.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 6

	for _, sd := range bodySections {
		y = r.DrawSection(ins.x+padding, y, sd, b, contentWidth)
	}
	return y
}

// drawPreview renders the body's convex parts in its local frame, scaled to
// fit the box.
func (ins *Inspector) drawPreview(x, y, width, height int32, b *physics.RigidBody) int32 {
	rl.DrawRectangle(x, y, width, height, rl.Color{R: 25, G: 30, B: 35, A: 255})
	rl.DrawRectangleLinesEx(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}, 1, rl.Color{R: 50, G: 60, B: 70, A: 255})

	pos, angle := b.Position(), b.Angle()
	local := func(v vec.Vector) vec.Vector { return v.Sub(pos).Rotate(-angle) }

	var extent float64
	for _, s := range b.Shapes() {
		for _, v := range s.Vertices() {
			l := local(v)
			extent = math.Max(extent, math.Max(math.Abs(l.X), math.Abs(l.Y)))
		}
	}
	if extent == 0 {
		return y + height
	}

	scale := float64(min(width, height)-16) / (2 * extent)
	cx := float64(x + width/2)
	cy := float64(y + height/2)
	toScreen := func(v vec.Vector) rl.Vector2 {
		l := local(v)
		return rl.Vector2{X: float32(cx + l.X*scale), Y: float32(cy - l.Y*scale)}
	}

	for i, s := range b.Shapes() {
		color := renderer.PartColor(i)
		verts := s.Vertices()
		for j := range verts {
			a := toScreen(verts[j])
			c := toScreen(verts[(j+1)%len(verts)])
			rl.DrawLineV(a, c, color)
		}
	}
	rl.DrawCircle(int32(cx), int32(cy), 3, rl.Yellow)

	return y + height
}
