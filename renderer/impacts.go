package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/camera"
	"github.com/pthm-cable/rigid/vec"
)

// ImpactKind selects the color of an impact marker.
type ImpactKind uint8

const (
	ImpactContact ImpactKind = iota
	ImpactSensor
	ImpactSeparate
)

// Impact is a fading marker left where a collision started or ended.
type Impact struct {
	Point   vec.Vector
	Kind    ImpactKind
	Life    int
	MaxLife int
	Size    float32
}

// ImpactRenderer keeps and draws impact markers.
type ImpactRenderer struct {
	impacts []Impact
	life    int
	limit   int
}

// NewImpactRenderer creates a renderer whose markers last life frames. At
// most limit markers are kept; the oldest are dropped first.
func NewImpactRenderer(life, limit int) *ImpactRenderer {
	return &ImpactRenderer{life: life, limit: limit}
}

// Spawn adds a marker at point. Size grows with approach speed.
func (r *ImpactRenderer) Spawn(point vec.Vector, kind ImpactKind, speed float64) {
	if r.life <= 0 || r.limit <= 0 {
		return
	}
	if len(r.impacts) >= r.limit {
		r.impacts = append(r.impacts[:0], r.impacts[1:]...)
	}
	size := float32(3 + speed*0.02)
	if size > 12 {
		size = 12
	}
	r.impacts = append(r.impacts, Impact{
		Point:   point,
		Kind:    kind,
		Life:    r.life,
		MaxLife: r.life,
		Size:    size,
	})
}

// Update ages markers by one frame and drops expired ones.
func (r *ImpactRenderer) Update() {
	live := r.impacts[:0]
	for _, p := range r.impacts {
		p.Life--
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	r.impacts = live
}

// Len returns the number of live markers.
func (r *ImpactRenderer) Len() int {
	return len(r.impacts)
}

// Clear drops every marker.
func (r *ImpactRenderer) Clear() {
	r.impacts = r.impacts[:0]
}

// Draw renders all markers.
func (r *ImpactRenderer) Draw(cam *camera.Camera) {
	for i := range r.impacts {
		p := &r.impacts[i]

		lifeRatio := float32(p.Life) / float32(p.MaxLife)

		var color rl.Color
		switch p.Kind {
		case ImpactContact:
			// Orange
			color = rl.Color{R: 255, G: 150, B: 50, A: uint8(lifeRatio * 200)}
		case ImpactSensor:
			// Green
			color = rl.Color{R: 100, G: 220, B: 130, A: uint8(lifeRatio * 180)}
		case ImpactSeparate:
			// Grey
			color = rl.Color{R: 150, G: 150, B: 160, A: uint8(lifeRatio * 120)}
		}

		size := p.Size * (2 - lifeRatio)
		sx, sy := cam.VecToScreen(p.Point)
		rl.DrawCircleLines(int32(sx), int32(sy), size, color)
	}
}
