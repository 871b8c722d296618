package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/renderer"
	"github.com/pthm-cable/rigid/ui"
)

const controlsLegend = "SPACE pause  S step  ,/. speed  R reset  TAB scene  F1 panel  F2 perf  F5 snapshot  drag to pull"

var (
	colorDynamicGrid = rl.Color{R: 80, G: 140, B: 210, A: 200}
	colorStaticGrid  = rl.Color{R: 200, G: 120, B: 60, A: 200}
)

// Draw renders the world and the UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	w := g.sim.World()
	cam := g.camera
	on := g.overlays.IsEnabled

	g.background.Draw(cam)

	if on(ui.OverlayStaticGrid) {
		renderer.DrawGridCells(w.StaticGrid(), cam, colorStaticGrid)
	}
	if on(ui.OverlayGrid) {
		renderer.DrawGridCells(w.DynamicGrid(), cam, colorDynamicGrid)
	}

	g.bodyRenderer.Draw(w, cam, renderer.BodyStyle{
		Wireframe:  on(ui.OverlayWireframe),
		Parts:      on(ui.OverlayParts),
		Centroids:  on(ui.OverlayCentroids),
		Bounds:     on(ui.OverlayBounds),
		Velocities: on(ui.OverlayVelocities),
	}, g.selected)

	if on(ui.OverlayConstraints) {
		renderer.DrawConstraints(w, cam)
	}
	if on(ui.OverlayContacts) || on(ui.OverlayNormals) {
		renderer.DrawPairs(w, cam, on(ui.OverlayContacts), on(ui.OverlayNormals))
	}
	g.impactRenderer.Draw(cam)

	g.drawUI()
}

func (g *Game) drawUI() {
	w := g.sim.World()

	data := ui.HUDData{
		Title:       Title,
		Scene:       g.sim.Scene(),
		Constraints: len(w.Constraints()),
		Pairs:       w.PairCount(),
		Tick:        g.sim.Tick(),
		Speed:       g.stepsPerUpdate,
		FPS:         rl.GetFPS(),
		Paused:      g.paused,
	}
	for _, b := range w.Bodies() {
		data.Bodies++
		if b.IsStatic() {
			data.Static++
		}
	}
	for _, p := range w.Pairs() {
		data.Contacts += len(p.Contacts)
	}
	g.hud.Draw(data)
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	state := ui.ControlsState{
		Paused: g.paused,
		Scene:  g.sim.Scene(),
		Engine: g.sim.Engine().Config(),
	}
	action, changed := g.controls.Draw(g.overlays, &state)
	if changed {
		if err := g.sim.SetEngineConfig(state.Engine); err != nil {
			slog.Warn("solver settings rejected", "error", err)
		}
	}
	switch action {
	case ui.ActionPause:
		g.paused = !g.paused
	case ui.ActionStep:
		g.paused = true
		g.stepOnce = true
	case ui.ActionReset:
		g.reset()
	case ui.ActionNextScene:
		g.nextScene()
	}

	// Right-hand column: inspector above the perf panel.
	y := int32(20)
	if g.selected != nil {
		y = g.inspector.Draw(g.selected) + 20
	}
	if g.showPerf {
		g.perfPanel.SetPosition(int32(g.screenWidth)-290, y)
		g.perfPanel.Draw(g.sim.Perf().Stats())
	}
}
