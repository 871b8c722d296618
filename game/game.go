// Package game is the interactive sandbox: it drives a sim.Sim from the
// raylib window loop and draws it with the renderer and ui packages.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/camera"
	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/renderer"
	"github.com/pthm-cable/rigid/scene"
	"github.com/pthm-cable/rigid/sim"
	"github.com/pthm-cable/rigid/telemetry"
	"github.com/pthm-cable/rigid/ui"
)

// Title is shown in the window bar and the HUD.
const Title = "Rigid Sandbox"

// Options configures a Game.
type Options struct {
	sim.Options

	Headless       bool // skip all raylib setup
	StepsPerUpdate int  // ticks per Update call
}

// Game holds the sandbox state.
type Game struct {
	sim *sim.Sim

	paused         bool
	stepOnce       bool
	stepsPerUpdate int
	headless       bool

	screenWidth  float32
	screenHeight float32

	// Rendering (nil when headless)
	camera         *camera.Camera
	background     *renderer.BackgroundRenderer
	bodyRenderer   *renderer.BodyRenderer
	impactRenderer *renderer.ImpactRenderer

	// UI (nil when headless)
	overlays  *ui.OverlayRegistry
	controls  *ui.ControlsPanel
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	inspector *ui.Inspector
	showPerf  bool

	// Selection and mouse drag
	selected *physics.RigidBody
	drag     *physics.DistanceConstraint

	// World whose events currently feed the impact markers
	hooked   *physics.World
	handlers []hook
}

type hook struct {
	kind physics.EventKind
	id   physics.HandlerID
}

// NewGameWithOptions creates a sandbox. Graphical mode expects the raylib
// window to be open already.
func NewGameWithOptions(opts Options) (*Game, error) {
	s, err := sim.New(opts.Options)
	if err != nil {
		return nil, err
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	cfg := s.Config()

	g := &Game{
		sim:            s,
		stepsPerUpdate: steps,
		headless:       opts.Headless,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}
	if g.headless {
		return g, nil
	}

	// World y = 0 is the floor; look slightly above it.
	g.camera = camera.New(g.screenWidth, g.screenHeight, 0, g.screenHeight*0.35, 1)
	g.background = renderer.NewBackgroundRenderer(cfg.World.GridSize, 22, 26, 32)
	g.bodyRenderer = renderer.NewBodyRenderer()
	g.impactRenderer = renderer.NewImpactRenderer(30, 256)

	g.overlays = ui.NewOverlayRegistry()
	g.controls = ui.NewControlsPanel(10, 120, 230)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-290, 20)
	g.inspector = ui.NewInspector(int32(g.screenWidth)-290, 20, 280)

	g.hookWorld()
	return g, nil
}

// Update handles input and advances the simulation by StepsPerUpdate ticks
// unless paused.
func (g *Game) Update() {
	g.handleInput()
	g.recordFrame()

	if g.paused && !g.stepOnce {
		g.impactRenderer.Update()
		return
	}
	steps := g.stepsPerUpdate
	if g.stepOnce {
		steps = 1
		g.stepOnce = false
	}
	for range steps {
		if !g.step() {
			break
		}
	}
	g.impactRenderer.Update()
}

// UpdateHeadless advances the simulation without input or rendering.
func (g *Game) UpdateHeadless() {
	for range g.stepsPerUpdate {
		if !g.step() {
			return
		}
	}
}

// step runs one tick. A solver error pauses the sandbox.
func (g *Game) step() bool {
	if err := g.sim.Step(); err != nil {
		slog.Error("simulation step failed", "error", err, "tick", g.sim.Tick())
		g.paused = true
		return false
	}
	return true
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Sim returns the underlying simulation.
func (g *Game) Sim() *sim.Sim {
	return g.sim
}

// Paused reports whether stepping is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// reset rebuilds the scene and drops selection state tied to the old world.
func (g *Game) reset() {
	if err := g.sim.Reset(); err != nil {
		slog.Error("reset failed", "error", err)
		return
	}
	g.afterRebuild()
}

// Restore resumes a saved snapshot.
func (g *Game) Restore(snap *telemetry.Snapshot) error {
	if err := g.sim.Restore(snap); err != nil {
		return err
	}
	g.afterRebuild()
	return nil
}

// nextScene cycles to the next built-in scene.
func (g *Game) nextScene() {
	if err := g.sim.SetScene(scene.Next(g.sim.Scene())); err != nil {
		slog.Error("scene switch failed", "error", err)
		return
	}
	g.afterRebuild()
	slog.Info("scene switched", "scene", g.sim.Scene())
}

func (g *Game) afterRebuild() {
	g.selected = nil
	g.drag = nil
	if g.impactRenderer != nil {
		g.impactRenderer.Clear()
	}
	if !g.headless {
		g.hookWorld()
	}
}

// Unload releases resources.
func (g *Game) Unload() {
	g.unhookWorld()
	if err := g.sim.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

func (g *Game) recordFrame() {
	if !g.headless {
		g.sim.Perf().RecordFrame()
	}
}

// screenSize returns the current window size.
func screenSize() (float32, float32) {
	return float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
}
