package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Scene       string
	Bodies      int
	Static      int
	Constraints int
	Pairs       int
	Contacts    int
	Tick        int32
	Speed       int
	FPS         int32
	Paused      bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(fmt.Sprintf("%s - %s", data.Title, data.Scene), 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Bodies: %d (%d static) | Constraints: %d", data.Bodies, data.Static, data.Constraints),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Pairs: %d | Contacts: %d", data.Pairs, data.Contacts),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 95, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the engine phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	phases := telemetry.Phases()
	height := int32(20+16+16+16) + int32(len(phases))*14 + p.renderer.Theme.Padding*2
	p.renderer.DrawPanel(p.x-p.renderer.Theme.Padding, p.y-p.renderer.Theme.Padding, 280, height)

	x := p.x
	y := p.y

	rl.DrawText("Engine Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (max %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("%.0f ticks/s | %.0f fps", stats.TicksPerSecond, stats.FPS), x, y, 12, rl.LightGray)
	y += 16
	rl.DrawText(fmt.Sprintf("%.1f substeps x %s", stats.AvgSubsteps,
		stats.AvgSubstepDuration.Round(time.Microsecond)), x, y, 12, rl.LightGray)
	y += 16

	for _, name := range phases {
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s/step %5.1f%%", name, stats.PhaseRun[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
