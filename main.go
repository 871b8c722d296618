package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rigid/config"
	"github.com/pthm-cable/rigid/game"
	"github.com/pthm-cable/rigid/scene"
	"github.com/pthm-cable/rigid/sim"
	"github.com/pthm-cable/rigid/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	sceneName := flag.String("scene", "", "Built-in scene: "+strings.Join(scene.Names(), ", ")+" (empty = use config)")
	sceneFile := flag.String("scene-file", "", "YAML scene file (overrides -scene)")
	restore := flag.String("restore", "", "Snapshot JSON to resume from")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Scene seed (0 = config seed, -1 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed < 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Options: sim.Options{
			Config:         cfg,
			Scene:          *sceneName,
			SceneFile:      *sceneFile,
			Seed:           rngSeed,
			LogStats:       *logStats,
			StatsWindowSec: *statsWindow,
			SnapshotDir:    *snapshotDir,
			OutputDir:      *outputDir,
		},
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g := newGame(opts, *restore)
		defer g.Unload()

		slog.Info("starting headless simulation",
			"scene", g.Sim().Scene(),
			"seed", g.Sim().Seed(),
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), game.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := newGame(opts, *restore)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// newGame builds the sandbox and optionally resumes a snapshot, exiting on
// failure.
func newGame(opts game.Options, restore string) *game.Game {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	if restore == "" {
		return g
	}
	snap, err := telemetry.LoadSnapshot(restore)
	if err == nil {
		err = g.Restore(snap)
	}
	if err != nil {
		slog.Error("failed to restore snapshot", "path", restore, "error", err)
		os.Exit(1)
	}
	slog.Info("snapshot restored", "path", restore, "tick", snap.Tick)
	return g
}
