// Package sim runs a scene headless: world, engine, telemetry windows,
// bookmarks and snapshots. The windowed sandbox and the tuner both drive it.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/rigid/config"
	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/scene"
	"github.com/pthm-cable/rigid/telemetry"
)

// Options configures a Sim.
type Options struct {
	Config *config.Config // nil uses config.Cfg()

	Scene     string // built-in scene; empty uses the config
	SceneFile string // YAML scene; overrides Scene
	Seed      int64  // zero uses the config seed

	LogStats       bool
	StatsWindowSec float64 // zero uses the config window
	SnapshotDir    string
	OutputDir      string

	// StatsCallback is called with each flushed window (used by the tuner).
	StatsCallback func(telemetry.WindowStats)
}

// Sim owns a world and steps it at the configured fixed dt.
type Sim struct {
	cfg  *config.Config
	opts Options

	world  *physics.World
	engine *physics.Engine
	tick   int32

	scene     string
	sceneFile *scene.File
	seed      int64

	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager

	lastStats telemetry.WindowStats
}

// New builds the world, loads the scene and opens telemetry output.
func New(opts Options) (*Sim, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	s := &Sim{
		cfg:              cfg,
		opts:             opts,
		scene:            opts.Scene,
		seed:             opts.Seed,
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(5),
	}
	if s.scene == "" {
		s.scene = cfg.Scene.Name
	}
	if s.seed == 0 {
		s.seed = cfg.Scene.Seed
	}

	path := opts.SceneFile
	if path == "" {
		path = cfg.Scene.File
	}
	if path != "" {
		f, err := scene.LoadFile(path)
		if err != nil {
			return nil, err
		}
		s.sceneFile = f
		s.scene = f.Name
	}

	window := opts.StatsWindowSec
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}
	s.collector = telemetry.NewCollector(window, cfg.Derived.DT32)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if err := s.Reset(); err != nil {
		om.Close()
		return nil, err
	}
	return s, nil
}

// Reset rebuilds the current scene from scratch and restarts the tick count.
func (s *Sim) Reset() error {
	w, err := physics.NewWorld(s.cfg.WorldConfig())
	if err != nil {
		return fmt.Errorf("creating world: %w", err)
	}
	e, err := physics.NewEngine(w, s.cfg.EngineConfig())
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	e.SetProfiler(s.perfCollector)

	if s.sceneFile != nil {
		err = s.sceneFile.Build(w, s.cfg.BodyOptions())
	} else {
		err = scene.Build(w, s.scene, scene.Params{
			Count: s.cfg.Scene.Count,
			Seed:  s.seed,
			Body:  s.cfg.BodyOptions(),
		})
	}
	if err != nil {
		return err
	}

	s.world = w
	s.engine = e
	s.tick = 0
	s.collector.Attach(w)
	s.collector.Reset(0)
	return nil
}

// SetScene switches to a built-in scene and rebuilds.
func (s *Sim) SetScene(name string) error {
	prev, prevFile := s.scene, s.sceneFile
	s.scene, s.sceneFile = name, nil
	if err := s.Reset(); err != nil {
		s.scene, s.sceneFile = prev, prevFile
		return err
	}
	return nil
}

// SetEngineConfig replaces the solver settings on the live engine.
func (s *Sim) SetEngineConfig(c physics.EngineConfig) error {
	if err := s.engine.SetConfig(c); err != nil {
		return err
	}
	s.cfg.SetEngineConfig(c)
	return nil
}

// Step advances one fixed tick and flushes telemetry when a window closes.
func (s *Sim) Step() error {
	s.perfCollector.StartTick()
	if err := s.engine.Update(s.cfg.Physics.DT); err != nil {
		s.perfCollector.EndTick()
		return fmt.Errorf("tick %d: %w", s.tick, err)
	}
	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	s.perfCollector.EndTick()
	return nil
}

// World returns the live world. It changes on Reset.
func (s *Sim) World() *physics.World { return s.world }

// Engine returns the live engine. It changes on Reset.
func (s *Sim) Engine() *physics.Engine { return s.engine }

// Tick returns the ticks stepped since the last Reset.
func (s *Sim) Tick() int32 { return s.tick }

// Scene returns the current scene name.
func (s *Sim) Scene() string { return s.scene }

// Seed returns the placement seed.
func (s *Sim) Seed() int64 { return s.seed }

// Config returns the config the sim was built with.
func (s *Sim) Config() *config.Config { return s.cfg }

// Perf returns the tick profiler.
func (s *Sim) Perf() *telemetry.PerfCollector { return s.perfCollector }

// LastStats returns the most recently flushed window.
func (s *Sim) LastStats() telemetry.WindowStats { return s.lastStats }

// Snapshot captures the world and writes it to the snapshot or output
// directory. Returns the path written, or "" if neither is set.
func (s *Sim) Snapshot(bookmark *telemetry.Bookmark) (string, error) {
	snap := telemetry.CaptureSnapshot(s.world, s.scene, s.seed, s.tick)
	snap.Bookmark = bookmark

	var path string
	var err error
	switch {
	case s.opts.SnapshotDir != "":
		path, err = telemetry.SaveSnapshot(snap, s.opts.SnapshotDir)
	case s.outputManager != nil:
		path, err = s.outputManager.WriteSnapshot(snap)
	default:
		return "", nil
	}
	if err != nil {
		return "", err
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
	return path, nil
}

// Restore rebuilds the snapshot's scene and applies its body state.
func (s *Sim) Restore(snap *telemetry.Snapshot) error {
	if s.sceneFile == nil || s.sceneFile.Name != snap.Scene {
		s.scene, s.sceneFile = snap.Scene, nil
	}
	s.seed = snap.Seed
	if err := s.Reset(); err != nil {
		return err
	}
	if err := snap.Apply(s.world); err != nil {
		return err
	}
	s.tick = snap.Tick
	s.collector.Reset(s.tick)
	return nil
}

// Close detaches telemetry and closes output files.
func (s *Sim) Close() error {
	s.collector.Detach()
	return s.outputManager.Close()
}
