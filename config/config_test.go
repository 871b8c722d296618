package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/rigid/physics"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cfg.EngineConfig(), physics.DefaultEngineConfig(); got != want {
		t.Errorf("engine defaults drifted:\n got %+v\nwant %+v", got, want)
	}
	if got, want := cfg.WorldConfig(), physics.DefaultWorldConfig(); got != want {
		t.Errorf("world defaults drifted: got %+v want %+v", got, want)
	}

	opts := cfg.BodyOptions()
	def := physics.DefaultBodyOptions()
	if opts.Mass != def.Mass || opts.Friction != def.Friction || opts.FrictionAir != def.FrictionAir {
		t.Errorf("body defaults drifted: got %+v", opts)
	}
	if !opts.Collisions {
		t.Error("default body options should collide")
	}
	if cfg.Derived.DT32 != float32(cfg.Physics.DT) {
		t.Errorf("DT32 = %v, want %v", cfg.Derived.DT32, float32(cfg.Physics.DT))
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	overlay := "engine:\n  substeps: 8\nscene:\n  name: rain\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Substeps != 8 {
		t.Errorf("substeps = %d, want 8", cfg.Engine.Substeps)
	}
	if cfg.Scene.Name != "rain" {
		t.Errorf("scene = %q, want rain", cfg.Scene.Name)
	}
	// untouched keys keep their defaults
	if cfg.Engine.VelocityIterations != 2 {
		t.Errorf("velocity iterations = %d, want 2", cfg.Engine.VelocityIterations)
	}
	if cfg.World.GravityY != -500 {
		t.Errorf("gravity = %v, want -500", cfg.World.GravityY)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		body    string
		wantCfg bool // error wraps physics.ErrInvalidConfig
	}{
		{"zero substeps", "engine:\n  substeps: 0\n", true},
		{"negative grid", "world:\n  grid_size: -1\n", true},
		{"zero mass", "body:\n  mass: 0\n", true},
		{"zero dt", "physics:\n  dt: 0\n", false},
		{"bad yaml", "engine: [\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, physics.ErrInvalidConfig); got != tt.wantCfg {
				t.Errorf("errors.Is(ErrInvalidConfig) = %v, want %v (err: %v)", got, tt.wantCfg, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	e := cfg.EngineConfig()
	e.ContactHertz = 45
	cfg.SetEngineConfig(e)

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Engine.ContactHertz != 45 {
		t.Errorf("contact hertz = %v, want 45", back.Engine.ContactHertz)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg should panic before Init")
		}
	}()
	Cfg()
}
