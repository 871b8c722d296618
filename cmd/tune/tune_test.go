package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/rigid/config"
	"github.com/pthm-cable/rigid/telemetry"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Scene.Count = 3
	return cfg
}

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestDefaultsWithinBounds(t *testing.T) {
	pv := NewParamVector()
	for _, spec := range pv.Specs {
		if spec.Default < spec.Min || spec.Default > spec.Max {
			t.Errorf("%s default %v outside [%v,%v]", spec.Name, spec.Default, spec.Min, spec.Max)
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector()
	v := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		v[i] = spec.Max + 100
	}
	v[5] = 2.6 // velocity_iterations

	got := pv.Clamp(v)
	for i, spec := range pv.Specs {
		if i == 5 {
			continue
		}
		if got[i] != spec.Max {
			t.Errorf("%s = %v, want max %v", spec.Name, got[i], spec.Max)
		}
	}
	if got[5] != 3 {
		t.Errorf("velocity_iterations = %v, want rounded 3", got[5])
	}
}

func TestApplyAndExtract(t *testing.T) {
	pv := NewParamVector()
	cfg := baseConfig(t)

	want := []float64{20, 5, 300, 0.1, 0.4, 4, 3}
	pv.ApplyToConfig(cfg, want)
	got := pv.ExtractFromConfig(cfg)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
	if err := cfg.EngineConfig().Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
	if cfg.Engine.Substeps != 4 {
		t.Errorf("substeps changed to %d", cfg.Engine.Substeps)
	}
}

func TestComputeFitness(t *testing.T) {
	pv := NewParamVector()
	cfg := baseConfig(t)
	fe := NewFitnessEvaluator(pv, 600, []int64{1}, []string{"stack"}, cfg)
	x := pv.DefaultVector()

	calm := &runResult{settleTicks: 60, settled: true, windowStats: []telemetry.WindowStats{
		{Dynamic: 3, MaxDepth: 0.1, KineticEnergy: 0},
	}}
	rough := &runResult{settleTicks: 600, windowStats: []telemetry.WindowStats{
		{Dynamic: 3, MaxDepth: 2, KineticEnergy: 3000},
	}}
	if a, b := fe.computeFitness(calm, x), fe.computeFitness(rough, x); a >= b {
		t.Errorf("calm run scored %v, rough run %v", a, b)
	}
	if got := fe.computeFitness(&runResult{blownUp: true}, x); got != blowUpFitness {
		t.Errorf("blown up = %v, want %v", got, float64(blowUpFitness))
	}
}

func TestEvaluateRuns(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 120, []int64{1, 2}, []string{"stack", "ground"}, baseConfig(t))

	f := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(f) || f <= 0 || f >= blowUpFitness {
		t.Errorf("fitness = %v", f)
	}
	if s := fe.LastSettled(); s < 0 || s > 1 {
		t.Errorf("settled fraction = %v", s)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{65 * time.Second, "1m05s"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2h03m04s"},
		{0, "0m00s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
