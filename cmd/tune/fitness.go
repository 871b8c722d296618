package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/rigid/config"
	"github.com/pthm-cable/rigid/sim"
	"github.com/pthm-cable/rigid/telemetry"
)

// Fitness weights. Settle time is in seconds; depth in world units.
const (
	weightDepth      = 4.0
	weightJitter     = 0.02
	weightIterations = 0.05
	blowUpFitness    = 1e6
)

// FitnessEvaluator runs headless scenes and scores solver settings.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	scenes      []string
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastSettled float64 // fraction of runs that settled in the most recent Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, scenes []string, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		scenes:      scenes,
		baseConfig:  baseCfg,
		statsWindow: 0.5,
	}
}

// LastSettled returns the settled fraction from the most recent evaluation.
func (fe *FitnessEvaluator) LastSettled() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSettled
}

// runResult holds the results from a single simulation run.
type runResult struct {
	settleTicks int32 // first window end with every dynamic body resting, or maxTicks
	settled     bool
	blownUp     bool
	windowStats []telemetry.WindowStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better),
// averaged over every scene and seed.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	type job struct {
		scene string
		seed  int64
	}
	var jobs []job
	for _, sc := range fe.scenes {
		for _, s := range fe.seeds {
			jobs = append(jobs, job{sc, s})
		}
	}

	results := make([]float64, len(jobs))
	settled := make([]bool, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(idx int, j job) {
			defer wg.Done()
			r := fe.runSimulation(x, j.scene, j.seed)
			results[idx] = fe.computeFitness(r, x)
			settled[idx] = r.settled
		}(i, j)
	}
	wg.Wait()

	var n float64
	for _, ok := range settled {
		if ok {
			n++
		}
	}
	fe.mu.Lock()
	fe.lastSettled = n / float64(len(jobs))
	fe.mu.Unlock()

	return stat.Mean(results, nil)
}

// runSimulation executes a single headless run until the scene settles or
// maxTicks pass.
func (fe *FitnessEvaluator) runSimulation(x []float64, scene string, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{settleTicks: fe.maxTicks}
	s, err := sim.New(sim.Options{
		Config:         cfg,
		Scene:          scene,
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.blownUp = true
		return result
	}
	defer s.Close()

	// Skip the first second so bodies have time to fall.
	warmup := int32(1.0 / cfg.Physics.DT)
	seen := 0
	for s.Tick() < fe.maxTicks {
		if err := s.Step(); err != nil {
			result.blownUp = true
			return result
		}
		if len(result.windowStats) == seen {
			continue
		}
		seen = len(result.windowStats)
		w := result.windowStats[seen-1]
		if math.IsNaN(w.KineticEnergy) || math.IsInf(w.KineticEnergy, 0) {
			result.blownUp = true
			return result
		}
		if w.WindowEndTick >= warmup && w.Dynamic > 0 && w.Resting == w.Dynamic {
			result.settleTicks = w.WindowEndTick
			result.settled = true
			return result
		}
	}
	return result
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness scores one run (lower = better): settle time plus mean
// penetration, residual kinetic energy per body and iteration cost.
func (fe *FitnessEvaluator) computeFitness(r *runResult, x []float64) float64 {
	if r.blownUp {
		return blowUpFitness
	}
	dt := fe.baseConfig.Physics.DT
	settleSec := float64(r.settleTicks) * dt

	depths := make([]float64, 0, len(r.windowStats))
	jitter := make([]float64, 0, len(r.windowStats))
	for _, w := range r.windowStats {
		depths = append(depths, w.MaxDepth)
		if w.Dynamic > 0 {
			jitter = append(jitter, w.KineticEnergy/float64(w.Dynamic))
		}
	}
	var depth, energy float64
	if len(depths) > 0 {
		depth = stat.Mean(depths, nil)
	}
	if len(jitter) > 0 {
		energy = stat.Mean(jitter, nil)
	}

	clamped := fe.params.Clamp(x)
	iterations := 0.0
	for i, spec := range fe.params.Specs {
		if spec.Integer {
			iterations += clamped[i]
		}
	}

	return settleSec + weightDepth*depth + weightJitter*energy + weightIterations*iterations
}
