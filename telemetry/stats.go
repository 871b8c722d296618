package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// World population at window end
	Bodies      int `csv:"bodies"`
	Dynamic     int `csv:"dynamic"`
	Static      int `csv:"static"`
	Constraints int `csv:"constraints"`

	// Contact state at window end
	Pairs       int     `csv:"pairs"`
	SensorPairs int     `csv:"sensor_pairs"`
	Contacts    int     `csv:"contacts"`
	MaxDepth    float64 `csv:"max_depth"`

	// Events during window
	CollisionStarts int `csv:"collision_starts"`
	CollisionEnds   int `csv:"collision_ends"`
	BodyEnters      int `csv:"body_enters"`
	BodyExits       int `csv:"body_exits"`
	Added           int `csv:"added"`
	Removed         int `csv:"removed"`

	// Motion (sampled at window end, dynamic bodies only)
	KineticEnergy float64 `csv:"kinetic_energy"`
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedP50      float64 `csv:"speed_p50"`
	SpeedP90      float64 `csv:"speed_p90"`
	SpeedMax      float64 `csv:"speed_max"`
	Resting       int     `csv:"resting"` // dynamic bodies slower than the resting speed
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, median, p90 and max of speed samples.
func ComputeSpeedStats(values []float64) (mean, p50, p90, max float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = floats.Sum(values) / float64(n)
	max = floats.Max(values)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p50, p90, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("bodies", s.Bodies),
		slog.Int("dynamic", s.Dynamic),
		slog.Int("static", s.Static),
		slog.Int("constraints", s.Constraints),
		slog.Int("pairs", s.Pairs),
		slog.Int("sensor_pairs", s.SensorPairs),
		slog.Int("contacts", s.Contacts),
		slog.Float64("max_depth", s.MaxDepth),
		slog.Int("collision_starts", s.CollisionStarts),
		slog.Int("collision_ends", s.CollisionEnds),
		slog.Int("body_enters", s.BodyEnters),
		slog.Int("body_exits", s.BodyExits),
		slog.Int("added", s.Added),
		slog.Int("removed", s.Removed),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Int("resting", s.Resting),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"bodies", s.Bodies,
		"pairs", s.Pairs,
		"contacts", s.Contacts,
		"max_depth", s.MaxDepth,
		"collision_starts", s.CollisionStarts,
		"collision_ends", s.CollisionEnds,
		"kinetic_energy", s.KineticEnergy,
		"speed_max", s.SpeedMax,
		"resting", s.Resting,
	)
}
