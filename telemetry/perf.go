package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"github.com/pthm-cable/rigid/physics"
)

// PhaseTelemetry covers stats collection after the engine step.
const PhaseTelemetry = "telemetry"

// phases lists every phase in the order the engine runs them.
var phases = []string{
	physics.PhaseIntegrate, physics.PhaseBroadphase, physics.PhaseNarrowphase,
	physics.PhasePrepare, physics.PhaseVelocity, physics.PhasePosition,
	physics.PhaseConstraints, physics.PhaseCleanse, PhaseTelemetry,
}

var _ physics.Profiler = (*PerfCollector)(nil)

// Phases returns the phase names in execution order.
func Phases() []string {
	return slices.Clone(phases)
}

// phaseTiming is the time spent in one phase during a tick and how many
// times it ran. Engine phases run once per substep.
type phaseTiming struct {
	d     time.Duration
	calls int
}

// tickSample is one tick. phases is indexed like PerfCollector.names.
type tickSample struct {
	total    time.Duration
	substeps int
	phases   []phaseTiming
}

// PerfCollector times engine phases over a rolling window of ticks. A
// substep is counted each time physics.PhaseIntegrate starts.
type PerfCollector struct {
	window []tickSample
	next   int
	filled int

	names []string
	index map[string]int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // running phase, -1 for none

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		window: make([]tickSample, windowSize),
		index:  make(map[string]int),
		phase:  -1,
	}
	for _, name := range phases {
		p.lookup(name)
	}
	return p
}

// lookup returns the slot for a phase name, registering unknown names.
func (p *PerfCollector) lookup(name string) int {
	i, ok := p.index[name]
	if !ok {
		i = len(p.names)
		p.names = append(p.names, name)
		p.index[name] = i
	}
	return i
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	now := time.Now()
	p.tickStart, p.phaseStart = now, now
	p.phase = -1
	p.cur.total = 0
	p.cur.substeps = 0
	p.cur.phases = slices.Grow(p.cur.phases[:0], len(p.names))[:len(p.names)]
	clear(p.cur.phases)
}

// StartPhase ends the running phase and starts timing the named one.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	i := p.lookup(name)
	if i >= len(p.cur.phases) {
		p.cur.phases = append(p.cur.phases, make([]phaseTiming, i+1-len(p.cur.phases))...)
	}
	p.cur.phases[i].calls++
	if name == physics.PhaseIntegrate {
		p.cur.substeps++
	}
	p.phase, p.phaseStart = i, now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.phases[p.phase].d += now.Sub(p.phaseStart)
		p.phase = -1
	}
}

// EndTick closes the running phase and records the tick.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	slot := &p.window[p.next]
	slot.total = now.Sub(p.tickStart)
	slot.substeps = p.cur.substeps
	slot.phases = append(slot.phases[:0], p.cur.phases...)

	p.next = (p.next + 1) % len(p.window)
	p.filled = min(p.filled+1, len(p.window))
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// AvgSubsteps is the mean substep count per tick and
	// AvgSubstepDuration the engine time of one substep.
	AvgSubsteps        float64
	AvgSubstepDuration time.Duration

	// PhaseAvg is the time per tick, PhaseRun the time of a single run
	// (one substep for engine phases), PhasePct the share of the tick.
	PhaseAvg map[string]time.Duration
	PhaseRun map[string]time.Duration
	PhasePct map[string]float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhaseRun:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var substeps int
	sums := make([]phaseTiming, len(p.names))
	for i, t := range p.window[:p.filled] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
		substeps += t.substeps
		for j, pt := range t.phases {
			sums[j].d += pt.d
			sums[j].calls += pt.calls
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	var engine time.Duration
	for j, pt := range sums {
		if pt.calls == 0 {
			continue
		}
		name := p.names[j]
		s.PhaseAvg[name] = pt.d / n
		s.PhaseRun[name] = pt.d / time.Duration(pt.calls)
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(s.PhaseAvg[name]) / float64(s.AvgTickDuration) * 100
		}
		if name != PhaseTelemetry {
			engine += pt.d
		}
	}
	s.AvgSubsteps = float64(substeps) / float64(p.filled)
	if substeps > 0 {
		s.AvgSubstepDuration = engine / time.Duration(substeps)
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"substeps", s.AvgSubsteps,
		"substep_us", s.AvgSubstepDuration.Microseconds(),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("substeps", s.AvgSubsteps),
		slog.Int64("substep_us", s.AvgSubstepDuration.Microseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phases {
		if run, ok := s.PhaseRun[phase]; ok {
			attrs = append(attrs, slog.Int64(phase+"_run_ns", run.Nanoseconds()))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
// Phase columns are microseconds per substep.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	Substeps      float64 `csv:"substeps"`
	SubstepUS     float64 `csv:"substep_us"`
	IntegrateUS   float64 `csv:"integrate_us"`
	BroadphaseUS  float64 `csv:"broadphase_us"`
	NarrowphaseUS float64 `csv:"narrowphase_us"`
	PrepareUS     float64 `csv:"prepare_us"`
	VelocityUS    float64 `csv:"velocity_us"`
	PositionUS    float64 `csv:"position_us"`
	ConstraintsUS float64 `csv:"constraints_us"`
	CleanseUS     float64 `csv:"cleanse_us"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	us := func(phase string) float64 {
		return float64(s.PhaseRun[phase]) / float64(time.Microsecond)
	}
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		Substeps:      s.AvgSubsteps,
		SubstepUS:     float64(s.AvgSubstepDuration) / float64(time.Microsecond),
		IntegrateUS:   us(physics.PhaseIntegrate),
		BroadphaseUS:  us(physics.PhaseBroadphase),
		NarrowphaseUS: us(physics.PhaseNarrowphase),
		PrepareUS:     us(physics.PhasePrepare),
		VelocityUS:    us(physics.PhaseVelocity),
		PositionUS:    us(physics.PhasePosition),
		ConstraintsUS: us(physics.PhaseConstraints),
		CleanseUS:     us(physics.PhaseCleanse),
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
