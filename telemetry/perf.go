package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseFood        = "food"
	PhaseSpatialGrid = "spatial_grid"
	PhaseBehavior    = "behavior"
	PhaseCleanup     = "cleanup"
	PhaseBirths      = "births"
	PhaseTelemetry   = "telemetry"
)

var phaseOrder = []string{
	PhaseFood, PhaseSpatialGrid, PhaseBehavior,
	PhaseCleanup, PhaseBirths, PhaseTelemetry,
}

// Phases returns the phase names in tick order.
func Phases() []string { return slices.Clone(phaseOrder) }

// PerfCollector keeps a ring of the last windowSize tick timings, split by
// phase. Phase names outside Phases() are tracked too.
type PerfCollector struct {
	now func() time.Time

	ticks  []time.Duration
	phases map[string][]time.Duration
	next   int
	filled int

	tickStart  time.Time
	phase      string
	phaseStart time.Time
	open       map[string]time.Duration

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:    time.Now,
		ticks:  make([]time.Duration, windowSize),
		phases: make(map[string][]time.Duration),
		open:   make(map[string]time.Duration),
	}
}

func (p *PerfCollector) closePhase(at time.Time) {
	if p.phase != "" {
		p.open[p.phase] += at.Sub(p.phaseStart)
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.phase = ""
	clear(p.open)
}

// StartPhase closes the running phase and starts timing the named one.
// Re-entering a phase within one tick accumulates.
func (p *PerfCollector) StartPhase(phase string) {
	at := p.now()
	p.closePhase(at)
	p.phase = phase
	p.phaseStart = at
}

// EndTick closes the tick and stores it in the ring.
func (p *PerfCollector) EndTick() {
	at := p.now()
	p.closePhase(at)
	p.phase = ""

	slot := p.next
	p.ticks[slot] = at.Sub(p.tickStart)
	for name, ring := range p.phases {
		ring[slot] = p.open[name]
	}
	for name, d := range p.open {
		if _, ok := p.phases[name]; !ok {
			ring := make([]time.Duration, len(p.ticks))
			ring[slot] = d
			p.phases[name] = ring
		}
	}

	p.next = (p.next + 1) % len(p.ticks)
	p.filled = min(p.filled+1, len(p.ticks))
}

// RecordFrame marks a rendered frame; the gap to the previous call is the
// frame time.
func (p *PerfCollector) RecordFrame() {
	at := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = at.Sub(p.lastFrame)
	}
	p.lastFrame = at
}

// PerfStats summarises the collector's window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// PhaseAvg and PhasePct are keyed by phase name. PhasePct is the share
	// of the average tick, in percent.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the recorded ticks. Frame timing is reported even when
// no tick has completed.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	us := make([]float64, p.filled)
	for i := range us {
		us[i] = float64(p.ticks[i].Microseconds())
	}
	slices.Sort(us)
	s.MinTickDuration = time.Duration(us[0]) * time.Microsecond
	s.MaxTickDuration = time.Duration(us[len(us)-1]) * time.Microsecond
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, us, nil)) * time.Microsecond

	var total time.Duration
	for _, d := range p.ticks[:p.filled] {
		total += d
	}
	s.AvgTickDuration = total / time.Duration(p.filled)
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	for name, ring := range p.phases {
		var sum time.Duration
		for _, d := range ring[:p.filled] {
			sum += d
		}
		avg := sum / time.Duration(p.filled)
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = 100 * float64(avg) / float64(s.AvgTickDuration)
		}
	}
	return s
}

// LogStats writes the summary as a single "perf" record.
func (s PerfStats) LogStats() {
	slog.Info("perf", "timing", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range phaseOrder {
		if pct := s.PhasePct[phase]; pct >= 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	FoodPct        float64 `csv:"food_pct"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	BehaviorPct    float64 `csv:"behavior_pct"`
	CleanupPct     float64 `csv:"cleanup_pct"`
	BirthsPct      float64 `csv:"births_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		FoodPct:        s.PhasePct[PhaseFood],
		SpatialGridPct: s.PhasePct[PhaseSpatialGrid],
		BehaviorPct:    s.PhasePct[PhaseBehavior],
		CleanupPct:     s.PhasePct[PhaseCleanup],
		BirthsPct:      s.PhasePct[PhaseBirths],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
