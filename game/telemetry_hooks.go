package game

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/tonygoldcrest/ecosystem-sim/systems"
	"github.com/tonygoldcrest/ecosystem-sim/telemetry"
	"github.com/tonygoldcrest/ecosystem-sim/ui"
)

// OnBirth starts lifetime tracking. Founders are not counted as births.
func (g *Game) OnBirth(a systems.Agent) {
	p := a.Profile
	g.lifetimes.Register(telemetry.LifetimeStats{
		ID:          p.ID,
		MotherID:    p.MotherID,
		FatherID:    p.FatherID,
		Name:        p.Name,
		Sex:         p.Sex.String(),
		Generation:  p.Traits.Generation,
		BirthTick:   g.ctx.Tick,
		BornAt:      p.BornAt,
		BaseSpeed:   p.Traits.BaseSpeed,
		MaxAge:      p.Traits.MaxAge,
		Descendants: p.Traits.Descendants,
	})
	if p.MotherID == (uuid.UUID{}) {
		return
	}
	g.collector.RecordBirth()
	if g.cfg.Telemetry.LogDeaths {
		g.logBirthEvent(a)
	}
}

// OnDeath closes the rabbit's lifetime record and counts the death.
func (g *Game) OnDeath(a systems.Agent) {
	reason := a.Life.DeathReason
	g.collector.RecordDeath(reason)
	if g.cfg.Telemetry.LogDeaths {
		g.logDeathEvent(a)
	}

	s := g.lifetimes.Remove(a.Profile.ID)
	if s == nil {
		return
	}
	s.DeathCause = reason.String()
	s.SurvivalS = g.ctx.Elapsed - s.BornAt
	s.Impregnated = a.Life.Impregnated
	s.Childbirths = a.Life.Childbirths
	if err := g.outputManager.WriteLifetime(*s); err != nil {
		slog.Error("failed to write lifetime", "error", err)
	}
}

// flushLifetimes writes the records of rabbits still alive at shutdown.
// Their death cause is left empty.
func (g *Game) flushLifetimes() {
	if g.outputManager == nil {
		return
	}
	g.pop.Each(func(a systems.Agent) {
		s := g.lifetimes.Get(a.Profile.ID)
		if s == nil {
			return
		}
		s.SurvivalS = g.ctx.Elapsed - s.BornAt
		s.Impregnated = a.Life.Impregnated
		s.Childbirths = a.Life.Childbirths
		if err := g.outputManager.WriteLifetime(*s); err != nil {
			slog.Error("failed to write lifetime", "error", err)
		}
	})
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.ctx.Elapsed) {
		return
	}

	g.sample.Reset()
	g.pop.Each(g.sample.Add)
	g.sample.FoodAvailable = g.food.Available()

	stats := g.collector.Flush(g.ctx.Tick, g.ctx.Elapsed, &g.sample)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}
	if g.publisher != nil {
		g.publisher.Publish(stats, g.pop.Obituary())
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	if !g.cfg.Bookmarks.Enabled {
		return
	}
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.ctx.Tick)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:       telemetry.SnapshotVersion,
		Seed:          g.seed,
		Rows:          g.grid.Rows(),
		Generation:    g.cfg.World.Generation,
		Tick:          g.ctx.Tick,
		SimTimeSec:    g.ctx.Elapsed,
		FoodAvailable: g.food.Available(),
		Obituary:      g.pop.Obituary(),
		Rabbits:       make([]telemetry.RabbitState, 0, g.pop.Size()),
		Bookmark:      bookmark,
	}
	g.pop.Each(func(a systems.Agent) {
		snapshot.Rabbits = append(snapshot.Rabbits, telemetry.NewRabbitState(a))
	})
	return snapshot
}

// SaveSnapshot writes the current population to dir, outside of any bookmark.
func (g *Game) SaveSnapshot(dir string) (string, error) {
	return telemetry.SaveSnapshot(g.createSnapshot(nil), dir)
}

// obituaryEntries lists death causes for the panel, most common first.
func (g *Game) obituaryEntries() []ui.ObituaryEntry {
	counts := g.pop.Obituary()
	out := make([]ui.ObituaryEntry, 0, len(counts))
	for reason, n := range counts {
		out = append(out, ui.ObituaryEntry{Reason: reason.String(), Count: n})
	}
	slices.SortFunc(out, func(a, b ui.ObituaryEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Reason, b.Reason)
	})
	return out
}
