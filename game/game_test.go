package game

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/telemetry"
)

func newHeadlessGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		cfg := testConfig(t)
		cfg.World.Rows = 40
		cfg.Population.Initial = 30
		opts.Config = cfg
	}
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestSplitSpeed(t *testing.T) {
	tests := []struct {
		speed, max int
		want       []int
	}{
		{1, 10, []int{1}},
		{7, 10, []int{7}},
		{10, 10, []int{10}},
		{25, 10, []int{9, 8, 8}},
		{100, 10, []int{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}},
		{0, 10, []int{1}},
		{3, 0, []int{1, 1, 1}},
	}
	for _, tt := range tests {
		got := SplitSpeed(tt.speed, tt.max)
		if !slices.Equal(got, tt.want) {
			t.Errorf("SplitSpeed(%d, %d) = %v, want %v", tt.speed, tt.max, got, tt.want)
		}
	}
}

func TestHeadlessRunIsDeterministic(t *testing.T) {
	run := func() []telemetry.RabbitState {
		g := newHeadlessGame(t, Options{Seed: 7, StepsPerUpdate: 120})
		for range 3 {
			g.UpdateHeadless()
		}
		if g.Tick() != 360 {
			t.Fatalf("Tick = %d, want 360", g.Tick())
		}
		return g.createSnapshot(nil).Rabbits
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("population differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].X != b[i].X || a[i].Y != b[i].Y || a[i].Water != b[i].Water {
			t.Errorf("rabbit %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStatsWindowsAreSimSeconds(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newHeadlessGame(t, Options{
		Seed:           3,
		StatsWindowSec: 1,
		StepsPerUpdate: 1,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	// At speed 4 each tick covers four steps of simulated time.
	dt := g.cfg.Physics.DT
	for range 60 {
		g.Step(dt, 4)
	}
	if len(windows) < 3 {
		t.Fatalf("got %d windows after %.1f sim seconds", len(windows), g.Elapsed())
	}
	// 60 ticks at speed 4 cover four sim seconds but only one wall second.
	if len(windows) > 4 {
		t.Errorf("got %d windows, want at most 4", len(windows))
	}
	for i := 1; i < len(windows); i++ {
		if windows[i].SimTimeSec <= windows[i-1].SimTimeSec {
			t.Errorf("window %d at %.2fs not after %.2fs", i, windows[i].SimTimeSec, windows[i-1].SimTimeSec)
		}
	}
}

type fakePublisher struct {
	calls    int
	last     telemetry.WindowStats
	obituary map[components.DeathReason]int
}

func (p *fakePublisher) Publish(stats telemetry.WindowStats, obituary map[components.DeathReason]int) {
	p.calls++
	p.last = stats
	p.obituary = obituary
}

func TestPublisherReceivesWindows(t *testing.T) {
	pub := &fakePublisher{}
	g := newHeadlessGame(t, Options{Seed: 1, StatsWindowSec: 0.5, StepsPerUpdate: 100, Publisher: pub})
	g.UpdateHeadless()

	if pub.calls == 0 {
		t.Fatal("publisher never called")
	}
	if pub.obituary == nil {
		t.Error("obituary not published")
	}
}

func TestOutputDirWritesCSVs(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.World.Rows = 40
	cfg.Population.Initial = 20

	g, err := NewGameWithOptions(Options{Config: cfg, Seed: 2, Headless: true, OutputDir: dir, StatsWindowSec: 0.5, StepsPerUpdate: 90})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	g.UpdateHeadless()
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "lifetimes.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "lifetimes.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus at least every founder, alive or dead.
	if len(lines) < 1+cfg.Population.Initial {
		t.Errorf("lifetimes.csv has %d lines, want at least %d", len(lines), 1+cfg.Population.Initial)
	}
}

func TestSetSpeed(t *testing.T) {
	g := newHeadlessGame(t, Options{Seed: 1})
	levels := g.cfg.Speed.Levels

	if g.Speed() != levels[0] {
		t.Errorf("initial speed = %d, want %d", g.Speed(), levels[0])
	}
	top := levels[len(levels)-1]
	if !g.SetSpeed(top) || g.Speed() != top {
		t.Errorf("SetSpeed(%d) rejected", top)
	}
	if g.SetSpeed(top+1) {
		t.Errorf("SetSpeed(%d) accepted an unconfigured level", top+1)
	}
	if g.Speed() != top {
		t.Errorf("speed changed to %d", g.Speed())
	}
}

func TestSelectAt(t *testing.T) {
	g := newHeadlessGame(t, Options{Seed: 4})
	first := g.Population().Entities()[0]
	a := mustAgent(t, g.Population(), first)

	if !g.SelectAt(a.Pos.X, a.Pos.Y) {
		t.Fatal("SelectAt missed the rabbit")
	}
	sel, ok := g.Selected()
	if !ok {
		t.Fatal("nothing selected")
	}
	if !mustAgent(t, g.Population(), sel).Life.Highlighted {
		t.Error("selection not highlighted")
	}
	if view := g.selectedView(); view == nil {
		t.Error("no view for the selection")
	}

	minX, minY, _, _ := g.Grid().Bounds()
	if g.SelectAt(minX-100, minY-100) {
		t.Error("SelectAt hit outside the world")
	}
	if _, ok := g.Selected(); ok {
		t.Error("miss did not clear the selection")
	}
	if mustAgent(t, g.Population(), sel).Life.Highlighted {
		t.Error("highlight left on after clearing")
	}
}

func TestValidateSelectionDropsDead(t *testing.T) {
	g := newHeadlessGame(t, Options{Seed: 5})
	e := g.Population().Entities()[0]
	a := mustAgent(t, g.Population(), e)
	g.SelectAt(a.Pos.X, a.Pos.Y)

	sel, _ := g.Selected()
	mustAgent(t, g.Population(), sel).Life.Alive = false
	g.validateSelection()
	if _, ok := g.Selected(); ok {
		t.Error("dead rabbit still selected")
	}
}

func TestObituaryEntriesOrder(t *testing.T) {
	g := newHeadlessGame(t, Options{Seed: 6})
	g.pop.obituary[components.DeathAge] = 2
	g.pop.obituary[components.DeathThirst] = 5
	g.pop.obituary[components.DeathDrowned] = 2

	got := g.obituaryEntries()
	if len(got) != 3 || got[0].Count != 5 || got[1].Reason > got[2].Reason {
		t.Errorf("entries = %+v", got)
	}
}
