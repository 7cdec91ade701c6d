package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/config"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
	"github.com/tonygoldcrest/ecosystem-sim/traits"
)

const testSide = 20

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Rabbit.IllnessRate = 0
	return cfg
}

// gridOf builds a grid of the given biome with optional overrides by tile index.
func gridOf(t *testing.T, cols, rows int, fill systems.Biome, overrides map[int]systems.Biome) *systems.TerrainGrid {
	t.Helper()
	biomes := make([]systems.Biome, cols*rows)
	for i := range biomes {
		biomes[i] = fill
	}
	for i, b := range overrides {
		biomes[i] = b
	}
	g, err := systems.NewTerrainGridFromBiomes(cols, rows, testSide, biomes)
	if err != nil {
		t.Fatalf("NewTerrainGridFromBiomes: %v", err)
	}
	return g
}

func newTestPopulation(t *testing.T, grid *systems.TerrainGrid) (*Population, *systems.SimContext, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	food := systems.NewFoodSourceManager(grid, 0, 0)
	return NewPopulation(cfg, grid, food), systems.NewSimContext(1, 0.1), cfg
}

func testTraits() traits.Traits {
	return traits.Traits{
		BaseSpeed:   1,
		Descendants: 3,
		MaxAge:      300,
		WaterSense:  10,
		FoodSense:   10,
		MateSense:   25,
	}
}

func step(ctx *systems.SimContext) {
	ctx.Advance(1.0/60, 1)
}

func mustAgent(t *testing.T, p *Population, e ecs.Entity) systems.Agent {
	t.Helper()
	a, ok := p.Agent(e)
	if !ok {
		t.Fatalf("entity %v not found", e)
	}
	return a
}

type recordingObserver struct {
	births int
	deaths []components.DeathReason
}

func (o *recordingObserver) OnBirth(systems.Agent) { o.births++ }
func (o *recordingObserver) OnDeath(a systems.Agent) {
	o.deaths = append(o.deaths, a.Life.DeathReason)
}

func TestSeedPlacesFoundersOnLand(t *testing.T) {
	// Left half water, right half grass.
	water := make(map[int]systems.Biome)
	for row := 0; row < 10; row++ {
		for col := 0; col < 5; col++ {
			water[row*10+col] = systems.Water
		}
	}
	grid := gridOf(t, 10, 10, systems.Grass, water)
	p, ctx, _ := newTestPopulation(t, grid)

	if placed := p.Seed(ctx, 25); placed != 25 {
		t.Fatalf("Seed placed %d, want 25", placed)
	}
	if p.Size() != 25 || p.Count() != 25 {
		t.Errorf("Size = %d, Count = %d, want 25", p.Size(), p.Count())
	}

	males := 0
	p.Each(func(a systems.Agent) {
		if grid.IsWater(a.Pos.X, a.Pos.Y) {
			t.Errorf("founder %s spawned on water at (%v, %v)", a.Profile.Name, a.Pos.X, a.Pos.Y)
		}
		if a.Profile.MotherID != (uuid.UUID{}) {
			t.Errorf("founder has a mother")
		}
		if a.Profile.Sex == components.Male {
			males++
		}
		if a.Kin.VelX == 0 && a.Kin.VelY == 0 {
			t.Errorf("founder %s is not moving", a.Profile.Name)
		}
	})
	if males == 0 || males == 25 {
		t.Errorf("expected a mix of sexes, got %d males of 25", males)
	}
}

func TestSeedWithoutLand(t *testing.T) {
	grid := gridOf(t, 4, 4, systems.Water, nil)
	p, ctx, _ := newTestPopulation(t, grid)
	if placed := p.Seed(ctx, 10); placed != 0 {
		t.Errorf("Seed placed %d on an all-water grid", placed)
	}
}

func TestSeqFollowsBirthOrder(t *testing.T) {
	grid := gridOf(t, 10, 10, systems.Grass, nil)
	p, ctx, _ := newTestPopulation(t, grid)
	p.Seed(ctx, 5)

	var last uint64
	for i, e := range p.Entities() {
		a := mustAgent(t, p, e)
		if i > 0 && a.Profile.Seq <= last {
			t.Errorf("Seq %d after %d", a.Profile.Seq, last)
		}
		last = a.Profile.Seq
	}
}

func TestTickSweepsDeadIntoObituary(t *testing.T) {
	grid := gridOf(t, 10, 10, systems.Grass, nil)
	p, ctx, _ := newTestPopulation(t, grid)
	obs := &recordingObserver{}
	p.SetObserver(obs)

	var es []ecs.Entity
	for i := 0; i < 3; i++ {
		es = append(es, p.Spawn(ctx, SpawnSpec{X: 50 + float32(i)*40, Y: 100, Sex: components.Female, Traits: testTraits()}))
	}
	systems.Die(mustAgent(t, p, es[1]), components.DeathThirst)

	step(ctx)
	report := p.Tick(ctx)

	if report.Deaths != 1 {
		t.Errorf("Deaths = %d, want 1", report.Deaths)
	}
	if got := p.Obituary()[components.DeathThirst]; got != 1 {
		t.Errorf("obituary thirst = %d, want 1", got)
	}
	if p.Size() != 2 || p.Count() != 2 {
		t.Errorf("Size = %d, Count = %d, want 2", p.Size(), p.Count())
	}
	if _, ok := p.Agent(es[1]); ok {
		t.Error("dead rabbit still resolvable")
	}
	order := p.Entities()
	if len(order) != 2 || order[0] != es[0] || order[1] != es[2] {
		t.Errorf("birth order not kept: %v", order)
	}
	if obs.births != 3 || len(obs.deaths) != 1 || obs.deaths[0] != components.DeathThirst {
		t.Errorf("observer saw %d births, deaths %v", obs.births, obs.deaths)
	}
}

func TestObituaryIsACopy(t *testing.T) {
	grid := gridOf(t, 4, 4, systems.Grass, nil)
	p, _, _ := newTestPopulation(t, grid)
	p.Obituary()[components.DeathAge] = 99
	if p.Obituary()[components.DeathAge] != 0 {
		t.Error("caller mutated the obituary")
	}
}

func TestReproductionIsConservative(t *testing.T) {
	grid := gridOf(t, 10, 10, systems.Grass, nil)
	p, ctx, cfg := newTestPopulation(t, grid)

	mt := testTraits()
	mt.Generation = 2
	mt.Texture = 2
	ft := testTraits()
	ft.Generation = 4
	ft.Texture = 1
	fatherID := uuid.New()

	mother := p.Spawn(ctx, SpawnSpec{X: 100, Y: 100, Sex: components.Female, Traits: mt})
	m := mustAgent(t, p, mother)
	m.Life.Pregnant = true
	m.Life.FatherTraits = ft
	m.Life.FatherID = fatherID
	m.Needs.Pregnancy = cfg.Rabbit.PregnancyFull
	motherID := m.Profile.ID

	step(ctx)
	report := p.Tick(ctx)

	if report.Births != mt.Descendants {
		t.Fatalf("Births = %d, want %d", report.Births, mt.Descendants)
	}
	if p.Size() != 1+mt.Descendants {
		t.Errorf("Size = %d, want %d", p.Size(), 1+mt.Descendants)
	}

	m = mustAgent(t, p, mother)
	if m.Life.Pregnant || m.Needs.Pregnancy != 0 {
		t.Errorf("mother still pregnant: %v, pregnancy %v", m.Life.Pregnant, m.Needs.Pregnancy)
	}
	if m.Life.Childbirths != 1 {
		t.Errorf("Childbirths = %d, want 1", m.Life.Childbirths)
	}
	if m.Life.FatherID != (uuid.UUID{}) {
		t.Error("father id not cleared")
	}

	children := 0
	p.Each(func(a systems.Agent) {
		if a.Entity == mother {
			return
		}
		children++
		if a.Profile.MotherID != motherID || a.Profile.FatherID != fatherID {
			t.Errorf("child parents = %v, %v", a.Profile.MotherID, a.Profile.FatherID)
		}
		if a.Profile.Traits.Generation != 5 {
			t.Errorf("child generation = %d, want 5", a.Profile.Traits.Generation)
		}
		want := ft.Texture
		if a.Profile.Sex == components.Female {
			want = mt.Texture
		}
		if a.Profile.Traits.Texture != want {
			t.Errorf("%s child texture = %d, want %d", a.Profile.Sex, a.Profile.Traits.Texture, want)
		}
		if a.Needs.Age != 0 {
			t.Errorf("newborn age = %v", a.Needs.Age)
		}
	})
	if children != mt.Descendants {
		t.Errorf("found %d children", children)
	}
}

func TestNewbornsNeverLandOnWater(t *testing.T) {
	// A single grass tile in a lake.
	grid := gridOf(t, 5, 5, systems.Water, map[int]systems.Biome{12: systems.Grass})
	p, ctx, cfg := newTestPopulation(t, grid)
	cfg.Population.SpawnJitter = 60

	tile := grid.Tile(12)
	mt := testTraits()
	mt.Descendants = 8
	mother := p.Spawn(ctx, SpawnSpec{X: tile.X, Y: tile.Y, Sex: components.Female, Traits: mt})
	m := mustAgent(t, p, mother)
	m.Kin.VelX, m.Kin.VelY = 0, 0
	m.Life.Pregnant = true
	m.Life.FatherTraits = testTraits()
	m.Needs.Pregnancy = cfg.Rabbit.PregnancyFull

	step(ctx)
	if report := p.Tick(ctx); report.Births != 8 {
		t.Fatalf("Births = %d, want 8", report.Births)
	}
	p.Each(func(a systems.Agent) {
		if !grid.InBounds(a.Pos.X, a.Pos.Y) || grid.IsWater(a.Pos.X, a.Pos.Y) {
			t.Errorf("rabbit at (%v, %v) is off land", a.Pos.X, a.Pos.Y)
		}
	})
}

func TestMatingScenario(t *testing.T) {
	grid := gridOf(t, 10, 10, systems.Grass, nil)
	p, ctx, cfg := newTestPopulation(t, grid)

	male := p.Spawn(ctx, SpawnSpec{X: 60, Y: 100, Sex: components.Male, Traits: testTraits()})
	female := p.Spawn(ctx, SpawnSpec{X: 100, Y: 100, Sex: components.Female, Traits: testTraits()})

	m := mustAgent(t, p, male)
	m.Needs.Mate = cfg.Rabbit.MatingThreshold + 30
	m.Needs.Water, m.Needs.Food = 90, 90
	f := mustAgent(t, p, female)
	f.Needs.Age = cfg.Rabbit.MatureAge + 10
	f.Needs.Water, f.Needs.Food = 90, 90
	maleID := m.Profile.ID

	pregnant := false
	for i := 0; i < 1200 && !pregnant; i++ {
		step(ctx)
		p.Tick(ctx)
		pregnant = mustAgent(t, p, female).Life.Pregnant
	}
	if !pregnant {
		t.Fatal("female never became pregnant")
	}

	f = mustAgent(t, p, female)
	m = mustAgent(t, p, male)
	if m.Life.Impregnated != 1 {
		t.Errorf("Impregnated = %d, want 1", m.Life.Impregnated)
	}
	if f.Life.Activity != components.ActivityNone || f.Life.WaitingToMate {
		t.Errorf("female activity = %v, waiting = %v", f.Life.Activity, f.Life.WaitingToMate)
	}
	if f.Life.FatherID != maleID {
		t.Errorf("FatherID = %v, want %v", f.Life.FatherID, maleID)
	}
	if m.Needs.Mate >= cfg.Rabbit.MatingThreshold {
		t.Errorf("male mate desire %v not reset", m.Needs.Mate)
	}
}

func TestClosestFemale(t *testing.T) {
	grid := gridOf(t, 10, 10, systems.Grass, nil)
	p, ctx, cfg := newTestPopulation(t, grid)
	mature := cfg.Rabbit.MatureAge

	spawnFemale := func(x, y float32) ecs.Entity {
		e := p.Spawn(ctx, SpawnSpec{X: x, Y: y, Sex: components.Female, Traits: testTraits()})
		mustAgent(t, p, e).Needs.Age = mature + 1
		return e
	}
	male := p.Spawn(ctx, SpawnSpec{X: 100, Y: 100, Sex: components.Male, Traits: testTraits()})
	left := spawnFemale(70, 100)
	right := spawnFemale(130, 100)
	young := p.Spawn(ctx, SpawnSpec{X: 105, Y: 100, Sex: components.Female, Traits: testTraits()})
	p.rebuildSpatial()

	got, ok := p.ClosestFemale(100, 100, 200, mature, male)
	if !ok || got.Entity != left {
		t.Fatalf("tie should go to the earlier birth, got %v", got.Entity)
	}
	if got.Entity == young {
		t.Error("immature female selected")
	}

	mustAgent(t, p, left).Life.WaitingToMate = true
	got, ok = p.ClosestFemale(100, 100, 200, mature, male)
	if !ok || got.Entity != right {
		t.Errorf("waiting female should be skipped, got %v", got.Entity)
	}

	if _, ok := p.ClosestFemale(100, 100, 10, mature, male); ok {
		t.Error("found a female outside the radius")
	}
}

func TestAgentAtAndHighlight(t *testing.T) {
	grid := gridOf(t, 10, 10, systems.Grass, nil)
	p, ctx, _ := newTestPopulation(t, grid)
	e := p.Spawn(ctx, SpawnSpec{X: 50, Y: 50, Sex: components.Male, Traits: testTraits()})

	// ProjectedSize starts at min size 20, so the hit box is +-5.
	tests := []struct {
		x, y float32
		hit  bool
	}{
		{50, 50, true},
		{54, 46, true},
		{56, 50, false},
		{150, 150, false},
	}
	for _, tt := range tests {
		got, ok := p.AgentAt(tt.x, tt.y)
		if ok != tt.hit || (ok && got != e) {
			t.Errorf("AgentAt(%v, %v) = %v, %v; want hit=%v", tt.x, tt.y, got, ok, tt.hit)
		}
	}

	p.SetHighlighted(e, true)
	sprites := p.SnapshotForRender()
	if len(sprites) != 1 || !sprites[0].Highlighted {
		t.Fatalf("sprites = %+v", sprites)
	}
	p.SetHighlighted(e, false)
	if p.SnapshotForRender()[0].Highlighted {
		t.Error("highlight not cleared")
	}

	// Stale entities are ignored.
	p.SetHighlighted(ecs.Entity{}, true)
}

func TestSnapshotForRenderSkipsDead(t *testing.T) {
	grid := gridOf(t, 10, 10, systems.Grass, nil)
	p, ctx, _ := newTestPopulation(t, grid)
	a := p.Spawn(ctx, SpawnSpec{X: 50, Y: 50, Sex: components.Male, Traits: testTraits()})
	p.Spawn(ctx, SpawnSpec{X: 120, Y: 120, Sex: components.Female, Traits: testTraits()})

	systems.Die(mustAgent(t, p, a), components.DeathAge)
	sprites := p.SnapshotForRender()
	if len(sprites) != 1 || sprites[0].Sex != components.Female {
		t.Errorf("sprites = %+v, want only the living female", sprites)
	}
	if _, ok := p.AgentAt(50, 50); ok {
		t.Error("AgentAt returned a dead rabbit")
	}
}

func TestPhaseHookOrder(t *testing.T) {
	grid := gridOf(t, 4, 4, systems.Grass, nil)
	p, ctx, _ := newTestPopulation(t, grid)
	var phases []string
	p.SetPhaseHook(func(name string) { phases = append(phases, name) })

	step(ctx)
	p.Tick(ctx)

	want := []string{"spatial_grid", "behavior", "cleanup", "births"}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d = %q, want %q", i, phases[i], want[i])
		}
	}
}
