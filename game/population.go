package game

import (
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/config"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
	"github.com/tonygoldcrest/ecosystem-sim/telemetry"
	"github.com/tonygoldcrest/ecosystem-sim/traits"
)

// spatialCell is the mate-search bucket size in world units.
const spatialCell = 64

// Observer is notified of births and deaths. The Agent is only valid for the
// duration of the call.
type Observer interface {
	OnBirth(a systems.Agent)
	OnDeath(a systems.Agent)
}

// SpawnSpec describes a rabbit to create.
type SpawnSpec struct {
	X, Y     float32
	Sex      components.Sex
	Traits   traits.Traits
	MotherID uuid.UUID
	FatherID uuid.UUID
}

// TickReport summarises one population tick.
type TickReport struct {
	Births int
	Deaths int
}

// Population owns every rabbit. Entities live in an ark world; order keeps
// them in birth order so ticks are deterministic for a given seed.
type Population struct {
	cfg *config.Config

	world  *ecs.World
	mapper *ecs.Map6[components.Position, components.Kinematics, components.Profile,
		components.Needs, components.Life, components.Schedule]
	filter *ecs.Filter6[components.Position, components.Kinematics, components.Profile,
		components.Needs, components.Life, components.Schedule]
	posMap *ecs.Map1[components.Position]

	grid     *systems.TerrainGrid
	behavior *systems.Behavior
	spatial  *systems.SpatialGrid
	mutator  traits.Mutator
	observer Observer
	phase    func(name string)

	order     []ecs.Entity
	obituary  map[components.DeathReason]int
	nextSeq   uint64
	neighbors []systems.Neighbor
	dead      []ecs.Entity
}

// NewPopulation creates an empty population acting on grid and food.
func NewPopulation(cfg *config.Config, grid *systems.TerrainGrid, food *systems.FoodSourceManager) *Population {
	world := ecs.NewWorld()
	minX, minY, maxX, maxY := grid.Bounds()

	p := &Population{
		cfg:   cfg,
		world: world,
		mapper: ecs.NewMap6[components.Position, components.Kinematics, components.Profile,
			components.Needs, components.Life, components.Schedule](world),
		filter: ecs.NewFilter6[components.Position, components.Kinematics, components.Profile,
			components.Needs, components.Life, components.Schedule](world),
		posMap:   ecs.NewMap1[components.Position](world),
		grid:     grid,
		spatial:  systems.NewSpatialGrid(minX, minY, maxX, maxY, spatialCell),
		mutator:  traits.NewMutator(cfg.Genetics.Mutation.Rate, cfg.Genetics.Mutation.Sigma),
		obituary: make(map[components.DeathReason]int),
	}
	p.behavior = systems.NewBehavior(cfg, grid, food, p)
	return p
}

// SetObserver registers a birth and death listener. Nil disables notifications.
func (p *Population) SetObserver(o Observer) { p.observer = o }

// SetPhaseHook registers a callback invoked as Tick enters each phase.
func (p *Population) SetPhaseHook(fn func(name string)) { p.phase = fn }

func (p *Population) mark(name string) {
	if p.phase != nil {
		p.phase(name)
	}
}

// Behavior returns the shared controller.
func (p *Population) Behavior() *systems.Behavior { return p.behavior }

// Seed spawns n founders on random land tiles and returns how many were placed.
// A grid without land places none.
func (p *Population) Seed(ctx *systems.SimContext, n int) int {
	rc := &p.cfg.Rabbit
	placed := 0
	for range n {
		tile := p.grid.RandomTile(ctx.RNG, systems.NotWater)
		if tile == nil {
			break
		}
		t := traits.Founder(ctx.RNG, p.cfg.Genetics.Founder)
		t.Texture = ctx.RNG.Intn(rc.TexturesPerSex)
		p.Spawn(ctx, SpawnSpec{
			X:      tile.X,
			Y:      tile.Y,
			Sex:    randomSex(ctx),
			Traits: t,
		})
		placed++
	}
	return placed
}

// Spawn creates one rabbit and starts it moving. Pointers from earlier
// Agent lookups are invalid afterwards.
func (p *Population) Spawn(ctx *systems.SimContext, s SpawnSpec) ecs.Entity {
	rc := &p.cfg.Rabbit
	rng := ctx.RNG

	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		id = uuid.New()
	}
	name := ""
	if names := p.cfg.Population.Names; len(names) > 0 {
		name = names[rng.Intn(len(names))]
	}

	pos := components.Position{X: s.X, Y: s.Y}
	kin := components.Kinematics{}
	prof := components.Profile{
		ID:              id,
		MotherID:        s.MotherID,
		FatherID:        s.FatherID,
		Seq:             p.nextSeq,
		Name:            name,
		Sex:             s.Sex,
		Seed:            rng.Float32(),
		Traits:          s.Traits,
		MinSize:         rc.MinSize,
		MaxSize:         rc.MaxSize,
		WaterThreshold:  rc.WaterThreshold + jitter(ctx, rc.ThresholdJitter),
		FoodThreshold:   rc.FoodThreshold + jitter(ctx, rc.ThresholdJitter),
		MatingThreshold: rc.MatingThreshold,
		BornAt:          ctx.Elapsed,
	}
	needs := components.Needs{
		Water: rc.InitialWater.Sample(rng),
		Food:  rc.InitialFood.Sample(rng),
	}
	life := components.Life{
		Alive:         true,
		Size:          rc.MinSize,
		ProjectedSize: rc.MinSize,
		FoodIndex:     -1,
	}
	sched := components.Schedule{}
	p.nextSeq++

	p.behavior.Mover().StartMoving(&kin, s.Traits.BaseSpeed, rng)

	e := p.mapper.NewEntity(&pos, &kin, &prof, &needs, &life, &sched)
	p.order = append(p.order, e)

	if p.observer != nil {
		if a, ok := p.Agent(e); ok {
			p.observer.OnBirth(a)
		}
	}
	return e
}

func jitter(ctx *systems.SimContext, amount float32) float32 {
	return float32(math.Floor(float64(amount) * ctx.RNG.Float64()))
}

func randomSex(ctx *systems.SimContext) components.Sex {
	if ctx.RNG.Float64() < 0.5 {
		return components.Male
	}
	return components.Female
}

// Tick runs every living rabbit once in birth order, removes the dead and
// delivers litters that came to term.
func (p *Population) Tick(ctx *systems.SimContext) TickReport {
	p.mark(telemetry.PhaseSpatialGrid)
	p.rebuildSpatial()

	p.mark(telemetry.PhaseBehavior)
	for _, e := range p.order {
		a, ok := p.Agent(e)
		if !ok || !a.Life.Alive {
			continue
		}
		p.behavior.Live(ctx, a)
	}

	p.mark(telemetry.PhaseCleanup)
	deaths := p.sweepDead()
	p.mark(telemetry.PhaseBirths)
	births := p.deliver(ctx)
	return TickReport{Births: births, Deaths: deaths}
}

func (p *Population) rebuildSpatial() {
	p.spatial.Clear()
	for _, e := range p.order {
		pos := p.posMap.Get(e)
		p.spatial.Insert(e, pos.X, pos.Y)
	}
}

// sweepDead records and removes every dead rabbit, keeping birth order for the rest.
func (p *Population) sweepDead() int {
	p.dead = p.dead[:0]
	kept := p.order[:0]
	for _, e := range p.order {
		a, ok := p.Agent(e)
		if !ok {
			continue
		}
		if a.Life.Alive {
			kept = append(kept, e)
			continue
		}
		p.obituary[a.Life.DeathReason]++
		if p.observer != nil {
			p.observer.OnDeath(a)
		}
		p.dead = append(p.dead, e)
	}
	clear(p.order[len(kept):])
	p.order = kept

	for _, e := range p.dead {
		p.world.RemoveEntity(e)
	}
	return len(p.dead)
}

// litter is a birth copied out of the mother before any entity is created.
type litter struct {
	x, y     float32
	mother   traits.Traits
	father   traits.Traits
	motherID uuid.UUID
	fatherID uuid.UUID
	count    int
}

// deliver resets every mother whose pregnancy is full and spawns her litter.
func (p *Population) deliver(ctx *systems.SimContext) int {
	rc := &p.cfg.Rabbit
	var litters []litter
	for _, e := range p.order {
		a, ok := p.Agent(e)
		if !ok || !a.Life.Pregnant || a.Needs.Pregnancy < rc.PregnancyFull {
			continue
		}
		litters = append(litters, litter{
			x:        a.Pos.X,
			y:        a.Pos.Y,
			mother:   a.Profile.Traits,
			father:   a.Life.FatherTraits,
			motherID: a.Profile.ID,
			fatherID: a.Life.FatherID,
			count:    a.Profile.Traits.Descendants,
		})
		a.Life.Pregnant = false
		a.Life.FatherTraits = traits.Traits{}
		a.Life.FatherID = uuid.UUID{}
		a.Needs.Pregnancy = 0
		a.Life.Childbirths++
	}

	births := 0
	strategies := p.cfg.Genetics.Strategies
	spread := p.cfg.Population.SpawnJitter
	for _, l := range litters {
		for range l.count {
			t := traits.Combine(l.mother, l.father, strategies, p.mutator, ctx.RNG)
			sex := randomSex(ctx)
			// Looks follow the parent of the same sex.
			if sex == components.Female {
				t.Texture = l.mother.Texture
			} else {
				t.Texture = l.father.Texture
			}

			x := l.x + (ctx.RNG.Float32()*2-1)*spread
			y := l.y + (ctx.RNG.Float32()*2-1)*spread
			if !p.grid.InBounds(x, y) || p.grid.IsWater(x, y) {
				x, y = l.x, l.y
			}

			p.Spawn(ctx, SpawnSpec{
				X:        x,
				Y:        y,
				Sex:      sex,
				Traits:   t,
				MotherID: l.motherID,
				FatherID: l.fatherID,
			})
			births++
		}
	}
	return births
}

// Agent resolves an entity to its components. ok is false for stale references.
func (p *Population) Agent(e ecs.Entity) (systems.Agent, bool) {
	if e == (ecs.Entity{}) || !p.world.Alive(e) {
		return systems.Agent{}, false
	}
	pos, kin, prof, needs, life, sched := p.mapper.Get(e)
	return systems.Agent{
		Entity:  e,
		Pos:     pos,
		Kin:     kin,
		Profile: prof,
		Needs:   needs,
		Life:    life,
		Sched:   sched,
	}, true
}

// ClosestFemale returns the nearest female that can be courted. Ties go to
// the earliest born.
func (p *Population) ClosestFemale(x, y, radius, matureAge float32, exclude ecs.Entity) (systems.Agent, bool) {
	p.neighbors = p.spatial.QueryRadiusInto(p.neighbors[:0], x, y, radius, exclude, p.posMap)

	var best systems.Agent
	var bestD float32
	found := false
	for _, n := range p.neighbors {
		a, ok := p.Agent(n.E)
		if !ok || !a.Available(matureAge) {
			continue
		}
		if !found || n.DistSq < bestD || (n.DistSq == bestD && a.Profile.Seq < best.Profile.Seq) {
			best, bestD, found = a, n.DistSq, true
		}
	}
	return best, found
}

// AgentAt returns the first rabbit in birth order whose sprite covers (x, y).
func (p *Population) AgentAt(x, y float32) (ecs.Entity, bool) {
	for _, e := range p.order {
		a, ok := p.Agent(e)
		if !ok || !a.Life.Alive {
			continue
		}
		half := a.Life.ProjectedSize / 4
		if abs32(x-a.Pos.X) <= half && abs32(y-a.Pos.Y) <= half {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// SetHighlighted marks a rabbit for the renderer. Stale entities are ignored.
func (p *Population) SetHighlighted(e ecs.Entity, on bool) {
	if a, ok := p.Agent(e); ok {
		a.Life.Highlighted = on
	}
}

// SnapshotForRender returns sprites for every living rabbit in birth order.
func (p *Population) SnapshotForRender() []systems.AgentSprite {
	sprites := make([]systems.AgentSprite, 0, len(p.order))
	for _, e := range p.order {
		a, ok := p.Agent(e)
		if !ok || !a.Life.Alive {
			continue
		}
		sprites = append(sprites, systems.AgentSprite{
			X:           a.Pos.X,
			Y:           a.Pos.Y,
			Size:        a.Life.ProjectedSize,
			Highlighted: a.Life.Highlighted,
			Sex:         a.Profile.Sex,
			Texture:     a.Profile.Traits.Texture,
			Activity:    a.Life.Activity,
			FacingLeft:  a.Kin.VelX < 0 || (a.Kin.VelX == 0 && a.Kin.PrevX < 0),
		})
	}
	return sprites
}

// Each calls fn for every living rabbit in birth order. fn must not spawn or remove rabbits.
func (p *Population) Each(fn func(a systems.Agent)) {
	for _, e := range p.order {
		if a, ok := p.Agent(e); ok && a.Life.Alive {
			fn(a)
		}
	}
}

// Count iterates the world directly and counts living rabbits. It matches
// Size after every Tick.
func (p *Population) Count() int {
	n := 0
	query := p.filter.Query()
	for query.Next() {
		_, _, _, _, life, _ := query.Get()
		if life.Alive {
			n++
		}
	}
	return n
}

// Size returns the number of rabbits in the world.
func (p *Population) Size() int { return len(p.order) }

// Obituary returns a copy of the death counts by cause.
func (p *Population) Obituary() map[components.DeathReason]int {
	out := make(map[components.DeathReason]int, len(p.obituary))
	for k, v := range p.obituary {
		out[k] = v
	}
	return out
}

// Entities returns the rabbits in birth order.
func (p *Population) Entities() []ecs.Entity { return slices.Clone(p.order) }

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
