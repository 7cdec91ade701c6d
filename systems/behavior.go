package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/config"
)

// BehaviorStats counts controller events since the last TakeStats.
type BehaviorStats struct {
	Meals        int
	Drinks       int
	Matings      int
	Abandoned    int
	Reorients    int
	PathsPlanned int
	PathsFailed  int
}

// Behavior is the per-rabbit state machine. One instance serves the whole population.
type Behavior struct {
	grid    *TerrainGrid
	food    *FoodSourceManager
	mates   MateFinder
	planner Planner
	mover   Mover
	cfg     config.RabbitConfig
	reach   float32

	stats BehaviorStats
}

// NewBehavior wires the controller to the world it acts on.
func NewBehavior(cfg *config.Config, grid *TerrainGrid, food *FoodSourceManager, mates MateFinder) *Behavior {
	return &Behavior{
		grid:    grid,
		food:    food,
		mates:   mates,
		planner: Planner{Heuristic: Euclidean, WalkableOnly: cfg.Pathfinding.WalkableOnly},
		mover:   NewMover(&cfg.Rabbit),
		cfg:     cfg.Rabbit,
		reach:   cfg.Pathfinding.WaypointReach,
	}
}

// Mover returns the movement primitives used by the controller.
func (b *Behavior) Mover() Mover { return b.mover }

// TakeStats returns the event counters and resets them.
func (b *Behavior) TakeStats() BehaviorStats {
	s := b.stats
	b.stats = BehaviorStats{}
	return s
}

// Live advances one rabbit by one tick.
func (b *Behavior) Live(ctx *SimContext, a Agent) {
	if !a.Life.Alive {
		return
	}

	b.runDeferred(ctx, a)
	b.move(ctx, a)
	b.UpdateStats(ctx, a)
	b.CheckAge(a)
	b.CheckStats(a)
	if a.Life.Alive && ctx.Chance(b.cfg.IllnessRate) {
		Die(a, components.DeathIllness)
	}
	b.checkHazards(a)
	if !a.Life.Alive {
		return
	}

	if a.Life.WaitingToMate {
		b.checkSuitor(ctx, a)
		return
	}

	l := a.Life
	if l.Activity == components.ActivityNone && ctx.Chance(float64(a.Profile.Traits.DirectionChange)) {
		b.wander(ctx, a)
	}
	if l.Activity == components.ActivityNone && a.Needs.Water < a.Profile.WaterThreshold {
		b.searchForWater(ctx, a)
	}
	retargeting := Pending(a, components.ActionRetarget)
	if l.Activity == components.ActivityNone && !retargeting && a.Needs.Food < a.Profile.FoodThreshold {
		b.searchForFood(ctx, a)
	}
	if l.Activity == components.ActivityNone && !retargeting && a.Profile.Sex == components.Male &&
		a.Needs.Mate > a.Profile.MatingThreshold {
		b.searchForFemale(ctx, a)
	}

	switch l.Activity {
	case components.ActivityFetchingWater:
		b.moveTowardsWater(ctx, a)
	case components.ActivityFetchingFood:
		b.moveTowardsFood(ctx, a)
	case components.ActivityMating:
		b.moveTowardsFemale(ctx, a)
	}

	b.checkEnvironment(ctx, a)
}

// Die records a death. Only the first cause sticks.
func Die(a Agent, reason components.DeathReason) {
	if !a.Life.Alive {
		return
	}
	a.Life.Alive = false
	a.Life.DeathReason = reason
}

// move advances the position along the velocity scaled by the hop cadence.
func (b *Behavior) move(ctx *SimContext, a Agent) {
	k := a.Kin
	coeff := HopCoefficient(a.Profile.Seed, k.Speed, ctx.Elapsed, b.cfg.HopAmplitude, b.cfg.HopFrequency)
	a.Pos.X += k.VelX * coeff * ctx.DT
	a.Pos.Y += k.VelY * coeff * ctx.DT
	a.Life.ProjectedSize = a.Life.Size + b.cfg.HopGrow*coeff
}

// UpdateStats drifts the needs by their per-second rates.
func (b *Behavior) UpdateStats(ctx *SimContext, a Agent) {
	n, dt := a.Needs, ctx.DT

	n.Food -= b.cfg.FoodDecay * dt
	if a.Life.Activity == components.ActivityDrinking {
		n.Water += b.cfg.DrinkRate * dt
		if n.Water > b.cfg.NeedMax {
			b.startMoving(ctx, a)
		}
	} else {
		n.Water -= b.cfg.WaterDecay * dt
	}
	if a.Profile.Sex == components.Male {
		n.Mate += b.cfg.MateGrowth * dt
	}
	if a.Life.Pregnant {
		n.Pregnancy += b.cfg.PregnancyGrowth * dt
	}
	n.Age += dt
}

// CheckAge grows the rabbit and kills it once it outlives its genes.
func (b *Behavior) CheckAge(a Agent) {
	p := a.Profile
	maxAge := p.Traits.MaxAge
	var t float32 = 1
	if maxAge > 0 {
		t = clamp01(a.Needs.Age / maxAge)
	}
	a.Life.Size = p.MinSize + (p.MaxSize-p.MinSize)*t
	if a.Needs.Age > maxAge {
		Die(a, components.DeathAge)
	}
}

// CheckStats kills a rabbit whose water or food has run out. Thirst wins when both have.
func (b *Behavior) CheckStats(a Agent) {
	switch {
	case a.Needs.Water < 0:
		Die(a, components.DeathThirst)
	case a.Needs.Food < 0:
		Die(a, components.DeathStarvation)
	}
}

func (b *Behavior) checkHazards(a Agent) {
	switch {
	case !b.grid.InBounds(a.Pos.X, a.Pos.Y):
		Die(a, components.DeathOutOfBounds)
	case b.grid.IsWater(a.Pos.X, a.Pos.Y):
		Die(a, components.DeathDrowned)
	}
}

func (b *Behavior) startMoving(ctx *SimContext, a Agent) {
	b.mover.StartMoving(a.Kin, a.Profile.Traits.BaseSpeed, ctx.RNG)
	a.Life.Activity = components.ActivityNone
}

func (b *Behavior) wander(ctx *SimContext, a Agent) {
	b.mover.Wander(a.Kin, a.Profile.Traits.BaseSpeed, ctx.RNG)
	a.Life.Activity = components.ActivityNone
}

// beginSeek switches to seek speed and cancels a pending bounce, which would
// otherwise throw the rabbit off its new course.
func (b *Behavior) beginSeek(a Agent, activity components.Activity) {
	b.mover.Seek(a.Kin)
	Cancel(a, components.ActionReorient)
	a.Life.Activity = activity
}

// steer heads for the target, following the planned route if there is one.
func (b *Behavior) steer(a Agent, tx, ty float32) {
	wx, wy := NextWaypoint(a.Kin, a.Pos.X, a.Pos.Y, tx, ty, b.reach)
	b.mover.SetDirection(a.Kin, wx-a.Pos.X, wy-a.Pos.Y, a.Profile.Traits.BaseSpeed)
}

// plan routes around water when the straight line to the target crosses it.
// It reports false when no route exists.
func (b *Behavior) plan(a Agent, tx, ty float32) bool {
	if !b.grid.HasWaterBetween(a.Pos.X, a.Pos.Y, tx, ty) {
		return true
	}
	path := b.planner.FindPathWorld(b.grid, a.Pos.X, a.Pos.Y, tx, ty)
	if path == nil {
		b.stats.PathsFailed++
		return false
	}
	b.stats.PathsPlanned++
	// Drop the goal tile (the target itself is steered to) and the start tile.
	k := a.Kin
	k.Path = k.Path[:0]
	for i := 1; i < len(path)-1; i++ {
		k.Path = append(k.Path, components.Waypoint{X: path[i].X, Y: path[i].Y})
	}
	return true
}

func (b *Behavior) searchForWater(ctx *SimContext, a Agent) {
	tile := b.grid.ClosestWater(a.Pos.X, a.Pos.Y, int(a.Profile.Traits.WaterSense))
	if tile == nil {
		return
	}
	a.Life.WaterX, a.Life.WaterY = tile.X, tile.Y
	b.beginSeek(a, components.ActivityFetchingWater)
	b.mover.SetDirection(a.Kin, tile.X-a.Pos.X, tile.Y-a.Pos.Y, a.Profile.Traits.BaseSpeed)
}

func (b *Behavior) moveTowardsWater(ctx *SimContext, a Agent) {
	d := distance(a.Pos.X, a.Pos.Y, a.Life.WaterX, a.Life.WaterY)
	switch {
	case d < b.cfg.ArriveDistance:
		b.startDrinking(a)
	case d > b.cfg.WaterGiveUp:
		b.stats.Abandoned++
		b.wander(ctx, a)
	}
}

func (b *Behavior) startDrinking(a Agent) {
	b.mover.Stop(a.Kin)
	a.Life.Activity = components.ActivityDrinking
	b.stats.Drinks++
}

func (b *Behavior) searchForFood(ctx *SimContext, a Agent) {
	side := b.grid.TileSide()
	idx := b.food.ClosestAvailable(a.Pos.X, a.Pos.Y, a.Profile.Traits.FoodSense*side)
	if idx < 0 {
		return
	}
	src := b.food.Source(idx)
	b.beginSeek(a, components.ActivityFetchingFood)
	if !b.plan(a, src.X, src.Y) {
		b.wander(ctx, a)
		return
	}
	a.Life.FoodIndex = idx
	b.steer(a, src.X, src.Y)
}

func (b *Behavior) moveTowardsFood(ctx *SimContext, a Agent) {
	src := b.food.Source(a.Life.FoodIndex)
	if src == nil || src.Empty {
		b.abandonFood(ctx, a)
		return
	}
	d := distance(a.Pos.X, a.Pos.Y, src.X, src.Y)
	switch {
	case d > b.cfg.FoodGiveUp:
		b.abandonFood(ctx, a)
	case d < b.cfg.ArriveDistance:
		b.food.Consume(a.Life.FoodIndex)
		a.Needs.Food = b.cfg.NeedMax
		a.Life.FoodIndex = -1
		b.stats.Meals++
		b.wander(ctx, a)
	default:
		b.steer(a, src.X, src.Y)
	}
}

func (b *Behavior) abandonFood(ctx *SimContext, a Agent) {
	a.Life.FoodIndex = -1
	b.stats.Abandoned++
	b.wander(ctx, a)
}

func (b *Behavior) searchForFemale(ctx *SimContext, a Agent) {
	side := b.grid.TileSide()
	female, ok := b.mates.ClosestFemale(a.Pos.X, a.Pos.Y, a.Profile.Traits.MateSense*side, b.cfg.MatureAge, a.Entity)
	if !ok {
		return
	}
	b.beginSeek(a, components.ActivityMating)
	if !b.plan(a, female.Pos.X, female.Pos.Y) {
		b.wander(ctx, a)
		return
	}
	a.Life.Mate = female.Entity
	b.steer(a, female.Pos.X, female.Pos.Y)

	// She stops and waits; her own needs are ignored until released.
	b.mover.Stop(female.Kin)
	Cancel(female, components.ActionReorient)
	Cancel(female, components.ActionResume)
	female.Life.Activity = components.ActivityMating
	female.Life.FoodIndex = -1
	female.Life.WaitingToMate = true
	female.Life.Suitor = a.Entity
}

func (b *Behavior) moveTowardsFemale(ctx *SimContext, a Agent) {
	if a.Profile.Sex != components.Male {
		return
	}
	female, ok := b.mates.Agent(a.Life.Mate)
	if !ok || !female.Life.Alive || female.Life.Pregnant ||
		!female.Life.WaitingToMate || female.Life.Suitor != a.Entity {
		b.abandonMate(ctx, a, female, ok)
		return
	}

	d := distance(a.Pos.X, a.Pos.Y, female.Pos.X, female.Pos.Y)
	switch {
	case d > b.cfg.MateGiveUp:
		b.abandonMate(ctx, a, female, true)
	case d < b.cfg.ArriveDistance:
		b.impregnate(ctx, a, female)
	default:
		b.steer(a, female.Pos.X, female.Pos.Y)
	}
}

func (b *Behavior) impregnate(ctx *SimContext, male, female Agent) {
	fl := female.Life
	fl.Pregnant = true
	fl.FatherTraits = male.Profile.Traits
	fl.FatherID = male.Profile.ID
	fl.WaitingToMate = false
	fl.Suitor = ecs.Entity{}
	b.startMoving(ctx, female)

	male.Life.Impregnated++
	male.Life.Mate = ecs.Entity{}
	male.Needs.Mate = 0
	b.stats.Matings++
	b.wander(ctx, male)
}

// abandonMate gives up on a female and releases her if she is still waiting for this male.
func (b *Behavior) abandonMate(ctx *SimContext, male, female Agent, found bool) {
	if found && female.Life.WaitingToMate && female.Life.Suitor == male.Entity {
		b.release(ctx, female)
	}
	male.Life.Mate = ecs.Entity{}
	b.stats.Abandoned++
	b.wander(ctx, male)
}

// release ends a female's wait. She walks off after a short random delay.
func (b *Behavior) release(ctx *SimContext, female Agent) {
	female.Life.WaitingToMate = false
	female.Life.Suitor = ecs.Entity{}
	female.Life.Activity = components.ActivityNone
	Schedule(ctx, female, components.ActionResume, b.cfg.ResumeDelay)
}

// checkSuitor releases a waiting female whose suitor died or lost interest.
func (b *Behavior) checkSuitor(ctx *SimContext, a Agent) {
	suitor, ok := b.mates.Agent(a.Life.Suitor)
	if ok && suitor.Life.Alive && suitor.Life.Activity == components.ActivityMating && suitor.Life.Mate == a.Entity {
		return
	}
	b.release(ctx, a)
}

// checkEnvironment keeps rabbits off water and inside the grid. A rabbit whose
// look-ahead point leaves the grid turns away, and so does one whose look-ahead
// point is on water unless it is after that water or follows a dry route. Turning
// away drops a food or mate target. A rabbit whose next step would still be
// blocked stops; one fetching water starts drinking, others bounce back later.
func (b *Behavior) checkEnvironment(ctx *SimContext, a Agent) {
	k, l := a.Kin, a.Life
	if k.VelX == 0 && k.VelY == 0 {
		return
	}

	fx, fy := a.Pos.X+k.FovX, a.Pos.Y+k.FovY
	waterAhead := b.grid.IsWater(fx, fy) &&
		l.Activity != components.ActivityFetchingWater && !b.onDryRoute(a)
	if !b.grid.InBounds(fx, fy) || waterAhead {
		b.dropTarget(ctx, a)
		b.wander(ctx, a)
	}

	step := ctx.DT * b.cfg.HopAmplitude
	nx, ny := a.Pos.X+k.VelX*step, a.Pos.Y+k.VelY*step
	if b.grid.InBounds(nx, ny) && !b.grid.IsWater(nx, ny) {
		return
	}

	if l.Activity == components.ActivityFetchingWater && b.grid.InBounds(nx, ny) {
		b.startDrinking(a)
		return
	}

	b.dropTarget(ctx, a)
	b.mover.Stop(k)
	l.Activity = components.ActivityNone
	b.stats.Reorients++
	Schedule(ctx, a, components.ActionReorient, b.cfg.ReorientDelay)
}

// onDryRoute reports whether the rabbit follows a route planned around water.
func (b *Behavior) onDryRoute(a Agent) bool {
	return b.planner.WalkableOnly && len(a.Kin.Path) > 0
}

// dropTarget abandons a food or mate target, releasing a waiting female, and
// holds off new food and mate searches for up to SeekCooldown seconds.
func (b *Behavior) dropTarget(ctx *SimContext, a Agent) {
	l := a.Life
	switch l.Activity {
	case components.ActivityFetchingFood:
		l.FoodIndex = -1
	case components.ActivityMating:
		female, ok := b.mates.Agent(l.Mate)
		if ok && female.Life.WaitingToMate && female.Life.Suitor == a.Entity {
			b.release(ctx, female)
		}
		l.Mate = ecs.Entity{}
	default:
		return
	}
	b.stats.Abandoned++
	Schedule(ctx, a, components.ActionRetarget, b.cfg.SeekCooldown)
}
