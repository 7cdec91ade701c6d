// Package game wires the terrain, food, population and telemetry into a
// runnable simulation with an optional raylib front end.
package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/tonygoldcrest/ecosystem-sim/camera"
	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/config"
	"github.com/tonygoldcrest/ecosystem-sim/renderer"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
	"github.com/tonygoldcrest/ecosystem-sim/telemetry"
	"github.com/tonygoldcrest/ecosystem-sim/ui"
)

// Publisher receives a summary after every stats window.
type Publisher interface {
	Publish(stats telemetry.WindowStats, obituary map[components.DeathReason]int)
}

// Options configures a new game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = config value
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	StatsCallback  func(telemetry.WindowStats)
	Publisher      Publisher
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	seed int64

	ctx  *systems.SimContext
	grid *systems.TerrainGrid
	food *systems.FoodSourceManager
	pop  *Population

	// State
	paused         bool
	speed          int
	headless       bool
	stepsPerUpdate int

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimes        *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	sample           telemetry.Sample
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)
	publisher        Publisher

	// Rendering (nil in headless mode)
	screenWidth, screenHeight float32
	camera                    *camera.Camera
	terrainRenderer           *renderer.TerrainRenderer
	spriteRenderer            *renderer.SpriteRenderer
	hud                       *ui.HUD
	statsPanel                *ui.StatsPanel
	obituaryPanel             *ui.ObituaryPanel
	speedControls             *ui.SpeedControls
	controlsPanel             *ui.ControlsPanel
	perfPanel                 *ui.PerfPanel
	overlays                  *ui.OverlayRegistry
	showPerf                  bool

	selected     ecs.Entity
	hasSelection bool
}

// NewGameWithOptions generates the world and seeds the founder population.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	// World generation has its own seed so a map can be replayed with
	// different populations.
	grid, err := systems.NewTerrainGrid(systems.TerrainParamsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("generating terrain: %w", err)
	}

	ctx := systems.NewSimContext(opts.Seed, cfg.Physics.MaxFrame)
	food := systems.NewFoodSourceManager(grid, cfg.Food.Amount, cfg.Food.RegenRate)
	food.Generate(ctx.RNG)

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		seed:           opts.Seed,
		ctx:            ctx,
		grid:           grid,
		food:           food,
		speed:          cfg.Speed.Levels[0],
		headless:       opts.Headless,
		stepsPerUpdate: steps,

		collector:     telemetry.NewCollector(statsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Bookmarks.HistorySize, telemetry.BookmarkThresholds{
			CrashDrop:       cfg.Bookmarks.CrashDrop,
			BoomBirthFactor: cfg.Bookmarks.BoomBirthFactor,
		}),
		lifetimes:     telemetry.NewLifetimeTracker(),
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
		statsCallback: opts.StatsCallback,
		publisher:     opts.Publisher,
	}

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.pop = NewPopulation(cfg, grid, food)
	g.pop.SetObserver(g)
	g.pop.SetPhaseHook(g.perfCollector.StartPhase)
	placed := g.pop.Seed(ctx, cfg.Population.Initial)

	slog.Info("world generated",
		"seed", opts.Seed,
		"world_seed", cfg.World.Seed,
		"generation", cfg.World.Generation,
		"rows", grid.Rows(),
		"cols", grid.Cols(),
		"food", food.Len(),
		"founders", placed,
	)

	if !opts.Headless {
		g.initRendering()
	}
	return g, nil
}

// initRendering creates the camera, renderers and panels. Requires an open window.
func (g *Game) initRendering() {
	g.screenWidth = g.cfg.Derived.ScreenW32
	g.screenHeight = g.cfg.Derived.ScreenH32

	minX, minY, maxX, maxY := g.grid.Bounds()
	g.camera = camera.New(g.screenWidth, g.screenHeight, minX, minY, maxX, maxY)

	g.terrainRenderer = renderer.NewTerrainRenderer(g.grid)
	g.terrainRenderer.Bake(g.grid)
	g.spriteRenderer = renderer.NewSpriteRenderer(g.grid.TileSide())

	g.hud = ui.NewHUD()
	g.statsPanel = ui.NewStatsPanel()
	g.obituaryPanel = ui.NewObituaryPanel(180)
	g.speedControls = ui.NewSpeedControls(g.cfg.Speed.Levels, 10, 100)
	g.controlsPanel = ui.NewControlsPanel(10, 132, 200)
	g.perfPanel = ui.NewPerfPanel(16, 260)
	g.overlays = ui.NewOverlayRegistry()
}

// Update runs one frame in graphical mode: input, then one frame's worth of
// simulation at the current speed.
func (g *Game) Update() {
	g.handleInput()
	g.validateSelection()

	if g.paused {
		return
	}
	g.Step(frameTime(), g.speed)
}

// UpdateHeadless runs StepsPerUpdate fixed ticks at speed 1.
func (g *Game) UpdateHeadless() {
	for range g.stepsPerUpdate {
		g.Step(g.cfg.Physics.DT, 1)
	}
}

// Step advances the simulation by dt wall seconds at the given speed. Speeds
// above the configured per-tick maximum are split into several ticks so that
// no single tick covers too much simulated time.
func (g *Game) Step(dt float64, speed int) {
	for _, s := range SplitSpeed(speed, g.cfg.Speed.MaxStepMultiplier) {
		g.simulationStep(dt, s)
	}
}

// SplitSpeed divides speed into the fewest ticks whose multipliers are at most
// maxStep and sum to speed. Larger shares come first.
func SplitSpeed(speed, maxStep int) []int {
	if speed < 1 {
		speed = 1
	}
	if maxStep < 1 {
		maxStep = 1
	}
	n := (speed + maxStep - 1) / maxStep
	out := make([]int, n)
	base, rem := speed/n, speed%n
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

// simulationStep runs one tick.
func (g *Game) simulationStep(dt float64, speed int) {
	g.perfCollector.StartTick()
	g.ctx.Advance(dt, speed)

	g.perfCollector.StartPhase(telemetry.PhaseFood)
	g.food.Tick(g.ctx)

	g.pop.Tick(g.ctx)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordBehavior(g.pop.Behavior().TakeStats())
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Tick returns the number of ticks run so far.
func (g *Game) Tick() int32 { return g.ctx.Tick }

// Elapsed returns the simulated time in seconds.
func (g *Game) Elapsed() float64 { return g.ctx.Elapsed }

// Population returns the rabbit population.
func (g *Game) Population() *Population { return g.pop }

// Food returns the food source pool.
func (g *Game) Food() *systems.FoodSourceManager { return g.food }

// Grid returns the terrain.
func (g *Game) Grid() *systems.TerrainGrid { return g.grid }

// Speed returns the current multiplier.
func (g *Game) Speed() int { return g.speed }

// SetSpeed changes the multiplier. Values outside the configured levels are ignored.
func (g *Game) SetSpeed(speed int) bool {
	for _, l := range g.cfg.Speed.Levels {
		if l == speed {
			g.speed = speed
			return true
		}
	}
	return false
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool { return g.paused }

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(p bool) { g.paused = p }

// Unload flushes output and frees GPU resources.
func (g *Game) Unload() {
	g.flushLifetimes()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if g.terrainRenderer != nil {
		g.terrainRenderer.Unload()
	}
}
