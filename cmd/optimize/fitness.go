package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/tonygoldcrest/ecosystem-sim/config"
	"github.com/tonygoldcrest/ecosystem-sim/game"
	"github.com/tonygoldcrest/ecosystem-sim/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64
	lastSurvive float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// Last returns the mean survival seconds and quality of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (survivalSec, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvive, fe.lastQuality
}

// A population below minViablePop for extinctionGraceSec is functionally extinct.
const (
	minViablePop       = 4
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

type runResult struct {
	survivalSec float64
	windowStats []telemetry.WindowStats
}

type seedResult struct {
	fitness     float64
	quality     float64
	survivalSec float64
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel; each owns its game and config copy.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	p := fe.params.Params(x)

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(p, s)
			q := computeQuality(r.windowStats, fe.baseConfig.Population.Initial)
			results[idx] = seedResult{
				fitness:     computeFitness(r.survivalSec, q),
				quality:     q,
				survivalSec: r.survivalSec,
			}
		}(i, seed)
	}
	wg.Wait()

	var fitness, quality, survival float64
	for _, r := range results {
		fitness += r.fitness
		quality += r.quality
		survival += r.survivalSec
	}
	n := float64(len(results))

	fe.mu.Lock()
	fe.lastQuality = quality / n
	fe.lastSurvive = survival / n
	fe.mu.Unlock()

	return fitness / n
}

// runSimulation runs until functional extinction or maxTicks.
func (fe *FitnessEvaluator) runSimulation(p Params, seed int64) *runResult {
	cfg := fe.copyConfig()
	p.ApplyToConfig(cfg)

	result := &runResult{}
	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return result
	}
	defer g.Unload()

	var belowSec float64
	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		if g.Elapsed() < warmupSec {
			continue
		}

		n := g.Population().Size()
		if n == 0 {
			break
		}
		if n < minViablePop {
			belowSec += cfg.Physics.DT
			if belowSec >= extinctionGraceSec {
				break
			}
		} else {
			belowSec = 0
		}
	}
	result.survivalSec = g.Elapsed()
	return result
}

// copyConfig returns a copy of the base config. Slices and maps are shared
// and must not be mutated by a run.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness favours survival; quality adds up to a 20% bonus to
// separate configs that all survive.
func computeFitness(survivalSec, quality float64) float64 {
	return -(survivalSec * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.5
	qualityWeightAbundance = 0.3
	qualityWeightTurnover  = 0.2

	qualityWarmupWindows = 3
)

// computeQuality scores the run in [0, 1] from its window stats: a steady
// population, near the founder count or above, that actually breeds.
func computeQuality(windows []telemetry.WindowStats, initial int) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	counts := make([]float64, 0, len(valid))
	var births, deaths int
	for _, w := range valid {
		if w.Population == 0 {
			continue
		}
		counts = append(counts, float64(w.Population))
		births += w.Births
		deaths += w.Deaths
	}
	if len(counts) == 0 {
		return 0
	}

	stability := 0.0
	if len(counts) >= 2 {
		c := cv(counts)
		stability = math.Exp(-c * c)
	}

	target := math.Max(1, float64(initial))
	abundance := 1 - math.Exp(-stat.Mean(counts, nil)/target)

	// Births replacing deaths one for one scores highest.
	turnover := 0.0
	if births > 0 && deaths > 0 {
		logRatio := math.Log(float64(births) / float64(deaths))
		turnover = math.Exp(-logRatio * logRatio)
	}

	quality := qualityWeightStability*stability +
		qualityWeightAbundance*abundance +
		qualityWeightTurnover*turnover
	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	m, std := stat.PopMeanStdDev(values, nil)
	if m == 0 {
		return 0
	}
	return std / m
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
