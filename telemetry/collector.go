package telemetry

import (
	"github.com/tonygoldcrest/ecosystem-sim/components"
	"github.com/tonygoldcrest/ecosystem-sim/systems"
)

// Sample is the population state measured at the end of a window.
type Sample struct {
	Males         int
	Females       int
	Pregnant      int
	MaxGeneration int
	FoodAvailable int

	Water []float64
	Food  []float64
	Age   []float64

	BaseSpeed   []float64
	MaxAge      []float64
	Descendants []float64
	WaterSense  []float64
	FoodSense   []float64
	MateSense   []float64
}

// Reset empties the sample while keeping its buffers.
func (s *Sample) Reset() {
	*s = Sample{
		Water:       s.Water[:0],
		Food:        s.Food[:0],
		Age:         s.Age[:0],
		BaseSpeed:   s.BaseSpeed[:0],
		MaxAge:      s.MaxAge[:0],
		Descendants: s.Descendants[:0],
		WaterSense:  s.WaterSense[:0],
		FoodSense:   s.FoodSense[:0],
		MateSense:   s.MateSense[:0],
	}
}

// Add records one living rabbit.
func (s *Sample) Add(a systems.Agent) {
	p := a.Profile
	if p.Sex == components.Male {
		s.Males++
	} else {
		s.Females++
	}
	if a.Life.Pregnant {
		s.Pregnant++
	}
	s.MaxGeneration = max(s.MaxGeneration, p.Traits.Generation)

	s.Water = append(s.Water, float64(a.Needs.Water))
	s.Food = append(s.Food, float64(a.Needs.Food))
	s.Age = append(s.Age, float64(a.Needs.Age))

	s.BaseSpeed = append(s.BaseSpeed, float64(p.Traits.BaseSpeed))
	s.MaxAge = append(s.MaxAge, float64(p.Traits.MaxAge))
	s.Descendants = append(s.Descendants, float64(p.Traits.Descendants))
	s.WaterSense = append(s.WaterSense, float64(p.Traits.WaterSense))
	s.FoodSense = append(s.FoodSense, float64(p.Traits.FoodSense))
	s.MateSense = append(s.MateSense, float64(p.Traits.MateSense))
}

// Population returns the number of rabbits sampled.
func (s *Sample) Population() int { return s.Males + s.Females }

// Collector accumulates events within simulation-time windows and produces WindowStats.
type Collector struct {
	windowSec float64

	windowStartTick int32
	windowStartTime float64

	births   int
	deaths   [components.NumDeathReasons]int
	behavior systems.BehaviorStats
}

// NewCollector creates a collector whose windows last windowSec simulation seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 1
	}
	return &Collector{windowSec: windowSec}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records a death event by cause.
func (c *Collector) RecordDeath(reason components.DeathReason) {
	if reason < components.NumDeathReasons {
		c.deaths[reason]++
	}
}

// RecordBehavior adds controller counters drained from the behaviour system.
func (c *Collector) RecordBehavior(b systems.BehaviorStats) {
	c.behavior.Meals += b.Meals
	c.behavior.Drinks += b.Drinks
	c.behavior.Matings += b.Matings
	c.behavior.Abandoned += b.Abandoned
	c.behavior.Reorients += b.Reorients
	c.behavior.PathsPlanned += b.PathsPlanned
	c.behavior.PathsFailed += b.PathsFailed
}

// ShouldFlush returns true once the window has covered its simulation time.
func (c *Collector) ShouldFlush(elapsed float64) bool {
	return elapsed-c.windowStartTime >= c.windowSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(tick int32, elapsed float64, s *Sample) WindowStats {
	water := Summarize(s.Water)
	food := Summarize(s.Food)
	age := Summarize(s.Age)
	speed := Summarize(s.BaseSpeed)
	maxAge := Summarize(s.MaxAge)
	litter := Summarize(s.Descendants)

	totalDeaths := 0
	for _, n := range c.deaths {
		totalDeaths += n
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      elapsed,

		Population:    s.Population(),
		Males:         s.Males,
		Females:       s.Females,
		Pregnant:      s.Pregnant,
		MaxGeneration: s.MaxGeneration,

		Births:            c.births,
		Deaths:            totalDeaths,
		DeathsDrowned:     c.deaths[components.DeathDrowned],
		DeathsStarvation:  c.deaths[components.DeathStarvation],
		DeathsThirst:      c.deaths[components.DeathThirst],
		DeathsAge:         c.deaths[components.DeathAge],
		DeathsOutOfBounds: c.deaths[components.DeathOutOfBounds],
		DeathsIllness:     c.deaths[components.DeathIllness],

		Meals:        c.behavior.Meals,
		Drinks:       c.behavior.Drinks,
		Matings:      c.behavior.Matings,
		Abandoned:    c.behavior.Abandoned,
		Reorients:    c.behavior.Reorients,
		PathsPlanned: c.behavior.PathsPlanned,
		PathsFailed:  c.behavior.PathsFailed,

		FoodAvailable: s.FoodAvailable,

		WaterMean: water.Mean,
		WaterP10:  water.P10,
		FoodMean:  food.Mean,
		FoodP10:   food.P10,
		AgeP50:    age.P50,
		AgeP90:    age.P90,

		BaseSpeedMean:   speed.Mean,
		BaseSpeedStd:    speed.Std,
		MaxAgeMean:      maxAge.Mean,
		MaxAgeStd:       maxAge.Std,
		DescendantsMean: litter.Mean,
		DescendantsStd:  litter.Std,
		WaterSenseMean:  Summarize(s.WaterSense).Mean,
		FoodSenseMean:   Summarize(s.FoodSense).Mean,
		MateSenseMean:   Summarize(s.MateSense).Mean,
	}

	c.windowStartTick = tick
	c.windowStartTime = elapsed
	c.births = 0
	c.deaths = [components.NumDeathReasons]int{}
	c.behavior = systems.BehaviorStats{}

	return stats
}
