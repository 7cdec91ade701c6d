// Package traits defines heritable rabbit characteristics and how they pass
// from parents to offspring.
package traits

import (
	"errors"
	"fmt"
	"math/rand"
)

// Traits is the genetic configuration of a rabbit. It never changes after birth.
type Traits struct {
	Generation      int     `yaml:"generation"`
	BaseSpeed       float32 `yaml:"base_speed"`       // Multiplier on movement speed
	Descendants     int     `yaml:"descendants"`      // Litter size
	DirectionChange float32 `yaml:"direction_change"` // Spontaneous turns per second while idle
	MaxAge          float32 `yaml:"max_age"`          // Lifespan in simulation seconds
	WaterSense      float32 `yaml:"water_sense"`      // Tiles
	FoodSense       float32 `yaml:"food_sense"`       // Tiles
	MateSense       float32 `yaml:"mate_sense"`       // Tiles
	Texture         int     `yaml:"texture"`          // Sprite variant within the rabbit's sex
}

// Range is an inclusive-exclusive interval for founder randomisation.
type Range struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

// Sample draws uniformly from [Min, Max).
func (r Range) Sample(rng *rand.Rand) float32 {
	return r.Min + rng.Float32()*(r.Max-r.Min)
}

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Sample draws uniformly from [Min, Max].
func (r IntRange) Sample(rng *rand.Rand) int {
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// Ranges bounds each trait of a founder.
type Ranges struct {
	BaseSpeed       Range    `yaml:"base_speed"`
	Descendants     IntRange `yaml:"descendants"`
	DirectionChange Range    `yaml:"direction_change"`
	MaxAge          Range    `yaml:"max_age"`
	WaterSense      Range    `yaml:"water_sense"`
	FoodSense       Range    `yaml:"food_sense"`
	MateSense       Range    `yaml:"mate_sense"`
}

// Validate reports inverted or negative ranges.
func (r Ranges) Validate() error {
	var errs []error
	check := func(name string, rg Range) {
		if rg.Min < 0 || rg.Max < rg.Min {
			errs = append(errs, fmt.Errorf("%s: invalid range [%g, %g]", name, rg.Min, rg.Max))
		}
	}
	check("base_speed", r.BaseSpeed)
	check("direction_change", r.DirectionChange)
	check("max_age", r.MaxAge)
	check("water_sense", r.WaterSense)
	check("food_sense", r.FoodSense)
	check("mate_sense", r.MateSense)
	if r.Descendants.Min < 1 || r.Descendants.Max < r.Descendants.Min {
		errs = append(errs, fmt.Errorf("descendants: invalid range [%d, %d]", r.Descendants.Min, r.Descendants.Max))
	}
	return errors.Join(errs...)
}

// Founder returns generation-zero traits drawn from the given ranges.
// The caller assigns Texture since it depends on sex.
func Founder(rng *rand.Rand, r Ranges) Traits {
	return Traits{
		Generation:      0,
		BaseSpeed:       r.BaseSpeed.Sample(rng),
		Descendants:     r.Descendants.Sample(rng),
		DirectionChange: r.DirectionChange.Sample(rng),
		MaxAge:          r.MaxAge.Sample(rng),
		WaterSense:      r.WaterSense.Sample(rng),
		FoodSense:       r.FoodSense.Sample(rng),
		MateSense:       r.MateSense.Sample(rng),
	}
}
