package traits

import (
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"
)

// Strategy selects which parent a trait is inherited from.
type Strategy uint8

const (
	Average    Strategy = iota // Mean of both parents
	MotherOnly                 // Copied from the mother
	FatherOnly                 // Copied from the father
)

var strategyNames = [...]string{
	Average:    "average",
	MotherOnly: "mother",
	FatherOnly: "father",
}

// String returns the YAML name of the strategy.
func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", s)
}

// ParseStrategy converts a YAML name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown inheritance strategy %q", name)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Strategy) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseStrategy(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Strategy) MarshalYAML() (any, error) {
	return s.String(), nil
}

// pick applies the strategy to one trait.
func (s Strategy) pick(mother, father float32) float32 {
	switch s {
	case MotherOnly:
		return mother
	case FatherOnly:
		return father
	default:
		return (mother + father) / 2
	}
}

// Strategies assigns a strategy to every inheritable trait.
// Litter size always follows the mother and generation is always derived,
// so neither appears here.
type Strategies struct {
	BaseSpeed       Strategy `yaml:"base_speed"`
	DirectionChange Strategy `yaml:"direction_change"`
	MaxAge          Strategy `yaml:"max_age"`
	WaterSense      Strategy `yaml:"water_sense"`
	FoodSense       Strategy `yaml:"food_sense"`
	MateSense       Strategy `yaml:"mate_sense"`
}

// Mutator perturbs a freshly combined trait set.
type Mutator interface {
	Mutate(t Traits, rng *rand.Rand) Traits
}

// Identity is the default Mutator. It returns traits unchanged.
type Identity struct{}

// Mutate implements Mutator.
func (Identity) Mutate(t Traits, _ *rand.Rand) Traits { return t }

// Gaussian scales each continuous trait by (1 + N(0, Sigma)) with probability Rate.
type Gaussian struct {
	Rate  float64
	Sigma float64
}

// Mutate implements Mutator.
func (g Gaussian) Mutate(t Traits, rng *rand.Rand) Traits {
	jitter := func(v float32) float32 {
		if rng.Float64() >= g.Rate {
			return v
		}
		out := v * float32(1+rng.NormFloat64()*g.Sigma)
		if out < 0 {
			return 0
		}
		return out
	}
	t.BaseSpeed = jitter(t.BaseSpeed)
	t.DirectionChange = jitter(t.DirectionChange)
	t.MaxAge = jitter(t.MaxAge)
	t.WaterSense = jitter(t.WaterSense)
	t.FoodSense = jitter(t.FoodSense)
	t.MateSense = jitter(t.MateSense)
	return t
}

// NewMutator returns Identity when rate is zero, otherwise a Gaussian mutator.
func NewMutator(rate, sigma float64) Mutator {
	if rate <= 0 {
		return Identity{}
	}
	return Gaussian{Rate: rate, Sigma: sigma}
}

// Combine computes a child's traits from its parents.
// Texture is left to the caller, which picks it from the parent of the child's sex.
func Combine(mother, father Traits, s Strategies, m Mutator, rng *rand.Rand) Traits {
	child := Traits{
		Generation:      max(mother.Generation, father.Generation) + 1,
		BaseSpeed:       s.BaseSpeed.pick(mother.BaseSpeed, father.BaseSpeed),
		Descendants:     mother.Descendants,
		DirectionChange: s.DirectionChange.pick(mother.DirectionChange, father.DirectionChange),
		MaxAge:          s.MaxAge.pick(mother.MaxAge, father.MaxAge),
		WaterSense:      s.WaterSense.pick(mother.WaterSense, father.WaterSense),
		FoodSense:       s.FoodSense.pick(mother.FoodSense, father.FoodSense),
		MateSense:       s.MateSense.pick(mother.MateSense, father.MateSense),
	}
	if m == nil {
		return child
	}
	return m.Mutate(child, rng)
}
