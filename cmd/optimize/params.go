// Package main provides CMA-ES optimization for rabbit ecosystem parameters.
package main

import (
	"github.com/tonygoldcrest/ecosystem-sim/config"
)

// Params is one candidate parameter set.
type Params struct {
	FoodDecay       float64 `csv:"food_decay"`
	WaterDecay      float64 `csv:"water_decay"`
	DrinkRate       float64 `csv:"drink_rate"`
	MateGrowth      float64 `csv:"mate_growth"`
	PregnancyGrowth float64 `csv:"pregnancy_growth"`
	MatingThreshold float64 `csv:"mating_threshold"`
	WaterThreshold  float64 `csv:"water_threshold"`
	FoodThreshold   float64 `csv:"food_threshold"`
	MatureAge       float64 `csv:"mature_age"`
	FoodAmount      float64 `csv:"food_amount"`
	FoodRegenRate   float64 `csv:"food_regen_rate"`
}

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
	field   func(p *Params) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Needs
			{Name: "food_decay", Min: 0.1, Max: 1.0, Default: 0.3, field: func(p *Params) *float64 { return &p.FoodDecay }},
			{Name: "water_decay", Min: 0.2, Max: 1.5, Default: 0.6, field: func(p *Params) *float64 { return &p.WaterDecay }},
			{Name: "drink_rate", Min: 2, Max: 20, Default: 6, field: func(p *Params) *float64 { return &p.DrinkRate }},
			// Breeding
			{Name: "mate_growth", Min: 0.2, Max: 2.0, Default: 0.6, field: func(p *Params) *float64 { return &p.MateGrowth }},
			{Name: "pregnancy_growth", Min: 0.2, Max: 2.0, Default: 0.6, field: func(p *Params) *float64 { return &p.PregnancyGrowth }},
			{Name: "mating_threshold", Min: 20, Max: 90, Default: 50, field: func(p *Params) *float64 { return &p.MatingThreshold }},
			{Name: "mature_age", Min: 10, Max: 120, Default: 40, field: func(p *Params) *float64 { return &p.MatureAge }},
			// Behaviour
			{Name: "water_threshold", Min: 30, Max: 80, Default: 60, field: func(p *Params) *float64 { return &p.WaterThreshold }},
			{Name: "food_threshold", Min: 30, Max: 80, Default: 60, field: func(p *Params) *float64 { return &p.FoodThreshold }},
			// Food supply
			{Name: "food_amount", Min: 50, Max: 800, Default: 250, field: func(p *Params) *float64 { return &p.FoodAmount }},
			{Name: "food_regen_rate", Min: 0.001, Max: 0.1, Default: 0.006, field: func(p *Params) *float64 { return &p.FoodRegenRate }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Params clamps a raw vector into a named parameter set.
func (pv *ParamVector) Params(values []float64) Params {
	var p Params
	for i, v := range pv.Clamp(values) {
		*pv.Specs[i].field(&p) = v
	}
	return p
}

// Vector extracts raw values from a parameter set in spec order.
func (pv *ParamVector) Vector(p Params) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = *spec.field(&p)
	}
	return v
}

// ApplyToConfig writes the parameter set into cfg.
func (p Params) ApplyToConfig(cfg *config.Config) {
	rc := &cfg.Rabbit
	rc.FoodDecay = float32(p.FoodDecay)
	rc.WaterDecay = float32(p.WaterDecay)
	rc.DrinkRate = float32(p.DrinkRate)
	rc.MateGrowth = float32(p.MateGrowth)
	rc.PregnancyGrowth = float32(p.PregnancyGrowth)
	rc.MatingThreshold = float32(p.MatingThreshold)
	rc.WaterThreshold = float32(p.WaterThreshold)
	rc.FoodThreshold = float32(p.FoodThreshold)
	rc.MatureAge = float32(p.MatureAge)

	cfg.Food.Amount = int(p.FoodAmount)
	cfg.Food.RegenRate = p.FoodRegenRate
}

// ParamsFromConfig reads the optimizable values out of cfg.
func ParamsFromConfig(cfg *config.Config) Params {
	rc := &cfg.Rabbit
	return Params{
		FoodDecay:       float64(rc.FoodDecay),
		WaterDecay:      float64(rc.WaterDecay),
		DrinkRate:       float64(rc.DrinkRate),
		MateGrowth:      float64(rc.MateGrowth),
		PregnancyGrowth: float64(rc.PregnancyGrowth),
		MatingThreshold: float64(rc.MatingThreshold),
		WaterThreshold:  float64(rc.WaterThreshold),
		FoodThreshold:   float64(rc.FoodThreshold),
		MatureAge:       float64(rc.MatureAge),
		FoodAmount:      float64(cfg.Food.Amount),
		FoodRegenRate:   cfg.Food.RegenRate,
	}
}
