// Package telemetry provides population tracking, bookmarks, lifetimes and snapshots.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-" json:"window_start"`
	WindowEndTick   int32   `csv:"window_end" json:"window_end"`
	SimTimeSec      float64 `csv:"sim_time" json:"sim_time"`

	// Population at window end
	Population    int `csv:"population" json:"population"`
	Males         int `csv:"males" json:"males"`
	Females       int `csv:"females" json:"females"`
	Pregnant      int `csv:"pregnant" json:"pregnant"`
	MaxGeneration int `csv:"max_generation" json:"max_generation"`

	// Events during window
	Births            int `csv:"births" json:"births"`
	Deaths            int `csv:"deaths" json:"deaths"`
	DeathsDrowned     int `csv:"deaths_drowned" json:"deaths_drowned"`
	DeathsStarvation  int `csv:"deaths_starvation" json:"deaths_starvation"`
	DeathsThirst      int `csv:"deaths_thirst" json:"deaths_thirst"`
	DeathsAge         int `csv:"deaths_age" json:"deaths_age"`
	DeathsOutOfBounds int `csv:"deaths_out_of_bounds" json:"deaths_out_of_bounds"`
	DeathsIllness     int `csv:"deaths_illness" json:"deaths_illness"`

	// Behaviour
	Meals        int `csv:"meals" json:"meals"`
	Drinks       int `csv:"drinks" json:"drinks"`
	Matings      int `csv:"matings" json:"matings"`
	Abandoned    int `csv:"abandoned" json:"abandoned"`
	Reorients    int `csv:"reorients" json:"reorients"`
	PathsPlanned int `csv:"paths_planned" json:"paths_planned"`
	PathsFailed  int `csv:"paths_failed" json:"paths_failed"`

	FoodAvailable int `csv:"food_available" json:"food_available"`

	// Needs (sampled at window end)
	WaterMean float64 `csv:"water_mean" json:"water_mean"`
	WaterP10  float64 `csv:"water_p10" json:"water_p10"`
	FoodMean  float64 `csv:"food_mean" json:"food_mean"`
	FoodP10   float64 `csv:"food_p10" json:"food_p10"`
	AgeP50    float64 `csv:"age_p50" json:"age_p50"`
	AgeP90    float64 `csv:"age_p90" json:"age_p90"`

	// Gene pool
	BaseSpeedMean   float64 `csv:"base_speed_mean" json:"base_speed_mean"`
	BaseSpeedStd    float64 `csv:"base_speed_std" json:"base_speed_std"`
	MaxAgeMean      float64 `csv:"max_age_mean" json:"max_age_mean"`
	MaxAgeStd       float64 `csv:"max_age_std" json:"max_age_std"`
	DescendantsMean float64 `csv:"descendants_mean" json:"descendants_mean"`
	DescendantsStd  float64 `csv:"descendants_std" json:"descendants_std"`
	WaterSenseMean  float64 `csv:"water_sense_mean" json:"water_sense_mean"`
	FoodSenseMean   float64 `csv:"food_sense_mean" json:"food_sense_mean"`
	MateSenseMean   float64 `csv:"mate_sense_mean" json:"mate_sense_mean"`
}

// Distribution summarises a sample.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Summarize computes the mean, standard deviation and empirical quantiles.
// An empty sample yields zeros; a single value has zero spread.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
	if n > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"males", s.Males,
		"females", s.Females,
		"pregnant", s.Pregnant,
		"max_generation", s.MaxGeneration,
		"births", s.Births,
		"deaths", s.Deaths,
		"deaths_drowned", s.DeathsDrowned,
		"deaths_starvation", s.DeathsStarvation,
		"deaths_thirst", s.DeathsThirst,
		"deaths_age", s.DeathsAge,
		"deaths_out_of_bounds", s.DeathsOutOfBounds,
		"deaths_illness", s.DeathsIllness,
		"meals", s.Meals,
		"drinks", s.Drinks,
		"matings", s.Matings,
		"paths_planned", s.PathsPlanned,
		"paths_failed", s.PathsFailed,
		"food_available", s.FoodAvailable,
		"water_mean", s.WaterMean,
		"food_mean", s.FoodMean,
		"base_speed_mean", s.BaseSpeedMean,
		"max_age_mean", s.MaxAgeMean,
		"descendants_mean", s.DescendantsMean,
	)
}
