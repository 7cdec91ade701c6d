// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tonygoldcrest/ecosystem-sim/traits"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Physics     PhysicsConfig     `yaml:"physics"`
	World       WorldConfig       `yaml:"world"`
	Terrain     TerrainConfig     `yaml:"terrain"`
	Food        FoodConfig        `yaml:"food"`
	Population  PopulationConfig  `yaml:"population"`
	Rabbit      RabbitConfig      `yaml:"rabbit"`
	Genetics    GeneticsConfig    `yaml:"genetics"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Speed       SpeedConfig       `yaml:"speed"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Bookmarks   BookmarksConfig   `yaml:"bookmarks"`
	Server      ServerConfig      `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. The world spans the screen.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the fixed timestep used by headless runs.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`        // Seconds per headless tick
	MaxFrame float64 `yaml:"max_frame"` // Frames longer than this advance the clock by zero
}

// WorldConfig selects the grid resolution and generation mode.
type WorldConfig struct {
	Rows       int    `yaml:"rows"`
	Generation string `yaml:"generation"` // "plain" or "island"
	Seed       int64  `yaml:"seed"`
}

// Generation modes.
const (
	GenerationPlain  = "plain"
	GenerationIsland = "island"
)

// TerrainConfig holds noise sampling and biome banding parameters.
type TerrainConfig struct {
	NoiseScale    float64           `yaml:"noise_scale"` // Noise period as a fraction of rows
	Octaves       int               `yaml:"octaves"`
	Lacunarity    float64           `yaml:"lacunarity"`
	Gain          float64           `yaml:"gain"`
	IslandFalloff float64           `yaml:"island_falloff"`
	Thresholds    ThresholdsConfig  `yaml:"thresholds"`
	Palette       map[string]string `yaml:"palette"` // biome name -> hex colour
}

// ThresholdsConfig holds the upper bound of each biome band.
// Anything at or above Sand is water.
type ThresholdsConfig struct {
	Dirt      float64 `yaml:"dirt"`
	DarkGrass float64 `yaml:"dark_grass"`
	Grass     float64 `yaml:"grass"`
	Sand      float64 `yaml:"sand"`
}

// FoodConfig holds food source pool parameters.
type FoodConfig struct {
	Amount    int     `yaml:"amount"`
	RegenRate float64 `yaml:"regen_rate"` // Expected regenerations per empty source per second
}

// PopulationConfig holds founder population parameters.
type PopulationConfig struct {
	Initial     int      `yaml:"initial"`
	SpawnJitter float32  `yaml:"spawn_jitter"` // Max offset of a newborn from its mother
	Names       []string `yaml:"names"`
}

// RabbitConfig holds per-agent behaviour constants. Rates are per simulation second.
type RabbitConfig struct {
	MinSize float32 `yaml:"min_size"`
	MaxSize float32 `yaml:"max_size"`

	InitialWater    traits.Range `yaml:"initial_water"`
	InitialFood     traits.Range `yaml:"initial_food"`
	WaterThreshold  float32      `yaml:"water_threshold"`
	FoodThreshold   float32      `yaml:"food_threshold"`
	ThresholdJitter float32      `yaml:"threshold_jitter"`
	MatingThreshold float32      `yaml:"mating_threshold"`
	NeedMax         float32      `yaml:"need_max"`
	PregnancyFull   float32      `yaml:"pregnancy_full"`
	MatureAge       float32      `yaml:"mature_age"`       // Seconds
	FoodDecay       float32      `yaml:"food_decay"`
	WaterDecay      float32      `yaml:"water_decay"`
	DrinkRate       float32      `yaml:"drink_rate"`
	MateGrowth      float32      `yaml:"mate_growth"`
	PregnancyGrowth float32      `yaml:"pregnancy_growth"`
	IllnessRate     float64      `yaml:"illness_rate"`     // Deaths per second per agent
	ArriveDistance  float32      `yaml:"arrive_distance"`
	WaterGiveUp     float32      `yaml:"water_give_up"`
	FoodGiveUp      float32      `yaml:"food_give_up"`
	MateGiveUp      float32      `yaml:"mate_give_up"`
	FieldOfView     float32      `yaml:"field_of_view"`
	VelocityScale   float32      `yaml:"velocity_scale"`   // World units per second at speed 1
	WanderSpeed     float32      `yaml:"wander_speed"`
	SeekSpeed       float32      `yaml:"seek_speed"`
	HopAmplitude    float32      `yaml:"hop_amplitude"`
	HopFrequency    float32      `yaml:"hop_frequency"`    // Radians per second at speed 1
	HopGrow         float32      `yaml:"hop_grow"`
	ReorientDelay   float64      `yaml:"reorient_delay"`   // Max seconds before bouncing off water
	ResumeDelay     float64      `yaml:"resume_delay"`     // Max seconds before a released female walks off
	SeekCooldown    float64      `yaml:"seek_cooldown"`    // Max seconds without food or mate searches after water blocked one
	TexturesPerSex  int          `yaml:"textures_per_sex"`
}

// GeneticsConfig holds founder trait ranges, inheritance strategies and mutation.
type GeneticsConfig struct {
	Founder    traits.Ranges     `yaml:"founder"`
	Strategies traits.Strategies `yaml:"strategies"`
	Mutation   MutationConfig    `yaml:"mutation"`
}

// MutationConfig holds mutation parameters. A zero rate disables mutation.
type MutationConfig struct {
	Rate  float64 `yaml:"rate"`
	Sigma float64 `yaml:"sigma"`
}

// PathfindingConfig holds A* routing parameters.
type PathfindingConfig struct {
	WalkableOnly  bool    `yaml:"walkable_only"`
	WaypointReach float32 `yaml:"waypoint_reach"`
}

// SpeedConfig holds the user-selectable simulation speed multipliers.
type SpeedConfig struct {
	Levels            []int `yaml:"levels"`
	MaxStepMultiplier int   `yaml:"max_step_multiplier"` // Largest speed covered by one tick; faster runs are split
}

// TelemetryConfig holds telemetry and logging parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	LogDeaths           bool    `yaml:"log_deaths"`
}

// BookmarksConfig holds automatic bookmark detection parameters.
type BookmarksConfig struct {
	Enabled         bool    `yaml:"enabled"`
	HistorySize     int     `yaml:"history_size"`
	CrashDrop       float64 `yaml:"crash_drop"`        // Fractional drop from recent peak
	BoomBirthFactor float64 `yaml:"boom_birth_factor"` // Births vs rolling average
}

// ServerConfig holds the optional read-only stats endpoint.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ScreenW32 float32
	ScreenH32 float32
	Palette   map[string]Color // parsed Terrain.Palette
}

// Color is an RGBA colour parsed from the palette.
type Color struct {
	R, G, B, A uint8
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// validate rejects parameters the world cannot be generated from.
func (c *Config) validate() error {
	var errs []error
	if c.World.Rows <= 0 {
		errs = append(errs, fmt.Errorf("world.rows must be positive, got %d", c.World.Rows))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.World.Generation != GenerationPlain && c.World.Generation != GenerationIsland {
		errs = append(errs, fmt.Errorf("world.generation must be %q or %q, got %q",
			GenerationPlain, GenerationIsland, c.World.Generation))
	}
	if c.Terrain.NoiseScale <= 0 {
		errs = append(errs, errors.New("terrain.noise_scale must be positive"))
	}
	t := c.Terrain.Thresholds
	if !(t.Dirt <= t.DarkGrass && t.DarkGrass <= t.Grass && t.Grass <= t.Sand) {
		errs = append(errs, errors.New("terrain.thresholds must be ordered dirt <= dark_grass <= grass <= sand"))
	}
	if c.Food.Amount < 0 {
		errs = append(errs, errors.New("food.amount must not be negative"))
	}
	if c.Physics.DT <= 0 {
		errs = append(errs, errors.New("physics.dt must be positive"))
	}
	if len(c.Speed.Levels) == 0 {
		errs = append(errs, errors.New("speed.levels must not be empty"))
	}
	if c.Speed.MaxStepMultiplier < 1 {
		errs = append(errs, errors.New("speed.max_step_multiplier must be at least 1"))
	}
	if c.Rabbit.MaxSize < c.Rabbit.MinSize {
		errs = append(errs, errors.New("rabbit.max_size must be at least rabbit.min_size"))
	}
	if c.Rabbit.TexturesPerSex < 1 {
		errs = append(errs, errors.New("rabbit.textures_per_sex must be at least 1"))
	}
	if err := c.Genetics.Founder.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("genetics.founder: %w", err))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.Palette = make(map[string]Color, len(c.Terrain.Palette))
	for name, hex := range c.Terrain.Palette {
		col, err := ParseHexColor(hex)
		if err != nil {
			return fmt.Errorf("terrain.palette.%s: %w", name, err)
		}
		c.Derived.Palette[name] = col
	}
	return nil
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (Color, error) {
	col := Color{A: 255}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%2x%2x%2x", &col.R, &col.G, &col.B)
	case 9:
		_, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &col.R, &col.G, &col.B, &col.A)
	default:
		err = fmt.Errorf("malformed colour %q", s)
	}
	if err != nil {
		return Color{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	return col, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
