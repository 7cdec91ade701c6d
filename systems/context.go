package systems

import (
	"math"
	"math/rand"
)

// SimContext carries the clock and random source through a tick.
// Every time-scaled rate reads DT from here.
type SimContext struct {
	Elapsed  float64 // Simulation seconds since start
	DT       float32 // Simulation seconds covered by the current tick
	Speed    int     // Multiplier applied by the last Advance
	Tick     int32
	MaxFrame float64 // Wall deltas above this advance the clock by zero
	RNG      *rand.Rand
}

// NewSimContext creates a context seeded for reproducible runs.
func NewSimContext(seed int64, maxFrame float64) *SimContext {
	return &SimContext{
		Speed:    1,
		MaxFrame: maxFrame,
		RNG:      rand.New(rand.NewSource(seed)),
	}
}

// Advance moves the clock by dt wall seconds times speed.
// A stalled frame (dt above MaxFrame) or a negative dt advances nothing.
func (c *SimContext) Advance(dt float64, speed int) {
	if dt < 0 || (c.MaxFrame > 0 && dt > c.MaxFrame) {
		dt = 0
	}
	if speed < 1 {
		speed = 1
	}
	scaled := dt * float64(speed)
	c.Speed = speed
	c.DT = float32(scaled)
	c.Elapsed += scaled
	c.Tick++
}

// Chance reports whether an event with the given per-second rate fires this tick.
// The probability 1-exp(-rate*dt) keeps expected timing independent of tick length.
func (c *SimContext) Chance(rate float64) bool {
	if rate <= 0 || c.DT <= 0 {
		return false
	}
	return c.RNG.Float64() < -math.Expm1(-rate*float64(c.DT))
}
