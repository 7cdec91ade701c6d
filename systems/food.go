package systems

import (
	"math/rand"
)

// FoodSource is a patch of food on a grass tile.
type FoodSource struct {
	X, Y  float32
	Empty bool
}

// FoodSourceManager owns a fixed pool of food sources. Sources are addressed by
// index, which stays valid for the whole run.
type FoodSourceManager struct {
	grid      *TerrainGrid
	sources   []FoodSource
	regenRate float64
}

// NewFoodSourceManager creates a pool of amount sources. Call Generate to place them.
func NewFoodSourceManager(grid *TerrainGrid, amount int, regenRate float64) *FoodSourceManager {
	return &FoodSourceManager{
		grid:      grid,
		sources:   make([]FoodSource, amount),
		regenRate: regenRate,
	}
}

// Generate places every source on a random grass tile. On a grid without grass
// all sources start empty.
func (m *FoodSourceManager) Generate(rng *rand.Rand) {
	for i := range m.sources {
		m.relocate(i, rng)
	}
}

func (m *FoodSourceManager) relocate(i int, rng *rand.Rand) {
	tile := m.grid.RandomTile(rng, Grassy)
	if tile == nil {
		m.sources[i] = FoodSource{Empty: true}
		return
	}
	m.sources[i] = FoodSource{X: tile.X, Y: tile.Y}
}

// Len returns the pool capacity.
func (m *FoodSourceManager) Len() int { return len(m.sources) }

// Source returns the source at index i, or nil.
func (m *FoodSourceManager) Source(i int) *FoodSource {
	if i < 0 || i >= len(m.sources) {
		return nil
	}
	return &m.sources[i]
}

// Available counts non-empty sources.
func (m *FoodSourceManager) Available() int {
	n := 0
	for i := range m.sources {
		if !m.sources[i].Empty {
			n++
		}
	}
	return n
}

// ClosestAvailable returns the index of the nearest non-empty source strictly
// closer than maxDist, or -1. Ties keep the lowest index.
func (m *FoodSourceManager) ClosestAvailable(x, y, maxDist float32) int {
	best := -1
	bestSq := maxDist * maxDist
	for i := range m.sources {
		s := &m.sources[i]
		if s.Empty {
			continue
		}
		if d := distanceSq(x, y, s.X, s.Y); d < bestSq {
			bestSq = d
			best = i
		}
	}
	return best
}

// Consume empties source i. It reports false if the source was already empty.
func (m *FoodSourceManager) Consume(i int) bool {
	s := m.Source(i)
	if s == nil || s.Empty {
		return false
	}
	s.Empty = true
	return true
}

// Tick regrows empty sources. Each one independently regenerates with a
// probability scaled by the tick length and moves to a fresh grass tile.
// Returns the number regenerated.
func (m *FoodSourceManager) Tick(ctx *SimContext) int {
	n := 0
	for i := range m.sources {
		if !m.sources[i].Empty {
			continue
		}
		if ctx.Chance(m.regenRate) {
			m.relocate(i, ctx.RNG)
			if !m.sources[i].Empty {
				n++
			}
		}
	}
	return n
}

// FoodSprite is the render view of a food source.
type FoodSprite struct {
	X, Y float32
}

// SnapshotForRender returns the positions of non-empty sources.
func (m *FoodSourceManager) SnapshotForRender() []FoodSprite {
	out := make([]FoodSprite, 0, len(m.sources))
	for i := range m.sources {
		if !m.sources[i].Empty {
			out = append(out, FoodSprite{X: m.sources[i].X, Y: m.sources[i].Y})
		}
	}
	return out
}
