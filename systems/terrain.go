package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/tonygoldcrest/ecosystem-sim/config"
)

// Biome classifies a tile.
type Biome uint8

const (
	Dirt Biome = iota
	DarkGrass
	Grass
	Sand
	Water

	NumBiomes
)

var biomeNames = [NumBiomes]string{
	Dirt:      "dirt",
	DarkGrass: "dark_grass",
	Grass:     "grass",
	Sand:      "sand",
	Water:     "water",
}

// String returns the biome's palette key.
func (b Biome) String() string {
	if b < NumBiomes {
		return biomeNames[b]
	}
	return fmt.Sprintf("Biome(%d)", b)
}

// BiomeFilter selects tiles for RandomTile.
type BiomeFilter func(Biome) bool

// NotWater matches every land biome.
func NotWater(b Biome) bool { return b != Water }

// Grassy matches Grass and DarkGrass.
func Grassy(b Biome) bool { return b == Grass || b == DarkGrass }

// Tile is one cell of the terrain grid. Tiles never change after generation.
type Tile struct {
	ID       int
	Col, Row int
	X, Y     float32 // World coordinates of the tile centre
	Biome    Biome
	Walkable bool
}

// Thresholds are the upper bounds of the biome bands, lowest first.
// Values at or above Sand are Water.
type Thresholds struct {
	Dirt, DarkGrass, Grass, Sand float64
}

// Classify maps a noise value to a biome.
func (t Thresholds) Classify(v float64) Biome {
	switch {
	case v < t.Dirt:
		return Dirt
	case v < t.DarkGrass:
		return DarkGrass
	case v < t.Grass:
		return Grass
	case v < t.Sand:
		return Sand
	default:
		return Water
	}
}

func (t Thresholds) ordered() bool {
	return t.Dirt <= t.DarkGrass && t.DarkGrass <= t.Grass && t.Grass <= t.Sand
}

// TerrainParams describes how to generate a grid.
type TerrainParams struct {
	ViewportW, ViewportH float32
	Rows                 int
	Island               bool
	Seed                 int64
	NoiseScale           float64 // Noise period as a fraction of Rows
	Octaves              int
	Lacunarity           float64
	Gain                 float64
	IslandFalloff        float64
	Thresholds           Thresholds
	Palette              map[string]config.Color
}

// TerrainParamsFromConfig builds generation parameters from the loaded config.
func TerrainParamsFromConfig(cfg *config.Config) TerrainParams {
	th := cfg.Terrain.Thresholds
	return TerrainParams{
		ViewportW:     cfg.Derived.ScreenW32,
		ViewportH:     cfg.Derived.ScreenH32,
		Rows:          cfg.World.Rows,
		Island:        cfg.World.Generation == config.GenerationIsland,
		Seed:          cfg.World.Seed,
		NoiseScale:    cfg.Terrain.NoiseScale,
		Octaves:       cfg.Terrain.Octaves,
		Lacunarity:    cfg.Terrain.Lacunarity,
		Gain:          cfg.Terrain.Gain,
		IslandFalloff: cfg.Terrain.IslandFalloff,
		Thresholds:    Thresholds{Dirt: th.Dirt, DarkGrass: th.DarkGrass, Grass: th.Grass, Sand: th.Sand},
		Palette:       cfg.Derived.Palette,
	}
}

// TerrainGrid owns the biome tiles. Dimensions are fixed at construction.
type TerrainGrid struct {
	tiles     []Tile
	rows      int
	cols      int
	side      float32
	colOffset float32
	rowOffset float32
	palette   [NumBiomes]config.Color
}

var defaultPalette = [NumBiomes]config.Color{
	Dirt:      {R: 139, G: 106, B: 70, A: 255},
	DarkGrass: {R: 63, G: 122, B: 50, A: 255},
	Grass:     {R: 95, G: 160, B: 67, A: 255},
	Sand:      {R: 224, G: 207, B: 138, A: 255},
	Water:     {R: 59, G: 127, B: 196, A: 255},
}

// NewTerrainGrid generates a grid that fills the viewport.
// The grid is as tall as the viewport and centred horizontally.
func NewTerrainGrid(p TerrainParams) (*TerrainGrid, error) {
	if p.Rows <= 0 {
		return nil, fmt.Errorf("terrain rows must be positive, got %d", p.Rows)
	}
	if p.ViewportW <= 0 || p.ViewportH <= 0 {
		return nil, fmt.Errorf("viewport must be positive, got %gx%g", p.ViewportW, p.ViewportH)
	}
	if p.NoiseScale <= 0 {
		return nil, errors.New("noise scale must be positive")
	}
	if !p.Thresholds.ordered() {
		return nil, errors.New("biome thresholds must be ascending")
	}

	side := p.ViewportH / float32(p.Rows)
	cols := int(p.ViewportW / side)
	if cols <= 0 {
		return nil, fmt.Errorf("viewport %gx%g too narrow for %d rows", p.ViewportW, p.ViewportH, p.Rows)
	}

	g := newGrid(cols, p.Rows, side)
	g.colOffset = (p.ViewportW - float32(cols)*side) / 2
	g.rowOffset = (p.ViewportH - float32(p.Rows)*side) / 2
	g.applyPalette(p.Palette)

	noise := NewNoiseField(p.Seed)
	scale := float64(p.Rows) * p.NoiseScale
	centreX, centreY := float64(cols-1)/2, float64(p.Rows-1)/2
	maxDist := math.Hypot(centreX, centreY)

	for row := 0; row < p.Rows; row++ {
		for col := 0; col < cols; col++ {
			x, y := float64(col)/scale, float64(row)/scale
			var v float64
			if p.Island {
				elevation := noise.Fractal(x, y, p.Octaves, p.Lacunarity, p.Gain)
				dist := math.Hypot(float64(col)-centreX, float64(row)-centreY) / maxDist
				// Low values band as land, so distance pushes the rim into water.
				v = p.IslandFalloff*dist - elevation
			} else {
				v = noise.Sample(x, y)
			}
			g.initTile(col, row, p.Thresholds.Classify(v))
		}
	}

	return g, nil
}

// NewTerrainGridFromBiomes builds a grid from an explicit row-major biome layout
// with its first tile's corner at the world origin.
func NewTerrainGridFromBiomes(cols, rows int, side float32, biomes []Biome) (*TerrainGrid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", cols, rows)
	}
	if side <= 0 {
		return nil, fmt.Errorf("tile side must be positive, got %g", side)
	}
	if len(biomes) != cols*rows {
		return nil, fmt.Errorf("expected %d biomes, got %d", cols*rows, len(biomes))
	}

	g := newGrid(cols, rows, side)
	g.applyPalette(nil)
	for i, b := range biomes {
		g.initTile(i%cols, i/cols, b)
	}
	return g, nil
}

func newGrid(cols, rows int, side float32) *TerrainGrid {
	return &TerrainGrid{
		tiles: make([]Tile, cols*rows),
		rows:  rows,
		cols:  cols,
		side:  side,
	}
}

func (g *TerrainGrid) applyPalette(p map[string]config.Color) {
	g.palette = defaultPalette
	for b := Biome(0); b < NumBiomes; b++ {
		if c, ok := p[b.String()]; ok {
			g.palette[b] = c
		}
	}
}

func (g *TerrainGrid) initTile(col, row int, b Biome) {
	id := row*g.cols + col
	g.tiles[id] = Tile{
		ID:       id,
		Col:      col,
		Row:      row,
		X:        g.colOffset + g.side/2 + float32(col)*g.side,
		Y:        g.rowOffset + g.side/2 + float32(row)*g.side,
		Biome:    b,
		Walkable: b != Water,
	}
}

// Rows returns the grid height in tiles.
func (g *TerrainGrid) Rows() int { return g.rows }

// Cols returns the grid width in tiles.
func (g *TerrainGrid) Cols() int { return g.cols }

// TileSide returns the tile edge length in world units.
func (g *TerrainGrid) TileSide() float32 { return g.side }

// Tiles returns the tile slice. Callers must not modify it.
func (g *TerrainGrid) Tiles() []Tile { return g.tiles }

// Tile returns the tile with the given id, or nil.
func (g *TerrainGrid) Tile(id int) *Tile {
	if id < 0 || id >= len(g.tiles) {
		return nil
	}
	return &g.tiles[id]
}

// Bounds returns the world-space rectangle covered by tiles.
func (g *TerrainGrid) Bounds() (minX, minY, maxX, maxY float32) {
	return g.colOffset, g.rowOffset,
		g.colOffset + float32(g.cols)*g.side,
		g.rowOffset + float32(g.rows)*g.side
}

// cellOf converts world coordinates to unclamped grid indices.
func (g *TerrainGrid) cellOf(x, y float32) (col, row int) {
	col = int(math.Floor(float64((x - g.colOffset) / g.side)))
	row = int(math.Floor(float64((y - g.rowOffset) / g.side)))
	return col, row
}

// TileAt returns the tile containing (x, y), or nil outside the grid.
func (g *TerrainGrid) TileAt(x, y float32) *Tile {
	col, row := g.cellOf(x, y)
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return nil
	}
	return &g.tiles[row*g.cols+col]
}

// InBounds reports whether (x, y) lies on the grid.
func (g *TerrainGrid) InBounds(x, y float32) bool {
	return g.TileAt(x, y) != nil
}

// IsWater reports whether (x, y) is on a water tile. Off-grid points are not water.
func (g *TerrainGrid) IsWater(x, y float32) bool {
	t := g.TileAt(x, y)
	return t != nil && t.Biome == Water
}

// RandomTile picks uniformly among tiles matching filter. Returns nil when none match.
func (g *TerrainGrid) RandomTile(rng *rand.Rand, filter BiomeFilter) *Tile {
	count := 0
	for i := range g.tiles {
		if filter(g.tiles[i].Biome) {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	pick := rng.Intn(count)
	for i := range g.tiles {
		if !filter(g.tiles[i].Biome) {
			continue
		}
		if pick == 0 {
			return &g.tiles[i]
		}
		pick--
	}
	return nil
}

// ClosestWater scans the square of radius tiles around (x, y), clamped to the grid,
// and returns the water tile nearest in grid distance. Ties keep the first tile in
// row-major order. Returns nil if the square holds no water.
func (g *TerrainGrid) ClosestWater(x, y float32, radius int) *Tile {
	col, row := g.cellOf(x, y)
	minCol, maxCol := max(col-radius, 0), min(col+radius, g.cols-1)
	minRow, maxRow := max(row-radius, 0), min(row+radius, g.rows-1)

	var best *Tile
	bestDist := math.Inf(1)
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			t := &g.tiles[r*g.cols+c]
			if t.Biome != Water {
				continue
			}
			d := math.Hypot(float64(c-col), float64(r-row))
			if d < bestDist {
				bestDist = d
				best = t
			}
		}
	}
	return best
}

// HasWaterBetween samples the segment every tile side, both ends included,
// and reports whether any sample lands on water.
func (g *TerrainGrid) HasWaterBetween(x0, y0, x1, y1 float32) bool {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	steps := int(math.Ceil(float64(length / g.side)))
	if steps == 0 {
		return g.IsWater(x0, y0)
	}
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		if g.IsWater(x0+dx*t, y0+dy*t) {
			return true
		}
	}
	return false
}

// neighborOffsets lists the 8 surrounding cells, row by row.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors8 returns the eight tiles around id. Entries off the grid are nil.
func (g *TerrainGrid) Neighbors8(id int) [8]*Tile {
	var out [8]*Tile
	if id < 0 || id >= len(g.tiles) {
		return out
	}
	col, row := id%g.cols, id/g.cols
	for i, off := range neighborOffsets {
		c, r := col+off[0], row+off[1]
		if c < 0 || c >= g.cols || r < 0 || r >= g.rows {
			continue
		}
		out[i] = &g.tiles[r*g.cols+c]
	}
	return out
}

// TileSprite is the render view of one tile.
type TileSprite struct {
	X, Y  float32 // Top-left corner
	Side  float32
	Color config.Color
}

// SnapshotForRender returns one sprite per tile in id order.
func (g *TerrainGrid) SnapshotForRender() []TileSprite {
	out := make([]TileSprite, len(g.tiles))
	half := g.side / 2
	for i := range g.tiles {
		t := &g.tiles[i]
		out[i] = TileSprite{
			X:     t.X - half,
			Y:     t.Y - half,
			Side:  g.side,
			Color: g.palette[t.Biome],
		}
	}
	return out
}

// BiomeCounts returns how many tiles of each biome the grid holds.
func (g *TerrainGrid) BiomeCounts() [NumBiomes]int {
	var counts [NumBiomes]int
	for i := range g.tiles {
		counts[g.tiles[i].Biome]++
	}
	return counts
}
