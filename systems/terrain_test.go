package systems

import (
	"math"
	"math/rand"
	"testing"
)

func testParams() TerrainParams {
	return TerrainParams{
		ViewportW:  330,
		ViewportH:  200,
		Rows:       40,
		Seed:       7,
		NoiseScale: 0.5,
		Octaves:    3,
		Lacunarity: 2,
		Gain:       0.5,
		Thresholds: Thresholds{Dirt: -0.8, DarkGrass: -0.5, Grass: 0.2, Sand: 0.4},
	}
}

func TestNewTerrainGridLayout(t *testing.T) {
	g, err := NewTerrainGrid(testParams())
	if err != nil {
		t.Fatal(err)
	}
	if g.TileSide() != 5 {
		t.Errorf("TileSide = %v, want 5", g.TileSide())
	}
	if g.Cols() != 66 {
		t.Errorf("Cols = %d, want 66", g.Cols())
	}
	minX, _, maxX, _ := g.Bounds()
	if minX != 0 || maxX != 330 {
		t.Errorf("bounds x = [%v, %v], want [0, 330]", minX, maxX)
	}
	for i, tile := range g.Tiles() {
		if tile.ID != i || tile.ID != tile.Row*g.Cols()+tile.Col {
			t.Fatalf("tile %d has id %d at %d,%d", i, tile.ID, tile.Col, tile.Row)
		}
		if tile.Walkable != (tile.Biome != Water) {
			t.Fatalf("tile %d walkable=%v biome=%v", i, tile.Walkable, tile.Biome)
		}
	}
}

func TestNewTerrainGridCentresColumns(t *testing.T) {
	p := testParams()
	p.ViewportW = 333 // 66 columns leave 3 units spare
	g, err := NewTerrainGrid(p)
	if err != nil {
		t.Fatal(err)
	}
	minX, _, maxX, _ := g.Bounds()
	if math.Abs(float64(minX-1.5)) > 1e-4 || math.Abs(float64(333-maxX-1.5)) > 1e-4 {
		t.Errorf("bounds x = [%v, %v], want centred margins of 1.5", minX, maxX)
	}
}

func TestTileAtInvertsTileCentre(t *testing.T) {
	for _, island := range []bool{false, true} {
		p := testParams()
		p.Island = island
		p.ViewportW = 333
		g, err := NewTerrainGrid(p)
		if err != nil {
			t.Fatal(err)
		}
		for i := range g.Tiles() {
			tile := g.Tile(i)
			if got := g.TileAt(tile.X, tile.Y); got != tile {
				t.Fatalf("TileAt(centre of %d) = %v", i, got)
			}
		}
	}
}

func TestTileAtOutOfBounds(t *testing.T) {
	g := openGrid(t, 4, 4)
	tests := []struct{ x, y float32 }{
		{-0.1, 5}, {5, -0.1}, {40, 5}, {5, 40}, {-100, -100},
	}
	for _, tt := range tests {
		if g.TileAt(tt.x, tt.y) != nil {
			t.Errorf("TileAt(%v, %v) should be nil", tt.x, tt.y)
		}
		if g.IsWater(tt.x, tt.y) {
			t.Errorf("IsWater(%v, %v) should be false off-grid", tt.x, tt.y)
		}
	}
}

func TestGenerationDeterministic(t *testing.T) {
	for _, island := range []bool{false, true} {
		p := testParams()
		p.Island = island
		a, err := NewTerrainGrid(p)
		if err != nil {
			t.Fatal(err)
		}
		b, err := NewTerrainGrid(p)
		if err != nil {
			t.Fatal(err)
		}
		for i := range a.Tiles() {
			if a.Tiles()[i] != b.Tiles()[i] {
				t.Fatalf("island=%v tile %d differs between runs", island, i)
			}
		}
	}
}

func TestGenerationMatchesNoiseBands(t *testing.T) {
	p := testParams()
	g, err := NewTerrainGrid(p)
	if err != nil {
		t.Fatal(err)
	}
	noise := NewNoiseField(p.Seed)
	scale := float64(p.Rows) * p.NoiseScale
	for _, tile := range g.Tiles() {
		v := noise.Sample(float64(tile.Col)/scale, float64(tile.Row)/scale)
		if want := p.Thresholds.Classify(v); tile.Biome != want {
			t.Fatalf("tile %d biome %v, want %v for noise %v", tile.ID, tile.Biome, want, v)
		}
	}
}

func TestIslandRimIsWater(t *testing.T) {
	p := testParams()
	p.Island = true
	p.IslandFalloff = 3
	g, err := NewTerrainGrid(p)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []int{0, g.Cols() - 1, (g.Rows()-1)*g.Cols(), g.Rows()*g.Cols() - 1} {
		if g.Tile(id).Biome != Water {
			t.Errorf("corner tile %d is %v, want water", id, g.Tile(id).Biome)
		}
	}
}

func TestClassifyBands(t *testing.T) {
	th := Thresholds{Dirt: -0.8, DarkGrass: -0.5, Grass: 0.2, Sand: 0.4}
	tests := []struct {
		v    float64
		want Biome
	}{
		{-1, Dirt}, {-0.8, DarkGrass}, {-0.6, DarkGrass}, {0, Grass},
		{0.2, Sand}, {0.39, Sand}, {0.4, Water}, {1, Water},
	}
	for _, tt := range tests {
		if got := th.Classify(tt.v); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestNewTerrainGridRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TerrainParams)
	}{
		{"zero rows", func(p *TerrainParams) { p.Rows = 0 }},
		{"zero viewport", func(p *TerrainParams) { p.ViewportH = 0 }},
		{"narrow viewport", func(p *TerrainParams) { p.ViewportW = 1 }},
		{"zero scale", func(p *TerrainParams) { p.NoiseScale = 0 }},
		{"unordered thresholds", func(p *TerrainParams) { p.Thresholds.Grass = 0.9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			if _, err := NewTerrainGrid(p); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestClosestWaterIsMinimal(t *testing.T) {
	p := testParams()
	g, err := NewTerrainGrid(p)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(5))
	const radius = 6

	for i := 0; i < 200; i++ {
		qx := rng.Float32() * p.ViewportW
		qy := rng.Float32() * p.ViewportH
		qc, qr := g.cellOf(qx, qy)

		got := g.ClosestWater(qx, qy, radius)

		best := math.Inf(1)
		for _, tile := range g.Tiles() {
			if tile.Biome != Water {
				continue
			}
			if abs(tile.Col-qc) > radius || abs(tile.Row-qr) > radius {
				continue
			}
			best = math.Min(best, math.Hypot(float64(tile.Col-qc), float64(tile.Row-qr)))
		}

		if math.IsInf(best, 1) {
			if got != nil {
				t.Fatalf("query %d: expected nil, got tile %d", i, got.ID)
			}
			continue
		}
		if got == nil {
			t.Fatalf("query %d: expected water at distance %v, got nil", i, best)
		}
		d := math.Hypot(float64(got.Col-qc), float64(got.Row-qr))
		if d != best {
			t.Fatalf("query %d: got distance %v, minimum is %v", i, d, best)
		}
	}
}

func TestClosestWaterTieKeepsRowMajorFirst(t *testing.T) {
	g := gridFromRows(t, 10,
		"..~..",
		".....",
		"~...~",
		".....",
		"..~..",
	)
	got := g.ClosestWater(25, 25, 3)
	if got == nil || got.Col != 2 || got.Row != 0 {
		t.Errorf("ClosestWater = %+v, want tile at 2,0", got)
	}
}

func TestHasWaterBetween(t *testing.T) {
	g := gridFromRows(t, 10,
		".....",
		"..~..",
		".....",
	)
	tests := []struct {
		name           string
		x0, y0, x1, y1 float32
		want           bool
	}{
		{"crosses", 5, 15, 45, 15, true},
		{"above", 5, 5, 45, 5, false},
		{"ends on water", 5, 15, 25, 15, true},
		{"single point", 5, 5, 5, 5, false},
	}
	for _, tt := range tests {
		if got := g.HasWaterBetween(tt.x0, tt.y0, tt.x1, tt.y1); got != tt.want {
			t.Errorf("%s: HasWaterBetween = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNeighbors8(t *testing.T) {
	g := openGrid(t, 3, 3)

	centre := g.Neighbors8(4)
	for i, n := range centre {
		if n == nil {
			t.Fatalf("centre neighbour %d is nil", i)
		}
		if !isAdjacent(n, g.Tile(4)) {
			t.Errorf("neighbour %+v not adjacent to centre", n)
		}
	}

	corner := g.Neighbors8(0)
	present := 0
	for _, n := range corner {
		if n != nil {
			present++
		}
	}
	if present != 3 {
		t.Errorf("corner has %d neighbours, want 3", present)
	}
}

func TestRandomTileRespectsFilter(t *testing.T) {
	g := gridFromRows(t, 10,
		"~~~~~",
		"~.g~~",
		"~~s~~",
	)
	rng := rand.New(rand.NewSource(1))
	seen := map[int]bool{}
	for i := 0; i < 100; i++ {
		tile := g.RandomTile(rng, Grassy)
		if tile == nil || !Grassy(tile.Biome) {
			t.Fatalf("RandomTile(Grassy) = %+v", tile)
		}
		seen[tile.ID] = true
	}
	if len(seen) != 2 {
		t.Errorf("saw %d distinct grass tiles, want 2", len(seen))
	}

	if tile := g.RandomTile(rng, func(b Biome) bool { return b == Dirt }); tile != nil {
		t.Errorf("expected nil when nothing matches, got %+v", tile)
	}
}

func TestSnapshotForRender(t *testing.T) {
	g := gridFromRows(t, 10, ".~")
	snap := g.SnapshotForRender()
	if len(snap) != 2 {
		t.Fatalf("len = %d, want 2", len(snap))
	}
	if snap[1].X != 10 || snap[1].Y != 0 || snap[1].Side != 10 {
		t.Errorf("sprite 1 = %+v", snap[1])
	}
	if snap[0].Color == snap[1].Color {
		t.Error("grass and water share a colour")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
