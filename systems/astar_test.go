package systems

import (
	"math"
	"testing"
)

// gridFromRows builds a grid from strings: '~' water, '.' grass, 'd' dirt.
func gridFromRows(t *testing.T, side float32, rows ...string) *TerrainGrid {
	t.Helper()
	cols := len(rows[0])
	biomes := make([]Biome, 0, cols*len(rows))
	for _, r := range rows {
		if len(r) != cols {
			t.Fatalf("ragged grid row %q", r)
		}
		for _, ch := range r {
			switch ch {
			case '~':
				biomes = append(biomes, Water)
			case 'd':
				biomes = append(biomes, Dirt)
			case 's':
				biomes = append(biomes, Sand)
			case 'g':
				biomes = append(biomes, DarkGrass)
			default:
				biomes = append(biomes, Grass)
			}
		}
	}
	g, err := NewTerrainGridFromBiomes(cols, len(rows), side, biomes)
	if err != nil {
		t.Fatalf("NewTerrainGridFromBiomes: %v", err)
	}
	return g
}

func openGrid(t *testing.T, cols, rows int) *TerrainGrid {
	t.Helper()
	biomes := make([]Biome, cols*rows)
	for i := range biomes {
		biomes[i] = Grass
	}
	g, err := NewTerrainGridFromBiomes(cols, rows, 10, biomes)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func tileAtCR(g *TerrainGrid, col, row int) *Tile {
	return g.Tile(row*g.Cols() + col)
}

func isAdjacent(a, b *Tile) bool {
	dc, dr := a.Col-b.Col, a.Row-b.Row
	if dc == 0 && dr == 0 {
		return false
	}
	return dc >= -1 && dc <= 1 && dr >= -1 && dr <= 1
}

func pathLength(path []*Tile) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += math.Hypot(float64(path[i].Col-path[i-1].Col), float64(path[i].Row-path[i-1].Row))
	}
	return total
}

func TestFindPathSameTile(t *testing.T) {
	g := openGrid(t, 5, 5)
	start := tileAtCR(g, 2, 2)

	res := FindPath(g, start, start, Euclidean)
	if len(res.Path) != 1 || res.Path[0] != start {
		t.Fatalf("path = %v, want single start tile", res.Path)
	}
	if res.Expanded != 0 {
		t.Errorf("Expanded = %d, want 0", res.Expanded)
	}
}

func TestFindPathAdjacencyAndOrder(t *testing.T) {
	g := openGrid(t, 20, 20)

	tests := []struct {
		name                   string
		fromC, fromR, toC, toR int
	}{
		{"diagonal", 0, 0, 15, 7},
		{"straight", 3, 10, 18, 10},
		{"reverse", 19, 19, 0, 2},
		{"neighbour", 5, 5, 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := tileAtCR(g, tt.fromC, tt.fromR), tileAtCR(g, tt.toC, tt.toR)
			res := FindPath(g, from, to, Euclidean)
			if !res.Found() {
				t.Fatal("expected a path")
			}
			if res.Path[0] != to {
				t.Errorf("first element = %+v, want goal", res.Path[0])
			}
			if res.Path[len(res.Path)-1] != from {
				t.Errorf("last element = %+v, want start", res.Path[len(res.Path)-1])
			}
			for i := 1; i < len(res.Path); i++ {
				if !isAdjacent(res.Path[i-1], res.Path[i]) {
					t.Errorf("tiles %d and %d not 8-adjacent: %+v %+v", i-1, i, res.Path[i-1], res.Path[i])
				}
			}
			straight := float64(Euclidean(from, to))
			if got := pathLength(res.Path); got < straight-1e-6 {
				t.Errorf("path length %.3f shorter than straight line %.3f", got, straight)
			}
		})
	}
}

func TestFindPathMissingEndpoint(t *testing.T) {
	g := openGrid(t, 5, 5)
	if res := FindPath(g, nil, tileAtCR(g, 1, 1), Euclidean); res.Found() {
		t.Error("expected no path for nil start")
	}
	if p := (Planner{}).FindPathWorld(g, 5, 5, 500, 500); p != nil {
		t.Error("expected no path for off-grid goal")
	}
}

func TestFindPathCrossesWaterByDefault(t *testing.T) {
	g := gridFromRows(t, 10,
		"..~..",
		"..~..",
		"..~..",
		"..~..",
		"..~..",
	)
	res := FindPath(g, tileAtCR(g, 0, 2), tileAtCR(g, 4, 2), Euclidean)
	if !res.Found() {
		t.Fatal("unfiltered search should cross the water column")
	}
}

func TestFindPathWalkableOnly(t *testing.T) {
	g := gridFromRows(t, 10,
		"..~..",
		"..~..",
		"..~..",
		"..~..",
		".....",
	)
	p := Planner{WalkableOnly: true}
	res := p.FindPath(g, tileAtCR(g, 0, 0), tileAtCR(g, 4, 0))
	if !res.Found() {
		t.Fatal("expected a path around the water")
	}
	for _, tile := range res.Path {
		if !tile.Walkable {
			t.Errorf("path steps onto water at %d,%d", tile.Col, tile.Row)
		}
	}
}

func TestFindPathUnreachableTerminates(t *testing.T) {
	g := gridFromRows(t, 10,
		".......",
		".~~~~~.",
		".~...~.",
		".~...~.",
		".~...~.",
		".~~~~~.",
		".......",
	)
	p := Planner{WalkableOnly: true}
	res := p.FindPath(g, tileAtCR(g, 0, 0), tileAtCR(g, 3, 3))
	if res.Found() {
		t.Fatalf("expected no path into enclosed pocket, got %d tiles", len(res.Path))
	}
	if limit := g.Rows() * g.Cols(); res.Expanded > limit {
		t.Errorf("Expanded = %d exceeds rows*cols = %d", res.Expanded, limit)
	}
}
