package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/tonygoldcrest/ecosystem-sim/components"
)

// Neighbor holds a nearby entity with its squared distance from the query point.
type Neighbor struct {
	E      ecs.Entity
	DistSq float32
}

// SpatialGrid buckets entities into square cells over a bounded world.
// Cells are rebuilt once per tick; queries read live positions, so an entity
// that moved less than a cell since the rebuild is still found.
type SpatialGrid struct {
	cellSize float32
	originX  float32
	originY  float32
	cols     int
	rows     int
	cells    [][]ecs.Entity
}

// NewSpatialGrid creates a grid covering [minX, maxX] x [minY, maxY].
func NewSpatialGrid(minX, minY, maxX, maxY, cellSize float32) *SpatialGrid {
	cols := int((maxX-minX)/cellSize) + 1
	rows := int((maxY-minY)/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		originX:  minX,
		originY:  minY,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the cell containing (x, y). Points off the grid are clamped.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	col, row := g.cell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], e)
}

// QueryRadiusInto appends entities within radius of (x, y) to dst and returns it.
// Cells are visited row by row, and entities within a cell in insertion order.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Neighbor {
	// int(radius/cellSize)+1 rings cover the radius itself. The ring beyond
	// catches entities that moved up to one cell since the last rebuild.
	cellRadius := int(radius/g.cellSize) + 2
	centerCol, centerRow := g.cell(x, y)
	radiusSq := radius * radius

	for row := max(centerRow-cellRadius, 0); row <= min(centerRow+cellRadius, g.rows-1); row++ {
		for col := max(centerCol-cellRadius, 0); col <= min(centerCol+cellRadius, g.cols-1); col++ {
			for _, e := range g.cells[row*g.cols+col] {
				if e == exclude {
					continue
				}
				pos := posMap.Get(e)
				if pos == nil {
					continue
				}
				if d := distanceSq(x, y, pos.X, pos.Y); d <= radiusSq {
					dst = append(dst, Neighbor{E: e, DistSq: d})
				}
			}
		}
	}

	return dst
}

// cell returns the clamped cell coordinates for a world position.
func (g *SpatialGrid) cell(x, y float32) (col, row int) {
	col = int((x - g.originX) / g.cellSize)
	row = int((y - g.originY) / g.cellSize)
	col = min(max(col, 0), g.cols-1)
	row = min(max(row, 0), g.rows-1)
	return col, row
}
