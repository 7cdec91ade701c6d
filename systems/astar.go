package systems

import (
	"container/heap"
	"math"
)

// Heuristic estimates the remaining cost between two tiles.
type Heuristic func(a, b *Tile) float32

// Euclidean is the straight-line distance in tiles.
func Euclidean(a, b *Tile) float32 {
	return float32(math.Hypot(float64(a.Col-b.Col), float64(a.Row-b.Row)))
}

// PathResult is the outcome of a search. A nil Path means no path.
type PathResult struct {
	Path     []*Tile // Goal first, start last
	Expanded int     // Nodes expanded before the search ended
}

// Found reports whether a path was produced.
func (r PathResult) Found() bool { return r.Path != nil }

// Planner runs A* over a TerrainGrid's 8-connected tiles. Every move costs 1.
// The zero value uses the Euclidean heuristic and does not filter by walkability,
// so paths may cross water.
type Planner struct {
	Heuristic    Heuristic
	WalkableOnly bool
}

// astarNode is a node in the A* search.
type astarNode struct {
	id    int
	f     float32 // f = g + h (priority)
	index int     // Heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// FindPath searches with the default planner.
func FindPath(grid *TerrainGrid, from, to *Tile, h Heuristic) PathResult {
	return Planner{Heuristic: h}.FindPath(grid, from, to)
}

// FindPath computes a path from one tile to another. Either endpoint being nil
// yields no path. Expansions are capped at the tile count, so the search always ends.
func (p Planner) FindPath(grid *TerrainGrid, from, to *Tile) PathResult {
	if grid == nil || from == nil || to == nil {
		return PathResult{}
	}
	if from.ID == to.ID {
		return PathResult{Path: []*Tile{to}}
	}
	h := p.Heuristic
	if h == nil {
		h = Euclidean
	}

	open := &nodeHeap{}
	closed := make(map[int]struct{})
	cameFrom := make(map[int]int)
	gScore := map[int]float32{from.ID: 0}
	fScore := map[int]float32{from.ID: h(from, to)}

	heap.Push(open, &astarNode{id: from.ID, f: fScore[from.ID]})

	maxIterations := grid.rows * grid.cols
	expanded := 0

	for open.Len() > 0 && expanded < maxIterations {
		current := heap.Pop(open).(*astarNode)
		if current.id == to.ID {
			return PathResult{Path: reconstructPath(grid, cameFrom, from.ID, to.ID), Expanded: expanded}
		}
		if _, done := closed[current.id]; done {
			continue
		}
		closed[current.id] = struct{}{}
		expanded++

		for _, n := range grid.Neighbors8(current.id) {
			if n == nil {
				continue
			}
			if p.WalkableOnly && !n.Walkable && n.ID != to.ID {
				continue
			}
			if _, done := closed[n.ID]; done {
				continue
			}

			tentativeG := gScore[current.id] + 1
			if existing, ok := gScore[n.ID]; ok && tentativeG >= existing {
				continue
			}

			cameFrom[n.ID] = current.id
			gScore[n.ID] = tentativeG
			fScore[n.ID] = tentativeG + h(n, to)
			heap.Push(open, &astarNode{id: n.ID, f: fScore[n.ID]})
		}
	}

	return PathResult{Expanded: expanded}
}

// reconstructPath walks cameFrom back from the goal. The result is goal first.
func reconstructPath(grid *TerrainGrid, cameFrom map[int]int, startID, goalID int) []*Tile {
	path := []*Tile{grid.Tile(goalID)}
	for id := goalID; id != startID; {
		id = cameFrom[id]
		path = append(path, grid.Tile(id))
	}
	return path
}

// FindPathWorld converts world coordinates to tiles and searches between them.
// Returns nil when either point is off the grid or no path exists.
func (p Planner) FindPathWorld(grid *TerrainGrid, x0, y0, x1, y1 float32) []*Tile {
	return p.FindPath(grid, grid.TileAt(x0, y0), grid.TileAt(x1, y1)).Path
}
