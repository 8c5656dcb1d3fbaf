package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase neighbour lookup in a bounded
// area. Objects are inserted by position and index, then nearby objects can be
// queried via a 3x3 neighbourhood lookup.
//
// Cell size must be >= the maximum interaction distance so that every pair
// within that distance is found in the 3x3 neighbourhood. Positions outside
// the area clamp to the edge cells; clamping never separates two points by
// more than one cell, so the guarantee holds for stray points too.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the given area.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
	}
	g.Reset(width, height)
	return g
}

// Reset re-dimensions the grid for a new area and empties it.
// Cell storage is reused when the cell count does not grow.
func (g *SpatialGrid) Reset(width, height float64) {
	cols := int(math.Ceil(width * g.invCellSize))
	rows := int(math.Ceil(height * g.invCellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g.cols = cols
	g.rows = rows
	if n := cols * rows; cap(g.cells) >= n {
		g.cells = g.cells[:n]
	} else {
		g.cells = make([]gridCell, n)
	}
	g.Clear()
}

// Dims returns the grid size in cells.
func (g *SpatialGrid) Dims() (cols, rows int) {
	return g.cols, g.rows
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighbourhood
// around the given position. Cells beyond the edges are skipped.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.posToCell(x, y)

	for r := max(row-1, 0); r <= min(row+1, g.rows-1); r++ {
		rowOffset := r * g.cols
		for c := max(col-1, 0); c <= min(col+1, g.cols-1); c++ {
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts coordinates to grid cell coordinates.
// Clamps to valid range to handle stray points and floating point edges.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = clampCell(x*g.invCellSize, g.cols)
	row = clampCell(y*g.invCellSize, g.rows)
	return col, row
}

func clampCell(v float64, n int) int {
	// NaN compares false everywhere; send it to cell 0.
	if !(v >= 0) {
		return 0
	}
	if v >= float64(n) {
		return n - 1
	}
	return int(v)
}
