// Package spatial provides a uniform 2D grid over the horizontal XZ plane that
// indexes items by position for radius-bounded neighbor retrieval.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

var (
	// ErrInvalidResolution is returned when a grid has no cells along an axis.
	ErrInvalidResolution = errors.New("grid resolution must be positive on both axes")
	// ErrInvalidBounds is returned when the indexed rectangle has no area.
	ErrInvalidBounds = errors.New("grid bounds must have a positive extent on X and Z")
)

// Locatable is anything the grid can index.
type Locatable interface {
	Position() geometry.Vector3
}

// Bounds are the two corners of the indexed world rectangle. Only X and Z are used.
type Bounds struct {
	Min geometry.Vector3 `json:"min" yaml:"min"`
	Max geometry.Vector3 `json:"max" yaml:"max"`
}

// Cell is a grid coordinate.
type Cell struct {
	X, Z int
}

// Handle identifies the cell an item was last registered in.
// The zero Handle means "not registered yet".
type Handle struct {
	cell  Cell
	valid bool
}

// Valid reports whether the handle refers to a registered cell.
func (h Handle) Valid() bool { return h.valid }

// Cell returns the cell the handle points to.
func (h Handle) Cell() Cell { return h.cell }

type entry[T Locatable] struct {
	id   string
	item T
}

// Grid is a fixed lattice of countX * countZ cells spanning Bounds.
// Members of a cell keep their insertion order so that queries are
// reproducible from one run to the next.
type Grid[T Locatable] struct {
	bounds         Bounds
	countX, countZ int
	cellW, cellD   float64 // cell extent along X and Z
	cells          [][]entry[T]
	size           int
}

// NewGrid creates a grid over bounds with countX cells along X and countZ along Z.
func NewGrid[T Locatable](bounds Bounds, countX, countZ int) (*Grid[T], error) {
	if countX <= 0 || countZ <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidResolution, countX, countZ)
	}
	width := bounds.Max.X - bounds.Min.X
	depth := bounds.Max.Z - bounds.Min.Z
	if !(width > 0) || !(depth > 0) {
		return nil, fmt.Errorf("%w: got %s..%s", ErrInvalidBounds, bounds.Min, bounds.Max)
	}
	return &Grid[T]{
		bounds: bounds,
		countX: countX,
		countZ: countZ,
		cellW:  width / float64(countX),
		cellD:  depth / float64(countZ),
		cells:  make([][]entry[T], countX*countZ),
	}, nil
}

// Bounds returns the indexed world rectangle.
func (g *Grid[T]) Bounds() Bounds { return g.bounds }

// Resolution returns the number of cells along X and Z.
func (g *Grid[T]) Resolution() (int, int) { return g.countX, g.countZ }

// CellSize returns the extent of one cell along X and Z.
func (g *Grid[T]) CellSize() (float64, float64) { return g.cellW, g.cellD }

// Len returns the number of registered items.
func (g *Grid[T]) Len() int { return g.size }

// CellOf maps a world position to its cell. Positions outside Bounds are
// clamped to the nearest edge cell.
func (g *Grid[T]) CellOf(pos geometry.Vector3) Cell {
	return Cell{
		X: clampIndex(math.Floor((pos.X-g.bounds.Min.X)/g.cellW), g.countX),
		Z: clampIndex(math.Floor((pos.Z-g.bounds.Min.Z)/g.cellD), g.countZ),
	}
}

// Insert registers a new item and returns its handle.
func (g *Grid[T]) Insert(id string, item T) Handle {
	return g.Update(id, item, Handle{})
}

// Update (re)registers item under id at its current position. prev is the
// handle returned by the previous Insert/Update for this id, or the zero Handle.
// When the cell is unchanged nothing moves.
func (g *Grid[T]) Update(id string, item T, prev Handle) Handle {
	cell := g.CellOf(item.Position())
	if prev.valid {
		if prev.cell == cell {
			return prev
		}
		g.removeFrom(prev.cell, id)
	}
	idx := g.index(cell)
	g.cells[idx] = append(g.cells[idx], entry[T]{id: id, item: item})
	g.size++
	return Handle{cell: cell, valid: true}
}

// Remove unregisters id from the cell referenced by h.
func (g *Grid[T]) Remove(id string, h Handle) bool {
	if !h.valid {
		return false
	}
	return g.removeFrom(h.cell, id)
}

// QueryRadius returns every item in the square block of cells that can hold a
// point within radius of pos, skipping the item registered as exclude.
// Results are not filtered by exact distance.
func (g *Grid[T]) QueryRadius(pos geometry.Vector3, radius float64, exclude string) []T {
	center := g.CellOf(pos)
	spanX, spanZ := 0, 0
	if radius > 0 {
		spanX = int(math.Ceil(radius / g.cellW))
		spanZ = int(math.Ceil(radius / g.cellD))
	}
	minX, maxX := max(center.X-spanX, 0), min(center.X+spanX, g.countX-1)
	minZ, maxZ := max(center.Z-spanZ, 0), min(center.Z+spanZ, g.countZ-1)

	var result []T
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			for _, e := range g.cells[z*g.countX+x] {
				if e.id == exclude {
					continue
				}
				result = append(result, e.item)
			}
		}
	}
	return result
}

// Members returns the ids registered in cell, in insertion order.
func (g *Grid[T]) Members(cell Cell) []string {
	if cell.X < 0 || cell.X >= g.countX || cell.Z < 0 || cell.Z >= g.countZ {
		return nil
	}
	entries := g.cells[g.index(cell)]
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// Clear removes every item while keeping the cell slices for reuse.
func (g *Grid[T]) Clear() {
	for i := range g.cells {
		clear(g.cells[i])
		g.cells[i] = g.cells[i][:0]
	}
	g.size = 0
}

func (g *Grid[T]) removeFrom(cell Cell, id string) bool {
	idx := g.index(cell)
	entries := g.cells[idx]
	for i := range entries {
		if entries[i].id != id {
			continue
		}
		// keep the remaining members in order
		copy(entries[i:], entries[i+1:])
		var zero entry[T]
		entries[len(entries)-1] = zero
		g.cells[idx] = entries[:len(entries)-1]
		g.size--
		return true
	}
	return false
}

func (g *Grid[T]) index(c Cell) int {
	return c.Z*g.countX + c.X
}

func clampIndex(f float64, count int) int {
	if math.IsNaN(f) || f < 0 { // NaN lands in the first cell
		return 0
	}
	if f >= float64(count-1) {
		return count - 1
	}
	return int(f)
}
