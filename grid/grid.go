// Package grid implements the uniform spatial hash used for broadphase.
package grid

import (
	"math"
	"slices"

	"github.com/pthm-cable/rigid/vec"
)

// Item is anything the grid can bucket: it needs a stable id and a current
// bounding box.
type Item interface {
	GridID() uint32
	AABB() vec.Bounds
}

// cellRect is an inclusive range of cell coordinates.
type cellRect struct {
	minX, minY, maxX, maxY int
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.minX && x <= r.maxX && y >= r.minY && y <= r.maxY
}

type entry struct {
	rect  cellRect
	cells []uint64
}

// Grid buckets items into square cells of edge length Size. A cell id is
// Pair(cellX, cellY). Bucket order and the order of Cells are a pure function
// of the Add/Remove/Update sequence.
type Grid[T Item] struct {
	size    float64
	buckets map[uint64][]T
	active  []uint64
	slot    map[uint64]int
	tracked map[uint32]*entry
}

// New creates a grid with the given cell size. Non-positive sizes fall back
// to 1.
func New[T Item](size float64) *Grid[T] {
	if size <= 0 || math.IsNaN(size) {
		size = 1
	}
	return &Grid[T]{
		size:    size,
		buckets: make(map[uint64][]T),
		slot:    make(map[uint64]int),
		tracked: make(map[uint32]*entry),
	}
}

// Size returns the cell edge length.
func (g *Grid[T]) Size() float64 {
	return g.size
}

// Len returns the number of tracked items.
func (g *Grid[T]) Len() int {
	return len(g.tracked)
}

// Empty reports whether no cell holds any item.
func (g *Grid[T]) Empty() bool {
	return len(g.buckets) == 0 && len(g.active) == 0
}

// Has reports whether item is tracked.
func (g *Grid[T]) Has(item T) bool {
	_, ok := g.tracked[item.GridID()]
	return ok
}

// Cells returns the non-empty cell ids. The slice is owned by the grid and
// must not be modified or retained across mutations.
func (g *Grid[T]) Cells() []uint64 {
	return g.active
}

// Bucket returns the items in a cell, in insertion order. The slice is
// owned by the grid.
func (g *Grid[T]) Bucket(cell uint64) []T {
	return g.buckets[cell]
}

// CellsOf returns the cell ids currently occupied by item.
func (g *Grid[T]) CellsOf(item T) []uint64 {
	if e, ok := g.tracked[item.GridID()]; ok {
		return e.cells
	}
	return nil
}

func (g *Grid[T]) rectOf(b vec.Bounds) cellRect {
	f := func(v float64) int {
		return clampCoord(int(math.Floor(v / g.size)))
	}
	return cellRect{minX: f(b.Min.X), minY: f(b.Min.Y), maxX: f(b.Max.X), maxY: f(b.Max.Y)}
}

// Add inserts item into every cell its AABB touches. Adding an item that is
// already tracked updates it instead.
func (g *Grid[T]) Add(item T) {
	id := item.GridID()
	if _, ok := g.tracked[id]; ok {
		g.Update(item)
		return
	}
	r := g.rectOf(item.AABB())
	e := &entry{rect: r}
	for x := r.minX; x <= r.maxX; x++ {
		for y := r.minY; y <= r.maxY; y++ {
			cell := Pair(x, y)
			g.insert(cell, item)
			e.cells = append(e.cells, cell)
		}
	}
	g.tracked[id] = e
}

// Remove deletes item from all its cells. It reports whether the item was
// tracked.
func (g *Grid[T]) Remove(item T) bool {
	id := item.GridID()
	e, ok := g.tracked[id]
	if !ok {
		return false
	}
	for _, cell := range e.cells {
		g.erase(cell, id)
	}
	delete(g.tracked, id)
	return true
}

// Update moves item to the cells matching its current AABB. Only cells that
// entered or left the item's range are touched.
func (g *Grid[T]) Update(item T) {
	id := item.GridID()
	e, ok := g.tracked[id]
	if !ok {
		g.Add(item)
		return
	}
	r := g.rectOf(item.AABB())
	if r == e.rect {
		return
	}
	old := e.rect
	for x := old.minX; x <= old.maxX; x++ {
		for y := old.minY; y <= old.maxY; y++ {
			if !r.contains(x, y) {
				g.erase(Pair(x, y), id)
			}
		}
	}
	cells := e.cells[:0]
	for x := r.minX; x <= r.maxX; x++ {
		for y := r.minY; y <= r.maxY; y++ {
			cell := Pair(x, y)
			if !old.contains(x, y) {
				g.insert(cell, item)
			}
			cells = append(cells, cell)
		}
	}
	e.cells = cells
	e.rect = r
}

// CellBounds returns the world-space square covered by a cell id.
func (g *Grid[T]) CellBounds(cell uint64) vec.Bounds {
	x, y := Unpair(cell)
	min := vec.New(float64(x)*g.size, float64(y)*g.size)
	return vec.Bounds{Min: min, Max: min.Add(vec.New(g.size, g.size))}
}

// Query calls fn once for every tracked item whose AABB overlaps b, until fn
// returns false.
func (g *Grid[T]) Query(b vec.Bounds, fn func(T) bool) {
	r := g.rectOf(b)
	seen := make(map[uint32]struct{})
	for x := r.minX; x <= r.maxX; x++ {
		for y := r.minY; y <= r.maxY; y++ {
			for _, item := range g.buckets[Pair(x, y)] {
				id := item.GridID()
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				if item.AABB().Overlaps(b) && !fn(item) {
					return
				}
			}
		}
	}
}

func (g *Grid[T]) insert(cell uint64, item T) {
	bucket, ok := g.buckets[cell]
	if !ok {
		g.slot[cell] = len(g.active)
		g.active = append(g.active, cell)
	}
	g.buckets[cell] = append(bucket, item)
}

func (g *Grid[T]) erase(cell uint64, id uint32) {
	bucket := g.buckets[cell]
	i := slices.IndexFunc(bucket, func(o T) bool { return o.GridID() == id })
	if i < 0 {
		return
	}
	bucket = slices.Delete(bucket, i, i+1)
	if len(bucket) > 0 {
		g.buckets[cell] = bucket
		return
	}
	delete(g.buckets, cell)

	// Swap-remove from the active list.
	idx := g.slot[cell]
	last := len(g.active) - 1
	moved := g.active[last]
	g.active[idx] = moved
	g.slot[moved] = idx
	g.active = g.active[:last]
	delete(g.slot, cell)
}
