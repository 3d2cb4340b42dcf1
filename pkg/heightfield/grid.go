// Package heightfield generates and filters square terrain height fields.
package heightfield

import "math"

// Grid is an N x N height field stored row-major in a flat buffer.
// The first index runs along world X, the second along world Z.
type Grid struct {
	size   int
	values []float32
}

// NewGrid allocates a zeroed grid of the given size.
func NewGrid(size int) *Grid {
	return &Grid{
		size:   size,
		values: make([]float32, size*size),
	}
}

// newUnsetGrid allocates a grid with every cell set to NaN so unwritten cells stay visible.
func newUnsetGrid(size int) *Grid {
	g := NewGrid(size)
	nan := float32(math.NaN())
	for i := range g.values {
		g.values[i] = nan
	}
	return g
}

// Size returns N.
func (g *Grid) Size() int {
	return g.size
}

// At returns the height at (i, j).
func (g *Grid) At(i, j int) float32 {
	return g.values[i*g.size+j]
}

// Set writes the height at (i, j).
func (g *Grid) Set(i, j int, v float32) {
	g.values[i*g.size+j] = v
}

// Values exposes the underlying buffer. Callers must not modify it.
func (g *Grid) Values() []float32 {
	return g.values
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{size: g.size, values: make([]float32, len(g.values))}
	copy(c.values, g.values)
	return c
}

// Range scans every cell and returns the elevation range.
func (g *Grid) Range() Range {
	r := EmptyRange()
	for _, v := range g.values {
		r.Include(v)
	}
	return r
}

func (g *Grid) inBounds(i, j int) bool {
	return i >= 0 && j >= 0 && i < g.size && j < g.size
}

// clampIndex clamps i into [0, n-1].
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// ClampIndex clamps i into [0, n-1]. Exposed for mesh code that shares the same border policy.
func ClampIndex(i, n int) int {
	return clampIndex(i, n)
}

// Range is the (min, max) of a set of elevations.
type Range struct {
	Min float32
	Max float32
}

// EmptyRange returns a range that any value will widen.
func EmptyRange() Range {
	return Range{Min: math.MaxFloat32, Max: -math.MaxFloat32}
}

// Include widens the range to contain v.
func (r *Range) Include(v float32) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// Span returns Max - Min, or 0 for an empty range.
func (r Range) Span() float32 {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min
}

// Normalize maps v to its position within the range.
// A zero-width range maps everything to 0.
func (r Range) Normalize(v float32) float32 {
	span := r.Span()
	if span <= 0 {
		return 0
	}
	return (v - r.Min) / span
}
