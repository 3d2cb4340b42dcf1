// Package terrain turns height fields into mesh data: normals, vertex colours and buffers.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/dsterrain/pkg/heightfield"
)

// FloatsPerVertex is the interleaved layout size: position(3) colour(4) normal(3).
const FloatsPerVertex = 10

// Extent maps grid indices onto world X/Z coordinates.
type Extent struct {
	Min float32
	Max float32
}

// DefaultExtent spans [-1, 1].
func DefaultExtent() Extent {
	return Extent{Min: -1, Max: 1}
}

// Scale returns the world distance between neighbouring grid points.
// The span is divided by N, not N-1, so the last row stops one cell short of Max.
func (e Extent) Scale(n int) float32 {
	return (e.Max - e.Min) / float32(n)
}

// World converts a grid index to a world coordinate.
func (e Extent) World(i, n int) float32 {
	return e.Min + float32(i)*e.Scale(n)
}

// Vertex is one terrain mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Color    [4]float32
}

// Mesh holds terrain geometry ready for upload by a renderer.
type Mesh struct {
	Size     int
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
	Range    heightfield.Range
}

// Bounds is the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func emptyBounds() Bounds {
	return Bounds{
		Min: mgl32.Vec3{1e10, 1e10, 1e10},
		Max: mgl32.Vec3{-1e10, -1e10, -1e10},
	}
}

func (b *Bounds) include(p mgl32.Vec3) {
	for k := range 3 {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
