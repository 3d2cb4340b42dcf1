package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/dsterrain/pkg/heightfield"
)

// MeshOptions controls mesh construction.
type MeshOptions struct {
	Extent Extent
	Ramp   Ramp
}

// BuildMesh creates an indexed terrain mesh with one vertex per grid point.
// Normals are vertex normals averaged from the face normals; colours come from
// the ramp over the grid's own elevation range.
func BuildMesh(g *heightfield.Grid, opts MeshOptions) *Mesh {
	n := g.Size()
	rng := g.Range()
	faces := ComputeFaceNormals(g, opts.Extent)

	vertices := make([]Vertex, 0, n*n)
	bounds := emptyBounds()

	for i := range n {
		x := opts.Extent.World(i, n)
		for j := range n {
			h := g.At(i, j)
			pos := mgl32.Vec3{x, h, opts.Extent.World(j, n)}
			bounds.include(pos)
			vertices = append(vertices, Vertex{
				Position: pos,
				Normal:   faces.VertexNormal(i, j),
				Color:    opts.Ramp.ColorFor(h, rng),
			})
		}
	}

	cells := n - 1
	indices := make([]uint32, 0, cells*cells*6)
	for i := range cells {
		for j := range cells {
			v1 := uint32(i*n + j)
			v2 := v1 + 1
			v3 := v1 + uint32(n)
			v4 := v3 + 1
			// Same winding as the face normals: (v1,v2,v3) then (v3,v2,v4).
			indices = append(indices, v1, v2, v3, v3, v2, v4)
		}
	}

	return &Mesh{
		Size:     n,
		Vertices: vertices,
		Indices:  indices,
		Bounds:   bounds,
		Range:    rng,
	}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Interleaved expands the indexed mesh into a flat triangle list, FloatsPerVertex
// floats per vertex: position xyz, colour rgba, normal xyz.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Indices)*FloatsPerVertex)
	for _, idx := range m.Indices {
		v := &m.Vertices[idx]
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
			v.Normal[0], v.Normal[1], v.Normal[2],
		)
	}
	return out
}
