package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/dsterrain/pkg/heightfield"
)

var up = mgl32.Vec3{0, 1, 0}

// FaceNormals holds two unit normals per grid cell, (N-1) x (N-1) cells.
type FaceNormals struct {
	cells   int
	normals []mgl32.Vec3
}

// ComputeFaceNormals derives the per-triangle normals of a grid.
//
// Cell (i,j) has corners v1=(i,j), v2=(i,j+1), v3=(i+1,j), v4=(i+1,j+1).
// Triangle 0 is (v1,v2,v3) with normal (v1-v3)x(v2-v1); triangle 1 is
// (v3,v2,v4) with normal (v3-v4)x(v2-v4). Both face +Y on flat ground.
func ComputeFaceNormals(g *heightfield.Grid, ext Extent) *FaceNormals {
	n := g.Size()
	cells := n - 1
	fn := &FaceNormals{
		cells:   cells,
		normals: make([]mgl32.Vec3, cells*cells*2),
	}

	for i := range cells {
		for j := range cells {
			v1, v2, v3, v4 := quad(g, ext, i, j)
			base := (i*cells + j) * 2
			fn.normals[base] = normalize(v1.Sub(v3).Cross(v2.Sub(v1)))
			fn.normals[base+1] = normalize(v3.Sub(v4).Cross(v2.Sub(v4)))
		}
	}
	return fn
}

// Cells returns the number of cells along one side.
func (fn *FaceNormals) Cells() int {
	return fn.cells
}

// Face returns the normal of triangle tri (0 or 1) in cell (i, j).
func (fn *FaceNormals) Face(i, j, tri int) mgl32.Vec3 {
	return fn.normals[(i*fn.cells+j)*2+tri]
}

// VertexNormal averages the faces that touch grid vertex (i, j).
// Interior vertices touch six triangles; border vertices touch fewer.
// Indices outside the grid are clamped onto it.
func (fn *FaceNormals) VertexNormal(i, j int) mgl32.Vec3 {
	n := fn.cells + 1
	i = heightfield.ClampIndex(i, n)
	j = heightfield.ClampIndex(j, n)

	// Cell offsets and the triangles of that cell which use vertex (i,j).
	touching := [...]struct{ di, dj, tri int }{
		{0, 0, 0},   // as v1
		{0, -1, 0},  // as v2
		{0, -1, 1},  // as v2
		{-1, 0, 0},  // as v3
		{-1, 0, 1},  // as v3
		{-1, -1, 1}, // as v4
	}

	var sum mgl32.Vec3
	for _, t := range touching {
		ci, cj := i+t.di, j+t.dj
		if ci < 0 || cj < 0 || ci >= fn.cells || cj >= fn.cells {
			continue
		}
		sum = sum.Add(fn.Face(ci, cj, t.tri))
	}
	return normalize(sum)
}

// quad returns the four world-space corners of cell (i, j).
func quad(g *heightfield.Grid, ext Extent, i, j int) (v1, v2, v3, v4 mgl32.Vec3) {
	n := g.Size()
	x0, x1 := ext.World(i, n), ext.World(i+1, n)
	z0, z1 := ext.World(j, n), ext.World(j+1, n)
	v1 = mgl32.Vec3{x0, g.At(i, j), z0}
	v2 = mgl32.Vec3{x0, g.At(i, j+1), z1}
	v3 = mgl32.Vec3{x1, g.At(i+1, j), z0}
	v4 = mgl32.Vec3{x1, g.At(i+1, j+1), z1}
	return v1, v2, v3, v4
}

// normalize returns a unit vector, or straight up for degenerate input.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-12 {
		return up
	}
	return v.Normalize()
}
