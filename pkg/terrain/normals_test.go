package terrain

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/dsterrain/pkg/heightfield"
)

func gridOf(n int, f func(i, j int) float32) *heightfield.Grid {
	g := heightfield.NewGrid(n)
	for i := range n {
		for j := range n {
			g.Set(i, j, f(i, j))
		}
	}
	return g
}

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for k := range 3 {
		assert.InDelta(t, want[k], got[k], delta, "component %d of %v", k, got)
	}
}

func TestFaceNormalsFlat(t *testing.T) {
	g := gridOf(9, func(i, j int) float32 { return 0.4 })
	fn := ComputeFaceNormals(g, DefaultExtent())

	require.Equal(t, 8, fn.Cells())
	for i := range fn.Cells() {
		for j := range fn.Cells() {
			assertVec3InDelta(t, up, fn.Face(i, j, 0), 1e-6)
			assertVec3InDelta(t, up, fn.Face(i, j, 1), 1e-6)
		}
	}
	for i := range 9 {
		for j := range 9 {
			assertVec3InDelta(t, up, fn.VertexNormal(i, j), 1e-6)
		}
	}
}

func TestFaceNormalsSlope(t *testing.T) {
	// Height rises one unit per unit of X: the plane y = x.
	n := 5
	ext := Extent{Min: 0, Max: float32(n)}
	g := gridOf(n, func(i, j int) float32 { return float32(i) })
	fn := ComputeFaceNormals(g, ext)

	s := float32(1 / math.Sqrt2)
	want := mgl32.Vec3{-s, s, 0}
	for i := range fn.Cells() {
		for j := range fn.Cells() {
			assertVec3InDelta(t, want, fn.Face(i, j, 0), 1e-6)
			assertVec3InDelta(t, want, fn.Face(i, j, 1), 1e-6)
		}
	}
	assertVec3InDelta(t, want, fn.VertexNormal(2, 2), 1e-6)
}

func TestVertexNormalBorders(t *testing.T) {
	g, _, err := heightfield.Generate(heightfield.Params{Size: 9, Roughness: 1, Seed: 21})
	require.NoError(t, err)
	fn := ComputeFaceNormals(g, DefaultExtent())
	last := fn.Cells() - 1

	// Corner (0,0) only belongs to the first triangle of cell (0,0).
	assertVec3InDelta(t, fn.Face(0, 0, 0), fn.VertexNormal(0, 0), 1e-6)
	// Corner (N-1,N-1) only belongs to the second triangle of the last cell.
	assertVec3InDelta(t, fn.Face(last, last, 1), fn.VertexNormal(8, 8), 1e-6)

	// Out of range lookups clamp onto the border.
	assert.Equal(t, fn.VertexNormal(0, 0), fn.VertexNormal(-3, -1))
	assert.Equal(t, fn.VertexNormal(8, 4), fn.VertexNormal(12, 4))

	// Interior: mean of six faces.
	sum := fn.Face(4, 4, 0).
		Add(fn.Face(4, 3, 0)).Add(fn.Face(4, 3, 1)).
		Add(fn.Face(3, 4, 0)).Add(fn.Face(3, 4, 1)).
		Add(fn.Face(3, 3, 1))
	assertVec3InDelta(t, sum.Normalize(), fn.VertexNormal(4, 4), 1e-6)

	for i := range 9 {
		for j := range 9 {
			assert.InDelta(t, 1.0, fn.VertexNormal(i, j).Len(), 1e-5)
		}
	}
}

func TestNormalsPointUp(t *testing.T) {
	g, _, err := heightfield.Generate(heightfield.Params{Size: 33, Roughness: 0.5, Seed: 4})
	require.NoError(t, err)
	fn := ComputeFaceNormals(g, DefaultExtent())
	for i := range fn.Cells() {
		for j := range fn.Cells() {
			assert.Greater(t, fn.Face(i, j, 0)[1], float32(0))
			assert.Greater(t, fn.Face(i, j, 1)[1], float32(0))
		}
	}
}
