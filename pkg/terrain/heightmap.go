package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/dsterrain/pkg/heightfield"
)

// HeightAt returns the bilinearly interpolated terrain height at a world position.
// Positions outside the terrain are clamped to its edge.
func HeightAt(g *heightfield.Grid, ext Extent, worldX, worldZ float32) float32 {
	n := g.Size()
	if n < 2 {
		return g.At(0, 0)
	}

	scale := ext.Scale(n)
	fx := mgl32.Clamp((worldX-ext.Min)/scale, 0, float32(n-1))
	fz := mgl32.Clamp((worldZ-ext.Min)/scale, 0, float32(n-1))

	// Keep the cell inside the grid so the +1 corner is valid.
	i := min(int(fx), n-2)
	j := min(int(fz), n-2)
	tx := fx - float32(i)
	tz := fz - float32(j)

	near := g.At(i, j)*(1-tx) + g.At(i+1, j)*tx
	far := g.At(i, j+1)*(1-tx) + g.At(i+1, j+1)*tx
	return near*(1-tz) + far*tz
}

// NearestHeight returns the height of the grid point closest to a world position.
func NearestHeight(g *heightfield.Grid, ext Extent, worldX, worldZ float32) float32 {
	n := g.Size()
	scale := ext.Scale(n)
	i := int(math.Round(float64((worldX - ext.Min) / scale)))
	j := int(math.Round(float64((worldZ - ext.Min) / scale)))
	return g.At(heightfield.ClampIndex(i, n), heightfield.ClampIndex(j, n))
}
