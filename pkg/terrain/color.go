package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/dsterrain/pkg/heightfield"
)

// Band boundaries of the colour ramp, as fractions of the elevation range.
// Every band is half-open: [lower, upper).
const (
	LowCutoff     float32 = 0.30
	LowMidCutoff  float32 = 0.75
	MidCutoff     float32 = 0.77
	MidHighCutoff float32 = 0.95
)

// Ramp colours terrain by elevation: grass, rock, snow in the default ramp.
type Ramp struct {
	Low  colorful.Color
	Mid  colorful.Color
	High colorful.Color
}

// DefaultRamp returns green lowlands, grey rock and white peaks.
func DefaultRamp() Ramp {
	return Ramp{
		Low:  colorful.Color{R: 0, G: 1, B: 0},
		Mid:  colorful.Color{R: 0.3, G: 0.3, B: 0.3},
		High: colorful.Color{R: 1, G: 1, B: 1},
	}
}

// ColorFor maps an elevation to an opaque RGBA colour.
func (r Ramp) ColorFor(elevation float32, rng heightfield.Range) [4]float32 {
	c := mgl32.Clamp(rng.Normalize(elevation), 0, 1)

	var out colorful.Color
	switch {
	case c < LowCutoff:
		out = r.Low
	case c < LowMidCutoff:
		out = r.Low.BlendRgb(r.Mid, float64((c-LowCutoff)/(LowMidCutoff-LowCutoff)))
	case c < MidCutoff:
		out = r.Mid
	case c < MidHighCutoff:
		out = r.Mid.BlendRgb(r.High, float64((c-MidCutoff)/(MidHighCutoff-MidCutoff)))
	default:
		out = r.High
	}
	return [4]float32{float32(out.R), float32(out.G), float32(out.B), 1}
}

// ColorFor is Ramp{low, mid, high}.ColorFor(elevation, rng).
func ColorFor(elevation float32, rng heightfield.Range, low, mid, high colorful.Color) [4]float32 {
	return Ramp{Low: low, Mid: mid, High: high}.ColorFor(elevation, rng)
}
