// Package export writes terrain artefacts: PNG previews, vertex buffers and height dumps.
package export

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/gift"

	"github.com/Faultbox/dsterrain/pkg/heightfield"
	"github.com/Faultbox/dsterrain/pkg/terrain"
)

// HeightImage renders the grid as 8-bit grayscale, min black and max white.
// Pixel (x, y) is grid cell (x, y): X to the right, Z downwards.
func HeightImage(g *heightfield.Grid, rng heightfield.Range) *image.Gray {
	n := g.Size()
	img := image.NewGray(image.Rect(0, 0, n, n))
	for x := range n {
		for y := range n {
			img.SetGray(x, y, color.Gray{Y: toByte(rng.Normalize(g.At(x, y)))})
		}
	}
	return img
}

// ColorImage renders the grid through the elevation colour ramp.
func ColorImage(g *heightfield.Grid, rng heightfield.Range, ramp terrain.Ramp) *image.RGBA {
	n := g.Size()
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for x := range n {
		for y := range n {
			c := ramp.ColorFor(g.At(x, y), rng)
			img.SetRGBA(x, y, color.RGBA{R: toByte(c[0]), G: toByte(c[1]), B: toByte(c[2]), A: toByte(c[3])})
		}
	}
	return img
}

// WriteHeightPNG encodes a grayscale preview, upscaled by an integer factor.
func WriteHeightPNG(w io.Writer, g *heightfield.Grid, rng heightfield.Range, scale int) error {
	return encodePNG(w, upscale(HeightImage(g, rng), scale))
}

// WriteColorPNG encodes a colour-ramp preview, upscaled by an integer factor.
func WriteColorPNG(w io.Writer, g *heightfield.Grid, rng heightfield.Range, ramp terrain.Ramp, scale int) error {
	return encodePNG(w, upscale(ColorImage(g, rng, ramp), scale))
}

func encodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// upscale enlarges img with nearest-neighbour sampling so cells stay crisp.
func upscale(img image.Image, scale int) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	filter := gift.New(gift.Resize(b.Dx()*scale, b.Dy()*scale, gift.NearestNeighborResampling))
	dst := image.NewRGBA(filter.Bounds(b))
	filter.Draw(dst, img)
	return dst
}

// WriteVertexBuffer writes the interleaved triangle list as little-endian float32.
func WriteVertexBuffer(w io.Writer, m *terrain.Mesh) error {
	if err := binary.Write(w, binary.LittleEndian, m.Interleaved()); err != nil {
		return fmt.Errorf("writing vertex buffer: %w", err)
	}
	return nil
}

// Heights is the JSON form of a grid.
type Heights struct {
	Size   int       `json:"size"`
	Min    float32   `json:"min"`
	Max    float32   `json:"max"`
	Values []float32 `json:"values"` // row-major, index i*size+j
}

// WriteHeightsJSON writes the grid and its range as JSON.
func WriteHeightsJSON(w io.Writer, g *heightfield.Grid, rng heightfield.Range) error {
	return json.NewEncoder(w).Encode(Heights{
		Size:   g.Size(),
		Min:    rng.Min,
		Max:    rng.Max,
		Values: g.Values(),
	})
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
