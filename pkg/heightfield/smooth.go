package heightfield

import "fmt"

// DefaultKernelSize is the width of the box filter used by Smooth.
const DefaultKernelSize = 5

// Smooth applies a 5x5 box filter with edge-replicated borders.
// The input is left untouched.
func Smooth(g *Grid) *Grid {
	out, _ := SmoothKernel(g, DefaultKernelSize)
	return out
}

// SmoothKernel applies a size x size box filter. Taps outside the grid are
// clamped to the nearest border cell.
func SmoothKernel(g *Grid, size int) (*Grid, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKernel, size)
	}

	n := g.size
	out := NewGrid(n)
	radius := (size - 1) / 2
	weight := 1 / float32(size*size)

	for i := range n {
		for j := range n {
			var sum float32
			for u := -radius; u <= radius; u++ {
				row := clampIndex(i+u, n) * n
				for v := -radius; v <= radius; v++ {
					sum += g.values[row+clampIndex(j+v, n)]
				}
			}
			out.values[i*n+j] = sum * weight
		}
	}
	return out, nil
}

// SmoothPasses runs Smooth the given number of times. Zero passes returns a copy.
func SmoothPasses(g *Grid, passes int) *Grid {
	out := g.Clone()
	for range passes {
		out = Smooth(out)
	}
	return out
}
