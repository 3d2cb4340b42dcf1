package heightfield

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"
)

// Decay controls how the perturbation amplitude changes between subdivision levels.
type Decay int

const (
	// DecayHalve halves the amplitude after every level.
	DecayHalve Decay = iota
	// DecayConstant keeps the initial amplitude on every level.
	DecayConstant
)

func (d Decay) String() string {
	switch d {
	case DecayHalve:
		return "halve"
	case DecayConstant:
		return "constant"
	}
	return fmt.Sprintf("Decay(%d)", int(d))
}

// ParseDecay converts a config name to a Decay.
func ParseDecay(s string) (Decay, error) {
	switch s {
	case "", "halve":
		return DecayHalve, nil
	case "constant":
		return DecayConstant, nil
	}
	return DecayHalve, fmt.Errorf("heightfield: unknown decay %q", s)
}

// Corners seeds the four grid corners.
// A -> (0,0), B -> (N-1,0), C -> (0,N-1), D -> (N-1,N-1).
type Corners struct {
	A, B, C, D float32
}

// Params describes one diamond-square run.
type Params struct {
	Size      int
	Corners   Corners
	Roughness float32
	Decay     Decay
	Seed      uint64
}

// SizeForLevel returns 2^k+1.
func SizeForLevel(k int) int {
	return 1<<k + 1
}

// MaxSize is the largest grid Generate accepts, 2^15+1 cells per side.
const MaxSize = 1<<15 + 1

// ValidSize reports whether n is 2^k+1 for some k >= 1, up to MaxSize.
func ValidSize(n int) bool {
	if n < 3 || n > MaxSize {
		return false
	}
	m := n - 1
	return m&(m-1) == 0
}

// Validate checks the parameters without generating anything.
func (p Params) Validate() error {
	if !ValidSize(p.Size) {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, p.Size)
	}
	r := float64(p.Roughness)
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidRoughness, p.Roughness)
	}
	peak := 0.0
	for _, c := range [4]float32{p.Corners.A, p.Corners.B, p.Corners.C, p.Corners.D} {
		v := float64(c)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("heightfield: corner heights must be finite, got %v", p.Corners)
		}
		peak = math.Max(peak, math.Abs(v))
	}
	// Every cell stays within peak + roughness*levels. Four of them must still
	// sum without overflowing float32.
	levels := float64(bits.Len(uint(p.Size-1)) - 1)
	if 4*(peak+r*levels) > math.MaxFloat32 {
		return fmt.Errorf("%w: %v overflows float32 heights", ErrInvalidRoughness, p.Roughness)
	}
	if p.Decay != DecayHalve && p.Decay != DecayConstant {
		return fmt.Errorf("heightfield: unknown decay %v", p.Decay)
	}
	return nil
}

// Generate builds a height field with diamond-square subdivision.
// It returns the grid and the range of every value written, corners included.
func Generate(p Params) (*Grid, Range, error) {
	if err := p.Validate(); err != nil {
		return nil, Range{}, err
	}

	n := p.Size
	g := newUnsetGrid(n)
	rng := EmptyRange()

	d := &subdivider{
		grid:   g,
		rand:   rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15)),
		bounds: &rng,
	}

	d.write(0, 0, p.Corners.A)
	d.write(n-1, 0, p.Corners.B)
	d.write(0, n-1, p.Corners.C)
	d.write(n-1, n-1, p.Corners.D)

	amplitude := p.Roughness
	for step := n; step > 2; step = 1 + step/2 {
		d.amplitude = amplitude
		d.diamond(step)
		d.square(step)
		if p.Decay == DecayHalve {
			amplitude /= 2
		}
	}

	return g, rng, nil
}

// subdivider carries the per-run state of one Generate call.
type subdivider struct {
	grid      *Grid
	rand      *rand.Rand
	bounds    *Range
	amplitude float32
}

func (d *subdivider) write(i, j int, v float32) {
	d.grid.Set(i, j, v)
	d.bounds.Include(v)
}

func (d *subdivider) perturb() float32 {
	return d.amplitude * d.rand.Float32()
}

// diamond fills the centre of every step x step square from its four corners.
func (d *subdivider) diamond(step int) {
	n := d.grid.size
	half := step / 2
	for i := half; i < n; i += step - 1 {
		for j := half; j < n; j += step - 1 {
			sum := d.grid.At(i-half, j-half) +
				d.grid.At(i+half, j-half) +
				d.grid.At(i-half, j+half) +
				d.grid.At(i+half, j+half)
			d.write(i, j, 0.25*sum+d.perturb())
		}
	}
}

// square fills every edge midpoint of the level from its orthogonal neighbours.
// Rows on the coarse lattice hold midpoints at odd multiples of half; the rows
// between them hold midpoints on the coarse columns, borders included.
func (d *subdivider) square(step int) {
	n := d.grid.size
	half := step / 2
	for i := 0; i < n; i += half {
		start := 0
		if (i/half)%2 == 0 {
			start = half
		}
		for j := start; j < n; j += step - 1 {
			d.write(i, j, d.neighbourMean(i, j, half)+d.perturb())
		}
	}
}

// neighbourMean averages the orthogonal neighbours at distance half that lie inside the grid.
func (d *subdivider) neighbourMean(i, j, half int) float32 {
	var sum float32
	var count int
	for _, off := range [4][2]int{{0, -half}, {0, half}, {-half, 0}, {half, 0}} {
		ni, nj := i+off[0], j+off[1]
		if !d.grid.inBounds(ni, nj) {
			continue
		}
		sum += d.grid.At(ni, nj)
		count++
	}
	if count == 4 {
		return 0.25 * sum
	}
	return sum / float32(count)
}
