package heightfield

import "errors"

var (
	// ErrInvalidSize is returned when the grid size is not 2^k+1 for some k >= 1,
	// or is larger than MaxSize.
	ErrInvalidSize = errors.New("heightfield: size must be 2^k+1 with k >= 1")

	// ErrInvalidRoughness is returned for negative or non-finite roughness, and
	// for roughness large enough to overflow float32 heights.
	ErrInvalidRoughness = errors.New("heightfield: roughness must be a finite value >= 0")

	// ErrInvalidKernel is returned for even or non-positive smoothing kernels.
	ErrInvalidKernel = errors.New("heightfield: kernel size must be odd and positive")
)
