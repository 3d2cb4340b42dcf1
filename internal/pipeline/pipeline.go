// Package pipeline runs the full terrain build: generate, smooth, mesh.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/dsterrain/internal/config"
	"github.com/Faultbox/dsterrain/pkg/heightfield"
	"github.com/Faultbox/dsterrain/pkg/terrain"
)

// Result is one finished terrain.
type Result struct {
	ID     uuid.UUID
	Seed   uint64
	Params heightfield.Params

	// Raw is the grid straight out of the generator, Grid is after smoothing.
	Raw      *heightfield.Grid
	RawRange heightfield.Range
	Grid     *heightfield.Grid
	Range    heightfield.Range

	Extent terrain.Extent
	Ramp   terrain.Ramp
	Mesh   *terrain.Mesh

	Elapsed time.Duration
}

// Options selects what Build produces.
type Options struct {
	SkipMesh bool
}

// clock is replaced in tests.
var clock = time.Now

// Build runs the pipeline described by cfg. A zero seed is replaced by one
// derived from the clock; the chosen seed is logged and returned.
func Build(cfg *config.Config, opts Options, log *zap.Logger) (*Result, error) {
	start := clock()
	id := uuid.New()
	log = log.With(zap.String("run", id.String()))

	params, err := cfg.Terrain.Params()
	if err != nil {
		return nil, err
	}
	if params.Seed == 0 {
		params.Seed = uint64(start.UnixNano())
		log.Info("no seed configured, using clock", zap.Uint64("seed", params.Seed))
	}

	raw, rawRange, err := heightfield.Generate(params)
	if err != nil {
		return nil, fmt.Errorf("generating terrain: %w", err)
	}
	log.Debug("height field generated",
		zap.Int("size", params.Size),
		zap.Stringer("decay", params.Decay),
		zap.Float32("min", rawRange.Min),
		zap.Float32("max", rawRange.Max))

	grid := raw
	rng := rawRange
	if cfg.Terrain.SmoothPasses > 0 {
		grid = heightfield.SmoothPasses(raw, cfg.Terrain.SmoothPasses)
		rng = grid.Range()
		log.Debug("height field smoothed",
			zap.Int("passes", cfg.Terrain.SmoothPasses),
			zap.Float32("min", rng.Min),
			zap.Float32("max", rng.Max))
	}

	res := &Result{
		ID:       id,
		Seed:     params.Seed,
		Params:   params,
		Raw:      raw,
		RawRange: rawRange,
		Grid:     grid,
		Range:    rng,
		Extent:   terrain.Extent{Min: cfg.Mesh.MinCoord, Max: cfg.Mesh.MaxCoord},
		Ramp: terrain.Ramp{
			Low:  cfg.Colors.Low.Color(),
			Mid:  cfg.Colors.Mid.Color(),
			High: cfg.Colors.High.Color(),
		},
	}

	if !opts.SkipMesh {
		res.Mesh = terrain.BuildMesh(grid, terrain.MeshOptions{Extent: res.Extent, Ramp: res.Ramp})
		log.Debug("mesh built",
			zap.Int("vertices", len(res.Mesh.Vertices)),
			zap.Int("triangles", res.Mesh.TriangleCount()))
	}

	res.Elapsed = clock().Sub(start)
	log.Info("terrain ready",
		zap.Uint64("seed", res.Seed),
		zap.Int("size", params.Size),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// BaseName returns a file name stem unique to this run.
func (r *Result) BaseName() string {
	return fmt.Sprintf("terrain_%d_%d_%s", r.Params.Size, r.Seed, r.ID.String()[:8])
}
