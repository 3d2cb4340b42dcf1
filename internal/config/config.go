// Package config handles terrain generator configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/dsterrain/pkg/heightfield"
)

// MaxLevel caps the grid at 2^14+1 cells per side.
const MaxLevel = 14

// Config holds all generator settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Colors  ColorConfig   `yaml:"colors"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds the diamond-square parameters.
type TerrainConfig struct {
	Level        int        `yaml:"level"`   // Grid size is 2^level + 1
	Corners      [4]float32 `yaml:"corners"` // (0,0), (N-1,0), (0,N-1), (N-1,N-1)
	Roughness    float32    `yaml:"roughness"`
	Decay        string     `yaml:"decay"` // "halve" or "constant"
	Seed         uint64     `yaml:"seed"`  // 0 picks a seed from the clock
	SmoothPasses int        `yaml:"smooth_passes"`
}

// Size returns the grid size for the configured level.
func (t TerrainConfig) Size() int {
	return heightfield.SizeForLevel(t.Level)
}

// Params converts the config to generator parameters.
func (t TerrainConfig) Params() (heightfield.Params, error) {
	decay, err := heightfield.ParseDecay(t.Decay)
	if err != nil {
		return heightfield.Params{}, err
	}
	return heightfield.Params{
		Size: t.Size(),
		Corners: heightfield.Corners{
			A: t.Corners[0],
			B: t.Corners[1],
			C: t.Corners[2],
			D: t.Corners[3],
		},
		Roughness: t.Roughness,
		Decay:     decay,
		Seed:      t.Seed,
	}, nil
}

// MeshConfig holds the world-space extent of the terrain.
type MeshConfig struct {
	MinCoord float32 `yaml:"min_coord"`
	MaxCoord float32 `yaml:"max_coord"`
}

// ColorConfig holds the elevation colour ramp stops.
type ColorConfig struct {
	Low  RGB `yaml:"low"`
	Mid  RGB `yaml:"mid"`
	High RGB `yaml:"high"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Scale int    `yaml:"scale"` // Integer upscale factor for PNG previews
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	MaxLevel int    `yaml:"max_level"` // Largest level a request may ask for
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config matching the reference terrain.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Level:        10,
			Corners:      [4]float32{0.2, 0.2, 0.3, 0.2},
			Roughness:    2.0,
			Decay:        "halve",
			Seed:         0,
			SmoothPasses: 1,
		},
		Mesh: MeshConfig{
			MinCoord: -1,
			MaxCoord: 1,
		},
		Colors: ColorConfig{
			Low:  RGB{R: 0, G: 1, B: 0},
			Mid:  RGB{R: 0.3, G: 0.3, B: 0.3},
			High: RGB{R: 1, G: 1, B: 1},
		},
		Output: OutputConfig{
			Dir:   ".",
			Scale: 1,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			MaxLevel: 10,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate rejects settings the generator cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.Terrain.Level < 1 || c.Terrain.Level > MaxLevel {
		errs = append(errs, fmt.Errorf("terrain.level must be in [1, %d], got %d", MaxLevel, c.Terrain.Level))
	}
	if c.Terrain.SmoothPasses < 0 {
		errs = append(errs, fmt.Errorf("terrain.smooth_passes must be >= 0, got %d", c.Terrain.SmoothPasses))
	}
	if _, err := heightfield.ParseDecay(c.Terrain.Decay); err != nil {
		errs = append(errs, err)
	}
	if c.Terrain.Roughness < 0 {
		errs = append(errs, fmt.Errorf("terrain.roughness must be >= 0, got %v", c.Terrain.Roughness))
	}
	if c.Mesh.MinCoord >= c.Mesh.MaxCoord {
		errs = append(errs, fmt.Errorf("mesh.min_coord (%v) must be below mesh.max_coord (%v)", c.Mesh.MinCoord, c.Mesh.MaxCoord))
	}
	if c.Server.MaxLevel < 1 || c.Server.MaxLevel > MaxLevel {
		errs = append(errs, fmt.Errorf("server.max_level must be in [1, %d], got %d", MaxLevel, c.Server.MaxLevel))
	}
	if c.Output.Scale < 1 {
		errs = append(errs, fmt.Errorf("output.scale must be >= 1, got %d", c.Output.Scale))
	}
	return errors.Join(errs...)
}
