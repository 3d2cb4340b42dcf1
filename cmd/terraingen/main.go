// terraingen is a CLI for generating diamond-square terrains and their mesh data.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/dsterrain/internal/config"
	"github.com/Faultbox/dsterrain/internal/export"
	"github.com/Faultbox/dsterrain/internal/logger"
	"github.com/Faultbox/dsterrain/internal/pipeline"
	"github.com/Faultbox/dsterrain/internal/server"
	"github.com/Faultbox/dsterrain/pkg/terrain"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "info", "png", "mesh", "heights", "serve", "config":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	cfg, err := setup(os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.Named(command)
	switch command {
	case "info":
		err = cmdInfo(cfg, log)
	case "png":
		err = cmdPNG(cfg, log)
	case "mesh":
		err = cmdMesh(cfg, log)
	case "heights":
		err = cmdHeights(cfg, log)
	case "serve":
		err = server.New(cfg, log).ListenAndServe()
	case "config":
		err = cmdConfig(cfg, config.Args())
	}
	if err != nil {
		log.Error("command failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terraingen - diamond-square terrain generator

Usage:
  terraingen <command> [options]

Commands:
  info      Generate a terrain and print its statistics
  png       Write height and colour previews as PNG
  mesh      Write the interleaved vertex buffer (pos3 rgba4 normal3, float32 LE)
  heights   Write the height grid as JSON to stdout
  serve     Serve terrains over HTTP
  config    Write the resolved configuration as YAML [path]

Options:
  -config <file>     Config file (default ./terrain.yaml)
  -seed <n>          Random seed, 0 picks one from the clock
  -level <k>         Grid size 2^k+1
  -roughness <r>     Initial perturbation amplitude
  -decay <policy>    halve or constant
  -no-smooth         Skip the 5x5 box filter
  -out <dir>         Output directory
  -scale <n>         PNG upscale factor
  -addr <addr>       HTTP listen address
  -debug             Debug logging

Examples:
  terraingen info -level 8 -seed 42
  terraingen png -seed 42 -scale 2 -out previews
  terraingen mesh -level 10 -out build
  terraingen serve -addr :8080
  terraingen config -level 9 -roughness 1.5 terrain.yaml`)
}

func setup(args []string) (*config.Config, error) {
	if err := config.ParseFlags(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func cmdInfo(cfg *config.Config, log *zap.Logger) error {
	res, err := pipeline.Build(cfg, pipeline.Options{}, log)
	if err != nil {
		return err
	}

	n := res.Grid.Size()
	centre := res.Extent.Min + (res.Extent.Max-res.Extent.Min)/2
	fmt.Printf("Run:        %s\n", res.ID)
	fmt.Printf("Seed:       %d\n", res.Seed)
	fmt.Printf("Size:       %d x %d\n", n, n)
	fmt.Printf("Decay:      %s\n", res.Params.Decay)
	fmt.Printf("Raw range:  [%.4f, %.4f]\n", res.RawRange.Min, res.RawRange.Max)
	fmt.Printf("Range:      [%.4f, %.4f]\n", res.Range.Min, res.Range.Max)
	fmt.Printf("Triangles:  %d\n", res.Mesh.TriangleCount())
	fmt.Printf("Centre:     %.4f\n", terrain.HeightAt(res.Grid, res.Extent, centre, centre))
	fmt.Printf("Elapsed:    %s\n", res.Elapsed)
	return nil
}

func cmdPNG(cfg *config.Config, log *zap.Logger) error {
	res, err := pipeline.Build(cfg, pipeline.Options{SkipMesh: true}, log)
	if err != nil {
		return err
	}

	base := res.BaseName()
	if err := writeFile(cfg.Output.Dir, base+"_height.png", func(w io.Writer) error {
		return export.WriteHeightPNG(w, res.Grid, res.Range, cfg.Output.Scale)
	}, log); err != nil {
		return err
	}
	return writeFile(cfg.Output.Dir, base+"_color.png", func(w io.Writer) error {
		return export.WriteColorPNG(w, res.Grid, res.Range, res.Ramp, cfg.Output.Scale)
	}, log)
}

func cmdMesh(cfg *config.Config, log *zap.Logger) error {
	res, err := pipeline.Build(cfg, pipeline.Options{}, log)
	if err != nil {
		return err
	}
	return writeFile(cfg.Output.Dir, res.BaseName()+".vbo", func(w io.Writer) error {
		return export.WriteVertexBuffer(w, res.Mesh)
	}, log)
}

func cmdHeights(cfg *config.Config, log *zap.Logger) error {
	res, err := pipeline.Build(cfg, pipeline.Options{SkipMesh: true}, log)
	if err != nil {
		return err
	}
	return export.WriteHeightsJSON(os.Stdout, res.Grid, res.Range)
}

func writeFile(dir, name string, write func(io.Writer) error, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("wrote file", zap.String("path", path))
	return nil
}

// cmdConfig writes cfg to args[0], or to the user's config directory when no
// path is given.
func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Sugar.Infof("wrote config to %s", filepath.Join(config.ConfigDir(), "terrain.yaml"))
		return nil
	}
	if err := cfg.SaveTo(args[0]); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	logger.Sugar.Infof("wrote config to %s", args[0])
	return nil
}
