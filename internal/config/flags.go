package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagSeed      = flag.Uint64("seed", 0, "Random seed (0 = from clock)")
	flagLevel     = flag.Int("level", 0, "Grid level, size is 2^level+1")
	flagRoughness = flag.Float64("roughness", -1, "Initial perturbation amplitude")
	flagDecay     = flag.String("decay", "", "Roughness decay: halve or constant")
	flagNoSmooth  = flag.Bool("no-smooth", false, "Skip the box filter")
	flagOut       = flag.String("out", "", "Output directory")
	flagScale     = flag.Int("scale", 0, "PNG upscale factor")
	flagAddr      = flag.String("addr", "", "HTTP listen address")
)

// ParseFlags parses command-line flags from args (usually the arguments after the subcommand).
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
	if *flagLevel > 0 {
		cfg.Terrain.Level = *flagLevel
	}
	if *flagRoughness >= 0 {
		cfg.Terrain.Roughness = float32(*flagRoughness)
	}
	if *flagDecay != "" {
		cfg.Terrain.Decay = *flagDecay
	}
	if *flagNoSmooth {
		cfg.Terrain.SmoothPasses = 0
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagScale > 0 {
		cfg.Output.Scale = *flagScale
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
}
