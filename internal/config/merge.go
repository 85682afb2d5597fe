package config

import (
	"flag"
)

// Command-line flag names understood by Merge.
const (
	FlagSeed           = "seed"
	FlagNoise          = "noise"
	FlagSegments       = "segments"
	FlagLoadDistance   = "load-distance"
	FlagGrassDistance  = "grass-distance"
	FlagGrassPerChunk  = "grass-per-chunk"
	FlagMaxBuilds      = "max-builds"
	FlagSplitMaterials = "split-materials"
	FlagWidth          = "width"
	FlagHeight         = "height"
	FlagFPS            = "fps"
	FlagTextureDir     = "texture-dir"
)

// Merge applies file-loaded settings into cfg, but only for values that were
// NOT explicitly set via CLI flags. explicitFlags contains the flag names
// that were explicitly provided on the command line. Settings without a
// flag always come from the file.
func Merge(cfg *Settings, fromFile Settings, explicitFlags map[string]bool) {
	flagged := *cfg
	*cfg = fromFile

	if explicitFlags[FlagSeed] {
		cfg.World.Seed = flagged.World.Seed
	}
	if explicitFlags[FlagNoise] {
		cfg.World.Noise = flagged.World.Noise
	}
	if explicitFlags[FlagSegments] {
		cfg.Streaming.ChunkSegments = flagged.Streaming.ChunkSegments
	}
	if explicitFlags[FlagLoadDistance] {
		cfg.Streaming.TerrainLoadDistance = flagged.Streaming.TerrainLoadDistance
	}
	if explicitFlags[FlagGrassDistance] {
		cfg.Vegetation.LoadDistance = flagged.Vegetation.LoadDistance
	}
	if explicitFlags[FlagGrassPerChunk] {
		cfg.Vegetation.PerChunk = flagged.Vegetation.PerChunk
	}
	if explicitFlags[FlagMaxBuilds] {
		cfg.Streaming.MaxBuildsPerTick = flagged.Streaming.MaxBuildsPerTick
	}
	if explicitFlags[FlagSplitMaterials] {
		cfg.Streaming.SplitMaterials = flagged.Streaming.SplitMaterials
	}
	if explicitFlags[FlagWidth] {
		cfg.Viewer.Width = flagged.Viewer.Width
	}
	if explicitFlags[FlagHeight] {
		cfg.Viewer.Height = flagged.Viewer.Height
	}
	if explicitFlags[FlagFPS] {
		cfg.Viewer.FPSLimit = flagged.Viewer.FPSLimit
	}
	if explicitFlags[FlagTextureDir] {
		cfg.Viewer.TextureDir = flagged.Viewer.TextureDir
	}
}

// RegisterFlags binds the overridable settings to fs, using the current
// values of cfg as defaults.
func RegisterFlags(fs *flag.FlagSet, cfg *Settings) {
	fs.Int64Var(&cfg.World.Seed, FlagSeed, cfg.World.Seed, "world seed")
	fs.StringVar(&cfg.World.Noise, FlagNoise, cfg.World.Noise, "noise source: simplex, perlin or value")
	fs.IntVar(&cfg.Streaming.ChunkSegments, FlagSegments, cfg.Streaming.ChunkSegments, "grid segments per chunk edge")
	fs.Float64Var(&cfg.Streaming.TerrainLoadDistance, FlagLoadDistance, cfg.Streaming.TerrainLoadDistance, "terrain load distance in metres")
	fs.Float64Var(&cfg.Vegetation.LoadDistance, FlagGrassDistance, cfg.Vegetation.LoadDistance, "grass load distance in metres")
	fs.IntVar(&cfg.Vegetation.PerChunk, FlagGrassPerChunk, cfg.Vegetation.PerChunk, "grass clumps per chunk")
	fs.IntVar(&cfg.Streaming.MaxBuildsPerTick, FlagMaxBuilds, cfg.Streaming.MaxBuildsPerTick, "chunk builds per tick, 0 for no limit")
	fs.BoolVar(&cfg.Streaming.SplitMaterials, FlagSplitMaterials, cfg.Streaming.SplitMaterials, "split chunks into ground and mountain meshes")
	fs.IntVar(&cfg.Viewer.Width, FlagWidth, cfg.Viewer.Width, "window width")
	fs.IntVar(&cfg.Viewer.Height, FlagHeight, cfg.Viewer.Height, "window height")
	fs.IntVar(&cfg.Viewer.FPSLimit, FlagFPS, cfg.Viewer.FPSLimit, "frame rate cap, 0 for uncapped")
	fs.StringVar(&cfg.Viewer.TextureDir, FlagTextureDir, cfg.Viewer.TextureDir, "texture directory")
}

// ExplicitFlags returns the names of flags set on the command line.
func ExplicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// Resolve finishes flag handling: when path is non-empty the file is loaded
// and merged under the explicit flags, then the result is validated.
func Resolve(fs *flag.FlagSet, cfg *Settings, path string) error {
	if path != "" {
		fromFile, err := Load(path)
		if err != nil {
			return err
		}
		Merge(cfg, fromFile, ExplicitFlags(fs))
	}
	return cfg.Validate()
}
