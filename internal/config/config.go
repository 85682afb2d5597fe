// Package config holds the tunable terrain, streaming and viewer settings.
// Defaults are compiled in; a YAML file can override any subset of them.
package config

import (
	"errors"
	"fmt"
	"math"
)

// Compiled-in defaults.
const (
	ChunkSize           = 100.0
	ChunkSegments       = 32
	TerrainLoadDistance = 300.0
	GrassLoadDistance   = 150.0
	GrassFadeStart      = 100.0
	FadeEpsilon         = 0.05
	BiomeThreshold      = 0.65
	BiomeScale          = 0.003
	MinRockHeight       = 12.0
	MaxRockHeight       = 45.0
	GrassPerChunk       = 1200
	GrassAttemptFactor  = 12
	DefaultSeed         = 1337
	DefaultNoise        = "simplex"
)

// ErrInvalid marks settings that fail semantic validation.
var ErrInvalid = errors.New("config: invalid settings")

// Settings is the complete runtime configuration.
type Settings struct {
	World      WorldSettings      `yaml:"world" json:"world"`
	Streaming  StreamingSettings  `yaml:"streaming" json:"streaming"`
	Vegetation VegetationSettings `yaml:"vegetation" json:"vegetation"`
	Viewer     ViewerSettings     `yaml:"viewer" json:"viewer"`
}

type WorldSettings struct {
	Seed           int64   `yaml:"seed" json:"seed"`
	Noise          string  `yaml:"noise" json:"noise"` // simplex, perlin or value
	BiomeScale     float64 `yaml:"biome_scale" json:"biome_scale"`
	BiomeThreshold float64 `yaml:"biome_threshold" json:"biome_threshold"`
	MinRockHeight  float64 `yaml:"min_rock_height" json:"min_rock_height"`
	MaxRockHeight  float64 `yaml:"max_rock_height" json:"max_rock_height"`
}

type StreamingSettings struct {
	ChunkSize           float64 `yaml:"chunk_size" json:"chunk_size"`
	ChunkSegments       int     `yaml:"chunk_segments" json:"chunk_segments"`
	TerrainLoadDistance float64 `yaml:"terrain_load_distance" json:"terrain_load_distance"`
	SplitMaterials      bool    `yaml:"split_materials" json:"split_materials"`
	MaxBuildsPerTick    int     `yaml:"max_builds_per_tick" json:"max_builds_per_tick"` // 0 = unlimited
}

type VegetationSettings struct {
	LoadDistance  float64 `yaml:"load_distance" json:"load_distance"`
	FadeStart     float64 `yaml:"fade_start" json:"fade_start"`
	FadeEpsilon   float64 `yaml:"fade_epsilon" json:"fade_epsilon"`
	PerChunk      int     `yaml:"per_chunk" json:"per_chunk"`
	AttemptFactor int     `yaml:"attempt_factor" json:"attempt_factor"`
	Deterministic bool    `yaml:"deterministic" json:"deterministic"`
}

type ViewerSettings struct {
	Width       int     `yaml:"width" json:"width"`
	Height      int     `yaml:"height" json:"height"`
	FOV         float32 `yaml:"fov" json:"fov"`
	FPSLimit    int     `yaml:"fps_limit" json:"fps_limit"` // 0 = uncapped
	TextureDir  string  `yaml:"texture_dir" json:"texture_dir"`
	SlowFrameMS int     `yaml:"slow_frame_ms" json:"slow_frame_ms"`
}

// Default returns the compiled-in settings.
func Default() Settings {
	return Settings{
		World: WorldSettings{
			Seed:           DefaultSeed,
			Noise:          DefaultNoise,
			BiomeScale:     BiomeScale,
			BiomeThreshold: BiomeThreshold,
			MinRockHeight:  MinRockHeight,
			MaxRockHeight:  MaxRockHeight,
		},
		Streaming: StreamingSettings{
			ChunkSize:           ChunkSize,
			ChunkSegments:       ChunkSegments,
			TerrainLoadDistance: TerrainLoadDistance,
			SplitMaterials:      true,
		},
		Vegetation: VegetationSettings{
			LoadDistance:  GrassLoadDistance,
			FadeStart:     GrassFadeStart,
			FadeEpsilon:   FadeEpsilon,
			PerChunk:      GrassPerChunk,
			AttemptFactor: GrassAttemptFactor,
			Deterministic: true,
		},
		Viewer: ViewerSettings{
			Width:       1280,
			Height:      720,
			FOV:         70,
			FPSLimit:    144,
			TextureDir:  "assets/textures",
			SlowFrameMS: 16,
		},
	}
}

// LoadRadius is the keep-set radius in chunks.
func (s StreamingSettings) LoadRadius() int {
	return int(math.Ceil(s.TerrainLoadDistance / s.ChunkSize))
}

// Validate checks cross-field constraints the schema cannot express.
func (s Settings) Validate() error {
	var errs []error
	if s.Streaming.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("streaming.chunk_size must be positive, got %v", s.Streaming.ChunkSize))
	}
	if s.Streaming.ChunkSegments < 1 {
		errs = append(errs, fmt.Errorf("streaming.chunk_segments must be at least 1, got %d", s.Streaming.ChunkSegments))
	}
	if s.Streaming.TerrainLoadDistance < 0 {
		errs = append(errs, fmt.Errorf("streaming.terrain_load_distance must not be negative"))
	}
	if s.Streaming.MaxBuildsPerTick < 0 {
		errs = append(errs, fmt.Errorf("streaming.max_builds_per_tick must not be negative"))
	}
	if s.World.BiomeThreshold <= 0 || s.World.BiomeThreshold >= 1 {
		errs = append(errs, fmt.Errorf("world.biome_threshold must be in (0,1), got %v", s.World.BiomeThreshold))
	}
	if s.World.BiomeScale <= 0 {
		errs = append(errs, fmt.Errorf("world.biome_scale must be positive"))
	}
	if s.World.MaxRockHeight < s.World.MinRockHeight {
		errs = append(errs, fmt.Errorf("world.max_rock_height %v below min_rock_height %v", s.World.MaxRockHeight, s.World.MinRockHeight))
	}
	if s.Vegetation.FadeStart >= s.Vegetation.LoadDistance {
		errs = append(errs, fmt.Errorf("vegetation.fade_start %v must be below load_distance %v", s.Vegetation.FadeStart, s.Vegetation.LoadDistance))
	}
	if s.Vegetation.FadeEpsilon < 0 || s.Vegetation.FadeEpsilon >= 1 {
		errs = append(errs, fmt.Errorf("vegetation.fade_epsilon must be in [0,1)"))
	}
	if s.Vegetation.PerChunk < 0 || s.Vegetation.AttemptFactor < 1 {
		errs = append(errs, fmt.Errorf("vegetation.per_chunk must be >= 0 and attempt_factor >= 1"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
