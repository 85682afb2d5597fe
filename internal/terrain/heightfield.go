// Package terrain implements the heightfield: a pure mapping from world
// (x, z) to surface height and plains/mountain biome classification.
package terrain

import (
	"math"

	"terrainwalk/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
)

// Octave is one noise layer of the height profile.
type Octave struct {
	Scale     float64
	Amplitude float64
}

// Profile is a fixed octave series plus a base elevation.
type Profile struct {
	Octaves []Octave
	Base    float64
}

// MountainProfile and PlainsProfile are tuned by eye and must stay fixed for
// every process that expects to see the same world for a seed.
var (
	MountainProfile = Profile{
		Octaves: []Octave{
			{Scale: 0.004, Amplitude: 60},
			{Scale: 0.009, Amplitude: 28},
			{Scale: 0.02, Amplitude: 12},
			{Scale: 0.045, Amplitude: 5},
			{Scale: 0.1, Amplitude: 1.5},
		},
		Base: 35,
	}
	PlainsProfile = Profile{
		Octaves: []Octave{
			{Scale: 0.008, Amplitude: 4},
			{Scale: 0.025, Amplitude: 1.5},
			{Scale: 0.07, Amplitude: 0.4},
		},
		Base: 1,
	}
)

const (
	DefaultBiomeScale     = 0.003
	DefaultBiomeThreshold = 0.65
)

// Sample is the heightfield value at one world position.
type Sample struct {
	Height        float64
	BiomeMask     float64
	IsMountainous bool
}

// Params configures a Generator.
type Params struct {
	BiomeScale     float64
	BiomeThreshold float64
	Mountain       Profile
	Plains         Profile
}

// DefaultParams returns the stock biome settings and octave tables.
func DefaultParams() Params {
	return Params{
		BiomeScale:     DefaultBiomeScale,
		BiomeThreshold: DefaultBiomeThreshold,
		Mountain:       MountainProfile,
		Plains:         PlainsProfile,
	}
}

// Generator evaluates the heightfield. It holds no mutable state and is safe
// to share.
type Generator struct {
	src    noise.Source
	params Params
}

// NewGenerator builds a generator over src. A nil src produces flat,
// zero-height plains everywhere.
func NewGenerator(src noise.Source, params Params) *Generator {
	if params.BiomeScale <= 0 {
		params.BiomeScale = DefaultBiomeScale
	}
	if params.BiomeThreshold <= 0 || params.BiomeThreshold >= 1 {
		params.BiomeThreshold = DefaultBiomeThreshold
	}
	if params.Mountain.Octaves == nil {
		params.Mountain = MountainProfile
	}
	if params.Plains.Octaves == nil {
		params.Plains = PlainsProfile
	}
	return &Generator{src: src, params: params}
}

// Params returns the generator configuration.
func (g *Generator) Params() Params {
	return g.params
}

// Sample evaluates the heightfield at world (x, z).
func (g *Generator) Sample(x, z float64) Sample {
	if g == nil || g.src == nil {
		return Sample{}
	}
	mask := g.BiomeMask(x, z)
	t := g.params.BiomeThreshold

	if mask > t {
		intensity := (mask - t) / (1 - t)
		return Sample{
			Height:        g.profileHeight(g.params.Mountain, x, z) * intensity,
			BiomeMask:     mask,
			IsMountainous: true,
		}
	}
	intensity := 1 - mask/t
	return Sample{
		Height:    g.profileHeight(g.params.Plains, x, z) * intensity,
		BiomeMask: mask,
	}
}

// HeightAt is Sample(x, z).Height.
func (g *Generator) HeightAt(x, z float64) float64 {
	return g.Sample(x, z).Height
}

// BiomeMask returns the low-frequency biome value in [0,1].
func (g *Generator) BiomeMask(x, z float64) float64 {
	if g == nil || g.src == nil {
		return 0
	}
	s := g.params.BiomeScale
	m := (g.src.Noise2D(x*s, z*s) + 1) / 2
	return math.Max(0, math.Min(1, m))
}

func (g *Generator) profileHeight(p Profile, x, z float64) float64 {
	h := p.Base
	for _, o := range p.Octaves {
		h += g.src.Noise2D(x*o.Scale, z*o.Scale) * o.Amplitude
	}
	return h
}

// Normal estimates the surface normal at (x, z) by central differences over
// step world units. Neighbouring chunks agree on shared edges because the
// estimate never looks at chunk-local data.
func (g *Generator) Normal(x, z, step float64) mgl32.Vec3 {
	if step <= 0 {
		step = 1
	}
	hl := g.HeightAt(x-step, z)
	hr := g.HeightAt(x+step, z)
	hd := g.HeightAt(x, z-step)
	hu := g.HeightAt(x, z+step)
	n := mgl32.Vec3{float32(hl - hr), float32(2 * step), float32(hd - hu)}
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}
