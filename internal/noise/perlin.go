package noise

import (
	"github.com/aquilax/go-perlin"
)

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3

	// Classic Perlin rarely exceeds ~0.7 in magnitude; stretch it so the
	// biome mask actually reaches the mountain threshold.
	perlinGain = 1.4
)

// Perlin wraps classic gradient noise.
type Perlin struct {
	p *perlin.Perlin
}

func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed)}
}

func (p *Perlin) Noise2D(x, z float64) float64 {
	return clamp(p.p.Noise2D(x, z) * perlinGain)
}
