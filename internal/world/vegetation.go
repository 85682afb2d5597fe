package world

import (
	"math"
	"math/rand"

	"terrainwalk/internal/noise"
	"terrainwalk/internal/render"
	"terrainwalk/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	vegetationJitterMin = -0.05
	vegetationJitterMax = 0.15
	vegetationScaleMin  = 0.7
	vegetationScaleMax  = 1.3
)

// Placer scatters vegetation over a chunk by rejection sampling against the
// heightfield.
type Placer struct {
	gen           *terrain.Generator
	chunkSize     float64
	target        int
	attemptFactor int
	minRockHeight float64
}

func NewPlacer(gen *terrain.Generator, chunkSize float64, target, attemptFactor int, minRockHeight float64) *Placer {
	return &Placer{
		gen:           gen,
		chunkSize:     chunkSize,
		target:        target,
		attemptFactor: max(attemptFactor, 1),
		minRockHeight: minRockHeight,
	}
}

// Populate places up to target clumps in coord. Each accepted position
// yields two instances a quarter turn apart, forming a crossed billboard
// pair. Running out of attempts leaves a partial fill.
func (p *Placer) Populate(coord ChunkCoord, rng *rand.Rand) []render.Transform {
	if p.target <= 0 {
		return nil
	}
	ox, oz := coord.Origin(p.chunkSize)
	maxAttempts := p.target * p.attemptFactor
	out := make([]render.Transform, 0, 2*p.target)

	accepted := 0
	for attempt := 0; attempt < maxAttempts && accepted < p.target; attempt++ {
		x := ox + rng.Float64()*p.chunkSize
		z := oz + rng.Float64()*p.chunkSize
		h := p.gen.HeightAt(x, z)
		if h >= p.minRockHeight {
			continue
		}

		y := h + vegetationJitterMin + rng.Float64()*(vegetationJitterMax-vegetationJitterMin)
		yaw := rng.Float64() * 2 * math.Pi
		scale := vegetationScaleMin + rng.Float64()*(vegetationScaleMax-vegetationScaleMin)

		pos := mgl32.Vec3{float32(x), float32(y), float32(z)}
		out = append(out,
			render.Transform{Position: pos, Yaw: float32(yaw), Scale: float32(scale)},
			render.Transform{Position: pos, Yaw: float32(yaw + math.Pi/2), Scale: float32(scale)},
		)
		accepted++
	}
	return out
}

// VegetationSeed derives a per-chunk random seed so a chunk regrows the same
// vegetation every time it is reloaded.
func VegetationSeed(worldSeed int64, coord ChunkCoord) int64 {
	return int64(noise.Hash2(int64(coord.X), int64(coord.Z), worldSeed^0x5EED))
}
