package noise

import "math"

// Value is lattice value noise over a SplitMix64 hash. It has no external
// dependencies and is stable across platforms for the same seed.
type Value struct {
	seed int64
}

func NewValue(seed int64) *Value {
	return &Value{seed: seed}
}

func (v *Value) Noise2D(x, z float64) float64 {
	return valueNoise2D(x, z, v.seed)*2 - 1
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Hash2 mixes a lattice point and a seed into 64 bits. Each coordinate goes
// through its own finaliser round.
func Hash2(x, z, seed int64) uint64 {
	v := mix64(uint64(seed) + 0x9E3779B97F4A7C15)
	v = mix64(v ^ uint64(x)*0xC2B2AE3D27D4EB4F)
	return mix64(v ^ uint64(z)*0x165667B19E3779F9)
}

// mix64 is the SplitMix64 finaliser.
func mix64(v uint64) uint64 {
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

func latticeValue(x, z, seed int64) float64 {
	return float64(Hash2(x, z, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// valueNoise2D returns a value in [0,1].
func valueNoise2D(x, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)

	fx := fade(x - x0)
	fz := fade(z - z0)

	ix, iz := int64(x0), int64(z0)
	v00 := latticeValue(ix, iz, seed)
	v10 := latticeValue(ix+1, iz, seed)
	v01 := latticeValue(ix, iz+1, seed)
	v11 := latticeValue(ix+1, iz+1, seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
}
