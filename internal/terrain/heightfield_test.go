package terrain

import (
	"math"
	"path/filepath"
	"testing"

	"terrainwalk/internal/noise"
)

// constSource returns a fixed value for the biome lookup and zero elsewhere,
// so the biome mask can be steered while the octaves contribute nothing but
// their base elevation.
type constSource struct {
	biome      float64
	biomeScale float64
	octave     float64
}

func (c constSource) Noise2D(x, z float64) float64 {
	if x == 1000*c.biomeScale && z == 1000*c.biomeScale {
		return c.biome
	}
	return c.octave
}

func TestSampleDeterministic(t *testing.T) {
	g := NewGenerator(noise.NewSimplex(1337), DefaultParams())
	var results [100]Sample
	for i := range results {
		results[i] = g.Sample(123.25, -987.5)
	}
	first := results[0]
	for i := 1; i < len(results); i++ {
		if results[i] != first {
			t.Fatalf("Sample not deterministic: results[0]=%+v, results[%d]=%+v", first, i, results[i])
		}
	}

	other := NewGenerator(noise.NewSimplex(1337), DefaultParams())
	if got := other.Sample(123.25, -987.5); got != first {
		t.Errorf("separate generator with same seed differs: %+v vs %+v", got, first)
	}
}

func TestNilSourceIsFlat(t *testing.T) {
	g := NewGenerator(nil, DefaultParams())
	s := g.Sample(50, 50)
	if s.Height != 0 || s.BiomeMask != 0 || s.IsMountainous {
		t.Errorf("expected flat zero sample, got %+v", s)
	}
	var nilGen *Generator
	if h := nilGen.HeightAt(1, 2); h != 0 {
		t.Errorf("nil generator height = %f, want 0", h)
	}
}

func TestBiomeClassification(t *testing.T) {
	p := DefaultParams()
	// mask = (n+1)/2 so n=0.6 -> 0.8 (mountain), n=-0.6 -> 0.2 (plains)
	mountain := NewGenerator(constSource{biome: 0.6, biomeScale: p.BiomeScale}, p)
	if s := mountain.Sample(1000, 1000); !s.IsMountainous {
		t.Errorf("mask %.2f should be mountainous", s.BiomeMask)
	}
	plains := NewGenerator(constSource{biome: -0.6, biomeScale: p.BiomeScale}, p)
	if s := plains.Sample(1000, 1000); s.IsMountainous {
		t.Errorf("mask %.2f should be plains", s.BiomeMask)
	}
}

// TestThresholdContinuity walks the biome mask towards the threshold from
// both sides; heights must converge to the same limit.
func TestThresholdContinuity(t *testing.T) {
	p := DefaultParams()
	heightFor := func(mask float64) float64 {
		g := NewGenerator(constSource{biome: mask*2 - 1, biomeScale: p.BiomeScale}, p)
		return g.HeightAt(1000, 1000)
	}

	for _, eps := range []float64{1e-2, 1e-4, 1e-6, 1e-9} {
		below := heightFor(p.BiomeThreshold - eps)
		above := heightFor(p.BiomeThreshold + eps)
		limit := 200 * eps / (1 - p.BiomeThreshold)
		if math.Abs(below-above) > limit {
			t.Errorf("eps=%g: below=%f above=%f differ more than %f", eps, below, above, limit)
		}
	}
	if h := heightFor(p.BiomeThreshold); math.Abs(h) > 1e-9 {
		t.Errorf("height exactly at threshold = %f, want 0", h)
	}
}

func TestIntensityScalesHeight(t *testing.T) {
	p := DefaultParams()
	// Octaves return zero: mountain height collapses to base * intensity.
	g := NewGenerator(constSource{biome: 1, biomeScale: p.BiomeScale}, p)
	s := g.Sample(1000, 1000)
	if math.Abs(s.Height-p.Mountain.Base) > 1e-9 {
		t.Errorf("full-intensity mountain height = %f, want %f", s.Height, p.Mountain.Base)
	}
	g = NewGenerator(constSource{biome: -1, biomeScale: p.BiomeScale}, p)
	s = g.Sample(1000, 1000)
	if math.Abs(s.Height-p.Plains.Base) > 1e-9 {
		t.Errorf("full-intensity plains height = %f, want %f", s.Height, p.Plains.Base)
	}
}

func TestNormalPointsUp(t *testing.T) {
	g := NewGenerator(noise.NewSimplex(3), DefaultParams())
	for i := 0; i < 20; i++ {
		n := g.Normal(float64(i)*37, float64(i)*-11, 1)
		if n.Y() <= 0 {
			t.Fatalf("normal %v should point upwards", n)
		}
		if l := n.Len(); math.Abs(float64(l)-1) > 1e-4 {
			t.Fatalf("normal %v not unit length (%f)", n, l)
		}
	}
	flat := NewGenerator(nil, DefaultParams())
	if n := flat.Normal(0, 0, 1); n.Y() != 1 {
		t.Errorf("flat normal = %v, want +Y", n)
	}
}

func TestRenderPreview(t *testing.T) {
	g := NewGenerator(noise.NewValue(9), DefaultParams())
	img, err := RenderPreview(g, PreviewOptions{Size: 16, MetersPerPixel: 10, Upscale: 2})
	if err != nil {
		t.Fatalf("render preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("preview bounds %v, want 32x32", b)
	}
	path := filepath.Join(t.TempDir(), "out", "preview.png")
	if err := SavePreview(path, img); err != nil {
		t.Fatalf("save preview: %v", err)
	}
	if _, err := RenderPreview(g, PreviewOptions{}); err == nil {
		t.Errorf("expected error for zero size")
	}
}

func BenchmarkSample(b *testing.B) {
	g := NewGenerator(noise.NewSimplex(1), DefaultParams())
	for i := 0; i < b.N; i++ {
		_ = g.Sample(float64(i%1024), float64((i*31)%1024))
	}
}
