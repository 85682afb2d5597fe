package terrain

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
)

// PreviewOptions describes the area covered by a heightfield preview.
type PreviewOptions struct {
	OriginX, OriginZ float64 // world position of the top-left pixel
	Size             int     // sampled pixels per side
	MetersPerPixel   float64
	Upscale          int // output magnification, 1 keeps the sampled size
	MaxHeight        float64
}

// RenderPreview samples the heightfield on a grid and shades each pixel by
// biome and height: plains in greens, mountains from grey rock to snow.
func RenderPreview(g *Generator, opts PreviewOptions) (*image.NRGBA, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("preview size must be positive, got %d", opts.Size)
	}
	if opts.MetersPerPixel <= 0 {
		opts.MetersPerPixel = 1
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = g.maxHeight()
	}

	img := image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	for py := 0; py < opts.Size; py++ {
		z := opts.OriginZ + float64(py)*opts.MetersPerPixel
		for px := 0; px < opts.Size; px++ {
			x := opts.OriginX + float64(px)*opts.MetersPerPixel
			img.SetNRGBA(px, py, shade(g.Sample(x, z), opts.MaxHeight))
		}
	}

	if opts.Upscale <= 1 {
		return img, nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, opts.Size*opts.Upscale, opts.Size*opts.Upscale))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out, nil
}

// SavePreview encodes img as PNG at path, creating parent directories.
func SavePreview(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preview dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

func (g *Generator) maxHeight() float64 {
	h := g.params.Mountain.Base
	for _, o := range g.params.Mountain.Octaves {
		h += o.Amplitude
	}
	return h
}

func shade(s Sample, maxHeight float64) color.NRGBA {
	t := math.Max(0, math.Min(1, s.Height/maxHeight))
	if !s.IsMountainous {
		// darker green near biome edges, brighter in open plains
		g := 110 + uint8(100*(1-s.BiomeMask))
		return color.NRGBA{R: 60, G: g, B: 50, A: 255}
	}
	if t > 0.75 {
		return color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	}
	v := uint8(90 + 120*t)
	return color.NRGBA{R: v, G: v - 10, B: v - 20, A: 255}
}
