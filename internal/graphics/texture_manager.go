package graphics

import (
	"errors"
	"image/color"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Texture names looked up under the texture directory.
const (
	GroundTexture = "ground.png"
	RockTexture   = "rock.png"
	GrassTexture  = "grass_blade.png"
)

var fallbackColors = map[string]color.RGBA{
	GroundTexture: {86, 125, 70, 255},
	RockTexture:   {120, 116, 110, 255},
	GrassTexture:  {98, 150, 60, 255},
}

// TextureCache loads textures on first use. A texture that is missing or
// fails to decode is replaced by a 1x1 texture of a fallback colour.
type TextureCache struct {
	dir   string
	log   *slog.Logger
	cache map[string]uint32
}

func NewTextureCache(dir string, log *slog.Logger) *TextureCache {
	if log == nil {
		log = slog.Default()
	}
	return &TextureCache{dir: dir, log: log, cache: make(map[string]uint32)}
}

// Get returns the texture ID for name, loading it if needed.
func (tc *TextureCache) Get(name string) uint32 {
	if tex, ok := tc.cache[name]; ok {
		return tex
	}

	path := filepath.Join(tc.dir, name)
	tex, w, h, err := LoadTexture(path)
	if err != nil {
		attrs := []any{"path", path, "err", err}
		if errors.Is(err, fs.ErrNotExist) {
			tc.log.Warn("texture missing, using fallback colour", attrs...)
		} else {
			tc.log.Error("texture load failed, using fallback colour", attrs...)
		}
		c, ok := fallbackColors[name]
		if !ok {
			c = color.RGBA{255, 0, 255, 255}
		}
		tex = SolidTexture(c)
	} else {
		tc.log.Debug("texture loaded", "path", path, "width", w, "height", h)
	}

	tc.cache[name] = tex
	return tex
}

// Release deletes every cached texture.
func (tc *TextureCache) Release() {
	for name, tex := range tc.cache {
		gl.DeleteTextures(1, &tex)
		delete(tc.cache, name)
	}
}
