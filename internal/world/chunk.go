package world

import (
	"math"

	"terrainwalk/internal/render"
)

// State is a chunk's position in its lifecycle.
type State int

const (
	StateUnloaded State = iota
	StateTerrainLoading
	StateTerrainLoaded
	StateVegetationLoaded
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateTerrainLoading:
		return "terrain-loading"
	case StateTerrainLoaded:
		return "terrain-loaded"
	case StateVegetationLoaded:
		return "vegetation-loaded"
	default:
		return "unknown"
	}
}

type vegetationState struct {
	handle  render.Handle // zero when no instance was placed
	count   int
	opacity float32
	visible bool
}

// Chunk is one streamed terrain tile. Its render handles belong to it until
// the streamer releases them through the bridge.
type Chunk struct {
	Coord            ChunkCoord
	OriginX, OriginZ float64
	Size             float64

	segments int
	heights  []float32 // (segments+1)^2, row-major along z then x

	terrain    []render.Handle
	vegetation *vegetationState
	state      State
}

// NewChunk creates an unloaded chunk for coord.
func NewChunk(coord ChunkCoord, size float64, segments int) *Chunk {
	ox, oz := coord.Origin(size)
	return &Chunk{
		Coord:    coord,
		OriginX:  ox,
		OriginZ:  oz,
		Size:     size,
		segments: segments,
	}
}

func (c *Chunk) State() State {
	return c.state
}

// TerrainHandles returns the geometry handles, one per material class.
func (c *Chunk) TerrainHandles() []render.Handle {
	out := make([]render.Handle, len(c.terrain))
	copy(out, c.terrain)
	return out
}

func (c *Chunk) HasVegetation() bool {
	return c.vegetation != nil
}

// VegetationCount returns the number of live vegetation instances.
func (c *Chunk) VegetationCount() int {
	if c.vegetation == nil {
		return 0
	}
	return c.vegetation.count
}

// VegetationFade returns the last opacity and visibility applied.
func (c *Chunk) VegetationFade() (opacity float32, visible bool) {
	if c.vegetation == nil {
		return 0, false
	}
	return c.vegetation.opacity, c.vegetation.visible
}

// Center returns the chunk centre in world space.
func (c *Chunk) Center() (x, z float64) {
	return c.OriginX + c.Size/2, c.OriginZ + c.Size/2
}

// DistanceXZ is the Euclidean distance on the XZ plane from the chunk centre.
func (c *Chunk) DistanceXZ(x, z float64) float64 {
	cx, cz := c.Center()
	return math.Hypot(cx-x, cz-z)
}

// HeightAt interpolates the rendered surface at world (x, z) using the same
// triangle split as the mesh. ok is false outside the chunk or before the
// terrain is built.
func (c *Chunk) HeightAt(x, z float64) (h float32, ok bool) {
	if c.heights == nil {
		return 0, false
	}
	lx := (x - c.OriginX) / c.Size * float64(c.segments)
	lz := (z - c.OriginZ) / c.Size * float64(c.segments)
	if lx < 0 || lz < 0 || lx > float64(c.segments) || lz > float64(c.segments) {
		return 0, false
	}

	i := min(int(lx), c.segments-1)
	j := min(int(lz), c.segments-1)
	fx := float32(lx - float64(i))
	fz := float32(lz - float64(j))

	row := c.segments + 1
	ha := c.heights[j*row+i]
	hb := c.heights[j*row+i+1]
	hc := c.heights[(j+1)*row+i]
	hd := c.heights[(j+1)*row+i+1]

	if fx+fz <= 1 {
		return ha + (hb-ha)*fx + (hc-ha)*fz, true
	}
	return hd + (hc-hd)*(1-fx) + (hb-hd)*(1-fz), true
}
