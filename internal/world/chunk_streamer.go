package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"terrainwalk/internal/config"
	"terrainwalk/internal/profiling"
	"terrainwalk/internal/render"
	"terrainwalk/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNonMonotonicTick is returned when Tick is called with an earlier time
// than the previous call.
var ErrNonMonotonicTick = errors.New("world: tick time went backwards")

// Options configures a TerrainStreamer.
type Options struct {
	ChunkSize           float64
	Segments            int
	TerrainLoadDistance float64
	SplitMaterials      bool
	MaxBuildsPerTick    int // 0 = build the whole keep-set in one tick

	GrassLoadDistance  float64
	GrassFadeStart     float64
	FadeEpsilon        float64
	GrassPerChunk      int
	GrassAttemptFactor int

	MinRockHeight  float64
	MaxRockHeight  float64
	BiomeThreshold float64

	Seed                    int64
	DeterministicVegetation bool

	Logger   *slog.Logger
	Profiler *profiling.Profiler
}

// OptionsFromSettings maps loaded settings onto streamer options.
func OptionsFromSettings(s config.Settings) Options {
	return Options{
		ChunkSize:               s.Streaming.ChunkSize,
		Segments:                s.Streaming.ChunkSegments,
		TerrainLoadDistance:     s.Streaming.TerrainLoadDistance,
		SplitMaterials:          s.Streaming.SplitMaterials,
		MaxBuildsPerTick:        s.Streaming.MaxBuildsPerTick,
		GrassLoadDistance:       s.Vegetation.LoadDistance,
		GrassFadeStart:          s.Vegetation.FadeStart,
		FadeEpsilon:             s.Vegetation.FadeEpsilon,
		GrassPerChunk:           s.Vegetation.PerChunk,
		GrassAttemptFactor:      s.Vegetation.AttemptFactor,
		MinRockHeight:           s.World.MinRockHeight,
		MaxRockHeight:           s.World.MaxRockHeight,
		BiomeThreshold:          s.World.BiomeThreshold,
		Seed:                    s.World.Seed,
		DeterministicVegetation: s.Vegetation.Deterministic,
	}
}

// Stats is a snapshot of streamer activity.
type Stats struct {
	ViewerChunk        ChunkCoord
	LoadedChunks       int
	VegetationChunks   int
	VisibleVegetation  int
	PendingBuilds      int
	ChunksBuilt        int
	ChunksDisposed     int
	VegetationBuilt    int
	VegetationDisposed int
	Ticks              int
}

// TerrainStreamer keeps the chunks around a moving viewer loaded. Every
// method must be called from the tick loop goroutine.
type TerrainStreamer struct {
	opts   Options
	radius int

	gen    *terrain.Generator
	bridge render.Bridge
	store  *ChunkStore
	placer *Placer
	rng    *rand.Rand // used when vegetation is not reseeded per chunk

	uniforms      *render.Uniforms
	onUniforms    func(*render.Uniforms)
	uniformsReady bool

	lastCoord ChunkCoord
	hasLast   bool
	pending   int
	lastTime  time.Duration
	ticked    bool

	stats Stats
	log   *slog.Logger
	prof  *profiling.Profiler
}

// NewTerrainStreamer wires a streamer to a heightfield and a render bridge.
func NewTerrainStreamer(gen *terrain.Generator, bridge render.Bridge, opts Options) *TerrainStreamer {
	def := OptionsFromSettings(config.Default())
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.Segments <= 0 {
		opts.Segments = def.Segments
	}
	if opts.GrassAttemptFactor <= 0 {
		opts.GrassAttemptFactor = def.GrassAttemptFactor
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &TerrainStreamer{
		opts:     opts,
		radius:   int(math.Ceil(opts.TerrainLoadDistance / opts.ChunkSize)),
		gen:      gen,
		bridge:   bridge,
		store:    NewChunkStore(),
		placer:   NewPlacer(gen, opts.ChunkSize, opts.GrassPerChunk, opts.GrassAttemptFactor, opts.MinRockHeight),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		uniforms: render.NewUniforms(),
		log:      log.With("component", "streamer"),
		prof:     opts.Profiler,
	}
}

// OnMaterialUniformsReady registers fn to receive the live uniform set once
// the first terrain material exists. fn runs at most once; registering after
// that point calls it immediately.
func (s *TerrainStreamer) OnMaterialUniformsReady(fn func(*render.Uniforms)) {
	s.onUniforms = fn
	if s.uniformsReady && fn != nil {
		fn(s.uniforms)
		s.onUniforms = nil
	}
}

// Uniforms returns the live uniform set. Values set on it reach the bridge
// at the end of the next Tick.
func (s *TerrainStreamer) Uniforms() *render.Uniforms {
	return s.uniforms
}

// Radius is the keep-set radius in chunks.
func (s *TerrainStreamer) Radius() int {
	return s.radius
}

// Tick advances the streamer to time now with the viewer at pos.
func (s *TerrainStreamer) Tick(now time.Duration, pos mgl32.Vec3) error {
	defer s.prof.Track("world.Tick")()
	if s.ticked && now < s.lastTime {
		return fmt.Errorf("%w: %v after %v", ErrNonMonotonicTick, now, s.lastTime)
	}
	s.ticked = true
	s.lastTime = now
	s.stats.Ticks++
	s.uniforms.Set(render.UniformTime, float32(now.Seconds()))

	coord := CoordAt(float64(pos.X()), float64(pos.Z()), s.opts.ChunkSize)
	if !s.hasLast || coord != s.lastCoord || s.pending > 0 {
		if err := s.updateKeepSet(coord); err != nil {
			return err
		}
	}
	if err := s.updateVegetation(pos); err != nil {
		return err
	}

	s.uniforms.Flush(s.bridge)
	return nil
}

func (s *TerrainStreamer) updateKeepSet(center ChunkCoord) error {
	defer s.prof.Track("world.updateKeepSet")()
	if s.hasLast && center != s.lastCoord {
		s.log.Debug("viewer changed chunk", "from", s.lastCoord.String(), "to", center.String())
	}
	// A failed build leaves hasLast unset so the next tick retries.
	s.hasLast = false
	s.lastCoord = center

	for _, c := range s.store.CoordsOutside(center, s.radius) {
		s.unloadChunk(c)
	}

	built, pending := 0, 0
	for _, c := range KeepSet(center, s.radius) {
		if s.store.Has(c) {
			continue
		}
		if s.opts.MaxBuildsPerTick > 0 && built >= s.opts.MaxBuildsPerTick {
			pending++
			continue
		}
		if err := s.loadChunk(c); err != nil {
			return fmt.Errorf("build chunk %s: %w", c, err)
		}
		built++
	}

	s.pending = pending
	s.hasLast = true
	return nil
}

func (s *TerrainStreamer) loadChunk(coord ChunkCoord) error {
	defer s.prof.Track("world.loadChunk")()
	chunk := NewChunk(coord, s.opts.ChunkSize, s.opts.Segments)
	chunk.state = StateTerrainLoading

	mesh := BuildMesh(s.gen, coord, s.opts.ChunkSize, s.opts.Segments)
	name := render.TerrainName(coord.X, coord.Z)
	for _, g := range mesh.Geometries(s.opts.SplitMaterials) {
		h, err := s.bridge.AddChunkGeometry(name, g)
		if err != nil {
			s.releaseTerrain(chunk)
			return err
		}
		chunk.terrain = append(chunk.terrain, h)
	}
	chunk.heights = mesh.Heights
	chunk.state = StateTerrainLoaded

	if err := s.store.Add(chunk); err != nil {
		s.releaseTerrain(chunk)
		return err
	}
	s.stats.ChunksBuilt++
	s.log.Debug("chunk loaded", "coord", coord.String(), "meshes", len(chunk.terrain))
	s.materialsReady()
	return nil
}

func (s *TerrainStreamer) materialsReady() {
	if s.uniformsReady {
		return
	}
	s.uniformsReady = true
	s.uniforms.Set(render.UniformMinRockHeight, float32(s.opts.MinRockHeight))
	s.uniforms.Set(render.UniformMaxRockHeight, float32(s.opts.MaxRockHeight))
	s.uniforms.Set(render.UniformBiomeThreshold, float32(s.opts.BiomeThreshold))
	s.uniforms.Set(render.UniformGrassFadeStart, float32(s.opts.GrassFadeStart))
	s.uniforms.Set(render.UniformGrassLoadDistance, float32(s.opts.GrassLoadDistance))
	if _, ok := s.uniforms.Get(render.UniformCameraPosition); !ok {
		s.uniforms.Set(render.UniformCameraPosition, mgl32.Vec3{})
	}
	if fn := s.onUniforms; fn != nil {
		s.onUniforms = nil
		fn(s.uniforms)
	}
}

func (s *TerrainStreamer) releaseTerrain(c *Chunk) {
	for _, h := range c.terrain {
		s.bridge.RemoveGeometry(h)
	}
	c.terrain = nil
}

// unloadChunk releases vegetation, then terrain, then drops the store entry.
func (s *TerrainStreamer) unloadChunk(coord ChunkCoord) {
	chunk, ok := s.store.Get(coord)
	if !ok {
		return
	}
	if chunk.vegetation != nil {
		s.disposeVegetation(chunk)
	}
	s.releaseTerrain(chunk)
	chunk.heights = nil
	chunk.state = StateUnloaded
	s.store.Remove(coord)
	s.stats.ChunksDisposed++
	s.log.Debug("chunk unloaded", "coord", coord.String())
}

func (s *TerrainStreamer) updateVegetation(pos mgl32.Vec3) error {
	defer s.prof.Track("world.updateVegetation")()
	vx, vz := float64(pos.X()), float64(pos.Z())

	for _, chunk := range s.store.All() {
		d := chunk.DistanceXZ(vx, vz)
		switch {
		case d <= s.opts.GrassLoadDistance && chunk.vegetation == nil:
			if err := s.populate(chunk); err != nil {
				return fmt.Errorf("populate vegetation %s: %w", chunk.Coord, err)
			}
		case d > s.opts.GrassLoadDistance && chunk.vegetation != nil:
			s.disposeVegetation(chunk)
		}
		if chunk.vegetation != nil {
			s.applyFade(chunk, d)
		}
	}
	return nil
}

func (s *TerrainStreamer) populate(chunk *Chunk) error {
	defer s.prof.Track("world.populate")()
	rng := s.rng
	if s.opts.DeterministicVegetation {
		rng = rand.New(rand.NewSource(VegetationSeed(s.opts.Seed, chunk.Coord)))
	}
	transforms := s.placer.Populate(chunk.Coord, rng)

	veg := &vegetationState{count: len(transforms), opacity: 1, visible: true}
	if len(transforms) > 0 {
		h, err := s.bridge.AddInstancedVegetation(render.VegetationName(chunk.Coord.X, chunk.Coord.Z), transforms)
		if err != nil {
			return err
		}
		veg.handle = h
	}
	chunk.vegetation = veg
	chunk.state = StateVegetationLoaded
	s.stats.VegetationBuilt++
	return nil
}

func (s *TerrainStreamer) disposeVegetation(chunk *Chunk) {
	if chunk.vegetation.handle != 0 {
		s.bridge.RemoveInstances(chunk.vegetation.handle)
	}
	chunk.vegetation = nil
	if chunk.state == StateVegetationLoaded {
		chunk.state = StateTerrainLoaded
	}
	s.stats.VegetationDisposed++
}

func (s *TerrainStreamer) applyFade(chunk *Chunk, distance float64) {
	opacity := FadeOpacity(distance, s.opts.GrassFadeStart, s.opts.GrassLoadDistance)
	visible := FadeVisible(opacity, s.opts.FadeEpsilon)
	veg := chunk.vegetation
	if float32(opacity) == veg.opacity && visible == veg.visible {
		return
	}
	veg.opacity = float32(opacity)
	veg.visible = visible
	if veg.handle != 0 {
		s.bridge.SetInstanceFade(veg.handle, veg.opacity, visible)
	}
}

// Chunk returns the loaded chunk at coord.
func (s *TerrainStreamer) Chunk(coord ChunkCoord) (*Chunk, bool) {
	return s.store.Get(coord)
}

// Coords lists loaded chunk coordinates.
func (s *TerrainStreamer) Coords() []ChunkCoord {
	return s.store.Coords()
}

// TerrainHandles returns the geometry handles registered for coord.
func (s *TerrainStreamer) TerrainHandles(coord ChunkCoord) ([]render.Handle, bool) {
	c, ok := s.store.Get(coord)
	if !ok {
		return nil, false
	}
	return c.TerrainHandles(), true
}

// VegetationHandle returns the instance batch for coord, if one exists.
func (s *TerrainStreamer) VegetationHandle(coord ChunkCoord) (render.Handle, bool) {
	c, ok := s.store.Get(coord)
	if !ok || c.vegetation == nil || c.vegetation.handle == 0 {
		return 0, false
	}
	return c.vegetation.handle, true
}

// GroundHeight returns the rendered terrain height under world (x, z). ok is
// false when the chunk there is not loaded.
func (s *TerrainStreamer) GroundHeight(x, z float32) (float32, bool) {
	coord := CoordAt(float64(x), float64(z), s.opts.ChunkSize)
	c, ok := s.store.Get(coord)
	if !ok {
		return 0, false
	}
	return c.HeightAt(float64(x), float64(z))
}

// Stats returns a snapshot of the streamer state.
func (s *TerrainStreamer) Stats() Stats {
	st := s.stats
	st.ViewerChunk = s.lastCoord
	st.LoadedChunks = s.store.Len()
	st.PendingBuilds = s.pending
	for _, c := range s.store.All() {
		if c.vegetation != nil {
			st.VegetationChunks++
			if c.vegetation.visible {
				st.VisibleVegetation++
			}
		}
	}
	return st
}

// Close unloads every chunk and asks the bridge to drop anything left.
func (s *TerrainStreamer) Close() {
	for _, c := range s.store.Coords() {
		s.unloadChunk(c)
	}
	s.bridge.DisposeAll()
	s.hasLast = false
	s.pending = 0
}
