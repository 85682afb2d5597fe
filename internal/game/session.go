// Package game ties the player controller to the terrain streamer and runs
// one frame of simulation at a time. It knows nothing about windows or GL;
// the binaries supply the bridge and the input.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"terrainwalk/internal/config"
	"terrainwalk/internal/noise"
	"terrainwalk/internal/player"
	"terrainwalk/internal/profiling"
	"terrainwalk/internal/render"
	"terrainwalk/internal/terrain"
	"terrainwalk/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// spawnClearance lifts the viewer above the ground at spawn so the first
// frames settle by falling.
const spawnClearance = 2.0

type Session struct {
	Streamer  *world.TerrainStreamer
	Player    *player.Controller
	Generator *terrain.Generator

	Paused bool

	elapsed   time.Duration
	frames    int
	slowFrame time.Duration
	ready     bool

	log  *slog.Logger
	prof *profiling.Profiler
}

// NewSession builds the world described by settings on top of bridge and
// streams in the spawn area.
func NewSession(settings config.Settings, bridge render.Bridge, log *slog.Logger, prof *profiling.Profiler) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	src, err := noise.New(noise.Kind(settings.World.Noise), settings.World.Seed)
	if err != nil {
		return nil, err
	}
	params := terrain.DefaultParams()
	params.BiomeScale = settings.World.BiomeScale
	params.BiomeThreshold = settings.World.BiomeThreshold
	gen := terrain.NewGenerator(src, params)

	opts := world.OptionsFromSettings(settings)
	opts.Logger = log
	opts.Profiler = prof
	streamer := world.NewTerrainStreamer(gen, bridge, opts)

	s := &Session{
		Streamer:  streamer,
		Player:    player.NewController(mgl32.Vec3{}),
		Generator: gen,
		slowFrame: time.Duration(settings.Viewer.SlowFrameMS) * time.Millisecond,
		log:       log,
		prof:      prof,
	}
	streamer.OnMaterialUniformsReady(func(u *render.Uniforms) {
		s.ready = true
		log.Info("terrain material ready", "uniforms", u.Names())
	})

	if err := s.spawn(); err != nil {
		streamer.Close()
		return nil, err
	}
	log.Info("session started",
		"seed", settings.World.Seed,
		"noise", settings.World.Noise,
		"radius", streamer.Radius(),
		"spawn", s.Player.Position)
	return s, nil
}

// spawn builds the keep-set around the origin, honouring the build budget,
// and drops the viewer onto the rendered surface.
func (s *Session) spawn() error {
	for {
		if err := s.Streamer.Tick(s.elapsed, s.Player.Eye()); err != nil {
			return fmt.Errorf("spawn: %w", err)
		}
		if s.Streamer.Stats().PendingBuilds == 0 {
			break
		}
	}
	h, ok := s.Streamer.GroundHeight(0, 0)
	if !ok {
		return fmt.Errorf("spawn: no terrain at origin")
	}
	s.Player.Position = mgl32.Vec3{0, h + spawnClearance, 0}
	return nil
}

// MaterialsReady reports whether the first terrain material has been built.
func (s *Session) MaterialsReady() bool {
	return s.ready
}

// Elapsed is the simulated time so far.
func (s *Session) Elapsed() time.Duration {
	return s.elapsed
}

// Frames counts completed Steps.
func (s *Session) Frames() int {
	return s.frames
}

// Step advances one frame of dt seconds with the given movement intent.
// While paused the viewer stays put but the streamer keeps ticking.
func (s *Session) Step(dt float64, in player.Intent) error {
	s.prof.Reset()
	start := time.Now()
	if dt > 0 {
		s.elapsed += time.Duration(dt * float64(time.Second))
	}

	if !s.Paused {
		func() {
			defer s.prof.Track("player.Update")()
			s.Player.Update(dt, in, s.Streamer)
		}()
	}

	eye := s.Player.Eye()
	s.Streamer.Uniforms().Set(render.UniformCameraPosition, eye)
	if err := s.Streamer.Tick(s.elapsed, eye); err != nil {
		return err
	}
	s.frames++

	if d := time.Since(start); s.slowFrame > 0 && d > s.slowFrame {
		s.log.Warn("slow frame", "duration", d, "top", s.prof.TopN(5))
	}
	return nil
}

// Close releases every chunk.
func (s *Session) Close() {
	st := s.Streamer.Stats()
	s.Streamer.Close()
	s.log.Info("session closed",
		"frames", s.frames,
		"chunks_built", st.ChunksBuilt,
		"chunks_disposed", st.ChunksDisposed)
}
