package game

import (
	"errors"
	"testing"
	"time"

	"terrainwalk/internal/config"
	"terrainwalk/internal/noise"
	"terrainwalk/internal/player"
	"terrainwalk/internal/profiling"
	"terrainwalk/internal/render"
	"terrainwalk/internal/world"
)

func testSettings() config.Settings {
	s := config.Default()
	s.Streaming.ChunkSegments = 4
	s.Vegetation.PerChunk = 20
	s.Viewer.SlowFrameMS = 0
	return s
}

func TestNewSessionSpawnsOnGround(t *testing.T) {
	bridge := render.NewMemoryBridge()
	s, err := NewSession(testSettings(), bridge, nil, profiling.New())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	if !s.MaterialsReady() {
		t.Fatalf("materials not ready after spawn")
	}
	if got := s.Streamer.Stats().LoadedChunks; got != 49 {
		t.Fatalf("loaded %d chunks at spawn, want 49", got)
	}
	h, ok := s.Streamer.GroundHeight(0, 0)
	if !ok {
		t.Fatalf("no ground at origin")
	}
	if s.Player.Position.Y() <= h {
		t.Errorf("spawned at %v, ground %v", s.Player.Position.Y(), h)
	}

	for i := 0; i < 120; i++ {
		if err := s.Step(1.0/60, player.Intent{}); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if !s.Player.OnGround {
		t.Errorf("viewer did not settle on the ground")
	}
	if s.Frames() != 120 {
		t.Errorf("frames = %d", s.Frames())
	}
	if d := s.Elapsed() - 2*time.Second; d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("elapsed = %v, want 2s", s.Elapsed())
	}
}

func TestSessionWalkStreamsChunks(t *testing.T) {
	bridge := render.NewMemoryBridge()
	s, err := NewSession(testSettings(), bridge, nil, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	s.Player.ToggleFlight()
	for i := 0; i < 600 && s.Player.Position.X() < 250; i++ {
		if err := s.Step(1.0/30, player.Intent{Forward: 1, Sprint: true}); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if x := s.Player.Position.X(); x < 250 {
		t.Fatalf("viewer only reached x=%v", x)
	}
	st := s.Streamer.Stats()
	if st.ViewerChunk.X < 2 {
		t.Errorf("viewer chunk = %v", st.ViewerChunk)
	}
	if _, ok := s.Streamer.Chunk(world.ChunkCoord{X: -3, Z: 0}); ok {
		t.Errorf("chunk -3,0 should have streamed out")
	}
	if st.ChunksDisposed == 0 {
		t.Errorf("nothing was disposed while walking")
	}

	eye, ok := bridge.Uniform(render.UniformCameraPosition)
	if !ok || eye != any(s.Player.Eye()) {
		t.Errorf("cameraPosition uniform = %v, want %v", eye, s.Player.Eye())
	}

	s.Close()
	if bridge.Live() != 0 {
		t.Errorf("%d handles live after Close", bridge.Live())
	}
}

func TestSessionPausedHoldsViewer(t *testing.T) {
	s, err := NewSession(testSettings(), render.NewMemoryBridge(), nil, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	s.Paused = true
	before := s.Player.Position
	for i := 0; i < 10; i++ {
		if err := s.Step(1.0/60, player.Intent{Forward: 1}); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if s.Player.Position != before {
		t.Errorf("paused viewer moved from %v to %v", before, s.Player.Position)
	}
	if s.Frames() != 10 {
		t.Errorf("streamer should keep ticking while paused")
	}
}

func TestNewSessionRejectsUnknownNoise(t *testing.T) {
	settings := testSettings()
	settings.World.Noise = "fractal"
	_, err := NewSession(settings, render.NewMemoryBridge(), nil, nil)
	if !errors.Is(err, noise.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestNewSessionSurfacesBridgeFailure(t *testing.T) {
	bridge := render.NewMemoryBridge()
	bridge.FailGeometry = func(string) error { return render.ErrAllocation }
	_, err := NewSession(testSettings(), bridge, nil, nil)
	if !errors.Is(err, render.ErrAllocation) {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}
	if bridge.Live() != 0 {
		t.Errorf("%d handles leaked by a failed spawn", bridge.Live())
	}
}

func TestSessionBudgetedSpawn(t *testing.T) {
	settings := testSettings()
	settings.Streaming.MaxBuildsPerTick = 7
	s, err := NewSession(settings, render.NewMemoryBridge(), nil, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()
	if st := s.Streamer.Stats(); st.LoadedChunks != 49 || st.PendingBuilds != 0 {
		t.Fatalf("spawn left loaded=%d pending=%d", st.LoadedChunks, st.PendingBuilds)
	}
}

func TestFPSLimiter(t *testing.T) {
	f := NewFPSLimiter(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		f.Wait(false)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("unlimited limiter blocked for %v", time.Since(start))
	}

	f.SetLimit(500)
	start = time.Now()
	for i := 0; i < 20; i++ {
		f.Wait(false)
	}
	if el := time.Since(start); el < 30*time.Millisecond {
		t.Errorf("20 frames at 500fps took %v, want about 40ms", el)
	}
}
