// Command terrainsim walks a viewer across the terrain without a window,
// streaming chunks into an in-memory bridge, and optionally writes a shaded
// heightfield preview of the area covered.
package main

import (
	"context"
	"flag"
	"image"
	"image/color"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"terrainwalk/internal/config"
	"terrainwalk/internal/game"
	"terrainwalk/internal/player"
	"terrainwalk/internal/profiling"
	"terrainwalk/internal/render"
	"terrainwalk/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	cfg := config.Default()
	configPath := flag.String("config", "", "YAML settings file")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	frames := flag.Int("frames", 1800, "frames to simulate")
	dt := flag.Float64("dt", 1.0/60, "seconds per frame")
	turn := flag.Float64("turn", 0.05, "yaw change per frame in degrees")
	fly := flag.Bool("fly", true, "fly instead of walking")
	report := flag.Int("report", 300, "log streamer stats every N frames")
	preview := flag.String("preview", "", "write a PNG preview of the walked area to this path")
	previewSize := flag.Int("preview-size", 256, "preview pixels per side")
	config.RegisterFlags(flag.CommandLine, &cfg)
	flag.Parse()

	log := newLogger(*logLevel)
	if err := config.Resolve(flag.CommandLine, &cfg, *configPath); err != nil {
		log.Error("load settings", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bridge := render.NewMemoryBridge()
	session, err := game.NewSession(cfg, bridge, log, profiling.New())
	if err != nil {
		log.Error("start session", "error", err)
		os.Exit(1)
	}

	route, err := walk(ctx, session, walkOptions{frames: *frames, dt: *dt, turn: *turn, fly: *fly, report: *report}, log)
	st := session.Streamer.Stats()
	session.Close()
	if err != nil {
		log.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	created, removed := bridge.Counts()
	log.Info("simulation finished",
		"frames", session.Frames(),
		"chunks_built", st.ChunksBuilt,
		"chunks_disposed", st.ChunksDisposed,
		"vegetation_built", st.VegetationBuilt,
		"handles_created", created,
		"handles_removed", removed,
		"handles_live", bridge.Live())

	if *preview != "" {
		if err := writePreview(*preview, *previewSize, session.Generator, route); err != nil {
			log.Error("write preview", "error", err)
			os.Exit(1)
		}
		log.Info("preview written", "path", *preview)
	}
}

type walkOptions struct {
	frames int
	dt     float64
	turn   float64
	fly    bool
	report int
}

// walk drives the session forward, curving gently, and returns the XZ route.
func walk(ctx context.Context, s *game.Session, opts walkOptions, log *slog.Logger) ([]mgl32.Vec2, error) {
	if opts.fly {
		s.Player.ToggleFlight()
	}
	route := make([]mgl32.Vec2, 0, opts.frames)
	for i := 0; i < opts.frames; i++ {
		select {
		case <-ctx.Done():
			log.Warn("interrupted", "frame", i)
			return route, nil
		default:
		}

		s.Player.Look(opts.turn/player.MouseSensitivity, 0)
		if err := s.Step(opts.dt, player.Intent{Forward: 1, Sprint: true}); err != nil {
			return route, err
		}
		p := s.Player.Position
		route = append(route, mgl32.Vec2{p.X(), p.Z()})

		if opts.report > 0 && (i+1)%opts.report == 0 {
			st := s.Streamer.Stats()
			log.Info("progress",
				"frame", i+1,
				"chunk", st.ViewerChunk.String(),
				"loaded", st.LoadedChunks,
				"grass", st.VegetationChunks,
				"grass_visible", st.VisibleVegetation,
				"built", st.ChunksBuilt,
				"disposed", st.ChunksDisposed)
		}
	}
	return route, nil
}

// writePreview renders the bounding square of route and marks the route.
func writePreview(path string, size int, gen *terrain.Generator, route []mgl32.Vec2) error {
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, p := range route {
		minX, maxX = math.Min(minX, float64(p.X())), math.Max(maxX, float64(p.X()))
		minZ, maxZ = math.Min(minZ, float64(p.Y())), math.Max(maxZ, float64(p.Y()))
	}
	if len(route) == 0 {
		minX, maxX, minZ, maxZ = 0, 0, 0, 0
	}
	const margin = 200.0
	span := math.Max(maxX-minX, maxZ-minZ) + 2*margin
	mpp := span / float64(size)
	opts := terrain.PreviewOptions{
		OriginX:        (minX+maxX)/2 - span/2,
		OriginZ:        (minZ+maxZ)/2 - span/2,
		Size:           size,
		MetersPerPixel: mpp,
		Upscale:        2,
	}
	img, err := terrain.RenderPreview(gen, opts)
	if err != nil {
		return err
	}
	markRoute(img, route, opts)
	return terrain.SavePreview(path, img)
}

func markRoute(img *image.NRGBA, route []mgl32.Vec2, opts terrain.PreviewOptions) {
	red := color.NRGBA{220, 30, 30, 255}
	scale := float64(max(opts.Upscale, 1)) / opts.MetersPerPixel
	for _, p := range route {
		px := int((float64(p.X()) - opts.OriginX) * scale)
		py := int((float64(p.Y()) - opts.OriginZ) * scale)
		if image.Pt(px, py).In(img.Bounds()) {
			img.SetNRGBA(px, py, red)
		}
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
