package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"

	"terrainwalk/internal/config"
	"terrainwalk/internal/game"
	"terrainwalk/internal/graphics"
	"terrainwalk/internal/input"
	"terrainwalk/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg := config.Default()
	configPath := flag.String("config", "", "YAML settings file")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	config.RegisterFlags(flag.CommandLine, &cfg)
	flag.Parse()

	log := newLogger(*logLevel)
	if err := config.Resolve(flag.CommandLine, &cfg, *configPath); err != nil {
		log.Error("load settings", "error", err)
		os.Exit(1)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Viewer)
	if err != nil {
		panic(err)
	}

	prof := profiling.New()
	bridge, err := graphics.NewGLBridge(graphics.GLOptions{
		TextureDir:  cfg.Viewer.TextureDir,
		Width:       cfg.Viewer.Width,
		Height:      cfg.Viewer.Height,
		FOV:         cfg.Viewer.FOV,
		FogDistance: float32(cfg.Streaming.TerrainLoadDistance),
		Logger:      log,
		Profiler:    prof,
	})
	if err != nil {
		log.Error("create renderer", "error", err)
		os.Exit(1)
	}
	defer bridge.Close()

	session, err := game.NewSession(cfg, bridge, log, prof)
	if err != nil {
		log.Error("start session", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	im := input.NewInputManager()
	loop := NewGameLoop(window, bridge, session, im, game.NewFPSLimiter(cfg.Viewer.FPSLimit), log)
	setupInputHandlers(window, loop, bridge, im)

	if err := loop.Run(); err != nil {
		log.Error("frame failed", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
