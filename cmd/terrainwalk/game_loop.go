package main

import (
	"fmt"
	"log/slog"
	"time"

	"terrainwalk/internal/game"
	"terrainwalk/internal/graphics"
	"terrainwalk/internal/input"
	"terrainwalk/internal/player"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// maxFrameDelta caps dt after a hitch so the viewer does not tunnel.
const maxFrameDelta = 0.1

// GameLoop manages the main loop state
type GameLoop struct {
	window       *glfw.Window
	bridge       *graphics.GLBridge
	session      *game.Session
	inputManager *input.InputManager
	fpsLimiter   *game.FPSLimiter
	log          *slog.Logger

	showStats bool

	// Timing
	frames           int
	lastFPSCheckTime time.Time
	lastTime         time.Time
}

func NewGameLoop(window *glfw.Window, bridge *graphics.GLBridge, session *game.Session, im *input.InputManager, limiter *game.FPSLimiter, log *slog.Logger) *GameLoop {
	return &GameLoop{
		window:           window,
		bridge:           bridge,
		session:          session,
		inputManager:     im,
		fpsLimiter:       limiter,
		log:              log,
		lastFPSCheckTime: time.Now(),
		lastTime:         time.Now(),
	}
}

// Run drives frames until the window closes or a frame fails.
func (gl *GameLoop) Run() error {
	for !gl.window.ShouldClose() {
		if err := gl.tick(); err != nil {
			return err
		}
	}
	return nil
}

func (gl *GameLoop) tick() error {
	now := time.Now()
	dt := min(now.Sub(gl.lastTime).Seconds(), maxFrameDelta)
	gl.lastTime = now

	glfw.PollEvents()
	gl.handleInputActions()

	im := gl.inputManager
	var intent player.Intent
	if !gl.session.Paused {
		dx, dy := im.CursorDelta()
		gl.session.Player.Look(dx, dy)
		intent = intentFrom(im)
	}
	if err := gl.session.Step(dt, intent); err != nil {
		return err
	}

	gl.bridge.Draw(gl.session.Player.ViewMatrix())
	gl.window.SwapBuffers()

	// Clear edge flags and cursor delta at end of frame
	im.PostUpdate()
	gl.updateTitle(now)
	gl.fpsLimiter.Wait(gl.session.Paused)
	return nil
}

func (gl *GameLoop) handleInputActions() {
	im := gl.inputManager
	s := gl.session

	if im.JustPressed(input.ActionQuit) {
		gl.window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionReleaseCursor) {
		s.Paused = !s.Paused
		if s.Paused {
			gl.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		} else {
			gl.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			im.ResetCursor()
		}
	}
	if im.JustPressed(input.ActionToggleFlight) {
		s.Player.ToggleFlight()
		gl.log.Debug("flight toggled", "flying", s.Player.Flying)
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		gl.bridge.SetWireframe(!gl.bridge.Wireframe())
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		gl.showStats = !gl.showStats
		if !gl.showStats {
			gl.window.SetTitle("terrainwalk")
		}
	}
}

func (gl *GameLoop) updateTitle(now time.Time) {
	gl.frames++
	if now.Sub(gl.lastFPSCheckTime) < time.Second {
		return
	}
	if gl.showStats {
		st := gl.session.Streamer.Stats()
		ds := gl.bridge.Stats()
		pos := gl.session.Player.Position
		gl.window.SetTitle(fmt.Sprintf(
			"terrainwalk | %d fps | chunk %s | %d chunks, %d grass (%d visible) | %d meshes, %d blades | %.0f %.0f %.0f",
			gl.frames, st.ViewerChunk, st.LoadedChunks, st.VegetationChunks, st.VisibleVegetation,
			ds.Meshes, ds.Instances, pos.X(), pos.Y(), pos.Z()))
	}
	gl.frames = 0
	gl.lastFPSCheckTime = now
}

// RefreshRender handles window resize repaints
func (gl *GameLoop) RefreshRender() {
	gl.bridge.Draw(gl.session.Player.ViewMatrix())
	gl.window.SwapBuffers()
}
