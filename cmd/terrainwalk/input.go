package main

import (
	"terrainwalk/internal/graphics"
	"terrainwalk/internal/input"
	"terrainwalk/internal/player"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupInputHandlers(window *glfw.Window, loop *GameLoop, bridge *graphics.GLBridge, im *input.InputManager) {
	// Key and cursor callbacks feed the InputManager
	im.SetKeyCallback(window)

	// Framebuffer size callback
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		bridge.Camera().SetViewport(fbWidth, fbHeight)
	})

	// Repaint while the user drags the window edge
	window.SetRefreshCallback(func(w *glfw.Window) {
		loop.RefreshRender()
	})
}

// intentFrom maps the held actions onto a movement intent.
func intentFrom(im *input.InputManager) player.Intent {
	var in player.Intent
	if im.IsActive(input.ActionMoveForward) {
		in.Forward += 1
	}
	if im.IsActive(input.ActionMoveBackward) {
		in.Forward -= 1
	}
	if im.IsActive(input.ActionMoveLeft) {
		in.Strafe -= 1
	}
	if im.IsActive(input.ActionMoveRight) {
		in.Strafe += 1
	}
	in.Jump = im.IsActive(input.ActionJump)
	in.Descend = im.IsActive(input.ActionDescend)
	in.Sprint = im.IsActive(input.ActionSprint)
	return in
}
