package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestKeyEdges(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	if !im.IsActive(ActionMoveForward) || !im.JustPressed(ActionMoveForward) {
		t.Fatal("W press should activate MoveForward with a press edge")
	}

	im.PostUpdate()
	im.HandleKeyEvent(glfw.KeyW, glfw.Repeat)
	if !im.IsActive(ActionMoveForward) {
		t.Error("repeat should keep MoveForward active")
	}
	if im.JustPressed(ActionMoveForward) {
		t.Error("repeat must not produce a second press edge")
	}

	im.HandleKeyEvent(glfw.KeyW, glfw.Release)
	if im.IsActive(ActionMoveForward) || !im.JustReleased(ActionMoveForward) {
		t.Error("release should clear MoveForward with a release edge")
	}
	im.PostUpdate()
	if im.JustReleased(ActionMoveForward) {
		t.Error("PostUpdate should clear the release edge")
	}
}

func TestArrowKeysShareActions(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyLeft, glfw.Press)
	if !im.IsActive(ActionMoveLeft) {
		t.Error("left arrow should map to MoveLeft")
	}
}

func TestUnbindKey(t *testing.T) {
	im := NewInputManager()
	im.UnbindKey(glfw.KeyG)
	im.HandleKeyEvent(glfw.KeyG, glfw.Press)
	if im.JustPressed(ActionToggleFlight) {
		t.Error("unbound key should not trigger ToggleFlight")
	}

	im.BindKey(glfw.KeyH, ActionToggleFlight)
	im.HandleKeyEvent(glfw.KeyH, glfw.Press)
	if !im.JustPressed(ActionToggleFlight) {
		t.Error("rebound key should trigger ToggleFlight")
	}
}

func TestCursorDelta(t *testing.T) {
	im := NewInputManager()

	im.HandleCursorEvent(100, 100)
	if dx, dy := im.CursorDelta(); dx != 0 || dy != 0 {
		t.Fatalf("first event should only seed, got %v,%v", dx, dy)
	}

	im.HandleCursorEvent(110, 95)
	im.HandleCursorEvent(115, 90)
	if dx, dy := im.CursorDelta(); dx != 15 || dy != -10 {
		t.Errorf("delta = %v,%v, want 15,-10", dx, dy)
	}

	im.PostUpdate()
	if dx, dy := im.CursorDelta(); dx != 0 || dy != 0 {
		t.Errorf("PostUpdate should clear delta, got %v,%v", dx, dy)
	}

	im.ResetCursor()
	im.HandleCursorEvent(500, 500)
	if dx, dy := im.CursorDelta(); dx != 0 || dy != 0 {
		t.Errorf("event after reset should only seed, got %v,%v", dx, dy)
	}
}
