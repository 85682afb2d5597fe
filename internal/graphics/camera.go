package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the projection matrix
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int, fov, farPlane float32) *Camera {
	c := &Camera{FOV: fov, NearPlane: 0.1, FarPlane: farPlane}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio after a resize
func (c *Camera) SetViewport(width, height int) {
	if height <= 0 {
		height = 1
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}
