// Package player moves the viewer over the streamed heightfield.
package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	Gravity          = 32.0
	TerminalVelocity = -78.4
	JumpVelocity     = 9.4

	WalkSpeed        = 12.0
	SprintMultiplier = 3.0
	FlySpeed         = 40.0

	EyeHeight        = 1.62
	MouseSensitivity = 0.1

	// stepDown keeps a walking controller glued to the surface going downhill.
	stepDown = 1.0
)

// Intent is one frame of movement input.
type Intent struct {
	Forward float32 // -1 back, +1 forward
	Strafe  float32 // -1 left, +1 right
	Jump    bool
	Descend bool
	Sprint  bool
}

// GroundProbe reports the terrain height under (x, z). ok is false when no
// terrain is loaded there.
type GroundProbe interface {
	GroundHeight(x, z float32) (float32, bool)
}

// Controller is a first-person walker. Position is at the feet.
type Controller struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	OnGround bool
	Flying   bool

	Yaw   float64 // degrees, 0 looks down +X
	Pitch float64 // degrees, clamped to ±89
}

func NewController(pos mgl32.Vec3) *Controller {
	return &Controller{Position: pos}
}

// Look turns the view by a cursor delta in pixels.
func (c *Controller) Look(dx, dy float64) {
	c.Yaw += dx * MouseSensitivity
	c.Pitch -= dy * MouseSensitivity
	if c.Pitch > 89.0 {
		c.Pitch = 89.0
	}
	if c.Pitch < -89.0 {
		c.Pitch = -89.0
	}
}

// ToggleFlight switches between walking and free flight.
func (c *Controller) ToggleFlight() {
	c.Flying = !c.Flying
	c.Velocity[1] = 0
	c.OnGround = false
}

// Update advances the controller by dt seconds.
func (c *Controller) Update(dt float64, in Intent, ground GroundProbe) {
	if dt <= 0 {
		return
	}
	yawRad := float64(mgl32.DegToRad(float32(c.Yaw)))
	frontX, frontZ := float32(math.Cos(yawRad)), float32(math.Sin(yawRad))
	rightX, rightZ := float32(math.Cos(yawRad+math.Pi/2)), float32(math.Sin(yawRad+math.Pi/2))

	dirX := in.Forward*frontX + in.Strafe*rightX
	dirZ := in.Forward*frontZ + in.Strafe*rightZ
	if l := float32(math.Hypot(float64(dirX), float64(dirZ))); l > 1 {
		dirX /= l
		dirZ /= l
	}

	speed := float32(WalkSpeed)
	if c.Flying {
		speed = FlySpeed
	}
	if in.Sprint && in.Forward > 0 {
		speed *= SprintMultiplier
	}
	c.Velocity[0] = dirX * speed
	c.Velocity[2] = dirZ * speed

	if c.Flying {
		c.updateFlying(dt, in, ground)
		return
	}
	c.updateWalking(dt, in, ground)
}

func (c *Controller) updateFlying(dt float64, in Intent, ground GroundProbe) {
	c.Velocity[1] = 0
	if in.Jump {
		c.Velocity[1] = FlySpeed
	} else if in.Descend {
		c.Velocity[1] = -FlySpeed
	}
	next := c.Position.Add(c.Velocity.Mul(float32(dt)))
	if h, ok := probe(ground, next); ok && next[1] < h {
		next[1] = h
		c.Velocity[1] = 0
	}
	c.Position = next
}

func (c *Controller) updateWalking(dt float64, in Intent, ground GroundProbe) {
	if _, ok := probe(ground, c.Position); !ok {
		// Nothing loaded underfoot: hold height until the chunk arrives.
		c.Velocity[1] = 0
		c.OnGround = false
		c.Position[0] += c.Velocity[0] * float32(dt)
		c.Position[2] += c.Velocity[2] * float32(dt)
		return
	}

	if in.Jump && c.OnGround {
		c.Velocity[1] = JumpVelocity
		c.OnGround = false
	}
	c.Velocity[1] -= float32(Gravity * dt)
	if c.Velocity[1] < TerminalVelocity {
		c.Velocity[1] = TerminalVelocity
	}

	next := c.Position.Add(c.Velocity.Mul(float32(dt)))
	h, ok := probe(ground, next)
	if !ok {
		next[1] = c.Position[1]
		c.Velocity[1] = 0
		c.Position = next
		return
	}

	wasGrounded := c.OnGround
	switch {
	case next[1] <= h:
		next[1] = h
		c.Velocity[1] = 0
		c.OnGround = true
	case wasGrounded && c.Velocity[1] <= 0 && next[1]-h < stepDown:
		next[1] = h
		c.Velocity[1] = 0
		c.OnGround = true
	default:
		c.OnGround = false
	}
	c.Position = next
}

func probe(g GroundProbe, p mgl32.Vec3) (float32, bool) {
	if g == nil {
		return 0, false
	}
	return g.GroundHeight(p[0], p[2])
}

// Front is the unit view direction.
func (c *Controller) Front() mgl32.Vec3 {
	y := float64(mgl32.DegToRad(float32(c.Yaw)))
	p := float64(mgl32.DegToRad(float32(c.Pitch)))
	return mgl32.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(math.Sin(y) * math.Cos(p)),
	}.Normalize()
}

// Eye is the camera position.
func (c *Controller) Eye() mgl32.Vec3 {
	return c.Position.Add(mgl32.Vec3{0, EyeHeight, 0})
}

func (c *Controller) ViewMatrix() mgl32.Mat4 {
	eye := c.Eye()
	return mgl32.LookAtV(eye, eye.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}
