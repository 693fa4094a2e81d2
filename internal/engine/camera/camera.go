// Package camera implements a free-flying first person camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultFOV = 70.0 // degrees
	nearPlane  = 0.1
	farPlane   = 1000.0
	maxPitch   = 89.0
	defaultYaw = -90.0 // looking down -Z
)

// Camera is a yaw/pitch fly camera. Not safe for concurrent use; it is
// only touched from the main loop.
type Camera struct {
	Position mgl32.Vec3

	yaw   float64 // degrees, rotation around Y
	pitch float64 // degrees, clamped to avoid gimbal flip

	front mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3

	fov    float32
	aspect float32
}

// New creates a camera at the given position with the default
// orientation.
func New(position mgl32.Vec3, aspect float32) *Camera {
	c := &Camera{
		Position: position,
		yaw:      defaultYaw,
		fov:      defaultFOV,
		aspect:   aspect,
	}
	c.updateVectors()
	return c
}

// SetAspect updates the projection aspect ratio on window resize.
func (c *Camera) SetAspect(width, height int) {
	if height > 0 {
		c.aspect = float32(width) / float32(height)
	}
}

// Rotate applies mouse deltas to yaw and pitch.
func (c *Camera) Rotate(dx, dy float64) {
	c.yaw += dx
	c.pitch -= dy

	if c.pitch > maxPitch {
		c.pitch = maxPitch
	}
	if c.pitch < -maxPitch {
		c.pitch = -maxPitch
	}

	c.updateVectors()
}

// Move translates the camera along its local axes. forward/strafe/lift
// are distances for this frame, already scaled by speed and delta time.
func (c *Camera) Move(forward, strafe, lift float32) {
	c.Position = c.Position.Add(c.front.Mul(forward))
	c.Position = c.Position.Add(c.right.Mul(strafe))
	c.Position = c.Position.Add(c.up.Mul(lift))
}

// Front returns the normalized view direction.
func (c *Camera) Front() mgl32.Vec3 { return c.front }

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.front), c.up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, nearPlane, farPlane)
}

func (c *Camera) updateVectors() {
	yaw := mgl32.DegToRad(float32(c.yaw))
	pitch := mgl32.DegToRad(float32(c.pitch))

	c.front = mgl32.Vec3{
		float32(math.Cos(float64(yaw)) * math.Cos(float64(pitch))),
		float32(math.Sin(float64(pitch))),
		float32(math.Sin(float64(yaw)) * math.Cos(float64(pitch))),
	}.Normalize()

	worldUp := mgl32.Vec3{0, 1, 0}
	c.right = c.front.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
