// Package camera provides the AR viewer camera.
package camera

import "github.com/Faultbox/arportal/pkg/math"

// Camera is a perspective camera whose world pose is fed once per frame
// by the tracking provider.
type Camera struct {
	// FovY is the vertical field of view in radians.
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32

	position math.Vec3
	rotation math.Quat
}

// New creates a camera with typical AR defaults.
func New(aspect float32) *Camera {
	return &Camera{
		FovY:     1.0, // ~57 degrees
		Aspect:   aspect,
		Near:     0.01,
		Far:      100,
		rotation: math.QuatIdentity(),
	}
}

// SetPose sets the camera's world position and orientation for this frame.
func (c *Camera) SetPose(position math.Vec3, rotation math.Quat) {
	c.position = position
	c.rotation = rotation
}

// Position returns the camera's world position.
func (c *Camera) Position() math.Vec3 {
	return c.position
}

// Rotation returns the camera's world orientation.
func (c *Camera) Rotation() math.Quat {
	return c.rotation
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.TRS(c.position, c.rotation, 1).Inverse()
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// SetAspect updates the aspect ratio after a window resize.
func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
}
