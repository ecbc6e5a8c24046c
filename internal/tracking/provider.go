// Package tracking supplies camera poses and ground-plane hit tests.
// Desktop builds run on the simulated provider; a device integration
// implements the same interface.
package tracking

import "github.com/Faultbox/arportal/pkg/math"

// Pose is a tracked camera pose in world space.
type Pose struct {
	Position math.Vec3
	Rotation math.Quat
}

// Provider is queried once per frame by the app.
type Provider interface {
	// Advance steps the provider's internal clock by dt seconds.
	Advance(dt float32)

	// Pose returns the current camera pose. ok is false while tracking
	// has not initialized.
	Pose() (pose Pose, ok bool)

	// HitTest returns a point on the detected ground plane in front of
	// the camera. ok is false until plane detection has settled.
	HitTest() (ground math.Vec3, ok bool)
}
