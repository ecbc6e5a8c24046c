package portal

import (
	gomath "math"

	"github.com/Faultbox/arportal/pkg/math"
)

// PlacePose computes the assembly's world transform for a placement
// gesture: position at the ground hit, yaw-only billboarding toward the
// camera.
//
// A full look-at would pitch the door toward the sky whenever the camera
// is above or below the hinge height, so the look-at target's vertical
// coordinate is forced to the ground height first. What remains is pure
// yaw: the door stays upright on the ground and only turns to face the
// viewer's horizontal position.
func PlacePose(ground, cameraPos math.Vec3) (math.Vec3, math.Quat) {
	// Level the target: eliminate pitch, keep yaw.
	target := math.Vec3{X: cameraPos.X, Y: ground.Y, Z: cameraPos.Z}
	dir := target.Sub(ground)

	// Camera directly above the hit point: any yaw is as good as none.
	if dir.X == 0 && dir.Z == 0 {
		return ground, math.QuatIdentity()
	}

	// Local +Z faces the camera. Yaw is measured from world +Z toward +X.
	yaw := float32(gomath.Atan2(float64(dir.X), float64(dir.Z)))
	return ground, math.QuatFromYaw(yaw)
}
