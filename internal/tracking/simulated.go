package tracking

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/arportal/internal/logger"
	"github.com/Faultbox/arportal/pkg/math"
)

const (
	eyeHeight = 1.6 // meters
	walkSpeed = 1.4 // meters per second
	turnSpeed = 1.8 // radians per second

	// scanDelay fakes the plane-detection settling time.
	scanDelay = 1.0

	// hitDistance is how far ahead of the camera the ground hit lands.
	hitDistance = 2.0
)

// MoveInput is one frame of walk input, camera-relative, each axis in
// [-1, 1].
type MoveInput struct {
	Forward float32
	Strafe  float32
	Turn    float32 // positive turns left
}

// ScriptKey is a timed camera pose for scripted playback.
type ScriptKey struct {
	Time     float32 // seconds from start
	Position math.Vec3
	Yaw      float32 // radians about +Y
}

// Simulated is a deterministic tracking provider for desktop runs:
// either keyboard-driven (SetMove each frame) or replaying a scripted
// camera path. Yaw-only orientation; the eye stays at a fixed height.
type Simulated struct {
	pos     math.Vec3
	yaw     float32
	elapsed float32
	move    MoveInput
	script  []ScriptKey
}

// NewSimulated creates a keyboard-driven provider standing 2.5 m back
// from the origin, facing it.
func NewSimulated() *Simulated {
	return &Simulated{
		pos: math.Vec3{Y: eyeHeight, Z: 2.5},
	}
}

// NewScripted creates a provider that replays the given camera path.
// Keys must be sorted by time; the path holds its last pose.
func NewScripted(keys []ScriptKey) *Simulated {
	s := &Simulated{script: keys}
	if len(keys) > 0 {
		s.pos = keys[0].Position
		s.yaw = keys[0].Yaw
	}
	logger.Debug("scripted tracking path loaded", zap.Int("keys", len(keys)))
	return s
}

// SetMove sets the walk input applied on the next Advance. Ignored
// while a script is playing.
func (s *Simulated) SetMove(m MoveInput) {
	s.move = m
}

// Advance steps the simulation by dt seconds.
func (s *Simulated) Advance(dt float32) {
	s.elapsed += dt

	if len(s.script) > 0 {
		s.pos, s.yaw = sampleScript(s.script, s.elapsed)
		return
	}

	s.yaw += s.move.Turn * turnSpeed * dt

	sin := float32(gomath.Sin(float64(s.yaw)))
	cos := float32(gomath.Cos(float64(s.yaw)))
	forward := math.Vec3{X: -sin, Z: -cos}
	right := math.Vec3{X: cos, Z: -sin}

	step := forward.Scale(s.move.Forward * walkSpeed * dt).
		Add(right.Scale(s.move.Strafe * walkSpeed * dt))
	s.pos = s.pos.Add(step)
	s.pos.Y = eyeHeight
}

// Pose returns the current camera pose. Always tracking.
func (s *Simulated) Pose() (Pose, bool) {
	return Pose{
		Position: s.pos,
		Rotation: math.QuatFromYaw(s.yaw),
	}, true
}

// HitTest returns the ground point hitDistance ahead of the camera,
// once the fake plane detection has settled.
func (s *Simulated) HitTest() (math.Vec3, bool) {
	if s.elapsed < scanDelay {
		return math.Vec3{}, false
	}

	sin := float32(gomath.Sin(float64(s.yaw)))
	cos := float32(gomath.Cos(float64(s.yaw)))
	hit := s.pos.Add(math.Vec3{X: -sin, Z: -cos}.Scale(hitDistance))
	hit.Y = 0
	return hit, true
}

// sampleScript interpolates position and yaw along the path, holding
// the first and last keys outside the path's time range.
func sampleScript(keys []ScriptKey, t float32) (math.Vec3, float32) {
	if t <= keys[0].Time {
		return keys[0].Position, keys[0].Yaw
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Position, last.Yaw
	}

	for i := 1; i < len(keys); i++ {
		if keys[i].Time < t {
			continue
		}
		prev, next := keys[i-1], keys[i]
		frac := float32(0)
		if next.Time != prev.Time {
			frac = (t - prev.Time) / (next.Time - prev.Time)
		}
		pos := prev.Position.Add(next.Position.Sub(prev.Position).Scale(frac))
		yaw := prev.Yaw + (next.Yaw-prev.Yaw)*frac
		return pos, yaw
	}
	return last.Position, last.Yaw
}
