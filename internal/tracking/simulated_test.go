package tracking

import (
	gomath "math"
	"os"
	"testing"

	"github.com/Faultbox/arportal/internal/logger"
	"github.com/Faultbox/arportal/pkg/math"
)

func TestMain(m *testing.M) {
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestHitTestWaitsForScan(t *testing.T) {
	s := NewSimulated()

	if _, ok := s.HitTest(); ok {
		t.Error("hit test succeeded before plane detection settled")
	}

	s.Advance(1.5)
	hit, ok := s.HitTest()
	if !ok {
		t.Fatal("hit test failed after scan delay")
	}
	if hit.Y != 0 {
		t.Errorf("ground hit Y = %v, want 0", hit.Y)
	}

	// Standing at Z=2.5 facing -Z, the hit lands 2 m ahead.
	want := math.Vec3{X: 0, Y: 0, Z: 0.5}
	if hit.Distance(want) > 1e-5 {
		t.Errorf("hit = %v, want %v", hit, want)
	}
}

func TestWalkForwardMovesTowardFacing(t *testing.T) {
	s := NewSimulated()
	start, _ := s.Pose()

	s.SetMove(MoveInput{Forward: 1})
	for i := 0; i < 60; i++ {
		s.Advance(1.0 / 60.0)
	}

	pose, ok := s.Pose()
	if !ok {
		t.Fatal("pose not available")
	}
	// One second at walk speed, straight down -Z.
	moved := start.Position.Z - pose.Position.Z
	if gomath.Abs(float64(moved)-1.4) > 1e-3 {
		t.Errorf("moved %v along -Z, want 1.4", moved)
	}
	if pose.Position.Y != 1.6 {
		t.Errorf("eye height = %v, want 1.6", pose.Position.Y)
	}
}

func TestTurnRotatesHeading(t *testing.T) {
	s := NewSimulated()
	s.SetMove(MoveInput{Turn: 1})
	s.Advance(1)

	pose, _ := s.Pose()
	forward := pose.Rotation.RotateVec3(math.Vec3{Z: -1})
	wantYaw := float32(1.8)
	want := math.Vec3{
		X: -float32(gomath.Sin(float64(wantYaw))),
		Z: -float32(gomath.Cos(float64(wantYaw))),
	}
	if forward.Distance(want) > 1e-5 {
		t.Errorf("forward = %v, want %v", forward, want)
	}
}

func TestScriptedPathIsDeterministic(t *testing.T) {
	keys := []ScriptKey{
		{Time: 0, Position: math.Vec3{Y: 1.6, Z: 2}},
		{Time: 2, Position: math.Vec3{Y: 1.6, Z: -2}},
	}

	run := func() []math.Vec3 {
		s := NewScripted(keys)
		var path []math.Vec3
		for i := 0; i < 20; i++ {
			s.Advance(0.1)
			pose, _ := s.Pose()
			path = append(path, pose.Position)
		}
		return path
	}

	a, b := run()[19], run()[19]
	if a != b {
		t.Errorf("scripted path diverged: %v vs %v", a, b)
	}
	// Past the final key the path holds its last pose.
	if a.Distance(math.Vec3{Y: 1.6, Z: -2}) > 1e-5 {
		t.Errorf("final position = %v, want {0 1.6 -2}", a)
	}
}

func TestScriptInterpolatesBetweenKeys(t *testing.T) {
	s := NewScripted([]ScriptKey{
		{Time: 0, Position: math.Vec3{Z: 2}},
		{Time: 2, Position: math.Vec3{Z: -2}, Yaw: 1},
	})
	s.Advance(1) // halfway

	pose, _ := s.Pose()
	if gomath.Abs(float64(pose.Position.Z)) > 1e-5 {
		t.Errorf("midpoint Z = %v, want 0", pose.Position.Z)
	}
}
