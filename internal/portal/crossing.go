// Package portal implements the portal visibility and compositing core:
// crossing detection, render-state configuration, content fitting,
// placement, and the assembly that ties them together.
//
// Sign convention used throughout: the assembly's local +Z half-space is
// the physical-world side ("outside"), content lives at negative local Z
// ("inside"). The assembly's +Z axis faces the camera after placement.
package portal

// CrossingState says which side of the portal plane the viewer is on.
type CrossingState uint8

// Crossing states.
const (
	// Outside: the viewer is in front of the door, in the physical world.
	Outside CrossingState = iota

	// Inside: the viewer has walked through and is immersed in the content.
	Inside
)

// String returns a human-readable state name.
func (s CrossingState) String() string {
	switch s {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	default:
		return "unknown"
	}
}

// Detector classifies the camera's signed distance from the portal plane
// into a crossing state with hysteresis. Two separate thresholds leave a
// dead zone around the plane so positional-tracking jitter near the
// boundary never flips the state back and forth.
type Detector struct {
	// OutsideThreshold is the local Z above which an Inside viewer
	// becomes Outside. Must be positive.
	OutsideThreshold float32

	// InsideThreshold is the local Z below which an Outside viewer
	// becomes Inside. Must be negative.
	InsideThreshold float32

	state CrossingState
	lastZ float32
}

// NewDetector creates a detector in the Outside state.
// Threshold magnitudes around 0.1-0.12m comfortably exceed typical
// tracking jitter.
func NewDetector(outsideThreshold, insideThreshold float32) *Detector {
	return &Detector{
		OutsideThreshold: outsideThreshold,
		InsideThreshold:  insideThreshold,
		state:            Outside,
	}
}

// Observe feeds one frame's camera local Z and returns the resulting
// state plus whether it changed this call. Values inside the dead zone
// never cause a transition.
func (d *Detector) Observe(localZ float32) (CrossingState, bool) {
	d.lastZ = localZ

	switch d.state {
	case Outside:
		if localZ < d.InsideThreshold {
			d.state = Inside
			return d.state, true
		}
	case Inside:
		if localZ > d.OutsideThreshold {
			d.state = Outside
			return d.state, true
		}
	}
	return d.state, false
}

// ForceOutside resets the state to Outside regardless of the last
// observed Z. Called on placement: the viewer is defined to start in
// front of the door.
func (d *Detector) ForceOutside() {
	d.state = Outside
	d.lastZ = 0
}

// State returns the current crossing state.
func (d *Detector) State() CrossingState {
	return d.state
}

// LastZ returns the most recently observed camera local Z.
func (d *Detector) LastZ() float32 {
	return d.lastZ
}
