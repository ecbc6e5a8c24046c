// Package anim provides a one-shot keyframe animation player.
package anim

import "github.com/Faultbox/arportal/pkg/math"

// Keyframe is a rotation sample at a point in time.
type Keyframe struct {
	Time     float32 // seconds from clip start
	Rotation math.Quat
}

// Clip is a sequence of keyframes sorted by time.
type Clip struct {
	Keys []Keyframe
}

// Duration returns the time of the last keyframe.
func (c Clip) Duration() float32 {
	if len(c.Keys) == 0 {
		return 0
	}
	return c.Keys[len(c.Keys)-1].Time
}

// Sample interpolates the clip rotation at the given time. Times before
// the first key return the first key, times past the last key return the
// last key (the clip holds its final pose).
func (c Clip) Sample(t float32) math.Quat {
	if len(c.Keys) == 0 {
		return math.QuatIdentity()
	}
	if t <= c.Keys[0].Time {
		return c.Keys[0].Rotation
	}
	last := c.Keys[len(c.Keys)-1]
	if t >= last.Time {
		return last.Rotation
	}

	// Find surrounding keyframes.
	var prev, next Keyframe
	for i := 1; i < len(c.Keys); i++ {
		if c.Keys[i].Time >= t {
			prev = c.Keys[i-1]
			next = c.Keys[i]
			break
		}
	}

	frac := float32(0)
	if next.Time != prev.Time {
		frac = (t - prev.Time) / (next.Time - prev.Time)
	}
	return prev.Rotation.Slerp(next.Rotation, frac)
}

// Player drives a clip exactly once per Restart: it never loops, and
// after the clip ends it holds the final pose.
type Player struct {
	clip    Clip
	time    float32
	playing bool
}

// NewPlayer creates a player for the given clip. The player starts
// stopped at time zero.
func NewPlayer(clip Clip) *Player {
	return &Player{clip: clip}
}

// Restart rewinds to the first frame and starts playback.
func (p *Player) Restart() {
	p.time = 0
	p.playing = len(p.clip.Keys) > 0
}

// Advance moves playback forward by dt seconds. A stopped or finished
// player does not move.
func (p *Player) Advance(dt float32) {
	if !p.playing {
		return
	}
	p.time += dt
	if p.time >= p.clip.Duration() {
		p.time = p.clip.Duration()
		p.playing = false
	}
}

// Value returns the current clip rotation.
func (p *Player) Value() math.Quat {
	return p.clip.Sample(p.time)
}

// Done reports whether playback has run to completion. A player that
// was never restarted is not done.
func (p *Player) Done() bool {
	return !p.playing && p.time > 0 && p.time >= p.clip.Duration()
}

// Playing reports whether the clip is currently advancing.
func (p *Player) Playing() bool {
	return p.playing
}
