package formats

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Door asset errors.
var (
	ErrInvalidDoorSize    = errors.New("door dimensions must be positive")
	ErrUnsortedDoorKeys   = errors.New("door animation keyframes must be sorted by time")
	ErrBadDoorKeyTime     = errors.New("door animation keyframe time must be non-negative")
	ErrEmptyDoorAnimation = errors.New("door animation present but has no keyframes")
)

// DoorAsset describes the visible door-frame geometry and its optional
// one-shot opening animation, stored as a YAML document.
type DoorAsset struct {
	// Width and Height are the outer frame dimensions in meters.
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`

	// Thickness is the frame bar thickness in meters.
	Thickness float32 `yaml:"thickness"`

	// Color is the frame color as RGB in [0, 1].
	Color [3]float32 `yaml:"color"`

	// HingeOffset is the panel pivot offset from the frame's left edge.
	HingeOffset float32 `yaml:"hinge_offset"`

	// Open is the one-shot opening animation. Optional.
	Open *DoorClip `yaml:"open"`
}

// DoorClip is a keyframed yaw animation for the door panel.
type DoorClip struct {
	Keys []DoorKey `yaml:"keys"`
}

// DoorKey is one animation keyframe.
type DoorKey struct {
	// Time is the keyframe time in seconds from clip start.
	Time float32 `yaml:"time"`

	// Yaw is the panel rotation around the hinge in radians.
	Yaw float32 `yaml:"yaw"`
}

// Duration returns the time of the last keyframe.
func (c *DoorClip) Duration() float32 {
	if len(c.Keys) == 0 {
		return 0
	}
	return c.Keys[len(c.Keys)-1].Time
}

// ParseDoor decodes and validates a door asset YAML document.
func ParseDoor(data []byte) (*DoorAsset, error) {
	var d DoorAsset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding door asset: %w", err)
	}

	if d.Width <= 0 || d.Height <= 0 {
		return nil, ErrInvalidDoorSize
	}
	if d.Thickness <= 0 {
		d.Thickness = 0.05
	}

	if d.Open != nil {
		if len(d.Open.Keys) == 0 {
			return nil, ErrEmptyDoorAnimation
		}
		prev := float32(-1)
		for _, k := range d.Open.Keys {
			if k.Time < 0 {
				return nil, ErrBadDoorKeyTime
			}
			if k.Time <= prev {
				return nil, ErrUnsortedDoorKeys
			}
			prev = k.Time
		}
	}

	return &d, nil
}
