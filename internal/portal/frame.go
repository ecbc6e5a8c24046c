package portal

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/arportal/internal/engine/anim"
	"github.com/Faultbox/arportal/internal/engine/scene"
	"github.com/Faultbox/arportal/internal/logger"
	"github.com/Faultbox/arportal/pkg/formats"
	"github.com/Faultbox/arportal/pkg/math"
)

// FrameAsset is the visible door geometry with its optional one-shot
// opening animation.
type FrameAsset struct {
	// Root holds the whole door subtree: frame border plus panel.
	Root *scene.Node

	// Panel is the swinging door leaf, hinged at its local origin.
	// Nil when the asset has no panel animation.
	Panel *scene.Node

	// Player drives the panel's open animation. Nil without a clip.
	Player *anim.Player
}

// Restart rewinds and replays the opening animation from its first
// frame. Safe to call on assets without animation.
func (f *FrameAsset) Restart() {
	if f.Player != nil {
		f.Player.Restart()
	}
}

// Advance steps the animation and poses the panel. Safe on assets
// without animation.
func (f *FrameAsset) Advance(dt float32) {
	if f.Player == nil || f.Panel == nil {
		return
	}
	f.Player.Advance(dt)
	f.Panel.SetRotation(f.Player.Value())
}

// LoadFrameAsset reads and builds a door asset from a YAML file.
func LoadFrameAsset(path string, opening Opening) (*FrameAsset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading door asset: %w", err)
	}
	door, err := formats.ParseDoor(data)
	if err != nil {
		return nil, fmt.Errorf("parsing door asset %s: %w", path, err)
	}
	return buildFrameAsset(door, opening), nil
}

// PlaceholderFrame builds the built-in fallback door used for the rest
// of the session when the real asset fails to load: a plain gray frame
// border, no panel, no animation.
func PlaceholderFrame(opening Opening) *FrameAsset {
	root := scene.NewNode("frame-placeholder")
	root.Mesh = buildFrameMesh(opening, 0.05, [3]float32{0.5, 0.5, 0.5})
	return &FrameAsset{Root: root}
}

func buildFrameAsset(door *formats.DoorAsset, opening Opening) *FrameAsset {
	root := scene.NewNode("frame")
	root.Mesh = buildFrameMesh(opening, door.Thickness, door.Color)

	asset := &FrameAsset{Root: root}

	if door.Open != nil {
		panel := scene.NewNode("door-panel")
		panel.Mesh = buildPanelMesh(opening.Width, opening.Height, door.Color)
		panel.SetPosition(math.Vec3{
			X: opening.LeftEdgeX() + door.HingeOffset,
			Y: 0,
			Z: 0,
		})
		root.AddChild(panel)

		keys := make([]anim.Keyframe, 0, len(door.Open.Keys))
		for _, k := range door.Open.Keys {
			keys = append(keys, anim.Keyframe{
				Time:     k.Time,
				Rotation: math.QuatFromYaw(k.Yaw),
			})
		}
		clip := anim.Clip{Keys: keys}

		asset.Panel = panel
		asset.Player = anim.NewPlayer(clip)

		logger.Debug("door asset loaded with animation",
			zap.Int("keyframes", len(keys)),
			zap.Float32("duration", clip.Duration()),
		)
	}

	return asset
}
