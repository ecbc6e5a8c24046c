package portal

import (
	"go.uber.org/zap"

	"github.com/Faultbox/arportal/internal/logger"
	"github.com/Faultbox/arportal/pkg/math"
)

// Alignment selects the horizontal content anchor inside the opening.
type Alignment uint8

// Alignments.
const (
	// AlignCenter centers the content on the opening's local X.
	AlignCenter Alignment = iota

	// AlignLeft lands the content's minimum-X bound on the opening's
	// left edge.
	AlignLeft
)

// ParseAlignment maps a config string to an Alignment. Unknown values
// fall back to center.
func ParseAlignment(s string) Alignment {
	if s == "left" {
		return AlignLeft
	}
	return AlignCenter
}

// Scale clamp bounds. Anything outside this range means the bounding
// volume was degenerate and the fit must not be trusted.
const (
	minFitScale = 0.01
	maxFitScale = 50
)

// Opening describes the portal opening the content must fill.
type Opening struct {
	Width   float32
	Height  float32
	OffsetX float32
}

// LeftEdgeX returns the opening's left edge on the local X axis.
func (o Opening) LeftEdgeX() float32 {
	return o.OffsetX - o.Width/2
}

// Fitter computes a uniform scale and position that make a content
// bounding volume fill the opening without distortion.
type Fitter struct {
	Opening Opening

	// Padding is a margin factor in (0, 1] keeping the content off the
	// frame edges.
	Padding float32

	Alignment Alignment
}

// FitResult is a computed content transform. When OK is false the
// bounding volume was degenerate and none of the other fields are
// meaningful: the caller must leave the content transform untouched.
type FitResult struct {
	Scale    float32
	Position math.Vec3
	OK       bool
}

// Fit computes the content transform for the given local-space bounds.
//
// The scale is strictly uniform: splat content distorts unacceptably
// under anisotropic scaling. Vertically the content's bottom lands on
// local Y=0; horizontally it is anchored per the alignment. In depth the
// content's front face is pulled back to Z=0 so the whole scene sits
// behind the opening plane and the viewer starts outside.
func (f *Fitter) Fit(bounds math.Box3) FitResult {
	if !bounds.IsValid() {
		logger.Debug("fit skipped: invalid bounds")
		return FitResult{}
	}

	size := bounds.Size()
	if size.X <= 0 || size.Y <= 0 || !size.IsFinite() {
		logger.Debug("fit skipped: degenerate size",
			zap.Float32("sx", size.X),
			zap.Float32("sy", size.Y),
		)
		return FitResult{}
	}

	scale := min(f.Opening.Width/size.X, f.Opening.Height/size.Y) * f.Padding
	if scale < minFitScale || scale > maxFitScale || !finite(scale) {
		logger.Warn("fit rejected: scale out of range", zap.Float32("scale", scale))
		return FitResult{}
	}

	var posX float32
	switch f.Alignment {
	case AlignLeft:
		// Solve contentX so min-X lands exactly on the left edge post-scale.
		posX = f.Opening.LeftEdgeX() - bounds.Min.X*scale
	default:
		posX = f.Opening.OffsetX - bounds.Center().X*scale
	}

	return FitResult{
		Scale: scale,
		Position: math.Vec3{
			X: posX,
			Y: -bounds.Min.Y * scale,
			Z: -bounds.Max.Z * scale,
		},
		OK: true,
	}
}

func finite(f float32) bool {
	return f == f && float64(f) > -3.5e38 && float64(f) < 3.5e38
}
