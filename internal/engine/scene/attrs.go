// Package scene provides a retained scene graph with per-mesh render
// attributes. Visibility compositing is driven entirely by these
// attributes: draw order, stencil state and depth state.
package scene

// StencilFunc is the stencil comparison function.
type StencilFunc uint8

// Stencil comparison functions.
const (
	StencilAlways StencilFunc = iota
	StencilEqual
)

// String returns a human-readable function name.
func (f StencilFunc) String() string {
	switch f {
	case StencilAlways:
		return "ALWAYS"
	case StencilEqual:
		return "EQUAL"
	default:
		return "UNKNOWN"
	}
}

// StencilOp is the operation applied to the stencil buffer on pass.
type StencilOp uint8

// Stencil operations.
const (
	StencilKeep StencilOp = iota
	StencilReplace
)

// String returns a human-readable operation name.
func (o StencilOp) String() string {
	switch o {
	case StencilKeep:
		return "KEEP"
	case StencilReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// RenderAttrs is the full render-state profile of a drawable.
// Meshes with a lower RenderOrder draw earlier.
type RenderAttrs struct {
	RenderOrder    int
	ColorWrite     bool
	DepthTest      bool
	DepthWrite     bool
	StencilEnabled bool
	StencilFunc    StencilFunc
	StencilRef     uint8
	StencilPass    StencilOp
}

// DefaultAttrs returns the profile of an ordinary opaque drawable:
// color and depth on, stencil off, order 0.
func DefaultAttrs() RenderAttrs {
	return RenderAttrs{
		RenderOrder: 0,
		ColorWrite:  true,
		DepthTest:   true,
		DepthWrite:  true,
	}
}
