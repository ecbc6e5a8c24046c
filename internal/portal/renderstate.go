package portal

import (
	"go.uber.org/zap"

	"github.com/Faultbox/arportal/internal/engine/scene"
	"github.com/Faultbox/arportal/internal/logger"
)

// Strategy is the compositing strategy used to clip content to the
// opening. The two strategies are mutually exclusive; the choice is made
// once, at assembly construction, from configuration plus the renderer's
// capability query.
type Strategy uint8

// Compositing strategies.
const (
	// StrategyStencil clips content with the stencil buffer: the mask
	// writes reference 1 inside the opening and content draws only where
	// the stencil equals 1. Crisp edge, but requires a stencil plane in
	// the framebuffer.
	StrategyStencil Strategy = iota

	// StrategyHider occludes content with invisible depth-writing walls
	// around the opening. Works on any framebuffer, can show seams at the
	// cage boundary.
	StrategyHider
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyStencil:
		return "stencil"
	case StrategyHider:
		return "hider"
	default:
		return "unknown"
	}
}

// ChooseStrategy resolves a configured strategy name against the
// renderer's stencil capability. "auto" takes stencil when available.
// An explicit "stencil" request without a stencil plane falls back to
// hider: honoring it would fail silently at the GPU's default stencil
// behavior, which is exactly the defect this resolution step prevents.
func ChooseStrategy(configured string, hasStencil bool) Strategy {
	switch configured {
	case "stencil":
		if hasStencil {
			return StrategyStencil
		}
		logger.Warn("stencil strategy requested but framebuffer has no stencil plane, using hider walls")
		return StrategyHider
	case "hider":
		return StrategyHider
	default:
		if hasStencil {
			return StrategyStencil
		}
		return StrategyHider
	}
}

// Draw order within the portal assembly, strictly increasing. The mask
// (or hider cage) must own the stencil/depth buffer before content
// draws, and the frame overlays everybody's edges.
const (
	orderMask    = 0
	orderContent = 1
	orderFrame   = 2
)

// stencilRef is the stencil reference value the mask writes inside the
// opening.
const stencilRef = 1

// Configurator is the single writer of render attributes for the mask,
// hider cage, content and frame subtrees. It is invoked from exactly two
// places: after a crossing-state change and after a content attach.
type Configurator struct {
	strategy Strategy

	mask    *scene.Node
	hider   *scene.Node
	content *scene.Node
	frame   *scene.Node
}

// NewConfigurator creates a configurator over the assembly's four
// subtrees. Any node may gain or lose meshes later; profiles are applied
// to whatever is present at call time.
func NewConfigurator(strategy Strategy, mask, hider, content, frame *scene.Node) *Configurator {
	return &Configurator{
		strategy: strategy,
		mask:     mask,
		hider:    hider,
		content:  content,
		frame:    frame,
	}
}

// Strategy returns the active compositing strategy.
func (c *Configurator) Strategy() Strategy {
	return c.strategy
}

// Apply reconfigures every subtree for the given crossing state.
func (c *Configurator) Apply(state CrossingState) {
	switch c.strategy {
	case StrategyStencil:
		c.applyStencil(state)
	case StrategyHider:
		c.applyHider(state)
	}

	logger.Debug("render state applied",
		zap.String("strategy", c.strategy.String()),
		zap.String("state", state.String()),
	)
}

// applyStencil configures stencil clipping.
//
// Outside: mask draws first writing stencil ref 1 with color and depth
// fully off (draw order alone decides write timing), content draws EQUAL
// ref 1 so it exists only inside the opening, frame draws last on top.
//
// Inside: content's stencil test is dropped entirely so it surrounds the
// viewer; the mask keeps writing, which is harmless since nothing tests.
func (c *Configurator) applyStencil(state CrossingState) {
	c.hider.Visible = false

	c.mask.Visible = true
	c.mask.ApplyAttrs(scene.RenderAttrs{
		RenderOrder:    orderMask,
		ColorWrite:     false,
		DepthTest:      false,
		DepthWrite:     false,
		StencilEnabled: true,
		StencilFunc:    scene.StencilAlways,
		StencilRef:     stencilRef,
		StencilPass:    scene.StencilReplace,
	})

	contentAttrs := scene.RenderAttrs{
		RenderOrder: orderContent,
		ColorWrite:  true,
		DepthTest:   true,
		DepthWrite:  true,
	}
	if state == Outside {
		contentAttrs.StencilEnabled = true
		contentAttrs.StencilFunc = scene.StencilEqual
		contentAttrs.StencilRef = stencilRef
		contentAttrs.StencilPass = scene.StencilKeep
	}
	c.content.ApplyAttrs(contentAttrs)

	c.applyFrame()
}

// applyHider configures depth-occlusion clipping. The invisible cage
// depth-writes around the opening before content draws; content depth
// tests but does not depth-write, so the cage clips it everywhere except
// the opening. Inside, the cage is hidden: nothing may occlude.
func (c *Configurator) applyHider(state CrossingState) {
	c.mask.Visible = false

	c.hider.Visible = state == Outside
	c.hider.ApplyAttrs(scene.RenderAttrs{
		RenderOrder: orderMask,
		ColorWrite:  false,
		DepthTest:   true,
		DepthWrite:  true,
	})

	c.content.ApplyAttrs(scene.RenderAttrs{
		RenderOrder: orderContent,
		ColorWrite:  true,
		DepthTest:   true,
		DepthWrite:  false,
	})

	c.applyFrame()
}

// applyFrame is shared by both strategies: the frame always passes the
// stencil, depth-tests so content occludes it correctly at depth, and
// draws last to cover clipping-edge artifacts.
func (c *Configurator) applyFrame() {
	c.frame.ApplyAttrs(scene.RenderAttrs{
		RenderOrder: orderFrame,
		ColorWrite:  true,
		DepthTest:   true,
		DepthWrite:  true,
	})
}
