package portal

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/arportal/internal/config"
	"github.com/Faultbox/arportal/internal/engine/scene"
	"github.com/Faultbox/arportal/internal/logger"
	"github.com/Faultbox/arportal/pkg/math"
)

// Assembly errors.
var (
	// ErrLoadInFlight rejects a content load while another is pending.
	// At most one load runs at a time; callers retry after it settles.
	ErrLoadInFlight = errors.New("content load already in flight")
)

// refitDelay is how long after a content attach the fit is recomputed,
// in seconds. Streamed splat decodes can settle their bounds a tick or
// two after the nominal load completion.
const refitDelay = 0.2

// Options configures an Assembly. Built once from config plus the
// renderer's capability query; the core never reads ambient globals.
type Options struct {
	Opening   Opening
	Padding   float32
	Alignment Alignment
	Strategy  Strategy

	OutsideThreshold float32
	InsideThreshold  float32

	// ReleaseMesh frees GPU resources of a detached content mesh.
	// Nil when no GPU resources exist (tests).
	ReleaseMesh func(*scene.Mesh)
}

// OptionsFromConfig maps the validated portal config onto Options.
// The opening scale override multiplies the design dimensions.
func OptionsFromConfig(pc config.PortalConfig, hasStencil bool) Options {
	return Options{
		Opening: Opening{
			Width:   pc.OpeningWidth * pc.OpeningScale,
			Height:  pc.OpeningHeight * pc.OpeningScale,
			OffsetX: pc.OffsetX,
		},
		Padding:          pc.FitPadding,
		Alignment:        ParseAlignment(pc.Alignment),
		Strategy:         ChooseStrategy(pc.Strategy, hasStencil),
		OutsideThreshold: pc.OutsideThreshold,
		InsideThreshold:  pc.InsideThreshold,
	}
}

// loadResult carries a settled background load onto the frame thread.
type loadResult struct {
	content *ContentScene
	err     error
	done    chan<- error
}

// Assembly is the portal composition root: one mask, one hider cage,
// one content container, one door frame, one crossing detector and one
// render-state configurator, all under a single root node.
//
// All mutation happens on the frame thread. Background loads hand their
// results over through a channel drained inside Update, so the swap of
// the content reference is a single uninterrupted step as far as the
// render loop can observe.
type Assembly struct {
	opts   Options
	loader ContentLoader

	root        *scene.Node
	mask        *scene.Node
	hider       *scene.Node
	contentRoot *scene.Node
	frameRoot   *scene.Node

	detector     *Detector
	configurator *Configurator

	frame   *FrameAsset
	content *ContentScene

	placed  bool
	loading bool
	results chan loadResult

	// Deferred refit bookkeeping: one refit next frame, one after a
	// short delay, because decoded bounds can stabilize late.
	refitNextFrame bool
	refitTimer     float32
}

// NewAssembly creates a hidden, unplaced assembly. The frame starts as
// the placeholder; call SetFrame when the real asset arrives.
func NewAssembly(opts Options, loader ContentLoader) *Assembly {
	root := scene.NewNode("portal")
	root.Visible = false

	mask := scene.NewNode("mask")
	mask.Mesh = buildMaskMesh(opts.Opening)

	hider := scene.NewNode("hider")
	hider.Mesh = buildHiderMesh(opts.Opening)

	contentRoot := scene.NewNode("content-root")
	frameRoot := scene.NewNode("frame-root")

	root.AddChild(mask)
	root.AddChild(hider)
	root.AddChild(contentRoot)
	root.AddChild(frameRoot)

	a := &Assembly{
		opts:         opts,
		loader:       loader,
		root:         root,
		mask:         mask,
		hider:        hider,
		contentRoot:  contentRoot,
		frameRoot:    frameRoot,
		detector:     NewDetector(opts.OutsideThreshold, opts.InsideThreshold),
		configurator: NewConfigurator(opts.Strategy, mask, hider, contentRoot, frameRoot),
		results:      make(chan loadResult, 1),
	}

	a.setFrame(PlaceholderFrame(opts.Opening))
	a.configurator.Apply(Outside)

	logger.Info("portal assembly created",
		zap.String("strategy", opts.Strategy.String()),
		zap.Float32("opening_width", opts.Opening.Width),
		zap.Float32("opening_height", opts.Opening.Height),
	)

	return a
}

// Root returns the assembly's root scene node.
func (a *Assembly) Root() *scene.Node {
	return a.root
}

// Placed reports whether the assembly has been placed in the world.
func (a *Assembly) Placed() bool {
	return a.placed
}

// State returns the current crossing state.
func (a *Assembly) State() CrossingState {
	return a.detector.State()
}

// SetFrame replaces the door frame subtree, e.g. when the real asset
// finishes loading after the placeholder went up.
func (a *Assembly) SetFrame(frame *FrameAsset) {
	a.setFrame(frame)
	a.configurator.Apply(a.detector.State())
}

func (a *Assembly) setFrame(frame *FrameAsset) {
	if a.frame != nil {
		a.frameRoot.RemoveChild(a.frame.Root)
	}
	a.frame = frame
	a.frameRoot.AddChild(frame.Root)
}

// Place positions the assembly at a ground hit and turns it to face the
// camera, upright. Also: shows the assembly, forces the crossing state
// to Outside, reapplies the outside render profile, and restarts the
// door-open animation from its first frame. Fully re-invocable.
func (a *Assembly) Place(ground, cameraPos math.Vec3) {
	position, rotation := PlacePose(ground, cameraPos)
	a.root.SetPosition(position)
	a.root.SetRotation(rotation)
	a.root.Visible = true
	a.placed = true

	a.detector.ForceOutside()
	a.configurator.Apply(Outside)
	a.frame.Restart()

	logger.Info("portal placed",
		zap.Float32("x", position.X),
		zap.Float32("y", position.Y),
		zap.Float32("z", position.Z),
	)
}

// Update runs one frame: settles finished loads, advances the door
// animation, evaluates the crossing state and reapplies render state on
// a transition. Every step short-circuits safely while the assembly is
// unplaced or has no content yet.
func (a *Assembly) Update(cameraPos math.Vec3, dt float32) {
	a.drainLoads()
	a.frame.Advance(dt)
	a.advanceRefits(dt)

	if !a.placed || a.content == nil {
		return
	}

	localZ := a.root.WorldToLocal(cameraPos).Z
	state, changed := a.detector.Observe(localZ)
	if changed {
		a.configurator.Apply(state)
		logger.Info("crossing state changed",
			zap.String("state", state.String()),
			zap.Float32("local_z", localZ),
		)
	}
}

// LoadContent starts an asynchronous scene load. The returned channel
// receives exactly one value after the result has been attached (or
// rejected) on the frame thread. A second call while a load is pending
// returns ErrLoadInFlight without starting anything.
func (a *Assembly) LoadContent(ctx context.Context, url string) (<-chan error, error) {
	if a.loading {
		return nil, ErrLoadInFlight
	}
	a.loading = true

	done := make(chan error, 1)
	go func() {
		content, err := a.loader.Load(ctx, url)
		a.results <- loadResult{content: content, err: err, done: done}
	}()

	logger.Info("content load started", zap.String("url", url))
	return done, nil
}

// Loading reports whether a content load is in flight.
func (a *Assembly) Loading() bool {
	return a.loading
}

// drainLoads settles at most one finished background load per frame.
// The old scene is fully detached and released before the new one is
// attached; no yield point separates the two, so the render loop never
// observes a half-swapped state.
func (a *Assembly) drainLoads() {
	select {
	case res := <-a.results:
		a.loading = false
		if res.err != nil {
			logger.Error("content load failed", zap.Error(res.err))
			res.done <- res.err
			return
		}
		a.attachContent(res.content)
		res.done <- nil
	default:
	}
}

// attachContent swaps the content reference: detach and release the old
// scene, attach the new one, fit it, and reapply the current render
// profile so the new meshes inherit the right stencil/depth state.
func (a *Assembly) attachContent(content *ContentScene) {
	if a.content != nil {
		a.contentRoot.RemoveChild(a.content.Node)
		if a.opts.ReleaseMesh != nil && a.content.Mesh() != nil {
			a.opts.ReleaseMesh(a.content.Mesh())
		}
		a.content = nil
	}

	a.content = content
	a.contentRoot.AddChild(content.Node)

	a.refit()
	a.refitNextFrame = true
	a.refitTimer = refitDelay

	a.configurator.Apply(a.detector.State())

	logger.Info("content attached",
		zap.String("url", content.URL),
		zap.Int("vertices", content.Mesh().VertexCount()),
	)
}

// advanceRefits runs the deferred fits scheduled by attachContent.
func (a *Assembly) advanceRefits(dt float32) {
	if a.content == nil {
		return
	}
	if a.refitNextFrame {
		a.refitNextFrame = false
		a.refit()
	}
	if a.refitTimer > 0 {
		a.refitTimer -= dt
		if a.refitTimer <= 0 {
			a.refitTimer = 0
			a.refit()
		}
	}
}

// refit recomputes the content transform from its current bounds. A
// degenerate bounding volume leaves the transform untouched; a later
// refit is expected to succeed once bounds stabilize.
func (a *Assembly) refit() {
	if a.content == nil {
		return
	}

	fitter := Fitter{
		Opening:   a.opts.Opening,
		Padding:   a.opts.Padding,
		Alignment: a.opts.Alignment,
	}
	result := fitter.Fit(a.content.Bounds())
	if !result.OK {
		return
	}

	a.content.Node.SetScale(result.Scale)
	a.content.Node.SetPosition(result.Position)

	logger.Debug("content fitted",
		zap.Float32("scale", result.Scale),
		zap.Float32("x", result.Position.X),
		zap.Float32("y", result.Position.Y),
		zap.Float32("z", result.Position.Z),
	)
}

// Snapshot is a read-only diagnostic view of the assembly.
type Snapshot struct {
	Placed          bool
	Loading         bool
	State           CrossingState
	LocalZ          float32
	Strategy        Strategy
	ContentURL      string
	ContentScale    float32
	ContentPosition math.Vec3
	ContentBounds   math.Box3
}

// Snapshot captures the assembly's current diagnostic state.
func (a *Assembly) Snapshot() Snapshot {
	s := Snapshot{
		Placed:   a.placed,
		Loading:  a.loading,
		State:    a.detector.State(),
		LocalZ:   a.detector.LastZ(),
		Strategy: a.configurator.Strategy(),
	}
	if a.content != nil {
		s.ContentURL = a.content.URL
		s.ContentScale = a.content.Node.Scale()
		s.ContentPosition = a.content.Node.Position()
		s.ContentBounds = a.content.Bounds()
	}
	return s
}
