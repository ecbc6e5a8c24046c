package portal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/arportal/internal/engine/anim"
	"github.com/Faultbox/arportal/internal/engine/scene"
	"github.com/Faultbox/arportal/pkg/math"
)

func testOptions() Options {
	return Options{
		Opening:          Opening{Width: 0.68, Height: 1.75},
		Padding:          0.644,
		Alignment:        AlignCenter,
		Strategy:         StrategyStencil,
		OutsideThreshold: 0.12,
		InsideThreshold:  -0.12,
	}
}

func testContent(url string) *ContentScene {
	node := scene.NewNode("content")
	node.Mesh = scene.NewMesh(scene.Points, []float32{
		-0.5, 0, -0.5, 1, 1, 1,
		0.5, 1, 0, 1, 1, 1,
		0, 0.5, 0.5, 1, 1, 1,
	})
	return &ContentScene{URL: url, Node: node}
}

// fakeLoader serves canned scenes. A non-nil gate blocks Load until the
// gate is closed, to hold a load in flight from the test.
type fakeLoader struct {
	mu    sync.Mutex
	gate  chan struct{}
	err   error
	calls int
}

func (l *fakeLoader) Load(ctx context.Context, url string) (*ContentScene, error) {
	l.mu.Lock()
	l.calls++
	gate := l.gate
	err := l.err
	l.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return testContent(url), nil
}

func (l *fakeLoader) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// settle pumps Update until the load's done channel fires.
func settle(t *testing.T, a *Assembly, done <-chan error) error {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		a.Update(math.Vec3{}, 0.016)
		select {
		case err := <-done:
			return err
		case <-deadline:
			t.Fatal("load never settled")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func loadAndSettle(t *testing.T, a *Assembly, url string) {
	t.Helper()
	done, err := a.LoadContent(context.Background(), url)
	if err != nil {
		t.Fatalf("LoadContent(%s): %v", url, err)
	}
	if err := settle(t, a, done); err != nil {
		t.Fatalf("load %s settled with error: %v", url, err)
	}
}

func TestPlaceResetsCrossingState(t *testing.T) {
	a := NewAssembly(testOptions(), &fakeLoader{})
	loadAndSettle(t, a, "scene.splat")

	// Place at the origin facing a camera on +Z: local axes line up with
	// world axes, so the camera's world Z is its local Z.
	a.Place(math.Vec3{}, math.Vec3{Y: 1.6, Z: 2})
	if a.State() != Outside {
		t.Fatalf("state after place = %v, want Outside", a.State())
	}

	// Walk through to the inside.
	a.Update(math.Vec3{Y: 1.6, Z: -2}, 0.016)
	if a.State() != Inside {
		t.Fatalf("state after walkthrough = %v, want Inside", a.State())
	}

	// Replacing must reset the detector, whatever it last saw.
	a.Place(math.Vec3{}, math.Vec3{Y: 1.6, Z: 2})
	if a.State() != Outside {
		t.Errorf("state after re-place = %v, want Outside", a.State())
	}
	if !a.Root().Visible {
		t.Error("root must be visible after placement")
	}
}

func TestPlaceReappliesOutsideProfile(t *testing.T) {
	a := NewAssembly(testOptions(), &fakeLoader{})
	loadAndSettle(t, a, "scene.splat")

	a.Place(math.Vec3{}, math.Vec3{Y: 1.6, Z: 2})
	a.Update(math.Vec3{Y: 1.6, Z: -2}, 0.016) // inside: clipping off

	if a.content.Mesh().Attrs.StencilEnabled {
		t.Fatal("setup: content should not stencil-test while inside")
	}

	a.Place(math.Vec3{}, math.Vec3{Y: 1.6, Z: 2})
	if !a.content.Mesh().Attrs.StencilEnabled {
		t.Error("re-place must restore the outside clipping profile")
	}
}

func TestPlaceRestartsDoorAnimation(t *testing.T) {
	a := NewAssembly(testOptions(), &fakeLoader{})

	panel := scene.NewNode("panel")
	root := scene.NewNode("door")
	root.AddChild(panel)
	a.SetFrame(&FrameAsset{
		Root:  root,
		Panel: panel,
		Player: anim.NewPlayer(anim.Clip{Keys: []anim.Keyframe{
			{Time: 0, Rotation: math.QuatIdentity()},
			{Time: 1, Rotation: math.QuatFromYaw(1.5)},
		}}),
	})

	a.Place(math.Vec3{}, math.Vec3{Y: 1.6, Z: 2})
	a.Update(math.Vec3{Y: 1.6, Z: 2}, 5) // run the clip to completion
	if !a.frame.Player.Done() {
		t.Fatal("setup: animation should have finished")
	}

	a.Place(math.Vec3{}, math.Vec3{Y: 1.6, Z: 2})
	if !a.frame.Player.Playing() {
		t.Error("re-place must restart the door animation")
	}
	if got := a.frame.Player.Value(); got.Dot(math.QuatIdentity()) < 0.9999 {
		t.Errorf("animation value after restart = %+v, want first frame", got)
	}
}

func TestLoadMutualExclusion(t *testing.T) {
	gate := make(chan struct{})
	loader := &fakeLoader{gate: gate}
	a := NewAssembly(testOptions(), loader)

	first, err := a.LoadContent(context.Background(), "a.splat")
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if !a.Loading() {
		t.Fatal("Loading() must report the in-flight load")
	}

	// A second request while the first is pending must be rejected
	// without touching the loader.
	done, err := a.LoadContent(context.Background(), "b.splat")
	if !errors.Is(err, ErrLoadInFlight) {
		t.Fatalf("second load: err = %v, want ErrLoadInFlight", err)
	}
	if done != nil {
		t.Error("rejected load must not return a channel")
	}
	if got := loader.callCount(); got != 1 {
		t.Errorf("loader called %d times, want 1", got)
	}

	close(gate)
	if err := settle(t, a, first); err != nil {
		t.Fatalf("first load settled with error: %v", err)
	}
	if a.Loading() {
		t.Error("Loading() must clear after settlement")
	}

	// Settled: a new load is allowed again.
	loadAndSettle(t, a, "c.splat")
}

func TestSingleContentInvariant(t *testing.T) {
	released := 0
	opts := testOptions()
	opts.ReleaseMesh = func(*scene.Mesh) { released++ }

	a := NewAssembly(opts, &fakeLoader{})
	urls := []string{"a.splat", "b.splat", "c.splat"}
	for _, url := range urls {
		loadAndSettle(t, a, url)
	}

	if got := len(a.contentRoot.Children()); got != 1 {
		t.Errorf("content container holds %d scenes, want 1", got)
	}
	if a.content.URL != "c.splat" {
		t.Errorf("current content = %s, want c.splat", a.content.URL)
	}
	if released != len(urls)-1 {
		t.Errorf("released %d meshes, want %d", released, len(urls)-1)
	}
}

func TestLoadErrorLeavesContentUntouched(t *testing.T) {
	loadErr := errors.New("scene server down")
	loader := &fakeLoader{}
	a := NewAssembly(testOptions(), loader)
	loadAndSettle(t, a, "good.splat")

	loader.mu.Lock()
	loader.err = loadErr
	loader.mu.Unlock()

	done, err := a.LoadContent(context.Background(), "bad.splat")
	if err != nil {
		t.Fatalf("LoadContent: %v", err)
	}
	if err := settle(t, a, done); !errors.Is(err, loadErr) {
		t.Fatalf("settled with %v, want the loader's error", err)
	}

	if a.content == nil || a.content.URL != "good.splat" {
		t.Errorf("failed load must keep the previous scene, got %+v", a.content)
	}
	if a.Loading() {
		t.Error("Loading() must clear after a failed load")
	}
}

func TestContentIsFittedOnAttach(t *testing.T) {
	a := NewAssembly(testOptions(), &fakeLoader{})
	loadAndSettle(t, a, "scene.splat")

	// testContent spans 1x1 in the opening plane:
	// min(0.68/1, 1.75/1) * 0.644 = 0.43792.
	snap := a.Snapshot()
	if diff := snap.ContentScale - 0.43792; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("content scale = %v, want 0.43792", snap.ContentScale)
	}

	// Bottom on the floor: min Y of -0 means position Y is 0 here, but
	// verify through the transform rather than the constant.
	bounds := a.content.Bounds()
	bottom := bounds.Min.Y*snap.ContentScale + snap.ContentPosition.Y
	if bottom > 1e-5 || bottom < -1e-5 {
		t.Errorf("content bottom = %v, want 0", bottom)
	}
}

func TestUpdateSafeBeforePlacement(t *testing.T) {
	a := NewAssembly(testOptions(), &fakeLoader{})

	// No placement, no content: frames must tick without side effects.
	for i := 0; i < 10; i++ {
		a.Update(math.Vec3{Y: 1.6, Z: float32(i) - 5}, 0.016)
	}
	if a.State() != Outside {
		t.Errorf("state = %v, want Outside while unplaced", a.State())
	}
	if a.Root().Visible {
		t.Error("root must stay hidden until placement")
	}

	// Content but no placement: still no crossing evaluation.
	loadAndSettle(t, a, "scene.splat")
	a.Update(math.Vec3{Y: 1.6, Z: -2}, 0.016)
	if a.State() != Outside {
		t.Errorf("state = %v, want Outside while unplaced", a.State())
	}
}

func TestSnapshotReflectsAssembly(t *testing.T) {
	a := NewAssembly(testOptions(), &fakeLoader{})

	snap := a.Snapshot()
	if snap.Placed || snap.Loading || snap.State != Outside {
		t.Errorf("fresh snapshot = %+v", snap)
	}
	if snap.Strategy != StrategyStencil {
		t.Errorf("strategy = %v, want stencil", snap.Strategy)
	}

	loadAndSettle(t, a, "scene.splat")
	a.Place(math.Vec3{}, math.Vec3{Y: 1.6, Z: 2})
	a.Update(math.Vec3{Y: 1.6, Z: 1.5}, 0.016)

	snap = a.Snapshot()
	if !snap.Placed {
		t.Error("snapshot must report placement")
	}
	if snap.ContentURL != "scene.splat" {
		t.Errorf("content url = %q", snap.ContentURL)
	}
	if snap.LocalZ != 1.5 {
		t.Errorf("local z = %v, want 1.5", snap.LocalZ)
	}
}
