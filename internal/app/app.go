package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/arportal/internal/config"
	"github.com/Faultbox/arportal/internal/engine/camera"
	"github.com/Faultbox/arportal/internal/engine/input"
	"github.com/Faultbox/arportal/internal/engine/renderer"
	"github.com/Faultbox/arportal/internal/engine/window"
	"github.com/Faultbox/arportal/internal/logger"
	"github.com/Faultbox/arportal/internal/portal"
	"github.com/Faultbox/arportal/internal/tracking"
	"github.com/Faultbox/arportal/pkg/math"
)

// App owns the window, renderer, tracking provider and portal
// assembly, and runs the frame loop.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.Camera
	tracker  *tracking.Simulated
	assembly *portal.Assembly
	states   *Manager

	sceneIndex int
}

// New creates the app: window and GL context first, then the renderer,
// then the portal assembly configured from the renderer's capabilities.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "AR Portal",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	a.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	a.input = input.New()
	a.camera = camera.New(float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height))
	a.tracker = tracking.NewSimulated()

	opts := portal.OptionsFromConfig(cfg.Portal, a.renderer.HasStencil())
	opts.ReleaseMesh = a.renderer.ReleaseMesh
	a.assembly = portal.NewAssembly(opts, &portal.SplatLoader{})

	if frame, err := portal.LoadFrameAsset(cfg.Content.DoorAsset, opts.Opening); err != nil {
		logger.Warn("door asset unavailable, keeping placeholder",
			zap.String("path", cfg.Content.DoorAsset),
			zap.Error(err),
		)
	} else {
		a.assembly.SetFrame(frame)
	}

	a.states = NewManager()
	a.states.Change(newScanningState(a))

	logger.Info("app initialized")
	return a, nil
}

// Run starts the frame loop and blocks until quit.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}

		for _, ev := range a.input.Events() {
			switch ev.Type {
			case input.EventWindowResize:
				a.renderer.Resize(ev.Width, ev.Height)
				a.camera.SetAspect(float32(ev.Width) / float32(ev.Height))
			case input.EventKeyDown:
				if ev.Key == sdl.SCANCODE_ESCAPE {
					a.running = false
				}
			}
			if err := a.states.HandleInput(ev); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
		}

		if err := a.update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		a.renderer.RenderFrame(a.assembly.Root(), a.camera)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			snap := a.assembly.Snapshot()
			logger.Debug("frame stats",
				zap.Int("fps", frameCount),
				zap.String("state", snap.State.String()),
				zap.Float32("local_z", snap.LocalZ),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases the renderer and window.
func (a *App) Close() {
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// update advances tracking, the state machine and the assembly by one
// frame.
func (a *App) update(dt float32) error {
	a.tracker.SetMove(a.moveInput())
	a.tracker.Advance(dt)

	if pose, ok := a.tracker.Pose(); ok {
		a.camera.SetPose(pose.Position, pose.Rotation)
	}

	if err := a.states.Update(dt); err != nil {
		return err
	}

	a.assembly.Update(a.camera.Position(), dt)
	return nil
}

// moveInput maps held keys to walk input: WASD moves, Q/E turns.
func (a *App) moveInput() tracking.MoveInput {
	var m tracking.MoveInput
	if a.input.IsKeyDown(sdl.SCANCODE_W) {
		m.Forward += 1
	}
	if a.input.IsKeyDown(sdl.SCANCODE_S) {
		m.Forward -= 1
	}
	if a.input.IsKeyDown(sdl.SCANCODE_D) {
		m.Strafe += 1
	}
	if a.input.IsKeyDown(sdl.SCANCODE_A) {
		m.Strafe -= 1
	}
	if a.input.IsKeyDown(sdl.SCANCODE_Q) {
		m.Turn += 1
	}
	if a.input.IsKeyDown(sdl.SCANCODE_E) {
		m.Turn -= 1
	}
	return m
}

// placePortal places (or re-places) the assembly and kicks off the
// first scene load.
func (a *App) placePortal(ground math.Vec3) {
	a.assembly.Place(ground, a.camera.Position())

	if a.assembly.Snapshot().ContentURL == "" {
		a.loadScene(a.sceneIndex)
	}
}

// loadNextScene cycles to the next configured scene URL.
func (a *App) loadNextScene() {
	if len(a.cfg.Content.SceneURLs) == 0 {
		return
	}
	next := (a.sceneIndex + 1) % len(a.cfg.Content.SceneURLs)
	if a.loadScene(next) {
		a.sceneIndex = next
	}
}

// loadScene starts an async load of the indexed scene URL. A load
// already in flight is left alone.
func (a *App) loadScene(index int) bool {
	urls := a.cfg.Content.SceneURLs
	if index < 0 || index >= len(urls) {
		return false
	}

	_, err := a.assembly.LoadContent(context.Background(), urls[index])
	if errors.Is(err, portal.ErrLoadInFlight) {
		logger.Warn("scene load already in flight", zap.String("url", urls[index]))
		return false
	}
	if err != nil {
		logger.Error("scene load failed to start", zap.Error(err))
		return false
	}
	return true
}
