package app

import (
	"github.com/Faultbox/arportal/internal/engine/input"
	"github.com/Faultbox/arportal/internal/logger"
)

// scanningState waits for the first ground-plane hit and places the
// portal there automatically.
type scanningState struct {
	app *App
}

func newScanningState(app *App) *scanningState {
	return &scanningState{app: app}
}

func (s *scanningState) Enter() error {
	logger.Info("scanning for ground plane")
	return nil
}

func (s *scanningState) Exit() error {
	return nil
}

func (s *scanningState) Update(dt float32) error {
	ground, ok := s.app.tracker.HitTest()
	if !ok {
		return nil
	}

	s.app.placePortal(ground)
	s.app.states.Change(newPlacedState(s.app))
	return nil
}

func (s *scanningState) HandleInput(ev input.Event) error {
	return nil
}
