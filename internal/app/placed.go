package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/arportal/internal/engine/input"
)

// placedState is the main interaction state: the portal is in the
// world and the user walks through it. R or a click re-places the
// portal at the current ground hit; N cycles to the next scene.
type placedState struct {
	app *App
}

func newPlacedState(app *App) *placedState {
	return &placedState{app: app}
}

func (s *placedState) Enter() error {
	return nil
}

func (s *placedState) Exit() error {
	return nil
}

func (s *placedState) Update(dt float32) error {
	return nil
}

func (s *placedState) HandleInput(ev input.Event) error {
	switch ev.Type {
	case input.EventKeyDown:
		switch ev.Key {
		case sdl.SCANCODE_R:
			s.replace()
		case sdl.SCANCODE_N:
			s.app.loadNextScene()
		}
	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			s.replace()
		}
	}
	return nil
}

func (s *placedState) replace() {
	if ground, ok := s.app.tracker.HitTest(); ok {
		s.app.placePortal(ground)
	}
}
