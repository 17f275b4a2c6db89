// Package input tracks the held movement keys and pointer of the local
// participant. Platform events are queued by a producer and applied to the
// State once per tick by the game loop, so the loop always reads a snapshot
// taken at the frame boundary.
package input

import (
	"chosenoffset.com/crewmate/internal/render"
)

// MovementKeys is the fixed set of keys recognized by the State.
var MovementKeys = []render.Key{render.KeyW, render.KeyA, render.KeyS, render.KeyD}

// Pointer is the last known pointer position in screen coordinates.
type Pointer struct {
	X, Y int
	Held bool
}

// State is the per-session record of held keys and pointer.
// It is only touched by the goroutine that owns the game loop.
type State struct {
	keys    map[render.Key]bool
	pointer Pointer
}

// NewState returns a State with every movement key released.
func NewState() *State {
	s := &State{keys: make(map[render.Key]bool, len(MovementKeys))}
	for _, k := range MovementKeys {
		s.keys[k] = false
	}
	return s
}

// IsHeld reports whether a recognized key is currently held.
// Unrecognized keys are never held.
func (s *State) IsHeld(key render.Key) bool {
	return s.keys[key]
}

// Pointer returns the current pointer state.
func (s *State) Pointer() Pointer {
	return s.pointer
}

// Apply folds a single event into the state. Events for keys outside the
// recognized set are ignored.
func (s *State) Apply(ev Event) {
	switch ev.Kind {
	case KeyDown, KeyUp:
		if _, ok := s.keys[ev.Key]; !ok {
			return
		}
		s.keys[ev.Key] = ev.Kind == KeyDown
	case PointerMove:
		s.pointer.X = ev.X
		s.pointer.Y = ev.Y
	case PointerDown:
		s.pointer.Held = true
	case PointerUp:
		s.pointer.Held = false
	case FocusLost:
		s.Reset()
	}
}

// Drain applies every event currently waiting in q and returns how many
// were applied.
func (s *State) Drain(q *Queue) int {
	n := 0
	for {
		select {
		case ev := <-q.events:
			s.Apply(ev)
			n++
		default:
			return n
		}
	}
}

// Reset releases every key and the pointer button.
func (s *State) Reset() {
	for k := range s.keys {
		s.keys[k] = false
	}
	s.pointer.Held = false
}
