package input

import (
	"chosenoffset.com/crewmate/internal/render"
)

// Poller turns a polling InputManager into discrete events. It remembers
// the previous snapshot and pushes an event only for what changed.
type Poller struct {
	mgr     render.InputManager
	held    map[render.Key]bool
	pointer Pointer
	primed  bool

	unfocused bool
}

// NewPoller creates a poller reading from mgr.
func NewPoller(mgr render.InputManager) *Poller {
	return &Poller{
		mgr:  mgr,
		held: make(map[render.Key]bool, len(MovementKeys)),
	}
}

// Poll samples the platform and pushes the resulting events onto q.
func (p *Poller) Poll(q *Queue) {
	if p.mgr == nil {
		return
	}

	if !p.mgr.IsFocused() {
		if !p.unfocused && q.Push(Event{Kind: FocusLost}) {
			p.unfocused = true
			for k := range p.held {
				p.held[k] = false
			}
			p.pointer.Held = false
		}
		return
	}
	// Keys still held after focus returns are reported again as presses.
	p.unfocused = false

	for _, k := range MovementKeys {
		down := p.mgr.IsKeyPressed(k)
		if down == p.held[k] {
			continue
		}
		kind := KeyUp
		if down {
			kind = KeyDown
		}
		// A dropped event is retried on the next poll.
		if q.Push(Event{Kind: kind, Key: k}) {
			p.held[k] = down
		}
	}

	x, y := p.mgr.GetCursorPosition()
	if !p.primed || x != p.pointer.X || y != p.pointer.Y {
		if q.Push(Event{Kind: PointerMove, X: x, Y: y}) {
			p.pointer.X, p.pointer.Y = x, y
			p.primed = true
		}
	}

	down := p.mgr.IsMouseButtonPressed(render.MouseButtonLeft)
	if down != p.pointer.Held {
		kind := PointerUp
		if down {
			kind = PointerDown
		}
		if q.Push(Event{Kind: kind, X: x, Y: y}) {
			p.pointer.Held = down
		}
	}
}

// StopRequested reports whether the stop key was pressed this tick.
func (p *Poller) StopRequested() bool {
	return p.mgr != nil && p.mgr.IsKeyJustPressed(render.KeyEscape)
}
