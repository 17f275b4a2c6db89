package input

import (
	"sync/atomic"

	"chosenoffset.com/crewmate/internal/render"
)

// DefaultQueueSize bounds the number of events buffered between two ticks.
const DefaultQueueSize = 64

// EventKind identifies the kind of a platform input event.
type EventKind int

const (
	KeyDown EventKind = iota
	KeyUp
	PointerMove
	PointerDown
	PointerUp
	FocusLost // releases every key and the pointer button
)

// Event is a raw platform input event.
type Event struct {
	Kind EventKind
	Key  render.Key
	X, Y int
}

// Queue is a bounded multi-producer, single-consumer event buffer.
// Producers never block; events that do not fit are dropped and counted.
type Queue struct {
	events  chan Event
	dropped atomic.Uint64
}

// NewQueue creates a queue holding at most size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{events: make(chan Event, size)}
}

// Push enqueues ev and reports whether it was accepted.
func (q *Queue) Push(ev Event) bool {
	select {
	case q.events <- ev:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Dropped returns how many events were rejected because the queue was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
