package maploader

import (
	"sync/atomic"
)

// Result is the outcome of one map load.
type Result struct {
	Map *Map
	Err error
}

// Pending holds a load result that is absent until the loader finishes and
// present, unchanged, from then on. Poll never blocks.
type Pending struct {
	result atomic.Pointer[Result]
	done   chan struct{}
}

// NewPending returns an unresolved slot.
func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolve publishes the result. Only the first call has an effect; it
// reports whether this call was the one that resolved the slot.
func (p *Pending) Resolve(m *Map, err error) bool {
	if !p.result.CompareAndSwap(nil, &Result{Map: m, Err: err}) {
		return false
	}
	close(p.done)
	return true
}

// Poll returns the result if the load has finished.
func (p *Pending) Poll() (*Result, bool) {
	r := p.result.Load()
	return r, r != nil
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}
