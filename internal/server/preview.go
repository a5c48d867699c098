package server

import (
	"context"
	"errors"
	"sync"
)

// previews tracks the in-flight preview of each target. Starting a preview
// cancels the previous one for the same target, so only the newest request
// finishes.
type previews struct {
	mu     sync.Mutex
	seq    uint64
	active map[string]previewEntry
}

type previewEntry struct {
	id     uint64
	cancel context.CancelCauseFunc
}

func newPreviews() *previews {
	return &previews{active: make(map[string]previewEntry)}
}

// begin registers a preview for target and returns its context plus a
// release func the caller must defer.
func (p *previews) begin(parent context.Context, target string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)

	p.mu.Lock()
	if prev, ok := p.active[target]; ok {
		prev.cancel(&ErrSuperseded{Target: target})
	}
	p.seq++
	id := p.seq
	p.active[target] = previewEntry{id: id, cancel: cancel}
	p.mu.Unlock()

	return ctx, func() {
		p.mu.Lock()
		if cur, ok := p.active[target]; ok && cur.id == id {
			delete(p.active, target)
		}
		p.mu.Unlock()
		cancel(nil)
	}
}

// inFlight returns the number of running previews.
func (p *previews) inFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

func (p *previews) cancelAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for target, e := range p.active {
		e.cancel(context.Canceled)
		delete(p.active, target)
	}
}

// superseded returns the supersession cause of ctx, if any.
func superseded(ctx context.Context) *ErrSuperseded {
	var s *ErrSuperseded
	if errors.As(context.Cause(ctx), &s) {
		return s
	}
	return nil
}
