// Package mount ties async work to the lifetime of the view that started it.
package mount

import (
	"context"
	"sync"
	"sync/atomic"
)

// Scope is the liveness token of one mounted view. Async operations take
// the scope's context and must check Alive before mutating view state.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	alive  atomic.Bool

	mu        sync.Mutex
	onUnmount []func()
}

// New mounts a scope derived from parent.
func New(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{ctx: ctx, cancel: cancel}
	s.alive.Store(true)
	return s
}

// Context is cancelled when the scope unmounts.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Alive reports whether the owning view is still mounted.
func (s *Scope) Alive() bool {
	return s.alive.Load()
}

// OnUnmount registers fn to run once when the scope unmounts. If the scope
// is already gone fn runs immediately.
func (s *Scope) OnUnmount(fn func()) {
	s.mu.Lock()
	if !s.alive.Load() {
		s.mu.Unlock()
		fn()
		return
	}
	s.onUnmount = append(s.onUnmount, fn)
	s.mu.Unlock()
}

// Unmount marks the scope dead, cancels in-flight requests and runs the
// registered teardown hooks in reverse order. Safe to call more than once.
func (s *Scope) Unmount() {
	s.mu.Lock()
	if !s.alive.CompareAndSwap(true, false) {
		s.mu.Unlock()
		return
	}
	hooks := s.onUnmount
	s.onUnmount = nil
	s.mu.Unlock()

	s.cancel()
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// Guard runs fn only while the scope is alive and reports whether it ran.
func (s *Scope) Guard(fn func()) bool {
	if !s.Alive() {
		return false
	}
	fn()
	return true
}
