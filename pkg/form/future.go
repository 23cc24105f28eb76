package form

import (
	"context"
	"errors"
	"sync"
)

// ErrRejected is the default reason for a Reject without an error.
var ErrRejected = errors.New("form: submission rejected")

// Future is a single-assignment result settled by Resolve or Reject.
// Callbacks registered with Then run in registration order on the settling
// goroutine, or immediately when the future has already settled.
type Future struct {
	mu        sync.Mutex
	done      chan struct{}
	settled   bool
	value     any
	err       error
	callbacks []func(any, error)
}

// NewFuture returns an unsettled future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve settles the future with value. Later calls are ignored.
func (f *Future) Resolve(value any) {
	f.settle(value, nil)
}

// Reject settles the future with err. Later calls are ignored.
func (f *Future) Reject(err error) {
	if err == nil {
		err = ErrRejected
	}
	f.settle(nil, err)
}

func (f *Future) settle(value any, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value = value
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(value, err)
	}
}

// Then registers fn for the settled outcome.
func (f *Future) Then(fn func(value any, err error)) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()
	fn(value, err)
}

// Done is closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Go runs fn on a new goroutine and returns a future for its outcome.
func Go(ctx context.Context, fn func(ctx context.Context) (any, error)) *Future {
	f := NewFuture()
	go func() {
		value, err := fn(ctx)
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(value)
	}()
	return f
}

// Result is what a SubmitHandler returns: either an immediate value or a
// pending future.
type Result struct {
	value  any
	future *Future
}

// Immediate wraps a synchronous outcome. The submitting flag is untouched.
func Immediate(value any) Result {
	return Result{value: value}
}

// Pending wraps an asynchronous outcome. A nil future is treated as
// Immediate(nil).
func Pending(f *Future) Result {
	if f == nil {
		return Immediate(nil)
	}
	return Result{future: f}
}

// IsPending reports whether the result carries a future.
func (r Result) IsPending() bool {
	return r.future != nil
}

// Value returns the immediate value, nil for pending results.
func (r Result) Value() any {
	return r.value
}

// Future returns the pending future, nil for immediate results.
func (r Result) Future() *Future {
	return r.future
}

// Then chains fn on the outcome. Immediate results invoke fn right away.
func (r Result) Then(fn func(value any, err error)) {
	if r.future != nil {
		r.future.Then(fn)
		return
	}
	if fn != nil {
		fn(r.value, nil)
	}
}
