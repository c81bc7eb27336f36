// pkg/core/outcome.go
package core

import (
	"context"
	"fmt"
	"sync"
)

// Outcome is what a Handler returns: either a final (Status, Text) pair or a
// Future that the dispatcher awaits before responding.
type Outcome struct {
	status   Status
	body     Text
	future   *Future
	deferred bool
}

// Immediate is an already computed outcome.
func Immediate(status Status, body Text) Outcome {
	return Outcome{status: status, body: body}
}

// Deferred is an outcome still being computed by f.
func Deferred(f *Future) Outcome {
	return Outcome{future: f, deferred: true}
}

// IsDeferred reports whether resolving o may suspend.
func (o Outcome) IsDeferred() bool { return o.deferred }

// Resolve produces the final status and body. Immediate outcomes return without
// suspending; the zero Outcome resolves to (StatusInternalServerError, None). A Deferred outcome whose future fails, panics, or is abandoned
// because ctx ended resolves to (StatusInternalServerError, None).
func (o Outcome) Resolve(ctx context.Context) (Status, Text) {
	status, body, _ := o.resolve(ctx)
	return status, body
}

// resolve is Resolve that also reports why a Deferred outcome failed.
func (o Outcome) resolve(ctx context.Context) (Status, Text, error) {
	if !o.deferred {
		if o.status == 0 {
			return StatusInternalServerError, None, ErrUnsetOutcome
		}
		return o.status, o.body, nil
	}
	if o.future == nil {
		return StatusInternalServerError, None, ErrNilFuture
	}
	status, body, err := o.future.Await(ctx)
	if err != nil {
		return StatusInternalServerError, None, err
	}
	if status == 0 {
		return StatusInternalServerError, None, ErrUnsetOutcome
	}
	return status, body, nil
}

// Future is a single-assignment cell resolved by a concurrently running
// computation. It settles at most once; later Complete/Fail calls are ignored.
type Future struct {
	once sync.Once
	done chan struct{}

	status Status
	body   Text
	err    error
}

func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Complete settles f with a value. It reports whether this call settled it.
func (f *Future) Complete(status Status, body Text) bool {
	settled := false
	f.once.Do(func() {
		f.status, f.body = status, body
		settled = true
		close(f.done)
	})
	return settled
}

// Fail settles f with an error. It reports whether this call settled it.
func (f *Future) Fail(err error) bool {
	if err == nil {
		err = ErrFutureCanceled
	}
	settled := false
	f.once.Do(func() {
		f.err = err
		settled = true
		close(f.done)
	})
	return settled
}

// Done is closed once f has settled.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until f settles or ctx ends.
func (f *Future) Await(ctx context.Context) (Status, Text, error) {
	select {
	case <-f.done:
		if f.err != nil {
			return StatusInternalServerError, None, f.err
		}
		return f.status, f.body, nil
	case <-ctx.Done():
		return StatusInternalServerError, None, fmt.Errorf("%w: %w", ErrFutureCanceled, ctx.Err())
	}
}

// Spawn runs fn on its own goroutine and returns a Deferred outcome for it.
// A panic inside fn fails the future instead of crashing the process.
func Spawn(ctx context.Context, fn func(ctx context.Context) (Status, Text)) Outcome {
	f := NewFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Fail(fmt.Errorf("%w: %v", ErrHandlerPanic, r))
				return
			}
			// no-op after Complete; catches runtime.Goexit
			f.Fail(ErrFutureCanceled)
		}()
		status, body := fn(ctx)
		f.Complete(status, body)
	}()
	return Deferred(f)
}
