package actor

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Ref is a handle to a cell, addressed by Path. A Ref never owns the
// cell it names: once the cell reaches Stopped, the Ref's internal
// link is nulled and every subsequent Tell/Send/Ask returns an error
// rather than panicking or silently succeeding; Stop on such a ref
// does nothing.
type Ref struct {
	path Path
	cell atomic.Pointer[Cell]
}

// Path returns the hierarchical name this ref addresses.
func (r *Ref) Path() Path { return r.path }

// String renders the ref's path.
func (r *Ref) String() string { return r.path.String() }

// IsAlive reports whether the cell this ref names has not yet reached
// Stopped; a cell that is still stopping reports true.
// The result can be stale the instant after it is read; callers
// should treat it as a hint, not a guarantee, and handle the error
// Tell/Ask return on a dead ref.
func (r *Ref) IsAlive() bool { return r.cell.Load() != nil }

// Tell delivers msg to the cell fire-and-forget, with no sender
// recorded. It returns an error if the cell has already stopped or
// the message fails validation.
func (r *Ref) Tell(msg any) error {
	return r.Send(msg, nil)
}

// Send delivers msg to the cell, recording sender as the message's
// origin so the receiving actor can reply via Context.Tell.
func (r *Ref) Send(msg any, sender *Ref) error {
	c := r.cell.Load()
	if c == nil {
		return fmt.Errorf("actor: ref %s is dead", r.path)
	}
	return c.deliver(msg, sender)
}

// Ask delivers msg and blocks until the actor calls Context.Respond
// or timeout elapses. The actor must call Respond itself; Ask does not
// infer a reply from Receive returning. A cell that stops without
// responding does not end the wait early: Ask returns the timeout
// error.
func (r *Ref) Ask(msg any, timeout time.Duration) (any, error) {
	c := r.cell.Load()
	if c == nil {
		return nil, fmt.Errorf("actor: ref %s is dead", r.path)
	}
	reply := make(chan any, 1)
	if err := c.deliver(ask{message: msg, reply: reply}, nil); err != nil {
		return nil, err
	}
	select {
	case resp := <-reply:
		if err, ok := resp.(error); ok {
			return nil, err
		}
		return resp, nil
	case <-time.After(timeout):
		c.metrics.Timeouts.Add(1)
		return nil, fmt.Errorf("actor: ask to %s timed out after %v", r.path, timeout)
	}
}

// Stop asks the cell to shut down gracefully by sending PoisonPill.
// It does not block until the cell has actually stopped.
func (r *Ref) Stop() {
	_ = r.Tell(PoisonPill{})
}

// TypedRef narrows Ref to a single message type M, for call sites
// that know statically what an actor accepts and want the compiler to
// enforce it rather than relying on a type switch inside Receive.
type TypedRef[M any] struct {
	Ref *Ref
}

// NewTypedRef wraps an untyped Ref as a TypedRef[M].
func NewTypedRef[M any](ref *Ref) TypedRef[M] {
	return TypedRef[M]{Ref: ref}
}

// Path returns the wrapped ref's path.
func (t TypedRef[M]) Path() Path { return t.Ref.Path() }

// Tell delivers a statically typed message fire-and-forget.
func (t TypedRef[M]) Tell(msg M) error { return t.Ref.Tell(msg) }

// Ask delivers a statically typed message and waits for a reply.
func (t TypedRef[M]) Ask(msg M, timeout time.Duration) (any, error) {
	return t.Ref.Ask(msg, timeout)
}

// Stop asks the wrapped cell to shut down.
func (t TypedRef[M]) Stop() { t.Ref.Stop() }
