package actor

import "time"

// SystemMessage marks the built-in control messages a Cell's
// interpreter recognizes before a plain user payload would reach
// Actor.Receive. Some (PoisonPill, Terminated, the internal ask
// envelope) are fully handled by the interpreter; SystemError is
// logged by the interpreter and then still handed to Receive so the
// actor can act on the escalation. User payloads never implement this
// interface.
type SystemMessage interface {
	isSystemMessage()
}

// PoisonPill asks a cell to stop: it finishes its current message,
// stops accepting new user messages, tells its children to stop, and
// only reports Stopped once every child has.
type PoisonPill struct{}

// Terminated is delivered to watchers (currently: the parent) once a
// child cell has fully reached the Stopped state.
type Terminated struct {
	Who *Ref
}

// SystemError is sent to a cell's parent when the cell escalates a
// failure via Context.Escalate.
type SystemError struct {
	Cause error
}

// DeadLetter wraps a message that could not be delivered, either
// because its target was already stopped or never existed.
type DeadLetter struct {
	Original any
	Target   Path
}

// Validatable messages can reject themselves before being enqueued.
type Validatable interface {
	Validate() error
}

func (PoisonPill) isSystemMessage()  {}
func (Terminated) isSystemMessage()  {}
func (SystemError) isSystemMessage() {}
func (DeadLetter) isSystemMessage()  {}

// ask wraps a user message that expects a single reply, used to
// implement Ref.Ask on top of ordinary serial delivery.
type ask struct {
	message any
	reply   chan any
}

func (ask) isSystemMessage() {}

// envelope carries a message alongside delivery metadata through a
// cell's serial executor.
type envelope struct {
	message   any
	sender    *Ref
	timestamp time.Time
}
