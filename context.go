package actor

import "cosmossdk.io/log"

// Context is the interface an Actor's Receive (and the optional
// Lifecycle hooks) use to interact with the surrounding cell: who
// sent the current message, how to reply to it, and how to spawn or
// look up other cells in the tree.
type Context interface {
	// Self returns a Ref to the cell processing the current message.
	Self() *Ref
	// Parent returns a Ref to the cell's parent, or nil for the root.
	Parent() *Ref
	// Sender returns the Ref recorded on the current message, or nil
	// if it was sent with Tell rather than Send.
	Sender() *Ref
	// System returns the owning System.
	System() *System
	// Logger returns a logger already tagged with this cell's path.
	Logger() log.Logger
	// Message returns the payload currently being processed.
	Message() any
	// Respond delivers msg back to a pending Ask call. It is a no-op
	// if the current message was not sent via Ask.
	Respond(msg any)
	// Tell sends msg to another cell, recording Self as the sender.
	Tell(ref *Ref, msg any) error
	// Spawn creates a new child of the cell processing the current
	// message.
	Spawn(name string, a Actor, opts ...SpawnOption) (*Ref, error)
	// Find resolves path against the tree. An absolute path
	// ("/user/..." or "user/...") is resolved from the system root;
	// anything else, including "." and ".." segments, is resolved
	// relative to the cell processing the current message.
	Find(path string) (*Ref, bool)
	// Escalate forwards cause to the parent as a SystemError. It is a
	// no-op on the root cell, which has no parent to escalate to.
	Escalate(cause error)
}

// cellContext is the per-message Context implementation. A fresh
// value is built for every message a cell processes; none of its
// fields are shared across messages.
type cellContext struct {
	cell    *Cell
	sender  *Ref
	message any
	replyTo chan any
}

func (c *cellContext) Self() *Ref { return c.cell.selfRef }

func (c *cellContext) Parent() *Ref {
	if c.cell.parent == nil {
		return nil
	}
	return c.cell.parent.selfRef
}

func (c *cellContext) Sender() *Ref { return c.sender }

func (c *cellContext) System() *System { return c.cell.system }

func (c *cellContext) Logger() log.Logger { return c.cell.logger }

func (c *cellContext) Message() any { return c.message }

func (c *cellContext) Respond(msg any) {
	if c.replyTo == nil {
		return
	}
	select {
	case c.replyTo <- msg:
	default:
	}
}

func (c *cellContext) Tell(ref *Ref, msg any) error {
	return ref.Send(msg, c.cell.selfRef)
}

func (c *cellContext) Spawn(name string, a Actor, opts ...SpawnOption) (*Ref, error) {
	return c.cell.spawnChild(name, a, opts...)
}

func (c *cellContext) Find(path string) (*Ref, bool) {
	absolute, segments, ok := splitFindPath(path)
	if !ok {
		return nil, false
	}
	if !absolute && len(segments) > 0 && segments[0] == "user" {
		absolute = true
	}
	if absolute {
		return c.cell.system.resolve(segments)
	}
	return c.cell.resolveFrom(segments)
}

func (c *cellContext) Escalate(cause error) {
	if c.cell.parent == nil {
		return
	}
	_ = c.cell.parent.selfRef.Tell(SystemError{Cause: cause})
}

// spawnConfig holds the options a SpawnOption mutates.
type spawnConfig struct {
	supervisor SupervisorStrategy
}

func defaultSpawnConfig() *spawnConfig {
	return &spawnConfig{}
}

// SpawnOption configures a single Spawn call.
type SpawnOption func(*spawnConfig)

// WithSupervisorStrategy overrides the spawned cell's supervisor
// strategy. Cells default to DefaultSupervisorStrategy (ignore).
func WithSupervisorStrategy(s SupervisorStrategy) SpawnOption {
	return func(c *spawnConfig) { c.supervisor = s }
}
