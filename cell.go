package actor

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"
)

// lifecycleState is the cell's position in the
// Starting -> Running -> Stopping -> Stopped state machine.
type lifecycleState int32

const (
	starting lifecycleState = iota
	running
	stoppingState
	stoppedState
)

// Cell owns one actor instance, its children, and the interpreter
// that turns SystemMessage variants into lifecycle transitions. Every
// Cell is bound to exactly one SerialExecutor for the whole of its
// life, obtained once from the System's Dispatcher at spawn time.
type Cell struct {
	path     Path
	system   *System
	parent   *Cell
	actor    Actor
	executor SerialExecutor
	logger   log.Logger
	metrics  *Metrics
	selfRef  *Ref

	supervisor SupervisorStrategy

	mu       sync.RWMutex
	children map[string]*Cell
	dying    bool
	state    atomic.Int32
}

func newCell(path Path, system *System, parent *Cell, a Actor, supervisor SupervisorStrategy, executor SerialExecutor, logger log.Logger) *Cell {
	c := &Cell{
		path:       path,
		system:     system,
		parent:     parent,
		actor:      a,
		executor:   executor,
		logger:     logger,
		metrics:    NewMetrics(path.String()),
		children:   make(map[string]*Cell),
		supervisor: supervisor,
	}
	ref := &Ref{path: path}
	ref.cell.Store(c)
	c.selfRef = ref
	return c
}

// start transitions the cell from Starting to Running, invoking
// PreStart first if the actor implements Lifecycle.
func (c *Cell) start() {
	c.executor.Submit(func() {
		ctx := &cellContext{cell: c}
		if lc, ok := c.actor.(Lifecycle); ok {
			c.safeHook(func() { lc.PreStart(ctx) }, "preStart")
		}
		c.state.Store(int32(running))
	})
}

// spawnChild creates, registers, and starts a new child cell under c.
// A duplicate or malformed short name never overwrites a live child:
// the check-and-insert happens under c.mu, and a collision or
// malformed name is replaced with a fresh uuid-derived name (I5).
func (c *Cell) spawnChild(name string, a Actor, opts ...SpawnOption) (*Ref, error) {
	cfg := defaultSpawnConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.supervisor == nil {
		if sa, ok := a.(SupervisedActor); ok {
			cfg.supervisor = sa.SupervisorStrategy()
		}
	}
	if cfg.supervisor == nil {
		cfg.supervisor = DefaultSupervisorStrategy()
	}

	c.mu.Lock()
	finalName := name
	if finalName == "" || strings.Contains(finalName, "/") {
		c.logger.Warn("malformed child name, substituting fresh id", "requested", name)
		finalName = uuid.NewString()
	}
	if _, exists := c.children[finalName]; exists {
		c.logger.Warn("duplicate child name, substituting fresh id", "requested", finalName)
		finalName = finalName + "-" + uuid.NewString()
	}

	if c.dying {
		c.mu.Unlock()
		return nil, fmt.Errorf("actor: cell %s is stopping, cannot spawn children", c.path)
	}

	childPath := c.path.Append(finalName)
	executor := c.system.dispatcher.AssignQueue()
	child := newCell(childPath, c.system, c, a, cfg.supervisor, executor, c.logger.With("path", childPath.String()))
	c.children[finalName] = child
	c.mu.Unlock()

	child.state.Store(int32(starting))
	child.start()
	return child.selfRef, nil
}

// resolveFrom walks segments against the tree rooted at c, per §4.4's
// find(segments): "." stays on the current cell, ".." steps to the
// parent (failing at a cell with none), and any other name looks up a
// child under lock. Each resolved segment becomes the anchor for the
// next, so "../c" from a cell first climbs to the parent and only
// then looks up "c" among the parent's children.
func (c *Cell) resolveFrom(segments []string) (*Ref, bool) {
	cur := c
	for _, seg := range segments {
		switch seg {
		case ".":
		case "..":
			if cur.parent == nil {
				return nil, false
			}
			cur = cur.parent
		default:
			cur.mu.RLock()
			next, ok := cur.children[seg]
			cur.mu.RUnlock()
			if !ok {
				return nil, false
			}
			cur = next
		}
	}
	return cur.selfRef, true
}

// deliver validates and enqueues msg for serial processing. It
// returns an error without enqueuing if the cell has already stopped
// or the message fails Validatable.Validate. A message sent to a
// dying cell is still enqueued; process drops it if it is a user
// message.
func (c *Cell) deliver(msg any, sender *Ref) error {
	if lifecycleState(c.state.Load()) == stoppedState {
		c.metrics.DroppedMessages.Add(1)
		c.system.deadLetter(msg, c.path)
		return fmt.Errorf("actor: cell %s is stopped", c.path)
	}

	if v, ok := msg.(Validatable); ok {
		if err := v.Validate(); err != nil {
			c.metrics.InvalidMessages.Add(1)
			return fmt.Errorf("actor: message rejected: %w", err)
		}
	}

	c.metrics.MessagesSent.Add(1)
	env := envelope{message: msg, sender: sender, timestamp: time.Now()}
	c.executor.Submit(func() { c.process(env) })
	return nil
}

// process runs one message through the system-message interpreter or,
// for ordinary user payloads, through the actor's Receive. A panic
// recovered here is handed to the cell's supervisor strategy.
func (c *Cell) process(env envelope) {
	defer func() {
		if r := recover(); r != nil {
			c.handlePanic(r)
		}
	}()

	c.metrics.MessagesReceived.Add(1)

	switch m := env.message.(type) {
	case PoisonPill:
		c.beginStop()
	case Terminated:
		c.onChildTerminated(m.Who)
	case SystemError:
		// Escalation is surfaced to the parent's own Receive so it can
		// act on it (stop the child, re-escalate, ignore); the
		// interpreter only logs, it never swallows the message.
		c.logger.Warn("child escalated failure", "cause", m.Cause)
		ctx := &cellContext{cell: c, sender: env.sender, message: env.message}
		c.actor.Receive(ctx, env.message)
	case ask:
		c.mu.RLock()
		dying := c.dying
		c.mu.RUnlock()
		if dying {
			c.metrics.DroppedMessages.Add(1)
			c.system.deadLetter(m.message, c.path)
			return
		}
		ctx := &cellContext{cell: c, sender: env.sender, message: m.message, replyTo: m.reply}
		c.actor.Receive(ctx, m.message)
	case DeadLetter:
		c.logger.Warn("dead letter", "target", m.Target.String())
	default:
		// I2: a cell that has started stopping never hands a user
		// message to Receive, even if it was already enqueued before
		// the PoisonPill landed.
		c.mu.RLock()
		dying := c.dying
		c.mu.RUnlock()
		if dying {
			c.metrics.DroppedMessages.Add(1)
			c.system.deadLetter(env.message, c.path)
			return
		}
		ctx := &cellContext{cell: c, sender: env.sender, message: env.message}
		c.actor.Receive(ctx, env.message)
	}
}

// beginStop moves the cell into Stopping: it stops accepting further
// spawns, invokes WillStop, and either finalizes immediately (no
// children) or cascades PoisonPill to every child and waits for their
// Terminated reports.
func (c *Cell) beginStop() {
	c.mu.Lock()
	if c.dying {
		c.mu.Unlock()
		c.logger.Warn("poison pill received while already stopping, dropping")
		return
	}
	c.dying = true
	c.state.Store(int32(stoppingState))
	children := make([]*Cell, 0, len(c.children))
	for _, child := range c.children {
		children = append(children, child)
	}
	c.mu.Unlock()

	ctx := &cellContext{cell: c}
	if lc, ok := c.actor.(Lifecycle); ok {
		c.safeHook(func() { lc.WillStop(ctx) }, "willStop")
	}

	if len(children) == 0 {
		c.finalizeStop()
		return
	}
	for _, child := range children {
		child.selfRef.Stop()
	}
}

// onChildTerminated removes who from the children table and, if this
// cell is itself dying and that was the last child, finalizes this
// cell's own stop. It is idempotent: a Terminated for a name already
// removed (or never present) is tolerated silently.
func (c *Cell) onChildTerminated(who *Ref) {
	c.mu.Lock()
	name := who.Path().LastSegment()
	_, existed := c.children[name]
	delete(c.children, name)
	remaining := len(c.children)
	dying := c.dying
	c.mu.Unlock()

	if !existed {
		return
	}

	ctx := &cellContext{cell: c}
	if lc, ok := c.actor.(Lifecycle); ok {
		c.safeHook(func() { lc.ChildTerminated(ctx, who) }, "childTerminated")
	}

	if dying && remaining == 0 {
		c.finalizeStop()
	}
}

// finalizeStop transitions the cell to Stopped exactly once, invokes
// PostStop, nulls the self-ref's back-link, reports Terminated to the
// parent (or closes the system's done channel at the root), and
// releases the executor back to the dispatcher.
func (c *Cell) finalizeStop() {
	if !c.state.CompareAndSwap(int32(stoppingState), int32(stoppedState)) {
		// Also allow finalizing straight from starting/running for
		// childless cells whose beginStop set dying without yet
		// moving state (defensive; beginStop always sets stoppingState
		// first, so this is normally a no-op path).
		c.state.Store(int32(stoppedState))
	}

	ctx := &cellContext{cell: c}
	if lc, ok := c.actor.(Lifecycle); ok {
		c.safeHook(func() { lc.PostStop(ctx) }, "postStop")
	}

	c.selfRef.cell.Store(nil)
	c.system.dispatcher.Release(c.executor)

	if c.parent != nil {
		_ = c.parent.selfRef.Tell(Terminated{Who: c.selfRef})
	} else {
		c.system.markRootStopped()
	}
}

// handlePanic consults the cell's supervisor strategy and applies its
// Decision. A cell with no strategy set behaves as if it used
// DefaultSupervisorStrategy (ignore, resume).
func (c *Cell) handlePanic(r any) {
	c.metrics.Panics.Add(1)
	cause := fmt.Errorf("actor: panic: %v", r)
	c.logger.Error("actor panic recovered", "panic", r, "path", c.path.String())

	strategy := c.supervisor
	if strategy == nil {
		strategy = DefaultSupervisorStrategy()
	}
	decision := strategy.HandleFailure(c.selfRef, cause)
	c.applyDecision(decision, cause)
}

func (c *Cell) applyDecision(d Decision, cause error) {
	switch d {
	case Resume:
		// Swallow and keep running.
	case Restart:
		c.restart()
	case Stop:
		c.beginStop()
	case Escalate:
		if c.parent != nil {
			_ = c.parent.selfRef.Tell(SystemError{Cause: cause})
		}
		c.beginStop()
	}
}

// restart re-runs the actor's lifecycle hooks without rebuilding the
// cell or its children: PostStop, then PreStart, preserving the
// mailbox's FIFO ordering since restart itself runs as a task on the
// same executor as every other message.
func (c *Cell) restart() {
	c.metrics.Restarts.Add(1)
	ctx := &cellContext{cell: c}
	if lc, ok := c.actor.(Lifecycle); ok {
		c.safeHook(func() { lc.PostStop(ctx) }, "postStop")
		c.safeHook(func() { lc.PreStart(ctx) }, "preStart")
	}
}

// safeHook runs a lifecycle hook with its own panic recovery so a
// failing hook can never escape the executor's worker goroutine, even
// when invoked from inside another recovered panic (e.g. restart
// after handlePanic).
func (c *Cell) safeHook(fn func(), name string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic in lifecycle hook", "hook", name, "panic", r)
		}
	}()
	fn()
}

// Metrics returns the cell's observability counters.
func (c *Cell) Metrics() Snapshot { return c.metrics.Snapshot() }

// Path returns the cell's address.
func (c *Cell) Path() Path { return c.path }
