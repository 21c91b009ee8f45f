package actor

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/log"
)

// System owns the dispatcher and the single root cell at path
// "/user". Every cell in the tree is reachable from the root by
// following child names.
type System struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger log.Logger

	dispatcher Dispatcher
	root       *Cell
	rootRef    *Ref

	done chan struct{}
}

// SystemOption configures a System at construction time.
type SystemOption func(*System)

// WithDispatcher overrides the default PerCellDispatcher.
func WithDispatcher(d Dispatcher) SystemOption {
	return func(s *System) { s.dispatcher = d }
}

// guardian is the root cell's actor: it has no behavior of its own
// beyond accepting the lifecycle messages every cell already handles
// in its system-message interpreter.
type guardian struct{ BaseActor }

func (guardian) Receive(Context, any) {}

// NewSystem creates a System rooted at /user and immediately starts
// the root cell. ctx is the parent of the system's own context, which
// Shutdown cancels before returning; canceling ctx does not stop
// actors, and Shutdown's waiting is bounded by its timeout argument,
// not by ctx.
func NewSystem(ctx context.Context, logger log.Logger, opts ...SystemOption) *System {
	ctx, cancel := context.WithCancel(ctx)
	s := &System{
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
		dispatcher: PerCellDispatcher{},
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	rootPath := RootPath()
	executor := s.dispatcher.AssignQueue()
	root := newCell(rootPath, s, nil, guardian{}, DefaultSupervisorStrategy(), executor, logger.With("path", rootPath.String()))
	s.root = root
	s.rootRef = root.selfRef

	root.state.Store(int32(starting))
	root.start()

	return s
}

// Spawn creates a top-level actor as a child of the system's root.
func (s *System) Spawn(name string, a Actor, opts ...SpawnOption) (*Ref, error) {
	return s.root.spawnChild(name, a, opts...)
}

// Find resolves path against the live tree, dispatching to absolute
// or relative resolution per §4.4: a leading "/" (or "user" as the
// first segment) anchors at the root and requires "user" to lead;
// anything else, including "." and ".." segments, resolves relative
// to the root itself. It returns false if any segment along the way
// does not currently exist.
func (s *System) Find(path string) (*Ref, bool) {
	absolute, segments, ok := splitFindPath(path)
	if !ok {
		return nil, false
	}
	// A path that already names "user" as its first segment is
	// absolute in spirit even without a leading slash (the System's
	// own root has no other name to be relative to).
	if !absolute && len(segments) > 0 && segments[0] == "user" {
		absolute = true
	}
	if absolute {
		return s.resolve(segments)
	}
	return s.root.resolveFrom(segments)
}

func (s *System) resolve(segments []string) (*Ref, bool) {
	if len(segments) == 0 || segments[0] != "user" {
		return nil, false
	}
	return s.root.resolveFrom(segments[1:])
}

// Root returns a Ref to the system's root cell.
func (s *System) Root() *Ref { return s.rootRef }

// deadLetter records an undeliverable message. It never fails the
// caller's Tell/Send beyond the error they already received.
func (s *System) deadLetter(msg any, target Path) {
	s.logger.Warn("dead letter", "target", target.String(), "messageType", fmt.Sprintf("%T", msg))
}

// markRootStopped is called once by the root cell's finalizeStop,
// signaling every Wait/WaitFor caller.
func (s *System) markRootStopped() {
	close(s.done)
}

// Wait blocks until the system has fully shut down (the root cell has
// reached Stopped).
func (s *System) Wait() {
	<-s.done
}

// WaitFor blocks until shutdown completes or timeout elapses,
// whichever comes first.
func (s *System) WaitFor(timeout time.Duration) error {
	select {
	case <-s.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("actor: system did not stop within %v", timeout)
	}
}

// Shutdown sends PoisonPill to the root, cascading a stop through the
// whole tree, and blocks until either it completes or timeout elapses.
func (s *System) Shutdown(timeout time.Duration) error {
	s.rootRef.Stop()
	err := s.WaitFor(timeout)
	s.cancel()
	return err
}
