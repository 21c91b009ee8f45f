package actor

// Actor is the interface every user actor implements. Receive is
// invoked serially for every user message the cell accepts; a panic
// inside Receive is recovered by the cell and handed to the actor's
// supervisor strategy.
type Actor interface {
	Receive(ctx Context, msg any)
}

// Lifecycle is implemented optionally by actors that want hooks around
// the cell state machine. All methods are no-ops on BaseActor, so an
// actor only overrides what it needs.
type Lifecycle interface {
	PreStart(ctx Context)
	WillStop(ctx Context)
	PostStop(ctx Context)
	ChildTerminated(ctx Context, child *Ref)
}

// BaseActor supplies no-op defaults for Lifecycle so embedding types
// only need to implement Receive plus whichever hooks they care about.
type BaseActor struct{}

func (BaseActor) PreStart(Context)                        {}
func (BaseActor) WillStop(Context)                        {}
func (BaseActor) PostStop(Context)                        {}
func (BaseActor) ChildTerminated(Context, *Ref)           {}
func (BaseActor) SupervisorStrategy() SupervisorStrategy { return nil }

// ActorFunc adapts a plain function to the Actor interface for actors
// that need no state beyond a closure and no lifecycle hooks.
type ActorFunc func(ctx Context, msg any)

func (f ActorFunc) Receive(ctx Context, msg any) { f(ctx, msg) }

// SupervisedActor is implemented by actors that want to override the
// default (ignore) supervisor strategy for their own cell.
type SupervisedActor interface {
	SupervisorStrategy() SupervisorStrategy
}
