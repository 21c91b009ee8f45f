package actor

import (
	"sync"
	"time"
)

// Decision is what a SupervisorStrategy tells a cell to do about a
// failed message or a failed cell.
type Decision int

const (
	// Resume keeps the cell running, discarding the failed message.
	Resume Decision = iota
	// Restart re-invokes postStop and then preStart on the same actor
	// instance; the actor's fields and the cell's children are kept.
	Restart
	// Stop tears the cell down as if it had received a PoisonPill.
	Stop
	// Escalate forwards the failure to the cell's parent as a
	// SystemError and otherwise behaves like Stop.
	Escalate
)

func (d Decision) String() string {
	switch d {
	case Resume:
		return "Resume"
	case Restart:
		return "Restart"
	case Stop:
		return "Stop"
	case Escalate:
		return "Escalate"
	default:
		return "Unknown"
	}
}

// SupervisorStrategy decides what happens to a cell after it fails to
// process a message. A Cell with no strategy set behaves as if it
// used DefaultSupervisorStrategy (ignore and keep running).
type SupervisorStrategy interface {
	HandleFailure(who *Ref, err error) Decision
}

// ignoreSupervisor is the spec's "no-op" default: failures are logged
// by the cell but otherwise swallowed, and the cell keeps running.
type ignoreSupervisor struct{}

func (ignoreSupervisor) HandleFailure(*Ref, error) Decision { return Resume }

// DefaultSupervisorStrategy returns the runtime's default strategy:
// ignore failures and resume. Escalation and restart are both
// opt-in per actor.
func DefaultSupervisorStrategy() SupervisorStrategy {
	return ignoreSupervisor{}
}

// AlwaysRestartStrategy unconditionally restarts the failing cell,
// optionally after a fixed delay.
type AlwaysRestartStrategy struct {
	Delay time.Duration
}

func (s *AlwaysRestartStrategy) HandleFailure(*Ref, error) Decision {
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	return Restart
}

// OneForOneStrategy restarts only the failing cell, up to MaxRestarts
// times within a sliding window, after which it escalates. An
// optional Decider can override the restart/stop/resume choice per
// error before the window check runs.
type OneForOneStrategy struct {
	MaxRestarts int
	Within      time.Duration
	Decider     func(err error) Decision

	mu           sync.Mutex
	restartTimes map[*Ref][]time.Time
}

func (s *OneForOneStrategy) HandleFailure(who *Ref, err error) Decision {
	if s.Decider != nil {
		if d := s.Decider(err); d != Restart {
			return d
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restartTimes == nil {
		s.restartTimes = make(map[*Ref][]time.Time)
	}

	now := time.Now()
	cutoff := now.Add(-s.Within)
	kept := s.restartTimes[who][:0]
	for _, t := range s.restartTimes[who] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	s.restartTimes[who] = kept

	if len(kept) > s.MaxRestarts {
		delete(s.restartTimes, who)
		return Escalate
	}
	return Restart
}

// AllForOneStrategy is like OneForOneStrategy, but the Decision it
// returns is meant to be applied by the parent to every sibling cell
// sharing the strategy instance, not only the one that failed. The
// cell interpreter applies it to the failing cell; callers that want
// true all-for-one semantics share one *AllForOneStrategy across a
// group of children and have the parent broadcast Stop/Restart to the
// rest when this returns anything other than Resume.
type AllForOneStrategy struct {
	MaxRestarts int
	Within      time.Duration

	mu      sync.Mutex
	history []time.Time
}

func (s *AllForOneStrategy) HandleFailure(_ *Ref, _ error) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-s.Within)
	kept := s.history[:0]
	for _, t := range s.history {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	s.history = kept

	if len(kept) > s.MaxRestarts {
		s.history = nil
		return Escalate
	}
	return Restart
}

// ExponentialBackoffStrategy restarts the failing cell with a delay
// that doubles on each consecutive failure, capped at MaxDelay, and
// resets once more than twice BaseDelay has elapsed since the last
// failure.
type ExponentialBackoffStrategy struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration

	mu       sync.Mutex
	attempt  int
	lastFail time.Time
}

func (s *ExponentialBackoffStrategy) HandleFailure(*Ref, error) Decision {
	s.mu.Lock()
	now := time.Now()
	if s.lastFail.IsZero() || now.Sub(s.lastFail) > s.BaseDelay*2 {
		s.attempt = 0
	}
	delay := s.BaseDelay << s.attempt
	if s.MaxDelay > 0 && delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	s.attempt++
	s.lastFail = now
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return Restart
}
