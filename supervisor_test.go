package actor_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coriolis-labs/actortree"
)

func TestDefaultSupervisorStrategyResumes(t *testing.T) {
	strategy := actor.DefaultSupervisorStrategy()
	decision := strategy.HandleFailure(nil, errors.New("boom"))
	assert.Equal(t, actor.Resume, decision)
}

func TestAlwaysRestartStrategy(t *testing.T) {
	strategy := &actor.AlwaysRestartStrategy{Delay: time.Millisecond}
	decision := strategy.HandleFailure(nil, errors.New("boom"))
	assert.Equal(t, actor.Restart, decision)
}

func TestOneForOneStrategyDeciderOverride(t *testing.T) {
	strategy := &actor.OneForOneStrategy{
		MaxRestarts: 5,
		Within:      time.Minute,
		Decider: func(err error) actor.Decision {
			if err.Error() == "fatal" {
				return actor.Stop
			}
			return actor.Restart
		},
	}

	decision := strategy.HandleFailure(nil, errors.New("transient"))
	assert.Equal(t, actor.Restart, decision)

	decision = strategy.HandleFailure(nil, errors.New("fatal"))
	assert.Equal(t, actor.Stop, decision)
}

func TestOneForOneStrategyEscalatesBeyondWindow(t *testing.T) {
	strategy := &actor.OneForOneStrategy{MaxRestarts: 2, Within: time.Minute}
	ref := &actor.Ref{}

	for i := 0; i < 2; i++ {
		decision := strategy.HandleFailure(ref, errors.New("boom"))
		assert.Equal(t, actor.Restart, decision)
	}

	decision := strategy.HandleFailure(ref, errors.New("boom"))
	assert.Equal(t, actor.Escalate, decision)
}

func TestOneForOneStrategyWindowReset(t *testing.T) {
	strategy := &actor.OneForOneStrategy{MaxRestarts: 1, Within: 30 * time.Millisecond}
	ref := &actor.Ref{}

	decision := strategy.HandleFailure(ref, errors.New("boom"))
	assert.Equal(t, actor.Restart, decision)

	time.Sleep(40 * time.Millisecond)

	decision = strategy.HandleFailure(ref, errors.New("boom"))
	assert.Equal(t, actor.Restart, decision)
}

func TestAllForOneStrategyEscalatesBeyondWindow(t *testing.T) {
	strategy := &actor.AllForOneStrategy{MaxRestarts: 1, Within: time.Minute}

	decision := strategy.HandleFailure(nil, errors.New("boom"))
	assert.Equal(t, actor.Restart, decision)

	decision = strategy.HandleFailure(nil, errors.New("boom"))
	assert.Equal(t, actor.Escalate, decision)
}

func TestExponentialBackoffStrategyAlwaysRestarts(t *testing.T) {
	strategy := &actor.ExponentialBackoffStrategy{BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	for i := 0; i < 4; i++ {
		decision := strategy.HandleFailure(nil, errors.New("boom"))
		assert.Equal(t, actor.Restart, decision)
	}
}
