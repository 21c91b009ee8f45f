package actor_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coriolis-labs/actortree"
)

// TestSharedPoolDispatcherCapsQueues covers the dispatcher contract:
// a SharedPoolDispatcher never hands out more distinct executors than
// its configured maximum, reusing existing ones once the cap is hit.
func TestSharedPoolDispatcherCapsQueues(t *testing.T) {
	d := actor.NewSharedPoolDispatcher(2)

	seen := map[actor.SerialExecutor]bool{}
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := d.AssignQueue()
			mu.Lock()
			seen[e] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, len(seen), 2)
}

// TestQueueExecutorRunsTasksInOrder covers the dispatcher's
// non-overlapping, FIFO contract directly against a single executor.
func TestQueueExecutorRunsTasksInOrder(t *testing.T) {
	d := actor.PerCellDispatcher{}
	e := d.AssignQueue()

	var mu sync.Mutex
	var order []int
	done := make(chan struct{})

	for i := 0; i < 10; i++ {
		i := i
		e.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			if i == 9 {
				close(done)
			}
		})
	}

	<-done
	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}
