// Package schedule runs cancellable delayed and periodic tasks on a clock
// that tests can replace.
package schedule

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is a running schedule. The zero value and nil are already cancelled.
type Task struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func start() *Task {
	return &Task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// After runs f once when d has passed on clock, unless cancelled before.
func After(clock clockwork.Clock, d time.Duration, f func()) *Task {
	t := start()
	timer := clock.NewTimer(d)

	go func() {
		defer close(t.done)
		defer timer.Stop()

		select {
		case <-timer.Chan():
		case <-t.stop:
			return
		}

		select {
		case <-t.stop:
		default:
			f()
		}
	}()

	return t
}

// Every runs f each time d passes on clock until cancelled. Runs of f do not overlap.
func Every(clock clockwork.Clock, d time.Duration, f func()) *Task {
	t := start()
	ticker := clock.NewTicker(d)

	go func() {
		defer close(t.done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				f()
			case <-t.stop:
				return
			}
		}
	}()

	return t
}

// Cancel stops the task and returns once f is no longer running. It must not
// be called from f. Calling it again has no effect.
func (t *Task) Cancel() {
	if t == nil || t.stop == nil {
		return
	}
	t.once.Do(func() {
		close(t.stop)
	})
	<-t.done
}

// Done is closed when the task has finished or was cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
