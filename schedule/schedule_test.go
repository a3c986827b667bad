package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
)

func waiters(clock *clockwork.FakeClock, n int) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return clock.BlockUntilContext(ctx, n)
}

func received(c <-chan struct{}) bool {
	select {
	case <-c:
		return true
	case <-time.After(time.Second):
		return false
	}
}

func quiet(c <-chan struct{}) bool {
	select {
	case <-c:
		return false
	case <-time.After(50 * time.Millisecond):
		return true
	}
}

func TestAfter(t *testing.T) {
	Convey("Given a one-shot task", t, func() {
		clock := clockwork.NewFakeClock()
		fired := make(chan struct{}, 4)
		task := After(clock, 3*time.Second, func() { fired <- struct{}{} })
		So(waiters(clock, 1), ShouldBeNil)

		Convey("It fires once the delay has passed", func() {
			clock.Advance(2 * time.Second)
			So(quiet(fired), ShouldBeTrue)

			clock.Advance(time.Second)
			So(received(fired), ShouldBeTrue)
			So(received(task.Done()), ShouldBeTrue)

			clock.Advance(time.Minute)
			So(quiet(fired), ShouldBeTrue)
		})

		Convey("A cancelled task never fires", func() {
			task.Cancel()
			task.Cancel()
			clock.Advance(time.Minute)
			So(quiet(fired), ShouldBeTrue)
		})
	})
}

func TestEvery(t *testing.T) {
	Convey("Given a periodic task", t, func() {
		clock := clockwork.NewFakeClock()
		var runs atomic.Int32
		fired := make(chan struct{}, 4)
		task := Every(clock, 5*time.Second, func() {
			runs.Add(1)
			fired <- struct{}{}
		})

		Convey("It fires on every period until cancelled", func() {
			for range 3 {
				So(waiters(clock, 1), ShouldBeNil)
				clock.Advance(5 * time.Second)
				So(received(fired), ShouldBeTrue)
			}

			task.Cancel()
			clock.Advance(time.Minute)
			So(quiet(fired), ShouldBeTrue)
			So(runs.Load(), ShouldEqual, 3)
		})
	})

	Convey("Cancelling nil is a no-op", t, func() {
		var task *Task
		So(func() { task.Cancel() }, ShouldNotPanic)
		So(func() { (&Task{}).Cancel() }, ShouldNotPanic)
	})
}
