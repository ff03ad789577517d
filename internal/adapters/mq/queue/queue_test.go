package queue_test

import (
	"context"
	"testing"

	"github.com/okian/encore/internal/adapters/mq/queue"
	"github.com/okian/encore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with capacity two", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueueing within capacity", func() {
			So(q.Enqueue(ctx, &model.PerformanceResult{SessionID: "s1"}), ShouldBeTrue)
			So(q.Enqueue(ctx, &model.PerformanceResult{SessionID: "s2"}), ShouldBeTrue)

			Convey("Then the length reflects the backlog", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a third enqueue reports backpressure", func() {
				So(q.Enqueue(ctx, &model.PerformanceResult{SessionID: "s3"}), ShouldBeFalse)
			})

			Convey("And dequeueing yields results in order", func() {
				r := <-q.Dequeue(ctx)
				So(r.SessionID, ShouldEqual, "s1")
				r = <-q.Dequeue(ctx)
				So(r.SessionID, ShouldEqual, "s2")
			})
		})

		Convey("When closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues fail and the channel drains closed", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, &model.PerformanceResult{SessionID: "s4"}), ShouldBeFalse)
				_, open := <-q.Dequeue(ctx)
				So(open, ShouldBeFalse)
			})

			Convey("And closing twice fails", func() {
				So(q.Close(), ShouldWrap, queue.ErrAlreadyClosed)
			})
		})
	})
}
