package energy_test

import (
	"math/rand"
	"testing"

	"github.com/okian/encore/internal/domain/energy"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker_NaturalFluctuation(t *testing.T) {
	Convey("Given a tracker with a seeded random source", t, func() {
		tracker := energy.New(rand.New(rand.NewSource(1)))

		Convey("Then it starts at the default energy with one history sample", func() {
			So(tracker.Current(), ShouldEqual, 50)
			So(tracker.History(), ShouldResemble, []float64{50})
		})

		Convey("When fluctuating many times", func() {
			for i := 0; i < 500; i++ {
				tracker.NaturalFluctuation()
			}

			Convey("Then every sample stays within [0,100]", func() {
				for _, v := range tracker.History() {
					So(v, ShouldBeGreaterThanOrEqualTo, 0)
					So(v, ShouldBeLessThanOrEqualTo, 100)
				}
			})

			Convey("And the history holds one sample per fluctuation plus the initial", func() {
				So(len(tracker.History()), ShouldEqual, 501)
			})
		})
	})
}

func TestTracker_ApplyEventOutcome(t *testing.T) {
	Convey("Given a tracker", t, func() {
		tracker := energy.New(rand.New(rand.NewSource(7)))

		Convey("When applying a strong response score", func() {
			v := tracker.ApplyEventOutcome(90)

			Convey("Then energy rises by (score-50)/2", func() {
				So(v, ShouldEqual, 70)
				So(tracker.Current(), ShouldEqual, 70)
			})

			Convey("And the outcome appends its own history sample", func() {
				So(len(tracker.History()), ShouldEqual, 2)
			})
		})

		Convey("When applying a weak response score", func() {
			v := tracker.ApplyEventOutcome(10)

			Convey("Then energy drops but never below zero", func() {
				So(v, ShouldEqual, 30)
				tracker.ApplyEventOutcome(0)
				tracker.ApplyEventOutcome(0)
				So(tracker.Current(), ShouldBeGreaterThanOrEqualTo, 0)
			})
		})

		Convey("When energy is near the ceiling", func() {
			for i := 0; i < 10; i++ {
				tracker.ApplyEventOutcome(100)
			}

			Convey("Then it clamps at 100", func() {
				So(tracker.Current(), ShouldEqual, 100)
				So(tracker.Peak(), ShouldEqual, 100)
			})
		})
	})
}

func TestTracker_Aggregates(t *testing.T) {
	Convey("Given a tracker with a known history", t, func() {
		tracker := energy.New(rand.New(rand.NewSource(3)), energy.WithInitial(40))
		tracker.ApplyEventOutcome(90) // 40 -> 60
		tracker.ApplyEventOutcome(70) // 60 -> 70

		Convey("Then the peak is the highest sample", func() {
			So(tracker.Peak(), ShouldEqual, 70)
		})

		Convey("And the average is the mean of all samples", func() {
			// (40 + 60 + 70) / 3
			So(tracker.Average(), ShouldAlmostEqual, 56.666, 0.01)
		})

		Convey("When reset", func() {
			tracker.Reset()

			Convey("Then it returns to the configured initial value", func() {
				So(tracker.Current(), ShouldEqual, 40)
				So(tracker.History(), ShouldResemble, []float64{40})
			})
		})
	})
}
