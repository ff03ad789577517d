package session_test

import (
	"math/rand"
	"testing"

	"github.com/okian/encore/internal/domain/model"
	"github.com/okian/encore/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func testContext() model.PerformanceContext {
	return model.PerformanceContext{
		BandID:       "midnight-static",
		Venue:        "The Hollow",
		BasePayment:  5000,
		BaseFame:     500,
		BaseMerch:    1000,
		AudienceSize: 800,
	}
}

func testSnapshot() model.BandSnapshot {
	return model.BandSnapshot{
		SongFamiliarity: 80,
		GearQuality:     60,
		BandChemistry:   70,
		SetlistFlow:     75,
	}
}

func newSession(seed int64, opts ...session.Option) *session.Session {
	opts = append([]session.Option{
		session.WithRand(rand.New(rand.NewSource(seed))),
	}, opts...)
	return session.New(testContext(), testSnapshot(), opts...)
}

func TestSession_Lifecycle(t *testing.T) {
	Convey("Given a fresh session", t, func() {
		s := newSession(1, session.WithEventProbability(0))

		Convey("Then advancing before start fails with the state error", func() {
			_, err := s.Advance()
			So(err, ShouldWrap, session.ErrInvalidState)
		})

		Convey("Then completing before start fails with the state error", func() {
			_, err := s.Complete()
			So(err, ShouldWrap, session.ErrInvalidState)
		})

		Convey("When started", func() {
			So(s.Start(), ShouldBeNil)

			Convey("Then it opens at phase zero with default energy", func() {
				phase, idx := s.CurrentPhase()
				So(idx, ShouldEqual, 0)
				So(phase.Type, ShouldEqual, model.PhaseSoundcheck)
				So(s.CrowdEnergy(), ShouldEqual, 50)
				So(s.Active(), ShouldBeTrue)
			})

			Convey("Then starting again fails", func() {
				So(s.Start(), ShouldWrap, session.ErrInvalidState)
			})

			Convey("When advanced through every phase", func() {
				phaseCount := len(model.Phases())
				for i := 0; i < phaseCount-1; i++ {
					_, err := s.Advance()
					So(err, ShouldBeNil)
				}

				Convey("Then it reaches the final phase", func() {
					phase, idx := s.CurrentPhase()
					So(idx, ShouldEqual, phaseCount-1)
					So(phase.Type, ShouldEqual, model.PhaseClimax)
				})

				Convey("And further advances are no-ops", func() {
					ev, err := s.Advance()
					So(err, ShouldBeNil)
					So(ev, ShouldBeNil)
					_, idx := s.CurrentPhase()
					So(idx, ShouldEqual, phaseCount-1)
				})

				Convey("When completed", func() {
					result, err := s.Complete()
					So(err, ShouldBeNil)

					Convey("Then the session deactivates", func() {
						So(s.Active(), ShouldBeFalse)
					})

					Convey("And completing again fails instead of recomputing", func() {
						_, err := s.Complete()
						So(err, ShouldWrap, session.ErrInvalidState)
					})

					Convey("And advancing a completed session fails", func() {
						_, err := s.Advance()
						So(err, ShouldWrap, session.ErrInvalidState)
					})

					Convey("And the result carries the full artifact", func() {
						So(result.SessionID, ShouldEqual, s.ID())
						So(result.BandID, ShouldEqual, "midnight-static")
						So(result.Score, ShouldBeGreaterThanOrEqualTo, 0)
						So(result.Score, ShouldBeLessThanOrEqualTo, 100)
						So(result.Headline, ShouldNotBeEmpty)
						So(result.Summary, ShouldNotBeEmpty)
						So(len(result.Highlights), ShouldBeGreaterThan, 0)
						So(result.Payment, ShouldBeGreaterThanOrEqualTo, 0)
						So(result.Fame, ShouldBeGreaterThanOrEqualTo, 0)
						So(result.MerchRevenue, ShouldBeGreaterThanOrEqualTo, 0)
						So(result.NewFans, ShouldBeGreaterThanOrEqualTo, 0)
					})

					Convey("And an event-free session substitutes the neutral default", func() {
						So(result.Metrics.EventResponses, ShouldEqual, 70)
					})
				})
			})
		})
	})
}

func TestSession_Events(t *testing.T) {
	Convey("Given a started session that always spawns events", t, func() {
		s := newSession(2, session.WithEventProbability(1))
		So(s.Start(), ShouldBeNil)

		Convey("When the first advance fires", func() {
			ev, err := s.Advance()
			So(err, ShouldBeNil)
			So(ev, ShouldNotBeNil)

			Convey("Then the event is pending on the session", func() {
				So(s.PendingEvent(), ShouldNotBeNil)
				So(s.PendingEvent().ID, ShouldEqual, ev.ID)
			})

			Convey("And no second event generates while one is pending", func() {
				next, err := s.Advance()
				So(err, ShouldBeNil)
				So(next, ShouldBeNil)
				So(s.PendingEvent().ID, ShouldEqual, ev.ID)
			})

			Convey("And completing with the event pending fails", func() {
				_, err := s.Complete()
				So(err, ShouldWrap, session.ErrInvalidState)
			})

			Convey("When resolved with a valid option", func() {
				before := len(s.PendingEvent().Options)
				e, err := s.ResolveEvent(ev.ID, 0)
				So(err, ShouldBeNil)
				So(before, ShouldBeGreaterThanOrEqualTo, 2)

				Convey("Then the pending slot clears and energy updates", func() {
					So(s.PendingEvent(), ShouldBeNil)
					So(e, ShouldBeGreaterThanOrEqualTo, 0)
					So(e, ShouldBeLessThanOrEqualTo, 100)
				})

				Convey("And resolving twice fails with the event error", func() {
					_, err := s.ResolveEvent(ev.ID, 0)
					So(err, ShouldWrap, session.ErrInvalidEvent)
				})
			})

			Convey("When resolved with a wrong event id", func() {
				_, err := s.ResolveEvent("not-the-event", 0)
				So(err, ShouldWrap, session.ErrInvalidEvent)
			})

			Convey("When resolved with an out-of-range option", func() {
				_, err := s.ResolveEvent(ev.ID, len(ev.Options))
				So(err, ShouldWrap, session.ErrInvalidEvent)
			})

			Convey("When discarded instead of resolved", func() {
				So(s.DiscardPendingEvent(), ShouldBeNil)

				Convey("Then the session can complete", func() {
					result, err := s.Complete()
					So(err, ShouldBeNil)

					Convey("And the discarded event never contributes to scoring", func() {
						So(result.Metrics.EventResponses, ShouldEqual, 70)
					})
				})

				Convey("And discarding again fails", func() {
					So(s.DiscardPendingEvent(), ShouldWrap, session.ErrInvalidEvent)
				})
			})
		})
	})

	Convey("Given a session with no pending event", t, func() {
		s := newSession(3, session.WithEventProbability(0))
		So(s.Start(), ShouldBeNil)

		Convey("Then resolving fails with the event error", func() {
			_, err := s.ResolveEvent("anything", 0)
			So(err, ShouldWrap, session.ErrInvalidEvent)
		})
	})
}

func TestSession_EnergyInvariants(t *testing.T) {
	Convey("Given sessions across many seeds", t, func() {
		Convey("Then crowd energy never leaves [0,100]", func() {
			for seed := int64(0); seed < 50; seed++ {
				s := newSession(seed, session.WithEventProbability(1))
				So(s.Start(), ShouldBeNil)
				for i := 0; i < len(model.Phases())-1; i++ {
					_, err := s.Advance()
					So(err, ShouldBeNil)
					if ev := s.PendingEvent(); ev != nil {
						_, err := s.ResolveEvent(ev.ID, 0)
						So(err, ShouldBeNil)
					}
					So(s.CrowdEnergy(), ShouldBeGreaterThanOrEqualTo, 0)
					So(s.CrowdEnergy(), ShouldBeLessThanOrEqualTo, 100)
				}
			}
		})
	})
}

func TestSession_Replayability(t *testing.T) {
	Convey("Given two sessions with the same seed and the same choices", t, func() {
		run := func() *model.PerformanceResult {
			s := newSession(99, session.WithEventProbability(1))
			So(s.Start(), ShouldBeNil)
			for i := 0; i < len(model.Phases())-1; i++ {
				_, err := s.Advance()
				So(err, ShouldBeNil)
				if ev := s.PendingEvent(); ev != nil {
					_, err := s.ResolveEvent(ev.ID, 0)
					So(err, ShouldBeNil)
				}
			}
			result, err := s.Complete()
			So(err, ShouldBeNil)
			return result
		}

		a := run()
		b := run()

		Convey("Then the simulation replays identically", func() {
			So(a.Score, ShouldEqual, b.Score)
			So(a.Metrics, ShouldResemble, b.Metrics)
			So(a.EnergyPeak, ShouldEqual, b.EnergyPeak)
			So(a.EnergyAverage, ShouldEqual, b.EnergyAverage)
			So(a.Payment, ShouldEqual, b.Payment)
			So(a.Fame, ShouldEqual, b.Fame)
			So(a.CriticScore, ShouldEqual, b.CriticScore)
			So(a.FanScore, ShouldEqual, b.FanScore)
			So(a.Headline, ShouldEqual, b.Headline)
		})
	})
}

func TestSession_MetricAssembly(t *testing.T) {
	Convey("Given a snapshot with out-of-range values", t, func() {
		s := session.New(testContext(), model.BandSnapshot{
			SongFamiliarity: 140,
			GearQuality:     -20,
			BandChemistry:   70,
			SetlistFlow:     75,
		},
			session.WithRand(rand.New(rand.NewSource(4))),
			session.WithEventProbability(0),
		)
		So(s.Start(), ShouldBeNil)

		Convey("When completed", func() {
			result, err := s.Complete()
			So(err, ShouldBeNil)

			Convey("Then assembly clamps the inputs before scoring", func() {
				So(result.Metrics.SongFamiliarity, ShouldEqual, 100)
				So(result.Metrics.GearQuality, ShouldEqual, 0)
				So(result.Score, ShouldBeGreaterThanOrEqualTo, 0)
				So(result.Score, ShouldBeLessThanOrEqualTo, 100)
			})
		})
	})
}
