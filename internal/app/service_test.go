package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/encore/internal/adapters/provider"
	"github.com/okian/encore/internal/adapters/repository"
	service "github.com/okian/encore/internal/app"
	"github.com/okian/encore/internal/domain/model"
	"github.com/okian/encore/internal/domain/session"
	"github.com/okian/encore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func testProvider() *provider.InMemoryProvider {
	return provider.NewInMemoryProvider(
		provider.WithLatencyRange(time.Millisecond, 2*time.Millisecond),
		provider.WithBands(map[string]model.BandSnapshot{
			"midnight-static": {SongFamiliarity: 80, GearQuality: 60, BandChemistry: 70, SetlistFlow: 75},
		}),
	)
}

func testService(store repository.Store) *service.Service {
	return service.New(
		service.WithProvider(testProvider()),
		service.WithStore(store),
		service.WithRandomSeed(42),
		service.WithWorkerCount(1),
	)
}

func performanceContext() model.PerformanceContext {
	return model.PerformanceContext{
		BandID:       "midnight-static",
		Venue:        "The Hollow",
		BasePayment:  5000,
		BaseFame:     500,
		BaseMerch:    1000,
		AudienceSize: 800,
	}
}

// waitForResult polls the store until the persist pipeline lands the result.
func waitForResult(ctx context.Context, svc *service.Service, sessionID string) (*model.PerformanceResult, error) {
	deadline := time.Now().Add(2 * time.Second)
	for {
		result, err := svc.Result(ctx, sessionID)
		if err == nil {
			return result, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestService_FullLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		store := repository.NewMemStore()
		svc := testService(store)
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When running a full performance", func() {
			id, err := svc.CreateSession(ctx, performanceContext())
			So(err, ShouldBeNil)
			So(svc.StartSession(ctx, id), ShouldBeNil)

			for i := 0; i < len(model.Phases())-1; i++ {
				ev, err := svc.AdvanceSession(ctx, id)
				So(err, ShouldBeNil)
				if ev != nil {
					_, err := svc.ResolveEvent(ctx, id, ev.ID, 0)
					So(err, ShouldBeNil)
				}
			}

			result, err := svc.CompleteSession(ctx, id)
			So(err, ShouldBeNil)

			Convey("Then the result is complete and bounded", func() {
				So(result.Score, ShouldBeGreaterThanOrEqualTo, 0)
				So(result.Score, ShouldBeLessThanOrEqualTo, 100)
				So(result.Payment, ShouldBeGreaterThan, 0)
				So(result.Headline, ShouldNotBeEmpty)
			})

			Convey("And the persist pipeline lands it in the store", func() {
				persisted, err := waitForResult(ctx, svc, id)
				So(err, ShouldBeNil)
				So(persisted.Score, ShouldEqual, result.Score)
			})

			Convey("And completing the session again fails", func() {
				_, err := svc.CompleteSession(ctx, id)
				So(err, ShouldWrap, session.ErrInvalidState)
			})

			Convey("And the chart ranks the performance", func() {
				_, err := waitForResult(ctx, svc, id)
				So(err, ShouldBeNil)
				entries, err := svc.Chart(ctx, 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0].SessionID, ShouldEqual, id)
				So(entries[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When creating a session for an unknown band", func() {
			_, err := svc.CreateSession(ctx, model.PerformanceContext{BandID: "nobody"})

			Convey("Then the snapshot failure is fatal to creation", func() {
				So(err, ShouldWrap, provider.ErrUnavailable)
			})
		})

		Convey("When operating on an unknown session", func() {
			Convey("Then every operation reports not-found", func() {
				So(svc.StartSession(ctx, "ghost"), ShouldWrap, service.ErrSessionNotFound)
				_, err := svc.AdvanceSession(ctx, "ghost")
				So(err, ShouldWrap, service.ErrSessionNotFound)
				_, err = svc.CompleteSession(ctx, "ghost")
				So(err, ShouldWrap, service.ErrSessionNotFound)
				So(svc.ReleaseSession(ctx, "ghost"), ShouldWrap, service.ErrSessionNotFound)
			})
		})

		Convey("When abandoning a session mid-performance", func() {
			id, err := svc.CreateSession(ctx, performanceContext())
			So(err, ShouldBeNil)
			So(svc.StartSession(ctx, id), ShouldBeNil)
			_, err = svc.AdvanceSession(ctx, id)
			So(err, ShouldBeNil)

			So(svc.ReleaseSession(ctx, id), ShouldBeNil)

			Convey("Then no partial result is ever persisted", func() {
				_, err := svc.Result(ctx, id)
				So(err, ShouldWrap, repository.ErrNotFound)
				stats := svc.ServiceStats(ctx)
				So(stats.ActiveSessions, ShouldEqual, 0)
			})
		})

		Convey("When inspecting session state", func() {
			id, err := svc.CreateSession(ctx, performanceContext())
			So(err, ShouldBeNil)
			So(svc.StartSession(ctx, id), ShouldBeNil)

			state, err := svc.SessionState(ctx, id)
			So(err, ShouldBeNil)

			Convey("Then the view mirrors the session", func() {
				So(state.SessionID, ShouldEqual, id)
				So(state.BandID, ShouldEqual, "midnight-static")
				So(state.Active, ShouldBeTrue)
				So(state.PhaseIndex, ShouldEqual, 0)
				So(state.CrowdEnergy, ShouldEqual, 50)
			})
		})
	})

	Convey("Given services sharing a fixed base seed", t, func() {
		newSeeded := func() *service.Service {
			return service.New(
				service.WithProvider(testProvider()),
				service.WithRandomSeed(7),
				service.WithEventProbability(1),
			)
		}
		runShow := func(svc *service.Service) *model.PerformanceResult {
			id, err := svc.CreateSession(ctx, performanceContext())
			So(err, ShouldBeNil)
			So(svc.StartSession(ctx, id), ShouldBeNil)
			for i := 0; i < len(model.Phases())-1; i++ {
				ev, err := svc.AdvanceSession(ctx, id)
				So(err, ShouldBeNil)
				if ev != nil {
					_, err := svc.ResolveEvent(ctx, id, ev.ID, 0)
					So(err, ShouldBeNil)
				}
			}
			result, err := svc.CompleteSession(ctx, id)
			So(err, ShouldBeNil)
			return result
		}

		a := newSeeded()
		b := newSeeded()
		a1, a2 := runShow(a), runShow(a)
		b1, b2 := runShow(b), runShow(b)

		Convey("Then the nth session replays identically across services", func() {
			So(a1.Score, ShouldEqual, b1.Score)
			So(a1.Metrics, ShouldResemble, b1.Metrics)
			So(a1.EnergyAverage, ShouldEqual, b1.EnergyAverage)
			So(a2.Score, ShouldEqual, b2.Score)
			So(a2.Metrics, ShouldResemble, b2.Metrics)
		})

		Convey("And consecutive sessions roll their own numbers", func() {
			So(a1.Metrics, ShouldNotResemble, a2.Metrics)
		})
	})

	Convey("Given a service with a lowered chart cap", t, func() {
		svc := service.New(
			service.WithProvider(testProvider()),
			service.WithMaxChartLimit(5),
		)

		Convey("Then oversized chart queries are rejected", func() {
			_, err := svc.Chart(ctx, 10)
			So(err, ShouldWrap, repository.ErrInvalidLimit)
		})

		Convey("And queries within the cap succeed", func() {
			entries, err := svc.Chart(ctx, 5)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 0)
		})
	})

	Convey("Given service lifecycle misuse", t, func() {
		svc := testService(repository.NewMemStore())

		Convey("Then stopping before starting fails", func() {
			So(svc.Stop(ctx), ShouldWrap, service.ErrNotStarted)
		})

		Convey("Then starting twice fails", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldWrap, service.ErrAlreadyStarted)
			So(svc.Stop(ctx), ShouldBeNil)
		})
	})
}
