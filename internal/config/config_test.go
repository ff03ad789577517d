package config_test

import (
	"context"
	"testing"

	"github.com/okian/encore/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew_Defaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		Convey("Then the simulation defaults match the design points", func() {
			So(cfg.EventProbability, ShouldEqual, 0.4)
			So(cfg.InitialEnergy, ShouldEqual, 50)
			So(cfg.EnergyMaxDelta, ShouldEqual, 10)
			So(cfg.RandomSeed, ShouldEqual, 0)
		})

		Convey("And the service defaults are sane", func() {
			So(cfg.Addr, ShouldNotBeEmpty)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.ResultQueueSize, ShouldBeGreaterThan, 0)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.DedupeSize, ShouldBeGreaterThan, 0)
			So(cfg.MaxChartLimit, ShouldBeGreaterThan, 0)
			So(cfg.SnapshotLatencyMaxMS, ShouldBeGreaterThanOrEqualTo, cfg.SnapshotLatencyMinMS)
		})
	})
}
