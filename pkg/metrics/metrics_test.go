package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When building a manager with every option", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("test_prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.metricPrefix, ShouldEqual, "test_prefix")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.refreshInterval, ShouldEqual, 5*time.Second)
			})

			Convey("And metric names should carry the prefix", func() {
				manager.kudosAwarded.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if strings.HasSuffix(f.GetName(), "test_prefix_kudos_awarded_total") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When passing empty or invalid option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(-time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "talent")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording business metrics", func() {
			before := testutil.ToFloat64(globalManager.kudosAwarded)
			RecordKudosAwarded()
			RecordKudosAwarded()

			Convey("Then the kudos counter should advance", func() {
				So(testutil.ToFloat64(globalManager.kudosAwarded), ShouldEqual, before+2)
			})

			Convey("And feedback should be counted per sentiment", func() {
				b := testutil.ToFloat64(globalManager.feedbackRegistered.WithLabelValues("Critical"))
				RecordFeedbackRegistered("Critical")
				So(testutil.ToFloat64(globalManager.feedbackRegistered.WithLabelValues("Critical")), ShouldEqual, b+1)
			})
		})

		Convey("When recording store and HTTP metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordStoreOperation("memory", "get_team", "ok", 0.2)
					RecordStoreSeeded("memory")
					UpdateTeamMembers(4)
					RecordHTTPRequest("team", "GET", "200")
					RecordHTTPRequestDuration("team", "GET", "200", 1.5)
					RecordErrorByComponent("store", "not_found")
					RecordErrorByEndpoint("kudos", "POST", "not_found")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording activity and idempotency metrics", func() {
			UpdateActivityQueueCapacity(16)
			UpdateActivityQueueSize(3)
			UpdateActivityWorkerCount(2)
			RecordActivityEnqueued()
			RecordActivityDropped()
			RecordActivityProcessed("kudos_awarded", 1)
			RecordIdempotentReplay()
			UpdateIdempotencyKeys(7)

			Convey("Then gauges should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.activityQueueSize), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.activityQueueCapacity), ShouldEqual, 16)
				So(testutil.ToFloat64(globalManager.idempotencyKeys), ShouldEqual, 7)
			})
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry should be gatherable", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
