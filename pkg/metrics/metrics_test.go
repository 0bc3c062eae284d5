package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func metricNames(t *testing.T, registry *prometheus.Registry) []string {
	t.Helper()
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return names
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then its metrics should be registered under the default namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.recordsTotal.Set(1)
				names := metricNames(t, registry)
				So(names, ShouldContain, "feedback_dashboard_records_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sub"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.staleCommits.Inc()

			Convey("Then names and labels should follow the options", func() {
				So(metricNames(t, registry), ShouldContain, "test_sub_stale_commits_total")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "feedback")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording ingestions", func() {
			before := testutil.ToFloat64(globalManager.ingestions.WithLabelValues(OutcomeFailure))
			RecordIngestion(OutcomeFailure, 12)
			RecordIngestionFailure("status")

			Convey("Then the outcome counter should increase", func() {
				So(testutil.ToFloat64(globalManager.ingestions.WithLabelValues(OutcomeFailure)), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.ingestionFailures.WithLabelValues("status")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When updating snapshot gauges", func() {
			UpdateRecordsTotal(7)
			UpdateSnapshotGeneration(3)
			UpdateIngestedRecords(7)

			Convey("Then the gauges should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.recordsTotal), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.snapshotGeneration), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.ingestedRecords), ShouldEqual, 7)
			})
		})

		Convey("When recording query, export and error metrics", func() {
			exports := testutil.ToFloat64(globalManager.exports)
			So(func() {
				RecordStaleCommit()
				RecordSnapshotPublishDuration(0.4)
				RecordFilter(0.2, 3)
				RecordRefreshThrottled()
				RecordExport(3)
				RecordExportError()
				RecordHTTPRequest("responses", "GET", "200")
				RecordHTTPRequestDuration("responses", "GET", "200", 1.5)
				RecordErrorByComponent("source", "status")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("export", "GET", "server_error")
				RecordErrorLatency("http", "server_error", 3)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)

			Convey("Then the export counter should increase", func() {
				So(testutil.ToFloat64(globalManager.exports), ShouldEqual, exports+1)
			})
		})

		Convey("When reading the registry", func() {
			Convey("Then it should expose the custom registry", func() {
				So(GetRegistry(), ShouldEqual, customRegistry)
				var hasHTTP bool
				for _, name := range metricNames(t, GetRegistry()) {
					if strings.HasPrefix(name, "feedback_dashboard_http_requests") {
						hasHTTP = true
					}
				}
				So(hasHTTP, ShouldBeTrue)
			})
		})
	})
}
