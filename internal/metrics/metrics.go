package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusDenied  = "denied"
	StatusDryRun  = "dry_run"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lasquery",
		Subsystem: "lastools",
		Name:      "runs_total",
		Help:      "Total lasquery invocations by outcome",
	}, []string{"status"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lasquery",
		Subsystem: "lastools",
		Name:      "run_duration_seconds",
		Help:      "Wall time of lasview processes",
		Buckets:   []float64{0.5, 1, 5, 15, 60, 300, 900, 3600},
	})

	InputsPerRun = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lasquery",
		Subsystem: "lastools",
		Name:      "inputs_per_run",
		Help:      "Number of -i point cloud inputs per command line",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	PathWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lasquery",
		Subsystem: "lastools",
		Name:      "path_warnings_total",
		Help:      "Vector sources whose extension did not match the expected one",
	})
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
