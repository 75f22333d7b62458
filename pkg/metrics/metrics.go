// Package metrics exposes detection statistics in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trendlines"

// Outcomes of one detection run.
const (
	OutcomeFound = "found"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Recorder keeps its own registry so several recorders can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	polylines     prometheus.Counter
	vertices      prometheus.Counter
	skippedGroups prometheus.Counter
	duration      prometheus.Histogram
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Detection runs by outcome.",
		}, []string{"outcome"}),
		polylines: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polylines_total",
			Help:      "Accepted trend lines.",
		}),
		vertices: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vertices_total",
			Help:      "Points used by accepted trend lines.",
		}),
		skippedGroups: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_groups_total",
			Help:      "Label groups that produced no walk.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of detection runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// Observe records one run. res is ignored when err is not nil.
func (r *Recorder) Observe(res *trend.Result, err error, took time.Duration) {
	r.duration.Observe(took.Seconds())

	switch {
	case err != nil:
		r.runs.WithLabelValues(OutcomeError).Inc()
		return
	case res.Found():
		r.runs.WithLabelValues(OutcomeFound).Inc()
	default:
		r.runs.WithLabelValues(OutcomeEmpty).Inc()
	}

	r.polylines.Add(float64(len(res.Polylines)))
	r.vertices.Add(float64(len(res.Vertices)))
	for _, g := range res.Groups {
		if g.Skipped != "" {
			r.skippedGroups.Inc()
		}
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
