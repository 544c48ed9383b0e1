package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects rating engine metrics on its own registry.
type Recorder struct {
	registry     *prometheus.Registry
	gamesRated   prometheus.Counter
	failures     *prometheus.CounterVec
	appliedDelta prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		gamesRated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "idl_games_rated_total",
			Help: "Games whose rating updates were committed.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idl_rating_failures_total",
			Help: "Games that could not be rated, by reason.",
		}, []string{"reason"}),
		appliedDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "idl_rating_delta",
			Help:    "Applied per-player rating change.",
			Buckets: prometheus.LinearBuckets(-60, 10, 13),
		}),
	}
	r.registry.MustRegister(r.gamesRated, r.failures, r.appliedDelta)
	return r
}

// GameRated records one committed game and its applied deltas.
func (r *Recorder) GameRated(deltas ...int) {
	if r == nil {
		return
	}
	r.gamesRated.Inc()
	for _, d := range deltas {
		r.appliedDelta.Observe(float64(d))
	}
}

// RatingFailed records a game that was rolled back.
func (r *Recorder) RatingFailed(reason string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(reason).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
