package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns the service's Prometheus collectors. Each Recorder uses its own
// registry so tests can build as many as they like.
type Recorder struct {
	Registry  *prometheus.Registry
	downloads *prometheus.CounterVec
	produce   *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		Registry: reg,
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume",
			Name:      "downloads_total",
			Help:      "Download attempts by variant and outcome.",
		}, []string{"variant", "outcome"}),
		produce: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "resume",
			Name:      "produce_duration_seconds",
			Help:      "Time spent rendering and producing a document.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"variant"}),
	}
	reg.MustRegister(r.downloads, r.produce)
	return r
}

// Download records the final outcome of one download request, e.g. "counted",
// "aborted" or "failed".
func (r *Recorder) Download(variant, outcome string) {
	if r == nil {
		return
	}
	r.downloads.WithLabelValues(variant, outcome).Inc()
}

func (r *Recorder) ObserveProduce(variant string, d time.Duration) {
	if r == nil {
		return
	}
	r.produce.WithLabelValues(variant).Observe(d.Seconds())
}
