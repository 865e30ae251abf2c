package view

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "ecco"
	metricsSubsystem = "view"
)

// Failure stages.
const (
	StageFetch    = "fetch"
	StageComplete = "complete"
)

// Metrics records view activity. A nil *Metrics records nothing.
type Metrics struct {
	// RendersTotal counts successful renders.
	// Labels: kind (associations, features)
	RendersTotal *prometheus.CounterVec

	// FailuresTotal counts renders that returned an error.
	// Labels: kind, stage (fetch, complete)
	FailuresTotal *prometheus.CounterVec

	// Fragments observes the size of each complete marking.
	// Labels: kind
	Fragments *prometheus.HistogramVec

	// RenderDurationSeconds observes the time from fetch to HTML.
	// Labels: kind
	RenderDurationSeconds *prometheus.HistogramVec
}

// NewMetrics creates the view metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "renders_total",
			Help:      "Total documents rendered",
		}, []string{"kind"}),
		FailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "failures_total",
			Help:      "Total renders that failed, by stage",
		}, []string{"kind", "stage"}),
		Fragments: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "fragments",
			Help:      "Fragments in the complete marking of a rendered document",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"kind"}),
		RenderDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "render_duration_seconds",
			Help:      "Time to fetch, complete and render a document",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"kind"}),
	}
}

func (m *Metrics) recordRender(kind Kind, fragments int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RendersTotal.WithLabelValues(string(kind)).Inc()
	m.Fragments.WithLabelValues(string(kind)).Observe(float64(fragments))
	m.RenderDurationSeconds.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (m *Metrics) recordFailure(kind Kind, stage string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabelValues(string(kind), stage).Inc()
}
