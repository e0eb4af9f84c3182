package formation

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/phil-mansfield/formation/excursion"
)

// Metrics records integrator activity. A nil *Metrics records nothing.
type Metrics struct {
	// Integrations counts batch integrations by model.
	Integrations *prometheus.CounterVec
	// Seconds is the wall time of each batch integration by model.
	Seconds *prometheus.HistogramVec
	// NonFinite counts NaN and Inf probabilities by model.
	NonFinite *prometheus.CounterVec
	// Halos counts halos evaluated by the ensemble aggregator.
	Halos prometheus.Counter
}

// NewMetrics registers the integrator metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Integrations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formation",
			Name:      "integrations_total",
			Help:      "Total batch probability integrations",
		}, []string{"model"}),
		Seconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "formation",
			Name:      "integration_seconds",
			Help:      "Wall time of batch probability integrations",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		}, []string{"model"}),
		NonFinite: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formation",
			Name:      "nonfinite_total",
			Help:      "Total NaN or Inf probabilities returned by the integrators",
		}, []string{"model"}),
		Halos: f.NewCounter(prometheus.CounterOpts{
			Namespace: "formation",
			Name:      "ensemble_halos_total",
			Help:      "Total halos evaluated by ensemble aggregation",
		}),
	}
}

func (m *Metrics) observeIntegration(model excursion.Model, dt time.Duration, out []float64) {
	if m == nil {
		return
	}
	label := model.String()
	m.Integrations.WithLabelValues(label).Inc()
	m.Seconds.WithLabelValues(label).Observe(dt.Seconds())

	n := 0
	for _, p := range out {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			n++
		}
	}
	if n > 0 {
		m.NonFinite.WithLabelValues(label).Add(float64(n))
	}
}

func (m *Metrics) observeHalos(n int) {
	if m == nil {
		return
	}
	m.Halos.Add(float64(n))
}
