package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations *prometheus.CounterVec
	fetchErrors *prometheus.CounterVec
	regime      *prometheus.GaugeVec
	drawdown    prometheus.Gauge
	indicators  *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpo_evaluations_total",
				Help: "Total number of regime evaluations performed",
			},
			[]string{"regime"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpo_fetch_errors_total",
				Help: "Total number of market data fetch errors",
			},
			[]string{"source"},
		),
		regime: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gpo_regime_active",
				Help: "Currently active regime (1 for the active one, 0 otherwise)",
			},
			[]string{"regime"},
		),
		drawdown: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "gpo_drawdown_pct",
				Help: "Current drawdown from the running all-time high, in percent",
			},
		),
		indicators: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gpo_stress_indicator",
				Help: "Last observed stress indicator value",
			},
			[]string{"name"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gpo_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEvaluation counts a completed regime evaluation.
func (r *Recorder) RecordEvaluation(regimeID string) {
	r.evaluations.WithLabelValues(regimeID).Inc()
}

// RecordFetchError counts a failed upstream fetch.
func (r *Recorder) RecordFetchError(source string) {
	r.fetchErrors.WithLabelValues(source).Inc()
}

// SetRegime marks the active regime gauge. The inactive regimes are zeroed so
// dashboards can sum the vector.
func (r *Recorder) SetRegime(regimeID string) {
	for _, id := range []string{"A", "B", "C"} {
		v := 0.0
		if id == regimeID {
			v = 1.0
		}
		r.regime.WithLabelValues(id).Set(v)
	}
}

// SetDrawdown records the current drawdown percentage.
func (r *Recorder) SetDrawdown(pct float64) {
	r.drawdown.Set(pct)
}

// SetIndicator records a stress indicator reading.
func (r *Recorder) SetIndicator(name string, value float64) {
	r.indicators.WithLabelValues(name).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
