package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	recomputes    *prometheus.CounterVec
	markers       *prometheus.GaugeVec
	strategyTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	sentiment     prometheus.Gauge
	latency       *prometheus.HistogramVec
	recomputeHist *prometheus.HistogramVec
	cacheRequests *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder registered on reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		recomputes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_recomputes_total",
				Help: "Total number of timeline recomputations",
			},
			[]string{"symbol"},
		),
		markers: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finsignal_timeline_markers",
				Help: "Number of markers in the current timeline",
			},
			[]string{"symbol"},
		),
		strategyTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_strategy_markers_total",
				Help: "Markers emitted per strategy before deduplication",
			},
			[]string{"strategy"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		sentiment: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "finsignal_sentiment_index",
				Help: "Last observed Fear & Greed index value",
			},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsignal_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		recomputeHist: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsignal_recompute_duration_seconds",
				Help:    "Duration of a full recompute",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"symbol"},
		),
		cacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_cache_requests_total",
				Help: "Provider cache lookups by result",
			},
			[]string{"cache", "result"},
		),
	}
}

// RecordRecompute records one recompute and the resulting marker count.
func (r *Recorder) RecordRecompute(symbol string, markers int, seconds float64) {
	r.recomputes.WithLabelValues(symbol).Inc()
	r.markers.WithLabelValues(symbol).Set(float64(markers))
	r.recomputeHist.WithLabelValues(symbol).Observe(seconds)
}

// RecordStrategyMarkers adds the raw marker count produced by one strategy.
func (r *Recorder) RecordStrategyMarkers(strategyID string, markers int) {
	r.strategyTotal.WithLabelValues(strategyID).Add(float64(markers))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSentiment records the last index value.
func (r *Recorder) RecordSentiment(value int) {
	r.sentiment.Set(float64(value))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordCache counts a cache hit or miss.
func (r *Recorder) RecordCache(name string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheRequests.WithLabelValues(name, result).Inc()
}
