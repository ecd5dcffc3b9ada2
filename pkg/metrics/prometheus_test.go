package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordRecompute("BTCUSDT", 12, 0.002)
	r.RecordRecompute("BTCUSDT", 9, 0.003)
	r.RecordStrategyMarkers("fear-greed", 5)
	r.RecordStrategyMarkers("fear-greed", 2)
	r.RecordError("sentiment")
	r.RecordSentiment(42)
	r.RecordLatency("refresh", 0.1)
	r.RecordCache("candles", true)
	r.RecordCache("candles", false)
	r.RecordCache("candles", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.recomputes.WithLabelValues("BTCUSDT")))
	assert.Equal(t, 9.0, testutil.ToFloat64(r.markers.WithLabelValues("BTCUSDT")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.strategyTotal.WithLabelValues("fear-greed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("sentiment")))
	assert.Equal(t, 42.0, testutil.ToFloat64(r.sentiment))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheRequests.WithLabelValues("candles", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheRequests.WithLabelValues("candles", "miss")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.recomputeHist))
}

func TestRecorderSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
