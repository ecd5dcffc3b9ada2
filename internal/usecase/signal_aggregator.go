package usecase

import (
	"sort"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	domsvc "FinSignal/internal/domain/service"
	applogger "FinSignal/pkg/logger"
)

// SignalAggregator runs the enabled strategies over one candle set and merges their
// output into a single deduplicated timeline, most recent first.
type SignalAggregator struct {
	l       *applogger.Logger
	metrics domrepo.Metrics
}

func NewSignalAggregator(metrics domrepo.Metrics) *SignalAggregator {
	return &SignalAggregator{metrics: metrics}
}

// SetLogger injects a structured logger.
func (a *SignalAggregator) SetLogger(l *applogger.Logger) { a.l = l }

// Recompute returns the merged markers and true, or (nil, false) when there are no
// candles, in which case the caller must keep its previous timeline.
// Strategies run sequentially in the given order; on a (time, type) collision the
// first marker encountered wins.
func (a *SignalAggregator) Recompute(candles []models.Candle, extra models.ExtraData, strategies []domsvc.Strategy) ([]models.SignalMarker, bool) {
	if len(candles) == 0 {
		if a.l != nil {
			a.l.Debug("aggregator recompute skipped: no candles")
		}
		return nil, false
	}
	start := time.Now()

	merged := make([]models.SignalMarker, 0)
	for _, s := range strategies {
		if s == nil || !s.IsEnabled() {
			continue
		}
		ms := s.Calculate(candles, extra)
		if a.metrics != nil {
			a.metrics.RecordStrategyMarkers(s.ID(), len(ms))
		}
		if a.l != nil {
			a.l.Debug("aggregator strategy done",
				applogger.String("strategy", s.ID()),
				applogger.Int("markers", len(ms)),
			)
		}
		merged = append(merged, ms...)
	}

	out := DedupMarkers(merged)
	SortByTimeDesc(out)

	if a.metrics != nil {
		a.metrics.RecordLatency("aggregate", time.Since(start).Seconds())
	}
	return out, true
}

type markerKey struct {
	time string
	typ  models.SignalType
}

// DedupMarkers drops every marker whose (time, type) pair was already seen,
// keeping the first occurrence. The result is a new slice.
func DedupMarkers(ms []models.SignalMarker) []models.SignalMarker {
	seen := make(map[markerKey]struct{}, len(ms))
	out := make([]models.SignalMarker, 0, len(ms))
	for _, m := range ms {
		k := markerKey{time: m.Time, typ: m.Type}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}

// SortByTimeDesc orders markers most recent first. Date keys are fixed-width ISO
// dates, so string comparison is chronological. Equal dates keep their relative order.
func SortByTimeDesc(ms []models.SignalMarker) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Time > ms[j].Time })
}
