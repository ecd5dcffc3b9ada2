package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/internal/services/chart"
	applogger "FinSignal/pkg/logger"
)

var (
	ErrNoTimeline   = errors.New("no timeline computed yet")
	ErrNoCandles    = errors.New("no candles available")
	ErrSymbolNeeded = errors.New("symbol required")
)

// StrategyRegistry is the configuration surface the use case needs from the registry.
type StrategyRegistry interface {
	List() []domsvc.Strategy
	Settings() []models.StrategySettings
	Update(id string, u models.SettingsUpdate) (models.StrategySettings, error)
}

// SignalsUseCase fetches market inputs, runs the aggregator and owns the canonical
// timeline per (symbol, interval). Each refresh replaces the previous timeline in full.
type SignalsUseCase struct {
	agg        *SignalAggregator
	strategies StrategyRegistry
	candles    domrepo.CandleProvider
	sentiment  domrepo.SentimentProvider
	publishers []domrepo.TimelinePublisher
	metrics    domrepo.Metrics
	l          *applogger.Logger
	timeout    time.Duration
	now        func() time.Time

	group     singleflight.Group
	mu        sync.RWMutex
	timelines map[string]*models.Timeline
}

func NewSignalsUseCase(
	agg *SignalAggregator,
	strategies StrategyRegistry,
	candles domrepo.CandleProvider,
	sentiment domrepo.SentimentProvider,
	metrics domrepo.Metrics,
	publishers ...domrepo.TimelinePublisher,
) *SignalsUseCase {
	return &SignalsUseCase{
		agg:        agg,
		strategies: strategies,
		candles:    candles,
		sentiment:  sentiment,
		publishers: publishers,
		metrics:    metrics,
		timeout:    10 * time.Second,
		now:        time.Now,
		timelines:  make(map[string]*models.Timeline),
	}
}

// SetLogger injects a structured logger.
func (uc *SignalsUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// SetTimeout overrides the overall fetch timeout of a refresh.
func (uc *SignalsUseCase) SetTimeout(d time.Duration) {
	if d > 0 {
		uc.timeout = d
	}
}

type RefreshParams struct {
	Symbol       string
	Interval     string
	Limit        int
	HistoryLimit int
}

func (p RefreshParams) normalize() (RefreshParams, error) {
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	if p.Symbol == "" {
		return p, ErrSymbolNeeded
	}
	p.Interval = string(domrepo.NormalizeInterval(p.Interval))
	if p.Limit <= 0 {
		p.Limit = 365
	}
	if p.HistoryLimit < 0 {
		p.HistoryLimit = 0
	}
	return p, nil
}

func timelineKey(symbol, interval string) string {
	return strings.ToUpper(symbol) + ":" + string(domrepo.NormalizeInterval(interval))
}

// Refresh recomputes the timeline for p.Symbol. Concurrent refreshes of the same
// key share one fetch and one result. The shared fetch is bounded by the use case
// timeout only, so one caller going away does not fail the others.
func (uc *SignalsUseCase) Refresh(ctx context.Context, p RefreshParams) (*models.Timeline, error) {
	p, err := p.normalize()
	if err != nil {
		return nil, err
	}
	key := timelineKey(p.Symbol, p.Interval)
	ch := uc.group.DoChan(key, func() (interface{}, error) {
		return uc.refresh(context.WithoutCancel(ctx), key, p)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Timeline).Clone(), nil
	}
}

type fetchResult struct {
	candles []models.Candle
	current *models.SentimentPoint
	history []models.SentimentPoint
	errs    map[string]error
}

func (uc *SignalsUseCase) fetch(ctx context.Context, p RefreshParams) fetchResult {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := fetchResult{errs: map[string]error{}}
	var mu sync.Mutex
	var wg sync.WaitGroup
	record := func(name string, err error) {
		mu.Lock()
		res.errs[name] = err
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		cs, err := uc.candles.GetCandles(ctx, p.Symbol, p.Interval, p.Limit)
		if err != nil {
			record("candles", err)
			return
		}
		res.candles = cs
	}()

	if uc.sentiment != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pt, err := uc.sentiment.Current(ctx)
			if err != nil {
				record("sentiment", err)
				return
			}
			res.current = &pt
		}()
		if p.HistoryLimit > 0 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				hs, err := uc.sentiment.History(ctx, p.HistoryLimit)
				if err != nil {
					record("sentiment_history", err)
					return
				}
				res.history = hs
			}()
		}
	}

	wg.Wait()
	return res
}

func (uc *SignalsUseCase) refresh(ctx context.Context, key string, p RefreshParams) (*models.Timeline, error) {
	start := time.Now()
	in := uc.fetch(ctx, p)

	if err := in.errs["candles"]; err != nil {
		uc.recordError("candles")
		if uc.l != nil {
			uc.l.Error("signals refresh candles error",
				applogger.String("symbol", p.Symbol),
				applogger.String("interval", p.Interval),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	extra := models.ExtraData{SentimentHistory: in.history}
	if in.current != nil {
		v := in.current.Value
		extra.SentimentValue = &v
	}

	markers, ok := uc.agg.Recompute(in.candles, extra, uc.strategies.List())
	if !ok {
		if uc.l != nil {
			uc.l.Warn("signals refresh: no candles, keeping previous timeline",
				applogger.String("symbol", p.Symbol),
				applogger.String("interval", p.Interval),
			)
		}
		uc.mu.RLock()
		prev := uc.timelines[key]
		uc.mu.RUnlock()
		if prev == nil {
			return nil, ErrNoCandles
		}
		return prev, nil
	}

	tl := &models.Timeline{
		RunID:       uuid.NewString(),
		Symbol:      p.Symbol,
		Interval:    p.Interval,
		GeneratedAt: uc.now().UTC(),
		Candles:     len(in.candles),
		Sentiment:   extra.SentimentValue,
		Markers:     markers,
	}
	for name, err := range in.errs {
		uc.recordError(name)
		if tl.Errors == nil {
			tl.Errors = map[string]string{}
		}
		tl.Errors[name] = err.Error()
		if uc.l != nil {
			uc.l.Warn("signals refresh partial input",
				applogger.String("symbol", p.Symbol),
				applogger.String("input", name),
				applogger.Error(err),
			)
		}
	}

	uc.mu.Lock()
	uc.timelines[key] = tl
	uc.mu.Unlock()

	if uc.metrics != nil {
		uc.metrics.RecordRecompute(p.Symbol, len(markers), time.Since(start).Seconds())
		if extra.SentimentValue != nil {
			uc.metrics.RecordSentiment(*extra.SentimentValue)
		}
	}
	if uc.l != nil {
		uc.l.Info("signals timeline refreshed",
			applogger.String("symbol", p.Symbol),
			applogger.String("interval", p.Interval),
			applogger.String("run_id", tl.RunID),
			applogger.Int("candles", len(in.candles)),
			applogger.Int("markers", len(markers)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}

	uc.publish(ctx, tl)
	return tl, nil
}

func (uc *SignalsUseCase) publish(ctx context.Context, tl *models.Timeline) {
	for _, pub := range uc.publishers {
		if pub == nil {
			continue
		}
		if err := pub.PublishTimeline(ctx, tl.Clone()); err != nil {
			uc.recordError("publish")
			if uc.l != nil {
				uc.l.Warn("signals publish error",
					applogger.String("symbol", tl.Symbol),
					applogger.String("run_id", tl.RunID),
					applogger.Error(err),
				)
			}
		}
	}
}

func (uc *SignalsUseCase) recordError(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
}

// Timeline returns a copy of the current canonical timeline.
func (uc *SignalsUseCase) Timeline(symbol, interval string) (*models.Timeline, error) {
	uc.mu.RLock()
	tl := uc.timelines[timelineKey(symbol, interval)]
	uc.mu.RUnlock()
	if tl == nil {
		return nil, ErrNoTimeline
	}
	return tl.Clone(), nil
}

// ChartMarkers projects the current timeline into chart markers in ascending time order.
func (uc *SignalsUseCase) ChartMarkers(symbol, interval string) ([]models.ChartMarker, error) {
	tl, err := uc.Timeline(symbol, interval)
	if err != nil {
		return nil, err
	}
	cms := chart.ProjectAll(tl.Markers)
	chart.SortAscending(cms)
	return cms, nil
}

// Strategies returns the settings of every registered strategy in registration order.
func (uc *SignalsUseCase) Strategies() []models.StrategySettings {
	return uc.strategies.Settings()
}

// UpdateStrategy applies a partial settings update. The next refresh picks it up.
func (uc *SignalsUseCase) UpdateStrategy(id string, u models.SettingsUpdate) (models.StrategySettings, error) {
	s, err := uc.strategies.Update(id, u)
	if err != nil {
		return models.StrategySettings{}, err
	}
	if uc.l != nil {
		uc.l.Info("strategy settings updated",
			applogger.String("strategy", s.ID),
			applogger.Bool("enabled", s.Enabled),
			applogger.Int("buy_threshold", s.BuyThreshold),
			applogger.Int("sell_threshold", s.SellThreshold),
		)
		if s.BuyThreshold >= s.SellThreshold {
			uc.l.Warn("strategy thresholds inverted: one value can emit both buy and sell",
				applogger.String("strategy", s.ID),
			)
		}
	}
	return s, nil
}

// Close releases every publisher.
func (uc *SignalsUseCase) Close() {
	for _, pub := range uc.publishers {
		if pub == nil {
			continue
		}
		if err := pub.Close(); err != nil && uc.l != nil {
			uc.l.Warn("publisher close error", applogger.Error(err))
		}
	}
}
