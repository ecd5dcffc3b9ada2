package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"FinSignal/internal/domain/models"
	domsvc "FinSignal/internal/domain/service"
)

// stubStrategy returns a fixed marker list.
type stubStrategy struct {
	id      string
	enabled bool
	markers []models.SignalMarker
	calls   int
}

func newStub(id string, markers ...models.SignalMarker) *stubStrategy {
	return &stubStrategy{id: id, enabled: true, markers: markers}
}

func (s *stubStrategy) ID() string      { return s.id }
func (s *stubStrategy) Name() string    { return s.id }
func (s *stubStrategy) IsEnabled() bool { return s.enabled }
func (s *stubStrategy) SetEnabled(b bool) {
	s.enabled = b
}
func (s *stubStrategy) Calculate(_ []models.Candle, _ models.ExtraData) []models.SignalMarker {
	s.calls++
	if !s.enabled {
		return []models.SignalMarker{}
	}
	return append([]models.SignalMarker(nil), s.markers...)
}
func (s *stubStrategy) Settings() models.StrategySettings {
	return models.StrategySettings{ID: s.id, Name: s.id, Type: "stub", Enabled: s.enabled}
}
func (s *stubStrategy) UpdateSettings(u models.SettingsUpdate) models.StrategySettings {
	if u.Enabled != nil {
		s.enabled = *u.Enabled
	}
	return s.Settings()
}

var _ domsvc.Strategy = (*stubStrategy)(nil)

func marker(date string, typ models.SignalType, strategyID string) models.SignalMarker {
	return models.SignalMarker{Time: date, Type: typ, Text: "t", Reason: "r", StrategyID: strategyID}
}

type fakeRegistry struct {
	list []domsvc.Strategy
}

func (r *fakeRegistry) List() []domsvc.Strategy { return r.list }
func (r *fakeRegistry) Settings() []models.StrategySettings {
	out := make([]models.StrategySettings, 0, len(r.list))
	for _, s := range r.list {
		out = append(out, s.Settings())
	}
	return out
}
func (r *fakeRegistry) Update(id string, u models.SettingsUpdate) (models.StrategySettings, error) {
	for _, s := range r.list {
		if s.ID() == id {
			return s.UpdateSettings(u), nil
		}
	}
	return models.StrategySettings{}, errors.New("strategy not found")
}

type fakeCandles struct {
	mu      sync.Mutex
	candles []models.Candle
	err     error
	calls   int
	delay   time.Duration
	lastArg [3]interface{}
}

func (f *fakeCandles) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	f.mu.Lock()
	f.calls++
	f.lastArg = [3]interface{}{symbol, interval, limit}
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Candle(nil), f.candles...), nil
}

type fakeSentiment struct {
	current    models.SentimentPoint
	history    []models.SentimentPoint
	currentErr error
	historyErr error
	lastLimit  int
}

func (f *fakeSentiment) Current(_ context.Context) (models.SentimentPoint, error) {
	return f.current, f.currentErr
}

func (f *fakeSentiment) History(_ context.Context, limit int) ([]models.SentimentPoint, error) {
	f.lastLimit = limit
	return f.history, f.historyErr
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.Timeline
	err       error
	closed    bool
}

func (p *fakePublisher) PublishTimeline(_ context.Context, tl *models.Timeline) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, tl)
	return p.err
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

type fakeMetrics struct {
	mu         sync.Mutex
	recomputes int
	errors     map[string]int
	sentiment  int
	perStrat   map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: map[string]int{}, perStrat: map[string]int{}}
}

func (m *fakeMetrics) RecordRecompute(_ string, _ int, _ float64) {
	m.mu.Lock()
	m.recomputes++
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordStrategyMarkers(id string, n int) {
	m.mu.Lock()
	m.perStrat[id] += n
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordSentiment(v int) {
	m.mu.Lock()
	m.sentiment = v
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordLatency(_ string, _ float64) {}
func (m *fakeMetrics) RecordCache(_ string, _ bool)       {}
