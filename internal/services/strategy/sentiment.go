package strategy

import (
	"strconv"
	"sync"

	"FinSignal/internal/domain/models"
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/pkg/util"
)

const (
	TypeSentiment = "sentiment"

	DefaultBuyThreshold  = 20
	DefaultSellThreshold = 80
)

// SentimentStrategy emits a buy marker when the fear & greed index is at or below the
// buy threshold and a sell marker when it is at or above the sell threshold.
type SentimentStrategy struct {
	id   string
	name string

	mu            sync.RWMutex
	enabled       bool
	buyThreshold  int
	sellThreshold int
}

type sentimentConfig struct {
	enabled       bool
	buyThreshold  int
	sellThreshold int
}

// NewSentimentStrategy builds an enabled strategy with the default 20/80 thresholds.
func NewSentimentStrategy(id, name string) *SentimentStrategy {
	if id == "" {
		id = "fear-greed"
	}
	if name == "" {
		name = "Fear & Greed Index"
	}
	return &SentimentStrategy{
		id:            id,
		name:          name,
		enabled:       true,
		buyThreshold:  DefaultBuyThreshold,
		sellThreshold: DefaultSellThreshold,
	}
}

func (s *SentimentStrategy) ID() string   { return s.id }
func (s *SentimentStrategy) Name() string { return s.name }

func (s *SentimentStrategy) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

func (s *SentimentStrategy) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
}

// Settings returns a snapshot of the current configuration.
func (s *SentimentStrategy) Settings() models.StrategySettings {
	cfg := s.snapshot()
	return models.StrategySettings{
		ID:            s.id,
		Name:          s.name,
		Type:          TypeSentiment,
		Enabled:       cfg.enabled,
		BuyThreshold:  cfg.buyThreshold,
		SellThreshold: cfg.sellThreshold,
	}
}

// UpdateSettings applies the supplied fields. Thresholds are clamped into [0,100].
func (s *SentimentStrategy) UpdateSettings(u models.SettingsUpdate) models.StrategySettings {
	s.mu.Lock()
	if u.Enabled != nil {
		s.enabled = *u.Enabled
	}
	if u.BuyThreshold != nil {
		s.buyThreshold = clampIndex(*u.BuyThreshold)
	}
	if u.SellThreshold != nil {
		s.sellThreshold = clampIndex(*u.SellThreshold)
	}
	s.mu.Unlock()
	return s.Settings()
}

// Calculate evaluates sentiment against the candle series. Historical points are
// back-filled onto candles sharing their UTC date; without history the live value is
// attached to the most recent candle.
func (s *SentimentStrategy) Calculate(candles []models.Candle, extra models.ExtraData) []models.SignalMarker {
	cfg := s.snapshot()
	if !cfg.enabled {
		return []models.SignalMarker{}
	}

	byDate := make(map[string]struct{}, len(candles))
	for _, c := range candles {
		byDate[c.Time] = struct{}{}
	}

	out := make([]models.SignalMarker, 0)
	switch {
	case len(extra.SentimentHistory) > 0 && len(candles) > 0:
		for _, p := range extra.SentimentHistory {
			date := util.DateKeyFromUnix(p.Timestamp)
			if _, ok := byDate[date]; !ok {
				continue
			}
			out = append(out, s.evaluate(cfg, date, p.Value)...)
		}
	case extra.SentimentValue != nil && len(candles) > 0:
		last := candles[len(candles)-1].Time
		out = append(out, s.evaluate(cfg, last, *extra.SentimentValue)...)
	}
	return out
}

// evaluate checks both thresholds independently; with inverted thresholds a single
// value can produce a buy and a sell marker for the same date.
func (s *SentimentStrategy) evaluate(cfg sentimentConfig, date string, value int) []models.SignalMarker {
	var out []models.SignalMarker
	text := "FG:" + strconv.Itoa(value)
	reason := Classify(value)
	if value <= cfg.buyThreshold {
		out = append(out, models.SignalMarker{Time: date, Type: models.SignalBuy, Text: text, Reason: reason, StrategyID: s.id})
	}
	if value >= cfg.sellThreshold {
		out = append(out, models.SignalMarker{Time: date, Type: models.SignalSell, Text: text, Reason: reason, StrategyID: s.id})
	}
	return out
}

func (s *SentimentStrategy) snapshot() sentimentConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sentimentConfig{enabled: s.enabled, buyThreshold: s.buyThreshold, sellThreshold: s.sellThreshold}
}

// Classify maps an index value to its fear & greed bucket. Upper bounds are inclusive.
func Classify(value int) string {
	switch {
	case value <= 20:
		return "Extreme Fear"
	case value <= 40:
		return "Fear"
	case value <= 60:
		return "Neutral"
	case value <= 80:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}

func clampIndex(v int) int {
	return max(0, min(100, v))
}

var _ domsvc.Strategy = (*SentimentStrategy)(nil)
