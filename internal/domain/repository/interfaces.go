package repository

import (
	"context"

	"FinSignal/internal/domain/models"
)

// CandleProvider delivers candles sorted ascending by date key with no duplicate keys.
type CandleProvider interface {
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
}

// SentimentProvider delivers the fear & greed index.
type SentimentProvider interface {
	Current(ctx context.Context) (models.SentimentPoint, error)
	History(ctx context.Context, limit int) ([]models.SentimentPoint, error)
}

// TimelinePublisher hands a freshly computed timeline to a downstream consumer.
type TimelinePublisher interface {
	PublishTimeline(ctx context.Context, tl *models.Timeline) error
	Close() error
}

type Metrics interface {
	RecordRecompute(symbol string, markers int, seconds float64)
	RecordStrategyMarkers(strategyID string, markers int)
	RecordError(kind string)
	RecordSentiment(value int)
	RecordLatency(op string, seconds float64)
	RecordCache(name string, hit bool)
}
