package repository

import (
	"context"
	"strings"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	"FinSignal/pkg/cache"
)

// CachedCandles decorates a CandleProvider with a read-through cache.
type CachedCandles struct {
	inner   domrepo.CandleProvider
	c       cache.Service
	ttl     time.Duration
	metrics domrepo.Metrics
}

func NewCachedCandles(inner domrepo.CandleProvider, c cache.Service, ttl time.Duration, metrics domrepo.Metrics) *CachedCandles {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedCandles{inner: inner, c: c, ttl: ttl, metrics: metrics}
}

func (p *CachedCandles) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	key := cache.GenerateKeyWithParams("candles", strings.ToUpper(symbol), interval, limit)
	v, hit, err := cache.GetOrLoad(ctx, p.c, key, p.ttl, func(ctx context.Context) ([]models.Candle, error) {
		return p.inner.GetCandles(ctx, symbol, interval, limit)
	})
	if err == nil && p.metrics != nil {
		p.metrics.RecordCache("candles", hit)
	}
	return v, err
}

// CachedSentiment decorates a SentimentProvider with a read-through cache.
type CachedSentiment struct {
	inner   domrepo.SentimentProvider
	c       cache.Service
	ttl     time.Duration
	metrics domrepo.Metrics
}

func NewCachedSentiment(inner domrepo.SentimentProvider, c cache.Service, ttl time.Duration, metrics domrepo.Metrics) *CachedSentiment {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedSentiment{inner: inner, c: c, ttl: ttl, metrics: metrics}
}

func (p *CachedSentiment) Current(ctx context.Context) (models.SentimentPoint, error) {
	v, hit, err := cache.GetOrLoad(ctx, p.c, cache.GenerateKey("fng", "current"), p.ttl, p.inner.Current)
	if err == nil && p.metrics != nil {
		p.metrics.RecordCache("sentiment", hit)
	}
	return v, err
}

func (p *CachedSentiment) History(ctx context.Context, limit int) ([]models.SentimentPoint, error) {
	key := cache.GenerateKeyWithParams("fng", "history", limit)
	v, hit, err := cache.GetOrLoad(ctx, p.c, key, p.ttl, func(ctx context.Context) ([]models.SentimentPoint, error) {
		return p.inner.History(ctx, limit)
	})
	if err == nil && p.metrics != nil {
		p.metrics.RecordCache("sentiment_history", hit)
	}
	return v, err
}

var (
	_ domrepo.CandleProvider    = (*CachedCandles)(nil)
	_ domrepo.SentimentProvider = (*CachedSentiment)(nil)
)
