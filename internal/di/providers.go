package di

import (
	"fmt"
	"strings"
	"time"

	domrepo "FinSignal/internal/domain/repository"
	"FinSignal/internal/handler/api"
	"FinSignal/internal/handler/ws"
	internalrepo "FinSignal/internal/repository"
	"FinSignal/internal/service/binance"
	"FinSignal/internal/service/feargreed"
	"FinSignal/internal/service/ratelimit"
	"FinSignal/internal/services/strategy"
	"FinSignal/internal/usecase"
	"FinSignal/pkg/cache"
	pkgch "FinSignal/pkg/clickhouse"
	"FinSignal/pkg/config"
	xhttp "FinSignal/pkg/http"
	pkgkafka "FinSignal/pkg/kafka"
	applogger "FinSignal/pkg/logger"
	"FinSignal/pkg/metrics"
	"FinSignal/pkg/server"
)

const (
	userAgent    = "finsignal/1.0"
	retryBackoff = 500 * time.Millisecond
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry,
// which is the one served on the metrics path.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New(nil)
}

// ProvideCache creates the response cache: in-process only, or Redis behind an
// in-process L1 when redis is enabled.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize))
		return mc, func() { _ = mc.Close() }, nil
	}

	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache connected",
		applogger.String("addr", fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port)),
	)

	lc := cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.Cache.MemorySize),
		cache.WithLayeredMemoryTTL(min(cfg.Cache.CandlesTTL, cfg.Cache.SentTTL)),
	)
	return lc, func() { _ = lc.Close() }, nil
}

// ProvideClickHouseStore opens the ClickHouse candle store. Only used when
// candles.source is clickhouse.
func ProvideClickHouseStore(cfg *config.Config, l *applogger.Logger) (*internalrepo.CHCandleStore, func(), error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	store, err := internalrepo.NewCHCandleStore(client, cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse store: %w", err)
	}
	store.SetLogger(l)
	l.Info("clickhouse connected",
		applogger.String("db", cfg.ClickHouse.Database),
		applogger.String("table", cfg.ClickHouse.Table),
	)
	return store, func() { _ = client.Close() }, nil
}

// ProvideCandleProvider selects the candle source and puts the cache in front of it.
func ProvideCandleProvider(
	cfg *config.Config,
	l *applogger.Logger,
	c cache.Service,
	m domrepo.Metrics,
) (domrepo.CandleProvider, func(), error) {
	var (
		inner   domrepo.CandleProvider
		cleanup = func() {}
	)
	switch strings.ToLower(cfg.Candles.Source) {
	case "clickhouse":
		store, closeStore, err := ProvideClickHouseStore(cfg, l)
		if err != nil {
			return nil, nil, err
		}
		inner, cleanup = store, closeStore
	default:
		bc := binance.New(cfg.Candles.BaseURL, xhttp.NewClient(
			xhttp.WithTimeout(cfg.Candles.Timeout),
			xhttp.WithUserAgent(userAgent),
			xhttp.WithRetry(cfg.Candles.Retries, retryBackoff),
		))
		bc.SetLogger(l)
		inner = bc
	}

	if !cfg.Cache.Enabled {
		return inner, cleanup, nil
	}
	return internalrepo.NewCachedCandles(inner, c, cfg.Cache.CandlesTTL, m), cleanup, nil
}

// ProvideSentimentProvider creates the Fear & Greed client, cached when enabled.
func ProvideSentimentProvider(
	cfg *config.Config,
	l *applogger.Logger,
	c cache.Service,
	m domrepo.Metrics,
) domrepo.SentimentProvider {
	fg := feargreed.New(cfg.Sentiment.BaseURL, xhttp.NewClient(
		xhttp.WithTimeout(cfg.Sentiment.Timeout),
		xhttp.WithUserAgent(userAgent),
		xhttp.WithRetry(cfg.Sentiment.Retries, retryBackoff),
	))
	fg.SetLogger(l)
	if !cfg.Cache.Enabled {
		return fg
	}
	return internalrepo.NewCachedSentiment(fg, c, cfg.Cache.SentTTL, m)
}

// ProvideStrategyRegistry builds the registry from the strategies section.
func ProvideStrategyRegistry(cfg *config.Config, l *applogger.Logger) (*strategy.Registry, error) {
	reg, err := strategy.Build(cfg.Strategies)
	if err != nil {
		return nil, fmt.Errorf("strategies: %w", err)
	}
	for _, s := range reg.Settings() {
		if s.BuyThreshold >= s.SellThreshold {
			l.Warn("strategy thresholds inverted",
				applogger.String("strategy", s.ID),
				applogger.Int("buy_threshold", s.BuyThreshold),
				applogger.Int("sell_threshold", s.SellThreshold),
			)
		}
	}
	return reg, nil
}

// ProvideAggregator creates the signal aggregator.
func ProvideAggregator(m domrepo.Metrics, l *applogger.Logger) *usecase.SignalAggregator {
	agg := usecase.NewSignalAggregator(m)
	agg.SetLogger(l)
	return agg
}

// ProvideHub creates the websocket fan-out hub.
func ProvideHub(l *applogger.Logger) *ws.Hub {
	h := ws.NewHub()
	h.SetLogger(l)
	return h
}

// ProvidePublishers lists the timeline sinks: the websocket hub always, Kafka when enabled.
func ProvidePublishers(cfg *config.Config, l *applogger.Logger, hub *ws.Hub) ([]domrepo.TimelinePublisher, error) {
	pubs := []domrepo.TimelinePublisher{hub}
	if !cfg.Kafka.Enabled {
		return pubs, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	l.Info("kafka publisher ready",
		applogger.Strings("brokers", cfg.Kafka.Brokers),
		applogger.String("topic", cfg.Kafka.Topic),
	)
	return append(pubs, internalrepo.NewKafkaTimelinePublisher(producer, cfg.Kafka.Topic)), nil
}

// ProvideSignalsUseCase creates the use case. Its cleanup closes every publisher.
func ProvideSignalsUseCase(
	cfg *config.Config,
	l *applogger.Logger,
	agg *usecase.SignalAggregator,
	reg usecase.StrategyRegistry,
	candles domrepo.CandleProvider,
	sentiment domrepo.SentimentProvider,
	m domrepo.Metrics,
	pubs []domrepo.TimelinePublisher,
) (*usecase.SignalsUseCase, func()) {
	uc := usecase.NewSignalsUseCase(agg, reg, candles, sentiment, m, pubs...)
	uc.SetLogger(l)
	uc.SetTimeout(cfg.Refresh.Timeout)
	return uc, uc.Close
}

// ProvideRefresher schedules a refresh of every configured symbol.
func ProvideRefresher(cfg *config.Config, l *applogger.Logger, uc *usecase.SignalsUseCase) *usecase.Refresher {
	targets := make([]usecase.RefreshParams, 0, len(cfg.Refresh.Symbols))
	for _, sym := range cfg.Refresh.Symbols {
		targets = append(targets, usecase.RefreshParams{
			Symbol:       sym,
			Interval:     cfg.Refresh.CandleKey,
			Limit:        cfg.Refresh.Limit,
			HistoryLimit: cfg.Refresh.HistoryLimit,
		})
	}
	r := usecase.NewRefresher(uc, targets, cfg.Refresh.Interval)
	r.SetLogger(l)
	return r
}

// ProvideRefreshLimiter limits on-demand refreshes per client IP.
func ProvideRefreshLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RefreshBurst, cfg.Server.RefreshRPS)
}

// ProvideSignalsHandler creates the REST handler with the refresh route rate limited.
func ProvideSignalsHandler(l *applogger.Logger, uc *usecase.SignalsUseCase, limiter *ratelimit.Limiter) *api.SignalsEchoHandler {
	h := api.NewSignalsEchoHandler(l, uc)
	h.SetRefreshGuard(limiter.Middleware())
	return h
}

// ProvideHTTPServer creates the Echo server hosting the REST and websocket routes.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.SignalsEchoHandler, hub *ws.Hub) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer([]xhttp.Handler{h, hub},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	refresher *usecase.Refresher,
	limiter *ratelimit.Limiter,
	srv *xhttp.Server,
) *server.App {
	return server.New(cfg, l, refresher, limiter, srv)
}
