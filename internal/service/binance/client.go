package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"FinSignal/internal/domain/models"
	drepo "FinSignal/internal/domain/repository"
	xhttp "FinSignal/pkg/http"
	"FinSignal/pkg/logger"
	"FinSignal/pkg/util"
)

const (
	DefaultBaseURL = "https://api.binance.com"
	klinesPath     = "/api/v3/klines"
	maxLimit       = 1000
)

// Client fetches OHLCV candles from the Binance public klines endpoint.
type Client struct {
	baseURL string
	http    *xhttp.Client
	l       *logger.Logger
}

// New creates a Binance candle provider.
func New(baseURL string, httpClient *xhttp.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = xhttp.NewClient()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetLogger sets optional logger.
func (c *Client) SetLogger(l *logger.Logger) { c.l = l }

// GetCandles returns up to limit candles for symbol, oldest first.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	if !drepo.IsValidInterval(drepo.Interval(interval)) {
		return nil, fmt.Errorf("binance: unsupported interval %q", interval)
	}
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	var raw [][]json.RawMessage
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + klinesPath,
		QueryParams: map[string][]string{
			"symbol":   {strings.ToUpper(symbol)},
			"interval": {interval},
			"limit":    {strconv.Itoa(limit)},
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(raw))
	for i, row := range raw {
		cd, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("binance kline %d: %w", i, err)
		}
		candles = append(candles, cd)
	}

	if c.l != nil {
		c.l.Debug("binance candles fetched",
			logger.String("symbol", symbol),
			logger.String("interval", interval),
			logger.Int("count", len(candles)),
		)
	}
	return candles, nil
}

// parseKline decodes one kline row: [openTime, open, high, low, close, volume, closeTime, ...].
func parseKline(row []json.RawMessage) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, fmt.Errorf("short row: %d fields", len(row))
	}
	var openTime int64
	if err := json.Unmarshal(row[0], &openTime); err != nil {
		return models.Candle{}, fmt.Errorf("open time: %w", err)
	}

	var vals [5]float64
	for i := range vals {
		var s string
		if err := json.Unmarshal(row[i+1], &s); err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = f
	}

	return models.Candle{
		Time:   util.DateKeyFromUnixMilli(openTime),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

var _ drepo.CandleProvider = (*Client)(nil)
