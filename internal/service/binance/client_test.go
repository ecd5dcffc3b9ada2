package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const klines = `[
 [1704067200000,"42283.58","44184.10","42180.77","44179.55","27174.29","1704153599999","0",0,"0","0","0"],
 [1704153600000,"44179.55","45879.63","44148.34","44946.91","65146.40","1704239999999","0",0,"0","0","0"]
]`

func TestGetCandles(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(klines))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil)
	candles, err := c.GetCandles(context.Background(), "btcusdt", "1d", 2)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/api/v3/klines", got.URL.Path)
	assert.Equal(t, "BTCUSDT", got.URL.Query().Get("symbol"))
	assert.Equal(t, "1d", got.URL.Query().Get("interval"))
	assert.Equal(t, "2", got.URL.Query().Get("limit"))

	require.Len(t, candles, 2)
	assert.Equal(t, "2024-01-01", candles[0].Time)
	assert.Equal(t, "2024-01-02", candles[1].Time)
	assert.InDelta(t, 42283.58, candles[0].Open, 1e-9)
	assert.InDelta(t, 44184.10, candles[0].High, 1e-9)
	assert.InDelta(t, 42180.77, candles[0].Low, 1e-9)
	assert.InDelta(t, 44179.55, candles[0].Close, 1e-9)
	assert.InDelta(t, 27174.29, candles[0].Volume, 1e-9)
}

func TestGetCandlesClampsLimit(t *testing.T) {
	var limit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	candles, err := New(srv.URL, nil).GetCandles(context.Background(), "ETHUSDT", "1w", 0)
	require.NoError(t, err)
	assert.Empty(t, candles)
	assert.Equal(t, "1000", limit)
}

func TestGetCandlesRejectsIntradayInterval(t *testing.T) {
	_, err := New("http://unused", nil).GetCandles(context.Background(), "BTCUSDT", "1h", 10)
	assert.Error(t, err)
}

func TestGetCandlesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).GetCandles(context.Background(), "NOPE", "1d", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestParseKlineMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[1704067200000,"x","1","1","1","1"]]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).GetCandles(context.Background(), "BTCUSDT", "1d", 1)
	assert.Error(t, err)
}
