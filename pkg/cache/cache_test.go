package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	Time  string  `json:"time"`
	Close float64 `json:"close"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := []point{{"2024-01-01", 1.5}, {"2024-01-02", 2.5}}
	require.NoError(t, mc.Set(ctx, "k", in, time.Minute))

	var out []point
	require.NoError(t, mc.Get(ctx, "k", &out))
	assert.Equal(t, in, out)

	// stored values are copies, not aliases
	in[0].Close = 99
	require.NoError(t, mc.Get(ctx, "k", &out))
	assert.Equal(t, 1.5, out[0].Close)
}

func TestMemoryCacheMissAndExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	var v int
	assert.ErrorIs(t, mc.Get(ctx, "absent", &v), ErrCacheMiss)

	require.NoError(t, mc.Set(ctx, "short", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	assert.ErrorIs(t, mc.Get(ctx, "short", &v), ErrCacheMiss)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	time.Sleep(time.Millisecond)

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v)) // a is now newer than b
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &v))
	assert.NoError(t, mc.Get(ctx, "c", &v))
}

func TestMemoryCacheDeleteAndClose(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", "x", 0))
	require.NoError(t, mc.Delete(ctx, "a", "missing"))

	var s string
	assert.ErrorIs(t, mc.Get(ctx, "a", &s), ErrCacheMiss)
	assert.NoError(t, mc.Close())
	assert.NoError(t, mc.Close())
}

func TestRedisCacheGet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	rc := NewRedisCacheFromClient(rdb, "finsignal")
	defer rc.Close()

	payload, _ := json.Marshal(point{"2024-01-01", 3})
	mock.ExpectGet("finsignal:candles").SetVal(string(payload))
	mock.ExpectGet("finsignal:absent").RedisNil()
	mock.ExpectGet("finsignal:broken").SetErr(errors.New("conn reset"))

	ctx := context.Background()
	var p point
	require.NoError(t, rc.Get(ctx, "candles", &p))
	assert.Equal(t, point{"2024-01-01", 3}, p)

	assert.ErrorIs(t, rc.Get(ctx, "absent", &p), ErrCacheMiss)

	err := rc.Get(ctx, "broken", &p)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheSetAndDelete(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	rc := NewRedisCacheFromClient(rdb, "finsignal")
	defer rc.Close()

	payload, _ := json.Marshal(point{"2024-01-01", 3})
	mock.ExpectSet("finsignal:k", payload, time.Minute).SetVal("OK")
	mock.ExpectUnlink("finsignal:k", "finsignal:j").SetVal(1)

	ctx := context.Background()
	require.NoError(t, rc.Set(ctx, "k", point{"2024-01-01", 3}, time.Minute))
	require.NoError(t, rc.Delete(ctx, "k", "j"))
	require.NoError(t, rc.Delete(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayeredCachePromotesRemoteHits(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	lc := NewLayeredCache(NewRedisCacheFromClient(rdb, "fs"), WithLayeredMemorySize(10))
	defer lc.Close()

	payload, _ := json.Marshal([]point{{"2024-01-01", 1}})
	// only one remote read: the second Get is served from memory
	mock.ExpectGet("fs:k").SetVal(string(payload))
	mock.ExpectPTTL("fs:k").SetVal(time.Minute)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		var out []point
		require.NoError(t, lc.Get(ctx, "k", &out))
		assert.Equal(t, []point{{"2024-01-01", 1}}, out)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayeredCacheKeepsRemoteExpiry(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	lc := NewLayeredCache(NewRedisCacheFromClient(rdb, "fs"), WithLayeredMemoryTTL(time.Minute))
	defer lc.Close()

	payload, _ := json.Marshal(7)
	mock.ExpectGet("fs:k").SetVal(string(payload))
	mock.ExpectPTTL("fs:k").SetVal(30 * time.Millisecond)
	mock.ExpectGet("fs:k").RedisNil()

	ctx := context.Background()
	var v int
	require.NoError(t, lc.Get(ctx, "k", &v))
	assert.Equal(t, 7, v)

	// the promoted copy expires with the remote entry, not after the L1 minute
	time.Sleep(60 * time.Millisecond)
	assert.ErrorIs(t, lc.Get(ctx, "k", &v), ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayeredCacheWriteThrough(t *testing.T) {
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, lc.Set(ctx, "k", 42, time.Minute))

	var v int
	require.NoError(t, remote.Get(ctx, "k", &v))
	assert.Equal(t, 42, v)

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &v), ErrCacheMiss)
}

func TestGetOrLoad(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]point, error) {
		calls++
		return []point{{"2024-01-01", 7}}, nil
	}

	v, hit, err := GetOrLoad(ctx, mc, "k", time.Minute, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, v, 1)

	v, hit, err = GetOrLoad(ctx, mc, "k", time.Minute, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7.0, v[0].Close)
	assert.Equal(t, 1, calls)

	boom := errors.New("upstream down")
	_, _, err = GetOrLoad(ctx, mc, "other", time.Minute, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "candles:BTCUSDT:1d:365", GenerateKeyWithParams("candles", "BTCUSDT", "1d", 365))
	assert.Equal(t, "fng:current", GenerateKey("fng", "current"))
}
