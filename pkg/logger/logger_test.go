package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Info("timeline refreshed",
		String("symbol", "BTCUSDT"),
		Int("markers", 3),
		Bool("partial", false),
		Strings("sources", []string{"candles", "fear_greed"}),
		Duration("duration_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "timeline refreshed", entry["message"])
	assert.Equal(t, "BTCUSDT", entry["symbol"])
	assert.EqualValues(t, 3, entry["markers"])
	assert.Equal(t, false, entry["partial"])
	assert.Equal(t, []interface{}{"candles", "fear_greed"}, entry["sources"])
	assert.EqualValues(t, 1500, entry["duration_ms"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLoggerWithAddsContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf).With(String("component", "refresher"))

	l.Warn("tick")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "refresher", entry["component"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info("hello")
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("ignored", String("k", "v")) })
}
