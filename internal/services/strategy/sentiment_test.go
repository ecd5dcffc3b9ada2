package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSignal/internal/domain/models"
)

func candlesFor(dates ...string) []models.Candle {
	out := make([]models.Candle, 0, len(dates))
	for i, d := range dates {
		p := float64(100 + i)
		out = append(out, models.Candle{Time: d, Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 10})
	}
	return out
}

func unixOf(date string) int64 {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return t.Add(6 * time.Hour).Unix()
}

func TestSentimentStrategy_Defaults(t *testing.T) {
	s := NewSentimentStrategy("", "")
	got := s.Settings()
	assert.Equal(t, "fear-greed", got.ID)
	assert.True(t, got.Enabled)
	assert.Equal(t, 20, got.BuyThreshold)
	assert.Equal(t, 80, got.SellThreshold)
	assert.Equal(t, TypeSentiment, got.Type)
}

func TestSentimentStrategy_ThresholdBoundaries(t *testing.T) {
	candles := candlesFor("2024-01-01", "2024-01-02")
	tests := []struct {
		value    int
		wantType models.SignalType
		wantNone bool
	}{
		{value: 20, wantType: models.SignalBuy},
		{value: 21, wantNone: true},
		{value: 79, wantNone: true},
		{value: 80, wantType: models.SignalSell},
		{value: 0, wantType: models.SignalBuy},
		{value: 100, wantType: models.SignalSell},
	}
	s := NewSentimentStrategy("fg", "FG")
	for _, tc := range tests {
		got := s.Calculate(candles, models.ExtraData{SentimentValue: models.IntPtr(tc.value)})
		if tc.wantNone {
			assert.Empty(t, got, "value %d", tc.value)
			continue
		}
		require.Len(t, got, 1, "value %d", tc.value)
		assert.Equal(t, tc.wantType, got[0].Type)
		assert.Equal(t, "2024-01-02", got[0].Time, "live marker goes on the latest candle")
		assert.Equal(t, "fg", got[0].StrategyID)
	}
}

func TestSentimentStrategy_LiveMarkerFields(t *testing.T) {
	s := NewSentimentStrategy("fg", "FG")
	got := s.Calculate(candlesFor("2024-05-01"), models.ExtraData{SentimentValue: models.IntPtr(12)})
	require.Len(t, got, 1)
	assert.Equal(t, models.SignalMarker{
		Time:       "2024-05-01",
		Type:       models.SignalBuy,
		Text:       "FG:12",
		Reason:     "Extreme Fear",
		StrategyID: "fg",
	}, got[0])
}

func TestSentimentStrategy_HistoricalBackfill(t *testing.T) {
	s := NewSentimentStrategy("fg", "FG")
	candles := candlesFor("2024-01-01", "2024-01-02", "2024-01-03")
	extra := models.ExtraData{
		SentimentValue: models.IntPtr(95),
		SentimentHistory: []models.SentimentPoint{
			{Timestamp: unixOf("2024-01-01"), Value: 10},
			{Timestamp: unixOf("2024-01-05"), Value: 90},
		},
	}

	got := s.Calculate(candles, extra)

	require.Len(t, got, 1, "history takes precedence over the live value")
	assert.Equal(t, "2024-01-01", got[0].Time)
	assert.Equal(t, models.SignalBuy, got[0].Type)
	assert.Equal(t, "FG:10", got[0].Text)
}

func TestSentimentStrategy_HistoryKeepsInputOrder(t *testing.T) {
	s := NewSentimentStrategy("fg", "FG")
	candles := candlesFor("2024-01-01", "2024-01-02", "2024-01-03")
	extra := models.ExtraData{SentimentHistory: []models.SentimentPoint{
		{Timestamp: unixOf("2024-01-03"), Value: 85},
		{Timestamp: unixOf("2024-01-01"), Value: 5},
		{Timestamp: unixOf("2024-01-02"), Value: 50},
	}}

	got := s.Calculate(candles, extra)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-03", got[0].Time)
	assert.Equal(t, models.SignalSell, got[0].Type)
	assert.Equal(t, "Extreme Greed", got[0].Reason)
	assert.Equal(t, "2024-01-01", got[1].Time)
}

func TestSentimentStrategy_EmptyInputs(t *testing.T) {
	s := NewSentimentStrategy("fg", "FG")
	assert.Empty(t, s.Calculate(nil, models.ExtraData{SentimentValue: models.IntPtr(5)}))
	assert.Empty(t, s.Calculate(candlesFor("2024-01-01"), models.ExtraData{}))
	assert.Empty(t, s.Calculate(nil, models.ExtraData{SentimentHistory: []models.SentimentPoint{{Timestamp: unixOf("2024-01-01"), Value: 1}}}))
	assert.NotNil(t, s.Calculate(nil, models.ExtraData{}), "empty result is a slice, not nil")
}

func TestSentimentStrategy_Disabled(t *testing.T) {
	s := NewSentimentStrategy("fg", "FG")
	s.SetEnabled(false)
	assert.False(t, s.IsEnabled())
	got := s.Calculate(candlesFor("2024-01-01"), models.ExtraData{
		SentimentValue:   models.IntPtr(1),
		SentimentHistory: []models.SentimentPoint{{Timestamp: unixOf("2024-01-01"), Value: 1}},
	})
	assert.Empty(t, got)
}

func TestSentimentStrategy_DoesNotMutateInputs(t *testing.T) {
	s := NewSentimentStrategy("fg", "FG")
	candles := candlesFor("2024-01-02", "2024-01-01")
	history := []models.SentimentPoint{{Timestamp: unixOf("2024-01-01"), Value: 3}}
	candlesBefore := append([]models.Candle(nil), candles...)
	historyBefore := append([]models.SentimentPoint(nil), history...)

	_ = s.Calculate(candles, models.ExtraData{SentimentHistory: history})

	assert.Equal(t, candlesBefore, candles)
	assert.Equal(t, historyBefore, history)
}

func TestSentimentStrategy_UpdateSettingsClamps(t *testing.T) {
	s := NewSentimentStrategy("fg", "FG")

	got := s.UpdateSettings(models.SettingsUpdate{BuyThreshold: models.IntPtr(-15)})
	assert.Equal(t, 0, got.BuyThreshold)
	assert.Equal(t, 80, got.SellThreshold, "absent field untouched")

	got = s.UpdateSettings(models.SettingsUpdate{SellThreshold: models.IntPtr(250)})
	assert.Equal(t, 0, got.BuyThreshold)
	assert.Equal(t, 100, got.SellThreshold)

	disabled := false
	got = s.UpdateSettings(models.SettingsUpdate{Enabled: &disabled, BuyThreshold: models.IntPtr(35)})
	assert.False(t, got.Enabled)
	assert.Equal(t, 35, got.BuyThreshold)
}

func TestSentimentStrategy_InvertedThresholdsEmitBoth(t *testing.T) {
	s := NewSentimentStrategy("fg", "FG")
	s.UpdateSettings(models.SettingsUpdate{BuyThreshold: models.IntPtr(90), SellThreshold: models.IntPtr(10)})

	got := s.Calculate(candlesFor("2024-01-01"), models.ExtraData{SentimentValue: models.IntPtr(50)})

	require.Len(t, got, 2)
	assert.Equal(t, models.SignalBuy, got[0].Type)
	assert.Equal(t, models.SignalSell, got[1].Type)
	assert.Equal(t, got[0].Time, got[1].Time)
}

func TestClassify_CoversRange(t *testing.T) {
	buckets := map[string]int{}
	for v := 0; v <= 100; v++ {
		buckets[Classify(v)]++
	}
	assert.Equal(t, map[string]int{
		"Extreme Fear":  21,
		"Fear":          20,
		"Neutral":       20,
		"Greed":         20,
		"Extreme Greed": 20,
	}, buckets)

	boundaries := map[int]string{
		20: "Extreme Fear", 21: "Fear",
		40: "Fear", 41: "Neutral",
		60: "Neutral", 61: "Greed",
		80: "Greed", 81: "Extreme Greed",
	}
	for v, want := range boundaries {
		assert.Equal(t, want, Classify(v), "value %d", v)
	}
}
