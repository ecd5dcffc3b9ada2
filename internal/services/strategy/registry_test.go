package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSignal/internal/domain/models"
	"FinSignal/pkg/config"
)

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewSentimentStrategy("b", "B")))
	require.NoError(t, reg.Register(NewSentimentStrategy("a", "A")))

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID())
	assert.Equal(t, "a", list[1].ID())
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewSentimentStrategy("a", "A")))
	err := reg.Register(NewSentimentStrategy("a", "again"))
	assert.ErrorIs(t, err, ErrDuplicateStrategy)
}

func TestRegistry_Update(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewSentimentStrategy("a", "A")))

	got, err := reg.Update("a", models.SettingsUpdate{SellThreshold: models.IntPtr(70)})
	require.NoError(t, err)
	assert.Equal(t, 70, got.SellThreshold)

	_, err = reg.Update("missing", models.SettingsUpdate{})
	assert.ErrorIs(t, err, ErrStrategyNotFound)
}

func TestBuild_DefaultsToSentiment(t *testing.T) {
	reg, err := Build(nil)
	require.NoError(t, err)
	settings := reg.Settings()
	require.Len(t, settings, 1)
	assert.Equal(t, "fear-greed", settings[0].ID)
}

func TestBuild_FromConfig(t *testing.T) {
	off := false
	reg, err := Build([]config.StrategyConfig{
		{ID: "fg-strict", Name: "Strict", Type: "sentiment", BuyThreshold: models.IntPtr(10), SellThreshold: models.IntPtr(120)},
		{ID: "fg-off", Type: "fear_greed", Enabled: &off},
	})
	require.NoError(t, err)

	settings := reg.Settings()
	require.Len(t, settings, 2)
	assert.Equal(t, 10, settings[0].BuyThreshold)
	assert.Equal(t, 100, settings[0].SellThreshold)
	assert.False(t, settings[1].Enabled)
}

func TestBuild_UnknownType(t *testing.T) {
	_, err := Build([]config.StrategyConfig{{ID: "x", Type: "momentum"}})
	assert.ErrorIs(t, err, ErrUnknownStrategyType)
}
