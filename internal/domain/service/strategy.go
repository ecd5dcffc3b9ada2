package service

import "FinSignal/internal/domain/models"

// Strategy is a pluggable rule deriving signal markers from candles and extra inputs.
// Calculate must not mutate its inputs, must be deterministic, and returns an empty
// slice (never an error) when disabled or when inputs are insufficient.
type Strategy interface {
	ID() string
	Name() string
	Calculate(candles []models.Candle, extra models.ExtraData) []models.SignalMarker
	IsEnabled() bool
	SetEnabled(enabled bool)
	Settings() models.StrategySettings
	UpdateSettings(u models.SettingsUpdate) models.StrategySettings
}
