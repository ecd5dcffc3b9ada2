package strategy

import (
	"fmt"
	"strings"

	"FinSignal/internal/domain/models"
	"FinSignal/pkg/config"
)

// Build returns a registry holding the configured strategies in config order.
// An empty list yields the default fear & greed strategy.
func Build(entries []config.StrategyConfig) (*Registry, error) {
	reg := NewRegistry()
	if len(entries) == 0 {
		if err := reg.Register(NewSentimentStrategy("", "")); err != nil {
			return nil, err
		}
		return reg, nil
	}
	for i, e := range entries {
		switch strings.ToLower(strings.TrimSpace(e.Type)) {
		case "", TypeSentiment, "fear_greed", "feargreed":
			s := NewSentimentStrategy(e.ID, e.Name)
			s.UpdateSettings(models.SettingsUpdate{
				Enabled:       e.Enabled,
				BuyThreshold:  e.BuyThreshold,
				SellThreshold: e.SellThreshold,
			})
			if err := reg.Register(s); err != nil {
				return nil, fmt.Errorf("strategies[%d]: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("strategies[%d] type %q: %w", i, e.Type, ErrUnknownStrategyType)
		}
	}
	return reg, nil
}
