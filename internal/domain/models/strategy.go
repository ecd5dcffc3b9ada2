package models

// StrategySettings is a point-in-time snapshot of a strategy's configuration.
type StrategySettings struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Enabled       bool   `json:"enabled"`
	BuyThreshold  int    `json:"buyThreshold"`
	SellThreshold int    `json:"sellThreshold"`
}

// SettingsUpdate is a partial settings change; nil fields are left untouched.
type SettingsUpdate struct {
	Enabled       *bool `json:"enabled,omitempty"`
	BuyThreshold  *int  `json:"buyThreshold,omitempty"`
	SellThreshold *int  `json:"sellThreshold,omitempty"`
}
