package models

// Requests for the signals HTTP endpoints. Defined in domain for consistency and reuse.

type SignalsRequest struct {
	Symbol   string `query:"symbol" json:"symbol" default:"BTCUSDT" validate:"required,symbol"`
	Interval string `query:"interval" json:"interval" default:"1d" validate:"oneof=1d 3d 1w"`
	Limit    int    `query:"limit" json:"limit" default:"365" validate:"gte=1,lte=1000"`
	History  int    `query:"history" json:"history" default:"365" validate:"gte=1,lte=2000"`
	// Live skips the sentiment history so only the latest candle can be marked.
	Live bool `query:"live" json:"live"`
}

type MarkersRequest struct {
	Symbol   string `query:"symbol" json:"symbol" default:"BTCUSDT" validate:"required,symbol"`
	Interval string `query:"interval" json:"interval" default:"1d" validate:"oneof=1d 3d 1w"`
}

// UpdateStrategyRequest carries a partial settings update. Thresholds are clamped, not validated.
type UpdateStrategyRequest struct {
	ID            string `param:"id" json:"-" validate:"required"`
	Enabled       *bool  `json:"enabled"`
	BuyThreshold  *int   `json:"buyThreshold"`
	SellThreshold *int   `json:"sellThreshold"`
}

// Update converts the request into a domain settings update.
func (r *UpdateStrategyRequest) Update() SettingsUpdate {
	return SettingsUpdate{Enabled: r.Enabled, BuyThreshold: r.BuyThreshold, SellThreshold: r.SellThreshold}
}
