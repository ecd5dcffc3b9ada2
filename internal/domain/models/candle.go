package models

// Candle is one OHLCV bar keyed by its calendar date (YYYY-MM-DD, UTC).
// Lexical order on Time equals chronological order.
type Candle struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}
