package models

// SentimentPoint is one reading of the fear & greed index.
type SentimentPoint struct {
	Timestamp      int64  `json:"timestamp"` // epoch seconds
	Value          int    `json:"value"`     // 0..100
	Classification string `json:"classification,omitempty"`
}

// ExtraData carries the non-candle inputs handed to every strategy.
// A nil SentimentValue means no live reading is available.
type ExtraData struct {
	SentimentValue   *int
	SentimentHistory []SentimentPoint
}

// IntPtr is a small helper for building optional values.
func IntPtr(v int) *int { return &v }
