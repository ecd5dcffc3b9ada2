package models

import "time"

// SignalType is the side of a signal marker.
type SignalType string

const (
	SignalBuy  SignalType = "buy"
	SignalSell SignalType = "sell"
)

func (t SignalType) String() string { return string(t) }

// SignalMarker describes one buy/sell event attributed to a date and a strategy.
// Markers are created by strategies and never modified afterwards.
type SignalMarker struct {
	Time       string     `json:"time"`
	Type       SignalType `json:"type"`
	Text       string     `json:"text"`
	Reason     string     `json:"reason"`
	StrategyID string     `json:"strategyId"`
}

// Timeline is the canonical, deduplicated marker sequence for one symbol and interval,
// ordered by Time descending.
type Timeline struct {
	RunID       string            `json:"runId"`
	Symbol      string            `json:"symbol"`
	Interval    string            `json:"interval"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Candles     int               `json:"candles"`
	Sentiment   *int              `json:"sentiment,omitempty"`
	Markers     []SignalMarker    `json:"markers"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// Clone returns a deep copy so callers never share the markers slice.
func (t *Timeline) Clone() *Timeline {
	if t == nil {
		return nil
	}
	out := *t
	out.Markers = append([]SignalMarker(nil), t.Markers...)
	if t.Sentiment != nil {
		v := *t.Sentiment
		out.Sentiment = &v
	}
	if t.Errors != nil {
		out.Errors = make(map[string]string, len(t.Errors))
		for k, v := range t.Errors {
			out.Errors[k] = v
		}
	}
	return &out
}
