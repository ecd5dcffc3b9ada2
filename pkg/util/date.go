package util

import (
    "time"
)

// DateKeyLayout is the fixed-width calendar date format used as the candle join key.
const DateKeyLayout = "2006-01-02"

// DateKey formats t as a UTC calendar date key.
func DateKey(t time.Time) string {
    return t.UTC().Format(DateKeyLayout)
}

// DateKeyFromUnix converts epoch seconds to a UTC calendar date key.
func DateKeyFromUnix(sec int64) string {
    return DateKey(time.Unix(sec, 0))
}

// DateKeyFromUnixMilli converts epoch milliseconds to a UTC calendar date key.
func DateKeyFromUnixMilli(ms int64) string {
    return DateKey(time.UnixMilli(ms))
}

// ParseDateKey parses a YYYY-MM-DD key. Returns (t, true) on success.
func ParseDateKey(s string) (time.Time, bool) {
    t, err := time.Parse(DateKeyLayout, s)
    if err != nil {
        return time.Time{}, false
    }
    return t, true
}

// IsDateKey reports whether s is a well-formed, zero-padded date key.
func IsDateKey(s string) bool {
    if len(s) != len(DateKeyLayout) {
        return false
    }
    _, ok := ParseDateKey(s)
    return ok
}
