package model

import "time"

// Candle is one time-bucketed OHLCV bar in canonical form.
// High/Low bracket Open and Close; Timestamp is always UTC.
type Candle struct {
	Timestamp     time.Time `json:"timestamp"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	Volume        float64   `json:"volume"`
	AdjustedClose *float64  `json:"adjusted_close,omitempty"`
	Timeframe     string    `json:"time_frame"`
	Source        string    `json:"data_source"`
	Pair          string    `json:"pair"`
}

// Ticker is a real-time price snapshot for a pair.
// ChangePercent24h is nil unless a positive reference open price was known.
type Ticker struct {
	Price            float64  `json:"price"`
	Bid              *float64 `json:"bid,omitempty"`
	Ask              *float64 `json:"ask,omitempty"`
	Volume24h        *int64   `json:"volume_24h,omitempty"`
	Change24h        *float64 `json:"change_24h,omitempty"`
	ChangePercent24h *float64 `json:"change_percent_24h,omitempty"`
	Source           string   `json:"data_source"`
	Pair             string   `json:"pair"`
}
