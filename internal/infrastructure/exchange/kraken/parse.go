package kraken

import (
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"marketsync/internal/domain/model"
)

// ohlcRowArity is the field count of a complete Kraken OHLC row.
const ohlcRowArity = 8

// ParseOHLC converts raw OHLC rows into canonical candles.
// Rows shorter than the expected arity, or with unreadable numeric
// fields, are skipped; parsing never fails on malformed upstream rows.
func ParseOHLC(rows []OHLCRow, timeframe, pair string) []model.Candle {
	out := make([]model.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < ohlcRowArity {
			log.Debug().Str("pair", pair).Int("fields", len(row)).Msg("skipping short ohlc row")
			continue
		}

		ts, okT := asFloat(row[0])
		open, okO := asFloat(row[1])
		high, okH := asFloat(row[2])
		low, okL := asFloat(row[3])
		closep, okC := asFloat(row[4])
		volume, okV := asFloat(row[6])
		if !okT || !okO || !okH || !okL || !okC || !okV {
			log.Debug().Str("pair", pair).Msg("skipping malformed ohlc row")
			continue
		}

		adjusted := closep // no separate adjustment data from this source
		out = append(out, model.Candle{
			Timestamp:     time.Unix(int64(ts), 0).UTC(),
			Open:          open,
			High:          high,
			Low:           low,
			Close:         closep,
			Volume:        volume,
			AdjustedClose: &adjusted,
			Timeframe:     timeframe,
			Source:        SourceName,
			Pair:          pair,
		})
	}
	return out
}

// ParseTicker converts a raw ticker payload into a canonical snapshot.
// Missing sub-arrays are padded with zeros so parsing never fails on
// partial payloads; an unreadable open price degrades to unknown change.
func ParseTicker(fields TickerFields, pair string) model.Ticker {
	ask := padded(fields.Ask, 3)
	bid := padded(fields.Bid, 3)
	closep := padded(fields.Close, 2)
	volume := padded(fields.Volume, 2)

	price := floatOrZero(closep[0])

	t := model.Ticker{
		Price:  price,
		Bid:    fptr(floatOrZero(bid[0])),
		Ask:    fptr(floatOrZero(ask[0])),
		Source: SourceName,
		Pair:   pair,
	}

	if v := floatOrZero(volume[1]); v != 0 {
		vol := int64(v)
		t.Volume24h = &vol
	}

	if open, err := strconv.ParseFloat(fields.Open, 64); err == nil {
		change := price - open
		t.Change24h = &change
		if open > 0 {
			pct := (price - open) / open * 100
			t.ChangePercent24h = &pct
		}
	}
	return t
}

// padded returns s extended with "0" entries up to the given arity.
func padded(s []string, arity int) []string {
	if len(s) >= arity {
		return s
	}
	out := make([]string, arity)
	copy(out, s)
	for i := len(s); i < arity; i++ {
		out[i] = "0"
	}
	return out
}

func floatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func fptr(v float64) *float64 { return &v }

// asFloat reads a numeric field that Kraken may encode as either a
// JSON number or a string.
func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
