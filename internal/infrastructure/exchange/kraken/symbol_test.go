package kraken

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePair(t *testing.T) {
	c := NewClient("", 0)

	tests := []struct {
		in   string
		want string
	}{
		{"BTC/USD", "XBTUSD"},
		{"btcusd", "XBTUSD"},
		{"BTC-USD", "XBTUSD"},
		{"BTC", "XBT"},
		{"btc/usdt", "XBTUSDT"},
		{"ETH/USD", "ETHUSD"},
		{"dogeusd", "DOGEUSD"},
		{"XBTUSD", "XBTUSD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.NormalizePair(tt.in), "input %q", tt.in)
	}
}

func TestNormalizePairEquivalentSpellings(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, c.NormalizePair("BTC/USD"), c.NormalizePair("btcusd"))
	assert.Equal(t, c.NormalizePair("btcusd"), c.NormalizePair("BTC-USD"))
}

func TestIntervalForTimeframe(t *testing.T) {
	tests := []struct {
		timeframe string
		want      int
	}{
		{"1m", 1},
		{"5m", 5},
		{"15m", 15},
		{"30m", 30},
		{"1h", 60},
		{"4h", 240},
		{"1d", 1440},
		{"1w", 10080},
		{"1M", 21600},
		{"unknown", 60},
		{"", 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IntervalForTimeframe(tt.timeframe), "timeframe %q", tt.timeframe)
	}
}

func TestSymbolMapping(t *testing.T) {
	mapping := SymbolMapping()
	assert.Equal(t, "BTC/USD", mapping["XBTUSD"])
	assert.Equal(t, "ETH/USDT", mapping["ETHUSDT"])
	assert.Len(t, mapping, 20)
}

func TestGuessSymbol(t *testing.T) {
	tests := []struct {
		native string
		want   string
	}{
		{"XBTUSDT", "BTC/USDT"},
		{"DOGEUSD", "DOGE/USD"},
		{"ADAUSDT", "ADA/USDT"},
		{"XBTUSD", "BTCUSD"}, // six characters, no quote split
		{"SOLEUR", "SOLEUR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GuessSymbol(tt.native), "native %q", tt.native)
	}
}
