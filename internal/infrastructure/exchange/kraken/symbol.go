package kraken

import "strings"

// pairAliases rewrites common pair spellings to Kraken-native codes.
// Coverage is intentionally frozen; extend only with product input.
var pairAliases = map[string]string{
	"BTC":     "XBT",
	"BTCUSD":  "XBTUSD",
	"BTCUSDT": "XBTUSDT",
	"ETHUSD":  "ETHUSD",
	"ETHUSDT": "ETHUSDT",
}

// NormalizePair rewrites a pair name to Kraken format.
// "BTC/USD", "btcusd" and "BTC-USD" all normalize to "XBTUSD".
func (c *Client) NormalizePair(pair string) string {
	cleaned := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(pair, "/", ""), "-", ""))
	if alias, ok := pairAliases[cleaned]; ok {
		return alias
	}
	return cleaned
}

// SymbolMapping maps Kraken pair codes to internal trading symbols.
// Operator-maintained allow-list; pairs outside it fall back to the
// native code as their symbol.
func SymbolMapping() map[string]string {
	return map[string]string{
		"XBTUSD":    "BTC/USD",
		"XBTUSDT":   "BTC/USDT",
		"ETHUSD":    "ETH/USD",
		"ETHUSDT":   "ETH/USDT",
		"ADAUSD":    "ADA/USD",
		"ADAUSDT":   "ADA/USDT",
		"SOLUSD":    "SOL/USD",
		"SOLUSDT":   "SOL/USDT",
		"DOTUSD":    "DOT/USD",
		"DOTUSDT":   "DOT/USDT",
		"MATICUSD":  "MATIC/USD",
		"MATICUSDT": "MATIC/USDT",
		"LINKUSD":   "LINK/USD",
		"LINKUSDT":  "LINK/USDT",
		"AVAXUSD":   "AVAX/USD",
		"AVAXUSDT":  "AVAX/USDT",
		"ATOMUSD":   "ATOM/USD",
		"ATOMUSDT":  "ATOM/USDT",
		"ALGOUSD":   "ALGO/USD",
		"ALGOUSDT":  "ALGO/USDT",
	}
}

// quoteSuffixes are the quote currencies GuessSymbol knows how to split off.
var quoteSuffixes = []string{"USDT", "USD", "EUR", "GBP"}

// GuessSymbol infers an internal trading symbol from a native pair code
// when no explicit mapping exists, e.g. "XBTUSD" -> "BTC/USD".
func GuessSymbol(native string) string {
	symbol := native
	if strings.HasPrefix(symbol, "XBT") {
		symbol = strings.Replace(symbol, "XBT", "BTC", 1)
	}
	if !strings.Contains(symbol, "/") && len(symbol) > 6 {
		for _, quote := range quoteSuffixes {
			if strings.HasSuffix(symbol, quote) && len(symbol) > len(quote) {
				return symbol[:len(symbol)-len(quote)] + "/" + quote
			}
		}
	}
	return symbol
}
