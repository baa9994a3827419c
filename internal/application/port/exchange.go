package port

import (
	"context"

	"marketsync/internal/domain/model"
)

// Exchange is the upstream market-data source.
// Fetch methods block until the exchange responds or ctx expires;
// protocol failures surface as the adapter's typed error.
type Exchange interface {
	// NormalizePair rewrites a pair name to the exchange-native code.
	// Pure, no I/O.
	NormalizePair(pair string) string

	// FetchCandles fetches and parses OHLCV bars for a native pair code.
	// An empty result is valid and yields an empty slice.
	FetchCandles(ctx context.Context, pair, timeframe string, since int64) ([]model.Candle, error)

	// FetchTicker fetches the current ticker. found is false when the
	// exchange has no data for the pair; that is not an error.
	FetchTicker(ctx context.Context, pair string) (ticker model.Ticker, found bool, err error)

	// FetchPairs fetches the full pair catalog in one call.
	FetchPairs(ctx context.Context) (model.PairCatalog, error)
}
