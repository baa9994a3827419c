package kraken

import (
	"context"

	"marketsync/internal/application/port"
	"marketsync/internal/domain/model"
)

// FetchCandles fetches one OHLC page and parses it into canonical
// candles. The records carry Kraken's resolved pair spelling.
func (c *Client) FetchCandles(ctx context.Context, pair, timeframe string, since int64) ([]model.Candle, error) {
	page, err := c.GetOHLC(ctx, pair, IntervalForTimeframe(timeframe), since)
	if err != nil {
		return nil, err
	}
	return ParseOHLC(page.Rows, timeframe, page.Pair), nil
}

// FetchTicker fetches and parses the current ticker for a pair.
func (c *Client) FetchTicker(ctx context.Context, pair string) (model.Ticker, bool, error) {
	fields, err := c.GetTicker(ctx, pair)
	if err != nil {
		return model.Ticker{}, false, err
	}
	if fields.Empty() {
		return model.Ticker{}, false, nil
	}
	return ParseTicker(fields, pair), true, nil
}

// FetchPairs fetches the full pair catalog.
func (c *Client) FetchPairs(ctx context.Context) (model.PairCatalog, error) {
	return c.GetAssetPairs(ctx)
}

var _ port.Exchange = (*Client)(nil)
