package dbgateway

import (
	"context"
	"time"

	"marketsync/internal/application/port"
	"marketsync/internal/domain/model"
)

const (
	sqlSymbolByName = `SELECT * FROM symbols WHERE symbol = $1`

	sqlCreateSymbol = `
INSERT INTO symbols (symbol, name, exchange, asset_type, currency, sector, industry, market_cap, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING *`

	sqlUpdateSymbolActive = `
UPDATE symbols SET is_active = $1, updated_at = CURRENT_TIMESTAMP
WHERE symbol = $2
RETURNING *`

	sqlInsertCandle = `
INSERT INTO market_data (symbol_id, t_stamp, open, high, low, close, volume, adjusted_close, time_frame, data_source)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (symbol_id, t_stamp, time_frame, data_source) DO NOTHING
RETURNING *`

	sqlUpsertTicker = `
INSERT INTO real_time_prices (symbol_id, price, bid, ask, volume_24h, change_24h, change_percent_24h, market_cap, data_source)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (symbol_id, data_source)
DO UPDATE SET
    price = EXCLUDED.price,
    bid = EXCLUDED.bid,
    ask = EXCLUDED.ask,
    volume_24h = EXCLUDED.volume_24h,
    change_24h = EXCLUDED.change_24h,
    change_percent_24h = EXCLUDED.change_percent_24h,
    market_cap = EXCLUDED.market_cap,
    last_updated = CURRENT_TIMESTAMP
RETURNING *`

	sqlMarketData = `
SELECT md.*, md.t_stamp AS timestamp, s.symbol, s.name
FROM market_data md
JOIN symbols s ON md.symbol_id = s.id
WHERE s.symbol = $1 AND md.time_frame = $2
ORDER BY md.t_stamp DESC
LIMIT $3`

	sqlRealTimePrices = `
SELECT rtp.*, s.symbol, s.name, s.exchange, s.asset_type
FROM real_time_prices rtp
JOIN symbols s ON rtp.symbol_id = s.id
ORDER BY rtp.last_updated DESC
LIMIT $1`

	sqlDistinctTimeframes = `
SELECT DISTINCT md.time_frame
FROM market_data md
JOIN symbols s ON md.symbol_id = s.id
WHERE s.symbol = $1
ORDER BY md.time_frame`
)

// TradingStore is the high-level symbol and market-data store backed by
// the prepared-statement gateway.
type TradingStore struct {
	client *Client
}

func NewTradingStore(client *Client) *TradingStore {
	return &TradingStore{client: client}
}

func (s *TradingStore) GetSymbolByName(ctx context.Context, symbol string) (*model.Symbol, error) {
	res, err := s.client.Select(ctx, sqlSymbolByName, []any{symbol})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &StoreError{Op: "select", SQL: sqlSymbolByName, Remote: res.Error, Reported: true}
	}
	if len(res.Data) == 0 {
		return nil, nil
	}
	sym := symbolFromRow(res.Data[0])
	return &sym, nil
}

func (s *TradingStore) CreateSymbol(ctx context.Context, sym model.Symbol) error {
	res, err := s.client.Insert(ctx, sqlCreateSymbol, []any{
		sym.Symbol,
		sym.Name,
		sym.Exchange,
		sym.AssetType,
		sym.Currency,
		sym.Sector,
		sym.Industry,
		sym.MarketCap,
		sym.IsActive,
	})
	if err != nil {
		return err
	}
	if !res.Success {
		return &StoreError{Op: "insert", SQL: sqlCreateSymbol, Remote: res.Error, Reported: true}
	}
	return nil
}

func (s *TradingStore) UpdateSymbolActive(ctx context.Context, symbol string, active bool) error {
	res, err := s.client.Update(ctx, sqlUpdateSymbolActive, []any{active, symbol})
	if err != nil {
		return err
	}
	if !res.Success {
		return &StoreError{Op: "update", SQL: sqlUpdateSymbolActive, Remote: res.Error, Reported: true}
	}
	return nil
}

func (s *TradingStore) InsertCandle(ctx context.Context, symbolID int64, candle model.Candle) (bool, error) {
	res, err := s.client.Insert(ctx, sqlInsertCandle, []any{
		symbolID,
		candle.Timestamp.UTC().Format(time.RFC3339),
		candle.Open,
		candle.High,
		candle.Low,
		candle.Close,
		candle.Volume,
		candle.AdjustedClose,
		candle.Timeframe,
		candle.Source,
	})
	if err != nil {
		return false, err
	}
	if !res.Success {
		return false, &StoreError{Op: "insert", SQL: sqlInsertCandle, Remote: res.Error, Reported: true}
	}
	// DO NOTHING on conflict returns no row: success with empty data
	// means the bar already existed.
	return len(res.Data) > 0, nil
}

func (s *TradingStore) UpsertTicker(ctx context.Context, symbolID int64, ticker model.Ticker) error {
	res, err := s.client.Insert(ctx, sqlUpsertTicker, []any{
		symbolID,
		ticker.Price,
		ticker.Bid,
		ticker.Ask,
		ticker.Volume24h,
		ticker.Change24h,
		ticker.ChangePercent24h,
		nil, // market cap is not available from this source
		ticker.Source,
	})
	if err != nil {
		return err
	}
	if !res.Success {
		return &StoreError{Op: "insert", SQL: sqlUpsertTicker, Remote: res.Error, Reported: true}
	}
	return nil
}

func (s *TradingStore) GetMarketData(ctx context.Context, symbol, timeframe string, limit int) ([]map[string]any, error) {
	res, err := s.client.Select(ctx, sqlMarketData, []any{symbol, timeframe, limit})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &StoreError{Op: "select", SQL: sqlMarketData, Remote: res.Error, Reported: true}
	}
	return res.Data, nil
}

func (s *TradingStore) GetRealTimePrices(ctx context.Context, limit int) ([]map[string]any, error) {
	res, err := s.client.Select(ctx, sqlRealTimePrices, []any{limit})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &StoreError{Op: "select", SQL: sqlRealTimePrices, Remote: res.Error, Reported: true}
	}
	return res.Data, nil
}

func (s *TradingStore) DistinctTimeframes(ctx context.Context, symbol string) ([]string, error) {
	res, err := s.client.Select(ctx, sqlDistinctTimeframes, []any{symbol})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &StoreError{Op: "select", SQL: sqlDistinctTimeframes, Remote: res.Error, Reported: true}
	}
	out := make([]string, 0, len(res.Data))
	for _, row := range res.Data {
		if tf, ok := row["time_frame"].(string); ok && tf != "" {
			out = append(out, tf)
		}
	}
	return out, nil
}

var (
	_ port.SymbolStore = (*TradingStore)(nil)
	_ port.MarketStore = (*TradingStore)(nil)
)
