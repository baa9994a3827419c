package port

import (
	"context"

	"marketsync/internal/domain/model"
)

// SymbolStore manages trading symbol rows in the remote store.
type SymbolStore interface {
	// GetSymbolByName returns the symbol row, or nil when absent.
	GetSymbolByName(ctx context.Context, symbol string) (*model.Symbol, error)

	// CreateSymbol inserts a new symbol row.
	CreateSymbol(ctx context.Context, sym model.Symbol) error

	// UpdateSymbolActive flips the active flag of an existing symbol.
	UpdateSymbolActive(ctx context.Context, symbol string, active bool) error
}

// MarketStore persists time-series market data in the remote store.
type MarketStore interface {
	// InsertCandle writes one bar keyed by (symbol, timestamp, timeframe,
	// source). A duplicate key is a silent no-op; inserted reports whether
	// a new row was actually written.
	InsertCandle(ctx context.Context, symbolID int64, candle model.Candle) (inserted bool, err error)

	// UpsertTicker atomically inserts or overwrites the latest price
	// keyed by (symbol, source).
	UpsertTicker(ctx context.Context, symbolID int64, ticker model.Ticker) error

	// GetMarketData reads stored bars for a symbol, newest first.
	GetMarketData(ctx context.Context, symbol, timeframe string, limit int) ([]map[string]any, error)

	// GetRealTimePrices reads the latest stored prices, newest first.
	GetRealTimePrices(ctx context.Context, limit int) ([]map[string]any, error)

	// DistinctTimeframes lists the timeframes stored for a symbol.
	DistinctTimeframes(ctx context.Context, symbol string) ([]string, error)
}
