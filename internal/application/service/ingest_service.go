package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"marketsync/internal/application/port"
	"marketsync/internal/domain/model"
	"marketsync/internal/infrastructure/exchange/kraken"
	"marketsync/internal/infrastructure/storage/dbgateway"
)

const (
	exchangeName    = "Kraken"
	assetTypeCrypto = "crypto"
	defaultCurrency = "USD"
)

// SymbolResolutionError means an internal symbol could not be found or
// created; the whole batch is aborted when it occurs.
type SymbolResolutionError struct {
	Symbol string
	Err    error
}

func (e *SymbolResolutionError) Error() string {
	return fmt.Sprintf("resolve symbol %q: %v", e.Symbol, e.Err)
}

func (e *SymbolResolutionError) Unwrap() error { return e.Err }

// IngestResult reports one OHLC batch: how many records were parsed
// and how many rows were newly written. The two may differ without
// signaling failure, since duplicate bars are silent no-ops.
type IngestResult struct {
	Symbol   string `json:"symbol"`
	Fetched  int    `json:"records_fetched"`
	Inserted int    `json:"records_inserted"`
}

// SyncResult reports a catalog-to-symbols sync pass.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Total   int `json:"total_pairs"`
}

// AddPairResult reports an operator pair addition.
type AddPairResult struct {
	Pair    string `json:"pair"`
	Symbol  string `json:"symbol"`
	Status  string `json:"status"`
	Created bool   `json:"created"`
}

// IngestService turns parsed canonical records into durable state.
// It holds no state between invocations; unknown symbols are created
// lazily with default metadata.
type IngestService struct {
	exchange port.Exchange
	symbols  port.SymbolStore
	market   port.MarketStore
	mapping  map[string]string
}

// NewIngestService wires the orchestrator. A nil mapping falls back to
// the built-in Kraken symbol mapping.
func NewIngestService(exchange port.Exchange, symbols port.SymbolStore, market port.MarketStore, mapping map[string]string) *IngestService {
	if mapping == nil {
		mapping = kraken.SymbolMapping()
	}
	return &IngestService{exchange: exchange, symbols: symbols, market: market, mapping: mapping}
}

// resolveSymbolID maps a native pair code to its internal symbol and
// resolves the store-side identifier, creating the symbol with default
// metadata when it does not exist yet.
func (s *IngestService) resolveSymbolID(ctx context.Context, pair string) (int64, string, error) {
	symbol := pair
	if mapped, ok := s.mapping[pair]; ok {
		symbol = mapped
	}

	sym, err := s.symbols.GetSymbolByName(ctx, symbol)
	if err != nil {
		return 0, symbol, &SymbolResolutionError{Symbol: symbol, Err: err}
	}
	if sym == nil {
		create := model.Symbol{
			Symbol:    symbol,
			Name:      symbol,
			Exchange:  exchangeName,
			AssetType: assetTypeCrypto,
			Currency:  defaultCurrency,
			IsActive:  true,
		}
		if err := s.symbols.CreateSymbol(ctx, create); err != nil {
			return 0, symbol, &SymbolResolutionError{Symbol: symbol, Err: err}
		}
		log.Info().Str("symbol", symbol).Str("pair", pair).Msg("created symbol")

		sym, err = s.symbols.GetSymbolByName(ctx, symbol)
		if err != nil {
			return 0, symbol, &SymbolResolutionError{Symbol: symbol, Err: err}
		}
		if sym == nil {
			return 0, symbol, &SymbolResolutionError{Symbol: symbol, Err: errors.New("symbol missing after creation")}
		}
	}
	return sym.ID, symbol, nil
}

// IngestOHLC writes a batch of candles idempotently. Duplicate bars do
// not count as inserted. Transport-level row failures are logged and
// the batch continues; a write the store itself reports as
// unsuccessful aborts the batch with the failing statement.
func (s *IngestService) IngestOHLC(ctx context.Context, pair, timeframe string, candles []model.Candle) (*IngestResult, error) {
	symbolID, symbol, err := s.resolveSymbolID(ctx, pair)
	if err != nil {
		return nil, err
	}

	inserted := 0
	for _, candle := range candles {
		ok, err := s.market.InsertCandle(ctx, symbolID, candle)
		if err != nil {
			var se *dbgateway.StoreError
			if errors.As(err, &se) && se.Reported {
				return nil, err
			}
			log.Warn().Err(err).Str("symbol", symbol).Time("bar", candle.Timestamp).Msg("candle write failed, continuing batch")
			continue
		}
		if ok {
			inserted++
		}
	}

	log.Info().
		Str("pair", pair).
		Str("symbol", symbol).
		Str("timeframe", timeframe).
		Int("fetched", len(candles)).
		Int("inserted", inserted).
		Msg("ingested ohlc batch")

	return &IngestResult{Symbol: symbol, Fetched: len(candles), Inserted: inserted}, nil
}

// IngestTicker resolves the symbol and upserts the latest price in a
// single atomic statement keyed by (symbol, source).
func (s *IngestService) IngestTicker(ctx context.Context, pair string, ticker model.Ticker) (string, error) {
	symbolID, symbol, err := s.resolveSymbolID(ctx, pair)
	if err != nil {
		return "", err
	}
	if err := s.market.UpsertTicker(ctx, symbolID, ticker); err != nil {
		return symbol, err
	}
	log.Info().Str("pair", pair).Str("symbol", symbol).Float64("price", ticker.Price).Msg("updated real-time price")
	return symbol, nil
}

// SyncSymbols walks the operator mapping against the live catalog:
// mapped pairs get their symbol created if absent, or the active flag
// corrected when the catalog status disagrees. Catalog entries outside
// the mapping are left untouched.
func (s *IngestService) SyncSymbols(ctx context.Context) (*SyncResult, error) {
	catalog, err := s.exchange.FetchPairs(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Total: len(s.mapping)}
	for pair, symbol := range s.mapping {
		info, listed := catalog[pair]
		if !listed {
			continue
		}
		active := info.Status == model.PairStatusOnline

		sym, err := s.symbols.GetSymbolByName(ctx, symbol)
		if err != nil {
			return nil, &SymbolResolutionError{Symbol: symbol, Err: err}
		}
		if sym == nil {
			name := info.AltName
			if name == "" {
				name = symbol
			}
			create := model.Symbol{
				Symbol:    symbol,
				Name:      name,
				Exchange:  exchangeName,
				AssetType: assetTypeCrypto,
				Currency:  defaultCurrency,
				IsActive:  active,
			}
			if err := s.symbols.CreateSymbol(ctx, create); err != nil {
				return nil, err
			}
			result.Created++
		} else if sym.IsActive != active {
			if err := s.symbols.UpdateSymbolActive(ctx, symbol, active); err != nil {
				return nil, err
			}
			result.Updated++
		}
	}

	log.Info().Int("created", result.Created).Int("updated", result.Updated).Msg("synced catalog to symbols")
	return result, nil
}

// AddPair registers a new pair: it verifies the pair is listed
// upstream, creates the symbol (inferring one when none is given), and
// best-effort seeds an initial ticker.
func (s *IngestService) AddPair(ctx context.Context, pair, symbol string) (*AddPairResult, error) {
	native := s.exchange.NormalizePair(pair)
	if symbol == "" {
		symbol = kraken.GuessSymbol(native)
	}

	catalog, err := s.exchange.FetchPairs(ctx)
	if err != nil {
		return nil, err
	}
	info, listed := catalog[native]
	if !listed {
		return nil, fmt.Errorf("pair %s not listed on %s", native, exchangeName)
	}

	existing, err := s.symbols.GetSymbolByName(ctx, symbol)
	if err != nil {
		return nil, &SymbolResolutionError{Symbol: symbol, Err: err}
	}
	status := info.Status
	if status == "" {
		status = "unknown"
	}
	if existing != nil {
		return &AddPairResult{Pair: native, Symbol: symbol, Status: status, Created: false}, nil
	}

	name := info.AltName
	if name == "" {
		name = symbol
	}
	currency := "EUR"
	if strings.Contains(symbol, "USD") {
		currency = "USD"
	}
	create := model.Symbol{
		Symbol:    symbol,
		Name:      name,
		Exchange:  exchangeName,
		AssetType: assetTypeCrypto,
		Currency:  currency,
		IsActive:  info.Status == model.PairStatusOnline,
	}
	if err := s.symbols.CreateSymbol(ctx, create); err != nil {
		return nil, err
	}

	// initial price is best effort; the pair is registered either way
	if ticker, found, err := s.exchange.FetchTicker(ctx, native); err != nil {
		log.Warn().Err(err).Str("pair", native).Msg("initial ticker fetch failed")
	} else if found {
		if sym, err := s.symbols.GetSymbolByName(ctx, symbol); err == nil && sym != nil {
			if err := s.market.UpsertTicker(ctx, sym.ID, ticker); err != nil {
				log.Warn().Err(err).Str("pair", native).Msg("initial ticker write failed")
			}
		}
	}

	return &AddPairResult{Pair: native, Symbol: symbol, Status: status, Created: true}, nil
}
