package dbgateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsync/internal/domain/model"
)

type capturedCall struct {
	op         string
	sql        string
	parameters map[string]any
}

// gatewayStub serves canned responses per sub-operation and records
// every statement it receives.
func gatewayStub(t *testing.T, responses map[string]string, calls *[]capturedCall) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := r.URL.Path[len("/crud/prepared/"):]
		var body struct {
			SQL        string         `json:"sql"`
			Parameters map[string]any `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*calls = append(*calls, capturedCall{op: op, sql: body.SQL, parameters: body.Parameters})

		resp, ok := responses[op]
		if !ok {
			resp = `{"success":true,"data":[]}`
		}
		w.Write([]byte(resp))
	}))
}

func TestGetSymbolByName(t *testing.T) {
	var calls []capturedCall
	srv := gatewayStub(t, map[string]string{
		"select": `{"success":true,"data":[{"id":42,"symbol":"BTC/USD","name":"BTC/USD","exchange":"Kraken","asset_type":"crypto","currency":"USD","is_active":true,"created_at":"2024-01-01T00:00:00Z"}]}`,
	}, &calls)
	defer srv.Close()

	store := NewTradingStore(NewClient(srv.URL, 0))
	sym, err := store.GetSymbolByName(context.Background(), "BTC/USD")
	require.NoError(t, err)
	require.NotNil(t, sym)

	assert.Equal(t, int64(42), sym.ID)
	assert.Equal(t, "BTC/USD", sym.Symbol)
	assert.Equal(t, "Kraken", sym.Exchange)
	assert.Equal(t, "crypto", sym.AssetType)
	assert.True(t, sym.IsActive)

	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"1": "BTC/USD"}, calls[0].parameters)
}

func TestGetSymbolByNameMissing(t *testing.T) {
	var calls []capturedCall
	srv := gatewayStub(t, map[string]string{
		"select": `{"success":true,"data":[]}`,
	}, &calls)
	defer srv.Close()

	store := NewTradingStore(NewClient(srv.URL, 0))
	sym, err := store.GetSymbolByName(context.Background(), "NOPE/USD")
	require.NoError(t, err)
	assert.Nil(t, sym)
}

func TestInsertCandleInsertedVsDuplicate(t *testing.T) {
	candle := model.Candle{
		Timestamp: time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
		Open:      100, High: 110, Low: 95, Close: 105,
		Volume:    50,
		Timeframe: "1h",
		Source:    "kraken",
		Pair:      "XBTUSD",
	}
	adj := 105.0
	candle.AdjustedClose = &adj

	var calls []capturedCall
	srv := gatewayStub(t, map[string]string{
		"insert": `{"success":true,"data":[{"id":1}]}`,
	}, &calls)
	defer srv.Close()

	store := NewTradingStore(NewClient(srv.URL, 0))
	inserted, err := store.InsertCandle(context.Background(), 42, candle)
	require.NoError(t, err)
	assert.True(t, inserted)

	require.Len(t, calls, 1)
	assert.Equal(t, "insert", calls[0].op)
	assert.Contains(t, calls[0].sql, "ON CONFLICT (symbol_id, t_stamp, time_frame, data_source) DO NOTHING")
	assert.Equal(t, float64(42), calls[0].parameters["1"])
	assert.Equal(t, "2023-11-14T22:13:20Z", calls[0].parameters["2"])
	assert.Equal(t, "1h", calls[0].parameters["9"])
	assert.Equal(t, "kraken", calls[0].parameters["10"])

	// conflict: service reports success with no returned row
	srv2calls := []capturedCall{}
	srv2 := gatewayStub(t, map[string]string{
		"insert": `{"success":true,"data":[]}`,
	}, &srv2calls)
	defer srv2.Close()

	store2 := NewTradingStore(NewClient(srv2.URL, 0))
	inserted, err = store2.InsertCandle(context.Background(), 42, candle)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestInsertCandleReportedFailure(t *testing.T) {
	var calls []capturedCall
	srv := gatewayStub(t, map[string]string{
		"insert": `{"success":false,"error":"relation market_data does not exist"}`,
	}, &calls)
	defer srv.Close()

	store := NewTradingStore(NewClient(srv.URL, 0))
	_, err := store.InsertCandle(context.Background(), 1, model.Candle{Timestamp: time.Now()})

	var serr *StoreError
	require.True(t, errors.As(err, &serr))
	assert.True(t, serr.Reported)
	assert.Contains(t, serr.Error(), "relation market_data does not exist")
}

func TestUpsertTicker(t *testing.T) {
	bid, ask := 99.0, 101.0
	vol := int64(500)
	ticker := model.Ticker{
		Price: 100, Bid: &bid, Ask: &ask, Volume24h: &vol,
		Source: "kraken", Pair: "XBTUSD",
	}

	var calls []capturedCall
	srv := gatewayStub(t, nil, &calls)
	defer srv.Close()

	store := NewTradingStore(NewClient(srv.URL, 0))
	require.NoError(t, store.UpsertTicker(context.Background(), 42, ticker))

	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].sql, "ON CONFLICT (symbol_id, data_source)")
	assert.Contains(t, calls[0].sql, "DO UPDATE")
	assert.Equal(t, float64(100), calls[0].parameters["2"])
	assert.Equal(t, float64(99), calls[0].parameters["3"])
	// market cap is always null for exchange tickers
	assert.Nil(t, calls[0].parameters["8"])
}

func TestUpdateSymbolActive(t *testing.T) {
	var calls []capturedCall
	srv := gatewayStub(t, nil, &calls)
	defer srv.Close()

	store := NewTradingStore(NewClient(srv.URL, 0))
	require.NoError(t, store.UpdateSymbolActive(context.Background(), "BTC/USD", false))

	require.Len(t, calls, 1)
	assert.Equal(t, "update", calls[0].op)
	assert.Equal(t, map[string]any{"1": false, "2": "BTC/USD"}, calls[0].parameters)
}

func TestGetMarketData(t *testing.T) {
	var calls []capturedCall
	srv := gatewayStub(t, map[string]string{
		"select": `{"success":true,"data":[{"symbol":"BTC/USD","close":105,"time_frame":"1h"}]}`,
	}, &calls)
	defer srv.Close()

	store := NewTradingStore(NewClient(srv.URL, 0))
	rows, err := store.GetMarketData(context.Background(), "BTC/USD", "1h", 50)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BTC/USD", rows[0]["symbol"])

	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"1": "BTC/USD", "2": "1h", "3": float64(50)}, calls[0].parameters)
}

func TestGetRealTimePrices(t *testing.T) {
	var calls []capturedCall
	srv := gatewayStub(t, map[string]string{
		"select": `{"success":true,"data":[{"symbol":"BTC/USD","price":64000},{"symbol":"ETH/USD","price":3200}]}`,
	}, &calls)
	defer srv.Close()

	store := NewTradingStore(NewClient(srv.URL, 0))
	rows, err := store.GetRealTimePrices(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDistinctTimeframes(t *testing.T) {
	var calls []capturedCall
	srv := gatewayStub(t, map[string]string{
		"select": `{"success":true,"data":[{"time_frame":"1d"},{"time_frame":"1h"},{"time_frame":null}]}`,
	}, &calls)
	defer srv.Close()

	store := NewTradingStore(NewClient(srv.URL, 0))
	frames, err := store.DistinctTimeframes(context.Background(), "BTC/USD")
	require.NoError(t, err)
	assert.Equal(t, []string{"1d", "1h"}, frames)
}
