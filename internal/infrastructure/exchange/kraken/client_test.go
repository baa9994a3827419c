package kraken

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOHLC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/OHLC", r.URL.Path)
		assert.Equal(t, "XBTUSD", r.URL.Query().Get("pair"))
		assert.Equal(t, "60", r.URL.Query().Get("interval"))
		fmt.Fprint(w, `{"error":[],"result":{"XXBTZUSD":[[1700000000,"100","110","95","105","102","50",20]],"last":1700003600}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	page, err := c.GetOHLC(context.Background(), "XBTUSD", 60, 0)
	require.NoError(t, err)

	// kraken keys the result by its own pair spelling
	assert.Equal(t, "XXBTZUSD", page.Pair)
	assert.Equal(t, int64(1700003600), page.Last)
	require.Len(t, page.Rows, 1)
	assert.Len(t, page.Rows[0], 8)
}

func TestGetOHLCSincePassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1699999999", r.URL.Query().Get("since"))
		fmt.Fprint(w, `{"error":[],"result":{"XBTUSD":[],"last":0}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.GetOHLC(context.Background(), "XBTUSD", 60, 1699999999)
	require.NoError(t, err)
}

func TestGetOHLCEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":[],"result":{}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	page, err := c.GetOHLC(context.Background(), "XBTUSD", 60, 0)
	require.NoError(t, err)
	assert.Equal(t, "XBTUSD", page.Pair)
	assert.Empty(t, page.Rows)
}

func TestGetOHLCUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":["EQuery:Unknown asset pair"],"result":{}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, err := c.GetOHLC(context.Background(), "NOPE", 60, 0)
	require.Error(t, err)

	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "OHLC", perr.Endpoint)
	assert.Contains(t, perr.Error(), "EQuery:Unknown asset pair")
}

func TestGetOHLCTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, 0)
	_, err := c.GetOHLC(context.Background(), "XBTUSD", 60, 0)

	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))
}

func TestGetTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Ticker", r.URL.Path)
		fmt.Fprint(w, `{"error":[],"result":{"XXBTZUSD":{"a":["101","1","1"],"b":["99","1","1"],"c":["100","5"],"v":["10","500"],"h":["105","95"],"o":"90"}}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	fields, err := c.GetTicker(context.Background(), "XBTUSD")
	require.NoError(t, err)
	assert.False(t, fields.Empty())
	assert.Equal(t, []string{"100", "5"}, fields.Close)
	assert.Equal(t, "90", fields.Open)
}

func TestGetTickerMissingPairIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":[],"result":{}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	fields, err := c.GetTicker(context.Background(), "XBTUSD")
	require.NoError(t, err)
	assert.True(t, fields.Empty())
}

func TestGetAssetPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/AssetPairs", r.URL.Path)
		fmt.Fprint(w, `{"error":[],"result":{
			"XXBTZUSD":{"altname":"XBTUSD","wsname":"XBT/USD","base":"XXBT","quote":"ZUSD","status":"online"},
			"XETHZUSD":{"altname":"ETHUSD","wsname":"ETH/USD","base":"XETH","quote":"ZUSD","status":"cancel_only"}
		}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	catalog, err := c.GetAssetPairs(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, "XBT/USD", catalog["XXBTZUSD"].WSName)
	assert.Equal(t, "cancel_only", catalog["XETHZUSD"].Status)
}

func TestFetchCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1440", r.URL.Query().Get("interval"))
		fmt.Fprint(w, `{"error":[],"result":{"XXBTZUSD":[[1700000000,"100","110","95","105","102","50",20]],"last":1700003600}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	candles, err := c.FetchCandles(context.Background(), "XBTUSD", "1d", 0)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, "XXBTZUSD", candles[0].Pair)
	assert.Equal(t, "1d", candles[0].Timeframe)
}

func TestFetchTickerNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":[],"result":{}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	_, found, err := c.FetchTicker(context.Background(), "XBTUSD")
	require.NoError(t, err)
	assert.False(t, found)
}
