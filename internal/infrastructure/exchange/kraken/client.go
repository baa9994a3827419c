package kraken

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marketsync/internal/domain/model"
)

const (
	// SourceName tags every record produced by this client.
	SourceName = "kraken"

	defaultBaseURL = "https://api.kraken.com/0/public"
	defaultTimeout = 30 * time.Second
)

// Client talks to the Kraken public REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// ProtocolError is an upstream-declared error or a transport failure.
// It is never retried here; retry policy belongs to the caller.
type ProtocolError struct {
	Endpoint string
	Reasons  []string
	Err      error
}

func (e *ProtocolError) Error() string {
	if len(e.Reasons) > 0 {
		return fmt.Sprintf("kraken %s: %s", e.Endpoint, strings.Join(e.Reasons, ", "))
	}
	return fmt.Sprintf("kraken %s: %v", e.Endpoint, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NewClient creates a Kraken REST client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// envelope is the common Kraken response wrapper.
// A non-empty error list is a protocol failure regardless of HTTP status.
type envelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &ProtocolError{Endpoint: endpoint, Err: err}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &ProtocolError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &ProtocolError{
			Endpoint: endpoint,
			Reasons:  []string{fmt.Sprintf("http %d: %s", resp.StatusCode, string(body))},
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &ProtocolError{Endpoint: endpoint, Err: err}
	}
	if len(env.Error) > 0 {
		return &ProtocolError{Endpoint: endpoint, Reasons: env.Error}
	}
	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return &ProtocolError{Endpoint: endpoint, Err: err}
		}
	}
	return nil
}

// OHLCRow is one raw bar as returned by Kraken:
// [time, open, high, low, close, vwap, volume, count].
type OHLCRow []any

// OHLCPage is one page of raw OHLC data for a pair.
type OHLCPage struct {
	Pair string
	Rows []OHLCRow
	Last int64
}

// GetOHLC fetches raw OHLC rows. Kraken keys the result set by its own
// pair spelling, which may differ from the requested one; the resolved
// name is echoed back in the page. A missing result set is not an error.
func (c *Client) GetOHLC(ctx context.Context, pair string, interval int, since int64) (*OHLCPage, error) {
	params := url.Values{}
	params.Set("pair", pair)
	params.Set("interval", strconv.Itoa(interval))
	if since > 0 {
		params.Set("since", strconv.FormatInt(since, 10))
	}

	var result map[string]json.RawMessage
	if err := c.get(ctx, "OHLC", params, &result); err != nil {
		return nil, err
	}

	page := &OHLCPage{Pair: pair}
	if raw, ok := result["last"]; ok {
		_ = json.Unmarshal(raw, &page.Last)
	}
	for key, raw := range result {
		if key == "last" {
			continue
		}
		if err := json.Unmarshal(raw, &page.Rows); err != nil {
			return nil, &ProtocolError{Endpoint: "OHLC", Err: err}
		}
		page.Pair = key
		break
	}
	return page, nil
}

// TickerFields is the raw Kraken ticker payload for one pair.
type TickerFields struct {
	Ask     []string `json:"a"`
	Bid     []string `json:"b"`
	Close   []string `json:"c"`
	Volume  []string `json:"v"`
	HighLow []string `json:"h"`
	Open    string   `json:"o"`
}

// Empty reports whether the payload carries no data at all.
// Callers must treat an empty payload as "no data", distinct from
// a protocol failure.
func (f TickerFields) Empty() bool {
	return len(f.Ask) == 0 && len(f.Bid) == 0 && len(f.Close) == 0 &&
		len(f.Volume) == 0 && len(f.HighLow) == 0 && f.Open == ""
}

// GetTicker fetches the raw ticker for a pair. A missing result key
// yields an empty TickerFields, not an error.
func (c *Client) GetTicker(ctx context.Context, pair string) (TickerFields, error) {
	params := url.Values{}
	params.Set("pair", pair)

	var result map[string]TickerFields
	if err := c.get(ctx, "Ticker", params, &result); err != nil {
		return TickerFields{}, err
	}
	for _, fields := range result {
		return fields, nil
	}
	return TickerFields{}, nil
}

// GetAssetPairs fetches the full pair catalog in a single call.
func (c *Client) GetAssetPairs(ctx context.Context) (model.PairCatalog, error) {
	var result map[string]model.PairInfo
	if err := c.get(ctx, "AssetPairs", nil, &result); err != nil {
		return nil, err
	}
	catalog := make(model.PairCatalog, len(result))
	for native, info := range result {
		catalog[native] = info
	}
	return catalog, nil
}
