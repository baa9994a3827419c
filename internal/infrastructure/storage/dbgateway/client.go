package dbgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client executes prepared SQL statements against the remote database
// web service. Statements use positional $n placeholders; parameters
// are passed as an ordered list and bound by index on the wire.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// StoreError is a failed store operation. Reported is true when the
// service answered but declared the statement unsuccessful, as opposed
// to a transport or protocol failure.
type StoreError struct {
	Op       string
	SQL      string
	Remote   string
	Reported bool
	Err      error
}

func (e *StoreError) Error() string {
	stmt := strings.Join(strings.Fields(e.SQL), " ")
	if e.Reported {
		return fmt.Sprintf("store %s failed: %s (statement: %s)", e.Op, e.Remote, stmt)
	}
	return fmt.Sprintf("store %s failed: %v (statement: %s)", e.Op, e.Err, stmt)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewClient creates a client for the database web service.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Result is the service's statement execution response.
type Result struct {
	Success bool             `json:"success"`
	Data    []map[string]any `json:"data"`
	Error   string           `json:"error,omitempty"`
}

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// placeholderCount returns the highest $n index used in sql.
func placeholderCount(sql string) int {
	max := 0
	for _, m := range placeholderPattern.FindAllStringSubmatch(sql, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max
}

// do posts a statement to one of the prepared sub-operations.
// The parameter list is validated against the statement's placeholder
// count before anything goes on the wire.
func (c *Client) do(ctx context.Context, op, sql string, params []any, operationType string) (*Result, error) {
	if want := placeholderCount(sql); want != len(params) {
		return nil, &StoreError{
			Op:  op,
			SQL: sql,
			Err: fmt.Errorf("statement expects %d parameters, got %d", want, len(params)),
		}
	}

	wire := make(map[string]any, len(params))
	for i, p := range params {
		wire[strconv.Itoa(i+1)] = p
	}
	payload := map[string]any{
		"sql":        sql,
		"parameters": wire,
	}
	if operationType != "" {
		payload["operation_type"] = operationType
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &StoreError{Op: op, SQL: sql, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/crud/prepared/"+op, bytes.NewReader(body))
	if err != nil {
		return nil, &StoreError{Op: op, SQL: sql, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &StoreError{Op: op, SQL: sql, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return nil, &StoreError{
			Op:  op,
			SQL: sql,
			Err: fmt.Errorf("http %d: %s", resp.StatusCode, string(text)),
		}
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, &StoreError{Op: op, SQL: sql, Err: err}
	}
	return &res, nil
}

// Execute runs a statement through the generic execute sub-operation.
func (c *Client) Execute(ctx context.Context, sql string, params []any, operationType string) (*Result, error) {
	return c.do(ctx, "execute", sql, params, operationType)
}

// Select runs a prepared SELECT.
func (c *Client) Select(ctx context.Context, sql string, params []any) (*Result, error) {
	return c.do(ctx, "select", sql, params, "")
}

// Insert runs a prepared INSERT.
func (c *Client) Insert(ctx context.Context, sql string, params []any) (*Result, error) {
	return c.do(ctx, "insert", sql, params, "")
}

// Update runs a prepared UPDATE.
func (c *Client) Update(ctx context.Context, sql string, params []any) (*Result, error) {
	return c.do(ctx, "update", sql, params, "")
}

// Delete runs a prepared DELETE.
func (c *Client) Delete(ctx context.Context, sql string, params []any) (*Result, error) {
	return c.do(ctx, "delete", sql, params, "")
}

// Validate checks a statement without executing it.
func (c *Client) Validate(ctx context.Context, sql string, params []any) (*Result, error) {
	return c.do(ctx, "validate", sql, params, "")
}

// Health checks the database service's admin health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/admin/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return err
	}
	if health.Status != "healthy" {
		return fmt.Errorf("database service status %q", health.Status)
	}
	return nil
}
