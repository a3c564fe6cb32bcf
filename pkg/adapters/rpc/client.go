// Package rpc implements ports.LedgerClient over JSON-RPC 2.0.
//
// Reads run on a short, bounded timeout and writes on a longer one: a read
// that times out is a probe failure the engine absorbs, while a write that
// times out may still have committed, and only the next probe can tell.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/openbadge-labs/sprout/pkg/ledger"
	"github.com/openbadge-labs/sprout/pkg/ports"
)

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 90 * time.Second
)

// Error is a ledger-side rejection, surfaced verbatim to the user.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger error %d: %s", e.Code, e.Message)
}

// Client talks JSON-RPC to a ledger node.
type Client struct {
	url    string
	reads  *http.Client
	writes *http.Client
	nextID atomic.Uint64
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithReadTimeout bounds account and balance probes.
func WithReadTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.reads.Timeout = d
	}
}

// WithWriteTimeout bounds creation submissions.
func WithWriteTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.writes.Timeout = d
	}
}

// NewClient creates a JSON-RPC ledger client for the given endpoint.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:    url,
		reads:  &http.Client{Timeout: defaultReadTimeout},
		writes: &http.Client{Timeout: defaultWriteTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error,omitempty"`
}

func (c *Client) call(ctx context.Context, httpClient *http.Client, method string, params any, result any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed: unexpected status %s", method, resp.Status)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// GetAccount implements ports.LedgerClient. A null result means the address
// holds nothing.
func (c *Client) GetAccount(ctx context.Context, addr ledger.Address) (*ledger.AccountInfo, error) {
	var info *ledger.AccountInfo
	if err := c.call(ctx, c.reads, "getAccountInfo", []string{addr.String()}, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetBalance implements ports.LedgerClient.
func (c *Client) GetBalance(ctx context.Context, addr ledger.Address) (uint64, error) {
	var balance uint64
	if err := c.call(ctx, c.reads, "getBalance", []string{addr.String()}, &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// SubmitCreate implements ports.LedgerClient.
func (c *Client) SubmitCreate(ctx context.Context, req ports.CreateRequest) (ledger.CreateResult, error) {
	var result ledger.CreateResult
	if err := c.call(ctx, c.writes, "submitCreate", []ports.CreateRequest{req}, &result); err != nil {
		return ledger.CreateResult{}, err
	}
	return result, nil
}
