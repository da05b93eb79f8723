// Package jsonrpc provides the JSON-RPC 2.0 HTTP transport used to talk to
// Ethereum-compatible nodes and remote signing services. It sends one
// unbatched request per call, supports automatic retries and configurable
// timeouts, and surfaces remote error envelopes as typed errors.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

var (
	// ErrRPC indicates that the transport succeeded but the remote end
	// returned a JSON-RPC error envelope. The remote message is attached.
	ErrRPC = errors.New("rpc error")

	// ErrMalformedResponse indicates a response envelope carrying neither a
	// result nor an error, which the protocol does not allow.
	ErrMalformedResponse = errors.New("malformed rpc response")
)

// response represents a standard JSON-RPC 2.0 response envelope.
type response struct {
	JsonRPC string `json:"jsonrpc"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Result json.RawMessage `json:"result"`
}

// Err returns an error if the response includes a JSON-RPC error object, or
// ErrMalformedResponse when both the result and error fields are absent. A
// JSON null result is a valid response (e.g., a receipt that is not yet
// available) and is not an error.
func (r response) Err() error {
	if r.Error != nil {
		return fmt.Errorf("%w: [%d] %s", ErrRPC, r.Error.Code, r.Error.Message)
	}

	if r.Result == nil {
		return ErrMalformedResponse
	}

	return nil
}

// Caller is the transport capability consumed by the rest of the SDK. It can
// be swapped out for testing or for alternative transports.
type Caller interface {
	// Call sends a JSON-RPC request with the given method name and
	// parameters and returns the raw result payload. The payload may be the
	// JSON literal null when the remote end has nothing to report.
	Call(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// client is a reusable JSON-RPC client over HTTP. It encodes requests, sends
// them with retry support, and decodes response envelopes.
type client struct {
	endpoint   string
	httpClient *retryablehttp.Client
}

// Compile-time assertion that client implements the Caller interface.
var _ Caller = (*client)(nil)

// Call sends a single JSON-RPC request to the configured endpoint. The
// request id is a generated UUID string.
func (c *client) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var data response
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	if err := data.Err(); err != nil {
		return nil, err
	}

	return data.Result, nil
}

// config holds optional configuration parameters for the transport.
type config struct {
	timeout      time.Duration
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	retryMax     int
}

// Option customizes the transport configuration.
type Option func(*config)

// NewClient creates a JSON-RPC transport pointing at the given endpoint.
// Retry behavior and timeouts can be tuned with functional options.
func NewClient(endpoint string, opts ...Option) *client {
	cfg := config{
		timeout:      15 * time.Second,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 5 * time.Second,
		retryMax:     2,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil
	httpClient.HTTPClient.Timeout = cfg.timeout
	httpClient.RetryWaitMin = cfg.retryWaitMin
	httpClient.RetryWaitMax = cfg.retryWaitMax
	httpClient.RetryMax = cfg.retryMax

	return &client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// WithTimeout configures the maximum duration for a single HTTP request.
//
// Default: 15 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin configures the minimum wait duration between retry attempts.
//
// Default: 1 second.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax configures the maximum wait duration between retry attempts.
//
// Default: 5 seconds.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax configures the maximum number of retry attempts for failed requests.
//
// Default: 2 retries.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}
