// Package client implements the chain client: typed wrappers over the node's
// JSON-RPC surface plus the transaction pipeline that completes, signs,
// submits, and confirms transactions.
package client

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/evmlabs/evmsdk/transport/jsonrpc"
	"github.com/evmlabs/evmsdk/types"
)

// MaxGas is the upper bound applied to gas limits after the safety margin.
// Estimates above it are clamped rather than rejected.
const MaxGas uint64 = 1_319_413_953_330

// FallbackGasPrice is used when the node cannot report a gas price, in wei.
// One gwei is a workable floor on the private and development networks where
// eth_gasPrice tends to be unsupported.
var FallbackGasPrice = big.NewInt(1_000_000_000)

// Node JSON-RPC methods.
const (
	methodChainID            = "eth_chainId"
	methodGasPrice           = "eth_gasPrice"
	methodBlockNumber        = "eth_blockNumber"
	methodGetBalance         = "eth_getBalance"
	methodGetTxCount         = "eth_getTransactionCount"
	methodGetCode            = "eth_getCode"
	methodCall               = "eth_call"
	methodEstimateGas        = "eth_estimateGas"
	methodSendRawTransaction = "eth_sendRawTransaction"
	methodGetReceipt         = "eth_getTransactionReceipt"
)

// Client is a chain client bound to a single node endpoint. It is stateless
// apart from its configuration and safe for concurrent use; all state lives
// on the chain or in the transactions passed through it.
type Client struct {
	conn         jsonrpc.Caller
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// config holds optional configuration parameters for the client.
type config struct {
	transport    jsonrpc.Caller
	rpcOpts      []jsonrpc.Option
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// Option customizes the client configuration.
type Option func(*config)

// New creates a client for the node at the given endpoint.
//
// Default configuration:
//   - poll interval: 500 milliseconds
//   - poll timeout:  60 seconds
func New(endpoint string, opts ...Option) *Client {
	cfg := config{
		pollInterval: 500 * time.Millisecond,
		pollTimeout:  60 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Non-positive poll settings would break the confirmation loop's
	// attempt budget; fall back to the defaults instead.
	if cfg.pollInterval <= 0 {
		cfg.pollInterval = 500 * time.Millisecond
	}
	if cfg.pollTimeout <= 0 {
		cfg.pollTimeout = 60 * time.Second
	}

	conn := cfg.transport
	if conn == nil {
		conn = jsonrpc.NewClient(endpoint, cfg.rpcOpts...)
	}

	return &Client{
		conn:         conn,
		pollInterval: cfg.pollInterval,
		pollTimeout:  cfg.pollTimeout,
	}
}

// WithTransport replaces the HTTP transport with a custom Caller. The
// endpoint argument to New is ignored when a transport is supplied.
func WithTransport(conn jsonrpc.Caller) Option {
	return func(c *config) {
		c.transport = conn
	}
}

// WithTransportOptions forwards options to the default HTTP transport.
func WithTransportOptions(opts ...jsonrpc.Option) Option {
	return func(c *config) {
		c.rpcOpts = append(c.rpcOpts, opts...)
	}
}

// WithPollInterval sets the delay between receipt polls during confirmation.
// Default: 500 milliseconds.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// WithPollTimeout sets the total window for confirmation polling.
// Default: 60 seconds.
func WithPollTimeout(d time.Duration) Option {
	return func(c *config) {
		c.pollTimeout = d
	}
}

// callQuantity performs an RPC call whose result is a numeric quantity.
func (c *Client) callQuantity(ctx context.Context, method string, params ...any) (*big.Int, error) {
	res, err := c.conn.Call(ctx, method, params...)
	if err != nil {
		return nil, err
	}

	var q types.Quantity
	if err := json.Unmarshal(res, &q); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	return q.Big(), nil
}

// callBytes performs an RPC call whose result is a hex-encoded byte string.
func (c *Client) callBytes(ctx context.Context, method string, params ...any) ([]byte, error) {
	res, err := c.conn.Call(ctx, method, params...)
	if err != nil {
		return nil, err
	}

	var encoded string
	if err := json.Unmarshal(res, &encoded); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	data, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	return data, nil
}

// ChainID returns the chain id of the connected network.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.callQuantity(ctx, methodChainID)
}

// GasPrice returns the node's current gas price suggestion in wei.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	return c.callQuantity(ctx, methodGasPrice)
}

// BlockNumber returns the number of the latest block.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.callQuantity(ctx, methodBlockNumber)
	if err != nil {
		return 0, err
	}

	return n.Uint64(), nil
}

// BalanceAt returns the native currency balance of the address in wei, at the
// latest block.
func (c *Client) BalanceAt(ctx context.Context, address types.Address) (*big.Int, error) {
	return c.callQuantity(ctx, methodGetBalance, address.Hex(), "latest")
}

// PendingNonceAt returns the next usable nonce for the address, counting
// pending transactions so that rapid submissions do not collide.
func (c *Client) PendingNonceAt(ctx context.Context, address types.Address) (uint64, error) {
	n, err := c.callQuantity(ctx, methodGetTxCount, address.Hex(), "pending")
	if err != nil {
		return 0, err
	}

	return n.Uint64(), nil
}

// CodeAt returns the contract code deployed at the address, at the latest
// block. An empty result means no contract lives there.
func (c *Client) CodeAt(ctx context.Context, address types.Address) ([]byte, error) {
	return c.callBytes(ctx, methodGetCode, address.Hex(), "latest")
}

// CallContract executes a read-only call against the node without creating a
// transaction. The block tag selects the state to execute against; an empty
// tag means the latest block.
func (c *Client) CallContract(ctx context.Context, tx *types.Transaction, block string) ([]byte, error) {
	if block == "" {
		block = "latest"
	}

	return c.callBytes(ctx, methodCall, tx.CallArg(), block)
}

// EstimateGas asks the node to simulate the transaction and returns its raw
// gas estimate, without any safety margin applied.
func (c *Client) EstimateGas(ctx context.Context, tx *types.Transaction) (uint64, error) {
	n, err := c.callQuantity(ctx, methodEstimateGas, tx.CallArg())
	if err != nil {
		return 0, err
	}

	return n.Uint64(), nil
}

// SendRawTransaction submits a signed transaction to the network and returns
// the hash the node acknowledged it under.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (types.Hash, error) {
	res, err := c.conn.Call(ctx, methodSendRawTransaction, "0x"+hex.EncodeToString(raw))
	if err != nil {
		return types.Hash{}, err
	}

	var hash types.Hash
	if err := json.Unmarshal(res, &hash); err != nil {
		return types.Hash{}, fmt.Errorf("%s: %w", methodSendRawTransaction, err)
	}

	return hash, nil
}

// TransactionReceipt returns the receipt for a mined transaction, or
// ErrReceiptNotFound while the node has nothing for the hash.
func (c *Client) TransactionReceipt(ctx context.Context, hash types.Hash) (*types.Receipt, error) {
	res, err := c.conn.Call(ctx, methodGetReceipt, hash.Hex())
	if err != nil {
		return nil, err
	}

	if string(res) == "null" {
		return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, hash.Hex())
	}

	var receipt types.Receipt
	if err := json.Unmarshal(res, &receipt); err != nil {
		return nil, fmt.Errorf("%s: %w", methodGetReceipt, err)
	}

	return &receipt, nil
}
