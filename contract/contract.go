// Package contract provides a typed handle on a deployed contract: read-only
// calls and state-changing executions expressed as method name plus Go
// arguments, with encoding and decoding handled by the contract's ABI.
package contract

import (
	"context"
	"math/big"

	"github.com/evmlabs/evmsdk/abi"
	"github.com/evmlabs/evmsdk/signing"
	"github.com/evmlabs/evmsdk/types"
)

// Client is the chain capability contracts depend on. *client.Client
// satisfies it; tests substitute fakes.
type Client interface {
	CallContract(ctx context.Context, tx *types.Transaction, block string) ([]byte, error)
	SendTransaction(ctx context.Context, signer signing.Signer, tx *types.Transaction) (*types.Receipt, error)
}

// Contract is a handle on a contract deployed at a fixed address. It is
// immutable and safe to share; all state lives on chain.
type Contract struct {
	client  Client
	address types.Address
	abi     *abi.ABI
}

// New creates a handle on the contract at the given address.
func New(client Client, address types.Address, contractABI *abi.ABI) *Contract {
	return &Contract{
		client:  client,
		address: address,
		abi:     contractABI,
	}
}

// Address returns the contract address.
func (c *Contract) Address() types.Address {
	return c.address
}

// ABI returns the parsed contract interface.
func (c *Contract) ABI() *abi.ABI {
	return c.abi
}

// Call executes a read-only method against the latest block and returns the
// decoded output values in declaration order. No transaction is created and
// no gas is spent.
func (c *Contract) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	return c.CallAtBlock(ctx, "", method, args...)
}

// CallAtBlock executes a read-only method against the state at the given
// block tag (a number in hex, "latest", "earliest", or "pending"). An empty
// tag means the latest block.
func (c *Contract) CallAtBlock(ctx context.Context, block, method string, args ...any) ([]any, error) {
	data, err := c.abi.EncodeCall(method, args...)
	if err != nil {
		return nil, err
	}

	tx := &types.Transaction{
		To:   &c.address,
		Data: data,
	}

	result, err := c.client.CallContract(ctx, tx, block)
	if err != nil {
		return nil, err
	}

	return c.abi.DecodeResult(method, result)
}

// Execute submits a state-changing method invocation through the transaction
// pipeline and waits for it to mine.
func (c *Contract) Execute(ctx context.Context, signer signing.Signer, method string, args ...any) (*types.Receipt, error) {
	return c.ExecuteWithValue(ctx, signer, nil, method, args...)
}

// ExecuteWithValue is Execute with an attached native currency amount in wei,
// for payable methods.
func (c *Contract) ExecuteWithValue(ctx context.Context, signer signing.Signer, value *big.Int, method string, args ...any) (*types.Receipt, error) {
	data, err := c.abi.EncodeCall(method, args...)
	if err != nil {
		return nil, err
	}

	tx := &types.Transaction{
		To:    &c.address,
		Data:  data,
		Value: value,
	}

	return c.client.SendTransaction(ctx, signer, tx)
}
