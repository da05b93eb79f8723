// Package account binds an address, an optional signer, and a chain client
// into a single handle for balance queries, native transfers, and signing.
package account

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/evmlabs/evmsdk/signing"
	"github.com/evmlabs/evmsdk/signing/localkey"
	"github.com/evmlabs/evmsdk/types"
)

var (
	// ErrNoSigner indicates a signing operation on a watch-only account.
	ErrNoSigner = errors.New("account has no signer")

	// ErrNoAddress indicates that an account was constructed with neither a
	// signer nor an explicit address.
	ErrNoAddress = errors.New("account has no address")
)

// Client is the chain capability accounts depend on. *client.Client satisfies
// it; tests substitute fakes.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, address types.Address) (*big.Int, error)
	PendingNonceAt(ctx context.Context, address types.Address) (uint64, error)
	SendTransaction(ctx context.Context, signer signing.Signer, tx *types.Transaction) (*types.Receipt, error)
}

// Account is a handle on a single chain account. With a signer it can send
// transactions and sign messages; without one it is watch-only and supports
// queries. It is immutable after construction.
type Account struct {
	client  Client
	signer  signing.Signer
	address types.Address
}

// config holds the construction parameters collected from options.
type config struct {
	signer  signing.Signer
	key     *ecdsa.PrivateKey
	keyHex  string
	address *types.Address
}

// Option customizes account construction.
type Option func(*config)

// WithSigner attaches a ready-made signer. The account address is taken from
// the signer.
func WithSigner(s signing.Signer) Option {
	return func(c *config) {
		c.signer = s
	}
}

// WithPrivateKey builds a local signer from a parsed private key, bound to
// the chain id reported by the client at construction time.
func WithPrivateKey(key *ecdsa.PrivateKey) Option {
	return func(c *config) {
		c.key = key
	}
}

// WithPrivateKeyHex builds a local signer from a hex-encoded private key,
// bound to the chain id reported by the client at construction time.
func WithPrivateKeyHex(hexKey string) Option {
	return func(c *config) {
		c.keyHex = hexKey
	}
}

// WithAddress sets the address of a watch-only account. It is ignored when a
// signer is configured, since the signer's address is authoritative.
func WithAddress(address types.Address) Option {
	return func(c *config) {
		c.address = &address
	}
}

// New creates an account on the given client. Key-based options fetch the
// chain id from the client exactly once to bind the signer; the context only
// covers that lookup.
func New(ctx context.Context, client Client, opts ...Option) (*Account, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	signer := cfg.signer

	if signer == nil && (cfg.key != nil || cfg.keyHex != "") {
		chainID, err := client.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching chain id: %w", err)
		}

		if cfg.key != nil {
			signer, err = localkey.New(cfg.key, chainID)
		} else {
			signer, err = localkey.NewFromHex(cfg.keyHex, chainID)
		}
		if err != nil {
			return nil, err
		}
	}

	account := &Account{
		client: client,
		signer: signer,
	}

	switch {
	case signer != nil:
		account.address = signer.Address()
	case cfg.address != nil:
		account.address = *cfg.address
	default:
		return nil, ErrNoAddress
	}

	return account, nil
}

// Address returns the account address.
func (a *Account) Address() types.Address {
	return a.address
}

// Signer returns the attached signer, or nil for a watch-only account.
func (a *Account) Signer() signing.Signer {
	return a.signer
}

// Balance returns the account's native currency balance in wei.
func (a *Account) Balance(ctx context.Context) (*big.Int, error) {
	return a.client.BalanceAt(ctx, a.address)
}

// Nonce returns the account's next usable nonce, counting pending
// transactions.
func (a *Account) Nonce(ctx context.Context) (uint64, error) {
	return a.client.PendingNonceAt(ctx, a.address)
}

// Send transfers native currency to the given address and waits for the
// transaction to mine.
func (a *Account) Send(ctx context.Context, to types.Address, amount *big.Int) (*types.Receipt, error) {
	if a.signer == nil {
		return nil, ErrNoSigner
	}

	tx := &types.Transaction{
		To:    &to,
		Value: amount,
	}

	return a.client.SendTransaction(ctx, a.signer, tx)
}

// SignMessage signs an arbitrary message under the personal-message prefix.
func (a *Account) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	if a.signer == nil {
		return nil, ErrNoSigner
	}

	return a.signer.SignMessage(ctx, msg)
}

// SignTransaction signs a completed transaction without submitting it.
func (a *Account) SignTransaction(ctx context.Context, tx *types.Transaction) (*types.SignedTransaction, error) {
	if a.signer == nil {
		return nil, ErrNoSigner
	}

	return a.signer.SignTransaction(ctx, tx)
}
