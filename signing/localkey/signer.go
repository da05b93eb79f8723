// Package localkey implements a signer backed by an in-process secp256k1
// private key. The key never leaves the process; transactions are signed
// under the replay-protected legacy scheme bound to a fixed chain id.
package localkey

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/evmlabs/evmsdk/signing"
	"github.com/evmlabs/evmsdk/types"
)

// Signer signs transactions and messages with a local private key. It is
// immutable after construction and safe for concurrent use.
type Signer struct {
	key     *ecdsa.PrivateKey
	address types.Address
	chainID *big.Int
	eth     gethtypes.Signer
}

// Compile-time assertion that Signer implements the signing.Signer interface.
var _ signing.Signer = (*Signer)(nil)

// New creates a signer from a parsed private key bound to the given chain id.
// A nil chain id binds the signer to chain id zero.
func New(key *ecdsa.PrivateKey, chainID *big.Int) (*Signer, error) {
	if key == nil {
		return nil, signing.ErrInvalidKey
	}

	if chainID == nil {
		chainID = new(big.Int)
	}

	return &Signer{
		key:     key,
		address: types.Address(gethcrypto.PubkeyToAddress(key.PublicKey)),
		chainID: chainID,
		eth:     gethtypes.NewEIP155Signer(chainID),
	}, nil
}

// NewFromHex creates a signer from a hex-encoded private key, with or without
// the "0x" prefix, bound to the given chain id.
func NewFromHex(hexKey string, chainID *big.Int) (*Signer, error) {
	key, err := gethcrypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", signing.ErrInvalidKey, err)
	}

	return New(key, chainID)
}

// NewWithClient creates a signer bound to the chain id reported by the given
// client. The chain id is fetched exactly once; construction fails if the
// lookup fails rather than leaving the signer bound to an unknown chain.
func NewWithClient(ctx context.Context, key *ecdsa.PrivateKey, client signing.ChainReader) (*Signer, error) {
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching chain id: %w", err)
	}

	return New(key, chainID)
}

// Address implements the signing.Signer interface.
func (s *Signer) Address() types.Address {
	return s.address
}

// ChainID implements the signing.Signer interface.
func (s *Signer) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// Hash implements the signing.Signer interface.
func (s *Signer) Hash(tx *types.Transaction) types.Hash {
	return types.Hash(s.eth.Hash(signing.LegacyTx(tx)))
}

// SignMessage implements the signing.Signer interface. The key is local, so
// the context is never consulted.
func (s *Signer) SignMessage(_ context.Context, msg []byte) ([]byte, error) {
	sig, err := gethcrypto.Sign(signing.PrefixedMessageHash(msg), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing message: %w", err)
	}

	// Shift the recovery id into the 27/28 convention expected by
	// signature verifiers.
	sig[64] += 27

	return sig, nil
}

// SignTransaction implements the signing.Signer interface. The transaction
// must carry a nonce and gas limit; an unset gas price is signed as zero,
// which some networks accept as a free transaction.
func (s *Signer) SignTransaction(_ context.Context, tx *types.Transaction) (*types.SignedTransaction, error) {
	if tx.Nonce == nil || tx.Gas == nil {
		return nil, signing.ErrIncompleteTransaction
	}

	unsigned := signing.LegacyTx(tx)

	sig, err := gethcrypto.Sign(s.eth.Hash(unsigned).Bytes(), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	signed, err := unsigned.WithSignature(s.eth, sig)
	if err != nil {
		return nil, fmt.Errorf("applying signature: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encoding signed transaction: %w", err)
	}

	return &types.SignedTransaction{
		Hash: types.Hash(signed.Hash()),
		Raw:  raw,
		Tx:   tx,
	}, nil
}
