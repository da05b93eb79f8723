// Package signing defines the signer capability used to authorize
// transactions and messages, along with the helpers shared by its
// implementations. Two variants exist: a local private-key signer
// (signing/localkey) and an adapter for an external signing service
// (signing/remote).
package signing

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/evmlabs/evmsdk/types"
)

var (
	// ErrInvalidKey indicates that a signer could not be constructed because
	// its key material is missing or malformed.
	ErrInvalidKey = errors.New("invalid private key")

	// ErrIncompleteTransaction indicates that a transaction is missing
	// fields the signer requires. Run the transaction through the
	// completion stage before signing it.
	ErrIncompleteTransaction = errors.New("transaction is missing fields required for signing")
)

// Signer authorizes transactions and messages for exactly one address. The
// chain id is bound once at construction and never refreshed: signing with a
// stale chain id produces replayable signatures, so rebinding requires
// constructing a new signer. Implementations must be safe for concurrent use;
// no mutable signing state may be shared across calls.
type Signer interface {
	// Address returns the account address this signer authorizes for.
	Address() types.Address

	// ChainID returns the chain id bound at construction.
	ChainID() *big.Int

	// Hash returns the chain-bound digest a signature over the given
	// transaction commits to.
	Hash(tx *types.Transaction) types.Hash

	// SignMessage signs an arbitrary message under the standard
	// personal-message prefix. The signature is the concatenated 65-byte
	// r||s||v form with the recovery id in the 27/28 convention; that is the
	// single representation used throughout the SDK. The context bounds any
	// round trip to an external signing service; local implementations
	// ignore it.
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)

	// SignTransaction signs a completed transaction and returns the
	// immutable signed form carrying the transaction hash, the raw
	// submittable bytes, and the original transaction. The context bounds
	// any round trip to an external signing service.
	SignTransaction(ctx context.Context, tx *types.Transaction) (*types.SignedTransaction, error)
}

// ChainReader is the narrow client capability signers use to discover the
// chain id at construction time.
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// PrefixedMessageHash returns the digest of a message under the standard
// personal-message convention: the message is prefixed with
// "\x19Ethereum Signed Message:\n" and its length before hashing, which
// prevents signed messages from doubling as valid transactions.
func PrefixedMessageHash(msg []byte) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	return gethcrypto.Keccak256([]byte(prefixed))
}

// LegacyTx converts a transaction into its legacy wire representation for
// hashing and signing. Unset optional fields are encoded as zero; callers
// that care about completeness must check it before converting.
func LegacyTx(tx *types.Transaction) *gethtypes.Transaction {
	legacy := &gethtypes.LegacyTx{
		Data:     tx.Data,
		Value:    new(big.Int),
		GasPrice: new(big.Int),
	}

	if tx.Value != nil {
		legacy.Value = tx.Value
	}

	if tx.GasPrice != nil {
		legacy.GasPrice = tx.GasPrice
	}

	if tx.Nonce != nil {
		legacy.Nonce = *tx.Nonce
	}

	if tx.Gas != nil {
		legacy.Gas = *tx.Gas
	}

	if tx.To != nil {
		to := gethcommon.Address(*tx.To)
		legacy.To = &to
	}

	return gethtypes.NewTx(legacy)
}

// SigningHash returns the chain-bound digest of a transaction under the
// replay-protected legacy signing scheme.
func SigningHash(tx *types.Transaction, chainID *big.Int) types.Hash {
	signer := gethtypes.NewEIP155Signer(chainID)
	return types.Hash(signer.Hash(LegacyTx(tx)))
}
