// Package remote implements a signer backed by an external signing service
// speaking the account_* JSON-RPC surface (e.g. Clef). The private key stays
// inside the service; the SDK ships transactions over for signing and
// receives the raw signed bytes back.
package remote

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/evmlabs/evmsdk/signing"
	"github.com/evmlabs/evmsdk/transport/jsonrpc"
	"github.com/evmlabs/evmsdk/types"
)

// Remote signing service methods.
const (
	methodAccountList     = "account_list"
	methodSignTransaction = "account_signTransaction"
	methodSignData        = "account_signData"
)

// Signer delegates signing to an external service. The service holds the key;
// the signer only knows the account address and the chain id it signs for.
type Signer struct {
	conn    jsonrpc.Caller
	address types.Address
	chainID *big.Int
}

// Compile-time assertion that Signer implements the signing.Signer interface.
var _ signing.Signer = (*Signer)(nil)

// New creates a signer for the given address bound to the given chain id,
// delegating to the signing service behind conn. The service is probed with a
// harmless account listing call so that an unreachable or misconfigured
// service fails construction instead of the first signing attempt.
func New(ctx context.Context, conn jsonrpc.Caller, address types.Address, chainID *big.Int) (*Signer, error) {
	if chainID == nil {
		chainID = new(big.Int)
	}

	if _, err := conn.Call(ctx, methodAccountList); err != nil {
		return nil, fmt.Errorf("probing signing service: %w", err)
	}

	return &Signer{
		conn:    conn,
		address: address,
		chainID: chainID,
	}, nil
}

// NewFromURL creates a signer talking to the signing service at the given
// endpoint. See New for the liveness probe semantics.
func NewFromURL(ctx context.Context, endpoint string, address types.Address, chainID *big.Int, opts ...jsonrpc.Option) (*Signer, error) {
	return New(ctx, jsonrpc.NewClient(endpoint, opts...), address, chainID)
}

// NewWithClient creates a signer bound to the chain id reported by the given
// chain client. The chain id is fetched exactly once at construction.
func NewWithClient(ctx context.Context, conn jsonrpc.Caller, address types.Address, chain signing.ChainReader) (*Signer, error) {
	chainID, err := chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching chain id: %w", err)
	}

	return New(ctx, conn, address, chainID)
}

// Address implements the signing.Signer interface.
func (s *Signer) Address() types.Address {
	return s.address
}

// ChainID implements the signing.Signer interface.
func (s *Signer) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// Hash implements the signing.Signer interface. The digest is computed
// locally; it does not require a round trip to the service.
func (s *Signer) Hash(tx *types.Transaction) types.Hash {
	return signing.SigningHash(tx, s.chainID)
}

// SignMessage implements the signing.Signer interface. The service applies
// the personal-message prefix on its side; the context bounds the round trip.
func (s *Signer) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	res, err := s.conn.Call(ctx, methodSignData,
		"text/plain",
		s.address.Hex(),
		"0x"+hex.EncodeToString(msg),
	)
	if err != nil {
		return nil, fmt.Errorf("remote message signing: %w", err)
	}

	var encoded string
	if err := json.Unmarshal(res, &encoded); err != nil {
		return nil, fmt.Errorf("decoding signature: %w", err)
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding signature: %w", err)
	}

	if len(sig) != 65 {
		return nil, fmt.Errorf("decoding signature: expected 65 bytes, got %d", len(sig))
	}

	return sig, nil
}

// SignTransaction implements the signing.Signer interface. The service
// refuses partially specified transactions, so unlike the local signer every
// completion field, gas price included, must be present.
func (s *Signer) SignTransaction(ctx context.Context, tx *types.Transaction) (*types.SignedTransaction, error) {
	if !tx.Complete() {
		return nil, signing.ErrIncompleteTransaction
	}

	res, err := s.conn.Call(ctx, methodSignTransaction, tx.SignArg(s.address, s.chainID))
	if err != nil {
		return nil, fmt.Errorf("remote transaction signing: %w", err)
	}

	var signed struct {
		Raw string `json:"raw"`
		Tx  struct {
			Hash types.Hash `json:"hash"`
		} `json:"tx"`
	}
	if err := json.Unmarshal(res, &signed); err != nil {
		return nil, fmt.Errorf("decoding signed transaction: %w", err)
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(signed.Raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding signed transaction: %w", err)
	}

	return &types.SignedTransaction{
		Hash: signed.Tx.Hash,
		Raw:  raw,
		Tx:   tx,
	}, nil
}
