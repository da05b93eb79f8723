package localkey

import (
	"context"
	"errors"
	"math/big"
	"testing"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmlabs/evmsdk/signing"
	"github.com/evmlabs/evmsdk/types"
)

// Well-known development key; never use outside tests.
const (
	testKeyHex     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testKeyAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

type staticChainReader struct {
	chainID *big.Int
	err     error
	calls   int
}

func (r *staticChainReader) ChainID(_ context.Context) (*big.Int, error) {
	r.calls++
	return r.chainID, r.err
}

func uint64Ptr(v uint64) *uint64 { return &v }

func TestNewFromHex(t *testing.T) {
	t.Run("derives the address from the key", func(t *testing.T) {
		signer, err := NewFromHex(testKeyHex, big.NewInt(1))
		require.NoError(t, err)
		assert.Equal(t, testKeyAddress, signer.Address().Hex())
	})

	t.Run("accepts a key without the 0x prefix", func(t *testing.T) {
		signer, err := NewFromHex(testKeyHex[2:], big.NewInt(1))
		require.NoError(t, err)
		assert.Equal(t, testKeyAddress, signer.Address().Hex())
	})

	t.Run("rejects malformed key material", func(t *testing.T) {
		_, err := NewFromHex("0xnot-a-key", big.NewInt(1))
		require.Error(t, err)
		assert.ErrorIs(t, err, signing.ErrInvalidKey)
	})

	t.Run("rejects a nil key", func(t *testing.T) {
		_, err := New(nil, big.NewInt(1))
		assert.ErrorIs(t, err, signing.ErrInvalidKey)
	})
}

func TestNewWithClient(t *testing.T) {
	key, err := gethcrypto.HexToECDSA(testKeyHex[2:])
	require.NoError(t, err)

	t.Run("binds the chain id from the client once", func(t *testing.T) {
		reader := &staticChainReader{chainID: big.NewInt(1223953)}

		signer, err := NewWithClient(t.Context(), key, reader)
		require.NoError(t, err)

		assert.Equal(t, int64(1223953), signer.ChainID().Int64())
		assert.Equal(t, 1, reader.calls)

		// Re-reading the chain id must not hit the client again.
		_ = signer.ChainID()
		assert.Equal(t, 1, reader.calls)
	})

	t.Run("fails construction when the lookup fails", func(t *testing.T) {
		lookupErr := errors.New("node unreachable")
		reader := &staticChainReader{err: lookupErr}

		_, err := NewWithClient(t.Context(), key, reader)
		require.Error(t, err)
		assert.ErrorIs(t, err, lookupErr)
	})
}

func TestSigner_SignTransaction(t *testing.T) {
	chainID := big.NewInt(1223953)
	signer, err := NewFromHex(testKeyHex, chainID)
	require.NoError(t, err)

	to, err := types.AddressFromHex("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	require.NoError(t, err)

	t.Run("produces a submittable transaction recoverable to the signer", func(t *testing.T) {
		gasPrice := big.NewInt(1_000_000_000)
		tx := &types.Transaction{
			To:       &to,
			Data:     []byte{0x70, 0xa0, 0x82, 0x31},
			Value:    big.NewInt(0),
			Nonce:    uint64Ptr(7),
			GasPrice: gasPrice,
			Gas:      uint64Ptr(21_000),
		}

		signed, err := signer.SignTransaction(t.Context(), tx)
		require.NoError(t, err)
		require.NotEmpty(t, signed.Raw)
		assert.Same(t, tx, signed.Tx)

		var decoded gethtypes.Transaction
		require.NoError(t, decoded.UnmarshalBinary(signed.Raw))

		assert.Equal(t, uint64(7), decoded.Nonce())
		assert.Equal(t, uint64(21_000), decoded.Gas())
		assert.Equal(t, gasPrice, decoded.GasPrice())
		assert.Equal(t, signed.Hash[:], decoded.Hash().Bytes())

		from, err := gethtypes.Sender(gethtypes.NewEIP155Signer(chainID), &decoded)
		require.NoError(t, err)
		assert.Equal(t, testKeyAddress, from.Hex())
	})

	t.Run("defaults an unset gas price to zero", func(t *testing.T) {
		tx := &types.Transaction{
			To:    &to,
			Nonce: uint64Ptr(0),
			Gas:   uint64Ptr(21_000),
		}

		signed, err := signer.SignTransaction(t.Context(), tx)
		require.NoError(t, err)

		var decoded gethtypes.Transaction
		require.NoError(t, decoded.UnmarshalBinary(signed.Raw))
		assert.Zero(t, decoded.GasPrice().Sign())
	})

	t.Run("rejects a transaction without a nonce", func(t *testing.T) {
		tx := &types.Transaction{To: &to, Gas: uint64Ptr(21_000)}

		_, err := signer.SignTransaction(t.Context(), tx)
		assert.ErrorIs(t, err, signing.ErrIncompleteTransaction)
	})

	t.Run("rejects a transaction without a gas limit", func(t *testing.T) {
		tx := &types.Transaction{To: &to, Nonce: uint64Ptr(0)}

		_, err := signer.SignTransaction(t.Context(), tx)
		assert.ErrorIs(t, err, signing.ErrIncompleteTransaction)
	})
}

func TestSigner_SignMessage(t *testing.T) {
	signer, err := NewFromHex(testKeyHex, big.NewInt(1))
	require.NoError(t, err)

	t.Run("signature recovers to the signer address", func(t *testing.T) {
		msg := []byte("hello world")

		sig, err := signer.SignMessage(t.Context(), msg)
		require.NoError(t, err)
		require.Len(t, sig, 65)
		assert.Contains(t, []byte{27, 28}, sig[64])

		recoverable := make([]byte, 65)
		copy(recoverable, sig)
		recoverable[64] -= 27

		pub, err := gethcrypto.SigToPub(signing.PrefixedMessageHash(msg), recoverable)
		require.NoError(t, err)
		assert.Equal(t, testKeyAddress, gethcrypto.PubkeyToAddress(*pub).Hex())
	})

	t.Run("different messages produce different signatures", func(t *testing.T) {
		first, err := signer.SignMessage(t.Context(), []byte("first"))
		require.NoError(t, err)

		second, err := signer.SignMessage(t.Context(), []byte("second"))
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}
