package contract

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmlabs/evmsdk/abi"
	"github.com/evmlabs/evmsdk/signing"
	"github.com/evmlabs/evmsdk/types"
)

const erc20ABI = `[
	{"type": "function", "name": "balanceOf", "stateMutability": "view",
	 "inputs": [{"name": "owner", "type": "address"}],
	 "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "transfer", "stateMutability": "nonpayable",
	 "inputs": [{"name": "to", "type": "address"}, {"name": "amount", "type": "uint256"}],
	 "outputs": [{"name": "", "type": "bool"}]}
]`

// fakeClient scripts call results and records submitted transactions.
type fakeClient struct {
	callResult []byte
	callErr    error
	calls      []callRecord

	receipt *types.Receipt
	sendErr error
	sent    []*types.Transaction
	signers []signing.Signer
}

type callRecord struct {
	tx    *types.Transaction
	block string
}

var _ Client = (*fakeClient)(nil)

func (f *fakeClient) CallContract(_ context.Context, tx *types.Transaction, block string) ([]byte, error) {
	f.calls = append(f.calls, callRecord{tx: tx, block: block})
	return f.callResult, f.callErr
}

func (f *fakeClient) SendTransaction(_ context.Context, signer signing.Signer, tx *types.Transaction) (*types.Receipt, error) {
	f.signers = append(f.signers, signer)
	f.sent = append(f.sent, tx)
	return f.receipt, f.sendErr
}

// staticSigner satisfies signing.Signer with fixed values.
type staticSigner struct {
	address types.Address
}

var _ signing.Signer = (*staticSigner)(nil)

func (s *staticSigner) Address() types.Address { return s.address }
func (s *staticSigner) ChainID() *big.Int      { return big.NewInt(1) }

func (s *staticSigner) Hash(tx *types.Transaction) types.Hash {
	return signing.SigningHash(tx, big.NewInt(1))
}

func (s *staticSigner) SignMessage(_ context.Context, _ []byte) ([]byte, error) {
	return make([]byte, 65), nil
}

func (s *staticSigner) SignTransaction(_ context.Context, tx *types.Transaction) (*types.SignedTransaction, error) {
	return &types.SignedTransaction{Tx: tx}, nil
}

func newTestContract(t *testing.T, client Client) *Contract {
	t.Helper()

	parsed, err := abi.Parse(erc20ABI)
	require.NoError(t, err)

	addr, err := types.AddressFromHex("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	require.NoError(t, err)

	return New(client, addr, parsed)
}

func TestContract_Call(t *testing.T) {
	owner, err := types.AddressFromHex("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.NoError(t, err)

	t.Run("encodes the call and decodes the result", func(t *testing.T) {
		result := make([]byte, 32)
		result[31] = 0x2a

		client := &fakeClient{callResult: result}
		c := newTestContract(t, client)

		values, err := c.Call(t.Context(), "balanceOf", owner)
		require.NoError(t, err)
		require.Len(t, values, 1)

		balance, ok := values[0].(*big.Int)
		require.True(t, ok)
		assert.Equal(t, int64(42), balance.Int64())

		require.Len(t, client.calls, 1)
		call := client.calls[0]
		assert.Equal(t, "", call.block)
		require.NotNil(t, call.tx.To)
		assert.Equal(t, c.Address(), *call.tx.To)

		// 4-byte selector plus one 32-byte argument slot
		require.Len(t, call.tx.Data, 36)
		assert.Equal(t, "70a08231", hex.EncodeToString(call.tx.Data[:4]))
	})

	t.Run("CallAtBlock forwards the block tag", func(t *testing.T) {
		client := &fakeClient{callResult: make([]byte, 32)}
		c := newTestContract(t, client)

		_, err := c.CallAtBlock(t.Context(), "0x10", "balanceOf", owner)
		require.NoError(t, err)

		require.Len(t, client.calls, 1)
		assert.Equal(t, "0x10", client.calls[0].block)
	})

	t.Run("unknown methods fail before any network traffic", func(t *testing.T) {
		client := &fakeClient{}
		c := newTestContract(t, client)

		_, err := c.Call(t.Context(), "mint", owner)
		assert.ErrorIs(t, err, abi.ErrUnknownMethod)
		assert.Empty(t, client.calls)
	})

	t.Run("call errors pass through", func(t *testing.T) {
		callErr := errors.New("execution reverted")
		client := &fakeClient{callErr: callErr}
		c := newTestContract(t, client)

		_, err := c.Call(t.Context(), "balanceOf", owner)
		assert.ErrorIs(t, err, callErr)
	})
}

func TestContract_Execute(t *testing.T) {
	recipient, err := types.AddressFromHex("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.NoError(t, err)

	signer := &staticSigner{address: recipient}

	t.Run("submits the encoded invocation through the pipeline", func(t *testing.T) {
		receipt := &types.Receipt{Status: true}
		client := &fakeClient{receipt: receipt}
		c := newTestContract(t, client)

		got, err := c.Execute(t.Context(), signer, "transfer", recipient, big.NewInt(100))
		require.NoError(t, err)
		assert.Same(t, receipt, got)

		require.Len(t, client.sent, 1)
		tx := client.sent[0]
		require.NotNil(t, tx.To)
		assert.Equal(t, c.Address(), *tx.To)
		assert.Nil(t, tx.Value)

		// selector plus two argument slots
		assert.Len(t, tx.Data, 68)

		// Completion fields are left to the pipeline.
		assert.Nil(t, tx.Nonce)
		assert.Nil(t, tx.Gas)
		assert.Nil(t, tx.GasPrice)

		require.Len(t, client.signers, 1)
		assert.Same(t, signing.Signer(signer), client.signers[0])
	})

	t.Run("ExecuteWithValue attaches the amount", func(t *testing.T) {
		client := &fakeClient{receipt: &types.Receipt{Status: true}}
		c := newTestContract(t, client)

		_, err := c.ExecuteWithValue(t.Context(), signer, big.NewInt(777), "transfer", recipient, big.NewInt(1))
		require.NoError(t, err)

		require.Len(t, client.sent, 1)
		require.NotNil(t, client.sent[0].Value)
		assert.Equal(t, int64(777), client.sent[0].Value.Int64())
	})

	t.Run("argument mismatches fail before any network traffic", func(t *testing.T) {
		client := &fakeClient{}
		c := newTestContract(t, client)

		_, err := c.Execute(t.Context(), signer, "transfer", recipient)
		assert.ErrorIs(t, err, abi.ErrEncoding)
		assert.Empty(t, client.sent)
	})

	t.Run("pipeline errors pass through", func(t *testing.T) {
		sendErr := errors.New("transaction reverted")
		client := &fakeClient{sendErr: sendErr}
		c := newTestContract(t, client)

		_, err := c.Execute(t.Context(), signer, "transfer", recipient, big.NewInt(1))
		assert.ErrorIs(t, err, sendErr)
	})
}
