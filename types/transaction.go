package types

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// Transaction is a partially specified transaction. To, Data, and Value are
// set by the caller; Nonce, GasPrice, and Gas are pointers so that "unset"
// is distinguishable from zero. Unset fields are filled in by the completion
// stage before signing; a Transaction with nil pointer fields must never
// reach a signer directly.
type Transaction struct {
	// To is the recipient address; nil signals contract creation.
	To *Address

	// Data is the call data (method call payload, or bytecode plus encoded
	// constructor arguments for contract creation).
	Data []byte

	// Value is the amount of native currency to transfer in wei.
	Value *big.Int

	// Nonce is the per-sender sequence number; nil until completed.
	Nonce *uint64

	// GasPrice is the price per gas unit in wei; nil until completed.
	GasPrice *big.Int

	// Gas is the gas limit; nil until completed.
	Gas *uint64
}

// Complete reports whether every field required for signing has been set.
func (t *Transaction) Complete() bool {
	return t.Nonce != nil && t.GasPrice != nil && t.Gas != nil
}

// CallArg returns the transaction as the call object accepted by eth_call
// and eth_estimateGas. Only structural fields (to, data, value) are included;
// nonce and gas settings are irrelevant to those methods.
func (t *Transaction) CallArg() map[string]any {
	arg := make(map[string]any)

	if t.To != nil {
		arg["to"] = t.To.Hex()
	}

	if len(t.Data) > 0 {
		arg["data"] = "0x" + hex.EncodeToString(t.Data)
	}

	if t.Value != nil && t.Value.Sign() > 0 {
		arg["value"] = fmt.Sprintf("0x%x", t.Value)
	}

	return arg
}

// SignArg returns the transaction as the fully hex-encoded object submitted
// to a remote signing service, with every numeric field in 0x-hex form.
func (t *Transaction) SignArg(from Address, chainID *big.Int) map[string]any {
	arg := t.CallArg()
	arg["from"] = from.Hex()
	arg["chainId"] = fmt.Sprintf("0x%x", chainID)

	if t.Nonce != nil {
		arg["nonce"] = fmt.Sprintf("0x%x", *t.Nonce)
	}

	if t.GasPrice != nil {
		arg["gasPrice"] = fmt.Sprintf("0x%x", t.GasPrice)
	}

	if t.Gas != nil {
		arg["gas"] = fmt.Sprintf("0x%x", *t.Gas)
	}

	return arg
}

// SignedTransaction is a cryptographically signed transaction ready for
// submission. It is immutable: Tx records exactly what was signed.
type SignedTransaction struct {
	// Hash is the chain-bound transaction hash.
	Hash Hash

	// Raw is the RLP-encoded signed transaction.
	Raw []byte

	// Tx is the original transaction the signature covers.
	Tx *Transaction
}
