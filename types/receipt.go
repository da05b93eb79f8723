package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Receipt is the post-execution record of a mined transaction. It is produced
// only by the network and never mutated. Status false means the transaction
// was included but execution reverted; callers must treat that as a failure.
type Receipt struct {
	// TxHash is the hash of the transaction this receipt belongs to.
	TxHash Hash

	// BlockHash and BlockNumber identify the containing block.
	BlockHash   Hash
	BlockNumber uint64

	// ContractAddress is the created contract's address; nil unless the
	// transaction was a contract creation.
	ContractAddress *Address

	// From is the sender; To is the recipient (nil for contract creation).
	From Address
	To   *Address

	// GasUsed is the amount of gas consumed by the transaction.
	GasUsed uint64

	// Status reports whether execution succeeded.
	Status bool

	// Logs are the events emitted during execution, in order.
	Logs []Event
}

// receiptWire mirrors the eth_getTransactionReceipt result object. Numeric
// fields use Quantity because nodes emit them as either hex strings or
// native numbers.
type receiptWire struct {
	TransactionHash Hash      `json:"transactionHash"`
	BlockHash       Hash      `json:"blockHash"`
	BlockNumber     Quantity  `json:"blockNumber"`
	ContractAddress *Address  `json:"contractAddress"`
	From            *Address  `json:"from"`
	To              *Address  `json:"to"`
	GasUsed         Quantity  `json:"gasUsed"`
	Status          Quantity  `json:"status"`
	Logs            []Event   `json:"logs"`
}

// UnmarshalJSON decodes a receipt from the node wire format.
func (r *Receipt) UnmarshalJSON(data []byte) error {
	var wire receiptWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("malformed receipt: %w", err)
	}

	r.TxHash = wire.TransactionHash
	r.BlockHash = wire.BlockHash
	r.BlockNumber = wire.BlockNumber.Uint64()
	r.ContractAddress = wire.ContractAddress
	r.To = wire.To
	r.GasUsed = wire.GasUsed.Uint64()
	r.Status = wire.Status.Uint64() == 1
	r.Logs = wire.Logs

	if wire.From != nil {
		r.From = *wire.From
	}

	return nil
}

// Event is a contract event emitted during transaction execution. Topics hold
// the indexed arguments (the first topic is the event signature hash); Data
// holds the non-indexed argument payload. Removed is set when a chain
// reorganization invalidated the containing block.
type Event struct {
	// Address is the contract that emitted the event.
	Address Address

	// Topics are the indexed event arguments, in order.
	Topics []Hash

	// Data is the ABI-encoded non-indexed argument payload.
	Data []byte

	// BlockNumber, TxHash, TxIndex, and LogIndex position the event on chain.
	BlockNumber uint64
	TxHash      Hash
	TxIndex     uint
	LogIndex    uint

	// Removed is true when the event was invalidated by a reorg.
	Removed bool
}

// eventWire mirrors the log object embedded in receipts.
type eventWire struct {
	Address          Address  `json:"address"`
	Topics           []Hash   `json:"topics"`
	Data             string   `json:"data"`
	BlockNumber      Quantity `json:"blockNumber"`
	TransactionHash  Hash     `json:"transactionHash"`
	TransactionIndex Quantity `json:"transactionIndex"`
	LogIndex         Quantity `json:"logIndex"`
	Removed          bool     `json:"removed"`
}

// UnmarshalJSON decodes an event from the node wire format.
func (e *Event) UnmarshalJSON(data []byte) error {
	var wire eventWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("malformed event: %w", err)
	}

	payload, err := hex.DecodeString(strings.TrimPrefix(wire.Data, "0x"))
	if err != nil {
		return fmt.Errorf("malformed event data: %w", err)
	}

	e.Address = wire.Address
	e.Topics = wire.Topics
	e.Data = payload
	e.BlockNumber = wire.BlockNumber.Uint64()
	e.TxHash = wire.TransactionHash
	e.TxIndex = uint(wire.TransactionIndex.Uint64())
	e.LogIndex = uint(wire.LogIndex.Uint64())
	e.Removed = wire.Removed

	return nil
}
