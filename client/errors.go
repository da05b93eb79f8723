package client

import (
	"errors"
	"fmt"

	"github.com/evmlabs/evmsdk/types"
)

var (
	// ErrReceiptNotFound indicates that the node has no receipt for the
	// requested transaction hash yet. The transaction may be pending, dropped,
	// or unknown; polling distinguishes the cases over time.
	ErrReceiptNotFound = errors.New("transaction receipt not found")

	// ErrTransactionTimeout indicates that confirmation polling exhausted its
	// window without finding a receipt. The transaction may still confirm
	// later; the hash in the error allows resuming the wait.
	ErrTransactionTimeout = errors.New("timed out waiting for transaction confirmation")

	// ErrDeploymentFailed indicates that a contract creation confirmed but
	// the receipt carries no contract address.
	ErrDeploymentFailed = errors.New("contract deployment failed")
)

// RevertError is returned when a transaction was mined but its execution
// reverted. The receipt is attached so callers can inspect gas usage and logs
// of the failed execution.
type RevertError struct {
	Receipt *types.Receipt
}

// Error implements the error interface.
func (e *RevertError) Error() string {
	return fmt.Sprintf("transaction %s reverted", e.Receipt.TxHash.Hex())
}
