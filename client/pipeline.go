package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/evmlabs/evmsdk/abi"
	"github.com/evmlabs/evmsdk/internal/pkg/logger"
	"github.com/evmlabs/evmsdk/internal/pkg/resilience/retry"
	"github.com/evmlabs/evmsdk/signing"
	"github.com/evmlabs/evmsdk/types"
)

// WaitForTransaction polls for the receipt of a submitted transaction until
// it is mined, the poll window closes, or the context is done. A mined
// transaction whose execution reverted yields a *RevertError carrying the
// receipt; polling stops immediately in that case since the outcome is final.
func (c *Client) WaitForTransaction(ctx context.Context, hash types.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	// One immediate attempt plus one per interval across the window.
	attempts := uint(c.pollTimeout/c.pollInterval) + 1

	poller := retry.New(
		retry.WithAttempts(attempts),
		retry.WithDelay(c.pollInterval),
		retry.WithFixedDelay(),
	)

	var receipt *types.Receipt
	err := poller.Execute(ctx, func() error {
		r, err := c.TransactionReceipt(ctx, hash)
		if err != nil {
			return err
		}

		if !r.Status {
			return retry.Unrecoverable(&RevertError{Receipt: r})
		}

		receipt = r
		return nil
	})
	if err != nil {
		var revert *RevertError
		if errors.As(err, &revert) {
			return nil, revert
		}

		if errors.Is(err, ErrReceiptNotFound) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrTransactionTimeout, hash.Hex())
		}

		return nil, err
	}

	return receipt, nil
}

// SendTransaction runs a transaction through the full pipeline: missing
// fields are completed, the transaction is signed, submitted, and waited on
// until mined. Fields the caller set are never overwritten, so a transaction
// with an explicit nonce or gas limit passes through untouched.
//
// Sends are not serialized per address. Concurrent sends from one account can
// fetch the same pending nonce and collide; callers needing nonce consistency
// must serialize their own submissions.
//
// Completion order matters: the nonce is fixed first, the gas limit is
// estimated with a safety margin, and the gas price is resolved last with a
// fallback, so a node without gas price support never blocks submission.
func (c *Client) SendTransaction(ctx context.Context, signer signing.Signer, tx *types.Transaction) (*types.Receipt, error) {
	if err := c.completeTransaction(ctx, signer, tx); err != nil {
		return nil, err
	}

	signed, err := signer.SignTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := c.SendRawTransaction(ctx, signed.Raw)
	if err != nil {
		return nil, fmt.Errorf("submitting transaction: %w", err)
	}

	logger.Debug(ctx, "transaction submitted",
		"hash", hash.Hex(),
		"from", signer.Address().Hex(),
		"nonce", *tx.Nonce,
	)

	return c.WaitForTransaction(ctx, hash)
}

// completeTransaction fills the unset completion fields of a transaction in
// place.
func (c *Client) completeTransaction(ctx context.Context, signer signing.Signer, tx *types.Transaction) error {
	if tx.Nonce == nil {
		nonce, err := c.PendingNonceAt(ctx, signer.Address())
		if err != nil {
			return fmt.Errorf("fetching nonce: %w", err)
		}

		tx.Nonce = &nonce
	}

	if tx.Gas == nil {
		estimate, err := c.EstimateGas(ctx, tx)
		if err != nil {
			return fmt.Errorf("estimating gas: %w", err)
		}

		gas := paddedGasLimit(estimate)
		tx.Gas = &gas
	}

	if tx.GasPrice == nil {
		price, err := c.GasPrice(ctx)
		if err != nil {
			// Submission must not abort on a failed gas price query. A
			// successful query is used verbatim: zero is the valid price on
			// free-gas networks.
			logger.Warn(ctx, "gas price unavailable, using fallback",
				"fallback", FallbackGasPrice.String(),
			)
			price = FallbackGasPrice
		}

		tx.GasPrice = price
	}

	return nil
}

// paddedGasLimit adds a twenty percent safety margin to a raw gas estimate
// and clamps the result to MaxGas. Estimates are taken against current state;
// the margin absorbs state drift between estimation and execution.
func paddedGasLimit(estimate uint64) uint64 {
	padded := estimate + estimate/5
	if padded > MaxGas || padded < estimate {
		return MaxGas
	}

	return padded
}

// DeployContract submits a contract creation transaction carrying the given
// bytecode and encoded constructor arguments, waits for it to mine, and
// returns the created contract's address alongside the receipt. A mined
// creation without a contract address fails with ErrDeploymentFailed.
func (c *Client) DeployContract(ctx context.Context, signer signing.Signer, bytecode []byte, contractABI *abi.ABI, args ...any) (types.Address, *types.Receipt, error) {
	data := append([]byte(nil), bytecode...)

	if contractABI != nil {
		encodedArgs, err := contractABI.EncodeConstructor(args...)
		if err != nil {
			return types.Address{}, nil, fmt.Errorf("encoding constructor arguments: %w", err)
		}

		data = append(data, encodedArgs...)
	}

	tx := &types.Transaction{Data: data}

	receipt, err := c.SendTransaction(ctx, signer, tx)
	if err != nil {
		return types.Address{}, nil, err
	}

	if receipt.ContractAddress == nil {
		return types.Address{}, nil, fmt.Errorf("%w: receipt %s carries no contract address", ErrDeploymentFailed, receipt.TxHash.Hex())
	}

	logger.Info(ctx, "contract deployed",
		"address", receipt.ContractAddress.Hex(),
		"tx", receipt.TxHash.Hex(),
	)

	return *receipt.ContractAddress, receipt, nil
}
