// Package cli implements the evmcli command-line interface: chain queries,
// native transfers, contract calls, executions, and deployments built on the
// SDK's client pipeline.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/evmlabs/evmsdk/client"
	"github.com/evmlabs/evmsdk/signing"

	"github.com/urfave/cli/v3"
)

// ErrSignerRequired indicates that a state-changing command ran without a
// configured signer.
var ErrSignerRequired = errors.New("this command requires a configured signer")

// Services bundles the dependencies the CLI commands run against. Signer may
// be nil, in which case only read-only commands work.
type Services struct {
	Client *client.Client
	Signer signing.Signer
}

// signer returns the configured signer or ErrSignerRequired.
func (s Services) signer() (signing.Signer, error) {
	if s.Signer == nil {
		return nil, ErrSignerRequired
	}

	return s.Signer, nil
}

// Run initializes and executes the evmcli application.
//
// It registers all available commands, including:
//
//   - `balance`: Reads the native currency balance of an address.
//   - `receipt`: Fetches the receipt of a mined transaction.
//   - `send`:    Transfers native currency and waits for confirmation.
//   - `call`:    Executes a read-only contract method.
//   - `exec`:    Executes a state-changing contract method.
//   - `deploy`:  Deploys a contract from compiled bytecode.
func Run(ctx context.Context, services Services) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "evmcli",
		Description:           "Command-line interface for interacting with Ethereum-compatible networks.",
		Usage:                 "evmcli [command] [flags]",
		Commands: []*cli.Command{
			balanceCommand(services),
			receiptCommand(services),
			sendCommand(services),
			callCommand(services),
			executeCommand(services),
			deployCommand(services),
		},
	}

	return app.Run(ctx, os.Args)
}
