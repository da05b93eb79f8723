package cli

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/evmlabs/evmsdk/abi"
	"github.com/evmlabs/evmsdk/types"

	"github.com/urfave/cli/v3"
)

// sendCommand returns a CLI command that transfers native currency and waits
// for the transaction to mine.
//
// Usage example:
//
//	evmcli send --to 0xABC... --amount 1000000000000000000
func sendCommand(services Services) *cli.Command {
	return &cli.Command{
		Name:        "send",
		Description: "Transfers native currency and waits for confirmation.",
		Usage:       "Sends the given amount in wei to the recipient. Requires a configured signer.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Usage:    "Recipient address",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "Amount to transfer in wei (decimal)",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			signer, err := services.signer()
			if err != nil {
				return err
			}

			to, err := types.AddressFromHex(c.String("to"))
			if err != nil {
				return err
			}

			amount, ok := new(big.Int).SetString(c.String("amount"), 10)
			if !ok {
				return fmt.Errorf("invalid amount %q", c.String("amount"))
			}

			tx := &types.Transaction{To: &to, Value: amount}

			receipt, err := services.Client.SendTransaction(ctx, signer, tx)
			if err != nil {
				return err
			}

			printReceipt(receipt)
			return nil
		},
	}
}

// executeCommand returns a CLI command that executes a state-changing
// contract method through the transaction pipeline.
//
// Usage example:
//
//	evmcli exec --contract 0xABC... --abi token.abi.json --method transfer --arg 0xDEF... --arg 100
func executeCommand(services Services) *cli.Command {
	return &cli.Command{
		Name:        "exec",
		Description: "Executes a state-changing contract method and waits for confirmation.",
		Usage:       "Submits a method invocation through the pipeline. Requires a configured signer.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "contract",
				Usage:    "Address of the deployed contract",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "abi",
				Usage:    "Path to the contract's JSON interface description",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "method",
				Usage:    "Method name to execute",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "arg",
				Usage: "Method argument; repeat for multiple arguments",
			},
			&cli.StringFlag{
				Name:  "value",
				Usage: "Native currency amount in wei to attach (decimal)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			signer, err := services.signer()
			if err != nil {
				return err
			}

			instance, err := contractFromFlags(services, c)
			if err != nil {
				return err
			}

			args := coerceArgs(c.StringSlice("arg"))

			var value *big.Int
			if raw := c.String("value"); raw != "" {
				parsed, ok := new(big.Int).SetString(raw, 10)
				if !ok {
					return fmt.Errorf("invalid value %q", raw)
				}
				value = parsed
			}

			receipt, err := instance.ExecuteWithValue(ctx, signer, value, c.String("method"), args...)
			if err != nil {
				return err
			}

			printReceipt(receipt)
			return nil
		},
	}
}

// deployCommand returns a CLI command that deploys a contract from compiled
// bytecode and prints the created address.
//
// Usage example:
//
//	evmcli deploy --bytecode token.bin --abi token.abi.json --arg "My Token"
func deployCommand(services Services) *cli.Command {
	return &cli.Command{
		Name:        "deploy",
		Description: "Deploys a contract from compiled bytecode and waits for confirmation.",
		Usage:       "Submits a contract creation through the pipeline. Requires a configured signer.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "bytecode",
				Usage:    "Path to the hex-encoded deployment bytecode",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "abi",
				Usage: "Path to the contract's JSON interface description (required for constructor arguments)",
			},
			&cli.StringSliceFlag{
				Name:  "arg",
				Usage: "Constructor argument; repeat for multiple arguments",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			signer, err := services.signer()
			if err != nil {
				return err
			}

			bytecode, err := readBytecode(c.String("bytecode"))
			if err != nil {
				return err
			}

			var contractABI *abi.ABI
			if path := c.String("abi"); path != "" {
				contractABI, err = readABI(path)
				if err != nil {
					return err
				}
			}

			args := coerceArgs(c.StringSlice("arg"))

			address, receipt, err := services.Client.DeployContract(ctx, signer, bytecode, contractABI, args...)
			if err != nil {
				return err
			}

			fmt.Printf("deployed at: %s\n", address.Hex())
			printReceipt(receipt)
			return nil
		},
	}
}

// readABI loads and parses a contract interface description from disk.
func readABI(path string) (*abi.ABI, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ABI file: %w", err)
	}

	return abi.Parse(string(raw))
}
