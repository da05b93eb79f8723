package cli

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/evmlabs/evmsdk/types"

	"github.com/urfave/cli/v3"
)

// balanceCommand returns a CLI command that reads the native currency balance
// of an address at the latest block.
//
// Usage example:
//
//	evmcli balance --address 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
func balanceCommand(services Services) *cli.Command {
	return &cli.Command{
		Name:        "balance",
		Description: "Reads the native currency balance of an address in wei.",
		Usage:       "Queries the balance at the latest block. Must provide an address.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Account address to query",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			address, err := types.AddressFromHex(c.String("address"))
			if err != nil {
				return err
			}

			balance, err := services.Client.BalanceAt(ctx, address)
			if err != nil {
				return err
			}

			fmt.Println(balance.String())
			return nil
		},
	}
}

// receiptCommand returns a CLI command that fetches the receipt of a mined
// transaction by hash.
//
// Usage example:
//
//	evmcli receipt --hash 0xabc123...
func receiptCommand(services Services) *cli.Command {
	return &cli.Command{
		Name:        "receipt",
		Description: "Fetches the receipt of a mined transaction.",
		Usage:       "Queries the transaction receipt. Must provide a transaction hash.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "hash",
				Usage:    "Transaction hash to look up",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			hash, err := types.HashFromHex(c.String("hash"))
			if err != nil {
				return err
			}

			receipt, err := services.Client.TransactionReceipt(ctx, hash)
			if err != nil {
				return err
			}

			printReceipt(receipt)
			return nil
		},
	}
}

// callCommand returns a CLI command that executes a read-only contract method
// and prints the decoded output values.
//
// Usage example:
//
//	evmcli call --contract 0xABC... --abi token.abi.json --method balanceOf --arg 0xf39F...
func callCommand(services Services) *cli.Command {
	return &cli.Command{
		Name:        "call",
		Description: "Executes a read-only contract method without creating a transaction.",
		Usage:       "Calls a view method and prints the decoded outputs.",
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
				Usage:    "Method name to call",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "arg",
				Usage: "Method argument; repeat for multiple arguments",
			},
			&cli.StringFlag{
				Name:  "block",
				Usage: "Block tag to execute against (hex number, latest, earliest, pending)",
				Value: "latest",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			instance, err := contractFromFlags(services, c)
			if err != nil {
				return err
			}

			args := coerceArgs(c.StringSlice("arg"))

			values, err := instance.CallAtBlock(ctx, c.String("block"), c.String("method"), args...)
			if err != nil {
				return err
			}

			for _, value := range values {
				fmt.Println(formatValue(value))
			}
			return nil
		},
	}
}

// printReceipt writes a human-readable receipt summary to stdout.
func printReceipt(receipt *types.Receipt) {
	status := "success"
	if !receipt.Status {
		status = "reverted"
	}

	fmt.Printf("transaction: %s\n", receipt.TxHash.Hex())
	fmt.Printf("block:       %d (%s)\n", receipt.BlockNumber, receipt.BlockHash.Hex())
	fmt.Printf("status:      %s\n", status)
	fmt.Printf("gas used:    %d\n", receipt.GasUsed)

	if receipt.ContractAddress != nil {
		fmt.Printf("contract:    %s\n", receipt.ContractAddress.Hex())
	}

	for _, event := range receipt.Logs {
		fmt.Printf("log %d: %s topics=%d data=0x%s\n",
			event.LogIndex,
			event.Address.Hex(),
			len(event.Topics),
			hex.EncodeToString(event.Data),
		)
	}
}

// formatValue renders a decoded output value for display.
func formatValue(value any) string {
	switch v := value.(type) {
	case types.Address:
		return v.Hex()
	case types.Hash:
		return v.Hex()
	case []byte:
		return "0x" + hex.EncodeToString(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
