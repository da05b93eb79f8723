package cli

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/evmlabs/evmsdk/contract"
	"github.com/evmlabs/evmsdk/types"

	"github.com/urfave/cli/v3"
)

// coerceArgs converts command-line argument strings into the Go values the
// ABI encoder expects: 20-byte hex strings become addresses, 32-byte hex
// strings become hashes, decimal numbers become big integers, the literals
// true/false become booleans, and anything else stays a string.
func coerceArgs(raw []string) []any {
	args := make([]any, len(raw))
	for i, s := range raw {
		args[i] = coerceArg(s)
	}

	return args
}

func coerceArg(s string) any {
	if strings.HasPrefix(s, "0x") {
		switch len(s) {
		case 2 + 2*types.AddressLength:
			if addr, err := types.AddressFromHex(s); err == nil {
				return addr
			}
		case 2 + 2*types.HashLength:
			if hash, err := types.HashFromHex(s); err == nil {
				return hash
			}
		}

		if data, err := hex.DecodeString(s[2:]); err == nil {
			return data
		}

		return s
	}

	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n
	}

	return s
}

// contractFromFlags builds a contract handle from the shared --contract and
// --abi flags.
func contractFromFlags(services Services, c *cli.Command) (*contract.Contract, error) {
	address, err := types.AddressFromHex(c.String("contract"))
	if err != nil {
		return nil, err
	}

	contractABI, err := readABI(c.String("abi"))
	if err != nil {
		return nil, err
	}

	return contract.New(services.Client, address, contractABI), nil
}

// readBytecode loads hex-encoded deployment bytecode from disk, tolerating a
// 0x prefix and surrounding whitespace.
func readBytecode(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bytecode file: %w", err)
	}

	encoded := strings.TrimSpace(string(raw))
	encoded = strings.TrimPrefix(encoded, "0x")

	bytecode, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding bytecode: %w", err)
	}

	return bytecode, nil
}
