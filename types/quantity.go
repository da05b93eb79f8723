package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidQuantity indicates that a numeric wire value could not be parsed
// as either a 0x-prefixed hex string or a native JSON number.
var ErrInvalidQuantity = errors.New("invalid quantity")

// Quantity is a numeric value as it appears on the JSON-RPC wire, normalized
// to a 0x-prefixed hex string (e.g., "0x1a"). Nodes are inconsistent about
// whether numeric fields arrive as hex strings or native numbers; Quantity
// accepts both on unmarshal and always marshals as hex.
type Quantity string

// QuantityFromBig returns the Quantity encoding of a big integer.
// A nil value encodes as zero.
func QuantityFromBig(v *big.Int) Quantity {
	if v == nil {
		return Quantity("0x0")
	}
	return Quantity(fmt.Sprintf("0x%x", v))
}

// QuantityFromUint64 returns the Quantity encoding of an unsigned integer.
func QuantityFromUint64(v uint64) Quantity {
	return Quantity(fmt.Sprintf("0x%x", v))
}

// QuantityFromHex validates the input string and returns a Quantity if it is
// a well-formed 0x-prefixed hex number.
func QuantityFromHex(s string) (Quantity, error) {
	if err := validateQuantityHex(s); err != nil {
		return "", err
	}
	return Quantity(s), nil
}

// validateQuantityHex checks whether a string is a valid hexadecimal number
// starting with "0x" or "0X".
func validateQuantityHex(s string) error {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return fmt.Errorf("%w: must start with 0x", ErrInvalidQuantity)
	}

	if _, ok := new(big.Int).SetString(s[2:], 16); !ok {
		return fmt.Errorf("%w: %q is not a hexadecimal number", ErrInvalidQuantity, s)
	}

	return nil
}

// Big returns the decoded value as a big integer.
// An empty or invalid Quantity decodes as zero.
func (q Quantity) Big() *big.Int {
	if len(q) < 3 {
		return new(big.Int)
	}

	v, ok := new(big.Int).SetString(string(q)[2:], 16)
	if !ok {
		return new(big.Int)
	}
	return v
}

// Uint64 returns the decoded value truncated to uint64.
func (q Quantity) Uint64() uint64 {
	return q.Big().Uint64()
}

// MarshalJSON encodes the Quantity as a hex JSON string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if q == "" {
		return json.Marshal("0x0")
	}
	return json.Marshal(string(q))
}

// UnmarshalJSON parses either a 0x-prefixed hex JSON string or a native JSON
// number into a normalized Quantity.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
		}

		if err := validateQuantityHex(s); err != nil {
			return err
		}

		*q = Quantity(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
	}

	v, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidQuantity, n.String())
	}

	*q = QuantityFromBig(v)
	return nil
}
