// Package types provides the value types shared across the SDK: fixed-width
// addresses and hashes, the dual-format JSON-RPC numeric Quantity, and the
// transaction/receipt/event records exchanged with the node.
package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gethcommon "github.com/ethereum/go-ethereum/common"
)

// AddressLength is the fixed byte length of an account or contract address.
const AddressLength = 20

// ErrInvalidAddress indicates that an address could not be constructed from
// the given input (wrong length or malformed hex).
var ErrInvalidAddress = errors.New("invalid address")

// Address is a 20-byte account or contract address.
// It is immutable after construction; comparison is by raw bytes.
type Address [AddressLength]byte

// AddressFromBytes builds an Address from a byte slice.
// It fails with ErrInvalidAddress unless the slice is exactly 20 bytes long.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLength, len(b))
	}

	var a Address
	copy(a[:], b)
	return a, nil
}

// AddressFromHex parses an Address from a hex string, with or without the
// "0x" prefix. The decoded payload must be exactly 20 bytes.
func AddressFromHex(s string) (Address, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	return AddressFromBytes(b)
}

// ZeroAddress returns the all-zero address
// (0x0000000000000000000000000000000000000000).
func ZeroAddress() Address {
	return Address{}
}

// Bytes returns a copy of the raw 20-byte address.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// Hex returns the EIP-55 checksummed hex representation with "0x" prefix.
func (a Address) Hex() string {
	return gethcommon.Address(a).Hex()
}

// Equals reports whether both addresses contain identical bytes.
func (a Address) Equals(other Address) bool {
	return a == other
}

// IsZero reports whether the address is the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// MarshalJSON encodes the address as a checksummed hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

// UnmarshalJSON parses a JSON-encoded hex address, enforcing the 20-byte length.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	parsed, err := AddressFromHex(s)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}
