package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// HashLength is the fixed byte length of a transaction, block, or state hash.
const HashLength = 32

// ErrInvalidHash indicates that a hash could not be constructed from the
// given input (wrong length or malformed hex).
var ErrInvalidHash = errors.New("invalid hash")

// Hash is a 32-byte Keccak-256 digest identifying transactions, blocks, and logs.
type Hash [HashLength]byte

// HashFromBytes builds a Hash from a byte slice.
// It fails with ErrInvalidHash unless the slice is exactly 32 bytes long.
func HashFromBytes(b []byte) (Hash, error) {
	if len(b) != HashLength {
		return Hash{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHash, HashLength, len(b))
	}

	var h Hash
	copy(h[:], b)
	return h, nil
}

// HashFromHex parses a Hash from a hex string, with or without the "0x" prefix.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	return HashFromBytes(b)
}

// Bytes returns a copy of the raw 32-byte hash.
func (h Hash) Bytes() []byte {
	return append([]byte(nil), h[:]...)
}

// Hex returns the hex representation with "0x" prefix.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is all zeroes.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String implements fmt.Stringer.
func (h Hash) String() string {
	return h.Hex()
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

// UnmarshalJSON parses a JSON-encoded hex hash, enforcing the 32-byte length.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	parsed, err := HashFromHex(s)
	if err != nil {
		return err
	}

	*h = parsed
	return nil
}
