package cli

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmlabs/evmsdk/types"
)

func TestCoerceArg(t *testing.T) {
	t.Run("a 20-byte hex string becomes an address", func(t *testing.T) {
		got := coerceArg("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

		addr, ok := got.(types.Address)
		require.True(t, ok)
		assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", addr.Hex())
	})

	t.Run("a 32-byte hex string becomes a hash", func(t *testing.T) {
		got := coerceArg("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

		_, ok := got.(types.Hash)
		assert.True(t, ok)
	})

	t.Run("other hex strings become byte slices", func(t *testing.T) {
		got := coerceArg("0xcafe")
		assert.Equal(t, []byte{0xca, 0xfe}, got)
	})

	t.Run("decimal numbers become big integers", func(t *testing.T) {
		got := coerceArg("1000000000000000000")

		n, ok := got.(*big.Int)
		require.True(t, ok)
		assert.Equal(t, "1000000000000000000", n.String())
	})

	t.Run("boolean literals become booleans", func(t *testing.T) {
		assert.Equal(t, true, coerceArg("true"))
		assert.Equal(t, false, coerceArg("false"))
	})

	t.Run("everything else stays a string", func(t *testing.T) {
		assert.Equal(t, "My Token", coerceArg("My Token"))
	})
}

func TestCoerceArgs(t *testing.T) {
	got := coerceArgs([]string{"42", "true", "My Token"})

	require.Len(t, got, 3)
	assert.Equal(t, big.NewInt(42), got[0])
	assert.Equal(t, true, got[1])
	assert.Equal(t, "My Token", got[2])
}

func TestReadBytecode(t *testing.T) {
	writeFile := func(t *testing.T, content string) string {
		t.Helper()

		path := filepath.Join(t.TempDir(), "contract.bin")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("decodes plain hex", func(t *testing.T) {
		bytecode, err := readBytecode(writeFile(t, "60806040"))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40}, bytecode)
	})

	t.Run("tolerates a 0x prefix and trailing newline", func(t *testing.T) {
		bytecode, err := readBytecode(writeFile(t, "0x60806040\n"))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40}, bytecode)
	})

	t.Run("rejects malformed hex", func(t *testing.T) {
		_, err := readBytecode(writeFile(t, "not-bytecode"))
		assert.Error(t, err)
	})

	t.Run("fails for a missing file", func(t *testing.T) {
		_, err := readBytecode(filepath.Join(t.TempDir(), "absent.bin"))
		assert.Error(t, err)
	})
}

func TestServices_Signer(t *testing.T) {
	t.Run("fails without a signer", func(t *testing.T) {
		_, err := Services{}.signer()
		assert.ErrorIs(t, err, ErrSignerRequired)
	})
}
