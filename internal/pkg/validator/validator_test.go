package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	type endpointConfig struct {
		NodeURL  string `validate:"required,url"`
		LogLevel string `validate:"omitempty,oneof=debug info warn error"`
	}

	t.Run("passes for a valid struct", func(t *testing.T) {
		cfg := endpointConfig{NodeURL: "http://localhost:8545", LogLevel: "info"}
		assert.NoError(t, Validate(cfg))
	})

	t.Run("fails when a required field is missing", func(t *testing.T) {
		err := Validate(endpointConfig{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "NodeURL")
	})

	t.Run("fails for a value outside the allowed set", func(t *testing.T) {
		err := Validate(endpointConfig{NodeURL: "http://localhost:8545", LogLevel: "loud"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "oneof")
	})
}
