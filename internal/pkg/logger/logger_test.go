package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// resetLogger resets the global logger state for testing.
func resetLogger() {
	logger = zap.NewNop().Sugar()
	initOnce = sync.Once{}
}

func TestInit(t *testing.T) {
	t.Run("initializes with the default level", func(t *testing.T) {
		resetLogger()
		require.NoError(t, Init())
		assert.NotNil(t, logger)
	})

	t.Run("accepts every standard level", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			resetLogger()
			assert.NoError(t, Init(WithLevel(level)), "level %q should be accepted", level)
		}
	})

	t.Run("rejects an unknown level", func(t *testing.T) {
		resetLogger()
		assert.Error(t, Init(WithLevel("loud")))
	})

	t.Run("initializes only once", func(t *testing.T) {
		resetLogger()

		require.NoError(t, Init(WithLevel("debug")))
		first := logger

		require.NoError(t, Init(WithLevel("error")))
		assert.Same(t, first, logger)
	})
}

func TestLogBeforeInit(t *testing.T) {
	t.Run("logging without Init does not panic", func(t *testing.T) {
		resetLogger()
		assert.NotPanics(t, func() {
			Info(t.Context(), "message before init", "key", "value")
		})
	})
}
