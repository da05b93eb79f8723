package jsonrpc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Err(t *testing.T) {
	t.Run("returns nil when a result is present", func(t *testing.T) {
		resp := response{JsonRPC: "2.0", Result: json.RawMessage(`"0x1"`)}
		assert.NoError(t, resp.Err())
	})

	t.Run("a JSON null result is still a result", func(t *testing.T) {
		resp := response{JsonRPC: "2.0", Result: json.RawMessage(`null`)}
		assert.NoError(t, resp.Err())
	})

	t.Run("wraps the remote error envelope", func(t *testing.T) {
		resp := response{
			JsonRPC: "2.0",
			Error: &struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}{
				Code:    -32601,
				Message: "method not found",
			},
		}

		err := resp.Err()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRPC)
		assert.Contains(t, err.Error(), "[-32601]")
		assert.Contains(t, err.Error(), "method not found")
	})

	t.Run("neither result nor error is a protocol error", func(t *testing.T) {
		resp := response{JsonRPC: "2.0"}
		assert.ErrorIs(t, resp.Err(), ErrMalformedResponse)
	})
}

func TestClient_Call(t *testing.T) {
	t.Run("returns the raw result on success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "2.0", req["jsonrpc"])
			assert.Equal(t, "eth_chainId", req["method"])
			assert.NotEmpty(t, req["id"])

			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      req["id"],
				"result":  "0x4c7",
			})
		}))
		defer server.Close()

		c := NewClient(server.URL)

		result, err := c.Call(t.Context(), "eth_chainId")
		require.NoError(t, err)
		assert.JSONEq(t, `"0x4c7"`, string(result))
	})

	t.Run("params are sent as a positional list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Params []any `json:"params"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []any{"0xabc", "latest"}, req.Params)

			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": "1", "result": "0x0"})
		}))
		defer server.Close()

		c := NewClient(server.URL)

		_, err := c.Call(t.Context(), "eth_getBalance", "0xabc", "latest")
		require.NoError(t, err)
	})

	t.Run("no params encode as an empty list, not null", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.JSONEq(t, `[]`, string(req["params"]))

			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": "1", "result": "0x0"})
		}))
		defer server.Close()

		c := NewClient(server.URL)

		_, err := c.Call(t.Context(), "eth_blockNumber")
		require.NoError(t, err)
	})

	t.Run("surfaces the remote error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      "1",
				"error":   map[string]any{"code": -32000, "message": "insufficient funds"},
			})
		}))
		defer server.Close()

		c := NewClient(server.URL)

		result, err := c.Call(t.Context(), "eth_sendRawTransaction", "0xdead")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrRPC)
		assert.Contains(t, err.Error(), "insufficient funds")
	})

	t.Run("rejects envelopes with neither result nor error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": "1"})
		}))
		defer server.Close()

		c := NewClient(server.URL)

		_, err := c.Call(t.Context(), "eth_chainId")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("fails on a non-JSON body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not json"))
		}))
		defer server.Close()

		c := NewClient(server.URL)

		_, err := c.Call(t.Context(), "eth_chainId")
		require.Error(t, err)
	})

	t.Run("fails when the server is unreachable", func(t *testing.T) {
		server := httptest.NewServer(nil)
		server.Close()

		c := NewClient(server.URL,
			WithTimeout(1*time.Second),
			WithRetryMax(0),
		)

		_, err := c.Call(t.Context(), "eth_chainId")
		require.Error(t, err)
	})
}
