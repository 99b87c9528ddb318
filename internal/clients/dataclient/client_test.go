package dataclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polycopy/trade-monitor/internal/config"
)

const testAddress = "0x56687bf447db6ffa42ffe2204a05edaa20f55839"

func TestClient_GetPositions(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/positions", r.URL.Path)
			assert.Equal(t, testAddress, r.URL.Query().Get("user"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"asset":"X","conditionId":"C1","currentValue":10,"percentPnl":0.2},
				{"asset":"Y","conditionId":"C2","currentValue":5,"percentPnl":-0.1}
			]`))
		}))
		defer srv.Close()

		client := NewClient(&config.DataAPIConfig{URL: srv.URL})
		positions, err := client.GetPositions(t.Context(), testAddress)
		require.NoError(t, err)
		require.Len(t, positions, 2)
		assert.Equal(t, "X", positions[0].Asset)
		assert.Equal(t, "C1", positions[0].ConditionID)
		assert.Equal(t, 10.0, positions[0].CurrentValue)
		assert.Equal(t, 0.2, positions[0].PercentPnl)
	})

	t.Run("empty listing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		client := NewClient(&config.DataAPIConfig{URL: srv.URL})
		positions, err := client.GetPositions(t.Context(), testAddress)
		require.NoError(t, err)
		assert.Empty(t, positions)
	})

	t.Run("non-array payload - should error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"nope"}`))
		}))
		defer srv.Close()

		client := NewClient(&config.DataAPIConfig{URL: srv.URL})
		_, err := client.GetPositions(t.Context(), testAddress)
		require.Error(t, err)
	})

	t.Run("client error status is not retried", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		client := NewClient(&config.DataAPIConfig{URL: srv.URL})
		_, err := client.GetPositions(t.Context(), testAddress)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("server error is retried until success", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`[{"asset":"X","conditionId":"C1"}]`))
		}))
		defer srv.Close()

		client := NewClient(&config.DataAPIConfig{URL: srv.URL})
		positions, err := client.GetPositions(t.Context(), testAddress)
		require.NoError(t, err)
		require.Len(t, positions, 1)
		assert.Equal(t, 3, calls)
	})

	t.Run("empty address", func(t *testing.T) {
		client := NewClient(&config.DataAPIConfig{URL: "http://unused"})
		_, err := client.GetPositions(t.Context(), "")
		require.Error(t, err)
	})
}
