package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zalo-hr-gateway/internal/faults"
)

func TestChat(t *testing.T) {
	t.Run("numeric channel id is passed through", func(t *testing.T) {
		var got chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			json.NewEncoder(w).Encode(map[string]string{"response": "Xin chào!"})
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)
		reply, err := client.Chat(context.Background(), "579745863508352884", "xin chào")
		require.NoError(t, err)
		assert.Equal(t, "Xin chào!", reply)
		assert.Equal(t, int64(579745863508352884), got.UserID)
		assert.Equal(t, "xin chào", got.Query)
		assert.Empty(t, got.File)
	})

	t.Run("non-numeric channel id hashes into the id space", func(t *testing.T) {
		var got chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)
		_, err := client.Chat(context.Background(), "chan-abc", "hi")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.UserID, int64(0))
		assert.Less(t, got.UserID, int64(10_000_000_000))
	})

	t.Run("non-200 maps to external service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "busy", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(server.URL, time.Second)
		_, err := client.Chat(context.Background(), "u1", "hi")
		assert.True(t, faults.IsExternalService(err))
	})
}

func TestGenerateTasks(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"response": "3 tasks created"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	summary, err := client.GenerateTasks(context.Background(), "42", "task;owner;deadline")
	require.NoError(t, err)
	assert.Equal(t, "3 tasks created", summary)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "task;owner;deadline", got.File)
	assert.Empty(t, got.Query)
}

func TestNumericUserID(t *testing.T) {
	assert.Equal(t, int64(123), numericUserID("123"))
	assert.Equal(t, numericUserID("chan-abc"), numericUserID("chan-abc"), "hashing must be stable")
	assert.NotEqual(t, numericUserID("chan-abc"), numericUserID("chan-abd"))
}
