package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateReply(texts ...string) map[string]interface{} {
	parts := make([]map[string]string, len(texts))
	for i, t := range texts {
		parts[i] = map[string]string{"text": t}
	}
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{"parts": parts}},
		},
	}
}

func TestVisionClient_Generate(t *testing.T) {
	t.Run("successful generation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Contains(t, r.URL.Path, "models/test-model:generateContent")
			assert.Equal(t, "secret", r.URL.Query().Get("key"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req map[string]interface{}
			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)

			cfg := req["generationConfig"].(map[string]interface{})
			assert.Equal(t, 0.4, cfg["temperature"])
			assert.Equal(t, float64(32), cfg["topK"])
			assert.Equal(t, 1.0, cfg["topP"])
			assert.Equal(t, float64(2048), cfg["maxOutputTokens"])

			contents := req["contents"].([]interface{})
			parts := contents[0].(map[string]interface{})["parts"].([]interface{})
			require.Len(t, parts, 2)
			inline := parts[1].(map[string]interface{})["inline_data"].(map[string]interface{})
			assert.Equal(t, "image/jpeg", inline["mime_type"])
			assert.Equal(t, "aW1hZ2U=", inline["data"])

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(generateReply(`{"species":"Cobra"}`))
		}))
		defer server.Close()

		client := NewVisionClient(server.URL, "test-model", "secret", 5*time.Second)
		text, err := client.Generate(context.Background(), "identify this snake", "aW1hZ2U=", "image/jpeg")

		require.NoError(t, err)
		assert.Equal(t, `{"species":"Cobra"}`, text)
	})

	t.Run("concatenates multiple parts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(generateReply(`{"species":`, `"Cobra"}`))
		}))
		defer server.Close()

		client := NewVisionClient(server.URL, "m", "k", 5*time.Second)
		text, err := client.Generate(context.Background(), "p", "d", "image/jpeg")

		require.NoError(t, err)
		assert.Equal(t, `{"species":"Cobra"}`, text)
	})

	t.Run("status mapped to model error reason", func(t *testing.T) {
		tests := []struct {
			status int
			reason string
		}{
			{http.StatusBadRequest, ModelErrorBadRequest},
			{http.StatusUnauthorized, ModelErrorUnauthorized},
			{http.StatusForbidden, ModelErrorUnauthorized},
			{http.StatusTooManyRequests, ModelErrorRateLimited},
			{http.StatusServiceUnavailable, ModelErrorUpstream},
		}

		for _, tt := range tests {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))

			client := NewVisionClient(server.URL, "m", "k", 5*time.Second)
			_, err := client.Generate(context.Background(), "p", "d", "image/jpeg")
			server.Close()

			var modelErr *ModelError
			require.ErrorAs(t, err, &modelErr, "status %d", tt.status)
			assert.Equal(t, tt.status, modelErr.StatusCode)
			assert.Equal(t, tt.reason, modelErr.Reason)
			assert.Contains(t, modelErr.Body, "nope")
		}
	})

	t.Run("rate limited is distinguishable", func(t *testing.T) {
		err := &ModelError{StatusCode: http.StatusTooManyRequests, Reason: ModelErrorRateLimited}
		assert.True(t, err.IsRateLimited())
	})

	t.Run("no candidates is empty output", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		client := NewVisionClient(server.URL, "m", "k", 5*time.Second)
		_, err := client.Generate(context.Background(), "p", "d", "image/jpeg")

		assert.ErrorIs(t, err, ErrEmptyModelOutput)
	})

	t.Run("candidates with empty text is empty output", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(generateReply(""))
		}))
		defer server.Close()

		client := NewVisionClient(server.URL, "m", "k", 5*time.Second)
		_, err := client.Generate(context.Background(), "p", "d", "image/jpeg")

		assert.ErrorIs(t, err, ErrEmptyModelOutput)
	})
}

func TestVisionClient_HasCredentials(t *testing.T) {
	assert.False(t, NewVisionClient("http://x", "m", "", time.Second).HasCredentials())
	assert.True(t, NewVisionClient("http://x", "m", "key", time.Second).HasCredentials())
}
