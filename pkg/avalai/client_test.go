package avalai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string, timeout time.Duration) *Client {
	return New(Config{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "gemini-2.5-flash-lite",
		Timeout: timeout,
	})
}

func TestRespondStripsQuotesAndWhitespace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gemini-2.5-flash-lite", req["model"])
		assert.NotEmpty(t, req["input"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"output_text": " \"hello\" "})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	translation, stats, err := client.Respond(context.Background(), "دوز متوپرولول")
	require.NoError(t, err)
	assert.Equal(t, "hello", translation)
	assert.Equal(t, http.StatusOK, stats.StatusCode)
	assert.Greater(t, stats.ElapsedMS(), 0.0)
}

func TestRespondMissingOutputText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"unexpected": "shape"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	_, stats, err := client.Respond(context.Background(), "x")
	require.ErrorIs(t, err, ErrMissingOutputText)
	assert.Equal(t, http.StatusOK, stats.StatusCode)
}

func TestRespondNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	_, stats, err := client.Respond(context.Background(), "x")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Contains(t, statusErr.Body, "rate limited")
	assert.Equal(t, http.StatusTooManyRequests, stats.StatusCode)
}

func TestRespondTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50*time.Millisecond)
	_, _, err := client.Respond(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestCheckConnectivityValidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"output_text": "Hi"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	status, err := client.CheckConnectivity(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Valid)
	assert.Equal(t, MsgKeyValid, status.Message)
}

func TestCheckConnectivityInvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	status, err := client.CheckConnectivity(context.Background())
	require.NoError(t, err, "a 401 is a completed check, not an error")
	assert.False(t, status.Valid)
	assert.Equal(t, MsgKeyInvalid, status.Message)
	assert.Equal(t, http.StatusUnauthorized, status.Code)
}

func TestCheckConnectivityUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	status, err := client.CheckConnectivity(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Valid)
	assert.Contains(t, status.Message, "502")
}

func TestChatExtractsFirstChoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		messages, ok := req["messages"].([]interface{})
		require.True(t, ok)
		require.Len(t, messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "gemini-2.5-flash-lite",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]string{
						"role":    "assistant",
						"content": "maximum dose of hydralazine",
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5*time.Second)
	content, err := client.Chat(context.Background(),
		"Translate all user input Persian medical text to clear, precise English. Return only English, nothing else.",
		"ماکسیمم دوز هیدرورلازین")
	require.NoError(t, err)
	assert.Equal(t, "maximum dose of hydralazine", content)
}
