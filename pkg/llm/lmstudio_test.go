package llm

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLMStudioGenerate(t *testing.T) {
	t.Run("sends a chat completion request and returns the content", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &captured))

			w.Write([]byte(`{"choices": [{"message": {"content": "analysis text"}}]}`))
		}))
		defer server.Close()

		client := NewLMStudio(server.URL+"/v1/", "test-model", 512, 0.3, 0)
		response, err := client.Generate("analyze this")
		require.NoError(t, err)
		assert.Equal(t, "analysis text", response)

		assert.Equal(t, "test-model", captured["model"])
		assert.Equal(t, float64(512), captured["max_tokens"])
		assert.Equal(t, 0.3, captured["temperature"])
		assert.Equal(t, false, captured["stream"])

		messages := captured["messages"].([]any)
		require.Len(t, messages, 2)
		system := messages[0].(map[string]any)
		assert.Equal(t, "system", system["role"])
		user := messages[1].(map[string]any)
		assert.Equal(t, "analyze this", user["content"])
	})

	t.Run("model field is omitted when unset", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &captured)
			w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
		}))
		defer server.Close()

		client := NewLMStudio(server.URL, "", 100, 0.7, time.Minute)
		_, err := client.Generate("p")
		require.NoError(t, err)
		assert.NotContains(t, captured, "model")
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewLMStudio(server.URL, "m", 100, 0.7, time.Minute)
		_, err := client.Generate("p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("error payload with 200 status is still an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": {"message": "context length exceeded"}}`))
		}))
		defer server.Close()

		client := NewLMStudio(server.URL, "m", 100, 0.7, time.Minute)
		_, err := client.Generate("p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "context length exceeded")
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		client := NewLMStudio(server.URL, "m", 100, 0.7, time.Minute)
		_, err := client.Generate("p")
		assert.Error(t, err)
	})

	t.Run("unreachable server names the URL", func(t *testing.T) {
		client := NewLMStudio("http://127.0.0.1:1", "m", 100, 0.7, time.Second)
		_, err := client.Generate("p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http://127.0.0.1:1")
	})
}

func TestLMStudioModel(t *testing.T) {
	client := NewLMStudio("http://localhost:1234/v1", "qwen2.5", 100, 0.7, 0)
	assert.Equal(t, "qwen2.5", client.Model())
}
