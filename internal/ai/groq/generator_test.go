package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/models"
)

var defaultOpts = models.GenerationOptions{Temperature: 0.7, MaxOutputTokens: 4096}

func newTestGenerator(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Generator, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	gen, err := NewGenerator("test-key", config.ModelLlama33Versatile,
		append([]Option{WithBaseURL(server.URL + "/openai/v1")}, opts...)...)
	require.NoError(t, err)
	return gen, &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewGenerator(t *testing.T) {
	t.Run("requires an API key", func(t *testing.T) {
		_, err := NewGenerator("", config.ModelLlama33Versatile)

		assert.ErrorIs(t, err, errors.ErrMissingCredential)
	})

	t.Run("defaults the model", func(t *testing.T) {
		gen, err := NewGenerator("key", "")

		require.NoError(t, err)
		assert.Equal(t, "llama-3.3-70b-versatile", gen.GetModelName())
		assert.Equal(t, "groq", gen.GetProviderName())
		assert.Equal(t, 32768, gen.MaxOutputTokens())
	})

	t.Run("leaves the caller's client untouched", func(t *testing.T) {
		client := &http.Client{Timeout: time.Second}

		_, err := NewGenerator("key", "", WithHTTPClient(client))

		require.NoError(t, err)
		assert.Nil(t, client.Transport)
	})
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("sends the chat request and extracts text", func(t *testing.T) {
		// Arrange
		gen, calls := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
			assert.Equal(t, float64(4096), body["max_tokens"])
			assert.InDelta(t, 0.7, body["temperature"], 1e-6)
			messages := body["messages"].([]interface{})
			if !assert.Len(t, messages, 1) {
				return
			}
			msg := messages[0].(map[string]interface{})
			assert.Equal(t, "user", msg["role"])
			assert.Equal(t, "write a readme", msg["content"])

			writeJSON(w, http.StatusOK, `{
				"id": "chatcmpl-1", "object": "chat.completion", "model": "llama-3.3-70b-versatile",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "  # demo\n"}, "finish_reason": "stop"}],
				"usage": {"prompt_tokens": 100, "completion_tokens": 900, "total_tokens": 1000}
			}`)
		})

		// Act
		out, err := gen.Generate(context.Background(), "write a readme", defaultOpts)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "# demo", out.Text)
		assert.Equal(t, &models.TokenUsage{InputTokens: 100, OutputTokens: 900, TotalTokens: 1000}, out.Usage)
		assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	})

	t.Run("zero temperature is still sent", func(t *testing.T) {
		gen, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(0), body["temperature"])
			writeJSON(w, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
		})

		_, err := gen.Generate(context.Background(), "prompt", models.GenerationOptions{MaxOutputTokens: 10})

		require.NoError(t, err)
	})

	cases := []struct {
		name   string
		status int
		body   string
		want   *errors.AppError
	}{
		{"unauthorized", http.StatusUnauthorized,
			`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`, errors.ErrAuthentication},
		{"forbidden", http.StatusForbidden, `{"error":{"message":"forbidden"}}`, errors.ErrAuthentication},
		{"rate limit", http.StatusTooManyRequests,
			`{"error":{"message":"Rate limit reached","type":"tokens","code":"rate_limit_exceeded"}}`, errors.ErrRateLimit},
		{"server error with plain body", http.StatusBadGateway, `bad gateway`, errors.ErrTransientServer},
		{"server error with json body", http.StatusInternalServerError, `{"error":{"message":"internal"}}`, errors.ErrTransientServer},
		{"other status", http.StatusNotFound, `{"error":{"message":"model not found"}}`, errors.ErrUnknownProvider},
		{"redirect status with a success body", http.StatusMultipleChoices,
			`{"choices":[{"message":{"role":"assistant","content":"# demo"}}]}`, errors.ErrUnknownProvider},
		{"not modified status", http.StatusNotModified, ``, errors.ErrUnknownProvider},
		{"empty choices", http.StatusOK, `{"choices":[]}`, errors.ErrMalformedResponse},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"   "}}]}`, errors.ErrMalformedResponse},
		{"unparseable body", http.StatusOK, `<html>`, errors.ErrMalformedResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen, calls := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			out, err := gen.Generate(context.Background(), "prompt", defaultOpts)

			assert.Nil(t, out)
			require.ErrorIs(t, err, tc.want)
			appErr, ok := err.(*errors.AppError)
			require.True(t, ok)
			assert.Equal(t, tc.status, appErr.Context["status"])
			assert.Equal(t, "groq", appErr.Context["provider"])
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "adapters never retry")
		})
	}

	t.Run("timeout is transient", func(t *testing.T) {
		release := make(chan struct{})
		gen, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			<-release
		}, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
		defer close(release)

		_, err := gen.Generate(context.Background(), "prompt", defaultOpts)

		assert.ErrorIs(t, err, errors.ErrTransientServer)
	})

	t.Run("invalid options make no request", func(t *testing.T) {
		gen, calls := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {})

		_, err := gen.Generate(context.Background(), "", defaultOpts)

		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		assert.Zero(t, atomic.LoadInt32(calls))
	})
}
