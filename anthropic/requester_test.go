package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ottawa-dropin/dropin"
	"github.com/ottawa-dropin/dropin/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string, onRequest func(r *http.Request, payload map[string]any)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if onRequest != nil {
			onRequest(r, payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRequester_Request(t *testing.T) {
	t.Parallel()

	t.Run("returns first text block", func(t *testing.T) {
		t.Parallel()

		var apiKey, model, path string
		srv := newServer(t, http.StatusOK, `{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "[{\"activity\": \"Swim\"}]"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`, func(r *http.Request, payload map[string]any) {
			apiKey = r.Header.Get("x-api-key")
			path = r.URL.Path
			model, _ = payload["model"].(string)
		})

		r := anthropic.NewRequester("sk-ant-test", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
		reply, err := r.Request(context.Background(), "extract this table")

		require.NoError(t, err)
		assert.JSONEq(t, `[{"activity": "Swim"}]`, reply)
		assert.Equal(t, "sk-ant-test", apiKey)
		assert.Equal(t, anthropic.DefaultModel, model)
		assert.Equal(t, "/v1/messages", path)
	})

	t.Run("returns error without text content", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, http.StatusOK, `{
			"id": "msg_02",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 0}
		}`, nil)

		_, err := anthropic.NewRequester("k", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0)).
			Request(context.Background(), "extract")
		require.Error(t, err)
		assert.Equal(t, dropin.EINTERNAL, dropin.ErrorCode(err))
	})

	t.Run("returns API errors", func(t *testing.T) {
		t.Parallel()

		srv := newServer(t, http.StatusUnauthorized,
			`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`, nil)

		_, err := anthropic.NewRequester("bad", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0)).
			Request(context.Background(), "extract")
		require.Error(t, err)
	})

	t.Run("rejects empty prompt", func(t *testing.T) {
		t.Parallel()

		_, err := anthropic.NewRequester("k", "").Request(context.Background(), "")
		assert.Equal(t, dropin.EINVALID, dropin.ErrorCode(err))
	})
}
