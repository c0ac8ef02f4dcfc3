package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 0,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func TestOpenAICompleterComplete(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse(`{"replies":[]}`)))
	}))
	defer srv.Close()

	completer, err := NewOpenAICompleter(Settings{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-4o-mini", Temperature: 0.7})
	require.NoError(t, err)

	got, err := completer.Complete(context.Background(), CompletionRequest{
		System: "system",
		User:   "user",
		Schema: &Schema{Name: "replies", Definition: map[string]any{"type": "object"}},
	})
	require.NoError(t, err)

	assert.Equal(t, `{"replies":[]}`, got)
	assert.Equal(t, "gpt-4o-mini", received["model"])
	assert.Len(t, received["messages"], 2)
	format, ok := received["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAICompleterErrors(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
		want   error
	}{
		"unauthorized": {status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`, want: apperrors.ErrAuthFailure},
		"rate limited": {status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down"}}`, want: apperrors.ErrRateLimited},
		"empty answer": {status: http.StatusOK, body: chatResponse("   "), want: apperrors.ErrMalformedResponse},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			completer, err := NewOpenAICompleter(Settings{APIKey: "k", BaseURL: srv.URL, Model: "m"})
			require.NoError(t, err)

			_, err = completer.Complete(context.Background(), CompletionRequest{User: "hi"})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestNewOpenAICompleterRequiresKey(t *testing.T) {
	_, err := NewOpenAICompleter(Settings{Model: "m"})

	assert.ErrorIs(t, err, apperrors.ErrMissingLLMKey)
}

func TestOpenAIImageGenerator(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "b64_json", req["response_format"])
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"created": 0,
			"data":    []map[string]any{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
	}))
	defer srv.Close()

	gen, err := NewOpenAIImageGenerator(Settings{APIKey: "k", BaseURL: srv.URL, ImageModel: "dall-e-3", ImageSize: "1024x1024"})
	require.NoError(t, err)

	img, err := gen.Generate(context.Background(), "a widget")
	require.NoError(t, err)

	assert.Equal(t, png, img.Data)
	assert.Equal(t, "image/png", img.MediaType)
	assert.Equal(t, "a widget", img.Prompt)
}
