package mastodon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	publishDomain "github.com/reshetovitsme/autopost/internal/modules/publish/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Settings{InstanceURL: srv.URL, AccessToken: "token"}, nil)
	require.NoError(t, err)
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Settings{InstanceURL: "https://mastodon.example"}, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingMastodon))
}

func TestPost(t *testing.T) {
	var form map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		require.True(t, strings.HasSuffix(r.URL.Path, "/statuses"))
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		json.NewEncoder(w).Encode(map[string]any{
			"id":  "101",
			"url": "https://mastodon.example/@bot/101",
		})
	})

	status, err := client.Post(context.Background(), publishDomain.PostRequest{
		Text:        "Widget X launches today",
		Visibility:  publishDomain.VisibilityUnlisted,
		SpoilerText: "launch",
	})
	require.NoError(t, err)

	assert.Equal(t, "101", status.ID)
	assert.Equal(t, "https://mastodon.example/@bot/101", status.URL)
	assert.Equal(t, []string{"Widget X launches today"}, form["status"])
	assert.Equal(t, []string{"unlisted"}, form["visibility"])
	assert.Equal(t, []string{"launch"}, form["spoiler_text"])
}

func TestPostWithoutImageWhenUploadFails(t *testing.T) {
	var posted bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/media") {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			return
		}
		require.NoError(t, r.ParseForm())
		assert.Empty(t, r.PostForm["media_ids[]"])
		posted = true
		json.NewEncoder(w).Encode(map[string]any{"id": "102"})
	})

	status, err := client.Post(context.Background(), publishDomain.PostRequest{
		Text:  "Widget X",
		Image: &contentDomain.Image{Data: []byte{0x89, 'P', 'N', 'G'}, MediaType: "image/png"},
	})
	require.NoError(t, err)

	assert.True(t, posted)
	assert.Equal(t, "102", status.ID)
}

func TestReply(t *testing.T) {
	var form map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		json.NewEncoder(w).Encode(map[string]any{"id": "201"})
	})

	status, err := client.Reply(context.Background(), "77", "Nice one")
	require.NoError(t, err)

	assert.Equal(t, "201", status.ID)
	assert.Equal(t, []string{"77"}, form["in_reply_to_id"])
	assert.Equal(t, []string{"Nice one"}, form["status"])
}

func TestPostErrors(t *testing.T) {
	tests := map[string]struct {
		code int
		want error
	}{
		"unauthorized": {code: http.StatusUnauthorized, want: apperrors.ErrAuthFailure},
		"forbidden":    {code: http.StatusForbidden, want: apperrors.ErrAuthFailure},
		"rate limited": {code: http.StatusTooManyRequests, want: apperrors.ErrRateLimited},
		"not found":    {code: http.StatusNotFound, want: apperrors.ErrNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(`{"error":"nope"}`))
			})

			_, err := client.Reply(context.Background(), "1", "hi")

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/search"))
		assert.Equal(t, "widget", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(map[string]any{
			"accounts": []any{},
			"hashtags": []any{},
			"statuses": []map[string]any{
				{"id": "1", "url": "https://m.example/1", "content": "<p>old &amp; slow</p>", "created_at": "2025-09-01T10:00:00Z", "account": map[string]any{"acct": "ann"}},
				{"id": "2", "url": "https://m.example/2", "content": "<p>new <b>widget</b></p><p>second</p>", "created_at": "2025-09-03T10:00:00Z", "account": map[string]any{"acct": "bob"}},
				{"id": "1", "url": "https://m.example/1", "content": "<p>old &amp; slow</p>", "created_at": "2025-09-01T10:00:00Z", "account": map[string]any{"acct": "ann"}},
				{"id": "3", "url": "https://m.example/3", "content": "middle", "created_at": "2025-09-02T10:00:00Z", "account": map[string]any{"acct": "cy"}},
			},
		})
	})

	posts, err := client.Search(context.Background(), "widget", 2)
	require.NoError(t, err)

	require.Len(t, posts, 2)
	assert.Equal(t, "2", posts[0].ID)
	assert.Equal(t, "bob", posts[0].Author)
	assert.Equal(t, "new widget\n\nsecond", posts[0].Text)
	assert.Equal(t, "3", posts[1].ID)
}

func TestSearchUnescapesEntities(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"statuses": []map[string]any{
				{"id": "1", "content": "<p>old &amp; slow</p>", "created_at": "2025-09-01T10:00:00Z", "account": map[string]any{"acct": "ann"}},
			},
		})
	})

	posts, err := client.Search(context.Background(), "widget", 10)
	require.NoError(t, err)

	require.Len(t, posts, 1)
	assert.Equal(t, "old & slow", posts[0].Text)
}

func TestVerifyCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/accounts/verify_credentials"))
		json.NewEncoder(w).Encode(map[string]any{"id": "9", "acct": "autopost"})
	})

	acct, err := client.VerifyCredentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "autopost", acct)
}
