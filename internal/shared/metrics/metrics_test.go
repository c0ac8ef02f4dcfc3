package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := New("", "autopost")

	r.DraftGenerated("mastodon", "platform")
	r.DraftGenerated("mastodon", "platform")
	r.Decision("accept")
	r.Regenerated("twitter", "limit")
	r.Published("mastodon", "published")
	r.ObserveRun("post", "success", 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.draftsGenerated.WithLabelValues("mastodon", "platform")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.decisions.WithLabelValues("accept")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.regenerations.WithLabelValues("twitter", "limit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.published.WithLabelValues("mastodon", "published")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.runDuration))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.DraftGenerated("mastodon", "platform")
		r.Decision("accept")
		r.Regenerated("mastodon", "human")
		r.Published("mastodon", "failed")
		r.ObserveRun("post", "error", time.Second)
	})
	assert.NoError(t, r.Push(context.Background()))
	assert.Nil(t, r.Registry())
}

func TestPush(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method, path = req.Method, req.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New(srv.URL, "autopost")
	r.Decision("accept")

	require.NoError(t, r.Push(context.Background()))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/autopost", path)
}
