package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	"github.com/reshetovitsme/autopost/internal/modules/feed/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportWritesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "drafts.xml")
	svc := New(domain.FeedConfig{Path: path, Title: "autopost drafts", Link: "https://widgets.example/drafts"}, nil)
	tick := time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}

	first, err := svc.Export(context.Background(), contentDomain.NewDraft(contentDomain.PlatformTarget("twitter", 280), "Widget X ships"))
	require.NoError(t, err)
	second, err := svc.Export(context.Background(), contentDomain.NewDraft(contentDomain.PlatformTarget("linkedin", 3000), "Widget X for teams"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "https://widgets.example/drafts#twitter-"))
	assert.True(t, strings.HasPrefix(second, "https://widgets.example/drafts#linkedin-"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	parsed, err := gofeed.NewParser().Parse(f)
	require.NoError(t, err)

	assert.Equal(t, "autopost drafts", parsed.Title)
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, "[linkedin] Widget X for teams", parsed.Items[0].Title)
	assert.Equal(t, "[twitter] Widget X ships", parsed.Items[1].Title)
	assert.Equal(t, first, parsed.Items[1].Link)
}

func TestExportKeepsBoundedHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.xml")
	svc := New(domain.FeedConfig{Path: path, Title: "drafts"}, nil)

	for i := 0; i < domain.MaxItems+3; i++ {
		_, err := svc.Export(context.Background(), contentDomain.NewDraft(contentDomain.PlatformTarget("twitter", 280), "post"))
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	parsed, err := gofeed.NewParser().ParseString(string(data))
	require.NoError(t, err)
	assert.Len(t, parsed.Items, domain.MaxItems)
}

func TestExportEscapesMarkupAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drafts.xml")
	svc := New(domain.FeedConfig{Path: path, Title: "drafts"}, nil)

	_, err := svc.Export(context.Background(), contentDomain.NewDraft(contentDomain.PlatformTarget("twitter", 280), "Widget <X> & friends\n\nsecond line"))
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	parsed, err := gofeed.NewParser().Parse(f)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, "<p>Widget &lt;X&gt; &amp; friends</p><p>second line</p>", parsed.Items[0].Content)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "drafts.xml", entries[0].Name())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Über...", truncate("Überlänge", 4))
}
