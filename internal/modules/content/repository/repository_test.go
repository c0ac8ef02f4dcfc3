package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/reshetovitsme/autopost/internal/modules/content/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "launches"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "launches", "widget.md"), []byte("# Widget X\n\nWidget X launches today\n"), 0o644))

	repo, err := NewFileStorage(dir)
	require.NoError(t, err)

	src, err := repo.Fetch(context.Background(), "launches/widget")
	require.NoError(t, err)

	assert.Equal(t, "launches/widget", src.ID)
	assert.Equal(t, domain.SourceKindFile, src.Kind)
	assert.Equal(t, "Widget X", src.Title)
	assert.Equal(t, "# Widget X\n\nWidget X launches today", src.Markdown)
}

func TestFileStorageMissing(t *testing.T) {
	repo, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Fetch(context.Background(), "../../etc/passwd")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestNewFileStorageRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := NewFileStorage(path)

	assert.Error(t, err)
}

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Widget blog</title>
  <link>https://widgets.example</link>
  <item>
    <title>Older post</title>
    <link>https://widgets.example/older</link>
    <description>old news</description>
    <pubDate>Mon, 01 Sep 2025 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Widget X launches</title>
    <link>https://widgets.example/x</link>
    <description>&lt;p&gt;Widget X &lt;b&gt;launches&lt;/b&gt; today&lt;/p&gt;</description>
    <pubDate>Tue, 02 Sep 2025 10:00:00 GMT</pubDate>
  </item>
</channel>
</rss>`

func TestFeedStorageFetchNewestItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	repo := NewFeedStorage(srv.Client())

	src, err := repo.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceKindRss, src.Kind)
	assert.Equal(t, "Widget X launches", src.Title)
	assert.Equal(t, "# Widget X launches\n\nWidget X launches today\n\nhttps://widgets.example/x", src.Markdown)
}

func TestFeedStorageNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	repo := NewFeedStorage(srv.Client())

	_, err := repo.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestNormalizePageID(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"compact":   {in: "0123456789abcdef0123456789abcdef", want: "0123456789abcdef0123456789abcdef"},
		"dashed":    {in: "01234567-89ab-cdef-0123-456789abcdef", want: "0123456789abcdef0123456789abcdef"},
		"page url":  {in: "https://www.notion.so/Widget-X-0123456789abcdef0123456789abcdef", want: "0123456789abcdef0123456789abcdef"},
		"unchanged": {in: "short-id", want: "short-id"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePageID(tt.in))
		})
	}
}

func TestRenderBlocks(t *testing.T) {
	rich := func(s string) []notionapi.RichText {
		return []notionapi.RichText{{PlainText: s}}
	}
	blocks := []notionapi.Block{
		&notionapi.Heading1Block{Heading1: notionapi.Heading{RichText: rich("Widget X")}},
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: rich("Launches today.")}},
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{}},
		&notionapi.BulletedListItemBlock{BulletedListItem: notionapi.ListItem{RichText: rich("fast")}},
		&notionapi.NumberedListItemBlock{NumberedListItem: notionapi.ListItem{RichText: rich("cheap")}},
		&notionapi.ToDoBlock{ToDo: notionapi.ToDo{RichText: rich("ship"), Checked: true}},
	}

	got := renderBlocks(blocks)

	assert.Equal(t, "# Widget X\nLaunches today.\n- fast\n1. cheap\n- [x] ship", got)
}
