package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToText(t *testing.T) {
	markdown := strings.TrimSpace(`
# Widget X

Widget X **launches** today, see [the docs](https://example.com/docs).

- fast
- cheap

` + "```go\nfmt.Println(\"hidden\")\n```")

	got := MarkdownToText(markdown)

	assert.Equal(t, "Widget X\nWidget X launches today, see the docs.\nfast\ncheap", got)
	assert.NotContains(t, got, "hidden")
	assert.NotContains(t, got, "https://example.com")
}

func TestMarkdownToTextEmpty(t *testing.T) {
	assert.Empty(t, MarkdownToText(""))
}

func TestNewDraftFlagsOverLimit(t *testing.T) {
	tests := map[string]struct {
		limit int
		text  string
		want  bool
	}{
		"under limit":       {limit: 10, text: "short", want: false},
		"exactly at limit":  {limit: 5, text: "12345", want: false},
		"over limit":        {limit: 4, text: "12345", want: true},
		"no limit":          {limit: 0, text: strings.Repeat("x", 10000), want: false},
		"counts runes once": {limit: 3, text: "äöü", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewDraft(PlatformTarget("twitter", tt.limit), tt.text)

			assert.Equal(t, tt.want, d.OverLimit)
			assert.Equal(t, DraftStatusPending, d.Status)
			assert.Equal(t, tt.text, d.Text)
		})
	}
}

func TestSetTextRecomputesFlag(t *testing.T) {
	d := NewDraft(PlatformTarget("twitter", 5), "too long text")
	assert.True(t, d.OverLimit)

	d.SetText("ok")

	assert.False(t, d.OverLimit)
	assert.Equal(t, 2, d.Length())
}

func TestReplyTarget(t *testing.T) {
	post := &Post{ID: "109", Text: "Anyone tried Widget X?"}

	target := ReplyTarget(post, "mastodon", 500)

	assert.Equal(t, TargetKindReply, target.Kind)
	assert.Equal(t, "109", target.ID)
	assert.Equal(t, "Anyone tried Widget X?", target.Context)
	assert.True(t, NewDraft(target, "yes").IsReply())
}
