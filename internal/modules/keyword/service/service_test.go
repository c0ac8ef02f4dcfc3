package service

import (
	"testing"
	"unicode/utf8"

	"github.com/reshetovitsme/autopost/internal/modules/keyword/domain"
	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := map[string]struct {
		text string
		max  int
		want []string
	}{
		"ties keep first occurrence": {
			text: "The quick AI bot posts quick posts about AI tools",
			max:  3,
			want: []string{"quick", "posts", "bot"},
		},
		"frequency wins over position": {
			text: "widget launch widget launch widget",
			max:  5,
			want: []string{"widget", "launch"},
		},
		"case folded": {
			text: "Mastodon mastodon MASTODON fediverse",
			max:  2,
			want: []string{"mastodon", "fediverse"},
		},
		"hyphen and apostrophe kept inside words": {
			text: "open-source tools for open-source devs, devs' favourite, don’t panic",
			max:  3,
			want: []string{"open-source", "devs", "tools"},
		},
		"empty text": {
			text: "",
			max:  5,
			want: []string{},
		},
		"only stop words and short tokens": {
			text: "it is the one and only of a to",
			max:  5,
			want: []string{},
		},
		"zero max": {
			text: "widget widget",
			max:  0,
			want: []string{},
		},
		"negative max": {
			text: "widget widget",
			max:  -1,
			want: []string{},
		},
		"digits count as words": {
			text: "release 2025 release go1 v2",
			max:  3,
			want: []string{"release", "2025", "go1"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text, tt.max))
		})
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	text := "alpha beta gamma delta alpha beta gamma epsilon zeta eta theta alpha"

	first := Extract(text, 4)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Extract(text, 4))
	}
}

func TestExtractInvariants(t *testing.T) {
	texts := []string{
		"Widget X launches today with a faster engine and a cheaper plan",
		"We are so happy to announce that our new product is here for you all",
		"a b c de fg hij klm nop",
		"Über-fast Ünïcode wörds über über",
	}

	for _, text := range texts {
		for max := 0; max <= 6; max++ {
			got := Extract(text, max)

			assert.LessOrEqual(t, len(got), max)
			for _, term := range got {
				assert.GreaterOrEqual(t, utf8.RuneCountInString(term), 3, term)
				assert.NotContains(t, stopWords, term)
			}
		}
	}
}

func TestRank(t *testing.T) {
	got := Rank("Quick posts, quick bots. Posts!")

	assert.Equal(t, []domain.Keyword{
		{Term: "quick", Frequency: 2},
		{Term: "posts", Frequency: 2},
		{Term: "bots", Frequency: 1},
	}, got)
}
