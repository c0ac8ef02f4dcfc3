package repository

import (
	"context"
	"errors"
	"html"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/reshetovitsme/autopost/internal/modules/content/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/oops"
)

// FeedStorage uses the newest entry of an RSS/Atom feed as source content.
// The source id is the feed URL.
type FeedStorage struct {
	parser *gofeed.Parser
	policy *bluemonday.Policy
}

// NewFeedStorage creates a feed-backed source repository
func NewFeedStorage(client *http.Client) Repository {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	return &FeedStorage{
		parser: parser,
		policy: bluemonday.StrictPolicy(),
	}
}

func (s *FeedStorage) Fetch(ctx context.Context, id string) (*domain.SourceContent, error) {
	feed, err := s.parser.ParseURLWithContext(id, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusNotFound, http.StatusGone:
				return nil, oops.With("feed_url", id).Wrap(apperrors.ErrNotFound)
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, oops.With("feed_url", id).Wrap(apperrors.ErrAuthFailure)
			}
		}
		return nil, oops.With("feed_url", id, "context", "failed to parse feed").Wrap(err)
	}

	if len(feed.Items) == 0 {
		return nil, oops.With("feed_url", id, "context", "feed has no items").Wrap(apperrors.ErrNotFound)
	}

	items := append([]*gofeed.Item(nil), feed.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		return itemTime(items[i]).After(itemTime(items[j]))
	})
	latest := items[0]

	body := latest.Content
	if body == "" {
		body = latest.Description
	}

	var markdown strings.Builder
	if latest.Title != "" {
		markdown.WriteString("# " + latest.Title + "\n\n")
	}
	markdown.WriteString(s.stripHTML(body))
	if latest.Link != "" {
		markdown.WriteString("\n\n" + latest.Link)
	}

	return &domain.SourceContent{
		ID:        id,
		Kind:      domain.SourceKindRss,
		Title:     latest.Title,
		Markdown:  strings.TrimSpace(markdown.String()),
		FetchedAt: time.Now(),
	}, nil
}

func (s *FeedStorage) stripHTML(body string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(body)))
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}
