package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/feeds"
	"github.com/mmcdole/gofeed"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	"github.com/reshetovitsme/autopost/internal/modules/feed/domain"
	"github.com/samber/oops"
)

// Service exports drafts for platforms without a direct publisher to an RSS file.
// Entries already in the file are kept, newest first, up to domain.MaxItems.
type Service struct {
	cfg    domain.FeedConfig
	logger *slog.Logger
	mu     sync.Mutex
	now    func() time.Time
}

// New creates a new feed service
func New(cfg domain.FeedConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Export adds a draft to the feed file and returns the entry link
func (s *Service) Export(ctx context.Context, draft *contentDomain.Draft) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadItems()
	if err != nil {
		return "", err
	}

	item := s.draftToFeedItem(draft)
	items := append([]*feeds.Item{item}, existing...)
	if len(items) > domain.MaxItems {
		items = items[:domain.MaxItems]
	}

	feed := &feeds.Feed{
		Title:       s.cfg.Title,
		Link:        &feeds.Link{Href: s.cfg.Link},
		Description: fmt.Sprintf("Drafts exported by autopost: %s", s.cfg.Title),
		Created:     item.Created,
		Updated:     item.Created,
		Items:       items,
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", oops.With("path", s.cfg.Path, "context", "failed to render feed").Wrap(err)
	}

	if err := s.write(rss); err != nil {
		return "", err
	}

	s.logger.Debug("Draft exported to feed", "path", s.cfg.Path, "platform", draft.Target.Platform, "items", len(items))
	return item.Link.Href, nil
}

// write replaces the feed file through a temporary file in the same directory,
// so readers never see a partial feed.
func (s *Service) write(rss string) error {
	dir := filepath.Dir(s.cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return oops.With("path", s.cfg.Path, "context", "failed to create feed directory").Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.cfg.Path)+".*.tmp")
	if err != nil {
		return oops.With("path", s.cfg.Path, "context", "failed to create temporary feed").Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(rss); err != nil {
		tmp.Close()
		return oops.With("path", tmp.Name(), "context", "failed to write feed").Wrap(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return oops.With("path", tmp.Name(), "context", "failed to set feed permissions").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return oops.With("path", tmp.Name(), "context", "failed to write feed").Wrap(err)
	}
	if err := os.Rename(tmp.Name(), s.cfg.Path); err != nil {
		return oops.With("path", s.cfg.Path, "context", "failed to replace feed").Wrap(err)
	}
	return nil
}

// loadItems reads the entries of a previous export, if any
func (s *Service) loadItems() ([]*feeds.Item, error) {
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, oops.With("path", s.cfg.Path, "context", "failed to open feed").Wrap(err)
	}
	defer f.Close()

	parsed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return nil, oops.With("path", s.cfg.Path, "context", "existing feed is not valid RSS").Wrap(err)
	}

	items := make([]*feeds.Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		item := &feeds.Item{
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.Link},
			Description: it.Description,
			Content:     it.Content,
			Id:          it.GUID,
		}
		if it.PublishedParsed != nil {
			item.Created = *it.PublishedParsed
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) draftToFeedItem(draft *contentDomain.Draft) *feeds.Item {
	created := s.now()
	id := fmt.Sprintf("%s-%d", draft.Target.Platform, created.UnixNano())

	link := s.cfg.Link
	if link == "" {
		link = "file://" + s.cfg.Path
	}

	var content strings.Builder
	for _, paragraph := range strings.Split(draft.Text, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		content.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(paragraph)))
	}

	return &feeds.Item{
		Title:       fmt.Sprintf("[%s] %s", draft.Target.Platform, truncate(draft.Text, 100)),
		Link:        &feeds.Link{Href: link + "#" + id},
		Description: draft.Text,
		Content:     content.String(),
		Created:     created,
		Id:          id,
	}
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
