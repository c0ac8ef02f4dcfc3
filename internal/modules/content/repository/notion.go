package repository

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/reshetovitsme/autopost/internal/modules/content/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

var notionIDPattern = regexp.MustCompile(`[0-9a-fA-F]{32}$`)

// NotionStorage fetches a Notion page and renders its blocks as markdown.
type NotionStorage struct {
	client *notionapi.Client
}

// NewNotionStorage creates a Notion-backed source repository
func NewNotionStorage(token string) Repository {
	return &NotionStorage{client: notionapi.NewClient(notionapi.Token(token))}
}

func (s *NotionStorage) Fetch(ctx context.Context, id string) (*domain.SourceContent, error) {
	pageID := normalizePageID(id)

	page, err := s.client.Page.Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return nil, oops.With("page_id", pageID, "context", "failed to retrieve page").Wrap(notionCause(err))
	}

	var blocks []notionapi.Block
	cursor := notionapi.Cursor("")
	for {
		resp, err := s.client.Block.GetChildren(ctx, notionapi.BlockID(pageID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return nil, oops.With("page_id", pageID, "context", "failed to list blocks").Wrap(notionCause(err))
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	return &domain.SourceContent{
		ID:        id,
		Kind:      domain.SourceKindNotion,
		Title:     pageTitle(page),
		Markdown:  renderBlocks(blocks),
		FetchedAt: time.Now(),
	}, nil
}

// normalizePageID accepts a bare id, a dashed UUID or a full page URL.
func normalizePageID(id string) string {
	compact := strings.ReplaceAll(strings.TrimSpace(id), "-", "")
	if m := notionIDPattern.FindString(compact); m != "" {
		return m
	}
	return strings.TrimSpace(id)
}

func pageTitle(page *notionapi.Page) string {
	if page == nil {
		return ""
	}
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return plainText(title.Title)
		}
	}
	return ""
}

// renderBlocks converts the block types a product description uses into markdown.
func renderBlocks(blocks []notionapi.Block) string {
	lines := lo.FilterMap(blocks, func(block notionapi.Block, _ int) (string, bool) {
		var line string
		switch b := block.(type) {
		case *notionapi.Heading1Block:
			line = prefixed("# ", b.Heading1.RichText)
		case *notionapi.Heading2Block:
			line = prefixed("## ", b.Heading2.RichText)
		case *notionapi.Heading3Block:
			line = prefixed("### ", b.Heading3.RichText)
		case *notionapi.BulletedListItemBlock:
			line = prefixed("- ", b.BulletedListItem.RichText)
		case *notionapi.NumberedListItemBlock:
			line = prefixed("1. ", b.NumberedListItem.RichText)
		case *notionapi.QuoteBlock:
			line = prefixed("> ", b.Quote.RichText)
		case *notionapi.ToDoBlock:
			line = prefixed(lo.Ternary(b.ToDo.Checked, "- [x] ", "- [ ] "), b.ToDo.RichText)
		case *notionapi.ParagraphBlock:
			line = plainText(b.Paragraph.RichText)
		}
		return line, line != ""
	})

	return strings.Join(lines, "\n")
}

func prefixed(prefix string, rich []notionapi.RichText) string {
	text := plainText(rich)
	if text == "" {
		return ""
	}
	return prefix + text
}

func plainText(rich []notionapi.RichText) string {
	return strings.Join(lo.Map(rich, func(rt notionapi.RichText, _ int) string {
		return rt.PlainText
	}), "")
}

// notionCause maps Notion API errors onto the shared cause sentinels.
func notionCause(err error) error {
	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Status {
	case http.StatusNotFound:
		return oops.With("notion_code", apiErr.Code).Wrap(apperrors.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return oops.With("notion_code", apiErr.Code).Wrap(apperrors.ErrAuthFailure)
	case http.StatusTooManyRequests:
		return oops.With("notion_code", apiErr.Code).Wrap(apperrors.ErrRateLimited)
	}
	return err
}
