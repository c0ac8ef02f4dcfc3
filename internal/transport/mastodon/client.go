package mastodon

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/mattn/go-mastodon"
	"github.com/microcosm-cc/bluemonday"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	publishDomain "github.com/reshetovitsme/autopost/internal/modules/publish/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

// Settings for a Mastodon account
type Settings struct {
	InstanceURL       string
	AccessToken       string
	Visibility        publishDomain.Visibility
	RequestsPerSecond float64
}

// Client posts, replies and searches on a Mastodon instance. Calls are paced by a
// token bucket so a run never bursts against the instance's rate limit.
type Client struct {
	api        *mastodon.Client
	limiter    *rate.Limiter
	policy     *bluemonday.Policy
	visibility publishDomain.Visibility
	logger     *slog.Logger
}

// New creates a Mastodon client
func New(settings Settings, logger *slog.Logger) (*Client, error) {
	if settings.InstanceURL == "" || settings.AccessToken == "" {
		return nil, oops.Wrap(apperrors.ErrMissingMastodon)
	}
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if settings.RequestsPerSecond > 0 {
		limit = rate.Limit(settings.RequestsPerSecond)
	}
	visibility := settings.Visibility
	if visibility == "" {
		visibility = publishDomain.VisibilityPublic
	}

	return &Client{
		api: mastodon.NewClient(&mastodon.Config{
			Server:      strings.TrimRight(settings.InstanceURL, "/"),
			AccessToken: settings.AccessToken,
		}),
		limiter:    rate.NewLimiter(limit, 1),
		policy:     bluemonday.StrictPolicy(),
		visibility: visibility,
		logger:     logger,
	}, nil
}

// VerifyCredentials checks the access token and returns the account name
func (c *Client) VerifyCredentials(ctx context.Context) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	account, err := c.api.GetAccountCurrentUser(ctx)
	if err != nil {
		return "", oops.With("context", "failed to verify credentials").Wrap(apiCause(err))
	}
	return account.Acct, nil
}

// Post publishes a new status, uploading the image first when there is one.
// A failed upload is logged and the status goes out without media.
func (c *Client) Post(ctx context.Context, req publishDomain.PostRequest) (*publishDomain.Status, error) {
	visibility := req.Visibility
	if visibility == "" {
		visibility = c.visibility
	}
	toot := &mastodon.Toot{
		Status:      req.Text,
		Visibility:  visibility.String(),
		SpoilerText: req.SpoilerText,
	}

	if req.Image != nil && len(req.Image.Data) > 0 {
		if id, err := c.upload(ctx, req.Image); err != nil {
			c.logger.Warn("Media upload failed, posting without image", "error", err)
		} else {
			toot.MediaIDs = []mastodon.ID{id}
		}
	}

	return c.postStatus(ctx, toot)
}

// Reply answers an existing status
func (c *Client) Reply(ctx context.Context, postID, text string) (*publishDomain.Status, error) {
	return c.postStatus(ctx, &mastodon.Toot{
		Status:      text,
		InReplyToID: mastodon.ID(postID),
		Visibility:  c.visibility.String(),
	})
}

// Search returns up to limit distinct statuses matching query, newest first, with
// their HTML content reduced to plain text.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]*contentDomain.Post, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	results, err := c.api.Search(ctx, query, false)
	if err != nil {
		return nil, oops.With("query", query).Wrap(apiCause(err))
	}

	statuses := lo.UniqBy(results.Statuses, func(s *mastodon.Status) mastodon.ID { return s.ID })
	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].CreatedAt.After(statuses[j].CreatedAt)
	})
	if limit > 0 && len(statuses) > limit {
		statuses = statuses[:limit]
	}

	return lo.Map(statuses, func(s *mastodon.Status, _ int) *contentDomain.Post {
		return &contentDomain.Post{
			ID:        string(s.ID),
			URL:       s.URL,
			Author:    s.Account.Acct,
			Text:      c.plainText(s.Content),
			CreatedAt: s.CreatedAt,
		}
	}), nil
}

func (c *Client) postStatus(ctx context.Context, toot *mastodon.Toot) (*publishDomain.Status, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	status, err := c.api.PostStatus(ctx, toot)
	if err != nil {
		return nil, oops.With("in_reply_to", toot.InReplyToID).Wrap(apiCause(err))
	}
	return &publishDomain.Status{ID: string(status.ID), URL: status.URL}, nil
}

func (c *Client) upload(ctx context.Context, image *contentDomain.Image) (mastodon.ID, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	attachment, err := c.api.UploadMediaFromBytes(ctx, image.Data)
	if err != nil {
		return "", apiCause(err)
	}
	return attachment.ID, nil
}

func (c *Client) plainText(content string) string {
	// paragraph and line breaks become newlines before the tags are dropped
	content = strings.NewReplacer("</p><p>", "\n\n", "<br>", "\n", "<br/>", "\n", "<br />", "\n").Replace(content)
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(content)))
}

// apiCause maps Mastodon API status codes onto the shared cause sentinels.
func apiCause(err error) error {
	var apiErr *mastodon.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Join(apperrors.ErrAuthFailure, err)
	case http.StatusTooManyRequests:
		return errors.Join(apperrors.ErrRateLimited, err)
	case http.StatusNotFound:
		return errors.Join(apperrors.ErrNotFound, err)
	}
	return err
}
