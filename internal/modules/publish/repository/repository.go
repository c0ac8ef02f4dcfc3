package repository

import (
	"context"

	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	"github.com/reshetovitsme/autopost/internal/modules/publish/domain"
)

//go:generate mockgen -source=repository.go -destination=../../../test/mocks/publish_mocks.go -package=mocks

// Network is the social network drafts are published to and reply targets are found on.
// Errors wrap apperrors.ErrAuthFailure, apperrors.ErrRateLimited or apperrors.ErrNotFound
// when the cause is known.
type Network interface {
	Post(ctx context.Context, req domain.PostRequest) (*domain.Status, error)
	Reply(ctx context.Context, postID, text string) (*domain.Status, error)
	Search(ctx context.Context, query string, limit int) ([]*contentDomain.Post, error)
}

// Exporter stores drafts for platforms the workflow cannot post to directly.
type Exporter interface {
	Export(ctx context.Context, draft *contentDomain.Draft) (string, error)
}
