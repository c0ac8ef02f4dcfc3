package repository

import (
	"context"

	"github.com/reshetovitsme/autopost/internal/modules/content/domain"
)

//go:generate mockgen -source=repository.go -destination=../../../test/mocks/content_mocks.go -package=mocks

// Repository fetches source content from a document store.
// Implementations return errors wrapping apperrors.ErrNotFound or apperrors.ErrAuthFailure
// so the orchestrator can report a FetchFailure with the cause intact.
type Repository interface {
	Fetch(ctx context.Context, id string) (*domain.SourceContent, error)
}
