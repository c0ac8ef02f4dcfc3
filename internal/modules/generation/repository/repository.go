package repository

import (
	"context"

	"github.com/reshetovitsme/autopost/internal/modules/content/domain"
)

//go:generate mockgen -source=repository.go -destination=../../../test/mocks/generation_mocks.go -package=mocks

// Schema constrains a completion to a named JSON document.
type Schema struct {
	Name       string
	Definition map[string]any
}

// CompletionRequest is one prompt sent to the completion service.
type CompletionRequest struct {
	System string
	User   string
	// Schema is nil for free-text completions.
	Schema *Schema
}

// Completer sends a prompt to a text completion service.
// Errors wrap apperrors.ErrAuthFailure, apperrors.ErrRateLimited or apperrors.ErrMalformedResponse
// when the cause is known.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ImageGenerator renders an image from a text prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*domain.Image, error)
}
