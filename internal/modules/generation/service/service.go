package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reshetovitsme/autopost/internal/modules/content/domain"
	"github.com/reshetovitsme/autopost/internal/modules/generation/repository"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Gateway turns source text into drafts through a completion service.
// It never retries and never truncates; over-limit text is flagged on the draft.
type Gateway struct {
	completer repository.Completer
	images    repository.ImageGenerator
	logger    *slog.Logger
}

// New creates a generation gateway. images may be nil when image generation is disabled.
func New(completer repository.Completer, images repository.ImageGenerator, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		completer: completer,
		images:    images,
		logger:    logger,
	}
}

// GenerateSingle produces one draft for one target with a single completion call.
func (g *Gateway) GenerateSingle(ctx context.Context, source string, target domain.Target, tone string) (*domain.Draft, error) {
	req := postPrompt(source, target, tone)
	if target.Kind == domain.TargetKindReply {
		req = replyPrompt(source, target, tone)
	}

	content, err := g.completer.Complete(ctx, req)
	if err != nil {
		return nil, apperrors.GenerationFailure(err, target.ID)
	}

	text := extractPost(content)
	if text == "" {
		return nil, apperrors.GenerationFailure(
			oops.With("context", "completion contained no post text").Wrap(apperrors.ErrMalformedResponse),
			target.ID,
		)
	}

	draft := domain.NewDraft(target, text)
	g.logger.Debug("draft generated",
		"target", target.ID,
		"platform", target.Platform,
		"length", draft.Length(),
		"over_limit", draft.OverLimit)

	return draft, nil
}

type batchAnswer struct {
	Replies []struct {
		TargetID string `json:"target_id"`
		Text     string `json:"text"`
	} `json:"replies"`
}

// GenerateBatch produces one draft per target with a single schema-constrained call.
// The answer must match targets in length and order; anything else fails the whole batch.
func (g *Gateway) GenerateBatch(ctx context.Context, source string, targets []domain.Target, tone string) ([]*domain.Draft, error) {
	if len(targets) == 0 {
		return []*domain.Draft{}, nil
	}

	ids := lo.Map(targets, func(t domain.Target, _ int) string { return t.ID })

	content, err := g.completer.Complete(ctx, batchPrompt(source, targets, tone))
	if err != nil {
		return nil, apperrors.GenerationFailure(err, ids...)
	}

	var answer batchAnswer
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &answer); err != nil {
		return nil, apperrors.GenerationFailure(fmt.Errorf("%w: %w", apperrors.ErrMalformedResponse, err), ids...)
	}
	if len(answer.Replies) != len(targets) {
		return nil, apperrors.GenerationFailure(
			oops.With("expected", len(targets), "received", len(answer.Replies)).
				Wrapf(apperrors.ErrMalformedResponse, "reply count mismatch"),
			ids...,
		)
	}

	drafts := make([]*domain.Draft, len(targets))
	for i, target := range targets {
		reply := answer.Replies[i]
		if reply.TargetID != target.ID {
			return nil, apperrors.GenerationFailure(
				oops.With("position", i, "expected", target.ID, "received", reply.TargetID).
					Wrapf(apperrors.ErrMalformedResponse, "reply target mismatch"),
				ids...,
			)
		}
		text := strings.TrimSpace(reply.Text)
		if text == "" {
			return nil, apperrors.GenerationFailure(
				oops.With("position", i, "target", target.ID).Wrapf(apperrors.ErrMalformedResponse, "empty reply"),
				ids...,
			)
		}
		drafts[i] = domain.NewDraft(target, text)
	}

	g.logger.Debug("batch generated", "targets", len(drafts))
	return drafts, nil
}

// ImagesEnabled reports whether an image backend is configured.
func (g *Gateway) ImagesEnabled() bool {
	return g.images != nil
}

// GenerateImage renders an illustration for the accepted post text.
func (g *Gateway) GenerateImage(ctx context.Context, text string) (*domain.Image, error) {
	if g.images == nil {
		return nil, nil
	}

	prompt := "A clean, eye-catching illustration for this social media post, no text in the image:\n\n" + text
	img, err := g.images.Generate(ctx, prompt)
	if err != nil {
		return nil, apperrors.GenerationFailure(err, "image")
	}
	return img, nil
}
