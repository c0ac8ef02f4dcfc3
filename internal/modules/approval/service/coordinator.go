package service

import (
	"context"
	"log/slog"

	"github.com/reshetovitsme/autopost/internal/modules/approval/domain"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/reshetovitsme/autopost/internal/shared/metrics"
	"github.com/samber/oops"
)

// Regenerator produces a fresh draft for the same target, with the same platform and tone.
type Regenerator interface {
	Regenerate(ctx context.Context, target contentDomain.Target) (*contentDomain.Draft, error)
}

// RegeneratorFunc adapts a function to the Regenerator interface.
type RegeneratorFunc func(ctx context.Context, target contentDomain.Target) (*contentDomain.Draft, error)

func (f RegeneratorFunc) Regenerate(ctx context.Context, target contentDomain.Target) (*contentDomain.Draft, error) {
	return f(ctx, target)
}

// Options tune the review loop.
type Options struct {
	// MaxRegenerations caps reviewer-requested regenerations per draft. Zero means unlimited.
	MaxRegenerations int
	// EnforceLimits keeps over-limit drafts from being accepted.
	EnforceLimits bool
}

// Coordinator drives each draft through review: accept, regenerate, reject or abort everything.
type Coordinator struct {
	regenerator Regenerator
	opts        Options
	logger      *slog.Logger
	metrics     *metrics.Recorder
}

// New creates an approval coordinator
func New(regenerator Regenerator, opts Options, logger *slog.Logger, recorder *metrics.Recorder) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		regenerator: regenerator,
		opts:        opts,
		logger:      logger,
		metrics:     recorder,
	}
}

// ReviewAll presents the drafts one by one, in order, and returns the accepted ones.
// On abort every draft is marked aborted and nothing is returned, including drafts
// accepted earlier in the same call. A failing presenter counts as an abort; a
// cancelled context and a failed regeneration are returned as errors.
func (c *Coordinator) ReviewAll(ctx context.Context, drafts []*contentDomain.Draft, presenter Presenter) ([]*contentDomain.Draft, bool, error) {
	accepted := make([]*contentDomain.Draft, 0, len(drafts))

	for _, draft := range drafts {
		decision, err := c.review(ctx, draft, presenter)
		if err != nil {
			return nil, false, err
		}

		switch decision {
		case domain.DecisionAccept:
			accepted = append(accepted, draft)
		case domain.DecisionAbortAll:
			for _, d := range drafts {
				d.Status = contentDomain.DraftStatusAborted
			}
			c.logger.Info("Review aborted", "target", draft.Target.ID, "drafts", len(drafts))
			return nil, true, nil
		}
	}

	c.logger.Info("Review finished", "accepted", len(accepted), "drafts", len(drafts))
	return accepted, false, nil
}

// review runs the loop for a single draft and returns its terminal decision.
func (c *Coordinator) review(ctx context.Context, draft *contentDomain.Draft, presenter Presenter) (domain.Decision, error) {
	logger := c.logger.With("target", draft.Target.ID, "platform", draft.Target.Platform)

	if draft.OverLimit && c.opts.EnforceLimits {
		logger.Warn("Draft over limit, regenerating before review",
			"error", apperrors.LimitExceeded(draft.Target.ID, draft.Length(), draft.Target.CharLimit))
		if err := c.regenerate(ctx, draft, "limit"); err != nil {
			return "", err
		}
	}

	requested := 0
	for {
		decision, err := presenter.Present(ctx, draft)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			logger.Error("Presenter failed, aborting review", "error", err)
			return domain.DecisionAbortAll, nil
		}
		c.metrics.Decision(decision.String())
		logger.Debug("Review decision", "decision", decision)

		switch decision {
		case domain.DecisionAccept:
			if draft.OverLimit && c.opts.EnforceLimits {
				logger.Warn("Over-limit draft cannot be accepted, regenerating",
					"error", apperrors.LimitExceeded(draft.Target.ID, draft.Length(), draft.Target.CharLimit))
				break
			}
			draft.Status = contentDomain.DraftStatusAccepted
			return decision, nil
		case domain.DecisionReject:
			draft.Status = contentDomain.DraftStatusRejected
			return decision, nil
		case domain.DecisionAbortAll:
			return decision, nil
		case domain.DecisionRegenerate:
		default:
			return "", oops.With("decision", decision).Errorf("unknown review decision")
		}

		if c.opts.MaxRegenerations > 0 && requested >= c.opts.MaxRegenerations {
			logger.Warn("Regeneration limit reached, rejecting draft", "max_regenerations", c.opts.MaxRegenerations)
			draft.Status = contentDomain.DraftStatusRejected
			return domain.DecisionReject, nil
		}
		requested++

		if err := c.regenerate(ctx, draft, "review"); err != nil {
			return "", err
		}
	}
}

// regenerate replaces the draft text in place with a fresh generation for the same target.
func (c *Coordinator) regenerate(ctx context.Context, draft *contentDomain.Draft, reason string) error {
	fresh, err := c.regenerator.Regenerate(ctx, draft.Target)
	if err != nil {
		return err
	}

	draft.SetText(fresh.Text)
	draft.GeneratedAt = fresh.GeneratedAt
	draft.Regenerations++
	draft.Status = contentDomain.DraftStatusPending
	c.metrics.Regenerated(draft.Target.Platform, reason)

	c.logger.Debug("Draft regenerated",
		"target", draft.Target.ID,
		"reason", reason,
		"regenerations", draft.Regenerations,
		"over_limit", draft.OverLimit)
	return nil
}
