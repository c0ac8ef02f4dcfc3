package service

import (
	"context"

	"github.com/reshetovitsme/autopost/internal/modules/approval/domain"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
)

//go:generate mockgen -source=presenter.go -destination=../../../test/mocks/approval_mocks.go -package=mocks

// Presenter shows a draft to a reviewer and returns the reviewer's decision.
// The terminal, chat and auto front-ends all implement it.
type Presenter interface {
	Present(ctx context.Context, draft *contentDomain.Draft) (domain.Decision, error)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(ctx context.Context, draft *contentDomain.Draft) (domain.Decision, error)

func (f PresenterFunc) Present(ctx context.Context, draft *contentDomain.Draft) (domain.Decision, error) {
	return f(ctx, draft)
}

// AutoPresenter accepts every draft without asking anyone. Over-limit drafts are
// rejected when limits are enforced, since accepting them is not allowed.
type AutoPresenter struct {
	EnforceLimits bool
}

func (p AutoPresenter) Present(_ context.Context, draft *contentDomain.Draft) (domain.Decision, error) {
	if draft.OverLimit && p.EnforceLimits {
		return domain.DecisionReject, nil
	}
	return domain.DecisionAccept, nil
}
