package service

import (
	"context"
	"log/slog"
	"strings"

	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	"github.com/reshetovitsme/autopost/internal/modules/publish/domain"
	"github.com/reshetovitsme/autopost/internal/modules/publish/repository"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/reshetovitsme/autopost/internal/shared/metrics"
)

// NetworkPlatform is the platform name that is posted to the network directly.
const NetworkPlatform = "mastodon"

// Options for new top-level posts.
type Options struct {
	Visibility  domain.Visibility
	SpoilerText string
}

// Service publishes accepted drafts. Replies and network posts go to the network,
// posts for other platforms go to the exporter when one is configured.
type Service struct {
	network  repository.Network
	exporter repository.Exporter
	opts     Options
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// New creates a publish service. exporter may be nil.
func New(network repository.Network, exporter repository.Exporter, opts Options, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Visibility == "" {
		opts.Visibility = domain.VisibilityPublic
	}
	return &Service{
		network:  network,
		exporter: exporter,
		opts:     opts,
		logger:   logger,
		metrics:  recorder,
	}
}

// Publish sends one draft to its destination. Failures are reported in the result,
// never returned, so one target cannot block the others.
func (s *Service) Publish(ctx context.Context, draft *contentDomain.Draft) domain.Result {
	result := s.publish(ctx, draft)
	s.metrics.Published(draft.Target.Platform, result.Status.String())

	logger := s.logger.With("target", draft.Target.ID, "platform", draft.Target.Platform, "status", result.Status)
	if result.Failed() {
		logger.Error("Publish failed", "error", result.Err)
	} else {
		logger.Info("Draft published", "remote_id", result.RemoteID, "url", result.URL)
	}
	return result
}

func (s *Service) publish(ctx context.Context, draft *contentDomain.Draft) domain.Result {
	result := domain.Result{Target: draft.Target}

	switch {
	case draft.IsReply():
		if s.network == nil {
			return s.fail(result, apperrors.ErrMissingMastodon)
		}
		status, err := s.network.Reply(ctx, draft.Target.ID, draft.Text)
		if err != nil {
			return s.fail(result, err)
		}
		return published(result, status)

	case strings.EqualFold(draft.Target.Platform, NetworkPlatform):
		if s.network == nil {
			return s.fail(result, apperrors.ErrMissingMastodon)
		}
		status, err := s.network.Post(ctx, domain.PostRequest{
			Text:        draft.Text,
			Image:       draft.Image,
			Visibility:  s.opts.Visibility,
			SpoilerText: s.opts.SpoilerText,
		})
		if err != nil {
			return s.fail(result, err)
		}
		return published(result, status)

	case s.exporter != nil:
		link, err := s.exporter.Export(ctx, draft)
		if err != nil {
			return s.fail(result, err)
		}
		result.Status = domain.PublishStatusExported
		result.URL = link
		return result
	}

	result.Status = domain.PublishStatusSkipped
	return result
}

func (s *Service) fail(result domain.Result, cause error) domain.Result {
	result.Status = domain.PublishStatusFailed
	result.Err = apperrors.PublishFailure(cause, result.Target.ID)
	return result
}

func published(result domain.Result, status *domain.Status) domain.Result {
	result.Status = domain.PublishStatusPublished
	if status != nil {
		result.RemoteID = status.ID
		result.URL = status.URL
	}
	return result
}
