package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	approvalService "github.com/reshetovitsme/autopost/internal/modules/approval/service"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	keywordService "github.com/reshetovitsme/autopost/internal/modules/keyword/service"
	publishDomain "github.com/reshetovitsme/autopost/internal/modules/publish/domain"
	"github.com/reshetovitsme/autopost/internal/modules/workflow/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/reshetovitsme/autopost/internal/shared/metrics"
	"github.com/samber/oops"
)

//go:generate mockgen -source=service.go -destination=../../../test/mocks/workflow_mocks.go -package=mocks

// Source fetches the content a run is based on.
type Source interface {
	Fetch(ctx context.Context, id string) (*contentDomain.SourceContent, error)
}

// Generator produces drafts and the optional illustration.
type Generator interface {
	GenerateSingle(ctx context.Context, source string, target contentDomain.Target, tone string) (*contentDomain.Draft, error)
	GenerateBatch(ctx context.Context, source string, targets []contentDomain.Target, tone string) ([]*contentDomain.Draft, error)
	ImagesEnabled() bool
	GenerateImage(ctx context.Context, text string) (*contentDomain.Image, error)
}

// Searcher finds posts to reply to.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]*contentDomain.Post, error)
}

// Publisher delivers one accepted draft and reports the outcome.
type Publisher interface {
	Publish(ctx context.Context, draft *contentDomain.Draft) publishDomain.Result
}

// TriggerGate blocks until the trigger phrase arrives.
type TriggerGate interface {
	AwaitTrigger(ctx context.Context, expected string) error
}

// Confirmer gives a last go-ahead over all accepted drafts before anything is published.
type Confirmer interface {
	ConfirmPublish(ctx context.Context, drafts []*contentDomain.Draft) (bool, error)
}

// Notifier receives the run summary once publishing is done.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Dependencies are the collaborators of an orchestrator. Searcher is only needed in
// reply mode and Trigger only when a trigger phrase is configured. Confirmer and
// Notifier are optional.
type Dependencies struct {
	Source    Source
	Generator Generator
	Searcher  Searcher
	Publisher Publisher
	Presenter approvalService.Presenter
	Trigger   TriggerGate
	Confirmer Confirmer
	Notifier  Notifier
}

// Orchestrator sequences one run in post or reply mode.
type Orchestrator struct {
	settings domain.Settings
	deps     Dependencies
	logger   *slog.Logger
	metrics  *metrics.Recorder
}

// New creates a workflow orchestrator
func New(settings domain.Settings, deps Dependencies, logger *slog.Logger, recorder *metrics.Recorder) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		settings: settings,
		deps:     deps,
		logger:   logger,
		metrics:  recorder,
	}
}

// Run executes the configured mode. The report is returned even when the run fails,
// describing how far it got.
func (o *Orchestrator) Run(ctx context.Context) (*domain.Report, error) {
	report := &domain.Report{
		RunID:     uuid.NewString(),
		Mode:      o.settings.Mode,
		SourceID:  o.settings.SourceID,
		StartedAt: time.Now(),
	}
	logger := o.logger.With("run_id", report.RunID, "mode", report.Mode)

	err := o.run(ctx, report, logger)

	report.FinishedAt = time.Now()
	o.metrics.ObserveRun(report.Mode.String(), outcome(report, err), report.FinishedAt.Sub(report.StartedAt))
	if err != nil {
		logger.Error("Run failed", "error", err)
		return report, err
	}
	logger.Info("Run finished",
		"generated", report.Generated,
		"accepted", report.Accepted,
		"aborted", report.Aborted,
		"published", report.Published(),
		"failed", report.PublishFailures())
	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, report *domain.Report, logger *slog.Logger) error {
	if o.settings.TriggerPhrase != "" {
		if o.deps.Trigger == nil {
			return apperrors.Config(apperrors.ErrMissingBotToken, "trigger_phrase")
		}
		if err := o.deps.Trigger.AwaitTrigger(ctx, o.settings.TriggerPhrase); err != nil {
			return err
		}
	}

	source, err := o.deps.Source.Fetch(ctx, o.settings.SourceID)
	if err != nil {
		return apperrors.FetchFailure(err, o.settings.SourceID)
	}
	logger.Info("Source fetched", "source_id", source.ID, "title", source.Title, "length", len(source.Markdown))

	var drafts []*contentDomain.Draft
	switch o.settings.Mode {
	case domain.ModePost:
		drafts, err = o.generatePosts(ctx, source)
	case domain.ModeReply:
		drafts, err = o.generateReplies(ctx, source, report, logger)
	default:
		return oops.With("mode", o.settings.Mode).Wrap(domain.ErrInvalidMode)
	}
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return nil
	}
	report.Generated = len(drafts)

	accepted, aborted, err := o.review(ctx, source, drafts)
	if err != nil {
		return err
	}
	if aborted {
		report.Aborted = true
		logger.Info("Review aborted, nothing will be published")
		return nil
	}
	report.Accepted = len(accepted)
	if len(accepted) == 0 {
		report.Note = "no drafts accepted"
		return nil
	}

	if o.deps.Confirmer != nil && !o.settings.AutoPublish {
		confirmed, err := o.deps.Confirmer.ConfirmPublish(ctx, accepted)
		if err != nil {
			return err
		}
		if !confirmed {
			report.Aborted = true
			report.Note = "publishing cancelled"
			logger.Info("Publishing cancelled, nothing will be published")
			return nil
		}
	}

	if o.settings.Mode == domain.ModePost {
		report.Image = o.illustrate(ctx, accepted, logger)
	}

	for _, draft := range accepted {
		report.Results = append(report.Results, o.deps.Publisher.Publish(ctx, draft))
	}
	o.notify(ctx, report, logger)
	return nil
}

// notify sends the publish results back to the reviewer. Failure is only logged.
func (o *Orchestrator) notify(ctx context.Context, report *domain.Report, logger *slog.Logger) {
	if o.deps.Notifier == nil {
		return
	}
	if err := o.deps.Notifier.Notify(ctx, "📣 Publishing finished\n"+report.Summary()); err != nil {
		logger.Warn("Failed to send publish summary", "error", err)
	}
}

// generatePosts drafts one post per platform, in order. Any failure ends the run.
func (o *Orchestrator) generatePosts(ctx context.Context, source *contentDomain.SourceContent) ([]*contentDomain.Draft, error) {
	drafts := make([]*contentDomain.Draft, 0, len(o.settings.Platforms))
	for _, platform := range o.settings.Platforms {
		target := contentDomain.PlatformTarget(platform, o.settings.CharLimit(platform))
		draft, err := o.deps.Generator.GenerateSingle(ctx, source.Markdown, target, o.settings.Tone)
		if err != nil {
			return nil, err
		}
		o.metrics.DraftGenerated(platform, target.Kind.String())
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// generateReplies finds posts matching the source keywords and drafts replies in one batch.
// No keywords or no posts ends the run without error.
func (o *Orchestrator) generateReplies(ctx context.Context, source *contentDomain.SourceContent, report *domain.Report, logger *slog.Logger) ([]*contentDomain.Draft, error) {
	keywords := keywordService.Extract(source.PlainText(), o.settings.MaxKeywords)
	report.Keywords = keywords
	if len(keywords) == 0 {
		report.Note = "no keywords extracted, no search performed"
		logger.Info(report.Note)
		return nil, nil
	}
	if o.deps.Searcher == nil {
		return nil, apperrors.Config(apperrors.ErrMissingMastodon, "mastodon")
	}

	posts, err := o.search(ctx, keywords)
	if err != nil {
		return nil, err
	}
	report.PostsFound = len(posts)
	logger.Info("Search finished", "keywords", keywords, "posts", len(posts))
	if len(posts) == 0 {
		report.Note = "no posts found for the extracted keywords"
		return nil, nil
	}

	limit := o.settings.CharLimit(o.settings.ReplyPlatform)
	targets := make([]contentDomain.Target, len(posts))
	for i, post := range posts {
		targets[i] = contentDomain.ReplyTarget(post, o.settings.ReplyPlatform, limit)
	}

	drafts, err := o.deps.Generator.GenerateBatch(ctx, source.Markdown, targets, o.settings.Tone)
	if err != nil {
		return nil, err
	}
	for _, d := range drafts {
		o.metrics.DraftGenerated(d.Target.Platform, d.Target.Kind.String())
	}
	return drafts, nil
}

// search queries keywords in rank order until enough distinct posts are collected.
func (o *Orchestrator) search(ctx context.Context, keywords []string) ([]*contentDomain.Post, error) {
	seen := make(map[string]struct{})
	posts := make([]*contentDomain.Post, 0, o.settings.SearchLimit)

	for _, keyword := range keywords {
		if len(posts) >= o.settings.SearchLimit {
			break
		}
		found, err := o.deps.Searcher.Search(ctx, keyword, o.settings.SearchLimit)
		if err != nil {
			return nil, apperrors.SearchFailure(err, keyword)
		}
		for _, post := range found {
			if _, dup := seen[post.ID]; dup {
				continue
			}
			seen[post.ID] = struct{}{}
			posts = append(posts, post)
			if len(posts) >= o.settings.SearchLimit {
				break
			}
		}
	}
	return posts, nil
}

func (o *Orchestrator) review(ctx context.Context, source *contentDomain.SourceContent, drafts []*contentDomain.Draft) ([]*contentDomain.Draft, bool, error) {
	regenerate := approvalService.RegeneratorFunc(func(ctx context.Context, target contentDomain.Target) (*contentDomain.Draft, error) {
		draft, err := o.deps.Generator.GenerateSingle(ctx, source.Markdown, target, o.settings.Tone)
		if err == nil {
			o.metrics.DraftGenerated(target.Platform, target.Kind.String())
		}
		return draft, err
	})

	coordinator := approvalService.New(regenerate, approvalService.Options{
		MaxRegenerations: o.settings.MaxRegenerations,
		EnforceLimits:    o.settings.EnforceLimits,
	}, o.logger, o.metrics)

	presenter := o.deps.Presenter
	if o.settings.AutoPublish {
		presenter = approvalService.AutoPresenter{EnforceLimits: o.settings.EnforceLimits}
	}
	if presenter == nil {
		return nil, false, oops.Errorf("no approval presenter configured")
	}
	return coordinator.ReviewAll(ctx, drafts, presenter)
}

// illustrate attaches an image generated from the last accepted text. Failure is
// logged and publishing continues without it.
func (o *Orchestrator) illustrate(ctx context.Context, accepted []*contentDomain.Draft, logger *slog.Logger) bool {
	if !o.settings.ImageEnabled || !o.deps.Generator.ImagesEnabled() {
		return false
	}

	image, err := o.deps.Generator.GenerateImage(ctx, accepted[len(accepted)-1].Text)
	if err != nil || image == nil {
		logger.Warn("Image generation failed, publishing without image", "error", err)
		return false
	}
	for _, draft := range accepted {
		draft.Image = image
	}
	return true
}

func outcome(report *domain.Report, err error) string {
	switch {
	case err != nil:
		return "error"
	case report.Aborted:
		return "aborted"
	case report.PublishFailures() > 0:
		return "partial"
	}
	return "success"
}
