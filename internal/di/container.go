package di

import (
	"log/slog"
	"net/http"
	"time"

	approvalDomain "github.com/reshetovitsme/autopost/internal/modules/approval/domain"
	approvalService "github.com/reshetovitsme/autopost/internal/modules/approval/service"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	contentRepo "github.com/reshetovitsme/autopost/internal/modules/content/repository"
	feedDomain "github.com/reshetovitsme/autopost/internal/modules/feed/domain"
	feedService "github.com/reshetovitsme/autopost/internal/modules/feed/service"
	generationRepo "github.com/reshetovitsme/autopost/internal/modules/generation/repository"
	generationService "github.com/reshetovitsme/autopost/internal/modules/generation/service"
	messageService "github.com/reshetovitsme/autopost/internal/modules/message/service"
	publishRepo "github.com/reshetovitsme/autopost/internal/modules/publish/repository"
	publishService "github.com/reshetovitsme/autopost/internal/modules/publish/service"
	triggerService "github.com/reshetovitsme/autopost/internal/modules/trigger/service"
	workflowDomain "github.com/reshetovitsme/autopost/internal/modules/workflow/domain"
	workflowService "github.com/reshetovitsme/autopost/internal/modules/workflow/service"
	"github.com/reshetovitsme/autopost/internal/shared/config"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/reshetovitsme/autopost/internal/shared/metrics"
	httpServer "github.com/reshetovitsme/autopost/internal/transport/http"
	mastodonClient "github.com/reshetovitsme/autopost/internal/transport/mastodon"
	"github.com/reshetovitsme/autopost/internal/transport/telegram"
	"github.com/reshetovitsme/autopost/internal/transport/terminal"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

const feedFetchTimeout = 30 * time.Second

// Setup registers lazy providers for everything a run needs. Network clients are only
// built when something invokes them, so a run never touches services it does not use.
func Setup(cfg *config.Config, logger *slog.Logger) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)

	// Register Metrics
	do.Provide(injector, func(i do.Injector) (*metrics.Recorder, error) {
		return metrics.New(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job), nil
	})

	// Register Source Repository
	do.Provide(injector, func(i do.Injector) (contentRepo.Repository, error) {
		switch cfg.Source.Kind {
		case contentDomain.SourceKindNotion:
			if cfg.Notion.APIToken == "" {
				return nil, oops.Wrap(apperrors.ErrMissingNotionKey)
			}
			return contentRepo.NewNotionStorage(cfg.Notion.APIToken), nil
		case contentDomain.SourceKindFile:
			repo, err := contentRepo.NewFileStorage(cfg.Source.Dir)
			if err != nil {
				return nil, oops.With("source_dir", cfg.Source.Dir, "context", "failed to initialize file source").Wrap(err)
			}
			return repo, nil
		case contentDomain.SourceKindRss:
			return contentRepo.NewFeedStorage(&http.Client{Timeout: feedFetchTimeout}), nil
		}
		return nil, oops.With("source_kind", cfg.Source.Kind).Wrap(apperrors.ErrUnsupportedSource)
	})

	// Register Generation Gateway
	do.Provide(injector, func(i do.Injector) (*generationService.Gateway, error) {
		settings := generationRepo.Settings{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			ImageModel:  cfg.Image.Model,
			ImageSize:   cfg.Image.Size,
		}
		completer, err := generationRepo.NewOpenAICompleter(settings)
		if err != nil {
			return nil, oops.With("context", "failed to initialize llm client").Wrap(err)
		}

		var images generationRepo.ImageGenerator
		if cfg.Image.Enabled {
			generator, err := generationRepo.NewOpenAIImageGenerator(settings)
			if err != nil {
				return nil, oops.With("context", "failed to initialize image client").Wrap(err)
			}
			images = generator
		}
		return generationService.New(completer, images, do.MustInvoke[*slog.Logger](i)), nil
	})

	// Register Mastodon Client
	do.Provide(injector, func(i do.Injector) (*mastodonClient.Client, error) {
		return mastodonClient.New(mastodonClient.Settings{
			InstanceURL:       cfg.Mastodon.InstanceURL,
			AccessToken:       cfg.Mastodon.AccessToken,
			Visibility:        cfg.Mastodon.Visibility,
			RequestsPerSecond: cfg.Mastodon.RequestsPerSecond,
		}, do.MustInvoke[*slog.Logger](i))
	})

	// Register Feed Exporter
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		return feedService.New(feedDomain.FeedConfig{
			Path:  cfg.Feed.Path,
			Title: cfg.Feed.Title,
			Link:  cfg.Feed.Link,
		}, do.MustInvoke[*slog.Logger](i)), nil
	})

	// Register Telegram Channel
	do.Provide(injector, func(i do.Injector) (*telegram.Channel, error) {
		return telegram.New(telegram.Settings{
			Token:         cfg.Telegram.BotToken,
			APIURL:        cfg.Telegram.APIURL,
			WebhookURL:    cfg.Telegram.WebhookURL,
			WebhookSecret: cfg.Telegram.WebhookSecret,
		}, do.MustInvoke[*slog.Logger](i))
	})

	// Register Message Service
	do.Provide(injector, func(i do.Injector) (*messageService.Service, error) {
		channel, err := do.Invoke[*telegram.Channel](i)
		if err != nil {
			return nil, err
		}
		return messageService.New(channel, cfg.Telegram.ChatID, cfg.Telegram.AllowedUsers, do.MustInvoke[*slog.Logger](i)), nil
	})

	// Register Trigger Gate
	do.Provide(injector, func(i do.Injector) (*triggerService.Gate, error) {
		messages, err := do.Invoke[*messageService.Service](i)
		if err != nil {
			return nil, err
		}
		return triggerService.New(messages, do.MustInvoke[*slog.Logger](i)), nil
	})

	// Register Presenter
	do.Provide(injector, func(i do.Injector) (approvalService.Presenter, error) {
		if cfg.AutoPublish {
			return approvalService.AutoPresenter{EnforceLimits: cfg.EnforceLimits}, nil
		}
		switch cfg.Approval.Frontend {
		case approvalDomain.FrontendRemote:
			messages, err := do.Invoke[*messageService.Service](i)
			if err != nil {
				return nil, err
			}
			return approvalService.NewChatPresenter(messages, cfg.Approval.Timeout, do.MustInvoke[*slog.Logger](i)), nil
		default:
			return terminal.NewPresenter(nil, nil), nil
		}
	})

	// Register Publish Service
	do.Provide(injector, func(i do.Injector) (*publishService.Service, error) {
		var network publishRepo.Network
		if cfg.NeedsMastodon() {
			client, err := do.Invoke[*mastodonClient.Client](i)
			if err != nil {
				return nil, err
			}
			network = client
		}

		var exporter publishRepo.Exporter
		if cfg.Feed.Path != "" {
			exporter = do.MustInvoke[*feedService.Service](i)
		}

		return publishService.New(network, exporter, publishService.Options{
			Visibility:  cfg.Mastodon.Visibility,
			SpoilerText: cfg.Mastodon.SpoilerText,
		}, do.MustInvoke[*slog.Logger](i), do.MustInvoke[*metrics.Recorder](i)), nil
	})

	// Register Workflow Orchestrator
	do.Provide(injector, func(i do.Injector) (*workflowService.Orchestrator, error) {
		source, err := do.Invoke[contentRepo.Repository](i)
		if err != nil {
			return nil, err
		}
		generator, err := do.Invoke[*generationService.Gateway](i)
		if err != nil {
			return nil, err
		}
		publisher, err := do.Invoke[*publishService.Service](i)
		if err != nil {
			return nil, err
		}
		presenter, err := do.Invoke[approvalService.Presenter](i)
		if err != nil {
			return nil, err
		}

		deps := workflowService.Dependencies{
			Source:    source,
			Generator: generator,
			Publisher: publisher,
			Presenter: presenter,
		}
		if cfg.Mode == workflowDomain.ModeReply {
			searcher, err := do.Invoke[*mastodonClient.Client](i)
			if err != nil {
				return nil, err
			}
			deps.Searcher = searcher
		}
		if cfg.TriggerPhrase != "" {
			gate, err := do.Invoke[*triggerService.Gate](i)
			if err != nil {
				return nil, err
			}
			deps.Trigger = gate
		}
		if remote, ok := presenter.(*approvalService.ChatPresenter); ok {
			messages, err := do.Invoke[*messageService.Service](i)
			if err != nil {
				return nil, err
			}
			deps.Notifier = messages
			if cfg.Approval.ConfirmPublish {
				deps.Confirmer = remote
			}
		}

		return workflowService.New(cfg.Settings(), deps, do.MustInvoke[*slog.Logger](i), do.MustInvoke[*metrics.Recorder](i)), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		opts := httpServer.Options{
			Addr:     cfg.Telegram.WebhookListen,
			FeedPath: cfg.Feed.Path,
			Gatherer: do.MustInvoke[*metrics.Recorder](i).Registry(),
		}
		if cfg.NeedsTelegram() && cfg.Telegram.WebhookURL != "" {
			channel, err := do.Invoke[*telegram.Channel](i)
			if err != nil {
				return nil, err
			}
			opts.Webhook = channel.WebhookHandler()
		}
		return httpServer.New(opts, do.MustInvoke[*slog.Logger](i)), nil
	})

	return injector
}
