package di

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	approvalDomain "github.com/reshetovitsme/autopost/internal/modules/approval/domain"
	approvalService "github.com/reshetovitsme/autopost/internal/modules/approval/service"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	contentRepo "github.com/reshetovitsme/autopost/internal/modules/content/repository"
	publishDomain "github.com/reshetovitsme/autopost/internal/modules/publish/domain"
	workflowDomain "github.com/reshetovitsme/autopost/internal/modules/workflow/domain"
	workflowService "github.com/reshetovitsme/autopost/internal/modules/workflow/service"
	"github.com/reshetovitsme/autopost/internal/shared/config"
	httpServer "github.com/reshetovitsme/autopost/internal/transport/http"
	"github.com/reshetovitsme/autopost/internal/transport/terminal"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Mode:          workflowDomain.ModePost,
		Source:        config.SourceConfig{Kind: contentDomain.SourceKindFile, ID: "widget", Dir: t.TempDir()},
		Platforms:     []string{"twitter"},
		CharLimits:    map[string]int{"twitter": 280},
		Tone:          "engaging",
		AutoPublish:   true,
		EnforceLimits: true,
		Approval:      config.ApprovalConfig{Frontend: approvalDomain.FrontendLocal},
		Mastodon:      config.MastodonConfig{Visibility: publishDomain.VisibilityPublic},
		LLM:           config.LLMConfig{APIKey: "key", Model: "gpt-4o-mini"},
		Reply:         config.ReplyConfig{Platform: "mastodon", MaxKeywords: 5, SearchLimit: 5},
		Feed:          config.FeedConfig{Path: "feed.xml", Title: "autopost drafts"},
		Metrics:       config.MetricsConfig{Job: "autopost"},
	}
}

func TestSetupBuildsOrchestratorWithoutNetworkClients(t *testing.T) {
	injector := Setup(testConfig(t), slog.Default())

	orchestrator, err := do.Invoke[*workflowService.Orchestrator](injector)

	require.NoError(t, err)
	assert.NotNil(t, orchestrator)
}

func TestSetupSourceKinds(t *testing.T) {
	tests := map[string]struct {
		mutate  func(c *config.Config)
		want    any
		wantErr bool
	}{
		"file":              {mutate: func(c *config.Config) {}, want: &contentRepo.FileStorage{}},
		"rss":               {mutate: func(c *config.Config) { c.Source.Kind = contentDomain.SourceKindRss }, want: &contentRepo.FeedStorage{}},
		"notion":            {mutate: func(c *config.Config) { c.Source.Kind = contentDomain.SourceKindNotion; c.Notion.APIToken = "secret" }, want: &contentRepo.NotionStorage{}},
		"notion no token":   {mutate: func(c *config.Config) { c.Source.Kind = contentDomain.SourceKindNotion }, wantErr: true},
		"missing directory": {mutate: func(c *config.Config) { c.Source.Dir = "/does/not/exist" }, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			injector := Setup(cfg, slog.Default())

			repo, err := do.Invoke[contentRepo.Repository](injector)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, repo)
		})
	}
}

func TestSetupPresenter(t *testing.T) {
	cfg := testConfig(t)
	presenter, err := do.Invoke[approvalService.Presenter](Setup(cfg, slog.Default()))
	require.NoError(t, err)
	assert.IsType(t, approvalService.AutoPresenter{}, presenter)

	cfg.AutoPublish = false
	presenter, err = do.Invoke[approvalService.Presenter](Setup(cfg, slog.Default()))
	require.NoError(t, err)
	assert.IsType(t, &terminal.Presenter{}, presenter)

	cfg.Approval.Frontend = approvalDomain.FrontendRemote
	_, err = do.Invoke[approvalService.Presenter](Setup(cfg, slog.Default()))
	assert.Error(t, err, "remote review needs a bot token")
}

func TestSetupRemoteReviewBuildsOrchestrator(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"id":7,"is_bot":true,"first_name":"autopost"}}`))
	}))
	defer api.Close()

	cfg := testConfig(t)
	cfg.AutoPublish = false
	cfg.Approval = config.ApprovalConfig{Frontend: approvalDomain.FrontendRemote, ConfirmPublish: true}
	cfg.Telegram = config.TelegramConfig{BotToken: "123:abc", ChatID: 42, APIURL: api.URL}
	injector := Setup(cfg, slog.Default())

	presenter, err := do.Invoke[approvalService.Presenter](injector)
	require.NoError(t, err)
	assert.IsType(t, &approvalService.ChatPresenter{}, presenter)

	_, err = do.Invoke[*workflowService.Orchestrator](injector)
	assert.NoError(t, err)
}

func TestSetupRequiresMastodonWhenPosting(t *testing.T) {
	cfg := testConfig(t)
	cfg.Platforms = []string{"mastodon"}

	_, err := do.Invoke[*workflowService.Orchestrator](Setup(cfg, slog.Default()))

	assert.Error(t, err)
}

func TestSetupReplyModeNeedsSearcher(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mode = workflowDomain.ModeReply
	cfg.Mastodon.InstanceURL = "https://mastodon.example"
	cfg.Mastodon.AccessToken = "token"

	orchestrator, err := do.Invoke[*workflowService.Orchestrator](Setup(cfg, slog.Default()))

	require.NoError(t, err)
	assert.NotNil(t, orchestrator)
}

func TestSetupHTTPServer(t *testing.T) {
	server, err := do.Invoke[*httpServer.Server](Setup(testConfig(t), slog.Default()))

	require.NoError(t, err)
	assert.NotNil(t, server.Handler())
}
