package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	approvalDomain "github.com/reshetovitsme/autopost/internal/modules/approval/domain"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	publishDomain "github.com/reshetovitsme/autopost/internal/modules/publish/domain"
	workflowDomain "github.com/reshetovitsme/autopost/internal/modules/workflow/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with none of the alias variables set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	xdg.Reload()
	for name := range envAliases {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, workflowDomain.AppEnvProduction, cfg.AppEnv)
	assert.Equal(t, workflowDomain.ModePost, cfg.Mode)
	assert.Equal(t, contentDomain.SourceKindNotion, cfg.Source.Kind)
	assert.Equal(t, []string{"mastodon"}, cfg.Platforms)
	assert.Equal(t, 500, cfg.CharLimits["mastodon"])
	assert.Equal(t, 280, cfg.CharLimits["twitter"])
	assert.Equal(t, "engaging", cfg.Tone)
	assert.False(t, cfg.AutoPublish)
	assert.True(t, cfg.EnforceLimits)
	assert.Equal(t, approvalDomain.FrontendLocal, cfg.Approval.Frontend)
	assert.Equal(t, time.Duration(0), cfg.Approval.Timeout)
	assert.Equal(t, 0, cfg.Approval.MaxRegenerations)
	assert.True(t, cfg.Approval.ConfirmPublish)
	assert.Equal(t, publishDomain.VisibilityPublic, cfg.Mastodon.Visibility)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 5, cfg.Reply.MaxKeywords)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AUTOPOST_TONE=dotenv\nAUTOPOST_MODE=reply\nAUTOPOST_LLM__MODEL=dotenv-model\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("tone: file\nmode: reply\nchar_limits:\n  twitter: 200\napproval:\n  timeout: 90s\n"), 0o644))
	t.Setenv("AUTOPOST_MODE", "post")
	t.Setenv("AUTOPOST_APPROVAL__MAX_REGENERATIONS", "3")

	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.String("tone", "", "")
	flags.String("mode", "", "")
	flags.Bool("auto-publish", false, "")
	require.NoError(t, flags.Parse([]string{"--auto-publish"}))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Tone, "file beats .env")
	assert.Equal(t, "dotenv-model", cfg.LLM.Model, ".env beats defaults")
	assert.Equal(t, workflowDomain.ModePost, cfg.Mode, "environment beats file")
	assert.Equal(t, 3, cfg.Approval.MaxRegenerations)
	assert.Equal(t, 90*time.Second, cfg.Approval.Timeout)
	assert.Equal(t, 200, cfg.CharLimits["twitter"])
	assert.Equal(t, 500, cfg.CharLimits["mastodon"], "file maps merge with defaults")
	assert.True(t, cfg.AutoPublish, "flags beat everything")
}

func TestLoadFlagOverridesEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("AUTOPOST_TONE", "env")

	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.String("tone", "", "")
	flags.StringSlice("platforms", nil, "")
	require.NoError(t, flags.Parse([]string{"--tone", "witty", "--platforms", "Twitter,mastodon"}))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "witty", cfg.Tone)
	assert.Equal(t, []string{"twitter", "mastodon"}, cfg.Platforms)
}

func TestLoadAliases(t *testing.T) {
	isolate(t)
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")
	t.Setenv("AUTOPOST_TELEGRAM__ALLOWED_USERS", "1, 2,x")
	t.Setenv("AUTOPOST_PLATFORMS", "mastodon, twitter")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "or-key", cfg.LLM.APIKey)
	assert.Equal(t, openRouterURL, cfg.LLM.BaseURL)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, int64(-100200), cfg.Telegram.ChatID)
	assert.Equal(t, []int64{1, 2}, cfg.Telegram.AllowedUsers)
	assert.Equal(t, []string{"mastodon", "twitter"}, cfg.Platforms)
}

func TestLoadOpenAIKeyWins(t *testing.T) {
	isolate(t)
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "oa-key", cfg.LLM.APIKey)
	assert.Empty(t, cfg.LLM.BaseURL)
}

func TestLoadDebugForLocalEnv(t *testing.T) {
	isolate(t)
	t.Setenv("AUTOPOST_APP_ENV", "local")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]struct {
		env  map[string]string
		opts Options
	}{
		"bad mode":         {env: map[string]string{"AUTOPOST_MODE": "broadcast"}},
		"bad source kind":  {env: map[string]string{"AUTOPOST_SOURCE__KIND": "confluence"}},
		"bad frontend":     {env: map[string]string{"AUTOPOST_APPROVAL__FRONTEND": "carrier-pigeon"}},
		"bad log level":    {env: map[string]string{"AUTOPOST_LOG__LEVEL": "loud"}},
		"negative timeout": {env: map[string]string{"AUTOPOST_APPROVAL__TIMEOUT": "-1s"}},
		"missing config":   {opts: Options{ConfigFile: "nope.yaml"}},
		"missing env file": {opts: Options{EnvFile: "nope.env"}},
		"bad instance url": {env: map[string]string{"MASTODON_INSTANCE_URL": "not a url"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(tt.opts)

			assert.Error(t, err)
		})
	}
}

func TestLoadUnsupportedSource(t *testing.T) {
	isolate(t)
	t.Setenv("AUTOPOST_SOURCE__KIND", "confluence")

	_, err := Load(Options{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnsupportedSource))
}

func TestValidateRun(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Mode:      workflowDomain.ModePost,
			Source:    SourceConfig{Kind: contentDomain.SourceKindFile, ID: "widget"},
			Platforms: []string{"mastodon"},
			Approval:  ApprovalConfig{Frontend: approvalDomain.FrontendLocal},
			Mastodon:  MastodonConfig{InstanceURL: "https://m.example", AccessToken: "t"},
			LLM:       LLMConfig{APIKey: "k"},
			Reply:     ReplyConfig{Platform: "mastodon"},
		}
	}

	tests := map[string]struct {
		mutate func(c *Config)
		want   error
	}{
		"valid":               {mutate: func(c *Config) {}},
		"no source id":        {mutate: func(c *Config) { c.Source.ID = "" }, want: apperrors.ErrMissingSourceID},
		"notion without key":  {mutate: func(c *Config) { c.Source.Kind = contentDomain.SourceKindNotion }, want: apperrors.ErrMissingNotionKey},
		"no llm key":          {mutate: func(c *Config) { c.LLM.APIKey = "" }, want: apperrors.ErrMissingLLMKey},
		"no mastodon token":   {mutate: func(c *Config) { c.Mastodon.AccessToken = "" }, want: apperrors.ErrMissingMastodon},
		"mastodon not needed": {mutate: func(c *Config) {
			c.Mastodon = MastodonConfig{}
			c.Platforms = []string{"twitter"}
		}},
		"trigger without bot": {mutate: func(c *Config) { c.TriggerPhrase = "post_mastodon" }, want: apperrors.ErrMissingBotToken},
		"remote without chat": {mutate: func(c *Config) {
			c.Approval.Frontend = approvalDomain.FrontendRemote
			c.Telegram.BotToken = "123:abc"
		}, want: apperrors.ErrMissingChatID},
		"remote with auto publish": {mutate: func(c *Config) {
			c.Approval.Frontend = approvalDomain.FrontendRemote
			c.AutoPublish = true
		}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.ValidateRun()

			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestSettings(t *testing.T) {
	cfg := &Config{
		Mode:          workflowDomain.ModeReply,
		Source:        SourceConfig{ID: "widget"},
		Platforms:     []string{"mastodon"},
		CharLimits:    map[string]int{"mastodon": 500},
		Tone:          "witty",
		EnforceLimits: true,
		TriggerPhrase: "go",
		Approval:      ApprovalConfig{MaxRegenerations: 2},
		Image:         ImageConfig{Enabled: true},
		Reply:         ReplyConfig{Platform: "mastodon", MaxKeywords: 4, SearchLimit: 6},
	}

	s := cfg.Settings()

	assert.Equal(t, workflowDomain.ModeReply, s.Mode)
	assert.Equal(t, "widget", s.SourceID)
	assert.Equal(t, 500, s.CharLimit("Mastodon"))
	assert.Equal(t, 2, s.MaxRegenerations)
	assert.True(t, s.ImageEnabled)
	assert.Equal(t, 4, s.MaxKeywords)
	assert.Equal(t, 6, s.SearchLimit)
}

func TestParseAllowedUsers(t *testing.T) {
	tests := map[string]struct {
		in   string
		want []int64
	}{
		"empty":    {in: "", want: []int64{}},
		"single":   {in: "42", want: []int64{42}},
		"multiple": {in: "1, 2,3", want: []int64{1, 2, 3}},
		"invalid":  {in: "1,abc,,3", want: []int64{1, 3}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAllowedUsers(tt.in))
		})
	}
}

func TestParsePlatforms(t *testing.T) {
	assert.Equal(t, []string{"mastodon", "twitter"}, ParsePlatforms(" Mastodon,twitter,,MASTODON "))
	assert.Empty(t, ParsePlatforms(""))
}
