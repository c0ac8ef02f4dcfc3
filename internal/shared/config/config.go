package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	approvalDomain "github.com/reshetovitsme/autopost/internal/modules/approval/domain"
	contentDomain "github.com/reshetovitsme/autopost/internal/modules/content/domain"
	publishDomain "github.com/reshetovitsme/autopost/internal/modules/publish/domain"
	workflowDomain "github.com/reshetovitsme/autopost/internal/modules/workflow/domain"
	"github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

const (
	envPrefix     = "AUTOPOST_"
	openRouterURL = "https://openrouter.ai/api/v1"
)

// envAliases maps the plain variable names used by existing deployments onto config keys.
var envAliases = map[string]string{
	"NOTION_API_TOKEN":      "notion.api_token",
	"OPENAI_API_KEY":        "llm.api_key",
	"OPENROUTER_API_KEY":    "llm.api_key",
	"MASTODON_INSTANCE_URL": "mastodon.instance_url",
	"MASTODON_ACCESS_TOKEN": "mastodon.access_token",
	"TELEGRAM_BOT_TOKEN":    "telegram.bot_token",
	"TELEGRAM_CHAT_ID":      "telegram.chat_id",
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"mode":         "mode",
	"source":       "source.id",
	"source-kind":  "source.kind",
	"platforms":    "platforms",
	"tone":         "tone",
	"auto-publish": "auto_publish",
	"approval":     "approval.frontend",
	"trigger":      "trigger_phrase",
	"image":        "image.enabled",
	"log-level":    "log.level",
}

var defaults = map[string]any{
	"app_env":                      "production",
	"mode":                         "post",
	"source.kind":                  "notion",
	"source.dir":                   ".",
	"platforms":                    []string{"mastodon"},
	"char_limits":                  map[string]any{"mastodon": 500, "twitter": 280, "instagram": 2200, "linkedin": 3000, "facebook": 5000},
	"tone":                         "engaging",
	"auto_publish":                 false,
	"enforce_limits":               true,
	"approval.frontend":            "local",
	"approval.timeout":             "0s",
	"approval.max_regenerations":   0,
	"approval.confirm_publish":     true,
	"mastodon.visibility":          "public",
	"mastodon.requests_per_second": 1.0,
	"telegram.webhook_listen":      ":8080",
	"llm.model":                    "gpt-4o-mini",
	"llm.temperature":              0.7,
	"image.model":                  "dall-e-3",
	"image.size":                   "1024x1024",
	"reply.platform":               "mastodon",
	"reply.max_keywords":           5,
	"reply.search_limit":           5,
	"feed.title":                   "autopost drafts",
	"metrics.job":                  "autopost",
	"log.level":                    "info",
}

type SourceConfig struct {
	Kind contentDomain.SourceKind `koanf:"kind"`
	ID   string                   `koanf:"id"`
	Dir  string                   `koanf:"dir"`
}

type ApprovalConfig struct {
	Frontend         approvalDomain.Frontend `koanf:"frontend"`
	Timeout          time.Duration           `koanf:"timeout" validate:"gte=0"`
	MaxRegenerations int                     `koanf:"max_regenerations" validate:"gte=0"`
	// ConfirmPublish asks the remote reviewer for a final publish-all before anything goes out.
	ConfirmPublish   bool                    `koanf:"confirm_publish"`
}

type MastodonConfig struct {
	InstanceURL       string                   `koanf:"instance_url" validate:"omitempty,url"`
	AccessToken       string                   `koanf:"access_token"`
	Visibility        publishDomain.Visibility `koanf:"visibility"`
	SpoilerText       string                   `koanf:"spoiler_text"`
	RequestsPerSecond float64                  `koanf:"requests_per_second" validate:"gte=0"`
}

type TelegramConfig struct {
	BotToken      string  `koanf:"bot_token"`
	ChatID        int64   `koanf:"chat_id"`
	AllowedUsers  []int64 `koanf:"allowed_users"`
	APIURL        string  `koanf:"api_url" validate:"omitempty,url"`
	WebhookURL    string  `koanf:"webhook_url" validate:"omitempty,url"`
	WebhookSecret string  `koanf:"webhook_secret"`
	WebhookListen string  `koanf:"webhook_listen"`
}

type NotionConfig struct {
	APIToken string `koanf:"api_token"`
}

type LLMConfig struct {
	APIKey      string  `koanf:"api_key"`
	BaseURL     string  `koanf:"base_url" validate:"omitempty,url"`
	Model       string  `koanf:"model" validate:"required"`
	Temperature float64 `koanf:"temperature" validate:"gte=0,lte=2"`
}

type ImageConfig struct {
	Enabled bool   `koanf:"enabled"`
	Model   string `koanf:"model"`
	Size    string `koanf:"size"`
}

type ReplyConfig struct {
	Platform    string `koanf:"platform"`
	MaxKeywords int    `koanf:"max_keywords" validate:"gte=1"`
	SearchLimit int    `koanf:"search_limit" validate:"gte=1"`
}

type FeedConfig struct {
	Path  string `koanf:"path"`
	Title string `koanf:"title"`
	Link  string `koanf:"link"`
}

type MetricsConfig struct {
	PushgatewayURL string `koanf:"pushgateway_url" validate:"omitempty,url"`
	Job            string `koanf:"job"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	File  string `koanf:"file"`
}

type Config struct {
	AppEnv        workflowDomain.AppEnv `koanf:"app_env"`
	Mode          workflowDomain.Mode   `koanf:"mode"`
	Source        SourceConfig          `koanf:"source"`
	Platforms     []string              `koanf:"platforms" validate:"min=1,dive,required"`
	CharLimits    map[string]int        `koanf:"char_limits" validate:"dive,gte=0"`
	Tone          string                `koanf:"tone"`
	AutoPublish   bool                  `koanf:"auto_publish"`
	EnforceLimits bool                  `koanf:"enforce_limits"`
	TriggerPhrase string                `koanf:"trigger_phrase"`
	Approval      ApprovalConfig        `koanf:"approval"`
	Mastodon      MastodonConfig        `koanf:"mastodon"`
	Telegram      TelegramConfig        `koanf:"telegram"`
	Notion        NotionConfig          `koanf:"notion"`
	LLM           LLMConfig             `koanf:"llm"`
	Image         ImageConfig           `koanf:"image"`
	Reply         ReplyConfig           `koanf:"reply"`
	Feed          FeedConfig            `koanf:"feed"`
	Metrics       MetricsConfig         `koanf:"metrics"`
	Log           LogConfig             `koanf:"log"`
}

// Options controls where Load looks for configuration
type Options struct {
	// ConfigFile is an explicit config path; when empty the working directory and
	// the XDG config home are searched.
	ConfigFile string
	// EnvFile is the dotenv file to read; ".env" when empty.
	EnvFile string
	// Flags carries CLI overrides. Only flags the user actually set are applied.
	Flags *pflag.FlagSet
}

// Load resolves configuration from defaults, the dotenv file, a config file, the
// environment and CLI flags, later sources winning.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, oops.With("key", key).Wrap(err)
		}
	}

	dotenv, err := loadDotenv(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	for name, value := range dotenv {
		if key := envKey(name, dotenvLookup(dotenv)); key != "" {
			if err := k.Set(key, value); err != nil {
				return nil, oops.With("key", key).Wrap(err)
			}
		}
	}

	if configFile, found := findConfigFile(opts.ConfigFile); found {
		parser, err := parserFor(configFile)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	} else if opts.ConfigFile != "" {
		return nil, oops.With("config_file", opts.ConfigFile).Errorf("config file not found")
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, any) {
		return envKey(name, os.LookupEnv), value
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, flagValue(opts.Flags, f)
		}), nil); err != nil {
			return nil, oops.With("context", "loading flags").Wrap(err)
		}
	}

	// Comma-separated strings from the environment
	if v, ok := k.Get("telegram.allowed_users").(string); ok {
		k.Set("telegram.allowed_users", ParseAllowedUsers(v))
	}
	if v, ok := k.Get("platforms").(string); ok {
		k.Set("platforms", ParsePlatforms(v))
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}
	cfg.Platforms = ParsePlatforms(strings.Join(cfg.Platforms, ","))

	if cfg.LLM.BaseURL == "" && usesOpenRouter(dotenv) {
		cfg.LLM.BaseURL = openRouterURL
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Config(err, "validation")
	}

	return &cfg, nil
}

// envKey maps an environment variable name to a config key, or "" to skip it.
// AUTOPOST_ variables nest on double underscores: AUTOPOST_LLM__API_KEY is llm.api_key.
func envKey(name string, lookup func(string) (string, bool)) string {
	if strings.HasPrefix(name, envPrefix) {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, envPrefix)), "__", ".")
	}
	key, ok := envAliases[name]
	if !ok {
		return ""
	}
	// an explicit OpenAI key wins over the OpenRouter one
	if name == "OPENROUTER_API_KEY" {
		if _, set := lookup("OPENAI_API_KEY"); set {
			return ""
		}
	}
	return key
}

func dotenvLookup(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if v, ok := values[name]; ok {
			return v, true
		}
		return os.LookupEnv(name)
	}
}

func usesOpenRouter(dotenv map[string]string) bool {
	lookup := dotenvLookup(dotenv)
	_, openRouter := lookup("OPENROUTER_API_KEY")
	_, openAI := lookup("OPENAI_API_KEY")
	return openRouter && !openAI
}

func loadDotenv(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return map[string]string{}, nil
		}
		return nil, oops.With("env_file", path).Wrap(err)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, oops.With("env_file", path, "context", "failed to parse env file").Wrap(err)
	}
	return values, nil
}

func findConfigFile(explicit string) (string, bool) {
	if explicit != "" {
		_, err := os.Stat(explicit)
		return explicit, err == nil
	}

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}
	if configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	}); found {
		return configFile, true
	}

	if path, err := xdg.SearchConfigFile(filepath.Join("autopost", "config.yaml")); err == nil {
		return path, true
	}
	return "", false
}

func parserFor(configFile string) (koanf.Parser, error) {
	switch ext := filepath.Ext(configFile); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, oops.Errorf("unsupported config file extension: %s", ext)
	}
}

func flagValue(fs *pflag.FlagSet, f *pflag.Flag) any {
	switch f.Value.Type() {
	case "bool":
		v, _ := fs.GetBool(f.Name)
		return v
	case "stringSlice":
		v, _ := fs.GetStringSlice(f.Name)
		return v
	}
	return f.Value.String()
}

// normalize parses enum fields case-insensitively and fills derived values.
func (c *Config) normalize() error {
	appEnv, err := workflowDomain.ParseAppEnv(string(c.AppEnv))
	if err != nil {
		return errors.Config(err, "app_env")
	}
	c.AppEnv = appEnv

	mode, err := workflowDomain.ParseMode(string(c.Mode))
	if err != nil {
		return errors.Config(err, "mode")
	}
	c.Mode = mode

	kind, err := contentDomain.ParseSourceKind(string(c.Source.Kind))
	if err != nil {
		return errors.Config(oops.Wrap(errors.ErrUnsupportedSource), "source.kind")
	}
	c.Source.Kind = kind

	frontend, err := approvalDomain.ParseFrontend(string(c.Approval.Frontend))
	if err != nil {
		return errors.Config(err, "approval.frontend")
	}
	c.Approval.Frontend = frontend

	visibility, err := publishDomain.ParseVisibility(string(c.Mastodon.Visibility))
	if err != nil {
		return errors.Config(err, "mastodon.visibility")
	}
	c.Mastodon.Visibility = visibility

	c.CharLimits = lo.MapKeys(c.CharLimits, func(_ int, platform string) string {
		return strings.ToLower(platform)
	})
	c.Reply.Platform = strings.ToLower(c.Reply.Platform)
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.AppEnv == workflowDomain.AppEnvLocal || c.AppEnv == workflowDomain.AppEnvDevelopment {
		c.Log.Level = "debug"
	}
	return nil
}

// ValidateRun checks the credentials and ids a workflow run needs
func (c *Config) ValidateRun() error {
	if c.Source.ID == "" {
		return errors.Config(oops.Wrap(errors.ErrMissingSourceID), "source.id")
	}
	if c.Source.Kind == contentDomain.SourceKindNotion && c.Notion.APIToken == "" {
		return errors.Config(oops.Wrap(errors.ErrMissingNotionKey), "notion.api_token")
	}
	if c.LLM.APIKey == "" {
		return errors.Config(oops.Wrap(errors.ErrMissingLLMKey), "llm.api_key")
	}
	if c.NeedsMastodon() && (c.Mastodon.InstanceURL == "" || c.Mastodon.AccessToken == "") {
		return errors.Config(oops.Wrap(errors.ErrMissingMastodon), "mastodon")
	}
	if c.NeedsTelegram() {
		if c.Telegram.BotToken == "" {
			return errors.Config(oops.Wrap(errors.ErrMissingBotToken), "telegram.bot_token")
		}
		if c.Telegram.ChatID == 0 {
			return errors.Config(oops.Wrap(errors.ErrMissingChatID), "telegram.chat_id")
		}
	}
	return nil
}

// NeedsMastodon reports whether the run posts to or searches Mastodon
func (c *Config) NeedsMastodon() bool {
	if c.Mode == workflowDomain.ModeReply {
		return c.Reply.Platform == "mastodon"
	}
	return lo.Contains(c.Platforms, "mastodon")
}

// NeedsTelegram reports whether the run waits on the messaging channel
func (c *Config) NeedsTelegram() bool {
	if c.TriggerPhrase != "" {
		return true
	}
	return !c.AutoPublish && c.Approval.Frontend == approvalDomain.FrontendRemote
}

// Settings converts the configuration into the settings of one workflow run
func (c *Config) Settings() workflowDomain.Settings {
	return workflowDomain.Settings{
		Mode:             c.Mode,
		SourceID:         c.Source.ID,
		Platforms:        c.Platforms,
		CharLimits:       c.CharLimits,
		Tone:             c.Tone,
		AutoPublish:      c.AutoPublish,
		EnforceLimits:    c.EnforceLimits,
		TriggerPhrase:    c.TriggerPhrase,
		MaxRegenerations: c.Approval.MaxRegenerations,
		ImageEnabled:     c.Image.Enabled,
		ReplyPlatform:    c.Reply.Platform,
		MaxKeywords:      c.Reply.MaxKeywords,
		SearchLimit:      c.Reply.SearchLimit,
	}
}

// ParsePlatforms splits a comma-separated platform list, lowercasing and dropping duplicates
func ParsePlatforms(s string) []string {
	parts := strings.Split(s, ",")
	return lo.Uniq(lo.FilterMap(parts, func(part string, _ int) (string, bool) {
		part = strings.ToLower(strings.TrimSpace(part))
		return part, part != ""
	}))
}

// ParseAllowedUsers parses comma-separated user IDs string into []int64
func ParseAllowedUsers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}
