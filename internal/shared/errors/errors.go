package errors

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Error codes attached to oops errors. Each code has a matching sentinel so callers
// can branch with errors.Is without depending on oops.
const (
	CodeFetchFailure      = "fetch_failure"
	CodeGenerationFailure = "generation_failure"
	CodeLimitExceeded     = "limit_exceeded"
	CodePublishFailure    = "publish_failure"
	CodeChannelFailure    = "channel_failure"
	CodeSearchFailure     = "search_failure"
	CodeConfig            = "config_error"
)

var (
	ErrFetchFailure      = errors.New("source fetch failed")
	ErrGenerationFailure = errors.New("content generation failed")
	ErrLimitExceeded     = errors.New("draft exceeds character limit")
	ErrPublishFailure    = errors.New("publish failed")
	ErrChannelFailure    = errors.New("messaging channel failed")
	ErrSearchFailure     = errors.New("network search failed")
)

// Causes reported by external collaborators.
var (
	ErrNotFound          = errors.New("not found")
	ErrAuthFailure       = errors.New("authentication failed")
	ErrRateLimited       = errors.New("rate limited")
	ErrMalformedResponse = errors.New("malformed response")
	ErrTimeout           = errors.New("timed out")
)

// Configuration errors.
var (
	ErrMissingBotToken   = errors.New("telegram bot token is required (TELEGRAM_BOT_TOKEN or telegram.bot_token)")
	ErrMissingChatID     = errors.New("telegram chat id is required (TELEGRAM_CHAT_ID or telegram.chat_id)")
	ErrMissingLLMKey     = errors.New("llm api key is required (OPENAI_API_KEY, OPENROUTER_API_KEY or llm.api_key)")
	ErrMissingMastodon   = errors.New("mastodon instance_url and access_token are required")
	ErrMissingNotionKey  = errors.New("notion api token is required (NOTION_API_TOKEN or notion.api_token)")
	ErrMissingSourceID   = errors.New("source id is required")
	ErrUnauthorized      = errors.New("unauthorized user")
	ErrUnsupportedSource = errors.New("unsupported source kind")
)

// FetchFailure wraps a document-store error.
func FetchFailure(cause error, sourceID string) error {
	return oops.
		Code(CodeFetchFailure).
		In("source").
		With("source_id", sourceID).
		Wrap(join(ErrFetchFailure, cause))
}

// GenerationFailure wraps a completion error and names the affected targets.
func GenerationFailure(cause error, targets ...string) error {
	return oops.
		Code(CodeGenerationFailure).
		In("generation").
		With("targets", targets).
		Wrap(join(ErrGenerationFailure, cause))
}

func LimitExceeded(target string, length, limit int) error {
	return oops.
		Code(CodeLimitExceeded).
		In("approval").
		With("target", target, "length", length, "limit", limit).
		Wrap(fmt.Errorf("%w: %d > %d", ErrLimitExceeded, length, limit))
}

func PublishFailure(cause error, target string) error {
	return oops.
		Code(CodePublishFailure).
		In("publish").
		With("target", target).
		Wrap(join(ErrPublishFailure, cause))
}

func ChannelFailure(cause error) error {
	return oops.
		Code(CodeChannelFailure).
		In("messaging").
		Wrap(join(ErrChannelFailure, cause))
}

func SearchFailure(cause error, query string) error {
	return oops.
		Code(CodeSearchFailure).
		In("search").
		With("query", query).
		Wrap(join(ErrSearchFailure, cause))
}

// Config builds a configuration error with the offending key attached.
func Config(cause error, key string) error {
	return oops.
		Code(CodeConfig).
		In("config").
		With("key", key).
		Wrap(cause)
}

func join(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
