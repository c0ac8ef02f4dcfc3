package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/reshetovitsme/autopost/internal/modules/content/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/oops"
)

// Settings configures the OpenAI-compatible backend.
type Settings struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	ImageModel  string
	ImageSize   string
}

func (s Settings) requestOptions() []option.RequestOption {
	// retries are the caller's decision
	opts := []option.RequestOption{option.WithAPIKey(s.APIKey), option.WithMaxRetries(0)}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return opts
}

// OpenAICompleter implements Completer with chat completions. It works against
// OpenAI and any compatible endpoint such as OpenRouter.
type OpenAICompleter struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewOpenAICompleter creates a completer for the configured model
func NewOpenAICompleter(settings Settings) (*OpenAICompleter, error) {
	if settings.APIKey == "" {
		return nil, oops.Wrap(apperrors.ErrMissingLLMKey)
	}
	if settings.Model == "" {
		return nil, oops.Errorf("llm model is required")
	}

	return &OpenAICompleter{
		client:      openai.NewClient(settings.requestOptions()...),
		model:       settings.Model,
		temperature: settings.Temperature,
	}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
	}
	if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.Schema.Name,
					Schema: req.Schema.Definition,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", oops.With("model", c.model).Wrap(apiCause(err))
	}
	if len(resp.Choices) == 0 {
		return "", oops.With("model", c.model, "context", "empty choices").Wrap(apperrors.ErrMalformedResponse)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", oops.With("model", c.model, "context", "empty content").Wrap(apperrors.ErrMalformedResponse)
	}
	return content, nil
}

// OpenAIImageGenerator implements ImageGenerator with the Images API.
type OpenAIImageGenerator struct {
	client openai.Client
	model  string
	size   string
}

// NewOpenAIImageGenerator creates an image generator for the configured model
func NewOpenAIImageGenerator(settings Settings) (*OpenAIImageGenerator, error) {
	if settings.APIKey == "" {
		return nil, oops.Wrap(apperrors.ErrMissingLLMKey)
	}

	return &OpenAIImageGenerator{
		client: openai.NewClient(settings.requestOptions()...),
		model:  settings.ImageModel,
		size:   settings.ImageSize,
	}, nil
}

func (g *OpenAIImageGenerator) Generate(ctx context.Context, prompt string) (*domain.Image, error) {
	params := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(g.model),
		N:      openai.Int(1),
	}
	if g.size != "" {
		params.Size = openai.ImageGenerateParamsSize(g.size)
	}
	// gpt-image models always answer with base64 and reject the parameter
	if !strings.HasPrefix(g.model, "gpt-image") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	resp, err := g.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, oops.With("model", g.model).Wrap(apiCause(err))
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, oops.With("model", g.model, "context", "no image data").Wrap(apperrors.ErrMalformedResponse)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, oops.With("model", g.model).Wrap(errors.Join(apperrors.ErrMalformedResponse, err))
	}

	return &domain.Image{
		Data:      data,
		MediaType: http.DetectContentType(data),
		Prompt:    prompt,
	}, nil
}

// apiCause maps API status codes onto the shared cause sentinels.
func apiCause(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Join(apperrors.ErrAuthFailure, err)
	case http.StatusTooManyRequests:
		return errors.Join(apperrors.ErrRateLimited, err)
	}
	return err
}
