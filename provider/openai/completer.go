package openai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mynk/notebook/provider"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements provider.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *provider.Config, httpClient *http.Client) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.CompletionAPIKey
	if token == "" {
		token = "none"
	}

	opts := []openai.Option{
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(token),
		openai.WithModel(config.CompletionModel),
	}
	if httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(httpClient))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns provider.Completer interface to enforce abstraction.
func NewCompleter(config *provider.Config, httpClient *http.Client) (provider.Completer, error) {
	return newCompleter(config, httpClient)
}

// Complete sends the prompt to the chat model and decodes the first choice
// into a Completion. A delivered response without usable text is reported
// through Completion.OK rather than an error.
func (c *Completer) Complete(ctx context.Context, prompt string) (provider.Completion, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return provider.Completion{}, err
	}

	if len(response.Choices) < 1 {
		c.logger.Warn("no choices returned from model")
		return provider.Completion{ErrorDetail: "no choices returned"}, nil
	}

	text := strings.TrimSpace(response.Choices[0].Content)
	if text == "" {
		return provider.Completion{ErrorDetail: "empty completion text"}, nil
	}

	return provider.Completion{OK: true, Text: text}, nil
}
