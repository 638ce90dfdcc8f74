package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/rustyeddy/fxdash/config"
)

var ErrNoAPIKey = errors.New("llm: no API key")

// OpenAI is an Analyst backed by the chat completions API.
type OpenAI struct {
	client *openai.Client
	cfg    config.LLMConfig
	logger zerolog.Logger
}

// NewOpenAI creates an analyst using cfg.APIKey.
func NewOpenAI(cfg config.LLMConfig, logger zerolog.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewOpenAIWithClient(openai.DefaultConfig(cfg.APIKey), cfg, logger), nil
}

// NewOpenAIWithClient allows a custom endpoint, such as a proxy or a
// compatible local server.
func NewOpenAIWithClient(clientCfg openai.ClientConfig, cfg config.LLMConfig, logger zerolog.Logger) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger.With().Str("component", "openai_analyst").Logger(),
	}
}

// FromConfig returns nil when the analyst is disabled or has no key.
func FromConfig(cfg config.LLMConfig, logger zerolog.Logger) Analyst {
	if !cfg.Enabled {
		return nil
	}
	a, err := NewOpenAI(cfg, logger)
	if err != nil {
		logger.Info().Msg("OpenAI API key not provided - using basic analysis only")
		return nil
	}
	return a
}

func (o *OpenAI) Analyze(ctx context.Context, b Brief) (Analysis, error) {
	prompt, err := Prompt(b)
	if err != nil {
		return Analysis{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.TimeoutDuration())
	defer cancel()

	o.logger.Debug().Int("events", len(b.Events)).Int("news", len(b.News)).Msg("requesting market analysis")
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Analysis{}, errors.New("chat completion returned no choices")
	}
	return ParseResponse(resp.Choices[0].Message.Content), nil
}
