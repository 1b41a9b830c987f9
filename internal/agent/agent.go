// Package agent provides the text-completion backend client for ReqGuard.
// It wraps an OpenAI-compatible chat completion API behind a narrow System
// interface so workflow code and tests never touch the SDK directly.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Request carries one chat completion exchange: a system turn, a user turn,
// and per-call sampling controls. A nil Temperature uses the configured
// default; JSONResponse requests a structured JSON object payload.
type Request struct {
	System       string
	User         string
	Temperature  *float32
	JSONResponse bool
}

// System is the contract workflow nodes use to call the completion backend.
type System interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

type client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

// New creates an agent system from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.RequestTimeoutDuration(),
		logger:      logger.With("system", "agent"),
	}
}

func (c *client) Model() string {
	return c.model
}

func (c *client) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}

	if req.JSONResponse {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	// Reasoning models fix temperature at 1 and reject the legacy
	// max_tokens parameter, so both stay unset for them.
	if isReasoningModel(c.model) {
		chatReq.MaxCompletionTokens = c.maxTokens
	} else {
		chatReq.MaxTokens = c.maxTokens
		chatReq.Temperature = temperature
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
