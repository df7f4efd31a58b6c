package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/StoreAgent/internal/llm"
)

const DefaultModel = "gpt-4o-mini"

// Client implements llm.Model for any OpenAI-compatible endpoint
type Client struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewClient(apiKey, baseURL, model string, logger *slog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger.With("provider", "openai", "model", model),
	}
}

func (c *Client) Name() string {
	return "openai/" + c.model
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	messages := Messages(req.Messages)
	if len(messages) == 0 {
		return nil, llm.ErrEmptyConversation
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if len(req.Tools) > 0 {
		chatReq.Tools = Tools(req.Tools)
	}

	c.logger.Debug("create chat completion", "messages", len(messages), "tools", len(req.Tools))
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	return Parse(resp, c.logger)
}
