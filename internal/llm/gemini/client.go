package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Rorical/StoreAgent/internal/llm"
)

const DefaultModel = "gemini-2.5-flash"

var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY is not set")

// Client implements llm.Model on top of the Gemini API
type Client struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates a Gemini client. Without an API key the client is still
// returned, but every Generate call fails with ErrMissingAPIKey.
func NewClient(ctx context.Context, apiKey, model string, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("provider", "gemini", "model", model)

	if apiKey == "" {
		logger.Warn("no API key configured, requests will fail")
		return &Client{model: model, logger: logger}, nil
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (c *Client) Name() string {
	return "gemini/" + c.model
}

// chatRequest is one Generate call split the way the chat session wants it:
// prior contents as history and the final user-side content as the new turn.
type chatRequest struct {
	system  *genai.Content
	tools   []*genai.Tool
	history []*genai.Content
	last    *genai.Content
}

func newChatRequest(req llm.Request) (chatRequest, error) {
	contents := mergeFunctionResponses(Contents(req.Messages))
	if len(contents) == 0 {
		return chatRequest{}, llm.ErrEmptyConversation
	}
	last := contents[len(contents)-1]
	if last.Role != roleUser {
		return chatRequest{}, fmt.Errorf("last content must come from the user side, got %q", last.Role)
	}

	out := chatRequest{
		system:  SystemInstruction(req.Messages),
		history: contents[:len(contents)-1],
		last:    last,
	}
	if tool := Tools(req.Tools); tool != nil {
		out.tools = []*genai.Tool{tool}
	}
	return out, nil
}

// Generate sends the whole conversation as chat history and the last
// content block as the new turn.
func (c *Client) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if c.client == nil {
		return nil, ErrMissingAPIKey
	}
	cr, err := newChatRequest(req)
	if err != nil {
		return nil, err
	}

	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = cr.system
	model.Tools = cr.tools

	chat := model.StartChat()
	chat.History = cr.history

	c.logger.Debug("generate content", "history", len(cr.history), "tools", len(req.Tools))
	resp, err := chat.SendMessage(ctx, cr.last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	return Parse(resp)
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// mergeFunctionResponses folds adjacent function-response blocks into one,
// since the API expects all responses to a call turn in a single content.
func mergeFunctionResponses(contents []*genai.Content) []*genai.Content {
	merged := make([]*genai.Content, 0, len(contents))
	for _, c := range contents {
		if n := len(merged); n > 0 && onlyFunctionResponses(c) && onlyFunctionResponses(merged[n-1]) {
			prev := merged[n-1]
			parts := append(append([]genai.Part{}, prev.Parts...), c.Parts...)
			merged[n-1] = &genai.Content{Role: prev.Role, Parts: parts}
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

func onlyFunctionResponses(c *genai.Content) bool {
	if c.Role != roleUser || len(c.Parts) == 0 {
		return false
	}
	for _, part := range c.Parts {
		if _, ok := part.(genai.FunctionResponse); !ok {
			return false
		}
	}
	return true
}
