package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"google.golang.org/api/option"

	"github.com/Rorical/StoreAgent/internal/agent"
	"github.com/Rorical/StoreAgent/internal/catalog"
	"github.com/Rorical/StoreAgent/internal/config"
	"github.com/Rorical/StoreAgent/internal/core"
	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm"
	"github.com/Rorical/StoreAgent/internal/llm/gemini"
	"github.com/Rorical/StoreAgent/internal/llm/openai"
	"github.com/Rorical/StoreAgent/internal/tools"
)

// NewModel builds the model client for the active profile
func NewModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llm.Model, error) {
	switch cfg.GetProvider() {
	case config.ProviderGemini:
		var opts []option.ClientOption
		if cfg.GetBaseURL() != "" {
			opts = append(opts, option.WithEndpoint(cfg.GetBaseURL()))
		}
		return gemini.NewClient(ctx, cfg.GetAPIKey(), cfg.GetModel(), logger, opts...)
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.GetAPIKey(), cfg.GetBaseURL(), cfg.GetModel(), logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.GetProvider())
	}
}

// CloseModel releases the model's client if it holds one
func CloseModel(model llm.Model) error {
	if closer, ok := model.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NewRegistry loads the configured catalog and registers the store tools
func NewRegistry(cfg *config.Config) (*tools.Registry, *catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	registry := tools.NewRegistry()
	if err := tools.RegisterStoreTools(registry, cat); err != nil {
		return nil, nil, err
	}
	return registry, cat, nil
}

// NewAgent assembles an agent for the active profile around model
func NewAgent(cfg *config.Config, model llm.Model, logger *slog.Logger, opts ...agent.Option) (*agent.Agent, error) {
	registry, cat, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded", "products", len(cat.Products), "path", cfg.CatalogPath)

	opts = append([]agent.Option{
		agent.WithLogger(logger),
		agent.WithMaxTurns(cfg.GetMaxTurns()),
	}, opts...)
	return agent.New(model, registry, opts...)
}

// ChatBuilder builds the chat agent lazily. The returned release func closes
// whatever model was created.
func ChatBuilder(ctx context.Context, cfg *config.Config, logger *slog.Logger) (core.AgentBuilder, func()) {
	var model llm.Model
	build := func(observe func(conversation.Message)) (core.Runner, error) {
		m, err := NewModel(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		model = m
		a, err := NewAgent(cfg, m, logger, agent.WithObserver(observe))
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	release := func() {
		if model == nil {
			return
		}
		if err := CloseModel(model); err != nil {
			logger.Warn("failed to close model client", "err", err)
		}
	}
	return build, release
}
