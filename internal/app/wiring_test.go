package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rorical/StoreAgent/internal/agent"
	"github.com/Rorical/StoreAgent/internal/config"
	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm/llmtest"
)

func loadConfig(t *testing.T, data string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	cfg, err := config.LoadConfigFrom(path)
	require.NoError(t, err)
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewModelSelectsProvider(t *testing.T) {
	cfg := loadConfig(t, `{"profiles":{"p":{"provider":"openai","api_key":"k","model":"gpt-4o-mini"}},"active_profile":"p"}`)
	model, err := NewModel(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	require.Equal(t, "openai/gpt-4o-mini", model.Name())
	require.NoError(t, CloseModel(model))

	cfg = loadConfig(t, `{"profiles":{"p":{"provider":"telegraph","model":"m"}},"active_profile":"p"}`)
	_, err = NewModel(context.Background(), cfg, quietLogger())
	require.ErrorContains(t, err, "unknown provider")
}

func TestNewAgentUsesConfiguredTurnsAndCatalog(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
products:
  - id: kb-001
    name: Mechanical Keyboard
    category: accessories
    price: 120
    stock: 4
`), 0600))

	cfg := loadConfig(t, `{"profiles":{"p":{"provider":"openai","model":"m"}},"active_profile":"p","max_turns":2,"catalog_path":"`+catalogPath+`"}`)

	model := llmtest.NewScriptedModel(llmtest.Calls(conversation.FunctionCall{
		Name: "calculate_price",
		Args: map[string]any{"product": "kb-001", "quantity": 1.0},
	}))
	a, err := NewAgent(cfg, model, quietLogger())
	require.NoError(t, err)

	result := a.Run(context.Background(), agent.Request{Question: "keyboard price?"})
	require.True(t, result.Failed)
	require.Equal(t, "Error: no final answer after 2 turns", result.Output)

	tool := model.Requests()[1].Messages[3]
	require.Equal(t, conversation.RoleTool, tool.Role)
	require.Contains(t, tool.Content, "Mechanical Keyboard")
}

func TestNewRegistryRejectsMissingCatalog(t *testing.T) {
	cfg := loadConfig(t, `{"profiles":{"p":{"provider":"openai","model":"m"}},"active_profile":"p","catalog_path":"/does/not/exist.yaml"}`)
	_, _, err := NewRegistry(cfg)
	require.Error(t, err)
}

func TestChatBuilder(t *testing.T) {
	cfg := loadConfig(t, `{"profiles":{"p":{"provider":"openai","api_key":"k","model":"m"}},"active_profile":"p"}`)
	build, release := ChatBuilder(context.Background(), cfg, quietLogger())
	defer release()

	runner, err := build(func(conversation.Message) {})
	require.NoError(t, err)
	require.IsType(t, &agent.Agent{}, runner)
}

func TestNewModelWithoutKeyAnswersWithError(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	cfg := loadConfig(t, `{"profiles":{"p":{"provider":"gemini","model":"gemini-2.5-flash"}},"active_profile":"p"}`)

	model, err := NewModel(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	defer CloseModel(model)

	a, err := NewAgent(cfg, model, quietLogger())
	require.NoError(t, err)

	result := a.Run(context.Background(), agent.Request{Question: "mouse price?"})
	require.True(t, result.Failed)
	require.True(t, strings.HasPrefix(result.Output, "Error: "), result.Output)
	require.Contains(t, result.Output, "GOOGLE_API_KEY")
}
