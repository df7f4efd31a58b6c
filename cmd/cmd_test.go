package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rorical/StoreAgent/internal/config"
	"github.com/Rorical/StoreAgent/internal/llm"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestToolsCommandJSON(t *testing.T) {
	t.Setenv("STOREAGENT_HOME", t.TempDir())

	out := execute(t, "tools", "--json")
	toolsJSON = false

	var decls []llm.FunctionDeclaration
	require.NoError(t, json.Unmarshal([]byte(out), &decls))
	require.Len(t, decls, 4)
	require.Equal(t, "calculate_price", decls[0].Name)
}

func TestProfileAddWithFlags(t *testing.T) {
	home := t.TempDir()
	t.Setenv("STOREAGENT_HOME", home)

	execute(t, "profile", "add", "local", "--provider", "openai", "--base-url", "http://localhost:11434/v1")
	addFlags = config.Profile{}

	cfg, err := config.LoadConfigFrom(filepath.Join(home, ".storeagent", "config.json"))
	require.NoError(t, err)
	require.Equal(t, config.Profile{
		Provider: config.ProviderOpenAI,
		BaseURL:  "http://localhost:11434/v1",
		Model:    "gpt-4o-mini",
	}, cfg.Profiles["local"])
	require.Equal(t, "default", cfg.ActiveProfile)
}

func TestProfileFromFlagsRejectsUnknownProvider(t *testing.T) {
	_, err := profileFromFlags(config.Profile{Provider: "carrier-pigeon"})
	require.Error(t, err)
}

func TestRemoveProfile(t *testing.T) {
	cfg := &config.Config{
		Profiles: map[string]config.Profile{
			"a": {Provider: config.ProviderGemini, Model: "g"},
			"b": {Provider: config.ProviderOpenAI, Model: "o"},
		},
		ActiveProfile: "b",
	}

	removeProfile(cfg, "b")
	require.Equal(t, "a", cfg.ActiveProfile)

	removeProfile(cfg, "a")
	require.Equal(t, "default", cfg.ActiveProfile)
	require.Equal(t, config.DefaultProfile(), cfg.Profiles["default"])
}
