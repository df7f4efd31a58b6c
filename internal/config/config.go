package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultProvider = ProviderGemini
	DefaultModel    = "gemini-2.5-flash"
	DefaultMaxTurns = 10
)

// APIKeyEnv maps providers to the environment variable holding their key
var APIKeyEnv = map[string]string{
	ProviderGemini: "GOOGLE_API_KEY",
	ProviderOpenAI: "OPENAI_API_KEY",
}

type Profile struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
	Model    string `json:"model"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	MaxTurns       int                `json:"max_turns,omitempty"`
	CatalogPath    string             `json:"catalog_path,omitempty"`
	path           string
	currentProfile *Profile
}

func DefaultProfile() Profile {
	return Profile{Provider: DefaultProvider, Model: DefaultModel}
}

// LoadConfig loads the config file, creating a default one if missing
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

func LoadConfigFrom(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.path = configPath

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// IsValid reports whether the active profile can reach its provider
func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.GetAPIKey() != "" && c.validProvider()
}

func (c *Config) validProvider() bool {
	_, ok := APIKeyEnv[c.GetProvider()]
	return ok
}

// GetAPIKey returns the profile key, falling back to the provider's
// environment variable
func (c *Config) GetAPIKey() string {
	if c.currentProfile == nil {
		return ""
	}
	if c.currentProfile.APIKey != "" {
		return c.currentProfile.APIKey
	}
	if env, ok := APIKeyEnv[c.GetProvider()]; ok {
		return os.Getenv(env)
	}
	return ""
}

func (c *Config) GetProvider() string {
	if c.currentProfile == nil || c.currentProfile.Provider == "" {
		return DefaultProvider
	}
	return c.currentProfile.Provider
}

func (c *Config) GetModel() string {
	if c.currentProfile == nil {
		return DefaultModel
	}
	return c.currentProfile.Model
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.BaseURL
}

func (c *Config) GetMaxTurns() int {
	if c.MaxTurns <= 0 {
		return DefaultMaxTurns
	}
	return c.MaxTurns
}

// ProfileNames returns the profile names, sorted
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Use switches the active profile
func (c *Config) Use(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	return c.setCurrentProfile()
}

// GetConfigPath honors STOREAGENT_HOME, then the user's home directory
func GetConfigPath() (string, error) {
	var configDir string

	if home := os.Getenv("STOREAGENT_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".storeagent", "config.json"), nil
}

// Dir is the directory holding the config file and logs
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": DefaultProfile(),
		},
		ActiveProfile: "default",
		MaxTurns:      DefaultMaxTurns,
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	if c.path == "" {
		configPath, err := GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		c.path = configPath
	}
	return saveConfig(c, c.path)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to the first profile in name order
		name := c.ProfileNames()[0]
		c.ActiveProfile = name
		profile = c.Profiles[name]
	}

	c.currentProfile = &profile
	return nil
}
