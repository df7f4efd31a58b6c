package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/StoreAgent/internal/config"
	"github.com/Rorical/StoreAgent/internal/llm/gemini"
	"github.com/Rorical/StoreAgent/internal/llm/openai"
)

var providers = []string{config.ProviderGemini, config.ProviderOpenAI}

var defaultModels = map[string]string{
	config.ProviderGemini: gemini.DefaultModel,
	config.ProviderOpenAI: openai.DefaultModel,
}

var addFlags config.Profile

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage model profiles",
	Long:  `Manage profiles for different model providers and configurations.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for _, name := range cfg.ProfileNames() {
			profile := cfg.Profiles[name]
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			fmt.Printf("    Provider: %s\n", profile.Provider)
			fmt.Printf("    Model: %s\n", profile.Model)
			if profile.BaseURL != "" {
				fmt.Printf("    Base URL: %s\n", profile.BaseURL)
			}
			fmt.Printf("    API Key: %s\n", keySource(profile))
			fmt.Println()
		}
		return nil
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		profileName := args[0]
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", profileName)
		}

		fmt.Printf("Profile: %s\n", profileName)
		fmt.Printf("Provider: %s\n", profile.Provider)
		fmt.Printf("Model: %s\n", profile.Model)
		fmt.Printf("Base URL: %s\n", profile.BaseURL)
		fmt.Printf("API Key: %s\n", keySource(profile))
		fmt.Printf("Max Turns: %d\n", cfg.GetMaxTurns())
		if cfg.CatalogPath != "" {
			fmt.Printf("Catalog: %s\n", cfg.CatalogPath)
		}
		return nil
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Long: `Add a new profile. Without --provider the profile is filled in
interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label: "Profile name",
			}
			profileName, err = prompt.Run()
			if err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			return fmt.Errorf("profile '%s' already exists", profileName)
		}

		var profile config.Profile
		if addFlags.Provider != "" {
			profile, err = profileFromFlags(addFlags)
		} else {
			profile, err = promptProfile(config.Profile{})
		}
		if err != nil {
			return err
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
		return nil
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		profileName, err := profileArg(cfg, args, "Select profile to edit", "")
		if err != nil {
			return err
		}

		profile, exists := cfg.Profiles[profileName]
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", profileName)
		}

		profile, err = promptProfile(profile)
		if err != nil {
			return err
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Profile '%s' updated successfully!\n", profileName)
		return nil
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		profileName, err := profileArg(cfg, args, "Select profile to delete", "")
		if err != nil {
			return err
		}
		if _, exists := cfg.Profiles[profileName]; !exists {
			return fmt.Errorf("profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return nil
		}

		removeProfile(cfg, profileName)
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Profile '%s' deleted successfully!\n", profileName)
		return nil
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if len(args) == 0 && len(cfg.Profiles) < 2 {
			fmt.Println("No other profiles available to switch to")
			return nil
		}
		profileName, err := profileArg(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if err != nil {
			return err
		}

		if err := cfg.Use(profileName); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Switched to profile '%s'\n", profileName)
		return nil
	},
}

// profileArg returns the named profile or lets the user pick one
func profileArg(cfg *config.Config, args []string, label, exclude string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	var names []string
	for _, name := range cfg.ProfileNames() {
		if name != exclude {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no profiles available")
	}

	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}
	return name, nil
}

// promptProfile asks for every profile field, defaulting to current values
func promptProfile(current config.Profile) (config.Profile, error) {
	profile := current

	cursor := 0
	for i, p := range providers {
		if p == current.Provider {
			cursor = i
		}
	}
	providerPrompt := promptui.Select{
		Label:     "Provider",
		Items:     providers,
		CursorPos: cursor,
	}
	_, provider, err := providerPrompt.Run()
	if err != nil {
		return profile, fmt.Errorf("selection failed: %w", err)
	}
	profile.Provider = provider

	apiKeyPrompt := promptui.Prompt{
		Label:   fmt.Sprintf("API Key (empty to use %s)", config.APIKeyEnv[provider]),
		Default: current.APIKey,
		Mask:    '*',
	}
	if profile.APIKey, err = apiKeyPrompt.Run(); err != nil {
		return profile, fmt.Errorf("prompt failed: %w", err)
	}

	model := current.Model
	if model == "" || provider != current.Provider {
		model = defaultModels[provider]
	}
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: model,
	}
	if profile.Model, err = modelPrompt.Run(); err != nil {
		return profile, fmt.Errorf("prompt failed: %w", err)
	}

	baseURLPrompt := promptui.Prompt{
		Label:   "Base URL (optional)",
		Default: current.BaseURL,
	}
	if profile.BaseURL, err = baseURLPrompt.Run(); err != nil {
		return profile, fmt.Errorf("prompt failed: %w", err)
	}

	return profile, nil
}

func profileFromFlags(flags config.Profile) (config.Profile, error) {
	if _, ok := config.APIKeyEnv[flags.Provider]; !ok {
		return config.Profile{}, fmt.Errorf("unknown provider %q, expected one of %v", flags.Provider, providers)
	}
	profile := flags
	if profile.Model == "" {
		profile.Model = defaultModels[profile.Provider]
	}
	return profile, nil
}

// removeProfile deletes a profile, moving the active marker and recreating
// a default profile if none is left
func removeProfile(cfg *config.Config, name string) {
	delete(cfg.Profiles, name)
	if len(cfg.Profiles) == 0 {
		cfg.Profiles["default"] = config.DefaultProfile()
	}
	if cfg.ActiveProfile == name {
		cfg.ActiveProfile = cfg.ProfileNames()[0]
	}
}

func keySource(profile config.Profile) string {
	if profile.APIKey != "" {
		return "Set (hidden for security)"
	}
	env := config.APIKeyEnv[profile.Provider]
	if env != "" && os.Getenv(env) != "" {
		return "From " + env
	}
	return "Not set"
}

func init() {
	addProfileCmd.Flags().StringVar(&addFlags.Provider, "provider", "", "model provider (gemini or openai)")
	addProfileCmd.Flags().StringVar(&addFlags.Model, "model", "", "model name")
	addProfileCmd.Flags().StringVar(&addFlags.APIKey, "api-key", "", "API key")
	addProfileCmd.Flags().StringVar(&addFlags.BaseURL, "base-url", "", "API base URL")

	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
