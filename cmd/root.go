package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rorical/StoreAgent/internal/app"
	"github.com/Rorical/StoreAgent/internal/config"
)

var (
	version     = "dev"
	logLevel    string
	profileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "storeagent",
	Short: "Tool-calling store assistant",
	Long: `StoreAgent answers customer questions about the store catalog.
It lets a language model call price, search and discount tools, and can
evaluate its answers against a dataset.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine
		_ = godotenv.Load()
		_, err := parseLevel(logLevel)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the chat application
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runChat(cmd.Context(), cfg)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies --profile for this run only
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if profileFlag != "" {
		if err := cfg.Use(profileFlag); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runChat(ctx context.Context, cfg *config.Config) error {
	logger, closeLog, err := fileLogger(cfg.Dir())
	if err != nil {
		return err
	}
	defer closeLog()

	build, release := app.ChatBuilder(ctx, cfg, logger)
	defer release()

	application := app.NewApplication(cfg, build, logger)
	defer application.Stop()

	if err := application.Start(); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "profile to use for this run")

	rootCmd.AddCommand(profileCmd)
}
