package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Rorical/StoreAgent/internal/app"
	"github.com/Rorical/StoreAgent/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the store tools over MCP on stdio",
	Long: `Serve the store tools as a Model Context Protocol server on stdin and
stdout. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := stderrLogger()

		registry, _, err := app.NewRegistry(cfg)
		if err != nil {
			return err
		}
		server, err := mcpserver.New(registry, version, logger)
		if err != nil {
			return err
		}

		logger.Info("serving tools over stdio", "tools", registry.Len())
		return mcpserver.Serve(cmd.Context(), server)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
