package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/StoreAgent/internal/app"
	"github.com/Rorical/StoreAgent/ui/components"
)

var toolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools offered to the model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		registry, _, err := app.NewRegistry(cfg)
		if err != nil {
			return err
		}

		decls := registry.Declarations()
		if toolsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(decls)
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.RenderTools(decls))
		return nil
	},
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "print the declarations as JSON")
	rootCmd.AddCommand(toolsCmd)
}
