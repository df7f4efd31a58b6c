package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/StoreAgent/internal/app"
	"github.com/Rorical/StoreAgent/internal/eval"
	"github.com/Rorical/StoreAgent/ui/components"
)

var evalFlags struct {
	concurrency int
	prefix      string
	description string
	json        bool
}

var evalCmd = &cobra.Command{
	Use:   "eval [dataset]",
	Short: "Evaluate the agent against a dataset",
	Long: `Run the agent on every example of a YAML or JSON dataset and score
each answer for kindness (judged by the model) and emoji use.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := eval.LoadDataset(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := stderrLogger()

		model, err := app.NewModel(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer app.CloseModel(model)

		a, err := app.NewAgent(cfg, model, logger)
		if err != nil {
			return err
		}

		runner := &eval.Runner{
			Target: a.Invoke,
			Evaluators: []eval.Evaluator{
				eval.Kindness{Judge: eval.ModelJudge{Model: model}},
				eval.ContainsEmoji{},
			},
			MaxConcurrency:   evalFlags.concurrency,
			ExperimentPrefix: evalFlags.prefix,
			Description:      evalFlags.description,
			Logger:           logger,
		}

		report, err := runner.Run(cmd.Context(), ds)
		if err != nil {
			return err
		}

		if evalFlags.json {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(report)
		}
		fmt.Fprint(cmd.OutOrStdout(), components.RenderReport(report))
		return nil
	},
}

func init() {
	evalCmd.Flags().IntVar(&evalFlags.concurrency, "concurrency", 1, "examples evaluated in parallel")
	evalCmd.Flags().StringVar(&evalFlags.prefix, "prefix", "store-eval", "experiment name prefix")
	evalCmd.Flags().StringVar(&evalFlags.description, "description", "Store agent evaluation", "experiment description")
	evalCmd.Flags().BoolVar(&evalFlags.json, "json", false, "print the report as JSON")

	rootCmd.AddCommand(evalCmd)
}
