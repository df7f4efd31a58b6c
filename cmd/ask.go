package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rorical/StoreAgent/internal/agent"
	"github.com/Rorical/StoreAgent/internal/app"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question and print the result as JSON",
	Long: `Answer one question and print {"output": ...}.
Without arguments the request is read from stdin, either as a JSON string,
a JSON object with a "question" field, or plain text. Empty input asks an
empty question.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readRequest(args, cmd.InOrStdin())
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

		result := a.Run(cmd.Context(), req)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		if err := enc.Encode(result); err != nil {
			return err
		}
		if result.Failed {
			return errors.New("the question could not be answered")
		}
		return nil
	},
}

func readRequest(args []string, stdin io.Reader) (agent.Request, error) {
	if len(args) > 0 {
		return agent.Request{Question: strings.Join(args, " ")}, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return agent.Request{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return agent.Request{}, nil
	}

	var req agent.Request
	if json.Valid([]byte(trimmed)) {
		if err := json.Unmarshal([]byte(trimmed), &req); err != nil {
			return agent.Request{}, err
		}
		return req, nil
	}
	return agent.Request{Question: trimmed}, nil
}

func init() {
	rootCmd.AddCommand(askCmd)
}
