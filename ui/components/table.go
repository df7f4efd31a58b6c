package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Rorical/StoreAgent/internal/eval"
	"github.com/Rorical/StoreAgent/internal/llm"
	"github.com/Rorical/StoreAgent/ui/styles"
)

const cellWidth = 48

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.TableBorderStyle()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle()
			}
			return styles.TableCellStyle()
		}).
		Headers(headers...)
}

// RenderTools lists tool declarations; required parameters are starred
func RenderTools(decls []llm.FunctionDeclaration) string {
	t := newTable("TOOL", "DESCRIPTION", "PARAMETERS")
	for _, decl := range decls {
		t.Row(decl.Name, Truncate(decl.Description, cellWidth), formatParameters(decl.Parameters))
	}
	return t.String()
}

func formatParameters(schema llm.Schema) string {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		label := name + ":" + schema.Properties[name].Type
		if required[name] {
			label += "*"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

// RenderReport shows per-example scores followed by the summary
func RenderReport(report *eval.Report) string {
	keys := report.Keys()
	headers := append([]string{"EXAMPLE", "QUESTION", "OUTPUT"}, keys...)
	t := newTable(headers...)

	for _, result := range report.Results {
		scores := make(map[string]string, len(result.Scores))
		for _, s := range result.Scores {
			scores[s.Key] = fmt.Sprintf("%t", s.Value)
		}
		for key := range result.Errors {
			scores[key] = "error"
		}

		row := []string{
			result.Run.ExampleID,
			Truncate(fmt.Sprint(result.Run.Inputs["question"]), cellWidth/2),
			Truncate(fmt.Sprint(result.Run.Outputs["output"]), cellWidth),
		}
		for _, key := range keys {
			score, ok := scores[key]
			if !ok {
				score = "-"
			}
			row = append(row, score)
		}
		t.Row(row...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Experiment: %s\nDataset: %s\n", report.Experiment, report.Dataset)
	if report.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", report.Description)
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %.0f%%\n", key, report.Summary[key]*100)
	}
	return b.String()
}
