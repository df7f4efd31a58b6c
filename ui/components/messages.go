package components

import (
	"strings"

	"github.com/Rorical/StoreAgent/internal/models"
	"github.com/Rorical/StoreAgent/ui/styles"
)

const maxResultWidth = 200

func RenderMessages(messages []models.Message) string {
	var b strings.Builder

	for _, msg := range messages {
		switch msg.Type {
		case models.User:
			b.WriteString(styles.UserStyle().Render("You: "+msg.Content) + "\n\n")
		case models.Assistant:
			b.WriteString(styles.AssistantStyle().Render("Agent: "+RenderMarkdown(msg.Content)) + "\n\n")
		case models.Program:
			b.WriteString(styles.ProgramStyle().Render(msg.Content) + "\n")
		case models.ToolCall:
			b.WriteString(styles.ToolCallStyle().Render("→ "+msg.ToolName+" "+msg.ToolArgs) + "\n")
		case models.ToolResult:
			style := styles.ToolResultStyle()
			if msg.ToolFailed {
				style = styles.ToolErrorStyle()
			}
			b.WriteString(style.Render("← "+msg.ToolName+": "+Truncate(msg.Content, maxResultWidth)) + "\n\n")
		}
	}

	return b.String()
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
