package components

import (
	"strings"

	"github.com/Rorical/StoreAgent/ui/styles"
)

func RenderStatus(status, profile string, loading bool, loadingDots int, width int) string {
	statusStyle := styles.StatusStyle(width)
	if strings.HasPrefix(status, "Error") {
		statusStyle = styles.StatusErrorStyle(width)
	}

	statusContent := status
	if loading {
		statusContent += strings.Repeat(".", loadingDots)
	}
	if profile != "" {
		statusContent = "[" + profile + "] " + statusContent
	}

	return statusStyle.Render(statusContent)
}
