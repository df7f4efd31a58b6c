package components

import (
	"regexp"
	"strings"

	"github.com/Rorical/StoreAgent/ui/styles"
)

var (
	orderedItem = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	inlineCode  = regexp.MustCompile("`([^`]+)`")
	boldText    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicText  = regexp.MustCompile(`(^|[^*\w])[*_]([^*_]+)[*_]([^*\w]|$)`)
	linkText    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// RenderMarkdown renders the small markdown subset models use in answers:
// headings, bullet and numbered lists, code, bold, italic and links.
func RenderMarkdown(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]string, 0, len(lines))
	inCode := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			out = append(out, styles.CodeStyle().Render(line))
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "#"):
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			out = append(out, styles.HeadingStyle().Render(renderInline(heading)))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			out = append(out, "  • "+renderInline(trimmed[2:]))
		case orderedItem.MatchString(trimmed):
			m := orderedItem.FindStringSubmatch(trimmed)
			out = append(out, "  "+m[1]+". "+renderInline(m[2]))
		default:
			out = append(out, renderInline(line))
		}
	}
	return strings.Join(out, "\n")
}

func renderInline(line string) string {
	line = inlineCode.ReplaceAllStringFunc(line, func(match string) string {
		return styles.CodeStyle().Render(inlineCode.FindStringSubmatch(match)[1])
	})
	line = linkText.ReplaceAllString(line, "$1 ($2)")
	line = boldText.ReplaceAllStringFunc(line, func(match string) string {
		return styles.BoldStyle().Render(boldText.FindStringSubmatch(match)[1])
	})
	line = italicText.ReplaceAllStringFunc(line, func(match string) string {
		m := italicText.FindStringSubmatch(match)
		return m[1] + styles.ItalicStyle().Render(m[2]) + m[3]
	})
	return line
}
