package styles

import "github.com/charmbracelet/lipgloss"

var (
	accent   = lipgloss.Color("62")
	userFg   = lipgloss.Color("39")
	agentFg  = lipgloss.Color("214")
	toolFg   = lipgloss.Color("166")
	resultFg = lipgloss.Color("72")
	errorFg  = lipgloss.Color("203")
	mutedFg  = lipgloss.Color("241")
)

func InputStyle(width int) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if width > 4 {
		style = style.Width(width - 4)
	}
	return style
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(mutedFg).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func StatusErrorStyle(width int) lipgloss.Style {
	return StatusStyle(width).Foreground(errorFg)
}

func UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(userFg).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(userFg).
		Padding(0, 1).
		MarginLeft(2)
}

func AssistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(agentFg).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(agentFg).
		Padding(0, 1).
		MarginLeft(2)
}

func ProgramStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true).
		Padding(0, 2)
}

func ToolCallStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(toolFg).
		Padding(0, 1).
		MarginLeft(4)
}

func ToolResultStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(resultFg).
		Padding(0, 1).
		MarginLeft(4)
}

func ToolErrorStyle() lipgloss.Style {
	return ToolResultStyle().Foreground(errorFg)
}

// Markdown

func CodeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color("236"))
}

func BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func ItalicStyle() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true)
}

func HeadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Underline(true)
}

// Tables

func TableHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
}

func TableCellStyle() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1)
}

func TableBorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(mutedFg)
}

func PlaceholderStyle(width int) lipgloss.Style {
	return InputStyle(width).Foreground(mutedFg)
}
