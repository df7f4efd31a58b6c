package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/StoreAgent/internal/update"
	"github.com/Rorical/StoreAgent/ui/components"
)

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		update.ListenForCoreEvents(m.eventBus),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, update.Update(&m.appModel, msg, m.eventBus)
}

func (m *AppModel) View() string {
	input := components.RenderInput(m.appModel.Input, m.appModel.ChatServiceReady, m.appModel.Width)
	status := components.RenderStatus(m.appModel.Status, m.appModel.Profile, m.appModel.Loading, m.appModel.LoadingDots, m.appModel.Width)
	transcript := components.RenderMessages(m.appModel.Messages)

	// Keep the newest part of the transcript on screen
	if m.appModel.Height > 0 {
		room := m.appModel.Height - lipgloss.Height(input) - lipgloss.Height(status)
		lines := strings.Split(transcript, "\n")
		if room > 0 && len(lines) > room {
			transcript = strings.Join(lines[len(lines)-room:], "\n")
		}
	}

	var b strings.Builder
	b.WriteString(transcript)
	b.WriteString(input)
	b.WriteString("\n")
	b.WriteString(status)
	return b.String()
}
