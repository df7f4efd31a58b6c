package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/StoreAgent/internal/eventbus"
	"github.com/Rorical/StoreAgent/internal/models"
)

// Update routes one bubbletea message. A core event re-arms the listener so
// the next state update from the chat service is picked up; key input is
// only forwarded to the service once it is ready.
func Update(appModel *models.AppModel, msg tea.Msg, eb *eventbus.EventBus) tea.Cmd {
	switch msg := msg.(type) {
	case CoreEventMsg:
		return tea.Batch(HandleCoreEvent(appModel, msg), ListenForCoreEvents(eb))
	case tea.KeyMsg:
		return HandleKeyMsgWithEventBus(appModel, msg, eb, appModel.ChatServiceReady)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
	case TickMsg:
		return HandleTickMsg(appModel)
	}
	return nil
}
