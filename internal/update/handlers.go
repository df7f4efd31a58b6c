package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/StoreAgent/internal/eventbus"
	"github.com/Rorical/StoreAgent/internal/models"
)

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus, chatReady bool) tea.Cmd {
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	case tea.KeyCtrlL:
		if err := eb.SendToCore(eventbus.ClearTranscriptEvent{}); err != nil {
			appModel.Status = "Error clearing transcript: " + err.Error()
		}
	case tea.KeyEnter:
		question := strings.TrimSpace(appModel.Input)
		if question == "" || appModel.Loading {
			return nil
		}
		if !chatReady {
			appModel.Input = ""
			appModel.Status = "Chat service not available"
			return nil
		}
		if err := eb.SendToCore(eventbus.AskEvent{Question: question}); err != nil {
			appModel.Status = "Error sending question: " + err.Error()
			return nil
		}
		appModel.Input = ""
	case tea.KeyBackspace:
		if runes := []rune(appModel.Input); len(runes) > 0 {
			appModel.Input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		appModel.Input += " "
	case tea.KeyRunes:
		appModel.Input += string(keyMsg.Runes)
	}
	return nil
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// ListenForCoreEvents waits for the next core event. It returns nil once the
// bus is closed.
func ListenForCoreEvents(eb *eventbus.EventBus) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-eb.CoreToUI()
		if !ok {
			return nil
		}
		return CoreEventMsg{Event: event}
	}
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		if event.Reset {
			appModel.Messages = nil
		}
		appModel.Messages = append(appModel.Messages, event.Messages...)
		appModel.Loading = event.IsProcessing

		if event.Error != nil {
			appModel.Status = "Error: " + event.Error.Error()
		} else if event.IsProcessing {
			appModel.Status = "Thinking"
		} else {
			appModel.Status = "Ready"
		}
	}

	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
