package app

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/StoreAgent/internal/config"
	"github.com/Rorical/StoreAgent/internal/core"
	"github.com/Rorical/StoreAgent/internal/eventbus"
	"github.com/Rorical/StoreAgent/internal/models"
)

// Application manages the complete chat lifecycle
type Application struct {
	config   *config.Config
	eventBus *eventbus.EventBus
	service  *core.ChatService
	model    *AppModel
	logger   *slog.Logger
}

type AppModel struct {
	appModel models.AppModel
	eventBus *eventbus.EventBus
}

func NewApplication(cfg *config.Config, build core.AgentBuilder, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.Default()
	}
	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(err eventbus.EventBusError) {
		logger.Warn("event bus error", "op", err.Operation, "err", err.Err)
	})

	// Always created, handles invalid config internally
	chatService := core.NewChatService(cfg, eb, build, logger)

	return &Application{
		config:   cfg,
		eventBus: eb,
		service:  chatService,
		model: &AppModel{
			appModel: createInitialAppModel(cfg, chatService),
			eventBus: eb,
		},
		logger: logger,
	}
}

func (app *Application) Start() error {
	app.service.Start()
	app.logger.Info("chat started", "profile", app.config.ActiveProfile, "ready", app.service.IsReady())

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.eventBus.Close()
}

func createInitialAppModel(cfg *config.Config, chatService *core.ChatService) models.AppModel {
	// Messages come from core as single source of truth
	return models.AppModel{
		Messages:         make([]models.Message, 0),
		Status:           "Ready",
		Profile:          cfg.ActiveProfile,
		ChatServiceReady: chatService.IsReady(),
	}
}
