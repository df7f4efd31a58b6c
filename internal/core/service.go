package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Rorical/StoreAgent/internal/agent"
	"github.com/Rorical/StoreAgent/internal/config"
	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/eventbus"
)

var ErrNotConfigured = errors.New("agent is not configured")

// Runner answers one question. *agent.Agent implements it.
type Runner interface {
	Run(ctx context.Context, req agent.Request) agent.Result
}

// AgentBuilder creates the runner; observe must receive every message the
// runner appends so the UI can follow along.
type AgentBuilder func(observe func(conversation.Message)) (Runner, error)

type ChatService struct {
	runner        Runner
	config        *config.Config
	state         *ChatState
	eventBus      *eventbus.EventBus
	logger        *slog.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	sendMu        sync.Mutex
	lastSentCount int  // How many transcript entries the UI already has
	pendingReset  bool // A reset the UI has not received yet
}

// NewChatService creates a ChatService regardless of config validity so the
// UI always has a service to talk to
func NewChatService(cfg *config.Config, eb *eventbus.EventBus, build AgentBuilder, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	service := &ChatService{
		config:   cfg,
		state:    NewChatState(),
		eventBus: eb,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	var buildErr error
	if cfg.IsValid() && build != nil {
		runner, err := build(service.observe)
		if err != nil {
			logger.Error("failed to build agent", "err", err)
			buildErr = err
		} else {
			service.runner = runner
		}
	}

	service.addWelcomeMessages(buildErr)
	return service
}

// Start runs the core logic in a goroutine
func (cs *ChatService) Start() {
	cs.pushStateToUI(false)
	cs.wg.Add(1)
	go cs.eventLoop()
}

// Stop cancels any running invocation and waits for the loop to exit
func (cs *ChatService) Stop() {
	cs.cancel()
	cs.wg.Wait()
}

func (cs *ChatService) IsReady() bool {
	return cs.runner != nil
}

func (cs *ChatService) State() *ChatState {
	return cs.state
}

func (cs *ChatService) eventLoop() {
	defer cs.wg.Done()
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.AskEvent:
		cs.ask(e.Question)
	case eventbus.ClearTranscriptEvent:
		cs.state.Clear()
		cs.pushStateToUI(true)
	}
}

// ask runs one independent agent invocation
func (cs *ChatService) ask(question string) {
	if cs.runner == nil {
		cs.state.FinishProcessing(ErrNotConfigured)
		cs.pushStateToUI(false)
		return
	}

	cs.state.StartProcessing()
	cs.pushStateToUI(false)

	result := cs.runner.Run(cs.ctx, agent.Request{Question: question})

	var err error
	if result.Failed {
		cs.state.AddProgramMessage(result.Output)
		err = errors.New(strings.TrimPrefix(result.Output, "Error: "))
	}
	cs.logger.Info("question answered", "turns", result.Turns, "failed", result.Failed)

	cs.state.FinishProcessing(err)
	cs.pushStateToUI(false)
}

func (cs *ChatService) observe(msg conversation.Message) {
	cs.state.AddConversationMessage(msg)
	cs.pushStateToUI(false)
}

// pushStateToUI sends what the UI has not seen yet. Entries whose update
// could not be delivered are sent again with the next push.
func (cs *ChatService) pushStateToUI(reset bool) {
	cs.sendMu.Lock()
	defer cs.sendMu.Unlock()

	if reset {
		cs.lastSentCount = 0
		cs.pendingReset = true
	}
	newMessages := cs.state.MessagesSince(cs.lastSentCount)

	if err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Messages:     newMessages,
		Reset:        cs.pendingReset,
		IsProcessing: cs.state.IsProcessing(),
		Error:        cs.state.GetLastError(),
	}); err != nil {
		cs.logger.Warn("failed to send state to UI", "err", err)
		return
	}
	cs.lastSentCount += len(newMessages)
	cs.pendingReset = false
}

func (cs *ChatService) addWelcomeMessages(buildErr error) {
	cfg := cs.config
	cs.state.AddProgramMessage("-- STORE AGENT --")

	switch {
	case cs.runner != nil:
		cs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [OK] %s/%s", cfg.ActiveProfile, cfg.GetProvider(), cfg.GetModel()))
		cs.state.AddProgramMessage("Ask about products, prices and discount codes. Press Enter to send")
	case buildErr != nil:
		cs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [ERROR]", cfg.ActiveProfile))
		cs.state.AddProgramMessage(buildErr.Error())
	default:
		cs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cfg.ActiveProfile))
		cs.state.AddProgramMessage("Configure your profile to start chatting:")
		cs.state.AddProgramMessage("• Run: storeagent profile add <name>")
		if env, ok := config.APIKeyEnv[cfg.GetProvider()]; ok {
			cs.state.AddProgramMessage(fmt.Sprintf("• Or set %s in your environment or .env file", env))
		}
	}

	cs.state.AddProgramMessage("Controls: Ctrl+C or Esc to exit, Ctrl+L to clear")
	cs.state.AddProgramMessage("")
}
