package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rorical/StoreAgent/internal/agent"
	"github.com/Rorical/StoreAgent/internal/config"
	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/eventbus"
	"github.com/Rorical/StoreAgent/internal/models"
)

type fakeRunner struct {
	observe func(conversation.Message)
	answer  func(question string) agent.Result
}

func (f *fakeRunner) Run(ctx context.Context, req agent.Request) agent.Result {
	f.observe(conversation.Message{Role: conversation.RoleUser, Content: req.Question})
	result := f.answer(req.Question)
	if !result.Failed {
		f.observe(conversation.Message{Role: conversation.RoleAssistant, Content: result.Output})
	}
	return result
}

func testConfig(t *testing.T, apiKey string) *config.Config {
	t.Helper()
	t.Setenv("GOOGLE_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"profiles":{"shop":{"provider":"gemini","api_key":"` + apiKey + `","model":"gemini-2.5-flash"}},"active_profile":"shop"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	cfg, err := config.LoadConfigFrom(path)
	require.NoError(t, err)
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func builderFor(answer func(string) agent.Result) AgentBuilder {
	return func(observe func(conversation.Message)) (Runner, error) {
		return &fakeRunner{observe: observe, answer: answer}, nil
	}
}

// collectUntilIdle gathers state updates until processing has started and
// finished again
func collectUntilIdle(t *testing.T, eb *eventbus.EventBus) []eventbus.StateUpdateEvent {
	t.Helper()
	var events []eventbus.StateUpdateEvent
	started := false
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-eb.CoreToUI():
			update := ev.(eventbus.StateUpdateEvent)
			events = append(events, update)
			if update.IsProcessing {
				started = true
			} else if started {
				return events
			}
		case <-timeout:
			t.Fatal("timed out waiting for the question to finish")
		}
	}
}

func TestChatServiceStreamsTranscript(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()

	service := NewChatService(testConfig(t, "key"), eb, builderFor(func(q string) agent.Result {
		return agent.Result{Output: "We have 3 mice 🖱️", Turns: 2}
	}), quietLogger())
	require.True(t, service.IsReady())

	service.Start()
	defer service.Stop()

	welcome := (<-eb.CoreToUI()).(eventbus.StateUpdateEvent)
	require.NotEmpty(t, welcome.Messages)
	require.Equal(t, models.Program, welcome.Messages[0].Type)

	require.NoError(t, eb.SendToCore(eventbus.AskEvent{Question: "mice?"}))
	events := collectUntilIdle(t, eb)

	var got []models.Message
	for _, ev := range events {
		got = append(got, ev.Messages...)
	}
	require.Equal(t, []models.Message{
		{Content: "mice?", Type: models.User},
		{Content: "We have 3 mice 🖱️", Type: models.Assistant},
	}, got)
	require.NoError(t, events[len(events)-1].Error)
	require.Equal(t, 1, service.State().Questions())
}

func TestChatServiceReportsFailedInvocation(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()

	service := NewChatService(testConfig(t, "key"), eb, builderFor(func(q string) agent.Result {
		return agent.Result{Output: "Error: quota exceeded", Failed: true}
	}), quietLogger())
	service.Start()
	defer service.Stop()
	<-eb.CoreToUI()

	require.NoError(t, eb.SendToCore(eventbus.AskEvent{Question: "hi"}))
	events := collectUntilIdle(t, eb)

	last := events[len(events)-1]
	require.EqualError(t, last.Error, "quota exceeded")
	require.Equal(t, "Error: quota exceeded", last.Messages[len(last.Messages)-1].Content)
}

func TestChatServiceWithoutConfiguration(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()

	called := false
	build := func(observe func(conversation.Message)) (Runner, error) {
		called = true
		return nil, nil
	}
	service := NewChatService(testConfig(t, ""), eb, build, quietLogger())
	require.False(t, called)
	require.False(t, service.IsReady())

	service.ask("anything")
	ev := (<-eb.CoreToUI()).(eventbus.StateUpdateEvent)
	require.ErrorIs(t, ev.Error, ErrNotConfigured)
}

func TestChatServiceBuildFailure(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()

	build := func(observe func(conversation.Message)) (Runner, error) {
		return nil, errors.New("bad credentials")
	}
	service := NewChatService(testConfig(t, "key"), eb, build, quietLogger())
	require.False(t, service.IsReady())

	var contents []string
	for _, m := range service.State().GetMessages() {
		contents = append(contents, m.Content)
	}
	require.Contains(t, contents, "bad credentials")
}

func TestClearResetsTranscript(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()

	service := NewChatService(testConfig(t, "key"), eb, builderFor(func(q string) agent.Result {
		return agent.Result{Output: "ok"}
	}), quietLogger())

	service.handleUIEvent(eventbus.ClearTranscriptEvent{})
	ev := (<-eb.CoreToUI()).(eventbus.StateUpdateEvent)
	require.True(t, ev.Reset)
	require.Empty(t, ev.Messages)
	require.Zero(t, service.State().Len())
}

func TestToUIMessages(t *testing.T) {
	calls := ToUIMessages(conversation.Message{
		Role: conversation.RoleAssistant,
		FunctionCalls: []conversation.FunctionCall{
			{ID: "call_1_0", Name: "verify_discount", Args: map[string]any{"code": "WELCOME10"}},
			{ID: "call_1_1", Name: "sum_prices"},
		},
	})
	require.Len(t, calls, 2)
	require.Equal(t, models.ToolCall, calls[0].Type)
	require.Equal(t, `{"code":"WELCOME10"}`, calls[0].ToolArgs)
	require.Equal(t, "{}", calls[1].ToolArgs)

	failed := ToUIMessages(conversation.ToolMessage("foo", "call_2_0", "Function foo is not implemented"))
	require.True(t, failed[0].ToolFailed)

	ok := ToUIMessages(conversation.ToolMessage("sum_prices", "call_2_1", map[string]any{"total": 3}))
	require.False(t, ok[0].ToolFailed)
	require.Equal(t, `{"total":3}`, ok[0].Content)

	require.Empty(t, ToUIMessages(conversation.Message{Role: conversation.RoleSystem, Content: "prompt"}))
}

func TestUndeliveredUpdatesAreResent(t *testing.T) {
	eb := eventbus.NewEventBusWithBuffer(1)
	defer eb.Close()

	service := NewChatService(testConfig(t, "key"), eb, builderFor(func(q string) agent.Result {
		return agent.Result{Output: "ok"}
	}), quietLogger())
	welcome := service.State().Len()

	service.pushStateToUI(false)
	service.state.AddProgramMessage("dropped while the UI is busy")
	service.pushStateToUI(false)

	first := (<-eb.CoreToUI()).(eventbus.StateUpdateEvent)
	require.Len(t, first.Messages, welcome)

	service.state.AddProgramMessage("next")
	service.pushStateToUI(false)
	second := (<-eb.CoreToUI()).(eventbus.StateUpdateEvent)
	require.Equal(t, []models.Message{
		{Content: "dropped while the UI is busy", Type: models.Program},
		{Content: "next", Type: models.Program},
	}, second.Messages)
}

func TestUndeliveredResetIsResent(t *testing.T) {
	eb := eventbus.NewEventBusWithBuffer(1)
	defer eb.Close()

	service := NewChatService(testConfig(t, "key"), eb, builderFor(func(q string) agent.Result {
		return agent.Result{Output: "ok"}
	}), quietLogger())

	service.pushStateToUI(false)
	service.handleUIEvent(eventbus.ClearTranscriptEvent{})
	<-eb.CoreToUI()

	service.state.AddProgramMessage("fresh")
	service.pushStateToUI(false)
	ev := (<-eb.CoreToUI()).(eventbus.StateUpdateEvent)
	require.True(t, ev.Reset)
	require.Equal(t, []models.Message{{Content: "fresh", Type: models.Program}}, ev.Messages)
}
