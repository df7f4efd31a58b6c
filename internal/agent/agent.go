package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm"
	"github.com/Rorical/StoreAgent/internal/tools"
)

const DefaultMaxTurns = 10

type state int

const (
	stateAwaitModel state = iota
	stateDispatchTools
)

// Agent answers one question per Run by looping between the model and the
// tool registry until the model produces text.
type Agent struct {
	model        llm.Model
	registry     *tools.Registry
	logger       *slog.Logger
	systemPrompt string
	maxTurns     int
	observer     func(conversation.Message)
}

type Option func(*Agent)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// WithMaxTurns bounds the number of model calls per invocation
func WithMaxTurns(n int) Option {
	return func(a *Agent) {
		a.maxTurns = n
	}
}

// WithObserver receives every message appended during a run, in order
func WithObserver(fn func(conversation.Message)) Option {
	return func(a *Agent) {
		a.observer = fn
	}
}

func New(model llm.Model, registry *tools.Registry, opts ...Option) (*Agent, error) {
	if model == nil {
		return nil, errors.New("agent needs a model")
	}
	if registry == nil {
		return nil, errors.New("agent needs a tool registry")
	}

	a := &Agent{
		model:        model,
		registry:     registry,
		logger:       slog.Default(),
		systemPrompt: DefaultSystemPrompt,
		maxTurns:     DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.maxTurns < 1 {
		return nil, fmt.Errorf("max turns must be positive, got %d", a.maxTurns)
	}
	return a, nil
}

// Run answers a single question. It never returns an error: a failed model
// call ends the invocation with an "Error: ..." output, and tool failures are
// reported back to the model.
func (a *Agent) Run(ctx context.Context, req Request) Result {
	conv := conversation.New(a.systemPrompt)
	conv.AddUserMessage(req.Question)
	a.notify(conv)
	decls := a.registry.Declarations()

	logger := a.logger.With("model", a.model.Name())
	logger.Info("agent invocation started", "question", req.Question)

	var pending []conversation.FunctionCall
	turns := 0
	current := stateAwaitModel

	for {
		switch current {
		case stateAwaitModel:
			if turns >= a.maxTurns {
				logger.Warn("turn limit reached without a final answer", "turns", turns)
				return a.fail(conv, turns, fmt.Sprintf("Error: no final answer after %d turns", turns))
			}
			turns++

			resp, err := a.model.Generate(ctx, llm.Request{
				Messages: conv.Messages(),
				Tools:    decls,
			})
			if err != nil {
				logger.Error("model call failed", "turn", turns, "err", err)
				return a.fail(conv, turns, "Error: "+err.Error())
			}

			if resp.Text != "" {
				if err := conv.AddAssistantText(resp.Text); err != nil {
					logger.Warn("could not record final answer", "err", err)
				} else {
					a.notify(conv)
				}
				logger.Info("agent invocation finished", "turns", turns)
				return Result{Output: resp.Text, Messages: conv.Messages(), Turns: turns}
			}

			if len(resp.Calls) == 0 {
				logger.Warn("model returned neither text nor function calls", "turn", turns)
				continue
			}

			pending = withCallIDs(resp.Calls, turns)
			if err := conv.AddAssistantCalls(pending); err != nil {
				logger.Warn("could not record function calls", "err", err)
			} else {
				a.notify(conv)
			}
			current = stateDispatchTools

		case stateDispatchTools:
			for _, call := range pending {
				a.dispatch(ctx, logger, conv, call)
			}
			pending = nil
			current = stateAwaitModel
		}
	}
}

// Invoke adapts Run to dataset-style inputs and outputs
func (a *Agent) Invoke(ctx context.Context, inputs map[string]any) map[string]any {
	result := a.Run(ctx, RequestFromInputs(inputs))
	return map[string]any{"output": result.Output}
}

// dispatch runs one call and always appends exactly one tool message
func (a *Agent) dispatch(ctx context.Context, logger *slog.Logger, conv *conversation.Conversation, call conversation.FunctionCall) {
	name := call.Name
	if name == "" {
		name = "unnamed_function"
	}

	result, err := a.execute(ctx, call)
	var content any
	switch {
	case errors.Is(err, tools.ErrToolNotFound):
		logger.Warn("model requested an unknown function", "tool", name)
		content = fmt.Sprintf("Function %s is not implemented", name)
	case err != nil:
		logger.Warn("tool call failed", "tool", name, "err", err)
		content = "Error: " + err.Error()
	default:
		logger.Debug("tool call processed", "tool", name, "result", conversation.RenderResult(result))
		content = result
	}

	if err := conv.AddToolResult(name, call.ID, content); err != nil {
		logger.Error("could not record tool result", "tool", name, "err", err)
		return
	}
	a.notify(conv)
}

func (a *Agent) notify(conv *conversation.Conversation) {
	if a.observer == nil {
		return
	}
	if msg, ok := conv.Last(); ok {
		a.observer(msg)
	}
}

func (a *Agent) execute(ctx context.Context, call conversation.FunctionCall) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", call.Name, r)
		}
	}()
	return a.registry.Execute(ctx, call)
}

func (a *Agent) fail(conv *conversation.Conversation, turns int, output string) Result {
	return Result{Output: output, Messages: conv.Messages(), Turns: turns, Failed: true}
}

func withCallIDs(calls []conversation.FunctionCall, turn int) []conversation.FunctionCall {
	result := make([]conversation.FunctionCall, len(calls))
	for i, call := range calls {
		if call.ID == "" {
			call.ID = fmt.Sprintf("call_%d_%d", turn, i)
		}
		result[i] = call
	}
	return result
}
