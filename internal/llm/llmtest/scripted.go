// Package llmtest provides a deterministic llm.Model for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm"
)

// Step configures one model turn in a scripted sequence
type Step struct {
	Response llm.Response
	Err      error
}

func Text(text string) Step {
	return Step{Response: llm.Response{Text: text}}
}

func Calls(calls ...conversation.FunctionCall) Step {
	return Step{Response: llm.Response{Calls: calls}}
}

func Fail(err error) Step {
	return Step{Err: err}
}

// ScriptedModel replays its steps in order and records every request.
// Once the script runs out, the last step repeats.
type ScriptedModel struct {
	mu       sync.Mutex
	index    int
	steps    []Step
	requests []llm.Request
}

var _ llm.Model = (*ScriptedModel)(nil)

func NewScriptedModel(steps ...Step) *ScriptedModel {
	cloned := make([]Step, len(steps))
	copy(cloned, steps)
	return &ScriptedModel{steps: cloned}
}

func (m *ScriptedModel) Name() string {
	return "scripted"
}

func (m *ScriptedModel) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages := make([]conversation.Message, len(req.Messages))
	copy(messages, req.Messages)
	m.requests = append(m.requests, llm.Request{Messages: messages, Tools: req.Tools})

	if len(m.steps) == 0 {
		return nil, fmt.Errorf("empty script")
	}
	step := m.steps[len(m.steps)-1]
	if m.index < len(m.steps) {
		step = m.steps[m.index]
	}
	m.index++

	if step.Err != nil {
		return nil, step.Err
	}
	resp := step.Response
	return &resp, nil
}

// Requests returns every request seen so far
func (m *ScriptedModel) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]llm.Request, len(m.requests))
	copy(result, m.requests)
	return result
}

func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}
