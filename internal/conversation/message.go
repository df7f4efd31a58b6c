package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

var ErrInvalidMessage = errors.New("invalid message")

// FunctionCall is a structured request from the model to run a local tool
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// Message is one role-tagged entry of a conversation
type Message struct {
	Role          Role           `json:"role"`
	Content       string         `json:"content,omitempty"`
	Name          string         `json:"name,omitempty"`           // tool messages only
	CallID        string         `json:"call_id,omitempty"`        // tool messages only
	FunctionCalls []FunctionCall `json:"function_calls,omitempty"` // assistant messages only
	Result        any            `json:"result,omitempty"`         // raw tool payload
}

// Validate checks the per-role shape of a message.
func (m Message) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser:
		if len(m.FunctionCalls) > 0 {
			return fmt.Errorf("%w: %s message carries function calls", ErrInvalidMessage, m.Role)
		}
	case RoleAssistant:
		hasText := m.Content != ""
		hasCalls := len(m.FunctionCalls) > 0
		if hasText == hasCalls {
			return fmt.Errorf("%w: assistant message needs exactly one of content or function calls", ErrInvalidMessage)
		}
	case RoleTool:
		if m.Name == "" {
			return fmt.Errorf("%w: tool message without name", ErrInvalidMessage)
		}
		if m.Content == "" && m.Result == nil {
			return fmt.Errorf("%w: tool message %q without result", ErrInvalidMessage, m.Name)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidMessage, m.Role)
	}
	return nil
}

// Payload returns the value reported back to the model for a tool message.
func (m Message) Payload() any {
	if m.Result != nil {
		return m.Result
	}
	return m.Content
}

// ToolMessage wraps a tool result. Strings are kept verbatim, anything else
// is rendered as JSON for the textual content.
func ToolMessage(name, callID string, result any) Message {
	return Message{
		Role:    RoleTool,
		Name:    name,
		CallID:  callID,
		Content: RenderResult(result),
		Result:  result,
	}
}

// RenderResult turns a tool result into text.
func RenderResult(result any) string {
	switch v := result.(type) {
	case nil:
		return "null"
	case string:
		return v
	case error:
		return v.Error()
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(data)
}
