package llm

import (
	"context"
	"errors"

	"github.com/Rorical/StoreAgent/internal/conversation"
)

var ErrEmptyConversation = errors.New("conversation has no content to send")

// Schema is a provider-neutral JSON-schema subset used for tool parameters
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

const (
	TypeObject  = "object"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
)

// FunctionDeclaration describes a tool the model may request
type FunctionDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

// Request is one model invocation: the full history (system messages
// included) and the tools the model may call.
type Request struct {
	Messages []conversation.Message
	Tools    []FunctionDeclaration
}

// Response is a parsed model turn. Text is empty when the model only asked
// for function calls.
type Response struct {
	Text  string
	Calls []conversation.FunctionCall
}

// Model is a remote chat model
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Name() string
}
