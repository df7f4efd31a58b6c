package tools

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm"
)

var (
	ErrToolNotFound = errors.New("tool not found")
	ErrInvalidTool  = errors.New("invalid tool")
	ErrInvalidArgs  = errors.New("invalid arguments")
)

// Function names accepted by both Gemini and OpenAI
var toolNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,63}$`)

// Tool represents a local function that can be called by the model
type Tool interface {
	Name() string
	Description() string
	Parameters() llm.Schema // JSON schema, always of type object
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Registry manages available tools
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register validates the tool declaration and adds it to the registry
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("%w: nil tool", ErrInvalidTool)
	}
	if err := validateDeclaration(tool.Name(), tool.Parameters()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("%w: %s already registered", ErrInvalidTool, tool.Name())
	}
	r.tools[tool.Name()] = tool
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, exists := r.tools[name]
	return tool, exists
}

// List returns all registered tools sorted by name
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name() < tools[j].Name()
	})
	return tools
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Declarations describes every tool for the model
func (r *Registry) Declarations() []llm.FunctionDeclaration {
	tools := r.List()
	decls := make([]llm.FunctionDeclaration, len(tools))
	for i, tool := range tools {
		decls[i] = llm.FunctionDeclaration{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		}
	}
	return decls
}

// Execute runs a model-requested call. Unknown names yield ErrToolNotFound;
// arguments are checked against the tool schema before the tool runs.
func (r *Registry) Execute(ctx context.Context, call conversation.FunctionCall) (any, error) {
	tool, exists := r.Get(call.Name)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, call.Name)
	}

	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	if err := ValidateArgs(tool.Parameters(), args); err != nil {
		return nil, err
	}
	return tool.Execute(ctx, args)
}

func validateDeclaration(name string, params llm.Schema) error {
	if !toolNamePattern.MatchString(name) {
		return fmt.Errorf("%w: bad name %q", ErrInvalidTool, name)
	}
	if params.Type != llm.TypeObject {
		return fmt.Errorf("%w: %s parameters must be an object schema", ErrInvalidTool, name)
	}
	for _, req := range params.Required {
		if _, ok := params.Properties[req]; !ok {
			return fmt.Errorf("%w: %s requires undeclared parameter %q", ErrInvalidTool, name, req)
		}
	}
	for prop, schema := range params.Properties {
		if schema == nil || schema.Type == "" {
			return fmt.Errorf("%w: %s parameter %q has no type", ErrInvalidTool, name, prop)
		}
		if schema.Type == llm.TypeArray && schema.Items == nil {
			return fmt.Errorf("%w: %s array parameter %q has no items", ErrInvalidTool, name, prop)
		}
	}
	return nil
}
