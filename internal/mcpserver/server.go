// Package mcpserver exposes the store tools over the Model Context Protocol
// so other agents can call them directly.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/tools"
)

const Name = "storeagent"

// New builds an MCP server with one MCP tool per registry tool
func New(registry *tools.Registry, version string, logger *slog.Logger) (*mcp.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil)

	for _, decl := range registry.Declarations() {
		schema, err := inputSchema(decl.Parameters)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", decl.Name, err)
		}
		server.AddTool(&mcp.Tool{
			Name:        decl.Name,
			Description: decl.Description,
			InputSchema: schema,
		}, handler(registry, decl.Name, logger))
	}
	return server, nil
}

// Serve runs the server over stdin/stdout until the client disconnects
func Serve(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func handler(registry *tools.Registry, name string, logger *slog.Logger) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		args := map[string]any{}
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(fmt.Errorf("%w: %v", tools.ErrInvalidArgs, err)), nil
			}
		}

		defer func() {
			if r := recover(); r != nil {
				logger.Error("tool panicked", "tool", name, "panic", r)
				result, err = errorResult(fmt.Errorf("tool %s panicked: %v", name, r)), nil
			}
		}()

		out, execErr := registry.Execute(ctx, conversation.FunctionCall{Name: name, Args: args})
		if execErr != nil {
			logger.Warn("tool call failed", "tool", name, "err", execErr)
			return errorResult(execErr), nil
		}
		logger.Debug("tool call processed", "tool", name)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: conversation.RenderResult(out)}},
		}, nil
	}
}

// Tool failures are reported to the client as results, not protocol errors
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
	}
}

func inputSchema(schema any) (map[string]any, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
