package openai

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm"
)

// Messages converts a conversation into chat completion messages. Calls
// without an ID get a positional one, and the tool messages that follow
// are matched to those IDs in order.
func Messages(messages []conversation.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	var pending []string

	for i, msg := range messages {
		switch msg.Role {
		case conversation.RoleSystem:
			result = append(result, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: msg.Content,
			})
		case conversation.RoleUser:
			result = append(result, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: msg.Content,
			})
		case conversation.RoleAssistant:
			out := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: msg.Content,
			}
			pending = nil
			for j, call := range msg.FunctionCalls {
				id := call.ID
				if id == "" {
					id = fmt.Sprintf("call_%d_%d", i, j)
				}
				pending = append(pending, id)
				out.ToolCalls = append(out.ToolCalls, openai.ToolCall{
					ID:   id,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: encodeArgs(call.Args),
					},
				})
			}
			result = append(result, out)
		case conversation.RoleTool:
			id := msg.CallID
			if id == "" && len(pending) > 0 {
				id = pending[0]
			}
			if len(pending) > 0 {
				pending = pending[1:]
			}
			result = append(result, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Name:       msg.Name,
				ToolCallID: id,
				Content:    conversation.RenderResult(map[string]any{"result": msg.Payload()}),
			})
		}
	}
	return result
}

// Tools converts declarations into chat completion tool definitions
func Tools(decls []llm.FunctionDeclaration) []openai.Tool {
	tools := make([]openai.Tool, 0, len(decls))
	for _, decl := range decls {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        decl.Name,
				Description: decl.Description,
				Parameters:  decl.Parameters,
			},
		})
	}
	return tools
}

// Parse reads the first choice of a completion
func Parse(resp openai.ChatCompletionResponse, logger *slog.Logger) (*llm.Response, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("completion has no choices")
	}

	message := resp.Choices[0].Message
	out := &llm.Response{Text: message.Content}
	for _, call := range message.ToolCalls {
		args := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				if logger != nil {
					logger.Warn("discarding malformed tool arguments", "tool", call.Function.Name, "err", err)
				}
				args = map[string]any{}
			}
		}
		out.Calls = append(out.Calls, conversation.FunctionCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return out, nil
}

func encodeArgs(args map[string]any) string {
	if args == nil {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}
