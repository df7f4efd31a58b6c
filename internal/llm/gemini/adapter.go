package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// Contents converts a conversation into Gemini content blocks. System
// messages are skipped; they travel separately as the system instruction.
func Contents(messages []conversation.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case conversation.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  roleUser,
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		case conversation.RoleAssistant:
			if msg.Content != "" {
				contents = append(contents, &genai.Content{
					Role:  roleModel,
					Parts: []genai.Part{genai.Text(msg.Content)},
				})
			} else if len(msg.FunctionCalls) > 0 {
				parts := make([]genai.Part, 0, len(msg.FunctionCalls))
				for _, call := range msg.FunctionCalls {
					parts = append(parts, genai.FunctionCall{
						Name: call.Name,
						Args: normalizeArgs(call.Args),
					})
				}
				contents = append(contents, &genai.Content{Role: roleModel, Parts: parts})
			}
		case conversation.RoleTool:
			contents = append(contents, &genai.Content{
				Role: roleUser,
				Parts: []genai.Part{genai.FunctionResponse{
					Name:     msg.Name,
					Response: map[string]any{"result": normalize(msg.Payload())},
				}},
			})
		}
	}
	return contents
}

// SystemInstruction returns the first system message as Gemini content, or
// nil when the conversation has none.
func SystemInstruction(messages []conversation.Message) *genai.Content {
	text, ok := conversation.SystemInstruction(messages)
	if !ok {
		return nil
	}
	return &genai.Content{Parts: []genai.Part{genai.Text(text)}}
}

// Tools bundles function declarations into a single Gemini tool
func Tools(decls []llm.FunctionDeclaration) *genai.Tool {
	if len(decls) == 0 {
		return nil
	}
	tool := &genai.Tool{FunctionDeclarations: make([]*genai.FunctionDeclaration, 0, len(decls))}
	for _, decl := range decls {
		tool.FunctionDeclarations = append(tool.FunctionDeclarations, &genai.FunctionDeclaration{
			Name:        decl.Name,
			Description: decl.Description,
			Parameters:  Schema(&decl.Parameters),
		})
	}
	return tool
}

func Schema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Items:       Schema(s.Items),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = Schema(prop)
		}
	}
	return out
}

func schemaType(t string) genai.Type {
	switch t {
	case llm.TypeObject:
		return genai.TypeObject
	case llm.TypeString:
		return genai.TypeString
	case llm.TypeNumber:
		return genai.TypeNumber
	case llm.TypeInteger:
		return genai.TypeInteger
	case llm.TypeBoolean:
		return genai.TypeBoolean
	case llm.TypeArray:
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

// Parse reads the first candidate of a response. The last non-empty text
// part wins; every function call part is kept in order.
func Parse(resp *genai.GenerateContentResponse) (*llm.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini response has no candidates")
	}

	out := &llm.Response{}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return out, nil
	}

	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			if p != "" {
				out.Text = string(p)
			}
		case genai.FunctionCall:
			out.Calls = append(out.Calls, conversation.FunctionCall{Name: p.Name, Args: p.Args})
		case *genai.FunctionCall:
			if p != nil {
				out.Calls = append(out.Calls, conversation.FunctionCall{Name: p.Name, Args: p.Args})
			}
		}
	}
	return out, nil
}

// normalize rewrites a payload into the plain maps, slices and scalars the
// SDK can turn into protobuf values.
func normalize(v any) any {
	switch v.(type) {
	case nil, string, bool, float64, int, int64:
		return v
	}
	data, err := json.Marshal(v)
	if err != nil {
		return conversation.RenderResult(v)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return string(data)
	}
	return out
}

func normalizeArgs(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	if m, ok := normalize(args).(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
