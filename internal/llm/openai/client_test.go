package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm"
)

func TestMessagesSynthesizesCallIDs(t *testing.T) {
	msgs := []conversation.Message{
		{Role: conversation.RoleSystem, Content: "sys"},
		{Role: conversation.RoleUser, Content: "q"},
		{Role: conversation.RoleAssistant, FunctionCalls: []conversation.FunctionCall{
			{Name: "a", Args: map[string]any{"x": 1.0}},
			{Name: "b"},
		}},
		conversation.ToolMessage("a", "", 2.0),
		conversation.ToolMessage("b", "", "Function b is not implemented"),
	}

	got := Messages(msgs)
	require.Len(t, got, 5)
	require.Equal(t, openai.ChatMessageRoleSystem, got[0].Role)

	calls := got[2].ToolCalls
	require.Len(t, calls, 2)
	require.Equal(t, "call_2_0", calls[0].ID)
	require.Equal(t, `{"x":1}`, calls[0].Function.Arguments)
	require.Equal(t, "{}", calls[1].Function.Arguments)

	require.Equal(t, openai.ChatMessageRoleTool, got[3].Role)
	require.Equal(t, "call_2_0", got[3].ToolCallID)
	require.Equal(t, `{"result":2}`, got[3].Content)
	require.Equal(t, "call_2_1", got[4].ToolCallID)
	require.Equal(t, `{"result":"Function b is not implemented"}`, got[4].Content)
}

func TestMessagesKeepsProviderIDs(t *testing.T) {
	got := Messages([]conversation.Message{
		{Role: conversation.RoleUser, Content: "q"},
		{Role: conversation.RoleAssistant, FunctionCalls: []conversation.FunctionCall{{ID: "call_abc", Name: "a"}}},
		conversation.ToolMessage("a", "call_abc", "ok"),
	})
	require.Equal(t, "call_abc", got[1].ToolCalls[0].ID)
	require.Equal(t, "call_abc", got[2].ToolCallID)
}

func TestGenerate(t *testing.T) {
	var captured openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role: openai.ChatMessageRoleAssistant,
					ToolCalls: []openai.ToolCall{
						{ID: "call_1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "sum_prices", Arguments: `{"prices":[1,2]}`}},
						{ID: "call_2", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "broken", Arguments: `{not json`}},
					},
				},
			}},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL+"/v1", "", nil)
	require.Equal(t, "openai/"+DefaultModel, client.Name())

	resp, err := client.Generate(context.Background(), llm.Request{
		Messages: []conversation.Message{{Role: conversation.RoleUser, Content: "sum 1 and 2"}},
		Tools: []llm.FunctionDeclaration{{
			Name:       "sum_prices",
			Parameters: llm.Schema{Type: llm.TypeObject},
		}},
	})
	require.NoError(t, err)
	require.Empty(t, resp.Text)
	require.Len(t, resp.Calls, 2)
	require.Equal(t, "call_1", resp.Calls[0].ID)
	require.Equal(t, []any{1.0, 2.0}, resp.Calls[0].Args["prices"])
	require.Equal(t, map[string]any{}, resp.Calls[1].Args)

	require.Equal(t, DefaultModel, captured.Model)
	require.Len(t, captured.Tools, 1)
	require.Equal(t, "sum_prices", captured.Tools[0].Function.Name)
}

func TestGenerateSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := NewClient("", srv.URL+"/v1", "m", nil)
	_, err := client.Generate(context.Background(), llm.Request{
		Messages: []conversation.Message{{Role: conversation.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad key")
}
