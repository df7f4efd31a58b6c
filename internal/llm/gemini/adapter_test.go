package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/llm"
)

func TestContentsTextOnlyPreservesOrder(t *testing.T) {
	msgs := []conversation.Message{
		{Role: conversation.RoleSystem, Content: "sys"},
		{Role: conversation.RoleUser, Content: "u1"},
		{Role: conversation.RoleAssistant, Content: "a1"},
		{Role: conversation.RoleUser, Content: "u2"},
		{Role: conversation.RoleSystem, Content: "sys2"},
		{Role: conversation.RoleAssistant, Content: "a2"},
	}

	contents := Contents(msgs)
	require.Len(t, contents, 4)

	wantRoles := []string{roleUser, roleModel, roleUser, roleModel}
	wantText := []genai.Text{"u1", "a1", "u2", "a2"}
	for i, c := range contents {
		require.Equal(t, wantRoles[i], c.Role)
		require.Len(t, c.Parts, 1)
		require.Equal(t, wantText[i], c.Parts[0])
	}
}

func TestContentsFunctionCallsAndResponses(t *testing.T) {
	msgs := []conversation.Message{
		{Role: conversation.RoleUser, Content: "how much are two keyboards?"},
		{Role: conversation.RoleAssistant, FunctionCalls: []conversation.FunctionCall{
			{Name: "search_products", Args: map[string]any{"query": "keyboard"}},
			{Name: "calculate_price", Args: map[string]any{"product": "kb-1", "quantity": 2.0}},
		}},
		conversation.ToolMessage("search_products", "", []string{"kb-1"}),
		conversation.ToolMessage("calculate_price", "", "Error: product not found"),
	}

	contents := Contents(msgs)
	require.Len(t, contents, 4)

	calls := contents[1]
	require.Equal(t, roleModel, calls.Role)
	require.Len(t, calls.Parts, 2)
	require.Equal(t, genai.FunctionCall{Name: "search_products", Args: map[string]any{"query": "keyboard"}}, calls.Parts[0])
	require.Equal(t, "calculate_price", calls.Parts[1].(genai.FunctionCall).Name)

	resp := contents[2]
	require.Equal(t, roleUser, resp.Role)
	require.Equal(t, genai.FunctionResponse{
		Name:     "search_products",
		Response: map[string]any{"result": []any{"kb-1"}},
	}, resp.Parts[0])

	errResp := contents[3].Parts[0].(genai.FunctionResponse)
	require.Equal(t, map[string]any{"result": "Error: product not found"}, errResp.Response)
}

func TestSystemInstruction(t *testing.T) {
	require.Nil(t, SystemInstruction([]conversation.Message{{Role: conversation.RoleUser, Content: "x"}}))

	got := SystemInstruction([]conversation.Message{
		{Role: conversation.RoleUser, Content: "x"},
		{Role: conversation.RoleSystem, Content: "first"},
		{Role: conversation.RoleSystem, Content: "second"},
	})
	require.NotNil(t, got)
	require.Equal(t, []genai.Part{genai.Text("first")}, got.Parts)
}

func TestToolsSchema(t *testing.T) {
	tool := Tools([]llm.FunctionDeclaration{{
		Name:        "sum_prices",
		Description: "adds prices",
		Parameters: llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"prices": {Type: llm.TypeArray, Items: &llm.Schema{Type: llm.TypeNumber}},
			},
			Required: []string{"prices"},
		},
	}})
	require.Len(t, tool.FunctionDeclarations, 1)

	params := tool.FunctionDeclarations[0].Parameters
	require.Equal(t, genai.TypeObject, params.Type)
	require.Equal(t, []string{"prices"}, params.Required)
	require.Equal(t, genai.TypeArray, params.Properties["prices"].Type)
	require.Equal(t, genai.TypeNumber, params.Properties["prices"].Items.Type)

	require.Nil(t, Tools(nil))
}

func TestParse(t *testing.T) {
	_, err := Parse(&genai.GenerateContentResponse{})
	require.Error(t, err)

	empty, err := Parse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	require.NoError(t, err)
	require.Empty(t, empty.Text)
	require.Empty(t, empty.Calls)

	resp, err := Parse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: roleModel, Parts: []genai.Part{
			genai.FunctionCall{Name: "a", Args: map[string]any{"x": 1.0}},
			genai.Text(""),
			genai.FunctionCall{Name: "b"},
		}},
	}}})
	require.NoError(t, err)
	require.Empty(t, resp.Text)
	require.Equal(t, []conversation.FunctionCall{
		{Name: "a", Args: map[string]any{"x": 1.0}},
		{Name: "b"},
	}, resp.Calls)

	text, err := Parse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("first"), genai.Text("final")}},
	}}})
	require.NoError(t, err)
	require.Equal(t, "final", text.Text)
}

func TestMergeFunctionResponses(t *testing.T) {
	msgs := []conversation.Message{
		{Role: conversation.RoleUser, Content: "q"},
		{Role: conversation.RoleAssistant, FunctionCalls: []conversation.FunctionCall{{Name: "a"}, {Name: "b"}}},
		conversation.ToolMessage("a", "", 1.0),
		conversation.ToolMessage("b", "", 2.0),
		{Role: conversation.RoleUser, Content: "follow-up"},
	}

	contents := mergeFunctionResponses(Contents(msgs))
	require.Len(t, contents, 4)
	require.Len(t, contents[2].Parts, 2)
	require.Equal(t, "a", contents[2].Parts[0].(genai.FunctionResponse).Name)
	require.Equal(t, "b", contents[2].Parts[1].(genai.FunctionResponse).Name)
	require.Equal(t, genai.Text("follow-up"), contents[3].Parts[0])
}
