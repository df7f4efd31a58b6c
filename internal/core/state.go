package core

import (
	"strings"
	"sync"

	"github.com/Rorical/StoreAgent/internal/conversation"
	"github.com/Rorical/StoreAgent/internal/models"
)

// ChatState is the transcript shown by the UI. Agent conversations are not
// kept here: every question starts a fresh one.
type ChatState struct {
	mu           sync.RWMutex
	transcript   []models.Message
	isProcessing bool
	lastError    error
	questions    int
}

func NewChatState() *ChatState {
	return &ChatState{
		transcript: make([]models.Message, 0),
	}
}

func (cs *ChatState) GetMessages() []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	result := make([]models.Message, len(cs.transcript))
	copy(result, cs.transcript)
	return result
}

func (cs *ChatState) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.transcript)
}

// MessagesSince returns the transcript entries from index n on
func (cs *ChatState) MessagesSince(n int) []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if n >= len(cs.transcript) {
		return nil
	}
	if n < 0 {
		n = 0
	}
	result := make([]models.Message, len(cs.transcript)-n)
	copy(result, cs.transcript[n:])
	return result
}

// AddProgramMessage adds a program message (system notifications)
func (cs *ChatState) AddProgramMessage(content string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.transcript = append(cs.transcript, models.Message{Content: content, Type: models.Program})
}

// AddConversationMessage renders an agent message into the transcript
func (cs *ChatState) AddConversationMessage(msg conversation.Message) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.transcript = append(cs.transcript, ToUIMessages(msg)...)
}

func (cs *ChatState) StartProcessing() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.isProcessing = true
	cs.lastError = nil
	cs.questions++
}

func (cs *ChatState) FinishProcessing(err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.isProcessing = false
	cs.lastError = err
}

func (cs *ChatState) IsProcessing() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.isProcessing
}

func (cs *ChatState) GetLastError() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastError
}

// Questions counts the questions asked so far
func (cs *ChatState) Questions() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.questions
}

func (cs *ChatState) Clear() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.transcript = cs.transcript[:0:0]
	cs.lastError = nil
}

// ToUIMessages converts one conversation message into transcript entries.
// System messages are not displayed.
func ToUIMessages(msg conversation.Message) []models.Message {
	switch msg.Role {
	case conversation.RoleUser:
		return []models.Message{{Content: msg.Content, Type: models.User}}
	case conversation.RoleAssistant:
		if len(msg.FunctionCalls) == 0 {
			return []models.Message{{Content: msg.Content, Type: models.Assistant}}
		}
		result := make([]models.Message, 0, len(msg.FunctionCalls))
		for _, call := range msg.FunctionCalls {
			args := conversation.RenderResult(call.Args)
			if call.Args == nil {
				args = "{}"
			}
			result = append(result, models.Message{
				Content:    args,
				Type:       models.ToolCall,
				ToolCallID: call.ID,
				ToolName:   call.Name,
				ToolArgs:   args,
			})
		}
		return result
	case conversation.RoleTool:
		content := msg.Content
		if content == "" {
			content = conversation.RenderResult(msg.Result)
		}
		return []models.Message{{
			Content:    content,
			Type:       models.ToolResult,
			ToolCallID: msg.CallID,
			ToolName:   msg.Name,
			ToolFailed: isFailure(msg.Result),
		}}
	}
	return nil
}

// isFailure recognizes the textual results the agent reports for failed calls
func isFailure(result any) bool {
	text, ok := result.(string)
	if !ok {
		return false
	}
	return strings.HasPrefix(text, "Error: ") ||
		(strings.HasPrefix(text, "Function ") && strings.HasSuffix(text, " is not implemented"))
}
