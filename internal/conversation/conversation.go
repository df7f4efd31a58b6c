package conversation

import (
	"sync"
)

// Conversation is the append-only message history of a single agent invocation
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

func New(systemPrompt string) *Conversation {
	c := &Conversation{
		messages: make([]Message, 0, 8),
	}
	if systemPrompt != "" {
		c.messages = append(c.messages, Message{Role: RoleSystem, Content: systemPrompt})
	}
	return c
}

// Append validates and adds a message to the end of the history
func (c *Conversation) Append(msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

func (c *Conversation) AddUserMessage(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// An empty question is still a turn; it is not validated away.
	c.messages = append(c.messages, Message{Role: RoleUser, Content: content})
}

func (c *Conversation) AddAssistantText(content string) error {
	return c.Append(Message{Role: RoleAssistant, Content: content})
}

// AddAssistantCalls records the function calls requested by the model
func (c *Conversation) AddAssistantCalls(calls []FunctionCall) error {
	copied := make([]FunctionCall, len(calls))
	copy(copied, calls)
	return c.Append(Message{Role: RoleAssistant, FunctionCalls: copied})
}

func (c *Conversation) AddToolResult(name, callID string, result any) error {
	return c.Append(ToolMessage(name, callID, result))
}

// Messages returns a snapshot of the history
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Message, len(c.messages))
	copy(result, c.messages)
	return result
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Last returns the most recent message, if any
func (c *Conversation) Last() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// SystemInstruction returns the content of the first system message,
// wherever it sits in the history.
func SystemInstruction(messages []Message) (string, bool) {
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			return msg.Content, true
		}
	}
	return "", false
}

// WithoutSystem drops system messages and keeps everything else in order
func WithoutSystem(messages []Message) []Message {
	result := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role != RoleSystem {
			result = append(result, msg)
		}
	}
	return result
}
