package models

type MessageType int

const (
	User MessageType = iota
	Assistant
	Program
	ToolCall
	ToolResult
)

// Message is one rendered line of the chat transcript
type Message struct {
	Content string
	Type    MessageType
	// Tool calls and results
	ToolCallID string
	ToolName   string
	ToolArgs   string // JSON
	ToolFailed bool
}
