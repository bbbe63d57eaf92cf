package components

import (
	"encoding/json"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/rs/xid"
	openai "github.com/sashabaranov/go-openai"
)

// NewTurnID returns a new turn ID.
func NewTurnID() string {
	return xid.New().String()
}

// MessageRole is the role of the message sender (e.g., 'user', 'system', 'tool')
type MessageRole = string

const (
	SystemRole    MessageRole = "system"
	UserRole      MessageRole = "user"
	AssistantRole MessageRole = "assistant"
	ToolRole      MessageRole = "tool"
)

// Message represents a message in a transcript.
// An assistant message carrying ToolCalls is a tool request, a tool message
// carries the stringified result of the call identified by ToolCallID.
type Message struct {
	// Role is the role of the message sender
	Role MessageRole `json:"role"`
	// Content is the text content of the message
	Content string `json:"content,omitempty"`
	// ToolCalls requested by the assistant
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID identifies the call a tool message answers
	ToolCallID string `json:"tool_call_id,omitempty"`
	// Name is the tool name of a tool message
	Name string `json:"name,omitempty"`
	// IsError marks a tool message carrying an error payload
	IsError bool `json:"is_error,omitempty"`
	// TurnID is the identifier of the turn this message belongs to
	TurnID string `json:"turn_id,omitempty"`
}

// NewMessage returns a new Message
func NewMessage(role MessageRole, content string) *Message {
	return &Message{
		Role:    role,
		Content: content,
	}
}

// NewToolRequestMessage returns an assistant message requesting the given tool calls
func NewToolRequestMessage(calls ...ToolCall) *Message {
	return &Message{
		Role:      AssistantRole,
		ToolCalls: calls,
	}
}

// NewToolResultMessage returns a tool message carrying a tool callback
func NewToolResultMessage(cb ToolCallback) *Message {
	return &Message{
		Role:       ToolRole,
		Content:    cb.Content,
		ToolCallID: cb.ID,
		Name:       cb.Name,
		IsError:    cb.IsError,
	}
}

// SetTurnID set message turnID
func (m *Message) SetTurnID(turnID string) *Message {
	m.TurnID = turnID
	return m
}

// IsToolRequest reports whether the message requests tool calls
func (m Message) IsToolRequest() bool {
	return len(m.ToolCalls) > 0
}

// Clone returns a copy of the message which shares nothing with m
func (m Message) Clone() Message {
	if m.ToolCalls != nil {
		calls := make([]ToolCall, len(m.ToolCalls))
		copy(calls, m.ToolCalls)
		m.ToolCalls = calls
	}
	return m
}

// ToOpenAI convert message to openai ChatCompletionMessage
func (m Message) ToOpenAI(dist *openai.ChatCompletionMessage) {
	dist.Role = m.Role
	dist.Content = m.Content
	dist.ToolCallID = m.ToolCallID
	if m.Role == ToolRole {
		dist.Name = m.Name
	}
	if len(m.ToolCalls) > 0 {
		ToolCallsToOpenAI(m.ToolCalls, dist)
	}
}

// ToAnthropic convert message to anthropic Message.
// System messages have no anthropic counterpart and are carried by the request instead.
func (m Message) ToAnthropic(dist *anthropic.Message) {
	switch {
	case m.Role == ToolRole:
		dist.Role = anthropic.RoleUser
		dist.Content = []anthropic.MessageContent{anthropic.NewToolResultMessageContent(m.ToolCallID, m.Content, m.IsError)}
	case len(m.ToolCalls) > 0:
		ToolCallsToAnthropic(m.ToolCalls, dist)
		if m.Content != "" {
			dist.Content = append([]anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)}, dist.Content...)
		}
	case m.Role == AssistantRole:
		dist.Role = anthropic.RoleAssistant
		dist.Content = []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)}
	default:
		dist.Role = anthropic.RoleUser
		dist.Content = []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)}
	}
}

// String returns JSON presentation of the message
func (m Message) String() string {
	bs, _ := json.Marshal(m)
	return string(bs)
}
