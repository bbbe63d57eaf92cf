// Package chat defines the language model capability used by the agents.
package chat

import (
	"context"
	"fmt"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/schema"
)

// Request is a tool-calling completion request
type Request struct {
	// Messages is the transcript, a leading system message is the system prompt
	Messages []components.Message
	// Tools are the tools the model may call
	Tools []components.ToolDefinition
}

// SystemPrompt splits a leading system message off the transcript
func SystemPrompt(messages []components.Message) (string, []components.Message) {
	if len(messages) > 0 && messages[0].Role == components.SystemRole {
		return messages[0].Content, messages[1:]
	}
	return "", messages
}

// Completion is the assistant message produced by a completion request
type Completion struct {
	Message  components.Message
	Response components.LLMResponse
}

// ToolCalls returns the tool calls requested by the model in emitted order
func (c Completion) ToolCalls() []components.ToolCall {
	return c.Message.ToolCalls
}

// Model is a language model able to call tools and to produce schema conforming output
type Model interface {
	// Complete runs one completion which may request tool calls
	Complete(ctx context.Context, req *Request) (*Completion, error)
	// Extract fills out with a structured response conforming to its schema
	Extract(ctx context.Context, messages []components.Message, out schema.Schema, resp *components.LLMResponse) error
}

// ModelInvocationError is returned when a language model call fails
type ModelInvocationError struct {
	Provider string
	Op       string
	Err      error
}

func NewModelInvocationError(provider string, op string, err error) *ModelInvocationError {
	return &ModelInvocationError{Provider: provider, Op: op, Err: err}
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}
