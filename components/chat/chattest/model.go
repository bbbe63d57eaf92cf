// Package chattest provides a scripted chat.Model for tests.
package chattest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/schema"
)

// ErrScriptExhausted is returned when the model is called more times than scripted
var ErrScriptExhausted = errors.New("chattest: script exhausted")

// Step is one scripted completion
type Step struct {
	Content   string
	ToolCalls []components.ToolCall
	Usage     *components.LLMUsage
	Err       error
}

// Model replays scripted completions and extractions in order.
// When Loop is set the last completion step is repeated forever.
type Model struct {
	Steps       []Step
	Extractions []any
	Loop        bool

	mtx      sync.Mutex
	requests []chat.Request
	extracts [][]components.Message
}

var _ chat.Model = (*Model)(nil)

// New returns a Model replaying the given completion steps
func New(steps ...Step) *Model {
	return &Model{Steps: steps}
}

// WithExtractions sets the values returned by Extract, an error value is returned as the error
func (m *Model) WithExtractions(values ...any) *Model {
	m.Extractions = values
	return m
}

// Requests returns the completion requests received so far
func (m *Model) Requests() []chat.Request {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	ret := make([]chat.Request, len(m.requests))
	copy(ret, m.requests)
	return ret
}

// ExtractCalls returns the number of Extract calls received so far
func (m *Model) ExtractCalls() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return len(m.extracts)
}

func (m *Model) Complete(ctx context.Context, req *chat.Request) (*chat.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mtx.Lock()
	idx := len(m.requests)
	m.requests = append(m.requests, chat.Request{
		Messages: append([]components.Message(nil), req.Messages...),
		Tools:    append([]components.ToolDefinition(nil), req.Tools...),
	})
	m.mtx.Unlock()
	if idx >= len(m.Steps) {
		if !m.Loop || len(m.Steps) == 0 {
			return nil, chat.NewModelInvocationError("chattest", "complete", ErrScriptExhausted)
		}
		idx = len(m.Steps) - 1
	}
	step := m.Steps[idx]
	if step.Err != nil {
		return nil, chat.NewModelInvocationError("chattest", "complete", step.Err)
	}
	ret := &chat.Completion{
		Message: components.Message{
			Role:      components.AssistantRole,
			Content:   step.Content,
			ToolCalls: append([]components.ToolCall(nil), step.ToolCalls...),
		},
	}
	ret.Response.Role = components.AssistantRole
	ret.Response.Usage = step.Usage
	return ret, nil
}

func (m *Model) Extract(ctx context.Context, messages []components.Message, out schema.Schema, resp *components.LLMResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mtx.Lock()
	idx := len(m.extracts)
	m.extracts = append(m.extracts, append([]components.Message(nil), messages...))
	m.mtx.Unlock()
	if idx >= len(m.Extractions) {
		return chat.NewModelInvocationError("chattest", "extract", ErrScriptExhausted)
	}
	v := m.Extractions[idx]
	if err, ok := v.(error); ok {
		return chat.NewModelInvocationError("chattest", "extract", err)
	}
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bs, out); err != nil {
		return chat.NewModelInvocationError("chattest", "extract", err)
	}
	if resp != nil {
		resp.Role = components.AssistantRole
	}
	return nil
}

// CallTool is a helper building a tool call with JSON encoded arguments
func CallTool(id string, name string, args map[string]any) components.ToolCall {
	bs, _ := json.Marshal(args)
	return components.ToolCall{ID: id, Name: name, Arguments: string(bs)}
}
