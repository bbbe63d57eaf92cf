package components

import (
	"encoding/json"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

// ToolDefinition describes a tool to a language model
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ToOpenAI convert definition to openai Tool
func (d ToolDefinition) ToOpenAI() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.parameters(),
		},
	}
}

// ToAnthropic convert definition to anthropic ToolDefinition
func (d ToolDefinition) ToAnthropic() anthropic.ToolDefinition {
	return anthropic.ToolDefinition{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: d.parameters(),
	}
}

func (d ToolDefinition) parameters() map[string]any {
	if d.Parameters != nil {
		return d.Parameters
	}
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

// ToolCall is a tool invocation requested by a language model.
// Arguments is the raw JSON object the model produced.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// DecodeArguments decodes the call arguments into a map. Empty arguments decode into an empty map.
func (c ToolCall) DecodeArguments() (map[string]any, error) {
	args := make(map[string]any)
	if c.Arguments == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(c.Arguments), &args); err != nil {
		return nil, err
	}
	return args, nil
}

func ToolCallsToOpenAI(src []ToolCall, dist *openai.ChatCompletionMessage) {
	list := make([]openai.ToolCall, 0, len(src))
	for _, v := range src {
		list = append(list, openai.ToolCall{
			ID:   v.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      v.Name,
				Arguments: v.Arguments,
			},
		})
	}
	dist.Role = openai.ChatMessageRoleAssistant
	dist.ToolCalls = list
}

func ToolCallsFromOpenAI(src []openai.ToolCall) []ToolCall {
	if len(src) == 0 {
		return nil
	}
	list := make([]ToolCall, 0, len(src))
	for _, v := range src {
		list = append(list, ToolCall{
			ID:        v.ID,
			Name:      v.Function.Name,
			Arguments: v.Function.Arguments,
		})
	}
	return list
}

func ToolCallsToAnthropic(src []ToolCall, dist *anthropic.Message) {
	list := make([]anthropic.MessageContent, 0, len(src))
	for _, v := range src {
		args := v.Arguments
		if args == "" {
			args = "{}"
		}
		list = append(list, anthropic.NewToolUseMessageContent(v.ID, v.Name, json.RawMessage(args)))
	}
	*dist = anthropic.Message{
		Role:    anthropic.RoleAssistant,
		Content: list,
	}
}

// ToolCallback is the result of a tool call fed back to the model
type ToolCallback struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}
