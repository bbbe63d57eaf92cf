package components

import (
	"encoding/json"
	"testing"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageJSON(t *testing.T) {
	msg := NewToolRequestMessage(ToolCall{ID: "call_1", Name: "calculate", Arguments: `{"expression":"2+2"}`}).SetTurnID("t1")
	bs, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(bs, &decoded))
	assert.Equal(t, *msg, decoded)
	assert.True(t, decoded.IsToolRequest())
}

func TestMessageToOpenAI(t *testing.T) {
	req := NewToolRequestMessage(ToolCall{ID: "call_1", Name: "calculate", Arguments: `{"expression":"2+2"}`})
	var dist openai.ChatCompletionMessage
	req.ToOpenAI(&dist)
	assert.Equal(t, openai.ChatMessageRoleAssistant, dist.Role)
	require.Len(t, dist.ToolCalls, 1)
	assert.Equal(t, "calculate", dist.ToolCalls[0].Function.Name)
	assert.Equal(t, "call_1", dist.ToolCalls[0].ID)

	res := NewToolResultMessage(ToolCallback{ID: "call_1", Name: "calculate", Content: "4"})
	dist = openai.ChatCompletionMessage{}
	res.ToOpenAI(&dist)
	assert.Equal(t, openai.ChatMessageRoleTool, dist.Role)
	assert.Equal(t, "call_1", dist.ToolCallID)
	assert.Equal(t, "4", dist.Content)

}

func TestToolCallsFromOpenAI(t *testing.T) {
	calls := []ToolCall{{ID: "call_1", Name: "calculate", Arguments: `{"expression":"2+2"}`}}
	var dist openai.ChatCompletionMessage
	ToolCallsToOpenAI(calls, &dist)
	assert.Equal(t, calls, ToolCallsFromOpenAI(dist.ToolCalls))
	assert.Nil(t, ToolCallsFromOpenAI(nil))
}

func TestMessageToAnthropic(t *testing.T) {
	var dist anthropic.Message
	NewMessage(UserRole, "hello").ToAnthropic(&dist)
	assert.Equal(t, anthropic.RoleUser, dist.Role)
	require.Len(t, dist.Content, 1)
	assert.Equal(t, "hello", dist.Content[0].GetText())

	dist = anthropic.Message{}
	NewToolRequestMessage(ToolCall{ID: "toolu_1", Name: "calculate"}).ToAnthropic(&dist)
	assert.Equal(t, anthropic.RoleAssistant, dist.Role)
	require.Len(t, dist.Content, 1)
	assert.Equal(t, anthropic.MessagesContentTypeToolUse, dist.Content[0].Type)

	dist = anthropic.Message{}
	withText := NewToolRequestMessage(ToolCall{ID: "toolu_1", Name: "calculate"})
	withText.Content = "Let me work that out."
	withText.ToAnthropic(&dist)
	require.Len(t, dist.Content, 2)
	assert.Equal(t, "Let me work that out.", dist.Content[0].GetText())
	assert.Equal(t, anthropic.MessagesContentTypeToolUse, dist.Content[1].Type)

	dist = anthropic.Message{}
	NewToolResultMessage(ToolCallback{ID: "toolu_1", Content: `{"error":"boom"}`, IsError: true}).ToAnthropic(&dist)
	assert.Equal(t, anthropic.RoleUser, dist.Role)
	require.Len(t, dist.Content, 1)
	assert.Equal(t, anthropic.MessagesContentTypeToolResult, dist.Content[0].Type)
}

func TestToolCallDecodeArguments(t *testing.T) {
	args, err := ToolCall{}.DecodeArguments()
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = ToolCall{Arguments: `{"query":"charts","max_results":3}`}.DecodeArguments()
	require.NoError(t, err)
	assert.Equal(t, "charts", args["query"])
	assert.EqualValues(t, 3, args["max_results"])

	_, err = ToolCall{Arguments: `not json`}.DecodeArguments()
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	m.NewTurn()
	turn := m.TurnID()
	require.NotEmpty(t, turn)

	m.NewMessage(UserRole, "question")
	m.Append(*NewToolRequestMessage(ToolCall{ID: "1", Name: "calculate"}))

	history := m.History()
	require.Len(t, history, 2)
	for _, msg := range history {
		assert.Equal(t, turn, msg.TurnID)
	}
	history[1].ToolCalls[0].Name = "mutated"
	assert.Equal(t, "calculate", m.History()[1].ToolCalls[0].Name)
}

func TestUsageMerge(t *testing.T) {
	u := new(LLMUsage)
	u.Merge(&LLMUsage{InputTokens: 3, OutputTokens: 2})
	u.Merge(nil)
	assert.EqualValues(t, 5, u.Total())
}
