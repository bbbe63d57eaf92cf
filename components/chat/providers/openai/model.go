package openai

import (
	"context"
	"errors"

	"github.com/bububa/instructor-go/pkg/instructor"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/schema"
)

const (
	Provider     = "openai"
	DefaultModel = openai.GPT4oMini
)

// Model is an OpenAI backed chat.Model
type Model struct {
	chat.Config
	client     *openai.Client
	instructor *instructor.InstructorOpenAI
}

var _ chat.Model = (*Model)(nil)

// New returns a new Model using the given client
func New(clt *openai.Client, options ...chat.Option) *Model {
	cfg := chat.NewConfig(append([]chat.Option{chat.WithModel(DefaultModel)}, options...)...)
	return &Model{
		Config:     cfg,
		client:     clt,
		instructor: instructor.FromOpenAI(clt, instructor.WithMode(instructor.ModeJSON), instructor.WithMaxRetries(3), instructor.WithValidation()),
	}
}

// NewFromKey returns a new Model for the api key and optional base url
func NewFromKey(authToken string, baseURL string, options ...chat.Option) *Model {
	cfg := openai.DefaultConfig(authToken)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return New(openai.NewClientWithConfig(cfg), options...)
}

func (m *Model) request(messages []components.Message) openai.ChatCompletionRequest {
	chatReq := openai.ChatCompletionRequest{
		Model:               m.Model(),
		Temperature:         m.Temperature(),
		MaxCompletionTokens: m.MaxTokens(),
		Messages:            make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		v := new(openai.ChatCompletionMessage)
		msg.ToOpenAI(v)
		chatReq.Messages = append(chatReq.Messages, *v)
	}
	return chatReq
}

// Complete implements chat.Model
func (m *Model) Complete(ctx context.Context, req *chat.Request) (*chat.Completion, error) {
	chatReq := m.request(req.Messages)
	for _, tool := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, tool.ToOpenAI())
	}
	res, err := m.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, chat.NewModelInvocationError(Provider, "complete", err)
	}
	if len(res.Choices) == 0 {
		return nil, chat.NewModelInvocationError(Provider, "complete", errors.New("empty choices"))
	}
	choice := res.Choices[0].Message
	ret := &chat.Completion{
		Message: components.Message{
			Role:      components.AssistantRole,
			Content:   choice.Content,
			ToolCalls: components.ToolCallsFromOpenAI(choice.ToolCalls),
		},
	}
	ret.Response.FromOpenAI(&res)
	m.Logger().Debug("openai completion",
		zap.String("model", res.Model),
		zap.Int("tool_calls", len(ret.Message.ToolCalls)),
		zap.Int("input_tokens", res.Usage.PromptTokens),
		zap.Int("output_tokens", res.Usage.CompletionTokens),
	)
	return ret, nil
}

// Extract implements chat.Model
func (m *Model) Extract(ctx context.Context, messages []components.Message, out schema.Schema, resp *components.LLMResponse) error {
	res, err := m.instructor.CreateChatCompletion(ctx, m.request(messages), out)
	if err != nil {
		return chat.NewModelInvocationError(Provider, "extract", err)
	}
	if resp != nil {
		resp.FromOpenAI(&res)
	}
	return nil
}
