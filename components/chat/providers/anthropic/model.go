package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/bububa/instructor-go/pkg/instructor"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/schema"
)

const (
	Provider     = "anthropic"
	DefaultModel = "claude-3-5-haiku-latest"
)

// Model is an Anthropic backed chat.Model
type Model struct {
	chat.Config
	client     *anthropic.Client
	instructor *instructor.InstructorAnthropic
}

var _ chat.Model = (*Model)(nil)

// New returns a new Model using the given client
func New(clt *anthropic.Client, options ...chat.Option) *Model {
	cfg := chat.NewConfig(append([]chat.Option{chat.WithModel(DefaultModel)}, options...)...)
	return &Model{
		Config:     cfg,
		client:     clt,
		instructor: instructor.FromAnthropic(clt, instructor.WithMode(instructor.ModeJSON), instructor.WithMaxRetries(3), instructor.WithValidation()),
	}
}

// NewFromKey returns a new Model for the api key and optional base url
func NewFromKey(authToken string, baseURL string, options ...chat.Option) *Model {
	opts := make([]anthropic.ClientOption, 0, 1)
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return New(anthropic.NewClient(authToken, opts...), options...)
}

func (m *Model) request(messages []components.Message) anthropic.MessagesRequest {
	temperature := m.Temperature()
	system, rest := chat.SystemPrompt(messages)
	chatReq := anthropic.MessagesRequest{
		Model:       anthropic.Model(m.Model()),
		Temperature: &temperature,
		MaxTokens:   m.MaxTokens(),
		System:      system,
		Messages:    make([]anthropic.Message, 0, len(rest)),
	}
	for _, msg := range rest {
		if msg.Role == components.SystemRole {
			// a late system message is context for the next user turn
			msg.Role = components.UserRole
		}
		v := new(anthropic.Message)
		msg.ToAnthropic(v)
		chatReq.Messages = append(chatReq.Messages, *v)
	}
	return chatReq
}

// Complete implements chat.Model
func (m *Model) Complete(ctx context.Context, req *chat.Request) (*chat.Completion, error) {
	chatReq := m.request(req.Messages)
	for _, tool := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, tool.ToAnthropic())
	}
	res, err := m.client.CreateMessages(ctx, chatReq)
	if err != nil {
		return nil, chat.NewModelInvocationError(Provider, "complete", err)
	}
	if len(res.Content) == 0 {
		return nil, chat.NewModelInvocationError(Provider, "complete", errors.New("empty content"))
	}
	var (
		texts []string
		msg   = components.Message{Role: components.AssistantRole}
	)
	for _, c := range res.Content {
		switch c.Type {
		case anthropic.MessagesContentTypeText:
			if c.Text != nil {
				texts = append(texts, *c.Text)
			}
		case anthropic.MessagesContentTypeToolUse:
			if use := c.MessageContentToolUse; use != nil {
				msg.ToolCalls = append(msg.ToolCalls, components.ToolCall{
					ID:        use.ID,
					Name:      use.Name,
					Arguments: string(use.Input),
				})
			}
		}
	}
	msg.Content = strings.Join(texts, "\n")
	ret := &chat.Completion{Message: msg}
	ret.Response.FromAnthropic(&res)
	m.Logger().Debug("anthropic completion",
		zap.String("model", string(res.Model)),
		zap.Int("tool_calls", len(msg.ToolCalls)),
		zap.Int("input_tokens", res.Usage.InputTokens),
		zap.Int("output_tokens", res.Usage.OutputTokens),
	)
	return ret, nil
}

// Extract implements chat.Model
func (m *Model) Extract(ctx context.Context, messages []components.Message, out schema.Schema, resp *components.LLMResponse) error {
	res, err := m.instructor.CreateMessages(ctx, m.request(messages), out)
	if err != nil {
		return chat.NewModelInvocationError(Provider, "extract", err)
	}
	if resp != nil {
		resp.FromAnthropic(&res)
	}
	return nil
}
