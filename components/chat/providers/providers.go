package providers

import (
	"fmt"

	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/components/chat/providers/anthropic"
	"github.com/bububa/docassist/components/chat/providers/openai"
)

type Provider string

const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
)

var (
	NewOpenAI    = openai.NewFromKey
	NewAnthropic = anthropic.NewFromKey
)

// New returns the chat.Model of the named provider
func New(provider Provider, authToken string, baseURL string, options ...chat.Option) (chat.Model, error) {
	switch provider {
	case OpenAI, "":
		return NewOpenAI(authToken, baseURL, options...), nil
	case Anthropic:
		return NewAnthropic(authToken, baseURL, options...), nil
	}
	return nil, fmt.Errorf("unsupported provider: %s", provider)
}
