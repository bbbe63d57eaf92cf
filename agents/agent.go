package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/components/systemprompt"
	"github.com/bububa/docassist/tools"
)

// DefaultMaxIterations bounds the tool calling loop
const DefaultMaxIterations = 5

// Kind is the task an agent loop is configured for
type Kind string

const (
	QAKind            Kind = "qa"
	SummarizationKind Kind = "summarization"
	CalculationKind   Kind = "calculation"
)

// Config represents general agents configuration
type Config struct {
	// model for interacting with the language model
	model chat.Model
	//	systemPromptGenerator Component for generating system prompts.
	systemPromptGenerator systemprompt.Generator
	// registry tools bound to the agent
	registry *tools.Registry
	// maxIterations is the number of model calls a loop may make
	maxIterations int
	// confidence reported by successful answers
	confidence float64
	// name is Agent name presentation
	name   string
	logger *zap.Logger

	startHook func(context.Context, *ToolAgent, *Input)
	endHook   func(context.Context, *ToolAgent, *Input, *Result)
	errorHook func(context.Context, *ToolAgent, *Input, error)
}

func (c Config) Name() string {
	return c.name
}

func (c Config) Model() chat.Model {
	return c.model
}

func (c Config) MaxIterations() int {
	return c.maxIterations
}

func (c Config) Confidence() float64 {
	return c.confidence
}

// SystemPrompt returns the system prompt without per run context
func (c Config) SystemPrompt() string {
	if c.systemPromptGenerator == nil {
		return ""
	}
	return c.systemPromptGenerator.Generate()
}

// Tools returns the tools bound to the agent
func (c Config) Tools() *tools.Registry {
	return c.registry
}
