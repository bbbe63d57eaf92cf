package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/components/systemprompt"
	"github.com/bububa/docassist/tools"
)

type Option func(c *Config)

func WithModel(m chat.Model) Option {
	return func(c *Config) {
		c.model = m
	}
}

func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(c *Config) {
		c.systemPromptGenerator = g
	}
}

func WithTools(r *tools.Registry) Option {
	return func(c *Config) {
		c.registry = r
	}
}

// WithMaxIterations bounds the loop, zero makes every run exhausted
func WithMaxIterations(n int) Option {
	return func(c *Config) {
		c.maxIterations = max(n, 0)
	}
}

// WithConfidence sets the confidence of successful answers, clamped to [0, 1]
func WithConfidence(v float64) Option {
	return func(c *Config) {
		c.confidence = min(max(v, 0), 1)
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.name = name
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithStartHook(fn func(context.Context, *ToolAgent, *Input)) Option {
	return func(c *Config) {
		c.startHook = fn
	}
}

func WithEndHook(fn func(context.Context, *ToolAgent, *Input, *Result)) Option {
	return func(c *Config) {
		c.endHook = fn
	}
}

func WithErrorHook(fn func(context.Context, *ToolAgent, *Input, error)) Option {
	return func(c *Config) {
		c.errorHook = fn
	}
}
