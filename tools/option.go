package tools

import "context"

type Option func(c *Config)

// WithTitle overrides the name the tool is registered and called by
func WithTitle(title string) Option {
	return func(c *Config) {
		c.SetTitle(title)
	}
}

// WithDescription overrides the description shown to the model
func WithDescription(desc string) Option {
	return func(c *Config) {
		c.SetDescription(desc)
	}
}

// WithStartHook is called by Registry.Invoke with the decoded arguments before the tool runs
func WithStartHook(fn func(context.Context, AnonymousTool, any)) Option {
	return func(c *Config) {
		c.SetStartHook(fn)
	}
}

// WithEndHook is called by Registry.Invoke with the tool result
func WithEndHook(fn func(context.Context, AnonymousTool, any, any)) Option {
	return func(c *Config) {
		c.SetEndHook(fn)
	}
}

// WithErrorHook is called by Registry.Invoke with the *ToolInvocationError
func WithErrorHook(fn func(context.Context, AnonymousTool, any, error)) Option {
	return func(c *Config) {
		c.SetErrorHook(fn)
	}
}
