package chat

import "go.uber.org/zap"

const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.1
)

// Config represents general model configuration
type Config struct {
	// model llm model
	model string
	// temperature Temperature for response generation, typically ranging from 0 to 1.
	temperature float32
	// maxTokens Maximum number of tokens allowed in the response
	maxTokens int
	logger    *zap.Logger
}

// NewConfig returns a Config with defaults applied
func NewConfig(options ...Option) Config {
	c := Config{
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		opt(&c)
	}
	return c
}

func (c Config) Model() string {
	return c.model
}

func (c Config) Temperature() float32 {
	return c.temperature
}

func (c Config) MaxTokens() int {
	return c.maxTokens
}

func (c Config) Logger() *zap.Logger {
	return c.logger
}

type Option func(c *Config)

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		if maxTokens > 0 {
			c.maxTokens = maxTokens
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}
