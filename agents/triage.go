package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/schema"
)

// ClassificationError is returned when triage can not produce a valid Intent
type ClassificationError struct {
	Input string
	Err   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify intent: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// Triage classifies user input into an Intent with one structured model call
type Triage struct {
	Config
}

// NewTriage returns a Triage, the classification prompt is used unless a generator is given
func NewTriage(options ...Option) *Triage {
	ret := &Triage{
		Config: Config{
			name:   "triage_agent",
			logger: zap.NewNop(),
		},
	}
	for _, opt := range options {
		opt(&ret.Config)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = NewTriagePromptGenerator()
	}
	return ret
}

// Classify returns the intent of input. Failures are *ClassificationError and are never retried here.
func (t *Triage) Classify(ctx context.Context, input string, history []components.Message, apiResp *components.LLMResponse) (*schema.Intent, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &ClassificationError{Input: input, Err: schema.ErrEmptyInput}
	}
	if t.model == nil {
		return nil, &ClassificationError{Input: input, Err: fmt.Errorf("no model configured")}
	}
	messages := []components.Message{
		*components.NewMessage(components.SystemRole, t.systemPromptGenerator.GenerateWith(historyProvider(history))),
		*components.NewMessage(components.UserRole, input),
	}
	intent := new(schema.Intent)
	if err := t.model.Extract(ctx, messages, intent, apiResp); err != nil {
		return nil, &ClassificationError{Input: input, Err: err}
	}
	if err := intent.Validate(); err != nil {
		return nil, &ClassificationError{Input: input, Err: err}
	}
	t.logger.Debug("intent classified",
		zap.String("intent", string(intent.IntentType)),
		zap.Float64("confidence", intent.Confidence),
	)
	return intent, nil
}
