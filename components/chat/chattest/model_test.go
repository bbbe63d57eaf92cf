package chattest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/schema"
)

func TestModelReplay(t *testing.T) {
	ctx := context.Background()
	m := New(
		Step{ToolCalls: []components.ToolCall{CallTool("1", "calculate", map[string]any{"expression": "1+1"})}},
		Step{Content: "2"},
	)
	res, err := m.Complete(ctx, &chat.Request{})
	require.NoError(t, err)
	require.Len(t, res.ToolCalls(), 1)
	assert.Equal(t, `{"expression":"1+1"}`, res.ToolCalls()[0].Arguments)

	res, err = m.Complete(ctx, &chat.Request{})
	require.NoError(t, err)
	assert.Equal(t, "2", res.Message.Content)

	_, err = m.Complete(ctx, &chat.Request{})
	var invErr *chat.ModelInvocationError
	require.ErrorAs(t, err, &invErr)
	assert.ErrorIs(t, err, ErrScriptExhausted)
	assert.Len(t, m.Requests(), 3)
}

func TestModelExtract(t *testing.T) {
	ctx := context.Background()
	m := New().WithExtractions(map[string]any{"intent_type": "qa", "confidence": 0.9, "reasoning": "question"}, errors.New("boom"))

	var intent schema.Intent
	require.NoError(t, m.Extract(ctx, nil, &intent, nil))
	assert.Equal(t, schema.QAIntent, intent.IntentType)

	err := m.Extract(ctx, nil, &intent, nil)
	var invErr *chat.ModelInvocationError
	assert.ErrorAs(t, err, &invErr)
	assert.Equal(t, 2, m.ExtractCalls())
}
