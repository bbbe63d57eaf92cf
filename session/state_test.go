package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/schema"
)

func TestNextStepFor(t *testing.T) {
	tests := []struct {
		intent schema.IntentType
		want   NextStep
	}{
		{schema.QAIntent, QAAgent},
		{schema.SummarizationIntent, SummarizationAgent},
		{schema.CalculationIntent, CalculationAgent},
		{schema.UnknownIntent, QAAgent},
		{schema.IntentType("weather"), QAAgent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextStepFor(tt.intent), string(tt.intent))
	}
}

func TestDocumentSet(t *testing.T) {
	var s DocumentSet
	s.Add("doc_1", "doc_2", "doc_1", "")
	s.Add("doc_2", "doc_3")
	assert.Equal(t, DocumentSet{"doc_1", "doc_2", "doc_3"}, s)
	assert.True(t, s.Has("doc_3"))

	var decoded DocumentSet
	require.NoError(t, json.Unmarshal([]byte(`["a","b","a"]`), &decoded))
	assert.Equal(t, DocumentSet{"a", "b"}, decoded)
}

func TestStateTurn(t *testing.T) {
	s := NewState("s1", "u1")
	s.BeginTurn("What is data visualization?")
	s.Classified(schema.NewIntent(schema.QAIntent, 0.9, "question"))
	assert.Equal(t, QAAgent, s.NextStep)
	assert.Equal(t, []string{ActionClassifyIntent}, s.ActionsTaken)

	answer := schema.NewAnswer(s.UserInput, "It is the graphical representation of data.", []string{"doc_1", "unknown"}, 0.85, nil)
	s.Apply(TurnDelta{
		Agent:              QAAgent,
		Answer:             answer,
		ToolsUsed:          []string{"retrieve_documents"},
		RetrievedDocuments: []schema.Document{{"id": "doc_1"}},
		Usage:              &components.LLMUsage{InputTokens: 10, OutputTokens: 5},
	})
	assert.Same(t, answer, s.CurrentResponse)
	assert.Empty(t, s.NextStep)
	assert.Equal(t, []string{ActionClassifyIntent, QAAgent}, s.ActionsTaken)
	assert.Equal(t, []string{"retrieve_documents"}, s.ToolsUsed)
	assert.Equal(t, DocumentSet{"doc_1"}, s.ActiveDocuments)
	assert.Len(t, s.RetrievedDocuments, 1)
	require.Len(t, s.Messages, 2)
	assert.Equal(t, components.UserRole, s.Messages[0].Role)
	assert.Equal(t, components.AssistantRole, s.Messages[1].Role)
	assert.EqualValues(t, 15, s.Usage.Total())

	s.Failed(CalculationAgent, nil)
	assert.Same(t, answer, s.CurrentResponse)
	assert.Equal(t, []string{ActionClassifyIntent, QAAgent, CalculationAgent}, s.ActionsTaken)
}

func TestStateClone(t *testing.T) {
	s := NewState("s1", "u1")
	s.Classified(schema.NewIntent(schema.QAIntent, 0.9, ""))
	s.Apply(TurnDelta{
		Agent:              QAAgent,
		Answer:             schema.NewAnswer("q", "a", []string{"doc_1"}, 0.85, nil),
		RetrievedDocuments: []schema.Document{{"id": "doc_1"}},
	})
	c := s.Clone()
	c.ActionsTaken[0] = "mutated"
	c.RetrievedDocuments[0]["id"] = "mutated"
	c.CurrentResponse.Sources[0] = "mutated"
	c.ActiveDocuments.Add("doc_9")
	assert.Equal(t, ActionClassifyIntent, s.ActionsTaken[0])
	assert.Equal(t, "doc_1", s.RetrievedDocuments[0].ID())
	assert.Equal(t, "doc_1", s.CurrentResponse.Sources[0])
	assert.False(t, s.ActiveDocuments.Has("doc_9"))
}

func TestStateBinary(t *testing.T) {
	s := NewState("s1", "u1")
	s.BeginTurn("hello")
	s.Classified(schema.NewIntent(schema.UnknownIntent, 0.4, "greeting"))
	bs, err := s.MarshalBinary()
	require.NoError(t, err)

	decoded := new(State)
	require.NoError(t, decoded.UnmarshalBinary(bs))
	assert.Equal(t, s.SessionID, decoded.SessionID)
	assert.Equal(t, s.ActionsTaken, decoded.ActionsTaken)
	assert.Equal(t, *s.Intent, *decoded.Intent)
	assert.Equal(t, QAAgent, decoded.NextStep)
	assert.True(t, s.UpdatedAt.Equal(decoded.UpdatedAt))
}
