package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentValidate(t *testing.T) {
	for _, tc := range []struct {
		name    string
		intent  Intent
		wantErr bool
	}{
		{"valid", Intent{IntentType: QAIntent, Confidence: 0.7, Reasoning: "asks a question"}, false},
		{"bounds", Intent{IntentType: UnknownIntent, Confidence: 1}, false},
		{"confidence above one", Intent{IntentType: QAIntent, Confidence: 1.2}, true},
		{"negative confidence", Intent{IntentType: CalculationIntent, Confidence: -0.1}, true},
		{"outside closed set", Intent{IntentType: "chitchat", Confidence: 0.5}, true},
		{"missing type", Intent{Confidence: 0.5}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.intent.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIntentTypeUnmarshalAcceptsBritishSpelling(t *testing.T) {
	var intent Intent
	require.NoError(t, json.Unmarshal([]byte(`{"intent_type":"Summarisation","confidence":0.9,"reasoning":"wants a digest"}`), &intent))
	assert.Equal(t, SummarizationIntent, intent.IntentType)
	assert.NoError(t, intent.Validate())
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "doc_1", Document{"id": "doc_1", "document_id": "doc_2"}.ID())
	assert.Equal(t, "doc_2", Document{"document_id": "doc_2"}.ID())
	assert.Equal(t, UnknownDocumentID, Document{"title": "untitled"}.ID())
	assert.Equal(t, []string{"a", "b", UnknownDocumentID}, SourceIDs([]Document{
		{"id": "a"}, {"document_id": "b"}, {"id": "a"}, {}, {"title": "x"},
	}))
}

func TestNewAnswerDedupesSources(t *testing.T) {
	answer := NewAnswer("q", "a", []string{"doc_1", "doc_2", "doc_1"}, 0.85, nil)
	assert.Equal(t, []string{"doc_1", "doc_2"}, answer.Sources)
	assert.NoError(t, answer.Validate())

	answer.Confidence = 1.5
	assert.Error(t, answer.Validate())
}

func sampleAnswer() *Answer {
	return NewAnswer(
		"What is data visualization?",
		"The graphical representation of information.",
		[]string{"doc_2", "doc_1"},
		0.85,
		[]Document{
			{"id": "doc_1", "title": "Introduction to Data Visualization"},
			{"document_id": "doc_2", "matching_section": "Effective data visualization"},
		},
	)
}

func assertAnswerEqual(t *testing.T, expected, got *Answer) {
	t.Helper()
	assert.Equal(t, expected.Question, got.Question)
	assert.Equal(t, expected.Answer, got.Answer)
	assert.ElementsMatch(t, expected.Sources, got.Sources)
	assert.Equal(t, expected.Confidence, got.Confidence)
	assert.True(t, expected.Timestamp.Equal(got.Timestamp), "timestamp %s != %s", expected.Timestamp, got.Timestamp)
	assert.Equal(t, expected.RetrievedDocuments, got.RetrievedDocuments)
}

func TestAnswerJSONRoundTrip(t *testing.T) {
	answer := sampleAnswer()
	bs, err := json.Marshal(answer)
	require.NoError(t, err)
	var decoded Answer
	require.NoError(t, json.Unmarshal(bs, &decoded))
	assertAnswerEqual(t, answer, &decoded)
}

func TestAnswerBinaryRoundTrip(t *testing.T) {
	answer := sampleAnswer()
	bs, err := answer.MarshalBinary()
	require.NoError(t, err)
	var decoded Answer
	require.NoError(t, decoded.UnmarshalBinary(bs))
	assertAnswerEqual(t, answer, &decoded)

	assert.Error(t, decoded.UnmarshalBinary(bs[:len(bs)-3]))
	assert.Error(t, decoded.UnmarshalBinary(append(bs, 0)))
}

func TestAnswerSourcesAreASet(t *testing.T) {
	var decoded Answer
	require.NoError(t, json.Unmarshal([]byte(`{"question":"q","answer":"a","sources":["x","y","x"],"confidence":0.5,"timestamp":"2026-01-02T03:04:05Z"}`), &decoded))
	assert.ElementsMatch(t, []string{"x", "y"}, decoded.Sources)
	assert.True(t, decoded.Timestamp.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "plain", Stringify("plain"))
	assert.Equal(t, "4", Stringify(4.0))
	assert.Equal(t, `{"error":"boom"}`, Stringify(map[string]any{"error": "boom"}))
	assert.Equal(t, "", Stringify(nil))
}
