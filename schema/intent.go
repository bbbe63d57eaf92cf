package schema

import (
	"encoding/json"
	"strings"
)

// IntentType is the closed set of user intents
type IntentType string

const (
	QAIntent            IntentType = "qa"
	SummarizationIntent IntentType = "summarization"
	CalculationIntent   IntentType = "calculation"
	UnknownIntent       IntentType = "unknown"
)

// IntentTypes lists every valid IntentType
var IntentTypes = []IntentType{QAIntent, SummarizationIntent, CalculationIntent, UnknownIntent}

// ParseIntentType normalizes v into an IntentType. British spelling of summarization is accepted.
func ParseIntentType(v string) IntentType {
	switch t := IntentType(strings.ToLower(strings.TrimSpace(v))); t {
	case "summarisation":
		return SummarizationIntent
	default:
		return t
	}
}

// Valid reports whether t belongs to the closed set
func (t IntentType) Valid() bool {
	for _, v := range IntentTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (t *IntentType) UnmarshalJSON(bs []byte) error {
	var s string
	if err := json.Unmarshal(bs, &s); err != nil {
		return err
	}
	*t = ParseIntentType(s)
	return nil
}

// Intent is the structured result of intent triage
type Intent struct {
	// IntentType classified intent
	IntentType IntentType `json:"intent_type" jsonschema:"title=intent_type,enum=qa,enum=summarization,enum=calculation,enum=unknown,description=The classified intent of the user request." validate:"required,oneof=qa summarization calculation unknown"`
	// Confidence classification confidence between 0 and 1
	Confidence float64 `json:"confidence" jsonschema:"title=confidence,minimum=0,maximum=1,description=Confidence of the classification between 0 and 1." validate:"gte=0,lte=1"`
	// Reasoning explains the classification
	Reasoning string `json:"reasoning" jsonschema:"title=reasoning,description=Step by step reasoning behind the classification."`
}

var _ Schema = (*Intent)(nil)

func NewIntent(intentType IntentType, confidence float64, reasoning string) *Intent {
	return &Intent{
		IntentType: intentType,
		Confidence: confidence,
		Reasoning:  reasoning,
	}
}

// Validate implements Schema interface
func (i Intent) Validate() error {
	return ValidateStruct(i)
}
