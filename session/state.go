// Package session holds per session conversation state and its stores.
package session

import (
	"encoding/json"
	"time"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/schema"
)

// ActionClassifyIntent is recorded in ActionsTaken for every classified turn
const ActionClassifyIntent = "classify_intent"

// NextStep names the agent a turn is routed to, empty means none
type NextStep = string

const (
	QAAgent            NextStep = "qa_agent"
	SummarizationAgent NextStep = "summarization_agent"
	CalculationAgent   NextStep = "calculation_agent"
)

var nextSteps = map[schema.IntentType]NextStep{
	schema.QAIntent:            QAAgent,
	schema.SummarizationIntent: SummarizationAgent,
	schema.CalculationIntent:   CalculationAgent,
}

// NextStepFor maps an intent to its agent. Unknown and unrecognized intents fall back to QAAgent.
func NextStepFor(intent schema.IntentType) NextStep {
	if step, ok := nextSteps[intent]; ok {
		return step
	}
	return QAAgent
}

// DocumentSet is an insertion ordered set of document ids
type DocumentSet []string

// Add inserts ids not yet present
func (s *DocumentSet) Add(ids ...string) {
	for _, id := range ids {
		if id == "" || s.Has(id) {
			continue
		}
		*s = append(*s, id)
	}
}

func (s DocumentSet) Has(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

func (s *DocumentSet) UnmarshalJSON(bs []byte) error {
	var list []string
	if err := json.Unmarshal(bs, &list); err != nil {
		return err
	}
	*s = nil
	s.Add(list...)
	return nil
}

// State is the conversation state of one session
type State struct {
	SessionID           string               `json:"session_id"`
	UserID              string               `json:"user_id"`
	UserInput           string               `json:"user_input"`
	Messages            []components.Message `json:"messages"`
	Intent              *schema.Intent       `json:"intent,omitempty"`
	NextStep            NextStep             `json:"next_step,omitempty"`
	ConversationSummary string               `json:"conversation_summary"`
	ActiveDocuments     DocumentSet          `json:"active_documents"`
	CurrentResponse     *schema.Answer       `json:"current_response,omitempty"`
	ToolsUsed           []string             `json:"tools_used"`
	ActionsTaken        []string             `json:"actions_taken"`
	RetrievedDocuments  []schema.Document    `json:"retrieved_documents"`
	Usage               components.LLMUsage  `json:"usage"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// NewState returns an empty State
func NewState(sessionID string, userID string) *State {
	now := time.Now().UTC()
	return &State{
		SessionID:          sessionID,
		UserID:             userID,
		Messages:           []components.Message{},
		ActiveDocuments:    DocumentSet{},
		ToolsUsed:          []string{},
		ActionsTaken:       []string{},
		RetrievedDocuments: []schema.Document{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Clone returns a deep copy of the state, documents are copied one level deep
func (s *State) Clone() *State {
	ret := *s
	ret.Messages = make([]components.Message, 0, len(s.Messages))
	for _, msg := range s.Messages {
		ret.Messages = append(ret.Messages, msg.Clone())
	}
	if s.Intent != nil {
		intent := *s.Intent
		ret.Intent = &intent
	}
	if s.CurrentResponse != nil {
		answer := *s.CurrentResponse
		answer.Sources = append([]string{}, s.CurrentResponse.Sources...)
		answer.RetrievedDocuments = cloneDocuments(s.CurrentResponse.RetrievedDocuments)
		ret.CurrentResponse = &answer
	}
	ret.ActiveDocuments = append(DocumentSet{}, s.ActiveDocuments...)
	ret.ToolsUsed = append([]string{}, s.ToolsUsed...)
	ret.ActionsTaken = append([]string{}, s.ActionsTaken...)
	ret.RetrievedDocuments = cloneDocuments(s.RetrievedDocuments)
	return &ret
}

func cloneDocuments(docs []schema.Document) []schema.Document {
	ret := make([]schema.Document, 0, len(docs))
	for _, doc := range docs {
		ret = append(ret, doc.Clone())
	}
	return ret
}

// BeginTurn records the user input of a new turn
func (s *State) BeginTurn(input string) {
	s.UserInput = input
	s.touch()
}

// Classified records a triage result and the resolved next step
func (s *State) Classified(intent *schema.Intent) {
	s.Intent = intent
	s.NextStep = NextStepFor(intent.IntentType)
	s.ActionsTaken = append(s.ActionsTaken, ActionClassifyIntent)
	s.touch()
}

// TurnDelta is what an agent run contributes to the session
type TurnDelta struct {
	Agent              string
	Answer             *schema.Answer
	ToolsUsed          []string
	RetrievedDocuments []schema.Document
	Usage              *components.LLMUsage
}

// Apply merges a successful agent run. Lists only grow and the next step is cleared.
func (s *State) Apply(d TurnDelta) {
	s.CurrentResponse = d.Answer
	s.ToolsUsed = append(s.ToolsUsed, d.ToolsUsed...)
	s.ActionsTaken = append(s.ActionsTaken, d.Agent)
	s.RetrievedDocuments = append(s.RetrievedDocuments, cloneDocuments(d.RetrievedDocuments)...)
	if d.Answer != nil {
		for _, id := range d.Answer.Sources {
			if id != schema.UnknownDocumentID {
				s.ActiveDocuments.Add(id)
			}
		}
		s.Messages = append(s.Messages,
			*components.NewMessage(components.UserRole, s.UserInput),
			*components.NewMessage(components.AssistantRole, d.Answer.Answer),
		)
	}
	s.Usage.Merge(d.Usage)
	s.NextStep = ""
	s.touch()
}

// Failed records an agent run that ended with an error, the current response is kept
func (s *State) Failed(agent string, usage *components.LLMUsage) {
	s.ActionsTaken = append(s.ActionsTaken, agent)
	s.Usage.Merge(usage)
	s.touch()
}

func (s *State) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// MarshalBinary implements encoding.BinaryMarshaler
func (s *State) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (s *State) UnmarshalBinary(bs []byte) error {
	return json.Unmarshal(bs, s)
}
