package components

import (
	"sync"
)

// Memory is the append-only transcript of an agent run.
// threadsafe
type Memory struct {
	//	history is a list of messages representing the transcript.
	history []Message
	//	turnID is the ID of the current turn.
	turnID string
	// mtx sync lock
	mtx sync.RWMutex
}

// NewMemory initializes the Memory with an empty history.
func NewMemory() *Memory {
	return &Memory{
		history: make([]Message, 0, 8),
	}
}

// TurnID returns the current turn ID
func (m *Memory) TurnID() string {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.turnID
}

// SetTurnID set the current turn ID
func (m *Memory) SetTurnID(turnID string) *Memory {
	m.mtx.Lock()
	m.turnID = turnID
	m.mtx.Unlock()
	return m
}

// NewTurn initializes a new turn by generating a random turn ID.
func (m *Memory) NewTurn() *Memory {
	return m.SetTurnID(NewTurnID())
}

// NewMessage appends a text message stamped with the current turn ID.
func (m *Memory) NewMessage(role MessageRole, content string) *Message {
	msg := NewMessage(role, content)
	m.Append(*msg)
	return msg
}

// Append appends messages to the transcript. Messages without a turn ID get the current one.
func (m *Memory) Append(msgs ...Message) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for _, msg := range msgs {
		if msg.TurnID == "" {
			msg.TurnID = m.turnID
		}
		m.history = append(m.history, msg.Clone())
	}
}

// History returns a copy of the transcript.
func (m *Memory) History() []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	list := make([]Message, 0, len(m.history))
	for _, v := range m.history {
		list = append(list, v.Clone())
	}
	return list
}
