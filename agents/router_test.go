package agents

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/components/chat/chattest"
	"github.com/bububa/docassist/schema"
	"github.com/bububa/docassist/session"
	"github.com/bububa/docassist/tools/retrieval"
)

type recordingEvents struct {
	mtx      sync.Mutex
	messages []string
}

func (r *recordingEvents) Log(message string, data map[string]any) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.messages = append(r.messages, message)
}

func intentOf(kind schema.IntentType) map[string]any {
	return map[string]any{"intent_type": string(kind), "confidence": 0.9, "reasoning": "test"}
}

func newTestRouter(t *testing.T, model *chattest.Model, opts ...RouterOption) (*Router, *session.State) {
	t.Helper()
	list := []RouterOption{
		WithAgent(NewToolAgent(QAKind, WithModel(model), WithTools(toolsFor(t, QAKind)))),
		WithAgent(NewToolAgent(SummarizationKind, WithModel(model), WithTools(toolsFor(t, SummarizationKind)))),
	}
	router := NewRouter(NewTriage(WithModel(model)), session.NewMemoryStore(time.Hour), append(list, opts...)...)
	state, err := router.NewSession(context.Background(), "user_1")
	require.NoError(t, err)
	return router, state
}

func TestRouterHandleTurn(t *testing.T) {
	model := chattest.New(
		chattest.Step{ToolCalls: []components.ToolCall{chattest.CallTool("call_1", retrieval.RetrieveName, map[string]any{"query": "data visualization"})}},
		chattest.Step{Content: "It is the graphical representation of data.", Usage: &components.LLMUsage{InputTokens: 5, OutputTokens: 5}},
	).WithExtractions(intentOf(schema.QAIntent))
	events := new(recordingEvents)
	router, sess := newTestRouter(t, model, WithEventLogger(events))

	state, err := router.HandleTurn(context.Background(), sess.SessionID, "What is data visualization?")
	require.NoError(t, err)
	assert.Equal(t, "What is data visualization?", state.UserInput)
	assert.Equal(t, []string{session.ActionClassifyIntent, session.QAAgent}, state.ActionsTaken)
	assert.Equal(t, []string{retrieval.RetrieveName}, state.ToolsUsed)
	assert.Empty(t, state.NextStep)
	require.NotNil(t, state.CurrentResponse)
	assert.Equal(t, []string{"doc_1", "doc_2", "doc_5"}, state.CurrentResponse.Sources)
	assert.Equal(t, session.DocumentSet{"doc_1", "doc_2", "doc_5"}, state.ActiveDocuments)
	assert.Len(t, state.RetrievedDocuments, 3)
	require.Len(t, state.Messages, 2)
	assert.Equal(t, components.UserRole, state.Messages[0].Role)
	assert.Equal(t, components.AssistantRole, state.Messages[1].Role)
	assert.EqualValues(t, 10, state.Usage.Total())
	assert.Equal(t, []string{"turn.classified", "turn.answered"}, events.messages)

	stored, err := router.Session(context.Background(), sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.ActionsTaken, stored.ActionsTaken)
	assert.Equal(t, Stats{Turns: 1}, router.Stats())
}

func TestRouterUnknownIntentFallsBackToQA(t *testing.T) {
	model := chattest.New(chattest.Step{Content: "Hello!"}).WithExtractions(intentOf(schema.UnknownIntent))
	router, sess := newTestRouter(t, model)

	state, err := router.HandleTurn(context.Background(), sess.SessionID, "hey")
	require.NoError(t, err)
	assert.Equal(t, schema.UnknownIntent, state.Intent.IntentType)
	assert.Equal(t, []string{session.ActionClassifyIntent, session.QAAgent}, state.ActionsTaken)
	assert.Equal(t, "Hello!", state.CurrentResponse.Answer)
	assert.Empty(t, state.ActiveDocuments)
}

func TestRouterClassificationError(t *testing.T) {
	model := chattest.New().WithExtractions(map[string]any{"intent_type": "weather", "confidence": 0.5, "reasoning": "?"})
	events := new(recordingEvents)
	router, sess := newTestRouter(t, model, WithEventLogger(events))

	state, err := router.HandleTurn(context.Background(), sess.SessionID, "will it rain")
	assert.Nil(t, state)
	var clsErr *ClassificationError
	require.ErrorAs(t, err, &clsErr)
	assert.Empty(t, model.Requests())

	stored, err := router.Session(context.Background(), sess.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stored.UserInput)
	assert.Empty(t, stored.ActionsTaken)
	assert.Nil(t, stored.Intent)
	assert.Equal(t, []string{"turn.failed"}, events.messages)
	assert.Equal(t, Stats{Turns: 1, Failed: 1}, router.Stats())
}

func TestRouterModelError(t *testing.T) {
	model := chattest.New(
		chattest.Step{Content: "first answer"},
		chattest.Step{Err: errors.New("upstream down")},
	).WithExtractions(intentOf(schema.QAIntent), intentOf(schema.SummarizationIntent))
	router, sess := newTestRouter(t, model)
	ctx := context.Background()

	_, err := router.HandleTurn(ctx, sess.SessionID, "first")
	require.NoError(t, err)

	state, err := router.HandleTurn(ctx, sess.SessionID, "summarize everything")
	var invErr *chat.ModelInvocationError
	require.ErrorAs(t, err, &invErr)
	require.NotNil(t, state)
	assert.Equal(t, []string{
		session.ActionClassifyIntent, session.QAAgent,
		session.ActionClassifyIntent, session.SummarizationAgent,
	}, state.ActionsTaken)
	assert.Equal(t, "first answer", state.CurrentResponse.Answer)
	assert.Len(t, state.Messages, 2)

	stored, err := router.Session(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.ActionsTaken, stored.ActionsTaken)
	assert.EqualValues(t, 1, router.Stats().Failed)
}

func TestRouterUnresolvableStep(t *testing.T) {
	model := chattest.New().WithExtractions(intentOf(schema.CalculationIntent))
	router, sess := newTestRouter(t, model)
	_, ok := router.Agent(session.CalculationAgent)
	require.False(t, ok)

	state, err := router.HandleTurn(context.Background(), sess.SessionID, "what is 2 + 2")
	require.NoError(t, err)
	assert.Equal(t, []string{session.ActionClassifyIntent}, state.ActionsTaken)
	assert.Equal(t, session.CalculationAgent, state.NextStep)
	assert.Nil(t, state.CurrentResponse)
	assert.Empty(t, model.Requests())
}

func TestRouterListsOnlyGrow(t *testing.T) {
	model := chattest.New(
		chattest.Step{ToolCalls: []components.ToolCall{chattest.CallTool("c1", retrieval.SearchName, map[string]any{"document_id": "doc_4", "query": "median"})}},
		chattest.Step{Content: "The median is the middle value."},
		chattest.Step{ToolCalls: []components.ToolCall{chattest.CallTool("c2", retrieval.RetrieveName, map[string]any{"query": "dashboard"})}},
		chattest.Step{Content: "Dashboards should be simple."},
	).WithExtractions(intentOf(schema.QAIntent), intentOf(schema.SummarizationIntent))
	router, sess := newTestRouter(t, model)
	ctx := context.Background()

	first, err := router.HandleTurn(ctx, sess.SessionID, "What is the median?")
	require.NoError(t, err)
	second, err := router.HandleTurn(ctx, sess.SessionID, "Summarize the dashboard guidelines")
	require.NoError(t, err)

	assert.Equal(t, first.ActionsTaken, second.ActionsTaken[:len(first.ActionsTaken)])
	assert.Equal(t, first.ToolsUsed, second.ToolsUsed[:len(first.ToolsUsed)])
	assert.Len(t, second.ActionsTaken, 4)
	assert.Len(t, second.Messages, 4)
	assert.True(t, second.ActiveDocuments.Has("doc_4"))
	assert.Greater(t, len(second.RetrievedDocuments), len(first.RetrievedDocuments))

	// the second agent sees the first exchange in its system prompt
	system := model.Requests()[2].Messages[0].Content
	assert.Contains(t, system, "user: What is the median?")
	assert.Contains(t, system, `"doc_4"`)
}

func TestRouterConversationSummary(t *testing.T) {
	model := chattest.New(chattest.Step{Content: "ok"}).WithExtractions(intentOf(schema.QAIntent))
	router, sess := newTestRouter(t, model)
	ctx := context.Background()

	require.NoError(t, router.SetConversationSummary(ctx, sess.SessionID, "Discussing statistics."))
	state, err := router.HandleTurn(ctx, sess.SessionID, "continue")
	require.NoError(t, err)
	assert.Equal(t, "Discussing statistics.", state.ConversationSummary)
	assert.Contains(t, model.Requests()[0].Messages[0].Content, "Discussing statistics.")

	err = router.SetConversationSummary(ctx, "missing", "x")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRouterSessionNotFound(t *testing.T) {
	router, _ := newTestRouter(t, chattest.New())
	_, err := router.HandleTurn(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

// blockingModel answers every request after a pause and tracks concurrent calls
type blockingModel struct {
	active *atomic.Int64
	peak   *atomic.Int64
}

func (m *blockingModel) enter() func() {
	n := m.active.Inc()
	for {
		peak := m.peak.Load()
		if n <= peak || m.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	return func() { m.active.Dec() }
}

func (m *blockingModel) Complete(ctx context.Context, req *chat.Request) (*chat.Completion, error) {
	defer m.enter()()
	time.Sleep(5 * time.Millisecond)
	return &chat.Completion{Message: *components.NewMessage(components.AssistantRole, "done")}, nil
}

func (m *blockingModel) Extract(ctx context.Context, messages []components.Message, out schema.Schema, resp *components.LLMResponse) error {
	defer m.enter()()
	time.Sleep(5 * time.Millisecond)
	intent, ok := out.(*schema.Intent)
	if !ok {
		return errors.New("unexpected schema")
	}
	*intent = *schema.NewIntent(schema.QAIntent, 1, "test")
	return nil
}

func TestRouterSerializesTurnsPerSession(t *testing.T) {
	model := &blockingModel{active: atomic.NewInt64(0), peak: atomic.NewInt64(0)}
	router := NewRouter(NewTriage(WithModel(model)), session.NewMemoryStore(time.Hour),
		WithAgent(NewToolAgent(QAKind, WithModel(model))),
	)
	ctx := context.Background()
	sess, err := router.NewSession(ctx, "user_1")
	require.NoError(t, err)

	const turns = 8
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := router.HandleTurn(ctx, sess.SessionID, "question")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, model.peak.Load())
	state, err := router.Session(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Len(t, state.ActionsTaken, 2*turns)
	assert.Len(t, state.Messages, 2*turns)
	assert.EqualValues(t, turns, router.Stats().Turns)
}

// sharedStore is one store behind several routers, locking sessions the way a store shared
// between processes does
type sharedStore struct {
	*session.MemoryStore
	mtx     sync.Mutex
	locks   *atomic.Int64
	lockErr error
}

func (s *sharedStore) LockSession(ctx context.Context, id string) (func(), error) {
	if s.lockErr != nil {
		return nil, s.lockErr
	}
	s.mtx.Lock()
	s.locks.Inc()
	return s.mtx.Unlock, nil
}

func TestRouterSerializesTurnsAcrossRouters(t *testing.T) {
	model := &blockingModel{active: atomic.NewInt64(0), peak: atomic.NewInt64(0)}
	store := &sharedStore{MemoryStore: session.NewMemoryStore(time.Hour), locks: atomic.NewInt64(0)}
	routers := []*Router{
		NewRouter(NewTriage(WithModel(model)), store, WithAgent(NewToolAgent(QAKind, WithModel(model)))),
		NewRouter(NewTriage(WithModel(model)), store, WithAgent(NewToolAgent(QAKind, WithModel(model)))),
	}
	ctx := context.Background()
	sess, err := routers[0].NewSession(ctx, "user_1")
	require.NoError(t, err)

	const turns = 8
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(router *Router) {
			defer wg.Done()
			_, err := router.HandleTurn(ctx, sess.SessionID, "question")
			assert.NoError(t, err)
		}(routers[i%len(routers)])
	}
	wg.Wait()

	assert.EqualValues(t, 1, model.peak.Load())
	assert.EqualValues(t, turns, store.locks.Load())
	state, err := routers[1].Session(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Len(t, state.ActionsTaken, 2*turns)
	assert.Len(t, state.Messages, 2*turns)
}

func TestRouterSharedLockError(t *testing.T) {
	lockErr := errors.New("redis unavailable")
	store := &sharedStore{MemoryStore: session.NewMemoryStore(time.Hour), locks: atomic.NewInt64(0), lockErr: lockErr}
	model := chattest.New(chattest.Step{Content: "ok"}).WithExtractions(intentOf(schema.QAIntent))
	router := NewRouter(NewTriage(WithModel(model)), store, WithAgent(NewToolAgent(QAKind, WithModel(model))))
	ctx := context.Background()
	sess, err := router.NewSession(ctx, "user_1")
	require.NoError(t, err)

	_, err = router.HandleTurn(ctx, sess.SessionID, "question")
	require.ErrorIs(t, err, lockErr)
	assert.ErrorIs(t, router.SetConversationSummary(ctx, sess.SessionID, "x"), lockErr)
	assert.Empty(t, model.Requests())
	assert.Equal(t, Stats{}, router.Stats())

	stored, err := router.Session(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stored.ActionsTaken)
	assert.Empty(t, stored.ConversationSummary)
}
