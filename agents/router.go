package agents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/logger"
	"github.com/bububa/docassist/session"
)

// Stats are router counters since start
type Stats struct {
	Turns     int64 `json:"turns"`
	Failed    int64 `json:"failed"`
	Exhausted int64 `json:"exhausted"`
}

type stats struct {
	turns     *atomic.Int64
	failed    *atomic.Int64
	exhausted *atomic.Int64
}

// Router owns session state and dispatches each turn through triage to an agent loop.
// Turns of one session never interleave, different sessions run concurrently.
type Router struct {
	triage *Triage
	agents map[session.NextStep]*ToolAgent
	store  session.Store
	locker *session.Locker
	events logger.EventLogger
	logger *zap.Logger
	stats  stats
}

type RouterOption func(*Router)

// WithAgent registers an agent under its name
func WithAgent(agent *ToolAgent) RouterOption {
	return func(r *Router) {
		r.agents[agent.Name()] = agent
	}
}

func WithEventLogger(l logger.EventLogger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.events = l
		}
	}
}

func WithRouterLogger(l *zap.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRouter(triage *Triage, store session.Store, opts ...RouterOption) *Router {
	r := &Router{
		triage: triage,
		agents: make(map[session.NextStep]*ToolAgent),
		store:  store,
		locker: session.NewLocker(),
		events: logger.Nop,
		logger: zap.NewNop(),
		stats: stats{
			turns:     atomic.NewInt64(0),
			failed:    atomic.NewInt64(0),
			exhausted: atomic.NewInt64(0),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Agent returns the agent registered for a step
func (r *Router) Agent(step session.NextStep) (*ToolAgent, bool) {
	agent, ok := r.agents[step]
	return agent, ok
}

// NewSession creates and stores an empty session
func (r *Router) NewSession(ctx context.Context, userID string) (*session.State, error) {
	state := session.NewState(uuid.NewString(), userID)
	if err := r.store.Save(ctx, state); err != nil {
		return nil, err
	}
	r.logger.Info("session created", zap.String("session_id", state.SessionID), zap.String("user_id", userID))
	return state, nil
}

// Session returns a copy of a stored session
func (r *Router) Session(ctx context.Context, sessionID string) (*session.State, error) {
	return r.store.Get(ctx, sessionID)
}

// lock serializes work on a session inside this process and, when the store is shared
// between processes, through the store's own lock
func (r *Router) lock(ctx context.Context, sessionID string) (func(), error) {
	unlock := r.locker.Lock(sessionID)
	shared, ok := r.store.(session.SessionLocker)
	if !ok {
		return unlock, nil
	}
	release, err := shared.LockSession(ctx, sessionID)
	if err != nil {
		unlock()
		return nil, err
	}
	return func() {
		release()
		unlock()
	}, nil
}

// SetConversationSummary replaces the conversation digest agents read
func (r *Router) SetConversationSummary(ctx context.Context, sessionID string, summary string) error {
	unlock, err := r.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()
	state, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	state.ConversationSummary = summary
	return r.store.Save(ctx, state)
}

// Stats returns the router counters
func (r *Router) Stats() Stats {
	return Stats{
		Turns:     r.stats.turns.Load(),
		Failed:    r.stats.failed.Load(),
		Exhausted: r.stats.exhausted.Load(),
	}
}

// HandleTurn processes one user input end to end and returns the updated state.
// A *ClassificationError leaves the stored session untouched. A model failure inside the agent
// records the attempted agent, keeps the current response and is returned with the state.
func (r *Router) HandleTurn(ctx context.Context, sessionID string, input string) (*session.State, error) {
	unlock, err := r.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	r.stats.turns.Inc()

	state, err := r.store.Get(ctx, sessionID)
	if err != nil {
		r.stats.failed.Inc()
		return nil, err
	}
	state.BeginTurn(input)

	var classifyResp components.LLMResponse
	intent, err := r.triage.Classify(ctx, input, state.Messages, &classifyResp)
	if err != nil {
		r.stats.failed.Inc()
		r.events.Log("turn.failed", map[string]any{
			"session_id": sessionID,
			"stage":      session.ActionClassifyIntent,
			"error":      err.Error(),
		})
		return nil, err
	}
	state.Classified(intent)
	state.Usage.Merge(classifyResp.Usage)
	r.events.Log("turn.classified", map[string]any{
		"session_id": sessionID,
		"intent":     intent.IntentType,
		"confidence": intent.Confidence,
		"next_step":  state.NextStep,
	})

	agent, ok := r.agents[state.NextStep]
	if !ok {
		r.logger.Warn("no agent for step", zap.String("session_id", sessionID), zap.String("next_step", state.NextStep))
		if err := r.store.Save(ctx, state); err != nil {
			return nil, err
		}
		return state, nil
	}

	result, err := agent.Run(ctx, &Input{
		Question:            input,
		History:             state.Messages,
		ConversationSummary: state.ConversationSummary,
		ActiveDocuments:     state.ActiveDocuments,
	})
	if err != nil {
		r.stats.failed.Inc()
		state.Failed(agent.Name(), nil)
		r.events.Log("turn.failed", map[string]any{
			"session_id": sessionID,
			"stage":      agent.Name(),
			"error":      err.Error(),
		})
		if saveErr := r.store.Save(ctx, state); saveErr != nil {
			return nil, errors.Join(err, saveErr)
		}
		return state, err
	}
	if result.State == LoopExhausted {
		r.stats.exhausted.Inc()
	}
	state.Apply(session.TurnDelta{
		Agent:              agent.Name(),
		Answer:             result.Answer,
		ToolsUsed:          result.ToolsUsed,
		RetrievedDocuments: result.RetrievedDocuments,
		Usage:              &result.Usage,
	})
	r.events.Log("turn.answered", map[string]any{
		"session_id": sessionID,
		"agent":      agent.Name(),
		"state":      result.State,
		"iterations": result.Iterations,
		"tools_used": result.ToolsUsed,
		"sources":    result.Answer.Sources,
	})
	if err := r.store.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}
