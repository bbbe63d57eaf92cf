package agents

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/components/chat"
	"github.com/bububa/docassist/components/systemprompt"
	"github.com/bububa/docassist/schema"
	"github.com/bububa/docassist/tools"
)

// LoopState is the state of a tool calling loop
type LoopState string

const (
	LoopIterating LoopState = "iterating"
	LoopAnswered  LoopState = "answered"
	LoopExhausted LoopState = "exhausted"
)

// Input is what a loop run reads from the session
type Input struct {
	Question            string
	History             []components.Message
	ConversationSummary string
	ActiveDocuments     []string
}

func (i Input) contextProviders() []systemprompt.ContextProvider {
	docs := ""
	if len(i.ActiveDocuments) > 0 {
		bs, _ := json.Marshal(i.ActiveDocuments)
		docs = string(bs)
	}
	return []systemprompt.ContextProvider{
		systemprompt.NewStaticProvider("Conversation Summary", i.ConversationSummary),
		systemprompt.NewStaticProvider("Active Documents", docs),
		historyProvider(i.History),
	}
}

// Result is the outcome of a loop run
type Result struct {
	Answer             *schema.Answer
	ToolsUsed          []string
	RetrievedDocuments []schema.Document
	State              LoopState
	Iterations         int
	Transcript         []components.Message
	Usage              components.LLMUsage
}

// ToolAgent runs the bounded tool calling loop of one agent kind
type ToolAgent struct {
	Config
	kind Kind
}

// NewToolAgent returns a ToolAgent with the defaults of kind
func NewToolAgent(kind Kind, options ...Option) *ToolAgent {
	ret := &ToolAgent{
		kind: kind,
		Config: Config{
			maxIterations: DefaultMaxIterations,
			confidence:    defaultConfidence(kind),
			name:          defaultName(kind),
			logger:        zap.NewNop(),
		},
	}
	for _, opt := range options {
		opt(&ret.Config)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = NewSystemPromptGenerator(kind)
	}
	if ret.registry == nil {
		ret.registry, _ = tools.NewRegistry()
	}
	return ret
}

func (a *ToolAgent) Kind() Kind {
	return a.kind
}

// Run runs the loop. Exhausting the iteration budget or the context deadline yields a degraded Answer, not an error.
// A failing model call returns *chat.ModelInvocationError.
func (a *ToolAgent) Run(ctx context.Context, in *Input) (*Result, error) {
	if a.model == nil {
		return nil, chat.NewModelInvocationError("model", "complete", errors.New("no model configured"))
	}
	if fn := a.startHook; fn != nil {
		fn(ctx, a, in)
	}
	memory := components.NewMemory().NewTurn()
	memory.NewMessage(components.SystemRole, a.systemPromptGenerator.GenerateWith(in.contextProviders()...))
	memory.NewMessage(components.UserRole, in.Question)

	result := &Result{
		ToolsUsed:          []string{},
		RetrievedDocuments: []schema.Document{},
		State:              LoopIterating,
	}
	definitions := a.registry.Definitions()
	var final string
	for i := 0; i < a.maxIterations; i++ {
		if ctx.Err() != nil {
			break
		}
		completion, err := a.model.Complete(ctx, &chat.Request{
			Messages: memory.History(),
			Tools:    definitions,
		})
		if err != nil {
			if ctx.Err() != nil {
				a.logger.Warn("loop interrupted by context", zap.String("agent", a.name), zap.Error(err))
				break
			}
			var invErr *chat.ModelInvocationError
			if !errors.As(err, &invErr) {
				err = chat.NewModelInvocationError("model", "complete", err)
			}
			if fn := a.errorHook; fn != nil {
				fn(ctx, a, in, err)
			}
			return nil, err
		}
		result.Iterations = i + 1
		result.Usage.Merge(completion.Response.Usage)
		calls := completion.ToolCalls()
		if len(calls) == 0 {
			final = completion.Message.Content
			memory.Append(completion.Message)
			result.State = LoopAnswered
			break
		}
		for idx, call := range calls {
			req := components.NewToolRequestMessage(call)
			if idx == 0 {
				// text sent along with the calls stays in the transcript
				req.Content = completion.Message.Content
			}
			cb := a.invoke(ctx, call, result)
			memory.Append(*req, *components.NewToolResultMessage(cb))
		}
	}

	if result.State == LoopAnswered {
		result.Answer = schema.NewAnswer(in.Question, final, schema.SourceIDs(result.RetrievedDocuments), a.confidence, result.RetrievedDocuments)
	} else {
		result.State = LoopExhausted
		result.Answer = schema.NewAnswer(in.Question, ExhaustedAnswer(a.kind), nil, 0, result.RetrievedDocuments)
	}
	result.Transcript = memory.History()
	a.logger.Info("loop finished",
		zap.String("agent", a.name),
		zap.String("state", string(result.State)),
		zap.Int("iterations", result.Iterations),
		zap.Strings("tools_used", result.ToolsUsed),
	)
	if fn := a.endHook; fn != nil {
		fn(ctx, a, in, result)
	}
	return result, nil
}

// invoke runs one tool call. Every failure becomes an {"error": message} payload fed back to the model.
func (a *ToolAgent) invoke(ctx context.Context, call components.ToolCall, result *Result) components.ToolCallback {
	cb := components.ToolCallback{
		ID:   call.ID,
		Name: call.Name,
	}
	result.ToolsUsed = append(result.ToolsUsed, call.Name)
	var (
		ret any
		err error
	)
	if _, ok := a.registry.Get(call.Name); !ok {
		err = &tools.UnknownToolError{Name: call.Name}
	} else if args, decodeErr := call.DecodeArguments(); decodeErr != nil {
		err = &tools.ToolInvocationError{Name: call.Name, Err: decodeErr}
	} else {
		ret, err = a.registry.Invoke(ctx, call.Name, args)
	}
	if err != nil {
		a.logger.Warn("tool call failed", zap.String("agent", a.name), zap.String("tool", call.Name), zap.Error(err))
		bs, _ := json.Marshal(map[string]string{"error": err.Error()})
		cb.Content = string(bs)
		cb.IsError = true
		return cb
	}
	result.RetrievedDocuments = append(result.RetrievedDocuments, collectDocuments(ret)...)
	cb.Content = schema.Stringify(ret)
	return cb
}

// collectDocuments extracts document records from a tool result, lists are extended and single records appended
func collectDocuments(v any) []schema.Document {
	switch t := v.(type) {
	case []schema.Document:
		return t
	case schema.Document:
		return []schema.Document{t}
	case []map[string]any:
		ret := make([]schema.Document, 0, len(t))
		for _, doc := range t {
			ret = append(ret, schema.Document(doc))
		}
		return ret
	case map[string]any:
		return []schema.Document{schema.Document(t)}
	}
	return nil
}
