package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/bububa/docassist/components"
)

// Registry maps tool names to tools. Registration order is preserved.
type Registry struct {
	mtx   sync.RWMutex
	tools map[string]AnonymousTool
	names []string
}

// NewRegistry returns a Registry holding the given tools
func NewRegistry(list ...AnonymousTool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]AnonymousTool, len(list)),
	}
	for _, t := range list {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool, names are unique
func (r *Registry) Register(t AnonymousTool) error {
	name := t.Title()
	if name == "" {
		return fmt.Errorf("tool without title")
	}
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.tools[name] = t
	r.names = append(r.names, name)
	return nil
}

// Get returns the tool registered under name
func (r *Registry) Get(name string) (AnonymousTool, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered names in registration order
func (r *Registry) Names() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return append([]string(nil), r.names...)
}

// Definitions returns the definitions of every registered tool
func (r *Registry) Definitions() []components.ToolDefinition {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	ret := make([]components.ToolDefinition, 0, len(r.names))
	for _, name := range r.names {
		ret = append(ret, Definition(r.tools[name]))
	}
	return ret
}

// Subset returns a new Registry holding only the named tools
func (r *Registry) Subset(names ...string) (*Registry, error) {
	list := make([]AnonymousTool, 0, len(names))
	for _, name := range names {
		t, ok := r.Get(name)
		if !ok {
			return nil, &UnknownToolError{Name: name}
		}
		list = append(list, t)
	}
	return NewRegistry(list...)
}

type hooked interface {
	OnStart(context.Context, AnonymousTool, any)
	OnEnd(context.Context, AnonymousTool, any, any)
	OnError(context.Context, AnonymousTool, any, error)
}

// Invoke runs the named tool with a decoded argument object.
// Unknown names return *UnknownToolError, tool failures *ToolInvocationError.
// A panicking tool is reported as a failure.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (ret any, err error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	hooks, _ := t.(hooked)
	if hooks != nil {
		hooks.OnStart(ctx, t, args)
	}
	defer func() {
		if rec := recover(); rec != nil {
			ret = nil
			err = fmt.Errorf("panic: %v", rec)
		}
		if err != nil {
			err = &ToolInvocationError{Name: name, Err: err}
			if hooks != nil {
				hooks.OnError(ctx, t, args, err)
			}
		} else if hooks != nil {
			hooks.OnEnd(ctx, t, args, ret)
		}
	}()
	return t.RunAnonymous(ctx, args)
}
