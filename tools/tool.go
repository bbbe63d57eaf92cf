package tools

import (
	"context"

	"github.com/bububa/docassist/components"
	"github.com/bububa/docassist/schema"
)

type ITool interface {
	SetTitle(string)
	// Title is the name the tool is registered and called by
	Title() string
	SetDescription(string)
	Description() string
	SetStartHook(fn func(context.Context, AnonymousTool, any))
	SetEndHook(fn func(context.Context, AnonymousTool, any, any))
	SetErrorHook(fn func(context.Context, AnonymousTool, any, error))
}

// Tool is a typed tool
type Tool[I schema.Schema, O any] interface {
	ITool
	Run(context.Context, *I) (O, error)
}

// AnonymousTool is a tool invokable with a decoded JSON argument object
type AnonymousTool interface {
	ITool
	// Parameters returns the JSON schema of the argument object
	Parameters() map[string]any
	RunAnonymous(context.Context, map[string]any) (any, error)
}

// Definition returns the model facing definition of a tool
func Definition(t AnonymousTool) components.ToolDefinition {
	return components.ToolDefinition{
		Name:        t.Title(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}
