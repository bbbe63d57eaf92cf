package cot

import "github.com/bububa/docassist/components/systemprompt"

type Option = func(g *Generator)

// WithBackground sets the identity and purpose lines
func WithBackground(background []string) Option {
	return func(g *Generator) {
		g.background = append([]string(nil), background...)
	}
}

// WithSteps sets the internal assistant steps
func WithSteps(steps []string) Option {
	return func(g *Generator) {
		g.steps = append([]string(nil), steps...)
	}
}

// WithOutputInstructs sets the output instructions, the context usage instruction is always appended by New
func WithOutputInstructs(outputInstructs []string) Option {
	return func(g *Generator) {
		g.outputInstructs = append([]string(nil), outputInstructs...)
	}
}

// WithContextProviders registers providers rendered by every Generate call
func WithContextProviders(providers ...systemprompt.ContextProvider) Option {
	return func(g *Generator) {
		g.AddContextProviders(providers...)
	}
}
