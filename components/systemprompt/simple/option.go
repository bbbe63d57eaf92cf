package simple

import "github.com/bububa/docassist/components/systemprompt"

type Option = func(g *Generator)

// WithContextProviders registers providers rendered by every Generate call
func WithContextProviders(providers ...systemprompt.ContextProvider) Option {
	return func(g *Generator) {
		g.AddContextProviders(providers...)
	}
}

// WithStaticContext registers a fixed titled context section
func WithStaticContext(title string, info string) Option {
	return WithContextProviders(systemprompt.NewStaticProvider(title, info))
}
