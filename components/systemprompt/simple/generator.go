package simple

import (
	"github.com/bububa/docassist/components/systemprompt"
)

// Generator renders a fixed prompt followed by its context providers
type Generator struct {
	systemprompt.BaseGenerator
	content string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(content string, options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	ret.content = content
	return ret
}

func (g *Generator) Generate() string {
	return g.GenerateWith()
}

func (g *Generator) GenerateWith(extra ...systemprompt.ContextProvider) string {
	promptParts := []string{g.content, ""}
	promptParts = append(promptParts, g.ContextSection(extra...)...)
	return systemprompt.Join(promptParts)
}
