package systemprompt

import (
	"fmt"
	"strings"
	"sync"
)

// Generator is system prompt generator framework
type Generator interface {
	Generate() string
	// GenerateWith renders the prompt with extra context providers appended for this call only.
	GenerateWith(extra ...ContextProvider) string
	// ContextProvider retrieves a context provider by name.
	// If the context provider is not found returns not found error
	ContextProvider(title string) (ContextProvider, error)
	// AddContextProviders registers new context providers
	AddContextProviders(providers ...ContextProvider)
	// RemoveContextProviders Unregisters an existing context provider.
	RemoveContextProviders(titles ...string)
}

type BaseGenerator struct {
	contextProviders []ContextProvider
	mtx              sync.RWMutex
}

func (g *BaseGenerator) ContextProviders() []ContextProvider {
	g.mtx.RLock()
	defer g.mtx.RUnlock()
	ret := make([]ContextProvider, len(g.contextProviders))
	copy(ret, g.contextProviders)
	return ret
}

// ContextProvider retrieves a context provider by name.
// If the context provider is not found returns not found error
func (g *BaseGenerator) ContextProvider(title string) (ContextProvider, error) {
	g.mtx.RLock()
	defer g.mtx.RUnlock()
	return g.find(title)
}

func (g *BaseGenerator) find(title string) (ContextProvider, error) {
	for _, p := range g.contextProviders {
		if p.Title() == title {
			return p, nil
		}
	}
	return nil, fmt.Errorf("context provider '%s' not found", title)
}

// AddContextProviders registers new context providers
func (g *BaseGenerator) AddContextProviders(providers ...ContextProvider) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	for _, provider := range providers {
		if _, err := g.find(provider.Title()); err != nil {
			g.contextProviders = append(g.contextProviders, provider)
		}
	}
}

// RemoveContextProviders Unregisters an existing context provider.
func (g *BaseGenerator) RemoveContextProviders(titles ...string) {
	mp := make(map[string]struct{}, len(titles))
	for _, v := range titles {
		mp[v] = struct{}{}
	}
	g.mtx.Lock()
	defer g.mtx.Unlock()
	providers := make([]ContextProvider, 0, len(g.contextProviders))
	for _, p := range g.contextProviders {
		if _, found := mp[p.Title()]; found {
			continue
		}
		providers = append(providers, p)
	}
	g.contextProviders = providers
}

// ContextSection renders the registered providers followed by extra ones.
// Extra providers whose title is already registered are ignored, providers with empty info are skipped.
func (g *BaseGenerator) ContextSection(extra ...ContextProvider) []string {
	providers := g.ContextProviders()
	for _, p := range extra {
		dup := false
		for _, v := range providers {
			if v.Title() == p.Title() {
				dup = true
				break
			}
		}
		if !dup {
			providers = append(providers, p)
		}
	}
	var parts []string
	for _, provider := range providers {
		info := provider.Info()
		if info == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("## %s", provider.Title()), info, "")
	}
	if len(parts) == 0 {
		return nil
	}
	return append([]string{"# EXTRA INFORMATION AND CONTEXT"}, parts...)
}

// Join joins prompt parts into the final prompt
func Join(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
