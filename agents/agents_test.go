package agents

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bububa/docassist/tools"
	"github.com/bububa/docassist/tools/calculator"
	"github.com/bububa/docassist/tools/retrieval"
)

func newRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	corpus := retrieval.DefaultCorpus()
	r, err := tools.NewRegistry(
		retrieval.NewRetrieveTool(corpus),
		retrieval.NewSearchTool(corpus),
		calculator.New(),
	)
	require.NoError(t, err)
	return r
}

func toolsFor(t *testing.T, kind Kind) *tools.Registry {
	t.Helper()
	r, err := newRegistry(t).Subset(DefaultToolNames(kind)...)
	require.NoError(t, err)
	return r
}
