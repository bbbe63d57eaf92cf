package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/bububa/docassist/schema"
	"github.com/bububa/docassist/tools"
)

const (
	RetrieveName      = "retrieve_documents"
	DefaultMaxResults = 5

	phraseScore = 10
	wordScore   = 1
	minWordLen  = 2
)

// RetrieveInput Retrieve documents based on a search query
type RetrieveInput struct {
	// Query The search query to find relevant documents
	Query string `json:"query" jsonschema:"title=query,description=The search query to find relevant documents." validate:"required"`
	// MaxResults Maximum number of documents to return
	MaxResults *int `json:"max_results,omitempty" jsonschema:"title=max_results,description=Maximum number of documents to return. Defaults to 5." validate:"omitempty,gte=0"`
}

var _ schema.Schema = (*RetrieveInput)(nil)

func NewRetrieveInput(query string, maxResults int) *RetrieveInput {
	return &RetrieveInput{
		Query:      query,
		MaxResults: &maxResults,
	}
}

func (i RetrieveInput) Validate() error {
	return schema.ValidateStruct(i)
}

func (i RetrieveInput) Limit() int {
	if i.MaxResults == nil {
		return DefaultMaxResults
	}
	return *i.MaxResults
}

// RetrieveTool ranks the corpus against a query
type RetrieveTool struct {
	tools.Config
	corpus *Corpus
}

var _ tools.AnonymousTool = (*RetrieveTool)(nil)

func NewRetrieveTool(corpus *Corpus, opts ...tools.Option) *RetrieveTool {
	ret := &RetrieveTool{
		corpus: corpus,
	}
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle(RetrieveName)
	}
	if ret.Description() == "" {
		ret.SetDescription("Retrieve documents based on a search query. Returns a list of documents with id, title, content and metadata, most relevant first.")
	}
	return ret
}

func (t *RetrieveTool) Parameters() map[string]any {
	return tools.Parameters[RetrieveInput]()
}

// Run returns the top ranked documents
func (t *RetrieveTool) Run(ctx context.Context, input *RetrieveInput) ([]schema.Document, error) {
	return Rank(t.corpus.Documents(), input.Query, input.Limit()), nil
}

func (t *RetrieveTool) RunAnonymous(ctx context.Context, args map[string]any) (any, error) {
	input, err := tools.DecodeArgs[RetrieveInput](args)
	if err != nil {
		return nil, err
	}
	return t.Run(ctx, input)
}

// Score returns the relevance of doc for query.
// The full query matched as a substring scores 10, each query word longer than two characters found scores 1.
func Score(doc schema.Document, query string) int {
	text := strings.ToLower(doc.Content() + " " + doc.Title())
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0
	}
	var score int
	if strings.Contains(text, query) {
		score += phraseScore
	}
	for _, word := range strings.Fields(query) {
		if len(word) > minWordLen && strings.Contains(text, word) {
			score += wordScore
		}
	}
	return score
}

// Rank returns at most limit documents with a positive score, highest first, ties in input order
func Rank(docs []schema.Document, query string, limit int) []schema.Document {
	type scored struct {
		doc   schema.Document
		score int
	}
	list := make([]scored, 0, len(docs))
	for _, doc := range docs {
		if s := Score(doc, query); s > 0 {
			list = append(list, scored{doc: doc, score: s})
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})
	if limit < 0 {
		limit = 0
	}
	if limit < len(list) {
		list = list[:limit]
	}
	ret := make([]schema.Document, 0, len(list))
	for _, v := range list {
		ret = append(ret, v.doc)
	}
	return ret
}
