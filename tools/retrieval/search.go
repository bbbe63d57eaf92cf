package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"

	"github.com/bububa/docassist/schema"
	"github.com/bububa/docassist/tools"
)

const (
	SearchName = "search_specific_document"
	// DefaultSectionConfidence is reported when the query has no scorable words
	DefaultSectionConfidence = 0.85
)

var ErrDocumentNotFound = errors.New("document not found")

// SearchInput Search for specific information within a particular document
type SearchInput struct {
	// DocumentID The ID of the document to search
	DocumentID string `json:"document_id" jsonschema:"title=document_id,description=The ID of the document to search." validate:"required"`
	// Query What to search for within the document
	Query string `json:"query" jsonschema:"title=query,description=What to search for within the document." validate:"required"`
}

var _ schema.Schema = (*SearchInput)(nil)

func NewSearchInput(documentID string, query string) *SearchInput {
	return &SearchInput{
		DocumentID: documentID,
		Query:      query,
	}
}

func (i SearchInput) Validate() error {
	return schema.ValidateStruct(i)
}

// SearchTool finds the section of one document best matching a query
type SearchTool struct {
	tools.Config
	corpus *Corpus
}

var _ tools.AnonymousTool = (*SearchTool)(nil)

func NewSearchTool(corpus *Corpus, opts ...tools.Option) *SearchTool {
	ret := &SearchTool{
		corpus: corpus,
	}
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle(SearchName)
	}
	if ret.Description() == "" {
		ret.SetDescription("Search for specific information within a particular document. Returns the document section matching the query.")
	}
	return ret
}

func (t *SearchTool) Parameters() map[string]any {
	return tools.Parameters[SearchInput]()
}

// Run returns a record {document_id, title, matching_section, confidence}
func (t *SearchTool) Run(ctx context.Context, input *SearchInput) (schema.Document, error) {
	doc, ok := t.corpus.Get(input.DocumentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, input.DocumentID)
	}
	section, confidence := MatchSection(doc.Content(), input.Query)
	return schema.Document{
		"document_id":      input.DocumentID,
		"title":            doc.Title(),
		"matching_section": section,
		"confidence":       confidence,
	}, nil
}

func (t *SearchTool) RunAnonymous(ctx context.Context, args map[string]any) (any, error) {
	input, err := tools.DecodeArgs[SearchInput](args)
	if err != nil {
		return nil, err
	}
	return t.Run(ctx, input)
}

// MatchSection returns the sentence of content with the most query word hits and the share of query words it contains.
// The first sentence wins ties.
func MatchSection(content string, query string) (string, float64) {
	terms := queryTerms(query)
	var (
		best     string
		bestHits = -1
	)
	seg := sentences.NewSegmenter([]byte(content))
	for seg.Next() {
		sentence := strings.TrimSpace(seg.Text())
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		var hits int
		for _, term := range terms {
			if strings.Contains(lower, term) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = sentence, hits
		}
	}
	if len(terms) == 0 {
		return best, DefaultSectionConfidence
	}
	if bestHits <= 0 {
		return best, 0
	}
	return best, min(1, float64(bestHits)/float64(len(terms)))
}

func queryTerms(query string) []string {
	var (
		ret  []string
		seen = make(map[string]struct{})
	)
	seg := words.NewSegmenter([]byte(strings.ToLower(query)))
	for seg.Next() {
		word := seg.Text()
		if len(word) <= minWordLen || strings.IndexFunc(word, isWordRune) < 0 {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		ret = append(ret, word)
	}
	return ret
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
