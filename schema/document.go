package schema

import "fmt"

// UnknownDocumentID is used as a source id when a document record carries no identifier
const UnknownDocumentID = "unknown"

// Document is an opaque document record. The orchestration never parses it beyond its identifier.
type Document map[string]any

// ID returns the document identifier, `id` is preferred over `document_id`
func (d Document) ID() string {
	for _, key := range []string{"id", "document_id"} {
		if v, ok := d[key]; ok && v != nil {
			if s := fmt.Sprint(v); s != "" {
				return s
			}
		}
	}
	return UnknownDocumentID
}

// Title returns the document title if any
func (d Document) Title() string {
	if v, ok := d["title"].(string); ok {
		return v
	}
	return ""
}

// Content returns the document content if any
func (d Document) Content() string {
	if v, ok := d["content"].(string); ok {
		return v
	}
	return ""
}

// Clone returns a shallow copy of the record
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	ret := make(Document, len(d))
	for k, v := range d {
		ret[k] = v
	}
	return ret
}

// SourceIDs returns the deduplicated identifiers of docs in first seen order
func SourceIDs(docs []Document) []string {
	seen := make(map[string]struct{}, len(docs))
	ret := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := doc.ID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ret = append(ret, id)
	}
	return ret
}
