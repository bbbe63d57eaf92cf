package schema

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

const answerBinaryVersion byte = 1

// Answer is the structured result of an agent loop
type Answer struct {
	// Question the user request this answer responds to
	Question string `json:"question" jsonschema:"title=question,description=The question being answered." validate:"required"`
	// Answer natural language answer
	Answer string `json:"answer" jsonschema:"title=answer,description=The answer to the question."`
	// Sources identifiers of the documents the answer is based on, no duplicates
	Sources []string `json:"sources" jsonschema:"title=sources,description=Identifiers of the source documents." validate:"unique"`
	// Confidence answer confidence between 0 and 1
	Confidence float64 `json:"confidence" jsonschema:"title=confidence,minimum=0,maximum=1,description=Confidence between 0 and 1." validate:"gte=0,lte=1"`
	// Timestamp time the answer was constructed
	Timestamp time.Time `json:"timestamp" jsonschema:"title=timestamp,description=Time the answer was produced." validate:"required"`
	// RetrievedDocuments evidence gathered while answering
	RetrievedDocuments []Document `json:"retrieved_documents,omitempty" jsonschema:"title=retrieved_documents,description=Documents retrieved while answering."`
}

var _ Schema = (*Answer)(nil)

// NewAnswer returns a new Answer stamped with the current time. Duplicate sources are dropped.
func NewAnswer(question string, answer string, sources []string, confidence float64, docs []Document) *Answer {
	return &Answer{
		Question:           question,
		Answer:             answer,
		Sources:            dedupe(sources),
		Confidence:         confidence,
		Timestamp:          time.Now().UTC(),
		RetrievedDocuments: docs,
	}
}

// Validate implements Schema interface
func (a Answer) Validate() error {
	return ValidateStruct(a)
}

func (a *Answer) UnmarshalJSON(bs []byte) error {
	type alias Answer
	var v alias
	if err := json.Unmarshal(bs, &v); err != nil {
		return err
	}
	v.Sources = dedupe(v.Sources)
	*a = Answer(v)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler
// Format: version byte, [question, answer] string slice, sources string slice,
// float64 confidence, then one byte slice list holding the timestamp followed by the JSON encoded documents
func (a Answer) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(answerBinaryVersion)
	if err := writeStringSlice(buf, []string{a.Question, a.Answer}); err != nil {
		return nil, err
	}
	if err := writeStringSlice(buf, a.Sources); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, a.Confidence); err != nil {
		return nil, fmt.Errorf("failed to write confidence: %w", err)
	}
	ts, err := a.Timestamp.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	docs := make([][]byte, 0, len(a.RetrievedDocuments)+1)
	docs = append(docs, ts)
	for _, doc := range a.RetrievedDocuments {
		bs, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document %s: %w", doc.ID(), err)
		}
		docs = append(docs, bs)
	}
	if err := writeBytesSliceSlice(buf, docs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (a *Answer) UnmarshalBinary(data []byte) error {
	reader := bytes.NewReader(data)
	version, err := reader.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if version != answerBinaryVersion {
		return fmt.Errorf("unsupported answer encoding version %d", version)
	}
	texts, err := readStringSlice(reader)
	if err != nil {
		return err
	}
	if len(texts) != 2 {
		return errors.New("malformed answer texts")
	}
	sources, err := readStringSlice(reader)
	if err != nil {
		return err
	}
	var confidence float64
	if err := binary.Read(reader, binary.LittleEndian, &confidence); err != nil {
		return fmt.Errorf("failed to read confidence: %w", err)
	}
	blobs, err := readBytesSliceSlice(reader)
	if err != nil {
		return err
	}
	if len(blobs) == 0 {
		return errors.New("malformed answer timestamp")
	}
	var ts time.Time
	if err := ts.UnmarshalBinary(blobs[0]); err != nil {
		return fmt.Errorf("failed to unmarshal timestamp: %w", err)
	}
	var docs []Document
	if len(blobs) > 1 {
		docs = make([]Document, 0, len(blobs)-1)
		for _, bs := range blobs[1:] {
			var doc Document
			if err := json.Unmarshal(bs, &doc); err != nil {
				return fmt.Errorf("failed to unmarshal document: %w", err)
			}
			docs = append(docs, doc)
		}
	}
	if _, err := reader.ReadByte(); err != io.EOF {
		return errors.New("trailing bytes after answer")
	}
	*a = Answer{
		Question:           texts[0],
		Answer:             texts[1],
		Sources:            sources,
		Confidence:         confidence,
		Timestamp:          ts,
		RetrievedDocuments: docs,
	}
	return nil
}

func dedupe(list []string) []string {
	if list == nil {
		return []string{}
	}
	seen := make(map[string]struct{}, len(list))
	ret := make([]string, 0, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ret = append(ret, v)
	}
	return ret
}
