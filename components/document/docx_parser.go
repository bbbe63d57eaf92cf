package document

import (
	"bytes"
	"context"
	"io"

	"github.com/fumiama/go-docx"
)

// DOCXParser is a parser which parse docx paragraphs and tables to text
type DOCXParser struct{}

var _ Parser = (*DOCXParser)(nil)

func (p *DOCXParser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	doc, err := docx.Parse(reader, reader.Size())
	if err != nil {
		return err
	}
	var written bool
	for _, it := range doc.Document.Body.Items {
		var content string
		switch t := it.(type) {
		case *docx.Paragraph:
			content = t.String()
		case *docx.Table:
			content = t.String()
		}
		if content == "" {
			continue
		}
		if written {
			if _, err := writer.Write([]byte{'\n', '\n'}); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(writer, content); err != nil {
			return err
		}
		written = true
	}
	return nil
}
