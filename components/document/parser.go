package document

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode"
)

// Parser converts raw file content to text written to an io.Writer
type Parser interface {
	Parse(context.Context, *bytes.Reader, io.Writer) error
}

// TitledParser is a Parser able to extract a document title
type TitledParser interface {
	Parser
	Title(*bytes.Reader) string
}

// TextParser copies plain text and markdown as is
type TextParser struct{}

var _ Parser = (*TextParser)(nil)

func (p *TextParser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	_, err := io.Copy(writer, reader)
	return err
}

// StripUnprintable removes control characters except tabs and line breaks
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

var markdownEscaper = strings.NewReplacer(`|`, `\|`, "\n", " ", "\r", "")

// EscapeMarkdown escapes a value for use inside a markdown table cell
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
