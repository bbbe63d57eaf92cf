package document

import (
	"bytes"
	"context"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
)

// HTMLParser is a parser which parse html content to markdown
type HTMLParser struct {
	opts []converter.ConvertOptionFunc
}

var _ TitledParser = (*HTMLParser)(nil)

func NewHTMLParser(opts ...converter.ConvertOptionFunc) *HTMLParser {
	return &HTMLParser{
		opts: opts,
	}
}

// Parse try to parse a html content from a bytes.Reader into a markdown content then write to an io.Writer
func (h *HTMLParser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	bs, err := htmltomarkdown.ConvertReader(reader, h.opts...)
	if err != nil {
		return err
	}
	_, err = writer.Write(bytes.TrimSpace(bs))
	return err
}

// Title returns the content of the <title> element, falling back to the first <h1>
func (h *HTMLParser) Title(reader *bytes.Reader) string {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
