package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXParser renders every sheet as a markdown table
type XLSXParser struct {
	password string
}

var _ Parser = (*XLSXParser)(nil)

type XLSXParserOption func(*XLSXParser)

func XLSXParserWithPassword(passwd string) XLSXParserOption {
	return func(p *XLSXParser) {
		p.password = passwd
	}
}

func NewXLSXParser(opts ...XLSXParserOption) *XLSXParser {
	ret := new(XLSXParser)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (p *XLSXParser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	opts := make([]excelize.Options, 0, 1)
	if p.password != "" {
		opts = append(opts, excelize.Options{Password: p.password})
	}
	doc, err := excelize.OpenReader(reader, opts...)
	if err != nil {
		return err
	}
	defer doc.Close()
	for sheetIdx, sheet := range doc.GetSheetList() {
		rows, err := doc.GetRows(sheet)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		if sheetIdx > 0 {
			io.WriteString(writer, "\n")
		}
		fmt.Fprintf(writer, "# %s\n\n", sheet)
		for rowIdx, row := range rows {
			cells := make([]string, 0, len(row))
			for _, v := range row {
				cells = append(cells, strings.TrimSpace(EscapeMarkdown(StripUnprintable(v))))
			}
			fmt.Fprintf(writer, "| %s |\n", strings.Join(cells, " | "))
			if rowIdx == 0 {
				fmt.Fprintf(writer, "|%s\n", strings.Repeat(" --- |", len(cells)))
			}
		}
	}
	return nil
}
