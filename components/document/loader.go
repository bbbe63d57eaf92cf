// Package document loads document corpora from manifests and files.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bububa/docassist/schema"
)

var ErrUnsupported = errors.New("unsupported document type")

// Manifest lists documents inline or by file reference.
// Paths of `file` entries are relative to the manifest.
type Manifest struct {
	Documents []schema.Document `yaml:"documents" json:"documents"`
}

// Loader turns files into schema.Document records {id, title, source, content}
type Loader struct {
	parsers map[string]Parser
	logger  *zap.Logger
}

type LoaderOption func(*Loader)

// WithParser registers a parser for a file extension such as ".pdf"
func WithParser(ext string, p Parser) LoaderOption {
	return func(l *Loader) {
		l.parsers[strings.ToLower(ext)] = p
	}
}

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	text := new(TextParser)
	html := NewHTMLParser()
	l := &Loader{
		parsers: map[string]Parser{
			".txt":      text,
			".md":       text,
			".markdown": text,
			".html":     html,
			".htm":      html,
			".pdf":      NewPDFParser(),
			".docx":     new(DOCXParser),
			".xlsx":     NewXLSXParser(),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads a directory, a manifest (.yaml, .yml, .json) or a single file
func (l *Loader) Load(ctx context.Context, path string) ([]schema.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return l.LoadDir(ctx, path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return l.LoadManifest(ctx, path)
	}
	doc, err := l.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return []schema.Document{doc}, nil
}

// LoadManifest loads a YAML or JSON manifest
func (l *Loader) LoadManifest(ctx context.Context, path string) ([]schema.Document, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest Manifest
	if err := yaml.Unmarshal(bs, &manifest); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	ret := make([]schema.Document, 0, len(manifest.Documents))
	for idx, doc := range manifest.Documents {
		if file, ok := doc["file"].(string); ok && file != "" {
			if !filepath.IsAbs(file) {
				file = filepath.Join(dir, file)
			}
			loaded, err := l.LoadFile(ctx, file)
			if err != nil {
				return nil, err
			}
			delete(doc, "file")
			for k, v := range doc {
				loaded[k] = v
			}
			doc = loaded
		}
		if doc.ID() == schema.UnknownDocumentID {
			return nil, fmt.Errorf("manifest %s: document %d has no id", path, idx)
		}
		ret = append(ret, doc)
	}
	l.logger.Info("manifest loaded", zap.String("path", path), zap.Int("documents", len(ret)))
	return ret, nil
}

// LoadDir loads every supported file under dir in lexical order, unsupported files are skipped
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]schema.Document, error) {
	var ret []schema.Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		doc, err := l.LoadFile(ctx, path)
		if errors.Is(err, ErrUnsupported) {
			l.logger.Debug("skip unsupported file", zap.String("path", path))
			return nil
		} else if err != nil {
			return err
		}
		ret = append(ret, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info("directory loaded", zap.String("path", dir), zap.Int("documents", len(ret)))
	return ret, nil
}

// LoadFile loads one file. The id is the file name without extension.
func (l *Loader) LoadFile(ctx context.Context, path string) (schema.Document, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	content, title, err := l.Parse(ctx, name, bs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if title == "" {
		title = stem
	}
	return schema.Document{
		"id":      stem,
		"title":   title,
		"source":  name,
		"content": content,
	}, nil
}

// Parse converts file content to text picking the parser by extension, then by detected content type
func (l *Loader) Parse(ctx context.Context, name string, bs []byte) (string, string, error) {
	parser, ok := l.parsers[strings.ToLower(filepath.Ext(name))]
	if !ok {
		if parser = l.detect(bs); parser == nil {
			return "", "", ErrUnsupported
		}
	}
	var buf bytes.Buffer
	if err := parser.Parse(ctx, bytes.NewReader(bs), &buf); err != nil {
		return "", "", err
	}
	var title string
	if p, ok := parser.(TitledParser); ok {
		title = p.Title(bytes.NewReader(bs))
	}
	return strings.TrimSpace(buf.String()), title, nil
}

func (l *Loader) detect(bs []byte) Parser {
	mime := mimetype.Detect(bs)
	for _, v := range []struct {
		mime string
		ext  string
	}{
		{"text/html", ".html"},
		{"application/pdf", ".pdf"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx"},
		{"text/plain", ".txt"},
	} {
		if mime.Is(v.mime) {
			return l.parsers[v.ext]
		}
	}
	return nil
}
