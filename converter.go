package md2html

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-md2html/internal/pipeline"
)

// Converter runs the read -> classify -> render pipeline.
// A Converter holds no per-conversion state and is safe for concurrent use.
type Converter struct {
	classifier *Classifier
	renderer   Renderer
	standalone *StandaloneOptions
}

// NewConverter creates a Converter with the default rule table and verbatim
// rendering. Returns error if the options are invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{classifier: defaultClassifier}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.standalone.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Convert renders markdown to HTML fragments with default settings.
func Convert(markdown string) string {
	doc, _, _ := parse(strings.NewReader(markdown), defaultClassifier)
	return doc.Render()
}

// Convert classifies the input and renders it.
// The context is checked between stages; classification itself is not
// interruptible.
func (c *Converter) Convert(ctx context.Context, input Input) (*ConvertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := input.Reader
	if src == nil {
		if input.Markdown == "" {
			return nil, ErrEmptyInput
		}
		src = strings.NewReader(input.Markdown)
	}

	doc, stats, err := parse(src, c.classifier)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := c.finish(doc)
	if err != nil {
		return nil, err
	}

	return &ConvertResult{HTML: out, Document: doc, Stats: stats}, nil
}

// ConvertStream reads markdown from r and writes HTML to w.
// Nothing is written if reading fails.
func (c *Converter) ConvertStream(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	doc, stats, err := parse(r, c.classifier)
	if err != nil {
		return stats, err
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if c.standalone == nil {
		_, err := doc.writeTo(w, c.renderer)
		return stats, err
	}

	out, err := c.finish(doc)
	if err != nil {
		return stats, err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return stats, nil
}

// finish renders doc and, in standalone mode, wraps it in a page.
func (c *Converter) finish(doc *Document) (string, error) {
	body := doc.RenderWith(c.renderer)
	if c.standalone == nil {
		return body, nil
	}

	title, err := c.resolveTitle(doc)
	if err != nil {
		return "", err
	}
	lang := c.standalone.Lang
	if lang == "" {
		lang = DefaultLang
	}

	return pipeline.WrapDocument(body, pipeline.WrapOptions{
		Title:      title,
		Lang:       lang,
		Stylesheet: c.standalone.Stylesheet,
		CSS:        c.standalone.CSS,
	}), nil
}

// resolveTitle picks the page title: explicit option, then the text of the
// first heading, then DefaultTitle.
func (c *Converter) resolveTitle(doc *Document) (string, error) {
	if c.standalone.Title != "" {
		return c.standalone.Title, nil
	}
	for _, n := range doc.nodes {
		switch n.Kind {
		case KindHeading1, KindHeading2, KindHeading3:
		default:
			continue
		}
		text, err := pipeline.PlainText(n.Payload)
		if err != nil {
			return "", fmt.Errorf("%w: line %d: %v", ErrStandalone, n.Line, err)
		}
		if text != "" {
			return TruncateLine(text, MaxTitleLength), nil
		}
	}
	return DefaultTitle, nil
}
