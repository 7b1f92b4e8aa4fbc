package md2html

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

// markup is the text placed around a payload.
type markup struct {
	open  string
	close string
	// void kinds ignore the payload entirely.
	void bool
}

var markupTable = [kindCount]markup{
	KindHeading1:      {open: "<h1>", close: "</h1>\n"},
	KindHeading2:      {open: "<h2>", close: "</h2>\n"},
	KindHeading3:      {open: "<h3>", close: "</h3>\n"},
	KindTextBold:      {open: "<b>", close: "</b><br />\n"},
	KindTextItalic:    {open: "<i>", close: "</i><br />\n"},
	KindBlockQuote:    {open: "<blockquote>", close: "</blockquote>\n"},
	KindPlainText:     {close: "<br />\n"},
	KindThematicBreak: {open: "<hr />\n", void: true},
}

// Renderer turns nodes into HTML fragments.
// The zero value inserts payloads verbatim.
type Renderer struct {
	// EscapeHTML escapes &, <, > and " in payloads.
	// When false, payloads are inserted verbatim.
	EscapeHTML bool
}

var defaultRenderer = Renderer{}

// Render renders n with the default renderer.
func Render(n Node) string {
	return defaultRenderer.Render(n)
}

// Render returns the HTML fragment for n. Every fragment ends with a single
// newline. Unknown kinds render as plain text.
func (r Renderer) Render(n Node) string {
	var b strings.Builder
	r.render(&b, n)
	return b.String()
}

func (r Renderer) render(b *strings.Builder, n Node) {
	m := markupFor(n.Kind)
	if m.void {
		b.WriteString(m.open)
		return
	}
	b.Grow(len(m.open) + len(n.Payload) + len(m.close))
	b.WriteString(m.open)
	if r.EscapeHTML {
		b.Write(util.EscapeHTML([]byte(n.Payload)))
	} else {
		b.WriteString(n.Payload)
	}
	b.WriteString(m.close)
}

func markupFor(k Kind) markup {
	if k < kindCount {
		return markupTable[k]
	}
	return markupTable[KindPlainText]
}
