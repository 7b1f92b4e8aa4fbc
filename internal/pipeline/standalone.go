package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrTextExtraction indicates a fragment could not be parsed for its text.
var ErrTextExtraction = errors.New("text extraction failed")

// pageTemplate wraps rendered fragments in a complete HTML5 document.
// Placeholders: lang, title, extra head lines, body.
const pageTemplate = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
%s</head>
<body>
%s</body>
</html>
`

// WrapOptions configures WrapDocument. All fields must be set by the caller;
// defaults are resolved one level up.
type WrapOptions struct {
	Title      string
	Lang       string
	Stylesheet string
	CSS        string
}

// WrapDocument embeds body in an HTML5 page. Title, lang and stylesheet are
// escaped; CSS and body are inserted as is.
func WrapDocument(body string, opts WrapOptions) string {
	var head strings.Builder
	if opts.Stylesheet != "" {
		head.WriteString(`<link rel="stylesheet" href="` + html.EscapeString(opts.Stylesheet) + `">` + "\n")
	}
	if css := strings.TrimSpace(opts.CSS); css != "" {
		head.WriteString("<style>\n" + css + "\n</style>\n")
	}
	return fmt.Sprintf(pageTemplate,
		html.EscapeString(opts.Lang),
		html.EscapeString(opts.Title),
		head.String(),
		body,
	)
}

// PlainText returns the text content of an HTML fragment with tags removed
// and whitespace runs collapsed, e.g. "A <i>b</i>" -> "A b".
func PlainText(fragment string) (string, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTextExtraction, err)
	}

	var b strings.Builder
	for _, n := range nodes {
		collectText(&b, n)
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}

// collectText appends text nodes under n, skipping script and style bodies.
func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
		// Keep words on either side of <br> apart.
		if n.DataAtom == atom.Br {
			b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}
